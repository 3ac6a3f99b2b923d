package handler

import (
	"io"
	"net/http"

	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/internal/usecases/insighting"
)

const maxBodyBytes = 1 << 20

// bodyArgs decodifica o corpo JSON em argumentos soltos para os Decode* do caso de uso
func bodyArgs(r *http.Request) (map[string]any, error) {
	args := make(map[string]any)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.NewInvalidArgumentError("", "could not read request body")
	}

	if len(body) == 0 {
		return args, nil
	}

	if err := json.Unmarshal(body, &args); err != nil {
		return nil, domain.NewInvalidArgumentError("", "request body must be a JSON object")
	}

	return args, nil
}

// AnalyzeFunnel calcula as contagens e conversões por etapa
func AnalyzeFunnel(service insighting.FunnelInsighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		args, err := bodyArgs(r)
		if err != nil {
			writeFailure(w, r, "funnel", err)
			return
		}

		req, err := insighting.DecodeFunnelRequest(args)
		if err != nil {
			writeFailure(w, r, "funnel", err)
			return
		}

		result, err := service.AnalyzeFunnel(r.Context(), req)
		if err != nil {
			writeFailure(w, r, "funnel", err)
			return
		}

		writeJSON(w, r, http.StatusOK, result)
	})
}

// GetCVR calcula a taxa de conversão entre os eventos base e de conversão
func GetCVR(service insighting.FunnelInsighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		args, err := bodyArgs(r)
		if err != nil {
			writeFailure(w, r, "cvr", err)
			return
		}

		req, err := insighting.DecodeCVRRequest(args)
		if err != nil {
			writeFailure(w, r, "cvr", err)
			return
		}

		result, err := service.GetCVR(r.Context(), req)
		if err != nil {
			writeFailure(w, r, "cvr", err)
			return
		}

		writeJSON(w, r, http.StatusOK, result)
	})
}
