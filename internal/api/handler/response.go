package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/insights-engine/pkg/apiErrors"
	"github.com/vfg2006/insights-engine/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("http: erro ao codificar resposta")
	}
}

// writeFailure loga e converte o erro de domínio no corpo de erro da API
func writeFailure(w http.ResponseWriter, r *http.Request, operation string, err error) {
	apiErr := apiErrors.FromDomainError(err)

	logger := log.ForContext(r.Context()).WithError(err).WithFields(log.Fields{
		"operation": operation,
		"code":      apiErr.Code,
	})
	if apiErrors.StatusFor(apiErr.Code) >= http.StatusInternalServerError {
		logger.Error("insights: operation failed")
	} else {
		logger.Warn("insights: request rejected")
	}

	apiErrors.WriteError(w, apiErr.Code, apiErr.Message, apiErr.Details)
}
