package handler

import (
	"errors"
	"net/http"

	"github.com/vfg2006/insights-engine/internal/scheduler"
	"github.com/vfg2006/insights-engine/pkg/apiErrors"
	"github.com/vfg2006/insights-engine/pkg/log"
)

// DailyReporter é o agendador do relatório diário
type DailyReporter interface {
	TriggerManualRun() (string, error)
	GetStatus() map[string]any
}

// RunDailyReport executa manualmente o relatório diário
func RunDailyReport(reporter DailyReporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runID, err := reporter.TriggerManualRun()
		if errors.Is(err, scheduler.ErrReportAlreadyRunning) {
			apiErrors.WriteError(w, apiErrors.ErrAlreadyRunning, "O relatório diário já está em execução", nil)
			return
		}
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("report: erro ao iniciar execução manual")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao iniciar o relatório diário", nil)
			return
		}

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Relatório diário iniciado com sucesso",
			"run_id":  runID,
		})
	})
}

// GetDailyReportStatus retorna o status do agendador do relatório
func GetDailyReportStatus(reporter DailyReporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, reporter.GetStatus())
	})
}
