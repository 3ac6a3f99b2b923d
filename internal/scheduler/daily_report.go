// Package scheduler contém os serviços agendados do motor de insights
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/insights-engine/internal/config"
	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/internal/usecases/insighting"
	"github.com/vfg2006/insights-engine/pkg/log"
	"github.com/vfg2006/insights-engine/pkg/utils"
	"golang.org/x/sync/errgroup"
)

var ErrReportAlreadyRunning = errors.New("daily report is already running")

type DailyReportConfig struct {
	CronSchedule string
	Enabled      bool
	FunnelSteps  []domain.FunnelStep
	SegmentBy    string
}

// DailyReport é o resultado de uma execução. Não é persistido, apenas registrado em log.
type DailyReport struct {
	RunID   string               `json:"run_id"`
	Date    string               `json:"date"`
	Summary *domain.SalesSummary `json:"summary"`
	Funnel  *domain.FunnelResult `json:"funnel,omitempty"`
}

type DailyReportService struct {
	scheduler *gocron.Scheduler
	insighter insighting.CombinedInsighter
	config    DailyReportConfig
	now       func() time.Time
	baseCtx   context.Context

	runMutex       sync.Mutex
	running        bool
	lastRunID      string
	lastStartedAt  time.Time
	lastFinishedAt time.Time
	lastError      string
}

func NewDailyReportService(insighter insighting.CombinedInsighter, cfg *config.Config) (*DailyReportService, error) {
	steps, err := ParseFunnelSteps(cfg.Report.FunnelSteps)
	if err != nil {
		return nil, err
	}

	reportConfig := DailyReportConfig{
		CronSchedule: cfg.Report.CronSchedule,
		Enabled:      cfg.Report.Enabled,
		FunnelSteps:  steps,
		SegmentBy:    cfg.Report.SegmentBy,
	}

	log.L.WithFields(log.Fields{
		"cron_schedule": reportConfig.CronSchedule,
		"funnel_steps":  len(steps),
	}).Info("report: scheduler configuration loaded")

	return &DailyReportService{
		scheduler: gocron.NewScheduler(time.UTC),
		insighter: insighter,
		config:    reportConfig,
		now:       time.Now,
		baseCtx:   context.Background(),
	}, nil
}

func (s *DailyReportService) Start(ctx context.Context) error {
	s.baseCtx = ctx

	if !s.config.Enabled {
		log.L.Info("report: daily report disabled by configuration")
		return nil
	}

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		runID, err := s.begin()
		if err != nil {
			log.L.WithError(err).Warn("report: scheduled run skipped")
			return
		}
		s.execute(s.baseCtx, runID)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar relatório diário: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("report: stopping scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualRun inicia uma execução em segundo plano e devolve o id da execução
func (s *DailyReportService) TriggerManualRun() (string, error) {
	runID, err := s.begin()
	if err != nil {
		return "", err
	}

	log.L.WithField("run_id", runID).Info("report: manual run requested")
	go s.execute(s.baseCtx, runID)

	return runID, nil
}

// GetStatus retorna o status atual do agendador
func (s *DailyReportService) GetStatus() map[string]any {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()

	return map[string]any{
		"enabled":          s.config.Enabled,
		"cron":             s.config.CronSchedule,
		"running":          s.running,
		"last_run_id":      s.lastRunID,
		"last_started_at":  s.lastStartedAt,
		"last_finished_at": s.lastFinishedAt,
		"last_error":       s.lastError,
	}
}

// begin marca a execução como em andamento. Só uma execução por vez.
func (s *DailyReportService) begin() (string, error) {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()

	if s.running {
		return "", ErrReportAlreadyRunning
	}

	runID, err := utils.GenerateID()
	if err != nil {
		return "", err
	}

	s.running = true
	s.lastRunID = runID
	s.lastStartedAt = s.now()
	s.lastError = ""

	return runID, nil
}

func (s *DailyReportService) execute(ctx context.Context, runID string) {
	report, err := s.Run(ctx, runID)

	s.runMutex.Lock()
	s.running = false
	s.lastFinishedAt = s.now()
	if err != nil {
		s.lastError = err.Error()
	}
	s.runMutex.Unlock()

	logger := log.ForContext(ctx).WithField("run_id", runID)
	if err != nil {
		logger.WithError(err).Error("report: daily report failed")
		return
	}

	fields := log.Fields{
		"date":           report.Date,
		"total_orders":   report.Summary.TotalOrders,
		"mixed_currency": report.Summary.MixedCurrency,
		"truncated":      report.Summary.Truncated,
	}
	if report.Summary.TotalSales != nil {
		fields["total_sales"] = report.Summary.TotalSales.String()
	}
	if report.Funnel != nil {
		fields["overall_conversion"] = report.Funnel.OverallConversion.String()
	}
	logger.WithFields(fields).Info("report: daily report completed")
}

// Run calcula o resumo de vendas e o funil do dia anterior (UTC)
func (s *DailyReportService) Run(ctx context.Context, runID string) (*DailyReport, error) {
	start, end := utils.Yesterday(s.now().UTC())
	dates := insighting.DateRange{StartDate: start, EndDate: end}

	report := &DailyReport{
		RunID: runID,
		Date:  start.Format(time.DateOnly),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := s.insighter.GetSalesSummary(gctx, insighting.SalesSummaryRequest{DateRange: dates})
		if err != nil {
			return fmt.Errorf("sales summary: %w", err)
		}
		report.Summary = summary
		return nil
	})

	if len(s.config.FunnelSteps) > 0 {
		g.Go(func() error {
			funnel, err := s.insighter.AnalyzeFunnel(gctx, insighting.FunnelRequest{
				DateRange: dates,
				Steps:     s.config.FunnelSteps,
				SegmentBy: s.config.SegmentBy,
			})
			if err != nil {
				return fmt.Errorf("funnel: %w", err)
			}
			report.Funnel = funnel
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return report, nil
}

// ParseFunnelSteps interpreta etapas no formato "nome:evento|evento"
func ParseFunnelSteps(definitions []string) ([]domain.FunnelStep, error) {
	steps := make([]domain.FunnelStep, 0, len(definitions))
	for _, definition := range definitions {
		definition = strings.TrimSpace(definition)
		if definition == "" {
			continue
		}

		name, events, ok := strings.Cut(definition, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, domain.NewConfigurationError("REPORT_FUNNEL_STEPS", fmt.Sprintf("invalid step %q, expected name:event|event", definition))
		}

		eventNames := make([]string, 0)
		for _, event := range strings.Split(events, "|") {
			if event = strings.TrimSpace(event); event != "" {
				eventNames = append(eventNames, event)
			}
		}
		if len(eventNames) == 0 {
			return nil, domain.NewConfigurationError("REPORT_FUNNEL_STEPS", fmt.Sprintf("step %q has no events", name))
		}

		steps = append(steps, domain.FunnelStep{Name: strings.TrimSpace(name), EventNames: eventNames})
	}

	if len(steps) == 1 {
		return nil, domain.NewConfigurationError("REPORT_FUNNEL_STEPS", "a funnel needs at least two steps")
	}

	return steps, nil
}
