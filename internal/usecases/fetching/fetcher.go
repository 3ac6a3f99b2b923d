package fetching

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vfg2006/insights-engine/internal/config"
	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/pkg/log"
	"github.com/vfg2006/insights-engine/pkg/metrics"
)

const maxBackoffFactor = 8

type Options struct {
	PageSize     int
	MaxPages     int
	QueryTimeout time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// Fetcher percorre os cursores de uma fonte de forma sequencial
type Fetcher struct {
	opts  Options
	sleep func(ctx context.Context, d time.Duration) error
}

func NewFetcher(cfg *config.Config) *Fetcher {
	return NewFetcherWithOptions(Options{
		PageSize:     cfg.Engine.PageSize,
		MaxPages:     cfg.Engine.MaxPages,
		QueryTimeout: cfg.Engine.QueryTimeout,
		MaxRetries:   cfg.Engine.MaxRetries,
		RetryBackoff: cfg.Engine.RetryBackoff,
	})
}

func NewFetcherWithOptions(opts Options) *Fetcher {
	if opts.PageSize <= 0 {
		opts.PageSize = 250
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 100
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 30 * time.Second
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 500 * time.Millisecond
	}

	return &Fetcher{
		opts:  opts,
		sleep: sleepContext,
	}
}

func (f *Fetcher) Options() Options {
	return f.opts
}

// FetchAll segue os cursores até a fonte informar a última página ou até MaxPages.
// Ao atingir o limite com páginas pendentes o resultado volta com Truncated=true.
// Qualquer página com erro aborta a consulta inteira.
func (f *Fetcher) FetchAll(ctx context.Context, src Source, filter domain.QueryFilter) (*domain.FetchResult, error) {
	logger := log.ForContext(ctx).WithField("source", src.Name())
	started := time.Now()
	defer func() {
		metrics.SourceQueryDuration.WithLabelValues(src.Name()).Observe(time.Since(started).Seconds())
	}()

	result := &domain.FetchResult{Records: make([]domain.RawRecord, 0)}
	cursor := ""

	for {
		if result.Pages >= f.opts.MaxPages {
			result.Truncated = true
			result.Warning = domain.NewPageCapWarning(src.Name(), result.Pages)
			metrics.TruncatedQueries.WithLabelValues(src.Name()).Inc()

			logger.WithFields(log.Fields{
				"pages":   result.Pages,
				"records": len(result.Records),
			}).Warn("fetching: page cap reached, result is truncated")
			return result, nil
		}

		page, err := f.fetchPage(ctx, src, filter, cursor)
		if err != nil {
			logger.WithError(err).WithField("pages", result.Pages).Error("fetching: query aborted")
			return nil, err
		}

		result.Pages++
		result.Records = append(result.Records, page.Records...)
		metrics.SourcePages.WithLabelValues(src.Name()).Inc()

		logger.WithFields(log.Fields{
			"page":     result.Pages,
			"records":  len(page.Records),
			"has_next": page.HasNextPage,
		}).Debug("fetching: page fetched")

		if !page.HasNextPage {
			return result, nil
		}

		if page.NextCursor == "" || page.NextCursor == cursor {
			return nil, domain.NewMalformedPayloadError(src.Name(), errors.New("page reports more results without a new cursor"))
		}

		cursor = page.NextCursor
	}
}

// fetchPage busca uma página com timeout e repete erros transitórios com backoff limitado
func (f *Fetcher) fetchPage(ctx context.Context, src Source, filter domain.QueryFilter, cursor string) (*domain.Page, error) {
	var lastErr error

	for attempt := 0; attempt <= f.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := f.sleep(ctx, f.backoff(attempt)); err != nil {
				return nil, err
			}
		}

		page, err := f.queryWithTimeout(ctx, src, filter, cursor)
		if err == nil {
			return page, nil
		}

		lastErr = err

		var upstreamErr *domain.UpstreamError
		if !errors.As(err, &upstreamErr) || !upstreamErr.Temporary {
			kind := "terminal"
			if upstreamErr != nil && upstreamErr.IsTimeout() {
				kind = "timeout"
			}
			metrics.SourceErrors.WithLabelValues(src.Name(), kind).Inc()
			return nil, err
		}

		metrics.SourceErrors.WithLabelValues(src.Name(), "transient").Inc()

		log.ForContext(ctx).WithFields(log.Fields{
			"source":  src.Name(),
			"attempt": attempt + 1,
			"status":  upstreamErr.Status,
		}).Warn("fetching: transient upstream error")
	}

	return nil, lastErr
}

func (f *Fetcher) queryWithTimeout(ctx context.Context, src Source, filter domain.QueryFilter, cursor string) (*domain.Page, error) {
	queryCtx, cancel := context.WithTimeout(ctx, f.opts.QueryTimeout)
	defer cancel()

	page, err := src.Query(queryCtx, filter, f.opts.PageSize, cursor)
	if err != nil {
		// o contexto do chamador cancelado não é timeout da fonte
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// estouro do prazo da consulta é terminal e não entra no retry
		if errors.Is(queryCtx.Err(), context.DeadlineExceeded) {
			return nil, &domain.UpstreamError{
				Source: src.Name(),
				Status: http.StatusGatewayTimeout,
				Body:   "query timed out",
				Err:    err,
			}
		}
		return nil, err
	}

	if page == nil {
		return nil, domain.NewMalformedPayloadError(src.Name(), errors.New("empty page"))
	}

	return page, nil
}

func (f *Fetcher) backoff(attempt int) time.Duration {
	factor := 1 << (attempt - 1)
	if factor > maxBackoffFactor {
		factor = maxBackoffFactor
	}
	return f.opts.RetryBackoff * time.Duration(factor)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
