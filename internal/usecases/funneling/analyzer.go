// Package funneling calcula funis de conversão a partir de fontes de eventos
package funneling

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/internal/usecases/aggregating"
	"github.com/vfg2006/insights-engine/internal/usecases/fetching"
	"github.com/vfg2006/insights-engine/pkg/log"
)

// Nomes das etapas do CVR
const (
	BaseStep       = "base"
	ConversionStep = "conversion"
)

// SegmentableSource é implementada pelas fontes que limitam as dimensões de segmentação
type SegmentableSource interface {
	Dimensions() []string
}

// stepResult é o resultado isolado de uma etapa. Cada goroutine escreve apenas no seu índice.
type stepResult struct {
	count     int
	segments  map[string]int
	truncated bool
	warning   *domain.PartialDataWarning
}

type Analyzer struct {
	fetcher        *fetching.Fetcher
	source         fetching.Source
	maxConcurrency int
}

func NewAnalyzer(fetcher *fetching.Fetcher, source fetching.Source, maxConcurrency int) *Analyzer {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	return &Analyzer{
		fetcher:        fetcher,
		source:         source,
		maxConcurrency: maxConcurrency,
	}
}

// AnalyzeFunnel executa uma consulta por etapa em paralelo e monta o funil geral e,
// quando segmentBy é informado, um funil por valor de segmento.
// Qualquer etapa com erro faz o funil inteiro falhar.
func (a *Analyzer) AnalyzeFunnel(ctx context.Context, steps []domain.FunnelStep, filter domain.QueryFilter, segmentBy string) (*domain.FunnelResult, error) {
	if err := ValidateSteps(steps); err != nil {
		return nil, err
	}

	if err := a.validateSegment(segmentBy); err != nil {
		return nil, err
	}

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"source":     a.source.Name(),
		"steps":      len(steps),
		"segment_by": segmentBy,
	})
	logger.Info("funnel: analyzing funnel")

	results, err := a.fetchSteps(ctx, steps, filter, segmentBy)
	if err != nil {
		logger.WithError(err).Error("funnel: step query failed")
		return nil, err
	}

	return merge(steps, results, filter, segmentBy), nil
}

// CVR é um funil de duas etapas: eventos base seguidos de eventos de conversão
func (a *Analyzer) CVR(ctx context.Context, baseEvents, conversionEvents []string, filter domain.QueryFilter, segmentBy string) (*domain.CVRResult, error) {
	steps := []domain.FunnelStep{
		{Name: BaseStep, EventNames: baseEvents},
		{Name: ConversionStep, EventNames: conversionEvents},
	}

	funnel, err := a.AnalyzeFunnel(ctx, steps, filter, segmentBy)
	if err != nil {
		return nil, err
	}

	result := &domain.CVRResult{
		StartDate:  funnel.StartDate,
		EndDate:    funnel.EndDate,
		SegmentCVR: toCVR(&funnel.SegmentFunnel),
		SegmentBy:  funnel.SegmentBy,
		Truncated:  funnel.Truncated,
		Warnings:   funnel.Warnings,
	}

	if segmentBy != "" {
		result.Segments = make(map[string]*domain.SegmentCVR, len(funnel.Segments))
		for segment, segmentFunnel := range funnel.Segments {
			cvr := toCVR(segmentFunnel)
			result.Segments[segment] = &cvr
		}
	}

	return result, nil
}

func (a *Analyzer) fetchSteps(ctx context.Context, steps []domain.FunnelStep, filter domain.QueryFilter, segmentBy string) ([]stepResult, error) {
	results := make([]stepResult, len(steps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrency)

	for i, step := range steps {
		g.Go(func() error {
			started := time.Now()

			fetched, err := a.fetcher.FetchAll(gctx, a.source, filter.WithEventNames(step.EventNames))
			if err != nil {
				return fmt.Errorf("funnel step %q: %w", step.Name, err)
			}

			result := stepResult{
				count:     len(fetched.Records),
				truncated: fetched.Truncated,
				warning:   fetched.Warning,
			}

			if segmentBy != "" {
				result.segments = aggregating.Counts(aggregating.GroupBy(
					fetched.Records,
					aggregating.ByCategorical(segmentBy),
					aggregating.CountOnly,
				))
			}

			results[i] = result

			log.ForContext(ctx).WithFields(log.Fields{
				"step":        step.Name,
				"count":       result.count,
				"truncated":   result.truncated,
				"duration_ms": time.Since(started).Milliseconds(),
			}).Debug("funnel: step query finished")

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// merge monta o resultado final em uma única goroutine, indexando por (etapa, segmento)
func merge(steps []domain.FunnelStep, results []stepResult, filter domain.QueryFilter, segmentBy string) *domain.FunnelResult {
	names := lo.Map(steps, func(step domain.FunnelStep, _ int) string { return step.Name })
	counts := lo.Map(results, func(r stepResult, _ int) int { return r.count })

	funnel := &domain.FunnelResult{
		StartDate:     filter.StartDate.Format(time.DateOnly),
		EndDate:       filter.EndDate.Format(time.DateOnly),
		SegmentFunnel: buildFunnel(names, counts),
		SegmentBy:     segmentBy,
	}

	for _, r := range results {
		if r.truncated {
			funnel.Truncated = true
		}
		if r.warning != nil {
			funnel.Warnings = append(funnel.Warnings, r.warning)
		}
	}

	if segmentBy == "" {
		return funnel
	}

	// união dos segmentos observados em todas as etapas
	segments := lo.Uniq(lo.FlatMap(results, func(r stepResult, _ int) []string {
		return lo.Keys(r.segments)
	}))
	slices.Sort(segments)

	funnel.Segments = make(map[string]*domain.SegmentFunnel, len(segments))
	for _, segment := range segments {
		segmentCounts := make([]int, len(results))
		for i, r := range results {
			segmentCounts[i] = r.segments[segment]
		}

		segmentFunnel := buildFunnel(names, segmentCounts)
		funnel.Segments[segment] = &segmentFunnel
	}

	return funnel
}

func buildFunnel(names []string, counts []int) domain.SegmentFunnel {
	funnel := domain.SegmentFunnel{
		Steps:       make([]domain.StepCount, len(names)),
		Conversions: make([]domain.StepConversion, 0, len(names)-1),
	}

	for i, name := range names {
		funnel.Steps[i] = domain.StepCount{Name: name, Count: counts[i]}
		if i == 0 {
			continue
		}

		funnel.Conversions = append(funnel.Conversions, domain.StepConversion{
			From: names[i-1],
			To:   name,
			Rate: domain.NewPercent(aggregating.Rate(counts[i], counts[i-1])),
		})
	}

	if len(counts) > 0 {
		funnel.OverallConversion = domain.NewPercent(aggregating.Rate(counts[len(counts)-1], counts[0]))
	}

	return funnel
}

func toCVR(funnel *domain.SegmentFunnel) domain.SegmentCVR {
	base := funnel.Count(BaseStep)
	conversion := funnel.Count(ConversionStep)

	return domain.SegmentCVR{
		BaseCount:       base,
		ConversionCount: conversion,
		CVR:             domain.NewPercent(aggregating.Rate(conversion, base)),
	}
}

func (a *Analyzer) validateSegment(segmentBy string) error {
	if segmentBy == "" {
		return nil
	}

	segmentable, ok := a.source.(SegmentableSource)
	if !ok {
		return nil
	}

	if !slices.Contains(segmentable.Dimensions(), segmentBy) {
		return domain.NewInvalidArgumentError("segment_by", fmt.Sprintf("unsupported dimension %q, expected one of %v", segmentBy, segmentable.Dimensions()))
	}

	return nil
}
