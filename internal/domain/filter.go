package domain

import (
	"maps"
	"slices"
	"time"
)

// QueryFilter é o filtro imutável de uma consulta. As datas são inclusivas e em UTC.
type QueryFilter struct {
	StartDate  time.Time
	EndDate    time.Time
	Predicates map[string]string
	EventNames []string
}

// NewQueryFilter valida o intervalo e copia os predicados
func NewQueryFilter(startDate, endDate time.Time, predicates map[string]string) (QueryFilter, error) {
	if startDate.IsZero() {
		return QueryFilter{}, NewInvalidArgumentError("start_date", "start_date is required")
	}

	if endDate.IsZero() {
		return QueryFilter{}, NewInvalidArgumentError("end_date", "end_date is required")
	}

	startDate = truncateToDay(startDate)
	endDate = truncateToDay(endDate)

	if startDate.After(endDate) {
		return QueryFilter{}, NewInvalidArgumentError("start_date", "start_date must not be after end_date")
	}

	return QueryFilter{
		StartDate:  startDate,
		EndDate:    endDate,
		Predicates: maps.Clone(predicates),
	}, nil
}

// Until retorna o limite superior exclusivo do intervalo (dia seguinte ao EndDate)
func (f QueryFilter) Until() time.Time {
	return f.EndDate.AddDate(0, 0, 1)
}

// WithEventNames retorna uma cópia do filtro restrita aos eventos informados
func (f QueryFilter) WithEventNames(names []string) QueryFilter {
	clone := f
	clone.Predicates = maps.Clone(f.Predicates)
	clone.EventNames = slices.Clone(names)
	return clone
}

// WithPredicate retorna uma cópia do filtro com um predicado adicional
func (f QueryFilter) WithPredicate(key, value string) QueryFilter {
	clone := f
	clone.Predicates = maps.Clone(f.Predicates)
	if clone.Predicates == nil {
		clone.Predicates = make(map[string]string, 1)
	}
	clone.Predicates[key] = value
	clone.EventNames = slices.Clone(f.EventNames)
	return clone
}

// Predicate retorna o valor de um predicado
func (f QueryFilter) Predicate(key string) (string, bool) {
	value, ok := f.Predicates[key]
	return value, ok && value != ""
}

// SortedPredicateKeys retorna as chaves dos predicados em ordem
func (f QueryFilter) SortedPredicateKeys() []string {
	return slices.Sorted(maps.Keys(f.Predicates))
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
