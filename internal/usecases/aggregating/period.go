// Package aggregating reúne as funções puras de agrupamento, janelas de tempo e métricas
package aggregating

import (
	"fmt"
	"time"

	"github.com/vfg2006/insights-engine/internal/domain"
)

const monthLayout = "2006-01"

// PeriodKey mapeia um timestamp para a chave do período em UTC.
// As chaves ordenam lexicograficamente na ordem cronológica.
func PeriodKey(ts time.Time, interval domain.Interval) (string, error) {
	ts = ts.UTC()

	switch interval {
	case domain.IntervalDaily:
		return ts.Format(time.DateOnly), nil
	case domain.IntervalWeekly:
		return WeekStart(ts).Format(time.DateOnly), nil
	case domain.IntervalMonthly:
		return ts.Format(monthLayout), nil
	}

	return "", domain.NewInvalidArgumentError("interval", fmt.Sprintf("unsupported interval %q, expected daily, weekly or monthly", interval))
}

// WeekStart retorna o domingo igual ou anterior à data, à meia-noite UTC
func WeekStart(ts time.Time) time.Time {
	ts = ts.UTC()
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(day.Weekday()))
}
