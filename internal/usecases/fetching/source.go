// Package fetching percorre fontes paginadas até a última página ou até o limite configurado
package fetching

import (
	"context"

	"github.com/vfg2006/insights-engine/internal/domain"
)

//go:generate mockgen -source=source.go -destination=mocks/source.go -package=mocks

// Source é uma consulta remota paginada por cursor
type Source interface {
	// Name identifica a fonte em logs, métricas e erros
	Name() string
	// Query busca uma página. cursor vazio significa a primeira página.
	Query(ctx context.Context, filter domain.QueryFilter, pageSize int, cursor string) (*domain.Page, error)
}
