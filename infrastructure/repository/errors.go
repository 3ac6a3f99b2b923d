package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"net/http"

	"github.com/vfg2006/insights-engine/internal/domain"
)

// queryError classifica falhas do banco. Cancelamento e timeout do contexto voltam como estão.
func queryError(ctx context.Context, source string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) {
		return &domain.UpstreamError{
			Source:    source,
			Status:    http.StatusServiceUnavailable,
			Body:      "connection failed",
			Temporary: true,
			Err:       err,
		}
	}

	return &domain.UpstreamError{
		Source: source,
		Status: http.StatusBadGateway,
		Body:   "query failed",
		Err:    err,
	}
}
