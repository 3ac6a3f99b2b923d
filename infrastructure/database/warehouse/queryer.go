package warehouse

import (
	"context"
)

type Queryer interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}
