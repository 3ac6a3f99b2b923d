package payments

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/vfg2006/insights-engine/internal/config"
	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/internal/usecases/fetching"
	"github.com/vfg2006/insights-engine/pkg/log"
)

const (
	SourceName = "stripe"

	// maior limit aceito pela listagem da Stripe
	maxPageSize = 100

	predicateCustomer = "customer"
)

// predicados aplicados localmente depois da listagem
var localPredicates = []string{domain.FieldFinancialStatus, domain.FieldCurrency}

// ChargeSource expõe cobranças da Stripe como pedidos
type ChargeSource struct {
	api *client.API
}

// New cria a fonte usando o backend padrão da Stripe
func New(cfg *config.Config) fetching.Source {
	return NewWithAPI(client.New(cfg.Stripe.SecretKey, nil))
}

func NewWithAPI(api *client.API) fetching.Source {
	return &ChargeSource{api: api}
}

func (s *ChargeSource) Name() string {
	return SourceName
}

// Query lê uma página da listagem de cobranças. O cursor é o id da última cobrança lida.
func (s *ChargeSource) Query(ctx context.Context, filter domain.QueryFilter, pageSize int, cursor string) (*domain.Page, error) {
	params, err := listParams(ctx, filter, pageSize, cursor)
	if err != nil {
		return nil, err
	}

	iter := s.api.Charges.List(params)

	page := &domain.Page{Records: make([]domain.RawRecord, 0)}
	lastID := ""

	for iter.Next() {
		charge := iter.Charge()
		lastID = charge.ID

		if charge.Status != stripe.ChargeStatusSucceeded {
			continue
		}

		record := toRecord(charge)
		if !matchesLocal(record, filter) {
			continue
		}

		page.Records = append(page.Records, record)
	}

	if err := iter.Err(); err != nil {
		return nil, toUpstreamError(ctx, err)
	}

	if meta := iter.Meta(); meta != nil && meta.HasMore {
		page.HasNextPage = true
		page.NextCursor = lastID
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"charges":  len(page.Records),
		"has_next": page.HasNextPage,
	}).Debug("stripe: charges page mapped")

	return page, nil
}

func listParams(ctx context.Context, filter domain.QueryFilter, pageSize int, cursor string) (*stripe.ChargeListParams, error) {
	params := &stripe.ChargeListParams{
		CreatedRange: &stripe.RangeQueryParams{
			GreaterThanOrEqual: filter.StartDate.Unix(),
			LesserThan:         filter.Until().Unix(),
		},
	}
	params.Context = ctx
	params.Single = true
	params.Limit = stripe.Int64(int64(min(max(pageSize, 1), maxPageSize)))

	if cursor != "" {
		params.StartingAfter = stripe.String(cursor)
	}

	for _, key := range filter.SortedPredicateKeys() {
		value, _ := filter.Predicate(key)

		switch key {
		case predicateCustomer:
			params.Customer = stripe.String(value)
		case domain.FieldFinancialStatus, domain.FieldCurrency:
		default:
			return nil, domain.NewInvalidArgumentError(key, "unsupported filter for stripe charges")
		}
	}

	return params, nil
}

func toRecord(charge *stripe.Charge) domain.RawRecord {
	currency := strings.ToUpper(string(charge.Currency))

	return domain.RawRecord{
		ID:        charge.ID,
		Timestamp: time.Unix(charge.Created, 0).UTC(),
		NumericFields: map[string]decimal.Decimal{
			domain.FieldTotalPrice:    fromMinorUnits(charge.Amount, currency),
			domain.FieldTotalRefunded: fromMinorUnits(charge.AmountRefunded, currency),
		},
		CategoricalFields: map[string]string{
			domain.FieldCurrency:        currency,
			domain.FieldFinancialStatus: financialStatus(charge),
		},
	}
}

func financialStatus(charge *stripe.Charge) string {
	switch {
	case charge.Refunded || (charge.AmountRefunded > 0 && charge.AmountRefunded >= charge.Amount):
		return "refunded"
	case charge.AmountRefunded > 0:
		return "partially_refunded"
	}
	return "paid"
}

func matchesLocal(record domain.RawRecord, filter domain.QueryFilter) bool {
	for _, key := range localPredicates {
		expected, ok := filter.Predicate(key)
		if !ok {
			continue
		}

		value, _ := record.Categorical(key)
		if !strings.EqualFold(value, expected) {
			return false
		}
	}
	return true
}

func toUpstreamError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		upstreamErr := domain.NewUpstreamError(SourceName, stripeErr.HTTPStatusCode, stripeErr.Msg)
		upstreamErr.Err = err
		return upstreamErr
	}

	return &domain.UpstreamError{
		Source:    SourceName,
		Status:    http.StatusServiceUnavailable,
		Temporary: true,
		Err:       err,
	}
}
