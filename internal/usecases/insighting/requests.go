package insighting

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/vfg2006/insights-engine/internal/domain"
)

const defaultProductLimit = 10

var validate = newValidator()

// DateRange é o intervalo inclusivo, em UTC, de todas as operações
type DateRange struct {
	StartDate time.Time `mapstructure:"start_date" validate:"required"`
	EndDate   time.Time `mapstructure:"end_date" validate:"required,gtefield=StartDate"`
}

type SalesSummaryRequest struct {
	DateRange `mapstructure:",squash"`
	Currency  string            `mapstructure:"currency" validate:"omitempty,len=3,alpha"`
	Filters   map[string]string `mapstructure:"filters"`
}

type ProductSalesRequest struct {
	DateRange `mapstructure:",squash"`
	Currency  string            `mapstructure:"currency" validate:"omitempty,len=3,alpha"`
	Limit     *int              `mapstructure:"limit" validate:"omitempty,gt=0"`
	Filters   map[string]string `mapstructure:"filters"`
}

type SalesTrendsRequest struct {
	DateRange `mapstructure:",squash"`
	Interval  domain.Interval   `mapstructure:"interval" validate:"required,oneof=daily weekly monthly"`
	Currency  string            `mapstructure:"currency" validate:"omitempty,len=3,alpha"`
	Filters   map[string]string `mapstructure:"filters"`
}

type FunnelRequest struct {
	DateRange `mapstructure:",squash"`
	Steps     []domain.FunnelStep `mapstructure:"steps" validate:"required,min=2,dive"`
	SegmentBy string              `mapstructure:"segment_by"`
	Filters   map[string]string   `mapstructure:"filters"`
}

type CVRRequest struct {
	DateRange        `mapstructure:",squash"`
	BaseEvents       []string          `mapstructure:"base_events" validate:"required,min=1,dive,required"`
	ConversionEvents []string          `mapstructure:"conversion_events" validate:"required,min=1,dive,required"`
	SegmentBy        string            `mapstructure:"segment_by"`
	Filters          map[string]string `mapstructure:"filters"`
}

// DecodeSalesSummaryRequest converte argumentos soltos em uma requisição tipada e validada
func DecodeSalesSummaryRequest(args map[string]any) (SalesSummaryRequest, error) {
	var req SalesSummaryRequest
	if err := decode(args, &req); err != nil {
		return req, err
	}
	req.Currency = strings.ToUpper(req.Currency)
	return req, check(req)
}

func DecodeProductSalesRequest(args map[string]any) (ProductSalesRequest, error) {
	var req ProductSalesRequest
	if err := decode(args, &req); err != nil {
		return req, err
	}
	req.Currency = strings.ToUpper(req.Currency)
	return req, check(req)
}

func DecodeSalesTrendsRequest(args map[string]any) (SalesTrendsRequest, error) {
	var req SalesTrendsRequest
	if err := decode(args, &req); err != nil {
		return req, err
	}
	if req.Interval == "" {
		req.Interval = domain.IntervalDaily
	}
	req.Currency = strings.ToUpper(req.Currency)
	return req, check(req)
}

func DecodeFunnelRequest(args map[string]any) (FunnelRequest, error) {
	var req FunnelRequest
	if err := decode(args, &req); err != nil {
		return req, err
	}
	return req, check(req)
}

func DecodeCVRRequest(args map[string]any) (CVRRequest, error) {
	var req CVRRequest
	if err := decode(args, &req); err != nil {
		return req, err
	}
	return req, check(req)
}

// Filter monta o filtro imutável da consulta
func (r DateRange) Filter(predicates map[string]string) (domain.QueryFilter, error) {
	return domain.NewQueryFilter(r.StartDate, r.EndDate, predicates)
}

// EffectiveLimit retorna o limite informado ou o padrão
func (r ProductSalesRequest) EffectiveLimit(fallback int) int {
	if r.Limit != nil {
		return *r.Limit
	}
	if fallback > 0 {
		return fallback
	}
	return defaultProductLimit
}

func decode(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.DateOnly),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(args); err != nil {
		return domain.NewInvalidArgumentError("", err.Error())
	}

	return nil
}

func check(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return domain.NewInvalidArgumentError("", err.Error())
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		messages = append(messages, validationMessage(fieldErr))
	}

	return domain.NewInvalidArgumentError(validationErrs[0].Field(), strings.Join(messages, "; "))
}

func validationMessage(fieldErr validator.FieldError) string {
	field := fieldErr.Field()

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gtefield":
		return fmt.Sprintf("%s must not be before start_date", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fieldErr.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fieldErr.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s items", field, fieldErr.Param())
	case "len", "alpha":
		return fmt.Sprintf("%s must be a 3-letter currency code", field)
	}

	return fmt.Sprintf("%s is invalid (%s)", field, fieldErr.Tag())
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// usa os nomes externos dos campos nas mensagens
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return v
}
