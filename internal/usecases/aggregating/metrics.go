package aggregating

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/insights-engine/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Average retorna sum/count, ou zero quando count é zero
func Average(sum decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(count)))
}

// Rate retorna numerator/denominator em pontos percentuais, ou zero quando o denominador é zero
func Rate(numerator, denominator int) decimal.Decimal {
	if denominator <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(numerator)).Mul(hundred).Div(decimal.NewFromInt(int64(denominator)))
}

// BucketAverage é a média de um campo do bucket
func BucketAverage(bucket *domain.AggregateBucket, field string) decimal.Decimal {
	if bucket == nil {
		return decimal.Zero
	}
	return Average(bucket.Sum(field), bucket.Count)
}

// CurrencyBreakdown agrupa os pedidos por moeda. Nunca soma moedas diferentes.
func CurrencyBreakdown(records []domain.RawRecord, fields ...string) map[string]*domain.AggregateBucket {
	return GroupBy(records, ByCategorical(domain.FieldCurrency), NumericFields(fields...))
}

// SingleCurrency retorna a moeda quando o breakdown tem exatamente uma
func SingleCurrency(breakdown map[string]*domain.AggregateBucket) (string, bool) {
	if len(breakdown) != 1 {
		return "", false
	}
	for currency := range breakdown {
		return currency, true
	}
	return "", false
}

// SortedKeys retorna as chaves do mapa em ordem lexicográfica
func SortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
