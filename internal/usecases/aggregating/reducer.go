package aggregating

import (
	"github.com/shopspring/decimal"
	"github.com/vfg2006/insights-engine/internal/domain"
)

// KeyFunc extrai a chave de agrupamento. Chave vazia ou ok=false vai para o bucket "unknown".
type KeyFunc func(record domain.RawRecord) (key string, ok bool)

// ValueFunc extrai os valores a somar de um registro
type ValueFunc func(record domain.RawRecord) map[string]decimal.Decimal

// GroupBy acumula os registros em buckets por chave.
// A soma e a contagem são comutativas, então a ordem de entrada não altera o resultado.
func GroupBy(records []domain.RawRecord, keyFn KeyFunc, valueFn ValueFunc) map[string]*domain.AggregateBucket {
	buckets := make(map[string]*domain.AggregateBucket)

	for _, record := range records {
		key, ok := keyFn(record)
		if !ok || key == "" {
			key = domain.UnknownKey
		}

		bucket, exists := buckets[key]
		if !exists {
			bucket = domain.NewAggregateBucket(key)
			buckets[key] = bucket
		}

		var values map[string]decimal.Decimal
		if valueFn != nil {
			values = valueFn(record)
		}

		Accumulate(bucket, values)
	}

	return buckets
}

// Accumulate soma um registro no bucket. Valores negativos são ignorados:
// estornos só entram quando a fonte os expõe em um campo próprio.
func Accumulate(bucket *domain.AggregateBucket, values map[string]decimal.Decimal) {
	bucket.Count++

	for field, value := range values {
		if value.IsNegative() {
			continue
		}
		bucket.Sums[field] = bucket.Sums[field].Add(value)
	}
}

// ByCategorical agrupa pelo valor de um campo categórico
func ByCategorical(field string) KeyFunc {
	return func(record domain.RawRecord) (string, bool) {
		return record.Categorical(field)
	}
}

// NumericFields copia os campos numéricos informados
func NumericFields(fields ...string) ValueFunc {
	return func(record domain.RawRecord) map[string]decimal.Decimal {
		values := make(map[string]decimal.Decimal, len(fields))
		for _, field := range fields {
			if value, ok := record.NumericFields[field]; ok {
				values[field] = value
			}
		}
		return values
	}
}

// CountOnly não soma nenhum campo, apenas conta
func CountOnly(domain.RawRecord) map[string]decimal.Decimal {
	return nil
}

// Counts achata os buckets em contagens por chave
func Counts(buckets map[string]*domain.AggregateBucket) map[string]int {
	counts := make(map[string]int, len(buckets))
	for key, bucket := range buckets {
		counts[key] = bucket.Count
	}
	return counts
}
