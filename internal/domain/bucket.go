package domain

import "github.com/shopspring/decimal"

// AggregateBucket acumula contagem e somas por chave.
// Count é sempre o número de registros que contribuíram para o bucket.
type AggregateBucket struct {
	Key   string
	Count int
	Sums  map[string]decimal.Decimal
}

func NewAggregateBucket(key string) *AggregateBucket {
	return &AggregateBucket{
		Key:  key,
		Sums: make(map[string]decimal.Decimal),
	}
}

// Sum retorna a soma acumulada do campo
func (b *AggregateBucket) Sum(field string) decimal.Decimal {
	return b.Sums[field]
}
