package shopifyclient

import (
	"fmt"
	"strings"
	"time"

	"github.com/vfg2006/insights-engine/internal/domain"
)

// predicados aceitos na sintaxe de busca de pedidos
var allowedPredicates = map[string]struct{}{
	"financial_status":   {},
	"fulfillment_status": {},
	"status":             {},
	"tag":                {},
	"source_name":        {},
	"currency":           {},
}

var searchEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// SearchQuery monta o argumento query da busca de pedidos a partir do filtro.
// Chaves fora da lista de predicados falham antes de qualquer requisição.
func SearchQuery(filter domain.QueryFilter) (string, error) {
	terms := []string{
		fmt.Sprintf("created_at:>='%s'", filter.StartDate.UTC().Format(time.RFC3339)),
		fmt.Sprintf("created_at:<'%s'", filter.Until().UTC().Format(time.RFC3339)),
	}

	for _, key := range filter.SortedPredicateKeys() {
		if _, ok := allowedPredicates[key]; !ok {
			return "", domain.NewInvalidArgumentError(key, "unsupported filter for shopify orders")
		}

		value, _ := filter.Predicate(key)
		terms = append(terms, fmt.Sprintf("%s:'%s'", key, searchEscaper.Replace(value)))
	}

	return strings.Join(terms, " AND "), nil
}
