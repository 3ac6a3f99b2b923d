package repository

import (
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/insights-engine/internal/domain"
)

const cursorSeparator = "|"

// encodeTimeCursor serializa a chave (timestamp, id) da última linha lida
func encodeTimeCursor(ts time.Time, id string) string {
	return strconv.FormatInt(ts.UTC().UnixNano(), 10) + cursorSeparator + id
}

func decodeTimeCursor(cursor string) (time.Time, string, error) {
	raw, id, ok := strings.Cut(cursor, cursorSeparator)
	if !ok || id == "" {
		return time.Time{}, "", domain.NewInvalidArgumentError("cursor", "malformed cursor")
	}

	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, "", domain.NewInvalidArgumentError("cursor", "malformed cursor")
	}

	return time.Unix(0, nanos).UTC(), id, nil
}

// predicateColumns valida as chaves contra as colunas permitidas. Os valores seguem como bind.
func predicateColumns(filter domain.QueryFilter, columns map[string]string, source string) (map[string]any, error) {
	eq := make(map[string]any, len(filter.Predicates))

	for _, key := range filter.SortedPredicateKeys() {
		column, ok := columns[key]
		if !ok {
			return nil, domain.NewInvalidArgumentError(key, "unsupported filter for "+source)
		}
		value, _ := filter.Predicate(key)
		eq[column] = value
	}

	return eq, nil
}
