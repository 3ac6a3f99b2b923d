package utils

import "time"

// ParseDate interpreta YYYY-MM-DD em UTC. String vazia retorna a data zero.
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, nil
	}

	return time.ParseInLocation(time.DateOnly, dateStr, time.UTC)
}

// Yesterday retorna o início e o fim (inclusivo) do dia anterior em UTC
func Yesterday(now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -1)
	return start, start
}
