package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/insights-engine/infrastructure/database/clickhouse"
	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/internal/usecases/fetching"
)

const (
	analyticsEventsTable = "analytics_events"

	ClickHouseEventsSource = "clickhouse"
)

var analyticsDimensionColumns = map[string]string{
	"user_id":     "user_id",
	"session_id":  "session_id",
	"page_path":   "page_path",
	"referrer":    "referrer",
	"device_type": "device_type",
	"country":     "country",
	"utm_source":  "utm_source",
}

var analyticsSegmentDimensions = []string{"country", "device_type", "page_path", "referrer", "utm_source"}

type analyticsEventRow struct {
	EventID    string    `ch:"event_id"`
	EventType  string    `ch:"event_type"`
	UserID     string    `ch:"user_id"`
	SessionID  string    `ch:"session_id"`
	Timestamp  time.Time `ch:"timestamp"`
	PagePath   string    `ch:"page_path"`
	Referrer   string    `ch:"referrer"`
	DeviceType string    `ch:"device_type"`
	Country    string    `ch:"country"`
	UTMSource  string    `ch:"utm_source"`
	DurationMs int64     `ch:"duration_ms"`
}

type clickHouseEventRepository struct {
	conn clickhouse.Selecter
}

// NewClickHouseEventRepository expõe analytics_events como fonte de eventos
func NewClickHouseEventRepository(conn clickhouse.Selecter) fetching.Source {
	return newClickHouseEventRepository(conn)
}

func newClickHouseEventRepository(conn clickhouse.Selecter) *clickHouseEventRepository {
	return &clickHouseEventRepository{conn: conn}
}

func (r *clickHouseEventRepository) Name() string {
	return ClickHouseEventsSource
}

func (r *clickHouseEventRepository) Dimensions() []string {
	return analyticsSegmentDimensions
}

func (r *clickHouseEventRepository) Query(ctx context.Context, filter domain.QueryFilter, pageSize int, cursor string) (*domain.Page, error) {
	query, args, err := r.eventsQuery(filter, pageSize, cursor)
	if err != nil {
		return nil, err
	}

	rows := make([]analyticsEventRow, 0, pageSize+1)
	if err := r.conn.Select(ctx, &rows, query, args...); err != nil {
		return nil, queryError(ctx, ClickHouseEventsSource, err)
	}

	page := &domain.Page{Records: make([]domain.RawRecord, 0, len(rows))}
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		page.HasNextPage = true
		page.NextCursor = encodeTimeCursor(last.Timestamp, last.EventID)
	}

	for _, row := range rows {
		page.Records = append(page.Records, row.toRecord())
	}

	return page, nil
}

func (r *clickHouseEventRepository) eventsQuery(filter domain.QueryFilter, pageSize int, cursor string) (string, []interface{}, error) {
	eq, err := predicateColumns(filter, analyticsDimensionColumns, ClickHouseEventsSource)
	if err != nil {
		return "", nil, err
	}

	builder := squirrel.
		Select("event_id, event_type, user_id, session_id, timestamp, page_path, referrer, device_type, country, utm_source, duration_ms").
		From(analyticsEventsTable).
		Where(squirrel.GtOrEq{"timestamp": filter.StartDate}).
		Where(squirrel.Lt{"timestamp": filter.Until()}).
		OrderBy("timestamp ASC", "event_id ASC").
		Limit(uint64(pageSize + 1)).
		PlaceholderFormat(squirrel.Question)

	if len(filter.EventNames) > 0 {
		builder = builder.Where(squirrel.Eq{"event_type": filter.EventNames})
	}

	if len(eq) > 0 {
		builder = builder.Where(squirrel.Eq(eq))
	}

	if cursor != "" {
		lastAt, lastID, err := decodeTimeCursor(cursor)
		if err != nil {
			return "", nil, err
		}

		builder = builder.Where(squirrel.Or{
			squirrel.Gt{"timestamp": lastAt},
			squirrel.And{
				squirrel.Eq{"timestamp": lastAt},
				squirrel.Gt{"event_id": lastID},
			},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return query, args, nil
}

func (row analyticsEventRow) toRecord() domain.RawRecord {
	record := domain.RawRecord{
		ID:        row.EventID,
		Timestamp: row.Timestamp.UTC(),
		NumericFields: map[string]decimal.Decimal{
			domain.FieldDurationMs: decimal.NewFromInt(row.DurationMs),
		},
		CategoricalFields: map[string]string{
			domain.FieldEventName: row.EventType,
		},
	}

	// strings vazias do ClickHouse equivalem a ausência do campo
	optional := map[string]string{
		"user_id":     row.UserID,
		"session_id":  row.SessionID,
		"page_path":   row.PagePath,
		"referrer":    row.Referrer,
		"device_type": row.DeviceType,
		"country":     row.Country,
		"utm_source":  row.UTMSource,
	}
	for key, value := range optional {
		if value != "" {
			record.CategoricalFields[key] = value
		}
	}

	return record
}
