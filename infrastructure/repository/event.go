package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/insights-engine/infrastructure/database/warehouse"
	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/internal/usecases/fetching"
)

const (
	eventsTable = "events e"

	WarehouseEventsSource = "warehouse_events"
)

// dimensões que podem ser usadas como filtro ou segmento
var eventDimensionColumns = map[string]string{
	"user_id":     "e.user_id",
	"session_id":  "e.session_id",
	"device_type": "e.device_type",
	"country":     "e.country",
	"utm_source":  "e.utm_source",
}

var eventSegmentDimensions = []string{"country", "device_type", "utm_source"}

type eventRow struct {
	ID         int64          `db:"id"`
	EventName  string         `db:"event_name"`
	OccurredAt time.Time      `db:"occurred_at"`
	UserID     sql.NullString `db:"user_id"`
	SessionID  sql.NullString `db:"session_id"`
	DeviceType sql.NullString `db:"device_type"`
	Country    sql.NullString `db:"country"`
	UTMSource  sql.NullString `db:"utm_source"`
	DurationMs sql.NullInt64  `db:"duration_ms"`
}

type eventRepository struct {
	conn        warehouse.Queryer
	placeholder squirrel.PlaceholderFormat
}

// NewEventRepository expõe a tabela events como fonte de eventos, paginada por (occurred_at, id)
func NewEventRepository(conn warehouse.Conn) fetching.Source {
	return newEventRepository(conn, conn.Placeholder())
}

func newEventRepository(conn warehouse.Queryer, placeholder squirrel.PlaceholderFormat) *eventRepository {
	return &eventRepository{
		conn:        conn,
		placeholder: placeholder,
	}
}

func (r *eventRepository) Name() string {
	return WarehouseEventsSource
}

func (r *eventRepository) Dimensions() []string {
	return eventSegmentDimensions
}

func (r *eventRepository) Query(ctx context.Context, filter domain.QueryFilter, pageSize int, cursor string) (*domain.Page, error) {
	query, args, err := r.eventsQuery(filter, pageSize, cursor)
	if err != nil {
		return nil, err
	}

	rows := make([]eventRow, 0, pageSize+1)
	if err := r.conn.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, queryError(ctx, WarehouseEventsSource, err)
	}

	page := &domain.Page{Records: make([]domain.RawRecord, 0, len(rows))}
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		page.HasNextPage = true
		page.NextCursor = encodeTimeCursor(last.OccurredAt, strconv.FormatInt(last.ID, 10))
	}

	for _, row := range rows {
		page.Records = append(page.Records, row.toRecord())
	}

	return page, nil
}

func (r *eventRepository) eventsQuery(filter domain.QueryFilter, pageSize int, cursor string) (string, []interface{}, error) {
	eq, err := predicateColumns(filter, eventDimensionColumns, WarehouseEventsSource)
	if err != nil {
		return "", nil, err
	}

	builder := squirrel.
		Select("e.id, e.event_name, e.occurred_at, e.user_id, e.session_id, e.device_type, e.country, e.utm_source, e.duration_ms").
		From(eventsTable).
		Where(squirrel.GtOrEq{"e.occurred_at": filter.StartDate}).
		Where(squirrel.Lt{"e.occurred_at": filter.Until()}).
		OrderBy("e.occurred_at ASC", "e.id ASC").
		Limit(uint64(pageSize + 1)).
		PlaceholderFormat(r.placeholder)

	if len(filter.EventNames) > 0 {
		builder = builder.Where(squirrel.Eq{"e.event_name": filter.EventNames})
	}

	if len(eq) > 0 {
		builder = builder.Where(squirrel.Eq(eq))
	}

	if cursor != "" {
		lastAt, rawID, err := decodeTimeCursor(cursor)
		if err != nil {
			return "", nil, err
		}
		lastID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return "", nil, domain.NewInvalidArgumentError("cursor", "malformed cursor")
		}

		builder = builder.Where(squirrel.Or{
			squirrel.Gt{"e.occurred_at": lastAt},
			squirrel.And{
				squirrel.Eq{"e.occurred_at": lastAt},
				squirrel.Gt{"e.id": lastID},
			},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return query, args, nil
}

func (row eventRow) toRecord() domain.RawRecord {
	record := domain.RawRecord{
		ID:                strconv.FormatInt(row.ID, 10),
		Timestamp:         row.OccurredAt.UTC(),
		NumericFields:     make(map[string]decimal.Decimal, 1),
		CategoricalFields: map[string]string{domain.FieldEventName: row.EventName},
	}

	if row.DurationMs.Valid {
		record.NumericFields[domain.FieldDurationMs] = decimal.NewFromInt(row.DurationMs.Int64)
	}

	optional := map[string]sql.NullString{
		"user_id":     row.UserID,
		"session_id":  row.SessionID,
		"device_type": row.DeviceType,
		"country":     row.Country,
		"utm_source":  row.UTMSource,
	}
	for key, value := range optional {
		if value.Valid {
			record.CategoricalFields[key] = value.String
		}
	}

	return record
}
