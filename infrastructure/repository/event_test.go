package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/insights-engine/internal/domain"
)

func TestEventRepository_EventsQuery(t *testing.T) {
	at := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	repo := newEventRepository(&fakeQueryer{}, squirrel.Dollar)

	filter := testFilter(t, map[string]string{"country": "BR"}).WithEventNames([]string{"view_item", "add_to_cart"})

	query, args, err := repo.eventsQuery(filter, 100, encodeTimeCursor(at, "7"))
	require.NoError(t, err)

	assert.Contains(t, query, "e.event_name IN ($3,$4)")
	assert.Contains(t, query, "e.country = $5")
	assert.Contains(t, query, "(e.occurred_at > $6 OR (e.occurred_at = $7 AND e.id > $8))")
	assert.Contains(t, query, "ORDER BY e.occurred_at ASC, e.id ASC LIMIT 101")
	assert.Equal(t, []interface{}{"view_item", "add_to_cart", "BR", at, at, int64(7)}, args[2:])
}

func TestEventRepository_Query(t *testing.T) {
	at := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)

	queryer := &fakeQueryer{events: []eventRow{
		{ID: 1, EventName: "view_item", OccurredAt: at, DeviceType: sql.NullString{String: "mobile", Valid: true}, DurationMs: sql.NullInt64{Int64: 1200, Valid: true}},
		{ID: 2, EventName: "view_item", OccurredAt: at.Add(time.Second)},
	}}

	repo := newEventRepository(queryer, squirrel.Dollar)
	assert.Contains(t, repo.Dimensions(), "device_type")

	page, err := repo.Query(context.Background(), testFilter(t, nil), 1, "")
	require.NoError(t, err)

	assert.True(t, page.HasNextPage)
	assert.Equal(t, encodeTimeCursor(at, "1"), page.NextCursor)
	require.Len(t, page.Records, 1)

	record := page.Records[0]
	name, _ := record.Categorical(domain.FieldEventName)
	assert.Equal(t, "view_item", name)
	device, _ := record.Categorical("device_type")
	assert.Equal(t, "mobile", device)
	_, hasCountry := record.Categorical("country")
	assert.False(t, hasCountry)
	assert.Equal(t, "1200", record.Numeric(domain.FieldDurationMs).String())
}

func TestEventRepository_Query_ConnectionErrorIsTransient(t *testing.T) {
	queryer := &fakeQueryer{err: driver.ErrBadConn}

	_, err := newEventRepository(queryer, squirrel.Dollar).Query(context.Background(), testFilter(t, nil), 10, "")

	var upstreamErr *domain.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.True(t, upstreamErr.Temporary)
}

func TestTimeCursor(t *testing.T) {
	at := time.Date(2024, 5, 3, 12, 0, 0, 123456789, time.UTC)

	ts, id, err := decodeTimeCursor(encodeTimeCursor(at, "evt|with|pipes"))
	require.NoError(t, err)
	assert.True(t, at.Equal(ts))
	assert.Equal(t, "evt|with|pipes", id)

	for _, cursor := range []string{"", "123", "abc|1", "123|"} {
		_, _, err := decodeTimeCursor(cursor)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, cursor)
	}
}
