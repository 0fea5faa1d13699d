package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/tienda360-api/internal/application/events"
)

type fakePublisher struct {
	channel string
	body    []byte
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.body, _ = message.([]byte)
	return redis.NewIntResult(1, f.err)
}

type failing struct{}

func (failing) Notify(context.Context, events.Event) error { return errors.New("caído") }

func saleEvent() events.Event {
	return events.Event{
		Type:       events.SaleFinalized,
		Level:      events.LevelSuccess,
		Title:      "Venta V202403150001",
		Reference:  "V202403150001",
		Data:       map[string]string{"total": "1234.5"},
		OccurredAt: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestFormatter_Amount(t *testing.T) {
	f := NewFormatter(language.English)
	assert.Equal(t, "1,234.50", f.Amount(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "Venta V202403150001 - total 1,234.50", f.Text(saleEvent()))
}

func TestFormatter_SinTotal(t *testing.T) {
	f := NewFormatter(language.English)
	evt := events.Event{Title: "Stock crítico: Café"}
	assert.Equal(t, "Stock crítico: Café", f.Text(evt))
}

func TestRedisNotifier_PublicaJSON(t *testing.T) {
	pub := &fakePublisher{}
	n := NewRedisNotifier(pub, "tienda360:events", NewFormatter(language.English))

	require.NoError(t, n.Notify(context.Background(), saleEvent()))
	assert.Equal(t, "tienda360:events", pub.channel)

	var got map[string]any
	require.NoError(t, json.Unmarshal(pub.body, &got))
	assert.Equal(t, "sale.finalized", got["type"])
	assert.Equal(t, "V202403150001", got["reference"])
	assert.Equal(t, "Venta V202403150001 - total 1,234.50", got["text"])
}

func TestRedisNotifier_PropagaError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("sin conexión")}
	n := NewRedisNotifier(pub, "c", NewFormatter(language.English))

	err := n.Notify(context.Background(), saleEvent())
	assert.ErrorContains(t, err, "sin conexión")
}

func TestLogNotifier_EscribeEvento(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf), NewFormatter(language.English))

	require.NoError(t, n.Notify(context.Background(), saleEvent()))
	assert.Contains(t, buf.String(), `"event":"sale.finalized"`)
	assert.Contains(t, buf.String(), `"total":"1234.5"`)
}

func TestMulti_EntregaATodosAunqueUnoFalle(t *testing.T) {
	pub := &fakePublisher{}
	m := Multi{failing{}, NewRedisNotifier(pub, "c", NewFormatter(language.English)), nil}

	err := m.Notify(context.Background(), saleEvent())
	assert.ErrorContains(t, err, "caído")
	assert.NotEmpty(t, pub.body)
}
