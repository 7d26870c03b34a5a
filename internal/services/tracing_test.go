package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"ticketinventory/internal/domain"
)

func newTracedRegistration(t *testing.T) (*mockStore, domain.RegistrationService, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	store := newMockStore()
	svc := NewRegistrationService(newTestInventory(t, store), store, discardLogger(),
		WithClock(fixedClock), WithTracerProvider(tp))
	return store, svc, recorder
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestRegistrationSpans(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		store, svc, recorder := newTracedRegistration(t)
		key := mustKey(t, "ev-1", "", "GENERAL", "25")
		store.templates[key] = 1

		require.True(t, svc.Register(ctx, "att-1", "ev-1", key).Success)

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, traceSpanRegister, spans[0].Name())
		assert.Equal(t, traceScopeRegistration, spans[0].InstrumentationScope().Name)
		outcome, ok := spanAttr(spans[0], traceAttrOutcome)
		require.True(t, ok)
		assert.Equal(t, "success", outcome.AsString())
		template, ok := spanAttr(spans[0], traceAttrTemplate)
		require.True(t, ok)
		assert.Equal(t, key.String(), template.AsString())
		assert.Equal(t, codes.Ok, spans[0].Status().Code)
	})

	t.Run("rejection is not an error", func(t *testing.T) {
		store, svc, recorder := newTracedRegistration(t)
		key := mustKey(t, "ev-1", "", "GENERAL", "25")
		store.templates[key] = 0

		out := svc.Register(ctx, "att-1", "ev-1", key)
		require.Equal(t, domain.DetailCapacityExceeded, out.DetailedError)

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		outcome, _ := spanAttr(spans[0], traceAttrOutcome)
		assert.Equal(t, domain.DetailCapacityExceeded, outcome.AsString())
		assert.Equal(t, codes.Ok, spans[0].Status().Code)
	})

	t.Run("fault marks the span as error", func(t *testing.T) {
		store, svc, recorder := newTracedRegistration(t)
		key := mustKey(t, "ev-1", "", "GENERAL", "25")
		store.templates[key] = 1
		store.insertErr = errStoreDown

		out := svc.Register(ctx, "att-1", "ev-1", key)
		require.True(t, out.Fault())

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		outcome, _ := spanAttr(spans[0], traceAttrOutcome)
		assert.Equal(t, domain.DetailIOFailure, outcome.AsString())
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Equal(t, out.DetailedError, spans[0].Status().Description)
	})

	t.Run("unregister span carries the ticket id", func(t *testing.T) {
		store, svc, recorder := newTracedRegistration(t)
		key := mustKey(t, "ev-1", "", "GENERAL", "25")
		store.templates[key] = 1
		reg := svc.Register(ctx, "att-1", "ev-1", key)
		require.True(t, reg.Success)

		require.True(t, svc.Unregister(ctx, "att-1", reg.TicketID).Success)

		spans := recorder.Ended()
		require.Len(t, spans, 2)
		assert.Equal(t, traceSpanUnregister, spans[1].Name())
		ticket, ok := spanAttr(spans[1], traceAttrTicket)
		require.True(t, ok)
		assert.Equal(t, reg.TicketID, ticket.AsString())
	})
}
