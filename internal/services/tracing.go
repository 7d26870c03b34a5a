package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ticketinventory/internal/domain"
)

const (
	traceScopeRegistration = "ticketinventory.registration"

	traceSpanRegister   = "registration.register"
	traceSpanUnregister = "registration.unregister"

	traceAttrTemplate = "ticket.template"
	traceAttrAttendee = "ticket.attendee_id"
	traceAttrTicket   = "ticket.id"
	traceAttrOutcome  = "ticket.outcome"
)

func registrationTracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(traceScopeRegistration)
}

func startRegistrationSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endRegistrationSpan(span trace.Span, out domain.RegistrationOutcome) {
	result := "success"
	if !out.Success {
		result = out.Code()
	}
	span.SetAttributes(attribute.String(traceAttrOutcome, result))
	if out.Fault() {
		span.SetStatus(codes.Error, out.DetailedError)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
