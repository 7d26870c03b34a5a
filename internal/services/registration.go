package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ticketinventory/internal/domain"
	"ticketinventory/internal/inventory"
	"ticketinventory/internal/saga"
)

const (
	msgRegistered        = "Registration successful"
	msgUnregistered      = "Registration cancelled"
	msgAlreadyRegistered = "Attendee is already registered for this target"
	msgNotRegistered     = "Attendee holds no active ticket with this id"
	msgSoldOut           = "Tickets for this template are sold out"
	msgTemplateNotFound  = "Ticket template not found"
	msgInvalidTarget     = "Target does not match the ticket template"
	msgInvalidRequest    = "Attendee and template are required"
	msgInvalidState      = "Inventory bookkeeping error"
	msgIOFailure         = "Ticket store unavailable, try again"
)

const (
	stepReserve = "reserve"
	stepPersist = "persist"
)

type registrationService struct {
	inventory *inventory.Cache
	tickets   domain.TicketRepository
	sinks     []domain.OutcomeSink
	logger    *slog.Logger
	now       func() time.Time
	tp        trace.TracerProvider
	tracer    trace.Tracer
}

// RegistrationOption customises the registration service.
type RegistrationOption func(*registrationService)

// WithOutcomeSinks forwards every outcome to sinks, in order.
func WithOutcomeSinks(sinks ...domain.OutcomeSink) RegistrationOption {
	return func(s *registrationService) {
		s.sinks = append(s.sinks, sinks...)
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) RegistrationOption {
	return func(s *registrationService) {
		s.now = now
	}
}

// WithTracerProvider records engine spans on tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) RegistrationOption {
	return func(s *registrationService) {
		s.tp = tp
	}
}

// NewRegistrationService creates the registration engine over the inventory cache and
// ticket store.
func NewRegistrationService(inv *inventory.Cache, tickets domain.TicketRepository, logger *slog.Logger, opts ...RegistrationOption) domain.RegistrationService {
	s := &registrationService{
		inventory: inv,
		tickets:   tickets,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tracer = registrationTracer(s.tp)
	return s
}

// Register issues a ticket of key to attendeeID for targetID. A submitted request is not
// cancellable: once the reservation is taken the engine always commits or compensates.
func (s *registrationService) Register(ctx context.Context, attendeeID, targetID string, key domain.TemplateKey) domain.RegistrationOutcome {
	ctx = context.WithoutCancel(ctx)
	ctx, span := startRegistrationSpan(ctx, s.tracer, traceSpanRegister,
		attribute.String(traceAttrTemplate, key.String()),
		attribute.String(traceAttrAttendee, attendeeID),
	)
	out := s.register(ctx, attendeeID, targetID, key)
	endRegistrationSpan(span, out)
	s.emit(ctx, out)
	return out
}

func (s *registrationService) register(ctx context.Context, attendeeID, targetID string, key domain.TemplateKey) domain.RegistrationOutcome {
	op := domain.OperationEventRegistration
	if key.SessionLevel() {
		op = domain.OperationSessionRegistration
	}
	result := outcome{op: op, attendeeID: attendeeID, targetID: targetID, now: s.now}

	if attendeeID == "" || key.IsZero() {
		return result.fail(msgInvalidRequest, domain.DetailInvalidRequest)
	}
	if targetID != key.TargetID() {
		return result.fail(msgInvalidTarget, domain.DetailInvalidTarget)
	}

	var ticketID string
	err := s.inventory.Exclusive(ctx, key, func(tx *inventory.Tx) error {
		held, err := s.tickets.HasActiveTicket(ctx, attendeeID, targetID)
		if err != nil {
			return fmt.Errorf("check active ticket: %w", err)
		}
		if held {
			return domain.ErrAlreadyRegistered
		}
		err = saga.Run(ctx,
			saga.Step{
				Name: stepReserve,
				Do: func(ctx context.Context) error {
					_, err := tx.TryReserve(ctx, 1)
					return err
				},
				Undo: func(ctx context.Context) error {
					_, err := tx.Release(ctx, 1)
					return err
				},
			},
			saga.Step{
				Name: stepPersist,
				Do: func(ctx context.Context) error {
					id, err := s.tickets.InsertTicket(ctx, attendeeID, key, targetID, s.now())
					if err != nil {
						return err
					}
					ticketID = id
					return nil
				},
			},
		)
		var sagaErr *saga.Error
		if errors.As(err, &sagaErr) {
			switch {
			case !sagaErr.Compensated():
				tx.Invalidate()
			case sagaErr.Step == stepPersist && !errors.Is(err, domain.ErrAlreadyRegistered):
				// The insert may have committed before the error surfaced; reload from the store.
				tx.Invalidate()
			}
		}
		return err
	})
	if err == nil {
		result.ticketID = ticketID
		return result.ok(msgRegistered)
	}

	var sagaErr *saga.Error
	switch {
	case errors.As(err, &sagaErr) && !sagaErr.Compensated():
		s.logger.ErrorContext(ctx, "reservation rollback failed; template cache invalidated",
			"template", key.String(), "attendee_id", attendeeID, "err", err)
		return result.fail(msgInvalidState, detail(domain.DetailInvalidState, err))
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return result.fail(msgAlreadyRegistered, domain.DetailAlreadyRegistered)
	case errors.Is(err, inventory.ErrCapacityExceeded):
		return result.fail(msgSoldOut, domain.DetailCapacityExceeded)
	case errors.Is(err, domain.ErrNotFound):
		return result.fail(msgTemplateNotFound, domain.DetailTemplateNotFound)
	case errors.Is(err, inventory.ErrInvalidState):
		s.logger.ErrorContext(ctx, "inventory invariant violated", "template", key.String(), "err", err)
		return result.fail(msgInvalidState, detail(domain.DetailInvalidState, err))
	default:
		s.logger.WarnContext(ctx, "registration failed", "template", key.String(), "attendee_id", attendeeID, "err", err)
		return result.fail(msgIOFailure, detail(domain.DetailIOFailure, err))
	}
}

// Unregister cancels ticketID if it is an active ticket held by attendeeID and returns
// its seat to the template.
func (s *registrationService) Unregister(ctx context.Context, attendeeID, ticketID string) domain.RegistrationOutcome {
	ctx = context.WithoutCancel(ctx)
	ctx, span := startRegistrationSpan(ctx, s.tracer, traceSpanUnregister,
		attribute.String(traceAttrTicket, ticketID),
		attribute.String(traceAttrAttendee, attendeeID),
	)
	out := s.unregister(ctx, attendeeID, ticketID)
	endRegistrationSpan(span, out)
	s.emit(ctx, out)
	return out
}

func (s *registrationService) unregister(ctx context.Context, attendeeID, ticketID string) domain.RegistrationOutcome {
	result := outcome{op: domain.OperationUnregistration, attendeeID: attendeeID, ticketID: ticketID, now: s.now}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return result.fail(msgNotRegistered, domain.DetailNotRegistered)
		}
		s.logger.WarnContext(ctx, "load ticket failed", "ticket_id", ticketID, "err", err)
		return result.fail(msgIOFailure, detail(domain.DetailIOFailure, err))
	}
	result.targetID = ticket.TargetID
	if ticket.AttendeeID != attendeeID || !ticket.Active() {
		return result.fail(msgNotRegistered, domain.DetailNotRegistered)
	}

	err = s.inventory.Exclusive(ctx, ticket.Key, func(tx *inventory.Tx) error {
		// Load before cancelling so a cold cache does not read the post-cancel count and
		// then release the same seat a second time.
		tracked := true
		if _, err := tx.Aggregate(ctx); err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			tracked = false
		}
		if err := s.tickets.MarkCancelled(ctx, ticketID, s.now()); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNotActive
			}
			return err
		}
		if !tracked {
			return nil
		}
		if _, err := tx.Release(ctx, 1); err != nil {
			tx.Invalidate()
			return err
		}
		return nil
	})
	switch {
	case err == nil:
		return result.ok(msgUnregistered)
	case errors.Is(err, errNotActive):
		return result.fail(msgNotRegistered, domain.DetailNotRegistered)
	case errors.Is(err, inventory.ErrInvalidState):
		s.logger.ErrorContext(ctx, "inventory invariant violated on release; template cache invalidated",
			"template", ticket.Key.String(), "ticket_id", ticketID, "err", err)
		return result.fail(msgInvalidState, detail(domain.DetailInvalidState, err))
	default:
		s.logger.WarnContext(ctx, "unregistration failed", "ticket_id", ticketID, "err", err)
		return result.fail(msgIOFailure, detail(domain.DetailIOFailure, err))
	}
}

var errNotActive = errors.New("ticket no longer active")

func (s *registrationService) emit(ctx context.Context, out domain.RegistrationOutcome) {
	for _, sink := range s.sinks {
		if err := sink.Record(ctx, out); err != nil {
			s.logger.WarnContext(ctx, "outcome sink failed",
				"operation", out.OperationType, "target_id", out.TargetID, "err", err)
		}
	}
}

type outcome struct {
	op         domain.OperationType
	attendeeID string
	targetID   string
	ticketID   string
	now        func() time.Time
}

func (o outcome) ok(msg string) domain.RegistrationOutcome {
	return domain.RegistrationOutcome{
		Success:       true,
		Message:       msg,
		OperationType: o.op,
		AttendeeID:    o.attendeeID,
		TargetID:      o.targetID,
		TicketID:      o.ticketID,
		Timestamp:     o.now(),
	}
}

func (o outcome) fail(msg, detail string) domain.RegistrationOutcome {
	return domain.RegistrationOutcome{
		Message:       msg,
		OperationType: o.op,
		AttendeeID:    o.attendeeID,
		TargetID:      o.targetID,
		TicketID:      o.ticketID,
		DetailedError: detail,
		Timestamp:     o.now(),
	}
}

func detail(code string, err error) string {
	return code + ": " + err.Error()
}
