package domain

import (
	"context"
	"strings"
	"time"
)

// OperationType names the engine operation an outcome describes.
type OperationType string

const (
	OperationEventRegistration   OperationType = "EVENT_REGISTRATION"
	OperationSessionRegistration OperationType = "SESSION_REGISTRATION"
	OperationUnregistration      OperationType = "UNREGISTRATION"
)

// Machine-readable outcome details.
const (
	DetailAlreadyRegistered = "ALREADY_REGISTERED"
	DetailNotRegistered     = "NOT_REGISTERED"
	DetailCapacityExceeded  = "CAPACITY_EXCEEDED"
	DetailTemplateNotFound  = "TEMPLATE_NOT_FOUND"
	DetailInvalidTarget     = "INVALID_TARGET"
	DetailInvalidRequest    = "INVALID_REQUEST"
	DetailInvalidState      = "INVALID_STATE"
	DetailIOFailure         = "IO_FAILURE"
)

// RegistrationOutcome is the result of one Register or Unregister call. It is built once
// and passed by value.
// swagger:model RegistrationOutcome
type RegistrationOutcome struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message"`
	OperationType OperationType `json:"operation_type"`
	AttendeeID    string        `json:"attendee_id"`
	TargetID      string        `json:"target_id"`
	TicketID      string        `json:"ticket_id,omitempty"`
	DetailedError string        `json:"detailed_error,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
}

// Code returns the detail code without any diagnostic suffix.
func (o RegistrationOutcome) Code() string {
	code, _, _ := strings.Cut(o.DetailedError, ":")
	return code
}

// Rejected reports an expected business rejection.
func (o RegistrationOutcome) Rejected() bool {
	if o.Success {
		return false
	}
	switch o.Code() {
	case DetailAlreadyRegistered, DetailNotRegistered, DetailCapacityExceeded,
		DetailTemplateNotFound, DetailInvalidTarget, DetailInvalidRequest:
		return true
	}
	return false
}

// Fault reports an I/O failure or invariant violation.
func (o RegistrationOutcome) Fault() bool {
	return !o.Success && !o.Rejected()
}

// RegistrationService registers and unregisters attendees against ticket templates.
// Callers are expected to have checked FeatureManageTickets already.
type RegistrationService interface {
	Register(ctx context.Context, attendeeID, targetID string, key TemplateKey) RegistrationOutcome
	Unregister(ctx context.Context, attendeeID, ticketID string) RegistrationOutcome
}

// OutcomeSink consumes engine outcomes (activity log, notifications).
type OutcomeSink interface {
	Record(ctx context.Context, outcome RegistrationOutcome) error
}
