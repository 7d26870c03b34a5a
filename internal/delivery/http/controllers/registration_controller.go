package controllers

import (
	"log/slog"
	"net/http"

	"ticketinventory/internal/delivery/http/helpers"
	"ticketinventory/internal/domain"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterRequest is the body for POST /registrations. target_id must be session_id for a
// session-level template and event_id otherwise.
type RegisterRequest struct {
	AttendeeID string `json:"attendee_id"`
	TargetID   string `json:"target_id"`
	EventID    string `json:"event_id"`
	SessionID  string `json:"session_id,omitempty"`
	TicketType string `json:"ticket_type"`
	Price      string `json:"price"`
}

// Validate implements helpers.Validator.
func (r RegisterRequest) Validate() []string {
	var errs []string
	if !helpers.IsUUID(r.AttendeeID) {
		errs = append(errs, "attendee_id must be a UUID")
	}
	if !helpers.IsUUID(r.TargetID) {
		errs = append(errs, "target_id must be a UUID")
	}
	return append(errs, validateKeyFields(r.EventID, r.SessionID, r.TicketType, r.Price)...)
}

// CancelTicketRequest is the body for POST /tickets/{ticketID}/cancel.
type CancelTicketRequest struct {
	AttendeeID string `json:"attendee_id"`
}

// Validate implements helpers.Validator.
func (r CancelTicketRequest) Validate() []string {
	if !helpers.IsUUID(r.AttendeeID) {
		return []string{"attendee_id must be a UUID"}
	}
	return nil
}

// OutcomeResponse carries the registration outcome in data for every status. error is set
// when the outcome is not a success.
type OutcomeResponse struct {
	Data  domain.RegistrationOutcome `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// Register godoc
// @Summary Register an attendee
// @Description Issues one ticket of the given template to the attendee. The response data is always the registration outcome.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.RegisterRequest true "Registration"
// @Success 201 {object} controllers.OutcomeResponse
// @Failure 400 {object} controllers.OutcomeResponse "INVALID_TARGET, INVALID_REQUEST or malformed body"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} controllers.OutcomeResponse "TEMPLATE_NOT_FOUND"
// @Failure 409 {object} controllers.OutcomeResponse "ALREADY_REGISTERED or CAPACITY_EXCEEDED"
// @Failure 500 {object} controllers.OutcomeResponse "INVALID_STATE or IO_FAILURE"
// @Router /registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	key, err := domain.ParseTemplateKey(req.EventID, req.SessionID, req.TicketType, req.Price)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	out := c.Service.Register(r.Context(), req.AttendeeID, req.TargetID, key)
	c.writeOutcome(w, r, http.StatusCreated, out)
}

// CancelTicket godoc
// @Summary Cancel a ticket
// @Description Cancels the attendee's active ticket and returns its seat to the template.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ticketID path string true "Ticket ID (UUID)"
// @Param body body controllers.CancelTicketRequest true "Ticket holder"
// @Success 200 {object} controllers.OutcomeResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} controllers.OutcomeResponse "NOT_REGISTERED"
// @Failure 500 {object} controllers.OutcomeResponse "INVALID_STATE or IO_FAILURE"
// @Router /tickets/{ticketID}/cancel [post]
func (c *RegistrationController) CancelTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := r.PathValue("ticketID")
	if ticketID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing ticketID")
		return
	}
	if !helpers.IsUUID(ticketID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid ticketID")
		return
	}
	var req CancelTicketRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	out := c.Service.Unregister(r.Context(), req.AttendeeID, ticketID)
	c.writeOutcome(w, r, http.StatusOK, out)
}

func (c *RegistrationController) writeOutcome(w http.ResponseWriter, r *http.Request, successStatus int, out domain.RegistrationOutcome) {
	if out.Success {
		helpers.WriteJSON(w, successStatus, OutcomeResponse{Data: out})
		return
	}
	status, code := outcomeStatus(out)
	if status == http.StatusInternalServerError {
		c.Logger.ErrorContext(r.Context(), "registration fault",
			"path", r.URL.Path, "method", r.Method, "detail", out.DetailedError)
	}
	helpers.WriteJSON(w, status, OutcomeResponse{
		Data:  out,
		Error: &helpers.APIError{Code: code, Message: out.Message},
	})
}

func outcomeStatus(out domain.RegistrationOutcome) (int, string) {
	switch out.Code() {
	case domain.DetailAlreadyRegistered, domain.DetailCapacityExceeded, domain.DetailNotRegistered:
		return http.StatusConflict, helpers.ErrCodeConflict
	case domain.DetailTemplateNotFound:
		return http.StatusNotFound, helpers.ErrCodeNotFound
	case domain.DetailInvalidTarget, domain.DetailInvalidRequest:
		return http.StatusBadRequest, helpers.ErrCodeBadRequest
	default:
		return http.StatusInternalServerError, helpers.ErrCodeInternalError
	}
}
