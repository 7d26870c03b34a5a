package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"ticketinventory/internal/delivery/http/helpers"
	"ticketinventory/internal/domain"
)

type TemplateController struct {
	Logger  *slog.Logger
	Service domain.TemplateService
}

func NewTemplateController(logger *slog.Logger, svc domain.TemplateService) *TemplateController {
	return &TemplateController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateTemplateRequest is the body for POST /templates. Price is a decimal string.
type CreateTemplateRequest struct {
	EventID    string `json:"event_id"`
	SessionID  string `json:"session_id,omitempty"`
	TicketType string `json:"ticket_type"`
	Price      string `json:"price"`
	Capacity   int    `json:"capacity"`
}

// Validate implements helpers.Validator.
func (r CreateTemplateRequest) Validate() []string {
	errs := validateKeyFields(r.EventID, r.SessionID, r.TicketType, r.Price)
	if r.Capacity < 0 {
		errs = append(errs, "capacity must not be negative")
	}
	return errs
}

// CreateTemplateSuccessResponse is the success response envelope for POST /templates.
type CreateTemplateSuccessResponse struct {
	Data  *domain.TicketTemplate `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// AvailabilitySuccessResponse is the success response envelope for GET /templates/availability.
type AvailabilitySuccessResponse struct {
	Data  *domain.TemplateAvailability `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// CreateTemplate godoc
// @Summary Create a ticket template
// @Description Creates a sellable ticket template with a fixed capacity. Omit session_id for an event-level template.
// @Tags templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateTemplateRequest true "Template"
// @Success 201 {object} controllers.CreateTemplateSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /templates [post]
func (c *TemplateController) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req CreateTemplateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	key, err := domain.ParseTemplateKey(req.EventID, req.SessionID, req.TicketType, req.Price)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	tmpl, err := c.Service.CreateTemplate(r.Context(), key, req.Capacity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateTemplate):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "template already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to create template")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, tmpl)
}

// DeleteTemplate godoc
// @Summary Delete a ticket template
// @Description Deletes the template identified by the query parameters. Issued tickets are kept.
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param event_id query string true "Event ID (UUID)"
// @Param session_id query string false "Session ID (UUID)"
// @Param ticket_type query string true "GENERAL, VIP, STUDENT or EARLY_BIRD"
// @Param price query string true "Decimal price"
// @Success 204
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /templates [delete]
func (c *TemplateController) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	key, ok := templateKeyFromQuery(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteTemplate(r.Context(), key); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "template not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to delete template")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Availability godoc
// @Summary Template availability
// @Description Returns capacity, issued tickets and remaining seats for one template.
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param event_id query string true "Event ID (UUID)"
// @Param session_id query string false "Session ID (UUID)"
// @Param ticket_type query string true "GENERAL, VIP, STUDENT or EARLY_BIRD"
// @Param price query string true "Decimal price"
// @Success 200 {object} controllers.AvailabilitySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /templates/availability [get]
func (c *TemplateController) Availability(w http.ResponseWriter, r *http.Request) {
	key, ok := templateKeyFromQuery(w, r)
	if !ok {
		return
	}
	av, err := c.Service.Availability(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "template not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to load availability")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, av)
}

func templateKeyFromQuery(w http.ResponseWriter, r *http.Request) (domain.TemplateKey, bool) {
	q := r.URL.Query()
	eventID, sessionID := q.Get("event_id"), q.Get("session_id")
	ticketType, price := q.Get("ticket_type"), q.Get("price")
	if errs := validateKeyFields(eventID, sessionID, ticketType, price); len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, errs[0])
		return domain.TemplateKey{}, false
	}
	key, err := domain.ParseTemplateKey(eventID, sessionID, ticketType, price)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return domain.TemplateKey{}, false
	}
	return key, true
}

func validateKeyFields(eventID, sessionID, ticketType, price string) []string {
	var errs []string
	if !helpers.IsUUID(eventID) {
		errs = append(errs, "event_id must be a UUID")
	}
	if sessionID != "" && !helpers.IsUUID(sessionID) {
		errs = append(errs, "session_id must be a UUID")
	}
	if ticketType == "" {
		errs = append(errs, "ticket_type is required")
	}
	switch {
	case price == "":
		errs = append(errs, "price is required")
	case len(price) > domain.MaxPriceLength:
		errs = append(errs, "price is too long")
	}
	return errs
}
