package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"ticketinventory/internal/delivery/http/helpers"
	"ticketinventory/internal/domain"
)

type TicketController struct {
	Logger  *slog.Logger
	Service domain.TicketViewService
}

func NewTicketController(logger *slog.Logger, svc domain.TicketViewService) *TicketController {
	return &TicketController{
		Logger:  logger,
		Service: svc,
	}
}

// TicketListData is the data of GET /tickets.
type TicketListData struct {
	Items      []domain.TicketDisplay `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
	TotalValue decimal.Decimal        `json:"total_value"`
}

// ListTicketsSuccessResponse is the success response envelope for GET /tickets.
type ListTicketsSuccessResponse struct {
	Data  TicketListData    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListTickets godoc
// @Summary List tickets
// @Description Filters tickets by event, session, status and attendee, ordered by issue time. total_value sums the price of every matching ticket.
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param event_id query string false "Event ID (UUID)"
// @Param session_id query string false "Session ID (UUID)"
// @Param status query string false "active or cancelled"
// @Param attendee_id query string false "Attendee ID (UUID)"
// @Param page query int false "Page (1-based)" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} controllers.ListTicketsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets [get]
func (c *TicketController) ListTickets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := domain.TicketCriteria{
		EventID:    q.Get("event_id"),
		SessionID:  q.Get("session_id"),
		Status:     domain.TicketStatus(q.Get("status")),
		AttendeeID: q.Get("attendee_id"),
	}
	for name, id := range map[string]string{
		"event_id":    criteria.EventID,
		"session_id":  criteria.SessionID,
		"attendee_id": criteria.AttendeeID,
	} {
		if id != "" && !helpers.IsUUID(id) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid "+name)
			return
		}
	}
	params := helpers.ParsePagination(r)

	page, err := c.Service.FilterTickets(r.Context(), criteria, params.ZeroBasedPage(), params.PageSize)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to list tickets")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, TicketListData{
		Items:      page.Items,
		Pagination: helpers.PageMeta(page.PagedResult),
		TotalValue: page.TotalValue,
	})
}
