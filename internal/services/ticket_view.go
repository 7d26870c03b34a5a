package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"ticketinventory/internal/domain"
)

type ticketViewService struct {
	tickets domain.TicketRepository
}

// NewTicketViewService creates the filtered ticket view.
func NewTicketViewService(tickets domain.TicketRepository) domain.TicketViewService {
	return &ticketViewService{tickets: tickets}
}

// FilterTickets returns page (0-based) of the tickets matching criteria ordered by issue
// time. TotalValue covers the whole filtered set.
func (s *ticketViewService) FilterTickets(ctx context.Context, criteria domain.TicketCriteria, page, pageSize int) (*domain.TicketPage, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive: %w", domain.ErrInvalidInput)
	}
	if criteria.Status != "" && !criteria.Status.Valid() {
		return nil, fmt.Errorf("unknown ticket status %q: %w", criteria.Status, domain.ErrInvalidInput)
	}
	tickets, err := s.tickets.QueryTickets(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}

	matched := make([]*domain.Ticket, 0, len(tickets))
	total := decimal.Zero
	for _, t := range tickets {
		if !criteria.Matches(t) {
			continue
		}
		matched = append(matched, t)
		total = total.Add(t.Key.Price())
	}
	slices.SortFunc(matched, func(a, b *domain.Ticket) int {
		if c := a.IssuedAt.Compare(b.IssuedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	paged := domain.Paginate(matched, page, pageSize)
	items := make([]domain.TicketDisplay, 0, len(paged.Items))
	for _, t := range paged.Items {
		items = append(items, domain.NewTicketDisplay(t))
	}
	return &domain.TicketPage{
		PagedResult: domain.PagedResult[domain.TicketDisplay]{
			Items:      items,
			Page:       paged.Page,
			PageSize:   paged.PageSize,
			TotalItems: paged.TotalItems,
		},
		TotalValue: total,
	}, nil
}
