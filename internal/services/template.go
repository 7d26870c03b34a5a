package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ticketinventory/internal/domain"
	"ticketinventory/internal/inventory"
)

type templateService struct {
	templates domain.TemplateRepository
	inventory *inventory.Cache
	logger    *slog.Logger
	now       func() time.Time
}

// NewTemplateService creates a TemplateService. Deletions evict the cached aggregate.
func NewTemplateService(templates domain.TemplateRepository, inv *inventory.Cache, logger *slog.Logger) domain.TemplateService {
	return &templateService{templates: templates, inventory: inv, logger: logger, now: time.Now}
}

func (s *templateService) CreateTemplate(ctx context.Context, key domain.TemplateKey, capacity int) (*domain.TicketTemplate, error) {
	if key.IsZero() {
		return nil, fmt.Errorf("template key is required: %w", domain.ErrInvalidInput)
	}
	if capacity < 0 {
		return nil, fmt.Errorf("capacity must not be negative: %w", domain.ErrInvalidInput)
	}
	tmpl := &domain.TicketTemplate{Key: key, Capacity: capacity, CreatedAt: s.now().UTC()}
	err := s.inventory.Exclusive(ctx, key, func(tx *inventory.Tx) error {
		if err := s.templates.Create(ctx, tmpl); err != nil {
			return err
		}
		tx.Invalidate()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "ticket template created", "template", key.String(), "capacity", capacity)
	return tmpl, nil
}

func (s *templateService) DeleteTemplate(ctx context.Context, key domain.TemplateKey) error {
	err := s.inventory.Exclusive(ctx, key, func(tx *inventory.Tx) error {
		if err := s.templates.Delete(ctx, key); err != nil {
			return err
		}
		tx.Invalidate()
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "ticket template deleted", "template", key.String())
	return nil
}

func (s *templateService) Availability(ctx context.Context, key domain.TemplateKey) (*domain.TemplateAvailability, error) {
	agg, err := s.inventory.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return &domain.TemplateAvailability{
		Key:       key,
		Capacity:  agg.Capacity,
		Assigned:  agg.Assigned,
		Remaining: agg.Remaining(),
	}, nil
}

// WarmTemplates loads every stored template into the inventory cache.
func (s *templateService) WarmTemplates(ctx context.Context) (int, error) {
	keys, err := s.templates.ListKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("list template keys: %w", err)
	}
	n, err := s.inventory.Warm(ctx, keys)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "inventory cache warmed", "templates", n)
	return n, nil
}
