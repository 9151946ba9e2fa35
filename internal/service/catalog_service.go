package service

import (
	"context"
	"strings"

	"github.com/sitecms/internal/db"
	"github.com/sitecms/internal/store"
)

// ErrServiceNotFound is returned when a catalog entry cannot be located.
var ErrServiceNotFound = notFoundError("service")

// ServiceCatalog manages the offerings listed in the services section.
type ServiceCatalog struct {
	repo  store.Repository[db.Service]
	items collection[db.Service, *db.Service]
}

// ServiceInput represents fields accepted when creating or updating a service.
type ServiceInput struct {
	Title       string
	Slug        string
	Summary     string
	Description string
	Icon        string
	ImageURL    string
	Enabled     *bool
	SortOrder   *int
}

// NewServiceCatalog creates a ServiceCatalog.
func NewServiceCatalog(repo store.Repository[db.Service]) *ServiceCatalog {
	return &ServiceCatalog{repo: repo, items: newCollection[db.Service](repo, "service", ErrServiceNotFound)}
}

// List returns services in display order; publicOnly drops disabled ones.
func (s *ServiceCatalog) List(ctx context.Context, publicOnly bool) ([]db.Service, error) {
	return s.items.list(ctx, publicOnly)
}

// Get fetches a service by id.
func (s *ServiceCatalog) Get(ctx context.Context, id uint) (*db.Service, error) {
	return s.items.get(ctx, id)
}

// Create stores a new service, appended to the end unless SortOrder is set.
func (s *ServiceCatalog) Create(ctx context.Context, input ServiceInput) (*db.Service, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, invalidf("title is required")
	}

	order, err := s.resolveSortOrder(ctx, input.SortOrder)
	if err != nil {
		return nil, err
	}
	slug, err := uniqueSlug[db.Service](ctx, s.repo, slugSource(input.Slug, input.Title), 0)
	if err != nil {
		return nil, err
	}

	item := db.Service{Slug: slug, SortOrder: order, Enabled: boolOr(input.Enabled, true)}
	applyServiceInput(&item, input)
	if err := s.items.create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update modifies an existing service.
func (s *ServiceCatalog) Update(ctx context.Context, id uint, input ServiceInput) (*db.Service, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, invalidf("title is required")
	}

	item, err := s.items.get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyServiceInput(item, input)
	if strings.TrimSpace(input.Slug) != "" {
		if item.Slug, err = uniqueSlug[db.Service](ctx, s.repo, input.Slug, item.ID); err != nil {
			return nil, err
		}
	}
	if input.Enabled != nil {
		item.Enabled = *input.Enabled
	}
	if input.SortOrder != nil {
		item.SortOrder = *input.SortOrder
	}

	if err := s.items.update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a service.
func (s *ServiceCatalog) Delete(ctx context.Context, id uint) error {
	return s.items.delete(ctx, id)
}

// Reorder assigns sort orders following ids.
func (s *ServiceCatalog) Reorder(ctx context.Context, ids []uint) error {
	return s.items.reorder(ctx, ids)
}

// Count returns the number of services.
func (s *ServiceCatalog) Count(ctx context.Context) (int64, error) {
	return s.items.count(ctx)
}

func (s *ServiceCatalog) resolveSortOrder(ctx context.Context, order *int) (int, error) {
	if order != nil {
		return *order, nil
	}
	return s.items.nextSortOrder(ctx, func(item *db.Service) int { return item.SortOrder })
}

func applyServiceInput(item *db.Service, input ServiceInput) {
	item.Title = strings.TrimSpace(input.Title)
	item.Summary = strings.TrimSpace(input.Summary)
	item.Description = strings.TrimSpace(input.Description)
	item.Icon = strings.TrimSpace(input.Icon)
	item.ImageURL = strings.TrimSpace(input.ImageURL)
	if item.Summary == "" {
		item.Summary = summarizeContent(item.Description, 160)
	}
}
