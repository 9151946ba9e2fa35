package service

import (
	"context"
	"strings"

	"github.com/sitecms/internal/db"
	"github.com/sitecms/internal/store"
)

// ErrProjectNotFound is returned when a project cannot be located.
var ErrProjectNotFound = notFoundError("project")

// ProjectService manages the products/case studies shown on the site.
type ProjectService struct {
	repo  store.Repository[db.Project]
	items collection[db.Project, *db.Project]
}

// ProjectInput represents fields accepted when creating or updating a project.
type ProjectInput struct {
	Title       string
	Slug        string
	Category    string
	Summary     string
	Description string
	ImageURL    string
	Link        string
	Featured    *bool
	Enabled     *bool
	SortOrder   *int
}

// NewProjectService creates a ProjectService.
func NewProjectService(repo store.Repository[db.Project]) *ProjectService {
	return &ProjectService{repo: repo, items: newCollection[db.Project](repo, "project", ErrProjectNotFound)}
}

// List returns projects in display order. publicOnly drops disabled projects,
// featuredOnly keeps only featured ones.
func (s *ProjectService) List(ctx context.Context, publicOnly, featuredOnly bool) ([]db.Project, error) {
	items, err := s.items.list(ctx, publicOnly)
	if err != nil {
		return nil, err
	}
	if !featuredOnly {
		return items, nil
	}

	featured := make([]db.Project, 0, len(items))
	for _, item := range items {
		if item.Featured {
			featured = append(featured, item)
		}
	}
	return featured, nil
}

// Get fetches a project by id.
func (s *ProjectService) Get(ctx context.Context, id uint) (*db.Project, error) {
	return s.items.get(ctx, id)
}

// GetBySlug fetches a project by slug. publicOnly hides disabled projects.
func (s *ProjectService) GetBySlug(ctx context.Context, slug string, publicOnly bool) (*db.Project, error) {
	item, err := s.items.find(ctx, "slug", strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if publicOnly && !item.Enabled {
		return nil, ErrProjectNotFound
	}
	return item, nil
}

// Create stores a new project.
func (s *ProjectService) Create(ctx context.Context, input ProjectInput) (*db.Project, error) {
	if err := validateProjectInput(input); err != nil {
		return nil, err
	}

	order := 0
	if input.SortOrder != nil {
		order = *input.SortOrder
	} else {
		next, err := s.items.nextSortOrder(ctx, func(item *db.Project) int { return item.SortOrder })
		if err != nil {
			return nil, err
		}
		order = next
	}
	slug, err := uniqueSlug[db.Project](ctx, s.repo, slugSource(input.Slug, input.Title), 0)
	if err != nil {
		return nil, err
	}

	item := db.Project{
		Slug:      slug,
		Featured:  boolOr(input.Featured, false),
		Enabled:   boolOr(input.Enabled, true),
		SortOrder: order,
	}
	applyProjectInput(&item, input)
	if err := s.items.create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update modifies an existing project.
func (s *ProjectService) Update(ctx context.Context, id uint, input ProjectInput) (*db.Project, error) {
	if err := validateProjectInput(input); err != nil {
		return nil, err
	}

	item, err := s.items.get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProjectInput(item, input)
	if strings.TrimSpace(input.Slug) != "" {
		if item.Slug, err = uniqueSlug[db.Project](ctx, s.repo, input.Slug, item.ID); err != nil {
			return nil, err
		}
	}
	if input.Featured != nil {
		item.Featured = *input.Featured
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

// Delete removes a project.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	return s.items.delete(ctx, id)
}

// Reorder assigns sort orders following ids.
func (s *ProjectService) Reorder(ctx context.Context, ids []uint) error {
	return s.items.reorder(ctx, ids)
}

// Count returns the number of projects.
func (s *ProjectService) Count(ctx context.Context) (int64, error) {
	return s.items.count(ctx)
}

func validateProjectInput(input ProjectInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return invalidf("title is required")
	}
	if link := strings.TrimSpace(input.Link); link != "" && !isHTTPURL(link) {
		return invalidf("link must be an http(s) url")
	}
	return nil
}

func applyProjectInput(item *db.Project, input ProjectInput) {
	item.Title = strings.TrimSpace(input.Title)
	item.Category = strings.TrimSpace(input.Category)
	item.Summary = strings.TrimSpace(input.Summary)
	item.Description = strings.TrimSpace(input.Description)
	item.ImageURL = strings.TrimSpace(input.ImageURL)
	item.Link = strings.TrimSpace(input.Link)
	if item.Summary == "" {
		item.Summary = summarizeContent(item.Description, 160)
	}
}

func isHTTPURL(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
