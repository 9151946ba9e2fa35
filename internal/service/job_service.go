package service

import (
	"context"
	"net/mail"
	"slices"
	"strings"

	"github.com/sitecms/internal/db"
	"github.com/sitecms/internal/store"
)

// ErrJobNotFound is returned when a job opening cannot be located.
var ErrJobNotFound = notFoundError("job")

// EmploymentTypes lists the accepted values of db.Job.EmploymentType.
var EmploymentTypes = []string{"full-time", "part-time", "contract", "internship", "temporary"}

const defaultEmploymentType = "full-time"

// JobService manages the openings of the careers section.
type JobService struct {
	repo  store.Repository[db.Job]
	items collection[db.Job, *db.Job]
}

// JobInput represents fields accepted when creating or updating a job.
type JobInput struct {
	Title          string
	Slug           string
	Department     string
	Location       string
	EmploymentType string
	Summary        string
	Description    string
	ApplyURL       string
	ApplyEmail     string
	Enabled        *bool
	SortOrder      *int
}

// NewJobService creates a JobService.
func NewJobService(repo store.Repository[db.Job]) *JobService {
	return &JobService{repo: repo, items: newCollection[db.Job](repo, "job", ErrJobNotFound)}
}

// List returns jobs in display order; publicOnly drops closed openings.
func (s *JobService) List(ctx context.Context, publicOnly bool) ([]db.Job, error) {
	return s.items.list(ctx, publicOnly)
}

// Get fetches a job by id.
func (s *JobService) Get(ctx context.Context, id uint) (*db.Job, error) {
	return s.items.get(ctx, id)
}

// GetBySlug fetches a job by slug. publicOnly hides disabled openings.
func (s *JobService) GetBySlug(ctx context.Context, slug string, publicOnly bool) (*db.Job, error) {
	item, err := s.items.find(ctx, "slug", strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if publicOnly && !item.Enabled {
		return nil, ErrJobNotFound
	}
	return item, nil
}

// Create stores a new job opening.
func (s *JobService) Create(ctx context.Context, input JobInput) (*db.Job, error) {
	employmentType, err := validateJobInput(input)
	if err != nil {
		return nil, err
	}

	order := 0
	if input.SortOrder != nil {
		order = *input.SortOrder
	} else if order, err = s.items.nextSortOrder(ctx, func(item *db.Job) int { return item.SortOrder }); err != nil {
		return nil, err
	}
	slug, err := uniqueSlug[db.Job](ctx, s.repo, slugSource(input.Slug, input.Title), 0)
	if err != nil {
		return nil, err
	}

	item := db.Job{
		Slug:           slug,
		EmploymentType: employmentType,
		Enabled:        boolOr(input.Enabled, true),
		SortOrder:      order,
	}
	applyJobInput(&item, input)
	if err := s.items.create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update modifies an existing job opening.
func (s *JobService) Update(ctx context.Context, id uint, input JobInput) (*db.Job, error) {
	employmentType, err := validateJobInput(input)
	if err != nil {
		return nil, err
	}

	item, err := s.items.get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyJobInput(item, input)
	item.EmploymentType = employmentType
	if strings.TrimSpace(input.Slug) != "" {
		if item.Slug, err = uniqueSlug[db.Job](ctx, s.repo, input.Slug, item.ID); err != nil {
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

// Delete removes a job opening.
func (s *JobService) Delete(ctx context.Context, id uint) error {
	return s.items.delete(ctx, id)
}

// Reorder assigns sort orders following ids.
func (s *JobService) Reorder(ctx context.Context, ids []uint) error {
	return s.items.reorder(ctx, ids)
}

// Count returns the number of job openings.
func (s *JobService) Count(ctx context.Context) (int64, error) {
	return s.items.count(ctx)
}

// validateJobInput checks input and returns the normalized employment type.
func validateJobInput(input JobInput) (string, error) {
	if strings.TrimSpace(input.Title) == "" {
		return "", invalidf("title is required")
	}

	employmentType := strings.ToLower(strings.TrimSpace(input.EmploymentType))
	employmentType = strings.ReplaceAll(employmentType, "_", "-")
	employmentType = strings.ReplaceAll(employmentType, " ", "-")
	if employmentType == "" {
		employmentType = defaultEmploymentType
	}
	if !slices.Contains(EmploymentTypes, employmentType) {
		return "", invalidf("employment type must be one of %s", strings.Join(EmploymentTypes, ", "))
	}

	if email := strings.TrimSpace(input.ApplyEmail); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return "", invalidf("apply email is invalid")
		}
	}
	if link := strings.TrimSpace(input.ApplyURL); link != "" && !isHTTPURL(link) {
		return "", invalidf("apply url must be an http(s) url")
	}
	return employmentType, nil
}

func applyJobInput(item *db.Job, input JobInput) {
	item.Title = strings.TrimSpace(input.Title)
	item.Department = strings.TrimSpace(input.Department)
	item.Location = strings.TrimSpace(input.Location)
	item.Summary = strings.TrimSpace(input.Summary)
	item.Description = strings.TrimSpace(input.Description)
	item.ApplyURL = strings.TrimSpace(input.ApplyURL)
	item.ApplyEmail = strings.TrimSpace(input.ApplyEmail)
	if item.Summary == "" {
		item.Summary = summarizeContent(item.Description, 160)
	}
}
