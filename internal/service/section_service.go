package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/sitecms/internal/db"
	"github.com/sitecms/internal/store"
)

// ErrSectionNotFound is returned when no section matches an id or key.
var ErrSectionNotFound = notFoundError("section")

// SectionService manages the landing page sections.
type SectionService struct {
	items collection[db.Section, *db.Section]
}

// SectionInput represents fields accepted when creating or updating a section.
// Data must be a JSON object when set.
type SectionInput struct {
	Key       string
	Title     string
	Subtitle  string
	Data      json.RawMessage
	Enabled   *bool
	SortOrder *int
}

// NewSectionService creates a SectionService.
func NewSectionService(repo store.Repository[db.Section]) *SectionService {
	return &SectionService{items: newCollection[db.Section](repo, "section", ErrSectionNotFound)}
}

// List returns sections in page order; publicOnly drops disabled ones.
func (s *SectionService) List(ctx context.Context, publicOnly bool) ([]db.Section, error) {
	return s.items.list(ctx, publicOnly)
}

// ListAll returns every section for the admin panel.
func (s *SectionService) ListAll(ctx context.Context) ([]db.Section, error) {
	return s.items.list(ctx, false)
}

// Get fetches a section by id.
func (s *SectionService) Get(ctx context.Context, id uint) (*db.Section, error) {
	return s.items.get(ctx, id)
}

// GetByKey fetches a section by its key. publicOnly hides disabled sections.
func (s *SectionService) GetByKey(ctx context.Context, key string, publicOnly bool) (*db.Section, error) {
	section, err := s.items.find(ctx, "key", normalizeSectionKey(key))
	if err != nil {
		return nil, err
	}
	if publicOnly && !section.Enabled {
		return nil, ErrSectionNotFound
	}
	return section, nil
}

// Create inserts a section. Key is required and unique.
func (s *SectionService) Create(ctx context.Context, input SectionInput) (*db.Section, error) {
	key := normalizeSectionKey(input.Key)
	if key == "" {
		return nil, invalidf("section key is required")
	}
	data, err := sectionDataString(input.Data)
	if err != nil {
		return nil, err
	}

	sortOrder := 0
	if input.SortOrder != nil {
		sortOrder = *input.SortOrder
	} else {
		next, err := s.items.nextSortOrder(ctx, func(sec *db.Section) int { return sec.SortOrder })
		if err != nil {
			return nil, err
		}
		sortOrder = next
	}

	section := db.Section{
		Key:       key,
		Title:     strings.TrimSpace(input.Title),
		Subtitle:  strings.TrimSpace(input.Subtitle),
		Data:      data,
		Enabled:   boolOr(input.Enabled, true),
		SortOrder: sortOrder,
	}
	if err := s.items.create(ctx, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

// Update modifies an existing section. An empty key keeps the current one.
func (s *SectionService) Update(ctx context.Context, id uint, input SectionInput) (*db.Section, error) {
	section, err := s.items.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applySectionInput(section, input); err != nil {
		return nil, err
	}
	if err := s.items.update(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

// Upsert creates or updates the section identified by key.
func (s *SectionService) Upsert(ctx context.Context, key string, input SectionInput) (*db.Section, error) {
	input.Key = key
	existing, err := s.items.find(ctx, "key", normalizeSectionKey(key))
	if errors.Is(err, ErrNotFound) {
		return s.Create(ctx, input)
	}
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, existing.ID, input)
}

// Delete removes a section.
func (s *SectionService) Delete(ctx context.Context, id uint) error {
	return s.items.delete(ctx, id)
}

// Reorder assigns sort orders following ids.
func (s *SectionService) Reorder(ctx context.Context, ids []uint) error {
	return s.items.reorder(ctx, ids)
}

// Count returns the number of sections.
func (s *SectionService) Count(ctx context.Context) (int64, error) {
	return s.items.count(ctx)
}

func applySectionInput(section *db.Section, input SectionInput) error {
	if key := normalizeSectionKey(input.Key); key != "" {
		section.Key = key
	}
	section.Title = strings.TrimSpace(input.Title)
	section.Subtitle = strings.TrimSpace(input.Subtitle)
	if input.Data != nil {
		data, err := sectionDataString(input.Data)
		if err != nil {
			return err
		}
		section.Data = data
	}
	if input.Enabled != nil {
		section.Enabled = *input.Enabled
	}
	if input.SortOrder != nil {
		section.SortOrder = *input.SortOrder
	}
	return nil
}

func normalizeSectionKey(key string) string {
	return Slugify(key)
}

// sectionDataString validates that raw is a JSON object (or empty/null) and
// returns its compact form.
func sectionDataString(raw json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "{}", nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return "", invalidf("section data must be a JSON object")
	}
	compact, err := json.Marshal(obj)
	if err != nil {
		return "", invalidf("section data must be a JSON object")
	}
	return string(compact), nil
}
