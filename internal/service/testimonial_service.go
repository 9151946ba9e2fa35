package service

import (
	"context"
	"strings"

	"github.com/sitecms/internal/db"
	"github.com/sitecms/internal/store"
)

// ErrTestimonialNotFound is returned when a testimonial cannot be located.
var ErrTestimonialNotFound = notFoundError("testimonial")

const (
	minRating     = 1
	maxRating     = 5
	defaultRating = 5
)

// TestimonialService 管理客户评价。
type TestimonialService struct {
	items collection[db.Testimonial, *db.Testimonial]
}

// TestimonialInput 描述创建或更新客户评价时可设置的字段。
// Rating 为 nil 时默认 5 星。
type TestimonialInput struct {
	Author    string
	Role      string
	Company   string
	Quote     string
	AvatarURL string
	Rating    *int
	Enabled   *bool
	SortOrder *int
}

// NewTestimonialService 构造 TestimonialService。
func NewTestimonialService(repo store.Repository[db.Testimonial]) *TestimonialService {
	return &TestimonialService{items: newCollection[db.Testimonial](repo, "testimonial", ErrTestimonialNotFound)}
}

// List 返回客户评价，publicOnly 时只返回启用的条目。
func (s *TestimonialService) List(ctx context.Context, publicOnly bool) ([]db.Testimonial, error) {
	return s.items.list(ctx, publicOnly)
}

// Get 根据主键获取客户评价。
func (s *TestimonialService) Get(ctx context.Context, id uint) (*db.Testimonial, error) {
	return s.items.get(ctx, id)
}

// Create 新建客户评价，未指定排序时追加到末尾。
func (s *TestimonialService) Create(ctx context.Context, input TestimonialInput) (*db.Testimonial, error) {
	rating, err := validateTestimonialInput(input)
	if err != nil {
		return nil, err
	}

	order := 0
	if input.SortOrder != nil {
		order = *input.SortOrder
	} else if order, err = s.items.nextSortOrder(ctx, func(item *db.Testimonial) int { return item.SortOrder }); err != nil {
		return nil, err
	}

	item := db.Testimonial{
		Rating:    rating,
		Enabled:   boolOr(input.Enabled, true),
		SortOrder: order,
	}
	applyTestimonialInput(&item, input)
	if err := s.items.create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update 更新指定客户评价。
func (s *TestimonialService) Update(ctx context.Context, id uint, input TestimonialInput) (*db.Testimonial, error) {
	rating, err := validateTestimonialInput(input)
	if err != nil {
		return nil, err
	}

	item, err := s.items.get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyTestimonialInput(item, input)
	if input.Rating != nil {
		item.Rating = rating
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

// Delete 删除客户评价。
func (s *TestimonialService) Delete(ctx context.Context, id uint) error {
	return s.items.delete(ctx, id)
}

// Reorder 按给定顺序重排。
func (s *TestimonialService) Reorder(ctx context.Context, ids []uint) error {
	return s.items.reorder(ctx, ids)
}

// Count 返回客户评价数量。
func (s *TestimonialService) Count(ctx context.Context) (int64, error) {
	return s.items.count(ctx)
}

func validateTestimonialInput(input TestimonialInput) (int, error) {
	if strings.TrimSpace(input.Author) == "" {
		return 0, invalidf("author is required")
	}
	if strings.TrimSpace(input.Quote) == "" {
		return 0, invalidf("quote is required")
	}
	if input.Rating == nil {
		return defaultRating, nil
	}
	if *input.Rating < minRating || *input.Rating > maxRating {
		return 0, invalidf("rating must be between %d and %d", minRating, maxRating)
	}
	return *input.Rating, nil
}

func applyTestimonialInput(item *db.Testimonial, input TestimonialInput) {
	item.Author = strings.TrimSpace(input.Author)
	item.Role = strings.TrimSpace(input.Role)
	item.Company = strings.TrimSpace(input.Company)
	item.Quote = strings.TrimSpace(input.Quote)
	item.AvatarURL = strings.TrimSpace(input.AvatarURL)
}
