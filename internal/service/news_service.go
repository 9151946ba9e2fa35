package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sitecms/internal/db"
	"github.com/sitecms/internal/store"
)

// ErrNewsNotFound is returned when a news item cannot be located.
var ErrNewsNotFound = notFoundError("news")

const (
	defaultNewsPerPage = 9
	newsSummaryLimit   = 200
)

// NewsService manages news items written by admins or imported from the feed.
type NewsService struct {
	repo  store.Repository[db.News]
	items collection[db.News, *db.News]
	now   func() time.Time
}

// NewsInput represents fields accepted when creating or updating news.
type NewsInput struct {
	Title       string
	Slug        string
	Summary     string
	Content     string
	ImageURL    string
	Author      string
	SourceName  string
	SourceURL   string
	PublishedAt *time.Time
	Enabled     *bool
}

// ExternalArticle is a news article fetched from an outside source.
type ExternalArticle struct {
	Title       string
	Description string
	Content     string
	URL         string
	ImageURL    string
	Author      string
	SourceName  string
	PublishedAt time.Time
}

// ImportReport summarizes an ImportExternal call.
type ImportReport struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// NewNewsService creates a NewsService.
func NewNewsService(repo store.Repository[db.News]) *NewsService {
	return &NewsService{
		repo:  repo,
		items: newCollection[db.News](repo, "news", ErrNewsNotFound),
		now:   time.Now,
	}
}

// ListPublished returns enabled news, newest first.
func (s *NewsService) ListPublished(ctx context.Context, page, perPage int) (PageResult[db.News], error) {
	return s.items.page(ctx, true, page, perPage, defaultNewsPerPage)
}

// ListAll returns every news item for the admin panel.
func (s *NewsService) ListAll(ctx context.Context, page, perPage int) (PageResult[db.News], error) {
	return s.items.page(ctx, false, page, perPage, 20)
}

// Get fetches news by id.
func (s *NewsService) Get(ctx context.Context, id uint) (*db.News, error) {
	return s.items.get(ctx, id)
}

// GetBySlug fetches news by slug. publicOnly hides disabled items.
func (s *NewsService) GetBySlug(ctx context.Context, slug string, publicOnly bool) (*db.News, error) {
	item, err := s.items.find(ctx, "slug", strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if publicOnly && !item.Enabled {
		return nil, ErrNewsNotFound
	}
	return item, nil
}

// Create stores a manually written news item.
func (s *NewsService) Create(ctx context.Context, input NewsInput) (*db.News, error) {
	if err := validateNewsInput(input); err != nil {
		return nil, err
	}

	news := db.News{Origin: db.NewsOriginManual, Enabled: true}
	s.applyInput(&news, input)
	slug, err := uniqueSlug[db.News](ctx, s.repo, slugSource(input.Slug, input.Title), 0)
	if err != nil {
		return nil, err
	}
	news.Slug = slug

	if err := s.items.create(ctx, &news); err != nil {
		return nil, err
	}
	return &news, nil
}

// Update modifies a news item. The slug only changes when one is supplied.
func (s *NewsService) Update(ctx context.Context, id uint, input NewsInput) (*db.News, error) {
	if err := validateNewsInput(input); err != nil {
		return nil, err
	}

	news, err := s.items.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.applyInput(news, input)
	if strings.TrimSpace(input.Slug) != "" {
		slug, err := uniqueSlug[db.News](ctx, s.repo, input.Slug, news.ID)
		if err != nil {
			return nil, err
		}
		news.Slug = slug
	}

	if err := s.items.update(ctx, news); err != nil {
		return nil, err
	}
	return news, nil
}

// Delete removes a news item.
func (s *NewsService) Delete(ctx context.Context, id uint) error {
	return s.items.delete(ctx, id)
}

// Count returns the number of news items.
func (s *NewsService) Count(ctx context.Context) (int64, error) {
	return s.items.count(ctx)
}

// ImportExternal stores articles whose source URL is not known yet.
// Articles that fail to import are counted as skipped and their errors joined.
func (s *NewsService) ImportExternal(ctx context.Context, articles []ExternalArticle) (ImportReport, error) {
	var (
		report ImportReport
		errs   []error
		seen   = make(map[string]struct{}, len(articles))
	)

	for _, article := range articles {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		url := strings.TrimSpace(article.URL)
		title := strings.TrimSpace(article.Title)
		if url == "" || title == "" {
			report.Skipped++
			continue
		}
		if _, dup := seen[url]; dup {
			report.Skipped++
			continue
		}
		seen[url] = struct{}{}

		_, err := s.repo.FindOne(ctx, "source_url", url)
		if err == nil {
			report.Skipped++
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			report.Skipped++
			errs = append(errs, fmt.Errorf("lookup %s: %w", url, err))
			continue
		}

		if err := s.importArticle(ctx, article, title, url); err != nil {
			report.Skipped++
			if !errors.Is(err, store.ErrConflict) {
				errs = append(errs, fmt.Errorf("import %s: %w", url, err))
			}
			continue
		}
		report.Created++
	}

	return report, errors.Join(errs...)
}

func (s *NewsService) importArticle(ctx context.Context, article ExternalArticle, title, url string) error {
	slug, err := uniqueSlug[db.News](ctx, s.repo, title, 0)
	if err != nil {
		return err
	}

	summary := strings.TrimSpace(article.Description)
	if summary == "" {
		summary = summarizeContent(article.Content, newsSummaryLimit)
	}
	publishedAt := article.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = s.now()
	}

	news := db.News{
		Title:       title,
		Slug:        slug,
		Summary:     summary,
		Content:     strings.TrimSpace(article.Content),
		ImageURL:    strings.TrimSpace(article.ImageURL),
		Author:      strings.TrimSpace(article.Author),
		SourceName:  strings.TrimSpace(article.SourceName),
		SourceURL:   url,
		Origin:      db.NewsOriginExternal,
		PublishedAt: publishedAt.UTC(),
		Enabled:     true,
	}
	return s.repo.Create(ctx, &news)
}

func (s *NewsService) applyInput(news *db.News, input NewsInput) {
	news.Title = strings.TrimSpace(input.Title)
	news.Content = strings.TrimSpace(input.Content)
	news.Summary = strings.TrimSpace(input.Summary)
	if news.Summary == "" {
		news.Summary = summarizeContent(news.Content, newsSummaryLimit)
	}
	news.ImageURL = strings.TrimSpace(input.ImageURL)
	news.Author = strings.TrimSpace(input.Author)
	news.SourceName = strings.TrimSpace(input.SourceName)
	news.SourceURL = strings.TrimSpace(input.SourceURL)

	switch {
	case input.PublishedAt != nil && !input.PublishedAt.IsZero():
		news.PublishedAt = input.PublishedAt.UTC()
	case news.PublishedAt.IsZero():
		news.PublishedAt = s.now().UTC()
	}
	if input.Enabled != nil {
		news.Enabled = *input.Enabled
	}
}

func validateNewsInput(input NewsInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return invalidf("title is required")
	}
	if strings.TrimSpace(input.Content) == "" && strings.TrimSpace(input.Summary) == "" {
		return invalidf("content or summary is required")
	}
	return nil
}

// slugSource prefers an explicit slug and falls back to the title.
func slugSource(slug, title string) string {
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		return trimmed
	}
	return title
}
