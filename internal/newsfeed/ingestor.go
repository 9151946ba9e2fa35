package newsfeed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sitecms/internal/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrAlreadyRunning is returned when an ingestion is already in progress.
var ErrAlreadyRunning = errors.New("news ingestion already running")

const maxConcurrentQueries = 4

// Searcher fetches articles for one query.
type Searcher interface {
	Search(ctx context.Context, query string, pageSize int) ([]Article, error)
}

// Importer stores fetched articles.
type Importer interface {
	ImportExternal(ctx context.Context, articles []service.ExternalArticle) (service.ImportReport, error)
}

// SettingsProvider exposes the admin editable ingestion settings.
type SettingsProvider interface {
	GetSettings(ctx context.Context) (service.SystemSettings, error)
}

// Report summarizes one ingestion run.
type Report struct {
	Queries  []string      `json:"queries"`
	Fetched  int           `json:"fetched"`
	Created  int           `json:"created"`
	Skipped  int           `json:"skipped"`
	Disabled bool          `json:"disabled,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Ingestor fetches every configured query and imports the results.
// Runs never overlap.
type Ingestor struct {
	searcher Searcher
	importer Importer
	settings SettingsProvider
	queries  []string
	logger   *zap.Logger

	running sync.Mutex
}

// NewIngestor creates an Ingestor. queries are used when the settings do not
// override them; settings may be nil.
func NewIngestor(searcher Searcher, importer Importer, settings SettingsProvider, queries []string, logger *zap.Logger) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{
		searcher: searcher,
		importer: importer,
		settings: settings,
		queries:  queries,
		logger:   logger.Named("newsfeed"),
	}
}

// Run performs one ingestion. Unless force is set, a disabled news_enabled
// setting turns the run into a no-op.
func (i *Ingestor) Run(ctx context.Context, force bool) (Report, error) {
	if !i.running.TryLock() {
		return Report{}, ErrAlreadyRunning
	}
	defer i.running.Unlock()

	started := time.Now()
	report := Report{}

	queries, enabled := i.resolveQueries(ctx)
	report.Queries = queries
	if !enabled && !force {
		report.Disabled = true
		i.logger.Info("news ingestion disabled by settings")
		return report, nil
	}
	if len(queries) == 0 {
		return report, errors.New("no news queries configured")
	}

	articles, fetchErr := i.fetchAll(ctx, queries)
	report.Fetched = len(articles)

	imported, importErr := i.importer.ImportExternal(ctx, articles)
	report.Created = imported.Created
	report.Skipped = imported.Skipped
	report.Duration = time.Since(started)

	err := errors.Join(fetchErr, importErr)
	fields := []zap.Field{
		zap.Strings("queries", queries),
		zap.Int("fetched", report.Fetched),
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.Duration("duration", report.Duration),
	}
	if err != nil {
		i.logger.Warn("news ingestion finished with errors", append(fields, zap.Error(err))...)
	} else {
		i.logger.Info("news ingestion finished", fields...)
	}
	return report, err
}

func (i *Ingestor) resolveQueries(ctx context.Context) ([]string, bool) {
	queries := i.queries
	enabled := true
	if i.settings == nil {
		return queries, enabled
	}

	settings, err := i.settings.GetSettings(ctx)
	if err != nil {
		i.logger.Warn("load news settings failed, using configured queries", zap.Error(err))
		return queries, enabled
	}
	if override := settings.NewsQueries(); len(override) > 0 {
		queries = override
	}
	return queries, settings.NewsEnabled
}

// fetchAll searches every query concurrently. Failed queries are reported in
// the returned error while the others still contribute articles.
func (i *Ingestor) fetchAll(ctx context.Context, queries []string) ([]service.ExternalArticle, error) {
	results := make([][]Article, len(queries))

	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQueries)
	for idx, query := range queries {
		g.Go(func() error {
			articles, err := i.searcher.Search(gctx, query, 0)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("query %q: %w", query, err))
				mu.Unlock()
				return nil
			}
			results[idx] = articles
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{})
	var out []service.ExternalArticle
	for _, batch := range results {
		for _, article := range batch {
			converted, ok := toExternalArticle(article)
			if !ok {
				continue
			}
			if _, dup := seen[converted.URL]; dup {
				continue
			}
			seen[converted.URL] = struct{}{}
			out = append(out, converted)
		}
	}
	return out, errors.Join(errs...)
}

func toExternalArticle(a Article) (service.ExternalArticle, bool) {
	title := strings.TrimSpace(a.Title)
	url := strings.TrimSpace(a.URL)
	if title == "" || url == "" || title == "[Removed]" {
		return service.ExternalArticle{}, false
	}
	return service.ExternalArticle{
		Title:       title,
		Description: strings.TrimSpace(a.Description),
		Content:     strings.TrimSpace(a.Content),
		URL:         url,
		ImageURL:    strings.TrimSpace(a.URLToImage),
		Author:      strings.TrimSpace(a.Author),
		SourceName:  strings.TrimSpace(a.Source.Name),
		PublishedAt: a.PublishedAt,
	}, true
}
