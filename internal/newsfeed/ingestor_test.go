package newsfeed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sitecms/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]Article
	fail    map[string]error
	calls   []string
	block   chan struct{}
}

func (f *fakeSearcher) Search(ctx context.Context, query string, _ int) ([]Article, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.fail[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}

type fakeSettings struct {
	settings service.SystemSettings
}

func (f fakeSettings) GetSettings(context.Context) (service.SystemSettings, error) {
	return f.settings, nil
}

func article(title, url string) Article {
	a := Article{Title: title, URL: url, PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	a.Source.Name = "Wire"
	return a
}

func newMemoryNews() *service.NewsService {
	return service.NewNewsService(service.NewRepositories(nil, nil).News)
}

func TestIngestorRunImportsAndDedupes(t *testing.T) {
	searcher := &fakeSearcher{
		results: map[string][]Article{
			"cloud": {article("Cloud A", "https://n.example/a"), article("[Removed]", "https://n.example/r")},
			"ai":    {article("AI B", "https://n.example/b"), article("Cloud A again", "https://n.example/a"), article("", "https://n.example/x")},
		},
	}
	news := newMemoryNews()
	ing := NewIngestor(searcher, news, nil, []string{"cloud", "ai"}, nil)

	report, err := ing.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"cloud", "ai"}, report.Queries)
	assert.Equal(t, 2, report.Fetched)
	assert.Equal(t, 2, report.Created)

	report, err = ing.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 2, report.Skipped)
}

func TestIngestorSettingsOverride(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]Article{"robotics": {article("Robots", "https://n.example/robots")}}}
	settings := fakeSettings{settings: service.SystemSettings{NewsQuery: "robotics", NewsEnabled: false}}
	ing := NewIngestor(searcher, newMemoryNews(), settings, []string{"cloud"}, nil)

	report, err := ing.Run(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, report.Disabled)
	assert.Empty(t, searcher.calls)

	report, err = ing.Run(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"robotics"}, searcher.calls)
	assert.Equal(t, 1, report.Created)
}

func TestIngestorPartialFailure(t *testing.T) {
	searcher := &fakeSearcher{
		results: map[string][]Article{"ok": {article("Fine", "https://n.example/fine")}},
		fail:    map[string]error{"broken": errors.New("upstream 500")},
	}
	ing := NewIngestor(searcher, newMemoryNews(), nil, []string{"ok", "broken"}, nil)

	report, err := ing.Run(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream 500")
	assert.Equal(t, 1, report.Created)
}

func TestIngestorRejectsOverlappingRuns(t *testing.T) {
	searcher := &fakeSearcher{block: make(chan struct{})}
	ing := NewIngestor(searcher, newMemoryNews(), nil, []string{"slow"}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := ing.Run(context.Background(), true)
		done <- err
	}()

	require.Eventually(t, func() bool {
		searcher.mu.Lock()
		defer searcher.mu.Unlock()
		return len(searcher.calls) == 1
	}, time.Second, 5*time.Millisecond)

	_, err := ing.Run(context.Background(), true)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(searcher.block)
	require.NoError(t, <-done)
}
