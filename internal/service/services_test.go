package service

import (
	"context"
	"testing"

	"github.com/sitecms/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestServicesDashboardMemoryOnly(t *testing.T) {
	ctx := context.Background()
	svcs := NewServices(NewRepositories(nil, nil), Options{Assets: AssetConfig{Dir: t.TempDir()}})

	_, err := svcs.News.Create(ctx, NewsInput{Title: "Hello", Content: "World"})
	require.NoError(t, err)
	_, err = svcs.Jobs.Create(ctx, JobInput{Title: "Designer"})
	require.NoError(t, err)

	dash, err := svcs.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dash.News)
	assert.Equal(t, int64(1), dash.Jobs)
	assert.Zero(t, dash.Projects)
	assert.Equal(t, store.ModeMemory, dash.Storage)
}

func TestServicesHandLoggerToContact(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svcs := NewServices(NewRepositories(nil, nil), Options{Assets: AssetConfig{Dir: t.TempDir()}, Logger: zap.New(core)})

	svcs.Contact.logger.Info("ready")
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "contact", entries[0].LoggerName)
}
