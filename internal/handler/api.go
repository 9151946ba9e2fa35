package handler

import (
	"context"
	"strings"

	"github.com/sitecms/internal/newsfeed"
	"github.com/sitecms/internal/service"
	"go.uber.org/zap"
)

// NewsIngestor triggers a news ingestion run.
type NewsIngestor interface {
	Run(ctx context.Context, force bool) (newsfeed.Report, error)
}

// NewsPinger verifies the news API credentials.
type NewsPinger interface {
	Ping(ctx context.Context) error
}

// Options carries the optional dependencies of the handlers.
type Options struct {
	Ingestor   NewsIngestor
	NewsClient NewsPinger
	Logger     *zap.Logger
	// SiteBaseURL 用于拼接上传文件的绝对地址，为空时只返回相对路径。
	SiteBaseURL string
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	services *service.Services
	ingestor NewsIngestor
	newsPing NewsPinger
	logger   *zap.Logger
	baseURL  string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(svcs *service.Services, opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		services: svcs,
		ingestor: opts.Ingestor,
		newsPing: opts.NewsClient,
		logger:   logger.Named("handler"),
		baseURL:  strings.TrimRight(opts.SiteBaseURL, "/"),
	}
}
