package service

import (
	"context"
	"time"

	sitemail "github.com/sitecms/internal/mail"
	"github.com/sitecms/internal/store"
	"go.uber.org/zap"
)

// Options carries the non-repository dependencies of the services.
type Options struct {
	Assets           AssetConfig
	Mailer           sitemail.Mailer
	ContactRecipient string
	Logger           *zap.Logger
}

// Services bundles every domain service of the site.
type Services struct {
	Sections     *SectionService
	News         *NewsService
	Catalog      *ServiceCatalog
	Projects     *ProjectService
	Jobs         *JobService
	Testimonials *TestimonialService
	Channels     *ChannelService
	About        *AboutService
	Assets       *AssetService
	Contact      *ContactService
	Settings     *SystemSettingService
	Admins       *AdminService

	status *store.Status
}

// NewServices wires the services on top of repos.
func NewServices(repos *Repositories, opts Options) *Services {
	settings := NewSystemSettingService(repos.Settings)
	contact := NewContactService(repos.ContactMessages, opts.Mailer, settings, opts.ContactRecipient)
	if opts.Logger != nil {
		contact.logger = opts.Logger.Named("contact")
	}
	return &Services{
		Sections:     NewSectionService(repos.Sections),
		News:         NewNewsService(repos.News),
		Catalog:      NewServiceCatalog(repos.Services),
		Projects:     NewProjectService(repos.Projects),
		Jobs:         NewJobService(repos.Jobs),
		Testimonials: NewTestimonialService(repos.Testimonials),
		Channels:     NewChannelService(repos.Channels),
		About:        NewAboutService(repos.About),
		Assets:       NewAssetService(repos.Assets, opts.Assets),
		Contact:      contact,
		Settings:     settings,
		Admins:       NewAdminService(repos.Admins),
		status:       repos.Status,
	}
}

// StorageMode reports where data is currently served from.
func (s *Services) StorageMode() string {
	if s.status == nil {
		return store.ModeMemory
	}
	return s.status.Mode()
}

// LastStorageError returns the most recent primary store failure, if any.
func (s *Services) LastStorageError() (string, time.Time) {
	if s.status == nil {
		return "", time.Time{}
	}
	return s.status.LastError()
}

// Dashboard 汇总后台首页的统计数据。
type Dashboard struct {
	Sections        int64  `json:"sections"`
	News            int64  `json:"news"`
	Services        int64  `json:"services"`
	Projects        int64  `json:"projects"`
	Jobs            int64  `json:"jobs"`
	Testimonials    int64  `json:"testimonials"`
	Channels        int64  `json:"channels"`
	Assets          int64  `json:"assets"`
	ContactMessages int64  `json:"contactMessages"`
	Storage         string `json:"storage"`
}

// Dashboard 统计各类内容数量。
func (s *Services) Dashboard(ctx context.Context) (Dashboard, error) {
	result := Dashboard{Storage: s.StorageMode()}
	counters := []struct {
		dst   *int64
		count func(context.Context) (int64, error)
	}{
		{&result.Sections, s.Sections.Count},
		{&result.News, s.News.Count},
		{&result.Services, s.Catalog.Count},
		{&result.Projects, s.Projects.Count},
		{&result.Jobs, s.Jobs.Count},
		{&result.Testimonials, s.Testimonials.Count},
		{&result.Channels, s.Channels.Count},
		{&result.Assets, s.Assets.Count},
		{&result.ContactMessages, s.Contact.Count},
	}
	for _, counter := range counters {
		n, err := counter.count(ctx)
		if err != nil {
			return result, err
		}
		*counter.dst = n
	}
	// the first failing call may have switched the store to memory
	result.Storage = s.StorageMode()
	return result, nil
}
