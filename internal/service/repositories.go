package service

import (
	"cmp"

	"github.com/sitecms/internal/db"
	"github.com/sitecms/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories bundles one fallback repository per entity. Every repository
// shares the same store.Status.
type Repositories struct {
	Admins          *store.FallbackRepository[db.AdminUser]
	Sections        *store.FallbackRepository[db.Section]
	News            *store.FallbackRepository[db.News]
	Testimonials    *store.FallbackRepository[db.Testimonial]
	Services        *store.FallbackRepository[db.Service]
	Projects        *store.FallbackRepository[db.Project]
	Jobs            *store.FallbackRepository[db.Job]
	About           *store.FallbackRepository[db.About]
	Assets          *store.FallbackRepository[db.Asset]
	ContactMessages *store.FallbackRepository[db.ContactMessage]
	Channels        *store.FallbackRepository[db.ContactChannel]
	Settings        *store.FallbackRepository[db.SystemSetting]

	Status *store.Status
}

// NewRepositories builds the repositories. gdb may be nil, in which case
// everything lives in memory.
func NewRepositories(gdb *gorm.DB, logger *zap.Logger) *Repositories {
	status := store.NewStatus(gdb == nil)
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("store")

	return &Repositories{
		Admins:          newRepository("admin_users", gdb, adminSchema, status, logger),
		Sections:        newRepository("sections", gdb, sectionSchema, status, logger),
		News:            newRepository("news", gdb, newsSchema, status, logger),
		Testimonials:    newRepository("testimonials", gdb, testimonialSchema, status, logger),
		Services:        newRepository("services", gdb, serviceSchema, status, logger),
		Projects:        newRepository("projects", gdb, projectSchema, status, logger),
		Jobs:            newRepository("jobs", gdb, jobSchema, status, logger),
		About:           newRepository("about", gdb, aboutSchema, status, logger),
		Assets:          newRepository("assets", gdb, assetSchema, status, logger),
		ContactMessages: newRepository("contact_messages", gdb, contactMessageSchema, status, logger),
		Channels:        newRepository("contact_channels", gdb, channelSchema, status, logger),
		Settings:        newRepository("system_settings", gdb, settingSchema, status, logger),
		Status:          status,
	}
}

func newRepository[T any, PT store.Entity[T]](name string, gdb *gorm.DB, schema store.Schema[T], status *store.Status, logger *zap.Logger) *store.FallbackRepository[T] {
	var primary store.Repository[T]
	if gdb != nil {
		primary = store.NewGormRepository[T, PT](gdb, schema)
	}
	secondary := store.NewMemoryRepository[T, PT](schema)
	return store.NewFallbackRepository[T](name, primary, secondary, status, logger)
}

func bySortOrder(a, b int) int { return cmp.Compare(a, b) }

var adminSchema = store.Schema[db.AdminUser]{
	Name:    "admin_users",
	OrderBy: "id asc",
	Lookups: map[string]func(*db.AdminUser) string{
		"username": func(u *db.AdminUser) string { return u.Username },
	},
	Unique: []string{"username"},
}

var sectionSchema = store.Schema[db.Section]{
	Name:          "sections",
	OrderBy:       "sort_order asc, id asc",
	Compare:       func(a, b *db.Section) int { return bySortOrder(a.SortOrder, b.SortOrder) },
	EnabledColumn: "enabled",
	Enabled:       func(s *db.Section) bool { return s.Enabled },
	Lookups: map[string]func(*db.Section) string{
		"key": func(s *db.Section) string { return s.Key },
	},
	Unique:      []string{"key"},
	OrderColumn: "sort_order",
	SetOrder:    func(s *db.Section, order int) { s.SortOrder = order },
}

var newsSchema = store.Schema[db.News]{
	Name:    "news",
	OrderBy: "published_at desc, id desc",
	Compare: func(a, b *db.News) int {
		if c := b.PublishedAt.Compare(a.PublishedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	},
	EnabledColumn: "enabled",
	Enabled:       func(n *db.News) bool { return n.Enabled },
	Lookups: map[string]func(*db.News) string{
		"slug":       func(n *db.News) string { return n.Slug },
		"source_url": func(n *db.News) string { return n.SourceURL },
	},
	Unique: []string{"slug", "source_url"},
}

var testimonialSchema = store.Schema[db.Testimonial]{
	Name:          "testimonials",
	OrderBy:       "sort_order asc, id asc",
	Compare:       func(a, b *db.Testimonial) int { return bySortOrder(a.SortOrder, b.SortOrder) },
	EnabledColumn: "enabled",
	Enabled:       func(t *db.Testimonial) bool { return t.Enabled },
	OrderColumn:   "sort_order",
	SetOrder:      func(t *db.Testimonial, order int) { t.SortOrder = order },
}

var serviceSchema = store.Schema[db.Service]{
	Name:          "services",
	OrderBy:       "sort_order asc, id asc",
	Compare:       func(a, b *db.Service) int { return bySortOrder(a.SortOrder, b.SortOrder) },
	EnabledColumn: "enabled",
	Enabled:       func(s *db.Service) bool { return s.Enabled },
	Lookups: map[string]func(*db.Service) string{
		"slug": func(s *db.Service) string { return s.Slug },
	},
	Unique:      []string{"slug"},
	OrderColumn: "sort_order",
	SetOrder:    func(s *db.Service, order int) { s.SortOrder = order },
}

var projectSchema = store.Schema[db.Project]{
	Name:          "projects",
	OrderBy:       "sort_order asc, id asc",
	Compare:       func(a, b *db.Project) int { return bySortOrder(a.SortOrder, b.SortOrder) },
	EnabledColumn: "enabled",
	Enabled:       func(p *db.Project) bool { return p.Enabled },
	Lookups: map[string]func(*db.Project) string{
		"slug": func(p *db.Project) string { return p.Slug },
	},
	Unique:      []string{"slug"},
	OrderColumn: "sort_order",
	SetOrder:    func(p *db.Project, order int) { p.SortOrder = order },
}

var jobSchema = store.Schema[db.Job]{
	Name:          "jobs",
	OrderBy:       "sort_order asc, id asc",
	Compare:       func(a, b *db.Job) int { return bySortOrder(a.SortOrder, b.SortOrder) },
	EnabledColumn: "enabled",
	Enabled:       func(j *db.Job) bool { return j.Enabled },
	Lookups: map[string]func(*db.Job) string{
		"slug": func(j *db.Job) string { return j.Slug },
	},
	Unique:      []string{"slug"},
	OrderColumn: "sort_order",
	SetOrder:    func(j *db.Job, order int) { j.SortOrder = order },
}

var aboutSchema = store.Schema[db.About]{
	Name:    "about",
	OrderBy: "id asc",
}

var assetSchema = store.Schema[db.Asset]{
	Name:    "assets",
	OrderBy: "created_at desc, id desc",
	Compare: func(a, b *db.Asset) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	},
	Lookups: map[string]func(*db.Asset) string{
		"file_name": func(a *db.Asset) string { return a.FileName },
	},
	Unique: []string{"file_name"},
}

var contactMessageSchema = store.Schema[db.ContactMessage]{
	Name:    "contact_messages",
	OrderBy: "created_at desc, id desc",
	Compare: func(a, b *db.ContactMessage) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	},
}

var channelSchema = store.Schema[db.ContactChannel]{
	Name:          "contact_channels",
	OrderBy:       "sort asc, id asc",
	Compare:       func(a, b *db.ContactChannel) int { return bySortOrder(a.Sort, b.Sort) },
	EnabledColumn: "visible",
	Enabled:       func(c *db.ContactChannel) bool { return c.Visible },
	OrderColumn:   "sort",
	SetOrder:      func(c *db.ContactChannel, order int) { c.Sort = order },
}

var settingSchema = store.Schema[db.SystemSetting]{
	Name:    "system_settings",
	OrderBy: "id asc",
	Lookups: map[string]func(*db.SystemSetting) string{
		"key": func(s *db.SystemSetting) string { return s.Key },
	},
	Unique: []string{"key"},
}

// Memory returns a view that reads and writes only the in-memory side of
// every repository. It is used to seed content for degraded mode.
func (r *Repositories) Memory() *Repositories {
	status := store.NewStatus(true)
	return &Repositories{
		Admins:          memoryView("admin_users", r.Admins, status),
		Sections:        memoryView("sections", r.Sections, status),
		News:            memoryView("news", r.News, status),
		Testimonials:    memoryView("testimonials", r.Testimonials, status),
		Services:        memoryView("services", r.Services, status),
		Projects:        memoryView("projects", r.Projects, status),
		Jobs:            memoryView("jobs", r.Jobs, status),
		About:           memoryView("about", r.About, status),
		Assets:          memoryView("assets", r.Assets, status),
		ContactMessages: memoryView("contact_messages", r.ContactMessages, status),
		Channels:        memoryView("contact_channels", r.Channels, status),
		Settings:        memoryView("system_settings", r.Settings, status),
		Status:          status,
	}
}

func memoryView[T any](name string, repo *store.FallbackRepository[T], status *store.Status) *store.FallbackRepository[T] {
	return store.NewFallbackRepository[T](name, nil, repo.Secondary(), status, nil)
}
