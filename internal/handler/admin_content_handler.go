package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitecms/internal/db"
	"github.com/sitecms/internal/service"
)

type sectionRequest struct {
	Key       string          `json:"key"`
	Title     string          `json:"title"`
	Subtitle  string          `json:"subtitle"`
	Data      json.RawMessage `json:"data"`
	Enabled   *bool           `json:"enabled"`
	SortOrder *int            `json:"sortOrder"`
}

func (r sectionRequest) toInput() service.SectionInput {
	return service.SectionInput{
		Key:       r.Key,
		Title:     r.Title,
		Subtitle:  r.Subtitle,
		Data:      r.Data,
		Enabled:   r.Enabled,
		SortOrder: r.SortOrder,
	}
}

type newsRequest struct {
	Title       string     `json:"title" binding:"required"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content"`
	ImageURL    string     `json:"imageUrl"`
	Author      string     `json:"author"`
	SourceName  string     `json:"sourceName"`
	SourceURL   string     `json:"sourceUrl"`
	PublishedAt *time.Time `json:"publishedAt"`
	Enabled     *bool      `json:"enabled"`
}

func (r newsRequest) toInput() service.NewsInput {
	return service.NewsInput{
		Title:       r.Title,
		Slug:        r.Slug,
		Summary:     r.Summary,
		Content:     r.Content,
		ImageURL:    r.ImageURL,
		Author:      r.Author,
		SourceName:  r.SourceName,
		SourceURL:   r.SourceURL,
		PublishedAt: r.PublishedAt,
		Enabled:     r.Enabled,
	}
}

type serviceRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	ImageURL    string `json:"imageUrl"`
	Enabled     *bool  `json:"enabled"`
	SortOrder   *int   `json:"sortOrder"`
}

func (r serviceRequest) toInput() service.ServiceInput {
	return service.ServiceInput{
		Title:       r.Title,
		Slug:        r.Slug,
		Summary:     r.Summary,
		Description: r.Description,
		Icon:        r.Icon,
		ImageURL:    r.ImageURL,
		Enabled:     r.Enabled,
		SortOrder:   r.SortOrder,
	}
}

type projectRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug"`
	Category    string `json:"category"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Link        string `json:"link"`
	Featured    *bool  `json:"featured"`
	Enabled     *bool  `json:"enabled"`
	SortOrder   *int   `json:"sortOrder"`
}

func (r projectRequest) toInput() service.ProjectInput {
	return service.ProjectInput{
		Title:       r.Title,
		Slug:        r.Slug,
		Category:    r.Category,
		Summary:     r.Summary,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Link:        r.Link,
		Featured:    r.Featured,
		Enabled:     r.Enabled,
		SortOrder:   r.SortOrder,
	}
}

type jobRequest struct {
	Title          string `json:"title" binding:"required"`
	Slug           string `json:"slug"`
	Department     string `json:"department"`
	Location       string `json:"location"`
	EmploymentType string `json:"employmentType"`
	Summary        string `json:"summary"`
	Description    string `json:"description"`
	ApplyURL       string `json:"applyUrl"`
	ApplyEmail     string `json:"applyEmail"`
	Enabled        *bool  `json:"enabled"`
	SortOrder      *int   `json:"sortOrder"`
}

func (r jobRequest) toInput() service.JobInput {
	return service.JobInput{
		Title:          r.Title,
		Slug:           r.Slug,
		Department:     r.Department,
		Location:       r.Location,
		EmploymentType: r.EmploymentType,
		Summary:        r.Summary,
		Description:    r.Description,
		ApplyURL:       r.ApplyURL,
		ApplyEmail:     r.ApplyEmail,
		Enabled:        r.Enabled,
		SortOrder:      r.SortOrder,
	}
}

type testimonialRequest struct {
	Author    string `json:"author" binding:"required"`
	Role      string `json:"role"`
	Company   string `json:"company"`
	Quote     string `json:"quote" binding:"required"`
	AvatarURL string `json:"avatarUrl"`
	Rating    *int   `json:"rating"`
	Enabled   *bool  `json:"enabled"`
	SortOrder *int   `json:"sortOrder"`
}

func (r testimonialRequest) toInput() service.TestimonialInput {
	return service.TestimonialInput{
		Author:    r.Author,
		Role:      r.Role,
		Company:   r.Company,
		Quote:     r.Quote,
		AvatarURL: r.AvatarURL,
		Rating:    r.Rating,
		Enabled:   r.Enabled,
		SortOrder: r.SortOrder,
	}
}

type channelRequest struct {
	Platform string `json:"platform"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Link     string `json:"link"`
	Icon     string `json:"icon"`
	Sort     *int   `json:"sort"`
	Visible  *bool  `json:"visible"`
}

func (r channelRequest) toInput() service.ChannelInput {
	return service.ChannelInput{
		Platform: r.Platform,
		Label:    r.Label,
		Value:    r.Value,
		Link:     r.Link,
		Icon:     r.Icon,
		Sort:     r.Sort,
		Visible:  r.Visible,
	}
}

// registerContentRoutes mounts the admin CRUD collections.
func (a *API) registerContentRoutes(admin *gin.RouterGroup) {
	s := a.services

	registerResource(admin, "/sections", resource[sectionRequest, db.Section, sectionView]{
		singular: "section",
		plural:   "sections",
		view:     newSectionView,
		list:     s.Sections.ListAll,
		get:      s.Sections.Get,
		create:   adapt(s.Sections.Create, sectionRequest.toInput),
		update:   adaptID(s.Sections.Update, sectionRequest.toInput),
		delete:   s.Sections.Delete,
		reorder:  s.Sections.Reorder,
	})
	admin.PUT("/sections/key/:key", a.UpsertSection)

	registerResource(admin, "/news", resource[newsRequest, db.News, newsView]{
		singular: "news",
		plural:   "news",
		view:     newNewsView,
		get:      s.News.Get,
		create:   adapt(s.News.Create, newsRequest.toInput),
		update:   adaptID(s.News.Update, newsRequest.toInput),
		delete:   s.News.Delete,
	})
	admin.GET("/news", a.ListAdminNews)
	admin.POST("/news/ingest", a.TriggerNewsIngest)

	registerResource(admin, "/services", resource[serviceRequest, db.Service, serviceView]{
		singular: "service",
		plural:   "services",
		view:     newServiceView,
		list:     func(ctx context.Context) ([]db.Service, error) { return s.Catalog.List(ctx, false) },
		get:      s.Catalog.Get,
		create:   adapt(s.Catalog.Create, serviceRequest.toInput),
		update:   adaptID(s.Catalog.Update, serviceRequest.toInput),
		delete:   s.Catalog.Delete,
		reorder:  s.Catalog.Reorder,
	})

	registerResource(admin, "/projects", resource[projectRequest, db.Project, projectView]{
		singular: "project",
		plural:   "projects",
		view:     newProjectView,
		list:     func(ctx context.Context) ([]db.Project, error) { return s.Projects.List(ctx, false, false) },
		get:      s.Projects.Get,
		create:   adapt(s.Projects.Create, projectRequest.toInput),
		update:   adaptID(s.Projects.Update, projectRequest.toInput),
		delete:   s.Projects.Delete,
		reorder:  s.Projects.Reorder,
	})

	registerResource(admin, "/jobs", resource[jobRequest, db.Job, jobView]{
		singular: "job",
		plural:   "jobs",
		view:     newJobView,
		list:     func(ctx context.Context) ([]db.Job, error) { return s.Jobs.List(ctx, false) },
		get:      s.Jobs.Get,
		create:   adapt(s.Jobs.Create, jobRequest.toInput),
		update:   adaptID(s.Jobs.Update, jobRequest.toInput),
		delete:   s.Jobs.Delete,
		reorder:  s.Jobs.Reorder,
	})

	registerResource(admin, "/testimonials", resource[testimonialRequest, db.Testimonial, db.Testimonial]{
		singular: "testimonial",
		plural:   "testimonials",
		view:     identity[db.Testimonial],
		list:     func(ctx context.Context) ([]db.Testimonial, error) { return s.Testimonials.List(ctx, false) },
		get:      s.Testimonials.Get,
		create:   adapt(s.Testimonials.Create, testimonialRequest.toInput),
		update:   adaptID(s.Testimonials.Update, testimonialRequest.toInput),
		delete:   s.Testimonials.Delete,
		reorder:  s.Testimonials.Reorder,
	})

	admin.GET("/channels/icons", a.ListChannelIcons)
	registerResource(admin, "/channels", resource[channelRequest, db.ContactChannel, db.ContactChannel]{
		singular: "channel",
		plural:   "channels",
		view:     identity[db.ContactChannel],
		list:     func(ctx context.Context) ([]db.ContactChannel, error) { return s.Channels.List(ctx, true) },
		get:      s.Channels.Get,
		create:   adapt(s.Channels.Create, channelRequest.toInput),
		update:   adaptID(s.Channels.Update, channelRequest.toInput),
		delete:   s.Channels.Delete,
		reorder:  s.Channels.Reorder,
	})
}

// UpsertSection 按 key 创建或更新区块。
func (a *API) UpsertSection(c *gin.Context) {
	var payload sectionRequest
	if !bindJSON(c, &payload, "invalid section payload") {
		return
	}
	section, err := a.services.Sections.Upsert(c.Request.Context(), c.Param("key"), payload.toInput())
	if err != nil {
		handleServiceError(c, err, "section not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "section saved",
		"section": newSectionView(*section),
	})
}

// ListAdminNews 分页返回所有新闻，包括未发布的。
func (a *API) ListAdminNews(c *gin.Context) {
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	perPage := parsePositiveInt(c.Query("perPage"), 0)

	result, err := a.services.News.ListAll(c.Request.Context(), page, perPage)
	if err != nil {
		handleServiceError(c, err, "news not found")
		return
	}
	c.JSON(http.StatusOK, pageViews(result, newNewsView))
}

// ListChannelIcons 返回可选的联系方式图标。
func (a *API) ListChannelIcons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"icons": service.ChannelIcons()})
}
