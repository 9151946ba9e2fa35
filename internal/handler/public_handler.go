package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sitecms/internal/db"
	"github.com/sitecms/internal/service"
	"github.com/sitecms/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HealthCheck 报告服务与存储状态。数据库降级时仍返回 200，内存兜底可以继续服务。
func (a *API) HealthCheck(c *gin.Context) {
	mode := a.services.StorageMode()
	database := "up"
	switch mode {
	case store.ModeDegraded:
		database = "degraded"
	case store.ModeMemory:
		database = "disabled"
	}

	body := gin.H{
		"status":   "ok",
		"database": database,
		"storage":  mode,
	}
	if msg, at := a.services.LastStorageError(); msg != "" {
		body["lastError"] = msg
		body["lastErrorAt"] = at
	}
	c.JSON(http.StatusOK, body)
}

type siteView struct {
	Settings     service.SystemSettings `json:"settings"`
	Sections     []sectionView          `json:"sections"`
	Services     []serviceView          `json:"services"`
	Projects     []projectView          `json:"projects"`
	News         []newsView             `json:"news"`
	Testimonials []db.Testimonial       `json:"testimonials"`
	Jobs         []jobView              `json:"jobs"`
	About        aboutView              `json:"about"`
	Channels     []db.ContactChannel    `json:"channels"`
}

// latestNewsCount 是首页聚合接口返回的新闻条数。
const latestNewsCount = 3

// GetSite 聚合首页需要的全部公开内容。
func (a *API) GetSite(c *gin.Context) {
	site, err := a.loadSite(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "site not found")
		return
	}
	c.JSON(http.StatusOK, site)
}

func (a *API) loadSite(ctx context.Context) (siteView, error) {
	s := a.services
	var site siteView

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		settings, err := s.Settings.GetSettings(gctx)
		site.Settings = settings
		return err
	})
	g.Go(func() error {
		items, err := s.Sections.List(gctx, true)
		site.Sections = mapViews(items, newSectionView)
		return err
	})
	g.Go(func() error {
		items, err := s.Catalog.List(gctx, true)
		site.Services = mapViews(items, newServiceView)
		return err
	})
	g.Go(func() error {
		items, err := s.Projects.List(gctx, true, false)
		site.Projects = mapViews(items, newProjectView)
		return err
	})
	g.Go(func() error {
		page, err := s.News.ListPublished(gctx, 1, latestNewsCount)
		site.News = mapViews(page.Items, newNewsView)
		return err
	})
	g.Go(func() error {
		items, err := s.Testimonials.List(gctx, true)
		site.Testimonials = items
		return err
	})
	g.Go(func() error {
		items, err := s.Jobs.List(gctx, true)
		site.Jobs = mapViews(items, newJobView)
		return err
	})
	g.Go(func() error {
		about, err := s.About.Get(gctx)
		site.About = newAboutView(about)
		return err
	})
	g.Go(func() error {
		items, err := s.Channels.List(gctx, false)
		site.Channels = items
		return err
	})

	if err := g.Wait(); err != nil {
		return siteView{}, err
	}
	if site.Testimonials == nil {
		site.Testimonials = []db.Testimonial{}
	}
	if site.Channels == nil {
		site.Channels = []db.ContactChannel{}
	}
	return site, nil
}

// ListSections 返回启用的区块。
func (a *API) ListSections(c *gin.Context) {
	items, err := a.services.Sections.List(c.Request.Context(), true)
	if err != nil {
		handleServiceError(c, err, "section not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": mapViews(items, newSectionView)})
}

// GetSection 按 key 返回单个启用的区块。
func (a *API) GetSection(c *gin.Context) {
	section, err := a.services.Sections.GetByKey(c.Request.Context(), c.Param("key"), true)
	if err != nil {
		handleServiceError(c, err, "section not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"section": newSectionView(*section)})
}

// ListNews 分页返回已发布的新闻。
func (a *API) ListNews(c *gin.Context) {
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	perPage := parsePositiveInt(c.Query("perPage"), 0)

	result, err := a.services.News.ListPublished(c.Request.Context(), page, perPage)
	if err != nil {
		handleServiceError(c, err, "news not found")
		return
	}
	c.JSON(http.StatusOK, pageViews(result, newNewsView))
}

// GetNews returns one published article by slug.
func (a *API) GetNews(c *gin.Context) {
	item, err := a.services.News.GetBySlug(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		handleServiceError(c, err, "news not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"news": newNewsView(*item)})
}

func (a *API) ListServices(c *gin.Context) {
	items, err := a.services.Catalog.List(c.Request.Context(), true)
	if err != nil {
		handleServiceError(c, err, "service not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": mapViews(items, newServiceView)})
}

// ListProjects 返回公开的作品，featured=true 时只返回推荐项。
func (a *API) ListProjects(c *gin.Context) {
	featured, _ := strconv.ParseBool(c.Query("featured"))
	items, err := a.services.Projects.List(c.Request.Context(), true, featured)
	if err != nil {
		handleServiceError(c, err, "project not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": mapViews(items, newProjectView)})
}

func (a *API) ListTestimonials(c *gin.Context) {
	items, err := a.services.Testimonials.List(c.Request.Context(), true)
	if err != nil {
		handleServiceError(c, err, "testimonial not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": mapViews(items, identity[db.Testimonial])})
}

func (a *API) ListJobs(c *gin.Context) {
	items, err := a.services.Jobs.List(c.Request.Context(), true)
	if err != nil {
		handleServiceError(c, err, "job not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": mapViews(items, newJobView)})
}

func (a *API) GetJob(c *gin.Context) {
	job, err := a.services.Jobs.GetBySlug(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		handleServiceError(c, err, "job not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": newJobView(*job)})
}

// GetAbout 返回关于我们内容，未配置时返回默认值。
func (a *API) GetAbout(c *gin.Context) {
	about, err := a.services.About.Get(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "about not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"about": newAboutView(about)})
}

// ListChannels 返回可见的联系方式。
func (a *API) ListChannels(c *gin.Context) {
	items, err := a.services.Channels.List(c.Request.Context(), false)
	if err != nil {
		handleServiceError(c, err, "channel not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": mapViews(items, identity[db.ContactChannel])})
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// SubmitContact 保存联系表单并转发邮件。投递失败时消息仍已保存，返回 202。
func (a *API) SubmitContact(c *gin.Context) {
	var payload contactRequest
	if !bindJSON(c, &payload, "name, email and message are required") {
		return
	}

	msg, err := a.services.Contact.Submit(c.Request.Context(), service.ContactInput{
		Name:    payload.Name,
		Email:   payload.Email,
		Phone:   payload.Phone,
		Company: payload.Company,
		Subject: payload.Subject,
		Message: payload.Message,
	})
	if errors.Is(err, service.ErrDeliveryFailed) && msg != nil {
		a.logger.Warn("contact message stored but not delivered",
			zap.Uint("id", msg.ID), zap.Error(err))
		c.JSON(http.StatusAccepted, gin.H{
			"message": "message received, delivery pending",
			"id":      msg.ID,
		})
		return
	}
	if err != nil {
		handleServiceError(c, err, "contact message not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "message sent",
		"id":      msg.ID,
	})
}
