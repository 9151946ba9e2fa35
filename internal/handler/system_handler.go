package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitecms/internal/newsfeed"
	"github.com/sitecms/internal/service"
	"go.uber.org/zap"
)

type systemSettingsRequest struct {
	SiteName         string `json:"siteName"`
	SiteLogoURL      string `json:"siteLogoUrl"`
	ContactRecipient string `json:"contactRecipient"`
	NewsQuery        string `json:"newsQuery"`
	NewsEnabled      *bool  `json:"newsEnabled"`
}

func (r systemSettingsRequest) toInput() service.SystemSettingsInput {
	return service.SystemSettingsInput{
		SiteName:         r.SiteName,
		SiteLogoURL:      r.SiteLogoURL,
		ContactRecipient: r.ContactRecipient,
		NewsQuery:        r.NewsQuery,
		NewsEnabled:      r.NewsEnabled,
	}
}

type aboutRequest struct {
	Heading  string `json:"heading"`
	Body     string `json:"body" binding:"required"`
	Mission  string `json:"mission"`
	Vision   string `json:"vision"`
	ImageURL string `json:"imageUrl"`
}

// GetSystemSettings 返回当前系统设置。
func (a *API) GetSystemSettings(c *gin.Context) {
	settings, err := a.services.Settings.GetSettings(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "settings not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSystemSettings 保存系统设置。
func (a *API) UpdateSystemSettings(c *gin.Context) {
	var payload systemSettingsRequest
	if !bindJSON(c, &payload, "invalid settings payload") {
		return
	}
	settings, err := a.services.Settings.UpdateSettings(c.Request.Context(), payload.toInput())
	if err != nil {
		handleServiceError(c, err, "settings not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "settings saved",
		"settings": settings,
	})
}

// TestNewsConnection 测试新闻 API Key 的连通性。
func (a *API) TestNewsConnection(c *gin.Context) {
	if a.newsPing == nil {
		respondError(c, http.StatusServiceUnavailable, "news client is not configured")
		return
	}
	if err := a.newsPing.Ping(c.Request.Context()); err != nil {
		switch {
		case errors.Is(err, newsfeed.ErrAPIKeyMissing):
			respondError(c, http.StatusBadRequest, "news api key is not configured")
		default:
			respondError(c, http.StatusBadGateway, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "news api is reachable"})
}

// TriggerNewsIngest 立即执行一次新闻抓取，忽略 news_enabled 开关。
func (a *API) TriggerNewsIngest(c *gin.Context) {
	if a.ingestor == nil {
		respondError(c, http.StatusServiceUnavailable, "news ingestion is not configured")
		return
	}
	report, err := a.ingestor.Run(c.Request.Context(), true)
	if err != nil {
		switch {
		case errors.Is(err, newsfeed.ErrAlreadyRunning):
			respondError(c, http.StatusConflict, err.Error())
			return
		case errors.Is(err, newsfeed.ErrAPIKeyMissing):
			respondError(c, http.StatusBadRequest, "news api key is not configured")
			return
		}
		if report.Fetched == 0 && report.Created == 0 {
			respondError(c, http.StatusBadGateway, err.Error())
			return
		}
		a.logger.Warn("news ingestion finished with errors", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{
			"message": "news ingestion finished with errors",
			"report":  report,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "news ingestion finished",
		"report":  report,
	})
}

// GetAdminAbout 返回关于我们内容。
func (a *API) GetAdminAbout(c *gin.Context) {
	about, err := a.services.About.Get(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "about not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"about": newAboutView(about)})
}

// SaveAbout 保存关于我们内容。
func (a *API) SaveAbout(c *gin.Context) {
	var payload aboutRequest
	if !bindJSON(c, &payload, "about body is required") {
		return
	}
	about, err := a.services.About.Save(c.Request.Context(), service.AboutInput{
		Heading:  payload.Heading,
		Body:     payload.Body,
		Mission:  payload.Mission,
		Vision:   payload.Vision,
		ImageURL: payload.ImageURL,
	})
	if err != nil {
		handleServiceError(c, err, "about not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "about saved",
		"about":   newAboutView(about),
	})
}

// ListContactMessages 分页返回联系表单消息。
func (a *API) ListContactMessages(c *gin.Context) {
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	perPage := parsePositiveInt(c.Query("perPage"), 0)

	result, err := a.services.Contact.List(c.Request.Context(), page, perPage)
	if err != nil {
		handleServiceError(c, err, "contact message not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDashboard 返回后台首页统计。
func (a *API) GetDashboard(c *gin.Context) {
	dashboard, err := a.services.Dashboard(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "dashboard not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}
