package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/sitecms/internal/handler"
	"github.com/sitecms/internal/service"
	"github.com/sitecms/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthReportsMemoryStorage(t *testing.T) {
	srv := newTestServer(t, handler.Options{})

	rr := srv.do(http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string]any](t, rr)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, store.ModeMemory, body["storage"])
	assert.NotContains(t, body, "lastError")
}

func TestSiteAggregatesPublicContent(t *testing.T) {
	srv := newTestServer(t, handler.Options{})
	ctx := context.Background()
	svcs := srv.services

	_, err := svcs.Sections.Create(ctx, service.SectionInput{Key: "hero"})
	require.NoError(t, err)
	_, err = svcs.Sections.Create(ctx, service.SectionInput{Key: "careers", Enabled: boolPtr(false)})
	require.NoError(t, err)
	_, err = svcs.Catalog.Create(ctx, service.ServiceInput{Title: "Consulting"})
	require.NoError(t, err)
	_, err = svcs.Projects.Create(ctx, service.ProjectInput{Title: "Portal", Featured: boolPtr(true)})
	require.NoError(t, err)
	_, err = svcs.Projects.Create(ctx, service.ProjectInput{Title: "Archive"})
	require.NoError(t, err)
	for _, title := range []string{"One", "Two", "Three", "Four"} {
		_, err = svcs.News.Create(ctx, service.NewsInput{Title: title, Summary: title})
		require.NoError(t, err)
	}

	rr := srv.do(http.MethodGet, "/api/site", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	site := decode[struct {
		Settings struct {
			SiteName string `json:"siteName"`
		} `json:"settings"`
		Sections []struct {
			Key string `json:"key"`
		} `json:"sections"`
		Services     []map[string]any `json:"services"`
		Projects     []map[string]any `json:"projects"`
		News         []map[string]any `json:"news"`
		Testimonials []map[string]any `json:"testimonials"`
		About        struct {
			Heading string `json:"heading"`
		} `json:"about"`
	}](t, rr)

	assert.Equal(t, service.DefaultSettings().SiteName, site.Settings.SiteName)
	require.Len(t, site.Sections, 1)
	assert.Equal(t, "hero", site.Sections[0].Key)
	assert.Len(t, site.Services, 1)
	assert.Len(t, site.Projects, 2)
	assert.Len(t, site.News, 3)
	assert.NotNil(t, site.Testimonials)
	assert.Equal(t, service.DefaultAbout().Heading, site.About.Heading)

	rr = srv.do(http.MethodGet, "/api/projects?featured=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	featured := decode[struct {
		Projects []map[string]any `json:"projects"`
	}](t, rr)
	assert.Len(t, featured.Projects, 1)
}

func TestContactSubmission(t *testing.T) {
	srv := newTestServer(t, handler.Options{})

	valid := map[string]string{
		"name":    "Grace",
		"email":   "grace@example.org",
		"subject": "Quote",
		"message": "Please send us a quote for a new site.",
	}

	rr := srv.do(http.MethodPost, "/api/contact", valid)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Len(t, srv.mailer.sent, 1)
	assert.Equal(t, "owner@example.com", srv.mailer.sent[0].To)
	assert.Equal(t, "grace@example.org", srv.mailer.sent[0].ReplyTo)

	invalid := map[string]string{"name": "Grace", "email": "nope", "message": "Please send us a quote."}
	rr = srv.do(http.MethodPost, "/api/contact", invalid)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	srv.mailer.err = errors.New("smtp down")
	rr = srv.do(http.MethodPost, "/api/contact", valid)
	assert.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())

	srv.login()
	rr = srv.do(http.MethodGet, "/api/admin/contact-messages", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	page := decode[struct {
		Items []struct {
			Delivered     bool   `json:"delivered"`
			DeliveryError string `json:"deliveryError"`
		} `json:"items"`
		Total int64 `json:"total"`
	}](t, rr)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	assert.False(t, page.Items[0].Delivered)
	assert.Contains(t, page.Items[0].DeliveryError, "smtp down")
	assert.True(t, page.Items[1].Delivered)
}

func boolPtr(v bool) *bool { return &v }
