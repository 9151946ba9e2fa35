package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/sitecms/internal/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sectionBody struct {
	Section struct {
		ID      uint           `json:"id"`
		Key     string         `json:"key"`
		Title   string         `json:"title"`
		Enabled bool           `json:"enabled"`
		Data    map[string]any `json:"data"`
	} `json:"section"`
}

func TestSectionCRUDAndPublicVisibility(t *testing.T) {
	srv := newTestServer(t, handler.Options{})
	srv.login()

	rr := srv.do(http.MethodPost, "/api/admin/sections", map[string]any{
		"key":   "Hero",
		"title": "Welcome",
		"data":  map[string]any{"heading": "We build websites", "extra": true},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[sectionBody](t, rr)
	assert.Equal(t, "hero", created.Section.Key)
	assert.Equal(t, "We build websites", created.Section.Data["heading"])
	assert.Equal(t, "Get in touch", created.Section.Data["ctaLabel"])
	assert.Equal(t, true, created.Section.Data["extra"])

	rr = srv.do(http.MethodPost, "/api/admin/sections", map[string]any{"key": "hero"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = srv.do(http.MethodPost, "/api/admin/sections", map[string]any{"key": "about", "data": []int{1, 2}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = srv.do(http.MethodGet, "/api/sections/hero", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = srv.do(http.MethodPut, fmt.Sprintf("/api/admin/sections/%d", created.Section.ID), map[string]any{
		"title":   "Welcome back",
		"enabled": false,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[sectionBody](t, rr)
	assert.Equal(t, "Welcome back", updated.Section.Title)
	assert.False(t, updated.Section.Enabled)

	rr = srv.do(http.MethodGet, "/api/sections/hero", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = srv.do(http.MethodDelete, fmt.Sprintf("/api/admin/sections/%d", created.Section.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = srv.do(http.MethodGet, fmt.Sprintf("/api/admin/sections/%d", created.Section.ID), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpsertSectionByKey(t *testing.T) {
	srv := newTestServer(t, handler.Options{})
	srv.login()

	rr := srv.do(http.MethodPut, "/api/admin/sections/key/services", map[string]any{
		"title": "What we do",
		"data":  map[string]any{"limit": "4"},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	first := decode[sectionBody](t, rr)
	assert.Equal(t, "services", first.Section.Key)
	assert.Equal(t, float64(4), first.Section.Data["limit"])

	rr = srv.do(http.MethodPut, "/api/admin/sections/key/services", map[string]any{
		"title": "Our services",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	second := decode[sectionBody](t, rr)
	assert.Equal(t, first.Section.ID, second.Section.ID)
	assert.Equal(t, "Our services", second.Section.Title)
}

func TestServiceReorder(t *testing.T) {
	srv := newTestServer(t, handler.Options{})
	srv.login()

	ids := make([]uint, 0, 3)
	for _, title := range []string{"Design", "Build", "Host"} {
		rr := srv.do(http.MethodPost, "/api/admin/services", map[string]any{"title": title})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		body := decode[struct {
			Service struct {
				ID uint `json:"id"`
			} `json:"service"`
		}](t, rr)
		ids = append(ids, body.Service.ID)
	}

	rr := srv.do(http.MethodPut, "/api/admin/services/reorder", map[string]any{
		"ids": []uint{ids[2], ids[0], ids[1]},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = srv.do(http.MethodGet, "/api/services", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[struct {
		Services []struct {
			Title string `json:"title"`
		} `json:"services"`
	}](t, rr)
	require.Len(t, list.Services, 3)
	assert.Equal(t, "Host", list.Services[0].Title)
	assert.Equal(t, "Design", list.Services[1].Title)
	assert.Equal(t, "Build", list.Services[2].Title)

	rr = srv.do(http.MethodPut, "/api/admin/services/reorder", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNewsAdminAndPublicRoutes(t *testing.T) {
	srv := newTestServer(t, handler.Options{})
	srv.login()

	rr := srv.do(http.MethodPost, "/api/admin/news", map[string]any{
		"title":   "Launching our new office",
		"content": "We **moved**.",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[struct {
		News struct {
			ID   uint   `json:"id"`
			Slug string `json:"slug"`
		} `json:"news"`
	}](t, rr)
	assert.Equal(t, "launching-our-new-office", created.News.Slug)

	rr = srv.do(http.MethodPost, "/api/admin/news", map[string]any{"title": "Hidden draft", "summary": "soon", "enabled": false})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = srv.do(http.MethodGet, "/api/admin/news?perPage=10", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	adminPage := decode[struct {
		Total int64 `json:"total"`
	}](t, rr)
	assert.Equal(t, int64(2), adminPage.Total)

	rr = srv.do(http.MethodGet, "/api/news", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	publicPage := decode[struct {
		Items []struct {
			Slug        string `json:"slug"`
			ContentHTML string `json:"contentHtml"`
		} `json:"items"`
		Total int64 `json:"total"`
	}](t, rr)
	assert.Equal(t, int64(1), publicPage.Total)
	require.Len(t, publicPage.Items, 1)
	assert.Contains(t, publicPage.Items[0].ContentHTML, "<strong>moved</strong>")

	rr = srv.do(http.MethodGet, "/api/news/"+created.News.Slug, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = srv.do(http.MethodGet, "/api/news/hidden-draft", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = srv.do(http.MethodPut, "/api/admin/news/reorder", map[string]any{"ids": []uint{created.News.ID}})
	assert.NotEqual(t, http.StatusOK, rr.Code, "news has no manual ordering")
}

func TestJobValidationAndPublicLookup(t *testing.T) {
	srv := newTestServer(t, handler.Options{})
	srv.login()

	rr := srv.do(http.MethodPost, "/api/admin/jobs", map[string]any{
		"title":      "Backend Engineer",
		"applyEmail": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = srv.do(http.MethodPost, "/api/admin/jobs", map[string]any{
		"title":          "Backend Engineer",
		"employmentType": "Part Time",
		"applyEmail":     "jobs@example.com",
		"description":    "- Go\n- SQL",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = srv.do(http.MethodGet, "/api/jobs/backend-engineer", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	job := decode[struct {
		Job struct {
			EmploymentType  string `json:"employmentType"`
			DescriptionHTML string `json:"descriptionHtml"`
		} `json:"job"`
	}](t, rr)
	assert.Equal(t, "part-time", job.Job.EmploymentType)
	assert.Contains(t, job.Job.DescriptionHTML, "<li>Go</li>")
}

func TestTestimonialRatingValidation(t *testing.T) {
	srv := newTestServer(t, handler.Options{})
	srv.login()

	rr := srv.do(http.MethodPost, "/api/admin/testimonials", map[string]any{
		"author": "Ada",
		"quote":  "Great work",
		"rating": 9,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = srv.do(http.MethodPost, "/api/admin/testimonials", map[string]any{
		"author": "Ada",
		"quote":  "Great work",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = srv.do(http.MethodGet, "/api/testimonials", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[struct {
		Testimonials []struct {
			Rating int `json:"rating"`
		} `json:"testimonials"`
	}](t, rr)
	require.Len(t, list.Testimonials, 1)
	assert.Equal(t, 5, list.Testimonials[0].Rating)
}

func TestHiddenChannelsStayPrivate(t *testing.T) {
	srv := newTestServer(t, handler.Options{})
	srv.login()

	rr := srv.do(http.MethodPost, "/api/admin/channels", map[string]any{"platform": "email", "label": "Email", "value": "hi@example.com"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	rr = srv.do(http.MethodPost, "/api/admin/channels", map[string]any{"platform": "phone", "label": "Phone", "value": "+1 555 0100", "visible": false})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = srv.do(http.MethodGet, "/api/admin/channels", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	all := decode[struct {
		Channels []map[string]any `json:"channels"`
	}](t, rr)
	assert.Len(t, all.Channels, 2)

	rr = srv.do(http.MethodGet, "/api/channels", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	public := decode[struct {
		Channels []map[string]any `json:"channels"`
	}](t, rr)
	assert.Len(t, public.Channels, 1)
}

func TestAdminListsIncludeDisabledItems(t *testing.T) {
	srv := newTestServer(t, handler.Options{})
	srv.login()

	cases := []struct {
		path   string
		plural string
		body   map[string]any
	}{
		{"/services", "services", map[string]any{"title": "Hosting", "enabled": false}},
		{"/projects", "projects", map[string]any{"title": "Rebrand", "enabled": false}},
		{"/jobs", "jobs", map[string]any{"title": "Designer", "enabled": false}},
		{"/testimonials", "testimonials", map[string]any{"author": "Lin", "quote": "Solid", "enabled": false}},
	}
	for _, tc := range cases {
		t.Run(tc.plural, func(t *testing.T) {
			rr := srv.do(http.MethodPost, "/api/admin"+tc.path, tc.body)
			require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

			rr = srv.do(http.MethodGet, "/api/admin"+tc.path, nil)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			admin := decode[map[string][]map[string]any](t, rr)
			assert.Len(t, admin[tc.plural], 1)

			rr = srv.do(http.MethodGet, "/api"+tc.path, nil)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			public := decode[map[string][]map[string]any](t, rr)
			assert.Empty(t, public[tc.plural])
		})
	}
}
