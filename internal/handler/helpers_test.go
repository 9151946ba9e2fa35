package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sitecms/internal/handler"
	sitemail "github.com/sitecms/internal/mail"
	"github.com/sitecms/internal/service"
	"github.com/stretchr/testify/require"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "correct-horse"
)

var ginOnce sync.Once

type stubMailer struct {
	mu   sync.Mutex
	sent []sitemail.Message
	err  error
}

func (m *stubMailer) Send(_ context.Context, msg sitemail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type testServer struct {
	t        *testing.T
	engine   *gin.Engine
	services *service.Services
	mailer   *stubMailer
	cookies  []*http.Cookie
}

// newTestServer builds the API on memory-only repositories.
func newTestServer(t *testing.T, opts handler.Options) *testServer {
	t.Helper()
	ginOnce.Do(func() { gin.SetMode(gin.TestMode) })

	mailer := &stubMailer{}
	svcs := service.NewServices(service.NewRepositories(nil, nil), service.Options{
		Assets:           service.AssetConfig{Dir: t.TempDir(), URLPath: "/static/uploads", MaxBytes: 1 << 20},
		Mailer:           mailer,
		ContactRecipient: "owner@example.com",
	})
	_, err := svcs.Admins.Create(context.Background(), testAdminUser, testAdminPassword)
	require.NoError(t, err)

	engine := gin.New()
	engine.Use(sessions.Sessions("sitecms_session", cookie.NewStore([]byte("test-secret"))))
	handler.NewAPI(svcs, opts).RegisterRoutes(engine)

	return &testServer{t: t, engine: engine, services: svcs, mailer: mailer}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req)
}

func (s *testServer) send(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	s.engine.ServeHTTP(rr, req)
	if set := rr.Result().Cookies(); len(set) > 0 {
		s.cookies = set
	}
	return rr
}

func (s *testServer) login() {
	s.t.Helper()
	rr := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": testAdminUser,
		"password": testAdminPassword,
	})
	require.Equal(s.t, http.StatusOK, rr.Code, rr.Body.String())
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}
