package router

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sitecms/internal/config"
	"github.com/sitecms/internal/handler"
	"github.com/sitecms/internal/logging"
	"go.uber.org/zap"
)

const sessionName = "sitecms_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig, api *handler.API, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(logging.GinMiddleware(logger.Named("http")), gin.Recovery())

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// 上传文件，/uploads 为兼容旧链接的别名
	if cfg.UploadDir != "" {
		r.Static(cfg.UploadURLPath, cfg.UploadDir)
		if cfg.UploadURLPath != "/uploads" {
			r.Static("/uploads", cfg.UploadDir)
		}
	}

	api.RegisterRoutes(r)

	r.NoRoute(spaFallback(cfg.StaticDir))
	return r
}

// spaFallback serves files from the built frontend and falls back to
// index.html so client side routes survive a reload. API paths get JSON 404s.
func spaFallback(staticDir string) gin.HandlerFunc {
	index := filepath.Join(staticDir, "index.html")
	return func(c *gin.Context) {
		reqPath := c.Request.URL.Path
		if reqPath == "/api" || strings.HasPrefix(reqPath, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if staticDir == "" || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		// path.Clean 以 / 开头时不会越过根目录
		candidate := filepath.Join(staticDir, filepath.FromSlash(path.Clean("/"+reqPath)))
		if serveFile(c, candidate) {
			return
		}
		if !serveFile(c, index) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		}
	}
}

// serveFile 直接按已清理的磁盘路径输出文件，不再校验原始 URL。
// http.ServeFile 会以 400 拒绝含 ".." 的请求路径。
func serveFile(c *gin.Context, name string) bool {
	f, err := os.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
	return true
}
