package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public, auth and admin JSON API under /api.
func (a *API) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")

	api.GET("/health", a.HealthCheck)
	api.GET("/site", a.GetSite)
	api.GET("/sections", a.ListSections)
	api.GET("/sections/:key", a.GetSection)
	api.GET("/news", a.ListNews)
	api.GET("/news/:slug", a.GetNews)
	api.GET("/services", a.ListServices)
	api.GET("/projects", a.ListProjects)
	api.GET("/testimonials", a.ListTestimonials)
	api.GET("/jobs", a.ListJobs)
	api.GET("/jobs/:slug", a.GetJob)
	api.GET("/about", a.GetAbout)
	api.GET("/channels", a.ListChannels)
	api.POST("/contact", a.SubmitContact)

	auth := api.Group("/auth")
	{
		auth.POST("/login", a.Login)
		auth.POST("/logout", a.Logout)
		auth.GET("/me", a.Me)
	}

	admin := api.Group("/admin")
	admin.Use(AuthRequired())
	{
		a.registerContentRoutes(admin)

		admin.GET("/about", a.GetAdminAbout)
		admin.PUT("/about", a.SaveAbout)

		admin.GET("/assets", a.ListAssets)
		admin.POST("/assets", a.UploadAsset)
		admin.PUT("/assets/:id", a.UpdateAsset)
		admin.DELETE("/assets/:id", a.DeleteAsset)

		admin.GET("/settings", a.GetSystemSettings)
		admin.PUT("/settings", a.UpdateSystemSettings)
		admin.POST("/settings/test-news", a.TestNewsConnection)

		admin.GET("/contact-messages", a.ListContactMessages)
		admin.GET("/dashboard", a.GetDashboard)
		admin.PUT("/password", a.ChangePassword)
	}
}
