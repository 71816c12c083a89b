package routes

import (
	"github.com/gin-gonic/gin"

	"photo-portfolio-platform/internal/config"
	"photo-portfolio-platform/middleware"
	"photo-portfolio-platform/services"
)

// Services groups everything the photo routes need.
type Services struct {
	Validator  *services.IntakeValidator
	Photos     *services.PhotoService
	Gallery    *services.GalleryService
	Engagement *services.EngagementService
}

// SetupPhotoRoutes wires the gallery and ingestion endpoints.
func SetupPhotoRoutes(router *gin.Engine, cfg *config.Config, svc Services, auth *middleware.AuthMiddleware, roles *middleware.RoleMiddleware) {
	api := router.Group("/api")

	// Public gallery reads; identity is optional but unlocks private
	// photos for their owner.
	gallery := api.Group("/photos")
	gallery.Use(auth.OptionalAuth())
	{
		gallery.GET("", HandleGalleryList(svc.Gallery))
		gallery.GET("/:id", HandleGetPhoto(svc.Photos))
		gallery.POST("/:id/view", HandleRecordView(svc.Engagement))
	}

	// Authenticated mutations.
	authed := api.Group("/photos")
	authed.Use(auth.RequireAuth())
	{
		authed.POST("", HandlePhotoUpload(svc.Validator, svc.Photos, cfg.MaxFileSize))
		authed.PUT("/:id", HandleUpdatePhoto(svc.Validator, svc.Photos))
		authed.POST("/:id/like", HandleToggleLike(svc.Engagement))
	}

	// Admin-only operations.
	admin := api.Group("/photos")
	admin.Use(auth.RequireAuth(), roles.AdminGuard())
	{
		admin.DELETE("/:id", HandleDeletePhoto(svc.Engagement))
		admin.PATCH("/:id/featured", HandleSetFeatured(svc.Photos))
	}
}
