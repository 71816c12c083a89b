package routes

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"photo-portfolio-platform/middleware"
	"photo-portfolio-platform/services"
	"photo-portfolio-platform/utils"
)

// resourceTypeFor classifies an upload by its multipart content type.
// Videos are stored and destroyed under their own remote resource type.
func resourceTypeFor(contentType string) (string, bool) {
	switch {
	case utils.IsVideoType(contentType):
		return services.ResourceVideo, true
	case utils.IsValidImageType(contentType):
		return services.ResourceImage, true
	default:
		return "", false
	}
}

// rawInputFromForm picks the upload metadata fields out of a multipart
// form. Tags and location arrive as text and are decoded once by the
// intake validator.
func rawInputFromForm(c *gin.Context) services.RawPhotoInput {
	raw := services.RawPhotoInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
	}
	if tags, ok := c.GetPostForm("tags"); ok {
		raw.Tags = tags
	}
	if isPublic, ok := c.GetPostForm("isPublic"); ok {
		raw.IsPublic = isPublic
	}
	if location, ok := c.GetPostForm("location"); ok {
		raw.Location = location
	}
	return raw
}

// HandlePhotoUpload runs the ingestion chain: validate, compress, upload,
// persist. Validation failures abort before any compression or network
// work; the record is only created after the remote store succeeds.
func HandlePhotoUpload(validator *services.IntakeValidator, photoService *services.PhotoService, maxFileSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			utils.RespondWithUnauthorized(c, "Authentication required")
			return
		}

		input, err := validator.ParsePhotoInput(rawInputFromForm(c))
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		fileHeader, err := c.FormFile("photo")
		if err != nil {
			utils.RespondWithBadRequest(c, "No file uploaded", nil)
			return
		}
		if fileHeader.Size > maxFileSize {
			utils.RespondWithBadRequest(c, "File exceeds the maximum upload size", gin.H{"max_bytes": maxFileSize})
			return
		}
		contentType := fileHeader.Header.Get("Content-Type")
		resourceType, ok := resourceTypeFor(contentType)
		if !ok {
			utils.RespondWithBadRequest(c, "Unsupported content type", gin.H{"content_type": contentType})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read upload", nil)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read upload", nil)
			return
		}

		photo, err := photoService.Create(c.Request.Context(), input, data, fileHeader.Size, userID, resourceType)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusCreated, photo)
	}
}

// HandleGalleryList serves one page of the gallery. Requesters without
// the admin role only ever see public photos, except in their own
// uploads.
func HandleGalleryList(gallery *services.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sortBy := c.Query("sortBy")
		// Legacy clients send sortOrder=asc instead of sortBy=oldest.
		if sortBy == "" && c.Query("sortOrder") == "asc" {
			sortBy = "oldest"
		}

		query := services.GalleryQuery{
			Page:       atoiDefault(c.Query("page"), 1),
			Limit:      atoiDefault(c.Query("limit"), 0),
			Category:   c.Query("category"),
			Search:     c.Query("search"),
			SortBy:     sortBy,
			UploadedBy: c.Query("uploadedBy"),
			Featured:   parseBoolFilter(c.Query("featured")),
			IsPublic:   parseBoolFilter(c.Query("isPublic")),
		}

		requester := middleware.GetUserID(c)
		if !middleware.IsAdmin(c) {
			if query.UploadedBy == "" || query.UploadedBy != requester {
				public := true
				query.IsPublic = &public
			}
		}

		page, err := gallery.List(c.Request.Context(), query)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, page)
	}
}

// HandleGetPhoto returns a single photo record.
func HandleGetPhoto(photoService *services.PhotoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		photo, err := photoService.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		if !photo.IsPublic && photo.UploadedBy != middleware.GetUserID(c) && !middleware.IsAdmin(c) {
			utils.RespondWithNotFound(c, "photo not found")
			return
		}

		c.JSON(http.StatusOK, photo)
	}
}

type photoUpdateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Tags        any    `json:"tags"`
	IsPublic    any    `json:"isPublic"`
	Location    any    `json:"location"`
}

// HandleUpdatePhoto edits the mutable metadata group of a photo.
func HandleUpdatePhoto(validator *services.IntakeValidator, photoService *services.PhotoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req photoUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", nil)
			return
		}

		input, err := validator.ParsePhotoInput(services.RawPhotoInput{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Tags:        req.Tags,
			IsPublic:    req.IsPublic,
			Location:    req.Location,
		})
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		photo, err := photoService.UpdateMetadata(
			c.Request.Context(),
			c.Param("id"),
			middleware.GetUserID(c),
			middleware.GetRole(c),
			input,
		)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, photo)
	}
}

// HandleToggleLike flips the requester's like and returns the new state.
func HandleToggleLike(engagement *services.EngagementService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			utils.RespondWithUnauthorized(c, "Authentication required")
			return
		}

		liked, count, err := engagement.ToggleLike(c.Request.Context(), c.Param("id"), userID)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"liked":      liked,
			"likesCount": count,
		})
	}
}

// HandleRecordView counts one view of a photo.
func HandleRecordView(engagement *services.EngagementService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := engagement.RecordView(c.Request.Context(), c.Param("id")); err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleDeletePhoto removes a photo locally and requests remote-store
// deletion in the background.
func HandleDeletePhoto(engagement *services.EngagementService) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := engagement.DeleteAsset(c.Request.Context(), c.Param("id"), middleware.GetRole(c))
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Photo deleted successfully"})
	}
}

type featuredRequest struct {
	Featured bool `json:"featured"`
}

// HandleSetFeatured toggles the featured flag on a photo.
func HandleSetFeatured(photoService *services.PhotoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req featuredRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", nil)
			return
		}

		err := photoService.SetFeatured(c.Request.Context(), c.Param("id"), middleware.GetRole(c), req.Featured)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"featured": req.Featured})
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// parseBoolFilter returns nil for anything that is not exactly
// "true"/"false"; unrecognized filter values are absent, not errors.
func parseBoolFilter(s string) *bool {
	switch s {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}
