package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"photo-portfolio-platform/internal/telemetry"
	"photo-portfolio-platform/models"
)

// PhotoService owns the ingestion chain (compress, upload, persist) and
// metadata reads/writes. The record insert is the final step: a failure
// anywhere earlier leaves no trace in the gallery.
type PhotoService struct {
	photos     *mongo.Collection
	compressor *CompressionEngine
	uploader   *AssetUploader
	metrics    *telemetry.Metrics
}

func NewPhotoService(db *mongo.Database, compressor *CompressionEngine, up *AssetUploader, metrics *telemetry.Metrics) *PhotoService {
	return &PhotoService{
		photos:     db.Collection("photos"),
		compressor: compressor,
		uploader:   up,
		metrics:    metrics,
	}
}

// Create runs validated metadata plus raw upload bytes through the
// ingestion chain and persists the resulting record. Validation must
// have happened already; no compression or network work is wasted on a
// payload that would be rejected. Videos skip the compression engine
// and go to the remote store as-is.
func (s *PhotoService) Create(ctx context.Context, input *PhotoInput, data []byte, declaredSize int64, userID, resourceType string) (*models.Photo, error) {
	buf := data
	if resourceType != ResourceVideo {
		compressed, err := s.compressor.Compress(ctx, data, declaredSize)
		if err != nil {
			return nil, err
		}
		buf = compressed.Data
	}

	asset, err := s.uploader.Upload(ctx, buf, resourceType)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	photo := &models.Photo{
		ID:           primitive.NewObjectID(),
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Tags:         input.Tags,
		IsPublic:     input.IsPublic,
		Location:     input.Location,
		UploadedBy:   userID,
		PublicID:     asset.PublicID,
		ResourceType: resourceType,
		URL:          asset.URL,
		Sizes:        asset.Sizes,
		Width:        asset.Width,
		Height:       asset.Height,
		FileSize:     asset.Bytes,
		Format:       asset.Format,
		Likes:        []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.photos.InsertOne(ctx, photo); err != nil {
		return nil, NewServiceError(CodeQueryFailed, "failed to persist photo record", err)
	}
	if s.metrics != nil {
		s.metrics.RecordUpload(asset.Bytes, asset.Format)
	}
	return photo, nil
}

func (s *PhotoService) GetByID(ctx context.Context, photoID string) (*models.Photo, error) {
	oid, err := primitive.ObjectIDFromHex(photoID)
	if err != nil {
		return nil, NewServiceError(CodeNotFound, "photo not found", err)
	}

	var photo models.Photo
	err = s.photos.FindOne(ctx, bson.M{"_id": oid}).Decode(&photo)
	if err == mongo.ErrNoDocuments {
		return nil, NewServiceError(CodeNotFound, "photo not found", err)
	}
	if err != nil {
		return nil, NewServiceError(CodeQueryFailed, "failed to load photo", err)
	}
	return &photo, nil
}

// UpdateMetadata edits the mutable metadata group. The remote-store URL
// and dimension fields are immutable after ingestion and cannot be
// touched here. Only the owner or an admin may edit.
func (s *PhotoService) UpdateMetadata(ctx context.Context, photoID, userID, role string, input *PhotoInput) (*models.Photo, error) {
	photo, err := s.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if photo.UploadedBy != userID && role != RoleAdmin {
		return nil, NewServiceError(CodeForbidden, "not allowed to edit this photo", nil)
	}

	update := bson.M{
		"title":       input.Title,
		"description": input.Description,
		"category":    input.Category,
		"tags":        input.Tags,
		"is_public":   input.IsPublic,
		"updated_at":  time.Now(),
	}
	if input.Location != nil {
		update["location"] = input.Location
	}

	_, err = s.photos.UpdateOne(ctx, bson.M{"_id": photo.ID}, bson.M{"$set": update})
	if err != nil {
		return nil, NewServiceError(CodeQueryFailed, "failed to update photo", err)
	}
	return s.GetByID(ctx, photoID)
}

// SetFeatured flips the featured flag backing the gallery's featured
// filter. Admin only.
func (s *PhotoService) SetFeatured(ctx context.Context, photoID, role string, featured bool) error {
	if role != RoleAdmin {
		return NewServiceError(CodeForbidden, "only admins can feature photos", nil)
	}

	oid, err := primitive.ObjectIDFromHex(photoID)
	if err != nil {
		return NewServiceError(CodeNotFound, "photo not found", err)
	}

	res, err := s.photos.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"is_featured": featured, "updated_at": time.Now()}},
	)
	if err != nil {
		return NewServiceError(CodeQueryFailed, "failed to update photo", err)
	}
	if res.MatchedCount == 0 {
		return NewServiceError(CodeNotFound, "photo not found", nil)
	}
	return nil
}
