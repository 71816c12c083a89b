package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"photo-portfolio-platform/internal/telemetry"
	"photo-portfolio-platform/models"
)

const (
	defaultPageSize = 12
	maxPageSize     = 50
)

// GalleryQuery is one stateless page request. Unrecognized or empty
// filter values are treated as absent, never as an error.
//
// Callers issuing free-text searches are expected to debounce input
// (~500ms quiescence) before requesting page 1 again; the service does
// not rate-limit per keystroke itself.
type GalleryQuery struct {
	Page       int
	Limit      int
	Category   string
	Search     string
	SortBy     string
	UploadedBy string
	Featured   *bool
	IsPublic   *bool
}

// GalleryService serves filtered, sorted, offset-paginated photo listings.
type GalleryService struct {
	photos     *mongo.Collection
	categories map[string]struct{}
	metrics    *telemetry.Metrics
}

func NewGalleryService(db *mongo.Database, categories []string, metrics *telemetry.Metrics) *GalleryService {
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		set[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}
	return &GalleryService{
		photos:     db.Collection("photos"),
		categories: set,
		metrics:    metrics,
	}
}

// List returns the requested page plus pagination metadata. A persistence
// failure surfaces as query_failed; no partial page is ever returned.
func (s *GalleryService) List(ctx context.Context, q GalleryQuery) (*models.GalleryPage, error) {
	start := time.Now()

	page, limit := normalizePage(q.Page, q.Limit)
	filter := s.buildFilter(q)
	sort := buildSort(q.SortBy)

	total, err := s.photos.CountDocuments(ctx, filter)
	if err != nil {
		return nil, NewServiceError(CodeQueryFailed, "failed to count photos", err)
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := s.photos.Find(ctx, filter, opts)
	if err != nil {
		return nil, NewServiceError(CodeQueryFailed, "failed to query photos", err)
	}
	defer cursor.Close(ctx)

	photos := []*models.Photo{}
	if err := cursor.All(ctx, &photos); err != nil {
		return nil, NewServiceError(CodeQueryFailed, "failed to decode photos", err)
	}

	if s.metrics != nil {
		s.metrics.RecordGalleryQuery(time.Since(start).Seconds(), q.SortBy)
	}

	return &models.GalleryPage{
		Photos:     photos,
		Pagination: paginationMeta(page, limit, total),
	}, nil
}

// buildFilter translates the query into a Mongo filter document. Category
// values outside the configured enum are dropped, not rejected.
func (s *GalleryService) buildFilter(q GalleryQuery) bson.M {
	filter := bson.M{}

	category := strings.ToLower(strings.TrimSpace(q.Category))
	if _, ok := s.categories[category]; ok && category != "" {
		filter["category"] = category
	}

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
		}
	}

	if uploadedBy := strings.TrimSpace(q.UploadedBy); uploadedBy != "" {
		filter["uploaded_by"] = uploadedBy
	}
	if q.Featured != nil {
		filter["is_featured"] = *q.Featured
	}
	if q.IsPublic != nil {
		filter["is_public"] = *q.IsPublic
	}

	return filter
}

// buildSort maps a sort key to a Mongo sort document. Every sort ends
// with created_at desc then _id desc so page boundaries are stable.
func buildSort(sortBy string) bson.D {
	switch sortBy {
	case "oldest":
		return bson.D{
			{Key: "created_at", Value: 1},
			{Key: "_id", Value: -1},
		}
	case "popular":
		return bson.D{
			{Key: "likes_count", Value: -1},
			{Key: "views", Value: -1},
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		}
	case "title":
		return bson.D{
			{Key: "title", Value: 1},
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		}
	default: // newest
		return bson.D{
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		}
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func paginationMeta(page, limit int, total int64) models.Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return models.Pagination{
		Page:       page,
		TotalPages: totalPages,
		HasNext:    total > int64(page)*int64(limit),
		Total:      total,
	}
}
