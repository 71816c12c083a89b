package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"photo-portfolio-platform/internal/queue"
	"photo-portfolio-platform/internal/telemetry"
	"photo-portfolio-platform/models"
)

// RoleAdmin is the only role allowed to delete assets.
const RoleAdmin = "admin"

// EngagementService mediates concurrent like/view mutations and
// admin-gated deletion. All mutations are single atomic per-document
// operations, so conflicting requests serialize at the storage layer.
type EngagementService struct {
	photos      *mongo.Collection
	pending     *mongo.Collection
	destroyer   queue.RemoteDestroyer
	asynqClient *asynq.Client
	metrics     *telemetry.Metrics
}

func NewEngagementService(db *mongo.Database, destroyer queue.RemoteDestroyer, asynqClient *asynq.Client, metrics *telemetry.Metrics) *EngagementService {
	return &EngagementService{
		photos:      db.Collection("photos"),
		pending:     db.Collection("pending_deletions"),
		destroyer:   destroyer,
		asynqClient: asynqClient,
		metrics:     metrics,
	}
}

// ToggleLike flips userID's membership in the photo's like-set and
// returns the new membership plus the resulting like-count. Both come
// from the same atomic pipeline update, so the pair never reflects an
// intermediate state from a concurrent toggle.
//
// There is no idempotency key: a duplicated network retry of the same
// toggle flips twice. Callers that need exactly-once must deduplicate.
func (s *EngagementService) ToggleLike(ctx context.Context, photoID, userID string) (bool, int, error) {
	oid, err := primitive.ObjectIDFromHex(photoID)
	if err != nil {
		return false, 0, NewServiceError(CodeNotFound, "photo not found", err)
	}

	likes := bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}
	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"likes": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{userID, likes}},
				bson.M{"$setDifference": bson.A{likes, bson.A{userID}}},
				bson.M{"$concatArrays": bson.A{likes, bson.A{userID}}},
			}},
		}},
		bson.M{"$set": bson.M{
			"likes_count": bson.M{"$size": "$likes"},
		}},
	}

	var photo models.Photo
	err = s.photos.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&photo)
	if err == mongo.ErrNoDocuments {
		return false, 0, NewServiceError(CodeNotFound, "photo not found", err)
	}
	if err != nil {
		return false, 0, NewServiceError(CodeQueryFailed, "like toggle failed", err)
	}

	liked := false
	for _, id := range photo.Likes {
		if id == userID {
			liked = true
			break
		}
	}
	if s.metrics != nil {
		s.metrics.RecordEngagement("like_toggle")
	}
	return liked, photo.LikesCount, nil
}

// RecordView increments the view counter. $inc is atomic per document,
// so N concurrent viewers always add exactly N. No per-viewer dedup.
func (s *EngagementService) RecordView(ctx context.Context, photoID string) error {
	oid, err := primitive.ObjectIDFromHex(photoID)
	if err != nil {
		return NewServiceError(CodeNotFound, "photo not found", err)
	}

	res, err := s.photos.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"views": 1}},
	)
	if err != nil {
		return NewServiceError(CodeQueryFailed, "view increment failed", err)
	}
	if res.MatchedCount == 0 {
		return NewServiceError(CodeNotFound, "photo not found", nil)
	}
	if s.metrics != nil {
		s.metrics.RecordEngagement("view")
	}
	return nil
}

// DeleteAsset removes a photo. The local record is the source of truth
// for listings and is removed first; remote-store deletion is best
// effort. A remote failure is logged and queued for the cleanup sweep
// but never rolls back the local delete.
func (s *EngagementService) DeleteAsset(ctx context.Context, photoID, requesterRole string) error {
	if requesterRole != RoleAdmin {
		return NewServiceError(CodeForbidden, "only admins can delete photos", nil)
	}

	oid, err := primitive.ObjectIDFromHex(photoID)
	if err != nil {
		return NewServiceError(CodeNotFound, "photo not found", err)
	}

	var photo models.Photo
	err = s.photos.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&photo)
	if err == mongo.ErrNoDocuments {
		return NewServiceError(CodeNotFound, "photo not found", err)
	}
	if err != nil {
		return NewServiceError(CodeQueryFailed, "photo delete failed", err)
	}

	resourceType := photo.ResourceType
	if resourceType == "" {
		resourceType = ResourceImage
	}
	s.destroyRemote(ctx, photo.PublicID, resourceType)
	if s.metrics != nil {
		s.metrics.RecordEngagement("delete")
	}
	return nil
}

// destroyRemote prefers the background queue; when enqueueing is not
// possible it falls back to a direct call, and a failed direct call is
// recorded for the periodic sweep.
func (s *EngagementService) destroyRemote(ctx context.Context, publicID, resourceType string) {
	if s.asynqClient != nil {
		task, err := queue.NewDestroyAssetTask(publicID, resourceType)
		if err == nil {
			if _, err := s.asynqClient.EnqueueContext(ctx, task); err == nil {
				return
			}
			slog.Warn("failed to enqueue remote destroy, falling back to direct call", "public_id", publicID)
		}
	}

	if s.destroyer != nil {
		if err := s.destroyer.Destroy(ctx, publicID, resourceType); err == nil {
			return
		} else {
			slog.Error("remote asset destroy failed", "public_id", publicID, "error", err)
			s.recordPendingDeletion(ctx, publicID, resourceType, err)
		}
	}
}

func (s *EngagementService) recordPendingDeletion(ctx context.Context, publicID, resourceType string, cause error) {
	_, err := s.pending.UpdateOne(ctx,
		bson.M{"public_id": publicID},
		bson.M{
			"$set": bson.M{
				"resource_type": resourceType,
				"last_error":    cause.Error(),
			},
			"$inc":         bson.M{"attempts": 1},
			"$setOnInsert": bson.M{"created_at": time.Now()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		slog.Error("failed to record pending deletion", "public_id", publicID, "error", err)
	}
}
