package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	TaskDestroyAsset = "asset:destroy"
)

// DestroyAssetPayload identifies one remote asset to delete.
type DestroyAssetPayload struct {
	PublicID     string `json:"public_id"`
	ResourceType string `json:"resource_type"`
}

// NewDestroyAssetTask builds a background deletion task for a remote
// asset. Deletion is best effort; retries happen here rather than in the
// request path.
func NewDestroyAssetTask(publicID, resourceType string) (*asynq.Task, error) {
	payload, err := json.Marshal(DestroyAssetPayload{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskDestroyAsset,
		payload,
		asynq.MaxRetry(5),
		asynq.Timeout(1*time.Minute),
		asynq.Queue("default"),
	), nil
}

// RemoteDestroyer deletes an asset from the remote media store.
type RemoteDestroyer interface {
	Destroy(ctx context.Context, publicID, resourceType string) error
}

// TaskProcessor handles queued background work.
type TaskProcessor struct {
	destroyer RemoteDestroyer
	pending   *mongo.Collection
}

func NewTaskProcessor(destroyer RemoteDestroyer, db *mongo.Database) *TaskProcessor {
	return &TaskProcessor{
		destroyer: destroyer,
		pending:   db.Collection("pending_deletions"),
	}
}

// HandleDestroyAsset deletes one remote asset. Failures are recorded in
// pending_deletions so the cleanup sweep can reconcile even if every
// asynq retry is exhausted; a later success is harmless because destroy
// treats an already-deleted asset as done.
func (p *TaskProcessor) HandleDestroyAsset(ctx context.Context, t *asynq.Task) error {
	var payload DestroyAssetPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %w", asynq.SkipRetry)
	}

	if err := p.destroyer.Destroy(ctx, payload.PublicID, payload.ResourceType); err != nil {
		slog.Warn("remote destroy failed, will retry",
			"public_id", payload.PublicID,
			"error", err,
		)
		p.recordPending(ctx, payload, err)
		return err
	}

	p.clearPending(ctx, payload.PublicID)
	slog.Info("remote asset destroyed", "public_id", payload.PublicID)
	return nil
}

func (p *TaskProcessor) recordPending(ctx context.Context, payload DestroyAssetPayload, cause error) {
	_, err := p.pending.UpdateOne(ctx,
		bson.M{"public_id": payload.PublicID},
		bson.M{
			"$set": bson.M{
				"resource_type": payload.ResourceType,
				"last_error":    cause.Error(),
			},
			"$inc":         bson.M{"attempts": 1},
			"$setOnInsert": bson.M{"created_at": time.Now()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		slog.Error("failed to record pending deletion", "public_id", payload.PublicID, "error", err)
	}
}

func (p *TaskProcessor) clearPending(ctx context.Context, publicID string) {
	if _, err := p.pending.DeleteOne(ctx, bson.M{"public_id": publicID}); err != nil {
		slog.Error("failed to clear pending deletion", "public_id", publicID, "error", err)
	}
}
