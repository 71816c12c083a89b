package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"photo-portfolio-platform/internal/queue"
	"photo-portfolio-platform/models"
)

const pendingSweepBatch = 100

// CleanupService periodically retries remote-store deletions that failed
// earlier. An orphaned remote object is an accepted cost, but this sweep
// keeps the orphan window short.
type CleanupService struct {
	pending   *mongo.Collection
	destroyer queue.RemoteDestroyer
	scheduler *gocron.Scheduler
}

func NewCleanupService(db *mongo.Database, destroyer queue.RemoteDestroyer) *CleanupService {
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()

	return &CleanupService{
		pending:   db.Collection("pending_deletions"),
		destroyer: destroyer,
		scheduler: s,
	}
}

// Start schedules the sweep and runs the scheduler in the background.
func (c *CleanupService) Start(interval time.Duration) error {
	_, err := c.scheduler.Every(interval).Tag("pending-deletion-sweep").Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := c.SweepPendingDeletions(ctx); err != nil {
			slog.Error("pending deletion sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	c.scheduler.StartAsync()
	return nil
}

func (c *CleanupService) Stop() {
	c.scheduler.Stop()
}

// SweepPendingDeletions retries recorded failed destroys oldest-first,
// one bounded batch per run, and drops entries that succeed. Assets
// already gone remotely count as success.
func (c *CleanupService) SweepPendingDeletions(ctx context.Context) error {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(pendingSweepBatch)

	cursor, err := c.pending.Find(ctx, bson.M{}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var entries []*models.PendingDeletion
	if err := cursor.All(ctx, &entries); err != nil {
		return err
	}

	for _, entry := range entries {
		if err := c.destroyer.Destroy(ctx, entry.PublicID, entry.ResourceType); err != nil {
			slog.Warn("pending deletion retry failed",
				"public_id", entry.PublicID,
				"attempts", entry.Attempts,
				"error", err,
			)
			_, _ = c.pending.UpdateOne(ctx,
				bson.M{"_id": entry.ID},
				bson.M{"$set": bson.M{"last_error": err.Error()}, "$inc": bson.M{"attempts": 1}},
			)
			continue
		}

		if _, err := c.pending.DeleteOne(ctx, bson.M{"_id": entry.ID}); err != nil {
			slog.Error("failed to clear reconciled deletion", "public_id", entry.PublicID, "error", err)
		} else {
			slog.Info("orphaned remote asset reconciled", "public_id", entry.PublicID)
		}
	}
	return nil
}
