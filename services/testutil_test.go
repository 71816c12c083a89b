package services

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"photo-portfolio-platform/models"
)

// recordingDestroyer captures remote destroy calls for assertions.
type recordingDestroyer struct {
	mu    sync.Mutex
	calls []destroyCall
	err   error
}

type destroyCall struct {
	publicID     string
	resourceType string
}

func (d *recordingDestroyer) Destroy(ctx context.Context, publicID, resourceType string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.calls = append(d.calls, destroyCall{publicID: publicID, resourceType: resourceType})
	return nil
}

func (d *recordingDestroyer) destroyed() []destroyCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]destroyCall(nil), d.calls...)
}

// setupTestDB connects to the Mongo instance named by MONGO_TEST_URI and
// hands back a throwaway database. Tests that need real storage skip when
// the variable is unset.
func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect to test mongo: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("test mongo unreachable: %v", err)
	}

	db := client.Database("photo_portfolio_test")
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db.Drop(cleanupCtx)
		client.Disconnect(cleanupCtx)
	})
	return db
}

// insertTestPhoto stores a minimal photo document and returns its hex id.
func insertTestPhoto(t *testing.T, db *mongo.Database, photo models.Photo) string {
	t.Helper()

	if photo.ID.IsZero() {
		photo.ID = primitive.NewObjectID()
	}
	if photo.Tags == nil {
		photo.Tags = []string{}
	}
	if photo.Likes == nil {
		photo.Likes = []string{}
	}
	if photo.CreatedAt.IsZero() {
		photo.CreatedAt = time.Now()
	}
	photo.UpdatedAt = photo.CreatedAt

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.Collection("photos").InsertOne(ctx, photo); err != nil {
		t.Fatalf("insert test photo: %v", err)
	}
	return photo.ID.Hex()
}
