package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"photo-portfolio-platform/models"
)

func TestToggleLikeFlipsMembership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEngagementService(db, nil, nil, nil)
	id := insertTestPhoto(t, db, models.Photo{Title: "pier", Category: "nature", IsPublic: true})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	liked, count, err := svc.ToggleLike(ctx, id, "user-1")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !liked || count != 1 {
		t.Fatalf("first toggle should like: liked=%v count=%d", liked, count)
	}

	liked, count, err = svc.ToggleLike(ctx, id, "user-1")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if liked || count != 0 {
		t.Fatalf("second toggle should unlike: liked=%v count=%d", liked, count)
	}
}

func TestToggleLikeCountTracksSetSize(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEngagementService(db, nil, nil, nil)
	id := insertTestPhoto(t, db, models.Photo{Title: "pier", Category: "nature", IsPublic: true})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, _, err := svc.ToggleLike(ctx, id, "user-1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	liked, count, err := svc.ToggleLike(ctx, id, "user-2")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !liked || count != 2 {
		t.Fatalf("two distinct likers should count 2, got liked=%v count=%d", liked, count)
	}

	var photo models.Photo
	oid, _ := primitive.ObjectIDFromHex(id)
	if err := db.Collection("photos").FindOne(ctx, bson.M{"_id": oid}).Decode(&photo); err != nil {
		t.Fatalf("reload photo: %v", err)
	}
	if photo.LikesCount != len(photo.Likes) {
		t.Fatalf("stored count %d does not match set size %d", photo.LikesCount, len(photo.Likes))
	}
}

func TestToggleLikeUnknownPhoto(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEngagementService(db, nil, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, _, err := svc.ToggleLike(ctx, "not-a-hex-id", "user-1"); ErrorCode(err) != CodeNotFound {
		t.Fatalf("malformed id: expected %s, got %v", CodeNotFound, err)
	}
	if _, _, err := svc.ToggleLike(ctx, primitive.NewObjectID().Hex(), "user-1"); ErrorCode(err) != CodeNotFound {
		t.Fatalf("missing photo: expected %s, got %v", CodeNotFound, err)
	}
}

func TestConcurrentViewsAllCount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEngagementService(db, nil, nil, nil)
	id := insertTestPhoto(t, db, models.Photo{Title: "pier", Category: "nature", IsPublic: true})

	const viewers = 20
	var wg sync.WaitGroup
	errs := make(chan error, viewers)
	for i := 0; i < viewers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			errs <- svc.RecordView(ctx, id)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("record view: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var photo models.Photo
	oid, _ := primitive.ObjectIDFromHex(id)
	if err := db.Collection("photos").FindOne(ctx, bson.M{"_id": oid}).Decode(&photo); err != nil {
		t.Fatalf("reload photo: %v", err)
	}
	if photo.Views != viewers {
		t.Fatalf("expected %d views, got %d", viewers, photo.Views)
	}
}

func TestDeleteAssetRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEngagementService(db, nil, nil, nil)
	id := insertTestPhoto(t, db, models.Photo{Title: "pier", Category: "nature", IsPublic: true})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := svc.DeleteAsset(ctx, id, "user"); ErrorCode(err) != CodeForbidden {
		t.Fatalf("expected %s, got %v", CodeForbidden, err)
	}

	// The photo must be untouched after the refused delete.
	oid, _ := primitive.ObjectIDFromHex(id)
	n, err := db.Collection("photos").CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil || n != 1 {
		t.Fatalf("photo missing after refused delete: n=%d err=%v", n, err)
	}
}

func TestDeleteAssetDestroysWithStoredResourceType(t *testing.T) {
	db := setupTestDB(t)
	destroyer := &recordingDestroyer{}
	svc := NewEngagementService(db, destroyer, nil, nil)

	videoID := insertTestPhoto(t, db, models.Photo{
		Title: "reel", Category: "event", IsPublic: true,
		PublicID: "v_1", ResourceType: ResourceVideo,
	})
	// Records written before resource types were stored have no value.
	legacyID := insertTestPhoto(t, db, models.Photo{
		Title: "old", Category: "event", IsPublic: true,
		PublicID: "p_1",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := svc.DeleteAsset(ctx, videoID, RoleAdmin); err != nil {
		t.Fatalf("delete video: %v", err)
	}
	if err := svc.DeleteAsset(ctx, legacyID, RoleAdmin); err != nil {
		t.Fatalf("delete legacy: %v", err)
	}

	calls := destroyer.destroyed()
	if len(calls) != 2 {
		t.Fatalf("expected 2 destroy calls, got %d", len(calls))
	}
	if calls[0].publicID != "v_1" || calls[0].resourceType != ResourceVideo {
		t.Fatalf("video destroyed as %+v", calls[0])
	}
	if calls[1].publicID != "p_1" || calls[1].resourceType != ResourceImage {
		t.Fatalf("legacy record must default to image, destroyed as %+v", calls[1])
	}
}

func TestDeleteAssetRemovesLocalRecord(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEngagementService(db, nil, nil, nil)
	id := insertTestPhoto(t, db, models.Photo{Title: "pier", Category: "nature", IsPublic: true, PublicID: "x_1"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := svc.DeleteAsset(ctx, id, RoleAdmin); err != nil {
		t.Fatalf("delete: %v", err)
	}

	oid, _ := primitive.ObjectIDFromHex(id)
	n, err := db.Collection("photos").CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil || n != 0 {
		t.Fatalf("photo still present after delete: n=%d err=%v", n, err)
	}

	// Deleting again reports not_found.
	if err := svc.DeleteAsset(ctx, id, RoleAdmin); ErrorCode(err) != CodeNotFound {
		t.Fatalf("expected %s, got %v", CodeNotFound, err)
	}
}
