package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo represents one uploaded photo or video and its derived metadata.
// The remote-store fields (PublicID, URL, Sizes, Width, Height, FileSize,
// Format) are written once at ingestion and never modified afterwards;
// only the descriptive metadata fields are editable.
type Photo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category" json:"category"`
	Tags        []string           `bson:"tags" json:"tags"`
	IsPublic    bool               `bson:"is_public" json:"is_public"`
	IsFeatured  bool               `bson:"is_featured" json:"is_featured"`
	Location    *PhotoLocation     `bson:"location,omitempty" json:"location,omitempty"`
	UploadedBy  string             `bson:"uploaded_by" json:"uploaded_by"`

	PublicID     string     `bson:"public_id" json:"public_id"`
	ResourceType string     `bson:"resource_type" json:"resource_type"`
	URL          string     `bson:"url" json:"url"`
	Sizes        PhotoSizes `bson:"sizes" json:"sizes"`
	Width        int        `bson:"width" json:"width"`
	Height       int        `bson:"height" json:"height"`
	FileSize     int64      `bson:"file_size" json:"file_size"`
	Format       string     `bson:"format" json:"format"`

	Views      int64    `bson:"views" json:"views"`
	Likes      []string `bson:"likes" json:"likes"`
	LikesCount int      `bson:"likes_count" json:"likes_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PhotoLocation is an optional shooting location attached to a photo.
type PhotoLocation struct {
	Name string   `bson:"name" json:"name"`
	Lat  *float64 `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng  *float64 `bson:"lng,omitempty" json:"lng,omitempty"`
}

// PhotoSizes holds the remote-rendered delivery variants of a photo.
type PhotoSizes struct {
	Thumbnail string `bson:"thumbnail" json:"thumbnail"`
	Medium    string `bson:"medium" json:"medium"`
	Original  string `bson:"original" json:"original"`
}

// PendingDeletion records a remote asset whose deletion could not be
// completed; the cleanup sweep retries these.
type PendingDeletion struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PublicID     string             `bson:"public_id" json:"public_id"`
	ResourceType string             `bson:"resource_type" json:"resource_type"`
	LastError    string             `bson:"last_error,omitempty" json:"last_error,omitempty"`
	Attempts     int                `bson:"attempts" json:"attempts"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// Pagination is the paging metadata returned alongside gallery pages.
type Pagination struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	Total      int64 `json:"total"`
}

// GalleryPage is the caller-facing shape of one gallery query result.
type GalleryPage struct {
	Photos     []*Photo   `json:"photos"`
	Pagination Pagination `json:"pagination"`
}
