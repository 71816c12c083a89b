package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"photo-portfolio-platform/models"
)

// Resource types accepted by the remote store.
const (
	ResourceImage = "image"
	ResourceVideo = "video"
)

// Transformation directives for the remote-rendered delivery variants.
// Variants are requested at serve time, never rendered locally.
const (
	thumbTransform  = "w_400,h_400,c_fill,q_auto,f_auto"
	mediumTransform = "w_1080,c_limit,q_auto,f_auto"
)

// UploadedAsset is the canonical descriptor returned by the remote store.
type UploadedAsset struct {
	PublicID string
	URL      string
	Sizes    models.PhotoSizes
	Bytes    int64
	Width    int
	Height   int
	Format   string
}

// AssetUploader streams finalized buffers to Cloudinary. Uploads are a
// single attempt: a failure is reported to the caller, who may re-submit.
// Calls run behind a circuit breaker and a client-side rate limiter, so a
// misbehaving remote store degrades fast instead of piling up requests.
type AssetUploader struct {
	cld          *cloudinary.Cloudinary
	breaker      *gobreaker.CircuitBreaker
	limiter      *rate.Limiter
	folderPrefix string
}

func NewAssetUploader(cloudName, apiKey, apiSecret, folderPrefix string) (*AssetUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary client: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "CloudinaryAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &AssetUploader{
		cld:          cld,
		breaker:      breaker,
		limiter:      rate.NewLimiter(rate.Limit(10), 20),
		folderPrefix: strings.TrimSuffix(folderPrefix, "/"),
	}, nil
}

// Upload sends data to the remote store and returns its canonical
// descriptor. No retry: callers must not create a record unless this
// returns successfully.
func (u *AssetUploader) Upload(ctx context.Context, data []byte, resourceType string) (*UploadedAsset, error) {
	if err := u.limiter.Wait(ctx); err != nil {
		return nil, NewServiceError(CodeUploadFailed, "upload rate limit wait aborted", err)
	}

	publicID := u.NewPublicID()
	folder := u.FolderFor(resourceType)

	result, err := u.breaker.Execute(func() (interface{}, error) {
		resp, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
			PublicID:     publicID,
			Folder:       folder,
			ResourceType: resourceType,
		})
		if err != nil {
			return nil, err
		}
		if resp.Error.Message != "" {
			return nil, fmt.Errorf("remote store rejected upload: %s", resp.Error.Message)
		}
		return resp, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return nil, NewServiceError(CodeUploadFailed, "remote store temporarily unavailable", err)
		}
		return nil, NewServiceError(CodeUploadFailed, "upload to remote store failed", err)
	}

	resp := result.(*uploader.UploadResult)
	return &UploadedAsset{
		PublicID: resp.PublicID,
		URL:      resp.SecureURL,
		Sizes:    DeliveryURLs(resp.SecureURL),
		Bytes:    int64(resp.Bytes),
		Width:    resp.Width,
		Height:   resp.Height,
		Format:   resp.Format,
	}, nil
}

// Destroy requests deletion of a remote asset by its public identifier.
func (u *AssetUploader) Destroy(ctx context.Context, publicID, resourceType string) error {
	if resourceType == "" {
		resourceType = ResourceImage
	}
	_, err := u.breaker.Execute(func() (interface{}, error) {
		resp, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{
			PublicID:     publicID,
			ResourceType: resourceType,
		})
		if err != nil {
			return nil, err
		}
		// "not found" is success for our purposes: the asset is gone.
		if resp.Result != "ok" && resp.Result != "not found" {
			return nil, fmt.Errorf("remote store destroy returned %q", resp.Result)
		}
		return resp, nil
	})
	return err
}

// NewPublicID builds a per-upload identifier from the current time plus a
// random component, so concurrent uploads from one client cannot collide.
func (u *AssetUploader) NewPublicID() string {
	return fmt.Sprintf("%d_%s", time.Now().UnixNano(), uuid.NewString()[:8])
}

// FolderFor picks the remote storage folder by content classification.
func (u *AssetUploader) FolderFor(resourceType string) string {
	if resourceType == ResourceVideo {
		return u.folderPrefix + "/videos"
	}
	return u.folderPrefix + "/photos"
}

// DeliveryURLs derives the named delivery variants from the canonical
// secure URL by inserting transformation directives into its path.
func DeliveryURLs(secureURL string) models.PhotoSizes {
	return models.PhotoSizes{
		Thumbnail: insertTransform(secureURL, thumbTransform),
		Medium:    insertTransform(secureURL, mediumTransform),
		Original:  secureURL,
	}
}

func insertTransform(secureURL, transform string) string {
	const marker = "/upload/"
	idx := strings.Index(secureURL, marker)
	if idx < 0 {
		return secureURL
	}
	return secureURL[:idx+len(marker)] + transform + "/" + secureURL[idx+len(marker):]
}
