// internal/storage/uploader.go
package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// documents are cached briefly so a re-upload shows up quickly.
const defaultCacheControl = "max-age=3600"

// SlotUpload is one attachment destined for a named document slot on an
// owning record.
type SlotUpload struct {
	Slot        string // record column receiving the public URL
	Folder      string // path segment identifying the slot kind
	Filename    string
	ContentType string
	Content     io.Reader
}

// PatchFunc writes one slot's public URL onto the owning record.
type PatchFunc func(ctx context.Context, slot, url string) error

// PartialUploadError reports per-slot outcomes when at least one slot of a
// save batch failed. Slots that succeeded keep their new URLs; the failures
// are listed so each can be reported to the user individually.
type PartialUploadError struct {
	Succeeded map[string]string
	Failed    map[string]error
}

func (e *PartialUploadError) Error() string {
	slots := make([]string, 0, len(e.Failed))
	for slot := range e.Failed {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	parts := make([]string, 0, len(slots))
	for _, slot := range slots {
		parts = append(parts, fmt.Sprintf("%s: %v", slot, e.Failed[slot]))
	}
	return fmt.Sprintf("%d of %d attachment slots failed: %s",
		len(e.Failed), len(e.Failed)+len(e.Succeeded), strings.Join(parts, "; "))
}

// Uploader associates binary attachments with entity document slots: upsert
// upload to a deterministic path, then a patch of the single corresponding
// URL field on the owning record.
type Uploader struct {
	store        ObjectStore
	bucket       string
	cacheControl string
}

func NewUploader(store ObjectStore, bucket string) *Uploader {
	return &Uploader{store: store, bucket: bucket, cacheControl: defaultCacheControl}
}

// UploadSlots attempts every slot independently; one slot failing at either
// the upload or the patch step never prevents the others from being tried.
// On any failure the returned error is a *PartialUploadError detailing both
// outcomes.
func (u *Uploader) UploadSlots(ctx context.Context, ownerID uuid.UUID, slots []SlotUpload, patch PatchFunc) (map[string]string, error) {
	succeeded := make(map[string]string)
	failed := make(map[string]error)

	for _, s := range slots {
		objectPath := fmt.Sprintf("%s/%s/%s", ownerID, s.Folder, s.Filename)
		url, err := u.store.Put(ctx, u.bucket, objectPath, s.Content, PutOptions{
			ContentType:  s.ContentType,
			CacheControl: u.cacheControl,
			Public:       true,
			Upsert:       true,
		})
		if err != nil {
			failed[s.Slot] = err
			continue
		}

		if err := patch(ctx, s.Slot, url); err != nil {
			failed[s.Slot] = err
			continue
		}
		succeeded[s.Slot] = url
	}

	if len(failed) > 0 {
		return succeeded, &PartialUploadError{Succeeded: succeeded, Failed: failed}
	}
	return succeeded, nil
}
