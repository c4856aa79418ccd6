// internal/handler/driver_photos.go
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/jerent/carfleet/internal/collection"
	"github.com/jerent/carfleet/internal/middleware"
	"github.com/jerent/carfleet/internal/model"
	"github.com/jerent/carfleet/internal/repository"
	"github.com/jerent/carfleet/internal/storage"
)

const maxPhotoUploadBytes = 32 << 20

// photoSlotFolders maps each multipart field name to the folder segment its
// object is stored under.
var photoSlotFolders = map[string]string{
	model.SlotDriversLicense:  "drivers_license",
	model.SlotPoliceRecords:   "police_records",
	model.SlotCriminalRecords: "criminal_records",
	model.SlotProfilePhoto:    "profile",
}

// DriverPhotosHandler receives driver document uploads. Each multipart field
// named after a document slot is stored and its public URL patched onto the
// driver record, one slot at a time. Lookups and patches are limited to the
// acting user's organization.
type DriverPhotosHandler struct {
	drivers  *repository.DriverRepository
	uploader *storage.Uploader
	orgs     collection.OrgResolver
}

func NewDriverPhotosHandler(drivers *repository.DriverRepository, uploader *storage.Uploader, orgs collection.OrgResolver) *DriverPhotosHandler {
	return &DriverPhotosHandler{drivers: drivers, uploader: uploader, orgs: orgs}
}

type PhotoUploadResponse struct {
	BaseResponse
	Uploaded map[string]string `json:"uploaded"`
	Failed   map[string]string `json:"failed,omitempty"`
}

func (h *DriverPhotosHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	driverID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid driver id")
		return
	}

	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	orgID, err := h.orgs.OrganizationFor(r.Context(), actor)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	// The driver must exist in the caller's organization before any object is
	// stored under its id.
	if _, err := h.drivers.Scoped(orgID).Find(r.Context(), driverID); err != nil {
		respondWithDomainError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}

	var slots []storage.SlotUpload
	for slot, folder := range photoSlotFolders {
		headers := r.MultipartForm.File[slot]
		if len(headers) == 0 {
			continue
		}

		file, err := headers[0].Open()
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Unreadable upload for "+slot)
			return
		}
		defer file.Close()

		slots = append(slots, storage.SlotUpload{
			Slot:        slot,
			Folder:      folder,
			Filename:    sanitizeFilename(headers[0].Filename),
			ContentType: headers[0].Header.Get("Content-Type"),
			Content:     file,
		})
	}

	if len(slots) == 0 {
		respondWithError(w, http.StatusBadRequest, "No document slots in payload")
		return
	}

	uploaded, err := h.uploader.UploadSlots(r.Context(), driverID, slots, func(ctx context.Context, slot, url string) error {
		return h.drivers.PatchPhotoURL(ctx, orgID, driverID, slot, url)
	})
	if err != nil {
		var partial *storage.PartialUploadError
		if errors.As(err, &partial) {
			slog.WarnContext(r.Context(), "Driver photo upload partially failed",
				"driver_id", driverID, "failed_slots", len(partial.Failed), "requestID", chmw.GetReqID(r.Context()))

			failed := make(map[string]string, len(partial.Failed))
			for slot, slotErr := range partial.Failed {
				failed[slot] = slotErr.Error()
			}
			respondWithJSON(w, http.StatusMultiStatus, PhotoUploadResponse{
				Uploaded: partial.Succeeded,
				Failed:   failed,
			})
			return
		}

		slog.ErrorContext(r.Context(), "Driver photo upload failed", "driver_id", driverID, "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, PhotoUploadResponse{
		BaseResponse: BaseResponse{Ok: true},
		Uploaded:     uploaded,
	})
}

// sanitizeFilename strips any path components from a client-supplied name.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
