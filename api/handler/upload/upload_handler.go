package upload

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mikann/photo-gallery/api/common"
	"github.com/mikann/photo-gallery/database/models"
	"github.com/mikann/photo-gallery/database/repo/photos"
	"github.com/mikann/photo-gallery/internal/auth"
	"github.com/mikann/photo-gallery/internal/ingest"
	"github.com/mikann/photo-gallery/storage"
	"github.com/mikann/photo-gallery/utils"
)

// Handler receives photo batches and hands them to the ingest pipeline.
type Handler struct {
	photos *photos.CachedRepository
	store  *storage.MediaStore
	ingest *ingest.Service
}

func NewHandler(photosRepo *photos.CachedRepository, store *storage.MediaStore, ingestService *ingest.Service) *Handler {
	return &Handler{photos: photosRepo, store: store, ingest: ingestService}
}

// Handle accepts a multipart batch: files under "photos" and one "date"
// field holding comma-separated capture times in Unix milliseconds, in
// file order. Every file is stored and recorded first, then metadata and
// thumbnails are derived concurrently. Files with a non-positive date
// stay in the received state.
func (h *Handler) Handle(c *gin.Context) {
	session := auth.FromContext(c.Request.Context())
	if session == nil {
		common.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	files := form.File["photos"]
	if len(files) == 0 {
		common.RespondError(c, http.StatusBadRequest, "No photos in request")
		return
	}
	dates := parseDates(form.Value["date"])

	uploads := make([]ingest.Upload, 0, len(files))
	for i, fileHeader := range files {
		photo := &models.Photo{
			Identifier:   uuid.NewString(),
			Date:         time.Now(),
			OriginalName: fileHeader.Filename,
			Mime:         fileHeader.Header.Get("Content-Type"),
			UserID:       session.UserID,
			Status:       models.PhotoStatusReceived,
		}
		if !storage.IsValidFileName(photo.OriginalFile()) {
			common.RespondError(c, http.StatusBadRequest, "Invalid file name")
			return
		}

		if err := h.photos.Create(photo); err != nil {
			log.Printf("[Upload] Failed to record photo %s: %v", utils.SanitizeLogMessage(fileHeader.Filename), err)
			common.RespondError(c, http.StatusInternalServerError, "Failed to record upload")
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			common.RespondError(c, http.StatusBadRequest, "Failed to read uploaded file")
			return
		}
		saveErr := h.store.SaveOriginal(photo.OriginalFile(), src)
		src.Close()
		if saveErr != nil {
			log.Printf("[Upload] Failed to store photo %s: %v", photo.Identifier, saveErr)
			common.RespondError(c, http.StatusInternalServerError, "Failed to store upload")
			return
		}

		var date int64
		if i < len(dates) {
			date = dates[i]
		}
		uploads = append(uploads, ingest.Upload{Photo: photo, Date: date})
	}

	if err := h.ingest.ProcessBatch(c.Request.Context(), uploads); err != nil {
		log.Printf("[Upload] Batch processing failed: %v", err)
		common.RespondError(c, http.StatusInternalServerError, "Failed to process upload")
		return
	}

	common.RespondSuccessMessage(c, "OK", nil)
}

// parseDates splits the comma-separated date field. Unparseable entries
// become zero, which skips derivation for that file.
func parseDates(values []string) []int64 {
	if len(values) == 0 {
		return nil
	}

	parts := strings.Split(values[0], ",")
	dates := make([]int64, len(parts))
	for i, part := range parts {
		value, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		dates[i] = value
	}
	return dates
}
