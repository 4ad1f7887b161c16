package media

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mikann/photo-gallery/api/common"
	"github.com/mikann/photo-gallery/database/models"
	"github.com/mikann/photo-gallery/database/repo/photos"
	"github.com/mikann/photo-gallery/internal/auth"
	"github.com/mikann/photo-gallery/storage"
	"gorm.io/gorm"
)

// Handler serves photo bytes with range support.
type Handler struct {
	photos *photos.CachedRepository
	store  *storage.MediaStore
}

func NewHandler(photosRepo *photos.CachedRepository, store *storage.MediaStore) *Handler {
	return &Handler{photos: photosRepo, store: store}
}

// Get serves the original or thumbnail of one photo, chosen by the type
// query parameter (thumbnail unless "original"). Invisible photos and
// missing rows both answer 404.
func (h *Handler) Get(c *gin.Context) {
	idParam := c.Query("id")
	if idParam == "" {
		common.RespondError(c, http.StatusBadRequest, "Photo id is required")
		return
	}
	photoID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid photo id")
		return
	}

	lookup, err := h.photos.LookupMedia(uint(photoID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		common.RespondError(c, http.StatusNotFound, "Photo not found")
		return
	}
	if err != nil {
		log.Printf("[Media] Failed to look up photo %d: %v", photoID, err)
		common.RespondError(c, http.StatusInternalServerError, "Error retrieving photo")
		return
	}

	var userID uint
	if session := auth.FromContext(c.Request.Context()); session != nil {
		userID = session.UserID
	}
	if !lookup.Visible(userID) {
		common.RespondError(c, http.StatusNotFound, "Photo not found")
		return
	}

	var path, contentType string
	if c.Query("type") == "original" {
		path, err = h.store.OriginalPath(lookup.Photo.OriginalFile())
		contentType = lookup.Photo.Mime
	} else {
		path, err = h.store.ThumbnailPath(lookup.Photo.ThumbnailFile())
		contentType = "image/png"
	}
	if err != nil {
		common.RespondError(c, http.StatusNotFound, "Photo file not found")
		return
	}

	h.serveFile(c, lookup.Photo, path, contentType)
}

func (h *Handler) serveFile(c *gin.Context, photo *models.Photo, path, contentType string) {
	file, err := os.Open(path)
	if err != nil {
		log.Printf("[Media] File for photo %s missing on disk: %v", photo.Identifier, err)
		common.RespondError(c, http.StatusNotFound, "Photo file not found")
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Error retrieving photo")
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "private, max-age=86400")

	http.ServeContent(c.Writer, c.Request, photo.OriginalName, stat.ModTime(), file)
}
