package upload

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikann/photo-gallery/cache"
	"github.com/mikann/photo-gallery/database/models"
	"github.com/mikann/photo-gallery/database/repo/photos"
	"github.com/mikann/photo-gallery/internal/auth"
	"github.com/mikann/photo-gallery/internal/ingest"
	"github.com/mikann/photo-gallery/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubTranscoder struct{}

func (stubTranscoder) Probe(ctx context.Context, path string) (*ingest.Metadata, error) {
	return &ingest.Metadata{Width: 100, Height: 50, Size: 11}, nil
}

func (stubTranscoder) Thumbnail(ctx context.Context, path string) ([]byte, error) {
	return []byte("thumb"), nil
}

type fixture struct {
	db     *gorm.DB
	store  *storage.MediaStore
	router *gin.Engine
	user   models.User
}

func setupUpload(t *testing.T) *fixture {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Album{}, &models.Photo{}))

	metaCache, err := cache.New(64)
	require.NoError(t, err)
	t.Cleanup(metaCache.Close)

	store, err := storage.NewMediaStore(t.TempDir())
	require.NoError(t, err)

	repo := photos.NewCachedRepository(photos.NewRepository(db), metaCache, 0)
	handler := NewHandler(repo, store, ingest.NewService(repo, store, stubTranscoder{}))

	f := &fixture{
		db:    db,
		store: store,
		user:  models.User{Username: "alice", Password: "x"},
	}
	require.NoError(t, db.Create(&f.user).Error)

	router := gin.New()
	router.POST("/upload", func(c *gin.Context) {
		if c.GetHeader("X-Test-User") != "" {
			session := &auth.Session{UserID: f.user.ID, Username: f.user.Username}
			c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
		}
		handler.Handle(c)
	})
	f.router = router
	return f
}

func multipartBody(t *testing.T, names []string, dates string) (*bytes.Buffer, string) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for _, name := range names {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos"; filename="%s"`, name))
		header.Set("Content-Type", "image/jpeg")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("image bytes"))
		require.NoError(t, err)
	}
	if dates != "" {
		require.NoError(t, writer.WriteField("date", dates))
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func (f *fixture) post(t *testing.T, body *bytes.Buffer, contentType string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	if authed {
		req.Header.Set("X-Test-User", "alice")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestHandle_Batch(t *testing.T) {
	f := setupUpload(t)

	body, contentType := multipartBody(t, []string{"a.jpg", "b.jpg"}, "1500000000000,1500000000001")
	w := f.post(t, body, contentType, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored []models.Photo
	require.NoError(t, f.db.Order("id ASC").Find(&stored).Error)
	require.Len(t, stored, 2)

	for _, photo := range stored {
		assert.Equal(t, models.PhotoStatusThumbnailReady, photo.Status)
		assert.Equal(t, "100 x 50", photo.Resolution)
		assert.Equal(t, "image/jpeg", photo.Mime)
		assert.Equal(t, f.user.ID, photo.UserID)

		path, err := f.store.OriginalPath(photo.OriginalFile())
		require.NoError(t, err)
		assert.FileExists(t, path)
		path, err = f.store.ThumbnailPath(photo.ThumbnailFile())
		require.NoError(t, err)
		assert.FileExists(t, path)
	}
	assert.Equal(t, "a.jpg", stored[0].OriginalName)
	assert.Equal(t, int64(1500000000000), stored[0].Date.UnixMilli())
}

func TestHandle_SkipsFilesWithoutDate(t *testing.T) {
	f := setupUpload(t)

	body, contentType := multipartBody(t, []string{"a.jpg", "b.jpg"}, "1500000000000,0")
	w := f.post(t, body, contentType, true)
	require.Equal(t, http.StatusOK, w.Code)

	var stored []models.Photo
	require.NoError(t, f.db.Order("id ASC").Find(&stored).Error)
	require.Len(t, stored, 2)
	assert.Equal(t, models.PhotoStatusThumbnailReady, stored[0].Status)
	// the file is kept but derivation is skipped
	assert.Equal(t, models.PhotoStatusReceived, stored[1].Status)
}

func TestHandle_Unauthenticated(t *testing.T) {
	f := setupUpload(t)

	body, contentType := multipartBody(t, []string{"a.jpg"}, "1")
	w := f.post(t, body, contentType, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandle_NoFiles(t *testing.T) {
	f := setupUpload(t)

	body, contentType := multipartBody(t, nil, "1")
	w := f.post(t, body, contentType, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
