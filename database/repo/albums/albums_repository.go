package albums

import (
	"sort"
	"strconv"

	"github.com/mikann/photo-gallery/database/models"
	"gorm.io/gorm"
)

// previewSize caps the number of photo ids annotated on an album listing.
const previewSize = 3

// Changes carries the optional fields of an album update. Nil fields are
// left untouched.
type Changes struct {
	Title  *string
	Public *bool
}

// Preview is an album annotated with its photo count and the ids of its
// newest photos, rendered as strings for the API.
type Preview struct {
	Album  *models.Album
	Count  int64
	Source []string
}

// Repository wraps all album persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new album row.
func (r *Repository) Create(album *models.Album) error {
	return r.db.Create(album).Error
}

// FindVisible returns the album when it is public or, for userID != 0,
// owned by the caller.
func (r *Repository) FindVisible(albumID, userID uint) (*models.Album, error) {
	cond := r.db.Where("public = ?", true)
	if userID != 0 {
		cond = cond.Or("user_id = ?", userID)
	}

	var album models.Album
	err := r.db.Where("id = ?", albumID).Where(cond).First(&album).Error
	if err != nil {
		return nil, err
	}
	return &album, nil
}

// ListPublicWithPreview returns all public albums across users, each with
// its photo count and newest photo ids.
func (r *Repository) ListPublicWithPreview() ([]*Preview, error) {
	var albums []*models.Album
	if err := r.db.Where("public = ?", true).Order("id ASC").Find(&albums).Error; err != nil {
		return nil, err
	}
	return r.annotate(albums)
}

// ListByUserWithPreview returns the user's own albums with the same
// annotation. Albums without photos get an empty preview.
func (r *Repository) ListByUserWithPreview(userID uint) ([]*Preview, error) {
	var albums []*models.Album
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&albums).Error; err != nil {
		return nil, err
	}
	return r.annotate(albums)
}

// annotate batches the photo count and preview-source lookup for a set of
// albums, avoiding one query per album.
func (r *Repository) annotate(albums []*models.Album) ([]*Preview, error) {
	previews := make([]*Preview, len(albums))
	if len(albums) == 0 {
		return previews, nil
	}

	albumIDs := make([]uint, len(albums))
	for i, album := range albums {
		albumIDs[i] = album.ID
	}

	var rows []struct {
		ID      uint
		AlbumID uint
	}
	err := r.db.Model(&models.Photo{}).
		Select("id, album_id").
		Where("album_id IN ?", albumIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64)
	ids := make(map[uint][]uint)
	for _, row := range rows {
		counts[row.AlbumID]++
		ids[row.AlbumID] = append(ids[row.AlbumID], row.ID)
	}

	for i, album := range albums {
		photoIDs := ids[album.ID]
		sort.Slice(photoIDs, func(a, b int) bool { return photoIDs[a] > photoIDs[b] })
		if len(photoIDs) > previewSize {
			photoIDs = photoIDs[:previewSize]
		}

		source := make([]string, len(photoIDs))
		for j, id := range photoIDs {
			source[j] = strconv.FormatUint(uint64(id), 10)
		}

		previews[i] = &Preview{
			Album:  album,
			Count:  counts[album.ID],
			Source: source,
		}
	}

	return previews, nil
}

// UpdateOwned applies the non-nil changes to an album owned by the caller
// and returns the affected row count.
func (r *Repository) UpdateOwned(albumID, userID uint, changes Changes) (int64, error) {
	updates := map[string]interface{}{}
	if changes.Title != nil {
		updates["title"] = *changes.Title
	}
	if changes.Public != nil {
		updates["public"] = *changes.Public
	}
	if len(updates) == 0 {
		var count int64
		err := r.db.Model(&models.Album{}).
			Where("id = ? AND user_id = ?", albumID, userID).Count(&count).Error
		return count, err
	}

	result := r.db.Model(&models.Album{}).
		Where("id = ? AND user_id = ?", albumID, userID).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// DeleteOwned removes an album owned by the caller and returns the
// affected row count. Detaching the album's photos is the caller's job.
func (r *Repository) DeleteOwned(albumID, userID uint) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", albumID, userID).
		Delete(&models.Album{})
	return result.RowsAffected, result.Error
}
