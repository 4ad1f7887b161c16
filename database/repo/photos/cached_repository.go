package photos

import (
	"fmt"
	"time"

	"github.com/mikann/photo-gallery/cache"
	"github.com/mikann/photo-gallery/database/models"
)

// DefaultLookupTTL bounds how long a cached media lookup may serve after
// the underlying rows changed.
const DefaultLookupTTL = time.Minute

// CachedRepository decorates Repository with an in-process cache on the
// media lookup path. Mutations drop the affected entries, an album's
// public-flag flip ages out within the TTL.
type CachedRepository struct {
	*Repository
	cache *cache.Cache
	ttl   time.Duration
}

func NewCachedRepository(repo *Repository, c *cache.Cache, ttl time.Duration) *CachedRepository {
	if ttl <= 0 {
		ttl = DefaultLookupTTL
	}
	return &CachedRepository{Repository: repo, cache: c, ttl: ttl}
}

func mediaKey(photoID uint) string {
	return fmt.Sprintf("photo:media:%d", photoID)
}

// LookupMedia serves the delivery view from cache when possible.
func (c *CachedRepository) LookupMedia(photoID uint) (*MediaLookup, error) {
	if value, found := c.cache.Get(mediaKey(photoID)); found {
		if lookup, ok := value.(*MediaLookup); ok {
			return lookup, nil
		}
	}

	lookup, err := c.Repository.LookupMedia(photoID)
	if err != nil {
		return nil, err
	}
	c.cache.Set(mediaKey(photoID), lookup, c.ttl)
	return lookup, nil
}

// UpdateOwned invalidates the photo's cached lookup alongside the update.
func (c *CachedRepository) UpdateOwned(photoID, userID uint, changes Changes) (int64, error) {
	affected, err := c.Repository.UpdateOwned(photoID, userID, changes)
	if affected > 0 {
		c.cache.Delete(mediaKey(photoID))
	}
	return affected, err
}

// DetachFromAlbum invalidates the cached lookup of every detached photo.
// Their visibility may have come from the album they are leaving.
func (c *CachedRepository) DetachFromAlbum(albumID, userID uint) error {
	ids, err := c.Repository.IDsByAlbum(albumID, userID)
	if err != nil {
		return err
	}
	if err := c.Repository.DetachFromAlbum(albumID, userID); err != nil {
		return err
	}
	for _, id := range ids {
		c.cache.Delete(mediaKey(id))
	}
	return nil
}

// DeleteOwned invalidates the photo's cached lookup alongside the delete.
func (c *CachedRepository) DeleteOwned(photoID, userID uint) (int64, error) {
	affected, err := c.Repository.DeleteOwned(photoID, userID)
	if affected > 0 {
		c.cache.Delete(mediaKey(photoID))
	}
	return affected, err
}

// UpdateMetadata invalidates the photo's cached lookup alongside the
// metadata write.
func (c *CachedRepository) UpdateMetadata(photoID uint, date time.Time, resolution string, size int64) error {
	err := c.Repository.UpdateMetadata(photoID, date, resolution, size)
	if err == nil {
		c.cache.Delete(mediaKey(photoID))
	}
	return err
}

// UpdateStatus invalidates the photo's cached lookup alongside the status
// write.
func (c *CachedRepository) UpdateStatus(photoID uint, status models.PhotoStatus) error {
	err := c.Repository.UpdateStatus(photoID, status)
	if err == nil {
		c.cache.Delete(mediaKey(photoID))
	}
	return err
}
