package photos

import (
	"testing"

	"github.com/mikann/photo-gallery/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCachedRepo(t *testing.T) (*CachedRepository, *fixture) {
	db := setupTestDB(t)
	f := seed(t, db)

	metaCache, err := cache.New(64)
	require.NoError(t, err)
	t.Cleanup(metaCache.Close)

	return NewCachedRepository(f.repo, metaCache, 0), f
}

func TestCachedLookupMedia_ServesFromCache(t *testing.T) {
	repo, f := setupCachedRepo(t)

	lookup, err := repo.LookupMedia(f.publicUnsorted.ID)
	require.NoError(t, err)
	assert.True(t, lookup.Photo.Public)

	// flip the row behind the cache's back, the stale entry keeps serving
	require.NoError(t, f.repo.db.Model(lookup.Photo).Update("public", false).Error)

	cached, err := repo.LookupMedia(f.publicUnsorted.ID)
	assert.NoError(t, err)
	assert.True(t, cached.Photo.Public)
}

func TestCachedLookupMedia_InvalidatedByUpdate(t *testing.T) {
	repo, f := setupCachedRepo(t)

	_, err := repo.LookupMedia(f.publicUnsorted.ID)
	require.NoError(t, err)

	hidden := false
	affected, err := repo.UpdateOwned(f.publicUnsorted.ID, f.user1.ID, Changes{Public: &hidden})
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	lookup, err := repo.LookupMedia(f.publicUnsorted.ID)
	assert.NoError(t, err)
	assert.False(t, lookup.Photo.Public)
	assert.False(t, lookup.Visible(0))
}

func TestCachedLookupMedia_InvalidatedByDelete(t *testing.T) {
	repo, f := setupCachedRepo(t)

	_, err := repo.LookupMedia(f.publicUnsorted.ID)
	require.NoError(t, err)

	affected, err := repo.DeleteOwned(f.publicUnsorted.ID, f.user1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	_, err = repo.LookupMedia(f.publicUnsorted.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCachedLookupMedia_InvalidatedByDetach(t *testing.T) {
	repo, f := setupCachedRepo(t)

	lookup, err := repo.LookupMedia(f.inPublicAlbum.ID)
	require.NoError(t, err)
	require.True(t, lookup.AlbumPublic)
	require.True(t, lookup.Visible(0))

	// removing the album detaches its photos and must drop their entries,
	// or a photo only visible through the album would keep serving
	require.NoError(t, repo.DetachFromAlbum(f.publicAlbum.ID, f.user1.ID))

	lookup, err = repo.LookupMedia(f.inPublicAlbum.ID)
	assert.NoError(t, err)
	assert.False(t, lookup.AlbumPublic)
	assert.False(t, lookup.Visible(0))
	assert.Nil(t, lookup.Photo.AlbumID)
}

func TestCachedRepo_ForeignUpdateKeepsCache(t *testing.T) {
	repo, f := setupCachedRepo(t)

	lookup, err := repo.LookupMedia(f.publicUnsorted.ID)
	require.NoError(t, err)
	require.True(t, lookup.Photo.Public)

	hidden := false
	affected, err := repo.UpdateOwned(f.publicUnsorted.ID, f.user2.ID, Changes{Public: &hidden})
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	cached, err := repo.LookupMedia(f.publicUnsorted.ID)
	assert.NoError(t, err)
	assert.True(t, cached.Photo.Public)
}
