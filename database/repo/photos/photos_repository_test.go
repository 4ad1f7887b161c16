package photos

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mikann/photo-gallery/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Album{}, &models.Photo{})
	require.NoError(t, err)

	return db
}

type fixture struct {
	repo *Repository

	user1, user2 models.User

	publicAlbum  models.Album
	privateAlbum models.Album

	publicUnsorted  models.Photo // user1, public, no album
	starredUnsorted models.Photo // user1, private+starred, no album
	inPublicAlbum   models.Photo // user1, private, in public album
	inPrivateAlbum  models.Photo // user1, private, in private album
	otherPublic     models.Photo // user2, public, no album
}

func seed(t *testing.T, db *gorm.DB) *fixture {
	f := &fixture{repo: NewRepository(db)}

	f.user1 = models.User{Username: "alice", Password: "x"}
	f.user2 = models.User{Username: "bob", Password: "x"}
	require.NoError(t, db.Create(&f.user1).Error)
	require.NoError(t, db.Create(&f.user2).Error)

	f.publicAlbum = models.Album{UserID: f.user1.ID, Title: "Holiday", Public: true}
	f.privateAlbum = models.Album{UserID: f.user1.ID, Title: "Drafts"}
	require.NoError(t, db.Create(&f.publicAlbum).Error)
	require.NoError(t, db.Create(&f.privateAlbum).Error)

	f.publicUnsorted = models.Photo{Identifier: "p1", UserID: f.user1.ID, Public: true, Date: time.Now()}
	f.starredUnsorted = models.Photo{Identifier: "p2", UserID: f.user1.ID, Starred: true, Date: time.Now()}
	f.inPublicAlbum = models.Photo{Identifier: "p3", UserID: f.user1.ID, AlbumID: &f.publicAlbum.ID, Date: time.Now()}
	f.inPrivateAlbum = models.Photo{Identifier: "p4", UserID: f.user1.ID, AlbumID: &f.privateAlbum.ID, Date: time.Now()}
	f.otherPublic = models.Photo{Identifier: "p5", UserID: f.user2.ID, Public: true, Date: time.Now()}

	for _, photo := range []*models.Photo{
		&f.publicUnsorted, &f.starredUnsorted, &f.inPublicAlbum, &f.inPrivateAlbum, &f.otherPublic,
	} {
		require.NoError(t, f.repo.Create(photo))
	}

	return f
}

func TestFindVisible_Anonymous(t *testing.T) {
	f := seed(t, setupTestDB(t))

	photo, err := f.repo.FindVisible(f.publicUnsorted.ID, 0)
	assert.NoError(t, err)
	assert.Equal(t, "p1", photo.Identifier)

	// private photo in a public album inherits visibility
	photo, err = f.repo.FindVisible(f.inPublicAlbum.ID, 0)
	assert.NoError(t, err)
	assert.Equal(t, "p3", photo.Identifier)

	_, err = f.repo.FindVisible(f.starredUnsorted.ID, 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = f.repo.FindVisible(f.inPrivateAlbum.ID, 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindVisible_Owner(t *testing.T) {
	f := seed(t, setupTestDB(t))

	photo, err := f.repo.FindVisible(f.inPrivateAlbum.ID, f.user1.ID)
	assert.NoError(t, err)
	assert.Equal(t, "p4", photo.Identifier)

	// another authenticated user is no better than anonymous
	_, err = f.repo.FindVisible(f.inPrivateAlbum.ID, f.user2.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListPublic(t *testing.T) {
	f := seed(t, setupTestDB(t))

	// album-less context spans all users, newest first
	list, err := f.repo.ListPublic(nil, -1)
	assert.NoError(t, err)
	if assert.Len(t, list, 2) {
		assert.Equal(t, "p5", list[0].Identifier)
		assert.Equal(t, "p1", list[1].Identifier)
	}

	list, err = f.repo.ListPublic(&f.publicAlbum.ID, -1)
	assert.NoError(t, err)
	if assert.Len(t, list, 1) {
		assert.Equal(t, "p3", list[0].Identifier)
	}

	list, err = f.repo.ListPublic(&f.privateAlbum.ID, -1)
	assert.NoError(t, err)
	assert.Empty(t, list)
}

func TestOwnedListings(t *testing.T) {
	f := seed(t, setupTestDB(t))

	list, err := f.repo.ListOwned(f.user1.ID, -1)
	assert.NoError(t, err)
	assert.Len(t, list, 4)

	list, err = f.repo.ListOwnedPublic(f.user1.ID, -1)
	assert.NoError(t, err)
	if assert.Len(t, list, 1) {
		assert.Equal(t, "p1", list[0].Identifier)
	}

	list, err = f.repo.ListOwnedStarred(f.user1.ID, -1)
	assert.NoError(t, err)
	if assert.Len(t, list, 1) {
		assert.Equal(t, "p2", list[0].Identifier)
	}

	list, err = f.repo.ListByAlbum(f.user1.ID, f.publicAlbum.ID, -1)
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = f.repo.ListOwned(f.user1.ID, 2)
	assert.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestListRecent(t *testing.T) {
	f := seed(t, setupTestDB(t))

	// touch an older photo so it surfaces first
	title := "touched"
	_, err := f.repo.UpdateOwned(f.publicUnsorted.ID, f.user1.ID, Changes{Title: &title})
	require.NoError(t, err)

	list, err := f.repo.ListRecent(f.user1.ID, 1)
	assert.NoError(t, err)
	if assert.Len(t, list, 1) {
		assert.Equal(t, "p1", list[0].Identifier)
	}
}

func TestCountsAndIDs(t *testing.T) {
	f := seed(t, setupTestDB(t))

	count, err := f.repo.CountByUser(f.user1.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), count)

	count, err = f.repo.CountUnsortedPublic(f.user1.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = f.repo.CountUnsortedStarred(f.user1.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	ids, err := f.repo.IDsByUser(f.user1.ID, -1)
	assert.NoError(t, err)
	assert.Len(t, ids, 4)
	// newest first
	assert.Equal(t, f.inPrivateAlbum.ID, ids[0])

	ids, err = f.repo.IDsUnsortedPublic(f.user1.ID, -1)
	assert.NoError(t, err)
	assert.Equal(t, []uint{f.publicUnsorted.ID}, ids)

	ids, err = f.repo.IDsUnsortedStarred(f.user1.ID, -1)
	assert.NoError(t, err)
	assert.Equal(t, []uint{f.starredUnsorted.ID}, ids)
}

func TestUpdateOwned(t *testing.T) {
	f := seed(t, setupTestDB(t))

	title := "renamed"
	public := true
	affected, err := f.repo.UpdateOwned(f.starredUnsorted.ID, f.user1.ID, Changes{Title: &title, Public: &public})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	var photo models.Photo
	require.NoError(t, f.repo.db.First(&photo, f.starredUnsorted.ID).Error)
	assert.Equal(t, "renamed", photo.Title)
	assert.True(t, photo.Public)

	// a foreign row is never affected
	affected, err = f.repo.UpdateOwned(f.starredUnsorted.ID, f.user2.ID, Changes{Title: &title})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestUpdateOwned_AlbumSentinel(t *testing.T) {
	f := seed(t, setupTestDB(t))

	detach := -1
	affected, err := f.repo.UpdateOwned(f.inPublicAlbum.ID, f.user1.ID, Changes{AlbumID: &detach})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	var photo models.Photo
	require.NoError(t, f.repo.db.First(&photo, f.inPublicAlbum.ID).Error)
	assert.Nil(t, photo.AlbumID)

	target := int(f.privateAlbum.ID)
	affected, err = f.repo.UpdateOwned(f.inPublicAlbum.ID, f.user1.ID, Changes{AlbumID: &target})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	require.NoError(t, f.repo.db.First(&photo, f.inPublicAlbum.ID).Error)
	if assert.NotNil(t, photo.AlbumID) {
		assert.Equal(t, f.privateAlbum.ID, *photo.AlbumID)
	}
}

func TestUpdateOwned_NoChanges(t *testing.T) {
	f := seed(t, setupTestDB(t))

	affected, err := f.repo.UpdateOwned(f.publicUnsorted.ID, f.user1.ID, Changes{})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = f.repo.UpdateOwned(f.publicUnsorted.ID, f.user2.ID, Changes{})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestDetachFromAlbum(t *testing.T) {
	f := seed(t, setupTestDB(t))

	err := f.repo.DetachFromAlbum(f.publicAlbum.ID, f.user1.ID)
	assert.NoError(t, err)

	var photo models.Photo
	require.NoError(t, f.repo.db.First(&photo, f.inPublicAlbum.ID).Error)
	assert.Nil(t, photo.AlbumID)

	// the photo itself survives detaching
	count, err := f.repo.CountByUser(f.user1.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestDeleteOwned(t *testing.T) {
	f := seed(t, setupTestDB(t))

	affected, err := f.repo.DeleteOwned(f.publicUnsorted.ID, f.user2.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	affected, err = f.repo.DeleteOwned(f.publicUnsorted.ID, f.user1.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	_, err = f.repo.FindVisible(f.publicUnsorted.ID, f.user1.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMetadataPipeline(t *testing.T) {
	f := seed(t, setupTestDB(t))

	date := time.UnixMilli(1500000000000)
	err := f.repo.UpdateMetadata(f.publicUnsorted.ID, date, "640 x 480", 1234)
	assert.NoError(t, err)

	var photo models.Photo
	require.NoError(t, f.repo.db.First(&photo, f.publicUnsorted.ID).Error)
	assert.Equal(t, "640 x 480", photo.Resolution)
	assert.Equal(t, int64(1234), photo.Size)
	assert.Equal(t, models.PhotoStatusMetadataExtracted, photo.Status)
	assert.Equal(t, date.UnixMilli(), photo.Date.UnixMilli())

	pending, err := f.repo.ListPendingThumbnails(time.Now().Add(time.Second), 10)
	assert.NoError(t, err)
	if assert.Len(t, pending, 1) {
		assert.Equal(t, "p1", pending[0].Identifier)
	}

	err = f.repo.UpdateStatus(f.publicUnsorted.ID, models.PhotoStatusThumbnailReady)
	assert.NoError(t, err)

	pending, err = f.repo.ListPendingThumbnails(time.Now().Add(time.Second), 10)
	assert.NoError(t, err)
	assert.Empty(t, pending)
}

func TestLookupMedia(t *testing.T) {
	f := seed(t, setupTestDB(t))

	lookup, err := f.repo.LookupMedia(f.inPublicAlbum.ID)
	assert.NoError(t, err)
	assert.True(t, lookup.AlbumPublic)
	assert.True(t, lookup.Visible(0))

	lookup, err = f.repo.LookupMedia(f.inPrivateAlbum.ID)
	assert.NoError(t, err)
	assert.False(t, lookup.AlbumPublic)
	assert.False(t, lookup.Visible(0))
	assert.False(t, lookup.Visible(f.user2.ID))
	assert.True(t, lookup.Visible(f.user1.ID))

	_, err = f.repo.LookupMedia(99999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
