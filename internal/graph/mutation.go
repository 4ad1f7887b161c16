package graph

import (
	"errors"
	"log"

	"github.com/graphql-go/graphql"
	"github.com/mikann/photo-gallery/database/models"
	"github.com/mikann/photo-gallery/database/repo/albums"
	"github.com/mikann/photo-gallery/database/repo/photos"
	"github.com/mikann/photo-gallery/internal/auth"
	"github.com/mikann/photo-gallery/storage"
	"gorm.io/gorm"
)

// CreateAlbum creates an album owned by the caller. The new album starts
// with zero photos and an empty preview.
func (r *Resolver) CreateAlbum(p graphql.ResolveParams) (interface{}, error) {
	session := auth.FromContext(p.Context)
	if session == nil {
		return nil, ErrUnauthorized
	}

	album := models.Album{UserID: session.UserID}
	if title := optStringArg(p.Args, "title"); title != nil {
		album.Title = *title
	}
	if public := optBoolArg(p.Args, "public"); public != nil {
		album.Public = *public
	}

	if err := r.albums.Create(&album); err != nil {
		return nil, err
	}
	return albumToGraph(&album, 0, []string{}), nil
}

// ChangeAlbum applies the supplied fields to an album owned by the caller.
func (r *Resolver) ChangeAlbum(p graphql.ResolveParams) (interface{}, error) {
	session := auth.FromContext(p.Context)
	if session == nil {
		return nil, ErrUnauthorized
	}
	albumID, ok := intArg(p.Args, "albumId")
	if !ok {
		return &Success{Success: false}, nil
	}

	changes := albums.Changes{
		Title:  optStringArg(p.Args, "title"),
		Public: optBoolArg(p.Args, "public"),
	}
	affected, err := r.albums.UpdateOwned(uint(albumID), session.UserID, changes)
	if err != nil {
		return nil, err
	}
	return &Success{Success: affected == 1}, nil
}

// RemoveAlbum detaches the caller's photos from the album and deletes the
// album itself. The photos are kept.
func (r *Resolver) RemoveAlbum(p graphql.ResolveParams) (interface{}, error) {
	session := auth.FromContext(p.Context)
	if session == nil {
		return nil, ErrUnauthorized
	}
	albumID, ok := intArg(p.Args, "albumId")
	if !ok {
		return &Success{Success: false}, nil
	}

	if err := r.photos.DetachFromAlbum(uint(albumID), session.UserID); err != nil {
		return nil, err
	}
	affected, err := r.albums.DeleteOwned(uint(albumID), session.UserID)
	if err != nil {
		return nil, err
	}
	return &Success{Success: affected == 1}, nil
}

// ChangePhoto applies the supplied fields to a photo owned by the caller.
// An albumId of -1 detaches the photo from its album.
func (r *Resolver) ChangePhoto(p graphql.ResolveParams) (interface{}, error) {
	session := auth.FromContext(p.Context)
	if session == nil {
		return nil, ErrUnauthorized
	}
	photoID, ok := intArg(p.Args, "photoId")
	if !ok {
		return &Success{Success: false}, nil
	}

	changes := photos.Changes{
		Title:   optStringArg(p.Args, "title"),
		Date:    optTimeArg(p.Args, "date"),
		Public:  optBoolArg(p.Args, "public"),
		Starred: optBoolArg(p.Args, "starred"),
		AlbumID: optIntArg(p.Args, "albumId"),
	}
	affected, err := r.photos.UpdateOwned(uint(photoID), session.UserID, changes)
	if err != nil {
		return nil, err
	}
	return &Success{Success: affected == 1}, nil
}

// RemovePhoto deletes the stored files of a photo owned by the caller and
// then the row itself. A file already gone is tolerated, any other storage
// failure aborts before the row is touched.
func (r *Resolver) RemovePhoto(p graphql.ResolveParams) (interface{}, error) {
	session := auth.FromContext(p.Context)
	if session == nil {
		return nil, ErrUnauthorized
	}
	photoID, ok := intArg(p.Args, "photoId")
	if !ok {
		return &Success{Success: false}, nil
	}

	photo, err := r.photos.GetOwned(uint(photoID), session.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Success{Success: false}, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.store.RemoveOriginal(photo.OriginalFile()); err != nil {
		if !errors.Is(err, storage.ErrFileNotFound) {
			return nil, err
		}
		log.Printf("Original of photo %s already missing on delete", photo.Identifier)
	}
	if err := r.store.RemoveThumbnail(photo.ThumbnailFile()); err != nil {
		if !errors.Is(err, storage.ErrFileNotFound) {
			return nil, err
		}
		log.Printf("Thumbnail of photo %s already missing on delete", photo.Identifier)
	}

	affected, err := r.photos.DeleteOwned(uint(photoID), session.UserID)
	if err != nil {
		return nil, err
	}
	return &Success{Success: affected == 1}, nil
}
