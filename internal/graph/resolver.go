package graph

import (
	"context"
	"errors"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/mikann/photo-gallery/database/models"
	"github.com/mikann/photo-gallery/database/repo/albums"
	"github.com/mikann/photo-gallery/database/repo/photos"
	"github.com/mikann/photo-gallery/internal/auth"
	"github.com/mikann/photo-gallery/storage"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ErrUnauthorized is returned for operations that require a session.
var ErrUnauthorized = errors.New("unauthorized")

// Resolver implements the query and mutation fields against the
// repositories. Authorization comes from the session on the request
// context.
type Resolver struct {
	photos *photos.CachedRepository
	albums *albums.Repository
	store  *storage.MediaStore
}

func NewResolver(photosRepo *photos.CachedRepository, albumsRepo *albums.Repository, store *storage.MediaStore) *Resolver {
	return &Resolver{photos: photosRepo, albums: albumsRepo, store: store}
}

// intArg returns a required integer argument.
func intArg(args map[string]interface{}, name string) (int, bool) {
	v, ok := args[name].(int)
	return v, ok
}

// optIntArg returns an optional integer argument as a pointer.
func optIntArg(args map[string]interface{}, name string) *int {
	if v, ok := args[name].(int); ok {
		return &v
	}
	return nil
}

func optStringArg(args map[string]interface{}, name string) *string {
	if v, ok := args[name].(string); ok {
		return &v
	}
	return nil
}

func optBoolArg(args map[string]interface{}, name string) *bool {
	if v, ok := args[name].(bool); ok {
		return &v
	}
	return nil
}

func optTimeArg(args map[string]interface{}, name string) *time.Time {
	if v, ok := args[name].(time.Time); ok {
		return &v
	}
	return nil
}

// limitArg returns the list limit, or -1 for unbounded when absent.
func limitArg(args map[string]interface{}) int {
	if v, ok := args["limit"].(int); ok && v > 0 {
		return v
	}
	return -1
}

// callerID returns the acting user's id, 0 for anonymous callers.
func callerID(ctx context.Context) uint {
	if session := auth.FromContext(ctx); session != nil {
		return session.UserID
	}
	return 0
}

// GeneralAlbum aggregates the caller's virtual album counters and preview
// sources. The public and starred groupings cover album-less photos only.
func (r *Resolver) GeneralAlbum(p graphql.ResolveParams) (interface{}, error) {
	session := auth.FromContext(p.Context)
	if session == nil {
		return nil, ErrUnauthorized
	}
	userID := session.UserID
	limit := limitArg(p.Args)

	var result GeneralAlbum
	g, _ := errgroup.WithContext(p.Context)
	g.Go(func() (err error) {
		result.AllCount, err = r.photos.CountByUser(userID)
		return err
	})
	g.Go(func() (err error) {
		result.PublicCount, err = r.photos.CountUnsortedPublic(userID)
		return err
	})
	g.Go(func() (err error) {
		result.StarredCount, err = r.photos.CountUnsortedStarred(userID)
		return err
	})
	g.Go(func() error {
		ids, err := r.photos.IDsByUser(userID, limit)
		result.AllSource = idsToStrings(ids)
		return err
	})
	g.Go(func() error {
		ids, err := r.photos.IDsUnsortedPublic(userID, limit)
		result.PublicSource = idsToStrings(ids)
		return err
	})
	g.Go(func() error {
		ids, err := r.photos.IDsUnsortedStarred(userID, limit)
		result.StarredSource = idsToStrings(ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}

// Albums lists public albums for everyone with type PUBLIC, otherwise the
// caller's own albums. Anonymous callers get an empty list.
func (r *Resolver) Albums(p graphql.ResolveParams) (interface{}, error) {
	listType := ""
	if v := optStringArg(p.Args, "type"); v != nil {
		listType = *v
	}

	if listType == "PUBLIC" {
		previews, err := r.albums.ListPublicWithPreview()
		if err != nil {
			return nil, err
		}
		return previewsToGraph(previews), nil
	}

	session := auth.FromContext(p.Context)
	if session == nil {
		return []*Album{}, nil
	}
	previews, err := r.albums.ListByUserWithPreview(session.UserID)
	if err != nil {
		return nil, err
	}
	return previewsToGraph(previews), nil
}

// Album returns a single album when it is public or owned by the caller.
func (r *Resolver) Album(p graphql.ResolveParams) (interface{}, error) {
	albumID, ok := intArg(p.Args, "albumId")
	if !ok {
		return nil, nil
	}

	album, err := r.albums.FindVisible(uint(albumID), callerID(p.Context))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return albumToGraph(album, 0, nil), nil
}

// Photos lists photos. Type PUBLIC serves everyone within one album
// context; all other listings require a session and serve the caller's
// own photos.
func (r *Resolver) Photos(p graphql.ResolveParams) (interface{}, error) {
	limit := limitArg(p.Args)
	albumID := optIntArg(p.Args, "albumId")

	listType := ""
	if v := optStringArg(p.Args, "type"); v != nil {
		listType = *v
	}

	if listType == "PUBLIC" {
		var scope *uint
		if albumID != nil {
			id := uint(*albumID)
			scope = &id
		}
		list, err := r.photos.ListPublic(scope, limit)
		if err != nil {
			return nil, err
		}
		return photosToGraph(list), nil
	}

	session := auth.FromContext(p.Context)
	if session == nil {
		return []*Photo{}, nil
	}

	if albumID != nil {
		list, err := r.photos.ListByAlbum(session.UserID, uint(*albumID), limit)
		if err != nil {
			return nil, err
		}
		return photosToGraph(list), nil
	}

	general := ""
	if v := optStringArg(p.Args, "general"); v != nil {
		general = *v
	}

	var (
		list []*models.Photo
		err  error
	)
	switch general {
	case "Unsorted":
		list, err = r.photos.ListOwned(session.UserID, limit)
	case "Public":
		list, err = r.photos.ListOwnedPublic(session.UserID, limit)
	case "Starred":
		list, err = r.photos.ListOwnedStarred(session.UserID, limit)
	case "Recent":
		list, err = r.photos.ListRecent(session.UserID, limit)
	default:
		return []*Photo{}, nil
	}
	if err != nil {
		return nil, err
	}
	return photosToGraph(list), nil
}

// Photo returns a single photo when the caller may see it, nil otherwise.
func (r *Resolver) Photo(p graphql.ResolveParams) (interface{}, error) {
	photoID, ok := intArg(p.Args, "photoId")
	if !ok {
		return nil, nil
	}

	photo, err := r.photos.FindVisible(uint(photoID), callerID(p.Context))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return photoToGraph(photo), nil
}
