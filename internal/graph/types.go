package graph

import (
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/mikann/photo-gallery/database/models"
	"github.com/mikann/photo-gallery/database/repo/albums"
)

// Photo is the API shape of a photo row.
type Photo struct {
	ID           int    `json:"id"`
	UUID         string `json:"uuid"`
	Title        string `json:"title"`
	Date         int64  `json:"date"`
	Uploaded     int64  `json:"uploaded"`
	OriginalName string `json:"originalName"`
	Mime         string `json:"mime"`
	Public       bool   `json:"public"`
	Starred      bool   `json:"starred"`
	Size         int64  `json:"size"`
	Resolution   string `json:"resolution"`
	AlbumID      *int   `json:"albumId"`
}

// Album is the API shape of an album row, annotated with a photo count
// and a preview of its newest photo ids.
type Album struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Public bool     `json:"public"`
	Count  int64    `json:"count"`
	Source []string `json:"source"`
}

// GeneralAlbum is the virtual grouping over a user's own photos.
type GeneralAlbum struct {
	AllCount      int64    `json:"allCount"`
	PublicCount   int64    `json:"publicCount"`
	StarredCount  int64    `json:"starredCount"`
	AllSource     []string `json:"allSource"`
	PublicSource  []string `json:"publicSource"`
	StarredSource []string `json:"starredSource"`
}

// Success is the boolean outcome of an ownership-scoped mutation.
type Success struct {
	Success bool `json:"success"`
}

func photoToGraph(m *models.Photo) *Photo {
	var albumID *int
	if m.AlbumID != nil {
		id := int(*m.AlbumID)
		albumID = &id
	}
	return &Photo{
		ID:           int(m.ID),
		UUID:         m.Identifier,
		Title:        m.Title,
		Date:         m.Date.UnixMilli(),
		Uploaded:     m.CreatedAt.UnixMilli(),
		OriginalName: m.OriginalName,
		Mime:         m.Mime,
		Public:       m.Public,
		Starred:      m.Starred,
		Size:         m.Size,
		Resolution:   m.Resolution,
		AlbumID:      albumID,
	}
}

func photosToGraph(list []*models.Photo) []*Photo {
	result := make([]*Photo, len(list))
	for i, m := range list {
		result[i] = photoToGraph(m)
	}
	return result
}

func albumToGraph(m *models.Album, count int64, source []string) *Album {
	if source == nil {
		source = []string{}
	}
	return &Album{
		ID:     int(m.ID),
		Title:  m.Title,
		Public: m.Public,
		Count:  count,
		Source: source,
	}
}

func previewsToGraph(previews []*albums.Preview) []*Album {
	result := make([]*Album, len(previews))
	for i, preview := range previews {
		result[i] = albumToGraph(preview.Album, preview.Count, preview.Source)
	}
	return result
}

func idsToStrings(ids []uint) []string {
	result := make([]string, len(ids))
	for i, id := range ids {
		result[i] = strconv.FormatUint(uint64(id), 10)
	}
	return result
}

var photoType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Photo",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"uuid":         &graphql.Field{Type: graphql.String},
		"title":        &graphql.Field{Type: graphql.String},
		"date":         &graphql.Field{Type: Milliseconds},
		"uploaded":     &graphql.Field{Type: Milliseconds},
		"originalName": &graphql.Field{Type: graphql.String},
		"mime":         &graphql.Field{Type: graphql.String},
		"public":       &graphql.Field{Type: graphql.Boolean},
		"starred":      &graphql.Field{Type: graphql.Boolean},
		"size":         &graphql.Field{Type: graphql.Int},
		"resolution":   &graphql.Field{Type: graphql.String},
		"albumId":      &graphql.Field{Type: graphql.Int},
	},
})

var albumType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Album",
	Fields: graphql.Fields{
		"id":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"title":  &graphql.Field{Type: graphql.String},
		"public": &graphql.Field{Type: graphql.Boolean},
		"count":  &graphql.Field{Type: graphql.Int},
		"source": &graphql.Field{Type: graphql.NewList(graphql.ID)},
	},
})

var generalAlbumType = graphql.NewObject(graphql.ObjectConfig{
	Name: "GeneralAlbum",
	Fields: graphql.Fields{
		"allCount":      &graphql.Field{Type: graphql.Int},
		"publicCount":   &graphql.Field{Type: graphql.Int},
		"starredCount":  &graphql.Field{Type: graphql.Int},
		"allSource":     &graphql.Field{Type: graphql.NewList(graphql.ID)},
		"publicSource":  &graphql.Field{Type: graphql.NewList(graphql.ID)},
		"starredSource": &graphql.Field{Type: graphql.NewList(graphql.ID)},
	},
})

var successType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Success",
	Fields: graphql.Fields{
		"success": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
	},
})
