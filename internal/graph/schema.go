package graph

import (
	"github.com/graphql-go/graphql"
)

// NewSchema builds the executable schema bound to a resolver.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"generalAlbum": &graphql.Field{
				Type: generalAlbumType,
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.GeneralAlbum,
			},
			"albums": &graphql.Field{
				Type: graphql.NewList(albumType),
				Args: graphql.FieldConfigArgument{
					"type": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.Albums,
			},
			"album": &graphql.Field{
				Type: albumType,
				Args: graphql.FieldConfigArgument{
					"albumId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.Album,
			},
			"photos": &graphql.Field{
				Type: graphql.NewList(photoType),
				Args: graphql.FieldConfigArgument{
					"type":    &graphql.ArgumentConfig{Type: graphql.String},
					"limit":   &graphql.ArgumentConfig{Type: graphql.Int},
					"albumId": &graphql.ArgumentConfig{Type: graphql.Int},
					"general": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.Photos,
			},
			"photo": &graphql.Field{
				Type: photoType,
				Args: graphql.FieldConfigArgument{
					"photoId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.Photo,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createAlbum": &graphql.Field{
				Type: albumType,
				Args: graphql.FieldConfigArgument{
					"title":  &graphql.ArgumentConfig{Type: graphql.String},
					"public": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: r.CreateAlbum,
			},
			"changeAlbum": &graphql.Field{
				Type: successType,
				Args: graphql.FieldConfigArgument{
					"albumId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"title":   &graphql.ArgumentConfig{Type: graphql.String},
					"public":  &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: r.ChangeAlbum,
			},
			"removeAlbum": &graphql.Field{
				Type: successType,
				Args: graphql.FieldConfigArgument{
					"albumId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.RemoveAlbum,
			},
			"changePhoto": &graphql.Field{
				Type: successType,
				Args: graphql.FieldConfigArgument{
					"photoId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"title":   &graphql.ArgumentConfig{Type: graphql.String},
					"date":    &graphql.ArgumentConfig{Type: Milliseconds},
					"public":  &graphql.ArgumentConfig{Type: graphql.Boolean},
					"starred": &graphql.ArgumentConfig{Type: graphql.Boolean},
					"albumId": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.ChangePhoto,
			},
			"removePhoto": &graphql.Field{
				Type: successType,
				Args: graphql.FieldConfigArgument{
					"photoId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.RemovePhoto,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
