// Package graphql exposes the catalog over GraphQL. All resolvers go through
// the catalog service, so GraphQL mutations trigger the same fan-out as the
// REST write endpoints.
package graphql

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
	"github.com/heartmarshall/bookshelf-backend/internal/service/catalog"
)

// catalogService defines the minimal interface needed by the resolvers.
type catalogService interface {
	Get(ctx context.Context, id int64) (*domain.Book, error)
	List(ctx context.Context, input catalog.ListBooksInput) ([]domain.Book, error)
	Create(ctx context.Context, input catalog.CreateBookInput) (*domain.Book, error)
	Update(ctx context.Context, id int64, input catalog.UpdateBookInput) (*domain.Book, error)
	Delete(ctx context.Context, id int64) error
}

// gqlBook is the GraphQL representation of a catalog record.
type gqlBook struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	CoverImage *string `json:"cover_image"`
}

func toGQLBook(b domain.Book) gqlBook {
	return gqlBook{ID: b.ID, Title: b.Title, Author: b.Author, CoverImage: b.CoverImage}
}

// NewSchema builds the executable schema over the catalog service.
func NewSchema(svc catalogService) (graphql.Schema, error) {
	bookType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Book",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"title":       &graphql.Field{Type: graphql.String},
			"author":      &graphql.Field{Type: graphql.String},
			"cover_image": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"book": &graphql.Field{
				Type: bookType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					book, err := svc.Get(p.Context, int64(p.Args["id"].(int)))
					if err != nil {
						return nil, wrapError(err)
					}
					return toGQLBook(*book), nil
				},
			},
			"books": &graphql.Field{
				Type: graphql.NewList(bookType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					books, err := svc.List(p.Context, catalog.ListBooksInput{})
					if err != nil {
						return nil, wrapError(err)
					}
					out := make([]gqlBook, len(books))
					for i, b := range books {
						out[i] = toGQLBook(b)
					}
					return out, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootMutation",
		Fields: graphql.Fields{
			"createBook": &graphql.Field{
				Type: bookType,
				Args: graphql.FieldConfigArgument{
					"title":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"author":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"cover_image": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					book, err := svc.Create(p.Context, catalog.CreateBookInput{
						Title:      p.Args["title"].(string),
						Author:     p.Args["author"].(string),
						CoverImage: optionalString(p.Args, "cover_image"),
					})
					if err != nil {
						return nil, wrapError(err)
					}
					return toGQLBook(*book), nil
				},
			},
			"updateBook": &graphql.Field{
				Type: bookType,
				Args: graphql.FieldConfigArgument{
					"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"title":       &graphql.ArgumentConfig{Type: graphql.String},
					"author":      &graphql.ArgumentConfig{Type: graphql.String},
					"cover_image": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					book, err := svc.Update(p.Context, int64(p.Args["id"].(int)), catalog.UpdateBookInput{
						Title:      optionalString(p.Args, "title"),
						Author:     optionalString(p.Args, "author"),
						CoverImage: optionalString(p.Args, "cover_image"),
					})
					if err != nil {
						return nil, wrapError(err)
					}
					return toGQLBook(*book), nil
				},
			},
			"deleteBook": &graphql.Field{
				Type: graphql.Int,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := int64(p.Args["id"].(int))
					if err := svc.Delete(p.Context, id); err != nil {
						return nil, wrapError(err)
					}
					return int(id), nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("build schema: %w", err)
	}

	return schema, nil
}

func optionalString(args map[string]interface{}, key string) *string {
	if v, ok := args[key].(string); ok {
		return &v
	}
	return nil
}
