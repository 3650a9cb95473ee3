// Package book implements the catalog record repository using PostgreSQL.
package book

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/bookshelf-backend/internal/adapter/postgres"
	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

// Repo provides book persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new book repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// bookRow mirrors the books table for scanning.
type bookRow struct {
	ID         int64     `db:"id"`
	Title      string    `db:"title"`
	Author     string    `db:"author"`
	CoverImage *string   `db:"cover_image"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r bookRow) toDomain() domain.Book {
	return domain.Book{
		ID:         r.ID,
		Title:      r.Title,
		Author:     r.Author,
		CoverImage: r.CoverImage,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookColumns = []string{"id", "title", "author", "cover_image", "created_at", "updated_at"}

const (
	getByIDSQL = `SELECT id, title, author, cover_image, created_at, updated_at FROM books WHERE id = $1`

	listAllSQL = `SELECT id, title, author, cover_image, created_at, updated_at FROM books ORDER BY id`

	createSQL = `
INSERT INTO books (title, author, cover_image)
VALUES ($1, $2, $3)
RETURNING id, title, author, cover_image, created_at, updated_at`

	updateSQL = `
UPDATE books
SET title = COALESCE($1, title),
    author = COALESCE($2, author),
    cover_image = COALESCE($3, cover_image),
    updated_at = now()
WHERE id = $4
RETURNING id, title, author, cover_image, created_at, updated_at`

	deleteSQL = `DELETE FROM books WHERE id = $1`
)

// GetByID returns a book by primary key.
// Returns domain.ErrNotFound if the book does not exist.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	var row bookRow
	if err := pgxscan.Get(ctx, r.q, &row, getByIDSQL, id); err != nil {
		return nil, postgres.MapError(err, "book", id)
	}

	b := row.toDomain()
	return &b, nil
}

// List returns a page of books matching the filter.
// Returns an empty slice (not nil) when nothing matches.
func (r *Repo) List(ctx context.Context, f Filter) ([]domain.Book, error) {
	f.normalize()

	q := psql.Select(bookColumns...).
		From("books").
		OrderBy(fmt.Sprintf("%s %s", f.SortBy, strings.ToUpper(f.SortOrder))).
		Limit(uint64(f.Limit)).
		Offset(uint64(f.offset()))

	if f.Search != nil && *f.Search != "" {
		pattern := "%" + *f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"author": pattern},
		})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows := []bookRow{}
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	books := make([]domain.Book, len(rows))
	for i, row := range rows {
		books[i] = row.toDomain()
	}

	return books, nil
}

// ListAll returns every book ordered by id. Used by the report consumer to
// snapshot the catalog.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Book, error) {
	rows := []bookRow{}
	if err := pgxscan.Select(ctx, r.q, &rows, listAllSQL); err != nil {
		return nil, fmt.Errorf("list all books: %w", err)
	}

	books := make([]domain.Book, len(rows))
	for i, row := range rows {
		books[i] = row.toDomain()
	}

	return books, nil
}

// Create inserts a new book and returns the persisted record.
func (r *Repo) Create(ctx context.Context, b *domain.Book) (*domain.Book, error) {
	var row bookRow
	if err := pgxscan.Get(ctx, r.q, &row, createSQL, b.Title, b.Author, b.CoverImage); err != nil {
		return nil, postgres.MapError(err, "book", b.Title)
	}

	created := row.toDomain()
	return &created, nil
}

// Update applies a partial update: nil params keep the current column value.
// Returns domain.ErrNotFound if the book does not exist.
func (r *Repo) Update(ctx context.Context, id int64, params domain.BookUpdateParams) (*domain.Book, error) {
	var row bookRow
	if err := pgxscan.Get(ctx, r.q, &row, updateSQL, params.Title, params.Author, params.CoverImage, id); err != nil {
		return nil, postgres.MapError(err, "book", id)
	}

	updated := row.toDomain()
	return &updated, nil
}

// Delete removes a book by primary key.
// Returns domain.ErrNotFound if the book does not exist.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, deleteSQL, id)
	if err != nil {
		return postgres.MapError(err, "book", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("book %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
