package book

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func expectationsWereMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

var bookCols = []string{"id", "title", "author", "cover_image", "created_at", "updated_at"}

func TestRepo_GetByID(t *testing.T) {
	now := time.Now()
	cover := "https://example.com/dune.jpg"

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
		check   func(t *testing.T, got *domain.Book)
	}{
		{
			name: "found",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(bookCols).
					AddRow(int64(1), "Dune", "Frank Herbert", &cover, now, now)
				mock.ExpectQuery(`SELECT`).
					WithArgs(int64(1)).
					WillReturnRows(rows)
			},
			check: func(t *testing.T, got *domain.Book) {
				if got.ID != 1 {
					t.Errorf("GetByID() id = %d, want 1", got.ID)
				}
				if got.Title != "Dune" {
					t.Errorf("GetByID() title = %q, want %q", got.Title, "Dune")
				}
				if got.CoverImage == nil || *got.CoverImage != cover {
					t.Errorf("GetByID() cover_image = %v, want %q", got.CoverImage, cover)
				}
			},
		},
		{
			name: "not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT`).
					WithArgs(int64(1)).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			repo := New(mock)
			tt.setup(mock)

			got, err := repo.GetByID(context.Background(), 1)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetByID() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetByID() unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, got)
			}

			expectationsWereMet(t, mock)
		})
	}
}

func TestRepo_List(t *testing.T) {
	now := time.Now()

	t.Run("returns matching page", func(t *testing.T) {
		mock := newMock(t)
		repo := New(mock)

		rows := pgxmock.NewRows(bookCols).
			AddRow(int64(1), "Dune", "Frank Herbert", (*string)(nil), now, now).
			AddRow(int64(2), "Dune Messiah", "Frank Herbert", (*string)(nil), now, now)
		mock.ExpectQuery(`SELECT .* FROM books`).WillReturnRows(rows)

		got, err := repo.List(context.Background(), Filter{})
		if err != nil {
			t.Fatalf("List() unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("List() returned %d books, want 2", len(got))
		}

		expectationsWereMet(t, mock)
	})

	t.Run("empty result is a slice, not nil", func(t *testing.T) {
		mock := newMock(t)
		repo := New(mock)

		mock.ExpectQuery(`SELECT .* FROM books`).WillReturnRows(pgxmock.NewRows(bookCols))

		got, err := repo.List(context.Background(), Filter{})
		if err != nil {
			t.Fatalf("List() unexpected error: %v", err)
		}
		if got == nil {
			t.Error("List() returned nil, want empty slice")
		}
		if len(got) != 0 {
			t.Errorf("List() returned %d books, want 0", len(got))
		}
	})

	t.Run("search filters on title and author", func(t *testing.T) {
		mock := newMock(t)
		repo := New(mock)

		search := "dune"
		mock.ExpectQuery(`SELECT .* FROM books WHERE \(title ILIKE .* OR author ILIKE .*\)`).
			WithArgs("%dune%", "%dune%").
			WillReturnRows(pgxmock.NewRows(bookCols))

		if _, err := repo.List(context.Background(), Filter{Search: &search}); err != nil {
			t.Fatalf("List() unexpected error: %v", err)
		}

		expectationsWereMet(t, mock)
	})
}

func TestRepo_Create(t *testing.T) {
	now := time.Now()

	mock := newMock(t)
	repo := New(mock)

	rows := pgxmock.NewRows(bookCols).
		AddRow(int64(10), "Dune", "Frank Herbert", (*string)(nil), now, now)
	mock.ExpectQuery(`INSERT INTO books`).
		WithArgs("Dune", "Frank Herbert", (*string)(nil)).
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), &domain.Book{Title: "Dune", Author: "Frank Herbert"})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if got.ID != 10 {
		t.Errorf("Create() id = %d, want 10", got.ID)
	}

	expectationsWereMet(t, mock)
}

func TestRepo_Update(t *testing.T) {
	now := time.Now()
	title := "New Title"

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		mock := newMock(t)
		repo := New(mock)

		rows := pgxmock.NewRows(bookCols).
			AddRow(int64(1), "New Title", "Frank Herbert", (*string)(nil), now, now)
		mock.ExpectQuery(`UPDATE books`).
			WithArgs(&title, (*string)(nil), (*string)(nil), int64(1)).
			WillReturnRows(rows)

		got, err := repo.Update(context.Background(), 1, domain.BookUpdateParams{Title: &title})
		if err != nil {
			t.Fatalf("Update() unexpected error: %v", err)
		}
		if got.Title != "New Title" {
			t.Errorf("Update() title = %q, want %q", got.Title, "New Title")
		}
		if got.Author != "Frank Herbert" {
			t.Errorf("Update() author = %q, want %q", got.Author, "Frank Herbert")
		}

		expectationsWereMet(t, mock)
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMock(t)
		repo := New(mock)

		mock.ExpectQuery(`UPDATE books`).
			WithArgs(&title, (*string)(nil), (*string)(nil), int64(404)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.Update(context.Background(), 404, domain.BookUpdateParams{Title: &title})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Update() error = %v, want ErrNotFound", err)
		}
	})
}

func TestRepo_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		mock := newMock(t)
		repo := New(mock)

		mock.ExpectExec(`DELETE FROM books`).
			WithArgs(int64(1)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		if err := repo.Delete(context.Background(), 1); err != nil {
			t.Fatalf("Delete() unexpected error: %v", err)
		}

		expectationsWereMet(t, mock)
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMock(t)
		repo := New(mock)

		mock.ExpectExec(`DELETE FROM books`).
			WithArgs(int64(404)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(context.Background(), 404)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Delete() error = %v, want ErrNotFound", err)
		}
	})
}
