package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	fields := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		fields[i] = fe.Field
	}
	return fields
}

func TestCreateBookInput_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      CreateBookInput
		wantFields []string
	}{
		{
			name:  "valid",
			input: CreateBookInput{Title: "Dune", Author: "Frank Herbert"},
		},
		{
			name:       "missing title",
			input:      CreateBookInput{Author: "Frank Herbert"},
			wantFields: []string{"title"},
		},
		{
			name:       "whitespace only author",
			input:      CreateBookInput{Title: "Dune", Author: "   "},
			wantFields: []string{"author"},
		},
		{
			name:       "both missing",
			input:      CreateBookInput{},
			wantFields: []string{"title", "author"},
		},
		{
			name:       "title too long",
			input:      CreateBookInput{Title: strings.Repeat("a", 256), Author: "x"},
			wantFields: []string{"title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.input.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantFields, fieldsOf(t, err))
		})
	}
}

func TestUpdateBookInput_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      UpdateBookInput
		wantFields []string
	}{
		{
			name:  "title only",
			input: UpdateBookInput{Title: ptr("New Title")},
		},
		{
			name:  "cover image only",
			input: UpdateBookInput{CoverImage: ptr("https://example.com/cover.jpg")},
		},
		{
			name:       "no fields",
			input:      UpdateBookInput{},
			wantFields: []string{"input"},
		},
		{
			name:       "empty title provided",
			input:      UpdateBookInput{Title: ptr("  ")},
			wantFields: []string{"title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.input.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantFields, fieldsOf(t, err))
		})
	}
}

func TestListBooksInput_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      ListBooksInput
		wantFields []string
	}{
		{
			name:  "empty input uses defaults",
			input: ListBooksInput{},
		},
		{
			name: "all params valid",
			input: ListBooksInput{
				Search:    ptr("dune"),
				Page:      ptr(1),
				Limit:     ptr(10),
				SortBy:    ptr("author"),
				SortOrder: ptr("desc"),
			},
		},
		{
			name:       "zero page",
			input:      ListBooksInput{Page: ptr(0)},
			wantFields: []string{"page"},
		},
		{
			name:       "negative limit",
			input:      ListBooksInput{Limit: ptr(-1)},
			wantFields: []string{"limit"},
		},
		{
			name:       "unknown sort column",
			input:      ListBooksInput{SortBy: ptr("price")},
			wantFields: []string{"sortBy"},
		},
		{
			name:       "unknown sort order",
			input:      ListBooksInput{SortOrder: ptr("sideways")},
			wantFields: []string{"sortOrder"},
		},
		{
			name: "all invalid reported together",
			input: ListBooksInput{
				Page:      ptr(-1),
				Limit:     ptr(0),
				SortBy:    ptr("isbn"),
				SortOrder: ptr("up"),
			},
			wantFields: []string{"page", "limit", "sortBy", "sortOrder"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.input.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantFields, fieldsOf(t, err))
		})
	}
}
