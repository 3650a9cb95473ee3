package book

// Filter defines parameters for searching and paginating the catalog.
type Filter struct {
	// Search performs a case-insensitive substring match on title OR author.
	// nil or empty string means no text filter.
	Search *string

	// SortBy determines the sort column: "title" or "author".
	// Default: "title".
	SortBy string

	// SortOrder: "asc" or "desc". Default: "asc".
	SortOrder string

	// Page is the 1-based page number. Default: 1.
	Page int

	// Limit is the page size. Default: 10, max: 100.
	Limit int
}

const (
	defaultLimit = 10
	maxLimit     = 100

	sortByTitle  = "title"
	sortByAuthor = "author"
)

// normalize applies defaults and clamps values. Transport-level validation
// rejects unknown sort fields before the repo is reached; normalize is the
// safety net for internal callers.
func (f *Filter) normalize() {
	switch f.SortBy {
	case sortByTitle, sortByAuthor:
		// valid
	default:
		f.SortBy = sortByTitle
	}

	switch f.SortOrder {
	case "asc", "desc":
		// valid
	default:
		f.SortOrder = "asc"
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
}

// offset converts page/limit into a SQL offset.
func (f *Filter) offset() int {
	return (f.Page - 1) * f.Limit
}
