package listing

import "github.com/krktechnologyandservices/GBV/internal/client/models"

// Browser keeps the query parameters and the full entry set of one listing
// view and recomputes the visible page on every change.
type Browser struct {
	entries []models.ListingEntry
	query   Query
	result  Result
}

func NewBrowser(pageSize int) *Browser {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	b := &Browser{query: Query{Page: 1, PageSize: pageSize}}
	b.recompute()
	return b
}

func (b *Browser) recompute() {
	b.result = Run(b.entries, b.query)
	b.query.Page = b.result.Page
}

func (b *Browser) Query() Query {
	return b.query
}

func (b *Browser) Result() Result {
	return b.result
}

func (b *Browser) PageNumbers() []int {
	return PageNumbers(b.result.Page, b.result.TotalPages)
}

// SetEntries replaces the underlying set and returns to page 1.
func (b *Browser) SetEntries(entries []models.ListingEntry) {
	b.entries = append([]models.ListingEntry(nil), entries...)
	b.query.Page = 1
	b.recompute()
}

func (b *Browser) Entries() []models.ListingEntry {
	return append([]models.ListingEntry(nil), b.entries...)
}

func (b *Browser) SetSearch(term string) {
	b.query.Search = term
	b.recompute()
}

func (b *Browser) SetStatus(s StatusFilter) {
	b.query.Status = s
	b.recompute()
}

// SetSort sorts by column ascending, or flips the direction when column is
// already the sort column.
func (b *Browser) SetSort(column SortColumn) {
	if b.query.SortBy == column {
		b.query.Descending = !b.query.Descending
	} else {
		b.query.SortBy = column
		b.query.Descending = false
	}
	b.recompute()
}

// SetPage moves to page if it exists and reports whether it did.
func (b *Browser) SetPage(page int) bool {
	if page < 1 || page > b.result.TotalPages {
		return false
	}
	b.query.Page = page
	b.recompute()
	return true
}

func (b *Browser) NextPage() bool {
	return b.SetPage(b.result.Page + 1)
}

func (b *Browser) PrevPage() bool {
	return b.SetPage(b.result.Page - 1)
}

// SetPageSize changes the page size and returns to page 1.
func (b *Browser) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	b.query.PageSize = size
	b.query.Page = 1
	b.recompute()
}

// ResetFilters clears the search and status filter and restores the default
// sort.
func (b *Browser) ResetFilters() {
	b.query.Search = ""
	b.query.Status = StatusAll
	b.query.SortBy = SortName
	b.query.Descending = false
	b.recompute()
}
