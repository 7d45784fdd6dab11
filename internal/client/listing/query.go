// Package listing turns the full set of listing entries into the page a user
// sees: search, status filter, stable sort and pagination.
package listing

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/krktechnologyandservices/GBV/internal/client/models"
)

const DefaultPageSize = 15

// maxPageLinks is the widest run of page numbers offered for navigation.
const maxPageLinks = 5

type StatusFilter int

const (
	StatusAll StatusFilter = iota
	StatusActive
	StatusInactive
)

func (s StatusFilter) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	default:
		return "all"
	}
}

func ParseStatusFilter(s string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return StatusAll, nil
	case "active":
		return StatusActive, nil
	case "inactive":
		return StatusInactive, nil
	default:
		return StatusAll, fmt.Errorf("unknown status filter %q", s)
	}
}

type SortColumn int

const (
	SortName SortColumn = iota
	SortCode
	SortStatus
)

func (c SortColumn) String() string {
	switch c {
	case SortCode:
		return "code"
	case SortStatus:
		return "status"
	default:
		return "name"
	}
}

func ParseSortColumn(s string) (SortColumn, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "fullname":
		return SortName, nil
	case "code":
		return SortCode, nil
	case "status", "active":
		return SortStatus, nil
	default:
		return SortName, fmt.Errorf("unknown sort column %q", s)
	}
}

// Query holds every parameter of the pipeline.
type Query struct {
	Search     string
	Status     StatusFilter
	SortBy     SortColumn
	Descending bool
	Page       int
	PageSize   int
}

// Result is one visible page plus the aggregate counts. Active and Inactive
// count the unfiltered set.
type Result struct {
	Entries    []models.ListingEntry
	Page       int
	TotalPages int
	Matched    int
	Total      int
	Active     int
	Inactive   int
}

// Run applies search, status filter, sort and pagination to entries. The
// input is not modified.
func Run(entries []models.ListingEntry, q Query) Result {
	res := Result{Total: len(entries)}
	res.Active, res.Inactive = Counts(entries)

	matched := Search(entries, q.Search)
	matched = FilterStatus(matched, q.Status)
	matched = Sort(matched, q.SortBy, q.Descending)

	res.Matched = len(matched)
	res.Entries, res.Page, res.TotalPages = Paginate(matched, q.Page, q.PageSize)
	return res
}

// Counts returns the number of active and inactive entries.
func Counts(entries []models.ListingEntry) (active, inactive int) {
	for _, e := range entries {
		if e.Active {
			active++
		}
	}
	return active, len(entries) - active
}

// Search keeps the entries whose code, full name or email contain term,
// ignoring case. An empty term keeps everything.
func Search(entries []models.ListingEntry, term string) []models.ListingEntry {
	term = strings.ToLower(term)
	if term == "" {
		return slices.Clone(entries)
	}

	out := make([]models.ListingEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Code), term) ||
			strings.Contains(strings.ToLower(e.FullName()), term) ||
			strings.Contains(strings.ToLower(e.Email), term) {
			out = append(out, e)
		}
	}
	return out
}

func FilterStatus(entries []models.ListingEntry, status StatusFilter) []models.ListingEntry {
	if status == StatusAll {
		return slices.Clone(entries)
	}
	want := status == StatusActive

	out := make([]models.ListingEntry, 0, len(entries))
	for _, e := range entries {
		if e.Active == want {
			out = append(out, e)
		}
	}
	return out
}

// Sort returns a stably sorted copy. Names compare case-insensitively;
// active entries come first in ascending status order.
func Sort(entries []models.ListingEntry, by SortColumn, descending bool) []models.ListingEntry {
	out := slices.Clone(entries)

	var compare func(a, b models.ListingEntry) int
	switch by {
	case SortCode:
		compare = func(a, b models.ListingEntry) int {
			return strings.Compare(a.Code, b.Code)
		}
	case SortStatus:
		compare = func(a, b models.ListingEntry) int {
			return cmp.Compare(statusRank(a.Active), statusRank(b.Active))
		}
	default:
		compare = func(a, b models.ListingEntry) int {
			return strings.Compare(strings.ToLower(a.FullName()), strings.ToLower(b.FullName()))
		}
	}
	if descending {
		asc := compare
		compare = func(a, b models.ListingEntry) int { return asc(b, a) }
	}

	slices.SortStableFunc(out, compare)
	return out
}

func statusRank(active bool) int {
	if active {
		return 0
	}
	return 1
}

// TotalPages is ceil(n/size). It is 0 for an empty set.
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	return (n + size - 1) / size
}

// ClampPage keeps page within [1, total]. With no pages it is 1.
func ClampPage(page, total int) int {
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate returns the entries of page, with page clamped into range.
func Paginate(entries []models.ListingEntry, page, size int) ([]models.ListingEntry, int, int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := TotalPages(len(entries), size)
	page = ClampPage(page, total)

	start := min((page-1)*size, len(entries))
	end := min(start+size, len(entries))
	return slices.Clone(entries[start:end]), page, total
}

// PageNumbers returns at most five consecutive page numbers around current.
func PageNumbers(current, total int) []int {
	if total <= 0 {
		return nil
	}
	start := 1
	end := total
	if total > maxPageLinks {
		start = max(1, current-2)
		end = min(total, start+maxPageLinks-1)
		if end-start+1 < maxPageLinks {
			start = end - maxPageLinks + 1
		}
	}

	out := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		out = append(out, p)
	}
	return out
}
