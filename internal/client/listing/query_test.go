package listing

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/krktechnologyandservices/GBV/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id int64, code, first, last string, active bool) models.ListingEntry {
	return models.ListingEntry{
		ID:        id,
		Code:      code,
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s.%s@example.com", first, last),
		Active:    active,
	}
}

// fortyRecords has 3 active and 2 inactive entries matching "doe" and 35
// others, 20 of them active.
func fortyRecords() []models.ListingEntry {
	out := []models.ListingEntry{
		entry(1, "E001", "zoe", "Doe", true),
		entry(2, "E002", "Mary", "Doe", false),
		entry(3, "E003", "Adam", "Doe", true),
		entry(4, "E004", "Kim", "Doerr", false),
		entry(5, "E005", "John", "Doe", true),
	}
	for i := 6; i <= 40; i++ {
		out = append(out, entry(int64(i), fmt.Sprintf("E%03d", i), "Person", fmt.Sprintf("Number%d", i), i%7 != 0 && i <= 28))
	}
	return out
}

func codes(entries []models.ListingEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Code)
	}
	return out
}

func TestRun_SearchActiveSortedByName(t *testing.T) {
	all := fortyRecords()

	res := Run(all, Query{Search: "doe", Status: StatusActive, SortBy: SortName, Page: 1, PageSize: 15})

	want := []models.ListingEntry{all[2], all[4], all[0]}
	if diff := cmp.Diff(want, res.Entries); diff != "" {
		t.Errorf("visible page mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, res.Matched)
	assert.Equal(t, 40, res.Total)
	active, inactive := Counts(all)
	assert.Equal(t, active, res.Active)
	assert.Equal(t, inactive, res.Inactive)
	assert.Equal(t, 40, res.Active+res.Inactive)
	assert.Equal(t, 1, res.TotalPages)
}

func TestSearch(t *testing.T) {
	all := []models.ListingEntry{
		entry(1, "ABC-1", "Jane", "Roe", true),
		entry(2, "XYZ-2", "John", "Smith", true),
		{ID: 3, Code: "Q3", FirstName: "Ann", LastName: "Lee", Email: "boss@corp.io"},
	}

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"ABC-1", "XYZ-2", "Q3"}},
		{"abc", []string{"ABC-1"}},
		{"JANE ROE", []string{"ABC-1"}},
		{"e r", []string{"ABC-1"}},
		{"CORP.io", []string{"Q3"}},
		{"nobody", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(Search(all, tt.term)))
		})
	}
}

func TestFilterStatus(t *testing.T) {
	all := []models.ListingEntry{
		entry(1, "A", "a", "a", true),
		entry(2, "B", "b", "b", false),
		entry(3, "C", "c", "c", true),
	}

	assert.Equal(t, []string{"A", "B", "C"}, codes(FilterStatus(all, StatusAll)))
	assert.Equal(t, []string{"A", "C"}, codes(FilterStatus(all, StatusActive)))
	assert.Equal(t, []string{"B"}, codes(FilterStatus(all, StatusInactive)))
}

func TestSort_ByStatusIsStable(t *testing.T) {
	all := []models.ListingEntry{
		entry(1, "A", "a", "a", false),
		entry(2, "B", "b", "b", true),
		entry(3, "C", "c", "c", false),
		entry(4, "D", "d", "d", true),
	}

	assert.Equal(t, []string{"B", "D", "A", "C"}, codes(Sort(all, SortStatus, false)))
	assert.Equal(t, []string{"A", "C", "B", "D"}, codes(Sort(all, SortStatus, true)))
	assert.Equal(t, []string{"A", "B", "C", "D"}, codes(all), "input untouched")
}

func TestSort_Idempotent(t *testing.T) {
	all := []models.ListingEntry{
		entry(1, "X", "Sam", "Lee", true),
		entry(2, "Y", "sam", "lee", false),
		entry(3, "Z", "Al", "Bo", true),
		entry(4, "W", "Sam", "Lee", true),
	}

	for _, col := range []SortColumn{SortName, SortCode, SortStatus} {
		for _, desc := range []bool{false, true} {
			once := Sort(all, col, desc)
			twice := Sort(once, col, desc)
			if diff := cmp.Diff(once, twice); diff != "" {
				t.Errorf("%s desc=%v not stable (-once +twice):\n%s", col, desc, diff)
			}
		}
	}

	assert.Equal(t, []string{"Z", "X", "Y", "W"}, codes(Sort(all, SortName, false)))
	assert.Equal(t, []string{"X", "Y", "W", "Z"}, codes(Sort(all, SortName, true)))
}

func TestPaginate(t *testing.T) {
	all := fortyRecords()

	tests := []struct {
		name      string
		page      int
		size      int
		wantPage  int
		wantTotal int
		wantLen   int
	}{
		{"first", 1, 15, 1, 3, 15},
		{"last partial", 3, 15, 3, 3, 10},
		{"past the end", 9, 15, 3, 3, 10},
		{"below one", -2, 15, 1, 3, 15},
		{"exact fit", 2, 20, 2, 2, 20},
		{"default size", 1, 0, 1, 3, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, page, total := Paginate(all, tt.page, tt.size)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantTotal, total)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	got, page, total := Paginate(nil, 4, 15)

	assert.Empty(t, got)
	assert.Equal(t, 1, page)
	assert.Equal(t, 0, total)
}

func TestRun_NoMatches(t *testing.T) {
	res := Run(fortyRecords(), Query{Search: "nobody", Page: 2, PageSize: 15})

	want := Result{Entries: nil, Page: 1, TotalPages: 0, Matched: 0, Total: 40, Active: res.Active, Inactive: res.Inactive}
	if diff := cmp.Diff(want, res, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 15))
	assert.Equal(t, 1, TotalPages(1, 15))
	assert.Equal(t, 1, TotalPages(15, 15))
	assert.Equal(t, 2, TotalPages(16, 15))
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 0, nil},
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{5, 10, []int{3, 4, 5, 6, 7}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{9, 10, []int{6, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d of %d", tt.current, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, PageNumbers(tt.current, tt.total))
		})
	}
}

func TestParse(t *testing.T) {
	s, err := ParseStatusFilter("Active")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, s)
	_, err = ParseStatusFilter("gone")
	assert.Error(t, err)

	c, err := ParseSortColumn("code")
	require.NoError(t, err)
	assert.Equal(t, SortCode, c)
	_, err = ParseSortColumn("salary")
	assert.Error(t, err)
}
