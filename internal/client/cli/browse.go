package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/krktechnologyandservices/GBV/internal/client/editor"
	"github.com/krktechnologyandservices/GBV/internal/client/listing"
	"github.com/krktechnologyandservices/GBV/internal/client/models"
	"github.com/krktechnologyandservices/GBV/internal/client/notify"
)

var errBadNumber = errors.New("expected a positive number")

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q: %w", s, errBadNumber)
	}
	return n, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("record id %q: %w", s, errBadNumber)
	}
	return id, nil
}

func (a *App) prompt() string {
	if !interactive() {
		return ""
	}
	return fmt.Sprintf("gbv %s> ", a.getStatus())
}

func (a *App) getStatus() string {
	var parts []string
	if m := a.mode(); m != "" {
		parts = append(parts, string(m))
	}
	if a.editor != nil {
		s := fmt.Sprintf("edit step %d/%d", a.editor.Wizard().Step(), editor.TotalSteps)
		if a.editor.HasUnsavedChanges() {
			s += "*"
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// loadListing fetches the listing entries into the browser.
func (a *App) loadListing(ctx context.Context, load func(context.Context) ([]models.ListingEntry, error)) error {
	entries, err := load(ctx)
	if err != nil {
		a.notifier.Notify(notify.Notification{
			Severity: notify.Error,
			Title:    "Failed to load records",
			Message:  "Please check your connection",
		})
		return err
	}
	a.browser.SetEntries(entries)
	return nil
}

func (a *App) List(ctx context.Context) error {
	if err := a.loadListing(ctx, a.records.LoadAll); err != nil {
		return err
	}
	a.printPage()
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	a.notifier.Notify(notify.Notification{Severity: notify.Info, Title: "Refreshing...", Message: "Fetching latest data"})
	if err := a.loadListing(ctx, a.records.Refresh); err != nil {
		return err
	}
	a.printPage()
	return nil
}

// ResetFilters clears search and status and restores the default sort.
func (a *App) ResetFilters(ctx context.Context) error {
	a.browser.ResetFilters()
	a.notifier.Notify(notify.Notification{Severity: notify.Info, Title: "Filters reset", Message: "Showing all records"})
	a.printPage()
	return nil
}

func (a *App) Search(ctx context.Context, term string) error {
	a.browser.SetSearch(term)
	a.printPage()
	return nil
}

func (a *App) Status(ctx context.Context, filter string) error {
	s, err := listing.ParseStatusFilter(filter)
	if err != nil {
		return err
	}
	a.browser.SetStatus(s)
	a.printPage()
	return nil
}

func (a *App) Sort(ctx context.Context, column string) error {
	c, err := listing.ParseSortColumn(column)
	if err != nil {
		return err
	}
	a.browser.SetSort(c)
	a.printPage()
	return nil
}

func (a *App) Page(ctx context.Context, n string) error {
	page, err := parsePositive(n)
	if err != nil {
		return err
	}
	if !a.browser.SetPage(page) {
		return fmt.Errorf("page %d does not exist", page)
	}
	a.printPage()
	return nil
}

func (a *App) NextPage(ctx context.Context) error {
	if a.browser.NextPage() {
		a.printPage()
	}
	return nil
}

func (a *App) PrevPage(ctx context.Context) error {
	if a.browser.PrevPage() {
		a.printPage()
	}
	return nil
}

func (a *App) PageSize(ctx context.Context, n string) error {
	size, err := parsePositive(n)
	if err != nil {
		return err
	}
	a.browser.SetPageSize(size)
	a.printPage()
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	recID, err := parseID(id)
	if err != nil {
		return err
	}
	if !Confirm(a.in, fmt.Sprintf("Delete record %d?", recID), a.out) {
		return nil
	}

	if err := a.records.Delete(ctx, recID); err != nil {
		a.notifier.Notify(notify.Notification{Severity: notify.Error, Title: "Delete failed", Message: "Please try again"})
		return err
	}
	a.notifier.Notify(notify.Notification{
		Severity: notify.Success,
		Title:    "Record deleted",
		Message:  fmt.Sprintf("Record %d has been removed", recID),
	})

	return a.List(ctx)
}

func (a *App) Toggle(ctx context.Context, id string) error {
	recID, err := parseID(id)
	if err != nil {
		return err
	}

	var current *models.ListingEntry
	for _, e := range a.browser.Entries() {
		if e.ID == recID {
			current = &e
			break
		}
	}
	if current == nil {
		return fmt.Errorf("record %d is not in the listing", recID)
	}

	active := !current.Active
	if err := a.records.UpdateStatus(ctx, recID, active); err != nil {
		a.notifier.Notify(notify.Notification{Severity: notify.Error, Title: "Status update failed", Message: "Please try again"})
		return err
	}

	state := "inactive"
	if active {
		state = "active"
	}
	a.notifier.Notify(notify.Notification{
		Severity: notify.Warning,
		Title:    "Status updated",
		Message:  fmt.Sprintf("%s is now %s", current.FirstName, state),
	})

	return a.List(ctx)
}

func (a *App) printPage() {
	res := a.browser.Result()
	q := a.browser.Query()

	printlnFn(fmt.Sprintf("%d records (%d active, %d inactive); %d match search %q, status %s, sort %s %s",
		res.Total, res.Active, res.Inactive, res.Matched, q.Search, q.Status, q.SortBy, direction(q.Descending)))

	for _, e := range res.Entries {
		state := "inactive"
		if e.Active {
			state = "active"
		}
		printlnFn(fmt.Sprintf("%6d  %-12s  %-30s  %-32s  %s", e.ID, e.Code, e.FullName(), e.Email, state))
	}

	if res.TotalPages == 0 {
		printlnFn("No records found")
		return
	}

	pages := make([]string, 0, maxPageLinks)
	for _, p := range a.browser.PageNumbers() {
		if p == res.Page {
			pages = append(pages, fmt.Sprintf("[%d]", p))
			continue
		}
		pages = append(pages, strconv.Itoa(p))
	}
	printlnFn(fmt.Sprintf("Page %d of %d: %s", res.Page, res.TotalPages, strings.Join(pages, " ")))
}

const maxPageLinks = 5

func direction(desc bool) string {
	if desc {
		return "desc"
	}
	return "asc"
}
