package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/krktechnologyandservices/GBV/internal/client/config"
	"github.com/krktechnologyandservices/GBV/internal/client/editor"
	"github.com/krktechnologyandservices/GBV/internal/client/listing"
	"github.com/krktechnologyandservices/GBV/internal/client/models"
	"github.com/krktechnologyandservices/GBV/internal/common"
	"github.com/krktechnologyandservices/GBV/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecords is an in-memory RecordService.
type fakeRecords struct {
	mu sync.Mutex

	records map[int64]models.Record
	nextID  int64
	defs    []models.AttributeDefinition

	offline bool
	loadErr error

	created  []models.Record
	updated  []int64
	deleted  []int64
	statuses map[int64]bool
}

func newFakeRecords(recs ...models.Record) *fakeRecords {
	f := &fakeRecords{records: map[int64]models.Record{}, statuses: map[int64]bool{}}
	for _, r := range recs {
		f.records[r.ID] = r
		f.nextID = max(f.nextID, r.ID)
	}
	return f
}

func (f *fakeRecords) LoadAll(ctx context.Context) ([]models.ListingEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]models.ListingEntry, 0, len(f.records))
	for id := int64(1); id <= f.nextID; id++ {
		if r, ok := f.records[id]; ok {
			out = append(out, r.ToListingEntry())
		}
	}
	return out, nil
}

func (f *fakeRecords) Refresh(ctx context.Context) ([]models.ListingEntry, error) {
	return f.LoadAll(ctx)
}

func (f *fakeRecords) Get(ctx context.Context, id int64) (*models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &r, nil
}

func (f *fakeRecords) Create(ctx context.Context, rec *models.Record) (*models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	saved := *rec
	saved.ID = f.nextID
	f.records[saved.ID] = saved
	f.created = append(f.created, saved)
	return &saved, nil
}

func (f *fakeRecords) Update(ctx context.Context, id int64, rec *models.Record) (*models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	saved := *rec
	saved.ID = id
	f.records[id] = saved
	f.updated = append(f.updated, id)
	return &saved, nil
}

func (f *fakeRecords) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRecords) UpdateStatus(ctx context.Context, id int64, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.records[id]
	r.Active = active
	f.records[id] = r
	f.statuses[id] = active
	return nil
}

func (f *fakeRecords) AttributeCatalog(ctx context.Context) ([]models.AttributeDefinition, error) {
	return f.defs, nil
}

func (f *fakeRecords) Ping(ctx context.Context) error { return nil }

func (f *fakeRecords) SetOffline(offline bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = offline
}

func (f *fakeRecords) Offline() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offline
}

func (f *fakeRecords) Close() error { return nil }

type fakeUploader struct{}

func (fakeUploader) Upload(ctx context.Context, a *models.Attachment) (string, error) {
	return "certificates/" + a.Name, nil
}

func newTestApp(t *testing.T, fr *fakeRecords, input string) (*App, *[]string) {
	t.Helper()
	out := captureOutput(t)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	a := newApp(cfg, fr, fakeUploader{}, logging.Nop())
	a.in = scannerOf(input)
	a.out = io.Discard
	return a, out
}

func hasLine(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func person(id int64, first string, active bool) models.Record {
	return models.Record{
		ID: id, Code: "E" + first, FirstName: first, LastName: "Smith",
		JoinedOn: "2020-01-02", Email: strings.ToLower(first) + "@example.com", Active: active,
	}
}

func TestSetMode_PropagatesOfflineFlag(t *testing.T) {
	fr := newFakeRecords()
	a, _ := newTestApp(t, fr, "")

	a.setMode(ModeOffline)
	assert.Equal(t, ModeOffline, a.mode())
	assert.True(t, fr.Offline())

	a.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, a.mode())
	assert.False(t, fr.Offline())
}

func TestList_PrintsFirstPage(t *testing.T) {
	var recs []models.Record
	for i := range 20 {
		recs = append(recs, person(int64(i+1), "P"+string(rune('a'+i)), i%4 != 0))
	}
	a, out := newTestApp(t, newFakeRecords(recs...), "")

	require.NoError(t, a.List(context.Background()))

	assert.True(t, hasLine(*out, "20 records (15 active, 5 inactive)"), *out)
	assert.True(t, hasLine(*out, "Page 1 of 2: [1] 2"), *out)
	assert.Equal(t, 15, len(a.browser.Result().Entries))

	require.NoError(t, a.NextPage(context.Background()))
	assert.Equal(t, 2, a.browser.Result().Page)
	assert.Error(t, a.Page(context.Background(), "3"))
}

func TestList_FailureNotifies(t *testing.T) {
	fr := newFakeRecords()
	fr.loadErr = errors.New("down")
	a, out := newTestApp(t, fr, "")

	require.Error(t, a.List(context.Background()))
	assert.Contains(t, *out, "[error] Failed to load records: Please check your connection")
}

func TestSearchAndStatus(t *testing.T) {
	a, _ := newTestApp(t, newFakeRecords(
		person(1, "Jane", true), person(2, "John", false), person(3, "Mary", true)), "")
	ctx := context.Background()
	require.NoError(t, a.List(ctx))

	require.NoError(t, a.Search(ctx, "jo"))
	assert.Equal(t, 1, a.browser.Result().Matched)

	require.NoError(t, a.Search(ctx, ""))
	require.NoError(t, a.Status(ctx, "active"))
	assert.Equal(t, 2, a.browser.Result().Matched)

	assert.Error(t, a.Status(ctx, "sleepy"))
	assert.Error(t, a.Sort(ctx, "salary"))
}

func TestResetFilters(t *testing.T) {
	a, out := newTestApp(t, newFakeRecords(
		person(1, "Jane", true), person(2, "John", false), person(3, "Mary", true)), "")
	ctx := context.Background()
	require.NoError(t, a.List(ctx))

	require.NoError(t, a.Search(ctx, "jo"))
	require.NoError(t, a.Status(ctx, "inactive"))
	require.NoError(t, a.Sort(ctx, "code"))
	assert.Equal(t, 1, a.browser.Result().Matched)

	require.NoError(t, a.ResetFilters(ctx))
	q := a.browser.Query()
	assert.Empty(t, q.Search)
	assert.Equal(t, listing.StatusAll, q.Status)
	assert.Equal(t, listing.SortName, q.SortBy)
	assert.Equal(t, 3, a.browser.Result().Matched)
	assert.Contains(t, *out, "[info] Filters reset: Showing all records")
}

func TestDelete_AsksForConfirmation(t *testing.T) {
	fr := newFakeRecords(person(1, "Jane", true), person(2, "John", true))
	a, out := newTestApp(t, fr, "n\ny\n")
	ctx := context.Background()

	require.NoError(t, a.Delete(ctx, "1"))
	assert.Empty(t, fr.deleted)

	require.NoError(t, a.Delete(ctx, "1"))
	assert.Equal(t, []int64{1}, fr.deleted)
	assert.True(t, hasLine(*out, "[success] Record deleted"))
	assert.Len(t, a.browser.Entries(), 1)

	assert.Error(t, a.Delete(ctx, "abc"))
}

func TestToggle_FlipsStatus(t *testing.T) {
	fr := newFakeRecords(person(1, "Jane", true))
	a, out := newTestApp(t, fr, "")
	ctx := context.Background()
	require.NoError(t, a.List(ctx))

	require.NoError(t, a.Toggle(ctx, "1"))
	assert.Equal(t, map[int64]bool{1: false}, fr.statuses)
	assert.True(t, hasLine(*out, "[warning] Status updated: Jane is now inactive"))
	assert.False(t, a.browser.Entries()[0].Active)

	assert.Error(t, a.Toggle(ctx, "9"))
}

func TestEditorCommandsNeedOpenRecord(t *testing.T) {
	a, _ := newTestApp(t, newFakeRecords(), "")
	ctx := context.Background()

	assert.ErrorIs(t, a.Set(ctx, "code", "E1"), errNoRecordOpen)
	assert.ErrorIs(t, a.Save(ctx), errNoRecordOpen)
	assert.ErrorIs(t, a.Step(ctx, "next"), errNoRecordOpen)
}

func TestNewSetSave_CreatesRecord(t *testing.T) {
	fr := newFakeRecords()
	a, out := newTestApp(t, fr, "")
	ctx := context.Background()

	require.NoError(t, a.New(ctx))
	require.NotNil(t, a.editor)

	require.NoError(t, a.Save(ctx))
	assert.Empty(t, fr.created)
	assert.Contains(t, *out, "  code: This field is required")
	assert.Contains(t, *out, "[warning] Validation Error: Please fill all required fields correctly")

	require.NoError(t, a.Set(ctx, "code", "E100"))
	require.NoError(t, a.Set(ctx, "firstName", "Jane"))
	require.NoError(t, a.Set(ctx, "lastName", "Doe"))
	require.NoError(t, a.Set(ctx, "joinedOn", "2024-03-01"))
	require.NoError(t, a.SetRow(ctx, "addresses", "0", "city", "Pune"))
	assert.Error(t, a.SetRow(ctx, "addresses", "3", "city", "Pune"))
	assert.Contains(t, a.getStatus(), "*")

	require.NoError(t, a.Save(ctx))
	require.Len(t, fr.created, 1)
	assert.Equal(t, "Jane", fr.created[0].FirstName)
	require.Len(t, fr.created[0].Addresses, 1)
	assert.Empty(t, fr.created[0].BankAccounts)
	assert.Nil(t, a.editor)
	assert.True(t, hasLine(*out, "[success] Created: Record created successfully"))
	assert.Len(t, a.browser.Entries(), 1)
}

func TestEdit_LoadsAndUpdates(t *testing.T) {
	fr := newFakeRecords(person(7, "Jane", true))
	a, out := newTestApp(t, fr, "")
	ctx := context.Background()

	require.Error(t, a.Edit(ctx, "8"))
	assert.True(t, hasLine(*out, "[error] Failed to load: Could not load record data"))

	require.NoError(t, a.Edit(ctx, "7"))
	require.NotNil(t, a.editor)
	assert.Equal(t, int64(7), a.editor.ID())
	assert.False(t, a.editor.HasUnsavedChanges())

	require.NoError(t, a.Set(ctx, "lastName", "Jones"))
	require.NoError(t, a.Save(ctx))
	assert.Equal(t, []int64{7}, fr.updated)
	assert.Equal(t, "Jones", fr.records[7].LastName)
}

func TestStepAndRows(t *testing.T) {
	fr := newFakeRecords()
	fr.defs = []models.AttributeDefinition{
		{ID: 3, Name: "Blood group", ValueType: models.ValueChoice,
			AllowedValues: []models.AttributeValue{{ID: 1, Value: "A+"}, {ID: 2, Value: "O-"}}},
	}
	a, out := newTestApp(t, fr, "")
	ctx := context.Background()
	require.NoError(t, a.New(ctx))

	require.NoError(t, a.Step(ctx, "next"))
	assert.Equal(t, 2, a.editor.Wizard().Step())
	require.NoError(t, a.Step(ctx, "4"))
	assert.Equal(t, editor.SectionAttributes, a.editor.Wizard().Section())
	assert.Error(t, a.Step(ctx, "9"))

	require.NoError(t, a.SelectAttribute(ctx, "0", "3"))
	assert.True(t, hasLine(*out, `Attribute 0: "Blood group" (choice) one of A+, O-`), *out)

	require.NoError(t, a.AddRow(ctx, "bank"))
	assert.Equal(t, 2, a.editor.Len(editor.BankAccounts))
	require.NoError(t, a.RemoveRow(ctx, "bank", "1"))
	require.NoError(t, a.RemoveRow(ctx, "bank", "0"))
	assert.Equal(t, 1, a.editor.Len(editor.BankAccounts))

	require.NoError(t, a.Show(ctx))
	assert.True(t, hasLine(*out, "catalog 3: Blood group"), *out)
}

func TestAttach_StagesFile(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "degree.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.7\n"), 0o600))
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain text"), 0o600))

	a, out := newTestApp(t, newFakeRecords(), "")
	ctx := context.Background()
	require.NoError(t, a.New(ctx))

	require.NoError(t, a.Attach(ctx, "0", txt))
	assert.True(t, hasLine(*out, "[warning] Invalid file type"))
	assert.Nil(t, a.editor.Record().Certificates[0].File)

	require.NoError(t, a.Attach(ctx, "0", pdf))
	file := a.editor.Record().Certificates[0].File
	require.NotNil(t, file)
	assert.Equal(t, "degree.pdf", file.Name)
	assert.Equal(t, "application/pdf", file.ContentType)

	assert.ErrorIs(t, a.Attach(ctx, "5", pdf), editor.ErrIndexOutOfRange)
	assert.Error(t, a.Attach(ctx, "0", filepath.Join(dir, "missing.pdf")))
}

func TestConfirmExit(t *testing.T) {
	a, _ := newTestApp(t, newFakeRecords(), "n\ny\n")
	ctx := context.Background()

	assert.True(t, a.ConfirmExit(ctx))

	require.NoError(t, a.New(ctx))
	assert.True(t, a.ConfirmExit(ctx), "no unsaved changes yet")

	require.NoError(t, a.Set(ctx, "code", "E1"))
	assert.False(t, a.ConfirmExit(ctx))
	assert.True(t, a.ConfirmExit(ctx))
}

func TestGetStatus(t *testing.T) {
	a, _ := newTestApp(t, newFakeRecords(), "")

	assert.Equal(t, "", a.getStatus())
	a.setMode(ModeOnline)
	assert.Equal(t, "(online)", a.getStatus())

	require.NoError(t, a.New(context.Background()))
	assert.Equal(t, "(online edit step 1/5)", a.getStatus())
}
