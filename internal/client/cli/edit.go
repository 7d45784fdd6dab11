package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/krktechnologyandservices/GBV/internal/client/editor"
	"github.com/krktechnologyandservices/GBV/internal/client/models"
	"github.com/krktechnologyandservices/GBV/internal/client/notify"
	"github.com/krktechnologyandservices/GBV/internal/filex"
)

var errNoRecordOpen = errors.New("no record open; use 'new' or 'edit <id>'")

func (a *App) currentEditor() (*editor.Editor, error) {
	if a.editor == nil {
		return nil, errNoRecordOpen
	}
	return a.editor, nil
}

// discardOK asks before dropping unsaved edits.
func (a *App) discardOK(question string) bool {
	if a.editor == nil || !a.editor.HasUnsavedChanges() {
		return true
	}
	return Confirm(a.in, question, a.out)
}

func (a *App) ConfirmExit(ctx context.Context) bool {
	return a.discardOK("You have unsaved changes. Exit anyway?")
}

// openEditor starts an editor session with a freshly loaded attribute
// catalog. A catalog failure leaves attribute rows unresolved but does not
// block editing.
func (a *App) openEditor(ctx context.Context) *editor.Editor {
	defs, err := a.records.AttributeCatalog(ctx)
	if err != nil {
		a.notifier.Notify(notify.Notification{Severity: notify.Error, Title: "Failed to load attributes", Message: "Please try again"})
		defs = nil
	}

	return editor.New(a.records, defs,
		editor.WithUploader(a.uploader),
		editor.WithNotifier(a.notifier),
		editor.WithLogger(a.log),
		editor.WithMetrics(a.metrics),
		editor.WithUploadConcurrency(a.config.UploadConcurrency),
	)
}

func (a *App) New(ctx context.Context) error {
	if !a.discardOK("You have unsaved changes. Discard them?") {
		return nil
	}
	a.editor = a.openEditor(ctx)
	return a.Show(ctx)
}

func (a *App) Edit(ctx context.Context, id string) error {
	recID, err := parseID(id)
	if err != nil {
		return err
	}
	if !a.discardOK("You have unsaved changes. Discard them?") {
		return nil
	}

	rec, err := a.records.Get(ctx, recID)
	if err != nil {
		a.notifier.Notify(notify.Notification{Severity: notify.Error, Title: "Failed to load", Message: "Could not load record data"})
		return err
	}

	ed := a.openEditor(ctx)
	ed.Load(rec)
	a.editor = ed

	a.notifier.Notify(notify.Notification{Severity: notify.Success, Title: "Record loaded", Message: "Record data loaded successfully"})
	return a.Show(ctx)
}

func (a *App) Set(ctx context.Context, field, value string) error {
	ed, err := a.currentEditor()
	if err != nil {
		return err
	}
	return ed.SetField(field, value)
}

func parseRow(collection, index string) (editor.CollectionID, int, error) {
	c, err := editor.ParseCollectionID(collection)
	if err != nil {
		return "", 0, err
	}
	i, err := strconv.Atoi(index)
	if err != nil {
		return "", 0, fmt.Errorf("row index %q: %w", index, err)
	}
	return c, i, nil
}

func (a *App) AddRow(ctx context.Context, collection string) error {
	ed, err := a.currentEditor()
	if err != nil {
		return err
	}
	c, err := editor.ParseCollectionID(collection)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Added %s row %d", c, ed.Add(c)))
	return nil
}

func (a *App) RemoveRow(ctx context.Context, collection, index string) error {
	ed, err := a.currentEditor()
	if err != nil {
		return err
	}
	c, i, err := parseRow(collection, index)
	if err != nil {
		return err
	}
	if !ed.RemoveAt(c, i) {
		printlnFn(fmt.Sprintf("Row %d of %s was not removed; at least one row must remain", i, c))
	}
	return nil
}

func (a *App) SetRow(ctx context.Context, collection, index, field, value string) error {
	ed, err := a.currentEditor()
	if err != nil {
		return err
	}
	c, i, err := parseRow(collection, index)
	if err != nil {
		return err
	}
	return ed.SetRowField(c, i, field, value)
}

func (a *App) SelectAttribute(ctx context.Context, index, attributeID string) error {
	ed, err := a.currentEditor()
	if err != nil {
		return err
	}
	i, err := strconv.Atoi(index)
	if err != nil {
		return fmt.Errorf("row index %q: %w", index, err)
	}
	id, err := strconv.ParseInt(attributeID, 10, 64)
	if err != nil {
		return fmt.Errorf("attribute id %q: %w", attributeID, err)
	}
	if err := ed.SelectAttribute(i, id); err != nil {
		return err
	}

	b, _ := ed.Binding(i)
	line := fmt.Sprintf("Attribute %d: %q (%s)", i, b.Name, b.ValueType)
	if len(b.AllowedValues) > 0 {
		line += " one of " + strings.Join(b.AllowedValues, ", ")
	}
	printlnFn(line)
	return nil
}

func (a *App) Attach(ctx context.Context, index, path string) error {
	ed, err := a.currentEditor()
	if err != nil {
		return err
	}
	i, err := strconv.Atoi(index)
	if err != nil {
		return fmt.Errorf("row index %q: %w", index, err)
	}

	f, err := filex.ReadLocalFile(path)
	if err != nil {
		return err
	}

	// Rejected files are reported as notifications.
	err = ed.AttachFile(i, &models.Attachment{Name: f.Name, ContentType: f.ContentType, Data: f.Data})
	if errors.Is(err, editor.ErrIndexOutOfRange) {
		return err
	}
	return nil
}

func (a *App) Step(ctx context.Context, arg string) error {
	ed, err := a.currentEditor()
	if err != nil {
		return err
	}

	w := ed.Wizard()
	switch arg {
	case "next":
		w.Next()
	case "prev":
		w.Prev()
	default:
		n, err := strconv.Atoi(arg)
		if err != nil || !w.GoTo(n) {
			return fmt.Errorf("step must be next, prev or 1-%d", editor.TotalSteps)
		}
	}

	printlnFn(fmt.Sprintf("Step %d of %d: %s", w.Step(), editor.TotalSteps, w.Section()))
	return nil
}

// Save submits the open record. On success the editor is closed and the
// listing reloaded.
func (a *App) Save(ctx context.Context) error {
	ed, err := a.currentEditor()
	if err != nil {
		return err
	}

	res, err := ed.Submit(ctx)
	var verr *editor.ValidationError
	if errors.As(err, &verr) {
		for _, fe := range ed.FieldErrors() {
			printlnFn(fmt.Sprintf("  %s: %s", fe.Field, fe.Message))
		}
		return nil
	}
	if err != nil {
		return err
	}

	for _, f := range res.UploadFailures {
		printlnFn("  not uploaded:", f.Error())
	}

	a.editor = nil
	return a.List(ctx)
}

func (a *App) Show(ctx context.Context) error {
	ed, err := a.currentEditor()
	if err != nil {
		return err
	}

	w := ed.Wizard()
	rec := ed.Record()

	title := "New record"
	if !rec.IsNew() {
		title = fmt.Sprintf("Record %d", rec.ID)
	}
	printlnFn(fmt.Sprintf("%s, step %d of %d (%s), %d%% complete, unsaved changes: %v",
		title, w.Step(), editor.TotalSteps, w.Section(), ed.CompletionPercentage(), ed.HasUnsavedChanges()))

	done := make([]string, 0, editor.TotalSteps)
	for i, ok := range w.CompletedSections() {
		if ok {
			done = append(done, editor.Section(i+1).String())
		}
	}
	if len(done) > 0 {
		printlnFn("Completed: " + strings.Join(done, ", "))
	}

	switch w.Section() {
	case editor.SectionBasics:
		printlnFn(fmt.Sprintf("  code=%q firstName=%q middleName=%q lastName=%q", rec.Code, rec.FirstName, rec.MiddleName, rec.LastName))
		printlnFn(fmt.Sprintf("  joinedOn=%q nationalId=%q email=%q active=%v", rec.JoinedOn, rec.NationalID, rec.Email, rec.Active))
	case editor.SectionAddresses:
		for i, ad := range rec.Addresses {
			printlnFn(fmt.Sprintf("  [%d] line1=%q line2=%q line3=%q city=%q pincode=%q mobile=%q",
				i, ad.Line1, ad.Line2, ad.Line3, ad.City, ad.Pincode, ad.Mobile))
		}
	case editor.SectionBankDetails:
		for i, b := range rec.BankAccounts {
			printlnFn(fmt.Sprintf("  [%d] bankName=%q branchName=%q accountNo=%q routingCode=%q",
				i, b.BankName, b.BranchName, b.AccountNo, b.RoutingCode))
		}
	case editor.SectionAttributes:
		for i, at := range rec.Attributes {
			printlnFn(fmt.Sprintf("  [%d] attributeId=%d name=%q type=%s value=%q", i, at.AttributeID, at.Name, at.ValueType, at.Value))
		}
		for _, d := range ed.Catalog().Definitions() {
			printlnFn(fmt.Sprintf("  catalog %d: %s (%s)", d.ID, d.Name, d.ValueType))
		}
	case editor.SectionCertificates:
		for i, c := range rec.Certificates {
			file := c.FilePath
			if c.File != nil {
				file = c.File.Name + " (pending upload)"
			}
			printlnFn(fmt.Sprintf("  [%d] name=%q issuer=%q issueDate=%q verified=%v file=%q",
				i, c.Name, c.Issuer, c.IssueDate, c.Verified, file))
		}
	}

	for _, fe := range ed.FieldErrors() {
		printlnFn(fmt.Sprintf("  ! %s: %s", fe.Field, fe.Message))
	}
	return nil
}
