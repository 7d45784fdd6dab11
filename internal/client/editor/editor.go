// Package editor holds the in-memory edit state of one record: its scalar
// fields, the four sub-collections, the wizard position and the submission
// pipeline that turns the edit state into a create or update call.
package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/krktechnologyandservices/GBV/internal/client/metrics"
	"github.com/krktechnologyandservices/GBV/internal/client/models"
	"github.com/krktechnologyandservices/GBV/internal/client/notify"
	"github.com/krktechnologyandservices/GBV/internal/client/uploads"
	"github.com/krktechnologyandservices/GBV/internal/logging"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrUnknownField    = errors.New("unknown field")
)

const defaultUploadConcurrency = 4

// FieldError is a validation failure the host should render next to a
// field.
type FieldError struct {
	Field   string
	Rule    Rule
	Message string
}

type Editor struct {
	dispatcher        Dispatcher
	uploader          uploads.Uploader
	notifier          notify.Notifier
	log               logging.Logger
	metrics           *metrics.Metrics
	uploadConcurrency int

	catalog *Catalog
	wizard  *Wizard

	// base holds the identifier and scalar fields; its collections are
	// always nil.
	base         models.Record
	addresses    *Collection[models.Address]
	bankAccounts *Collection[models.BankAccount]
	attributes   *Collection[models.AttributeAssignment]
	certificates *Collection[models.Certificate]

	touched    map[string]bool
	allTouched bool
	onMutation []func()
	busy       atomic.Bool
}

type Option func(*Editor)

func WithUploader(u uploads.Uploader) Option {
	return func(e *Editor) {
		e.uploader = u
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(e *Editor) {
		e.notifier = n
	}
}

func WithLogger(l logging.Logger) Option {
	return func(e *Editor) {
		e.log = l
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Editor) {
		e.metrics = m
	}
}

// WithUploadConcurrency bounds the number of uploads in flight during a
// submission.
func WithUploadConcurrency(n int) Option {
	return func(e *Editor) {
		if n > 0 {
			e.uploadConcurrency = n
		}
	}
}

// New returns an editor for a new record. defs is the attribute catalog,
// loaded once by the caller.
func New(dispatcher Dispatcher, defs []models.AttributeDefinition, opts ...Option) *Editor {
	e := &Editor{
		dispatcher:        dispatcher,
		notifier:          notify.Discard,
		log:               logging.Nop(),
		uploadConcurrency: defaultUploadConcurrency,
		catalog:           NewCatalog(defs),
		wizard:            NewWizard(),
		addresses:         NewCollection(func() models.Address { return models.Address{} }),
		bankAccounts:      NewCollection(func() models.BankAccount { return models.BankAccount{} }),
		attributes: NewCollection(func() models.AttributeAssignment {
			return models.AttributeAssignment{ValueType: models.ValueText}
		}),
		certificates: NewCollection(func() models.Certificate { return models.Certificate{} }),
		touched:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.OnMutation(e.wizard.markDirty)
	e.Reset()

	return e
}

// OnMutation registers fn to run after every field or collection change.
func (e *Editor) OnMutation(fn func()) {
	e.onMutation = append(e.onMutation, fn)
}

func (e *Editor) mutated() {
	for _, fn := range e.onMutation {
		fn()
	}
}

// Reset discards the edit state and starts a new record.
func (e *Editor) Reset() {
	e.Load(nil)
}

// Load replaces the edit state with rec. A nil rec starts a new, active
// record. Loading is not a mutation.
func (e *Editor) Load(rec *models.Record) {
	if rec == nil {
		rec = &models.Record{Active: true}
	}

	e.base = *rec
	e.base.JoinedOn = dateOnly(rec.JoinedOn)
	e.base.Addresses = nil
	e.base.BankAccounts = nil
	e.base.Attributes = nil
	e.base.Certificates = nil

	e.addresses.ReplaceAll(rec.Addresses)
	e.bankAccounts.ReplaceAll(rec.BankAccounts)
	e.attributes.ReplaceAll(rec.Attributes)
	certs := make([]models.Certificate, len(rec.Certificates))
	for i, c := range rec.Certificates {
		c.IssueDate = dateOnly(c.IssueDate)
		certs[i] = c
	}
	e.certificates.ReplaceAll(certs)

	e.wizard.reset()
	e.touched = make(map[string]bool)
	e.allTouched = false
}

// dateOnly trims the time part the backend appends to stored dates,
// e.g. "2024-01-15T00:00:00" becomes "2024-01-15".
func dateOnly(s string) string {
	date, _, _ := strings.Cut(s, "T")
	return date
}

func (e *Editor) Wizard() *Wizard {
	return e.wizard
}

func (e *Editor) Catalog() *Catalog {
	return e.catalog
}

// ID is zero while the record has not been created.
func (e *Editor) ID() int64 {
	return e.base.ID
}

func (e *Editor) Busy() bool {
	return e.busy.Load()
}

func (e *Editor) HasUnsavedChanges() bool {
	return e.wizard.HasUnsavedChanges()
}

// Len returns the number of rows in collection c.
func (e *Editor) Len(c CollectionID) int {
	switch c {
	case Addresses:
		return e.addresses.Len()
	case BankAccounts:
		return e.bankAccounts.Len()
	case Attributes:
		return e.attributes.Len()
	case Certificates:
		return e.certificates.Len()
	default:
		return 0
	}
}

// Add appends a default row to c and returns its index, or -1 for an
// unknown collection.
func (e *Editor) Add(c CollectionID) int {
	idx := -1
	switch c {
	case Addresses:
		idx = e.addresses.Add()
	case BankAccounts:
		idx = e.bankAccounts.Add()
	case Attributes:
		idx = e.attributes.Add()
	case Certificates:
		idx = e.certificates.Add()
	}
	if idx >= 0 {
		e.mutated()
	}
	return idx
}

// RemoveAt deletes row index of c. The last remaining row is never removed.
func (e *Editor) RemoveAt(c CollectionID, index int) bool {
	var removed bool
	switch c {
	case Addresses:
		removed = e.addresses.RemoveAt(index)
	case BankAccounts:
		removed = e.bankAccounts.RemoveAt(index)
	case Attributes:
		removed = e.attributes.RemoveAt(index)
	case Certificates:
		removed = e.certificates.RemoveAt(index)
	}
	if removed {
		e.mutated()
	}
	return removed
}

// SetField assigns one scalar field.
func (e *Editor) SetField(field, value string) error {
	switch field {
	case FieldCode:
		e.base.Code = value
	case FieldFirstName:
		e.base.FirstName = value
	case FieldMiddleName:
		e.base.MiddleName = value
	case FieldLastName:
		e.base.LastName = value
	case FieldJoinedOn:
		e.base.JoinedOn = value
	case FieldNationalID:
		e.base.NationalID = value
	case FieldEmail:
		e.base.Email = value
	case FieldActive:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		e.base.Active = b
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	e.touched[field] = true
	e.mutated()
	return nil
}

// SetRowField assigns one field of row index in collection c. Attribute
// identifiers go through SelectAttribute and certificate files through
// AttachFile.
func (e *Editor) SetRowField(c CollectionID, index int, field, value string) error {
	if c == Attributes && field == "attributeId" {
		id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", RowField(c, index, field), err)
		}
		return e.SelectAttribute(index, id)
	}

	var fieldErr error
	var err error
	switch c {
	case Addresses:
		err = e.addresses.Update(index, func(a *models.Address) {
			fieldErr = setAddressField(a, field, value)
		})
	case BankAccounts:
		err = e.bankAccounts.Update(index, func(b *models.BankAccount) {
			fieldErr = setBankField(b, field, value)
		})
	case Attributes:
		if field != "value" {
			return fmt.Errorf("%w: %s", ErrUnknownField, RowField(c, index, field))
		}
		err = e.attributes.Update(index, func(a *models.AttributeAssignment) {
			a.Value = value
		})
	case Certificates:
		err = e.certificates.Update(index, func(cert *models.Certificate) {
			fieldErr = setCertificateField(cert, field, value)
		})
	default:
		return fmt.Errorf("unknown collection %q", c)
	}
	if err == nil {
		err = fieldErr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", RowField(c, index, field), err)
	}

	e.touched[RowField(c, index, field)] = true
	e.mutated()
	return nil
}

func setAddressField(a *models.Address, field, value string) error {
	switch field {
	case "line1":
		a.Line1 = value
	case "line2":
		a.Line2 = value
	case "line3":
		a.Line3 = value
	case "city":
		a.City = value
	case "pincode":
		a.Pincode = value
	case "mobile":
		a.Mobile = value
	default:
		return ErrUnknownField
	}
	return nil
}

func setBankField(b *models.BankAccount, field, value string) error {
	switch field {
	case "bankName":
		b.BankName = value
	case "branchName":
		b.BranchName = value
	case "accountNo":
		b.AccountNo = value
	case "routingCode":
		b.RoutingCode = value
	default:
		return ErrUnknownField
	}
	return nil
}

func setCertificateField(c *models.Certificate, field, value string) error {
	switch field {
	case "name":
		c.Name = value
	case "issuer":
		c.Issuer = value
	case "issueDate":
		c.IssueDate = value
	case "verified":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		c.Verified = v
	default:
		return ErrUnknownField
	}
	return nil
}

// SelectAttribute binds attribute row index to catalog entry id. The row
// takes the entry's name and value type and its value is cleared.
func (e *Editor) SelectAttribute(index int, id int64) error {
	b := e.catalog.Resolve(id)
	err := e.attributes.Update(index, func(a *models.AttributeAssignment) {
		a.AttributeID = id
		a.Name = b.Name
		a.ValueType = b.ValueType
		a.Value = ""
	})
	if err != nil {
		return err
	}

	e.touched[RowField(Attributes, index, "attributeId")] = true
	e.mutated()
	return nil
}

// Binding returns the resolved catalog metadata of attribute row index.
func (e *Editor) Binding(index int) (Binding, bool) {
	a, ok := e.attributes.At(index)
	if !ok {
		return Binding{}, false
	}
	return e.catalog.Resolve(a.AttributeID), true
}

// AttachFile stages a file on certificate row index for upload on the next
// submission. Rejected files leave the row unchanged.
func (e *Editor) AttachFile(index int, a *models.Attachment) error {
	if _, ok := e.certificates.At(index); !ok {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, e.certificates.Len())
	}

	if err := uploads.CheckAttachment(a); err != nil {
		title := "Invalid file"
		switch {
		case errors.Is(err, uploads.ErrTooLarge):
			title = "File too large"
		case errors.Is(err, uploads.ErrUnsupportedType):
			title = "Invalid file type"
		}
		e.notifier.Notify(notify.Notification{Severity: notify.Warning, Title: title, Message: err.Error()})
		return err
	}

	_ = e.certificates.Update(index, func(c *models.Certificate) {
		c.File = a
	})
	e.touched[RowField(Certificates, index, "file")] = true
	e.mutated()

	e.notifier.Notify(notify.Notification{
		Severity: notify.Success,
		Title:    "File selected",
		Message:  a.Name + " ready for upload",
	})
	return nil
}

// Record assembles the current edit state. The returned value shares no
// slices with the editor.
func (e *Editor) Record() models.Record {
	rec := e.base
	rec.Addresses = e.addresses.Items()
	rec.BankAccounts = e.bankAccounts.Items()
	rec.Attributes = e.attributes.Items()
	rec.Certificates = e.certificates.Items()
	return rec
}

// Violations validates the current edit state.
func (e *Editor) Violations() []Violation {
	rec := e.Record()
	return Validate(&rec, e.catalog)
}

// Touch marks field as visited by the user.
func (e *Editor) Touch(field string) {
	e.touched[field] = true
}

func (e *Editor) Touched(field string) bool {
	return e.allTouched || e.touched[field]
}

func (e *Editor) MarkAllTouched() {
	e.allTouched = true
}

// FieldErrors returns the violations on touched fields.
func (e *Editor) FieldErrors() []FieldError {
	var out []FieldError
	for _, v := range e.Violations() {
		if !e.Touched(v.Field) {
			continue
		}
		out = append(out, FieldError{Field: v.Field, Rule: v.Rule, Message: v.Message()})
	}
	return out
}

// RowFields lists the editable field names of collection c.
func RowFields(c CollectionID) []string {
	return append([]string(nil), rowFields[c]...)
}
