package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/krktechnologyandservices/GBV/internal/client/models"
	"github.com/krktechnologyandservices/GBV/internal/client/notify"
	"github.com/krktechnologyandservices/GBV/internal/client/uploads"
	"github.com/krktechnologyandservices/GBV/internal/common"
	"golang.org/x/sync/errgroup"
)

var errNoUploader = errors.New("no uploader configured")

// Dispatcher persists an assembled record.
type Dispatcher interface {
	Create(ctx context.Context, rec *models.Record) (*models.Record, error)
	Update(ctx context.Context, id int64, rec *models.Record) (*models.Record, error)
}

// SubmissionError wraps a failed create or update. The edit state is left
// as it was so the user can retry.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit record: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Result describes a successful submission.
type Result struct {
	Record         *models.Record
	Created        bool
	Payload        models.Record
	UploadFailures []*uploads.UploadError
}

// Submit validates the edit state, uploads pending certificate files,
// drops sparse rows and creates or updates the record.
//
// A failed upload does not stop the submission; the certificate is sent
// without a stored path and the failure is reported in Result.
func (e *Editor) Submit(ctx context.Context) (*Result, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, common.ErrBusy
	}
	defer e.busy.Store(false)

	start := time.Now()
	rec := e.Record()

	if violations := Validate(&rec, e.catalog); len(violations) > 0 {
		e.MarkAllTouched()
		e.metrics.Submission("invalid", start)
		e.notifier.Notify(notify.Notification{
			Severity: notify.Warning,
			Title:    "Validation Error",
			Message:  "Please fill all required fields correctly",
		})
		return nil, &ValidationError{Violations: violations}
	}

	paths, failures := e.uploadCertificates(ctx, rec.Certificates)
	for i := range rec.Certificates {
		if paths[i] != "" {
			rec.Certificates[i].FilePath = paths[i]
		}
		rec.Certificates[i].File = nil
	}

	payload := FilterSparse(rec)
	created := rec.IsNew()

	var (
		saved *models.Record
		err   error
	)
	if created {
		saved, err = e.dispatcher.Create(ctx, &payload)
	} else {
		saved, err = e.dispatcher.Update(ctx, rec.ID, &payload)
	}
	if err != nil {
		e.log.Error(ctx, "save record", "id", rec.ID, "err", err)
		e.metrics.Submission("failed", start)
		e.notifier.Notify(notify.Notification{
			Severity: notify.Error,
			Title:    "Save Failed",
			Message:  "Could not save record data",
		})
		return nil, &SubmissionError{Err: err}
	}

	e.applySaved(saved, paths)
	e.metrics.Submission("ok", start)

	title, msg := "Updated", "Record updated successfully"
	if created {
		title, msg = "Created", "Record created successfully"
	}
	e.notifier.Notify(notify.Notification{Severity: notify.Success, Title: title, Message: msg})

	return &Result{Record: saved, Created: created, Payload: payload, UploadFailures: failures}, nil
}

// uploadCertificates uploads every staged file. paths[i] is empty when
// certificate i had no file or its upload failed.
func (e *Editor) uploadCertificates(ctx context.Context, certs []models.Certificate) ([]string, []*uploads.UploadError) {
	paths := make([]string, len(certs))
	errs := make([]error, len(certs))

	var g errgroup.Group
	g.SetLimit(e.uploadConcurrency)

	for i, cert := range certs {
		if cert.File == nil {
			continue
		}
		g.Go(func() error {
			if e.uploader == nil {
				errs[i] = errNoUploader
				return nil
			}
			p, err := e.uploader.Upload(ctx, cert.File)
			if err != nil {
				errs[i] = err
				return nil
			}
			paths[i] = p
			return nil
		})
	}
	_ = g.Wait()

	var failures []*uploads.UploadError
	for i, err := range errs {
		if err == nil {
			if certs[i].File != nil {
				e.metrics.Upload(true)
			}
			continue
		}
		ue := &uploads.UploadError{Index: i, Name: certs[i].File.Name, Err: err}
		e.log.Warn(ctx, "certificate upload failed", "index", i, "file", ue.Name, "err", err)
		e.metrics.Upload(false)
		failures = append(failures, ue)
	}

	return paths, failures
}

// applySaved records the outcome of a successful submission in the edit
// state.
func (e *Editor) applySaved(saved *models.Record, paths []string) {
	if saved != nil && e.base.ID == 0 {
		e.base.ID = saved.ID
	}
	for i, p := range paths {
		if p == "" {
			continue
		}
		_ = e.certificates.Update(i, func(c *models.Certificate) {
			c.FilePath = p
			c.File = nil
		})
	}
	e.wizard.clearUnsaved()
}
