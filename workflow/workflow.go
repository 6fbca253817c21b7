package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/leasehub/hubspot-app-sheets/config"
	"github.com/leasehub/hubspot-app-sheets/hubspot"
	"github.com/leasehub/hubspot-app-sheets/sheet"
)

// CRM is the subset of the HubSpot API used by the workflows.
type CRM interface {
	Update(ctx context.Context, objectType, id string, properties map[string]string) error
	Associations(ctx context.Context, fromType, id, toType string) ([]string, error)
	BatchRead(ctx context.Context, objectType string, ids []string, properties ...string) (map[string]hubspot.Object, error)
}

var errFatal = errors.New("fatal error")

// Revision returns an identifier for the current version of the spreadsheet.
type Revision func(ctx context.Context) (string, error)

// Workflow holds everything a run depends on. Store, CRM and Config are required.
type Workflow struct {
	Store    sheet.Store
	CRM      CRM
	Config   *config.Config
	Log      *logrus.Entry
	Revision Revision
	DryRun   bool

	entry    *logrus.Entry
	revision string
}

func (w *Workflow) log() *logrus.Entry {
	if w.entry != nil {
		return w.entry
	}

	if w.Log != nil {
		return w.Log
	}

	return logrus.NewEntry(logrus.StandardLogger())
}

// start validates the configuration, tags the log with a run id and reads the worksheet.
func (w *Workflow) start(ctx context.Context, name, worksheet string) (*sheet.Table, error) {
	if w.Store == nil || w.CRM == nil || w.Config == nil {
		return nil, fmt.Errorf("incomplete workflow configuration")
	}

	if err := w.Config.Validate(); err != nil {
		return nil, err
	}

	base := w.Log
	if base == nil {
		base = logrus.NewEntry(logrus.StandardLogger())
	}

	w.entry = base.WithFields(logrus.Fields{
		"workflow": name,
		"run":      uuid.NewString(),
	})

	w.revision = ""
	if w.Revision != nil {
		if revision, err := w.Revision(ctx); err != nil {
			w.log().Warnf("unable to retrieve spreadsheet revision (%v)", err)
		} else {
			w.revision = revision
		}
	}

	table, err := w.Store.Read(ctx, worksheet)
	if err != nil {
		return nil, err
	}

	w.log().Infof("read %v rows from worksheet '%v'", len(table.Rows), worksheet)

	return table, nil
}

// resolve maps the configured headers for the logical columns to column indices.
func (w *Workflow) resolve(table *sheet.Table, headers map[string]string, keys ...string) (map[string]int, error) {
	names := []string{}
	for _, key := range keys {
		h, err := config.Header(headers, key)
		if err != nil {
			return nil, err
		}
		names = append(names, h)
	}

	columns, err := sheet.Resolve(table.Header, names...)
	if err != nil {
		return nil, fmt.Errorf("worksheet '%v' cannot be processed (%w)", table.Name, err)
	}

	index := map[string]int{}
	for i, key := range keys {
		index[key] = columns[names[i]]
	}

	return index, nil
}

// write flushes the accumulated ranges in a single write, warning if someone else changed the
// spreadsheet since it was read.
func (w *Workflow) write(ctx context.Context, worksheet string, ranges []sheet.Range) error {
	if len(ranges) == 0 {
		return nil
	}

	if w.DryRun {
		w.log().Infof("dry run: skipping write of %v range(s) to worksheet '%v'", len(ranges), worksheet)
		return nil
	}

	if w.Revision != nil && w.revision != "" {
		if revision, err := w.Revision(ctx); err != nil {
			w.log().Warnf("unable to retrieve spreadsheet revision (%v)", err)
		} else if revision != w.revision {
			w.log().Warnf("worksheet '%v' was modified (revision %v, was %v) while it was being processed", worksheet, revision, w.revision)
		}
	}

	if err := w.Store.Write(ctx, worksheet, ranges); err != nil {
		return err
	}

	if w.Revision != nil {
		if revision, err := w.Revision(ctx); err == nil {
			w.revision = revision
		}
	}

	return nil
}

// guard runs a row, converting a panic into the fatal row status so that one bad row never
// aborts the run.
func (w *Workflow) guard(row int, f func() Result) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			w.log().WithField("row", row).Errorf("fatal error (%v)", r)
			result = Result{
				Row:    row,
				Status: fatal(),
				Errors: []string{fmt.Sprintf("%v", r)},
			}
		}
	}()

	return f()
}

func (w *Workflow) finish(summary *Summary) {
	w.log().Infof("completed - succeeded:%v  failed:%v  skipped:%v", summary.Succeeded, summary.Failed, summary.Skipped)
}

// reason converts a remote call error to its status text: the HTTP status code for API
// errors, 'exception' for everything else.
func reason(err error) string {
	var apierr *hubspot.APIError
	if errors.As(err, &apierr) {
		return fmt.Sprintf("%d", apierr.StatusCode)
	}

	return "exception"
}
