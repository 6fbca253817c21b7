package workflow

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/leasehub/hubspot-app-sheets/config"
	"github.com/leasehub/hubspot-app-sheets/hubspot"
	"github.com/leasehub/hubspot-app-sheets/sheet"
)

type lookup struct {
	row     sheet.Row
	company string
}

type associations struct {
	devices []string
	err     error
}

// LookupDevices assigns to every row that has a company ID but no device ID the oldest device
// associated with the company that is not already assigned to another row. Rows are processed
// in batches to bound the number of device detail lookups, and each batch is written back
// before the next one starts.
func (w *Workflow) LookupDevices(ctx context.Context) (*Summary, error) {
	conf := w.Config.Devices
	summary := Summary{Workflow: "lookup-devices"}

	table, err := w.start(ctx, summary.Workflow, conf.Sheet)
	if err != nil {
		return nil, err
	}

	columns, err := w.resolve(table, conf.Headers, config.CompanyID, config.DeviceID)
	if err != nil {
		return nil, err
	}

	statusColumn, hasStatus := sheet.ResolveOptional(table.Header, conf.Headers[config.Status])

	// ... existing device IDs
	claims := Claims{}
	for _, row := range table.Rows {
		for _, id := range strings.Split(sheet.Text(row.Cell(columns[config.DeviceID])), ",") {
			if id = strings.TrimSpace(id); id != "" {
				claims.Add(id)
			}
		}
	}

	w.log().Infof("found %v device IDs already assigned", len(claims))

	// ... rows to process
	marker := w.Config.SuccessMarker
	pending := []lookup{}
	skipped := []sheet.Range{}

	for _, row := range table.Rows {
		if sheet.Text(row.Cell(columns[config.DeviceID])) != "" {
			continue
		}

		if hasStatus && sheet.Text(row.Cell(statusColumn)) == marker {
			summary.add(Result{Row: row.Number, Status: processed()})
			continue
		}

		company := sheet.Text(row.Cell(columns[config.CompanyID]))
		if company == "" {
			w.log().WithField("row", row.Number).Infof("no company ID, row skipped")

			result := Result{Row: row.Number, Status: noKey(conf.Headers[config.CompanyID])}
			if hasStatus {
				skipped = append(skipped, sheet.Cell(row.Number, statusColumn, result.Status.Text(marker, row.Cell(statusColumn))))
			}

			summary.add(result)
			continue
		}

		pending = append(pending, lookup{row: row, company: company})
	}

	if len(pending) == 0 {
		w.log().Infof("no rows to process - every company already has a device ID")
		if err := w.write(ctx, conf.Sheet, skipped); err != nil {
			return &summary, err
		}

		w.finish(&summary)

		return &summary, nil
	}

	w.log().Infof("found %v rows to process", len(pending))

	chunks := batches(pending, w.Config.BatchSize)
	pace := newPacer(w.Config.BatchPause)
	unassigned := []string{}

	for i, batch := range chunks {
		if err := pace.wait(ctx); err != nil {
			return &summary, err
		}

		w.log().Infof("processing batch %v/%v (%v companies)", i+1, len(chunks), len(batch))

		results := w.lookupBatch(ctx, batch, claims)
		ranges := []sheet.Range{}
		if i == 0 {
			ranges = append(ranges, skipped...)
		}

		for j, result := range results {
			row := batch[j].row.Number

			if result.Status.Kind == Success {
				ranges = append(ranges, sheet.Cell(row, columns[config.DeviceID], result.Value))
			} else if result.Status.Kind == SkippedNoData {
				unassigned = append(unassigned, batch[j].company)
			}

			if hasStatus {
				ranges = append(ranges, sheet.Cell(row, statusColumn, result.Status.Text(marker, batch[j].row.Cell(statusColumn))))
			}

			summary.add(result)
		}

		if err := w.write(ctx, conf.Sheet, ranges); err != nil {
			return &summary, err
		}
	}

	if len(unassigned) > 0 {
		w.log().Warnf("companies without an available device (%v): %v", len(unassigned), strings.Join(unassigned, ", "))
	}

	w.finish(&summary)

	return &summary, nil
}

func (w *Workflow) lookupBatch(ctx context.Context, batch []lookup, claims Claims) []Result {
	deviceType := w.Config.DeviceObjectType
	companyType := w.Config.CompanyObjectType

	// ... associations for every company in the batch
	list := make([]associations, len(batch))
	for i, item := range batch {
		list[i] = w.companyDevices(ctx, item, companyType, deviceType)
	}

	// ... creation dates for the deduplicated devices in a single call
	union := []string{}
	seen := map[string]bool{}
	for _, a := range list {
		for _, id := range a.devices {
			if !seen[id] {
				seen[id] = true
				union = append(union, id)
			}
		}
	}

	details := map[string]hubspot.Object{}
	if len(union) > 0 {
		if objects, err := w.CRM.BatchRead(ctx, deviceType, union, createdate); err != nil {
			w.log().Warnf("unable to retrieve device details (%v)", err)
		} else {
			details = objects
		}
	}

	// ... assign
	results := []Result{}
	for i, item := range batch {
		a := list[i]
		result := w.guard(item.row.Number, func() Result {
			return w.assign(item, a, details, claims)
		})

		results = append(results, result)
	}

	return results
}

func (w *Workflow) companyDevices(ctx context.Context, item lookup, companyType, deviceType string) (a associations) {
	defer func() {
		if r := recover(); r != nil {
			w.log().WithField("row", item.row.Number).Errorf("fatal error retrieving associations (%v)", r)
			a = associations{err: errFatal}
		}
	}()

	devices, err := w.CRM.Associations(ctx, companyType, item.company, deviceType)

	return associations{devices: devices, err: err}
}

func (w *Workflow) assign(item lookup, a associations, details map[string]hubspot.Object, claims Claims) Result {
	log := w.log().WithFields(logrus.Fields{"row": item.row.Number, "company": item.company})
	result := Result{Row: item.row.Number}

	if a.err != nil {
		log.Errorf("%v", a.err)
		result.Status = failed(reason(a.err))
		result.Errors = []string{a.err.Error()}
		return result
	}

	if len(a.devices) == 0 {
		log.Warnf("no associated devices")
		result.Status = noData("No device found")
		return result
	}

	device, ok := Earliest(a.devices, details, claims)
	if !ok {
		log.Warnf("all associated devices already assigned")
		result.Status = noData("No device available")
		return result
	}

	claims.Add(device)
	log.Infof("assigned device %v", device)

	result.Status = succeeded()
	result.Value = device

	return result
}
