package workflow

import (
	"context"

	"github.com/leasehub/hubspot-app-sheets/config"
	"github.com/leasehub/hubspot-app-sheets/sheet"
)

// SyncDeviceDates copies the install and lease-end dates of each row to the row's device
// object, with a single update per device. Statuses are written back in one range at the end.
func (w *Workflow) SyncDeviceDates(ctx context.Context) (*Summary, error) {
	conf := w.Config.DeviceDates
	summary := Summary{Workflow: "sync-device-dates"}

	table, err := w.start(ctx, summary.Workflow, conf.Sheet)
	if err != nil {
		return nil, err
	}

	columns, err := w.resolve(table, conf.Headers, config.DeviceID, config.Status, config.InstallDate, config.LeaseEnd)
	if err != nil {
		return nil, err
	}

	if len(table.Rows) == 0 {
		w.log().Infof("no data to process")
		return &summary, nil
	}

	marker := w.Config.SuccessMarker
	statuses := make([]any, len(table.Rows))

	for i, row := range table.Rows {
		current := row.Cell(columns[config.Status])
		result := w.guard(row.Number, func() Result {
			return w.syncDeviceDates(ctx, row, columns)
		})

		statuses[i] = result.Status.Text(marker, current)
		summary.add(result)
	}

	ranges := []sheet.Range{
		sheet.Column(columns[config.Status], table.Rows[0].Number, statuses),
	}

	if err := w.write(ctx, conf.Sheet, ranges); err != nil {
		return &summary, err
	}

	w.finish(&summary)

	return &summary, nil
}

func (w *Workflow) syncDeviceDates(ctx context.Context, row sheet.Row, columns map[string]int) Result {
	conf := w.Config.DeviceDates
	log := w.log().WithField("row", row.Number)
	result := Result{Row: row.Number}

	if sheet.Text(row.Cell(columns[config.Status])) == w.Config.SuccessMarker {
		log.Debugf("already processed")
		result.Status = processed()
		return result
	}

	deviceID := sheet.Text(row.Cell(columns[config.DeviceID]))
	if deviceID == "" {
		log.Infof("missing device ID in column '%v', row skipped", conf.Headers[config.DeviceID])
		result.Status = noKey(conf.Headers[config.DeviceID])
		return result
	}

	properties := map[string]string{}
	for _, key := range []string{config.InstallDate, config.LeaseEnd} {
		if date, ok := sheet.DateValue(row.Cell(columns[key])); ok {
			if property := conf.Properties[key]; property != "" {
				properties[property] = FormatDate(date)
			}
		}
	}

	if len(properties) == 0 {
		log.Infof("no valid date, row skipped")
		result.Status = noData("No date to process")
		return result
	}

	if w.DryRun {
		log.Infof("dry run: device %v  %v", deviceID, properties)
		result.Status = succeeded()
		return result
	}

	if err := w.CRM.Update(ctx, w.Config.DeviceObjectType, deviceID, properties); err != nil {
		log.Errorf("failed to update device %v (%v)", deviceID, err)
		result.Status = failed(reason(err))
		result.Errors = []string{err.Error()}
		return result
	}

	log.Infof("updated device %v", deviceID)
	result.Status = succeeded()

	return result
}
