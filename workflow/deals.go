package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/leasehub/hubspot-app-sheets/config"
	"github.com/leasehub/hubspot-app-sheets/sheet"
)

const (
	companyNotFound = "Not found"
	companyError    = "Error retrieving ID"
	fatalError      = "FATAL ERROR"
)

// Deal properties in submission order.
var dealProperties = []string{
	config.Leaser,
	config.Contract,
	config.Duration,
	config.LeaseEnd,
	config.Client,
}

type deal struct {
	Result
	company  any
	leaseEnd *time.Time
}

// SyncDeals projects the lease-end date of each row, pushes the row's properties to its deal
// one property at a time and records the deal's company. Status, company and lease-end cells
// are written back in a single write at the end.
func (w *Workflow) SyncDeals(ctx context.Context) (*Summary, error) {
	conf := w.Config.Deals
	summary := Summary{Workflow: "sync-deals"}

	table, err := w.start(ctx, summary.Workflow, conf.Sheet)
	if err != nil {
		return nil, err
	}

	columns, err := w.resolve(table, conf.Headers,
		config.Leaser,
		config.Contract,
		config.LeaseEnd,
		config.Duration,
		config.Deal,
		config.CompanyID,
		config.Status,
		config.Client,
		config.InstallDate)
	if err != nil {
		return nil, err
	}

	if len(table.Rows) == 0 {
		w.log().Infof("no data to process")
		return &summary, nil
	}

	marker := w.Config.SuccessMarker
	statuses := make([]any, len(table.Rows))
	companies := make([]any, len(table.Rows))
	ranges := []sheet.Range{}

	for i, row := range table.Rows {
		status := row.Cell(columns[config.Status])
		company := row.Cell(columns[config.CompanyID])

		d := deal{}
		d.Result = w.guard(row.Number, func() Result {
			d = w.syncDeal(ctx, row, columns)
			return d.Result
		})

		if d.Status.Kind != SkippedAlreadyProcessed {
			company = d.company
		}

		if d.Status == fatal() && d.company == nil {
			company = fatalError
		}

		if d.leaseEnd != nil {
			ranges = append(ranges, sheet.Cell(row.Number, columns[config.LeaseEnd], *d.leaseEnd))
		}

		statuses[i] = d.Status.Text(marker, status)
		companies[i] = company
		summary.add(d.Result)
	}

	top := table.Rows[0].Number
	ranges = append(ranges,
		sheet.Column(columns[config.Status], top, statuses),
		sheet.Column(columns[config.CompanyID], top, companies))

	if err := w.write(ctx, conf.Sheet, ranges); err != nil {
		return &summary, err
	}

	w.finish(&summary)

	return &summary, nil
}

func (w *Workflow) syncDeal(ctx context.Context, row sheet.Row, columns map[string]int) deal {
	conf := w.Config.Deals
	log := w.log().WithField("row", row.Number)
	d := deal{
		Result: Result{Row: row.Number},
	}

	if sheet.Text(row.Cell(columns[config.Status])) == w.Config.SuccessMarker {
		log.Debugf("already processed")
		d.Status = processed()
		return d
	}

	d.company = ""

	reference := sheet.Text(row.Cell(columns[config.Deal]))
	if reference == "" {
		log.Infof("no transaction ID, row skipped")
		d.Status = noKey(conf.Headers[config.Deal])
		return d
	}

	dealID, ok := ExtractDealID(reference)
	if !ok {
		log.Infof("unable to extract a deal ID from '%v', row skipped", reference)
		d.Status = noKey(conf.Headers[config.Deal])
		return d
	}

	log = log.WithField("deal", dealID)

	// ... lease-end date
	var leaseEnd *time.Time

	existing, hasExisting := sheet.DateValue(row.Cell(columns[config.LeaseEnd]))
	if hasExisting {
		leaseEnd = &existing
	}

	install, hasInstall := sheet.DateValue(row.Cell(columns[config.InstallDate]))
	months, hasMonths := Months(sheet.Text(row.Cell(columns[config.Duration])))

	if hasInstall && hasMonths {
		projected := LeaseEnd(install, months)

		switch {
		case hasExisting && FormatDate(existing) == FormatDate(projected):

		case hasExisting && !conf.OverwriteLeaseEnd:
			log.Warnf("keeping existing lease end %v (projected %v)", FormatDate(existing), FormatDate(projected))

		default:
			if hasExisting {
				log.Warnf("overwriting lease end %v with projected %v", FormatDate(existing), FormatDate(projected))
			}

			d.leaseEnd = &projected
			leaseEnd = &projected
			log.Infof("lease end %v written to column '%v'", FormatDate(projected), conf.Headers[config.LeaseEnd])
		}
	}

	// ... properties
	values := map[string]string{
		config.Leaser:   Remap(config.Leaser, sheet.Text(row.Cell(columns[config.Leaser]))),
		config.Contract: Remap(config.Contract, sheet.Text(row.Cell(columns[config.Contract]))),
		config.Duration: sheet.Text(row.Cell(columns[config.Duration])),
		config.Client:   sheet.Text(row.Cell(columns[config.Client])),
	}

	if leaseEnd != nil {
		values[config.LeaseEnd] = FormatDate(*leaseEnd)
	}

	updates := 0
	for _, key := range dealProperties {
		if values[key] != "" && conf.Properties[key] != "" {
			updates++
		}
	}

	if updates == 0 {
		log.Infof("nothing to update, row skipped")
		d.Status = noData("No data to process")
		return d
	}

	if w.DryRun {
		log.Infof("dry run: deal %v  %v", dealID, values)
		d.Status = succeeded()
		return d
	}

	var errs *multierror.Error
	for _, key := range dealProperties {
		property := conf.Properties[key]
		value := values[key]
		if property == "" || value == "" {
			continue
		}

		if err := w.CRM.Update(ctx, w.Config.DealObjectType, dealID, map[string]string{property: value}); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("property '%s': %w", property, err))
		}
	}

	// ... company
	company, ok, err := w.associated(ctx, w.Config.DealObjectType, dealID, w.Config.CompanyObjectType, nil)
	switch {
	case err != nil:
		log.Errorf("unable to retrieve associated company (%v)", err)
		d.company = companyError
		errs = multierror.Append(errs, fmt.Errorf("company: %w", err))

	case !ok:
		log.Infof("no associated company")
		d.company = companyNotFound

	default:
		log.Infof("company %v", company)
		d.company = company
		d.Value = company
	}

	if errs != nil && len(errs.Errors) > 0 {
		for _, e := range errs.Errors {
			d.Errors = append(d.Errors, e.Error())
		}

		log.Errorf("update errors: %v", strings.Join(d.Errors, "; "))
		d.Status = failed(strings.Join(d.Errors, "; "))

		return d
	}

	d.Status = succeeded()

	return d
}
