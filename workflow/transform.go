package workflow

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/leasehub/hubspot-app-sheets/config"
)

var (
	dealURL  = regexp.MustCompile(`record/0-3/(\d+)`)
	dealID   = regexp.MustCompile(`^\d+$`)
	duration = regexp.MustCompile(`^\s*([+-]?\d+)`)
)

// Canonical CRM vocabulary for values that the worksheets spell differently, keyed by
// logical column.
var remap = map[string]map[string]string{
	config.Leaser: {
		"Achat Direct": "Achat direct",
	},
	config.Contract: {
		"Installé": "livré",
	},
}

// FormatDate formats a date as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// LeaseEnd returns the first day of the month following the install date plus the lease
// duration. Month arithmetic overflows like time.AddDate i.e. Jan 31 + 1 month is in March.
func LeaseEnd(install time.Time, months int) time.Time {
	end := install.AddDate(0, months, 0)

	return time.Date(end.Year(), end.Month()+1, 1, 0, 0, 0, 0, end.Location())
}

// Months parses the leading integer of a duration cell e.g. "36 mois" is 36.
func Months(v string) (int, bool) {
	match := duration.FindStringSubmatch(v)
	if len(match) < 2 {
		return 0, false
	}

	months, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}

	return months, true
}

// Remap replaces a value with its canonical spelling for the column, if it has one.
func Remap(column, value string) string {
	if table, ok := remap[column]; ok {
		if v, ok := table[value]; ok {
			return v
		}
	}

	return value
}

// ExtractDealID returns the numeric deal id from a HubSpot record URL or a bare id.
func ExtractDealID(v string) (string, bool) {
	if match := dealURL.FindStringSubmatch(v); len(match) > 1 {
		return match[1], true
	}

	if s := strings.TrimSpace(v); dealID.MatchString(s) {
		return s, true
	}

	return "", false
}
