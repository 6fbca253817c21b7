package workflow

import (
	"fmt"
)

type Kind int

const (
	Unprocessed Kind = iota
	Success
	SkippedNoKey
	SkippedAlreadyProcessed
	SkippedNoData
	Failed
)

// Status is the terminal outcome of a row. Reason is the text written to the status column
// for skipped and failed rows.
type Status struct {
	Kind   Kind
	Reason string
}

// Result is the outcome of a single row, including any per-property errors and the id that was
// resolved for it (company or device).
type Result struct {
	Row    int
	Status Status
	Errors []string
	Value  string
}

// Summary is the outcome of a single workflow run.
type Summary struct {
	Workflow  string
	Succeeded int
	Failed    int
	Skipped   int
	Results   []Result
}

func (k Kind) String() string {
	switch k {
	case Unprocessed:
		return "unprocessed"
	case Success:
		return "success"
	case SkippedNoKey:
		return "skipped (no key)"
	case SkippedAlreadyProcessed:
		return "skipped (already processed)"
	case SkippedNoData:
		return "skipped (no data)"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("unknown (%d)", int(k))
	}
}

func succeeded() Status {
	return Status{Kind: Success}
}

func processed() Status {
	return Status{Kind: SkippedAlreadyProcessed}
}

func noKey(header string) Status {
	return Status{Kind: SkippedNoKey, Reason: fmt.Sprintf("Error: missing %s", header)}
}

func noData(reason string) Status {
	return Status{Kind: SkippedNoData, Reason: reason}
}

func failed(reason string) Status {
	return Status{Kind: Failed, Reason: fmt.Sprintf("Error (%s)", reason)}
}

func fatal() Status {
	return failed("exception")
}

// Text returns the value to write to the status column. Rows that were already processed keep
// whatever the column holds.
func (s Status) Text(marker string, current any) any {
	switch s.Kind {
	case Success:
		return marker

	case SkippedAlreadyProcessed, Unprocessed:
		return current

	default:
		return s.Reason
	}
}

func (s *Summary) add(r Result) {
	switch r.Status.Kind {
	case Success:
		s.Succeeded++
	case Failed:
		s.Failed++
	case SkippedNoKey, SkippedNoData, SkippedAlreadyProcessed:
		s.Skipped++
	}

	s.Results = append(s.Results, r)
}

// Result returns the result for a worksheet row.
func (s *Summary) Result(row int) (Result, bool) {
	for _, r := range s.Results {
		if r.Row == row {
			return r, true
		}
	}

	return Result{}, false
}
