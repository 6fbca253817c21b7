package sheet

import (
	"fmt"
	"strings"
)

// Columns maps logical column names to 0-based column indices.
type Columns map[string]int

// MissingColumnsError lists every required header that is not present in the worksheet.
type MissingColumnsError struct {
	Names []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing column(s): %s", strings.Join(e.Names, ", "))
}

// Resolve maps each required header name to its column index. Matching is exact and case
// sensitive. If any header is missing the returned error lists all of them.
func Resolve(header []string, required ...string) (Columns, error) {
	columns := Columns{}
	missing := []string{}

	for _, name := range required {
		if ix := indexOf(header, name); ix < 0 {
			missing = append(missing, name)
		} else {
			columns[name] = ix
		}
	}

	if len(missing) > 0 {
		return nil, &MissingColumnsError{Names: missing}
	}

	return columns, nil
}

// ResolveOptional returns the column index for name, if the header has it.
func ResolveOptional(header []string, name string) (int, bool) {
	if name == "" {
		return -1, false
	}

	ix := indexOf(header, name)

	return ix, ix >= 0
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}

	return -1
}
