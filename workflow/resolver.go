package workflow

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/leasehub/hubspot-app-sheets/hubspot"
)

const createdate = "createdate"

// Claims is the set of object ids already assigned to a row in the current run.
type Claims map[string]struct{}

func (c Claims) Add(id string) {
	c[id] = struct{}{}
}

func (c Claims) Has(id string) bool {
	if c == nil {
		return false
	}

	_, ok := c[id]

	return ok
}

// Earliest picks the unclaimed candidate with the earliest creation date. Candidates without a
// (valid) creation date sort as the Unix epoch and ties keep the association order. Returns
// false if every candidate is claimed.
func Earliest(candidates []string, details map[string]hubspot.Object, claims Claims) (string, bool) {
	type candidate struct {
		id      string
		created time.Time
	}

	available := []candidate{}
	for _, id := range candidates {
		if !claims.Has(id) {
			available = append(available, candidate{
				id:      id,
				created: created(details[id]),
			})
		}
	}

	if len(available) == 0 {
		return "", false
	}

	sort.SliceStable(available, func(i, j int) bool {
		return available[i].created.Before(available[j].created)
	})

	return available[0].id, true
}

// associated resolves the single object of type 'to' associated with an object, using the
// earliest creation date when there is more than one.
func (w *Workflow) associated(ctx context.Context, from, id, to string, claims Claims) (string, bool, error) {
	candidates, err := w.CRM.Associations(ctx, from, id, to)
	if err != nil {
		return "", false, err
	}

	details := map[string]hubspot.Object{}
	if len(candidates) > 1 {
		if details, err = w.CRM.BatchRead(ctx, to, candidates, createdate); err != nil {
			w.log().Warnf("%v %v: unable to retrieve creation dates (%v)", from, id, err)
			details = map[string]hubspot.Object{}
		}
	}

	selected, ok := Earliest(candidates, details, claims)

	return selected, ok, nil
}

func created(object hubspot.Object) time.Time {
	v := object.Properties[createdate]
	if v == "" {
		return time.Unix(0, 0).UTC()
	}

	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t
	}

	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t
	}

	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}

	return time.Unix(0, 0).UTC()
}
