package invoice

import (
	"sort"
	"strings"
)

// TableDrafts is the result of reconciling the PENDING invoices of one table.
// The server enforces no uniqueness on open tabs, so a table can accumulate
// duplicates; the newest draft is treated as the real one and the rest are
// orphans awaiting cleanup.
type TableDrafts struct {
	Canonical *Invoice   `json:"canonical"`
	Orphans   []*Invoice `json:"orphans,omitempty"`
}

// All returns the canonical draft followed by every orphan.
func (d TableDrafts) All() []*Invoice {
	if d.Canonical == nil {
		return nil
	}
	return append([]*Invoice{d.Canonical}, d.Orphans...)
}

// DraftsForTable filters invoices down to PENDING drafts for the given table
// and picks the newest as canonical. Status comparison is case-insensitive;
// the table match honors both the typed column and the legacy note
// convention. A zero table never matches.
func DraftsForTable(invoices []*Invoice, table int) TableDrafts {
	if table <= 0 {
		return TableDrafts{}
	}

	var matched []*Invoice
	for _, inv := range invoices {
		if !strings.EqualFold(string(inv.Status), string(StatusPending)) {
			continue
		}
		if inv.TableRef() != table {
			continue
		}
		matched = append(matched, inv)
	}
	if len(matched) == 0 {
		return TableDrafts{}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return TableDrafts{Canonical: matched[0], Orphans: matched[1:]}
}
