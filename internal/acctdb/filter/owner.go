package filter

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/G-Research/acctdb/internal/acctdb/model"
)

// OwnerFilter retains records whose owner is in an allow-list. Matching is exact and
// case-sensitive.
//
// An empty allow-list retains no records at all. This mirrors the behaviour of the
// loader this tool replaced and is kept until it is confirmed whether "no owners"
// should instead mean "all owners".
type OwnerFilter struct {
	owners map[string]struct{}
}

func NewOwnerFilter(owners []string) *OwnerFilter {
	set := make(map[string]struct{}, len(owners))
	for _, o := range owners {
		set[o] = struct{}{}
	}
	return &OwnerFilter{owners: set}
}

// Accept reports whether the record passes the filter.
func (f *OwnerFilter) Accept(record *model.AccountingRecord) bool {
	_, ok := f.owners[record.Owner]
	return ok
}

// Empty is true if the filter cannot accept any record.
func (f *OwnerFilter) Empty() bool {
	return len(f.owners) == 0
}

// Owners returns the allow-list, sorted and without duplicates.
func (f *OwnerFilter) Owners() []string {
	owners := maps.Keys(f.owners)
	slices.Sort(owners)
	return owners
}
