package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/G-Research/acctdb/internal/acctdb/model"
)

func TestOwnerFilter(t *testing.T) {
	tests := map[string]struct {
		owners   []string
		owner    string
		expected bool
	}{
		"listed owner":          {owners: []string{"alice"}, owner: "alice", expected: true},
		"unlisted owner":        {owners: []string{"alice"}, owner: "bob", expected: false},
		"one of several":        {owners: []string{"alice", "bob"}, owner: "bob", expected: true},
		"case sensitive":        {owners: []string{"alice"}, owner: "Alice", expected: false},
		"no prefix match":       {owners: []string{"ali"}, owner: "alice", expected: false},
		"no owners retain none": {owners: nil, owner: "alice", expected: false},
		"empty owner name":      {owners: []string{}, owner: "", expected: false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f := NewOwnerFilter(tc.owners)
			assert.Equal(t, tc.expected, f.Accept(&model.AccountingRecord{Owner: tc.owner}))
		})
	}
}

func TestOwnerFilterEmpty(t *testing.T) {
	assert.True(t, NewOwnerFilter(nil).Empty())
	assert.False(t, NewOwnerFilter([]string{"alice"}).Empty())
}

func TestOwnerFilterOwners(t *testing.T) {
	f := NewOwnerFilter([]string{"carol", "alice", "bob", "alice"})
	assert.Equal(t, []string{"alice", "bob", "carol"}, f.Owners())
}
