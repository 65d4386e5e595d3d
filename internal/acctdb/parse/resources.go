package parse

import (
	"regexp"
	"strconv"

	"k8s.io/utils/pointer"

	"github.com/G-Research/acctdb/internal/acctdb/acctdberrors"
)

// Resources holds the values found in a resource-request field. A nil value means the
// corresponding token was not present.
type Resources struct {
	HRt     *int64
	HVmem   *int64
	MemFree *int64
	OpenMP  *int64
}

type resourceToken struct {
	name string
	re   *regexp.Regexp
	set  func(*Resources, *int64)
}

var resourceTokens = []resourceToken{
	{
		name: "h_rt",
		re:   regexp.MustCompile(`h_rt=(\d+)`),
		set:  func(r *Resources, v *int64) { r.HRt = v },
	},
	{
		name: "h_vmem",
		re:   regexp.MustCompile(`h_vmem=(\d+)`),
		set:  func(r *Resources, v *int64) { r.HVmem = v },
	},
	{
		name: "mem_free",
		re:   regexp.MustCompile(`mem_free=(\d+)`),
		set:  func(r *Resources, v *int64) { r.MemFree = v },
	},
	{
		name: "openmp",
		re:   regexp.MustCompile(`OpenMP (\d+)`),
		set:  func(r *Resources, v *int64) { r.OpenMP = v },
	},
}

// ExtractResources scans a resource-request field for h_rt=, h_vmem=, mem_free= and
// "OpenMP <n>". Only the first occurrence of each token is used and only its leading digit
// run is kept, so "h_vmem=2G" yields 2. A missing token is not an error.
func ExtractResources(field string) (Resources, error) {
	var res Resources
	for _, tok := range resourceTokens {
		m := tok.re.FindStringSubmatch(field)
		if m == nil {
			continue
		}
		v, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return Resources{}, &acctdberrors.ErrParse{Field: tok.name, Reason: err.Error()}
		}
		tok.set(&res, pointer.Int64(v))
	}
	return res, nil
}
