package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/G-Research/acctdb/internal/acctdb/acctdberrors"
	"github.com/G-Research/acctdb/internal/acctdb/model"
)

const Delimiter = ":"

// Parser turns accounting lines into records according to a FieldLayout.
type Parser struct {
	layout    FieldLayout
	minFields int
}

func NewParser(layout FieldLayout) *Parser {
	return &Parser{layout: layout, minFields: layout.MinFields()}
}

// Parse converts one accounting line into a record, including the optional attributes
// extracted from the resource-request field. Lines that are too short, or that hold a
// non-numeric value in a numeric position, produce an *acctdberrors.ErrParse.
func (p *Parser) Parse(line string) (*model.AccountingRecord, error) {
	fields := strings.Split(line, Delimiter)
	if len(fields) < p.minFields {
		return nil, &acctdberrors.ErrParse{
			Reason: fmt.Sprintf("expected at least %d fields, found %d", p.minFields, len(fields)),
		}
	}
	f := fieldReader{fields: fields, positions: p.layout.Positions}

	record := &model.AccountingRecord{
		Qname:          f.str(FieldQname),
		Hostname:       f.str(FieldHostname),
		Owner:          f.str(FieldOwner),
		JobName:        f.str(FieldJobName),
		JobNumber:      f.int(FieldJobNumber),
		SubmissionTime: f.int(FieldSubmissionTime),
		StartTime:      f.int(FieldStartTime),
		EndTime:        f.int(FieldEndTime),
		Failed:         f.int(FieldFailed),
		ExitStatus:     f.int(FieldExitStatus),
		RuWallclock:    f.int(FieldRuWallclock),
		Io:             f.int(FieldIo),
		Category:       f.str(FieldCategory),
		Maxvmem:        f.int(FieldMaxvmem),
	}
	if f.err != nil {
		return nil, f.err
	}

	res, err := ExtractResources(f.str(FieldResourceRequest))
	if err != nil {
		return nil, err
	}
	record.HRt = res.HRt
	record.HVmem = res.HVmem
	record.MemFree = res.MemFree
	record.OpenMP = res.OpenMP
	return record, nil
}

// fieldReader looks fields up by attribute name and remembers the first conversion error.
type fieldReader struct {
	fields    []string
	positions map[string]int
	err       error
}

func (f *fieldReader) str(name string) string {
	return f.fields[f.positions[name]]
}

func (f *fieldReader) int(name string) int64 {
	if f.err != nil {
		return 0
	}
	v, err := ParseInteger(f.str(name))
	if err != nil {
		f.err = &acctdberrors.ErrParse{Field: name, Reason: err.Error()}
	}
	return v
}

// ParseInteger parses a numeric accounting value. Some schedulers write integral values
// in decimal notation (e.g. "2048.000000" for maxvmem); those are truncated towards zero.
// Hexadecimal input is rejected.
func ParseInteger(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	if isHex(s) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	// -math.MinInt64 is 2^63, the first float64 above the int64 range.
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v >= -math.MinInt64 || v < math.MinInt64 {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return int64(v), nil
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}
