package parse

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/pointer"

	"github.com/G-Research/acctdb/internal/acctdb/acctdberrors"
	"github.com/G-Research/acctdb/internal/acctdb/model"
)

// accountingLine builds a 40 field line where every field holds its own index, with overrides.
func accountingLine(overrides map[int]string) string {
	fields := make([]string, 40)
	for i := range fields {
		fields[i] = strconv.Itoa(i)
	}
	for i, v := range overrides {
		fields[i] = v
	}
	return strings.Join(fields, Delimiter)
}

func TestMinFields(t *testing.T) {
	assert.Equal(t, 40, SGE81.MinFields())
	assert.Equal(t, 3, FieldLayout{Positions: map[string]int{"a": 2, "b": 0}}.MinFields())
}

func TestLayouts(t *testing.T) {
	layout, ok := Layouts()["sge-8.1"]
	require.True(t, ok)
	assert.Equal(t, SGE81, layout)
	assert.Equal(t, SGE81, DefaultLayout)
}

func TestParseMapsOrdinalPositions(t *testing.T) {
	line := accountingLine(map[int]string{
		0:  "all.q",
		1:  "node01.cluster",
		2:  "grp",
		3:  "alice",
		4:  "bwa-mem",
		22: "-u alice -l h_rt=3600",
		39: "h_rt=3600,h_vmem=2,mem_free=1,OpenMP 4",
	})

	record, err := NewParser(SGE81).Parse(line)
	require.NoError(t, err)
	assert.Equal(t, &model.AccountingRecord{
		Qname:          "all.q",
		Hostname:       "node01.cluster",
		Owner:          "alice",
		JobName:        "bwa-mem",
		JobNumber:      5,
		SubmissionTime: 8,
		StartTime:      9,
		EndTime:        10,
		Failed:         11,
		ExitStatus:     12,
		RuWallclock:    13,
		Io:             21,
		Category:       "-u alice -l h_rt=3600",
		Maxvmem:        25,
		HRt:            pointer.Int64(3600),
		HVmem:          pointer.Int64(2),
		MemFree:        pointer.Int64(1),
		OpenMP:         pointer.Int64(4),
	}, record)
}

func TestParseAcceptsMoreFieldsThanLayout(t *testing.T) {
	record, err := NewParser(SGE81).Parse(accountingLine(nil) + ":40:41:42")
	require.NoError(t, err)
	assert.Equal(t, int64(5), record.JobNumber)
}

func TestParseDecimalNotation(t *testing.T) {
	record, err := NewParser(SGE81).Parse(accountingLine(map[int]string{21: "0.012", 25: "2048.000000"}))
	require.NoError(t, err)
	assert.Equal(t, int64(0), record.Io)
	assert.Equal(t, int64(2048), record.Maxvmem)
}

func TestParseErrors(t *testing.T) {
	full := strings.Split(accountingLine(nil), Delimiter)
	tests := map[string]struct {
		line  string
		field string
	}{
		"empty line":                  {line: "", field: ""},
		"26 fields":                   {line: strings.Join(full[:26], Delimiter), field: ""},
		"39 fields":                   {line: strings.Join(full[:39], Delimiter), field: ""},
		"non-numeric job number":      {line: accountingLine(map[int]string{5: "abc"}), field: FieldJobNumber},
		"empty exit status":           {line: accountingLine(map[int]string{12: ""}), field: FieldExitStatus},
		"nan maxvmem":                 {line: accountingLine(map[int]string{25: "NaN"}), field: FieldMaxvmem},
		"maxvmem of 2^63":             {line: accountingLine(map[int]string{25: "9223372036854775808"}), field: FieldMaxvmem},
		"hex maxvmem":                 {line: accountingLine(map[int]string{25: "0x10"}), field: FieldMaxvmem},
		"overflowing resource number": {line: accountingLine(map[int]string{39: "h_rt=99999999999999999999"}), field: "h_rt"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			record, err := NewParser(SGE81).Parse(tc.line)
			assert.Nil(t, record)

			var parseErr *acctdberrors.ErrParse
			require.True(t, errors.As(err, &parseErr), "expected a parse error, got %v", err)
			assert.Equal(t, tc.field, parseErr.Field)
			assert.False(t, acctdberrors.IsFatal(err))
		})
	}
}

func TestParseInteger(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected int64
		err      bool
	}{
		"integer":                  {input: "1651234567", expected: 1651234567},
		"negative":                 {input: "-1", expected: -1},
		"padded":                   {input: " 7 ", expected: 7},
		"decimal":                  {input: "12.9", expected: 12},
		"exponent":                 {input: "1e3", expected: 1000},
		"word":                     {input: "NONE", err: true},
		"empty":                    {input: "", err: true},
		"infinity":                 {input: "Inf", err: true},
		"out of range":             {input: "1e300", err: true},
		"trailing text":            {input: "12M", err: true},
		"min int64":                {input: "-9223372036854775808", expected: math.MinInt64},
		"max int64":                {input: "9223372036854775807", expected: math.MaxInt64},
		"largest float below 2^63": {input: "9223372036854774784.0", expected: 9223372036854774784},
		"2^63":                     {input: "9223372036854775808", err: true},
		"2^63 decimal":             {input: "9223372036854775808.0", err: true},
		"2^63 exponent":            {input: "9.223372036854775808e18", err: true},
		"below min int64":          {input: "-9223372036854777856.0", err: true},
		"hex":                      {input: "0x10", err: true},
		"hex float":                {input: "0x1p4", err: true},
		"signed hex float":         {input: "-0X1p4", err: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := ParseInteger(tc.input)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}
}
