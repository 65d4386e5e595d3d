package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"k8s.io/utils/pointer"
)

func TestColumnNames(t *testing.T) {
	assert.Equal(t, []string{
		"qname", "hostname", "owner", "job_name", "job_number", "submission_time",
		"start_time", "end_time", "failed", "exit_status", "ru_wallclock", "io", "category", "maxvmem",
		"h_rt", "h_vmem", "mem_free", "openmp",
	}, ColumnNames())
}

func TestOnlyResourceColumnsAreNullable(t *testing.T) {
	for _, c := range Columns {
		switch c.Name {
		case "h_rt", "h_vmem", "mem_free", "openmp":
			assert.True(t, c.Nullable, c.Name)
		default:
			assert.False(t, c.Nullable, c.Name)
		}
	}
}

func TestValues(t *testing.T) {
	r := &AccountingRecord{
		Qname:          "all.q",
		Hostname:       "node01",
		Owner:          "alice",
		JobName:        "bwa",
		JobNumber:      42,
		SubmissionTime: 100,
		StartTime:      110,
		EndTime:        200,
		Failed:         0,
		ExitStatus:     1,
		RuWallclock:    90,
		Io:             3,
		Category:       "-l h_rt=3600",
		Maxvmem:        1024,
		HRt:            pointer.Int64(3600),
	}
	values := r.Values()
	assert.Len(t, values, len(Columns))
	assert.Equal(t, "all.q", values[0])
	assert.Equal(t, int64(42), values[4])
	assert.Equal(t, "-l h_rt=3600", values[12])
	assert.Equal(t, int64(3600), values[14])
	assert.Nil(t, values[15])
	assert.Nil(t, values[16])
	assert.Nil(t, values[17])
}
