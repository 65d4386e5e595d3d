package parse

// Attribute names used as keys of a field layout.
const (
	FieldQname           = "qname"
	FieldHostname        = "hostname"
	FieldOwner           = "owner"
	FieldJobName         = "job_name"
	FieldJobNumber       = "job_number"
	FieldSubmissionTime  = "submission_time"
	FieldStartTime       = "start_time"
	FieldEndTime         = "end_time"
	FieldFailed          = "failed"
	FieldExitStatus      = "exit_status"
	FieldRuWallclock     = "ru_wallclock"
	FieldIo              = "io"
	FieldCategory        = "category"
	FieldMaxvmem         = "maxvmem"
	FieldResourceRequest = "resource_request"
)

// FieldLayout maps record attributes to 0-based positions in a colon-delimited accounting line.
type FieldLayout struct {
	// Scheduler log format the positions were taken from.
	Version   string
	Positions map[string]int
}

// SGE81 is the accounting layout written by Grid Engine 8.1.
var SGE81 = FieldLayout{
	Version: "sge-8.1",
	Positions: map[string]int{
		FieldQname:           0,
		FieldHostname:        1,
		FieldOwner:           3,
		FieldJobName:         4,
		FieldJobNumber:       5,
		FieldSubmissionTime:  8,
		FieldStartTime:       9,
		FieldEndTime:         10,
		FieldFailed:          11,
		FieldExitStatus:      12,
		FieldRuWallclock:     13,
		FieldIo:              21,
		FieldCategory:        22,
		FieldMaxvmem:         25,
		FieldResourceRequest: 39,
	},
}

// DefaultLayout is used when no layout is configured.
var DefaultLayout = SGE81

// MinFields is the number of fields a line needs so that every position of the layout exists.
func (l FieldLayout) MinFields() int {
	highest := -1
	for _, pos := range l.Positions {
		if pos > highest {
			highest = pos
		}
	}
	return highest + 1
}

// Layouts returns the known layouts keyed by version.
func Layouts() map[string]FieldLayout {
	return map[string]FieldLayout{
		SGE81.Version: SGE81,
	}
}
