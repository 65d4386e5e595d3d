package model

// AccountingRecord is one completed scheduler job-task, parsed from exactly one accounting line.
type AccountingRecord struct {
	Qname          string
	Hostname       string
	Owner          string
	JobName        string
	JobNumber      int64
	SubmissionTime int64
	StartTime      int64
	EndTime        int64
	Failed         int64
	ExitStatus     int64
	RuWallclock    int64
	Io             int64
	Category       string
	Maxvmem        int64

	// Extracted from the resource-request field; nil when the token is absent.
	HRt     *int64
	HVmem   *int64
	MemFree *int64
	OpenMP  *int64
}

// ColumnType is the SQL storage class of a column.
type ColumnType string

const (
	Text    ColumnType = "TEXT"
	Integer ColumnType = "INTEGER"
)

// Column describes one column of the accounting table.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// AccountingTable is the name of the destination table.
const AccountingTable = "accounting"

// Columns lists the accounting table's columns in table order.
// Values returns a record's values in the same order.
var Columns = []Column{
	{Name: "qname", Type: Text},
	{Name: "hostname", Type: Text},
	{Name: "owner", Type: Text},
	{Name: "job_name", Type: Text},
	{Name: "job_number", Type: Integer},
	{Name: "submission_time", Type: Integer},
	{Name: "start_time", Type: Integer},
	{Name: "end_time", Type: Integer},
	{Name: "failed", Type: Integer},
	{Name: "exit_status", Type: Integer},
	{Name: "ru_wallclock", Type: Integer},
	{Name: "io", Type: Integer},
	{Name: "category", Type: Text},
	{Name: "maxvmem", Type: Integer},
	{Name: "h_rt", Type: Integer, Nullable: true},
	{Name: "h_vmem", Type: Integer, Nullable: true},
	{Name: "mem_free", Type: Integer, Nullable: true},
	{Name: "openmp", Type: Integer, Nullable: true},
}

// ColumnNames returns the names from Columns.
func ColumnNames() []string {
	names := make([]string, len(Columns))
	for i, c := range Columns {
		names[i] = c.Name
	}
	return names
}

// Values returns the record's column values in Columns order. Absent optional
// attributes are returned as untyped nil so drivers bind them as NULL.
func (r *AccountingRecord) Values() []interface{} {
	return []interface{}{
		r.Qname,
		r.Hostname,
		r.Owner,
		r.JobName,
		r.JobNumber,
		r.SubmissionTime,
		r.StartTime,
		r.EndTime,
		r.Failed,
		r.ExitStatus,
		r.RuWallclock,
		r.Io,
		r.Category,
		r.Maxvmem,
		nullable(r.HRt),
		nullable(r.HVmem),
		nullable(r.MemFree),
		nullable(r.OpenMP),
	}
}

func nullable(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
