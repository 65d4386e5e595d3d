package acctdb

// State is the phase an ingestion run is in.
type State int

const (
	StateInit State = iota
	StateSchemaReady
	StateStreaming
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateSchemaReady:
		return "SCHEMA_READY"
	case StateStreaming:
		return "STREAMING"
	case StateDone:
		return "DONE"
	case StateAborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// FileSummary counts what happened to the lines of one accounting file.
type FileSummary struct {
	Path string
	// Non-comment lines read
	Lines int
	// Comment lines discarded
	Comments int
	// Lines that could not be parsed
	Skipped int
	// Records parsed successfully
	Parsed int
	// Parsed records rejected by the owner filter
	Filtered int
	// Records committed to the accounting table
	Loaded int
}

// Summary describes an ingestion run. For an aborted run it covers the files processed up
// to and including the one that failed; rows of that file were rolled back.
type Summary struct {
	RunId string
	State State
	Files []FileSummary
}

func (s *Summary) LinesRead() int {
	return s.sum(func(f FileSummary) int { return f.Lines })
}

func (s *Summary) Comments() int {
	return s.sum(func(f FileSummary) int { return f.Comments })
}

func (s *Summary) Skipped() int {
	return s.sum(func(f FileSummary) int { return f.Skipped })
}

func (s *Summary) Parsed() int {
	return s.sum(func(f FileSummary) int { return f.Parsed })
}

func (s *Summary) Filtered() int {
	return s.sum(func(f FileSummary) int { return f.Filtered })
}

func (s *Summary) Loaded() int {
	return s.sum(func(f FileSummary) int { return f.Loaded })
}

func (s *Summary) sum(field func(FileSummary) int) int {
	total := 0
	for _, f := range s.Files {
		total += field(f)
	}
	return total
}
