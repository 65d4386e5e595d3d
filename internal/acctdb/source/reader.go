package source

import (
	"bufio"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/G-Research/acctdb/internal/acctdb/acctdberrors"
)

const (
	commentPrefix = "#"
	// Resource-request fields can be long; allow lines up to this size.
	maxLineSize = 16 * 1024 * 1024
)

// Line is one non-comment line of an accounting file.
type Line struct {
	// 1-based position of the line in the decompressed file, comments included.
	Number int
	Text   string
}

// Reader streams the lines of a single gzip-compressed accounting file.
// It is not safe for concurrent use. To iterate a file again, open a new Reader.
type Reader struct {
	path     string
	file     *os.File
	gz       *gzip.Reader
	scanner  *bufio.Scanner
	line     Line
	lineNum  int
	comments int
	err      error
}

// Open opens path and prepares it for decompression. Both a missing file and a file
// without a valid gzip header are reported as *acctdberrors.ErrIO.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(&acctdberrors.ErrIO{Path: path, Op: "open", Cause: err})
	}
	gz, err := gzip.NewReader(file)
	if err != nil {
		_ = file.Close()
		return nil, errors.WithStack(&acctdberrors.ErrIO{Path: path, Op: "decompress", Cause: err})
	}
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{path: path, file: file, gz: gz, scanner: scanner}, nil
}

// Next advances to the next non-comment line. It returns false at the end of the file
// or on error; Err distinguishes the two.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}
	for r.scanner.Scan() {
		r.lineNum++
		text := strings.TrimRight(r.scanner.Text(), " \t\r\n")
		if strings.HasPrefix(text, commentPrefix) {
			r.comments++
			continue
		}
		r.line = Line{Number: r.lineNum, Text: text}
		return true
	}
	if err := r.scanner.Err(); err != nil {
		r.err = errors.WithStack(&acctdberrors.ErrIO{Path: r.path, Op: "decompress", Cause: err})
	}
	return false
}

// Line returns the line read by the last successful call to Next.
func (r *Reader) Line() Line {
	return r.line
}

// Err returns the first read or decompression error, if any.
func (r *Reader) Err() error {
	return r.err
}

// Path returns the file being read.
func (r *Reader) Path() string {
	return r.path
}

// Lines returns the number of lines consumed so far, comments included.
func (r *Reader) Lines() int {
	return r.lineNum
}

// Comments returns the number of comment lines discarded so far.
func (r *Reader) Comments() int {
	return r.comments
}

func (r *Reader) Close() error {
	gzErr := r.gz.Close()
	if err := r.file.Close(); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(gzErr)
}
