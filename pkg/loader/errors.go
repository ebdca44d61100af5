package loader

import "fmt"

// FileError reports a path that could not be walked, stat'ed or read.
type FileError struct {
	Err  error
	Path string
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// FormatError reports a file that is not a valid profile record: a YAML or
// TOML syntax error, a schema violation, or a record that cannot be turned
// into a profile. Line and Column are one-based, and zero when unknown.
type FormatError struct {
	Err    error
	Path   string
	Line   int
	Column int
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %v", e.Path, e.Line, e.Column, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
