package yaml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

// Error is a YAML error located either by the token where decoding failed or
// by the path of the value that failed schema validation.
type Error struct {
	Err    error
	Path   *yaml.Path
	Token  *token.Token
	Source []byte
}

func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{Err: err}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

type ErrorOpt func(e *Error)

func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) {
		e.Path = path
	}
}

func WithToken(tk *token.Token) ErrorOpt {
	return func(e *Error) {
		e.Token = tk
	}
}

func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = source
	}
}

// Wrap attaches source to err when err is an [*Error], so that its position
// can be resolved. Other errors are returned unmodified.
func Wrap(err error, source []byte) error {
	var yamlErr *Error
	if errors.As(err, &yamlErr) {
		yamlErr.Source = source

		return yamlErr
	}

	return err
}

func (e Error) Error() string {
	if e.Err == nil {
		return ""
	}

	line, col := e.Position()
	switch {
	case line > 0:
		if e.Path != nil {
			return fmt.Sprintf("[%d:%d] error at %s: %v", line, col, e.Path.String(), e.Err)
		}

		return fmt.Sprintf("[%d:%d] %v", line, col, e.Err)

	case e.Path != nil:
		return fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)
	}

	return e.Err.Error()
}

func (e Error) Unwrap() error {
	return e.Err
}

// Position returns the one-based line and column of the error, or zeros when
// it cannot be determined.
func (e Error) Position() (int, int) {
	tk := e.Token
	if tk == nil && e.Path != nil && len(e.Source) > 0 {
		var err error

		tk, err = getTokenFromPath(e.Source, e.Path)
		if err != nil {
			return 0, 0
		}
	}

	if tk == nil || tk.Position == nil {
		return 0, 0
	}

	return tk.Position.Line, tk.Position.Column
}

// Annotate returns the source around the error with a marker, or an empty
// string when there is no source or path to annotate.
func (e Error) Annotate(colored bool) string {
	if e.Path == nil || len(e.Source) == 0 {
		return ""
	}

	b, err := e.Path.AnnotateSource(e.Source, colored)
	if err != nil {
		return ""
	}

	return string(b)
}

func getTokenFromPath(source []byte, path *yaml.Path) (*token.Token, error) {
	file, err := parser.ParseBytes(source, 0)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}

	node, err := path.FilterFile(file)
	if err != nil {
		return nil, fmt.Errorf("filter by path: %w", err)
	}

	// FilterFile returns the value node; point at its key where there is one.
	if keyToken := findKeyToken(file, path); keyToken != nil {
		return keyToken, nil
	}

	return node.GetToken(), nil
}

func findKeyToken(file *ast.File, path *yaml.Path) *token.Token {
	pathStr := path.String()

	lastDot := strings.LastIndex(pathStr, ".")
	lastBracket := strings.LastIndex(pathStr, "[")

	if lastDot <= lastBracket {
		return nil
	}

	parentPath, err := yaml.PathString(pathStr[:lastDot])
	if err != nil {
		return nil
	}

	parentNode, err := parentPath.FilterFile(file)
	if err != nil {
		return nil
	}

	mapping, ok := parentNode.(*ast.MappingNode)
	if !ok {
		return nil
	}

	segment := pathStr[lastDot+1:]
	for _, val := range mapping.Values {
		if val.Key.String() == segment {
			return val.Key.GetToken()
		}
	}

	return nil
}
