package selector

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

// Protect CEL environment creation and compilation from concurrent access.
var celMutex sync.Mutex

// compile compiles expression into a program in a fresh environment.
//
//nolint:ireturn // Following CEL's function signature.
func compile(expression string) (cel.Program, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	env, err := cel.NewEnv(
		cel.Variable("input", cel.StringType),
		cel.Variable("labels", cel.ListType(cel.StringType)),
		cel.Lib(lib{}),
	)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	if !ast.OutputType().IsExactType(cel.BoolType) && !ast.OutputType().IsExactType(cel.DynType) {
		return nil, fmt.Errorf("%w: got %s", ErrNotBool, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return program, nil
}

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Strings(),
		ext.Lists(),

		// `words` splits a string on whitespace.
		// Example: words(input).exists(w, w.startsWith("@")).
		cel.Function("words",
			cel.Overload("words_string", []*cel.Type{cel.StringType}, cel.ListType(cel.StringType),
				cel.UnaryBinding(func(s ref.Val) ref.Val {
					str, ok := s.(types.String)
					if !ok {
						return types.NewErr("words: invalid string value")
					}

					return types.NewStringList(types.DefaultTypeAdapter, strings.Fields(string(str)))
				}),
			),
		),

		// `lines` splits a string on newlines.
		// Example: size(lines(input)) > 1.
		cel.Function("lines",
			cel.Overload("lines_string", []*cel.Type{cel.StringType}, cel.ListType(cel.StringType),
				cel.UnaryBinding(func(s ref.Val) ref.Val {
					str, ok := s.(types.String)
					if !ok {
						return types.NewErr("lines: invalid string value")
					}

					return types.NewStringList(types.DefaultTypeAdapter, strings.Split(string(str), "\n"))
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}
