package expression

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the data a screenshot filter expression is evaluated against.
type Env struct {
	AppID    int
	FileName string
	Path     string
	Title    string
	Resolved bool
}

type CompiledExpression struct {
	Program *vm.Program
	Text    string
}

// Compile compiles every expression, which must evaluate to a bool.
func Compile(expressions []string) ([]CompiledExpression, error) {
	compiled := make([]CompiledExpression, 0, len(expressions))

	for _, text := range expressions {
		program, err := expr.Compile(text, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile expression %q: %w", text, err)
		}

		compiled = append(compiled, CompiledExpression{Program: program, Text: text})
	}

	return compiled, nil
}

// CheckSingleMatchWithReason reports whether any expression matches env and
// returns the text of the first one that does.
func CheckSingleMatchWithReason(env Env, expressions []CompiledExpression) (bool, string, error) {
	for _, expression := range expressions {
		result, err := expr.Run(expression.Program, env)
		if err != nil {
			return false, "", fmt.Errorf("check expression: %w", err)
		}

		expResult, ok := result.(bool)
		if !ok {
			return false, "", fmt.Errorf("expression result is not a bool: %T", result)
		}

		if expResult {
			return true, expression.Text, nil
		}
	}

	return false, "", nil
}
