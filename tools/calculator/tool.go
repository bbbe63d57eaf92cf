package calculator

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Knetic/govaluate"

	"github.com/bububa/docassist/schema"
	"github.com/bububa/docassist/tools"
)

const Name = "calculate"

// Input Tool for performing calculations. Supports arithmetic operators
// and exponentiation with ** over numeric literals.
type Input struct {
	// Expression Mathematical expression to evaluate. For example '2 + 2'.
	Expression string `json:"expression" jsonschema:"title=expression,description=Mathematical expression to evaluate. For example '2 + 2' or '10 * 5'." validate:"required"`
}

var _ schema.Schema = (*Input)(nil)

func NewInput(exp string) *Input {
	return &Input{
		Expression: exp,
	}
}

func (i Input) Validate() error {
	return schema.ValidateStruct(i)
}

// EvaluationError is returned for expressions that cannot be evaluated to a finite number
type EvaluationError struct {
	Expression string
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("Error in calculation: %v", e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

var (
	ErrNotArithmetic = errors.New("only arithmetic expressions over numbers are allowed")
	ErrNotFinite     = errors.New("result is not a finite number")
)

// bitwise operators are left out, govaluate truncates their operands to int64
var allowedModifiers = map[string]struct{}{
	"+": {}, "-": {}, "*": {}, "/": {}, "%": {}, "**": {},
}

var allowedPrefixes = map[string]struct{}{
	"-": {},
}

type Tool struct {
	tools.Config
}

var _ tools.AnonymousTool = (*Tool)(nil)

func New(opts ...tools.Option) *Tool {
	ret := new(Tool)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle(Name)
	}
	if ret.Description() == "" {
		ret.SetDescription("Perform mathematical calculations. Evaluates an arithmetic expression such as \"2 + 2\" or \"10 * 5\" and returns the numeric result.")
	}
	return ret
}

func (t *Tool) Parameters() map[string]any {
	return tools.Parameters[Input]()
}

// Run evaluates the expression
func (t *Tool) Run(ctx context.Context, input *Input) (float64, error) {
	return Evaluate(input.Expression)
}

func (t *Tool) RunAnonymous(ctx context.Context, args map[string]any) (any, error) {
	input, err := tools.DecodeArgs[Input](args)
	if err != nil {
		return nil, err
	}
	return t.Run(ctx, input)
}

// Evaluate evaluates an arithmetic expression.
// Names, strings, comparators, logical and bitwise operators, functions and ternaries are rejected.
func Evaluate(expression string) (ret float64, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ret = 0
			err = &EvaluationError{Expression: expression, Err: fmt.Errorf("%v", rec)}
		}
	}()
	exp, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return 0, &EvaluationError{Expression: expression, Err: err}
	}
	if err := checkTokens(exp.Tokens()); err != nil {
		return 0, &EvaluationError{Expression: expression, Err: err}
	}
	result, err := exp.Evaluate(nil)
	if err != nil {
		return 0, &EvaluationError{Expression: expression, Err: err}
	}
	value, ok := result.(float64)
	if !ok {
		return 0, &EvaluationError{Expression: expression, Err: ErrNotArithmetic}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &EvaluationError{Expression: expression, Err: ErrNotFinite}
	}
	return value, nil
}

func checkTokens(tokens []govaluate.ExpressionToken) error {
	if len(tokens) == 0 {
		return ErrNotArithmetic
	}
	for _, token := range tokens {
		switch token.Kind {
		case govaluate.NUMERIC, govaluate.CLAUSE, govaluate.CLAUSE_CLOSE:
		case govaluate.MODIFIER:
			if _, ok := allowedModifiers[fmt.Sprint(token.Value)]; !ok {
				return fmt.Errorf("operator %v: %w", token.Value, ErrNotArithmetic)
			}
		case govaluate.PREFIX:
			if _, ok := allowedPrefixes[fmt.Sprint(token.Value)]; !ok {
				return fmt.Errorf("operator %v: %w", token.Value, ErrNotArithmetic)
			}
		default:
			return fmt.Errorf("token %v: %w", token.Value, ErrNotArithmetic)
		}
	}
	return nil
}
