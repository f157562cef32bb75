package mathexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval_Arithmetic(t *testing.T) {
	cases := []struct {
		expression string
		expected   float64
	}{
		{"2 + 2", 4},
		{"15 * 23", 345},
		{"10 - 4 - 3", 3},
		{"8 / 2 / 2", 2},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 % 3", 1},
		{"-5 + 3", -2},
		{"-(2 + 3)", -5},
		{"2 ^ 10", 1024},
		{"2 ^ 3 ^ 2", 512}, // right-associative
		{"3.5 * 2", 7},
	}

	for _, tc := range cases {
		t.Run(tc.expression, func(t *testing.T) {
			result, err := Eval(tc.expression)
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, result, 1e-9)
		})
	}
}

func TestEval_Functions(t *testing.T) {
	cases := []struct {
		expression string
		expected   float64
	}{
		{"sqrt(16)", 4},
		{"abs(-3)", 3},
		{"pow(2, 8)", 256},
		{"min(3, 1, 2)", 1},
		{"max(3, 1, 2)", 3},
		{"sum(1, 2, 3, 4)", 10},
		{"round(2.5)", 3},
		{"floor(2.9)", 2},
		{"ceil(2.1)", 3},
		{"log(e)", 1},
		{"log10(1000)", 3},
		{"exp(0)", 1},
		{"sin(0)", 0},
		{"cos(0)", 1},
		{"sqrt(pow(3, 2) + pow(4, 2))", 5},
	}

	for _, tc := range cases {
		t.Run(tc.expression, func(t *testing.T) {
			result, err := Eval(tc.expression)
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, result, 1e-9)
		})
	}
}

func TestEval_Constants(t *testing.T) {
	result, err := Eval("pi")
	require.NoError(t, err)
	assert.InDelta(t, 3.14159265, result, 1e-6)
}

func TestEval_Errors(t *testing.T) {
	cases := []struct {
		name       string
		expression string
		message    string
	}{
		{"division by zero", "1/0", "division by zero"},
		{"modulo by zero", "5 % 0", "modulo by zero"},
		{"unknown identifier", "x + 1", "unknown identifier"},
		{"unknown function", "frob(2)", "unknown function"},
		{"sqrt negative", "sqrt(-4)", "sqrt of negative"},
		{"log non-positive", "log(0)", "log of non-positive"},
		{"wrong arity", "pow(2)", "at least 2"},
		{"too many args", "sqrt(2, 3)", "at most 1"},
		{"dangling operator", "2 +", "unexpected"},
		{"unbalanced paren", "(2 + 3", "parenthesis"},
		{"garbage", "2 $ 3", "unexpected character"},
		{"empty", "", "unexpected"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Eval(tc.expression)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestEval_NoCodeExecutionSurface(t *testing.T) {
	// Identifiers outside the allow-list never resolve to anything.
	_, err := Eval("__import__")
	require.Error(t, err)
	_, err = Eval("eval(1)")
	require.Error(t, err)
}
