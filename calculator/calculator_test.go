package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperation_Calc(t *testing.T) {
	val1 := 222.222
	val2 := 333.333
	op1 := Operand{"op1", val1, nil}
	op2 := Operand{"", val2, nil}
	oper1 := Operation{&op1, &op2, Add}
	op3 := Operand{"", 0, &oper1}

	oper2 := Operation{&op3, nil, Neg}

	vars := Variables{"op1": val1}
	assert.Equal(t, val1+val2, op3.Calc(vars))
	assert.Equal(t, -(val1 + val2), oper2.Calc(vars))
	assert.Equal(t, val2, op3.Calc(nil), "unbound variable is zero")
}

type testCase struct {
	src string
	ans float64
}

var src = []testCase{
	{"-2x3", -2 * 3},
	{"-2X-3", -2 * -3},
	{"2x3", 2 * 3},
	{"(((-2)))", -2},
	{"2--3", 2 - -3},
	{"2/-3.0", 2 / -3.0},
	{"-2--3", -2 - (-3)},
	{"-2+1-1", -2 + 1 - 1},
	{"2+1-1", 2 + 1 - 1},
	{"-2+1--3", -2 + 1 - (-3)},
	{"-6x9/8", -6 * 9 / 8.0},
	{"-6x9/8x8/-4X787.33", -6 * 9 / 8.0 * 8 / -4 * 787.33},
	{"-6x9/1x-6x9/2/-6x9/3", -6 * 9 / 1 * -6 * 9 / 2 / -6 * 9 / 3},
	{"-1", -1},
	{"10-4-3", 3},
	{"8/4/2", 1},
	{"-(1+2)", -3},
	{" 1 + 2 x 3 ", 7},
	{"(-2x(333+444x4343)/555)-(666-(-777x(888x(-999--1000))))+(11-12)", -697593},
}

func TestCalcExpression(t *testing.T) {
	for _, s := range src {
		assert.InDelta(t, s.ans, CalcExpression(s.src, nil), 1e-9, s.src)
	}
}

func TestCalcExpression_Variables(t *testing.T) {
	vars := Variables{"$1": 3, "$2": 4}
	assert.Equal(t, 11.0, CalcExpression("$1+$2x2", vars))
	assert.Equal(t, 14.0, CalcExpression("($1+$2)x2", vars))
	assert.Equal(t, -1.0, CalcExpression("$1-$2", vars))
	assert.Equal(t, -3.0, CalcExpression("-$1", vars))
	assert.Equal(t, 0.0, CalcExpression("$9", vars))
	assert.Equal(t, 0.0, CalcExpression("$1/0", vars))
	assert.Equal(t, 0.0, CalcExpression("", vars))
}

func TestParse_String(t *testing.T) {
	assert.Equal(t, "($1+($2x2))", Parse("$1+$2x2").String())
	assert.Equal(t, "((10-4)-3)", Parse("10-4-3").String())
	assert.True(t, Parse("1.5").IsConstant())
	assert.False(t, Parse("$1").IsConstant())
}
