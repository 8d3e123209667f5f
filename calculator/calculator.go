// Package calculator parses and evaluates aperture macro arithmetic:
// numeric literals, $n variables, parentheses and the binary operators
// + - x /. Multiplicative operators bind tighter than additive ones and both
// associate to the left.
package calculator

import (
	"strconv"
	"strings"
)

// Variables binds $n names to values. Unknown names evaluate to 0.
type Variables map[string]float64

type Calculator interface {
	Calc(vars Variables) float64
}

type OpCode int

const (
	Nop OpCode = iota
	Add
	Sub
	Mul
	Div
	Neg
	Plus
)

func (oc OpCode) String() string {
	switch oc {
	case Add, Plus:
		return "+"
	case Sub, Neg:
		return "-"
	case Mul:
		return "x"
	case Div:
		return "/"
	case Nop:
		return "<nop>"
	default:
	}
	return "bad OpCode"
}

// Operand is a leaf (constant or variable) or wraps an Operation.
type Operand struct {
	variableName string
	value        float64
	operation    *Operation
}

func NewConstant(v float64) *Operand {
	return &Operand{value: v}
}

func NewVariable(name string) *Operand {
	return &Operand{variableName: name}
}

func (op *Operand) IsConstant() bool {
	return op.operation == nil && op.variableName == ""
}

func (op *Operand) Calc(vars Variables) float64 {
	if op.operation != nil {
		return op.operation.Calc(vars)
	}
	if op.variableName != "" {
		return vars[op.variableName]
	}
	return op.value
}

func (op *Operand) String() string {
	switch {
	case op.operation != nil:
		return op.operation.String()
	case op.variableName != "":
		return op.variableName
	}
	return strconv.FormatFloat(op.value, 'f', -1, 64)
}

type Operation struct {
	firstOperand  *Operand
	secondOperand *Operand
	operation     OpCode
}

func (op *Operation) Calc(vars Variables) float64 {
	switch op.operation {
	case Neg:
		return -op.firstOperand.Calc(vars)
	case Plus:
		return op.firstOperand.Calc(vars)
	}
	a := op.firstOperand.Calc(vars)
	b := op.secondOperand.Calc(vars)
	switch op.operation {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mul:
		return a * b
	case Div:
		if b == 0 {
			return 0
		}
		return a / b
	}
	return 0
}

func (op *Operation) String() string {
	switch op.operation {
	case Neg, Plus:
		return op.operation.String() + op.firstOperand.String()
	}
	return "(" + op.firstOperand.String() + op.operation.String() + op.secondOperand.String() + ")"
}

// Parse builds an expression tree. It never fails: text that is neither a
// number nor a $n variable becomes a variable that evaluates to 0.
func Parse(str string) *Operand {
	str = strings.Join(strings.Fields(str), "")
	if str == "" {
		return NewConstant(0)
	}
	if isNumber(str) {
		v, _ := strconv.ParseFloat(str, 64)
		return NewConstant(v)
	}
	if isVariable(str) {
		return NewVariable(str)
	}

	// additive split, rightmost operator at depth 0 that is not a sign
	depth := 0
	for i := len(str) - 1; i > 0; i-- {
		c := str[i]
		if c == ')' {
			depth++
		}
		if c == '(' {
			depth--
		}
		if depth == 0 && (c == '+' || c == '-') && !strings.ContainsRune("xX/(+-", rune(str[i-1])) {
			opCode := Add
			if c == '-' {
				opCode = Sub
			}
			return binary(Parse(str[:i]), Parse(str[i+1:]), opCode)
		}
	}

	depth = 0
	for i := len(str) - 1; i > 0; i-- {
		c := str[i]
		if c == ')' {
			depth++
		}
		if c == '(' {
			depth--
		}
		if depth == 0 && (c == 'x' || c == 'X' || c == '/') {
			opCode := Mul
			if c == '/' {
				opCode = Div
			}
			return binary(Parse(str[:i]), Parse(str[i+1:]), opCode)
		}
	}

	if strings.HasPrefix(str, "(") && strings.HasSuffix(str, ")") {
		return Parse(str[1 : len(str)-1])
	}

	switch str[0] {
	case '-':
		return &Operand{operation: &Operation{firstOperand: Parse(str[1:]), operation: Neg}}
	case '+':
		return &Operand{operation: &Operation{firstOperand: Parse(str[1:]), operation: Plus}}
	}

	if v, err := strconv.ParseFloat(str, 64); err == nil {
		return NewConstant(v)
	}
	return NewVariable(str)
}

func binary(a, b *Operand, opCode OpCode) *Operand {
	return &Operand{operation: &Operation{firstOperand: a, secondOperand: b, operation: opCode}}
}

// CalcExpression parses and evaluates str with the given bindings.
func CalcExpression(str string, vars Variables) float64 {
	return Parse(str).Calc(vars)
}

// [+-]?\d*\.?\d+
func isNumber(s string) bool {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	dot := strings.IndexByte(s, '.')
	if dot == len(s)-1 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if i == dot {
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// \$\d+
func isVariable(s string) bool {
	if len(s) < 2 || s[0] != '$' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
