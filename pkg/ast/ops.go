package ast

import "github.com/nooga/esfront/pkg/lexer"

// BinaryOp is the operator of a Binary expression.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpExp
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpUShr
	OpEq
	OpNotEq
	OpStrictEq
	OpStrictNotEq
	OpLessThan
	OpGreaterThan
	OpLessThanOrEq
	OpGreaterThanOrEq
	OpIn
	OpInstanceOf
	OpLogicalAnd
	OpLogicalOr
	OpCoalesce
	OpComma
)

var binaryOpNames = [...]string{
	OpAdd:             "+",
	OpSub:             "-",
	OpMul:             "*",
	OpDiv:             "/",
	OpMod:             "%",
	OpExp:             "**",
	OpBitAnd:          "&",
	OpBitOr:           "|",
	OpBitXor:          "^",
	OpShl:             "<<",
	OpShr:             ">>",
	OpUShr:            ">>>",
	OpEq:              "==",
	OpNotEq:           "!=",
	OpStrictEq:        "===",
	OpStrictNotEq:     "!==",
	OpLessThan:        "<",
	OpGreaterThan:     ">",
	OpLessThanOrEq:    "<=",
	OpGreaterThanOrEq: ">=",
	OpIn:              "in",
	OpInstanceOf:      "instanceof",
	OpLogicalAnd:      "&&",
	OpLogicalOr:       "||",
	OpCoalesce:        "??",
	OpComma:           ",",
}

func (op BinaryOp) String() string { return binaryOpNames[op] }

// IsLogical reports whether op short-circuits.
func (op BinaryOp) IsLogical() bool {
	return op == OpLogicalAnd || op == OpLogicalOr || op == OpCoalesce
}

// BinaryOpFromPunct maps a binary operator token to its BinaryOp.
func BinaryOpFromPunct(p lexer.Punctuator) (BinaryOp, bool) {
	switch p {
	case lexer.PunctAdd:
		return OpAdd, true
	case lexer.PunctSub:
		return OpSub, true
	case lexer.PunctMul:
		return OpMul, true
	case lexer.PunctDiv:
		return OpDiv, true
	case lexer.PunctMod:
		return OpMod, true
	case lexer.PunctExp:
		return OpExp, true
	case lexer.PunctAnd:
		return OpBitAnd, true
	case lexer.PunctOr:
		return OpBitOr, true
	case lexer.PunctXor:
		return OpBitXor, true
	case lexer.PunctLeftSh:
		return OpShl, true
	case lexer.PunctRightSh:
		return OpShr, true
	case lexer.PunctURightSh:
		return OpUShr, true
	case lexer.PunctEq:
		return OpEq, true
	case lexer.PunctNotEq:
		return OpNotEq, true
	case lexer.PunctStrictEq:
		return OpStrictEq, true
	case lexer.PunctStrictNotEq:
		return OpStrictNotEq, true
	case lexer.PunctLessThan:
		return OpLessThan, true
	case lexer.PunctGreaterThan:
		return OpGreaterThan, true
	case lexer.PunctLessThanOrEq:
		return OpLessThanOrEq, true
	case lexer.PunctGreaterThanOrEq:
		return OpGreaterThanOrEq, true
	case lexer.PunctBoolAnd:
		return OpLogicalAnd, true
	case lexer.PunctBoolOr:
		return OpLogicalOr, true
	case lexer.PunctCoalesce:
		return OpCoalesce, true
	case lexer.PunctComma:
		return OpComma, true
	}
	return 0, false
}

// UnaryOp is the operator of a Unary expression.
type UnaryOp uint8

const (
	UnaryMinus UnaryOp = iota
	UnaryPlus
	UnaryNot
	UnaryTilde
	UnaryTypeOf
	UnaryDelete
	UnaryVoid
)

var unaryOpNames = [...]string{
	UnaryMinus:  "-",
	UnaryPlus:   "+",
	UnaryNot:    "!",
	UnaryTilde:  "~",
	UnaryTypeOf: "typeof",
	UnaryDelete: "delete",
	UnaryVoid:   "void",
}

func (op UnaryOp) String() string { return unaryOpNames[op] }

// UpdateOp is the operator of an Update expression.
type UpdateOp uint8

const (
	IncrementPre UpdateOp = iota
	IncrementPost
	DecrementPre
	DecrementPost
)

// IsPrefix reports whether the operator is written before the operand.
func (op UpdateOp) IsPrefix() bool { return op == IncrementPre || op == DecrementPre }

func (op UpdateOp) String() string {
	if op == IncrementPre || op == IncrementPost {
		return "++"
	}
	return "--"
}

// AssignOp is the operator of an Assign expression.
type AssignOp uint8

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
	AssignExp
	AssignAnd
	AssignOr
	AssignXor
	AssignShl
	AssignShr
	AssignUShr
	AssignBoolAnd
	AssignBoolOr
	AssignCoalesce
)

var assignOpNames = [...]string{
	AssignPlain:    "=",
	AssignAdd:      "+=",
	AssignSub:      "-=",
	AssignMul:      "*=",
	AssignDiv:      "/=",
	AssignMod:      "%=",
	AssignExp:      "**=",
	AssignAnd:      "&=",
	AssignOr:       "|=",
	AssignXor:      "^=",
	AssignShl:      "<<=",
	AssignShr:      ">>=",
	AssignUShr:     ">>>=",
	AssignBoolAnd:  "&&=",
	AssignBoolOr:   "||=",
	AssignCoalesce: "??=",
}

func (op AssignOp) String() string { return assignOpNames[op] }

// IsShortCircuit reports whether op is `&&=`, `||=` or `??=`.
func (op AssignOp) IsShortCircuit() bool {
	return op == AssignBoolAnd || op == AssignBoolOr || op == AssignCoalesce
}

// AssignOpFromPunct maps an assignment operator token to its AssignOp.
func AssignOpFromPunct(p lexer.Punctuator) (AssignOp, bool) {
	switch p {
	case lexer.PunctAssign:
		return AssignPlain, true
	case lexer.PunctAssignAdd:
		return AssignAdd, true
	case lexer.PunctAssignSub:
		return AssignSub, true
	case lexer.PunctAssignMul:
		return AssignMul, true
	case lexer.PunctAssignDiv:
		return AssignDiv, true
	case lexer.PunctAssignMod:
		return AssignMod, true
	case lexer.PunctAssignPow:
		return AssignExp, true
	case lexer.PunctAssignAnd:
		return AssignAnd, true
	case lexer.PunctAssignOr:
		return AssignOr, true
	case lexer.PunctAssignXor:
		return AssignXor, true
	case lexer.PunctAssignLeftSh:
		return AssignShl, true
	case lexer.PunctAssignRightSh:
		return AssignShr, true
	case lexer.PunctAssignURightSh:
		return AssignUShr, true
	case lexer.PunctAssignBoolAnd:
		return AssignBoolAnd, true
	case lexer.PunctAssignBoolOr:
		return AssignBoolOr, true
	case lexer.PunctAssignCoalesce:
		return AssignCoalesce, true
	}
	return 0, false
}
