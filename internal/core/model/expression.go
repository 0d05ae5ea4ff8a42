package model

import (
	"sort"
	"strings"
)

type Operator int

const (
	OpNamed Operator = iota
	OpAnd
	OpOr
	OpNot
	OpSome
	OpOnly
)

func (o Operator) functional() string {
	switch o {
	case OpAnd:
		return "ObjectIntersectionOf"
	case OpOr:
		return "ObjectUnionOf"
	case OpNot:
		return "ObjectComplementOf"
	case OpSome:
		return "ObjectSomeValuesFrom"
	case OpOnly:
		return "ObjectAllValuesFrom"
	default:
		return ""
	}
}

// Expression is a named entity or a compound class expression. For OpSome and OpOnly the
// first operand is the property and the second the filler.
type Expression struct {
	Op       Operator
	Entity   Entity
	Operands []Expression
}

func Named(e Entity) Expression { return Expression{Op: OpNamed, Entity: e} }

func And(operands ...Expression) Expression { return compound(OpAnd, operands) }
func Or(operands ...Expression) Expression  { return compound(OpOr, operands) }
func Not(operand Expression) Expression     { return Expression{Op: OpNot, Operands: []Expression{operand}} }

func Some(property Entity, filler Expression) Expression {
	return Expression{Op: OpSome, Operands: []Expression{Named(property), filler}}
}

func Only(property Entity, filler Expression) Expression {
	return Expression{Op: OpOnly, Operands: []Expression{Named(property), filler}}
}

// compound sorts the operands of commutative constructors so that equal expressions share
// one canonical form.
func compound(op Operator, operands []Expression) Expression {
	ops := append([]Expression(nil), operands...)
	sort.SliceStable(ops, func(i, j int) bool { return ops[i].Key() < ops[j].Key() })
	return Expression{Op: op, Operands: ops}
}

func (x Expression) IsNamed() bool { return x.Op == OpNamed }

func (x Expression) IsTop() bool    { return x.IsNamed() && x.Entity.IsTop() }
func (x Expression) IsBottom() bool { return x.IsNamed() && x.Entity.IsBottom() }

// Key is the canonical functional-style text of the expression.
func (x Expression) Key() string {
	var b strings.Builder
	x.writeKey(&b)
	return b.String()
}

func (x Expression) writeKey(b *strings.Builder) {
	if x.IsNamed() {
		b.WriteString(x.Entity.Name)
		return
	}
	b.WriteString(x.Op.functional())
	b.WriteByte('(')
	for i, o := range x.Operands {
		if i > 0 {
			b.WriteByte(' ')
		}
		o.writeKey(b)
	}
	b.WriteByte(')')
}

// Signature collects the entities mentioned by the expression.
func (x Expression) Signature() Signature {
	s := Signature{}
	x.collect(s)
	return s
}

func (x Expression) collect(s Signature) {
	if x.IsNamed() {
		s.Add(x.Entity)
		return
	}
	for _, o := range x.Operands {
		o.collect(s)
	}
}
