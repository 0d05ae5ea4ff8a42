package model

import (
	"fmt"
	"sort"
	"strings"
)

type AxiomType int

const (
	SubClassOf AxiomType = iota + 1
	EquivalentClasses
	DisjointClasses
	ObjectPropertyDomain
	ObjectPropertyRange
	SubObjectPropertyOf
	EquivalentObjectProperties
	InverseObjectProperties
	TransitiveObjectProperty
	FunctionalObjectProperty
	SymmetricObjectProperty
	ClassAssertion
	ObjectPropertyAssertion
	SameIndividual
	DifferentIndividuals
	Declaration
)

// Category groups axiom types the way reasoners partition a knowledge base.
type Category int

const (
	TBox Category = iota + 1
	RBox
	ABox
	NonLogical
)

func (c Category) String() string {
	switch c {
	case TBox:
		return "tbox"
	case RBox:
		return "rbox"
	case ABox:
		return "abox"
	case NonLogical:
		return "nonlogical"
	default:
		return "unknown"
	}
}

type operandKind int

const (
	argClass operandKind = iota
	argProperty
	argIndividual
	argEntity
)

type typeInfo struct {
	name     string
	category Category
	args     []operandKind
	// variadic types repeat args[0] and need at least two operands; their operands are
	// unordered.
	variadic bool
}

var axiomTypes = map[AxiomType]typeInfo{
	SubClassOf:                 {"SubClassOf", TBox, []operandKind{argClass, argClass}, false},
	EquivalentClasses:          {"EquivalentClasses", TBox, []operandKind{argClass}, true},
	DisjointClasses:            {"DisjointClasses", TBox, []operandKind{argClass}, true},
	ObjectPropertyDomain:       {"ObjectPropertyDomain", TBox, []operandKind{argProperty, argClass}, false},
	ObjectPropertyRange:        {"ObjectPropertyRange", TBox, []operandKind{argProperty, argClass}, false},
	SubObjectPropertyOf:        {"SubObjectPropertyOf", RBox, []operandKind{argProperty, argProperty}, false},
	EquivalentObjectProperties: {"EquivalentObjectProperties", RBox, []operandKind{argProperty}, true},
	InverseObjectProperties:    {"InverseObjectProperties", RBox, []operandKind{argProperty, argProperty}, false},
	TransitiveObjectProperty:   {"TransitiveObjectProperty", RBox, []operandKind{argProperty}, false},
	FunctionalObjectProperty:   {"FunctionalObjectProperty", RBox, []operandKind{argProperty}, false},
	SymmetricObjectProperty:    {"SymmetricObjectProperty", RBox, []operandKind{argProperty}, false},
	ClassAssertion:             {"ClassAssertion", ABox, []operandKind{argClass, argIndividual}, false},
	ObjectPropertyAssertion:    {"ObjectPropertyAssertion", ABox, []operandKind{argProperty, argIndividual, argIndividual}, false},
	SameIndividual:             {"SameIndividual", ABox, []operandKind{argIndividual}, true},
	DifferentIndividuals:       {"DifferentIndividuals", ABox, []operandKind{argIndividual}, true},
	Declaration:                {"Declaration", NonLogical, []operandKind{argEntity}, false},
}

func (t AxiomType) String() string {
	if info, ok := axiomTypes[t]; ok {
		return info.name
	}
	return "Unknown"
}

func (t AxiomType) Category() Category {
	return axiomTypes[t].category
}

func (t AxiomType) IsLogical() bool {
	c := t.Category()
	return c != NonLogical && c != 0
}

// OperandKind returns the entity kind a named operand at position i must have. Class
// positions also accept compound expressions. It reports false past the arity of the type and
// for declarations, whose operand can be any entity.
func (t AxiomType) OperandKind(i int) (EntityKind, bool) {
	info, ok := axiomTypes[t]
	if !ok || i < 0 {
		return 0, false
	}
	var arg operandKind
	switch {
	case info.variadic:
		arg = info.args[0]
	case i < len(info.args):
		arg = info.args[i]
	default:
		return 0, false
	}
	switch arg {
	case argClass:
		return KindClass, true
	case argProperty:
		return KindObjectProperty, true
	case argIndividual:
		return KindIndividual, true
	}
	return 0, false
}

// ParseAxiomType matches a functional-syntax type name case-insensitively.
func ParseAxiomType(s string) (AxiomType, bool) {
	for t, info := range axiomTypes {
		if strings.EqualFold(info.name, s) {
			return t, true
		}
	}
	return 0, false
}

// Axiom is an immutable logical statement. Two axioms are equal iff their keys are equal.
type Axiom struct {
	typ       AxiomType
	operands  []Expression
	key       string
	signature Signature
}

// NewAxiom validates the operands against the type and builds the canonical form.
func NewAxiom(typ AxiomType, operands ...Expression) (Axiom, error) {
	info, ok := axiomTypes[typ]
	if !ok {
		return Axiom{}, fmt.Errorf("unknown axiom type %d", typ)
	}
	if info.variadic {
		if len(operands) < 2 {
			return Axiom{}, fmt.Errorf("%s needs at least 2 operands, got %d", info.name, len(operands))
		}
	} else if len(operands) != len(info.args) {
		return Axiom{}, fmt.Errorf("%s needs %d operands, got %d", info.name, len(info.args), len(operands))
	}

	for i, op := range operands {
		kind := info.args[0]
		if !info.variadic {
			kind = info.args[i]
		}
		if err := checkOperand(kind, op); err != nil {
			return Axiom{}, fmt.Errorf("%s operand %d: %w", info.name, i+1, err)
		}
	}

	ops := append([]Expression(nil), operands...)
	if info.variadic {
		sort.SliceStable(ops, func(i, j int) bool { return ops[i].Key() < ops[j].Key() })
		ops = dedupeSorted(ops)
		if len(ops) < 2 {
			return Axiom{}, fmt.Errorf("%s needs at least 2 distinct operands", info.name)
		}
	}

	ax := Axiom{typ: typ, operands: ops, signature: Signature{}}
	var b strings.Builder
	b.WriteString(info.name)
	b.WriteByte('(')
	for i, op := range ops {
		if i > 0 {
			b.WriteByte(' ')
		}
		// Declarations of the same name under different kinds are distinct axioms.
		if typ == Declaration {
			b.WriteString(op.Entity.Kind.functional())
			b.WriteByte('(')
			op.writeKey(&b)
			b.WriteByte(')')
		} else {
			op.writeKey(&b)
		}
		op.collect(ax.signature)
	}
	b.WriteByte(')')
	ax.key = b.String()
	return ax, nil
}

// MustAxiom is NewAxiom for statically known operands.
func MustAxiom(typ AxiomType, operands ...Expression) Axiom {
	ax, err := NewAxiom(typ, operands...)
	if err != nil {
		panic(err)
	}
	return ax
}

func Sub(sub, super Expression) Axiom {
	return MustAxiom(SubClassOf, sub, super)
}

func checkOperand(kind operandKind, op Expression) error {
	switch kind {
	case argClass:
		return checkClassExpression(op)
	case argProperty:
		if !op.IsNamed() || !op.Entity.Kind.IsProperty() {
			return fmt.Errorf("expected property")
		}
	case argIndividual:
		if !op.IsNamed() || op.Entity.Kind != KindIndividual {
			return fmt.Errorf("expected individual")
		}
	case argEntity:
		if !op.IsNamed() {
			return fmt.Errorf("expected named entity")
		}
	}
	return nil
}

func checkClassExpression(x Expression) error {
	switch x.Op {
	case OpNamed:
		if x.Entity.Kind != KindClass {
			return fmt.Errorf("expected class, got %s %q", x.Entity.Kind, x.Entity.Name)
		}
	case OpAnd, OpOr:
		if len(x.Operands) < 2 {
			return fmt.Errorf("%s needs at least 2 operands", x.Op.functional())
		}
		for _, o := range x.Operands {
			if err := checkClassExpression(o); err != nil {
				return err
			}
		}
	case OpNot:
		if len(x.Operands) != 1 {
			return fmt.Errorf("%s needs 1 operand", x.Op.functional())
		}
		return checkClassExpression(x.Operands[0])
	case OpSome, OpOnly:
		if len(x.Operands) != 2 || !x.Operands[0].IsNamed() || x.Operands[0].Entity.Kind != KindObjectProperty {
			return fmt.Errorf("%s needs an object property and a filler", x.Op.functional())
		}
		return checkClassExpression(x.Operands[1])
	}
	return nil
}

func dedupeSorted(ops []Expression) []Expression {
	out := ops[:0]
	for _, op := range ops {
		if len(out) > 0 && op.Key() == out[len(out)-1].Key() {
			continue
		}
		out = append(out, op)
	}
	return out
}

func (a Axiom) Type() AxiomType { return a.typ }

func (a Axiom) Category() Category { return a.typ.Category() }

func (a Axiom) IsLogical() bool { return a.typ.IsLogical() }

// Operands returns a copy of the operand list.
func (a Axiom) Operands() []Expression {
	return append([]Expression(nil), a.operands...)
}

func (a Axiom) Operand(i int) Expression { return a.operands[i] }

func (a Axiom) Arity() int { return len(a.operands) }

func (a Axiom) Key() string { return a.key }

func (a Axiom) String() string { return a.key }

// Signature returns the entities the axiom mentions. The returned set must not be modified.
func (a Axiom) Signature() Signature { return a.signature }

func (a Axiom) Equal(b Axiom) bool { return a.key == b.key }

// SubClass returns the sub-class operand of a SubClassOf axiom.
func (a Axiom) SubClass() (Expression, bool) {
	if a.typ != SubClassOf {
		return Expression{}, false
	}
	return a.operands[0], true
}

// SuperClass returns the super-class operand of a SubClassOf axiom.
func (a Axiom) SuperClass() (Expression, bool) {
	if a.typ != SubClassOf {
		return Expression{}, false
	}
	return a.operands[1], true
}

// IsTopSubsumption reports a SubClassOf axiom whose super-class is owl:Thing.
func (a Axiom) IsTopSubsumption() bool {
	super, ok := a.SuperClass()
	return ok && super.IsTop()
}

// IsBottomSubsumption reports a SubClassOf axiom whose sub-class is owl:Nothing.
func (a Axiom) IsBottomSubsumption() bool {
	sub, ok := a.SubClass()
	return ok && sub.IsBottom()
}
