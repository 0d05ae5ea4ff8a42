package report

import (
	"strings"

	"github.com/agenthands/ecco/internal/core/model"
)

// Render writes an axiom in a Manchester-like syntax using naming for entities.
func Render(ax model.Axiom, naming Naming) string {
	ops := ax.Operands()
	r := func(i int) string { return renderExpr(ops[i], naming, false) }
	join := func(sep string) string {
		parts := make([]string, len(ops))
		for i := range ops {
			parts[i] = r(i)
		}
		return strings.Join(parts, sep)
	}

	switch ax.Type() {
	case model.SubClassOf:
		return r(0) + " SubClassOf " + r(1)
	case model.EquivalentClasses:
		return join(" EquivalentTo ")
	case model.DisjointClasses:
		return "DisjointClasses: " + join(", ")
	case model.ObjectPropertyDomain:
		return r(0) + " Domain " + r(1)
	case model.ObjectPropertyRange:
		return r(0) + " Range " + r(1)
	case model.SubObjectPropertyOf:
		return r(0) + " SubPropertyOf " + r(1)
	case model.EquivalentObjectProperties:
		return "EquivalentProperties: " + join(", ")
	case model.InverseObjectProperties:
		return r(0) + " InverseOf " + r(1)
	case model.TransitiveObjectProperty:
		return "Transitive: " + r(0)
	case model.FunctionalObjectProperty:
		return "Functional: " + r(0)
	case model.SymmetricObjectProperty:
		return "Symmetric: " + r(0)
	case model.ClassAssertion:
		return r(1) + " Type " + r(0)
	case model.ObjectPropertyAssertion:
		return r(1) + " " + r(0) + " " + r(2)
	case model.SameIndividual:
		return "SameIndividual: " + join(", ")
	case model.DifferentIndividuals:
		return "DifferentIndividuals: " + join(", ")
	case model.Declaration:
		return declarationKeyword(ops[0].Entity.Kind) + ": " + r(0)
	}
	return ax.String()
}

func declarationKeyword(k model.EntityKind) string {
	switch k {
	case model.KindClass:
		return "Class"
	case model.KindObjectProperty:
		return "ObjectProperty"
	case model.KindDataProperty:
		return "DataProperty"
	case model.KindAnnotationProperty:
		return "AnnotationProperty"
	case model.KindIndividual:
		return "Individual"
	}
	return "Entity"
}

func renderExpr(x model.Expression, naming Naming, nested bool) string {
	var s string
	switch x.Op {
	case model.OpNamed:
		return naming.Name(x.Entity)
	case model.OpAnd, model.OpOr:
		sep := " and "
		if x.Op == model.OpOr {
			sep = " or "
		}
		parts := make([]string, len(x.Operands))
		for i, o := range x.Operands {
			parts[i] = renderExpr(o, naming, true)
		}
		s = strings.Join(parts, sep)
	case model.OpNot:
		return "not " + renderExpr(x.Operands[0], naming, true)
	case model.OpSome:
		s = naming.Name(x.Operands[0].Entity) + " some " + renderExpr(x.Operands[1], naming, true)
	case model.OpOnly:
		s = naming.Name(x.Operands[0].Entity) + " only " + renderExpr(x.Operands[1], naming, true)
	}
	if nested {
		return "(" + s + ")"
	}
	return s
}
