package reasoner

import (
	"context"
	"sync"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/agenthands/ecco/internal/core/model"
)

const pollInterval = 5 * time.Millisecond

// Gini decides class-level entailments over a propositional abstraction of the TBox: named
// classes become variables, and restrictions become opaque variables keyed by their canonical
// form. Every model of the ontology induces a model of the abstraction, so an entailment found
// here holds in the ontology. The converse does not: answers are sound, not complete.
//
// Axioms outside the TBox are entailed only when asserted.
type Gini struct {
	ontology *model.Ontology
	timeout  time.Duration

	mu          sync.Mutex
	circuit     *logic.C
	atoms       map[string]z.Lit
	constraints []z.Lit
}

func NewGini(o *model.Ontology, timeout time.Duration) *Gini {
	g := &Gini{
		ontology: o,
		timeout:  timeout,
		circuit:  logic.NewC(),
		atoms:    make(map[string]z.Lit),
	}
	for _, ax := range o.LogicalAxioms().Sorted() {
		g.constraints = append(g.constraints, g.encode(ax)...)
	}
	return g
}

func (g *Gini) Signature() model.Signature { return g.ontology.Signature() }

func (g *Gini) Close() error { return nil }

func (g *Gini) Entails(ctx context.Context, ax model.Axiom) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if g.ontology.Contains(ax) {
		return true, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Each query is entailed iff it is unsatisfiable together with the constraints.
	var queries []z.Lit
	c := g.circuit
	switch ax.Type() {
	case model.SubClassOf:
		queries = append(queries, g.notSub(ax.Operand(0), ax.Operand(1)))
	case model.EquivalentClasses:
		ops := ax.Operands()
		for i := 0; i+1 < len(ops); i++ {
			queries = append(queries, g.notSub(ops[i], ops[i+1]), g.notSub(ops[i+1], ops[i]))
		}
	case model.DisjointClasses:
		ops := ax.Operands()
		for i := range ops {
			for j := i + 1; j < len(ops); j++ {
				queries = append(queries, c.And(g.lit(ops[i]), g.lit(ops[j])))
			}
		}
	case model.ObjectPropertyDomain:
		queries = append(queries, g.notSub(model.Some(ax.Operand(0).Entity, model.Named(model.Thing)), ax.Operand(1)))
	case model.ObjectPropertyRange:
		queries = append(queries, g.lit(model.Only(ax.Operand(0).Entity, ax.Operand(1))).Not())
	default:
		return false, nil
	}

	for _, q := range queries {
		sat, err := g.satisfiable(ctx, q)
		if err != nil {
			return false, err
		}
		if sat {
			return false, nil
		}
	}
	return true, nil
}

func (g *Gini) notSub(sub, super model.Expression) z.Lit {
	return g.circuit.And(g.lit(sub), g.lit(super).Not())
}

// encode returns the literals that must hold for the axiom to be satisfied.
func (g *Gini) encode(ax model.Axiom) []z.Lit {
	c := g.circuit
	implies := func(a, b z.Lit) z.Lit { return c.Or(a.Not(), b) }

	switch ax.Type() {
	case model.SubClassOf:
		return []z.Lit{implies(g.lit(ax.Operand(0)), g.lit(ax.Operand(1)))}
	case model.EquivalentClasses:
		ops := ax.Operands()
		var out []z.Lit
		for i := 0; i+1 < len(ops); i++ {
			a, b := g.lit(ops[i]), g.lit(ops[i+1])
			out = append(out, implies(a, b), implies(b, a))
		}
		return out
	case model.DisjointClasses:
		ops := ax.Operands()
		var out []z.Lit
		for i := range ops {
			for j := i + 1; j < len(ops); j++ {
				out = append(out, c.And(g.lit(ops[i]), g.lit(ops[j])).Not())
			}
		}
		return out
	case model.ObjectPropertyDomain:
		some := g.lit(model.Some(ax.Operand(0).Entity, model.Named(model.Thing)))
		return []z.Lit{implies(some, g.lit(ax.Operand(1)))}
	case model.ObjectPropertyRange:
		return []z.Lit{g.lit(model.Only(ax.Operand(0).Entity, ax.Operand(1)))}
	}
	return nil
}

func (g *Gini) lit(x model.Expression) z.Lit {
	c := g.circuit
	switch x.Op {
	case model.OpNamed:
		switch {
		case x.IsTop():
			return c.T
		case x.IsBottom():
			return c.F
		}
		return g.atom(x.Key())
	case model.OpAnd:
		out := c.T
		for _, o := range x.Operands {
			out = c.And(out, g.lit(o))
		}
		return out
	case model.OpOr:
		out := c.F
		for _, o := range x.Operands {
			out = c.Or(out, g.lit(o))
		}
		return out
	case model.OpNot:
		return g.lit(x.Operands[0]).Not()
	}
	return g.atom(x.Key())
}

func (g *Gini) atom(key string) z.Lit {
	if m, ok := g.atoms[key]; ok {
		return m
	}
	m := g.circuit.Lit()
	g.atoms[key] = m
	return m
}

func (g *Gini) satisfiable(ctx context.Context, q z.Lit) (bool, error) {
	c := g.circuit
	if q == c.F {
		return false, nil
	}

	s := gini.New()
	s.Add(c.T)
	s.Add(z.LitNull)
	c.ToCnfFrom(s, append(append([]z.Lit(nil), g.constraints...), q)...)
	for _, m := range g.constraints {
		s.Add(m)
		s.Add(z.LitNull)
	}
	s.Assume(q)

	res, err := g.solve(ctx, s)
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (g *Gini) solve(ctx context.Context, s *gini.Gini) (int, error) {
	if g.timeout <= 0 && ctx.Done() == nil {
		return s.Solve(), nil
	}

	var deadline <-chan time.Time
	if g.timeout > 0 {
		t := time.NewTimer(g.timeout)
		defer t.Stop()
		deadline = t.C
	}
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()

	run := s.GoSolve()
	for {
		if res, done := run.Test(); done {
			return res, nil
		}
		select {
		case <-ctx.Done():
			run.Stop()
			return 0, ctx.Err()
		case <-deadline:
			run.Stop()
			return 0, ErrTimeout
		case <-tick.C:
		}
	}
}
