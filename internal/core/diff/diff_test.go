package diff

import (
	"context"
	"errors"
	"testing"

	"github.com/agenthands/ecco/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	clsA = model.Named(model.Class("A"))
	clsB = model.Named(model.Class("B"))
	clsC = model.Named(model.Class("C"))
	clsD = model.Named(model.Class("D"))
	top  = model.Named(model.Thing)
	bot  = model.Named(model.Nothing)
)

func ontology(id string, axioms ...model.Axiom) *model.Ontology {
	return model.NewOntology(id, axioms, nil)
}

func TestStructural_Identical(t *testing.T) {
	a := ontology("a", model.Sub(clsC, clsD), model.Sub(clsA, clsB))

	sc := Structural(a, a)
	assert.True(t, sc.IsEmpty())
	assert.Equal(t, 2, sc.Shared.Len())
}

func TestStructural_Symmetry(t *testing.T) {
	a := ontology("a", model.Sub(clsA, clsB), model.Sub(clsB, clsC), model.Sub(clsA, top))
	b := ontology("b", model.Sub(clsA, clsB), model.Sub(clsC, clsD), model.Sub(clsB, top))

	ab := Structural(a, b)
	ba := Structural(b, a)

	assert.Equal(t, ab.Additions, ba.Removals)
	assert.Equal(t, ab.Removals, ba.Additions)
	assert.Equal(t, []model.Axiom{model.Sub(clsC, clsD)}, ab.Additions.Sorted())
	assert.Equal(t, []model.Axiom{model.Sub(clsB, clsC)}, ab.Removals.Sorted())
}

func TestStructural_IgnoresDeclarations(t *testing.T) {
	a := ontology("a", model.Sub(clsC, clsD))
	b := ontology("b", model.Sub(clsC, clsD), model.MustAxiom(model.Declaration, clsA))

	assert.True(t, Structural(a, b).IsEmpty())
}

// Scenario B: a new subsumption under owl:Thing is vacuous.
func TestStructural_TopSubsumptionIsVacuous(t *testing.T) {
	older := ontology("old", model.Sub(clsC, clsD))
	newer := ontology("new", model.Sub(clsC, clsD), model.Sub(clsC, top))

	sc := Structural(older, newer)
	assert.True(t, sc.Additions.IsEmpty())
	assert.True(t, sc.Removals.IsEmpty())
	assert.True(t, sc.IsEmpty())
}

func TestNewStructuralChangeSet_PanicsOnOverlap(t *testing.T) {
	ax := model.Sub(clsA, clsB)
	assert.Panics(t, func() {
		NewStructuralChangeSet(model.NewAxiomSet(ax), model.AxiomSet{}, model.NewAxiomSet(ax), 0)
	})
}

func TestClassify_SelfDiffIsEmpty(t *testing.T) {
	a := ontology("a", model.Sub(clsA, clsB), model.MustAxiom(model.ClassAssertion, clsA, model.Named(model.Individual("x"))))
	oracle := &MockOracle{Ontology: a}

	lc, err := NewClassifier(nil).Classify(context.Background(), Structural(a, a), oracle, oracle)
	require.NoError(t, err)

	assert.True(t, lc.IsEmpty())
	assert.True(t, lc.IneffectualAdditions.IsEmpty())
	assert.True(t, lc.IneffectualRemovals.IsEmpty())
	assert.Empty(t, oracle.Calls)
}

// Scenario C: an addition over entities the old side never mentioned is effectual.
func TestClassify_NewEntitiesAreEffectual(t *testing.T) {
	older := ontology("old")
	newer := ontology("new", model.Sub(clsC, clsD))
	oldOracle := &MockOracle{Ontology: older, Entailed: map[string]bool{model.Sub(clsC, clsD).Key(): true}}

	lc, err := NewClassifier(nil).Classify(context.Background(), Structural(older, newer), oldOracle, &MockOracle{Ontology: newer})
	require.NoError(t, err)

	assert.Equal(t, []model.Axiom{model.Sub(clsC, clsD)}, lc.EffectualAdditions.Sorted())
	assert.True(t, lc.IneffectualAdditions.IsEmpty())
	assert.Empty(t, oldOracle.Calls, "oracle is not consulted for unknown entities")
}

// Scenario D: role-level and instance-level additions are pruned.
func TestClassify_PrunesAssertions(t *testing.T) {
	r := model.ObjectProperty("r")
	a, b := model.Individual("a"), model.Individual("b")
	assertion := model.MustAxiom(model.ObjectPropertyAssertion, model.Named(r), model.Named(a), model.Named(b))

	older := ontology("old", model.Sub(clsC, clsD))
	newer := ontology("new", model.Sub(clsC, clsD), assertion)

	sc := Structural(older, newer)
	require.Equal(t, 1, sc.Additions.Len())

	lc, err := NewClassifier(nil).Classify(context.Background(), sc, &MockOracle{Ontology: older}, &MockOracle{Ontology: newer})
	require.NoError(t, err)

	assert.True(t, lc.EffectualAdditions.IsEmpty())
	assert.True(t, lc.IneffectualAdditions.IsEmpty())
	assert.True(t, lc.IsEmpty())
	assert.Equal(t, 1, lc.Additions.Len())
}

func TestClassify_PrunedNeverEffectual(t *testing.T) {
	r, s := model.ObjectProperty("r"), model.ObjectProperty("s")
	pruned := []model.Axiom{
		model.MustAxiom(model.SubObjectPropertyOf, model.Named(r), model.Named(s)),
		model.MustAxiom(model.TransitiveObjectProperty, model.Named(r)),
		model.MustAxiom(model.ClassAssertion, clsA, model.Named(model.Individual("x"))),
		model.Sub(bot, clsA),
	}
	older := ontology("old", model.Sub(clsA, clsB))
	newer := ontology("new", append([]model.Axiom{model.Sub(clsA, clsB)}, pruned...)...)

	lc, err := NewClassifier(nil).Classify(context.Background(), Structural(older, newer), &MockOracle{Ontology: older}, &MockOracle{Ontology: newer})
	require.NoError(t, err)
	for _, ax := range pruned {
		assert.False(t, lc.EffectualAdditions.Contains(ax), ax.Key())
	}

	lc, err = NewClassifier(nil).Classify(context.Background(), Structural(newer, older), &MockOracle{Ontology: newer}, &MockOracle{Ontology: older})
	require.NoError(t, err)
	for _, ax := range pruned {
		assert.False(t, lc.EffectualRemovals.Contains(ax), ax.Key())
	}
}

func TestClassify_EntailedChangesAreIneffectual(t *testing.T) {
	ab, bc, ac := model.Sub(clsA, clsB), model.Sub(clsB, clsC), model.Sub(clsA, clsC)
	older := ontology("old", ab, bc)
	newer := ontology("new", ab, bc, ac)

	oldOracle := &MockOracle{Ontology: older, Entailed: map[string]bool{ac.Key(): true}}
	newOracle := &MockOracle{Ontology: newer}

	lc, err := NewClassifier(nil).Classify(context.Background(), Structural(older, newer), oldOracle, newOracle)
	require.NoError(t, err)
	assert.True(t, lc.IneffectualAdditions.Contains(ac))
	assert.True(t, lc.IsEmpty())

	// Removing the inferred axiom again is ineffectual against the new side.
	lc, err = NewClassifier(nil).Classify(context.Background(), Structural(newer, older), newOracle, oldOracle)
	require.NoError(t, err)
	assert.True(t, lc.IneffectualRemovals.Contains(ac))
	assert.True(t, lc.IsEmpty())
}

func TestClassify_EffectualRemoval(t *testing.T) {
	older := ontology("old", model.Sub(clsA, clsB), model.Sub(clsB, clsC))
	newer := ontology("new", model.Sub(clsA, clsB), model.MustAxiom(model.Declaration, clsC))

	lc, err := NewClassifier(nil).Classify(context.Background(), Structural(older, newer), &MockOracle{Ontology: older}, &MockOracle{Ontology: newer})
	require.NoError(t, err)

	assert.Equal(t, []model.Axiom{model.Sub(clsB, clsC)}, lc.EffectualRemovals.Sorted())
	assert.False(t, lc.IsEmpty())
}

func TestClassify_OracleErrors(t *testing.T) {
	ac := model.Sub(clsA, clsC)
	older := ontology("old", model.Sub(clsA, clsB), model.Sub(clsB, clsC))
	newer := ontology("new", model.Sub(clsA, clsB), model.Sub(clsB, clsC), ac)
	failing := &MockOracle{Ontology: older, Err: errors.New("reasoner crashed")}

	lc, err := NewClassifier(nil).Classify(context.Background(), Structural(older, newer), failing, &MockOracle{Ontology: newer})
	require.NoError(t, err)
	assert.True(t, lc.EffectualAdditions.Contains(ac), "failures keep the change effectual")

	c := NewClassifier(nil)
	c.AssumeEntailedOnError = true
	lc, err = c.Classify(context.Background(), Structural(older, newer), failing, &MockOracle{Ontology: newer})
	require.NoError(t, err)
	assert.True(t, lc.IneffectualAdditions.Contains(ac))
}

func TestClassify_Cancelled(t *testing.T) {
	older := ontology("old", model.Sub(clsA, clsB))
	newer := ontology("new", model.Sub(clsA, clsB), model.Sub(clsB, clsA))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClassifier(nil).Classify(ctx, Structural(older, newer), &MockOracle{Ontology: older}, &MockOracle{Ontology: newer})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPruned(t *testing.T) {
	assert.True(t, Pruned(model.Sub(clsA, top)))
	assert.True(t, Pruned(model.Sub(bot, clsA)))
	assert.True(t, Pruned(model.MustAxiom(model.FunctionalObjectProperty, model.Named(model.ObjectProperty("r")))))
	assert.False(t, Pruned(model.Sub(clsA, clsB)))
	assert.False(t, Pruned(model.MustAxiom(model.EquivalentClasses, clsA, clsB)))
	assert.False(t, Pruned(model.MustAxiom(model.ObjectPropertyDomain, model.Named(model.ObjectProperty("r")), clsA)))
}

func TestChangeSet_Union(t *testing.T) {
	older := ontology("old", model.Sub(clsA, clsB))
	newer := ontology("new", model.Sub(clsA, clsC))
	sc := Structural(older, newer)

	cs := FromStructural(sc)
	assert.Equal(t, KindStructural, cs.Kind())
	assert.Equal(t, sc.Additions, cs.Additions())
	assert.Equal(t, sc.Removals, cs.Removals())
	assert.False(t, cs.IsEmpty())
	_, ok := cs.Logical()
	assert.False(t, ok)

	lc, err := NewClassifier(nil).Classify(context.Background(), sc, &MockOracle{Ontology: older}, &MockOracle{Ontology: newer})
	require.NoError(t, err)
	cs = FromLogical(lc)
	assert.Equal(t, KindLogical, cs.Kind())
	assert.Equal(t, lc.EffectualAdditions, cs.Additions())
	assert.Equal(t, lc.EffectualRemovals, cs.Removals())
	got, ok := cs.Logical()
	assert.True(t, ok)
	assert.Same(t, lc, got)

	assert.Panics(t, func() { ChangeSet{}.IsEmpty() })
}

func TestCompare_Pipeline(t *testing.T) {
	older := ontology("old", model.Sub(clsC, clsD))
	loader := &MockLoader{}

	res, err := Compare(context.Background(), older, older, loader)
	require.NoError(t, err)
	assert.Nil(t, res.Logical)
	assert.Equal(t, KindStructural, res.ChangeSet.Kind())
	assert.True(t, res.ChangeSet.IsEmpty())
	assert.Empty(t, loader.Loaded, "identical ontologies need no oracle")

	newer := ontology("new", model.Sub(clsC, clsD), model.Sub(clsD, clsA))
	res, err = Compare(context.Background(), older, newer, loader)
	require.NoError(t, err)
	require.NotNil(t, res.Logical)
	assert.Equal(t, KindLogical, res.ChangeSet.Kind())
	assert.False(t, res.ChangeSet.IsEmpty())
	require.Len(t, loader.Loaded, 2)
	for _, o := range loader.Loaded {
		assert.True(t, o.Closed)
	}
}

func TestCompare_LoadFailure(t *testing.T) {
	older := ontology("old", model.Sub(clsC, clsD))
	newer := ontology("new", model.Sub(clsD, clsC))

	_, err := Compare(context.Background(), older, newer, &MockLoader{Err: errors.New("boom")})
	assert.Error(t, err)
}
