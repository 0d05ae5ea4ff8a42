package diff

import (
	"fmt"
	"time"

	"github.com/agenthands/ecco/internal/core/model"
)

// StructuralChangeSet is the syntactic difference between two axiom sets.
type StructuralChangeSet struct {
	Additions model.AxiomSet
	Removals  model.AxiomSet
	Shared    model.AxiomSet
	Elapsed   time.Duration
}

// NewStructuralChangeSet panics if the buckets overlap: that is a programming defect, not a
// data problem.
func NewStructuralChangeSet(additions, removals, shared model.AxiomSet, elapsed time.Duration) *StructuralChangeSet {
	if additions.Intersects(removals) || additions.Intersects(shared) || removals.Intersects(shared) {
		panic("diff: structural change set buckets are not disjoint")
	}
	return &StructuralChangeSet{
		Additions: additions,
		Removals:  removals,
		Shared:    shared,
		Elapsed:   elapsed,
	}
}

func (c *StructuralChangeSet) IsEmpty() bool {
	return c.Additions.IsEmpty() && c.Removals.IsEmpty()
}

// LogicalChangeSet splits a structural change set into effectual and ineffectual changes.
// Pruned axioms appear in neither bucket.
type LogicalChangeSet struct {
	EffectualAdditions   model.AxiomSet
	IneffectualAdditions model.AxiomSet
	EffectualRemovals    model.AxiomSet
	IneffectualRemovals  model.AxiomSet
	// Additions and Removals are the structural changes the classification started from.
	Additions model.AxiomSet
	Removals  model.AxiomSet
	Elapsed   time.Duration
}

func newLogicalChangeSet(additions, removals, effAdds, ineffAdds, effRems, ineffRems model.AxiomSet, elapsed time.Duration) *LogicalChangeSet {
	if effAdds.Intersects(ineffAdds) || effRems.Intersects(ineffRems) {
		panic("diff: effectual and ineffectual buckets overlap")
	}
	for _, bucket := range []model.AxiomSet{effAdds, ineffAdds} {
		if bucket.Minus(additions).Len() > 0 {
			panic("diff: addition bucket holds axioms that were not added")
		}
	}
	for _, bucket := range []model.AxiomSet{effRems, ineffRems} {
		if bucket.Minus(removals).Len() > 0 {
			panic("diff: removal bucket holds axioms that were not removed")
		}
	}
	return &LogicalChangeSet{
		EffectualAdditions:   effAdds,
		IneffectualAdditions: ineffAdds,
		EffectualRemovals:    effRems,
		IneffectualRemovals:  ineffRems,
		Additions:            additions,
		Removals:             removals,
		Elapsed:              elapsed,
	}
}

// IsEmpty ignores ineffectual changes: they do not alter what is entailed.
func (c *LogicalChangeSet) IsEmpty() bool {
	return c.EffectualAdditions.IsEmpty() && c.EffectualRemovals.IsEmpty()
}

type Kind int

const (
	KindStructural Kind = iota + 1
	KindLogical
)

func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindLogical:
		return "logical"
	default:
		return "unknown"
	}
}

// ChangeSet holds the outcome of either diff level behind one set of accessors. The variant
// is fixed at construction.
type ChangeSet struct {
	kind       Kind
	structural *StructuralChangeSet
	logical    *LogicalChangeSet
}

func FromStructural(c *StructuralChangeSet) ChangeSet {
	return ChangeSet{kind: KindStructural, structural: c}
}

func FromLogical(c *LogicalChangeSet) ChangeSet {
	return ChangeSet{kind: KindLogical, logical: c}
}

func (c ChangeSet) Kind() Kind { return c.kind }

func (c ChangeSet) Structural() (*StructuralChangeSet, bool) {
	return c.structural, c.kind == KindStructural
}

func (c ChangeSet) Logical() (*LogicalChangeSet, bool) {
	return c.logical, c.kind == KindLogical
}

// Additions returns the added axioms; for a logical change set only the effectual ones.
func (c ChangeSet) Additions() model.AxiomSet {
	switch c.kind {
	case KindStructural:
		return c.structural.Additions
	case KindLogical:
		return c.logical.EffectualAdditions
	}
	panic(c.invalid())
}

// Removals returns the removed axioms; for a logical change set only the effectual ones.
func (c ChangeSet) Removals() model.AxiomSet {
	switch c.kind {
	case KindStructural:
		return c.structural.Removals
	case KindLogical:
		return c.logical.EffectualRemovals
	}
	panic(c.invalid())
}

func (c ChangeSet) IsEmpty() bool {
	switch c.kind {
	case KindStructural:
		return c.structural.IsEmpty()
	case KindLogical:
		return c.logical.IsEmpty()
	}
	panic(c.invalid())
}

func (c ChangeSet) Elapsed() time.Duration {
	switch c.kind {
	case KindStructural:
		return c.structural.Elapsed
	case KindLogical:
		return c.logical.Elapsed
	}
	panic(c.invalid())
}

func (c ChangeSet) invalid() string {
	return fmt.Sprintf("diff: invalid change set variant %d", c.kind)
}
