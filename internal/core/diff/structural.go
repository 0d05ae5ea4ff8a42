package diff

import (
	"time"

	"github.com/agenthands/ecco/internal/core/model"
)

// Structural computes the syntactic difference between the logical axioms of two ontologies.
// Subsumptions under owl:Thing are vacuous and never reported as additions or removals.
func Structural(older, newer *model.Ontology) *StructuralChangeSet {
	start := time.Now()
	oldAxioms, newAxioms := older.LogicalAxioms(), newer.LogicalAxioms()

	additions := model.AxiomSet{}
	removals := model.AxiomSet{}
	shared := model.AxiomSet{}

	for key, ax := range oldAxioms {
		if _, ok := newAxioms[key]; ok {
			shared[key] = ax
			continue
		}
		if !ax.IsTopSubsumption() {
			removals[key] = ax
		}
	}
	for key, ax := range newAxioms {
		if _, ok := oldAxioms[key]; ok {
			continue
		}
		if !ax.IsTopSubsumption() {
			additions[key] = ax
		}
	}

	return NewStructuralChangeSet(additions, removals, shared, time.Since(start))
}
