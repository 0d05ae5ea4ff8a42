package diff

import "github.com/agenthands/ecco/internal/core/model"

// Pruned reports axioms that are never reported as effectual change: role-level and
// instance-level axioms, and subsumptions with a bottom sub-class or a top super-class.
//
// Equivalences are kept even when they are equivalent to a pair of subsumptions; whether such
// a change is effectual is left to the oracle.
func Pruned(ax model.Axiom) bool {
	switch ax.Category() {
	case model.RBox, model.ABox:
		return true
	}
	return ax.IsBottomSubsumption() || ax.IsTopSubsumption()
}

func prune(axioms model.AxiomSet) model.AxiomSet {
	out := make(model.AxiomSet, len(axioms))
	for key, ax := range axioms {
		if !Pruned(ax) {
			out[key] = ax
		}
	}
	return out
}
