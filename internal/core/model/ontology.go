package model

import "sort"

// AxiomSet is an unordered, deduplicated set of axioms keyed by canonical form.
type AxiomSet map[string]Axiom

func NewAxiomSet(axioms ...Axiom) AxiomSet {
	s := make(AxiomSet, len(axioms))
	for _, ax := range axioms {
		s.Add(ax)
	}
	return s
}

func (s AxiomSet) Add(ax Axiom) { s[ax.Key()] = ax }

func (s AxiomSet) Contains(ax Axiom) bool {
	_, ok := s[ax.Key()]
	return ok
}

func (s AxiomSet) Len() int { return len(s) }

func (s AxiomSet) IsEmpty() bool { return len(s) == 0 }

// Minus returns the axioms of s that are not in other.
func (s AxiomSet) Minus(other AxiomSet) AxiomSet {
	out := make(AxiomSet, len(s))
	for k, ax := range s {
		if _, ok := other[k]; !ok {
			out[k] = ax
		}
	}
	return out
}

func (s AxiomSet) Intersects(other AxiomSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for k := range small {
		if _, ok := large[k]; ok {
			return true
		}
	}
	return false
}

// Sorted returns the axioms ordered by canonical key.
func (s AxiomSet) Sorted() []Axiom {
	out := make([]Axiom, 0, len(s))
	for _, ax := range s {
		out = append(out, ax)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

func (s AxiomSet) Signature() Signature {
	sig := Signature{}
	for _, ax := range s {
		sig.Merge(ax.Signature())
	}
	return sig
}

// Ontology is one knowledge-base snapshot. It is immutable after construction.
type Ontology struct {
	ID        string
	axioms    AxiomSet
	logical   AxiomSet
	labels    map[string]string
	signature Signature
}

func NewOntology(id string, axioms []Axiom, labels map[string]string) *Ontology {
	o := &Ontology{
		ID:      id,
		axioms:  NewAxiomSet(axioms...),
		logical: AxiomSet{},
		labels:  make(map[string]string, len(labels)),
	}
	for _, ax := range o.axioms {
		if ax.IsLogical() {
			o.logical.Add(ax)
		}
	}
	for name, label := range labels {
		o.labels[name] = label
	}
	o.signature = o.axioms.Signature()
	return o
}

// Axioms returns every axiom, declarations included. The returned set must not be modified.
func (o *Ontology) Axioms() AxiomSet { return o.axioms }

// LogicalAxioms returns the axioms that carry logical content. The returned set must not be
// modified.
func (o *Ontology) LogicalAxioms() AxiomSet { return o.logical }

func (o *Ontology) Contains(ax Axiom) bool { return o.axioms.Contains(ax) }

// Signature returns the entities mentioned by the ontology. The returned set must not be
// modified.
func (o *Ontology) Signature() Signature { return o.signature }

// Label returns the human-readable label of an entity, if the ontology has one.
func (o *Ontology) Label(e Entity) (string, bool) {
	l, ok := o.labels[e.Name]
	return l, ok && l != ""
}

func (o *Ontology) ContainsClass(name string) bool {
	return o.signature.Contains(Class(name))
}

// Classes returns the named classes of the signature sorted by name.
func (o *Ontology) Classes() []Entity {
	var out []Entity
	for _, e := range o.signature.Sorted() {
		if e.Kind == KindClass {
			out = append(out, e)
		}
	}
	return out
}
