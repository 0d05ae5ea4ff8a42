package model

import (
	"sort"
	"strings"
)

type EntityKind int

const (
	KindClass EntityKind = iota + 1
	KindObjectProperty
	KindDataProperty
	KindAnnotationProperty
	KindIndividual
)

func (k EntityKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindObjectProperty:
		return "objectProperty"
	case KindDataProperty:
		return "dataProperty"
	case KindAnnotationProperty:
		return "annotationProperty"
	case KindIndividual:
		return "individual"
	default:
		return "unknown"
	}
}

func (k EntityKind) functional() string {
	switch k {
	case KindClass:
		return "Class"
	case KindObjectProperty:
		return "ObjectProperty"
	case KindDataProperty:
		return "DataProperty"
	case KindAnnotationProperty:
		return "AnnotationProperty"
	case KindIndividual:
		return "NamedIndividual"
	default:
		return "Entity"
	}
}

// IsProperty reports whether the kind names a role of any flavour.
func (k EntityKind) IsProperty() bool {
	return k == KindObjectProperty || k == KindDataProperty || k == KindAnnotationProperty
}

const (
	ThingName   = "owl:Thing"
	NothingName = "owl:Nothing"
)

// Entity is a named term of a knowledge base. Name is an IRI or a prefixed name.
type Entity struct {
	Kind EntityKind `json:"kind"`
	Name string     `json:"name"`
}

var (
	Thing   = Entity{Kind: KindClass, Name: ThingName}
	Nothing = Entity{Kind: KindClass, Name: NothingName}
)

func Class(name string) Entity          { return Entity{Kind: KindClass, Name: name} }
func ObjectProperty(name string) Entity { return Entity{Kind: KindObjectProperty, Name: name} }
func Individual(name string) Entity     { return Entity{Kind: KindIndividual, Name: name} }

func (e Entity) IsTop() bool    { return e == Thing }
func (e Entity) IsBottom() bool { return e == Nothing }

// IsBuiltIn reports whether the entity is part of every vocabulary.
func (e Entity) IsBuiltIn() bool { return e.IsTop() || e.IsBottom() }

// ShortForm returns the fragment of the entity name: the part after the last '#', '/' or ':'.
func (e Entity) ShortForm() string {
	name := e.Name
	if i := strings.LastIndexAny(name, "#/:"); i >= 0 && i < len(name)-1 {
		return name[i+1:]
	}
	return name
}

// Signature is a set of entities.
type Signature map[Entity]struct{}

func NewSignature(entities ...Entity) Signature {
	s := make(Signature, len(entities))
	for _, e := range entities {
		s.Add(e)
	}
	return s
}

// Add inserts e unless it is a built-in; built-ins are known to every signature.
func (s Signature) Add(e Entity) {
	if e.IsBuiltIn() {
		return
	}
	s[e] = struct{}{}
}

func (s Signature) Contains(e Entity) bool {
	if e.IsBuiltIn() {
		return true
	}
	_, ok := s[e]
	return ok
}

func (s Signature) ContainsAll(other Signature) bool {
	for e := range other {
		if !s.Contains(e) {
			return false
		}
	}
	return true
}

func (s Signature) Merge(other Signature) {
	for e := range other {
		s.Add(e)
	}
}

// Sorted returns the entities ordered by kind, then name.
func (s Signature) Sorted() []Entity {
	out := make([]Entity, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}
