package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agenthands/ecco/internal/core/model"
)

// Naming maps entities to display names.
type Naming interface {
	Name(e model.Entity) string
	// Suffix distinguishes reports rendered with this naming within a session.
	Suffix() string
}

const (
	NamingShort  = "short"
	NamingLabel  = "label"
	NamingGenSym = "gensym"
)

// NewNaming builds a naming over the union of the signatures of the given ontologies.
func NewNaming(kind string, ontologies ...*model.Ontology) (Naming, error) {
	sig := model.Signature{}
	for _, o := range ontologies {
		sig.Merge(o.Signature())
	}

	switch strings.ToLower(kind) {
	case "", NamingShort:
		return NewShortForms(sig), nil
	case NamingLabel:
		return NewLabels(sig, ontologies...), nil
	case NamingGenSym:
		return NewGenSyms(sig), nil
	default:
		return nil, fmt.Errorf("unknown naming %q", kind)
	}
}

// ShortForms names entities by their fragment, or by their full name when two entities share
// a fragment.
type ShortForms struct {
	ambiguous map[string]bool
}

func NewShortForms(sig model.Signature) *ShortForms {
	owners := make(map[string]string)
	ambiguous := make(map[string]bool)
	for e := range sig {
		short := e.ShortForm()
		if name, ok := owners[short]; ok && name != e.Name {
			ambiguous[short] = true
		}
		owners[short] = e.Name
	}
	return &ShortForms{ambiguous: ambiguous}
}

func (s *ShortForms) Name(e model.Entity) string {
	short := e.ShortForm()
	if s.ambiguous[short] {
		return e.Name
	}
	return short
}

func (s *ShortForms) Suffix() string { return "" }

// fragments names every entity by its fragment alone.
type fragments struct{}

func (fragments) Name(e model.Entity) string { return e.ShortForm() }
func (fragments) Suffix() string             { return "" }

// Labels prefers human-readable labels, later ontologies winning, and falls back to short
// forms.
type Labels struct {
	labels   map[model.Entity]string
	fallback *ShortForms
}

func NewLabels(sig model.Signature, ontologies ...*model.Ontology) *Labels {
	l := &Labels{labels: make(map[model.Entity]string), fallback: NewShortForms(sig)}
	for _, o := range ontologies {
		for e := range sig {
			if label, ok := o.Label(e); ok {
				l.labels[e] = label
			}
		}
	}
	return l
}

func (l *Labels) Name(e model.Entity) string {
	if label, ok := l.labels[e]; ok {
		return label
	}
	return l.fallback.Name(e)
}

func (l *Labels) Suffix() string { return "-lbl" }

// GenSyms assigns generated symbols in signature order, one namespace per entity kind.
type GenSyms struct {
	symbols map[model.Entity]string
}

func NewGenSyms(sig model.Signature) *GenSyms {
	g := &GenSyms{symbols: make(map[model.Entity]string, len(sig))}
	next := make(map[model.EntityKind]int)
	for _, e := range sig.Sorted() {
		g.symbols[e] = GenSym(e.Kind, next[e.Kind])
		next[e.Kind]++
	}
	return g
}

// Name returns the entity's symbol. Built-ins and entities outside the signature keep their
// short form.
func (g *GenSyms) Name(e model.Entity) string {
	if s, ok := g.symbols[e]; ok {
		return s
	}
	return e.ShortForm()
}

func (g *GenSyms) Suffix() string { return "-gs" }

// GenSym returns the symbol for the zero-based index within a kind's namespace. Classes run
// A1..A9, B1..Z9, AA1..ZZ9, AAA1 and so on; properties are prop1, prop2, ...; individuals are
// ind1, ind2, ...
func GenSym(kind model.EntityKind, index int) string {
	if index < 0 {
		panic(fmt.Sprintf("report: negative gensym index %d", index))
	}
	switch {
	case kind == model.KindIndividual:
		return "ind" + strconv.Itoa(index+1)
	case kind.IsProperty():
		return "prop" + strconv.Itoa(index+1)
	}
	return letters(index/9+1) + strconv.Itoa(index%9+1)
}

// letters is the bijective base-26 numeral of n >= 1: 1 is A, 26 is Z, 27 is AA.
func letters(n int) string {
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}
