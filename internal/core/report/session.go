package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"

	"github.com/agenthands/ecco/internal/core/diff"
	"github.com/agenthands/ecco/internal/core/model"
)

// Session numbers changes across the reports generated from one comparison, so the same
// axiom carries the same id in every rendering.
type Session struct {
	ID   string
	ids  map[string]int
	next int
}

func NewSession() *Session {
	return &Session{ID: uuid.New().String(), ids: make(map[string]int), next: 1}
}

// ChangeID returns the id of ax, assigning the next free one on first sight.
func (s *Session) ChangeID(ax model.Axiom) int {
	if id, ok := s.ids[ax.Key()]; ok {
		return id
	}
	id := s.next
	s.ids[ax.Key()] = id
	s.next++
	return id
}

type Change struct {
	ID     int    `xml:"id,attr" json:"id"`
	Shared bool   `xml:"shared,attr,omitempty" json:"shared,omitempty"`
	Axiom  string `xml:"Axiom" json:"axiom"`
}

// Section is a bucket of changes. Logical reports nest Effectual and Ineffectual sections
// inside Additions and Removals.
type Section struct {
	Size        int      `xml:"size,attr" json:"size"`
	Effectual   *Section `xml:"Effectual,omitempty" json:"effectual,omitempty"`
	Ineffectual *Section `xml:"Ineffectual,omitempty" json:"ineffectual,omitempty"`
	Changes     []Change `xml:"Change" json:"changes,omitempty"`
}

type Report struct {
	XMLName   xml.Name `xml:"root" json:"-"`
	ID        string   `xml:"id,attr" json:"-"`
	UUID      string   `xml:"uuid,attr" json:"uuid"`
	Kind      string   `xml:"kind,attr" json:"kind"`
	Additions *Section `xml:"Additions" json:"additions"`
	Removals  *Section `xml:"Removals" json:"removals"`
	Shared    *Section `xml:"Shared,omitempty" json:"shared,omitempty"`
}

// Build renders the change set of a comparison result.
func (s *Session) Build(res *diff.Result, naming Naming) *Report {
	rep := &Report{ID: "root", UUID: s.ID + naming.Suffix(), Kind: res.ChangeSet.Kind().String()}

	switch res.ChangeSet.Kind() {
	case diff.KindStructural:
		sc, _ := res.ChangeSet.Structural()
		rep.Additions = s.section(sc.Additions, naming, false)
		rep.Removals = s.section(sc.Removals, naming, false)
		rep.Shared = s.section(sc.Shared, naming, true)
	case diff.KindLogical:
		lc, _ := res.ChangeSet.Logical()
		rep.Additions = s.split(lc.EffectualAdditions, lc.IneffectualAdditions, naming)
		rep.Removals = s.split(lc.EffectualRemovals, lc.IneffectualRemovals, naming)
	default:
		panic(fmt.Sprintf("report: unknown change set kind %v", res.ChangeSet.Kind()))
	}
	return rep
}

func (s *Session) split(effectual, ineffectual model.AxiomSet, naming Naming) *Section {
	eff := s.section(effectual, naming, false)
	ineff := s.section(ineffectual, naming, false)
	return &Section{Size: eff.Size + ineff.Size, Effectual: eff, Ineffectual: ineff}
}

func (s *Session) section(axioms model.AxiomSet, naming Naming, shared bool) *Section {
	ordered := Order(axioms, naming)
	sec := &Section{Size: len(ordered), Changes: make([]Change, 0, len(ordered))}
	for _, r := range ordered {
		sec.Changes = append(sec.Changes, Change{ID: s.ChangeID(r.Axiom), Shared: shared, Axiom: r.Text})
	}
	return sec
}

type Rendered struct {
	Axiom model.Axiom
	Text  string
}

// Order renders axioms with naming and sorts them byte-wise by their fragment rendering,
// breaking ties by canonical key. The order is the same whichever naming is used.
func Order(axioms model.AxiomSet, naming Naming) []Rendered {
	type keyed struct {
		Rendered
		sortText string
	}
	items := make([]keyed, 0, len(axioms))
	for _, ax := range axioms {
		items = append(items, keyed{
			Rendered: Rendered{Axiom: ax, Text: Render(ax, naming)},
			sortText: Render(ax, fragments{}),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].sortText != items[j].sortText {
			return items[i].sortText < items[j].sortText
		}
		return items[i].Axiom.Key() < items[j].Axiom.Key()
	})

	out := make([]Rendered, len(items))
	for i, it := range items {
		out[i] = it.Rendered
	}
	return out
}

// WriteXML writes the report as an indented XML document.
func (r *Report) WriteXML(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
