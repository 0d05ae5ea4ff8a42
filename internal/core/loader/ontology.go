package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agenthands/ecco/internal/core/model"
)

type document struct {
	Ontology     string            `yaml:"ontology"`
	Labels       map[string]string `yaml:"labels"`
	Declarations declarations      `yaml:"declarations"`
	Axioms       []axiomNode       `yaml:"axioms"`
}

type declarations struct {
	Classes          []string `yaml:"classes"`
	ObjectProperties []string `yaml:"objectProperties"`
	Individuals      []string `yaml:"individuals"`
}

// axiomNode decodes a single-key mapping from a lowerCamel axiom type to its operand list,
// e.g. `subClassOf: [A, {some: [r, B]}]`.
type axiomNode struct {
	axiom model.Axiom
}

func (a *axiomNode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return parseErr(value, "axiom must be a mapping with exactly one key")
	}
	key, args := value.Content[0], value.Content[1]
	typ, ok := model.ParseAxiomType(key.Value)
	if !ok {
		return parseErr(key, fmt.Sprintf("unknown axiom type %q", key.Value))
	}
	if typ == model.Declaration {
		return parseErr(key, "declarations belong in the declarations section")
	}
	if args.Kind != yaml.SequenceNode {
		return parseErr(args, fmt.Sprintf("%s operands must be a list", typ))
	}

	operands := make([]model.Expression, 0, len(args.Content))
	for i, n := range args.Content {
		kind, ok := typ.OperandKind(i)
		if !ok {
			return parseErr(n, fmt.Sprintf("too many operands for %s", typ))
		}
		var (
			x   model.Expression
			err error
		)
		if kind == model.KindClass {
			x, err = parseExpression(n)
		} else {
			x, err = parseName(n, kind)
		}
		if err != nil {
			return err
		}
		operands = append(operands, x)
	}

	ax, err := model.NewAxiom(typ, operands...)
	if err != nil {
		return parseErr(value, err.Error())
	}
	a.axiom = ax
	return nil
}

func parseName(n *yaml.Node, kind model.EntityKind) (model.Expression, error) {
	if n.Kind != yaml.ScalarNode || n.Value == "" {
		return model.Expression{}, parseErr(n, fmt.Sprintf("expected %s name", kind))
	}
	return model.Named(model.Entity{Kind: kind, Name: n.Value}), nil
}

func parseExpression(n *yaml.Node) (model.Expression, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return parseName(n, model.KindClass)
	case yaml.MappingNode:
	default:
		return model.Expression{}, parseErr(n, "expected class expression")
	}
	if len(n.Content) != 2 {
		return model.Expression{}, parseErr(n, "class expression must have exactly one constructor")
	}
	op, args := n.Content[0].Value, n.Content[1]

	if op == "not" {
		if args.Kind == yaml.SequenceNode {
			if len(args.Content) != 1 {
				return model.Expression{}, parseErr(args, "not takes one operand")
			}
			args = args.Content[0]
		}
		x, err := parseExpression(args)
		if err != nil {
			return model.Expression{}, err
		}
		return model.Not(x), nil
	}

	if args.Kind != yaml.SequenceNode {
		return model.Expression{}, parseErr(args, fmt.Sprintf("%s operands must be a list", op))
	}
	switch op {
	case "and", "or":
		if len(args.Content) < 2 {
			return model.Expression{}, parseErr(args, fmt.Sprintf("%s needs at least 2 operands", op))
		}
		xs := make([]model.Expression, 0, len(args.Content))
		for _, c := range args.Content {
			x, err := parseExpression(c)
			if err != nil {
				return model.Expression{}, err
			}
			xs = append(xs, x)
		}
		if op == "and" {
			return model.And(xs...), nil
		}
		return model.Or(xs...), nil
	case "some", "only":
		if len(args.Content) != 2 {
			return model.Expression{}, parseErr(args, fmt.Sprintf("%s needs a property and a filler", op))
		}
		p, err := parseName(args.Content[0], model.KindObjectProperty)
		if err != nil {
			return model.Expression{}, err
		}
		filler, err := parseExpression(args.Content[1])
		if err != nil {
			return model.Expression{}, err
		}
		if op == "some" {
			return model.Some(p.Entity, filler), nil
		}
		return model.Only(p.Entity, filler), nil
	}
	return model.Expression{}, parseErr(n.Content[0], fmt.Sprintf("unknown constructor %q", op))
}

func parseErr(n *yaml.Node, msg string) error {
	return &ParseError{Line: n.Line, Msg: msg}
}

// ParseOntology decodes an ontology document. name is used in errors and as the id when the
// document does not declare one.
func ParseOntology(data []byte, name string) (*model.Ontology, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = name
			return nil, pe
		}
		return nil, &ParseError{Path: name, Msg: err.Error()}
	}

	var axioms []model.Axiom
	declare := func(kind model.EntityKind, names []string) error {
		for _, n := range names {
			if n == "" {
				return &ParseError{Path: name, Msg: fmt.Sprintf("empty %s declaration", kind)}
			}
			axioms = append(axioms, model.MustAxiom(model.Declaration, model.Named(model.Entity{Kind: kind, Name: n})))
		}
		return nil
	}
	if err := declare(model.KindClass, doc.Declarations.Classes); err != nil {
		return nil, err
	}
	if err := declare(model.KindObjectProperty, doc.Declarations.ObjectProperties); err != nil {
		return nil, err
	}
	if err := declare(model.KindIndividual, doc.Declarations.Individuals); err != nil {
		return nil, err
	}
	for _, a := range doc.Axioms {
		axioms = append(axioms, a.axiom)
	}

	id := doc.Ontology
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	return model.NewOntology(id, axioms, doc.Labels), nil
}

// LoadOntology reads and parses an ontology document. A missing file yields ErrMissing.
func LoadOntology(path string) (*model.Ontology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrMissing)
		}
		return nil, fmt.Errorf("failed to read ontology: %w", err)
	}
	return ParseOntology(data, path)
}
