package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agenthands/ecco/internal/core/model"
)

// Operations a reasoner run can be asked to perform.
var Operations = []string{"sat", "query", "classification", "consistency"}

func ValidOperation(op string) bool {
	for _, o := range Operations {
		if strings.EqualFold(o, op) {
			return true
		}
	}
	return false
}

// VerifyRequest holds the parameters of one reasoner run.
type VerifyRequest struct {
	Operation    string
	OntologyPath string
	OutputPath   string
	// Concept is required for sat.
	Concept string
}

// Verify checks that a run can proceed: a known operation, a parseable ontology, a concept in
// its signature for sat, and a writable output file, which is created if absent.
func Verify(req VerifyRequest) (*model.Ontology, error) {
	if !ValidOperation(req.Operation) {
		return nil, fmt.Errorf("invalid operation %q: must be one of [%s]", req.Operation, strings.Join(Operations, " | "))
	}

	o, err := LoadOntology(req.OntologyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", req.OntologyPath, err)
	}

	if strings.EqualFold(req.Operation, "sat") {
		if req.Concept == "" {
			return nil, fmt.Errorf("a concept name is required for satisfiability testing")
		}
		if !o.ContainsClass(req.Concept) {
			return nil, fmt.Errorf("concept %q is not in the ontology signature", req.Concept)
		}
	}

	if err := ensureWritable(req.OutputPath); err != nil {
		return nil, err
	}
	return o, nil
}

func ensureWritable(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("cannot write to %s: %w", path, err)
	}
	return f.Close()
}
