package sampler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/agenthands/ecco/internal/core/model"
)

var ErrTooFewClasses = errors.New("not enough classes to sample")

// Sampler draws concept names for sat queries.
type Sampler struct {
	rng *rand.Rand
}

// New returns a sampler seeded from the runtime source.
func New() *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded returns a sampler whose draws are reproducible.
func NewSeeded(seed uint64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Sample picks n distinct class names from o.
func (s *Sampler) Sample(o *model.Ontology, n int) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid sample size %d", n)
	}
	classes := o.Classes()
	if len(classes) < n {
		return nil, fmt.Errorf("%w: %s has %d, want %d", ErrTooFewClasses, o.ID, len(classes), n)
	}

	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.Name
	}
	s.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	return names[:n], nil
}

// Write prints one name per line.
func Write(w io.Writer, names []string) error {
	bw := bufio.NewWriter(w)
	for _, n := range names {
		if _, err := fmt.Fprintln(bw, n); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes names to path, creating parent directories.
func WriteFile(path string, names []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sample file: %w", err)
	}
	if err := Write(f, names); err != nil {
		f.Close()
		return fmt.Errorf("failed to write sample: %w", err)
	}
	return f.Close()
}
