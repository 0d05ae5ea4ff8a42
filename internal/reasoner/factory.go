package reasoner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agenthands/ecco/internal/config"
	"github.com/agenthands/ecco/internal/core/model"
)

type providerFactory struct {
	provider string
	timeout  time.Duration
}

func NewFactory(cfg config.ReasonerConfig) (Factory, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "gini", "":
		return &providerFactory{provider: "gini", timeout: timeout}, nil
	case "asserted":
		return &providerFactory{provider: provider}, nil
	default:
		return nil, fmt.Errorf("unsupported reasoner provider: %s", provider)
	}
}

func (f *providerFactory) Load(ctx context.Context, o *model.Ontology) (Reasoner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch f.provider {
	case "asserted":
		return NewAsserted(o), nil
	default:
		return NewGini(o, f.timeout), nil
	}
}
