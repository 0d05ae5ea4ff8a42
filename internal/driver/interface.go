package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Querier executes Cypher and returns fully buffered records. Schema setup such as
// BuildIndices stays on the concrete driver.
type Querier interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error)
	Close(ctx context.Context) error
}

var _ Querier = (*MemgraphDriver)(nil)
