package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/agenthands/ecco/internal/core/cluster"
)

// ClusterRow is one line of the multi-source comparison table.
type ClusterRow struct {
	Ontology  string
	Operation string
	// Cells hold one verdict per known source, in the configured source order.
	Cells []string
}

func NewClusterRow(ontology, operation string, res *cluster.Result, sources []string) ClusterRow {
	return ClusterRow{Ontology: ontology, Operation: operation, Cells: res.Verdicts(sources)}
}

func (r ClusterRow) Record() []string {
	return append([]string{r.Ontology, r.Operation}, r.Cells...)
}

func WriteClusterRows(w io.Writer, rows ...ClusterRow) error {
	cw := csv.NewWriter(w)
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
