package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agenthands/ecco/internal/core"
	"github.com/agenthands/ecco/internal/core/compare"
	"github.com/agenthands/ecco/internal/core/loader"
	"github.com/agenthands/ecco/internal/core/report"
	"github.com/agenthands/ecco/internal/core/sampler"
	"github.com/agenthands/ecco/internal/server"
	"github.com/agenthands/ecco/internal/store"
)

func diffCmd(a *app) *cobra.Command {
	var naming, format, out string

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Structural and logical diff of two ontology versions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := a.engine(ctx)
			if err != nil {
				return err
			}
			defer e.Close(ctx)

			res, older, newer, err := e.DiffFiles(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			rep, err := e.Report(res, naming, older, newer)
			if err != nil {
				return err
			}

			if out == "" {
				if err := writeReport(cmd.OutOrStdout(), rep, format); err != nil {
					return err
				}
			} else {
				if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
					return err
				}
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create report: %w", err)
				}
				if err := writeReport(f, rep, format); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
			}

			if res.ChangeSet.IsEmpty() {
				fmt.Fprintln(cmd.ErrOrStderr(), "no effectual changes")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&naming, "naming", "", "entity naming: short, label or gensym (default from config)")
	cmd.Flags().StringVar(&format, "format", "xml", "report format: xml or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the report to a file")
	return cmd
}

func writeReport(w io.Writer, rep *report.Report, format string) error {
	switch format {
	case "xml":
		return rep.WriteXML(w)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func compareCmd(a *app) *cobra.Command {
	var op, ontology, out, mode string

	cmd := &cobra.Command{
		Use:   "compare SOURCE...",
		Short: "Cluster the outputs of several reasoners for one operation",
		Long: "Each SOURCE is id=path, or a path whose id is the directory id_depth levels above it.\n" +
			"Prints one CSV row: ontology, operation, then a verdict per known source.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if mode != "" {
				a.cfg.Compare.Mode = mode
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			inputs, err := compare.ParseInputs(args, a.cfg.Compare.IDDepth)
			if err != nil {
				return err
			}

			e, err := a.engine(ctx)
			if err != nil {
				return err
			}
			defer e.Close(ctx)

			res, err := e.Compare(ctx, core.CompareRequest{Operation: op, Ontology: ontology, Inputs: inputs})
			if err != nil {
				return err
			}

			if out != "" {
				if err := appendRow(out, res.Row); err != nil {
					return err
				}
			}
			return report.WriteClusterRows(cmd.OutOrStdout(), res.Row)
		},
	}

	cmd.Flags().StringVar(&op, "op", "classification", "operation: classification, sat, query or consistency")
	cmd.Flags().StringVar(&ontology, "ontology", "", "ontology name for the row (default: parent directory of the first result)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "append the row to a CSV file")
	cmd.Flags().StringVar(&mode, "mode", "", "clustering mode: greedy or closure (default from config)")
	return cmd
}

func appendRow(path string, row report.ClusterRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := report.WriteClusterRows(f, row); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func verifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify OPERATION ONTOLOGY OUTPUT [CONCEPT]",
		Short: "Check the inputs of a reasoner run",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := loader.VerifyRequest{Operation: args[0], OntologyPath: args[1], OutputPath: args[2]}
			if len(args) == 4 {
				req.Concept = args[3]
			}
			o, err := loader.Verify(req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (%d logical axioms)\n", o.ID, o.LogicalAxioms().Len())
			return nil
		},
	}
}

func sampleCmd(a *app) *cobra.Command {
	var out string
	var seed uint64

	cmd := &cobra.Command{
		Use:   "sample ONTOLOGY N",
		Short: "Pick N random class names for sat queries",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid sample size %q", args[1])
			}
			o, err := loader.LoadOntology(args[0])
			if err != nil {
				return err
			}

			s := sampler.New()
			if cmd.Flags().Changed("seed") {
				s = sampler.NewSeeded(seed)
			}
			names, err := s.Sample(o, n)
			if err != nil {
				return err
			}

			if out != "" {
				return sampler.WriteFile(out, names)
			}
			return sampler.Write(cmd.OutOrStdout(), names)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the names to a file")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for a reproducible sample")
	return cmd
}

func harvestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "harvest LOG OPERATION ONTOLOGY ERRBASE OUTDIR [CONCEPT]",
		Short: "Append the timings and errors of a reasoner run to OUTDIR/_OPERATION.csv",
		Args:  cobra.RangeArgs(5, 6),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := loader.Harvest{
				LogPath:      args[0],
				Operation:    args[1],
				OntologyPath: args[2],
				ErrorBase:    args[3],
				OutDir:       args[4],
			}
			if len(args) == 6 {
				h.Concept = args[5]
			}
			path, err := h.Append()
			if err != nil {
				return err
			}
			a.logger.Info("row appended", "file", path)
			return nil
		},
	}
}

func runsCmd(a *app) *cobra.Command {
	var ontology string
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded comparisons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := a.engine(ctx)
			if err != nil {
				return err
			}
			defer e.Close(ctx)

			runs, err := e.Runs(ctx, ontology, limit)
			if err != nil {
				return err
			}
			return printRuns(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().StringVar(&ontology, "ontology", "", "only runs for this ontology")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs")
	return cmd
}

func printRuns(w io.Writer, runs []store.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tONTOLOGY\tOPERATION\tMODE\tMAJORITY")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%v\n",
			shortID(r.ID), r.CreatedAt.Format("2006-01-02 15:04:05"), r.Ontology, r.Operation, r.Mode, r.MajorityIDs())
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := a.engine(ctx)
			if err != nil {
				return err
			}
			defer e.Close(ctx)

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			r := server.NewServer(e).SetupRouter()

			a.logger.Info("starting server", "addr", addr)
			return r.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
