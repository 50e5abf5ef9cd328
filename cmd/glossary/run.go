package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/cognicore/glossary/pkg/glossary"
)

var metricsFile string

var runCmd = &cobra.Command{
	Use:   "run <document>...",
	Short: "Extract and store new glossary terms from documents",
	Long: `Run the extraction pipeline over each document in turn.

Documents that cannot be read are reported as skipped and do not stop
the remaining documents. When --domains is given, the domains are
upserted before the first document is processed.

Examples:
  glossary run --config glossary.yaml policy.pdf
  glossary run --domains domains.yaml --metrics-file run.prom a.docx b.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file when done")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	eng, err := buildEngine(ctx, cfgFile, stoplistFile, domainsFile)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	if len(eng.domains) > 0 {
		n, err := eng.glossary.SeedDomains(ctx, eng.domains)
		if err != nil {
			return err
		}
		eng.log.WithField("domains", n).Info("business domains seeded")
	}

	reports := make([]glossary.Report, 0, len(args))
	for _, path := range args {
		rep, err := eng.glossary.Run(ctx, path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		reports = append(reports, rep)
	}

	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, eng.registry); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), reports)
	}
	for _, rep := range reports {
		printReport(cmd.OutOrStdout(), rep)
	}
	return nil
}

func printReport(w io.Writer, rep glossary.Report) {
	fmt.Fprintf(w, "%s (run %s)\n", rep.Document, rep.RunID)
	if rep.Skipped != "" {
		fmt.Fprintf(w, "  skipped: %s\n", rep.Skipped)
		return
	}
	fmt.Fprintf(w, "  candidates: %d linguistic, %d statistical, %d merged\n", rep.Linguistic, rep.Statistical, rep.Merged)
	fmt.Fprintf(w, "  filtered:   %d after exact match, %d novel, %d selected, %d with context\n",
		rep.AfterExact, rep.Novel, rep.Selected, rep.WithContext)
	fmt.Fprintf(w, "  enriched:   %d ok, %d failed, %d saved in %s\n",
		rep.Enriched, rep.Failed, rep.Saved, rep.Duration.Round(time.Millisecond))
	for _, t := range rep.Terms {
		status := "ok"
		if t.Failed() {
			status = "failed"
			if t.Error != nil {
				status = *t.Error
			}
		}
		fmt.Fprintf(w, "    %-40s %.3f  %s  [%s]\n", t.Term, t.FinalScore, t.DomainHint(), status)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
