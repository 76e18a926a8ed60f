package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hrdash/dataset"
	"hrdash/ml"
)

var (
	domainsJSON  bool
	domainsStats bool
)

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "Show the categorical codes and scaling statistics the encoder uses",
	Args:  cobra.NoArgs,
	RunE:  runDomains,
}

func init() {
	domainsCmd.Flags().BoolVar(&domainsJSON, "json", false, "print as JSON")
	domainsCmd.Flags().BoolVar(&domainsStats, "stats", false, "also print per-feature mean and std")
}

type domainsReport struct {
	Scaling ml.Scaling                `json:"scaling"`
	Domains map[string][]string       `json:"domains"`
	Stats   map[string]ml.ColumnStats `json:"stats,omitempty"`
}

func runDomains(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	scaling, err := ml.ParseScaling(cfg.Model.Scaling)
	if err != nil {
		return err
	}
	ds, err := dataset.Load(cfg.Data.Path)
	if err != nil {
		return err
	}
	enc, err := ml.NewEncoder(ds, ml.WithScaling(scaling))
	if err != nil {
		return err
	}

	report := domainsReport{Scaling: enc.Scaling(), Domains: enc.Domains()}
	if domainsStats {
		report.Stats = enc.Stats()
	}

	out := cmd.OutOrStdout()
	if domainsJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	for _, field := range ml.CategoricalFields() {
		labels := report.Domains[field]
		codes := make([]string, len(labels))
		for i, label := range labels {
			codes[i] = fmt.Sprintf("%d=%s", i, label)
		}
		fmt.Fprintf(out, "%-16s %s\n", field, strings.Join(codes, "  "))
	}
	if report.Stats == nil {
		return nil
	}
	fmt.Fprintf(out, "\n%-26s %12s %12s\n", "feature", "mean", "std")
	for _, name := range ml.FeatureNames() {
		s := report.Stats[name]
		fmt.Fprintf(out, "%-26s %12.4f %12.4f\n", name, s.Mean, s.Std)
	}
	return nil
}
