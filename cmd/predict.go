package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hrdash/ml"
	"hrdash/prediction"
)

var (
	predictInput string
	predictSet   []string
	predictJSON  bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score one employee from a JSON file and/or Field=value pairs",
	Long: `Score one employee. Fields not given fall back to the dashboard form
defaults, so --set OverTime=Yes --set Age=25 is a complete request.
Use --input - to read the JSON object from stdin.`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVarP(&predictInput, "input", "i", "", "JSON object with employee fields")
	predictCmd.Flags().StringArrayVarP(&predictSet, "set", "s", nil, "field override as Field=value (repeatable)")
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "print the outcome as JSON")
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := loadCore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	raw := ml.DefaultInput(c.encoder)
	if predictInput != "" {
		fromFile, err := readInput(cmd.InOrStdin(), predictInput)
		if err != nil {
			return err
		}
		for k, v := range fromFile {
			raw[k] = v
		}
	}
	overrides, err := parseSet(predictSet)
	if err != nil {
		return err
	}
	for k, v := range overrides {
		raw[k] = v
	}

	service := prediction.NewService(c.encoder, c.model)
	outcome, err := service.Predict(cmd.Context(), raw)
	if err != nil {
		return fmt.Errorf("%s (%w)", prediction.ErrorMessage(err), err)
	}
	return printOutcome(cmd.OutOrStdout(), outcome, predictJSON)
}

func readInput(stdin io.Reader, path string) (map[string]any, error) {
	r := stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		r = file
	}

	var raw map[string]any
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}

func parseSet(pairs []string) (map[string]any, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --set %q, want Field=value", pair)
		}
		values[strings.TrimSpace(name)] = value
	}
	return ml.RawFromStrings(values)
}

func printOutcome(w io.Writer, outcome *prediction.Outcome, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}
	_, err := fmt.Fprintf(w, "%s (confidence %.1f%%)\n", outcome.Message, outcome.Confidence*100)
	return err
}
