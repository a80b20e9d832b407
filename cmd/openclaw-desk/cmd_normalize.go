package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/openclaw-desk/internal/actions"
)

// normalizeResult is what the normalize command prints.
type normalizeResult struct {
	Actions []map[string]any `json:"actions"`
	Preview []string         `json:"preview"`
	Dropped int              `json:"dropped"`
	Reasons []string         `json:"reasons,omitempty"`
}

func normalizeCmd() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "normalize <file|->",
		Short: "Normalize an action batch file (JSON or YAML) without executing it",
		Long: `Reads an action batch as an agent would propose it, normalizes every entry
and prints the canonical actions with their previews. Entries that fail
validation are counted and explained. Files ending in .yaml or .yml, or any
input with --yaml, are read as YAML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return fmt.Errorf("normalize: %w", err)
			}
			ext := strings.ToLower(filepath.Ext(args[0]))
			res, err := normalizeBatch(data, asYAML || ext == ".yaml" || ext == ".yml")
			if err != nil {
				return fmt.Errorf("normalize: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(res)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "read the input as YAML")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// normalizeBatch decodes data and normalizes it. YAML is re-encoded as JSON
// first so both formats share one decoder.
func normalizeBatch(data []byte, isYAML bool) (*normalizeResult, error) {
	if isYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
		var err error
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("converting YAML: %w", err)
		}
	}

	rep, err := actions.Decode(data)
	if err != nil {
		return nil, err
	}
	canon, err := actions.Canonical(rep.Actions)
	if err != nil {
		return nil, err
	}
	preview := make([]string, 0, len(rep.Actions))
	for _, a := range rep.Actions {
		preview = append(preview, actions.Describe(a))
	}
	return &normalizeResult{Actions: canon, Preview: preview, Dropped: rep.Dropped, Reasons: rep.Reasons}, nil
}
