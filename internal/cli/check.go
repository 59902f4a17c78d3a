package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penguin-assist/penguin/internal/risk"
)

var (
	checkSignatures string
	checkFormat     string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkSignatures, "signatures", "", "Path to extra signature pack YAML")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
}

var checkCmd = &cobra.Command{
	Use:   "check <command...>",
	Short: "Classify a command without running it",
	Long: "Evaluates a shell command against the danger signature table and\n" +
		"prints every matching finding.\n\n" +
		"Exit code 0 when nothing matched, 1 when danger was found.",
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	classifier, err := risk.Load(checkSignatures)
	if err != nil {
		return fmt.Errorf("failed to load signatures: %w", err)
	}

	result := classifier.Classify(strings.Join(args, " "))

	switch checkFormat {
	case "json":
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		fmt.Print(formatResult(result))
	}

	if result.HasDanger {
		os.Exit(1)
	}
	return nil
}

func formatResult(result risk.Result) string {
	var b strings.Builder
	if !result.HasDanger {
		fmt.Fprintf(&b, "OK: no danger signatures matched %q\n", result.Command)
		return b.String()
	}

	fmt.Fprintf(&b, "DANGER: %q matched %d signature(s)\n", result.Command, len(result.Findings))
	for _, f := range result.Findings {
		fmt.Fprintf(&b, "  [%s] %s\n", strings.ToUpper(string(f.Level)), f.Reason)
	}
	return b.String()
}
