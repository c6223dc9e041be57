package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailcast/internal/recipientlist"
	"github.com/dmitrymomot/mailcast/pkg/dispatch"
)

// errInvalidRecipients is returned by validate --strict.
var errInvalidRecipients = errors.New("recipients file contains invalid addresses")

func newValidateCmd() *cobra.Command {
	var (
		asJSON bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Split a recipients file into valid and invalid addresses",
		Long: "Reads addresses separated by newlines, commas or semicolons ('-' reads stdin)\n" +
			"and prints which ones would be sent to and which would be skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			v := dispatch.Validate(recipientlist.Normalize(recipientlist.SplitEntries(string(data))))
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(map[string][]string{"valid": v.Valid, "invalid": v.Invalid}); err != nil {
					return err
				}
			} else {
				printPartition(out, v)
			}

			if strict && len(v.Invalid) > 0 {
				return fmt.Errorf("%w: %d", errInvalidRecipients, len(v.Invalid))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the partition as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when any address is invalid")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func printPartition(w io.Writer, v dispatch.ValidationResult) {
	fmt.Fprintf(w, "valid: %d\n", len(v.Valid))
	for _, a := range v.Valid {
		fmt.Fprintf(w, "  %s\n", a)
	}
	fmt.Fprintf(w, "invalid: %d\n", len(v.Invalid))
	for _, a := range v.Invalid {
		fmt.Fprintf(w, "  %s\n", a)
	}
}
