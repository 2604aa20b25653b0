package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/speccrawl/internal/entity"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields [--keys]",
	Short: "Prints the output columns in order, tab separated, for use as a header row.",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := entity.DefaultFieldSpec()
		if err := spec.Validate(); err != nil {
			return err
		}

		showKeys, _ := cmd.Flags().GetBool("keys")
		if !showKeys {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(spec.Names(), "\t"))
			return nil
		}
		for _, f := range spec {
			key := f.LookupKey
			if key == "" {
				key = "-"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", f.Name, key)
		}
		return nil
	},
}

func init() {
	fieldsCmd.Flags().Bool("keys", false, "List each column with its data-spec lookup key.")
	rootCmd.AddCommand(fieldsCmd)
}
