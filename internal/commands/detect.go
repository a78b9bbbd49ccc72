package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDetectCommand(a *app) *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Identify the bank layout of a statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := inputKind(args[0], kindFlag)
			if err != nil {
				return err
			}
			in, err := readInput(args[0], kind)
			if err != nil {
				return err
			}

			m, err := a.registry.Detect(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", m.BankID, m.BankDisplayName, m.Encoding)
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "input kind (tabular or document); default from extension")

	return cmd
}
