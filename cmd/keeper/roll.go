package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/coc-keeper/internal/dice"
)

var rollCmd = &cobra.Command{
	Use:   "roll [expression]",
	Short: "Roll a dice expression once",
	Long:  `Roll a dice expression such as 3d6+2 or 1d100 and print the breakdown. Defaults to 1d100.`,
	RunE:  runRoll,
}

func runRoll(cmd *cobra.Command, args []string) error {
	notation := strings.Join(args, "")
	if notation == "" {
		notation = "1d100"
	}

	res, err := dice.NewEvaluator(nil).Evaluate(notation)
	if err != nil {
		return err
	}

	if !res.OK() {
		fmt.Fprintln(cmd.OutOrStdout(), res.Diagnostic)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Breakdown)
	return nil
}
