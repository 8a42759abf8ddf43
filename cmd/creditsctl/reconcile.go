package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reconcileCmd)
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Check every account against its transaction log",
	Long:  `Exits with an error when any account's balance or lifetime credits disagree with the sums of its transactions.`,
	RunE:  runReconcile,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.reconciliation.Check(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Checked %d accounts\n", report.Checked)
	for _, m := range report.Mismatches {
		fmt.Fprintf(out, "  %s  total %d (ledger %d)  lifetime %d (ledger %d)\n",
			m.StudentID, m.TotalCredits, m.LedgerTotal, m.LifetimeCredits, m.LedgerLifetime)
	}
	if !report.OK() {
		return fmt.Errorf("%d accounts do not reconcile", len(report.Mismatches))
	}
	fmt.Fprintln(out, "All accounts reconcile")
	return nil
}
