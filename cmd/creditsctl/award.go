package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(awardCmd)
	awardCmd.Flags().Int64P("amount", "a", 0, "Credits to award (must be positive)")
	awardCmd.Flags().StringP("description", "d", "", "Reason recorded on the transaction")
	_ = awardCmd.MarkFlagRequired("amount")
}

var awardCmd = &cobra.Command{
	Use:   "award STUDENT_ID",
	Short: "Grant bonus credits to a student",
	Args:  cobra.ExactArgs(1),
	RunE:  runAward,
}

func runAward(cmd *cobra.Command, args []string) error {
	studentID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid student id %q: %w", args[0], err)
	}
	amount, _ := cmd.Flags().GetInt64("amount")
	description, _ := cmd.Flags().GetString("description")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	acc, t, err := a.accounts.AwardManually(cmd.Context(), studentID, amount, description)
	if err != nil {
		return fmt.Errorf("award: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Awarded %d credits to %s (transaction %s). Balance %d, level %d\n",
		amount, studentID, t.ID, acc.TotalCredits, acc.Level)
	return nil
}
