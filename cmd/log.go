package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/workshop-receipts/internal/locale"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show or save the payment log",
}

var logShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the most recent payments",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()

		entries := a.session.PaymentLog()
		if len(entries) == 0 {
			fmt.Fprintln(a.out, "No hay pagos registrados.")
			return nil
		}
		if logLimit > 0 && len(entries) > logLimit {
			entries = entries[len(entries)-logLimit:]
		}

		for _, e := range entries {
			fmt.Fprintf(a.out, "%s  %s  %-24s $%s\n", e.Date, e.ReceiptNumber, e.WorkshopName, locale.FormatAmountString(e.Amount))
			fmt.Fprintf(a.out, "    %s\n", e.StudentNames)
			if e.MonthDetail != "" {
				fmt.Fprintf(a.out, "    %s\n", e.MonthDetail)
			}
			if e.Notes != "" {
				fmt.Fprintf(a.out, "    Notas: %s\n", e.Notes)
			}
		}
		return nil
	},
}

var logSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the payment log file again",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()

		return a.session.SavePaymentLog()
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.AddCommand(logShowCmd, logSaveCmd)

	logShowCmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "Number of entries to show (0 for all)")
}
