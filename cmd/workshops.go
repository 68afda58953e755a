package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/workshop-receipts/internal/types"
)

var workshopFlags struct {
	id      string
	name    string
	details string
	fees    string
}

var workshopsCmd = &cobra.Command{
	Use:   "workshops",
	Short: "List and manage workshops",
}

var workshopsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the workshops",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()

		ws := a.session.Workshops()
		if len(ws) == 0 {
			fmt.Fprintln(a.out, "No hay talleres cargados.")
			return nil
		}
		for _, w := range ws {
			fmt.Fprintf(a.out, "%-28s %s\n", w.ID, w.Name)
			if w.Details != "" {
				fmt.Fprintf(a.out, "%-28s   %s\n", "", w.Details)
			}
			if w.Fees != "" {
				fmt.Fprintf(a.out, "%-28s   Aranceles: %s\n", "", w.Fees)
			}
		}
		return nil
	},
}

var workshopsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a workshop and save the workshops file",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()

		w, err := a.session.AddWorkshop(types.Workshop{
			ID:      workshopFlags.id,
			Name:    workshopFlags.name,
			Details: workshopFlags.details,
			Fees:    workshopFlags.fees,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Id: %s\n", w.ID)
		return a.session.SaveWorkshops()
	},
}

var workshopsEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a workshop and save the workshops file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()

		w, ok := a.session.Workshops().Lookup(args[0])
		if !ok {
			return fmt.Errorf("workshop %q not found", args[0])
		}

		flags := cmd.Flags()
		if flags.Changed("name") {
			w.Name = workshopFlags.name
		}
		if flags.Changed("details") {
			w.Details = workshopFlags.details
		}
		if flags.Changed("fees") {
			w.Fees = workshopFlags.fees
		}

		if err := a.session.UpdateWorkshop(w); err != nil {
			return err
		}
		return a.session.SaveWorkshops()
	},
}

var workshopsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a workshop and save the workshops file",
	Long: `Delete a workshop. Enrolled students and logged payments that reference
it are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.session.DeleteWorkshop(args[0]); err != nil {
			return err
		}
		return a.session.SaveWorkshops()
	},
}

func init() {
	rootCmd.AddCommand(workshopsCmd)
	workshopsCmd.AddCommand(workshopsListCmd, workshopsAddCmd, workshopsEditCmd, workshopsDeleteCmd)

	workshopsAddCmd.Flags().StringVar(&workshopFlags.id, "id", "", "Workshop id (generated when empty)")
	for _, c := range []*cobra.Command{workshopsAddCmd, workshopsEditCmd} {
		c.Flags().StringVar(&workshopFlags.name, "name", "", "Workshop name")
		c.Flags().StringVar(&workshopFlags.details, "details", "", "Description")
		c.Flags().StringVar(&workshopFlags.fees, "fees", "", "Fee schedule")
	}
	workshopsAddCmd.MarkFlagRequired("name")
}
