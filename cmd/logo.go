package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoCmd = &cobra.Command{
	Use:   "logo",
	Short: "Manage the letterhead image printed on receipts",
}

var logoSetCmd = &cobra.Command{
	Use:   "set FILE",
	Short: "Store a PNG or JPEG image (up to 2 MB) as the letterhead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, data, err := readInput(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.close()

		return a.session.SetLogo(cmd.Context(), data)
	},
}

var logoClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the letterhead",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.close()

		return a.session.ClearLogo(cmd.Context())
	},
}

var logoShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Describe the stored letterhead",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.close()

		logo := a.session.Logo()
		switch {
		case logo == nil:
			fmt.Fprintln(a.out, "Sin logo.")
		case logo.Broken != nil:
			fmt.Fprintf(a.out, "Logo ilegible: %v\n", logo.Broken)
		default:
			fmt.Fprintf(a.out, "%s, %dx%d px, %d bytes\n", logo.Format, logo.Width, logo.Height, len(logo.Data))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoCmd)
	logoCmd.AddCommand(logoSetCmd, logoClearCmd, logoShowCmd)
}
