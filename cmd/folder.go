package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/workshop-receipts/pkg/utils"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Work folder operations",
}

var folderInitCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Open a work folder, creating missing files",
	Long: `Open the work folder and load its three files. Missing files are created
with their header row only. A file that cannot be read is reported and the
others still load.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.close()

		path := workFolder(a.cfg)
		if len(args) == 1 {
			path = args[0]
		}

		folder, err := utils.OpenFolder(path)
		if errors.Is(err, utils.ErrNoSelection) {
			return errors.New("no work folder: pass PATH, --folder or set work_folder")
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(a.out, "Procesando carpeta: %s...\n", folder.Name())
		summary := a.session.Open(folder)

		fmt.Fprintln(a.out, "\n=== Carpeta de trabajo ===")
		fmt.Fprintf(a.out, "Ruta:        %s\n", folder.Path())
		fmt.Fprintf(a.out, "Cargados:    %d\n", summary.Found)
		fmt.Fprintf(a.out, "Creados:     %d\n", summary.Created)
		fmt.Fprintf(a.out, "Errores:     %d\n", len(summary.Errors))

		if len(summary.Errors) > 0 {
			return fmt.Errorf("%d file(s) could not be loaded", len(summary.Errors))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(folderCmd)
	folderCmd.AddCommand(folderInitCmd)
}
