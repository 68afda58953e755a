package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/workshop-receipts/internal/session"
)

var importSave bool

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a workshops, students or payment log file",
	Long: `Load a file in place of the one in the work folder. Files ending in .csv
are read with the delimiter and encoding of the "import" configuration
section; anything else is read as an xlsx workbook.

With --save the loaded data is written to the work folder (or downloaded
when there is none), converting it to the current layout.`,
}

// importKind binds an import subcommand to the session methods it uses.
type importKind struct {
	use   string
	short string
	load  func(*session.Session) func(string, []byte) error
	save  func(*session.Session) func() error
}

var importKinds = []importKind{
	{
		use:   "workshops FILE",
		short: "Load workshops",
		load:  func(s *session.Session) func(string, []byte) error { return s.ImportWorkshops },
		save:  func(s *session.Session) func() error { return s.SaveWorkshops },
	},
	{
		use:   "students FILE",
		short: "Load the student roster",
		load:  func(s *session.Session) func(string, []byte) error { return s.ImportRoster },
		save:  func(s *session.Session) func() error { return s.SaveRoster },
	},
	{
		use:   "log FILE",
		short: "Load the payment log",
		load:  func(s *session.Session) func(string, []byte) error { return s.ImportPaymentLog },
		save:  func(s *session.Session) func() error { return s.SavePaymentLog },
	},
}

func (k importKind) command() *cobra.Command {
	return &cobra.Command{
		Use:   k.use,
		Short: k.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, data, err := readInput(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd, importSave)
			if err != nil {
				return err
			}
			defer a.close()

			if err := k.load(a.session)(name, data); err != nil {
				return err
			}
			if importSave {
				return k.save(a.session)()
			}
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(importCmd)
	for _, k := range importKinds {
		importCmd.AddCommand(k.command())
	}

	importCmd.PersistentFlags().BoolVar(&importSave, "save", false, "Write the loaded data to the work folder")
}
