package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var studentsWorkshop string

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "List enrolled students and edit their tags",
}

var studentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List students, grouped by workshop",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()

		roster := a.session.Roster()
		workshops := a.session.Workshops()

		for _, id := range roster.WorkshopIDs() {
			if studentsWorkshop != "" && id != studentsWorkshop {
				continue
			}
			title := id
			if w, ok := workshops.Lookup(id); ok {
				title = fmt.Sprintf("%s (%s)", w.Name, id)
			}
			fmt.Fprintf(a.out, "%s\n", title)
			for _, s := range roster.Students(id) {
				if len(s.Tags) > 0 {
					fmt.Fprintf(a.out, "  - %s [%s]\n", s.Name, strings.Join(s.Tags, ", "))
				} else {
					fmt.Fprintf(a.out, "  - %s\n", s.Name)
				}
			}
		}

		if tags := roster.AllTags(); len(tags) > 0 {
			fmt.Fprintf(a.out, "\nEtiquetas: %s\n", strings.Join(tags, ", "))
		}
		return nil
	},
}

var studentsTagCmd = &cobra.Command{
	Use:   "tag WORKSHOP_ID NAME [TAG...]",
	Short: "Replace a student's tags and save the roster",
	Long: `Replace the tags of one student. Give no tags to clear them.

  recibos students tag W1 "García, María" beca hermanos`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()

		return a.session.SetStudentTags(args[0], args[1], args[2:])
	},
}

func init() {
	rootCmd.AddCommand(studentsCmd)
	studentsCmd.AddCommand(studentsListCmd, studentsTagCmd)

	studentsListCmd.Flags().StringVarP(&studentsWorkshop, "workshop", "w", "", "Only this workshop id")
}
