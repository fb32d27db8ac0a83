package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var rolesLimit int

// personCmd shows a person and their best known roles
var personCmd = &cobra.Command{
	Use:   "person <id>",
	Short: "Show details for a person",
	Args:  cobra.ExactArgs(1),
	RunE:  runPerson,
}

func init() {
	personCmd.Flags().IntVar(&rolesLimit, "roles", 10, "number of roles to show")
}

func runPerson(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.Newf("invalid person id %q", args[0])
	}

	c, err := catalog()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	p := c.Person(id)
	name, err := p.Name(ctx)
	if err != nil {
		return err
	}
	born, _ := p.Birthday(ctx)
	died, _ := p.Deathday(ctx)
	birthplace, _ := p.Birthplace(ctx)
	biography, _ := p.Biography(ctx)
	roles, err := p.Roles(ctx)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), p.Snapshot(), func(w io.Writer) error {
		field(w, "Name", name)
		field(w, "Born", born)
		field(w, "Died", died)
		field(w, "Birthplace", birthplace)
		if len(roles) > 0 {
			fmt.Fprintln(w, "Roles:")
			for i, r := range roles {
				if i >= rolesLimit {
					break
				}
				character, _ := r.Character(ctx)
				fmt.Fprintf(w, "  • %s as %s\n", r.Describe(), character)
			}
		}
		if biography != "" {
			fmt.Fprintf(w, "\n%s\n", biography)
		}
		return nil
	})
}
