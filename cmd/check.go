package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// errIncomplete is returned by check when the installation is missing files.
var errIncomplete = errors.New("installation is incomplete")

// checkFs is the filesystem check inspects; tests swap in a memory fs.
var checkFs = afero.NewOsFs()

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the installation directories and jar exist",
	Long: `Check verifies that every directory of the installation and the mmt jar
exist. Missing entries are listed and mmt exits with a non-zero code.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	l, err := currentLayout()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	problems := l.Check(checkFs)
	if len(problems) == 0 {
		fmt.Fprintf(out, "Installation OK: %s (mmt %s)\n", l.Root(), l.Version())
		return nil
	}

	fmt.Fprintf(out, "Installation at %s has %d problem(s):\n", l.Root(), len(problems))
	for _, p := range problems {
		fmt.Fprintf(out, "  - %s\n", p)
	}
	return errIncomplete
}
