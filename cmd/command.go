package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/modernmt/mmt/internal/shellquote"
	"github.com/spf13/cobra"
)

var commandJSON bool

var commandCmd = &cobra.Command{
	Use:   "command <main-class> [args...]",
	Short: "Print the java command line for a main class",
	Long: `Command prints the java command line that runs the given main class on the
MMT classpath, quoted so it can be pasted into a shell. Everything after the
main class is appended to the command line as is.

  mmt command eu.modernmt.cli.Main start -e default`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

func init() {
	rootCmd.AddCommand(commandCmd)
	commandCmd.Flags().BoolVar(&commandJSON, "json", false, "Print the command as a JSON array")
	// flags after the main class belong to the java program
	commandCmd.Flags().SetInterspersed(false)
}

func runCommand(cmd *cobra.Command, args []string) error {
	l, err := currentLayout()
	if err != nil {
		return err
	}

	argv := l.JavaMain(args[0], args[1:]...)
	out := cmd.OutOrStdout()

	if commandJSON {
		return json.NewEncoder(out).Encode(argv)
	}

	line, err := shellquote.Join(argv)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, line)
	return err
}
