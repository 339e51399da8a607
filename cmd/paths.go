package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	pathsJSON   bool
	pathsEngine string
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show the installation paths",
	Long: `Paths prints every directory of the installation together with the path
of the mmt jar, one per line. Use --json for machine-readable output.

With --engine NAME the model and runtime directories of that engine are
printed as well.`,
	Args: cobra.NoArgs,
	RunE: runPaths,
}

func init() {
	rootCmd.AddCommand(pathsCmd)
	pathsCmd.Flags().BoolVar(&pathsJSON, "json", false, "Print paths as JSON")
	pathsCmd.Flags().StringVarP(&pathsEngine, "engine", "e", "", "Also show the directories of this engine")
}

func validEngineName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid engine name %q", name)
	}
	return nil
}

func runPaths(cmd *cobra.Command, args []string) error {
	if pathsEngine != "" {
		if err := validEngineName(pathsEngine); err != nil {
			return err
		}
	}

	l, err := currentLayout()
	if err != nil {
		return err
	}

	type entry struct{ name, path string }
	var entries []entry
	for _, d := range l.Dirs() {
		entries = append(entries, entry{d.Name, d.Path})
	}
	if pathsEngine != "" {
		entries = append(entries,
			entry{"engine", l.EngineDir(pathsEngine)},
			entry{"engine_runtime", l.RuntimeEngineDir(pathsEngine)})
	}

	out := cmd.OutOrStdout()

	if pathsJSON {
		doc := struct {
			Version string            `json:"version"`
			Engine  string            `json:"engine,omitempty"`
			Paths   map[string]string `json:"paths"`
		}{Version: l.Version(), Engine: pathsEngine, Paths: map[string]string{}}
		for _, e := range entries {
			doc.Paths[e.name] = e.path
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "version\t%s\n", l.Version())
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\n", e.name, e.path)
	}
	return w.Flush()
}
