package layout

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// Problem describes a layout entry that is missing or has the wrong kind.
type Problem struct {
	Dir    Dir
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s (%s)", p.Dir.Name, p.Dir.Path, p.Reason)
}

// Check stats every layout entry on fs and returns the ones that are absent
// or of the wrong kind. It never modifies fs.
func (l *Layout) Check(fs afero.Fs) []Problem {
	var problems []Problem
	for _, d := range l.Dirs() {
		info, err := fs.Stat(d.Path)
		switch {
		case os.IsNotExist(err):
			problems = append(problems, Problem{Dir: d, Reason: "missing"})
		case err != nil:
			problems = append(problems, Problem{Dir: d, Reason: err.Error()})
		case d.File && info.IsDir():
			problems = append(problems, Problem{Dir: d, Reason: "is a directory"})
		case !d.File && !info.IsDir():
			problems = append(problems, Problem{Dir: d, Reason: "not a directory"})
		}
	}
	return problems
}
