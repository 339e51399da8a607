// Package layout derives the MMT installation paths from an install root and
// builds the command line that launches a Java main class against them.
//
// A Layout is immutable once built. Use New when the root is known, or
// Default to locate the root from the running executable:
//
//	<root>/
//	  bin/mmt          (this executable)
//	  build/mmt-<version>.jar
//	  engines/ runtime/ lib/ opt/bin/
package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Version is the MMT release this installation ships. The jar name is
// derived from it.
const Version = "0.11.1"

// Directory names below the install root.
const (
	EnginesDirName = "engines"
	RuntimeDirName = "runtime"
	OptDirName     = "opt"
	LibDirName     = "lib"
	BuildDirName   = "build"
	BinDirName     = "bin"
)

// Java launch constants.
const (
	JavaExecutable      = "java"
	ClasspathFlag       = "-cp"
	HomeProperty        = "-Dmmt.home="
	LibraryPathProperty = "-Djava.library.path="
)

// ErrLocate is returned when the running executable cannot be located on disk.
var ErrLocate = errors.New("cannot locate installation root")

// Layout is the set of absolute paths of an MMT installation.
type Layout struct {
	root       string
	enginesDir string
	runtimeDir string
	optDir     string
	libDir     string
	buildDir   string
	binDir     string
	jarPath    string
}

// New returns the layout anchored at root. Relative roots are resolved
// against the working directory.
func New(root string) (*Layout, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty root", ErrLocate)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %q: %w", root, err)
	}

	l := &Layout{
		root:       abs,
		enginesDir: filepath.Join(abs, EnginesDirName),
		runtimeDir: filepath.Join(abs, RuntimeDirName),
		optDir:     filepath.Join(abs, OptDirName),
		libDir:     filepath.Join(abs, LibDirName),
		buildDir:   filepath.Join(abs, BuildDirName),
	}
	l.binDir = filepath.Join(l.optDir, BinDirName)
	l.jarPath = filepath.Join(l.buildDir, JarName(Version))
	return l, nil
}

// JarName returns the file name of the application archive for version.
func JarName(version string) string {
	return "mmt-" + version + ".jar"
}

// Root returns the installation root.
func (l *Layout) Root() string { return l.root }

// EnginesDir returns the directory holding engine models.
func (l *Layout) EnginesDir() string { return l.enginesDir }

// RuntimeDir returns the directory holding per-engine runtime state.
func (l *Layout) RuntimeDir() string { return l.runtimeDir }

// OptDir returns the directory of bundled third-party tools.
func (l *Layout) OptDir() string { return l.optDir }

// LibDir returns the directory of bundled libraries.
func (l *Layout) LibDir() string { return l.libDir }

// BuildDir returns the directory holding the build output.
func (l *Layout) BuildDir() string { return l.buildDir }

// BinDir returns the bin directory of the bundled tools.
func (l *Layout) BinDir() string { return l.binDir }

// JarPath returns the path of the application archive.
func (l *Layout) JarPath() string { return l.jarPath }

// LibsPath returns the native library search path passed to the JVM.
func (l *Layout) LibsPath() string { return l.buildDir }

// Version returns the release version the jar path is derived from.
func (l *Layout) Version() string { return Version }

// EngineDir returns the model directory of the named engine.
func (l *Layout) EngineDir(name string) string {
	return filepath.Join(l.enginesDir, name)
}

// RuntimeEngineDir returns the runtime directory of the named engine.
func (l *Layout) RuntimeEngineDir(name string) string {
	return filepath.Join(l.runtimeDir, name)
}

// JavaMain returns the argument vector that runs mainClass on the MMT
// classpath, followed by args. The result is a new slice on every call.
func (l *Layout) JavaMain(mainClass string, args ...string) []string {
	command := make([]string, 0, 6+len(args))
	command = append(command,
		JavaExecutable,
		ClasspathFlag, l.jarPath,
		HomeProperty+l.root,
		LibraryPathProperty+l.LibsPath(),
		mainClass,
	)
	return append(command, args...)
}

// Dir is a named path of the layout.
type Dir struct {
	Name string `json:"name"`
	Path string `json:"path"`
	// File is set for entries that are files rather than directories.
	File bool `json:"file,omitempty"`
}

// Dirs lists every path of the layout in a fixed order.
func (l *Layout) Dirs() []Dir {
	return []Dir{
		{Name: "root", Path: l.root},
		{Name: "engines", Path: l.enginesDir},
		{Name: "runtime", Path: l.runtimeDir},
		{Name: "opt", Path: l.optDir},
		{Name: "bin", Path: l.binDir},
		{Name: "lib", Path: l.libDir},
		{Name: "build", Path: l.buildDir},
		{Name: "jar", Path: l.jarPath, File: true},
	}
}

// executable is replaced in tests.
var executable = os.Executable

// Locate returns the installation root of the running executable: the
// parent of the directory that holds the symlink-resolved binary.
func Locate() (string, error) {
	exe, err := executable()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLocate, err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLocate, err)
	}
	resolved, err = filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLocate, err)
	}
	return filepath.Dir(filepath.Dir(resolved)), nil
}

var (
	defaultOnce   sync.Once
	defaultLayout *Layout
	defaultErr    error
)

// Default returns the layout of the running installation. The root is
// located once per process; later calls return the same value.
func Default() (*Layout, error) {
	defaultOnce.Do(func() {
		root, err := Locate()
		if err != nil {
			defaultErr = err
			return
		}
		defaultLayout, defaultErr = New(root)
	})
	return defaultLayout, defaultErr
}

// resetDefault clears the cached default layout. Used for testing.
func resetDefault() {
	defaultOnce = sync.Once{}
	defaultLayout = nil
	defaultErr = nil
}
