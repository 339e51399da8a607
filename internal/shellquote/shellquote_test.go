package shellquote

import (
	"reflect"
	"strings"
	"testing"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// parseWords parses line as a single Bash command and returns its expanded words.
func parseWords(t *testing.T, line string) []string {
	t.Helper()
	prog, err := syntax.NewParser().Parse(strings.NewReader(line), "")
	if err != nil {
		t.Fatalf("parse %q: %v", line, err)
	}
	if len(prog.Stmts) != 1 {
		t.Fatalf("expected 1 statement in %q, got %d", line, len(prog.Stmts))
	}
	call, ok := prog.Stmts[0].Cmd.(*syntax.CallExpr)
	if !ok {
		t.Fatalf("expected a simple command in %q", line)
	}
	var words []string
	for _, w := range call.Args {
		s, err := expand.Literal(nil, w)
		if err != nil {
			t.Fatalf("expand %q: %v", line, err)
		}
		words = append(words, s)
	}
	return words
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want string
	}{
		{"plain words", []string{"java", "-cp", "/opt/mmt/build/mmt-0.11.1.jar"}, "java -cp /opt/mmt/build/mmt-0.11.1.jar"},
		{"needs quoting", []string{"java", "my engine"}, "java 'my engine'"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Join(tt.argv)
			if err != nil {
				t.Fatalf("Join() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Join() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJoinRoundTrip(t *testing.T) {
	argvs := [][]string{
		{"java", "-Dmmt.home=/path with spaces/mmt", "eu.modernmt.cli.Main"},
		{"java", "it's", `a "quoted" arg`, "$HOME", "a;b && c", "*"},
		{"java", "", "--flag=a b"},
	}

	for _, argv := range argvs {
		line, err := Join(argv)
		if err != nil {
			t.Fatalf("Join(%q) error = %v", argv, err)
		}
		got := parseWords(t, line)
		if !reflect.DeepEqual(got, argv) {
			t.Errorf("round trip of %q through %q = %q", argv, line, got)
		}
	}
}

func TestQuoteRejectsNUL(t *testing.T) {
	if _, err := Quote("a\x00b"); err == nil {
		t.Error("expected error quoting a NUL byte")
	}
	if got := MustJoin([]string{"java", "a\x00b"}); got != "java a\x00b" {
		t.Errorf("MustJoin() = %q", got)
	}
}
