// Package replshell provides an interactive readline session for
// parsing and printing polynomial equations and inequalities, useful
// for exploring how a certificate template's generator expressions
// normalize before committing a synthesis run.
package replshell

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/kmallik/polycert/internal/algebra"
)

// Shell holds the readline instance and output stream for one
// interactive session. It must not be used after Close is called.
type Shell struct {
	rl  *readline.Instance
	out io.Writer
}

// New starts a readline-backed shell reading from stdin and writing
// parse results to out. The returned Shell must have Close called on
// it before disposal to properly tear down readline resources.
func New(out io.Writer) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "poly> ",
		HistoryFile: "",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &Shell{rl: rl, out: out}, nil
}

// Close releases readline's terminal resources.
func (s *Shell) Close() error {
	return s.rl.Close()
}

// Run reads lines until EOF or a "quit"/"exit" command, echoing back
// the canonical form of each parsed equation or inequality. A line
// that fails to parse as either prints a diagnostic and continues the
// session rather than exiting it.
func (s *Shell) Run() error {
	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(s.out, "enter a polynomial equation (e.g. \"2*S1*S1 + A1 - 3\") or an")
			fmt.Fprintln(s.out, "inequality (e.g. \"S1 + A1 >= 0\"); QUIT or EXIT to leave")
			continue
		}

		s.evalLine(line)
	}
}

func (s *Shell) evalLine(line string) {
	if ineq, err := algebra.ParseInequality(line); err == nil {
		fmt.Fprintln(s.out, ineq.String())
		return
	}

	eq, err := algebra.Parse(line)
	if err != nil {
		fmt.Fprintf(s.out, "parse error: %s\n", err.Error())
		return
	}
	fmt.Fprintln(s.out, eq.String())
}
