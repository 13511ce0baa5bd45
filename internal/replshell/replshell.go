// Package replshell is an interactive browser over a precomputed report
// list, grounded on internal/input's InteractiveCommandReader: a
// github.com/chzyer/readline session supplying prompt, history, and
// line editing. It never parses a grammar itself; it only steps through
// reports the driver already produced.
package replshell

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/dekarrin/unambig/internal/ambiguity"
	"github.com/dekarrin/unambig/internal/driver"
	"github.com/dekarrin/unambig/internal/report"
)

// Shell steps through a flattened list of ambiguity reports across every
// nonterminal a driver.Run produced, one at a time.
type Shell struct {
	rl      *readline.Instance
	entries []entry
	pos     int
	width   int
	out     io.Writer
}

type entry struct {
	nonterminal string
	report      ambiguity.Report
	index       int
}

// New creates a Shell over results, initializing readline with the given
// history file (empty disables history) and a default "> " prompt, in the
// manner of internal/input.NewInteractiveReader.
func New(results []driver.NTResult, historyFile string, out io.Writer) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "unambig> ",
		HistoryFile:     historyFile,
		Stdout:          out,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	var entries []entry
	for _, res := range results {
		for i, rep := range res.Reports {
			entries = append(entries, entry{nonterminal: res.Nonterminal, report: rep, index: i})
		}
	}

	return &Shell{rl: rl, entries: entries, width: report.DefaultWidth, out: out}, nil
}

// Close tears down readline resources.
func (s *Shell) Close() error {
	return s.rl.Close()
}

// Run reads commands until "quit" or end of input: "next"/"n" and
// "prev"/"p" move through the report list, "tree a"/"tree b" reprint just
// one side's trimmed parse tree, "show"/blank reprints the current report,
// and any other line is treated as an unrecognized-command error.
func (s *Shell) Run() error {
	if len(s.entries) == 0 {
		fmt.Fprintln(s.out, "no ambiguities to browse")
		return nil
	}

	s.printCurrent()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			return err
		}

		cmd := strings.Fields(strings.TrimSpace(line))
		if len(cmd) == 0 {
			s.printCurrent()
			continue
		}

		switch cmd[0] {
		case "quit", "q", "exit":
			return nil
		case "next", "n":
			s.move(1)
		case "prev", "p":
			s.move(-1)
		case "goto", "g":
			if len(cmd) < 2 {
				fmt.Fprintln(s.out, "usage: goto <index>")
				continue
			}
			n, err := strconv.Atoi(cmd[1])
			if err != nil || n < 1 || n > len(s.entries) {
				fmt.Fprintf(s.out, "index out of range: %s\n", cmd[1])
				continue
			}
			s.pos = n - 1
			s.printCurrent()
		case "tree":
			if len(cmd) < 2 {
				fmt.Fprintln(s.out, "usage: tree a|b")
				continue
			}
			s.printTree(cmd[1])
		case "show", "s":
			s.printCurrent()
		default:
			fmt.Fprintf(s.out, "unrecognized command: %s\n", cmd[0])
		}
	}
}

func (s *Shell) move(delta int) {
	next := s.pos + delta
	if next < 0 || next >= len(s.entries) {
		fmt.Fprintln(s.out, "no more reports in that direction")
		return
	}
	s.pos = next
	s.printCurrent()
}

func (s *Shell) printCurrent() {
	e := s.entries[s.pos]
	fmt.Fprintf(s.out, "[%d/%d] %s\n", s.pos+1, len(s.entries), e.nonterminal)
	fmt.Fprintln(s.out, report.Ambiguity(e.index+1, e.report, s.width))
}

func (s *Shell) printTree(side string) {
	e := s.entries[s.pos]
	switch strings.ToLower(side) {
	case "a":
		fmt.Fprintf(s.out, "%+v\n", e.report.TreeA)
	case "b":
		fmt.Fprintf(s.out, "%+v\n", e.report.TreeB)
	default:
		fmt.Fprintln(s.out, "usage: tree a|b")
	}
}
