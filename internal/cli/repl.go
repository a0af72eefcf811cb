// internal/cli/repl.go
//
// The command loop itself is grounded on the teacher's cmd/cli/main.go:
// a peterh/liner.State for prompt editing and a persisted history file,
// read once at startup and written back on exit. Where the teacher's
// loop forwards lines to a TCP connection and streams the remote
// server's response back, this one dispatches directly against an
// in-process *bptree.DB — same editing/history concern, restructured
// control flow for a single binary instead of a client/server pair.
//
// The command set and help/status text are ported from
// original_source/ytree.c's main() switch, print_console_help, and
// print_status, translated from single-character scanf reads to
// whitespace-split lines (spec.md's own "i k", "r k1 k2" notation
// already implies whole-line commands, not single keystrokes).
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/dewid/ytree/internal/bptree"
)

const helpText = `Enter any of the following commands after the prompt >>:
  i <k>         Insert <k> as both key and value
  f <k>         Find the value under key <k>
  p <k>         Same as f: print the value under key <k> (no path is printed)
  r <k1> <k2>   Print the keys and values found in the range [<k1>, <k2>]
  d <k>         Delete key <k> and its associated value
  x             Destroy the whole tree. Start again with an empty tree of the same order
  t             Print the tree
  l             Print the keys of the leaves (bottom row of the tree)
  v             Toggle verbose output
  a             Print status
  q             Quit (or Ctrl-D)
  ?             Print this help message
`

// Dispatcher executes single REPL commands against a DB. It holds the
// per-handle verbose flag and schema index the source keeps as
// globals/struct fields, never package-level mutable state.
type Dispatcher struct {
	db          *bptree.DB
	schemaIndex int
	verbose     bool
}

// NewDispatcher builds a Dispatcher for db, identified by schemaIndex
// in status output (see the "Schema index" line print_status prints).
func NewDispatcher(db *bptree.DB, schemaIndex int) *Dispatcher {
	return &Dispatcher{db: db, schemaIndex: schemaIndex}
}

// Help returns the command help text, ported from the source's
// print_console_help, shown for the "?" command and on an unrecognized
// one.
func (d *Dispatcher) Help() string {
	return helpText
}

// Status returns the status report the source's print_status prints
// for the "a" command.
func (d *Dispatcher) Status() string {
	var b strings.Builder
	fmt.Fprintln(&b, "Database status:")
	fmt.Fprintf(&b, "  Schema index %d\n", d.schemaIndex)
	fmt.Fprintln(&b, "  Index type B+Tree")
	fmt.Fprintf(&b, "  Current order %d\n", d.db.Order())
	fmt.Fprintf(&b, "  Verbose output %s\n", onOff(d.verbose))
	fmt.Fprintf(&b, "  Tree height %d\n", d.db.Height())
	fmt.Fprintf(&b, "  Tree empty %s\n", yesNo(d.db.Empty()))
	fmt.Fprintf(&b, "  Count %d\n", d.db.Count())
	return b.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Dispatch executes one command line against d's DB, writing any
// output to out. It reports whether the caller should stop the REPL
// loop (the "q" command).
func (d *Dispatcher) Dispatch(line string, out io.Writer) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "i":
		key, ok := parseKey(fields, out, "i")
		if !ok {
			return false
		}
		d.db.Insert(key, bptree.NewIntRecord(key))
		d.db.PrintTree(out)
	case "d":
		key, ok := parseKey(fields, out, "d")
		if !ok {
			return false
		}
		d.db.Delete(key)
		d.db.PrintTree(out)
	case "f", "p":
		key, ok := parseKey(fields, out, fields[0])
		if !ok {
			return false
		}
		d.findAndPrint(key, out)
	case "r":
		if len(fields) < 3 {
			fmt.Fprintf(out, "usage: r <k1> <k2>\n")
			return false
		}
		lo, err1 := strconv.ParseInt(fields[1], 10, 32)
		hi, err2 := strconv.ParseInt(fields[2], 10, 32)
		if err1 != nil || err2 != nil {
			fmt.Fprintf(out, "usage: r <k1> <k2>, both integers\n")
			return false
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		d.findAndPrintRange(int32(lo), int32(hi), out)
	case "l":
		d.db.PrintLeaves(out)
	case "t":
		d.db.PrintTree(out)
	case "v":
		d.verbose = !d.verbose
		fmt.Fprintf(out, "Verbose output: %v\n", d.verbose)
	case "a":
		fmt.Fprint(out, d.Status())
	case "x":
		d.db.Purge()
	case "q":
		return true
	default:
		fmt.Fprint(out, d.Help())
	}
	return false
}

func parseKey(fields []string, out io.Writer, cmd string) (int32, bool) {
	if len(fields) < 2 {
		fmt.Fprintf(out, "usage: %s <k>\n", cmd)
		return 0, false
	}
	n, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil {
		fmt.Fprintf(out, "usage: %s <k>, <k> must be an integer\n", cmd)
		return 0, false
	}
	return int32(n), true
}

func (d *Dispatcher) findAndPrint(key int32, out io.Writer) {
	rec, ok := d.db.Find(key)
	if !ok {
		fmt.Fprintf(out, "Key: %d  Record: NULL\n", key)
		return
	}
	fmt.Fprintf(out, "Key: %d  Record: ", key)
	d.db.PrintValue(out, rec)
}

func (d *Dispatcher) findAndPrintRange(lo, hi int32, out io.Writer) {
	found := d.db.Range(lo, hi)
	if len(found) == 0 {
		fmt.Fprintln(out, "None found")
		return
	}
	for _, kr := range found {
		fmt.Fprintf(out, "Key: %d  Record: ", kr.Key)
		d.db.PrintValue(out, kr.Record)
	}
}

// InsertKeysFromFile bulk-inserts one integer key per line from path,
// matching the source's argv[2] newline-delimited key file.
func InsertKeysFromFile(db *bptree.DB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ytree/cli: read %s: %w", path, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n, err := strconv.ParseInt(line, 10, 32)
		if err != nil {
			return fmt.Errorf("ytree/cli: parse key %q in %s: %w", line, path, err)
		}
		db.Insert(int32(n), bptree.NewIntRecord(int32(n)))
	}
	return nil
}

// Run drives the interactive prompt loop: liner-backed line editing and
// history, dispatching each line to d until the "q" command or Ctrl-D.
func Run(d *Dispatcher, out io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyFile := filepath.Join(os.TempDir(), ".ytree_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	for {
		input, err := line.Prompt(">> ")
		if err != nil {
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if d.Dispatch(input, out) {
			break
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
	return nil
}
