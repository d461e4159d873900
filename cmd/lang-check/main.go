// Command lang-check runs randomized conformance and equivalence checks over
// machine and grammar description files.
//
//	lang-check check  [--pattern RE] [--seed N] [--trials N] [--scale N] <file|->
//	lang-check equiv  [--seed N] [--trials N] [--scale N] <fileA> <fileB>
//	lang-check show   <file|->
//
// Exit codes: 0 consistent, 1 counterexample found, 2 invalid input or usage,
// 10 internal failure.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/lattice-substrate/lang-conform/conform"
	"github.com/lattice-substrate/lang-conform/langerr"
	"github.com/lattice-substrate/lang-conform/langfile"
)

const (
	exitConsistent     = 0
	exitCounterexample = 1
	exitInvalid        = 2
	exitInternal       = 10
)

const usage = "usage: lang-check <check|equiv|show> [options] <file|-> [file]"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 0 {
		if err := writeLine(stderr, usage); err != nil {
			return exitInternal
		}
		return exitInvalid
	}

	switch args[0] {
	case "check":
		return cmdCheck(args[1:], stdin, stdout, stderr)
	case "equiv":
		return cmdEquiv(args[1:], stdout, stderr)
	case "show":
		return cmdShow(args[1:], stdin, stdout, stderr)
	case "--help", "-h":
		if err := writeLine(stdout, usage); err != nil {
			return exitInternal
		}
		return exitConsistent
	default:
		if err := writef(stderr, "unknown command: %s\n%s\n", args[0], usage); err != nil {
			return exitInternal
		}
		return exitInvalid
	}
}

type flags struct {
	pattern string
	seed    int64
	trials  int
	scale   int
}

// parseFlags splits options from positional arguments. Options take their
// value as "--opt=value" or "--opt value".
func parseFlags(args []string) (flags, []string, error) {
	var f flags
	var positional []string
	consumeAsPositional := false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if consumeAsPositional {
			positional = append(positional, arg)
			continue
		}
		if arg == "--" {
			consumeAsPositional = true
			continue
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
			continue
		}

		name, value := arg, ""
		hasValue := false
		if eq := strings.IndexByte(arg, '='); eq >= 0 {
			name, value, hasValue = arg[:eq], arg[eq+1:], true
		}
		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			i++
			if i >= len(args) {
				return "", fmt.Errorf("option %s requires a value", name)
			}
			return args[i], nil
		}

		switch name {
		case "--pattern":
			v, err := takeValue()
			if err != nil {
				return flags{}, nil, err
			}
			f.pattern = v
		case "--seed":
			v, err := takeValue()
			if err != nil {
				return flags{}, nil, err
			}
			seed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return flags{}, nil, fmt.Errorf("invalid --seed value %q", v)
			}
			f.seed = seed
		case "--trials":
			v, err := takeValue()
			if err != nil {
				return flags{}, nil, err
			}
			trials, err := strconv.Atoi(v)
			if err != nil || trials <= 0 {
				return flags{}, nil, fmt.Errorf("invalid --trials value %q", v)
			}
			f.trials = trials
		case "--scale":
			v, err := takeValue()
			if err != nil {
				return flags{}, nil, err
			}
			scale, err := strconv.Atoi(v)
			if err != nil || scale <= 0 {
				return flags{}, nil, fmt.Errorf("invalid --scale value %q", v)
			}
			f.scale = scale
		default:
			return flags{}, nil, fmt.Errorf("unknown option: %s", name)
		}
	}
	return f, positional, nil
}

func cmdCheck(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	f, positional, err := parseFlags(args)
	if err != nil {
		return writeUsageError(stderr, err)
	}
	if len(positional) != 1 {
		return writeUsageError(stderr, fmt.Errorf("check takes exactly one file"))
	}
	if f.pattern == "" {
		return writeUsageError(stderr, fmt.Errorf("check requires --pattern"))
	}

	doc, err := loadDoc(positional[0], stdin)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	model, err := doc.Build()
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	ref, err := conform.Pattern(f.pattern)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}

	report, err := conform.Check(model, ref, conform.Options{
		Trials:      f.trials,
		ScaleFactor: f.scale,
		Seed:        f.seed,
	})
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	return writeReport(stdout, stderr, report)
}

func cmdEquiv(args []string, stdout io.Writer, stderr io.Writer) int {
	f, positional, err := parseFlags(args)
	if err != nil {
		return writeUsageError(stderr, err)
	}
	if f.pattern != "" {
		return writeUsageError(stderr, fmt.Errorf("equiv does not take --pattern"))
	}
	if len(positional) != 2 {
		return writeUsageError(stderr, fmt.Errorf("equiv takes exactly two files"))
	}

	models := make([]conform.Decider, 2)
	for i, path := range positional {
		doc, err := langfile.Load(path)
		if err != nil {
			return writeClassifiedError(stderr, err)
		}
		model, err := doc.Build()
		if err != nil {
			return writeClassifiedError(stderr, err)
		}
		models[i] = model
	}

	report, err := conform.CheckEquivalence(models[0], models[1], conform.Options{
		Trials:      f.trials,
		ScaleFactor: f.scale,
		Seed:        f.seed,
	})
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	return writeReport(stdout, stderr, report)
}

func cmdShow(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	f, positional, err := parseFlags(args)
	if err != nil {
		return writeUsageError(stderr, err)
	}
	if f != (flags{}) {
		return writeUsageError(stderr, fmt.Errorf("show takes no options"))
	}
	if len(positional) != 1 {
		return writeUsageError(stderr, fmt.Errorf("show takes exactly one file"))
	}

	doc, err := loadDoc(positional[0], stdin)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	if doc.Machine != nil {
		if err := showMachine(stdout, doc.Machine); err != nil {
			return writeClassifiedError(stderr, err)
		}
		return exitConsistent
	}
	if err := showGrammar(stdout, doc.Grammar); err != nil {
		return writeClassifiedError(stderr, err)
	}
	return exitConsistent
}

// showMachine renders the validated transition table.
func showMachine(stdout io.Writer, doc *langfile.MachineDoc) error {
	m, err := doc.Build()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(stdout)
	table.Header([]string{"From", "Symbol", "To"})
	for _, state := range m.States() {
		label := string(state)
		if state == m.Start() {
			label = "-> " + label
		}
		if m.IsAccept(state) {
			label = label + " *"
		}
		for _, symbol := range m.Alphabet() {
			next, _ := m.Next(state, symbol)
			table.Append([]string{label, string(symbol), string(next)})
		}
	}
	table.Render()
	return writef(stdout, "start: %s, accept marked with *\n", m.Start())
}

// showGrammar lists productions in "A -> B C | a" notation.
func showGrammar(stdout io.Writer, doc *langfile.GrammarDoc) error {
	g, err := doc.Build()
	if err != nil {
		return err
	}

	productions := g.Productions()
	for _, left := range g.Nonterminals() {
		bodies := productions[left]
		if len(bodies) == 0 {
			continue
		}
		alts := make([]string, len(bodies))
		for i, body := range bodies {
			alts[i] = strings.Join(body, " ")
		}
		if err := writef(stdout, "%s -> %s\n", left, strings.Join(alts, " | ")); err != nil {
			return err
		}
	}
	return writef(stdout, "start: %s\n", g.Start())
}

func loadDoc(path string, stdin io.Reader) (*langfile.Doc, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, langerr.Wrap(langerr.InternalIO, "read stdin", err)
		}
		return langfile.Parse(data)
	}
	return langfile.Load(path)
}

func writeReport(stdout io.Writer, stderr io.Writer, report conform.Report) int {
	if report.Consistent {
		err := writef(stdout, "ok: consistent after %d trials (seed %d, max-len %d)\n",
			report.Trials, report.Seed, report.MaxLen)
		if err != nil {
			return exitInternal
		}
		return exitConsistent
	}
	err := writef(stdout, "counterexample: %q (trial %d, seed %d)\n",
		report.Counterexample, report.Trials, report.Seed)
	if err != nil {
		return exitInternal
	}
	return exitCounterexample
}

func writeUsageError(stderr io.Writer, err error) int {
	if werr := writef(stderr, "error: %v\n%s\n", err, usage); werr != nil {
		return exitInternal
	}
	return langerr.CLIUsage.ExitCode()
}

// writeClassifiedError reports err on stderr and maps it to an exit code via
// its failure class.
func writeClassifiedError(stderr io.Writer, err error) int {
	class, ok := langerr.ClassOf(err)
	if !ok {
		class = langerr.InternalError
	}
	if werr := writef(stderr, "error: %s: %v\n", class, err); werr != nil {
		return exitInternal
	}
	return class.ExitCode()
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}
