/*
Ll1gen reads a grammar source file described by an ll1gen project file,
checks that it is LL(1), and emits a generated Go parser for it.

Usage:

	ll1gen [flags]
	ll1gen [flags] -p path/to/ll1gen.toml

By default ll1gen looks for "ll1gen.toml" in the current directory. The
project file names the grammar source to load, its start symbol, and the
package/name/output path to use for the generated parser source; see
internal/llconfig for its exact shape.

The flags are:

	-v, --version
		Give the current version of ll1gen and then exit.

	-p, --project FILE
		Use the given project file instead of "ll1gen.toml" in the current
		directory.

	-o, --output FILE
		Write generated source to FILE instead of the path named in the
		project file's output.file (or stdout, if that is also unset).

	-r, --repl
		After a successful emit, start an interactive session that lexes
		whitespace-separated terminal names typed at a prompt and parses
		them against the grammar, printing the resulting parse tree (or
		the syntax error encountered).

Once in the REPL, type the special command "QUIT" to exit.
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"

	"github.com/dekarrin/ll1gen/internal/emit"
	"github.com/dekarrin/ll1gen/internal/grammar"
	"github.com/dekarrin/ll1gen/internal/input"
	"github.com/dekarrin/ll1gen/internal/lextoken"
	"github.com/dekarrin/ll1gen/internal/llconfig"
	"github.com/dekarrin/ll1gen/internal/parse"
	"github.com/dekarrin/ll1gen/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitUsageError indicates bad flags or arguments.
	ExitUsageError

	// ExitGrammarError indicates the grammar failed to load, validate, or
	// emit.
	ExitGrammarError

	// ExitREPLError indicates the interactive test session ended in error
	// other than the user quitting.
	ExitREPLError
)

const consoleOutputWidth = 80

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of ll1gen and then exit.")
	projectFile = pflag.StringP("project", "p", llconfig.DefaultFile, "The ll1gen project file to load.")
	outputFile  = pflag.StringP("output", "o", "", "Write generated source to this path instead of the project's output.file.")
	startREPL   = pflag.BoolP("repl", "r", false, "Start an interactive parse-testing session after emitting.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("ll1gen v%s\n", version.Current)
		return
	}

	if args := pflag.Args(); len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		returnCode = ExitUsageError
		return
	}

	proj, g, err := loadGrammar(*projectFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}

	out, diags, err := emit.New().Generate(g, emit.Options{Package: proj.Output.Package, Name: proj.Output.Name})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s: %s\n", d.Severity, d.Message)
	}

	if err := writeOutput(proj, out); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}

	if *startREPL {
		if err := runREPL(g); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitREPLError
			return
		}
	}
}

// loadGrammar loads the project file at path and the grammar source it
// names, relative to the project file's directory, and sets the declared
// start symbol.
func loadGrammar(path string) (llconfig.Project, *grammar.Grammar, error) {
	proj, err := llconfig.Load(path)
	if err != nil {
		return llconfig.Project{}, nil, err
	}
	if err := proj.Validate(); err != nil {
		return llconfig.Project{}, nil, fmt.Errorf("invalid project file: %w", err)
	}

	grammarPath := proj.Grammar.File
	if !filepath.IsAbs(grammarPath) {
		grammarPath = filepath.Join(filepath.Dir(path), grammarPath)
	}

	srcBytes, err := os.ReadFile(grammarPath)
	if err != nil {
		return llconfig.Project{}, nil, fmt.Errorf("read grammar source: %w", err)
	}

	g, err := grammar.ParseSource(string(srcBytes))
	if err != nil {
		return llconfig.Project{}, nil, fmt.Errorf("parse grammar source: %w", err)
	}
	g.SetStart(proj.Grammar.Start)

	if err := g.Validate(); err != nil {
		return llconfig.Project{}, nil, fmt.Errorf("invalid grammar: %w", err)
	}

	return proj, g, nil
}

// writeOutput writes generated source to the path given on the command
// line, falling back to the project file's output.file, falling back to
// stdout.
func writeOutput(proj llconfig.Project, src string) error {
	path := proj.Output.File
	if *outputFile != "" {
		path = *outputFile
	}
	if path == "" {
		_, err := fmt.Print(src)
		return err
	}
	return os.WriteFile(path, []byte(src), 0660)
}

// runREPL starts an interactive session that reads whitespace-separated
// terminal names from a prompt, builds a token stream out of them using
// the grammar's registered token classes, and feeds the result through a
// fresh Parser, printing the resulting tree or the syntax error.
func runREPL(g *grammar.Grammar) error {
	reader, err := input.NewInteractiveReader()
	if err != nil {
		return fmt.Errorf("initializing interactive input reader: %w", err)
	}
	defer reader.Close()

	p, err := parse.New(g)
	if err != nil {
		return fmt.Errorf("build parser: %w", err)
	}

	fmt.Println("Type whitespace-separated terminal names to parse them against the grammar.")
	fmt.Println("Type QUIT to exit.")

	for {
		line, err := reader.ReadCommand()
		if err != nil {
			return nil
		}
		if strings.EqualFold(line, "QUIT") {
			return nil
		}

		toks, err := lexLine(g, line)
		if err != nil {
			fmt.Println(rosed.Edit(err.Error()).Wrap(consoleOutputWidth).String())
			continue
		}

		tree, err := p.Parse(lextoken.NewSliceStream(toks))
		if err != nil {
			fmt.Println(rosed.Edit(err.Error()).Wrap(consoleOutputWidth).String())
			continue
		}
		fmt.Println(tree.String())
	}
}

// lexLine splits line on whitespace and resolves each word against g's
// registered terminal names, producing a token per word in order.
func lexLine(g *grammar.Grammar, line string) ([]lextoken.Token, error) {
	words := strings.Fields(line)
	toks := make([]lextoken.Token, 0, len(words))
	for i, w := range words {
		class := g.Term(w)
		if class == nil {
			return nil, fmt.Errorf("%q is not a terminal in this grammar", w)
		}
		toks = append(toks, lextoken.NewToken(class, w, 1, i+1))
	}
	return toks, nil
}
