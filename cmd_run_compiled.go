package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"venom/ast"
	"venom/compiler"
	"venom/lexer"
	"venom/optimizer"
	"venom/parser"
	"venom/semantics"
	"venom/token"
	"venom/vm"
)

// runCompiledCmd drives the full pipeline described in spec.md section 6:
// lex -> parse -> loop-label -> (optional) optimize -> compile -> execute,
// with --lex/--parse/--ir allowed to stop the pipeline early to dump an
// intermediate artifact instead of running it.
type runCompiledCmd struct {
	lex      bool
	parse    bool
	ir       bool
	optimize bool
	measure  string
}

func (*runCompiledCmd) Name() string     { return "run" }
func (*runCompiledCmd) Synopsis() string { return "Compile and execute a venom source file" }
func (*runCompiledCmd) Usage() string {
	return `run [--lex|--parse|--ir] [--optimize] [--measure=stages] <file>:
  Execute venom source. At most one of --lex, --parse, --ir may be given;
  each stops the pipeline after its stage and dumps that stage's artifact
  instead of compiling and running the program.
`
}

func (r *runCompiledCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.lex, "lex", false, "stop after lexing and dump the token stream")
	f.BoolVar(&r.parse, "parse", false, "stop after parsing and dump the AST")
	f.BoolVar(&r.ir, "ir", false, "stop after compiling and dump disassembled bytecode")
	f.BoolVar(&r.optimize, "optimize", false, "run the constant-folding optimizer pass before compiling")
	f.StringVar(&r.measure, "measure", "", "comma-separated stages to time: all,lex,parse,loop-label,optimize,disassemble,compile,exec")
}

// measureSet turns the --measure flag value into a lookup set. "all"
// matches every stage; an empty flag value times nothing.
type measureSet map[string]bool

func newMeasureSet(flagValue string) measureSet {
	set := measureSet{}
	for _, stage := range strings.Split(flagValue, ",") {
		stage = strings.TrimSpace(stage)
		if stage != "" {
			set[stage] = true
		}
	}
	return set
}

func (m measureSet) includes(stage string) bool {
	return m["all"] || m[stage]
}

func (m measureSet) time(stage string, fn func()) {
	if !m.includes(stage) {
		fn()
		return
	}
	start := time.Now()
	fn()
	logrus.WithField("stage", stage).WithField("elapsed", time.Since(start)).Info("stage timed")
}

func (r *runCompiledCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "💥 no input file provided")
		return subcommands.ExitUsageError
	}
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "💥 exactly one input path is accepted")
		return subcommands.ExitUsageError
	}

	exclusive := 0
	for _, set := range []bool{r.lex, r.parse, r.ir} {
		if set {
			exclusive++
		}
	}
	if exclusive > 1 {
		fmt.Fprintln(os.Stderr, "💥 at most one of --lex, --parse, --ir may be given")
		return subcommands.ExitUsageError
	}
	if r.lex && r.optimize {
		fmt.Fprintln(os.Stderr, "💥 --optimize runs on the parsed AST and cannot be combined with --lex")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "💥 failed to read file").Error())
		return subcommands.ExitFailure
	}

	measure := newMeasureSet(r.measure)

	var tokens []token.Token
	var lexErr error
	measure.time("lex", func() {
		tokens, lexErr = lexer.New(string(data)).Scan()
	})
	if lexErr != nil {
		fmt.Fprintln(os.Stderr, lexErr.Error())
		return subcommands.ExitFailure
	}

	if r.lex {
		for _, tok := range tokens {
			fmt.Fprintf(os.Stdout, "%s %q\n", tok.TokenType, tok.Lexeme)
		}
		return subcommands.ExitSuccess
	}

	var statements []ast.Stmt
	var parseErrs []error
	measure.time("parse", func() {
		statements, parseErrs = parser.Make(tokens).Parse()
	})
	if len(parseErrs) > 0 {
		for _, pErr := range parseErrs {
			fmt.Fprintln(os.Stderr, pErr.Error())
		}
		return subcommands.ExitFailure
	}

	var labelErr error
	measure.time("loop-label", func() {
		statements, labelErr = semantics.LabelProgram(statements)
	})
	if labelErr != nil {
		fmt.Fprintln(os.Stderr, labelErr.Error())
		return subcommands.ExitFailure
	}

	if r.optimize {
		measure.time("optimize", func() {
			statements = optimizer.Optimize(statements)
		})
	}

	if r.parse {
		if _, err := parser.PrintASTJSON(statements); err != nil {
			fmt.Fprintln(os.Stderr, errors.Wrap(err, "💥 failed to render AST").Error())
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	astCompiler := compiler.NewASTCompiler()
	var bytecode compiler.Bytecode
	var compileErr error
	measure.time("compile", func() {
		bytecode, compileErr = astCompiler.CompileAST(statements)
	})
	if compileErr != nil {
		fmt.Fprintln(os.Stderr, compileErr.Error())
		return subcommands.ExitFailure
	}

	if r.ir {
		var dump string
		measure.time("disassemble", func() {
			dump = astCompiler.DumpBytecode()
		})
		fmt.Fprint(os.Stdout, dump)
		return subcommands.ExitSuccess
	}

	vmInstance := vm.New()
	var runErr error
	measure.time("exec", func() {
		runErr = vmInstance.Run(bytecode)
	})
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr.Error())
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
