package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/pkg/errors"

	"venom/compiler"
	"venom/lexer"
	"venom/parser"
	"venom/semantics"
)

// emitBytecodeCmd compiles a source file and writes its disassembled
// bytecode to a ".dis" file alongside it, a standalone observational
// companion to "run --ir" for inspecting a program's bytecode without
// also executing it.
type emitBytecodeCmd struct {
	outPath string
}

func (*emitBytecodeCmd) Name() string { return "emit" }
func (*emitBytecodeCmd) Synopsis() string {
	return "Emit the disassembled bytecode for a source file"
}
func (*emitBytecodeCmd) Usage() string {
	return `emit [-o path] <file>:
  Compile a source file and write its disassembled bytecode to a file.
`
}

func (cmd *emitBytecodeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.outPath, "o", "", "output path for the disassembled bytecode (defaults to <file> with a trailing .vn replaced by .dis)")
}

func (cmd *emitBytecodeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "💥 no input file provided")
		return subcommands.ExitUsageError
	}
	venomFile := args[0]

	data, err := os.ReadFile(venomFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "💥 failed to read file").Error())
		return subcommands.ExitFailure
	}

	tokens, err := lexer.New(string(data)).Scan()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return subcommands.ExitFailure
	}

	statements, parseErrs := parser.Make(tokens).Parse()
	if len(parseErrs) > 0 {
		for _, pErr := range parseErrs {
			fmt.Fprintln(os.Stderr, pErr.Error())
		}
		return subcommands.ExitFailure
	}

	statements, err = semantics.LabelProgram(statements)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return subcommands.ExitFailure
	}

	astCompiler := compiler.NewASTCompiler()
	if _, err := astCompiler.CompileAST(statements); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return subcommands.ExitFailure
	}

	outPath := cmd.outPath
	if outPath == "" {
		outPath = strings.TrimSuffix(venomFile, ".vn") + ".dis"
	}
	if err := os.WriteFile(outPath, []byte(astCompiler.DumpBytecode()), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "💥 failed to write bytecode dump").Error())
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
