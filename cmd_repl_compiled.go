package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"venom/compiler"
	"venom/lexer"
	"venom/parser"
	"venom/semantics"
	"venom/token"
	"venom/vm"
)

type replCompiledCmd struct {
	dumpBytecode bool
	dumpAST      bool
}

func (*replCompiledCmd) Name() string { return "repl" }
func (*replCompiledCmd) Synopsis() string {
	return "Start an interactive REPL session against the compiled pipeline"
}
func (*replCompiledCmd) Usage() string {
	return `repl:
  Start an interactive compile-and-run session, one statement at a time.
`
}

func (cmd *replCompiledCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.dumpBytecode, "dumpBytecode", false, "print disassembled bytecode for each entered statement")
	f.BoolVar(&cmd.dumpAST, "dumpAST", false, "print the AST JSON for each entered statement")
	f.BoolVar(&cmd.dumpBytecode, "du", false, "shorthand for -dumpBytecode")
	f.BoolVar(&cmd.dumpAST, "da", false, "shorthand for -dumpAST")
}

func (cmd *replCompiledCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Println("\nWelcome to the venom programming language!")
	fmt.Println("")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %s\n", err.Error())
		return subcommands.ExitFailure
	}
	defer rl.Close()

	astCompiler := compiler.NewASTCompiler()
	vmInstance := vm.New()
	var buffer strings.Builder

	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %s\n", err.Error())
			return subcommands.ExitFailure
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		tokens, err := lexer.New(source).Scan()
		if err != nil {
			fmt.Println(err)
			buffer.Reset()
			continue
		}

		if !isInputReady(tokens) {
			continue
		}

		statements, parseErrs := parser.Make(tokens).Parse()
		if len(parseErrs) > 0 {
			// If every parse error sits at the EOF token, the user has not
			// finished typing yet; keep buffering instead of reporting.
			if allParseErrorsAtEOF(parseErrs, tokens[len(tokens)-1]) {
				continue
			}
			fmt.Fprintf(os.Stdout, "Parse error:\n")
			for _, pErr := range parseErrs {
				fmt.Fprintf(os.Stdout, "%v\n", pErr)
			}
			buffer.Reset()
			continue
		}

		statements, err = semantics.LabelProgram(statements)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			buffer.Reset()
			continue
		}

		if cmd.dumpAST {
			if _, err := parser.PrintASTJSON(statements); err != nil {
				fmt.Fprintf(os.Stderr, "💥 failed to render AST: %s\n", err.Error())
			}
		}

		// The REPL compiles each new statement onto the end of the same
		// growing chunk and re-executes the whole chunk from the top on
		// each line, so earlier statements (and their prints) run again.
		bytecode, err := astCompiler.CompileAST(statements)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			buffer.Reset()
			continue
		}

		if cmd.dumpBytecode {
			fmt.Fprint(os.Stdout, astCompiler.DumpBytecode())
		}

		if runtimeErr := vmInstance.Run(bytecode); runtimeErr != nil {
			fmt.Fprintln(os.Stderr, runtimeErr.Error())
		}
		buffer.Reset()
	}
}

// isInputReady reports whether tokens form a balanced, complete
// statement the parser should be given a chance to accept, versus
// input the user is still in the middle of typing (an open brace, or a
// trailing operator/keyword that expects a continuation).
func isInputReady(tokens []token.Token) bool {
	braceBalance := 0
	for _, tok := range tokens {
		switch tok.TokenType {
		case token.LCUR:
			braceBalance++
		case token.RCUR:
			braceBalance--
		}
	}
	if braceBalance > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}

	switch last.TokenType {
	case token.ASSIGN,
		token.ADD,
		token.SUB,
		token.MULT,
		token.DIV,
		token.MOD,
		token.BANG,
		token.EQUAL_EQUAL,
		token.NOT_EQUAL,
		token.LESS,
		token.LESS_EQUAL,
		token.LARGER,
		token.LARGER_EQUAL,
		token.COMMA,
		token.LPA,
		token.LCUR,
		token.IF,
		token.ELSE,
		token.ELIF,
		token.WHILE,
		token.FOR,
		token.FUNC,
		token.RETURN,
		token.VAR,
		token.CONST,
		token.AND,
		token.OR,
		token.PRINT:
		return false
	}

	return true
}

func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].TokenType != token.EOF {
			return &tokens[i]
		}
	}
	return nil
}

// allParseErrorsAtEOF reports whether every parse error in parseErrs is a
// syntax error located exactly at the EOF token, meaning the parser ran
// out of input mid-construct rather than rejecting what it saw.
func allParseErrorsAtEOF(parseErrs []error, eof token.Token) bool {
	for _, parseErr := range parseErrs {
		syntaxErr, ok := parseErr.(parser.SyntaxError)
		if !ok {
			return false
		}
		if syntaxErr.Line != eof.Line || syntaxErr.Column != eof.Column {
			return false
		}
	}
	return len(parseErrs) > 0
}
