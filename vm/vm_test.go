package vm

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venom/compiler"
	"venom/lexer"
	"venom/optimizer"
	"venom/parser"
	"venom/semantics"
)

// compileAndRun runs source through the full front end (lex, parse, label,
// fold, compile) and executes the result, capturing anything printed.
func compileAndRun(t *testing.T, source string) (string, error) {
	t.Helper()

	lex := lexer.New(source)
	tokens, err := lex.Scan()
	require.NoError(t, err)

	p := parser.Make(tokens)
	program, errs := p.Parse()
	require.Empty(t, errs)

	labeled, err := semantics.LabelProgram(program)
	require.NoError(t, err)
	folded := optimizer.Optimize(labeled)

	ac := compiler.NewASTCompiler()
	bytecode, err := ac.CompileAST(folded)
	require.NoError(t, err)

	machine := New()
	machine.Debug = false

	r, w, err := os.Pipe()
	require.NoError(t, err)
	machine.Out = w

	runErr := machine.Run(bytecode)
	w.Close()

	var buf bytes.Buffer
	buf.ReadFrom(r)

	return buf.String(), runErr
}

func TestArithmeticPrecedence(t *testing.T) {
	out, err := compileAndRun(t, "print 1 + 2 * 3;")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestVariablesAndGlobals(t *testing.T) {
	out, err := compileAndRun(t, `
		var x = 10;
		var y = 20;
		print x + y;
	`)
	require.NoError(t, err)
	assert.Equal(t, "30\n", out)
}

func TestWhileLoop(t *testing.T) {
	out, err := compileAndRun(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestBreakContinue(t *testing.T) {
	out, err := compileAndRun(t, `
		var i = 0;
		while (i < 5) {
			i = i + 1;
			if (i == 2) { continue; }
			if (i == 4) { break; }
			print i;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n3\n", out)
}

func TestFunctionCallAndReturn(t *testing.T) {
	out, err := compileAndRun(t, `
		fn add(a, b) {
			return a + b;
		}
		print add(2, 3);
	`)
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestRecursiveFunction(t *testing.T) {
	out, err := compileAndRun(t, `
		fn fact(n) {
			if (n < 2) { return 1; }
			return n * fact(n - 1);
		}
		print fact(5);
	`)
	require.NoError(t, err)
	assert.Equal(t, "120\n", out)
}

func TestStructFieldAccess(t *testing.T) {
	out, err := compileAndRun(t, `
		struct Point { x, y }
		var p = Point { x: 1, y: 2 };
		print p.x + p.y;
	`)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestStructFieldAssignment(t *testing.T) {
	out, err := compileAndRun(t, `
		struct Point { x, y }
		var p = Point { x: 1, y: 2 };
		p.x = 99;
		print p.x;
	`)
	require.NoError(t, err)
	assert.Equal(t, "99\n", out)
}

func TestUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, err := compileAndRun(t, "print missing;")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "runtime error: "))
}

func TestAssertFailureIsRuntimeError(t *testing.T) {
	_, err := compileAndRun(t, "assert 1 == 2;")
	require.Error(t, err)
	assert.Equal(t, "runtime error: assertion failed", err.Error())
}

func TestLogicalShortCircuit(t *testing.T) {
	out, err := compileAndRun(t, `
		print true or (1 / 0 == 0);
		print false and (1 / 0 == 0);
	`)
	require.NoError(t, err)
	assert.Equal(t, "true\nfalse\n", out)
}

func TestStackRefcountConservation(t *testing.T) {
	s := NewString("hi")
	assert.Equal(t, 1, s.Refcount())
	Incref(s)
	assert.Equal(t, 2, s.Refcount())
	Decref(s)
	Decref(s)
	assert.Equal(t, 0, s.Refcount())
}
