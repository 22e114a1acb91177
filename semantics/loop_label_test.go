package semantics

import (
	"testing"

	"venom/ast"
	"venom/token"
)

func TestLabelProgram_BreakOutsideLoop(t *testing.T) {
	stmts := []ast.Stmt{
		ast.BreakStmt{},
	}

	if _, err := LabelProgram(stmts); err == nil {
		t.Fatalf("expected error for 'break' outside a loop, got nil")
	}
}

func TestLabelProgram_ContinueOutsideLoop(t *testing.T) {
	stmts := []ast.Stmt{
		ast.ContinueStmt{},
	}

	if _, err := LabelProgram(stmts); err == nil {
		t.Fatalf("expected error for 'continue' outside a loop, got nil")
	}
}

func TestLabelProgram_WhileLabelsBreakAndContinue(t *testing.T) {
	stmts := []ast.Stmt{
		ast.WhileStmt{
			Condition: ast.Literal{Value: true},
			Body: ast.BlockStmt{Statements: []ast.Stmt{
				ast.BreakStmt{},
				ast.ContinueStmt{},
			}},
		},
	}

	labeled, err := LabelProgram(stmts)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	while, ok := labeled[0].(ast.WhileStmt)
	if !ok {
		t.Fatalf("expected ast.WhileStmt, got %T", labeled[0])
	}
	if while.Label != "while_0" {
		t.Fatalf("expected label 'while_0', got %q", while.Label)
	}

	block := while.Body.(ast.BlockStmt)
	brk := block.Statements[0].(ast.BreakStmt)
	cont := block.Statements[1].(ast.ContinueStmt)
	if brk.Label != "while_0" {
		t.Fatalf("expected break label 'while_0', got %q", brk.Label)
	}
	if cont.Label != "while_0" {
		t.Fatalf("expected continue label 'while_0', got %q", cont.Label)
	}
}

func TestLabelProgram_NestedLoopsGetDistinctLabels(t *testing.T) {
	stmts := []ast.Stmt{
		ast.WhileStmt{
			Condition: ast.Literal{Value: true},
			Body: ast.ForStmt{
				Body: ast.BlockStmt{Statements: []ast.Stmt{
					ast.BreakStmt{},
				}},
			},
		},
	}

	labeled, err := LabelProgram(stmts)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	outer := labeled[0].(ast.WhileStmt)
	inner := outer.Body.(ast.ForStmt)
	if outer.Label == inner.Label {
		t.Fatalf("expected distinct labels, got %q for both", outer.Label)
	}

	block := inner.Body.(ast.BlockStmt)
	brk := block.Statements[0].(ast.BreakStmt)
	if brk.Label != inner.Label {
		t.Fatalf("expected innermost loop's label %q, got %q", inner.Label, brk.Label)
	}
}

func TestLabelProgram_FnBodyKeepsEnclosingLabel(t *testing.T) {
	// Matches the original loop-labeling pass: a function declared inside
	// a loop body is labeled with that loop's "current" label rather than
	// resetting to "no loop in scope".
	stmts := []ast.Stmt{
		ast.WhileStmt{
			Condition: ast.Literal{Value: true},
			Body: ast.BlockStmt{Statements: []ast.Stmt{
				ast.FnStmt{
					Name: token.CreateLiteralToken(token.IDENTIFIER, nil, "f", 0, 0),
					Body: ast.BlockStmt{Statements: []ast.Stmt{
						ast.BreakStmt{},
					}},
				},
			}},
		},
	}

	labeled, err := LabelProgram(stmts)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	while := labeled[0].(ast.WhileStmt)
	block := while.Body.(ast.BlockStmt)
	fn := block.Statements[0].(ast.FnStmt)
	fnBlock := fn.Body.(ast.BlockStmt)
	brk := fnBlock.Statements[0].(ast.BreakStmt)

	if brk.Label != while.Label {
		t.Fatalf("expected break inside fn to inherit enclosing loop label %q, got %q", while.Label, brk.Label)
	}
}

func TestLabelProgram_IfBranchesShareLabel(t *testing.T) {
	stmts := []ast.Stmt{
		ast.WhileStmt{
			Condition: ast.Literal{Value: true},
			Body: ast.IfStmt{
				Condition:  ast.Literal{Value: true},
				ThenBranch: ast.BreakStmt{},
				ElseBranch: ast.ContinueStmt{},
			},
		},
	}

	labeled, err := LabelProgram(stmts)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	while := labeled[0].(ast.WhileStmt)
	ifStmt := while.Body.(ast.IfStmt)
	brk := ifStmt.ThenBranch.(ast.BreakStmt)
	cont := ifStmt.ElseBranch.(ast.ContinueStmt)

	if brk.Label != while.Label || cont.Label != while.Label {
		t.Fatalf("expected both branches to share the while loop's label %q", while.Label)
	}
}
