package optimizer

import (
	"testing"

	"venom/ast"
	"venom/token"
)

func TestOptimize_NumericAddition(t *testing.T) {
	stmts := []ast.Stmt{
		ast.ExpressionStmt{Expression: ast.Binary{
			Left:     ast.Literal{Value: int64(1)},
			Operator: token.CreateToken(token.ADD, 0, 0),
			Right:    ast.Literal{Value: int64(2)},
		}},
	}

	optimized := Optimize(stmts)

	exprStmt := optimized[0].(ast.ExpressionStmt)
	lit, ok := exprStmt.Expression.(ast.Literal)
	if !ok {
		t.Fatalf("expected folded literal, got %T", exprStmt.Expression)
	}
	if lit.Value != int64(3) {
		t.Fatalf("expected 3, got %v", lit.Value)
	}
}

func TestOptimize_MixedIntFloatPromotesToFloat(t *testing.T) {
	stmts := []ast.Stmt{
		ast.ExpressionStmt{Expression: ast.Binary{
			Left:     ast.Literal{Value: int64(1)},
			Operator: token.CreateToken(token.ADD, 0, 0),
			Right:    ast.Literal{Value: float64(2.5)},
		}},
	}

	optimized := Optimize(stmts)
	lit := optimized[0].(ast.ExpressionStmt).Expression.(ast.Literal)
	if lit.Value != float64(3.5) {
		t.Fatalf("expected 3.5, got %v", lit.Value)
	}
}

func TestOptimize_ComparisonFoldsToBool(t *testing.T) {
	stmts := []ast.Stmt{
		ast.ExpressionStmt{Expression: ast.Binary{
			Left:     ast.Literal{Value: int64(5)},
			Operator: token.CreateToken(token.LARGER, 0, 0),
			Right:    ast.Literal{Value: int64(3)},
		}},
	}

	optimized := Optimize(stmts)
	lit := optimized[0].(ast.ExpressionStmt).Expression.(ast.Literal)
	if lit.Value != true {
		t.Fatalf("expected true, got %v", lit.Value)
	}
}

func TestOptimize_LogicalBooleanFold(t *testing.T) {
	stmts := []ast.Stmt{
		ast.ExpressionStmt{Expression: ast.Logical{
			Left:     ast.Literal{Value: true},
			Operator: token.CreateToken(token.AND, 0, 0),
			Right:    ast.Literal{Value: false},
		}},
	}

	optimized := Optimize(stmts)
	lit := optimized[0].(ast.ExpressionStmt).Expression.(ast.Literal)
	if lit.Value != false {
		t.Fatalf("expected false, got %v", lit.Value)
	}
}

func TestOptimize_NestedBinaryFoldsBottomUp(t *testing.T) {
	// (1 + 2) * 3 -> 9
	stmts := []ast.Stmt{
		ast.ExpressionStmt{Expression: ast.Binary{
			Left: ast.Binary{
				Left:     ast.Literal{Value: int64(1)},
				Operator: token.CreateToken(token.ADD, 0, 0),
				Right:    ast.Literal{Value: int64(2)},
			},
			Operator: token.CreateToken(token.MULT, 0, 0),
			Right:    ast.Literal{Value: int64(3)},
		}},
	}

	optimized := Optimize(stmts)
	lit := optimized[0].(ast.ExpressionStmt).Expression.(ast.Literal)
	if lit.Value != int64(9) {
		t.Fatalf("expected 9, got %v", lit.Value)
	}
}

func TestOptimize_NonLiteralOperandsLeftUnfolded(t *testing.T) {
	name := token.CreateLiteralToken(token.IDENTIFIER, nil, "x", 0, 0)
	stmts := []ast.Stmt{
		ast.ExpressionStmt{Expression: ast.Binary{
			Left:     ast.Variable{Name: name},
			Operator: token.CreateToken(token.ADD, 0, 0),
			Right:    ast.Literal{Value: int64(2)},
		}},
	}

	optimized := Optimize(stmts)
	binary, ok := optimized[0].(ast.ExpressionStmt).Expression.(ast.Binary)
	if !ok {
		t.Fatalf("expected expression to remain a Binary, got %T", optimized[0].(ast.ExpressionStmt).Expression)
	}
	if _, ok := binary.Left.(ast.Variable); !ok {
		t.Fatalf("expected left operand to remain a Variable, got %T", binary.Left)
	}
}

func TestOptimize_RecursesIntoWhileLoop(t *testing.T) {
	stmts := []ast.Stmt{
		ast.WhileStmt{
			Condition: ast.Binary{
				Left:     ast.Literal{Value: int64(1)},
				Operator: token.CreateToken(token.LESS, 0, 0),
				Right:    ast.Literal{Value: int64(2)},
			},
			Body: ast.BlockStmt{Statements: []ast.Stmt{
				ast.PrintStmt{Expression: ast.Binary{
					Left:     ast.Literal{Value: int64(2)},
					Operator: token.CreateToken(token.MULT, 0, 0),
					Right:    ast.Literal{Value: int64(2)},
				}},
			}},
		},
	}

	optimized := Optimize(stmts)
	while := optimized[0].(ast.WhileStmt)

	cond := while.Condition.(ast.Literal)
	if cond.Value != true {
		t.Fatalf("expected folded while condition true, got %v", cond.Value)
	}

	block := while.Body.(ast.BlockStmt)
	printExpr := block.Statements[0].(ast.PrintStmt).Expression.(ast.Literal)
	if printExpr.Value != int64(4) {
		t.Fatalf("expected folded print expression 4, got %v", printExpr.Value)
	}
}
