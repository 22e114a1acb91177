// Package semantics implements the tree-to-tree passes that run between
// parsing and compilation. The only pass today is loop labeling: every
// while/do-while/for loop is stamped with a unique label so the compiler
// can resolve which loop a 'break' or 'continue' statement belongs to.
package semantics

import (
	"fmt"

	"venom/ast"
)

// Labeler assigns increasing "kind_N" labels to loops as it walks a
// program, and stamps every break/continue with the label of its
// innermost enclosing loop.
type Labeler struct {
	tmp int
}

// NewLabeler returns a Labeler with a fresh counter.
func NewLabeler() *Labeler {
	return &Labeler{}
}

func (l *Labeler) mktmp() int {
	tmp := l.tmp
	l.tmp++
	return tmp
}

// LabelProgram runs the loop-labeling pass over a top-level program and
// returns the rewritten statement list. It is the package-level entry
// point, run on a program before it is compiled.
func LabelProgram(stmts []ast.Stmt) ([]ast.Stmt, error) {
	return NewLabeler().labelBlock(stmts, "")
}

// labelBlock labels every statement in stmts, in order, threading the
// "current" enclosing-loop label through each call.
func (l *Labeler) labelBlock(stmts []ast.Stmt, current string) ([]ast.Stmt, error) {
	out := make([]ast.Stmt, len(stmts))
	for i, stmt := range stmts {
		labeled, err := l.labelStmt(stmt, current)
		if err != nil {
			return nil, err
		}
		out[i] = labeled
	}
	return out, nil
}

// labelStmt rewrites a single statement node, descending into any nested
// statement bodies it carries. Most statement kinds pass "current"
// through unchanged; loops mint a fresh label for their own body, and
// function bodies deliberately keep whatever "current" label they were
// called with, matching how loop_label_stmt handles STMT_FN.
func (l *Labeler) labelStmt(stmt ast.Stmt, current string) (ast.Stmt, error) {
	switch s := stmt.(type) {
	case ast.WhileStmt:
		label := fmt.Sprintf("while_%d", l.mktmp())
		body, err := l.labelStmt(s.Body, label)
		if err != nil {
			return nil, err
		}
		s.Body = body
		s.Label = label
		return s, nil

	case ast.DoWhileStmt:
		label := fmt.Sprintf("do_while_%d", l.mktmp())
		body, err := l.labelStmt(s.Body, label)
		if err != nil {
			return nil, err
		}
		s.Body = body
		s.Label = label
		return s, nil

	case ast.ForStmt:
		label := fmt.Sprintf("for_%d", l.mktmp())
		body, err := l.labelStmt(s.Body, label)
		if err != nil {
			return nil, err
		}
		s.Body = body
		s.Label = label
		return s, nil

	case ast.BreakStmt:
		if current == "" {
			return nil, LabelError{Message: "'break' statement outside the loop"}
		}
		s.Label = current
		return s, nil

	case ast.ContinueStmt:
		if current == "" {
			return nil, LabelError{Message: "'continue' statement outside the loop"}
		}
		s.Label = current
		return s, nil

	case ast.FnStmt:
		body, err := l.labelStmt(s.Body, current)
		if err != nil {
			return nil, err
		}
		s.Body = body
		return s, nil

	case ast.DecoratorStmt:
		fn, err := l.labelStmt(s.Fn, current)
		if err != nil {
			return nil, err
		}
		s.Fn = fn
		return s, nil

	case ast.BlockStmt:
		statements, err := l.labelBlock(s.Statements, current)
		if err != nil {
			return nil, err
		}
		s.Statements = statements
		return s, nil

	case ast.IfStmt:
		thenBranch, err := l.labelStmt(s.ThenBranch, current)
		if err != nil {
			return nil, err
		}
		s.ThenBranch = thenBranch
		if s.ElseBranch != nil {
			elseBranch, err := l.labelStmt(s.ElseBranch, current)
			if err != nil {
				return nil, err
			}
			s.ElseBranch = elseBranch
		}
		return s, nil

	case ast.ImplStmt:
		methods, err := l.labelBlock(s.Methods, current)
		if err != nil {
			return nil, err
		}
		s.Methods = methods
		return s, nil

	default:
		// Expression statements, var/print/return/yield/assert/use,
		// goto and labeled statements carry no nested statement body
		// and need no label rewriting.
		return stmt, nil
	}
}
