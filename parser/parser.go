// Recursive descent parser
// https://en.wikipedia.org/wiki/Recursive_descent_parser
//
// A Recursive descent parser is a top-down parser: each grammar rule gets
// its own method, and each method calls into the methods for the rules it
// depends on, following operator precedence from loosest (assignment) to
// tightest (primary).

package parser

import (
	"fmt"

	"venom/ast"
	"venom/token"
)

// Parser turns a flat token stream into a tree of ast.Stmt nodes using
// recursive descent with precedence climbing for expressions.
type Parser struct {
	tokens   []token.Token
	position int
}

// Make constructs a Parser over the given token stream.
func Make(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, position: 0}
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.position]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.position-1]
}

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) isFinished() bool {
	return p.peek().TokenType == token.EOF
}

func (p *Parser) checkType(t token.TokenType) bool {
	if p.isFinished() {
		return t == token.EOF
	}
	return p.peek().TokenType == t
}

func (p *Parser) isMatch(types ...token.TokenType) bool {
	for _, t := range types {
		if p.checkType(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tokenType token.TokenType, errorMessage string) (token.Token, error) {
	if p.checkType(tokenType) {
		return p.advance(), nil
	}
	tok := p.peek()
	return token.Token{}, CreateSyntaxError(tok.Line, tok.Column, errorMessage)
}

// synchronize discards tokens until it reaches a point likely to start a new
// statement, so that one syntax error does not cascade into unrelated ones.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isFinished() {
		if p.previous().TokenType == token.SEMICOLON {
			return
		}
		switch p.peek().TokenType {
		case token.FUNC, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT,
			token.RETURN, token.STRUCT, token.IMPL, token.USE:
			return
		}
		p.advance()
	}
}

// Parse parses the entire token stream into a list of top-level statements,
// collecting every syntax error encountered rather than stopping at the
// first one.
func (p *Parser) Parse() ([]ast.Stmt, []error) {
	var statements []ast.Stmt
	var errs []error

	for !p.isFinished() {
		stmt, err := p.declaration()
		if err != nil {
			errs = append(errs, err)
			p.synchronize()
			continue
		}
		statements = append(statements, stmt)
	}
	return statements, errs
}

func (p *Parser) declaration() (ast.Stmt, error) {
	switch {
	case p.isMatch(token.VAR, token.CONST):
		return p.variableDeclaration()
	case p.isMatch(token.FUNC):
		return p.functionDeclaration("function")
	case p.isMatch(token.STRUCT):
		return p.structDeclaration()
	case p.isMatch(token.IMPL):
		return p.implDeclaration()
	case p.isMatch(token.USE):
		return p.useDeclaration()
	case p.isMatch(token.DECO):
		return p.decoratorDeclaration()
	}
	return p.statement()
}

func (p *Parser) variableDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, "expected variable name")
	if err != nil {
		return nil, err
	}

	var initializer ast.Expression
	if p.isMatch(token.ASSIGN) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.SEMICOLON, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}

	return ast.VarStmt{Name: name, Initializer: initializer}, nil
}

func (p *Parser) functionDeclaration(kind string) (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, fmt.Sprintf("expected %s name", kind))
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(token.LPA, "expected '(' after "+kind+" name"); err != nil {
		return nil, err
	}

	var params []token.Token
	if !p.checkType(token.RPA) {
		for {
			param, err := p.consume(token.IDENTIFIER, "expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.isMatch(token.COMMA) {
				break
			}
		}
	}

	if _, err := p.consume(token.RPA, "expected ')' after parameters"); err != nil {
		return nil, err
	}

	if _, err := p.consume(token.LCUR, "expected '{' before "+kind+" body"); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return ast.FnStmt{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) decoratorDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, "expected decorator name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.FUNC, "expected function declaration after decorator"); err != nil {
		return nil, err
	}
	fn, err := p.functionDeclaration("function")
	if err != nil {
		return nil, err
	}
	return ast.DecoratorStmt{Name: name, Fn: fn}, nil
}

func (p *Parser) structDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, "expected struct name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LCUR, "expected '{' after struct name"); err != nil {
		return nil, err
	}

	var properties []token.Token
	for !p.checkType(token.RCUR) && !p.isFinished() {
		prop, err := p.consume(token.IDENTIFIER, "expected property name")
		if err != nil {
			return nil, err
		}
		properties = append(properties, prop)
		if !p.isMatch(token.COMMA) {
			break
		}
	}

	if _, err := p.consume(token.RCUR, "expected '}' after struct properties"); err != nil {
		return nil, err
	}

	return ast.StructStmt{Name: name, Properties: properties}, nil
}

func (p *Parser) implDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, "expected struct name after 'impl'")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LCUR, "expected '{' after impl target"); err != nil {
		return nil, err
	}

	var methods []ast.Stmt
	for !p.checkType(token.RCUR) && !p.isFinished() {
		if _, err := p.consume(token.FUNC, "expected method declaration inside impl block"); err != nil {
			return nil, err
		}
		method, err := p.functionDeclaration("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}

	if _, err := p.consume(token.RCUR, "expected '}' after impl body"); err != nil {
		return nil, err
	}

	return ast.ImplStmt{Name: name, Methods: methods}, nil
}

func (p *Parser) useDeclaration() (ast.Stmt, error) {
	path, err := p.consume(token.STRING, "expected module path string after 'use'")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after use statement"); err != nil {
		return nil, err
	}
	return ast.UseStmt{Path: path.Lexeme}, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.isMatch(token.PRINT):
		return p.printStatement()
	case p.isMatch(token.LCUR):
		return p.block()
	case p.isMatch(token.IF):
		return p.ifStatement()
	case p.isMatch(token.WHILE):
		return p.whileStatement()
	case p.isMatch(token.DO):
		return p.doWhileStatement()
	case p.isMatch(token.FOR):
		return p.forStatement()
	case p.isMatch(token.BREAK):
		return p.breakStatement()
	case p.isMatch(token.CONTINUE):
		return p.continueStatement()
	case p.isMatch(token.GOTO):
		return p.gotoStatement()
	case p.isMatch(token.RETURN):
		return p.returnStatement()
	case p.isMatch(token.YIELD):
		return p.yieldStatement()
	case p.isMatch(token.ASSERT):
		return p.assertStatement()
	}
	return p.expressionStatement()
}

func (p *Parser) printStatement() (ast.Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after value"); err != nil {
		return nil, err
	}
	return ast.PrintStmt{Expression: value}, nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LPA, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "expected ')' after condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.WhileStmt{Condition: condition, Body: body}, nil
}

func (p *Parser) doWhileStatement() (ast.Stmt, error) {
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.WHILE, "expected 'while' after do-block"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LPA, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "expected ')' after condition"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after do-while statement"); err != nil {
		return nil, err
	}
	return ast.DoWhileStmt{Condition: condition, Body: body}, nil
}

func (p *Parser) forStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LPA, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var initializer ast.Expression
	var err error
	if !p.checkType(token.SEMICOLON) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after for-loop initializer"); err != nil {
		return nil, err
	}

	var condition ast.Expression
	if !p.checkType(token.SEMICOLON) {
		condition, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after for-loop condition"); err != nil {
		return nil, err
	}

	var advancement ast.Expression
	if !p.checkType(token.RPA) {
		advancement, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.RPA, "expected ')' after for-loop clauses"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return ast.ForStmt{Initializer: initializer, Condition: condition, Advancement: advancement, Body: body}, nil
}

func (p *Parser) breakStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.SEMICOLON, "expected ';' after 'break'"); err != nil {
		return nil, err
	}
	return ast.BreakStmt{}, nil
}

func (p *Parser) continueStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.SEMICOLON, "expected ';' after 'continue'"); err != nil {
		return nil, err
	}
	return ast.ContinueStmt{}, nil
}

func (p *Parser) gotoStatement() (ast.Stmt, error) {
	label, err := p.consume(token.IDENTIFIER, "expected label after 'goto'")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after goto statement"); err != nil {
		return nil, err
	}
	return ast.GotoStmt{Label: label.Lexeme}, nil
}

func (p *Parser) returnStatement() (ast.Stmt, error) {
	var value ast.Expression
	var err error
	if !p.checkType(token.SEMICOLON) {
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after return value"); err != nil {
		return nil, err
	}
	return ast.ReturnStmt{Value: value}, nil
}

func (p *Parser) yieldStatement() (ast.Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after yield value"); err != nil {
		return nil, err
	}
	return ast.YieldStmt{Value: value}, nil
}

func (p *Parser) assertStatement() (ast.Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after assert expression"); err != nil {
		return nil, err
	}
	return ast.AssertStmt{Value: value}, nil
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LPA, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "expected ')' after if condition"); err != nil {
		return nil, err
	}

	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}

	var elseBranch ast.Stmt
	if p.isMatch(token.ELSE) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	} else if p.isMatch(token.ELIF) {
		elseBranch, err = p.ifStatement()
		if err != nil {
			return nil, err
		}
	}

	return ast.IfStmt{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}, nil
}

func (p *Parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after expression"); err != nil {
		return nil, err
	}
	return ast.ExpressionStmt{Expression: expr}, nil
}

func (p *Parser) block() (ast.Stmt, error) {
	var statements []ast.Stmt
	for !p.checkType(token.RCUR) && !p.isFinished() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	if _, err := p.consume(token.RCUR, "expected '}' after block"); err != nil {
		return nil, err
	}
	return ast.BlockStmt{Statements: statements}, nil
}

// expression is the top of the precedence chain.
func (p *Parser) expression() (ast.Expression, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expression, error) {
	expr, err := p.conditional()
	if err != nil {
		return nil, err
	}

	if p.isMatch(token.ASSIGN) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		switch expr.(type) {
		case ast.Variable, ast.Get, ast.Subscript:
			return ast.Assign{Target: expr, Value: value}, nil
		}
		return nil, CreateSyntaxError(equals.Line, equals.Column, "invalid assignment target")
	}

	return expr, nil
}

func (p *Parser) conditional() (ast.Expression, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if p.isMatch(token.QUESTION) {
		thenBranch, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.COLON, "expected ':' in conditional expression"); err != nil {
			return nil, err
		}
		elseBranch, err := p.conditional()
		if err != nil {
			return nil, err
		}
		return ast.Conditional{Condition: expr, ThenBranch: thenBranch, ElseBranch: elseBranch}, nil
	}

	return expr, nil
}

func (p *Parser) or() (ast.Expression, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.isMatch(token.OR) {
		operator := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) and() (ast.Expression, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.isMatch(token.AND) {
		operator := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expression, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.isMatch(token.NOT_EQUAL, token.EQUAL_EQUAL) {
		operator := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) comparison() (ast.Expression, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isMatch(token.LARGER, token.LARGER_EQUAL, token.LESS, token.LESS_EQUAL) {
		operator := p.previous()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) term() (ast.Expression, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.isMatch(token.ADD, token.SUB) {
		operator := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) factor() (ast.Expression, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isMatch(token.MULT, token.DIV, token.MOD) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.isMatch(token.BANG, token.SUB) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Operator: operator, Right: right}, nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.isMatch(token.LPA):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.isMatch(token.DOT):
			name, err := p.consume(token.IDENTIFIER, "expected property name after '.'")
			if err != nil {
				return nil, err
			}
			expr = ast.Get{Object: expr, Name: name}
		case p.isMatch(token.LBRACKET):
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RBRACKET, "expected ']' after subscript index"); err != nil {
				return nil, err
			}
			expr = ast.Subscript{Object: expr, Index: index}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	var arguments []ast.Expression
	if !p.checkType(token.RPA) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			arguments = append(arguments, arg)
			if !p.isMatch(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPA, "expected ')' after arguments"); err != nil {
		return nil, err
	}
	return ast.Call{Callee: callee, Arguments: arguments}, nil
}

func (p *Parser) primary() (ast.Expression, error) {
	switch {
	case p.isMatch(token.FALSE):
		return ast.Literal{Value: false}, nil
	case p.isMatch(token.TRUE):
		return ast.Literal{Value: true}, nil
	case p.isMatch(token.NULL):
		return ast.Literal{Value: nil}, nil
	case p.isMatch(token.FLOAT):
		return ast.Literal{Value: p.previous().Literal}, nil
	case p.isMatch(token.INT):
		return ast.Literal{Value: p.previous().Literal}, nil
	case p.isMatch(token.STRING):
		return ast.Literal{Value: p.previous().Literal}, nil
	case p.isMatch(token.LBRACKET):
		return p.arrayLiteral()
	case p.isMatch(token.IDENTIFIER):
		name := p.previous()
		if p.checkType(token.LCUR) {
			return p.structLiteral(name)
		}
		return ast.Variable{Name: name}, nil
	case p.isMatch(token.LPA):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPA, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return ast.Grouping{Expression: expr}, nil
	}

	tok := p.peek()
	return nil, CreateSyntaxError(tok.Line, tok.Column, fmt.Sprintf("unexpected token '%s'", tok.Lexeme))
}

func (p *Parser) structLiteral(name token.Token) (ast.Expression, error) {
	if _, err := p.consume(token.LCUR, "expected '{' after struct name"); err != nil {
		return nil, err
	}

	var initializers []ast.StructFieldInitializer
	for !p.checkType(token.RCUR) && !p.isFinished() {
		fieldName, err := p.consume(token.IDENTIFIER, "expected field name in struct literal")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.COLON, "expected ':' after field name"); err != nil {
			return nil, err
		}
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		initializers = append(initializers, ast.StructFieldInitializer{Name: fieldName, Value: value})
		if !p.isMatch(token.COMMA) {
			break
		}
	}

	if _, err := p.consume(token.RCUR, "expected '}' after struct literal"); err != nil {
		return nil, err
	}

	return ast.StructLiteral{Name: name, Initializers: initializers}, nil
}

func (p *Parser) arrayLiteral() (ast.Expression, error) {
	var elements []ast.Expression
	if !p.checkType(token.RBRACKET) {
		for {
			elem, err := p.expression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
			if !p.isMatch(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RBRACKET, "expected ']' after array elements"); err != nil {
		return nil, err
	}
	return ast.ArrayLiteral{Elements: elements}, nil
}
