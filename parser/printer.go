package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"

	"venom/ast"
)

// astPrinter implements the Visitor interfaces and builds a
// JSON-friendly representation of the AST using maps and slices.
// Each Visit method returns an object that can be marshaled to JSON.
type astPrinter struct{}

func (p astPrinter) VisitExpressionStmt(exprStmt ast.ExpressionStmt) any {
	return map[string]any{
		"type":       "ExpressionStmt",
		"expression": exprStmt.Expression.Accept(p),
	}
}

func (p astPrinter) VisitPrintStmt(printStmt ast.PrintStmt) any {
	return map[string]any{
		"type":       "PrintStmt",
		"expression": printStmt.Expression.Accept(p),
	}
}

func (p astPrinter) VisitVarStmt(varStmt ast.VarStmt) any {
	return map[string]any{
		"type":        "VarStmt",
		"name":        varStmt.Name.Lexeme,
		"initializer": nilOrAcceptExpr(varStmt.Initializer, p),
	}
}

func (p astPrinter) VisitBlockStmt(blockStmt ast.BlockStmt) any {
	stmts := make([]any, 0, len(blockStmt.Statements))
	for _, stmt := range blockStmt.Statements {
		stmts = append(stmts, stmt.Accept(p))
	}
	return map[string]any{
		"type":       "BlockStmt",
		"statements": stmts,
	}
}

func (p astPrinter) VisitWhileStmt(stmt ast.WhileStmt) any {
	return map[string]any{
		"type":      "WhileStmt",
		"label":     stmt.Label,
		"condition": stmt.Condition.Accept(p),
		"body":      stmt.Body.Accept(p),
	}
}

func (p astPrinter) VisitDoWhileStmt(stmt ast.DoWhileStmt) any {
	return map[string]any{
		"type":      "DoWhileStmt",
		"label":     stmt.Label,
		"condition": stmt.Condition.Accept(p),
		"body":      stmt.Body.Accept(p),
	}
}

func (p astPrinter) VisitForStmt(stmt ast.ForStmt) any {
	return map[string]any{
		"type":        "ForStmt",
		"label":       stmt.Label,
		"initializer": nilOrAcceptExpr(stmt.Initializer, p),
		"condition":   nilOrAcceptExpr(stmt.Condition, p),
		"advancement": nilOrAcceptExpr(stmt.Advancement, p),
		"body":        stmt.Body.Accept(p),
	}
}

func (p astPrinter) VisitBreakStmt(stmt ast.BreakStmt) any {
	return map[string]any{"type": "BreakStmt", "label": stmt.Label}
}

func (p astPrinter) VisitContinueStmt(stmt ast.ContinueStmt) any {
	return map[string]any{"type": "ContinueStmt", "label": stmt.Label}
}

func (p astPrinter) VisitGotoStmt(stmt ast.GotoStmt) any {
	return map[string]any{"type": "GotoStmt", "label": stmt.Label}
}

func (p astPrinter) VisitLabeledStmt(stmt ast.LabeledStmt) any {
	return map[string]any{
		"type":  "LabeledStmt",
		"label": stmt.Label,
		"stmt":  nilOrAcceptStmt(stmt.Stmt, p),
	}
}

func (p astPrinter) VisitFnStmt(stmt ast.FnStmt) any {
	params := make([]string, 0, len(stmt.Params))
	for _, param := range stmt.Params {
		params = append(params, param.Lexeme)
	}
	return map[string]any{
		"type":   "FnStmt",
		"name":   stmt.Name.Lexeme,
		"params": params,
		"body":   stmt.Body.Accept(p),
	}
}

func (p astPrinter) VisitDecoratorStmt(stmt ast.DecoratorStmt) any {
	return map[string]any{
		"type": "DecoratorStmt",
		"name": stmt.Name.Lexeme,
		"fn":   stmt.Fn.Accept(p),
	}
}

func (p astPrinter) VisitReturnStmt(stmt ast.ReturnStmt) any {
	return map[string]any{
		"type":  "ReturnStmt",
		"value": nilOrAcceptExpr(stmt.Value, p),
	}
}

func (p astPrinter) VisitStructStmt(stmt ast.StructStmt) any {
	props := make([]string, 0, len(stmt.Properties))
	for _, prop := range stmt.Properties {
		props = append(props, prop.Lexeme)
	}
	return map[string]any{
		"type":       "StructStmt",
		"name":       stmt.Name.Lexeme,
		"properties": props,
	}
}

func (p astPrinter) VisitImplStmt(stmt ast.ImplStmt) any {
	methods := make([]any, 0, len(stmt.Methods))
	for _, m := range stmt.Methods {
		methods = append(methods, m.Accept(p))
	}
	return map[string]any{
		"type":    "ImplStmt",
		"name":    stmt.Name.Lexeme,
		"methods": methods,
	}
}

func (p astPrinter) VisitUseStmt(stmt ast.UseStmt) any {
	return map[string]any{"type": "UseStmt", "path": stmt.Path}
}

func (p astPrinter) VisitYieldStmt(stmt ast.YieldStmt) any {
	return map[string]any{"type": "YieldStmt", "value": nilOrAcceptExpr(stmt.Value, p)}
}

func (p astPrinter) VisitAssertStmt(stmt ast.AssertStmt) any {
	return map[string]any{"type": "AssertStmt", "value": nilOrAcceptExpr(stmt.Value, p)}
}

func (p astPrinter) VisitIfStmt(stmt ast.IfStmt) any {
	return map[string]any{
		"type":      "IfStmt",
		"condition": stmt.Condition.Accept(p),
		"then":      stmt.ThenBranch.Accept(p),
		"else":      nilOrAcceptStmt(stmt.ElseBranch, p),
	}
}

func (p astPrinter) VisitLogicalExpression(expr ast.Logical) any {
	return map[string]any{
		"type":     "Logical",
		"operator": expr.Operator.Lexeme,
		"left":     expr.Left.Accept(p),
		"right":    expr.Right.Accept(p),
	}
}

func (p astPrinter) VisitAssignExpression(assign ast.Assign) any {
	return map[string]any{
		"type":   "Assign",
		"target": assign.Target.Accept(p),
		"value":  assign.Value.Accept(p),
	}
}

func (p astPrinter) VisitVariableExpression(variable ast.Variable) any {
	return map[string]any{
		"type": "Variable",
		"name": variable.Name.Lexeme,
	}
}

func (p astPrinter) VisitBinary(b ast.Binary) any {
	return map[string]any{
		"type":     "Binary",
		"operator": b.Operator.Lexeme,
		"left":     b.Left.Accept(p),
		"right":    b.Right.Accept(p),
	}
}

func (p astPrinter) VisitUnary(u ast.Unary) any {
	return map[string]any{
		"type":     "Unary",
		"operator": u.Operator.Lexeme,
		"right":    u.Right.Accept(p),
	}
}

func (p astPrinter) VisitLiteral(l ast.Literal) any {
	// literals are terminal values and can be used directly in JSON
	return l.Value
}

func (p astPrinter) VisitGrouping(g ast.Grouping) any {
	return map[string]any{
		"type":       "Grouping",
		"expression": g.Expression.Accept(p),
	}
}

func (p astPrinter) VisitCallExpression(call ast.Call) any {
	args := make([]any, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		args = append(args, arg.Accept(p))
	}
	return map[string]any{
		"type":      "Call",
		"callee":    call.Callee.Accept(p),
		"arguments": args,
	}
}

func (p astPrinter) VisitGetExpression(get ast.Get) any {
	return map[string]any{
		"type":   "Get",
		"object": get.Object.Accept(p),
		"name":   get.Name.Lexeme,
	}
}

func (p astPrinter) VisitSubscriptExpression(subscript ast.Subscript) any {
	return map[string]any{
		"type":   "Subscript",
		"object": subscript.Object.Accept(p),
		"index":  subscript.Index.Accept(p),
	}
}

func (p astPrinter) VisitArrayLiteral(array ast.ArrayLiteral) any {
	elems := make([]any, 0, len(array.Elements))
	for _, e := range array.Elements {
		elems = append(elems, e.Accept(p))
	}
	return map[string]any{"type": "ArrayLiteral", "elements": elems}
}

func (p astPrinter) VisitStructLiteral(structLit ast.StructLiteral) any {
	inits := make([]any, 0, len(structLit.Initializers))
	for _, init := range structLit.Initializers {
		inits = append(inits, init.Accept(p))
	}
	return map[string]any{
		"type":         "StructLiteral",
		"name":         structLit.Name.Lexeme,
		"initializers": inits,
	}
}

func (p astPrinter) VisitStructFieldInitializer(init ast.StructFieldInitializer) any {
	return map[string]any{
		"type":  "StructFieldInitializer",
		"name":  init.Name.Lexeme,
		"value": init.Value.Accept(p),
	}
}

func (p astPrinter) VisitConditionalExpression(cond ast.Conditional) any {
	return map[string]any{
		"type":      "Conditional",
		"condition": cond.Condition.Accept(p),
		"then":      cond.ThenBranch.Accept(p),
		"else":      cond.ElseBranch.Accept(p),
	}
}

// nilOrAcceptExpr returns nil if expr is nil, otherwise it continues
// processing the expression and returns the result.
func nilOrAcceptExpr(expr ast.Expression, p ast.ExpressionVisitor) any {
	if expr == nil {
		return nil
	}
	return expr.Accept(p)
}

// nilOrAcceptStmt is nilOrAcceptExpr's statement-side counterpart, used for
// optional else-branches and similar nil-able statement slots.
func nilOrAcceptStmt(stmt ast.Stmt, p ast.StmtVisitor) any {
	if stmt == nil {
		return nil
	}
	return stmt.Accept(p)
}

// PrintASTJSON converts a slice of statements into a prettified JSON string.
func PrintASTJSON(statements []ast.Stmt) (string, error) {
	printer := astPrinter{}
	out := make([]any, 0, len(statements))
	for _, s := range statements {
		out = append(out, s.Accept(printer))
	}
	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}

	jsonStr := string(bytes)
	yellow := color.New(color.FgYellow)
	yellow.Println("----- AST JSON -----")
	yellow.Println(jsonStr)
	yellow.Println("-----")
	fmt.Println("")
	return jsonStr, nil
}

// WriteASTJSONToFile writes the prettified AST JSON to the given file path.
func WriteASTJSONToFile(statements []ast.Stmt, path string) error {
	s, err := PrintASTJSON(statements)
	if err != nil {
		return err
	}
	fDescriptor, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %s", err.Error())
	}
	defer fDescriptor.Close()

	if _, err := fDescriptor.Write([]byte(s)); err != nil {
		return fmt.Errorf("error writing AST to file: %s", err.Error())
	}
	return nil
}
