// interfaces.go contains all visitor interfaces that any code traversing expression and statement AST nodes must implement.
// It also contains the interfaces that all statement and expression AST nodes must implement which also follows the
// visitor design pattern

package ast

// ExpressionVisitor is the interface for operating on all Expression AST nodes.
// Any type that wants to perform an operation on expressions (e.g., a compiler,
// ast-printer, or optimizer) must implement this interface.
//
// Each Visit method corresponds to a distinct Expression type.
type ExpressionVisitor interface {
	VisitBinary(binary Binary) any
	VisitUnary(unary Unary) any
	VisitLiteral(literal Literal) any
	VisitGrouping(grouping Grouping) any
	VisitVariableExpression(variable Variable) any
	VisitAssignExpression(assign Assign) any
	VisitLogicalExpression(logical Logical) any
	VisitCallExpression(call Call) any
	VisitGetExpression(get Get) any
	VisitSubscriptExpression(subscript Subscript) any
	VisitArrayLiteral(array ArrayLiteral) any
	VisitStructLiteral(structLit StructLiteral) any
	VisitStructFieldInitializer(init StructFieldInitializer) any
	VisitConditionalExpression(cond Conditional) any
}

// StmtVisitor is the interface for operating on all Statement AST nodes.
// Like ExpressionVisitor, it defines one Visit method per statement type.
// This separation between expressions and statements mirrors the grammar structure.
type StmtVisitor interface {
	VisitExpressionStmt(exprStmt ExpressionStmt) any
	VisitPrintStmt(printStmt PrintStmt) any
	VisitVarStmt(varStmt VarStmt) any
	VisitBlockStmt(blockStmt BlockStmt) any
	VisitIfStmt(stmt IfStmt) any
	VisitWhileStmt(stmt WhileStmt) any
	VisitDoWhileStmt(stmt DoWhileStmt) any
	VisitForStmt(stmt ForStmt) any
	VisitBreakStmt(stmt BreakStmt) any
	VisitContinueStmt(stmt ContinueStmt) any
	VisitGotoStmt(stmt GotoStmt) any
	VisitLabeledStmt(stmt LabeledStmt) any
	VisitFnStmt(stmt FnStmt) any
	VisitDecoratorStmt(stmt DecoratorStmt) any
	VisitReturnStmt(stmt ReturnStmt) any
	VisitStructStmt(stmt StructStmt) any
	VisitImplStmt(stmt ImplStmt) any
	VisitUseStmt(stmt UseStmt) any
	VisitYieldStmt(stmt YieldStmt) any
	VisitAssertStmt(stmt AssertStmt) any
}

// Stmt is the base interface for all statement nodes in the AST.
// Like Expression, it follows the Visitor design pattern where each
// statement type implements Accept, calling back into the correct
// Visit method on a StmtVisitor.
type Stmt interface {
	Accept(v StmtVisitor) any
}

// Expression is the core interface for all expression nodes in the Abstract Syntax Tree (AST).
// Any expression type (e.g., binary operation, literal, grouping, etc.) must implement this interface.
type Expression interface {
	Accept(v ExpressionVisitor) any
}
