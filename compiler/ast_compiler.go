package compiler

import (
	"fmt"

	"venom/ast"
	"venom/token"
)

// Local tracks one declared local variable: its name, the scope depth it
// was declared at, whether its initializer has finished running yet (a
// local is not visible to its own initializer), and the stack slot it
// occupies relative to the enclosing function's frame pointer.
type Local struct {
	name        string
	depth       int
	initialized bool
	slot        int
}

// loopContext accumulates the pending break/continue jump sites for one
// labeled loop while its body is being compiled. Both lists are patched
// once the loop's exit/continue targets are known.
type loopContext struct {
	label           string
	breakPatches    []int
	continuePatches []int

	// localsBase is len(ac.locals) at the moment the loop's body began
	// compiling. Any local past this index was declared inside the
	// loop body and must be popped explicitly by a break/continue that
	// jumps around the body's own endScope cleanup.
	localsBase int
}

// ASTCompiler walks an already loop-labeled (and, with --optimize,
// constant-folded) AST and emits bytecode: a linear instruction stream plus the number and
// string constant pools it references.
type ASTCompiler struct {
	bytecode Bytecode

	locals     []Local
	scopeDepth int

	// nameIndex deduplicates string-pool entries so that repeated
	// references to the same global/local/attribute name share one slot.
	nameIndex map[string]int

	loops []*loopContext

	// inFunction disallows nested function declarations; the calling
	// convention only accounts for one level of frame-pointer indexing.
	inFunction bool
}

// NewASTCompiler returns a compiler ready to compile a program's top-level
// statement list.
func NewASTCompiler() *ASTCompiler {
	return &ASTCompiler{
		nameIndex: make(map[string]int),
	}
}

// CompileAST compiles every statement in program in order, appending an
// OP_END sentinel, and returns the finished bytecode. A compiler reused
// across calls (the REPL) appends to the same chunk: the OP_END left by
// the previous call is dropped first, so running the chunk from offset 0
// reaches the newly compiled statements. Semantic errors
// (duplicate declarations, unsupported constructs, invalid break/continue
// targets) surface as a returned error rather than a panic, via recover.
func (ac *ASTCompiler) CompileAST(program []ast.Stmt) (bytecode Bytecode, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case SemanticError:
				err = e
			case DeveloperError:
				err = e
			default:
				panic(r)
			}
		}
	}()

	if n := len(ac.bytecode.Instructions); n > 0 && Opcode(ac.bytecode.Instructions[n-1]) == OP_END {
		ac.bytecode.Instructions = ac.bytecode.Instructions[:n-1]
	}
	for _, stmt := range program {
		stmt.Accept(ac)
	}
	ac.emit(OP_END)
	return ac.bytecode, nil
}

// DumpBytecode renders the instruction stream with one disassembled line
// per instruction, used by the --ir / --dumpBytecode CLI flags.
func (ac *ASTCompiler) DumpBytecode() string {
	out := ""
	ip := 0
	for ip < len(ac.bytecode.Instructions) {
		line, err := DisassembleInstruction(ac.bytecode.Instructions, ip)
		if err != nil {
			break
		}
		out += line + "\n"
		ip += InstructionWidth(ac.bytecode.Instructions, ip)
	}
	return out
}

// --- name/constant pool helpers ---

func (ac *ASTCompiler) addNumberConstant(n float64) int {
	ac.bytecode.Numbers = append(ac.bytecode.Numbers, n)
	return len(ac.bytecode.Numbers) - 1
}

// addStringConstant interns s in the shared string pool, always
// allocating a fresh slot. Two equal string literals at different source
// sites get distinct OP_STR operands; pool deduplication of literals is
// an implementation choice the language does not expose.
func (ac *ASTCompiler) addStringConstant(s string) int {
	ac.bytecode.Strings = append(ac.bytecode.Strings, s)
	return len(ac.bytecode.Strings) - 1
}

// addName interns s as a name (global, attribute, struct, function or
// parameter) and deduplicates repeated uses of the same identifier so
// that every reference to, say, global "x" shares one string-pool slot.
func (ac *ASTCompiler) addName(s string) int {
	if idx, ok := ac.nameIndex[s]; ok {
		return idx
	}
	idx := ac.addStringConstant(s)
	ac.nameIndex[s] = idx
	return idx
}

// --- emission helpers ---

func (ac *ASTCompiler) emit(op Opcode, operands ...int) int {
	pos := len(ac.bytecode.Instructions)
	instruction, err := AssembleInstruction(op, operands...)
	if err != nil {
		panic(DeveloperError{Message: err.Error()})
	}
	ac.bytecode.Instructions = append(ac.bytecode.Instructions, instruction...)
	return pos
}

func (ac *ASTCompiler) emitStruct(nameIdx int, propIndices []int) int {
	pos := len(ac.bytecode.Instructions)
	ac.bytecode.Instructions = append(ac.bytecode.Instructions, AssembleStruct(nameIdx, propIndices)...)
	return pos
}

// emitPlaceholderJump emits a JZ/JMP with a zero operand to be filled in
// later by patchJump, once the target address is known.
func (ac *ASTCompiler) emitPlaceholderJump(op Opcode) int {
	return ac.emit(op, 0)
}

func (ac *ASTCompiler) patchJump(pos int, target int) {
	PatchOperand(ac.bytecode.Instructions, pos, 0, target)
}

func (ac *ASTCompiler) here() int {
	return len(ac.bytecode.Instructions)
}

// --- scope/local helpers ---

func (ac *ASTCompiler) beginScope() {
	ac.scopeDepth++
}

// endScope pops every local declared in the scope being exited, emitting
// an OP_POP for each so the value stack loses exactly the slots the
// scope introduced.
func (ac *ASTCompiler) endScope() {
	ac.scopeDepth--
	for len(ac.locals) > 0 && ac.locals[len(ac.locals)-1].depth > ac.scopeDepth {
		ac.emit(OP_POP)
		ac.locals = ac.locals[:len(ac.locals)-1]
	}
}

// declareLocal introduces name as a new local in the current scope. A
// second declaration of the same name in the same scope is a semantic
// error; shadowing an outer scope's local, or a global, is allowed.
func (ac *ASTCompiler) declareLocal(name string) int {
	for i := len(ac.locals) - 1; i >= 0; i-- {
		local := ac.locals[i]
		if local.depth < ac.scopeDepth {
			break
		}
		if local.name == name {
			panic(SemanticError{Message: fmt.Sprintf("variable '%s' already declared in this scope", name)})
		}
	}
	slot := len(ac.locals)
	ac.locals = append(ac.locals, Local{name: name, depth: ac.scopeDepth, initialized: false, slot: slot})
	return slot
}

func (ac *ASTCompiler) defineLocal() {
	ac.locals[len(ac.locals)-1].initialized = true
}

// resolveLocal finds name among the currently visible locals, innermost
// scope first, returning its frame slot or -1 if name is not a local.
func (ac *ASTCompiler) resolveLocal(name string) int {
	for i := len(ac.locals) - 1; i >= 0; i-- {
		if ac.locals[i].name == name {
			if !ac.locals[i].initialized {
				panic(SemanticError{Message: fmt.Sprintf("cannot read local variable '%s' in its own initializer", name)})
			}
			return ac.locals[i].slot
		}
	}
	return -1
}

// --- loop label bookkeeping for break/continue ---

func (ac *ASTCompiler) pushLoop(label string) *loopContext {
	ctx := &loopContext{label: label, localsBase: len(ac.locals)}
	ac.loops = append(ac.loops, ctx)
	return ctx
}

func (ac *ASTCompiler) popLoop() {
	ac.loops = ac.loops[:len(ac.loops)-1]
}

func (ac *ASTCompiler) findLoop(label string) *loopContext {
	for i := len(ac.loops) - 1; i >= 0; i-- {
		if ac.loops[i].label == label {
			return ac.loops[i]
		}
	}
	panic(SemanticError{Message: fmt.Sprintf("break/continue outside of loop '%s'", label)})
}

// exprLeavesValue reports whether compiling expr leaves a value on the
// stack. Assignment consumes its value via the store opcode and leaves
// nothing extra; every other expression pushes exactly one result.
// Used by for-loop init/advancement clauses and expression statements to
// know whether an extra OP_POP is needed to restore the pre-statement
// stack depth.
func exprLeavesValue(expr ast.Expression) bool {
	_, isAssign := expr.(ast.Assign)
	return !isAssign
}

func (ac *ASTCompiler) compileExprAsStatement(expr ast.Expression) {
	expr.Accept(ac)
	if exprLeavesValue(expr) {
		ac.emit(OP_POP)
	}
}

// --- ExpressionVisitor ---

func (ac *ASTCompiler) VisitBinary(binary ast.Binary) any {
	binary.Left.Accept(ac)
	binary.Right.Accept(ac)
	switch binary.Operator.TokenType {
	case token.ADD:
		ac.emit(OP_ADD)
	case token.SUB:
		ac.emit(OP_SUB)
	case token.MULT:
		ac.emit(OP_MUL)
	case token.DIV:
		ac.emit(OP_DIV)
	case token.MOD:
		ac.emit(OP_MOD)
	case token.LARGER:
		ac.emit(OP_GT)
	case token.LESS:
		ac.emit(OP_LT)
	case token.LARGER_EQUAL:
		ac.emit(OP_LT)
		ac.emit(OP_NOT)
	case token.LESS_EQUAL:
		ac.emit(OP_GT)
		ac.emit(OP_NOT)
	case token.EQUAL_EQUAL:
		ac.emit(OP_EQ)
	case token.NOT_EQUAL:
		ac.emit(OP_EQ)
		ac.emit(OP_NOT)
	default:
		panic(DeveloperError{Message: fmt.Sprintf("unknown binary operator '%s'", binary.Operator.Lexeme)})
	}
	return nil
}

func (ac *ASTCompiler) VisitUnary(unary ast.Unary) any {
	unary.Right.Accept(ac)
	switch unary.Operator.TokenType {
	case token.SUB:
		ac.emit(OP_NEG)
	case token.BANG:
		ac.emit(OP_NOT)
	default:
		panic(DeveloperError{Message: fmt.Sprintf("unknown unary operator '%s'", unary.Operator.Lexeme)})
	}
	return nil
}

// VisitLiteral compiles a literal value. Booleans have no dedicated push
// opcode other than OP_TRUE, so `false` is synthesized as OP_TRUE
// followed by OP_NOT.
func (ac *ASTCompiler) VisitLiteral(literal ast.Literal) any {
	switch v := literal.Value.(type) {
	case nil:
		ac.emit(OP_NULL)
	case bool:
		ac.emit(OP_TRUE)
		if !v {
			ac.emit(OP_NOT)
		}
	case int64:
		idx := ac.addNumberConstant(float64(v))
		ac.emit(OP_CONST, idx)
	case float64:
		idx := ac.addNumberConstant(v)
		ac.emit(OP_CONST, idx)
	case string:
		idx := ac.addStringConstant(v)
		ac.emit(OP_STR, idx)
	default:
		panic(DeveloperError{Message: fmt.Sprintf("unsupported literal type %T", v)})
	}
	return nil
}

func (ac *ASTCompiler) VisitGrouping(grouping ast.Grouping) any {
	grouping.Expression.Accept(ac)
	return nil
}

func (ac *ASTCompiler) VisitVariableExpression(variable ast.Variable) any {
	if slot := ac.resolveLocal(variable.Name.Lexeme); slot != -1 {
		ac.emit(OP_DEEPGET, slot)
		return nil
	}
	idx := ac.addName(variable.Name.Lexeme)
	ac.emit(OP_GET_GLOBAL, idx)
	return nil
}

// VisitAssignExpression compiles assignment to a variable or struct
// property lvalue. The stored value is consumed by the store opcode;
// assignment leaves nothing extra on the stack (see exprLeavesValue).
func (ac *ASTCompiler) VisitAssignExpression(assign ast.Assign) any {
	switch target := assign.Target.(type) {
	case ast.Variable:
		assign.Value.Accept(ac)
		if slot := ac.resolveLocal(target.Name.Lexeme); slot != -1 {
			ac.emit(OP_DEEPSET, slot)
			return nil
		}
		idx := ac.addName(target.Name.Lexeme)
		ac.emit(OP_SET_GLOBAL, idx)
	case ast.Get:
		target.Object.Accept(ac)
		assign.Value.Accept(ac)
		idx := ac.addName(target.Name.Lexeme)
		ac.emit(OP_SETATTR, idx)
	case ast.Subscript:
		panic(SemanticError{Message: "array element assignment is not yet supported"})
	default:
		panic(DeveloperError{Message: "unsupported assignment target"})
	}
	return nil
}

// VisitLogicalExpression compiles short-circuiting "and"/"or". Neither
// OP_JZ (which pops its operand) nor the rest of the opcode set offers a
// non-destructive duplicate, so both operators coerce their result to a
// canonical boolean via double negation (!!x) rather than preserving the
// original operand's value, matching how the optimizer already treats
// these operators as strictly boolean.
func (ac *ASTCompiler) VisitLogicalExpression(logical ast.Logical) any {
	logical.Left.Accept(ac)
	switch logical.Operator.TokenType {
	case token.AND:
		jz := ac.emitPlaceholderJump(OP_JZ)
		logical.Right.Accept(ac)
		ac.emit(OP_NOT)
		ac.emit(OP_NOT)
		jmpEnd := ac.emitPlaceholderJump(OP_JMP)
		ac.patchJump(jz, ac.here())
		ac.emit(OP_TRUE)
		ac.emit(OP_NOT)
		ac.patchJump(jmpEnd, ac.here())
	case token.OR:
		jz := ac.emitPlaceholderJump(OP_JZ)
		ac.emit(OP_TRUE)
		jmpEnd := ac.emitPlaceholderJump(OP_JMP)
		ac.patchJump(jz, ac.here())
		logical.Right.Accept(ac)
		ac.emit(OP_NOT)
		ac.emit(OP_NOT)
		ac.patchJump(jmpEnd, ac.here())
	default:
		panic(DeveloperError{Message: fmt.Sprintf("unknown logical operator '%s'", logical.Operator.Lexeme)})
	}
	return nil
}

// VisitCallExpression compiles a direct call to a named function. Only
// calling a bare identifier is supported; methods and closures are out
// of scope (see DESIGN.md).
func (ac *ASTCompiler) VisitCallExpression(call ast.Call) any {
	callee, ok := call.Callee.(ast.Variable)
	if !ok {
		panic(SemanticError{Message: "only direct calls to a named function are supported"})
	}
	for _, arg := range call.Arguments {
		arg.Accept(ac)
	}
	idx := ac.addName(callee.Name.Lexeme)
	ac.emit(OP_INVOKE, idx, len(call.Arguments))
	return nil
}

func (ac *ASTCompiler) VisitGetExpression(get ast.Get) any {
	get.Object.Accept(ac)
	idx := ac.addName(get.Name.Lexeme)
	ac.emit(OP_GETATTR, idx)
	return nil
}

func (ac *ASTCompiler) VisitSubscriptExpression(subscript ast.Subscript) any {
	panic(SemanticError{Message: "array subscript expressions are not yet supported"})
}

func (ac *ASTCompiler) VisitArrayLiteral(array ast.ArrayLiteral) any {
	panic(SemanticError{Message: "array literals are not yet supported"})
}

// VisitStructLiteral compiles "Name { a: 1, b: 2 }" into OP_STRUCT_INIT
// (which validates the blueprint exists and the propcount matches),
// one OP_PROP per field, then OP_STRUCT_INIT_FINALIZE.
func (ac *ASTCompiler) VisitStructLiteral(structLit ast.StructLiteral) any {
	nameIdx := ac.addName(structLit.Name.Lexeme)
	ac.emit(OP_STRUCT_INIT, nameIdx, len(structLit.Initializers))
	for _, init := range structLit.Initializers {
		init.Accept(ac)
	}
	ac.emit(OP_STRUCT_INIT_FINALIZE, len(structLit.Initializers))
	return nil
}

func (ac *ASTCompiler) VisitStructFieldInitializer(init ast.StructFieldInitializer) any {
	init.Value.Accept(ac)
	idx := ac.addName(init.Name.Lexeme)
	ac.emit(OP_PROP, idx)
	return nil
}

// VisitConditionalExpression compiles a ternary "cond ? a : b" exactly
// like an if/else whose branches are expressions.
func (ac *ASTCompiler) VisitConditionalExpression(cond ast.Conditional) any {
	cond.Condition.Accept(ac)
	jz := ac.emitPlaceholderJump(OP_JZ)
	cond.ThenBranch.Accept(ac)
	jmpEnd := ac.emitPlaceholderJump(OP_JMP)
	ac.patchJump(jz, ac.here())
	cond.ElseBranch.Accept(ac)
	ac.patchJump(jmpEnd, ac.here())
	return nil
}

// --- StmtVisitor ---

func (ac *ASTCompiler) VisitExpressionStmt(exprStmt ast.ExpressionStmt) any {
	ac.compileExprAsStatement(exprStmt.Expression)
	return nil
}

func (ac *ASTCompiler) VisitPrintStmt(printStmt ast.PrintStmt) any {
	printStmt.Expression.Accept(ac)
	ac.emit(OP_PRINT)
	return nil
}

// VisitVarStmt compiles a "let" declaration. At block/function scope it
// becomes a new local slot; at the top level it becomes a global.
func (ac *ASTCompiler) VisitVarStmt(varStmt ast.VarStmt) any {
	if varStmt.Initializer != nil {
		varStmt.Initializer.Accept(ac)
	} else {
		ac.emit(OP_NULL)
	}

	if ac.scopeDepth > 0 {
		ac.declareLocal(varStmt.Name.Lexeme)
		ac.defineLocal()
		// The initializer's value already sits in the slot this local now
		// owns; no further store opcode is needed.
		return nil
	}

	idx := ac.addName(varStmt.Name.Lexeme)
	ac.emit(OP_SET_GLOBAL, idx)
	return nil
}

func (ac *ASTCompiler) VisitBlockStmt(blockStmt ast.BlockStmt) any {
	ac.beginScope()
	for _, stmt := range blockStmt.Statements {
		stmt.Accept(ac)
	}
	ac.endScope()
	return nil
}

func (ac *ASTCompiler) VisitIfStmt(stmt ast.IfStmt) any {
	stmt.Condition.Accept(ac)
	jz := ac.emitPlaceholderJump(OP_JZ)
	stmt.ThenBranch.Accept(ac)
	if stmt.ElseBranch != nil {
		jmpEnd := ac.emitPlaceholderJump(OP_JMP)
		ac.patchJump(jz, ac.here())
		stmt.ElseBranch.Accept(ac)
		ac.patchJump(jmpEnd, ac.here())
	} else {
		ac.patchJump(jz, ac.here())
	}
	return nil
}

func (ac *ASTCompiler) VisitWhileStmt(stmt ast.WhileStmt) any {
	loopStart := ac.here()
	stmt.Condition.Accept(ac)
	jz := ac.emitPlaceholderJump(OP_JZ)

	ctx := ac.pushLoop(stmt.Label)
	stmt.Body.Accept(ac)
	ac.emit(OP_JMP, loopStart)
	loopEnd := ac.here()
	ac.patchJump(jz, loopEnd)

	for _, pos := range ctx.continuePatches {
		ac.patchJump(pos, loopStart)
	}
	for _, pos := range ctx.breakPatches {
		ac.patchJump(pos, loopEnd)
	}
	ac.popLoop()
	return nil
}

func (ac *ASTCompiler) VisitDoWhileStmt(stmt ast.DoWhileStmt) any {
	loopStart := ac.here()

	ctx := ac.pushLoop(stmt.Label)
	stmt.Body.Accept(ac)
	condCheck := ac.here()
	stmt.Condition.Accept(ac)
	jz := ac.emitPlaceholderJump(OP_JZ)
	ac.emit(OP_JMP, loopStart)
	loopEnd := ac.here()
	ac.patchJump(jz, loopEnd)

	for _, pos := range ctx.continuePatches {
		ac.patchJump(pos, condCheck)
	}
	for _, pos := range ctx.breakPatches {
		ac.patchJump(pos, loopEnd)
	}
	ac.popLoop()
	return nil
}

func (ac *ASTCompiler) VisitForStmt(stmt ast.ForStmt) any {
	ac.beginScope()
	if stmt.Initializer != nil {
		ac.compileExprAsStatement(stmt.Initializer)
	}

	loopStart := ac.here()
	var jz int
	hasCondition := stmt.Condition != nil
	if hasCondition {
		stmt.Condition.Accept(ac)
		jz = ac.emitPlaceholderJump(OP_JZ)
	}

	ctx := ac.pushLoop(stmt.Label)
	stmt.Body.Accept(ac)

	advStart := ac.here()
	if stmt.Advancement != nil {
		ac.compileExprAsStatement(stmt.Advancement)
	}
	ac.emit(OP_JMP, loopStart)
	loopEnd := ac.here()
	if hasCondition {
		ac.patchJump(jz, loopEnd)
	}

	for _, pos := range ctx.continuePatches {
		ac.patchJump(pos, advStart)
	}
	for _, pos := range ctx.breakPatches {
		ac.patchJump(pos, loopEnd)
	}
	ac.popLoop()
	ac.endScope()
	return nil
}

// emitLoopExitPops emits one OP_POP per local declared since ctx's loop
// body began compiling, without removing them from ac.locals (the
// body's own endScope still expects to find them there once control
// falls through normally). A break/continue jumps past that endScope,
// so without this the value stack would keep every local the loop body
// declared, violating the stack-discipline property of spec.md section 8.
func (ac *ASTCompiler) emitLoopExitPops(ctx *loopContext) {
	for i := len(ac.locals) - 1; i >= ctx.localsBase; i-- {
		ac.emit(OP_POP)
	}
}

func (ac *ASTCompiler) VisitBreakStmt(stmt ast.BreakStmt) any {
	ctx := ac.findLoop(stmt.Label)
	ac.emitLoopExitPops(ctx)
	pos := ac.emitPlaceholderJump(OP_JMP)
	ctx.breakPatches = append(ctx.breakPatches, pos)
	return nil
}

func (ac *ASTCompiler) VisitContinueStmt(stmt ast.ContinueStmt) any {
	ctx := ac.findLoop(stmt.Label)
	ac.emitLoopExitPops(ctx)
	pos := ac.emitPlaceholderJump(OP_JMP)
	ctx.continuePatches = append(ctx.continuePatches, pos)
	return nil
}

func (ac *ASTCompiler) VisitGotoStmt(stmt ast.GotoStmt) any {
	panic(SemanticError{Message: "goto statements are not yet supported"})
}

func (ac *ASTCompiler) VisitLabeledStmt(stmt ast.LabeledStmt) any {
	panic(SemanticError{Message: "labeled statements are not yet supported"})
}

// VisitFnStmt compiles a function declaration: an OP_JMP over the body
// (so execution reaching the declaration doesn't fall into it), the body
// compiled with a fresh local scope seeded with one local per parameter,
// and an OP_FUNC that registers the function's paramcount and body
// location as a global.
func (ac *ASTCompiler) VisitFnStmt(stmt ast.FnStmt) any {
	if ac.inFunction {
		panic(SemanticError{Message: "nested function declarations are not yet supported"})
	}

	jmpOverBody := ac.emitPlaceholderJump(OP_JMP)
	location := ac.here()

	ac.inFunction = true
	savedLocals := ac.locals
	savedDepth := ac.scopeDepth
	ac.locals = nil
	ac.scopeDepth = 0

	ac.beginScope()
	for _, param := range stmt.Params {
		ac.declareLocal(param.Lexeme)
		ac.defineLocal()
	}
	stmt.Body.Accept(ac)
	ac.endScope()

	// Every path through a function must reach an OP_RET; a body that
	// falls off the end returns null.
	ac.emit(OP_NULL)
	ac.emit(OP_RET)

	ac.locals = savedLocals
	ac.scopeDepth = savedDepth
	ac.inFunction = false

	ac.patchJump(jmpOverBody, ac.here())

	nameIdx := ac.addName(stmt.Name.Lexeme)
	ac.emit(OP_FUNC, nameIdx, len(stmt.Params), location)
	return nil
}

func (ac *ASTCompiler) VisitDecoratorStmt(stmt ast.DecoratorStmt) any {
	panic(SemanticError{Message: "decorators are not yet supported"})
}

func (ac *ASTCompiler) VisitReturnStmt(stmt ast.ReturnStmt) any {
	if stmt.Value != nil {
		stmt.Value.Accept(ac)
	} else {
		ac.emit(OP_NULL)
	}
	ac.emit(OP_RET)
	return nil
}

// VisitStructStmt registers a struct blueprint. OP_STRUCT is assembled
// via AssembleStruct since it carries a variable number of property
// indices, not through the fixed-width table AssembleInstruction uses.
func (ac *ASTCompiler) VisitStructStmt(stmt ast.StructStmt) any {
	nameIdx := ac.addName(stmt.Name.Lexeme)
	propIndices := make([]int, len(stmt.Properties))
	for i, prop := range stmt.Properties {
		propIndices[i] = ac.addName(prop.Lexeme)
	}
	ac.emitStruct(nameIdx, propIndices)
	return nil
}

func (ac *ASTCompiler) VisitImplStmt(stmt ast.ImplStmt) any {
	panic(SemanticError{Message: fmt.Sprintf("impl blocks on '%s' are not yet supported", stmt.Name.Lexeme)})
}

func (ac *ASTCompiler) VisitUseStmt(stmt ast.UseStmt) any {
	panic(SemanticError{Message: fmt.Sprintf("use '%s' is not yet supported", stmt.Path)})
}

func (ac *ASTCompiler) VisitYieldStmt(stmt ast.YieldStmt) any {
	panic(SemanticError{Message: "yield statements are not yet supported"})
}

// VisitAssertStmt compiles the value expression followed by OP_ASSERT,
// which raises a RuntimeError at the point of the failed assertion if
// the value is falsy.
func (ac *ASTCompiler) VisitAssertStmt(stmt ast.AssertStmt) any {
	stmt.Value.Accept(ac)
	ac.emit(OP_ASSERT)
	return nil
}
