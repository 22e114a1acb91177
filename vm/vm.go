package vm

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"venom/compiler"
)

// VM is the stack-based virtual machine: the runtime environment where
// compiled bytecode executes. It owns the value stack, the frame-pointer
// stack for active calls, the globals table and the struct blueprint
// table.
type VM struct {
	stack   Stack
	fpstack FPStack
	ip      int

	globals    map[string]Object
	blueprints map[string]*Blueprint

	Debug bool
	Out   *os.File
}

// New creates a fresh VM with empty globals and blueprint tables.
func New() *VM {
	return &VM{
		globals:    make(map[string]Object),
		blueprints: make(map[string]*Blueprint),
		Out:        os.Stdout,
	}
}

// Run executes bytecode to completion, fetching and decoding one
// instruction at a time starting from ip 0. Execution stops cleanly when
// ip reaches the end of the instruction stream or an OP_END is reached;
// any failure detected along the way (undefined global, argcount
// mismatch, stack-discipline violation, ...) is returned as a
// RuntimeError and halts execution immediately, matching spec.md section
// 7: there is no exception/unwind mechanism beyond returning the error.
func (vm *VM) Run(bytecode compiler.Bytecode) error {
	vm.ip = 0
	code := bytecode.Instructions

	for vm.ip < len(code) {
		start := time.Now()
		op := compiler.Opcode(code[vm.ip])
		jumped := false

		if vm.Debug {
			line, err := compiler.DisassembleInstruction(code, vm.ip)
			if err == nil {
				logrus.WithField("ip", vm.ip).Debug(line)
			}
		}

		switch op {
		case compiler.OP_END:
			return nil

		case compiler.OP_CONST:
			idx := compiler.ReadOperand(code, vm.ip, 0)
			if err := vm.stack.Push(NewNumber(bytecode.Numbers[idx])); err != nil {
				return err
			}

		case compiler.OP_STR:
			idx := compiler.ReadOperand(code, vm.ip, 0)
			if err := vm.stack.Push(NewString(bytecode.Strings[idx])); err != nil {
				return err
			}

		case compiler.OP_TRUE:
			if err := vm.stack.Push(NewBool(true)); err != nil {
				return err
			}

		case compiler.OP_NULL:
			if err := vm.stack.Push(NewNull()); err != nil {
				return err
			}

		case compiler.OP_POP:
			v, err := vm.stack.Pop()
			if err != nil {
				return err
			}
			Decref(v)

		case compiler.OP_ADD, compiler.OP_SUB, compiler.OP_MUL, compiler.OP_DIV, compiler.OP_MOD:
			if err := vm.execArith(op); err != nil {
				return err
			}

		case compiler.OP_GT, compiler.OP_LT:
			if err := vm.execCompare(op); err != nil {
				return err
			}

		case compiler.OP_EQ:
			b, err := vm.stack.Pop()
			if err != nil {
				return err
			}
			a, err := vm.stack.Pop()
			if err != nil {
				return err
			}
			result := Equal(a, b)
			Decref(a)
			Decref(b)
			if err := vm.stack.Push(NewBool(result)); err != nil {
				return err
			}

		case compiler.OP_NEG:
			v, err := vm.stack.Pop()
			if err != nil {
				return err
			}
			if v.Type != ObjNumber {
				return RuntimeError{Message: "operand to unary '-' must be a number"}
			}
			if err := vm.stack.Push(NewNumber(-v.Number)); err != nil {
				return err
			}

		case compiler.OP_NOT:
			v, err := vm.stack.Pop()
			if err != nil {
				return err
			}
			result := !Truthy(v)
			Decref(v)
			if err := vm.stack.Push(NewBool(result)); err != nil {
				return err
			}

		case compiler.OP_GET_GLOBAL:
			idx := compiler.ReadOperand(code, vm.ip, 0)
			name := bytecode.Strings[idx]
			val, ok := vm.globals[name]
			if !ok {
				return RuntimeError{Message: fmt.Sprintf("undefined global '%s'", name)}
			}
			Incref(val)
			if err := vm.stack.Push(val); err != nil {
				return err
			}

		case compiler.OP_SET_GLOBAL:
			idx := compiler.ReadOperand(code, vm.ip, 0)
			name := bytecode.Strings[idx]
			v, err := vm.stack.Pop()
			if err != nil {
				return err
			}
			if old, ok := vm.globals[name]; ok {
				Decref(old)
			}
			vm.globals[name] = v

		case compiler.OP_DEEPGET:
			idx := int(compiler.ReadOperand(code, vm.ip, 0))
			slot := vm.fpstack.Current() + idx
			v, err := vm.stack.At(slot)
			if err != nil {
				return err
			}
			Incref(v)
			if err := vm.stack.Push(v); err != nil {
				return err
			}

		case compiler.OP_DEEPSET:
			idx := int(compiler.ReadOperand(code, vm.ip, 0))
			slot := vm.fpstack.Current() + idx
			v, err := vm.stack.Pop()
			if err != nil {
				return err
			}
			old, err := vm.stack.At(slot)
			if err != nil {
				return err
			}
			Decref(old)
			if err := vm.stack.Set(slot, v); err != nil {
				return err
			}

		case compiler.OP_GETATTR:
			idx := compiler.ReadOperand(code, vm.ip, 0)
			name := bytecode.Strings[idx]
			obj, err := vm.stack.Pop()
			if err != nil {
				return err
			}
			if obj.Type != ObjStruct {
				return RuntimeError{Message: "only struct instances have properties"}
			}
			val, ok := obj.Struct.Props[name]
			if !ok {
				return RuntimeError{Message: fmt.Sprintf("unknown property '%s' on struct '%s'", name, obj.Struct.Name)}
			}
			Incref(val)
			Decref(obj)
			if err := vm.stack.Push(val); err != nil {
				return err
			}

		case compiler.OP_SETATTR:
			idx := compiler.ReadOperand(code, vm.ip, 0)
			name := bytecode.Strings[idx]
			v, err := vm.stack.Pop()
			if err != nil {
				return err
			}
			obj, err := vm.stack.Pop()
			if err != nil {
				return err
			}
			if obj.Type != ObjStruct {
				return RuntimeError{Message: "only struct instances have properties"}
			}
			if old, ok := obj.Struct.Props[name]; ok {
				Decref(old)
			}
			obj.Struct.Props[name] = v
			Decref(obj)

		case compiler.OP_JZ:
			target := int(compiler.ReadOperand(code, vm.ip, 0))
			cond, err := vm.stack.Pop()
			if err != nil {
				return err
			}
			falsy := !Truthy(cond)
			Decref(cond)
			if falsy {
				vm.ip = target
				jumped = true
			}

		case compiler.OP_JMP:
			target := int(compiler.ReadOperand(code, vm.ip, 0))
			vm.ip = target
			jumped = true

		case compiler.OP_STRUCT:
			nameIdx := compiler.ReadOperand(code, vm.ip, 0)
			propcount := int(compiler.ReadOperand(code, vm.ip, 1))
			props := make([]string, propcount)
			for i := 0; i < propcount; i++ {
				propIdx := compiler.ReadOperand(code, vm.ip, 2+i)
				props[i] = bytecode.Strings[propIdx]
			}
			name := bytecode.Strings[nameIdx]
			vm.blueprints[name] = &Blueprint{Name: name, Properties: props}

		case compiler.OP_STRUCT_INIT:
			nameIdx := compiler.ReadOperand(code, vm.ip, 0)
			propcount := int(compiler.ReadOperand(code, vm.ip, 1))
			name := bytecode.Strings[nameIdx]
			bp, ok := vm.blueprints[name]
			if !ok {
				return RuntimeError{Message: fmt.Sprintf("undefined struct '%s'", name)}
			}
			if len(bp.Properties) != propcount {
				return RuntimeError{Message: fmt.Sprintf("struct '%s' expects %d properties, got %d", name, len(bp.Properties), propcount)}
			}
			if err := vm.stack.Push(NewStruct(name)); err != nil {
				return err
			}

		case compiler.OP_PROP:
			idx := compiler.ReadOperand(code, vm.ip, 0)
			name := bytecode.Strings[idx]
			v, err := vm.stack.Pop()
			if err != nil {
				return err
			}
			obj, err := vm.stack.Peek()
			if err != nil {
				return err
			}
			obj.Struct.Props[name] = v

		case compiler.OP_STRUCT_INIT_FINALIZE:
			// The struct instance is already in place on top of the stack
			// (STRUCT_INIT pushed it, OP_PROP calls filled it in place);
			// nothing further to do but leave it there as the expression
			// result.

		case compiler.OP_INC_FPCOUNT:
			// Reserved for a future locals-counting optimization; the
			// compiler never emits it yet.

		case compiler.OP_FUNC:
			nameIdx := compiler.ReadOperand(code, vm.ip, 0)
			paramcount := int(compiler.ReadOperand(code, vm.ip, 1))
			location := int(compiler.ReadOperand(code, vm.ip, 2))
			name := bytecode.Strings[nameIdx]
			vm.globals[name] = NewFunction(&FunctionObj{Name: name, ParamCount: paramcount, Location: location})

		case compiler.OP_INVOKE:
			nameIdx := compiler.ReadOperand(code, vm.ip, 0)
			argcount := int(compiler.ReadOperand(code, vm.ip, 1))
			name := bytecode.Strings[nameIdx]

			callee, ok := vm.globals[name]
			if !ok {
				return RuntimeError{Message: fmt.Sprintf("undefined function '%s'", name)}
			}
			if callee.Type != ObjFunction {
				return RuntimeError{Message: fmt.Sprintf("'%s' is not a function", name)}
			}
			if callee.Func.ParamCount != argcount {
				return RuntimeError{Message: fmt.Sprintf("function '%s' expects %d arguments, got %d", name, callee.Func.ParamCount, argcount)}
			}

			args := make([]Object, argcount)
			for i := argcount - 1; i >= 0; i-- {
				a, err := vm.stack.Pop()
				if err != nil {
					return err
				}
				args[i] = a
			}

			returnIP := vm.ip + compiler.InstructionWidth(code, vm.ip)
			if err := vm.stack.Push(NewPointer(returnIP)); err != nil {
				return err
			}
			if err := vm.fpstack.Push(vm.stack.Len()); err != nil {
				return err
			}
			for _, a := range args {
				if err := vm.stack.Push(a); err != nil {
					return err
				}
			}

			vm.ip = callee.Func.Location
			jumped = true

		case compiler.OP_RET:
			retVal, err := vm.stack.Pop()
			if err != nil {
				return err
			}
			fp, err := vm.fpstack.Pop()
			if err != nil {
				return err
			}
			vm.stack.Truncate(fp)
			retAddr, err := vm.stack.Pop()
			if err != nil {
				return err
			}
			if err := vm.stack.Push(retVal); err != nil {
				return err
			}
			vm.ip = retAddr.Pointer
			jumped = true

		case compiler.OP_PRINT:
			v, err := vm.stack.Pop()
			if err != nil {
				return err
			}
			fmt.Fprintln(vm.Out, v.String())
			Decref(v)

		case compiler.OP_ASSERT:
			v, err := vm.stack.Pop()
			if err != nil {
				return err
			}
			ok := Truthy(v)
			Decref(v)
			if !ok {
				return RuntimeError{Message: "assertion failed"}
			}

		default:
			return RuntimeError{Message: fmt.Sprintf("unknown opcode %d at ip %d", op, vm.ip)}
		}

		if vm.Debug {
			logrus.WithField("elapsed", time.Since(start)).Trace("instruction executed")
		}

		if !jumped {
			vm.ip += compiler.InstructionWidth(code, vm.ip)
		}
	}

	return nil
}

func (vm *VM) execArith(op compiler.Opcode) error {
	b, err := vm.stack.Pop()
	if err != nil {
		return err
	}
	a, err := vm.stack.Pop()
	if err != nil {
		return err
	}

	if op == compiler.OP_ADD && a.Type == ObjString && b.Type == ObjString {
		result := a.Str.Value + b.Str.Value
		Decref(a)
		Decref(b)
		return vm.stack.Push(NewString(result))
	}

	if a.Type != ObjNumber || b.Type != ObjNumber {
		return RuntimeError{Message: "operands must be numbers"}
	}

	var result float64
	switch op {
	case compiler.OP_ADD:
		result = a.Number + b.Number
	case compiler.OP_SUB:
		result = a.Number - b.Number
	case compiler.OP_MUL:
		result = a.Number * b.Number
	case compiler.OP_DIV:
		// No early divide-by-zero rejection: IEEE 754 float division
		// produces +-Inf/NaN here, matching the optimizer's folding of
		// a/0 at compile time (see optimizer.foldNumeric).
		result = a.Number / b.Number
	case compiler.OP_MOD:
		result = math.Mod(a.Number, b.Number)
	}
	return vm.stack.Push(NewNumber(result))
}

func (vm *VM) execCompare(op compiler.Opcode) error {
	b, err := vm.stack.Pop()
	if err != nil {
		return err
	}
	a, err := vm.stack.Pop()
	if err != nil {
		return err
	}
	if a.Type != ObjNumber || b.Type != ObjNumber {
		return RuntimeError{Message: "operands must be numbers"}
	}
	var result bool
	if op == compiler.OP_GT {
		result = a.Number > b.Number
	} else {
		result = a.Number < b.Number
	}
	return vm.stack.Push(NewBool(result))
}
