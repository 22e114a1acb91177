package vm

import "fmt"

// ObjType tags the variant held by an Object. It mirrors the teacher's
// tagged-union Object from object.h, generalized to a Go sum type
// switched on this discriminant rather than a C union.
type ObjType byte

const (
	ObjNumber ObjType = iota
	ObjBool
	ObjNull
	ObjString
	ObjStruct
	ObjPointer
	// ObjFunction is not one of the spec's Object variants; it is the
	// value a globals-table entry holds after OP_FUNC runs, so that
	// OP_INVOKE can look up a callee's paramcount/location by name the
	// same way it looks up any other global.
	ObjFunction
)

// StringObj is the refcounted heap allocation backing a string value.
type StringObj struct {
	refcount int
	Value    string
}

// StructObj is the refcounted heap allocation backing a struct
// instance: its blueprint name plus a property table. Property
// insertion order does not matter since the blueprint already fixes
// the declared property set; GETATTR/SETATTR look values up by name.
type StructObj struct {
	refcount int
	Name     string
	Props    map[string]Object
}

// Blueprint is a struct declaration: its name and the ordered property
// names it was declared with. Distinct from a StructObj instance.
type Blueprint struct {
	Name       string
	Properties []string
}

// FunctionObj records a compiled function's calling-convention metadata:
// how many arguments it expects and where its body starts in the code
// stream. Stored as a globals-table Object, never refcounted (a
// function exists for the lifetime of the VM once defined).
type FunctionObj struct {
	Name       string
	ParamCount int
	Location   int
}

// Object is the runtime value representation: a tagged union over
// number, bool, null, string, struct, pointer (return address) and
// function. Only String and Struct are heap-allocated and refcounted;
// the rest are small value types copied by assignment.
type Object struct {
	Type    ObjType
	Number  float64
	Bool    bool
	Str     *StringObj
	Struct  *StructObj
	Pointer int
	Func    *FunctionObj
}

func NewNumber(n float64) Object  { return Object{Type: ObjNumber, Number: n} }
func NewBool(b bool) Object       { return Object{Type: ObjBool, Bool: b} }
func NewNull() Object             { return Object{Type: ObjNull} }
func NewPointer(addr int) Object  { return Object{Type: ObjPointer, Pointer: addr} }
func NewFunction(f *FunctionObj) Object {
	return Object{Type: ObjFunction, Func: f}
}

// NewString allocates a fresh refcounted string with an initial
// refcount of 1, representing the single reference the caller (usually
// a push onto the value stack) is about to hold.
func NewString(s string) Object {
	return Object{Type: ObjString, Str: &StringObj{refcount: 1, Value: s}}
}

// NewStruct allocates an empty refcounted struct instance (refcount 1)
// for the given blueprint name. The OP_PROP instructions after it populate Props
// afterwards.
func NewStruct(name string) Object {
	return Object{Type: ObjStruct, Struct: &StructObj{refcount: 1, Name: name, Props: make(map[string]Object)}}
}

// IsRefCounted reports whether o's variant carries a refcount header,
// i.e. whether objincref/objdecref have any effect on it.
func (o Object) IsRefCounted() bool {
	return o.Type == ObjString || o.Type == ObjStruct
}

// Refcount returns the live reference count of a refcounted object, or
// 0 for value types. Exposed for the refcount-conservation property
// tests described in spec.md section 8.
func (o Object) Refcount() int {
	switch o.Type {
	case ObjString:
		return o.Str.refcount
	case ObjStruct:
		return o.Struct.refcount
	default:
		return 0
	}
}

// Incref increments o's refcount. A no-op for non-refcounted variants,
// mirroring objincref in object.h.
func Incref(o Object) {
	switch o.Type {
	case ObjString:
		o.Str.refcount++
	case ObjStruct:
		o.Struct.refcount++
	}
}

// Decref decrements o's refcount. On reaching zero it recursively
// decrefs every property of a struct (the source of the "cycles leak"
// design note: a struct field pointing back to an ancestor struct keeps
// both refcounts above zero forever). A no-op for non-refcounted
// variants.
func Decref(o Object) {
	switch o.Type {
	case ObjString:
		o.Str.refcount--
	case ObjStruct:
		o.Struct.refcount--
		if o.Struct.refcount <= 0 {
			for _, prop := range o.Struct.Props {
				Decref(prop)
			}
		}
	}
}

// Truthy implements the language's truthiness rule: null and boolean
// false are falsy, every other value (including the number 0) is
// truthy.
func Truthy(o Object) bool {
	switch o.Type {
	case ObjNull:
		return false
	case ObjBool:
		return o.Bool
	default:
		return true
	}
}

// Equal implements OP_EQ's cross-type structural equality: values of
// different variants are never equal, matching the reference VM's
// value-equality check in vm.c.
func Equal(a, b Object) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case ObjNumber:
		return a.Number == b.Number
	case ObjBool:
		return a.Bool == b.Bool
	case ObjNull:
		return true
	case ObjString:
		return a.Str.Value == b.Str.Value
	case ObjStruct:
		return a.Struct == b.Struct
	case ObjPointer:
		return a.Pointer == b.Pointer
	default:
		return false
	}
}

// String renders o for OP_PRINT and for disassembly/debugging.
func (o Object) String() string {
	switch o.Type {
	case ObjNumber:
		return formatNumber(o.Number)
	case ObjBool:
		if o.Bool {
			return "true"
		}
		return "false"
	case ObjNull:
		return "null"
	case ObjString:
		return o.Str.Value
	case ObjStruct:
		return fmt.Sprintf("%s{...}", o.Struct.Name)
	case ObjPointer:
		return fmt.Sprintf("<ptr %d>", o.Pointer)
	case ObjFunction:
		return fmt.Sprintf("<fn %s>", o.Func.Name)
	default:
		return "<unknown>"
	}
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%g", n)
}
