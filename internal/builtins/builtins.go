package builtins

import (
	"github.com/indutny/wasm-cfg/internal/effects"
	"github.com/indutny/wasm-cfg/internal/types"
)

// Methods shared by several families
const (
	Const Method = "const"
	Bool  Method = "bool"
)

var (
	intBinary = []Method{
		"add", "sub", "mul", "div_s", "div_u", "rem_s", "rem_u",
		"and", "or", "xor", "shl", "shr_u", "shr_s",
	}
	intCompare = []Method{
		"eq", "ne", "lt_s", "le_s", "lt_u", "le_u", "gt_s", "ge_s", "gt_u", "ge_u",
	}
	intUnary = []Method{"clz", "ctz", "popcnt"}

	floatBinary  = []Method{"add", "sub", "mul", "div", "min", "max", "copysign"}
	floatCompare = []Method{"eq", "ne", "lt", "le", "gt", "ge"}
	floatUnary   = []Method{"abs", "neg", "ceil", "floor", "trunc", "nearest", "sqrt"}
)

type conversion struct {
	result types.Type
	method Method
	from   types.Type
}

// Conversions carry their source type in the method name so that every
// (family, method) pair stays unique.
var conversions = []conversion{
	{types.I32, "wrap", types.I64},
	{types.I32, "trunc_s", types.F32},
	{types.I32, "trunc_s", types.F64},
	{types.I32, "trunc_u", types.F32},
	{types.I32, "trunc_u", types.F64},
	{types.I32, "reinterpret", types.F32},
	{types.I64, "extend_s", types.I32},
	{types.I64, "extend_u", types.I32},
	{types.I64, "trunc_s", types.F32},
	{types.I64, "trunc_s", types.F64},
	{types.I64, "trunc_u", types.F32},
	{types.I64, "trunc_u", types.F64},
	{types.I64, "reinterpret", types.F64},
	{types.F32, "demote", types.F64},
	{types.F32, "convert_s", types.I32},
	{types.F32, "convert_s", types.I64},
	{types.F32, "convert_u", types.I32},
	{types.F32, "convert_u", types.I64},
	{types.F32, "reinterpret", types.I32},
	{types.F64, "promote", types.F32},
	{types.F64, "convert_s", types.I32},
	{types.F64, "convert_s", types.I64},
	{types.F64, "convert_u", types.I32},
	{types.F64, "convert_u", types.I64},
	{types.F64, "reinterpret", types.I64},
}

type memoryOp struct {
	family types.Type
	method Method
}

var (
	loads = []memoryOp{
		{types.I32, "load"}, {types.I32, "load8_s"}, {types.I32, "load8_u"},
		{types.I32, "load16_s"}, {types.I32, "load16_u"},
		{types.I64, "load"}, {types.I64, "load8_s"}, {types.I64, "load8_u"},
		{types.I64, "load16_s"}, {types.I64, "load16_u"},
		{types.I64, "load32_s"}, {types.I64, "load32_u"},
		{types.F32, "load"}, {types.F64, "load"},
	}
	stores = []memoryOp{
		{types.I32, "store"}, {types.I32, "store8"}, {types.I32, "store16"},
		{types.I64, "store"}, {types.I64, "store8"}, {types.I64, "store16"},
		{types.I64, "store32"},
		{types.F32, "store"}, {types.F64, "store"},
	}
)

// ConversionMethod builds the method name of a conversion from type from,
// e.g. ConversionMethod("wrap", types.I64) is "wrap/i64"
func ConversionMethod(method Method, from types.Type) Method {
	return method + "/" + Method(from.String())
}

func newDefaultRegistry() *Registry {
	r := NewRegistry()

	for _, t := range types.Integers() {
		registerFamily(r, t, intBinary, intCompare, intUnary)
	}
	for _, t := range types.Floats() {
		registerFamily(r, t, floatBinary, floatCompare, floatUnary)
	}

	for _, c := range conversions {
		r.mustRegister(Key{c.result, ConversionMethod(c.method, c.from)}, &Signature{
			Result: c.result,
			Params: []types.Type{c.from},
		})
	}

	// Address casts
	r.mustRegister(Key{types.Addr, "from_i32"}, unary(types.Addr, types.I32))
	r.mustRegister(Key{types.Addr, "from_i64"}, unary(types.Addr, types.I64))
	r.mustRegister(Key{types.I32, "from_addr"}, unary(types.I32, types.Addr))
	r.mustRegister(Key{types.I64, "from_addr"}, unary(types.I64, types.Addr))
	r.mustRegister(Key{types.Addr, Bool}, unary(types.Bool, types.Addr))

	// Memory
	for _, op := range loads {
		r.mustRegister(Key{op.family, op.method}, &Signature{
			Result:  op.family,
			Params:  []types.Type{types.Addr},
			Effects: effects.MemoryLoad,
			Control: true,
		})
	}
	for _, op := range stores {
		r.mustRegister(Key{op.family, op.method}, &Signature{
			Result:  types.Void,
			Params:  []types.Type{types.Addr, op.family},
			Effects: effects.MemoryStore,
			Control: true,
		})
	}
	r.mustRegister(Key{types.Addr, "page_size"}, &Signature{Result: types.Addr})
	r.mustRegister(Key{types.Addr, "resize_memory"}, &Signature{
		Result:  types.Addr,
		Params:  []types.Type{types.Addr},
		Effects: effects.MemoryResize,
		Control: true,
	})

	return r
}

func registerFamily(r *Registry, t types.Type, binary, compare, un []Method) {
	for _, m := range binary {
		r.mustRegister(Key{t, m}, &Signature{Result: t, Params: []types.Type{t, t}})
	}
	for _, m := range compare {
		r.mustRegister(Key{t, m}, &Signature{Result: types.Bool, Params: []types.Type{t, t}})
	}
	for _, m := range un {
		r.mustRegister(Key{t, m}, unary(t, t))
	}
	r.mustRegister(Key{t, Const}, &Signature{Result: t})
	r.mustRegister(Key{t, Bool}, unary(types.Bool, t))
}

func unary(result, param types.Type) *Signature {
	return &Signature{Result: result, Params: []types.Type{param}}
}
