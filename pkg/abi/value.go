package abi

import "math"

// Value models a js_val as the runtime stores it. It exists so the
// conditions the code generator emits for its fast paths can be checked
// against reference semantics in Go.
type Value uint64

var (
	Undefined = Value(RawUndefined)
	Null      = Value(RawNull)
	False     = Value(RawFalse)
	True      = Value(RawTrue)
	Deleted   = Value(RawDeleted)
)

// Number boxes f, canonicalizing NaN.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value(RawNaN)
	}
	return Value(math.Float64bits(f))
}

// Bool boxes b.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Object boxes an object reference. The model identifies objects by id.
func Object(id uint32) Value {
	return Value(uint64(TagObject)<<TagShift | uint64(id))
}

func (v Value) Tag() uint16     { return uint16(uint64(v) >> TagShift) }
func (v Value) IsNumber() bool  { return v.Tag() <= MaxNumberTag }
func (v Value) IsObject() bool  { return v.Tag() == TagObject }
func (v Value) IsFlagged() bool { return v.Tag() == TagFlagged }
func (v Value) Float() float64  { return math.Float64frombits(uint64(v)) }

// IsNullish reports whether v is null or undefined.
func (v Value) IsNullish() bool { return v == Undefined || v == Null }

// ToNumber is the language conversion for the values the model carries.
// An object without a custom valueOf converts through its string form,
// which is never numeric.
func ToNumber(v Value) float64 {
	switch {
	case v.IsNumber():
		return v.Float()
	case v == True:
		return 1
	case v == False, v == Null:
		return 0
	}
	return math.NaN()
}

// ToBoolean is the language truthiness test.
func ToBoolean(v Value) bool {
	switch {
	case v.IsNumber():
		f := v.Float()
		return f != 0 && !math.IsNaN(f)
	case v == True:
		return true
	case v == False, v == Null, v == Undefined:
		return false
	}
	return v.IsObject()
}

// StrictEquals is the reference === for the model's values.
func StrictEquals(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return a.Float() == b.Float()
	}
	return a == b
}

// LooseEquals is the reference == for the model's values.
func LooseEquals(a, b Value) bool {
	switch {
	case a.IsNullish() || b.IsNullish():
		return a.IsNullish() && b.IsNullish()
	case a.IsObject() && b.IsObject():
		return a == b
	case a.IsObject() || b.IsObject():
		// the object's primitive is a non-numeric string
		return false
	}
	return ToNumber(a) == ToNumber(b)
}

// Compare is the reference relational comparison. NaN compares false.
func Compare(op string, a, b Value) bool {
	x, y := ToNumber(a), ToNumber(b)
	switch op {
	case "<":
		return x < y
	case "<=":
		return x <= y
	case ">":
		return x > y
	case ">=":
		return x >= y
	}
	panic("abi: unknown comparison " + op)
}

// Arith is the reference arithmetic on numbers.
func Arith(op string, x, y float64) float64 {
	switch op {
	case "+":
		return x + y
	case "-":
		return x - y
	case "*":
		return x * y
	case "/":
		return x / y
	case "%":
		if math.IsInf(y, 0) && !math.IsInf(x, 0) {
			return x
		}
		return math.Mod(x, y)
	case "**":
		if math.IsNaN(y) || (math.Abs(x) == 1 && math.IsInf(y, 0)) {
			return math.NaN()
		}
		return math.Pow(x, y)
	case "&":
		return float64(ToInt32(x) & ToInt32(y))
	case "|":
		return float64(ToInt32(x) | ToInt32(y))
	case "^":
		return float64(ToInt32(x) ^ ToInt32(y))
	case "<<":
		return float64(int32(uint32(ToInt32(x)) << (ToUint32(y) & 31)))
	case ">>":
		return float64(ToInt32(x) >> (ToUint32(y) & 31))
	case ">>>":
		return float64(ToUint32(x) >> (ToUint32(y) & 31))
	}
	panic("abi: unknown operator " + op)
}

// SlowArith is what the runtime's operator dispatch computes for values
// that are not both numbers (strings excluded from the model).
func SlowArith(op string, a, b Value) Value {
	return Number(Arith(op, ToNumber(a), ToNumber(b)))
}

// ToInt32 is the language ToInt32.
func ToInt32(f float64) int32 {
	return int32(ToUint32(f))
}

// ToUint32 is the language ToUint32.
func ToUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	f = math.Mod(f, 4294967296)
	if f < 0 {
		f += 4294967296
	}
	return uint32(f)
}

// --- fast paths, as emitted ---

// FastArith mirrors the inline arithmetic path: both operands already
// hold doubles. The second result is false when the runtime call is taken.
func FastArith(op string, a, b Value) (Value, bool) {
	if !(a.IsNumber() && b.IsNumber()) {
		return 0, false
	}
	return Number(Arith(op, a.Float(), b.Float())), true
}

// FastCompare mirrors the inline relational path: a C double comparison,
// which is false for NaN operands as the language requires.
func FastCompare(op string, a, b Value) (result, taken bool) {
	if !(a.IsNumber() && b.IsNumber()) {
		return false, false
	}
	x, y := a.Float(), b.Float()
	switch op {
	case "<":
		return x < y, true
	case "<=":
		return x <= y, true
	case ">":
		return x > y, true
	case ">=":
		return x >= y, true
	}
	return false, false
}

// FastStrictEquals mirrors the inline === path: two doubles compare as
// C doubles.
func FastStrictEquals(a, b Value) (result, taken bool) {
	if a.IsNumber() && b.IsNumber() {
		return a.Float() == b.Float(), true
	}
	return false, false
}

// SpecialEquals mirrors === against a literal undefined, null, true or
// false, which is emitted as a raw bit comparison with no runtime call.
func SpecialEquals(v, special Value) bool {
	return v == special
}

// FastIncrement mirrors the ++/-- path of the update writer.
func FastIncrement(v Value, delta float64) (Value, bool) {
	if !v.IsNumber() {
		return 0, false
	}
	return Number(v.Float() + delta), true
}
