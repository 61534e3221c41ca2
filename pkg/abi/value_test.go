package abi

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"
)

// operand generates the value kinds the fast paths must be tested on:
// ordinary numbers, NaN, both zeros, infinities, the specials and objects.
type operand struct{ V Value }

func (operand) Generate(r *rand.Rand, _ int) reflect.Value {
	var v Value
	switch r.Intn(12) {
	case 0:
		v = Number(math.NaN())
	case 1:
		v = Number(0)
	case 2:
		v = Number(math.Copysign(0, -1))
	case 3:
		v = Number(math.Inf(1))
	case 4:
		v = Number(math.Inf(-1))
	case 5:
		v = Undefined
	case 6:
		v = Null
	case 7:
		v = Bool(r.Intn(2) == 0)
	case 8:
		v = Object(uint32(r.Intn(4)))
	case 9:
		v = Number(float64(r.Intn(2000) - 1000))
	default:
		v = Number(r.NormFloat64() * 1e6)
	}
	return reflect.ValueOf(operand{v})
}

func sameNumber(a, b Value) bool {
	x, y := a.Float(), b.Float()
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.IsNaN(x) && math.IsNaN(y)
	}
	return x == y && math.Signbit(x) == math.Signbit(y)
}

var quickConfig = &quick.Config{MaxCount: 5000}

func TestArithFastPathMatchesRuntime(t *testing.T) {
	for _, op := range []string{"+", "-", "*", "/", "&", "|", "^", "<<", ">>", ">>>"} {
		op := op
		law := func(a, b operand) bool {
			fast, taken := FastArith(op, a.V, b.V)
			// exactly one path: the fast one iff both operands are numbers
			if taken != (a.V.IsNumber() && b.V.IsNumber()) {
				return false
			}
			if !taken {
				return true
			}
			return sameNumber(fast, SlowArith(op, a.V, b.V))
		}
		if err := quick.Check(law, quickConfig); err != nil {
			t.Errorf("operator %s: %v", op, err)
		}
	}
}

func TestCompareFastPathMatchesRuntime(t *testing.T) {
	for _, op := range []string{"<", "<=", ">", ">="} {
		op := op
		law := func(a, b operand) bool {
			fast, taken := FastCompare(op, a.V, b.V)
			if taken != (a.V.IsNumber() && b.V.IsNumber()) {
				return false
			}
			return !taken || fast == Compare(op, a.V, b.V)
		}
		if err := quick.Check(law, quickConfig); err != nil {
			t.Errorf("comparison %s: %v", op, err)
		}
	}
}

func TestStrictEqualsFastPath(t *testing.T) {
	law := func(a, b operand) bool {
		fast, taken := FastStrictEquals(a.V, b.V)
		return !taken || fast == StrictEquals(a.V, b.V)
	}
	if err := quick.Check(law, quickConfig); err != nil {
		t.Error(err)
	}

	specials := []Value{Undefined, Null, True, False}
	law2 := func(a operand) bool {
		for _, s := range specials {
			if SpecialEquals(a.V, s) != StrictEquals(a.V, s) {
				return false
			}
		}
		return true
	}
	if err := quick.Check(law2, quickConfig); err != nil {
		t.Error(err)
	}
}

func TestIncrementFastPath(t *testing.T) {
	law := func(a operand) bool {
		for _, d := range []float64{1, -1} {
			fast, taken := FastIncrement(a.V, d)
			if taken != a.V.IsNumber() {
				return false
			}
			if taken && !sameNumber(fast, Number(ToNumber(a.V)+d)) {
				return false
			}
		}
		return true
	}
	if err := quick.Check(law, quickConfig); err != nil {
		t.Error(err)
	}
}

func TestNumbersNeverCollideWithTags(t *testing.T) {
	law := func(bits uint64) bool {
		v := Number(math.Float64frombits(bits))
		return v.IsNumber()
	}
	if err := quick.Check(law, quickConfig); err != nil {
		t.Error(err)
	}
	// hardware default NaN has the sign bit set and must still be a number
	if v := Value(0xFFF8000000000000); !v.IsNumber() {
		t.Errorf("negative quiet NaN classified as tag %#x", v.Tag())
	}
	for _, v := range []Value{Undefined, Null, True, False, Deleted, Object(1)} {
		if v.IsNumber() {
			t.Errorf("%#x classified as number", uint64(v))
		}
	}
}

func TestLooseEqualsNullish(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{Null, Undefined, true},
		{Undefined, Undefined, true},
		{Null, Number(0), false},
		{Number(1), True, true},
		{Number(0), False, true},
		{Object(1), Object(1), true},
		{Object(1), Object(2), false},
		{Object(1), Number(0), false},
	}
	for _, tt := range tests {
		if got := LooseEquals(tt.a, tt.b); got != tt.want {
			t.Errorf("LooseEquals(%#x, %#x) = %v, want %v", uint64(tt.a), uint64(tt.b), got, tt.want)
		}
	}
}

func TestCConditions(t *testing.T) {
	if got, want := CIsNumber("x"), "((x).raw >> 48) <= 0xFFF8"; got != want {
		t.Errorf("CIsNumber = %q, want %q", got, want)
	}
	if got, want := CIsObject("x"), "((x).raw >> 48) == 0xFFFC"; got != want {
		t.Errorf("CIsObject = %q, want %q", got, want)
	}
	if got, want := CIsDeleted("v"), "(v).raw == 0xFFFA000000000000ULL"; got != want {
		t.Errorf("CIsDeleted = %q, want %q", got, want)
	}
}

func TestCoroutineKind(t *testing.T) {
	tests := []struct {
		async, gen bool
		want       int
	}{
		{false, false, 0},
		{true, false, CoroutineAsync},
		{false, true, CoroutineGenerator},
		{true, true, CoroutineAsyncGenerator},
	}
	for _, tt := range tests {
		if got := CoroutineKind(tt.async, tt.gen); got != tt.want {
			t.Errorf("CoroutineKind(%v, %v) = %d, want %d", tt.async, tt.gen, got, tt.want)
		}
	}
	if CoroutineGenerator != 2 {
		t.Errorf("generator kind must be 2")
	}
}
