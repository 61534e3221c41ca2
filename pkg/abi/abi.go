// Package abi fixes the contract between generated C and the native
// runtime: the tagged-value bit layout, the fixed-width limits of the
// runtime's encodings, function-object flags, coroutine kinds and the
// names of the runtime entry points the code generator calls.
//
// The fast paths emitted by the compiler test raw bits directly, so every
// constant here must match the runtime header bit for bit.
package abi

import "fmt"

// A js_val is a 64-bit union { double number; uint64_t raw; }. The upper
// 16 bits of raw select the kind of value.
const (
	TagShift = 48

	// MaxNumberTag is the largest tag of a value that is a double. The
	// runtime canonicalizes NaN so no NaN payload reaches the tags above.
	MaxNumberTag = 0xFFF8

	TagSpecial = 0xFFF9 // undefined, null, false, true
	TagDeleted = 0xFFFA // deleted-property sentinel, never user visible
	TagString  = 0xFFFB
	TagObject  = 0xFFFC
	TagBigInt  = 0xFFFD
	TagSymbol  = 0xFFFE
	TagFlagged = 0xFFFF // property slot holding a descriptor pointer

	PayloadMask = (uint64(1) << TagShift) - 1
)

// Raw bit patterns of the primitive specials.
const (
	RawUndefined uint64 = uint64(TagSpecial)<<TagShift | 0
	RawNull      uint64 = uint64(TagSpecial)<<TagShift | 1
	RawFalse     uint64 = uint64(TagSpecial)<<TagShift | 2
	RawTrue      uint64 = uint64(TagSpecial)<<TagShift | 3
	RawDeleted   uint64 = uint64(TagDeleted) << TagShift

	// RawNaN is the canonical NaN.
	RawNaN uint64 = 0x7FF8000000000000
)

// Fixed-width fields of the runtime's function object.
const (
	MaxParams          = 255
	MaxClosures        = 65535
	MaxShapeCacheSlots = 65535
)

// Coroutine kinds passed to the coroutine constructor.
const (
	CoroutineAsync          = 1
	CoroutineGenerator      = 2
	CoroutineAsyncGenerator = CoroutineAsync | CoroutineGenerator
)

// CoroutineKind returns the kind for a function, or 0 if the function is
// an ordinary one.
func CoroutineKind(async, generator bool) int {
	kind := 0
	if async {
		kind |= CoroutineAsync
	}
	if generator {
		kind |= CoroutineGenerator
	}
	return kind
}

// Function object flags, the fourth argument of the function constructor.
const (
	FuncStrict         = 0x01
	FuncArrow          = 0x02
	FuncNotConstructor = 0x04
	FuncClassCtor      = 0x08
	FuncDerived        = 0x10
	FuncMethod         = 0x20
)

// FuncFlagsString renders a flag set as a C expression.
func FuncFlagsString(flags int) string {
	if flags == 0 {
		return "0"
	}
	names := []struct {
		bit  int
		name string
	}{
		{FuncStrict, "JS_FUNC_STRICT"},
		{FuncArrow, "JS_FUNC_ARROW"},
		{FuncNotConstructor, "JS_FUNC_NOT_CTOR"},
		{FuncClassCtor, "JS_FUNC_CLASS_CTOR"},
		{FuncDerived, "JS_FUNC_DERIVED"},
		{FuncMethod, "JS_FUNC_METHOD"},
	}
	out := ""
	for _, n := range names {
		if flags&n.bit != 0 {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	if rest := flags &^ 0x3F; rest != 0 {
		out += fmt.Sprintf("|0x%X", rest)
	}
	return out
}

// C spellings of the tagged-value tests the fast paths are built from.
// Each takes the C text of a js_val lvalue or parenthesized expression.

// CIsNumber is true when v holds a double.
func CIsNumber(v string) string {
	return fmt.Sprintf("((%s).raw >> %d) <= 0x%X", v, TagShift, MaxNumberTag)
}

// CHasTag is true when v carries the given tag.
func CHasTag(v string, tag int) string {
	return fmt.Sprintf("((%s).raw >> %d) == 0x%X", v, TagShift, tag)
}

// CIsObject is true when v points to an object.
func CIsObject(v string) string {
	return CHasTag(v, TagObject)
}

// CIsFlagged is true when a property slot holds a descriptor pointer.
func CIsFlagged(v string) string {
	return CHasTag(v, TagFlagged)
}

// CIsDeleted is true when v is the deleted sentinel.
func CIsDeleted(v string) string {
	return fmt.Sprintf("(%s).raw == 0x%016XULL", v, RawDeleted)
}

// CPointer extracts the pointer payload of v, cast to type typ.
func CPointer(v, typ string) string {
	return fmt.Sprintf("((%s *)(uintptr_t)((%s).raw & 0x%XULL))", typ, v, PayloadMask)
}
