package compiler

import (
	"fmt"

	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

// namedKey returns the literal key of a member with a static, non-index
// property name.
func namedKey(n *ast.Node) (string, bool) {
	name, ok := staticPropertyName(n)
	if !ok {
		return "", false
	}
	if _, isIndex := abi.ArrayIndex(name); isIndex {
		return "", false
	}
	return name, true
}

// propertyKey writes the key of a member expression.
func (w *funcWriter) propertyKey(n *ast.Node) cir.Expr {
	if !n.Computed {
		if n.Property.CName == "" {
			return w.lit(n.Property.Name, true)
		}
		return cir.K(n.Property.CName)
	}
	saved := w.chain
	w.chain = nil
	defer func() { w.chain = saved }()
	return w.expr(n.Property)
}

func objPtr(o cir.Expr) cir.Expr {
	return cir.R(abi.CPointer(cir.String(o), abi.TypeObj))
}

func arrPtr(o cir.Expr) cir.Expr {
	return cir.R(abi.CPointer(cir.String(o), abi.TypeArr))
}

func arrow(x cir.Expr, name string) cir.Expr {
	return &cir.Field{X: x, Name: name, Arrow: true}
}

// isArray tests that o is an array whose prototype chain still has no
// indexed properties.
func isArray(o cir.Expr, protoUnchanged bool) cir.Expr {
	test := cir.And(cir.IsObject(o), cir.Bin("==", arrow(objPtr(o), "shape_id"), cir.R("env->array_shape_id")))
	if protoUnchanged {
		test = cir.And(test, arrow(arrPtr(o), "proto_unchanged"))
	}
	return test
}

// arrayIndex tests that k is an integral number below the array's
// length and returns the index as uint32_t. The range is tested before
// the conversion, which is undefined for negative doubles.
func arrayIndex(o, k cir.Expr, limit string) (cir.Expr, cir.Expr) {
	kt, kn := numberParts(k)
	bound := &cir.Cast{Type: "double", X: arrow(arrPtr(o), limit)}
	idx := &cir.Cast{Type: "uint32_t", X: kn}
	test := cir.And(kt, cir.Bin(">=", kn, cir.K("0.0")))
	test = cir.And(test, cir.Bin("<", kn, bound))
	test = cir.And(test, cir.Bin("==", &cir.Cast{Type: "double", X: idx}, kn))
	return test, idx
}

// cacheEntry is the shape-cache slot of a member site.
func cacheEntry(n *ast.Node) string {
	return fmt.Sprintf("shape_cache[%d]", n.CacheSlot)
}

// member reads obj.name or obj[key].
func (w *funcWriter) member(n *ast.Node) cir.Expr {
	if isGlobalMember(n) {
		return cir.CE(abi.FnGetGlobal, cir.K(n.Property.CName), cir.K("1"))
	}
	if n.Object.Kind == ast.Super {
		return w.superGet(n)
	}
	base := w.expr(n.Object)
	_, named := namedKey(n)
	return w.link(n, base, !named, func(o cir.Expr) cir.Expr {
		return w.getFrom(n, o)
	})
}

// getFrom reads the property of member n from the object value o,
// which may be read more than once.
func (w *funcWriter) getFrom(n *ast.Node, o cir.Expr) cir.Expr {
	if name, ok := namedKey(n); ok {
		key := w.propertyKey(n)
		if name == "length" {
			fast := boxNumber(&cir.Cast{Type: "double", X: arrow(arrPtr(o), "length")})
			return cir.Ternary(&cir.Likely{X: isArray(o, false)}, fast, w.getCached(n, o, key))
		}
		return w.getCached(n, o, key)
	}
	keySet, k := w.reusable(w.propertyKey(n))
	return cir.Comma(keySet, w.getIndex(o, k))
}

// getCached reads a named property through the site's shape-cache slot.
// On a hit the value comes straight from the object's slot array, or
// from the descriptor when the slot holds one.
func (w *funcWriter) getCached(n *ast.Node, o, key cir.Expr) cir.Expr {
	if n.CacheSlot < 0 {
		return cir.CE(abi.FnGetProp, o, key, cir.K("NULL"))
	}
	entry := cacheEntry(n)
	obj := objPtr(o)
	hit := cir.And(cir.IsObject(o), &cir.Likely{X: cir.Bin("==", arrow(obj, "shape_id"), cir.R(entry+".shape_id"))})
	t := w.temp()
	slot := &cir.Index{X: arrow(obj, "values"), I: cir.R(entry + ".index")}
	flagged := cir.R("(" + abi.CIsFlagged(cir.String(cir.Set(t, slot))) + ")")
	value := cir.Ternary(&cir.Likely{X: flagged, Unlikely: true}, cir.CE(abi.FnGetDescr, o, t), t)
	return cir.Ternary(hit, value, cir.CE(abi.FnGetProp, o, key, cir.R("&"+entry)))
}

// getIndex reads o[k]. An array element within bounds that is not a
// hole is read from the backing store.
func (w *funcWriter) getIndex(o, k cir.Expr) cir.Expr {
	test, idx := arrayIndex(o, k, "length")
	t := w.temp()
	element := cir.Set(t, &cir.Index{X: arrow(arrPtr(o), "values"), I: idx})
	hit := cir.And(&cir.Likely{X: cir.And(isArray(o, true), test)},
		cir.Not(cir.R("("+abi.CIsDeleted(cir.String(element))+")")))
	return cir.Ternary(hit, t, cir.CE(abi.FnGetIndex, o, k))
}

// setCached writes a named property through the site's shape-cache
// slot. The direct store needs a matching shape, a plain data slot and
// a storable value. v must be reusable.
func (w *funcWriter) setCached(n *ast.Node, o, key, v cir.Expr) cir.Expr {
	name, _ := namedKey(n)
	if name == "length" {
		return w.setLength(o, v)
	}
	if n.CacheSlot < 0 {
		return cir.CE(abi.FnSetProp, o, key, v, cir.K("NULL"))
	}
	entry := cacheEntry(n)
	obj := objPtr(o)
	slot := &cir.Index{X: arrow(obj, "values"), I: cir.R(entry + ".index")}
	hit := cir.And(cir.IsObject(o), &cir.Likely{X: cir.Bin("==", arrow(obj, "shape_id"), cir.R(entry+".shape_id"))})
	hit = cir.And(hit, cir.Not(cir.R("("+abi.CIsFlagged(cir.String(slot))+")")))
	hit = cir.And(hit, cir.Not(cir.R("("+abi.CIsDeleted(cir.String(v))+")")))
	return cir.Ternary(hit, cir.Set(slot, v), cir.CE(abi.FnSetProp, o, key, v, cir.R("&"+entry)))
}

// setLength writes the length of an array in place when the new length
// is an integer between the current length and the capacity; slots past
// the length already hold holes.
func (w *funcWriter) setLength(o, v cir.Expr) cir.Expr {
	arr := arrPtr(o)
	vt, vn := numberParts(v)
	n32 := &cir.Cast{Type: "uint32_t", X: vn}
	test := cir.And(isArray(o, false), vt)
	test = cir.And(test, cir.Bin(">=", vn, &cir.Cast{Type: "double", X: arrow(arr, "length")}))
	test = cir.And(test, cir.Bin("<=", vn, &cir.Cast{Type: "double", X: arrow(arr, "capacity")}))
	test = cir.And(test, cir.Bin("==", &cir.Cast{Type: "double", X: n32}, vn))
	fast := cir.Comma(cir.Set(arrow(arr, "length"), n32), v)
	return cir.Ternary(&cir.Likely{X: test}, fast, cir.CE(abi.FnSetLength, o, v))
}

// setIndex writes o[k] = v, in place for an existing array element.
func (w *funcWriter) setIndex(o, k, v cir.Expr) cir.Expr {
	test, idx := arrayIndex(o, k, "length")
	hit := cir.And(isArray(o, true), test)
	hit = cir.And(hit, cir.Not(cir.R("("+abi.CIsDeleted(cir.String(v))+")")))
	store := cir.Set(&cir.Index{X: arrow(arrPtr(o), "values"), I: idx}, v)
	return cir.Ternary(&cir.Likely{X: hit}, store, cir.CE(abi.FnSetIndex, o, k, v))
}

// superGet reads super.name relative to the home object of the running
// method.
func (w *funcWriter) superGet(n *ast.Node) cir.Expr {
	home := w.load(n.Object.Decl)
	key := w.propertyKey(n)
	this := w.load(w.fn.NonArrow().This)
	pre, v := w.ordered(key, this)
	return cir.Comma(append(pre, cir.CE(abi.FnGetSuper, home, v[0], v[1]))...)
}

// optionalChain writes a chain containing `?.` links. The flag records
// that a link found a nullish base; every later link then yields
// undefined without evaluating anything.
func (w *funcWriter) optionalChain(n *ast.Node) cir.Expr {
	flag := w.tempOf("int", "opt")
	saved := w.chain
	w.chain = flag
	v := w.expr(n.Expression)
	w.chain = saved
	return cir.Comma(cir.Set(flag, cir.K("0")), v)
}

// link applies access to the base value of a member or call. Inside an
// optional chain the access is skipped once the chain short-circuited,
// and an optional link short-circuits on a nullish base. A pinned base
// is copied even when it is a variable, because access evaluates more
// script code before using it.
func (w *funcWriter) link(n *ast.Node, base cir.Expr, pin bool, access func(o cir.Expr) cir.Expr) cir.Expr {
	set, o := w.reusable(base)
	if pin && set == nil && !cir.IsConst(o) {
		t := w.temp()
		set, o = cir.Set(t, o), t
	}
	if w.chain == nil {
		return cir.Comma(set, access(o))
	}
	flag := w.chain
	w.chain = nil
	out := access(o)
	w.chain = flag
	out = guard(n, flag, o, out)
	return cir.Comma(set, cir.Ternary(flag, cir.Undefined, out))
}

// guard short-circuits the chain when n is an optional link and v, the
// value it applies to, is nullish.
func guard(n *ast.Node, flag *cir.Raw, v, out cir.Expr) cir.Expr {
	if !n.Optional || flag == nil {
		return out
	}
	return cir.Ternary(&cir.Likely{X: cir.C(abi.FnIsNullish, v), Unlikely: true},
		cir.Comma(cir.Set(flag, cir.K("1")), cir.Undefined), out)
}
