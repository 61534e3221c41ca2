package abi

// C types of the runtime header.
const (
	TypeVal        = "js_val"
	TypeEnv        = "js_environ"
	TypeObj        = "js_obj"
	TypeArr        = "js_arr"
	TypeShapeCache = "js_shape_cache"
	TypeTry        = "js_try"
)

// Runtime constants and environment fields.
const (
	ValUndefined = "js_undefined"
	ValNull      = "js_null"
	ValFalse     = "js_false"
	ValTrue      = "js_true"
	ValDeleted   = "js_deleted"
	ValNaN       = "js_nan"
)

// Runtime entry points. Each comment gives the C signature less the
// leading js_environ *env argument where one is taken.
const (
	// values
	FnMakeNumber = "js_make_number" // js_val (double), no env
	FnMakeBool   = "js_make_bool"   // js_val (int), no env
	FnToNumber   = "js_tonumber"    // js_val (js_val)
	FnToInt32    = "js_toint32"     // int32_t (double), no env
	FnToUint32   = "js_touint32"    // uint32_t (double), no env
	FnIsTruthy   = "js_is_truthy"   // int (js_val)
	FnIsNullish  = "js_is_nullish"  // int (js_val), no env
	FnTypeof     = "js_typeof"      // js_val (js_val)
	FnTypeofIs   = "js_typeof_is"   // int (js_val, js_val type_name)
	FnToPropKey  = "js_topropkey"   // js_val (js_val)
	FnToString   = "js_tostring"    // js_val (js_val)
	FnToNumeric  = "js_tonumeric"   // js_val (js_val), number or bigint
	FnRequireObj = "js_requireobj"  // js_val (js_val), TypeError on null or undefined

	// operators
	FnAdd        = "js_add"         // js_val (js_val, js_val)
	FnBinop      = "js_binop"       // js_val (int op, js_val, js_val)
	FnUnop       = "js_unop"        // js_val (int op, js_val)
	FnStrictEq   = "js_strict_eq"   // int (js_val, js_val)
	FnLooseEq    = "js_loose_eq"    // int (js_val, js_val)
	FnCompare    = "js_compare"     // int (js_val, js_val, int op)
	FnInstanceof = "js_instanceof"  // int (js_val obj, js_val ctor)
	FnHasProp    = "js_hasprop"     // int (js_val obj, js_val key)
	FnConcat     = "js_concat"      // js_val (int count, ...)

	// properties
	FnGetProp      = "js_getprop"      // js_val (js_val obj, js_val key, js_shape_cache *)
	FnSetProp      = "js_setprop"      // js_val (js_val obj, js_val key, js_val value, js_shape_cache *)
	FnDelProp      = "js_delprop"      // int (js_val obj, js_val key, int strict)
	FnGetDescr     = "js_getdescr"     // js_val (js_val obj, js_val slot)
	FnGetIndex     = "js_getindex"     // js_val (js_val arr, js_val index)
	FnSetIndex     = "js_setindex"     // js_val (js_val arr, js_val index, js_val value)
	FnSetLength    = "js_setlength"    // js_val (js_val arr, js_val value)
	FnDefProp      = "js_defprop"      // void (js_val obj, js_val key, js_val value)
	FnDefAccessor  = "js_defaccessor"  // void (js_val obj, js_val key, js_val fn, int flags)
	FnDefMethod    = "js_defmethod"    // void (js_val obj, js_val key, js_val fn, int flags)
	FnSetProto     = "js_setproto"     // void (js_val obj, js_val proto)
	FnSpreadObj    = "js_spreadobj"    // void (js_val obj, js_val source)
	FnRestObj      = "js_restobj"      // js_val (js_val source, int count, ...)
	FnGetSuper     = "js_getsuper"     // js_val (js_val func_val, js_val key, js_val this_val)
	FnSetSuper     = "js_setsuper"     // js_val (js_val func_val, js_val key, js_val value, js_val this_val)
	FnGetGlobal    = "js_getglobal"    // js_val (js_val name, int throw_if_missing)
	FnSetGlobal    = "js_setglobal"    // js_val (js_val name, js_val value, int strict)
	FnDelGlobal    = "js_delglobal"    // int (js_val name)
	FnWithGet      = "js_withget"      // js_val (js_val name, js_val *fallback)
	FnWithSet      = "js_withset"      // js_val (js_val name, js_val *fallback, js_val value)
	FnWithTypeof   = "js_withtypeof"   // js_val (js_val name, js_val *fallback)
	FnWithDelete   = "js_withdel"      // js_val (js_val name, js_val *fallback)
	FnWithRef      = "js_withref"      // js_val (js_val name, js_val *fallback, js_val *this_out)
	FnPushWith     = "js_pushwith"     // void (js_val obj)
	FnPopWith      = "js_popwith"      // void ()
	FnGlobalObject = "js_globalobject" // js_val ()

	// objects and arrays
	FnNewObj    = "js_newobj"    // js_val (js_val shape, int count, ...)
	FnNewArr    = "js_newarr"    // js_val (int count, ...)
	FnArrSpread = "js_arrspread" // void (js_val arr, js_val iterable)
	FnArrPush   = "js_arrpush"   // void (js_val arr, js_val value)
	FnNewRegExp = "js_newregexp" // js_val (js_val pattern, js_val flags)
	FnTemplate  = "js_template"  // js_val (js_val *site, int count, ...)

	// functions and calls
	FnNewFunc      = "js_newfunc"      // js_val (func, name, flags, length, cache_count, new_shape, closure_count, ...)
	FnNewCell      = "js_newcell"      // js_val *(js_val)
	FnCallFunc     = "js_callfunc"     // js_val (js_val fn, js_val this, js_val *stk, uint32_t argc)
	FnCallValue    = "js_callvalue"    // js_val (js_val fn, js_val this, js_val *stk, uint32_t argc, js_val name)
	FnCallGlobal   = "js_callglobal"   // js_val (js_val name, js_val *stk, uint32_t argc)
	FnCallWith     = "js_callwith"     // js_val (js_val name, js_val *fallback, js_val *stk, uint32_t argc)
	FnApply        = "js_apply"        // js_val (js_val fn, js_val this, js_val args_array)
	FnConstruct    = "js_construct"    // js_val (js_val ctor, js_val *stk, uint32_t argc, js_val new_target)
	FnConstructArr = "js_construct_arr" // js_val (js_val ctor, js_val args_array, js_val new_target)
	FnSuperCtor    = "js_superctor"    // js_val (js_val func_val)
	FnIsFunc       = "js_is_func"      // int (js_val), no env
	FnFuncPtr      = "js_funcptr"      // js_c_func (js_val), no env
	FnClosures     = "js_closures"     // js_val ** (js_val func_val), no env
	FnShapeCache   = "js_shapecache"   // js_shape_cache * (js_val func_val), no env
	FnArguments    = "js_arguments"    // js_val (js_val func_val, js_val *args, uint32_t argc, int strict)
	FnCurArgs      = "js_curargs"      // void (js_val *args, uint32_t argc)
	FnRestArgs     = "js_restargs"     // js_val (js_val *args, uint32_t argc, uint32_t skip)
	FnBoxThis      = "js_boxthis"      // js_val (js_val this_val)
	FnStackCheck   = "js_stack_check"  // void (js_val *limit)
	FnCheckThis    = "js_checkthis"    // js_val (js_val this_val), throws before super()
	FnDerivedRet   = "js_derivedret"   // js_val (js_val retval, js_val this_val)
	FnMakeClass    = "js_makeclass"    // void (js_val ctor, js_val superclass)
	FnNewTarget    = "js_newtarget"    // js_val (), new.target of the running call
	FnTDZ          = "js_tdz"          // noreturn (js_val name), ReferenceError before initialization

	// iterators: three-slot protocol { next function, target, current value }
	FnGetIter   = "js_getiter"   // void (js_val iterable, js_val it[3])
	FnGetKeys   = "js_getkeys"   // void (js_val obj, js_val it[3])
	FnNextIter  = "js_nextiter"  // int (js_val it[3])
	FnRestIter  = "js_restiter"  // js_val (js_val it[3])
	FnCloseIter = "js_closeiter" // void (js_val it[3])

	// exceptions
	FnEnterTry = "js_entertry" // jmp_buf * (js_try *)
	FnLeaveTry = "js_leavetry" // void (js_try *)
	FnCatch    = "js_catch"    // js_val (js_try *), leaves the try
	FnThrow    = "js_throw"    // noreturn (js_val)
	FnThrowRef = "js_throwref" // noreturn (js_val name), ReferenceError
	FnThrowTyp = "js_throwtype" // noreturn (js_val message), TypeError

	// coroutines
	FnNewCoroutine = "js_newcoroutine" // js_val (js_val fn, int kind)
	FnYield        = "js_yield"        // js_val (js_val value)
	FnYieldStar    = "js_yieldstar"    // js_val (js_val iterable)
	FnAwait        = "js_await"        // js_val (js_val value)

	// program
	FnInit      = "js_init"      // js_environ *(int argc, char **argv)
	FnStackBase = "js_stackbase" // js_val *()
	FnShutdown  = "js_shutdown"  // int (js_environ *)
	FnNewStr    = "js_newstr"    // js_val (const char16_t *, uint32_t len, int intern)
	FnNewBigInt = "js_newbigint" // js_val (const char *decimal)
	FnNewShape  = "js_newshape"  // js_val (int count, ...)
)

// Operator codes passed to js_binop, js_unop and js_compare.
var BinopCodes = map[string]string{
	"-":   "JS_OP_SUB",
	"*":   "JS_OP_MUL",
	"/":   "JS_OP_DIV",
	"%":   "JS_OP_REM",
	"**":  "JS_OP_POW",
	"<<":  "JS_OP_SHL",
	">>":  "JS_OP_SAR",
	">>>": "JS_OP_SHR",
	"&":   "JS_OP_AND",
	"|":   "JS_OP_OR",
	"^":   "JS_OP_XOR",
}

var UnopCodes = map[string]string{
	"-":  "JS_OP_NEG",
	"~":  "JS_OP_NOT",
	"++": "JS_OP_INC",
	"--": "JS_OP_DEC",
}

// Flags of js_defmethod and js_defaccessor.
const (
	PropGetter = "JS_PROP_GETTER"
	PropSetter = "JS_PROP_SETTER"
	PropClass  = "JS_PROP_CLASS" // non-enumerable class member
)

var CompareCodes = map[string]string{
	"<":  "JS_CMP_LT",
	"<=": "JS_CMP_LE",
	">":  "JS_CMP_GT",
	">=": "JS_CMP_GE",
}
