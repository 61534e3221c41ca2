package abi

// WellKnownStrings are property names and values the runtime keeps
// materialized in the environment. A literal with one of these values is
// not re-created by the literal initializer; it refers to env->str_<name>.
var WellKnownStrings = map[string]string{
	"":            "env->str_empty",
	"length":      "env->str_length",
	"prototype":   "env->str_prototype",
	"constructor": "env->str_constructor",
	"name":        "env->str_name",
	"value":       "env->str_value",
	"done":        "env->str_done",
	"next":        "env->str_next",
	"get":         "env->str_get",
	"set":         "env->str_set",
	"toString":    "env->str_toString",
	"valueOf":     "env->str_valueOf",
	"undefined":   "env->str_undefined",
	"object":      "env->str_object",
	"function":    "env->str_function",
	"string":      "env->str_string",
	"number":      "env->str_number",
	"boolean":     "env->str_boolean",
	"symbol":      "env->str_symbol",
	"bigint":      "env->str_bigint",
	"arguments":   "env->str_arguments",
	"caller":      "env->str_caller",
	"callee":      "env->str_callee",
	"__proto__":   "env->str___proto__",
}

// WellKnownShape is a runtime-provided shape recognized by the runtime's
// own fast paths.
type WellKnownShape struct {
	Props []string
	CName string
}

// WellKnownShapes are the iterator-result layouts. An object literal
// {value, done} or {done, value} uses these instead of a shape of its own.
var WellKnownShapes = []WellKnownShape{
	{Props: []string{"value", "done"}, CName: "env->shape_value_done"},
	{Props: []string{"done", "value"}, CName: "env->shape_done_value"},
}

// LookupWellKnownShape returns the runtime shape for props, or "".
func LookupWellKnownShape(props []string) string {
	for _, s := range WellKnownShapes {
		if len(s.Props) != len(props) {
			continue
		}
		match := true
		for i := range props {
			if s.Props[i] != props[i] {
				match = false
				break
			}
		}
		if match {
			return s.CName
		}
	}
	return ""
}

// TypeofNames are the possible results of typeof.
var TypeofNames = map[string]bool{
	"undefined": true,
	"object":    true,
	"boolean":   true,
	"number":    true,
	"string":    true,
	"symbol":    true,
	"function":  true,
	"bigint":    true,
}
