package ast

// Scope maps names to their declaring Identifier nodes for one lexical
// region. Nodes that do not open a region share their parent's Scope.
type Scope struct {
	Parent *Scope
	Node   *Node     // node that opened the scope
	Func   *Function // function the scope belongs to
	Vars   map[string]*Node

	// IsFunction marks the top scope of a function: var declarations and
	// parameters live here.
	IsFunction bool
	// IsWith marks the body scope of a with statement. A lookup that walks
	// out through it only finds a fallback declaration.
	IsWith bool
	// hoisted records var names that were hoisted through this block, so
	// a later let/const of the same name can be rejected.
	hoisted map[string]bool
}

// NewScope creates a scope nested in parent.
func NewScope(parent *Scope, node *Node, fn *Function) *Scope {
	return &Scope{
		Parent: parent,
		Node:   node,
		Func:   fn,
		Vars:   make(map[string]*Node),
	}
}

// Lookup finds name in this scope only.
func (s *Scope) Lookup(name string) *Node {
	return s.Vars[name]
}

// Declare binds name in this scope.
func (s *Scope) Declare(name string, decl *Node) {
	s.Vars[name] = decl
}

// MarkHoisted records that a var named name was hoisted through s.
func (s *Scope) MarkHoisted(name string) {
	if s.hoisted == nil {
		s.hoisted = make(map[string]bool)
	}
	s.hoisted[name] = true
}

// WasHoisted reports whether a var named name was hoisted through s.
func (s *Scope) WasHoisted(name string) bool {
	return s.hoisted[name]
}

// FunctionScope returns the nearest enclosing function top scope.
func (s *Scope) FunctionScope() *Scope {
	for sc := s; sc != nil; sc = sc.Parent {
		if sc.IsFunction {
			return sc
		}
	}
	return nil
}

// Resolution is the outcome of a scope-chain lookup.
type Resolution struct {
	Decl        *Node // declaring node, nil if the name is unbound
	ThroughWith bool  // a with scope was crossed before Decl was found
	Scope       *Scope
}

// Resolve walks the chain outward from s looking for name.
func (s *Scope) Resolve(name string) Resolution {
	var res Resolution
	for sc := s; sc != nil; sc = sc.Parent {
		if decl := sc.Vars[name]; decl != nil {
			res.Decl = decl
			res.Scope = sc
			return res
		}
		if sc.IsWith {
			res.ThroughWith = true
		}
	}
	return res
}

// InsideWith reports whether s is lexically inside a with body, within
// the same function or any enclosing one.
func (s *Scope) InsideWith() bool {
	for sc := s; sc != nil; sc = sc.Parent {
		if sc.IsWith {
			return true
		}
	}
	return false
}
