package compiler

import (
	"fmt"
	"io"
)

// Stats counts what the shape-cache and literal analyses decided for one
// compilation.
type Stats struct {
	Functions      int
	MemberSites    int // member accesses seen by the cache analyzer
	CacheableSites int // sites that received a cache slot
	CacheSlots     int // distinct slots allocated
	UncacheableKey int // sites whose key was poisoned by a dynamic part
	GlobalSites    int // global-object accesses, never cached
	WithSites      int // accesses affected by a with statement, never cached
	Shapes         int // shapes interned
	WellKnownShape int // literals that used a runtime-provided shape
	CtorShapes     int // constructors with a new-object shape hint
	Literals       int // distinct literal values
	Volatiles      int // locals flagged volatile
	Temps          int // temporaries allocated
}

// SharedSites is the number of sites that reused another site's slot.
func (s *Stats) SharedSites() int {
	return s.CacheableSites - s.CacheSlots
}

// Print writes a human readable summary.
func (s *Stats) Print(w io.Writer) {
	if s.MemberSites == 0 {
		fmt.Fprintf(w, "Cache Stats: no member accesses\n")
	} else {
		rate := float64(s.CacheableSites) / float64(s.MemberSites) * 100.0
		fmt.Fprintf(w, "Cache Stats: Sites: %d, Cached: %d (%.1f%%), Slots: %d, Shared: %d\n",
			s.MemberSites, s.CacheableSites, rate, s.CacheSlots, s.SharedSites())
		fmt.Fprintf(w, "  Uncacheable: %d, Global: %d, With: %d\n",
			s.UncacheableKey, s.GlobalSites, s.WithSites)
	}
	fmt.Fprintf(w, "  Functions: %d, Shapes: %d (well-known uses: %d, constructors: %d), Literals: %d\n",
		s.Functions, s.Shapes, s.WellKnownShape, s.CtorShapes, s.Literals)
	fmt.Fprintf(w, "  Volatile locals: %d, Temporaries: %d\n", s.Volatiles, s.Temps)
}
