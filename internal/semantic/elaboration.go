package semantic

import (
	"sort"

	"github.com/adalang/adac/internal/token"
)

// ElaborationOrder topologically sorts the with-dependency graph built up
// across every AnalyzeCompilationUnit call: a unit must elaborate after
// everything it withs. A cycle is reported as an error and broken
// arbitrarily so the caller still gets a usable (if diagnosed-bad) order.
func (a *Analyzer) ElaborationOrder() []string {
	names := make(map[string]bool)
	for n, deps := range a.deps {
		names[n] = true
		for _, d := range deps {
			names[d] = true
		}
	}
	var sorted []string
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var order []string
	var visit func(n string, path []string) bool
	visit = func(n string, path []string) bool {
		switch color[n] {
		case black:
			return true
		case gray:
			a.errorf(token.Position{}, "elaboration cycle detected involving %q", n)
			return false
		}
		color[n] = gray
		for _, dep := range a.deps[n] {
			if dep == n {
				continue
			}
			visit(dep, append(path, n))
		}
		color[n] = black
		order = append(order, n)
		return true
	}
	for _, n := range sorted {
		if color[n] == white {
			visit(n, nil)
		}
	}
	return order
}
