package pipeline

import (
	"log/slog"
	"slices"
)

// runFunc executes one stage against the run state and returns attributes
// describing what it did.
type runFunc func(st *runState, s Stage) []slog.Attr

var runners = map[Kind]runFunc{}

// register adds a runner under the provided kind.
func register(kind Kind, f runFunc) {
	if kind == "" || f == nil {
		return
	}
	runners[kind] = f
}

// Known reports whether a runner is registered for kind.
func Known(kind Kind) bool {
	_, ok := runners[kind]
	return ok
}

// Kinds lists the registered stage kinds in sorted order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(runners))
	for k := range runners {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
