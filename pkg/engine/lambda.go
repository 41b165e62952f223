package engine

import "github.com/tabexcli/tabex/pkg/value"

// LambdaScope binds lambda parameter names to values for the duration of one
// map/filter body evaluation. Nested higher-order calls Fork the enclosing
// scope rather than mutate it, so a parameter bound by an outer map stays
// visible — and stays unchanged — inside a nested one.
type LambdaScope struct {
	slots  map[string]int
	values []value.Value
}

// NewLambdaScope returns an empty scope.
func NewLambdaScope() *LambdaScope {
	return &LambdaScope{slots: make(map[string]int)}
}

// Fork copies the scope so the caller can add bindings without disturbing
// the original — used when entering a nested map/filter lambda.
func (s *LambdaScope) Fork() *LambdaScope {
	slots := make(map[string]int, len(s.slots))
	for k, v := range s.slots {
		slots[k] = v
	}
	values := make([]value.Value, len(s.values))
	copy(values, s.values)
	return &LambdaScope{slots: slots, values: values}
}

// Register reserves a slot for name and returns its index for repeated Set
// calls across a map/filter's iterations.
func (s *LambdaScope) Register(name string) int {
	idx := len(s.values)
	s.values = append(s.values, value.None())
	s.slots[name] = idx
	return idx
}

// Set stores v into the slot previously returned by Register. A list value
// is marked shared before it's stored: the same binding can be read by Get
// more than once (sibling map/filter calls over the same lambda parameter,
// or a Fork'd nested scope), and each read must see an intact list rather
// than racing TakeItems' move-vs-clone decision with a reader that never
// got a chance to mark its own copy shared first.
func (s *LambdaScope) Set(idx int, v value.Value) {
	if l, err := v.IntoSharedList(); err == nil {
		l.Share()
	}
	s.values[idx] = v
}

// Get resolves name against the scope's bindings.
func (s *LambdaScope) Get(name string) (value.Value, bool) {
	idx, ok := s.slots[name]
	if !ok {
		return value.Value{}, false
	}
	return s.values[idx], true
}

// TryAsLambda unwraps a LambdaExpr, failing with a Custom EvalError — tagged
// "anonymous" since a lambda argument never has a name of its own — when e
// isn't one.
func TryAsLambda(e Expr) ([]string, Expr, *EvalError) {
	lam, ok := e.(LambdaExpr)
	if !ok {
		return nil, nil, newEvalError(anonymousFn, EEKCustom, "expected a lambda argument")
	}
	return lam.Params, lam.Body, nil
}
