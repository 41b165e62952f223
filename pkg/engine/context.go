package engine

import "github.com/tabexcli/tabex/pkg/header"

// Context carries the state shared by every row evaluated against one
// compiled expression: the resolved header index and any command-scoped
// globals a driver wants special functions to see (currently unused by the
// built-in table, but threaded through so future special forms — e.g. a
// running accumulator — don't require an API change).
type Context struct {
	Headers header.Index
	Globals map[string]interface{}
}

// NewContext builds a Context for the given header row.
func NewContext(headers header.Index) *Context {
	return &Context{Headers: headers}
}
