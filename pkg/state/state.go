// Package state defines the reconciliation modes and the result envelope
// shared by every resource handler.
package state

import (
	"fmt"

	"github.com/fabric-ops/vrfctl/pkg/ndfc"
)

// State selects which reconciliation mode a handler runs in.
type State string

const (
	Merged     State = "merged"
	Replaced   State = "replaced"
	Overridden State = "overridden"
	Deleted    State = "deleted"
	Query      State = "query"
)

// All lists every valid state, in documentation order.
func All() []State {
	return []State{Merged, Replaced, Overridden, Deleted, Query}
}

// Parse validates a mode selector string.
func Parse(s string) (State, error) {
	for _, state := range All() {
		if s == string(state) {
			return state, nil
		}
	}
	return "", fmt.Errorf("invalid state %q: must be one of merged, replaced, overridden, deleted, query", s)
}

// Result accumulates the outcome of one batch run. Changed is the OR over
// all per-item changes, Failed is set when any error occurred, Msg is the
// human-readable summary and Response collects the raw per-operation
// controller responses.
type Result struct {
	Changed  bool             `json:"changed"`
	Failed   bool             `json:"failed"`
	Msg      string           `json:"msg"`
	Response []*ndfc.Response `json:"response"`
}

// AddResponse appends a raw controller response to the result.
func (r *Result) AddResponse(resp *ndfc.Response) {
	if resp != nil {
		r.Response = append(r.Response, resp)
	}
}
