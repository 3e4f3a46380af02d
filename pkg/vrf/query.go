package vrf

import (
	"fmt"
	"strings"

	"github.com/fabric-ops/vrfctl/pkg/ndfc"
	"github.com/fabric-ops/vrfctl/pkg/state"
)

// queryHandler reads VRF state and never mutates anything; the result
// always reports changed=false. Named items are filtered out of a fresh
// fabric listing, unnamed items return the whole fabric.
type queryHandler struct {
	base
}

func (h *queryHandler) Execute(configs []Config) *state.Result {
	total := 0

	for i := range configs {
		config := &configs[i]

		var (
			response *ndfc.Response
			scope    string
			err      error
		)
		if config.VRFName != "" {
			scope = fmt.Sprintf("VRF %s in fabric %s", config.VRFName, config.Fabric)
			response, err = h.api.Query(config.Fabric, config.VRFName)
		} else {
			scope = fmt.Sprintf("VRFs in fabric %s", config.Fabric)
			response, err = h.api.QueryAll(config.Fabric)
		}

		if err != nil {
			h.errors = append(h.errors, fmt.Sprintf("Failed to query %s: %s", scope, err))
			continue
		}
		if !response.OK() {
			h.errors = append(h.errors, fmt.Sprintf("Failed to query %s: %s", scope, response.Message))
			continue
		}

		records, _ := response.Records()
		total += len(records)
		h.result.AddResponse(response)
	}

	h.result.Changed = false
	if len(h.errors) > 0 {
		h.result.Failed = true
		h.result.Msg = strings.Join(h.errors, "; ")
		return h.result
	}
	h.result.Msg = fmt.Sprintf("Queried %d VRFs", total)
	return h.result
}
