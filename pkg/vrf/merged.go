package vrf

import "github.com/fabric-ops/vrfctl/pkg/state"

// mergedHandler creates absent VRFs and reconfigures drifted ones. It never
// deletes anything, and items already matching their desired configuration
// are left untouched.
type mergedHandler struct {
	base
}

func (h *mergedHandler) Execute(configs []Config) *state.Result {
	h.prewarm(configs)

	for i := range configs {
		config := &configs[i]

		exists, current, err := h.api.Exists(config.Fabric, config.VRFName)
		if err != nil {
			h.errors = append(h.errors, "Failed to read VRF "+config.VRFName+": "+err.Error())
			continue
		}

		switch {
		case exists && h.equal(current, config):
			// already converged
		case exists:
			h.result.AddResponse(h.update(config))
		default:
			h.result.AddResponse(h.create(config))
		}
	}

	return h.finalize("Updated")
}
