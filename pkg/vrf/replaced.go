package vrf

import (
	"fmt"

	"github.com/fabric-ops/vrfctl/pkg/ndfc"
	"github.com/fabric-ops/vrfctl/pkg/state"
)

// replacedHandler rebuilds drifted VRFs by deleting and recreating them, so
// the controller ends up with exactly the desired configuration instead of
// a merge of old and new. Absent VRFs are created, converged ones are left
// alone.
type replacedHandler struct {
	base
}

func (h *replacedHandler) Execute(configs []Config) *state.Result {
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
			h.result.AddResponse(h.replace(config))
		default:
			h.result.AddResponse(h.create(config))
		}
	}

	return h.finalize("Replaced")
}

// replace deletes the existing VRF and recreates it. If the create fails
// after a successful delete the VRF is gone from the controller; the error
// says so in one message and the pair is not retried.
func (h *replacedHandler) replace(config *Config) *ndfc.Response {
	resp, err := h.api.Delete(config.Fabric, config.VRFName)
	if err != nil {
		h.errors = append(h.errors, fmt.Sprintf("Failed to delete existing VRF %s: %s", config.VRFName, err))
		return nil
	}
	if !resp.OK() {
		h.errors = append(h.errors, fmt.Sprintf("Failed to delete existing VRF %s: %s", config.VRFName, resp.Message))
		return nil
	}

	payload, err := config.Payload()
	if err != nil {
		h.errors = append(h.errors, fmt.Sprintf("VRF %s was deleted but could not be recreated: %s", config.VRFName, err))
		return nil
	}
	createResp, err := h.api.Create(payload)
	if err != nil {
		h.errors = append(h.errors, fmt.Sprintf("VRF %s was deleted but could not be recreated: %s", config.VRFName, err))
		return nil
	}
	if !createResp.OK() {
		h.errors = append(h.errors, fmt.Sprintf("VRF %s was deleted but could not be recreated: %s", config.VRFName, createResp.Message))
		return nil
	}

	h.updated = append(h.updated, config.VRFName)
	h.result.Changed = true
	return createResp
}
