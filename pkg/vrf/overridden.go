package vrf

import (
	"sort"

	"github.com/fabric-ops/vrfctl/pkg/state"
)

// overriddenHandler makes the desired set the complete set: per fabric,
// every existing VRF not in the desired set is deleted first, then the
// desired items go through merged semantics. Deleting first frees VLANs and
// segment ids that the desired items may be about to claim.
type overriddenHandler struct {
	base
}

func (h *overriddenHandler) Execute(configs []Config) *state.Result {
	h.prewarm(configs)

	fabrics := []string{}
	byFabric := map[string][]*Config{}
	for i := range configs {
		config := &configs[i]
		if _, ok := byFabric[config.Fabric]; !ok {
			fabrics = append(fabrics, config.Fabric)
		}
		byFabric[config.Fabric] = append(byFabric[config.Fabric], config)
	}

	for _, fabric := range fabrics {
		h.overrideFabric(fabric, byFabric[fabric])
	}

	return h.finalize("Updated")
}

func (h *overriddenHandler) overrideFabric(fabric string, desired []*Config) {
	existing, err := h.api.GetAllCached(fabric)
	if err != nil {
		h.errors = append(h.errors, "Failed to read VRFs in fabric "+fabric+": "+err.Error())
		return
	}

	desiredNames := map[string]bool{}
	for _, config := range desired {
		desiredNames[config.VRFName] = true
	}

	unwanted := []string{}
	for vrfName := range existing {
		if !desiredNames[vrfName] {
			unwanted = append(unwanted, vrfName)
		}
	}
	sort.Strings(unwanted)

	for _, vrfName := range unwanted {
		h.result.AddResponse(h.delete(fabric, vrfName))
	}

	for _, config := range desired {
		current, exists := existing[config.VRFName]
		switch {
		case exists && h.equal(current, config):
			// already converged
		case exists:
			h.result.AddResponse(h.update(config))
		default:
			h.result.AddResponse(h.create(config))
		}
	}
}
