package attachment

import (
	"fmt"
	"strings"

	"github.com/fabric-ops/vrfctl/pkg/state"
)

// mergedHandler attaches every desired item. The controller treats
// re-attachment of an existing identical attachment as a no-op, so merged
// leans on the endpoint's idempotence instead of diffing locally.
type mergedHandler struct {
	base
}

func (h *mergedHandler) Execute(configs []Config) *state.Result {
	for i := range configs {
		h.result.AddResponse(h.attach(&configs[i]))
	}
	return h.finalize()
}

// replacedHandler makes each VRF's attachments match the desired list:
// current attachments on switches not in the desired set, or whose
// properties drifted, are detached first, then the desired list is
// attached.
type replacedHandler struct {
	base
}

func (h *replacedHandler) Execute(configs []Config) *state.Result {
	for i := range configs {
		config := &configs[i]

		current, err := h.currentAttachments(config.Fabric, config.VRFName)
		if err != nil {
			h.errors = append(h.errors, fmt.Sprintf("Failed to query attachments for VRF %s: %s", config.VRFName, err))
			continue
		}

		unwanted := unwantedAttachments(current, config, true)
		if len(unwanted) > 0 {
			h.result.AddResponse(h.detach(detachConfig(config.Fabric, config.VRFName, unwanted)))
		}
		h.result.AddResponse(h.attach(config))
	}
	return h.finalize()
}

// overriddenHandler detaches everything not in the desired set, then
// attaches the desired list. Property drift on desired switches is handled
// by the attach itself.
type overriddenHandler struct {
	base
}

func (h *overriddenHandler) Execute(configs []Config) *state.Result {
	for i := range configs {
		config := &configs[i]

		current, err := h.currentAttachments(config.Fabric, config.VRFName)
		if err != nil {
			h.errors = append(h.errors, fmt.Sprintf("Failed to query attachments for VRF %s: %s", config.VRFName, err))
			continue
		}

		unwanted := unwantedAttachments(current, config, false)
		if len(unwanted) > 0 {
			h.result.AddResponse(h.detach(detachConfig(config.Fabric, config.VRFName, unwanted)))
		}
		h.result.AddResponse(h.attach(config))
	}
	return h.finalize()
}

// unwantedAttachments returns the current records that a replace or
// override must detach. includeDrifted additionally selects records whose
// switch stays but whose VLAN drifted from the desired value.
func unwantedAttachments(current []*Data, desired *Config, includeDrifted bool) []*Data {
	desiredByIP := map[string]*LanAttach{}
	for i := range desired.LanAttachList {
		desiredByIP[desired.LanAttachList[i].IPAddress] = &desired.LanAttachList[i]
	}

	unwanted := []*Data{}
	for _, record := range current {
		if record.IPAddress == "" {
			continue
		}
		want, ok := desiredByIP[record.IPAddress]
		if !ok {
			unwanted = append(unwanted, record)
			continue
		}
		if includeDrifted && record.VlanID != want.VlanID {
			unwanted = append(unwanted, record)
		}
	}
	return unwanted
}

// deletedHandler detaches attachments. Named switch entries are detached
// directly; an item with an empty lan_attach_list queries the VRF's current
// attachments and detaches all of them.
type deletedHandler struct {
	base
}

func (h *deletedHandler) Execute(configs []Config) *state.Result {
	for i := range configs {
		config := &configs[i]

		if len(config.LanAttachList) > 0 {
			h.result.AddResponse(h.detach(config))
			continue
		}

		current, err := h.currentAttachments(config.Fabric, config.VRFName)
		if err != nil {
			h.errors = append(h.errors, fmt.Sprintf("Failed to query attachments for VRF %s: %s", config.VRFName, err))
			continue
		}
		if len(current) == 0 {
			// nothing attached, nothing to do
			continue
		}
		h.result.AddResponse(h.detach(detachConfig(config.Fabric, config.VRFName, current)))
	}

	if len(h.errors) > 0 {
		h.result.Failed = true
		h.result.Msg = strings.Join(h.errors, "; ")
		return h.result
	}
	if len(h.detached) > 0 {
		h.result.Msg = fmt.Sprintf("Detached VRFs: %s", strings.Join(h.detached, ", "))
	} else {
		h.result.Msg = "No VRF attachments to delete"
	}
	return h.result
}

// queryHandler reads each VRF's attachments and never mutates anything.
type queryHandler struct {
	base
}

func (h *queryHandler) Execute(configs []Config) *state.Result {
	queried := 0

	for i := range configs {
		config := &configs[i]

		resp, err := h.api.Query(config.Fabric, config.VRFName)
		if err != nil {
			h.errors = append(h.errors, fmt.Sprintf("Failed to query VRF attachments for %s in fabric %s: %s", config.VRFName, config.Fabric, err))
			continue
		}
		if !resp.OK() {
			h.errors = append(h.errors, fmt.Sprintf("Failed to query VRF attachments for %s in fabric %s: %s", config.VRFName, config.Fabric, resp.Message))
			continue
		}

		queried++
		h.result.AddResponse(resp)
	}

	h.result.Changed = false
	if len(h.errors) > 0 {
		h.result.Failed = true
		h.result.Msg = strings.Join(h.errors, "; ")
		return h.result
	}
	h.result.Msg = fmt.Sprintf("Queried %d VRF attachments", queried)
	return h.result
}
