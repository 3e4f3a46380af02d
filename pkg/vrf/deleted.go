package vrf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fabric-ops/vrfctl/pkg/state"
)

// deletedHandler removes VRFs. A named item is deleted when it exists and
// silently skipped when it does not. An item with no name wipes the whole
// fabric, working from a fresh controller listing rather than the cache so
// that stale entries cannot hide a VRF from the wipe.
type deletedHandler struct {
	base
}

func (h *deletedHandler) Execute(configs []Config) *state.Result {
	for i := range configs {
		config := &configs[i]

		if config.VRFName != "" {
			h.deleteNamed(config)
			continue
		}
		h.deleteFabric(config.Fabric)
	}

	if len(h.errors) > 0 {
		h.result.Failed = true
		h.result.Msg = strings.Join(h.errors, "; ")
		return h.result
	}
	if len(h.deleted) > 0 {
		h.result.Msg = fmt.Sprintf("Deleted VRFs: %s", strings.Join(h.deleted, ", "))
	} else {
		h.result.Msg = "No VRFs to delete"
	}
	return h.result
}

func (h *deletedHandler) deleteNamed(config *Config) {
	exists, _, err := h.api.Exists(config.Fabric, config.VRFName)
	if err != nil {
		h.errors = append(h.errors, "Failed to read VRF "+config.VRFName+": "+err.Error())
		return
	}
	if !exists {
		// already gone
		return
	}
	h.result.AddResponse(h.delete(config.Fabric, config.VRFName))
}

func (h *deletedHandler) deleteFabric(fabric string) {
	resp, err := h.api.QueryAll(fabric)
	if err != nil {
		h.errors = append(h.errors, "Failed to list VRFs in fabric "+fabric+": "+err.Error())
		return
	}
	if !resp.OK() {
		h.errors = append(h.errors, "Failed to list VRFs in fabric "+fabric+": "+resp.Message)
		return
	}

	var records []*Data
	if err := resp.DecodeRecords(&records); err != nil {
		h.errors = append(h.errors, "Failed to list VRFs in fabric "+fabric+": "+err.Error())
		return
	}

	names := []string{}
	for _, record := range records {
		if record.VRFName != "" {
			names = append(names, record.VRFName)
		}
	}
	sort.Strings(names)

	for _, vrfName := range names {
		h.result.AddResponse(h.delete(fabric, vrfName))
	}
}
