package vrf

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"

	"github.com/fabric-ops/vrfctl/pkg/ndfc"
	"github.com/fabric-ops/vrfctl/pkg/state"
)

// Handler reconciles a batch of desired VRF items in one state's semantics.
type Handler interface {
	Execute(configs []Config) *state.Result
}

// NewHandler returns the handler for the given state.
func NewHandler(s state.State, api *API, log logr.Logger) (Handler, error) {
	b := base{api: api, log: log.WithValues("resource", "vrf", "state", string(s)), result: &state.Result{}}

	switch s {
	case state.Merged:
		return &mergedHandler{base: b}, nil
	case state.Replaced:
		return &replacedHandler{base: b}, nil
	case state.Overridden:
		return &overriddenHandler{base: b}, nil
	case state.Deleted:
		return &deletedHandler{base: b}, nil
	case state.Query:
		return &queryHandler{base: b}, nil
	}
	return nil, fmt.Errorf("no VRF handler for state %q", s)
}

// base carries the per-run accumulators shared by every state handler.
type base struct {
	api    *API
	log    logr.Logger
	result *state.Result

	created []string
	updated []string
	deleted []string
	errors  []string
}

// prewarm bulk-fetches every fabric referenced by the batch, so N items in
// one fabric cost a single read call.
func (b *base) prewarm(configs []Config) {
	seen := map[string]bool{}
	for _, config := range configs {
		if seen[config.Fabric] {
			continue
		}
		seen[config.Fabric] = true
		if _, err := b.api.GetAllCached(config.Fabric); err != nil {
			b.log.V(1).Info("cache pre-warm failed", "fabric", config.Fabric, "error", err.Error())
		}
	}
}

// equal compares the current controller record with the desired item over
// the fields a reconfiguration would touch. Template configurations are
// compared structurally, so formatting differences between the controller's
// JSON string and ours never force an update.
func (b *base) equal(current *Data, desired *Config) bool {
	payload, err := desired.Payload()
	if err != nil {
		return false
	}

	return current.VRFName == payload.VRFName &&
		current.VRFID == payload.VRFID &&
		current.VRFTemplate == payload.VRFTemplate &&
		current.VRFExtensionTemplate == payload.VRFExtensionTemplate &&
		templateConfigsEqual(current.VRFTemplateConfig, payload.VRFTemplateConfig)
}

func templateConfigsEqual(current, desired string) bool {
	var currentConfig, desiredConfig map[string]interface{}
	if err := json.Unmarshal([]byte(current), &currentConfig); err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(desired), &desiredConfig); err != nil {
		return false
	}
	return cmp.Equal(currentConfig, desiredConfig)
}

// create issues a create call and records the outcome.
func (b *base) create(config *Config) *ndfc.Response {
	return b.mutate(config, "create", &b.created, b.api.Create)
}

// update issues an update call and records the outcome.
func (b *base) update(config *Config) *ndfc.Response {
	return b.mutate(config, "update", &b.updated, b.api.Update)
}

func (b *base) mutate(config *Config, operation string, names *[]string, call func(*Payload) (*ndfc.Response, error)) *ndfc.Response {
	payload, err := config.Payload()
	if err != nil {
		b.errors = append(b.errors, fmt.Sprintf("Failed to %s VRF %s: %s", operation, config.VRFName, err))
		return nil
	}

	resp, err := call(payload)
	if err != nil {
		b.errors = append(b.errors, fmt.Sprintf("Failed to %s VRF %s: %s", operation, config.VRFName, err))
		return nil
	}
	if !resp.OK() {
		b.errors = append(b.errors, fmt.Sprintf("Failed to %s VRF %s: %s", operation, config.VRFName, resp.Message))
		return nil
	}

	*names = append(*names, config.VRFName)
	b.result.Changed = true
	return resp
}

// delete issues a delete call and records the outcome.
func (b *base) delete(fabric, vrfName string) *ndfc.Response {
	resp, err := b.api.Delete(fabric, vrfName)
	if err != nil {
		b.errors = append(b.errors, fmt.Sprintf("Failed to delete VRF %s: %s", vrfName, err))
		return nil
	}
	if !resp.OK() {
		b.errors = append(b.errors, fmt.Sprintf("Failed to delete VRF %s: %s", vrfName, resp.Message))
		return nil
	}

	b.deleted = append(b.deleted, vrfName)
	b.result.Changed = true
	return resp
}

// finalize builds the result message. updatedLabel names the verb for the
// updated list, which reads "Replaced" under the replaced state.
func (b *base) finalize(updatedLabel string) *state.Result {
	if len(b.errors) > 0 {
		b.result.Failed = true
		b.result.Msg = strings.Join(b.errors, "; ")
		return b.result
	}

	messages := []string{}
	if len(b.deleted) > 0 {
		messages = append(messages, fmt.Sprintf("Deleted VRFs: %s", strings.Join(b.deleted, ", ")))
	}
	if len(b.created) > 0 {
		messages = append(messages, fmt.Sprintf("Created VRFs: %s", strings.Join(b.created, ", ")))
	}
	if len(b.updated) > 0 {
		messages = append(messages, fmt.Sprintf("%s VRFs: %s", updatedLabel, strings.Join(b.updated, ", ")))
	}
	if len(messages) == 0 {
		messages = append(messages, "No changes needed")
	}
	b.result.Msg = strings.Join(messages, "; ")
	return b.result
}
