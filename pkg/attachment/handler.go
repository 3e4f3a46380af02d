package attachment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/fabric-ops/vrfctl/pkg/ndfc"
	"github.com/fabric-ops/vrfctl/pkg/state"
)

// Handler reconciles a batch of desired VRF attachment items in one state's
// semantics.
type Handler interface {
	Execute(configs []Config) *state.Result
}

// NewHandler returns the attachment handler for the given state.
func NewHandler(s state.State, api *API, log logr.Logger) (Handler, error) {
	b := base{api: api, log: log.WithValues("resource", "vrf_attachment", "state", string(s)), result: &state.Result{}}

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
	return nil, fmt.Errorf("no VRF attachment handler for state %q", s)
}

type base struct {
	api    *API
	log    logr.Logger
	result *state.Result

	attached []string
	detached []string
	errors   []string
}

// attach builds and applies the attach payload for one item.
func (b *base) attach(config *Config) *ndfc.Response {
	return b.apply(config, false, "attach", &b.attached)
}

// detach builds and applies the same payload with every deployment flag
// forced off.
func (b *base) detach(config *Config) *ndfc.Response {
	return b.apply(config, true, "detach", &b.detached)
}

func (b *base) apply(config *Config, detach bool, operation string, names *[]string) *ndfc.Response {
	payload, err := b.api.BuildPayload(config, detach)
	if err != nil {
		b.errors = append(b.errors, fmt.Sprintf("Failed to %s VRF %s: %s", operation, config.VRFName, err))
		return nil
	}

	var resp *ndfc.Response
	if detach {
		resp, err = b.api.Detach(config.Fabric, payload)
	} else {
		resp, err = b.api.Attach(config.Fabric, payload)
	}
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

// currentAttachments reads the VRF's attachments fresh from the controller.
func (b *base) currentAttachments(fabric, vrfName string) ([]*Data, error) {
	resp, err := b.api.Query(fabric, vrfName)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errors.New(resp.Error())
	}

	var records []*Data
	if err := resp.DecodeRecords(&records); err != nil {
		return nil, err
	}
	return records, nil
}

// detachConfig builds a minimal detach item from controller records.
func detachConfig(fabric, vrfName string, records []*Data) *Config {
	config := &Config{Fabric: fabric, VRFName: vrfName}
	for _, record := range records {
		config.LanAttachList = append(config.LanAttachList, LanAttach{
			IPAddress: record.IPAddress,
			VlanID:    record.VlanID,
		})
	}
	return config
}

func (b *base) finalize() *state.Result {
	if len(b.errors) > 0 {
		b.result.Failed = true
		b.result.Msg = strings.Join(b.errors, "; ")
		return b.result
	}

	messages := []string{}
	if len(b.detached) > 0 {
		messages = append(messages, fmt.Sprintf("Detached VRFs: %s", strings.Join(b.detached, ", ")))
	}
	if len(b.attached) > 0 {
		messages = append(messages, fmt.Sprintf("Attached VRFs: %s", strings.Join(b.attached, ", ")))
	}
	if len(messages) == 0 {
		messages = append(messages, "No changes needed")
	}
	b.result.Msg = strings.Join(messages, "; ")
	return b.result
}
