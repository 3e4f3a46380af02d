package vrf

import (
	"encoding/json"
	"fmt"
)

// Payload is the request body for VRF create and update calls. Template
// configurations travel as JSON strings inside the outer JSON document.
type Payload struct {
	Fabric               string  `json:"fabric"`
	VRFName              string  `json:"vrfName"`
	VRFID                int     `json:"vrfId"`
	VRFTemplate          string  `json:"vrfTemplate"`
	VRFTemplateConfig    string  `json:"vrfTemplateConfig"`
	VRFExtensionTemplate string  `json:"vrfExtensionTemplate"`
	ServiceVRFTemplate   string  `json:"serviceVrfTemplate,omitempty"`
	Source               *string `json:"source"`
	Deploy               bool    `json:"deploy"`
}

// Validate checks the invariants the controller enforces on payloads.
func (p *Payload) Validate() error {
	if p.Fabric == "" || len(p.Fabric) > 64 {
		return fmt.Errorf("fabric must be 1 to 64 characters, got %q", p.Fabric)
	}
	if p.VRFName == "" || len(p.VRFName) > 32 {
		return fmt.Errorf("vrfName must be 1 to 32 characters, got %q", p.VRFName)
	}
	if !json.Valid([]byte(p.VRFTemplateConfig)) {
		return fmt.Errorf("vrfTemplateConfig must be a valid JSON string")
	}
	if p.ServiceVRFTemplate != "" && !json.Valid([]byte(p.ServiceVRFTemplate)) {
		return fmt.Errorf("serviceVrfTemplate must be a valid JSON string")
	}
	return nil
}
