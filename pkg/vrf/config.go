package vrf

import (
	"encoding/json"
	"fmt"

	"github.com/fabric-ops/vrfctl/pkg/state"
)

// Default template names assigned when a desired item omits them.
const (
	DefaultVRFTemplate          = "Default_VRF_Universal"
	DefaultVRFExtensionTemplate = "Default_VRF_Extension_Universal"
)

// Config is one desired VRF item as written in the input document. Template
// configurations are free-form objects here; they are stringified when the
// config is turned into a request payload.
type Config struct {
	Fabric               string                 `json:"fabric"`
	VRFName              string                 `json:"vrf_name,omitempty"`
	VRFID                int                    `json:"vrf_id,omitempty"`
	VRFTemplate          string                 `json:"vrf_template,omitempty"`
	VRFTemplateConfig    map[string]interface{} `json:"vrf_template_config,omitempty"`
	VRFExtensionTemplate string                 `json:"vrf_extension_template,omitempty"`
	ServiceVRFTemplate   map[string]interface{} `json:"service_vrf_template,omitempty"`
	Deploy               *bool                  `json:"deploy,omitempty"`
}

// ApplyDefaults fills in the template names and the deploy flag when the
// input omits them.
func (c *Config) ApplyDefaults() {
	if c.VRFTemplate == "" {
		c.VRFTemplate = DefaultVRFTemplate
	}
	if c.VRFExtensionTemplate == "" {
		c.VRFExtensionTemplate = DefaultVRFExtensionTemplate
	}
	if c.Deploy == nil {
		deploy := true
		c.Deploy = &deploy
	}
}

// Payload converts the config into the controller request body. Template
// configurations are marshaled into JSON strings, with map keys sorted so
// that equal configurations always produce the same string.
func (c *Config) Payload() (*Payload, error) {
	templateConfig, err := json.Marshal(c.VRFTemplateConfig)
	if err != nil {
		return nil, fmt.Errorf("marshal vrf_template_config: %w", err)
	}
	if c.VRFTemplateConfig == nil {
		templateConfig = []byte("{}")
	}

	p := &Payload{
		Fabric:               c.Fabric,
		VRFName:              c.VRFName,
		VRFID:                c.VRFID,
		VRFTemplate:          c.VRFTemplate,
		VRFTemplateConfig:    string(templateConfig),
		VRFExtensionTemplate: c.VRFExtensionTemplate,
		Deploy:               c.Deploy == nil || *c.Deploy,
	}
	if p.VRFTemplate == "" {
		p.VRFTemplate = DefaultVRFTemplate
	}
	if p.VRFExtensionTemplate == "" {
		p.VRFExtensionTemplate = DefaultVRFExtensionTemplate
	}

	if c.ServiceVRFTemplate != nil {
		serviceTemplate, err := json.Marshal(c.ServiceVRFTemplate)
		if err != nil {
			return nil, fmt.Errorf("marshal service_vrf_template: %w", err)
		}
		p.ServiceVRFTemplate = string(serviceTemplate)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// validateForState checks the state-specific schema for one item.
func (c *Config) validateForState(s state.State) error {
	if c.Fabric == "" || len(c.Fabric) > 64 {
		return fmt.Errorf("fabric must be 1 to 64 characters")
	}
	if c.VRFName != "" && len(c.VRFName) > 32 {
		return fmt.Errorf("vrf_name must be at most 32 characters")
	}

	switch s {
	case state.Deleted, state.Query:
		// fabric alone is enough; vrf_name narrows the scope when present
		return nil
	case state.Merged:
		if c.VRFName == "" {
			return fmt.Errorf("vrf_name is required for state merged")
		}
		if c.VRFTemplateConfig == nil {
			return fmt.Errorf("vrf_template_config is required for state merged")
		}
	case state.Replaced, state.Overridden:
		if c.VRFName == "" {
			return fmt.Errorf("vrf_name is required for state %s", s)
		}
		if c.VRFID == 0 {
			return fmt.Errorf("vrf_id is required for state %s", s)
		}
		if c.VRFTemplateConfig == nil {
			return fmt.Errorf("vrf_template_config is required for state %s", s)
		}
	}
	return nil
}

// ValidateConfigs applies defaults and the state-specific schema to a whole
// batch. The first invalid item aborts the batch, identified by its index.
func ValidateConfigs(configs []Config, s state.State) error {
	for i := range configs {
		configs[i].ApplyDefaults()
		if err := configs[i].validateForState(s); err != nil {
			return fmt.Errorf("invalid VRF configuration at index %d: %w", i, err)
		}
	}
	return nil
}
