// Package attachment implements VRF switch attachments: desired
// configuration, payload encoding, API client and per-state handlers.
package attachment

import (
	"encoding/json"
	"fmt"

	"github.com/fabric-ops/vrfctl/pkg/state"
)

// VRFLiteConnection is one VRF-Lite extension entry. Field names follow the
// controller's template parameter names.
type VRFLiteConnection struct {
	AutoVRFLiteFlag       string `json:"AUTO_VRF_LITE_FLAG,omitempty"`
	Dot1qID               string `json:"DOT1Q_ID,omitempty"`
	IfName                string `json:"IF_NAME,omitempty"`
	IPMask                string `json:"IP_MASK,omitempty"`
	IPv6Mask              string `json:"IPV6_MASK,omitempty"`
	IPv6Neighbor          string `json:"IPV6_NEIGHBOR,omitempty"`
	NeighborASN           string `json:"NEIGHBOR_ASN,omitempty"`
	NeighborIP            string `json:"NEIGHBOR_IP,omitempty"`
	PeerVRFName           string `json:"PEER_VRF_NAME,omitempty"`
	VRFLiteJythonTemplate string `json:"VRF_LITE_JYTHON_TEMPLATE,omitempty"`
}

// VRFLiteConnections wraps the VRF-Lite entries the way the controller
// nests them.
type VRFLiteConnections struct {
	VRFLiteConn []VRFLiteConnection `json:"VRF_LITE_CONN"`
}

// MultisiteConnections wraps multisite extension entries.
type MultisiteConnections struct {
	MultisiteConn []map[string]interface{} `json:"MULTISITE_CONN"`
}

// ExtensionValues carries the per-switch extension configuration.
type ExtensionValues struct {
	VRFLiteConn   *VRFLiteConnections   `json:"VRF_LITE_CONN,omitempty"`
	MultisiteConn *MultisiteConnections `json:"MULTISITE_CONN,omitempty"`
}

// InstanceValues carries per-switch instance parameters.
type InstanceValues struct {
	LoopbackIPv6Address         string `json:"loopbackIpV6Address,omitempty"`
	LoopbackID                  string `json:"loopbackId,omitempty"`
	DeviceSupportL3VNINoVlan    string `json:"deviceSupportL3VniNoVlan,omitempty"`
	SwitchRouteTargetImportEvpn string `json:"switchRouteTargetImportEvpn,omitempty"`
	LoopbackIPAddress           string `json:"loopbackIpAddress,omitempty"`
	SwitchRouteTargetExportEvpn string `json:"switchRouteTargetExportEvpn,omitempty"`
}

// LanAttach is one desired switch attachment. Switches are identified by
// management IP in the input and translated to serial numbers when the
// payload is built.
type LanAttach struct {
	IPAddress       string           `json:"ip_address"`
	VlanID          int              `json:"vlan_id"`
	Deployment      bool             `json:"deployment,omitempty"`
	ExtensionValues *ExtensionValues `json:"extension_values,omitempty"`
	FreeformConfig  string           `json:"freeform_config,omitempty"`
	InstanceValues  *InstanceValues  `json:"instance_values,omitempty"`
}

// encodeExtensionValues produces the controller's double-encoded form: the
// outer object is a JSON string whose VRF_LITE_CONN and MULTISITE_CONN
// values are themselves JSON strings.
func (l *LanAttach) encodeExtensionValues() (string, error) {
	if l.ExtensionValues == nil {
		return "", nil
	}

	outer := map[string]string{}
	if l.ExtensionValues.VRFLiteConn != nil {
		inner, err := json.Marshal(l.ExtensionValues.VRFLiteConn)
		if err != nil {
			return "", err
		}
		outer["VRF_LITE_CONN"] = string(inner)
	}
	if l.ExtensionValues.MultisiteConn != nil {
		inner, err := json.Marshal(l.ExtensionValues.MultisiteConn)
		if err != nil {
			return "", err
		}
		outer["MULTISITE_CONN"] = string(inner)
	}
	if len(outer) == 0 {
		return "", nil
	}

	encoded, err := json.Marshal(outer)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func (l *LanAttach) encodeInstanceValues() (string, error) {
	if l.InstanceValues == nil {
		return "", nil
	}
	encoded, err := json.Marshal(l.InstanceValues)
	if err != nil {
		return "", err
	}
	if string(encoded) == "{}" {
		return "", nil
	}
	return string(encoded), nil
}

// Config is one desired VRF attachment item as written in the input
// document.
type Config struct {
	Fabric        string      `json:"fabric"`
	VRFName       string      `json:"vrf_name"`
	LanAttachList []LanAttach `json:"lan_attach_list,omitempty"`
}

func (c *Config) validateForState(s state.State) error {
	if c.Fabric == "" || len(c.Fabric) > 64 {
		return fmt.Errorf("fabric must be 1 to 64 characters")
	}
	if c.VRFName == "" || len(c.VRFName) > 32 {
		return fmt.Errorf("vrf_name must be 1 to 32 characters")
	}

	switch s {
	case state.Deleted, state.Query:
		// an empty lan_attach_list means the whole VRF's attachments
	default:
		if len(c.LanAttachList) == 0 {
			return fmt.Errorf("lan_attach_list must have at least one entry for state %s", s)
		}
	}

	for i, lanAttach := range c.LanAttachList {
		if lanAttach.IPAddress == "" {
			return fmt.Errorf("lan_attach_list[%d]: ip_address is required", i)
		}
		if lanAttach.VlanID < 2 || lanAttach.VlanID > 4094 {
			return fmt.Errorf("lan_attach_list[%d]: vlan_id must be between 2 and 4094, got %d", i, lanAttach.VlanID)
		}
	}
	return nil
}

// ValidateConfigs applies the state-specific schema to a whole batch. The
// first invalid item aborts the batch, identified by its index.
func ValidateConfigs(configs []Config, s state.State) error {
	for i := range configs {
		if err := configs[i].validateForState(s); err != nil {
			return fmt.Errorf("invalid VRF attachment configuration at index %d: %w", i, err)
		}
	}
	return nil
}
