// Package vrf implements the VRF resource: controller data model, desired
// configuration, API client and the per-state reconciliation handlers.
package vrf

// Data is a VRF record as the controller returns it. Field names follow the
// controller wire format.
type Data struct {
	Fabric               string `json:"fabric,omitempty"`
	VRFName              string `json:"vrfName,omitempty"`
	VRFID                int    `json:"vrfId,omitempty"`
	VRFTemplate          string `json:"vrfTemplate,omitempty"`
	VRFTemplateConfig    string `json:"vrfTemplateConfig,omitempty"`
	VRFExtensionTemplate string `json:"vrfExtensionTemplate,omitempty"`
	ServiceVRFTemplate   string `json:"serviceVrfTemplate,omitempty"`
	VRFStatus            string `json:"vrfStatus,omitempty"`
	Source               string `json:"source,omitempty"`
	TenantName           string `json:"tenantName,omitempty"`
	HierarchicalKey      string `json:"hierarchicalKey,omitempty"`
	ID                   int    `json:"id,omitempty"`
}

// Deployed reports whether the VRF is deployed on the fabric according to
// its status field.
func (d *Data) Deployed() bool {
	switch d.VRFStatus {
	case "", "NA", "NOT_DEPLOYED":
		return false
	}
	return true
}
