package attachment

// LanAttachPayload is one switch attachment in the controller request body.
// Extension and instance values travel as JSON strings.
type LanAttachPayload struct {
	Fabric          string `json:"fabric"`
	VRFName         string `json:"vrfName"`
	SerialNumber    string `json:"serialNumber"`
	VlanID          int    `json:"vlanId"`
	Deployment      bool   `json:"deployment"`
	ExtensionValues string `json:"extensionValues"`
	FreeformConfig  string `json:"freeformConfig"`
	InstanceValues  string `json:"instanceValues"`
}

// Payload is the request body for attach and detach calls. The controller
// expects a list of these, one per VRF.
type Payload struct {
	VRFName       string             `json:"vrfName"`
	LanAttachList []LanAttachPayload `json:"lanAttachList"`
}

// Data is an attachment record as the controller returns it from the
// per-VRF attachments listing.
type Data struct {
	VRFName        string `json:"vrfName,omitempty"`
	IPAddress      string `json:"ipAddress,omitempty"`
	SerialNumber   string `json:"serialNumber,omitempty"`
	SwitchName     string `json:"switchName,omitempty"`
	VlanID         int    `json:"vlanId,omitempty"`
	Deployment     bool   `json:"deployment,omitempty"`
	LanAttachState string `json:"lanAttachState,omitempty"`
}

// Switch is a fabric inventory record, used to translate management IPs to
// serial numbers.
type Switch struct {
	IPAddress    string `json:"ipAddress,omitempty"`
	SerialNumber string `json:"serialNumber,omitempty"`
	LogicalName  string `json:"logicalName,omitempty"`
	FabricName   string `json:"fabricName,omitempty"`
}
