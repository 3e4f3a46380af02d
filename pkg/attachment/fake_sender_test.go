package attachment

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/fabric-ops/vrfctl/pkg/cache"
	"github.com/fabric-ops/vrfctl/pkg/ndfc"
)

// fakeSender emulates the attachment and inventory endpoints against
// in-memory tables and records every call it serves. A POST entry with
// deployment=false detaches, matching the controller's behavior.
type fakeSender struct {
	switches    []*Switch
	attachments map[string]map[string][]*Data
	calls       []string
	failWith    map[string]int
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		attachments: map[string]map[string][]*Data{},
		failWith:    map[string]int{},
	}
}

func (f *fakeSender) addSwitch(ip, serial string) {
	f.switches = append(f.switches, &Switch{IPAddress: ip, SerialNumber: serial})
}

func (f *fakeSender) seedAttachment(fabric, vrfName string, records ...*Data) {
	if f.attachments[fabric] == nil {
		f.attachments[fabric] = map[string][]*Data{}
	}
	f.attachments[fabric][vrfName] = append(f.attachments[fabric][vrfName], records...)
}

func (f *fakeSender) callsMatching(prefix string) []string {
	matched := []string{}
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			matched = append(matched, c)
		}
	}
	return matched
}

func (f *fakeSender) ipForSerial(serial string) string {
	for _, sw := range f.switches {
		if sw.SerialNumber == serial {
			return sw.IPAddress
		}
	}
	return ""
}

func (f *fakeSender) Send(verb, path string, payload interface{}) (*ndfc.Response, error) {
	f.calls = append(f.calls, verb+" "+path)

	if code, ok := f.failWith[verb+" "+path]; ok {
		return &ndfc.Response{Message: "forced failure", Method: verb, RequestPath: path, ReturnCode: code}, nil
	}

	if verb == "GET" && path == "/appcenter/cisco/ndfc/api/v1/lan-fabric/rest/inventory/allswitches" {
		data, _ := json.Marshal(f.switches)
		return &ndfc.Response{Data: data, Message: "OK", Method: verb, RequestPath: path, ReturnCode: 200}, nil
	}

	trimmed := strings.TrimPrefix(path, "/appcenter/cisco/ndfc/api/v1/lan-fabric/rest/top-down/fabrics/")
	parts := strings.Split(trimmed, "/")

	switch {
	case verb == "GET" && len(parts) == 4 && parts[3] == "attachments":
		data, _ := json.Marshal(f.attachments[parts[0]][parts[2]])
		return &ndfc.Response{Data: data, Message: "OK", Method: verb, RequestPath: path, ReturnCode: 200}, nil
	case verb == "POST" && len(parts) == 3 && parts[2] == "attachments":
		return f.applyPayloads(parts[0], path, payload)
	}
	return nil, fmt.Errorf("fakeSender: unhandled request %s %s", verb, path)
}

func (f *fakeSender) applyPayloads(fabric, path string, payload interface{}) (*ndfc.Response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var payloads []*Payload
	if err := json.Unmarshal(raw, &payloads); err != nil {
		return nil, err
	}

	if f.attachments[fabric] == nil {
		f.attachments[fabric] = map[string][]*Data{}
	}

	for _, p := range payloads {
		for _, entry := range p.LanAttachList {
			ip := f.ipForSerial(entry.SerialNumber)

			kept := []*Data{}
			for _, record := range f.attachments[fabric][p.VRFName] {
				if record.IPAddress != ip {
					kept = append(kept, record)
				}
			}
			if entry.Deployment {
				kept = append(kept, &Data{
					VRFName:        p.VRFName,
					IPAddress:      ip,
					SerialNumber:   entry.SerialNumber,
					VlanID:         entry.VlanID,
					Deployment:     true,
					LanAttachState: "DEPLOYED",
				})
			}
			f.attachments[fabric][p.VRFName] = kept
		}
	}

	data, _ := json.Marshal(map[string]string{"status": "Config Deployment Completed"})
	return &ndfc.Response{Data: data, Message: "OK", Method: "POST", RequestPath: path, ReturnCode: 200}, nil
}

func newTestAPI(sender *fakeSender) *API {
	manager := cache.NewManager(cache.NewStore(cache.DefaultTTL), 5*time.Minute)
	return NewAPI(sender, manager, logr.Discard())
}
