package vrf

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/fabric-ops/vrfctl/pkg/cache"
	"github.com/fabric-ops/vrfctl/pkg/ndfc"
)

// fakeSender emulates the controller's VRF endpoints against an in-memory
// fabric table and records every call it serves.
type fakeSender struct {
	fabrics map[string]map[string]*Data
	calls   []string
	// failWith maps "VERB path" to a forced response code
	failWith map[string]int
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		fabrics:  map[string]map[string]*Data{},
		failWith: map[string]int{},
	}
}

func (f *fakeSender) seed(fabric string, vrfs ...*Data) {
	if f.fabrics[fabric] == nil {
		f.fabrics[fabric] = map[string]*Data{}
	}
	for _, v := range vrfs {
		f.fabrics[fabric][v.VRFName] = v
	}
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

func (f *fakeSender) Send(verb, path string, payload interface{}) (*ndfc.Response, error) {
	f.calls = append(f.calls, verb+" "+path)

	if code, ok := f.failWith[verb+" "+path]; ok {
		return &ndfc.Response{
			Message:     "forced failure",
			Method:      verb,
			RequestPath: path,
			ReturnCode:  code,
		}, nil
	}

	trimmed := strings.TrimPrefix(path, "/appcenter/cisco/ndfc/api/v1/lan-fabric/rest/top-down/fabrics/")
	parts := strings.Split(trimmed, "/")

	switch {
	case verb == "GET" && len(parts) == 2:
		return f.list(parts[0], path)
	case verb == "POST" && len(parts) == 2:
		return f.upsert(parts[0], path, payload)
	case verb == "DELETE" && len(parts) == 3:
		return f.delete(parts[0], parts[2], path)
	}
	return nil, fmt.Errorf("fakeSender: unhandled request %s %s", verb, path)
}

func (f *fakeSender) list(fabric, path string) (*ndfc.Response, error) {
	vrfs := []*Data{}
	for _, v := range f.fabrics[fabric] {
		vrfs = append(vrfs, v)
	}
	data, _ := json.Marshal(vrfs)
	return &ndfc.Response{Data: data, Message: "OK", Method: "GET", RequestPath: path, ReturnCode: 200}, nil
}

func (f *fakeSender) upsert(fabric, path string, payload interface{}) (*ndfc.Response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}

	record := &Data{
		Fabric:               fabric,
		VRFName:              p.VRFName,
		VRFID:                p.VRFID,
		VRFTemplate:          p.VRFTemplate,
		VRFTemplateConfig:    p.VRFTemplateConfig,
		VRFExtensionTemplate: p.VRFExtensionTemplate,
		VRFStatus:            "NA",
	}
	f.seed(fabric, record)

	data, _ := json.Marshal([]*Data{record})
	return &ndfc.Response{Data: data, Message: "OK", Method: "POST", RequestPath: path, ReturnCode: 200}, nil
}

func (f *fakeSender) delete(fabric, vrfName, path string) (*ndfc.Response, error) {
	if _, ok := f.fabrics[fabric][vrfName]; !ok {
		return &ndfc.Response{Message: "Not Found", Method: "DELETE", RequestPath: path, ReturnCode: 404}, nil
	}
	delete(f.fabrics[fabric], vrfName)
	return &ndfc.Response{Message: "OK", Method: "DELETE", RequestPath: path, ReturnCode: 200}, nil
}

// newTestAPI wires an API against a fresh fake controller and a per-test
// cache, the same shape a real run gets.
func newTestAPI(sender *fakeSender) *API {
	manager := cache.NewManager(cache.NewStore(cache.DefaultTTL), 5*time.Minute)
	return NewAPI(sender, manager, logr.Discard())
}
