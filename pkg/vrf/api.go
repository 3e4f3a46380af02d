package vrf

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-logr/logr"

	"github.com/fabric-ops/vrfctl/pkg/cache"
	"github.com/fabric-ops/vrfctl/pkg/ndfc"
)

// fabricsPath is the prefix of every top-down VRF endpoint.
const fabricsPath = ndfc.LanFabricRestPath + "/top-down/fabrics"

// API is the VRF client. Reads go through the resource cache, mutations
// write through to it on success and leave it untouched on failure.
type API struct {
	sender ndfc.Sender
	cache  *cache.Resource[*Data]
	log    logr.Logger
}

func NewAPI(sender ndfc.Sender, manager *cache.Manager, log logr.Logger) *API {
	return &API{
		sender: sender,
		cache:  cache.NewResource[*Data](manager, cache.KindVRF),
		log:    log,
	}
}

// fetchAll lists every VRF in the fabric, keyed by name. The bulk endpoint
// is the only one that reliably populates vrfStatus, so single-VRF reads go
// through here too and filter locally.
func (a *API) fetchAll(fabric string) (map[string]*Data, error) {
	resp, err := a.sender.Send(http.MethodGet, fmt.Sprintf("%s/%s/vrfs", fabricsPath, fabric), nil)
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

	vrfs := make(map[string]*Data, len(records))
	for _, record := range records {
		if record.VRFName != "" {
			vrfs[record.VRFName] = record
		}
	}
	return vrfs, nil
}

// GetAllCached returns every VRF in the fabric, fetching at most once per
// cache lifetime.
func (a *API) GetAllCached(fabric string) (map[string]*Data, error) {
	return a.cache.GetAllCached(fabric, func() (map[string]*Data, error) {
		return a.fetchAll(fabric)
	}, cache.DefaultTTL)
}

// GetCached returns one VRF, fetching the fabric's full set on a miss.
func (a *API) GetCached(fabric, vrfName string) (*Data, bool, error) {
	return a.cache.GetCached(fabric, vrfName, func() (*Data, bool, error) {
		vrfs, err := a.fetchAll(fabric)
		if err != nil {
			return nil, false, err
		}
		data, ok := vrfs[vrfName]
		return data, ok, nil
	}, cache.DefaultTTL)
}

// Exists reports whether the VRF exists, along with its current data.
func (a *API) Exists(fabric, vrfName string) (bool, *Data, error) {
	data, found, err := a.GetCached(fabric, vrfName)
	return found, data, err
}

// Create creates a VRF. On success the records the controller echoes back
// are written into the cache.
func (a *API) Create(payload *Payload) (*ndfc.Response, error) {
	return a.post(payload, a.cache.UpdateCacheAfterCreate)
}

// Update reconfigures a VRF. The controller exposes create and update as
// the same POST endpoint.
func (a *API) Update(payload *Payload) (*ndfc.Response, error) {
	return a.post(payload, a.cache.UpdateCacheAfterUpdate)
}

func (a *API) post(payload *Payload, cacheWrite func(fabric, identifier string, data *Data)) (*ndfc.Response, error) {
	resp, err := a.sender.Send(http.MethodPost, fmt.Sprintf("%s/%s/vrfs", fabricsPath, payload.Fabric), payload)
	if err != nil {
		return nil, err
	}

	if resp.OK() {
		var records []*Data
		if err := resp.DecodeRecords(&records); err == nil {
			for _, record := range records {
				if record.VRFName != "" {
					cacheWrite(payload.Fabric, record.VRFName, record)
				}
			}
		}
	}
	return resp, nil
}

// Delete removes a VRF. On success it is dropped from the cache.
func (a *API) Delete(fabric, vrfName string) (*ndfc.Response, error) {
	resp, err := a.sender.Send(http.MethodDelete, fmt.Sprintf("%s/%s/vrfs/%s", fabricsPath, fabric, vrfName), nil)
	if err != nil {
		return nil, err
	}
	if resp.OK() {
		a.cache.RemoveFromCacheAfterDelete(fabric, vrfName)
	}
	return resp, nil
}

// QueryAll lists every VRF in the fabric, always going to the controller.
func (a *API) QueryAll(fabric string) (*ndfc.Response, error) {
	resp, err := a.sender.Send(http.MethodGet, fmt.Sprintf("%s/%s/vrfs", fabricsPath, fabric), nil)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Query returns one VRF by filtering the fresh fabric listing locally, so
// the result carries the vrfStatus field the single-VRF endpoint omits.
func (a *API) Query(fabric, vrfName string) (*ndfc.Response, error) {
	resp, err := a.QueryAll(fabric)
	if err != nil || !resp.OK() {
		return resp, err
	}

	var records []*Data
	if err := resp.DecodeRecords(&records); err != nil {
		return nil, err
	}

	matches := []*Data{}
	for _, record := range records {
		if record.VRFName == vrfName {
			matches = append(matches, record)
		}
	}

	data, err := json.Marshal(matches)
	if err != nil {
		return nil, err
	}
	return &ndfc.Response{
		Data:        data,
		Message:     resp.Message,
		Method:      resp.Method,
		RequestPath: fmt.Sprintf("%s/%s/vrfs/%s", fabricsPath, fabric, vrfName),
		ReturnCode:  resp.ReturnCode,
	}, nil
}

// InvalidateFabricCache drops every cached VRF for the fabric.
func (a *API) InvalidateFabricCache(fabric string) {
	a.cache.InvalidateFabricCache(fabric)
}
