package attachment

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-logr/logr"

	"github.com/fabric-ops/vrfctl/pkg/cache"
	"github.com/fabric-ops/vrfctl/pkg/ndfc"
)

const (
	fabricsPath   = ndfc.LanFabricRestPath + "/top-down/fabrics"
	inventoryPath = ndfc.LanFabricRestPath + "/inventory/allswitches"
)

// API is the VRF attachment client. Attachment reads are cached per VRF,
// the switch inventory is cached per fabric, and any successful mutation
// drops the affected VRF's cached attachments.
type API struct {
	sender   ndfc.Sender
	cache    *cache.Resource[[]*Data]
	switches *cache.Resource[string]
	log      logr.Logger
}

func NewAPI(sender ndfc.Sender, manager *cache.Manager, log logr.Logger) *API {
	return &API{
		sender:   sender,
		cache:    cache.NewResource[[]*Data](manager, cache.KindVRFAttachment),
		switches: cache.NewResource[string](manager, cache.KindSwitch),
		log:      log,
	}
}

// TranslateIPToSerial resolves a switch management IP to its serial number
// through the fabric inventory, fetching the inventory at most once per
// cache lifetime.
func (a *API) TranslateIPToSerial(fabric, ipAddress string) (string, error) {
	serials, err := a.switches.GetAllCached(fabric, func() (map[string]string, error) {
		resp, err := a.sender.Send(http.MethodGet, inventoryPath, nil)
		if err != nil {
			return nil, err
		}
		if !resp.OK() {
			return nil, errors.New(resp.Error())
		}

		var switches []*Switch
		if err := resp.DecodeRecords(&switches); err != nil {
			return nil, err
		}

		serials := map[string]string{}
		for _, sw := range switches {
			if sw.IPAddress != "" && sw.SerialNumber != "" {
				serials[sw.IPAddress] = sw.SerialNumber
			}
		}
		return serials, nil
	}, cache.DefaultTTL)
	if err != nil {
		return "", fmt.Errorf("translate IP %s to serial number: %w", ipAddress, err)
	}

	serial, ok := serials[ipAddress]
	if !ok {
		return "", fmt.Errorf("no switch with IP address %s in the fabric inventory", ipAddress)
	}
	return serial, nil
}

// BuildPayload turns a desired item into the controller request body,
// translating each switch IP to its serial number. detach forces the
// deployment flag off for every entry.
func (a *API) BuildPayload(config *Config, detach bool) (*Payload, error) {
	payload := &Payload{
		VRFName:       config.VRFName,
		LanAttachList: make([]LanAttachPayload, 0, len(config.LanAttachList)),
	}

	for i := range config.LanAttachList {
		lanAttach := &config.LanAttachList[i]

		serial, err := a.TranslateIPToSerial(config.Fabric, lanAttach.IPAddress)
		if err != nil {
			return nil, err
		}
		extensionValues, err := lanAttach.encodeExtensionValues()
		if err != nil {
			return nil, fmt.Errorf("encode extension_values for %s: %w", lanAttach.IPAddress, err)
		}
		instanceValues, err := lanAttach.encodeInstanceValues()
		if err != nil {
			return nil, fmt.Errorf("encode instance_values for %s: %w", lanAttach.IPAddress, err)
		}

		payload.LanAttachList = append(payload.LanAttachList, LanAttachPayload{
			Fabric:          config.Fabric,
			VRFName:         config.VRFName,
			SerialNumber:    serial,
			VlanID:          lanAttach.VlanID,
			Deployment:      lanAttach.Deployment && !detach,
			ExtensionValues: extensionValues,
			FreeformConfig:  lanAttach.FreeformConfig,
			InstanceValues:  instanceValues,
		})
	}
	return payload, nil
}

// Attach applies the attachment payload. The endpoint takes a list of
// per-VRF payloads and handles re-attachment idempotently.
func (a *API) Attach(fabric string, payload *Payload) (*ndfc.Response, error) {
	return a.post(fabric, payload)
}

// Detach removes attachments through the same endpoint; the payload must
// carry deployment=false entries.
func (a *API) Detach(fabric string, payload *Payload) (*ndfc.Response, error) {
	return a.post(fabric, payload)
}

func (a *API) post(fabric string, payload *Payload) (*ndfc.Response, error) {
	resp, err := a.sender.Send(http.MethodPost, fmt.Sprintf("%s/%s/vrfs/attachments", fabricsPath, fabric), []*Payload{payload})
	if err != nil {
		return nil, err
	}
	if resp.OK() {
		// cached attachment state for this VRF is stale now
		a.cache.RemoveFromCacheAfterDelete(fabric, payload.VRFName)
	}
	return resp, nil
}

// Query lists the current attachments of one VRF, always going to the
// controller.
func (a *API) Query(fabric, vrfName string) (*ndfc.Response, error) {
	return a.sender.Send(http.MethodGet, fmt.Sprintf("%s/%s/vrfs/%s/attachments", fabricsPath, fabric, vrfName), nil)
}

// GetCachedAttachments returns the current attachments of one VRF through
// the cache.
func (a *API) GetCachedAttachments(fabric, vrfName string) ([]*Data, error) {
	attachments, _, err := a.cache.GetCached(fabric, vrfName, func() ([]*Data, bool, error) {
		resp, err := a.Query(fabric, vrfName)
		if err != nil {
			return nil, false, err
		}
		if !resp.OK() {
			return nil, false, errors.New(resp.Error())
		}
		var records []*Data
		if err := resp.DecodeRecords(&records); err != nil {
			return nil, false, err
		}
		return records, true, nil
	}, cache.DefaultTTL)
	return attachments, err
}

// InvalidateFabricCache drops every cached attachment for the fabric.
func (a *API) InvalidateFabricCache(fabric string) {
	a.cache.InvalidateFabricCache(fabric)
}
