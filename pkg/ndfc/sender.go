package ndfc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-logr/logr"
)

// LanFabricRestPath is the prefix of every top-down fabric endpoint.
const LanFabricRestPath = "/appcenter/cisco/ndfc/api/v1/lan-fabric/rest"

// Sender issues one request against the controller API and returns the
// response envelope. Transport failures are returned as errors; controller
// rejections come back as a non-OK envelope.
type Sender interface {
	Send(verb, path string, payload interface{}) (*Response, error)
}

// NonRetryable reports whether retrying a request that came back with this
// return code is pointless.
func NonRetryable(code int) bool {
	switch code {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict:
		return true
	}
	return false
}

// HTTPSender talks to the controller over HTTP and wraps each raw response
// in the envelope the rest of the code consumes.
type HTTPSender struct {
	baseURL string
	token   string
	client  *http.Client
	log     logr.Logger
}

func NewHTTPSender(baseURL, token string, timeout time.Duration, log logr.Logger) *HTTPSender {
	return &HTTPSender{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (s *HTTPSender) Send(verb, path string, payload interface{}) (*Response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(verb, s.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	s.log.V(1).Info("sending request", "verb", verb, "path", path)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", verb, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read response: %w", verb, path, err)
	}

	envelope := &Response{
		Message:     http.StatusText(resp.StatusCode),
		Method:      verb,
		RequestPath: path,
		ReturnCode:  resp.StatusCode,
	}
	if len(raw) > 0 {
		if json.Valid(raw) {
			envelope.Data = raw
		} else {
			// controllers occasionally answer with plain text
			envelope.Data, _ = json.Marshal(string(raw))
		}
	}

	s.log.V(1).Info("received response", "verb", verb, "path", path, "code", envelope.ReturnCode)
	return envelope, nil
}
