package ndfc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Response is the controller response envelope. DATA carries the payload
// verbatim, which the controller returns either as a list of records or as
// a single record object depending on the endpoint.
type Response struct {
	Data        json.RawMessage `json:"DATA,omitempty"`
	Message     string          `json:"MESSAGE"`
	Method      string          `json:"METHOD"`
	RequestPath string          `json:"REQUEST_PATH"`
	ReturnCode  int             `json:"RETURN_CODE"`
}

// OK reports whether the controller accepted the request.
func (r *Response) OK() bool {
	return r.ReturnCode == 200 || r.ReturnCode == 201
}

// Error builds the failure message for a rejected request.
func (r *Response) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", r.Method, r.RequestPath, r.ReturnCode, r.Message)
}

// Records normalizes DATA to a list of raw records. A single record object
// becomes a one-element list, an empty or null DATA becomes an empty list.
func (r *Response) Records() ([]json.RawMessage, error) {
	data := bytes.TrimSpace(r.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	if data[0] == '{' {
		return []json.RawMessage{data}, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("malformed response payload: %w", err)
	}
	return records, nil
}

// DecodeRecords unmarshals the normalized record list into out, which must
// be a pointer to a slice.
func (r *Response) DecodeRecords(out interface{}) error {
	records, err := r.Records()
	if err != nil {
		return err
	}

	normalized, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return json.Unmarshal(normalized, out)
}
