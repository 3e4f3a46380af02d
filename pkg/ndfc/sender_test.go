package ndfc

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-test/deep"
)

func TestHTTPSender_Send(t *testing.T) {
	var gotRequest *http.Request
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequest = r.Clone(r.Context())
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[{"vrfName":"blue"}]`))
	}))
	defer server.Close()

	s := NewHTTPSender(server.URL, "token-abc", 5*time.Second, logr.Discard())

	resp, err := s.Send(http.MethodPost, "/fabrics/f1/vrfs", map[string]string{"vrfName": "blue"})
	if err != nil {
		t.Fatalf("HTTPSender.Send() error = %v", err)
	}

	if gotRequest.Method != http.MethodPost || gotRequest.URL.Path != "/fabrics/f1/vrfs" {
		t.Errorf("request was %s %s", gotRequest.Method, gotRequest.URL.Path)
	}
	if got := gotRequest.Header.Get("Authorization"); got != "Bearer token-abc" {
		t.Errorf("Authorization header = %q", got)
	}
	if got := gotRequest.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type header = %q", got)
	}

	var payload map[string]string
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("request body was not JSON: %v", err)
	}
	if payload["vrfName"] != "blue" {
		t.Errorf("request payload = %v", payload)
	}

	want := &Response{
		Data:        json.RawMessage(`[{"vrfName":"blue"}]`),
		Message:     "OK",
		Method:      http.MethodPost,
		RequestPath: "/fabrics/f1/vrfs",
		ReturnCode:  200,
	}
	if diff := deep.Equal(resp, want); diff != nil {
		t.Errorf("HTTPSender.Send() differs: %v", diff)
	}
}

func TestHTTPSender_Send_ControllerRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"VRF already exists"}`))
	}))
	defer server.Close()

	s := NewHTTPSender(server.URL, "", 5*time.Second, logr.Discard())

	resp, err := s.Send(http.MethodPost, "/fabrics/f1/vrfs", nil)
	if err != nil {
		t.Fatalf("HTTPSender.Send() error = %v", err)
	}
	if resp.OK() {
		t.Error("HTTPSender.Send() reported a 409 as success")
	}
	if resp.ReturnCode != 409 || resp.Message != "Conflict" {
		t.Errorf("HTTPSender.Send() envelope = %+v", resp)
	}
}

func TestHTTPSender_Send_PlainTextBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("something broke"))
	}))
	defer server.Close()

	s := NewHTTPSender(server.URL, "", 5*time.Second, logr.Discard())

	resp, err := s.Send(http.MethodGet, "/fabrics/f1/vrfs", nil)
	if err != nil {
		t.Fatalf("HTTPSender.Send() error = %v", err)
	}

	var text string
	if err := json.Unmarshal(resp.Data, &text); err != nil || text != "something broke" {
		t.Errorf("HTTPSender.Send() DATA = %s, %v", resp.Data, err)
	}
}

func TestHTTPSender_Send_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	s := NewHTTPSender(server.URL, "", 1*time.Second, logr.Discard())

	if _, err := s.Send(http.MethodGet, "/fabrics/f1/vrfs", nil); err == nil {
		t.Error("HTTPSender.Send() error = nil on a closed server")
	}
}

func TestNonRetryable(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{code: 400, want: true},
		{code: 404, want: true},
		{code: 409, want: true},
		{code: 200, want: false},
		{code: 500, want: false},
		{code: 503, want: false},
	}
	for _, tt := range tests {
		if got := NonRetryable(tt.code); got != tt.want {
			t.Errorf("NonRetryable(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
