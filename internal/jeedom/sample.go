package jeedom

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

//go:embed sample/*.json
var samples embed.FS

var sampleFiles = map[string]string{
	MethodPing:          "sample/ping.json",
	MethodVersion:       "sample/version.json",
	MethodGlobalSummary: "sample/summary.json",
	MethodDevices:       "sample/devices.json",
	MethodNotifications: "sample/notifications.json",
}

// Sample returns the canned response body for method.
func Sample(method string) ([]byte, error) {
	name, ok := sampleFiles[method]
	if !ok {
		return nil, fmt.Errorf("no sample for method %q", method)
	}
	return samples.ReadFile(name)
}

// SampleTransport answers every JSON-RPC request with a canned response, so the
// full pipeline can run without a controller.
func SampleTransport() http.RoundTripper {
	return sampleTransport{}
}

type sampleTransport struct{}

func (sampleTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var rpc Request
	if req.Body != nil {
		defer req.Body.Close()
		if err := json.NewDecoder(req.Body).Decode(&rpc); err != nil {
			return nil, fmt.Errorf("failed to read request: %w", err)
		}
	}

	body, err := Sample(rpc.Method)
	if err != nil {
		body = []byte(fmt.Sprintf(`{"jsonrpc":"2.0","id":%q,"error":{"code":-32601,"message":"Method not found"}}`, rpc.ID))
	}

	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": []string{"application/json"}},
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}
