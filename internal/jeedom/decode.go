package jeedom

import (
	"bytes"
	"encoding/json"
)

// envelope is a JSON-RPC 2.0 response from the controller.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// unwrap returns the raw result of a response body.
//
// The error member wins over the result member. A missing or null result
// is ErrMalformedEnvelope.
func unwrap(method string, body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Method: method, Err: err}
	}
	if env.Error != nil {
		return nil, &APIError{Code: env.Error.Code, Message: env.Error.Message}
	}
	result := bytes.TrimSpace(env.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return nil, &DecodeError{Method: method, Err: ErrMalformedEnvelope}
	}
	return result, nil
}

// decodeResult unwraps body and decodes its result into T.
func decodeResult[T any](method string, body []byte) (T, error) {
	var v T
	result, err := unwrap(method, body)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(result, &v); err != nil {
		return v, &DecodeError{Method: method, Err: err}
	}
	return v, nil
}

// DecodePing decodes a ping response, whose result is "pong".
func DecodePing(body []byte) (string, error) {
	return decodeResult[string](MethodPing, body)
}

// DecodeVersion decodes a version response.
func DecodeVersion(body []byte) (string, error) {
	return decodeResult[string](MethodVersion, body)
}

// DecodeGlobalSummary decodes a summary::global response.
func DecodeGlobalSummary(body []byte) (*GlobalSummary, error) {
	s, err := decodeResult[GlobalSummary](MethodGlobalSummary, body)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DecodeDevices decodes an eqLogic::all response.
func DecodeDevices(body []byte) ([]Device, error) {
	return decodeResult[[]Device](MethodDevices, body)
}

// DecodeNotifications decodes a message::all response.
func DecodeNotifications(body []byte) ([]Notification, error) {
	return decodeResult[[]Notification](MethodNotifications, body)
}

// Sanitize strips the raw tab characters the controller leaves inside strings,
// which are invalid JSON.
func Sanitize(body []byte) []byte {
	if bytes.IndexByte(body, '\t') < 0 {
		return body
	}
	return bytes.ReplaceAll(body, []byte("\t"), nil)
}
