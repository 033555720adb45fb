package coupang

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// responseEnvelope is the upstream wrapper shared by every resource.
type responseEnvelope struct {
	RCode    string          `json:"rCode"`
	RMessage string          `json:"rMessage"`
	Data     json.RawMessage `json:"data"`
}

// decodeEnvelope extracts the elements of the top-level "data" list.
// Anything else yields a *ShapeError. An empty list is not an error.
func decodeEnvelope(resource string, body []byte) ([]json.RawMessage, error) {
	var env responseEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &ShapeError{Resource: resource, Reason: "body is not a JSON object"}
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, &ShapeError{Resource: resource, Reason: missingDataReason(env)}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &ShapeError{Resource: resource, Reason: "data is not a list"}
	}
	return items, nil
}

func missingDataReason(env responseEnvelope) string {
	if env.RCode != "" || env.RMessage != "" {
		return fmt.Sprintf("data missing (rCode=%s rMessage=%s)", env.RCode, env.RMessage)
	}
	return "data missing"
}
