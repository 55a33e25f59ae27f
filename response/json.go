package response

import (
	"encoding/json"

	"github.com/Enrico-Fabbri/fobserver/wire"
)

// NewJSONResponse creates a 200 OK response with data encoded as JSON.
func NewJSONResponse(data any) (*Response, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return New(wire.StatusOK).
		WithHeader("Content-Type", "application/json").
		WithBody(body), nil
}
