package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/flowdocs/docresolver/go/metrics"
	"github.com/flowdocs/docresolver/go/wire"
)

// ServiceClient is the host-owned collaborator a ServiceTransport forwards
// encoded request bytes to and receives correlated response bytes from. It
// is the out-of-process documentation service's request/response channel,
// keyed by correlation id (spec section 6); this package does not implement
// one, only depends on the interface.
type ServiceClient interface {
	// Send delivers payload, tagged with correlationID, to the service and
	// blocks until the correlated reply envelope is available, returning
	// its raw payload bytes.
	Send(ctx context.Context, correlationID string, payload []byte) ([]byte, error)
}

// ServiceTransport implements Transport by forwarding encoded requests to a
// ServiceClient and decoding its correlated replies. No handshake occurs;
// the primary bundle id is supplied by the caller at construction.
type ServiceTransport struct {
	client  ServiceClient
	newUUID func() (uuid.UUID, error)
}

// NewServiceTransport wraps client. The returned transport performs no I/O
// until the first SendAndWait call.
func NewServiceTransport(client ServiceClient) *ServiceTransport {
	return &ServiceTransport{client: client, newUUID: uuid.NewRandom}
}

// SendAndWait implements Transport. A nil request is not meaningful for a
// ServiceTransport, which never performs a handshake; callers must supply
// the primary bundle id at construction instead.
func (t *ServiceTransport) SendAndWait(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("transport: service transport does not support a handshake read")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &UnableToEncodeRequestToClientError{Description: req.Description(), Cause: err}
	}

	id, err := t.newUUID()
	if err != nil {
		return nil, fmt.Errorf("transport: generating correlation id: %w", err)
	}

	raw, err := t.client.Send(ctx, id.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("transport: service client send for %s: %w", req.Description(), err)
	}

	var resp wire.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		var unrecognized *wire.UnrecognizedKeyError
		if errors.As(err, &unrecognized) {
			metrics.TransportErrorsTotal.WithLabelValues("invalid_response_kind").Inc()
			return nil, &InvalidResponseKindFromClientError{Key: unrecognized.Key, Bytes: raw}
		}
		metrics.TransportErrorsTotal.WithLabelValues("decode_failure").Inc()
		return nil, &UnableToDecodeResponseFromClientError{Bytes: raw, Cause: err}
	}
	return &resp, nil
}

// Close is a no-op: a ServiceTransport does not own the ServiceClient's
// lifecycle, only its own (stateless) request/response shuttling.
func (t *ServiceTransport) Close() error { return nil }
