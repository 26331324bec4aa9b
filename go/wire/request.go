package wire

import (
	"encoding/json"
	"fmt"
)

// Request is a sum of the three shapes the bridge ever sends to a peer:
// a topic URL lookup, a precise-identifier symbol lookup, or a named asset
// lookup. Exactly one field is non-nil on any well-formed Request.
type Request struct {
	Topic  *string
	Symbol *string
	Asset  *AssetRequest
}

// NewTopicRequest builds a request resolving the topic at url.
func NewTopicRequest(url string) *Request { return &Request{Topic: &url} }

// NewSymbolRequest builds a request resolving the symbol named by a precise
// (USR) identifier.
func NewSymbolRequest(preciseIdentifier string) *Request {
	return &Request{Symbol: &preciseIdentifier}
}

// NewAssetRequest builds a request resolving a named asset within a bundle.
func NewAssetRequest(assetName, bundleIdentifier string) *Request {
	return &Request{Asset: &AssetRequest{AssetName: assetName, BundleIdentifier: bundleIdentifier}}
}

// Description is a human-readable rendering of the request used solely for
// error messages, e.g. `topic: "scheme://host/path"`.
func (r *Request) Description() string {
	switch {
	case r.Topic != nil:
		return fmt.Sprintf("topic: %q", *r.Topic)
	case r.Symbol != nil:
		return fmt.Sprintf("symbol: %q", *r.Symbol)
	case r.Asset != nil:
		return fmt.Sprintf("asset: %q in bundle %q", r.Asset.AssetName, r.Asset.BundleIdentifier)
	default:
		return "request: <empty>"
	}
}

// MarshalJSON encodes the request as a single-key object keyed by the
// variant name, per spec section 4.1.
func (r Request) MarshalJSON() ([]byte, error) {
	switch {
	case r.Topic != nil && r.Symbol == nil && r.Asset == nil:
		return json.Marshal(map[string]string{"topic": *r.Topic})
	case r.Symbol != nil && r.Topic == nil && r.Asset == nil:
		return json.Marshal(map[string]string{"symbol": *r.Symbol})
	case r.Asset != nil && r.Topic == nil && r.Symbol == nil:
		return json.Marshal(map[string]*AssetRequest{"asset": r.Asset})
	default:
		return nil, fmt.Errorf("wire: request must set exactly one of topic, symbol, asset")
	}
}

// UnmarshalJSON decodes a single-key request object, failing on an empty,
// multi-key, or unrecognized-key payload.
func (r *Request) UnmarshalJSON(data []byte) error {
	*r = Request{}
	return unmarshalSingleKey(data, map[string]func(json.RawMessage) error{
		"topic": func(v json.RawMessage) error {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return err
			}
			r.Topic = &s
			return nil
		},
		"symbol": func(v json.RawMessage) error {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return err
			}
			r.Symbol = &s
			return nil
		},
		"asset": func(v json.RawMessage) error {
			var a AssetRequest
			if err := json.Unmarshal(v, &a); err != nil {
				return err
			}
			r.Asset = &a
			return nil
		},
	})
}
