package wire

import "encoding/json"

// Response is a sum of the four shapes a peer ever sends back: the one-shot
// handshake bundle identifier, a forwarded error message, resolved
// information for a topic/symbol lookup, or a resolved asset.
type Response struct {
	BundleIdentifier    *string
	ErrorMessage        *string
	ResolvedInformation *ResolvedInformation
	Asset               *DataAsset
}

// IsBundleIdentifier reports whether this is the one-shot handshake reply.
func (r *Response) IsBundleIdentifier() bool { return r.BundleIdentifier != nil }

// MarshalJSON encodes the response as a single-key object keyed by the
// variant name, per spec section 4.1.
func (r Response) MarshalJSON() ([]byte, error) {
	switch {
	case r.BundleIdentifier != nil:
		return json.Marshal(map[string]string{"bundleIdentifier": *r.BundleIdentifier})
	case r.ErrorMessage != nil:
		return json.Marshal(map[string]string{"errorMessage": *r.ErrorMessage})
	case r.ResolvedInformation != nil:
		return json.Marshal(map[string]*ResolvedInformation{"resolvedInformation": r.ResolvedInformation})
	case r.Asset != nil:
		return json.Marshal(map[string]*DataAsset{"asset": r.Asset})
	default:
		return nil, errEmptyResponse
	}
}

// UnmarshalJSON decodes a single-key response object, failing on an empty,
// multi-key, or unrecognized-key payload. This is the host side's decode of
// UnableToDecodeResponseFromClient / InvalidResponseKindFromClient.
func (r *Response) UnmarshalJSON(data []byte) error {
	*r = Response{}
	return unmarshalSingleKey(data, map[string]func(json.RawMessage) error{
		"bundleIdentifier": func(v json.RawMessage) error {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return err
			}
			r.BundleIdentifier = &s
			return nil
		},
		"errorMessage": func(v json.RawMessage) error {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return err
			}
			r.ErrorMessage = &s
			return nil
		},
		"resolvedInformation": func(v json.RawMessage) error {
			var info ResolvedInformation
			if err := json.Unmarshal(v, &info); err != nil {
				return err
			}
			r.ResolvedInformation = &info
			return nil
		},
		"asset": func(v json.RawMessage) error {
			var a DataAsset
			if err := json.Unmarshal(v, &a); err != nil {
				return err
			}
			r.Asset = &a
			return nil
		},
	})
}

var errEmptyResponse = jsonError("wire: response must set exactly one variant")

type jsonError string

func (e jsonError) Error() string { return string(e) }
