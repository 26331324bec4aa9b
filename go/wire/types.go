// Package wire defines the line-delimited JSON payloads exchanged between
// the resolution bridge and its peer (a child process or a documentation
// service). Every payload here is a tagged union encoded as a single-key
// JSON object, the way the peer protocol in spec section 6 requires.
package wire

import (
	"encoding/json"
	"strconv"
)

// Language names a source language a symbol or topic is described in.
type Language struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Kind identifies the shape of a ResolvedInformation payload.
type Kind struct {
	Name     string `json:"name"`
	ID       string `json:"id"`
	IsSymbol bool   `json:"isSymbol"`
}

// Platform carries per-platform availability metadata for a symbol, mirroring
// the fields docc's out-of-process resolver protocol emits. Version fields
// are left as raw strings on the wire; go/entity is responsible for the
// tolerant parse into a structured version.
type Platform struct {
	Name                        string `json:"name"`
	Introduced                  string `json:"introduced,omitempty"`
	Deprecated                  string `json:"deprecated,omitempty"`
	Obsoleted                   string `json:"obsoleted,omitempty"`
	Renamed                     string `json:"renamed,omitempty"`
	UnconditionallyDeprecated   bool   `json:"unconditionallyDeprecated,omitempty"`
	UnconditionallyUnavailable  bool   `json:"unconditionallyUnavailable,omitempty"`
}

// DeclarationToken is one syntax-highlighted fragment of a symbol's
// declaration, e.g. a keyword, type name, or identifier.
type DeclarationToken struct {
	Kind              string `json:"kind"`
	Spelling          string `json:"spelling"`
	PreciseIdentifier string `json:"preciseIdentifier,omitempty"`
}

// ResolvedInformation is the peer's reply payload describing a resolved
// topic, symbol, or asset lookup target.
type ResolvedInformation struct {
	Kind                 Kind               `json:"kind"`
	URL                  string             `json:"url"`
	Title                string             `json:"title"`
	Abstract             string             `json:"abstract"`
	Language             Language           `json:"language"`
	AvailableLanguages   []Language         `json:"availableLanguages,omitempty"`
	Platforms            []Platform         `json:"platforms,omitempty"`
	DeclarationFragments []DeclarationToken `json:"declarationFragments,omitempty"`
}

// DataAsset is the payload of an "asset" response: an artifact (image, file)
// identified by name within a bundle.
type DataAsset struct {
	FileName    string `json:"filename"`
	ContentType string `json:"contentType"`
	Context     string `json:"context,omitempty"`
	Data        []byte `json:"data"`
}

// AssetRequest asks the peer to resolve a named asset within a bundle.
type AssetRequest struct {
	AssetName        string `json:"assetName"`
	BundleIdentifier string `json:"bundleIdentifier"`
}

// unmarshalSingleKey decodes data as a JSON object with exactly one key and
// dispatches to assign based on that key. It returns an error identifying the
// offending payload if the object is empty, has more than one key, or carries
// a key not present in assign. The latter case is distinguished from the
// former via UnrecognizedKeyError, so callers can tell a malformed union
// shape apart from a well-formed object naming an unknown variant.
func unmarshalSingleKey(data []byte, assign map[string]func(json.RawMessage) error) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return &invalidUnionShapeError{raw: string(data), numKeys: len(raw)}
	}
	for key, value := range raw {
		fn, ok := assign[key]
		if !ok {
			return &UnrecognizedKeyError{Key: key, Raw: string(data)}
		}
		return fn(value)
	}
	panic("unreachable: map with exactly one entry was not iterated")
}

type invalidUnionShapeError struct {
	raw     string
	numKeys int
}

func (e *invalidUnionShapeError) Error() string {
	return "wire: expected exactly one key, found " + strconv.Itoa(e.numKeys) + " in " + e.raw
}

// UnrecognizedKeyError reports that a single-key union object was
// well-formed (exactly one key) but that key did not match any known
// variant. Response decoding surfaces this distinctly from a generic decode
// failure, so a transport can map it to InvalidResponseKindFromClient rather
// than UnableToDecodeResponseFromClient.
type UnrecognizedKeyError struct {
	Key string
	Raw string
}

func (e *UnrecognizedKeyError) Error() string {
	return "wire: unrecognized key " + e.Key + " in " + e.Raw
}
