// Package resolver implements the out-of-process reference resolution
// bridge's core (spec component C3): it owns a transport plus three
// never-evicted caches (topic, symbol, asset), performs the handshake,
// dispatches resolve calls, and maps cached replies into host-facing
// entities via the entity package.
package resolver

import (
	"fmt"

	"github.com/flowdocs/docresolver/go/wire"
)

// BundleID is an opaque identifier for a collection of documentation.
type BundleID string

// SyntheticSymbolBundleID tags references minted for resolved symbols, so
// they can later be recognized as having come from this resolver even
// though the peer never announced this id at handshake.
const SyntheticSymbolBundleID BundleID = "com.externally.resolved.symbol"

// ResolvedReference is a canonical, post-resolution reference. Two
// references are equal iff all four fields are equal; it is intentionally
// a comparable struct so callers may use == or it as a map key.
type ResolvedReference struct {
	BundleID BundleID
	Path     string
	Fragment string
	Language wire.Language
}

// requestURLKey reconstructs the canonical "doc://bundleID/path#fragment"
// URL this reference was originally resolved from. The topic cache is keyed
// by that originally requested URL (spec section 3); since a resolved
// reference's bundle id is always this resolver's own primary or synthetic
// id, and its path/fragment were parsed out of that same URL, rebuilding it
// from the reference's own fields reproduces the original key exactly.
func (r ResolvedReference) requestURLKey() string {
	key := fmt.Sprintf("doc://%s%s", r.BundleID, r.Path)
	if r.Fragment != "" {
		key += "#" + r.Fragment
	}
	return key
}

// referenceState distinguishes the three states a TopicReference may be in.
type referenceState int

const (
	stateUnresolved referenceState = iota
	stateResolved
	stateFailure
)

// TopicReference is the sum of "not yet resolved" (carries a URL),
// "resolved" (carries a ResolvedReference), and "resolution failed"
// (carries the original URL and a failure message) — the
// TopicReferenceResolutionResult of spec section 4.3, reused as both the
// input and the output of Resolve.
type TopicReference struct {
	state    referenceState
	url      string
	resolved ResolvedReference
	message  string
}

// UnresolvedTopicReference constructs a reference that still needs resolving.
func UnresolvedTopicReference(url string) TopicReference {
	return TopicReference{state: stateUnresolved, url: url}
}

// ResolvedTopicReference wraps an already-resolved reference.
func ResolvedTopicReference(ref ResolvedReference) TopicReference {
	return TopicReference{state: stateResolved, resolved: ref}
}

// FailedTopicReference records a failed resolution attempt against url.
func FailedTopicReference(url, message string) TopicReference {
	return TopicReference{state: stateFailure, url: url, message: message}
}

// IsResolved reports whether this reference carries a successfully
// resolved ResolvedReference.
func (t TopicReference) IsResolved() bool { return t.state == stateResolved }

// IsFailure reports whether this reference records a failed resolve.
func (t TopicReference) IsFailure() bool { return t.state == stateFailure }

// Resolved returns the wrapped ResolvedReference and true if IsResolved.
func (t TopicReference) Resolved() (ResolvedReference, bool) {
	return t.resolved, t.state == stateResolved
}

// URL returns the URL this reference was, or still is, associated with:
// the unresolved URL, the failed URL, or the resolved reference's own
// reconstructed key.
func (t TopicReference) URL() string {
	switch t.state {
	case stateResolved:
		return t.resolved.requestURLKey()
	default:
		return t.url
	}
}

// FailureMessage returns the message recorded by FailedTopicReference, or
// "" if this reference is not in the failure state.
func (t TopicReference) FailureMessage() string { return t.message }
