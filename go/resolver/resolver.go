package resolver

import (
	"context"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/flowdocs/docresolver/go/entity"
	"github.com/flowdocs/docresolver/go/metrics"
	"github.com/flowdocs/docresolver/go/transport"
	"github.com/flowdocs/docresolver/go/wire"
)

// assetKey is the cache key for a resolved asset: (assetName, bundleId),
// per spec section 3.
type assetKey struct {
	name     string
	bundleID string
}

// Resolver owns a Transport plus three never-evicted caches, and is the
// host-facing entry point for all four resolver roles spec.md describes.
// Every public method that touches the caches or the transport holds one
// mutex, so calls are serialized and the underlying transport never has more
// than one request in flight.
type Resolver struct {
	mu sync.Mutex

	transport       transport.Transport
	primaryBundleID BundleID
	markupParser    entity.MarkupParser
	logger          *log.Entry

	topicCache  map[string]wire.ResolvedInformation
	symbolCache map[string]wire.ResolvedInformation
	assetCache  map[assetKey]wire.DataAsset
}

// Option configures a Resolver at construction.
type Option func(*Resolver)

// WithMarkupParser overrides the default plain-paragraph markup parser used
// by entity projection.
func WithMarkupParser(parser entity.MarkupParser) Option {
	return func(r *Resolver) { r.markupParser = parser }
}

// WithLogger overrides the logrus entry the resolver logs through.
func WithLogger(logger *log.Entry) Option {
	return func(r *Resolver) { r.logger = logger }
}

func newResolver(t transport.Transport, primary BundleID, opts ...Option) *Resolver {
	r := &Resolver{
		transport:       t,
		primaryBundleID: primary,
		markupParser:    entity.PlainParagraphParser{},
		logger:          log.NewEntry(log.StandardLogger()),
		topicCache:      make(map[string]wire.ResolvedInformation),
		symbolCache:     make(map[string]wire.ResolvedInformation),
		assetCache:      make(map[assetKey]wire.DataAsset),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromExecutable spawns path as a child process and performs the
// one-shot handshake: the child's very first stdout line must be a
// bundleIdentifier reply, which becomes the resolver's primary bundle id.
// Any other reply is a fatal construction error, and the spawned process is
// terminated before returning.
func NewFromExecutable(path string, childOpts []transport.ChildProcessOption, opts ...Option) (*Resolver, error) {
	t, err := transport.NewChildProcessTransport(path, childOpts...)
	if err != nil {
		return nil, err
	}

	resp, err := t.SendAndWait(context.Background(), nil)
	if err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("resolver: handshake: %w", err)
	}
	if !resp.IsBundleIdentifier() {
		_ = t.Close()
		return nil, &InvalidBundleIdentifierOutputFromExecutableError{Got: responseKindDescription(resp)}
	}

	primary := BundleID(*resp.BundleIdentifier)
	r := newResolver(t, primary, opts...)
	r.logger = r.logger.WithField("bundle_id", string(primary))
	r.logger.Info("resolver handshake complete")
	return r, nil
}

// NewFromService wraps a ServiceClient. No handshake is performed; primary
// is supplied directly by the caller, per spec section 4.3.
func NewFromService(client transport.ServiceClient, primary BundleID, opts ...Option) *Resolver {
	t := transport.NewServiceTransport(client)
	return newResolver(t, primary, opts...)
}

// PrimaryBundleID returns the resolver's immutable primary bundle id.
func (r *Resolver) PrimaryBundleID() BundleID { return r.primaryBundleID }

// Close terminates the underlying transport.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transport.Close()
}

// Resolve implements the external/fallback reference resolver role. If ref
// is already resolved it is returned unchanged. Otherwise its URL must
// carry this resolver's bundle id component; a URL with none at all means a
// local reference reached an external resolver, which is a programming
// error in how the host wired its pipeline and panics rather than failing
// softly. A URL that carries a bundle component but otherwise fails to
// parse returns a structured failure instead.
func (r *Resolver) Resolve(ref TopicReference, sourceLanguage wire.Language) TopicReference {
	if ref.IsResolved() {
		return ref
	}

	url := ref.url
	bundleID, path, fragment, hasBundle, err := parseDocURL(url)
	if !hasBundle {
		panic(fmt.Sprintf("resolver: local reference %q reached an external resolver", url))
	}
	if err != nil {
		return FailedTopicReference(url, fmt.Sprintf("malformed reference URL %q: %s", url, err))
	}
	_ = bundleID // parsed only to satisfy the "must carry a bundle id" precondition

	r.mu.Lock()
	defer r.mu.Unlock()

	info, err := r.resolveInformationForTopicURL(url)
	if err != nil {
		metrics.ResolveTotal.WithLabelValues("topic", "failed").Inc()
		return FailedTopicReference(url, err.Error())
	}

	metrics.ResolveTotal.WithLabelValues("topic", "resolved").Inc()
	return ResolvedTopicReference(ResolvedReference{
		BundleID: r.primaryBundleID,
		Path:     path,
		Fragment: fragment,
		Language: info.Language,
	})
}

// Entity implements entity(reference): the reference's canonical URL must
// already be present in the topic cache. A miss is a contract violation —
// this resolver minted the reference, so it must already know how to
// explain it — and aborts the process via panic rather than returning an
// error.
func (r *Resolver) Entity(ref ResolvedReference) entity.DocumentationNode {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.topicCache[ref.requestURLKey()]
	if !ok {
		panic(fmt.Sprintf("resolver: reference %q was not found in the topic cache", ref.requestURLKey()))
	}
	return entity.Project(ref.requestURLKey(), info, r.markupParser)
}

// URLForResolvedReference returns the canonical URL stored for ref. Same
// cache-hit precondition as Entity.
func (r *Resolver) URLForResolvedReference(ref ResolvedReference) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.topicCache[ref.requestURLKey()]; !ok {
		panic(fmt.Sprintf("resolver: reference %q was not found in the topic cache", ref.requestURLKey()))
	}
	return r.topicCache[ref.requestURLKey()].URL
}

// EntityIfPreviouslyResolved consults the topic cache without issuing a
// resolve request, returning (node, true) on a hit and (zero, false) on a
// miss.
func (r *Resolver) EntityIfPreviouslyResolved(ref ResolvedReference) (entity.DocumentationNode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.topicCache[ref.requestURLKey()]
	if !ok {
		return entity.DocumentationNode{}, false
	}
	return entity.Project(ref.requestURLKey(), info, r.markupParser), true
}

// URLForResolvedReferenceIfPreviouslyResolved is the fallback-safe sibling
// of URLForResolvedReference.
func (r *Resolver) URLForResolvedReferenceIfPreviouslyResolved(ref ResolvedReference) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.topicCache[ref.requestURLKey()]
	if !ok {
		return "", false
	}
	return info.URL, true
}

// SymbolEntity implements the external symbol resolver role: issues
// symbol(preciseIdentifier), caches the reply keyed by the identifier, and
// mints a ResolvedReference tagged with the synthetic symbol bundle id. The
// caller presents only a USR, so the reply is assumed to describe a
// symbol; if its kind disagrees, projection still runs (falling back to the
// non-symbol shape) but the reference is minted regardless.
func (r *Resolver) SymbolEntity(preciseIdentifier string) (entity.DocumentationNode, ResolvedReference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, err := r.resolveInformationForSymbolIdentifier(preciseIdentifier)
	if err != nil {
		metrics.ResolveTotal.WithLabelValues("symbol", "failed").Inc()
		return entity.DocumentationNode{}, ResolvedReference{}, err
	}
	metrics.ResolveTotal.WithLabelValues("symbol", "resolved").Inc()

	ref := ResolvedReference{
		BundleID: SyntheticSymbolBundleID,
		Path:     "/" + preciseIdentifier,
		Language: info.Language,
	}
	node := entity.Project(ref.requestURLKey(), info, r.markupParser)
	return node, ref, nil
}

// URLForResolvedSymbol returns the cached URL for a symbol reference, or
// false if ref does not carry the synthetic symbol bundle id. A reference
// that does carry it but misses the symbol cache is a contract violation
// and panics, mirroring Entity / URLForResolvedReference.
func (r *Resolver) URLForResolvedSymbol(ref ResolvedReference) (string, bool) {
	if ref.BundleID != SyntheticSymbolBundleID {
		return "", false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := lastPathComponent(ref.Path)
	info, ok := r.symbolCache[id]
	if !ok {
		panic(fmt.Sprintf("resolver: symbol reference %q was not found in the symbol cache", id))
	}
	return info.URL, true
}

// PreciseIdentifier returns the USR a ResolvedReference was minted from,
// iff its bundle id is the synthetic symbol id. ref may be in any of the
// three TopicReference states; only its carried bundle id (if resolved)
// matters.
func (r *Resolver) PreciseIdentifier(ref TopicReference) (string, bool) {
	resolved, ok := ref.Resolved()
	if !ok || resolved.BundleID != SyntheticSymbolBundleID {
		return "", false
	}
	return lastPathComponent(resolved.Path), true
}

// ResolveAsset implements the fallback asset resolver role. Errors are
// swallowed: assets are best-effort, so any non-asset reply (including a
// forwarded error) returns (zero, false) rather than an error.
func (r *Resolver) ResolveAsset(assetName, bundleIdentifier string) (wire.DataAsset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := assetKey{name: assetName, bundleID: bundleIdentifier}
	if asset, ok := r.assetCache[key]; ok {
		metrics.ResolveTotal.WithLabelValues("asset", "cache-hit").Inc()
		return asset, true
	}

	asset, err := r.resolveInformationForAsset(assetName, bundleIdentifier)
	if err != nil {
		metrics.AssetSwallowedTotal.Inc()
		r.logger.WithError(err).Debug("asset resolution failed, swallowing per best-effort policy")
		return wire.DataAsset{}, false
	}

	r.assetCache[key] = asset
	metrics.ResolveTotal.WithLabelValues("asset", "resolved").Inc()
	return asset, true
}

// resolveInformationForTopicURL is cache lookup -> transport call -> switch
// on reply variant, for topic requests. Caller must hold r.mu.
func (r *Resolver) resolveInformationForTopicURL(url string) (wire.ResolvedInformation, error) {
	if info, ok := r.topicCache[url]; ok {
		metrics.ResolveTotal.WithLabelValues("topic", "cache-hit").Inc()
		return info, nil
	}

	resp, err := r.transport.SendAndWait(context.Background(), wire.NewTopicRequest(url))
	if err != nil {
		return wire.ResolvedInformation{}, err
	}

	info, err := r.informationFromReply(resp, fmt.Sprintf("topic: %q", url))
	if err != nil {
		return wire.ResolvedInformation{}, err
	}
	r.topicCache[url] = info
	return info, nil
}

// resolveInformationForSymbolIdentifier is the symbol analogue of
// resolveInformationForTopicURL. Caller must hold r.mu.
func (r *Resolver) resolveInformationForSymbolIdentifier(preciseIdentifier string) (wire.ResolvedInformation, error) {
	if info, ok := r.symbolCache[preciseIdentifier]; ok {
		metrics.ResolveTotal.WithLabelValues("symbol", "cache-hit").Inc()
		return info, nil
	}

	resp, err := r.transport.SendAndWait(context.Background(), wire.NewSymbolRequest(preciseIdentifier))
	if err != nil {
		return wire.ResolvedInformation{}, err
	}

	info, err := r.informationFromReply(resp, fmt.Sprintf("symbol: %q", preciseIdentifier))
	if err != nil {
		return wire.ResolvedInformation{}, err
	}
	r.symbolCache[preciseIdentifier] = info
	return info, nil
}

// resolveInformationForAsset issues an asset request and decodes the
// DataAsset reply. Caller must hold r.mu. It raises the same typed errors as
// the topic/symbol helpers; ResolveAsset, its only caller, swallows them all.
func (r *Resolver) resolveInformationForAsset(assetName, bundleIdentifier string) (wire.DataAsset, error) {
	resp, err := r.transport.SendAndWait(context.Background(), wire.NewAssetRequest(assetName, bundleIdentifier))
	if err != nil {
		return wire.DataAsset{}, err
	}

	switch {
	case resp.Asset != nil:
		return *resp.Asset, nil
	case resp.ErrorMessage != nil:
		return wire.DataAsset{}, &ForwardedErrorFromClientError{Message: *resp.ErrorMessage}
	case resp.BundleIdentifier != nil:
		return wire.DataAsset{}, &ExecutableSentBundleIdentifierAgainError{BundleID: *resp.BundleIdentifier}
	default:
		return wire.DataAsset{}, &UnexpectedResponseError{Description: fmt.Sprintf("asset: %q in bundle %q", assetName, bundleIdentifier), Kind: responseKindDescription(resp)}
	}
}

// informationFromReply raises the typed errors resolveInformationFor* share:
// a post-handshake bundleIdentifier is illegal, an errorMessage is forwarded
// verbatim, and any reply missing resolvedInformation entirely is unexpected.
func (r *Resolver) informationFromReply(resp *wire.Response, description string) (wire.ResolvedInformation, error) {
	switch {
	case resp.ResolvedInformation != nil:
		return *resp.ResolvedInformation, nil
	case resp.ErrorMessage != nil:
		return wire.ResolvedInformation{}, &ForwardedErrorFromClientError{Message: *resp.ErrorMessage}
	case resp.BundleIdentifier != nil:
		return wire.ResolvedInformation{}, &ExecutableSentBundleIdentifierAgainError{BundleID: *resp.BundleIdentifier}
	default:
		return wire.ResolvedInformation{}, &UnexpectedResponseError{Description: description, Kind: responseKindDescription(resp)}
	}
}

func responseKindDescription(resp *wire.Response) string {
	switch {
	case resp.IsBundleIdentifier():
		return fmt.Sprintf("bundleIdentifier: %q", *resp.BundleIdentifier)
	case resp.ErrorMessage != nil:
		return fmt.Sprintf("errorMessage: %q", *resp.ErrorMessage)
	case resp.ResolvedInformation != nil:
		return "resolvedInformation"
	case resp.Asset != nil:
		return "asset"
	default:
		return "<empty>"
	}
}

func lastPathComponent(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// parseDocURL splits a "doc://bundleID/path#fragment" reference URL into
// its components. hasBundle is false iff url carries no bundle component at
// all (the local-reference-as-programming-error case); err is non-nil for
// any other structural malformation once a bundle component is present.
func parseDocURL(url string) (bundleID, path, fragment string, hasBundle bool, err error) {
	const scheme = "doc://"
	if !strings.HasPrefix(url, scheme) {
		return "", "", "", false, nil
	}

	rest := url[len(scheme):]
	if rest == "" {
		return "", "", "", false, nil
	}

	if idx := strings.IndexByte(rest, '#'); idx >= 0 {
		fragment = rest[idx+1:]
		rest = rest[:idx]
	}

	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return "", "", "", false, fmt.Errorf("missing path component")
	}
	bundleID = rest[:slash]
	path = rest[slash:]
	if bundleID == "" {
		return "", "", "", false, nil
	}
	return bundleID, path, fragment, true, nil
}
