package entity

// canonicalDomains maps platform display names the peer may report to the
// canonical domain identifier a host's availability table expects. Only
// "Mac Catalyst" has a non-identity mapping today; every other name passes
// through verbatim.
var canonicalDomains = map[string]string{
	"Mac Catalyst": "macCatalyst",
}

// normalizeDomain maps a platform display name to its canonical domain
// identifier, passing unrecognized names through unchanged.
func normalizeDomain(name string) string {
	if canonical, ok := canonicalDomains[name]; ok {
		return canonical
	}
	return name
}
