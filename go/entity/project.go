package entity

import "github.com/flowdocs/docresolver/go/wire"

// Project transforms a peer's ResolvedInformation reply into a
// DocumentationNode. reference is the canonical key the reply was resolved
// under; it is carried through unchanged for the host to correlate the node
// back to its originating reference. Project has no side effects: given the
// same inputs it always returns the same output, and depends on nothing
// beyond its arguments.
func Project(reference string, info wire.ResolvedInformation, parser MarkupParser) DocumentationNode {
	if parser == nil {
		parser = PlainParagraphParser{}
	}

	node := DocumentationNode{
		Reference:          reference,
		Kind:               info.Kind,
		Language:           info.Language,
		AvailableLanguages: info.AvailableLanguages,
		Name:               info.Title,
		Abstract:           parser.Parse(info.Abstract),
		Platforms:          platformNames(info.Platforms),
	}

	if info.Kind.IsSymbol {
		node.Symbol = &SymbolSemantic{
			Kind:                 info.Kind,
			Title:                info.Title,
			DeclarationFragments: info.DeclarationFragments,
			Availability:         projectAvailability(info.Platforms),
		}
	}

	return node
}

func platformNames(platforms []wire.Platform) []string {
	if len(platforms) == 0 {
		return nil
	}
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = p.Name
	}
	return names
}

func projectAvailability(platforms []wire.Platform) []AvailabilityEntry {
	if len(platforms) == 0 {
		return nil
	}
	entries := make([]AvailabilityEntry, len(platforms))
	for i, p := range platforms {
		entries[i] = AvailabilityEntry{
			Domain:                     normalizeDomain(p.Name),
			Introduced:                 parseVersionField(p.Introduced),
			Deprecated:                 parseVersionField(p.Deprecated),
			Obsoleted:                  parseVersionField(p.Obsoleted),
			Renamed:                    p.Renamed,
			UnconditionallyDeprecated:  p.UnconditionallyDeprecated,
			UnconditionallyUnavailable: p.UnconditionallyUnavailable,
		}
	}
	return entries
}

// parseVersionField parses a possibly-empty, possibly-unparseable version
// string into an absent (nil) or present *SemanticVersion.
func parseVersionField(s string) *SemanticVersion {
	if s == "" {
		return nil
	}
	v, ok := ParseTolerantVersion(s)
	if !ok {
		return nil
	}
	return &v
}
