// Package entity implements the bridge's pure projection from a peer's
// ResolvedInformation reply into the skeletal documentation types a host
// compiler consumes (spec component C4). Project has no side effects and
// depends only on its arguments, making it a natural snapshot-test target.
package entity

import "github.com/flowdocs/docresolver/go/wire"

// DocumentationNode is the skeletal documentation entity projected from a
// ResolvedInformation reply.
type DocumentationNode struct {
	Reference          string
	Kind               wire.Kind
	Language           wire.Language
	AvailableLanguages []wire.Language
	Name               string
	Abstract           MarkupDocument
	Symbol             *SymbolSemantic
	Platforms          []string
}

// SymbolSemantic is the sparse symbol-specific projection, present only
// when the replying kind is a symbol.
type SymbolSemantic struct {
	Kind                 wire.Kind
	Title                string
	DeclarationFragments []wire.DeclarationToken
	Availability         []AvailabilityEntry
}

// AvailabilityEntry carries only the fields spec section 4.4 calls for;
// every other availability field a host's richer type might have is left
// empty by this projection.
type AvailabilityEntry struct {
	Domain                     string
	Introduced                 *SemanticVersion
	Deprecated                 *SemanticVersion
	Obsoleted                  *SemanticVersion
	Renamed                    string
	UnconditionallyDeprecated  bool
	UnconditionallyUnavailable bool
}
