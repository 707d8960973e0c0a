package addon

// Token is the derived identity key for an add-on: "source:id" for
// resolved add-ons, "source:alias" for pending definitions. It is the
// sole identity used for deduplication, busy-tracking and diffing.
type Token string

// Token returns the add-on's identity key. Two add-ons with equal
// tokens denote the same logical add-on regardless of any other field.
func (a Addon) Token() Token {
	return Token(a.Source + ":" + a.ID)
}

// Token returns the definition's identity key, falling back to the
// alias since no id exists before resolution.
func (d Defn) Token() Token {
	return Token(d.Source + ":" + d.Alias)
}

// Token returns the catalogue entry's identity key, compatible with
// the token of the Addon it resolves into.
func (e CatalogueEntry) Token() Token {
	return Token(e.Source + ":" + e.ID)
}

// Same reports whether a and b denote the same resolved add-on, by
// source and id. Comparing a Defn (alias-keyed) against an Addon
// (id-keyed) is not meaningful; resolve first.
func Same(a, b Addon) bool {
	return a.Source == b.Source && a.ID == b.ID
}
