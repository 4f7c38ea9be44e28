package firms

// Resolve returns the tier for exactly accountSize, with no nearest-size
// fallback. The returned tier is a copy.
func Resolve(b *Bundle, accountSize int) (Tier, error) {
	t, ok := b.Tiers[accountSize]
	if !ok {
		return Tier{}, &NotFoundError{Kind: KindTier, Firm: b.Slug, AccountSize: accountSize}
	}
	return t.clone(), nil
}
