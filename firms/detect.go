package firms

import "regexp"

type firmPattern struct {
	slug     string
	patterns []*regexp.Regexp
}

// detectors must stay in the same order as supported.
var detectors = []firmPattern{
	{"topstep", compile(`topstep`, `top step`)},
	{"myfundedfutures", compile(`my funded futures`, `myfundedfutures`, `\bmff\b`)},
	{"tradeify", compile(`tradeify`)},
	{"alpha-futures", compile(`alpha futures`, `alpha-futures`, `alphafutures`)},
	{"ftmo", compile(`\bftmo\b`)},
	{"fundednext", compile(`funded next`, `fundednext`, `funded-next`)},
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

// DetectFirm finds the first supported firm mentioned in free text, e.g. a
// chat message. Firms are tried in enumeration order.
func DetectFirm(text string) (string, bool) {
	for _, d := range detectors {
		for _, re := range d.patterns {
			if re.MatchString(text) {
				return d.slug, true
			}
		}
	}
	return "", false
}
