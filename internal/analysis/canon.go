package analysis

import "strings"

// Canonicalizer maps free-text case-study answers onto a question's vocabulary
type Canonicalizer func(string) string

// CanonSet holds one canonicalizer per question; questions without an entry fall
// back to Normalize.
type CanonSet map[int]Canonicalizer

// Apply canonicalizes an answer for question q
func (cs CanonSet) Apply(q int, s string) string {
	if fn, ok := cs[q]; ok && fn != nil {
		return fn(s)
	}
	return Normalize(s)
}

// DefaultCanonSet returns the rules for the stock twelve-question survey
func DefaultCanonSet() CanonSet {
	return CanonSet{
		1:  Normalize,
		2:  CanonOperations,
		3:  CanonGovernance,
		4:  CanonPricing,
		5:  CanonLevel,
		6:  CanonSchedule,
		7:  CanonProcurement,
		8:  Normalize,
		9:  CanonLevel,
		10: CanonLevel,
		11: CanonLevel,
		12: CanonLevel,
	}
}

var levels = map[string]string{
	"very high": "Very High",
	"high":      "High",
	"medium":    "Medium",
	"low":       "Low",
	"extreme":   "Extreme",
}

// CanonLevel maps risk/intensity levels and the co-location answer
func CanonLevel(s string) string {
	n := Normalize(s)
	t := strings.ToLower(n)
	if strings.HasPrefix(t, "co-") {
		return "Co-Located"
	}
	if v, ok := levels[t]; ok {
		return v
	}
	return capitalize(n)
}

// CanonOperations maps the post-construction operations scope
func CanonOperations(s string) string {
	n := Normalize(s)
	u := strings.ToUpper(n)
	switch {
	case strings.Contains(u, "FINANCE + OPERATE"):
		return "Finance + Operate"
	case strings.Contains(u, "SHORT"):
		return "Short-term O&M"
	case strings.Contains(u, "LONG"):
		return "Long-term O&M"
	case strings.Contains(u, "NONE"):
		return "None"
	}
	return n
}

// CanonGovernance maps approval-chain sizes
func CanonGovernance(s string) string {
	n := Normalize(s)
	u := strings.ToUpper(n)
	switch {
	case strings.Contains(u, "SMALL"):
		return "Small (1 Approver)"
	case strings.Contains(u, "MEDIUM"):
		return "Medium (2-3 Approvers)"
	case strings.Contains(u, "LARGE"):
		return "Large (4-6 Approvers)"
	case strings.Contains(u, "MEGA"):
		return "Mega (7+ Approvers)"
	}
	return n
}

// CanonPricing maps contract pricing models
func CanonPricing(s string) string {
	n := Normalize(s)
	u := strings.ToUpper(n)
	switch {
	case strings.Contains(u, "LUMP"):
		return "Lump Sum"
	case u == "GMP":
		return "GMP"
	case strings.Contains(u, "COST"):
		return "Cost-Plus"
	case strings.Contains(u, "PERFORMANCE"):
		return "Performance-Based"
	}
	return n
}

// CanonSchedule recognizes fast-tracked schedules
func CanonSchedule(s string) string {
	n := Normalize(s)
	if strings.Contains(strings.ToLower(n), "fast") {
		return "Fast-track"
	}
	return capitalize(n)
}

// CanonProcurement maps procurement methods, ignoring a "(JOC)" suffix
func CanonProcurement(s string) string {
	t := strings.TrimSpace(strings.ReplaceAll(Normalize(s), "(JOC)", ""))
	u := strings.ToUpper(t)
	switch {
	case strings.Contains(u, "COMPETITIVE"):
		return "Competitive Bid"
	case strings.Contains(u, "NEGOTIATED"):
		return "Negotiated"
	case strings.Contains(u, "FRAMEWORK"):
		return "Framework"
	case strings.Contains(u, "BEST"):
		return "Best-Value"
	}

	parts := strings.Split(t, "-")
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, "-")
}

// CanonicalStyle normalizes an expected-style label, folding the hyphenated
// "Design-Build" spelling onto the canonical one.
func CanonicalStyle(s string) Style {
	n := Normalize(s)
	if n == "Lean: Design-Build" {
		return StyleDesignBuild
	}
	return Style(n)
}
