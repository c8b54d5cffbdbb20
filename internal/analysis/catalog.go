package analysis

import (
	"fmt"
	"strings"
)

// Style is one of the fixed project-delivery approaches a response is classified into
type Style string

const (
	StyleDesignBuild Style = "Lean: Design Build"
	StyleCMAR        Style = "Lean: CMAR"
	StyleJOC         Style = "Lean: JOC"
	StyleIPD         Style = "Agile: IPD"
	StyleP3          Style = "Agile: P3"
	StyleDBB         Style = "Predictive: DBB"
	StyleBOT         Style = "Predictive: BOT"
)

const (
	StyleCount         = 7
	QuestionCount      = 12
	DefaultAlpha       = 1.0
	DefaultOptionLabel = "Unknown"
)

// MissPolicy decides what happens when an answer key has no weight row
type MissPolicy string

const (
	// MissZero skips the question, contributing nothing to any style
	MissZero MissPolicy = "zero"
	// MissFail rejects the answer vector
	MissFail MissPolicy = "fail"
)

// ParseMissPolicy accepts "zero" or "fail", case-insensitively
func ParseMissPolicy(s string) (MissPolicy, error) {
	switch MissPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case MissZero, "":
		return MissZero, nil
	case MissFail:
		return MissFail, nil
	default:
		return "", fmt.Errorf("unknown miss policy %q (want zero or fail)", s)
	}
}

// StyleInfo pairs a style with its one-line description
type StyleInfo struct {
	Style       Style  `json:"style"`
	Description string `json:"description"`
}

// DefaultStyles is the canonical enumeration. Order is significant: it fixes the
// score vector layout and breaks ties.
func DefaultStyles() []StyleInfo {
	return []StyleInfo{
		{StyleDesignBuild, "Single contract for design+construction enabling early builder input, fast-track overlap, and unified accountability."},
		{StyleCMAR, "CM engaged early for precon, then builder under GMP; early input, open-book costs, strong phasing/constructability."},
		{StyleJOC, "Programmatic unit-price contracting via task orders; great for many small/repetitive jobs and fast admin."},
		{StyleIPD, "Multiparty agreement with shared risk/reward; early trades, TVD, pull planning, and high transparency for complex work."},
		{StyleP3, "Private partner may design/build/finance/operate; shifts lifecycle risk with performance-tied payments."},
		{StyleDBB, "Complete design then low-bid construction; roles clear, best when scope stable and compliance strict."},
		{StyleBOT, "Concessionaire finances, designs, builds, operates, then transfers back; aligns lifecycle incentives."},
	}
}

// Catalog is the immutable domain configuration shared by the normalizer,
// scorer and calibrator.
type Catalog struct {
	styles       []Style
	descriptions map[Style]string
	index        map[Style]int
	onMiss       MissPolicy
	alpha        float64
}

// NewCatalog validates and freezes a style enumeration
func NewCatalog(styles []StyleInfo, onMiss MissPolicy, alpha float64) (*Catalog, error) {
	if len(styles) != StyleCount {
		return nil, fmt.Errorf("catalog needs exactly %d styles, got %d", StyleCount, len(styles))
	}
	if onMiss != MissZero && onMiss != MissFail {
		return nil, fmt.Errorf("unknown miss policy %q", onMiss)
	}
	if alpha <= 0 {
		return nil, fmt.Errorf("ridge alpha must be positive, got %v", alpha)
	}

	c := &Catalog{
		styles:       make([]Style, 0, len(styles)),
		descriptions: make(map[Style]string, len(styles)),
		index:        make(map[Style]int, len(styles)),
		onMiss:       onMiss,
		alpha:        alpha,
	}
	for i, s := range styles {
		name := Style(strings.TrimSpace(string(s.Style)))
		if name == "" {
			return nil, fmt.Errorf("style %d has no name", i+1)
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("duplicate style %q", name)
		}
		c.index[name] = i
		c.styles = append(c.styles, name)
		c.descriptions[name] = s.Description
	}

	return c, nil
}

// DefaultCatalog returns the stock styles with zero-on-miss and alpha 1.0
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultStyles(), MissZero, DefaultAlpha)
	if err != nil {
		panic(err)
	}
	return c
}

// Styles returns the enumeration in order
func (c *Catalog) Styles() []Style {
	return append([]Style(nil), c.styles...)
}

// StyleIndex returns the enumeration position of a style, or -1
func (c *Catalog) StyleIndex(s Style) int {
	if i, ok := c.index[s]; ok {
		return i
	}
	return -1
}

// IsStyle reports whether a column or label names a known style
func (c *Catalog) IsStyle(name string) bool {
	_, ok := c.index[Style(name)]
	return ok
}

func (c *Catalog) Description(s Style) string {
	return c.descriptions[s]
}

// Infos returns styles with descriptions in enumeration order
func (c *Catalog) Infos() []StyleInfo {
	out := make([]StyleInfo, len(c.styles))
	for i, s := range c.styles {
		out[i] = StyleInfo{Style: s, Description: c.descriptions[s]}
	}
	return out
}

// Questions returns 1..QuestionCount
func (c *Catalog) Questions() []int {
	qs := make([]int, QuestionCount)
	for i := range qs {
		qs[i] = i + 1
	}
	return qs
}

// ValidQuestion reports whether q is one of the fixed questions
func (c *Catalog) ValidQuestion(q int) bool {
	return q >= 1 && q <= QuestionCount
}

func (c *Catalog) OnMiss() MissPolicy { return c.onMiss }

func (c *Catalog) Alpha() float64 { return c.alpha }

// WithMissPolicy returns a copy of the catalog using a different miss policy
func (c *Catalog) WithMissPolicy(p MissPolicy) (*Catalog, error) {
	return NewCatalog(c.Infos(), p, c.alpha)
}

// QuestionColumn is the response-file column for question q ("Q1".."Q12")
func QuestionColumn(q int) string {
	return fmt.Sprintf("Q%d", q)
}
