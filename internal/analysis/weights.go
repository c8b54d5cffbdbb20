package analysis

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/methodmatch/internal/tabular"
)

// Weight table columns
const (
	ColQuestion     = "question"
	ColQuestionText = "question_text"
	ColAnswerText   = "answer_text"
	ColAnswerCode   = "answer_code"
	ColAnswerLabel  = "answer_label"
)

// RequiredWeightColumns must appear in every weight table
var RequiredWeightColumns = []string{ColQuestion, ColQuestionText, ColAnswerText}

// WeightRow is one (question, answer option) entry
type WeightRow struct {
	Question     int               `json:"question"`
	QuestionText string            `json:"question_text"`
	AnswerText   string            `json:"answer_text"`
	AnswerCode   string            `json:"answer_code,omitempty"`
	AnswerLabel  string            `json:"answer_label,omitempty"`
	Weights      map[Style]float64 `json:"weights"`
}

type answerRef struct {
	question int
	key      string
}

// WeightTable maps (question, answer key) to a weight per style. It is
// immutable once loaded; calibration produces a new table.
type WeightTable struct {
	catalog     *Catalog
	source      string
	header      []string
	cells       [][]string
	rows        []WeightRow
	styleCols   map[Style]int
	hasCode     bool
	hasLabel    bool
	index       map[answerRef]int
	fingerprint string
}

// LoadWeightTable validates a tabular source and builds the lookup index.
// Empty or non-numeric style cells are schema errors, never silent zeros.
func LoadWeightTable(t *tabular.Table, catalog *Catalog, source string) (*WeightTable, error) {
	missing := t.Missing(RequiredWeightColumns...)

	styleCols := make(map[Style]int)
	for i, h := range t.Header {
		if catalog.IsStyle(h) {
			styleCols[Style(h)] = i
		}
	}
	if len(styleCols) == 0 {
		missing = append(missing, "at least one style column")
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: source, Missing: missing}
	}

	if catalog.OnMiss() == MissFail {
		var absent []string
		for _, s := range catalog.Styles() {
			if _, ok := styleCols[s]; !ok {
				absent = append(absent, string(s))
			}
		}
		if len(absent) > 0 {
			return nil, &SchemaError{Source: source, Missing: absent, Detail: "strict mode requires every style column"}
		}
	}

	wt := &WeightTable{
		catalog:   catalog,
		source:    source,
		header:    append([]string(nil), t.Header...),
		cells:     t.Clone().Rows,
		styleCols: styleCols,
		hasCode:   t.Has(ColAnswerCode),
		hasLabel:  t.Has(ColAnswerLabel),
	}

	for i := range wt.cells {
		row, err := wt.parseRow(i)
		if err != nil {
			return nil, err
		}
		wt.rows = append(wt.rows, row)
	}

	wt.reindex()
	return wt, nil
}

func (wt *WeightTable) cell(i int, column string) string {
	for j, h := range wt.header {
		if h == column {
			if j < len(wt.cells[i]) {
				return wt.cells[i][j]
			}
			return ""
		}
	}
	return ""
}

func (wt *WeightTable) parseRow(i int) (WeightRow, error) {
	line := i + 2 // header is line 1

	q, err := parseQuestion(wt.cell(i, ColQuestion))
	if err != nil {
		return WeightRow{}, &SchemaError{Source: wt.source, Detail: fmt.Sprintf("line %d column %s: %v", line, ColQuestion, err)}
	}
	if !wt.catalog.ValidQuestion(q) {
		return WeightRow{}, &SchemaError{Source: wt.source, Detail: fmt.Sprintf("line %d: question %d outside 1..%d", line, q, QuestionCount)}
	}

	row := WeightRow{
		Question:     q,
		QuestionText: wt.cell(i, ColQuestionText),
		AnswerText:   wt.cell(i, ColAnswerText),
		AnswerCode:   wt.cell(i, ColAnswerCode),
		AnswerLabel:  wt.cell(i, ColAnswerLabel),
		Weights:      make(map[Style]float64, len(wt.styleCols)),
	}

	for s, j := range wt.styleCols {
		raw := ""
		if j < len(wt.cells[i]) {
			raw = strings.TrimSpace(wt.cells[i][j])
		}
		if raw == "" {
			return WeightRow{}, &SchemaError{Source: wt.source, Detail: fmt.Sprintf("line %d column %s: missing weight", line, s)}
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return WeightRow{}, &SchemaError{Source: wt.source, Detail: fmt.Sprintf("line %d column %s: %q is not a number", line, s, raw)}
		}
		row.Weights[s] = v
	}

	return row, nil
}

func parseQuestion(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if q, err := strconv.Atoi(raw); err == nil {
		return q, nil
	}
	// spreadsheets often export integers as "3.0"
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not an integer", raw)
	}
	return int(f), nil
}

// reindex rebuilds the lookup index and fingerprint after construction or calibration
func (wt *WeightTable) reindex() {
	wt.index = make(map[answerRef]int, len(wt.rows))
	for i, r := range wt.rows {
		ref := answerRef{question: r.Question, key: wt.Key(r)}
		if _, seen := wt.index[ref]; !seen {
			wt.index[ref] = i
		}
	}

	var buf bytes.Buffer
	if err := tabular.WriteCSV(&buf, wt.Table()); err == nil {
		sum := sha256.Sum256(buf.Bytes())
		wt.fingerprint = hex.EncodeToString(sum[:])
	}
}

// Source names where the table came from
func (wt *WeightTable) Source() string { return wt.source }

// Fingerprint is a SHA-256 of the serialized table
func (wt *WeightTable) Fingerprint() string { return wt.fingerprint }

func (wt *WeightTable) Len() int { return len(wt.rows) }

// Row returns a copy of row i
func (wt *WeightTable) Row(i int) WeightRow {
	r := wt.rows[i]
	r.Weights = make(map[Style]float64, len(wt.rows[i].Weights))
	for k, v := range wt.rows[i].Weights {
		r.Weights[k] = v
	}
	return r
}

func (wt *WeightTable) HasCode() bool  { return wt.hasCode }
func (wt *WeightTable) HasLabel() bool { return wt.hasLabel }

// Key is the stable scoring key: answer_code when the table has one, else answer_text
func (wt *WeightTable) Key(r WeightRow) string {
	if wt.hasCode {
		return r.AnswerCode
	}
	return r.AnswerText
}

// Display is the human-facing option label
func (wt *WeightTable) Display(r WeightRow) string {
	if wt.hasLabel {
		return Normalize(r.AnswerLabel)
	}
	return Normalize(r.AnswerText)
}

// StyleColumns lists the styles the table carries, in enumeration order
func (wt *WeightTable) StyleColumns() []Style {
	var out []Style
	for _, s := range wt.catalog.Styles() {
		if _, ok := wt.styleCols[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// MissingStyles lists enumeration styles the table has no column for
func (wt *WeightTable) MissingStyles() []Style {
	var out []Style
	for _, s := range wt.catalog.Styles() {
		if _, ok := wt.styleCols[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// entry finds the first row for (question, key)
func (wt *WeightTable) entry(question int, key string) (WeightRow, bool) {
	i, ok := wt.index[answerRef{question: question, key: key}]
	if !ok {
		return WeightRow{}, false
	}
	return wt.rows[i], true
}

// Lookup returns the weight of an answer for a style. ok is false when the
// (question, key) pair has no row; callers decide what absence means.
func (wt *WeightTable) Lookup(question int, key string, style Style) (weight float64, ok bool) {
	r, ok := wt.entry(question, key)
	if !ok {
		return 0, false
	}
	return r.Weights[style], true
}

// Questions returns the distinct questions present, ascending
func (wt *WeightTable) Questions() []int {
	seen := make(map[int]bool)
	var qs []int
	for _, r := range wt.rows {
		if !seen[r.Question] {
			seen[r.Question] = true
			qs = append(qs, r.Question)
		}
	}
	sort.Ints(qs)
	return qs
}

// Options returns the distinct scoring keys of a question in row order
func (wt *WeightTable) Options(question int) []string {
	return wt.distinct(question, wt.Key)
}

// TextOptions returns the distinct normalized answer texts of a question in row
// order. This is the vocabulary case studies are encoded against.
func (wt *WeightTable) TextOptions(question int) []string {
	return wt.distinct(question, func(r WeightRow) string { return Normalize(r.AnswerText) })
}

func (wt *WeightTable) distinct(question int, value func(WeightRow) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range wt.rows {
		if r.Question != question {
			continue
		}
		v := value(r)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// FormOption is one selectable answer
type FormOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// FormQuestion is what a presentation layer needs to render one question
type FormQuestion struct {
	Question int          `json:"question"`
	Text     string       `json:"text"`
	Options  []FormOption `json:"options"`
	Default  string       `json:"default"`
}

// Form builds the questionnaire model. Options are distinct by label; the
// default is the option labelled "Unknown" when present, else the first.
func (wt *WeightTable) Form() []FormQuestion {
	var out []FormQuestion
	for _, q := range wt.Questions() {
		fq := FormQuestion{Question: q}
		seen := make(map[string]bool)
		for _, r := range wt.rows {
			if r.Question != q {
				continue
			}
			if fq.Text == "" {
				fq.Text = Normalize(r.QuestionText)
			}
			label := wt.Display(r)
			if seen[label] {
				continue
			}
			seen[label] = true
			fq.Options = append(fq.Options, FormOption{Key: wt.Key(r), Label: label})
		}

		if len(fq.Options) > 0 {
			fq.Default = fq.Options[0].Key
		}
		for _, o := range fq.Options {
			if o.Label == DefaultOptionLabel {
				fq.Default = o.Key
				break
			}
		}
		out = append(out, fq)
	}
	return out
}

// Table serializes the weight table, preserving column and row order
func (wt *WeightTable) Table() *tabular.Table {
	t := &tabular.Table{
		Header: append([]string(nil), wt.header...),
		Rows:   make([][]string, len(wt.cells)),
	}
	for i, cells := range wt.cells {
		row := make([]string, len(wt.header))
		copy(row, cells)
		for s, j := range wt.styleCols {
			row[j] = FormatWeight(wt.rows[i].Weights[s])
		}
		t.Rows[i] = row
	}
	return t
}

// clone deep-copies the table for calibration
func (wt *WeightTable) clone() *WeightTable {
	out := &WeightTable{
		catalog:   wt.catalog,
		source:    wt.source,
		header:    append([]string(nil), wt.header...),
		cells:     make([][]string, len(wt.cells)),
		rows:      make([]WeightRow, len(wt.rows)),
		styleCols: make(map[Style]int, len(wt.styleCols)),
		hasCode:   wt.hasCode,
		hasLabel:  wt.hasLabel,
	}
	for i, c := range wt.cells {
		out.cells[i] = append([]string(nil), c...)
	}
	for i := range wt.rows {
		out.rows[i] = wt.Row(i)
	}
	for k, v := range wt.styleCols {
		out.styleCols[k] = v
	}
	return out
}

// ensureStyleColumn appends a zeroed column for a style the table lacks
func (wt *WeightTable) ensureStyleColumn(s Style) {
	if _, ok := wt.styleCols[s]; ok {
		return
	}
	wt.header = append(wt.header, string(s))
	wt.styleCols[s] = len(wt.header) - 1
	for i := range wt.cells {
		wt.cells[i] = append(wt.cells[i], "")
		wt.rows[i].Weights[s] = 0
	}
}

// FormatWeight renders a weight with the shortest exact representation
func FormatWeight(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
