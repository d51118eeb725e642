package parser

// QuestionState is the per-question-number variant state.
type QuestionState int

const (
	StateUnseen QuestionState = iota
	StateStemOnly
	StateVariantMode
)

func (s QuestionState) String() string {
	switch s {
	case StateStemOnly:
		return "stem_only"
	case StateVariantMode:
		return "variant_mode"
	}
	return "unseen"
}

type questionEntry struct {
	seen        bool
	variantMode bool
	stemID      int64
	lastPart    int
	// bullets maps a dash-stripped bullet label to the variant created for it.
	bullets map[string]int64
}

type optionEntry struct {
	next int
	ids  map[string]int64
}

// VariantTracker holds the cross-row state of one sheet extraction: which
// question numbers have a stem, which are in variant mode, the part counter per
// number, the bullet variants already created and the option ordering per
// question. A tracker must not be shared between sheets.
type VariantTracker struct {
	questions map[string]*questionEntry
	options   map[int64]*optionEntry
}

// NewVariantTracker returns an empty tracker.
func NewVariantTracker() *VariantTracker {
	return &VariantTracker{
		questions: make(map[string]*questionEntry),
		options:   make(map[int64]*optionEntry),
	}
}

func (t *VariantTracker) entry(number string) *questionEntry {
	e, ok := t.questions[number]
	if !ok {
		e = &questionEntry{bullets: make(map[string]int64)}
		t.questions[number] = e
	}
	return e
}

// State returns the current state of a question number.
func (t *VariantTracker) State(number string) QuestionState {
	e, ok := t.questions[number]
	switch {
	case !ok:
		return StateUnseen
	case e.variantMode:
		return StateVariantMode
	case e.seen:
		return StateStemOnly
	}
	return StateUnseen
}

// MarkSummary records that a table for number carries a summary marker,
// switching the number into variant mode. Variant mode is never left.
func (t *VariantTracker) MarkSummary(number string) {
	t.entry(number).variantMode = true
}

// IsVariantMode reports whether number is in variant mode.
func (t *VariantTracker) IsVariantMode(number string) bool {
	e, ok := t.questions[number]
	return ok && e.variantMode
}

// ShouldProcessAsStem reports whether number has no stem yet.
func (t *VariantTracker) ShouldProcessAsStem(number string) bool {
	e, ok := t.questions[number]
	return !ok || !e.seen
}

// ShouldSkipSummaryTable reports whether a summary table for an already seen
// variant-mode number must be dropped. Such tables repeat the question for a
// different base population.
func (t *VariantTracker) ShouldSkipSummaryTable(number string, hasSummary bool) bool {
	e, ok := t.questions[number]
	return ok && hasSummary && e.variantMode && e.seen
}

// RegisterStem records the part-1 question created for number.
func (t *VariantTracker) RegisterStem(number string, id int64) {
	e := t.entry(number)
	e.seen = true
	e.stemID = id
	e.lastPart = 1
}

// StemID returns the stem question id for number.
func (t *VariantTracker) StemID(number string) (int64, bool) {
	e, ok := t.questions[number]
	if !ok || !e.seen {
		return 0, false
	}
	return e.stemID, true
}

// NextPartNumber reserves and returns the next part number for number,
// starting at 2 for the first variant.
func (t *VariantTracker) NextPartNumber(number string) int {
	e := t.entry(number)
	if e.lastPart < 1 {
		e.lastPart = 1
	}
	e.lastPart++
	return e.lastPart
}

// VariantID returns the question created earlier for a bullet label.
func (t *VariantTracker) VariantID(number, label string) (int64, bool) {
	e, ok := t.questions[number]
	if !ok {
		return 0, false
	}
	id, ok := e.bullets[label]
	return id, ok
}

// RegisterVariant records the question created for a bullet label.
func (t *VariantTracker) RegisterVariant(number, label string, id int64) {
	t.entry(number).bullets[label] = id
}

func (t *VariantTracker) optionEntry(questionID int64) *optionEntry {
	o, ok := t.options[questionID]
	if !ok {
		o = &optionEntry{next: 1, ids: make(map[string]int64)}
		t.options[questionID] = o
	}
	return o
}

// OptionID returns the id of an option already stored for the question.
func (t *VariantTracker) OptionID(questionID int64, text string) (int64, bool) {
	o, ok := t.options[questionID]
	if !ok {
		return 0, false
	}
	id, ok := o.ids[text]
	return id, ok
}

// NextOptionOrder returns the order the next new option of the question receives.
func (t *VariantTracker) NextOptionOrder(questionID int64) int {
	return t.optionEntry(questionID).next
}

// RegisterOption records a stored option and advances the question's order.
func (t *VariantTracker) RegisterOption(questionID int64, text string, id int64) {
	o := t.optionEntry(questionID)
	if _, ok := o.ids[text]; ok {
		return
	}
	o.ids[text] = id
	o.next++
}
