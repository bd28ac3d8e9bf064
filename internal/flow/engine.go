package flow

import "errors"

var (
	ErrNoAnswer         = errors.New("no option selected for current question")
	ErrUnknownOption    = errors.New("option not found on current question")
	ErrPendingConfirm   = errors.New("a dangerous option is awaiting confirmation")
	ErrNothingToConfirm = errors.New("no dangerous option awaiting confirmation")
	ErrFlowTerminal     = errors.New("flow already reached a terminal verdict")
)

// Verdict is the terminal outcome of an eligibility session.
type Verdict string

const (
	VerdictUndetermined Verdict = "undetermined"
	VerdictEligible     Verdict = "eligible"
	VerdictIneligible   Verdict = "ineligible"
)

// AnswerSet maps question ID to the chosen option value. An empty-string
// value means the flow jumped past the question and it was recorded as
// explicitly skipped. Keys are only ever added or overwritten; the sole way
// to remove one is Restart.
type AnswerSet map[string]string

// Clone returns an independent copy of the answer set.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Answered counts non-placeholder entries.
func (a AnswerSet) Answered() int {
	n := 0
	for _, v := range a {
		if v != "" {
			n++
		}
	}
	return n
}

// Pending records a dangerous option selection that awaits confirmation. The
// answer is not committed until Confirm.
type Pending struct {
	QuestionID string `json:"question_id"`
	Value      string `json:"value"`
}

// Engine drives a single eligibility session through its flow. It is a pure,
// synchronous state machine: no I/O, no clock, no goroutines. Persistence of
// the answer set is the caller's concern.
type Engine struct {
	flow    *Flow
	idx     int
	answers AnswerSet
	verdict Verdict
	pending *Pending
}

func NewEngine(f *Flow) *Engine {
	return &Engine{
		flow:    f,
		answers: make(AnswerSet),
		verdict: VerdictUndetermined,
	}
}

// Resume rebuilds an engine from a previously persisted answer set. The
// position is the first question without a recorded entry (skipped
// placeholders count as recorded). A dangerous answer anywhere in the
// restored trail immediately re-establishes the ineligible verdict, so a
// reload can never resurrect an eligible path.
func Resume(f *Flow, answers AnswerSet) *Engine {
	e := NewEngine(f)
	if len(answers) == 0 {
		return e
	}
	e.answers = answers.Clone()

	e.idx = f.Len() - 1
	for i := 0; i < f.Len(); i++ {
		if _, ok := e.answers[f.QuestionAt(i).ID]; !ok {
			e.idx = i
			break
		}
	}
	if e.hasDangerousAnswer() {
		e.verdict = VerdictIneligible
	}
	return e
}

// Restore rebuilds an engine from an externally persisted snapshot of
// position, verdict and pending confirmation. The dangerous-answer scan runs
// again regardless of the stored verdict.
func Restore(f *Flow, answers AnswerSet, index int, verdict Verdict, pending *Pending) *Engine {
	e := NewEngine(f)
	if answers != nil {
		e.answers = answers.Clone()
	}
	if index >= 0 && index < f.Len() {
		e.idx = index
	}
	switch verdict {
	case VerdictEligible, VerdictIneligible:
		e.verdict = verdict
	}
	if pending != nil {
		p := *pending
		e.pending = &p
	}
	if e.hasDangerousAnswer() {
		e.verdict = VerdictIneligible
	}
	return e
}

// Current returns the question at the engine's position.
func (e *Engine) Current() Question { return e.flow.QuestionAt(e.idx) }

// Index returns the current question index in flow order.
func (e *Engine) Index() int { return e.idx }

// Verdict returns the terminal verdict, or VerdictUndetermined while the
// session is still in flight.
func (e *Engine) Verdict() Verdict { return e.verdict }

// Answers returns a copy of the answer trail.
func (e *Engine) Answers() AnswerSet { return e.answers.Clone() }

// PendingConfirmation returns the dangerous selection awaiting confirmation,
// or nil.
func (e *Engine) PendingConfirmation() *Pending {
	if e.pending == nil {
		return nil
	}
	p := *e.pending
	return &p
}

// Progress returns (index+1)/total. Skip logic can bypass questions, so this
// is a presentational approximation rather than a count of remaining steps.
func (e *Engine) Progress() float64 {
	return float64(e.idx+1) / float64(e.flow.Len())
}

// Select records the option with the given value for the current question.
// Dangerous options are parked for confirmation instead of being committed.
func (e *Engine) Select(value string) error {
	if e.verdict != VerdictUndetermined {
		return ErrFlowTerminal
	}
	if e.pending != nil {
		return ErrPendingConfirm
	}
	q := e.Current()
	o, ok := q.Option(value)
	if !ok {
		return ErrUnknownOption
	}
	if o.Dangerous {
		e.pending = &Pending{QuestionID: q.ID, Value: o.Value}
		return nil
	}
	e.answers[q.ID] = o.Value
	return nil
}

// Confirm commits the pending dangerous answer, then scans the entire trail
// for any dangerous value. A dangerous answer anywhere is sufficient to
// disqualify, regardless of when it was given, so the verdict goes straight
// to ineligible and no further question is shown.
func (e *Engine) Confirm() error {
	if e.pending == nil {
		return ErrNothingToConfirm
	}
	e.answers[e.pending.QuestionID] = e.pending.Value
	e.pending = nil
	if e.hasDangerousAnswer() {
		e.verdict = VerdictIneligible
	}
	return nil
}

// Cancel discards the pending dangerous selection without touching the
// answer set.
func (e *Engine) Cancel() {
	e.pending = nil
}

// Advance moves past the current question. The current question must carry a
// committed, non-placeholder answer. Skip directives on the selected option
// mark every bypassed question as explicitly skipped before jumping.
func (e *Engine) Advance() error {
	if e.verdict != VerdictUndetermined {
		return ErrFlowTerminal
	}
	if e.pending != nil {
		return ErrPendingConfirm
	}

	q := e.Current()
	value, ok := e.answers[q.ID]
	if !ok || value == "" {
		return ErrNoAnswer
	}
	o, ok := q.Option(value)
	if !ok {
		return ErrUnknownOption
	}

	switch {
	case o.SkipTo == SkipToComplete:
		for i := e.idx + 1; i < e.flow.Len(); i++ {
			id := e.flow.QuestionAt(i).ID
			if _, present := e.answers[id]; !present {
				e.answers[id] = ""
			}
		}
		e.verdict = VerdictEligible

	case o.SkipTo != "":
		target, _ := e.flow.IndexOf(o.SkipTo)
		for i := e.idx + 1; i < target; i++ {
			e.answers[e.flow.QuestionAt(i).ID] = ""
		}
		e.idx = target

	case e.idx == e.flow.Len()-1:
		e.verdict = VerdictEligible

	default:
		e.idx++
	}
	return nil
}

// Back moves to the nearest preceding question with a non-empty recorded
// answer, skipping over placeholder-skipped questions. At the first question
// it is a no-op. From a terminal state it first returns to the question the
// flow stopped at.
func (e *Engine) Back() {
	e.pending = nil
	if e.verdict != VerdictUndetermined {
		e.verdict = VerdictUndetermined
		return
	}
	for i := e.idx - 1; i >= 0; i-- {
		if e.answers[e.flow.QuestionAt(i).ID] != "" {
			e.idx = i
			return
		}
	}
}

// Restart clears the answer trail and returns to the first question.
func (e *Engine) Restart() {
	e.idx = 0
	e.answers = make(AnswerSet)
	e.verdict = VerdictUndetermined
	e.pending = nil
}

func (e *Engine) hasDangerousAnswer() bool {
	for id, value := range e.answers {
		if e.flow.isDangerousAnswer(id, value) {
			return true
		}
	}
	return false
}
