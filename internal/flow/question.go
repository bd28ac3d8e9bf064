package flow

import "fmt"

// SkipToComplete is the sentinel skip target meaning the flow is finished.
const SkipToComplete = "complete"

// Option is one selectable answer for a Question. A dangerous option, once
// confirmed, disqualifies the respondent. SkipTo redirects progression to a
// later question or to completion.
type Option struct {
	Value       string
	Label       string
	Description string
	Dangerous   bool
	SkipTo      string // question ID, SkipToComplete, or empty
}

// Question is one step of the eligibility flow. Questions are static
// configuration and never change after the flow is built.
type Question struct {
	ID      string
	Prompt  string
	Section string
	Options []Option
}

// Option returns the option with the given value, if any.
func (q Question) Option(value string) (Option, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// Flow is a validated, ordered question sequence. Every SkipTo target is
// checked against the question set at construction time, so traversal never
// has to handle a dangling reference.
type Flow struct {
	questions []Question
	index     map[string]int
}

func NewFlow(questions []Question) (*Flow, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("flow has no questions")
	}

	index := make(map[string]int, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question %d has empty id", i)
		}
		if _, exists := index[q.ID]; exists {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("question %q has no options", q.ID)
		}
		seen := make(map[string]struct{}, len(q.Options))
		for _, o := range q.Options {
			if o.Value == "" {
				return nil, fmt.Errorf("question %q has option with empty value", q.ID)
			}
			if _, dup := seen[o.Value]; dup {
				return nil, fmt.Errorf("question %q has duplicate option value %q", q.ID, o.Value)
			}
			seen[o.Value] = struct{}{}
		}
		index[q.ID] = i
	}

	for _, q := range questions {
		for _, o := range q.Options {
			if o.SkipTo == "" || o.SkipTo == SkipToComplete {
				continue
			}
			target, ok := index[o.SkipTo]
			if !ok {
				return nil, fmt.Errorf("question %q option %q skips to unknown question %q", q.ID, o.Value, o.SkipTo)
			}
			if target <= index[q.ID] {
				return nil, fmt.Errorf("question %q option %q skips backwards to %q", q.ID, o.Value, o.SkipTo)
			}
		}
	}

	return &Flow{questions: questions, index: index}, nil
}

// Len returns the number of questions in flow order.
func (f *Flow) Len() int { return len(f.questions) }

// QuestionAt returns the question at the given flow-order index.
func (f *Flow) QuestionAt(i int) Question { return f.questions[i] }

// IndexOf returns the flow-order index of the question with the given ID.
func (f *Flow) IndexOf(id string) (int, bool) {
	i, ok := f.index[id]
	return i, ok
}

// Questions returns the questions in flow order.
func (f *Flow) Questions() []Question {
	out := make([]Question, len(f.questions))
	copy(out, f.questions)
	return out
}

// isDangerousAnswer reports whether the recorded value for the question is a
// dangerous option. Placeholder (empty) values are never dangerous.
func (f *Flow) isDangerousAnswer(questionID, value string) bool {
	if value == "" {
		return false
	}
	i, ok := f.index[questionID]
	if !ok {
		return false
	}
	o, ok := f.questions[i].Option(value)
	return ok && o.Dangerous
}
