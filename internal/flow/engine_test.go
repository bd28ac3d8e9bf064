package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuestions() []Question {
	return []Question{
		{
			ID:     "q1",
			Prompt: "First question",
			Options: []Option{
				{Value: "a", Label: "A"},
				{Value: "skip", Label: "Skip ahead", SkipTo: "q4"},
				{Value: "done", Label: "Done early", SkipTo: SkipToComplete},
				{Value: "bad", Label: "Bad", Dangerous: true},
			},
		},
		{
			ID:     "q2",
			Prompt: "Second question",
			Options: []Option{
				{Value: "a", Label: "A"},
				{Value: "bad", Label: "Bad", Dangerous: true},
			},
		},
		{
			ID:     "q3",
			Prompt: "Third question",
			Options: []Option{
				{Value: "a", Label: "A"},
			},
		},
		{
			ID:     "q4",
			Prompt: "Fourth question",
			Options: []Option{
				{Value: "a", Label: "A"},
			},
		},
	}
}

func newTestFlow(t *testing.T) *Flow {
	t.Helper()
	f, err := NewFlow(testQuestions())
	require.NoError(t, err)
	return f
}

func TestNewFlowValidation(t *testing.T) {
	tests := []struct {
		name      string
		questions []Question
	}{
		{name: "empty flow", questions: nil},
		{
			name: "duplicate question id",
			questions: []Question{
				{ID: "q1", Options: []Option{{Value: "a"}}},
				{ID: "q1", Options: []Option{{Value: "a"}}},
			},
		},
		{
			name:      "question without options",
			questions: []Question{{ID: "q1"}},
		},
		{
			name: "duplicate option value",
			questions: []Question{
				{ID: "q1", Options: []Option{{Value: "a"}, {Value: "a"}}},
			},
		},
		{
			name: "skip to unknown question",
			questions: []Question{
				{ID: "q1", Options: []Option{{Value: "a", SkipTo: "missing"}}},
			},
		},
		{
			name: "skip backwards",
			questions: []Question{
				{ID: "q1", Options: []Option{{Value: "a"}}},
				{ID: "q2", Options: []Option{{Value: "a", SkipTo: "q1"}}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFlow(tt.questions)
			assert.Error(t, err)
		})
	}
}

func TestSelectAndAdvance(t *testing.T) {
	e := NewEngine(newTestFlow(t))

	require.NoError(t, e.Select("a"))
	assert.Equal(t, AnswerSet{"q1": "a"}, e.Answers())

	require.NoError(t, e.Advance())
	assert.Equal(t, 1, e.Index())
	assert.Equal(t, "q2", e.Current().ID)
	assert.Equal(t, VerdictUndetermined, e.Verdict())
}

func TestAdvanceWithoutAnswer(t *testing.T) {
	e := NewEngine(newTestFlow(t))
	assert.ErrorIs(t, e.Advance(), ErrNoAnswer)
}

func TestSelectUnknownOption(t *testing.T) {
	e := NewEngine(newTestFlow(t))
	assert.ErrorIs(t, e.Select("nope"), ErrUnknownOption)
}

func TestSkipToMarksBypassedQuestions(t *testing.T) {
	e := NewEngine(newTestFlow(t))

	require.NoError(t, e.Select("skip"))
	require.NoError(t, e.Advance())

	assert.Equal(t, 3, e.Index())
	assert.Equal(t, "q4", e.Current().ID)
	answers := e.Answers()
	assert.Equal(t, "", answers["q2"])
	assert.Equal(t, "", answers["q3"])
	_, present := answers["q2"]
	assert.True(t, present, "bypassed question must carry a placeholder entry")
}

func TestSkipToOverwritesEarlierAnswers(t *testing.T) {
	e := NewEngine(newTestFlow(t))

	// Answer q1 and q2, go back to q1, then take the skip branch.
	require.NoError(t, e.Select("a"))
	require.NoError(t, e.Advance())
	require.NoError(t, e.Select("a"))
	e.Back()
	require.Equal(t, 0, e.Index())

	require.NoError(t, e.Select("skip"))
	require.NoError(t, e.Advance())

	answers := e.Answers()
	assert.Equal(t, "", answers["q2"], "skipped question loses its previous answer")
	assert.Equal(t, "", answers["q3"])
}

func TestSkipToCompletePreservesExistingAnswers(t *testing.T) {
	e := NewEngine(newTestFlow(t))

	require.NoError(t, e.Select("a"))
	require.NoError(t, e.Advance())
	require.NoError(t, e.Select("a"))
	e.Back()

	require.NoError(t, e.Select("done"))
	require.NoError(t, e.Advance())

	assert.Equal(t, VerdictEligible, e.Verdict())
	answers := e.Answers()
	assert.Equal(t, "a", answers["q2"], "completion keeps answers already given")
	assert.Equal(t, "", answers["q3"])
	assert.Equal(t, "", answers["q4"])
}

func TestLastQuestionAdvanceEndsEligible(t *testing.T) {
	e := NewEngine(newTestFlow(t))
	for range testQuestions() {
		require.NoError(t, e.Select("a"))
		require.NoError(t, e.Advance())
	}
	assert.Equal(t, VerdictEligible, e.Verdict())
	assert.ErrorIs(t, e.Advance(), ErrFlowTerminal)
}

func TestDangerousSelectionNeedsConfirmation(t *testing.T) {
	e := NewEngine(newTestFlow(t))

	require.NoError(t, e.Select("bad"))
	require.NotNil(t, e.PendingConfirmation())
	assert.Equal(t, "q1", e.PendingConfirmation().QuestionID)
	assert.NotContains(t, e.Answers(), "q1", "dangerous value stays out of the trail until confirmed")

	assert.ErrorIs(t, e.Select("a"), ErrPendingConfirm)
	assert.ErrorIs(t, e.Advance(), ErrPendingConfirm)

	require.NoError(t, e.Confirm())
	assert.Equal(t, VerdictIneligible, e.Verdict())
	assert.Equal(t, "bad", e.Answers()["q1"])
}

func TestCancelDiscardsPendingSelection(t *testing.T) {
	e := NewEngine(newTestFlow(t))

	require.NoError(t, e.Select("bad"))
	e.Cancel()
	assert.Nil(t, e.PendingConfirmation())
	assert.NotContains(t, e.Answers(), "q1")

	require.NoError(t, e.Select("a"))
	require.NoError(t, e.Advance())
	assert.Equal(t, 1, e.Index())
}

func TestConfirmWithoutPending(t *testing.T) {
	e := NewEngine(newTestFlow(t))
	assert.ErrorIs(t, e.Confirm(), ErrNothingToConfirm)
}

func TestBackSkipsPlaceholders(t *testing.T) {
	e := NewEngine(newTestFlow(t))

	require.NoError(t, e.Select("skip"))
	require.NoError(t, e.Advance())
	require.Equal(t, 3, e.Index())

	e.Back()
	assert.Equal(t, 0, e.Index(), "back lands on the last truly answered question")
}

func TestBackAtFirstQuestionIsNoOp(t *testing.T) {
	e := NewEngine(newTestFlow(t))
	e.Back()
	assert.Equal(t, 0, e.Index())
	assert.Equal(t, VerdictUndetermined, e.Verdict())
}

func TestBackFromTerminalReturnsToQuestion(t *testing.T) {
	e := NewEngine(newTestFlow(t))

	require.NoError(t, e.Select("done"))
	require.NoError(t, e.Advance())
	require.Equal(t, VerdictEligible, e.Verdict())

	e.Back()
	assert.Equal(t, VerdictUndetermined, e.Verdict())
	assert.Equal(t, 0, e.Index())
}

func TestRestartClearsEverything(t *testing.T) {
	e := NewEngine(newTestFlow(t))

	require.NoError(t, e.Select("a"))
	require.NoError(t, e.Advance())
	require.NoError(t, e.Select("bad"))
	e.Restart()

	assert.Equal(t, 0, e.Index())
	assert.Empty(t, e.Answers())
	assert.Nil(t, e.PendingConfirmation())
	assert.Equal(t, VerdictUndetermined, e.Verdict())
}

func TestProgress(t *testing.T) {
	e := NewEngine(newTestFlow(t))
	assert.InDelta(t, 0.25, e.Progress(), 1e-9)

	require.NoError(t, e.Select("a"))
	require.NoError(t, e.Advance())
	assert.InDelta(t, 0.5, e.Progress(), 1e-9)

	require.NoError(t, e.Select("a"))
	require.NoError(t, e.Advance())
	assert.InDelta(t, 0.75, e.Progress(), 1e-9)
}

func TestProgressAfterSkip(t *testing.T) {
	e := NewEngine(newTestFlow(t))
	require.NoError(t, e.Select("skip"))
	require.NoError(t, e.Advance())
	assert.InDelta(t, 1.0, e.Progress(), 1e-9)
}

func TestResumePositionsAtFirstUnanswered(t *testing.T) {
	f := newTestFlow(t)
	e := Resume(f, AnswerSet{"q1": "a", "q2": ""})
	assert.Equal(t, 2, e.Index(), "placeholders count as recorded")
	assert.Equal(t, VerdictUndetermined, e.Verdict())
}

func TestResumeEmptyTrailStartsFresh(t *testing.T) {
	e := Resume(newTestFlow(t), nil)
	assert.Equal(t, 0, e.Index())
	assert.Empty(t, e.Answers())
}

func TestResumeRescansDangerousAnswers(t *testing.T) {
	e := Resume(newTestFlow(t), AnswerSet{"q1": "a", "q2": "bad"})
	assert.Equal(t, VerdictIneligible, e.Verdict(),
		"a confirmed dangerous answer survives a reload")
}

func TestRestoreClampsIndexAndRescans(t *testing.T) {
	f := newTestFlow(t)

	e := Restore(f, AnswerSet{"q1": "bad"}, 99, VerdictEligible, nil)
	assert.Equal(t, 0, e.Index(), "out-of-range index falls back to the start")
	assert.Equal(t, VerdictIneligible, e.Verdict(),
		"dangerous scan overrides the stored verdict")

	e = Restore(f, AnswerSet{"q1": "a"}, 1, VerdictUndetermined, &Pending{QuestionID: "q2", Value: "bad"})
	require.NotNil(t, e.PendingConfirmation())
	assert.Equal(t, "bad", e.PendingConfirmation().Value)
}

// Skip forward, then finish at the landing question: the trail carries the
// skip answer, placeholders for everything bypassed, and the final answer.
func TestSkipThenFinishEligible(t *testing.T) {
	e := NewEngine(newTestFlow(t))

	require.NoError(t, e.Select("skip"))
	require.NoError(t, e.Advance())
	assert.Equal(t, AnswerSet{"q1": "skip", "q2": "", "q3": ""}, e.Answers())

	require.NoError(t, e.Select("a"))
	require.NoError(t, e.Advance())

	assert.Equal(t, VerdictEligible, e.Verdict())
	assert.Equal(t, AnswerSet{"q1": "skip", "q2": "", "q3": "", "q4": "a"}, e.Answers())
}

// The canonical walkthrough: skip past a question, come back, take the
// dangerous branch, confirm, and end ineligible with the full trail intact.
func TestFullTraversalScenario(t *testing.T) {
	e := NewEngine(newTestFlow(t))

	require.NoError(t, e.Select("skip"))
	require.NoError(t, e.Advance())
	require.Equal(t, "q4", e.Current().ID)

	e.Back()
	require.Equal(t, "q1", e.Current().ID)

	require.NoError(t, e.Select("bad"))
	require.NoError(t, e.Confirm())

	assert.Equal(t, VerdictIneligible, e.Verdict())
	answers := e.Answers()
	assert.Equal(t, "bad", answers["q1"])
	assert.Equal(t, "", answers["q2"])
	assert.Equal(t, "", answers["q3"])
}
