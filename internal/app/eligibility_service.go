package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"propertyhub/internal/cache"
	"propertyhub/internal/flow"
	"propertyhub/internal/model"
)

var (
	ErrSessionUnknown     = errors.New("eligibility session not found")
	ErrSubmissionEnqueue  = errors.New("submission enqueue failed")
	ErrNotAwaitingConfirm = errors.New("no dangerous answer awaiting confirmation")
)

// errorBanners translates the error code carried on the flow's entry URL
// into a user-facing banner.
var errorBanners = map[string]string{
	"session_expired": "Your previous session expired. Please start again.",
	"signin_failed":   "We could not sign you in. Please try again.",
	"server_error":    "Something went wrong on our side. Please try again shortly.",
}

// FlowAnswerStore persists answer sets and session positions between
// requests. The engine itself stays pure; all durability goes through here.
type FlowAnswerStore interface {
	Load(ctx context.Context, sessionID string) (flow.AnswerSet, bool, error)
	Save(ctx context.Context, sessionID string, answers flow.AnswerSet) error
	Clear(ctx context.Context, sessionID string) error
	LoadState(ctx context.Context, sessionID string) (*cache.SessionState, error)
	SaveState(ctx context.Context, sessionID string, state cache.SessionState) error
	ClearState(ctx context.Context, sessionID string) error
}

// SubmissionQueue receives completed sessions for background persistence.
type SubmissionQueue interface {
	Publish(ctx context.Context, submission model.EligibilitySubmission) error
}

type EligibilityService struct {
	flow      *flow.Flow
	store     FlowAnswerStore
	queue     SubmissionQueue
	signInURL string
	log       zerolog.Logger
}

// OptionView is an answer choice as presented to the client.
type OptionView struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Dangerous   bool   `json:"dangerous,omitempty"`
}

// QuestionView is the current step as presented to the client.
type QuestionView struct {
	ID      string       `json:"id"`
	Prompt  string       `json:"prompt"`
	Section string       `json:"section,omitempty"`
	Options []OptionView `json:"options"`
}

// FlowView is the full client-facing snapshot of one session.
type FlowView struct {
	SessionID       string         `json:"session_id"`
	Question        *QuestionView  `json:"question,omitempty"`
	Index           int            `json:"index"`
	Total           int            `json:"total"`
	Progress        float64        `json:"progress"`
	Answers         flow.AnswerSet `json:"answers"`
	Verdict         string         `json:"verdict"`
	Pending         *flow.Pending  `json:"pending_confirmation,omitempty"`
	ProgressLost    bool           `json:"progress_lost,omitempty"`
	ShowContactForm bool           `json:"show_contact_form,omitempty"`
	HandoffURL      string         `json:"handoff_url,omitempty"`
	Banner          string         `json:"banner,omitempty"`
}

func NewEligibilityService(
	store FlowAnswerStore,
	queue SubmissionQueue,
	signInURL string,
	log zerolog.Logger,
) (*EligibilityService, error) {
	f, err := flow.NewFlow(eligibilityQuestions())
	if err != nil {
		return nil, fmt.Errorf("build eligibility flow failed: %w", err)
	}
	return &EligibilityService{
		flow:      f,
		store:     store,
		queue:     queue,
		signInURL: signInURL,
		log:       log.With().Str("service", "eligibility").Logger(),
	}, nil
}

// StartSession creates a fresh session and returns its first view.
func (s *EligibilityService) StartSession(ctx context.Context, errorCode string) (*FlowView, error) {
	sessionID := uuid.New().String()
	engine := flow.NewEngine(s.flow)
	if err := s.persist(ctx, sessionID, engine); err != nil {
		return nil, err
	}
	view := s.view(sessionID, engine, false)
	if banner, ok := errorBanners[errorCode]; ok {
		view.Banner = banner
	}
	return view, nil
}

// View returns the current state of a session.
func (s *EligibilityService) View(ctx context.Context, sessionID string) (*FlowView, error) {
	engine, progressLost, err := s.resume(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, engine, progressLost), nil
}

// Select records an answer for the current question. A dangerous option is
// parked for confirmation; its value joins the answer trail only on Confirm.
func (s *EligibilityService) Select(ctx context.Context, sessionID, value string) (*FlowView, error) {
	engine, progressLost, err := s.resume(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := engine.Select(value); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, sessionID, engine); err != nil {
		return nil, err
	}
	return s.view(sessionID, engine, progressLost), nil
}

// Confirm commits the pending dangerous answer. The flow terminates
// ineligible and the completed trail goes to the persist queue.
func (s *EligibilityService) Confirm(ctx context.Context, sessionID string) (*FlowView, error) {
	engine, progressLost, err := s.resume(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if engine.PendingConfirmation() == nil {
		return nil, ErrNotAwaitingConfirm
	}
	if err := engine.Confirm(); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, sessionID, engine); err != nil {
		return nil, err
	}
	if err := s.submit(ctx, sessionID, engine); err != nil {
		return nil, err
	}
	return s.view(sessionID, engine, progressLost), nil
}

// Cancel discards the pending dangerous answer.
func (s *EligibilityService) Cancel(ctx context.Context, sessionID string) (*FlowView, error) {
	engine, progressLost, err := s.resume(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	engine.Cancel()
	if err := s.persist(ctx, sessionID, engine); err != nil {
		return nil, err
	}
	return s.view(sessionID, engine, progressLost), nil
}

// Advance moves to the next question, honoring skip directives. Reaching an
// eligible verdict enqueues the submission and produces the hand-off URL.
func (s *EligibilityService) Advance(ctx context.Context, sessionID string) (*FlowView, error) {
	engine, progressLost, err := s.resume(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := engine.Advance(); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, sessionID, engine); err != nil {
		return nil, err
	}
	if engine.Verdict() != flow.VerdictUndetermined {
		if err := s.submit(ctx, sessionID, engine); err != nil {
			return nil, err
		}
	}
	return s.view(sessionID, engine, progressLost), nil
}

// Back returns to the nearest previously answered question.
func (s *EligibilityService) Back(ctx context.Context, sessionID string) (*FlowView, error) {
	engine, progressLost, err := s.resume(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	engine.Back()
	if err := s.persist(ctx, sessionID, engine); err != nil {
		return nil, err
	}
	return s.view(sessionID, engine, progressLost), nil
}

// Restart wipes the session's trail and returns to the first question.
func (s *EligibilityService) Restart(ctx context.Context, sessionID string) (*FlowView, error) {
	engine := flow.NewEngine(s.flow)
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return nil, err
	}
	if err := s.store.ClearState(ctx, sessionID); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, sessionID, engine); err != nil {
		return nil, err
	}
	return s.view(sessionID, engine, false), nil
}

// resume rebuilds the engine from storage. An unreadable answer payload is
// logged and surfaced via the progress-lost flag rather than silently
// swallowed; the session restarts from an empty trail.
func (s *EligibilityService) resume(ctx context.Context, sessionID string) (*flow.Engine, bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, false, ErrInvalidInput
	}

	answers, found, err := s.store.Load(ctx, sessionID)
	progressLost := false
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).
			Msg("stored answers unreadable, starting empty")
		progressLost = true
		answers = nil
	}

	state, stateErr := s.store.LoadState(ctx, sessionID)
	if stateErr != nil {
		s.log.Warn().Err(stateErr).Str("session_id", sessionID).
			Msg("stored session state unreadable")
	}

	if !found && state == nil && !progressLost {
		return nil, false, ErrSessionUnknown
	}

	if state != nil {
		engine := flow.Restore(s.flow, answers, state.Index, flow.Verdict(state.Verdict), state.Pending)
		return engine, progressLost, nil
	}
	return flow.Resume(s.flow, answers), progressLost, nil
}

func (s *EligibilityService) persist(ctx context.Context, sessionID string, engine *flow.Engine) error {
	if err := s.store.Save(ctx, sessionID, engine.Answers()); err != nil {
		return err
	}
	return s.store.SaveState(ctx, sessionID, cache.SessionState{
		Index:   engine.Index(),
		Verdict: string(engine.Verdict()),
		Pending: engine.PendingConfirmation(),
	})
}

func (s *EligibilityService) submit(ctx context.Context, sessionID string, engine *flow.Engine) error {
	if s.queue == nil {
		return ErrSubmissionEnqueue
	}
	payload, err := json.Marshal(engine.Answers())
	if err != nil {
		return fmt.Errorf("marshal answer trail failed: %w", err)
	}
	submission := model.EligibilitySubmission{
		SessionID: sessionID,
		Verdict:   string(engine.Verdict()),
		Answers:   string(payload),
	}
	if err := s.queue.Publish(ctx, submission); err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("publish submission failed")
		return ErrSubmissionEnqueue
	}
	return nil
}

func (s *EligibilityService) view(sessionID string, engine *flow.Engine, progressLost bool) *FlowView {
	v := &FlowView{
		SessionID:    sessionID,
		Index:        engine.Index(),
		Total:        s.flow.Len(),
		Progress:     engine.Progress(),
		Answers:      engine.Answers(),
		Verdict:      string(engine.Verdict()),
		Pending:      engine.PendingConfirmation(),
		ProgressLost: progressLost,
	}

	switch engine.Verdict() {
	case flow.VerdictUndetermined:
		q := engine.Current()
		qv := &QuestionView{
			ID:      q.ID,
			Prompt:  q.Prompt,
			Section: q.Section,
			Options: make([]OptionView, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			qv.Options = append(qv.Options, OptionView{
				Value:       o.Value,
				Label:       o.Label,
				Description: o.Description,
				Dangerous:   o.Dangerous,
			})
		}
		v.Question = qv
	case flow.VerdictEligible:
		v.HandoffURL = s.handoffURL(engine.Answers())
	case flow.VerdictIneligible:
		v.ShowContactForm = true
	}
	return v
}

// handoffURL encodes the full answer trail plus the eligibility marker into
// a single query parameter on the sign-in destination.
func (s *EligibilityService) handoffURL(answers flow.AnswerSet) string {
	payload := make(map[string]interface{}, len(answers)+1)
	for k, v := range answers {
		payload[k] = v
	}
	payload["isEligible"] = true

	encoded, err := json.Marshal(payload)
	if err != nil {
		return s.signInURL
	}
	values := url.Values{"handoff": {string(encoded)}}
	return s.signInURL + "?" + values.Encode()
}
