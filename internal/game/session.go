package game

import (
	"errors"
	"time"

	"country-trivia/internal/country"
	"country-trivia/internal/game/scoring"
)

var (
	// ErrNoActiveUser is returned when a session is started without an identity.
	ErrNoActiveUser = errors.New("no active user")
	// ErrNoCountries is returned when the catalog yields no valid countries.
	ErrNoCountries = errors.New("no valid countries available")
	// ErrSessionNotFound is returned for unknown session IDs.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrInvalidTransition rejects operations invoked in the wrong phase.
	ErrInvalidTransition = errors.New("invalid session transition")
)

// Phase is the sub-state of a running session.
type Phase string

const (
	// PhaseAwaitingAnswer accepts exactly one submission for the current question.
	PhaseAwaitingAnswer Phase = "awaiting_answer"
	// PhaseAnswerRevealed sits between submission and the next question.
	PhaseAnswerRevealed Phase = "answer_revealed"
	// PhaseCompleted is terminal; a new game is a new session value.
	PhaseCompleted Phase = "completed"
)

// Session is an explicit, caller-owned game state: the ordered pick list,
// question cursor, running score and per-question results. Sessions are
// independent values; nothing is shared between games.
type Session struct {
	ID         string                   `json:"id"`
	Username   string                   `json:"username"`
	Tier       country.Tier             `json:"tier"`
	Picks      []country.Country        `json:"picks"`
	Index      int                      `json:"index"`
	TotalScore int                      `json:"totalScore"`
	Phase      Phase                    `json:"phase"`
	Results    []scoring.QuestionResult `json:"results"`
	StartedAt  time.Time                `json:"startedAt"`
}

// NewSession creates a fresh session over an already-selected pick list.
func NewSession(id, username string, tier country.Tier, picks []country.Country) *Session {
	return &Session{
		ID:        id,
		Username:  username,
		Tier:      tier,
		Picks:     picks,
		Phase:     PhaseAwaitingAnswer,
		Results:   make([]scoring.QuestionResult, 0, len(picks)),
		StartedAt: time.Now().UTC(),
	}
}

// Current returns the country under question.
func (s *Session) Current() (country.Country, bool) {
	if s.Index < 0 || s.Index >= len(s.Picks) {
		return country.Country{}, false
	}
	return s.Picks[s.Index], true
}

// Completed reports whether the session reached its terminal state.
func (s *Session) Completed() bool {
	return s.Phase == PhaseCompleted
}

// Submit evaluates one guess against the current country. Valid only while
// awaiting an answer; a repeated submit is rejected and never re-scores.
func (s *Session) Submit(engine *scoring.Engine, g scoring.Guess) (scoring.QuestionResult, error) {
	if s.Phase != PhaseAwaitingAnswer {
		return scoring.QuestionResult{}, ErrInvalidTransition
	}
	current, ok := s.Current()
	if !ok {
		return scoring.QuestionResult{}, ErrInvalidTransition
	}

	result := engine.Evaluate(s.Index, current, g)
	s.Results = append(s.Results, result)
	s.TotalScore += result.Points
	s.Phase = PhaseAnswerRevealed
	return result, nil
}

// Advance moves past a revealed answer: to the next question, or to the
// terminal state after the last one.
func (s *Session) Advance() error {
	if s.Phase != PhaseAnswerRevealed {
		return ErrInvalidTransition
	}
	if s.Index < len(s.Picks)-1 {
		s.Index++
		s.Phase = PhaseAwaitingAnswer
		return nil
	}
	s.Phase = PhaseCompleted
	return nil
}
