package game

import (
	"context"
	"time"

	"country-trivia/internal/country"
	"country-trivia/internal/game/scoring"
)

// SessionStore persists in-flight sessions keyed by ID.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// PrefStore keeps the last-selected difficulty per user.
type PrefStore interface {
	LastTier(ctx context.Context, username string) (country.Tier, bool, error)
	SetLastTier(ctx context.Context, username string, tier country.Tier) error
}

// Snapshot is the "last game" record kept for potential UI resume.
// Best-effort only; not required for correctness.
type Snapshot struct {
	Tier      country.Tier      `json:"tier"`
	SavedAt   time.Time         `json:"savedAt"`
	Countries []country.Country `json:"countries"`
}

// SnapshotStore persists the last-game snapshot per user.
type SnapshotStore interface {
	SaveLastGame(ctx context.Context, username string, snap Snapshot) error
	LastGame(ctx context.Context, username string) (*Snapshot, error)
}

// QuestionView is the client-facing question: only the flag is shown while
// an answer is pending.
type QuestionView struct {
	Position int    `json:"position"`
	Total    int    `json:"total"`
	FlagURL  string `json:"flagUrl"`
}

// RevealView exposes the truth for the just-answered question.
type RevealView struct {
	Name       string                 `json:"name"`
	Capital    string                 `json:"capital"`
	Population int64                  `json:"population"`
	FlagURL    string                 `json:"flagUrl"`
	Result     scoring.QuestionResult `json:"result"`
}

// SessionView is the phase-dependent projection returned to clients.
type SessionView struct {
	ID         string                   `json:"id"`
	Tier       country.Tier             `json:"tier"`
	Phase      Phase                    `json:"phase"`
	TotalScore int                      `json:"totalScore"`
	Question   *QuestionView            `json:"question,omitempty"`
	Reveal     *RevealView              `json:"reveal,omitempty"`
	Results    []scoring.QuestionResult `json:"results,omitempty"`
}

// View projects a session for clients, leaking no answers while a question
// is open.
func View(s *Session) SessionView {
	v := SessionView{
		ID:         s.ID,
		Tier:       s.Tier,
		Phase:      s.Phase,
		TotalScore: s.TotalScore,
	}

	switch s.Phase {
	case PhaseAwaitingAnswer:
		if current, ok := s.Current(); ok {
			v.Question = &QuestionView{
				Position: s.Index + 1,
				Total:    len(s.Picks),
				FlagURL:  current.FlagURL,
			}
		}
	case PhaseAnswerRevealed:
		if current, ok := s.Current(); ok && len(s.Results) > 0 {
			v.Reveal = &RevealView{
				Name:       current.Name,
				Capital:    current.Capital,
				Population: current.Population,
				FlagURL:    current.FlagURL,
				Result:     s.Results[len(s.Results)-1],
			}
		}
	case PhaseCompleted:
		v.Results = s.Results
	}
	return v
}
