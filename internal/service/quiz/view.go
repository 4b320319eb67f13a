package quiz

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// QuestionView is the current question without its answer key.
type QuestionView struct {
	Number   int                 `json:"number"`
	Question domain.QuizQuestion `json:"question"`
}

// View is a point-in-time copy of a session safe to serialise.
type View struct {
	ID            uuid.UUID         `json:"id"`
	Mode          Mode              `json:"mode"`
	State         State             `json:"state"`
	Phase         Phase             `json:"phase,omitempty"`
	Categories    []domain.Category `json:"categories,omitempty"`
	CategoryID    *uuid.UUID        `json:"categoryId,omitempty"`
	Total         int               `json:"total"`
	Answered      int               `json:"answered"`
	Score         int               `json:"score"`
	Current       *QuestionView     `json:"current,omitempty"`
	Feedback      *Feedback         `json:"feedback,omitempty"`
	FeedbackUntil *time.Time        `json:"feedbackUntil,omitempty"`
	Result        *Result           `json:"result,omitempty"`
	Saved         bool              `json:"saved"`
}

func (s *Session) view() View {
	res := s.result()
	v := View{
		ID:         s.id,
		Mode:       s.mode,
		State:      s.state,
		Categories: s.categories,
		CategoryID: s.categoryID,
		Total:      len(s.questions),
		Answered:   res.Answered,
		Score:      s.score,
		Saved:      s.saved,
	}

	switch s.state {
	case StateInProgress:
		v.Phase = s.phase
		v.Current = &QuestionView{Number: s.index + 1, Question: s.questions[s.index]}
		if s.phase == PhaseShowingFeedback {
			v.Feedback = s.feedbackAt(s.index)
			until := s.feedbackUntil
			v.FeedbackUntil = &until
		}
	case StateCompleted:
		v.Result = &res
	}
	return v
}
