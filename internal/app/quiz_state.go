package app

import (
	"math"
	"slices"

	"spearid-quiz-service/internal/domain"
)

// Phase is the lifecycle stage of a quiz session.
type Phase string

const (
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
)

// QuizState is the value-typed state of one quiz session. Transitions return a
// new state and never modify the receiver, so a state can be stored, copied and
// compared freely.
type QuizState struct {
	Questions    []domain.Question     `json:"questions"`
	CurrentIndex int                   `json:"currentIndex"`
	Score        int                   `json:"score"`
	AnswerLog    []domain.AnswerRecord `json:"answerLog"`
	Answered     bool                  `json:"answered"`
	Phase        Phase                 `json:"phase"`
}

// StartQuiz opens a session positioned on the first question.
func StartQuiz(questions []domain.Question) (QuizState, error) {
	if len(questions) == 0 {
		return QuizState{}, domain.ErrNoQuestions
	}
	return QuizState{
		Questions: slices.Clone(questions),
		AnswerLog: []domain.AnswerRecord{},
		Phase:     PhaseInProgress,
	}, nil
}

// Completed reports whether the last question has been advanced past.
func (s QuizState) Completed() bool {
	return s.Phase == PhaseCompleted
}

// Current returns the question being played.
func (s QuizState) Current() (domain.Question, bool) {
	if s.Phase != PhaseInProgress || s.CurrentIndex >= len(s.Questions) {
		return domain.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// View returns the current question without its correct answer.
func (s QuizState) View() (domain.QuestionView, bool) {
	q, ok := s.Current()
	if !ok {
		return domain.QuestionView{}, false
	}
	number := s.CurrentIndex + 1
	total := len(s.Questions)
	return domain.QuestionView{
		ID:       q.ID,
		Number:   number,
		Total:    total,
		Progress: float64(number) / float64(total) * 100,
		VideoURL: q.VideoURL,
		Options:  slices.Clone(q.Options),
	}, true
}

// SubmitAnswer records selected for the current question. When the question was
// already answered, or the session is not in progress, the receiver is returned
// unchanged and applied is false.
func (s QuizState) SubmitAnswer(selected string) (next QuizState, applied bool) {
	q, ok := s.Current()
	if !ok || s.Answered {
		return s, false
	}

	record := domain.AnswerRecord{
		QuestionID: q.ID,
		Selected:   selected,
		Correct:    q.CorrectAnswer,
		IsCorrect:  selected == q.CorrectAnswer,
	}

	next = s
	next.AnswerLog = append(slices.Clone(s.AnswerLog), record)
	if record.IsCorrect {
		next.Score++
	}
	next.Answered = true
	return next, true
}

// Advance moves to the next question, or completes the session and returns its
// summary when the current question was the last one.
func (s QuizState) Advance() (QuizState, *domain.Summary, error) {
	switch {
	case s.Phase == PhaseCompleted:
		return s, nil, domain.ErrSessionCompleted
	case s.Phase != PhaseInProgress:
		return s, nil, domain.ErrNoQuestions
	case !s.Answered:
		return s, nil, domain.ErrNotAnswered
	}

	next := s
	if s.CurrentIndex+1 < len(s.Questions) {
		next.CurrentIndex++
		next.Answered = false
		return next, nil, nil
	}

	next.CurrentIndex = len(s.Questions)
	next.Phase = PhaseCompleted
	summary := next.Summary()
	return next, &summary, nil
}

// Summary reports the score so far.
func (s QuizState) Summary() domain.Summary {
	return domain.Summary{
		Score:          s.Score,
		TotalQuestions: len(s.Questions),
		Percentage:     Percentage(s.Score, len(s.Questions)),
		AnswerLog:      slices.Clone(s.AnswerLog),
	}
}

// Percentage is 100*score/total rounded half away from zero; zero when total is zero.
func Percentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}
