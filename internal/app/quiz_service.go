package app

import (
	"context"
	"errors"
	"fmt"

	"spearid-quiz-service/internal/domain"
	"spearid-quiz-service/internal/logger"
	"spearid-quiz-service/internal/metrics"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Save(ctx context.Context, sessionID string, state QuizState) error
	// Get returns domain.ErrSessionNotFound for unknown or expired sessions.
	Get(ctx context.Context, sessionID string) (QuizState, error)
	// Update atomically replaces the stored state with fn's result. When fn fails
	// nothing is written and the state fn was given is returned with its error.
	Update(ctx context.Context, sessionID string, fn func(QuizState) (QuizState, error)) (QuizState, error)
	Delete(ctx context.Context, sessionID string) error
}

// QuizService contains the quiz play use cases.
type QuizService struct {
	sessions  SessionRepository
	questions QuestionSource
	metrics   *metrics.Metrics
	newID     func() string
}

func NewQuizService(sessions SessionRepository, questions QuestionSource, m *metrics.Metrics) *QuizService {
	return &QuizService{
		sessions:  sessions,
		questions: questions,
		metrics:   m,
		newID:     func() string { return ulid.Make().String() },
	}
}

// Start builds a question set and opens a session over it.
// It returns domain.ErrNoQuestions when the catalog has nothing to ask.
func (s *QuizService) Start(ctx context.Context, count int) (string, QuizState, error) {
	questions, err := s.questions.Build(ctx, count)
	s.metrics.ObserveBuild(len(questions), err)
	if err != nil {
		logger.Get().Error("failed to build question set", zap.Int("count", count), zap.Error(err))
		return "", QuizState{}, err
	}

	state, err := StartQuiz(questions)
	if err != nil {
		logger.Get().Warn("no eligible species for a quiz", zap.Int("count", count))
		return "", QuizState{}, err
	}

	sessionID := s.newID()
	if err := s.sessions.Save(ctx, sessionID, state); err != nil {
		return "", QuizState{}, fmt.Errorf("save session: %w", err)
	}
	s.metrics.SessionStarted()
	logger.Get().Info("quiz session started",
		zap.String("session_id", sessionID),
		zap.Int("questions", len(questions)))
	return sessionID, state, nil
}

// Resume loads a session for a reconnecting player.
func (s *QuizService) Resume(ctx context.Context, sessionID string) (QuizState, error) {
	return s.sessions.Get(ctx, sessionID)
}

// Answer records selected for the session's current question. A repeated answer
// leaves the session untouched and returns domain.ErrAlreadyAnswered.
func (s *QuizService) Answer(ctx context.Context, sessionID, selected string) (domain.AnswerRecord, QuizState, error) {
	var record domain.AnswerRecord
	next, err := s.sessions.Update(ctx, sessionID, func(state QuizState) (QuizState, error) {
		submitted, applied := state.SubmitAnswer(selected)
		if !applied {
			if state.Completed() {
				return state, domain.ErrSessionCompleted
			}
			return state, domain.ErrAlreadyAnswered
		}
		record = submitted.AnswerLog[len(submitted.AnswerLog)-1]
		return submitted, nil
	})
	if err != nil {
		return domain.AnswerRecord{}, next, err
	}

	s.metrics.AnswerRecorded(record.IsCorrect)
	logger.Get().Debug("answer recorded",
		zap.String("session_id", sessionID),
		zap.String("question_id", record.QuestionID),
		zap.Bool("correct", record.IsCorrect))
	return record, next, nil
}

// Next advances past the answered current question. On the last question the
// completed state is stored, then discarded, and the results are returned.
func (s *QuizService) Next(ctx context.Context, sessionID string) (QuizState, *domain.Results, error) {
	var summary *domain.Summary
	next, err := s.sessions.Update(ctx, sessionID, func(state QuizState) (QuizState, error) {
		advanced, sum, err := state.Advance()
		if err != nil {
			return state, err
		}
		summary = sum
		return advanced, nil
	})
	if err != nil {
		return next, nil, err
	}
	if summary == nil {
		return next, nil, nil
	}

	// A failed delete leaves a completed session behind, which rejects further moves.
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		logger.Get().Warn("failed to discard completed session", zap.String("session_id", sessionID), zap.Error(err))
	}
	results := BuildResults(*summary)
	s.metrics.SessionCompleted(results.Percentage)
	logger.Get().Info("quiz session completed",
		zap.String("session_id", sessionID),
		zap.Int("score", results.Score),
		zap.Int("total", results.TotalQuestions),
		zap.Int("percentage", results.Percentage))
	return next, &results, nil
}
