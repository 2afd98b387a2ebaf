package app

import "spearid-quiz-service/internal/domain"

// BuildResults derives the results page content from a completed session summary.
func BuildResults(summary domain.Summary) domain.Results {
	results := domain.Results{
		Summary:        summary,
		Message:        scoreMessage(summary.Percentage),
		NewFishLearned: summary.Score * 2 / 5,
		Correct:        []string{},
		Incorrect:      []string{},
	}
	for _, record := range summary.AnswerLog {
		if record.IsCorrect {
			results.Correct = append(results.Correct, record.Correct)
		} else {
			results.Incorrect = append(results.Incorrect, record.Correct)
		}
	}
	return results
}

func scoreMessage(percentage int) string {
	switch {
	case percentage >= 80:
		return "Excellent fish identification skills!"
	case percentage >= 60:
		return "Good job! Keep practicing to improve."
	case percentage >= 40:
		return "Not bad! More practice will help you improve."
	default:
		return "Keep studying! Practice makes perfect."
	}
}
