package domain

// CalculateScore sums the points of every question whose chosen option is
// flagged correct. Questions are visited in stored order and each contributes
// at most once; the first option whose ID matches the answer decides it.
// Missing answers, unknown question IDs and non-string payloads score 0.
func CalculateScore(quiz Quiz, answers Answers) int {
	score := 0
	for _, q := range quiz.Questions {
		chosen, ok := answers[q.ID].(string)
		if !ok {
			continue
		}
		for _, opt := range q.Options {
			if opt.ID != chosen {
				continue
			}
			if opt.IsCorrect {
				score += q.Weight()
			}
			break
		}
	}
	return score
}

// MaxScore is the sum of all question weights.
func MaxScore(quiz Quiz) int {
	total := 0
	for _, q := range quiz.Questions {
		total += q.Weight()
	}
	return total
}

// Grade is the outcome of a submission.
type Grade struct {
	Score    int `json:"score"`
	MaxScore int `json:"maxScore"`
}

// GradeAnswers scores answers against quiz and reports the attainable maximum.
func GradeAnswers(quiz Quiz, answers Answers) Grade {
	return Grade{Score: CalculateScore(quiz, answers), MaxScore: MaxScore(quiz)}
}
