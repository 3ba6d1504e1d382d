package domain

import "time"

// PublicOption is an option as shown to a quiz taker. It has no correctness field.
type PublicOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PublicQuestion mirrors Question with PublicOption entries.
type PublicQuestion struct {
	ID      string         `json:"id"`
	Text    string         `json:"text"`
	Options []PublicOption `json:"options"`
	Points  int            `json:"points"`
}

// PublicQuiz is the quiz document served to students.
type PublicQuiz struct {
	ID        string           `json:"id"`
	Code      string           `json:"code"`
	Title     string           `json:"title"`
	TimeLimit int              `json:"timeLimit"`
	Version   int              `json:"version"`
	CreatedBy string           `json:"createdBy"`
	Questions []PublicQuestion `json:"questions"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// ToPublicView projects a quiz into its correctness-free form. The input is not modified.
func ToPublicView(quiz Quiz) PublicQuiz {
	questions := make([]PublicQuestion, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		options := make([]PublicOption, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, PublicOption{ID: opt.ID, Text: opt.Text})
		}
		questions = append(questions, PublicQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Options: options,
			Points:  q.Weight(),
		})
	}
	return PublicQuiz{
		ID:        quiz.ID,
		Code:      quiz.Code,
		Title:     quiz.Title,
		TimeLimit: quiz.TimeLimit,
		Version:   quiz.Version,
		CreatedBy: quiz.CreatedBy,
		Questions: questions,
		CreatedAt: quiz.CreatedAt,
		UpdatedAt: quiz.UpdatedAt,
	}
}
