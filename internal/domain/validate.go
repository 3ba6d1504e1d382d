package domain

// ValidateQuestions checks the structural invariants of a quiz body: question
// IDs are present and unique within the quiz, option IDs are present and unique
// within their question, and points are not negative.
func ValidateQuestions(questions []Question) error {
	seenQuestions := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			return InvalidInput("questions[%d].id is required", i)
		}
		if _, dup := seenQuestions[q.ID]; dup {
			return InvalidInput("duplicate question id %q", q.ID)
		}
		seenQuestions[q.ID] = struct{}{}
		if q.Points != nil && *q.Points < 0 {
			return InvalidInput("question %q has negative points", q.ID)
		}

		seenOptions := make(map[string]struct{}, len(q.Options))
		for j, opt := range q.Options {
			if opt.ID == "" {
				return InvalidInput("question %q options[%d].id is required", q.ID, j)
			}
			if _, dup := seenOptions[opt.ID]; dup {
				return InvalidInput("question %q has duplicate option id %q", q.ID, opt.ID)
			}
			seenOptions[opt.ID] = struct{}{}
		}
	}
	return nil
}
