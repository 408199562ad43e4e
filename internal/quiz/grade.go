package quiz

// GradeChoice grades a multiple-choice selection locally: 100 when the
// selected index is the correct one, 0 otherwise. The answer is marked
// AI-graded since it needs no grading call.
func GradeChoice(q Question, selected int) UserAnswer {
	score := 0
	if q.CorrectOptionIndex != nil && *q.CorrectOptionIndex == selected {
		score = 100
	}
	sel := selected
	return UserAnswer{
		QuestionID: q.ID,
		Value:      AnswerValue{Option: &sel},
		Score:      &score,
		AIGraded:   true,
	}
}

// TextAnswer records a free-text answer awaiting grading.
func TextAnswer(q Question, text string) UserAnswer {
	return UserAnswer{
		QuestionID: q.ID,
		Value:      AnswerValue{Text: text},
	}
}
