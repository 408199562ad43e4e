package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// QuizRecord is one finished quiz: its config, questions and graded
// answers as a JSON document, with the headline numbers as columns for
// listing.
type QuizRecord struct {
	ent.Schema
}

func (QuizRecord) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (QuizRecord) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable().
			Comment("Quiz UUID"),
		field.String("difficulty"),
		field.Int("question_count"),
		field.Int("answered_count"),
		field.Float("mean_score"),
		field.Text("data").
			Comment("Config, questions and graded answers as JSON"),
	}
}
