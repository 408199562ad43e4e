package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ProfileSnapshot keeps each saved version of a profile. The newest row
// per key is the current profile; older rows are pruned.
type ProfileSnapshot struct {
	ent.Schema
}

func (ProfileSnapshot) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (ProfileSnapshot) Fields() []ent.Field {
	return []ent.Field{
		field.String("profile_key"),
		field.Text("data").
			Comment("The profile as JSON"),
	}
}

func (ProfileSnapshot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("profile_key", "sequence"),
	}
}
