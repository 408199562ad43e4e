package store

import (
	"context"
	"testing"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columnNames(t *schema.Table) []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func indexNames(t *schema.Table) []string {
	names := make([]string, len(t.Indexes))
	for i, ix := range t.Indexes {
		names[i] = ix.Name
	}
	return names
}

func TestBuildTablesFromEntSchema(t *testing.T) {
	tables, err := buildTables()
	require.NoError(t, err)

	byName := map[string]*schema.Table{}
	for _, tb := range tables {
		byName[tb.Name] = tb
	}
	require.Len(t, byName, 4)

	events := byName[tableLLMEvents]
	require.NotNil(t, events)
	assert.Equal(t, []string{
		"id", "sequence", "timestamp", "provider", "model", "purpose",
		"input_tokens", "output_tokens", "latency_ms", "success",
		"error_message", "request_body", "response_body",
	}, columnNames(events))
	assert.True(t, events.Columns[0].Increment, "events get an auto-increment id")
	assert.True(t, events.Columns[1].Unique, "sequence comes unique from the mixin")
	assert.Equal(t, 0, events.Columns[6].Default)
	assert.ElementsMatch(t, []string{"llmrequestevent_timestamp", "llmrequestevent_purpose"}, indexNames(events))

	quizzes := byName[tableQuizRecords]
	require.NotNil(t, quizzes)
	assert.Equal(t, "id", quizzes.PrimaryKey[0].Name)
	assert.Equal(t, field.TypeString, quizzes.PrimaryKey[0].Type)
	assert.False(t, quizzes.PrimaryKey[0].Increment)
	assert.Contains(t, columnNames(quizzes), "mean_score")

	snaps := byName[tableProfileSnapshots]
	require.NotNil(t, snaps)
	assert.Contains(t, indexNames(snaps), "profilesnapshot_profile_key_sequence")
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, migrate(context.Background(), s.drv), "migrating an up-to-date database")
}
