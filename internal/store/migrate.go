package store

import (
	"context"
	"fmt"
	"strings"

	"entgo.io/ent"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/cmaster/ent/schema"
)

const (
	tableLLMEvents        = "llm_request_events"
	tableQuizRecords      = "quiz_records"
	tableProfileSnapshots = "profile_snapshots"
	tableGlobalSequence   = "global_sequence"
)

// entities maps each table to the ent schema that declares it.
var entities = []struct {
	table  string
	name   string
	schema ent.Interface
}{
	{tableLLMEvents, "LLMRequestEvent", entschema.LLMRequestEvent{}},
	{tableQuizRecords, "QuizRecord", entschema.QuizRecord{}},
	{tableProfileSnapshots, "ProfileSnapshot", entschema.ProfileSnapshot{}},
}

// globalSequenceTable holds the single counter row behind sequenceCounter.
// It is not an entity, so it is declared directly.
var globalSequenceTable = func() *schema.Table {
	cols := []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	return &schema.Table{Name: tableGlobalSequence, Columns: cols, PrimaryKey: cols[:1]}
}()

// migrate creates or updates every table the store uses.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	tables, err := buildTables()
	if err != nil {
		return err
	}
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}

// buildTables turns the ent schema declarations into migration tables:
// mixin fields first, then the entity's own, with an auto-increment id
// unless the entity declares its own "id" field.
func buildTables() ([]*schema.Table, error) {
	tables := make([]*schema.Table, 0, len(entities)+1)
	for _, e := range entities {
		t, err := entityTable(e.table, e.name, e.schema)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", e.table, err)
		}
		tables = append(tables, t)
	}
	return append(tables, globalSequenceTable), nil
}

func entityTable(name, typeName string, s ent.Interface) (*schema.Table, error) {
	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	t := &schema.Table{Name: name}
	byName := map[string]*schema.Column{}
	var id *schema.Column
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("field %s: %w", d.Name, d.Err)
		}
		col := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Size:     int64(d.Size),
			Unique:   d.Unique,
			Nullable: d.Optional,
			Default:  d.Default,
		}
		if d.Name == "id" {
			col.Unique = false
			id = col
			continue
		}
		t.Columns = append(t.Columns, col)
		byName[d.Name] = col
	}
	if id == nil {
		id = &schema.Column{Name: "id", Type: field.TypeInt64, Increment: true}
	}
	t.Columns = append([]*schema.Column{id}, t.Columns...)
	t.PrimaryKey = []*schema.Column{id}

	prefix := strings.ToLower(typeName)
	for _, ix := range indexes {
		d := ix.Descriptor()
		idx := &schema.Index{
			Name:   prefix + "_" + strings.Join(d.Fields, "_"),
			Unique: d.Unique,
		}
		for _, fname := range d.Fields {
			col, ok := byName[fname]
			if !ok {
				return nil, fmt.Errorf("index %s: unknown field %q", idx.Name, fname)
			}
			idx.Columns = append(idx.Columns, col)
		}
		t.Indexes = append(t.Indexes, idx)
	}
	return t, nil
}
