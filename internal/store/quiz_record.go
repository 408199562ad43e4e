package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/cmaster/internal/quiz"
)

// QuizRecord is a finished quiz kept for the history views.
type QuizRecord struct {
	ID        string
	Sequence  int64
	Timestamp time.Time
	Config    quiz.Config
	Questions []quiz.Question
	Answers   []quiz.UserAnswer
	MeanScore float64
}

// Results rebuilds the results view of the recorded quiz.
func (r QuizRecord) Results() quiz.Results {
	return quiz.Summarize(r.Questions, r.Answers)
}

// quizRecordData is the JSON payload stored in the data column.
type quizRecordData struct {
	Config    quiz.Config       `json:"config"`
	Questions []quiz.Question   `json:"questions"`
	Answers   []quiz.UserAnswer `json:"answers"`
}

// QuizRecordRepo stores finished quizzes.
type QuizRecordRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var quizRecordSelectColumns = []string{"id", "sequence", "timestamp", "mean_score", "data"}

// Record saves a finished quiz. An empty ID is replaced by a new UUID and
// a zero Timestamp by the current time; both are written back to rec.
func (r *QuizRecordRepo) Record(ctx context.Context, rec *QuizRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	rec.Sequence = seqNum

	data, err := json.Marshal(quizRecordData{
		Config:    rec.Config,
		Questions: rec.Questions,
		Answers:   rec.Answers,
	})
	if err != nil {
		return fmt.Errorf("marshal quiz record: %w", err)
	}

	query, args := builder().Insert(tableQuizRecords).
		Columns("id", "sequence", "timestamp", "difficulty", "question_count", "answered_count", "mean_score", "data").
		Values(rec.ID, seqNum, rec.Timestamp.UnixMilli(), string(rec.Config.Difficulty),
			len(rec.Questions), len(rec.Answers), rec.MeanScore, string(data)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz record: %w", err)
	}
	return nil
}

// List returns recorded quizzes newest first.
func (r *QuizRecordRepo) List(ctx context.Context, opts QueryOpts) ([]QuizRecord, error) {
	sel := builder().Select(quizRecordSelectColumns...).
		From(entsql.Table(tableQuizRecords)).
		OrderBy(entsql.Desc("sequence"))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz records: %w", err)
	}
	defer rows.Close()

	var out []QuizRecord
	for rows.Next() {
		rec, err := scanQuizRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Get returns one recorded quiz, or nil if it does not exist. A unique ID
// prefix is accepted.
func (r *QuizRecordRepo) Get(ctx context.Context, id string) (*QuizRecord, error) {
	query, args := builder().Select(quizRecordSelectColumns...).
		From(entsql.Table(tableQuizRecords)).
		Where(entsql.HasPrefix("id", id)).
		Limit(2).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz record: %w", err)
	}
	defer rows.Close()

	var found []*QuizRecord
	for rows.Next() {
		rec, err := scanQuizRecord(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		for _, rec := range found {
			if rec.ID == id {
				return rec, nil
			}
		}
		return nil, fmt.Errorf("quiz id prefix %q is ambiguous", id)
	}
}

func scanQuizRecord(row rowScanner) (*QuizRecord, error) {
	var rec QuizRecord
	var ts int64
	var raw string
	if err := row.Scan(&rec.ID, &rec.Sequence, &ts, &rec.MeanScore, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan quiz record: %w", err)
	}
	rec.Timestamp = time.UnixMilli(ts).UTC()

	var data quizRecordData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("unmarshal quiz record %s: %w", rec.ID, err)
	}
	rec.Config = data.Config
	rec.Questions = data.Questions
	rec.Answers = data.Answers
	return &rec, nil
}
