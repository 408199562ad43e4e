package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/cmaster/internal/profile"
)

// defaultProfileSnapshots is how many past profile values are retained.
const defaultProfileSnapshots = 20

// ProfileStore implements profile.Store with append-only snapshots: every
// Save writes a complete new profile row and Load reads the newest one, so
// a reader never observes a half-written profile.
type ProfileStore struct {
	db   *sql.DB
	seq  *sequenceCounter
	keep int
}

var (
	_ profile.Store    = (*ProfileStore)(nil)
	_ profile.Resetter = (*ProfileStore)(nil)
)

func (s *ProfileStore) Load(ctx context.Context) (profile.UserProfile, error) {
	query, args := builder().Select("data").
		From(entsql.Table(tableProfileSnapshots)).
		Where(entsql.EQ("profile_key", profile.StorageKey)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()

	var raw string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.New(), nil
	}
	if err != nil {
		return profile.New(), fmt.Errorf("query latest profile: %w", err)
	}
	return profile.Decode([]byte(raw))
}

func (s *ProfileStore) Save(ctx context.Context, p profile.UserProfile) error {
	data, err := profile.Encode(p)
	if err != nil {
		return err
	}

	seqNum, err := s.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(tableProfileSnapshots).
		Columns("profile_key", "sequence", "timestamp", "data").
		Values(profile.StorageKey, seqNum, time.Now().UnixMilli(), string(data)).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	return s.prune(ctx)
}

// Reset deletes every saved profile snapshot.
func (s *ProfileStore) Reset(ctx context.Context) error {
	query, args := builder().Delete(tableProfileSnapshots).
		Where(entsql.EQ("profile_key", profile.StorageKey)).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reset profile: %w", err)
	}
	return nil
}

// History returns up to limit past profile values, newest first.
func (s *ProfileStore) History(ctx context.Context, limit int) ([]profile.UserProfile, error) {
	sel := builder().Select("data").
		From(entsql.Table(tableProfileSnapshots)).
		Where(entsql.EQ("profile_key", profile.StorageKey)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query profile history: %w", err)
	}
	defer rows.Close()

	var out []profile.UserProfile
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		p, err := profile.Decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// prune deletes all but the newest keep snapshots.
func (s *ProfileStore) prune(ctx context.Context) error {
	if s.keep <= 0 {
		return nil
	}

	query, args := builder().Select("sequence").
		From(entsql.Table(tableProfileSnapshots)).
		Where(entsql.EQ("profile_key", profile.StorageKey)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Offset(s.keep - 1).
		Query()

	var threshold int64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find prune threshold: %w", err)
	}

	query, args = builder().Delete(tableProfileSnapshots).
		Where(entsql.And(
			entsql.EQ("profile_key", profile.StorageKey),
			entsql.LT("sequence", threshold),
		)).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune profiles: %w", err)
	}
	return nil
}
