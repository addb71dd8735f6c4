package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/msgidl/msgidl/internal/ir"
)

// RecordBuild inserts a build record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
// A different build with the same seq is a constraint violation and returns an error.
func (s *Store) RecordBuild(ctx context.Context, b Build) error {
	if err := insertBuild(ctx, s.db, b); err != nil {
		return fmt.Errorf("record build: %w", err)
	}
	return nil
}

// SaveSpec stores the document of spec for lang under an existing build.
//
// Note: The build referenced by buildID must exist (foreign key constraint).
func (s *Store) SaveSpec(ctx context.Context, buildID, lang string, spec *ir.Spec) (StoredSpec, error) {
	stored, err := NewStoredSpec(buildID, lang, spec)
	if err != nil {
		return StoredSpec{}, fmt.Errorf("save spec: %w", err)
	}
	if err := insertSpec(ctx, s.db, stored); err != nil {
		return StoredSpec{}, fmt.Errorf("save spec: %w", err)
	}
	return stored, nil
}

// RecordCompilation records b and one spec per language in a single
// transaction. A zero b.Seq is replaced by the next free seq, read inside
// that transaction. It returns the build as stored and its specs ordered by
// language.
func (s *Store) RecordCompilation(ctx context.Context, b Build, specs map[string]*ir.Spec) (Build, []StoredSpec, error) {
	langs := make([]string, 0, len(specs))
	for lang := range specs {
		langs = append(langs, lang)
	}
	slices.Sort(langs)

	stored := make([]StoredSpec, 0, len(langs))
	for _, lang := range langs {
		ss, err := NewStoredSpec(b.ID, lang, specs[lang])
		if err != nil {
			return Build{}, nil, fmt.Errorf("record compilation: %w", err)
		}
		stored = append(stored, ss)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Build{}, nil, fmt.Errorf("record compilation: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if b.Seq == 0 {
		if b.Seq, err = nextSeq(ctx, tx); err != nil {
			return Build{}, nil, fmt.Errorf("record compilation: %w", err)
		}
	}
	if err := insertBuild(ctx, tx, b); err != nil {
		return Build{}, nil, fmt.Errorf("record compilation: %w", err)
	}
	for _, ss := range stored {
		if err := insertSpec(ctx, tx, ss); err != nil {
			return Build{}, nil, fmt.Errorf("record compilation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Build{}, nil, fmt.Errorf("record compilation: commit: %w", err)
	}
	return b, stored, nil
}

// nextSeq returns one more than the highest recorded seq, or 1 for an empty
// store.
func nextSeq(ctx context.Context, q querier) (int64, error) {
	var seq int64
	if err := q.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM builds`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next seq: %w", err)
	}
	return seq, nil
}

func insertBuild(ctx context.Context, db execer, b Build) error {
	sources, err := marshalSources(b.Sources)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO builds
		(id, seq, sources, source_hash, ir_version, tool_version)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		b.ID,
		b.Seq,
		sources,
		b.SourceHash,
		b.IRVersion,
		b.ToolVersion,
	)
	if err != nil {
		return fmt.Errorf("insert build %s: %w", b.ID, err)
	}
	return nil
}

func insertSpec(ctx context.Context, db execer, ss StoredSpec) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO specs
		(build_id, lang, namespace, spec_hash, document)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(build_id, lang) DO NOTHING
	`,
		ss.BuildID,
		ss.Lang,
		ss.Namespace,
		ss.SpecHash,
		string(ss.Document),
	)
	if err != nil {
		return fmt.Errorf("insert spec %s/%q: %w", ss.BuildID, ss.Lang, err)
	}
	return nil
}
