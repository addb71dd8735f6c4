package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const buildColumns = `id, seq, sources, source_hash, ir_version, tool_version`

const specColumns = `build_id, lang, namespace, spec_hash, document`

// GetBuild returns the build with the given id, or ErrNotFound.
func (s *Store) GetBuild(ctx context.Context, id string) (Build, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+buildColumns+` FROM builds WHERE id = ?`, id)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, fmt.Errorf("build %s: %w", id, ErrNotFound)
	}
	return b, err
}

// LatestBuild returns the build with the highest seq, or ErrNotFound when
// the store is empty.
func (s *Store) LatestBuild(ctx context.Context) (Build, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+buildColumns+`
		FROM builds
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, fmt.Errorf("latest build: %w", ErrNotFound)
	}
	return b, err
}

// ListBuilds returns every build ordered by seq.
//
// Returns an empty slice (not nil) if no builds exist.
func (s *Store) ListBuilds(ctx context.Context) ([]Build, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+buildColumns+`
		FROM builds
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	builds := []Build{}
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return builds, nil
}

// LoadSpec returns the stored spec of a build for lang, or ErrNotFound.
func (s *Store) LoadSpec(ctx context.Context, buildID, lang string) (StoredSpec, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+specColumns+`
		FROM specs
		WHERE build_id = ? AND lang = ?
	`, buildID, lang)
	ss, err := scanSpec(row)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredSpec{}, fmt.Errorf("spec %s/%q: %w", buildID, lang, ErrNotFound)
	}
	return ss, err
}

// SpecsForBuild returns the specs of a build ordered by language.
//
// Returns an empty slice (not nil) if the build has no specs.
func (s *Store) SpecsForBuild(ctx context.Context, buildID string) ([]StoredSpec, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+specColumns+`
		FROM specs
		WHERE build_id = ?
		ORDER BY lang COLLATE BINARY ASC
	`, buildID)
	if err != nil {
		return nil, fmt.Errorf("query specs: %w", err)
	}
	defer rows.Close()

	specs := []StoredSpec{}
	for rows.Next() {
		ss, err := scanSpec(rows)
		if err != nil {
			return nil, err
		}
		specs = append(specs, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate specs: %w", err)
	}
	return specs, nil
}

// FirstBuildWithSpec returns the earliest build whose spec for lang has the
// given hash, or ErrNotFound.
func (s *Store) FirstBuildWithSpec(ctx context.Context, lang, specHash string) (Build, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT b.id, b.seq, b.sources, b.source_hash, b.ir_version, b.tool_version
		FROM builds b
		JOIN specs s ON s.build_id = b.id
		WHERE s.lang = ? AND s.spec_hash = ?
		ORDER BY b.seq ASC, b.id COLLATE BINARY ASC
		LIMIT 1
	`, lang, specHash)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, fmt.Errorf("spec hash %s: %w", specHash, ErrNotFound)
	}
	return b, err
}

func scanBuild(row scanner) (Build, error) {
	var b Build
	var sources string
	if err := row.Scan(&b.ID, &b.Seq, &sources, &b.SourceHash, &b.IRVersion, &b.ToolVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Build{}, err
		}
		return Build{}, fmt.Errorf("scan build: %w", err)
	}
	list, err := unmarshalSources(sources)
	if err != nil {
		return Build{}, fmt.Errorf("build %s: %w", b.ID, err)
	}
	b.Sources = list
	return b, nil
}

func scanSpec(row scanner) (StoredSpec, error) {
	var ss StoredSpec
	var document string
	if err := row.Scan(&ss.BuildID, &ss.Lang, &ss.Namespace, &ss.SpecHash, &document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StoredSpec{}, err
		}
		return StoredSpec{}, fmt.Errorf("scan spec: %w", err)
	}
	ss.Document = []byte(document)
	return ss, nil
}
