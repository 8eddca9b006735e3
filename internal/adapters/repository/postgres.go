package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okian/talentportal/internal/domain/feedback"
	"github.com/okian/talentportal/internal/domain/model"
	"github.com/okian/talentportal/pkg/metrics"
)

// PostgresStore keeps typed JSONB documents in one table.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
	cfg   settings
}

// NewPostgresStore connects to databaseURL, then runs Init against table.
func NewPostgresStore(ctx context.Context, databaseURL, table string, opts ...Option) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", ErrStoreUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrStoreUnavailable, err)
	}

	s := &PostgresStore{
		pool:  pool,
		table: pgx.Identifier{table}.Sanitize(),
		cfg:   newSettings(opts),
	}
	if err := s.initSchema(ctx, table); err != nil {
		pool.Close()
		return nil, err
	}
	if err := s.Init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) initSchema(ctx context.Context, table string) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id         TEXT PRIMARY KEY,
		type       TEXT NOT NULL,
		data       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, s.table)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("%w: create table: %w", ErrStoreUnavailable, err)
	}
	idx := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (type)`,
		pgx.Identifier{table + "_type_idx"}.Sanitize(), s.table)
	if _, err := s.pool.Exec(ctx, idx); err != nil {
		return fmt.Errorf("%w: create index: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Init seeds the table when it holds no documents.
func (s *PostgresStore) Init(ctx context.Context) error {
	var n int
	if err := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table)).Scan(&n); err != nil {
		return fmt.Errorf("%w: count: %w", ErrStoreUnavailable, err)
	}
	if n > 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrStoreUnavailable, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insert := fmt.Sprintf(`INSERT INTO %s (id, type, data) VALUES ($1, $2, $3::jsonb) ON CONFLICT (id) DO NOTHING`, s.table)
	batch := &pgx.Batch{}
	queue := func(docType, id string, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", id, err)
		}
		batch.Queue(insert, docID(docType, id), docType, string(b))
		return nil
	}
	seed := s.cfg.seed
	if seed.Profile.ID != "" {
		if err := queue(TypeUserProfile, seed.Profile.ID, seed.Profile); err != nil {
			return err
		}
	}
	for _, p := range seed.Personas {
		if err := queue(TypePersona, p.ID, p); err != nil {
			return err
		}
	}
	for _, m := range seed.Team {
		if m.Feedbacks == nil {
			m.Feedbacks = []model.ClientFeedback{}
		}
		if err := queue(TypeTeamMember, m.ID, m); err != nil {
			return err
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%w: seed: %w", ErrStoreUnavailable, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrStoreUnavailable, err)
	}
	metrics.RecordStoreSeeded(BackendPostgres)
	return nil
}

func (s *PostgresStore) GetProfile(ctx context.Context) (p model.UserProfile, err error) {
	defer func(start time.Time) { observe(BackendPostgres, "get_profile", start, err) }(time.Now())
	var raw []byte
	err = s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT data FROM %s WHERE id = $1 AND type = $2`, s.table),
		docID(TypeUserProfile, s.cfg.profileID), TypeUserProfile,
	).Scan(&raw)
	if err != nil {
		return model.UserProfile{}, classifyPostgres(err)
	}
	if err = json.Unmarshal(raw, &p); err != nil {
		return model.UserProfile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) GetPersonas(ctx context.Context) (out []model.Persona, err error) {
	defer func(start time.Time) { observe(BackendPostgres, "get_personas", start, err) }(time.Now())
	out = []model.Persona{}
	err = s.scanAll(ctx, TypePersona, func(raw []byte) error {
		var p model.Persona
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) GetTeam(ctx context.Context) (out []model.TeamMemberSummary, err error) {
	defer func(start time.Time) { observe(BackendPostgres, "get_team", start, err) }(time.Now())
	out = []model.TeamMemberSummary{}
	err = s.scanAll(ctx, TypeTeamMember, func(raw []byte) error {
		var m model.TeamMemberSummary
		if err := json.Unmarshal(raw, &m); err != nil {
			return err
		}
		if m.Feedbacks == nil {
			m.Feedbacks = []model.ClientFeedback{}
		}
		out = append(out, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) RegisterFeedback(ctx context.Context, memberID string, in model.FeedbackInput) (fb model.ClientFeedback, err error) {
	defer func(start time.Time) { observe(BackendPostgres, "register_feedback", start, err) }(time.Now())
	fb = feedback.Build(in, s.cfg.now())
	b, err := json.Marshal(fb)
	if err != nil {
		return model.ClientFeedback{}, fmt.Errorf("encode feedback: %w", err)
	}
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`UPDATE %s
		SET data = jsonb_set(data, '{feedbacks}',
			CASE WHEN jsonb_typeof(data->'feedbacks') = 'array' THEN data->'feedbacks' ELSE '[]'::jsonb END
			|| jsonb_build_array($2::jsonb)),
		    updated_at = NOW()
		WHERE id = $1 AND type = $3`, s.table),
		docID(TypeTeamMember, memberID), string(b), TypeTeamMember,
	)
	if err != nil {
		return model.ClientFeedback{}, classifyPostgres(err)
	}
	if tag.RowsAffected() == 0 {
		return model.ClientFeedback{}, ErrNotFound
	}
	return fb, nil
}

func (s *PostgresStore) AwardKudos(ctx context.Context, memberID string) (r model.KudosResult, err error) {
	defer func(start time.Time) { observe(BackendPostgres, "award_kudos", start, err) }(time.Now())
	var n int
	err = s.pool.QueryRow(ctx, fmt.Sprintf(`UPDATE %s
		SET data = jsonb_set(data, '{kudosCount}', to_jsonb(COALESCE((data->>'kudosCount')::int, 0) + 1)),
		    updated_at = NOW()
		WHERE id = $1 AND type = $2
		RETURNING (data->>'kudosCount')::int`, s.table),
		docID(TypeTeamMember, memberID), TypeTeamMember,
	).Scan(&n)
	if err != nil {
		return model.KudosResult{}, classifyPostgres(err)
	}
	return model.KudosResult{Success: true, NewCount: n}, nil
}

// Close closes the pool.
func (s *PostgresStore) Close(_ context.Context) error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) scanAll(ctx context.Context, docType string, fn func([]byte) error) error {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT data FROM %s WHERE type = $1 ORDER BY id`, s.table), docType)
	if err != nil {
		return classifyPostgres(err)
	}
	defer rows.Close()
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return classifyPostgres(err)
		}
		if err := fn(raw); err != nil {
			return fmt.Errorf("decode %s: %w", docType, err)
		}
	}
	if err := rows.Err(); err != nil {
		return classifyPostgres(err)
	}
	return nil
}

func classifyPostgres(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
