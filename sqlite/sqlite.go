package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clementus360/simpliday/store"
	"clementus360/simpliday/types"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Fixed-width UTC layout so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var _ store.RecordStore = (*Store)(nil)

// Store is the RecordStore used for local runs and tests.
type Store struct {
	db *sql.DB
}

func NewStore(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	// a single connection keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err = s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS entries (
        id TEXT PRIMARY KEY, -- UUID
        user_id TEXT NOT NULL,
        type TEXT NOT NULL CHECK (type IN ('fitness', 'diet', 'mood', 'energy', 'other')),
        content TEXT NOT NULL,
        parsed_data TEXT NOT NULL DEFAULT '{}',
        created_at TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_entries_user_created ON entries (user_id, created_at);

    CREATE TABLE IF NOT EXISTS profiles (
        id TEXT PRIMARY KEY,
        data TEXT NOT NULL,
        updated_at TEXT NOT NULL
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) CreateEntry(ctx context.Context, owner string, t types.EntryType, content string, fields types.Fields) (types.Entry, error) {
	if err := store.ValidateEntry(owner, t, content); err != nil {
		return types.Entry{}, err
	}

	entry := types.Entry{
		ID:         uuid.NewString(),
		UserID:     owner,
		Type:       t,
		Content:    content,
		ParsedData: types.NormalizeFields(t, fields),
		CreatedAt:  time.Now().UTC(),
	}
	data, err := json.Marshal(entry.ParsedData)
	if err != nil {
		return types.Entry{}, store.Wrap("create entry", fmt.Errorf("failed to marshal fields: %w", err))
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO entries (id, user_id, type, content, parsed_data, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		entry.ID, entry.UserID, string(entry.Type), entry.Content, string(data), entry.CreatedAt.Format(timeLayout))
	if err != nil {
		return types.Entry{}, store.Wrap("create entry", fmt.Errorf("failed to execute entry insert: %w", err))
	}
	return entry, nil
}

func (s *Store) ListEntries(ctx context.Context, owner string, q store.ListQuery) ([]types.Entry, error) {
	if owner == "" {
		return nil, &types.ValidationError{Field: "owner", Message: "missing"}
	}

	query := "SELECT id, user_id, type, content, parsed_data, created_at FROM entries WHERE user_id = ?"
	args := []any{owner}
	if !q.From.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, q.From.UTC().Format(timeLayout))
	}
	if !q.To.IsZero() {
		query += " AND created_at < ?"
		args = append(args, q.To.UTC().Format(timeLayout))
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.Wrap("list entries", fmt.Errorf("failed to query entries: %w", err))
	}
	defer rows.Close()

	var entries []types.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, store.Wrap("list entries", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Wrap("list entries", err)
	}
	return entries, nil
}

func (s *Store) GetEntry(ctx context.Context, owner, id string) (types.Entry, error) {
	if owner == "" || id == "" {
		return types.Entry{}, &types.ValidationError{Field: "id", Message: "missing owner or id"}
	}
	e, err := s.getEntry(ctx, owner, id)
	if err != nil {
		return types.Entry{}, store.Wrap("get entry", err)
	}
	return e, nil
}

func (s *Store) UpdateEntry(ctx context.Context, owner, id, content string, fields types.Fields) (types.Entry, error) {
	if owner == "" || id == "" {
		return types.Entry{}, &types.ValidationError{Field: "id", Message: "missing owner or id"}
	}
	if content == "" {
		return types.Entry{}, &types.ValidationError{Field: "content", Message: "empty"}
	}

	current, err := s.getEntry(ctx, owner, id)
	if err != nil {
		return types.Entry{}, store.Wrap("update entry", err)
	}

	current.Content = content
	current.ParsedData = types.NormalizeFields(current.Type, fields)
	data, err := json.Marshal(current.ParsedData)
	if err != nil {
		return types.Entry{}, store.Wrap("update entry", fmt.Errorf("failed to marshal fields: %w", err))
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE entries SET content = ?, parsed_data = ? WHERE id = ? AND user_id = ?",
		current.Content, string(data), id, owner)
	if err != nil {
		return types.Entry{}, store.Wrap("update entry", fmt.Errorf("failed to execute entry update: %w", err))
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return types.Entry{}, store.Wrap("update entry", store.ErrNotFound)
	}
	return current, nil
}

func (s *Store) DeleteEntry(ctx context.Context, owner, id string) error {
	if owner == "" || id == "" {
		return &types.ValidationError{Field: "id", Message: "missing owner or id"}
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ? AND user_id = ?", id, owner)
	if err != nil {
		return store.Wrap("delete entry", fmt.Errorf("failed to execute entry delete: %w", err))
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.Wrap("delete entry", store.ErrNotFound)
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, owner string) (*types.UserProfile, error) {
	if owner == "" {
		return nil, &types.ValidationError{Field: "owner", Message: "missing"}
	}

	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM profiles WHERE id = ?", owner).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, store.Wrap("get profile", fmt.Errorf("failed to query profile: %w", err))
	}

	var p types.UserProfile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, store.Wrap("get profile", fmt.Errorf("failed to unmarshal profile: %w", err))
	}
	return &p, nil
}

func (s *Store) UpsertProfile(ctx context.Context, owner string, patch types.ProfilePatch) (types.UserProfile, error) {
	if owner == "" {
		return types.UserProfile{}, &types.ValidationError{Field: "owner", Message: "missing"}
	}
	if err := patch.Validate(); err != nil {
		return types.UserProfile{}, err
	}

	current, err := s.GetProfile(ctx, owner)
	if err != nil {
		return types.UserProfile{}, err
	}

	profile := types.MergeProfile(owner, current, patch)
	now := time.Now().UTC()
	profile.UpdatedAt = &now

	data, err := json.Marshal(profile)
	if err != nil {
		return types.UserProfile{}, store.Wrap("upsert profile", fmt.Errorf("failed to marshal profile: %w", err))
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, data, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		owner, string(data), now.Format(timeLayout))
	if err != nil {
		return types.UserProfile{}, store.Wrap("upsert profile", fmt.Errorf("failed to execute profile upsert: %w", err))
	}
	return profile, nil
}

func (s *Store) getEntry(ctx context.Context, owner, id string) (types.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, type, content, parsed_data, created_at FROM entries WHERE id = ? AND user_id = ?", id, owner)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Entry{}, store.ErrNotFound
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (types.Entry, error) {
	var (
		e         types.Entry
		typ       string
		data      string
		createdAt string
	)
	if err := row.Scan(&e.ID, &e.UserID, &typ, &e.Content, &data, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Entry{}, err
		}
		return types.Entry{}, fmt.Errorf("failed to scan entry row: %w", err)
	}
	e.Type = types.EntryType(typ)
	if err := json.Unmarshal([]byte(data), &e.ParsedData); err != nil {
		return types.Entry{}, fmt.Errorf("failed to unmarshal fields: %w", err)
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return types.Entry{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	e.CreatedAt = t
	return e, nil
}
