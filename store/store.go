package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clementus360/simpliday/types"
)

// ErrNotFound is wrapped when the addressed row does not exist for the owner.
var ErrNotFound = errors.New("record not found")

// Error is returned by every RecordStore operation that fails.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns nil for a nil err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Err: err}
}

// ListQuery filters ListEntries. Zero values mean unbounded.
type ListQuery struct {
	Limit int
	From  time.Time
	To    time.Time
}

// RecordStore persists entries and profiles. Every operation is scoped to the
// owner; implementations never read or write rows belonging to anyone else.
type RecordStore interface {
	CreateEntry(ctx context.Context, owner string, t types.EntryType, content string, fields types.Fields) (types.Entry, error)
	// ListEntries returns entries newest first.
	ListEntries(ctx context.Context, owner string, q ListQuery) ([]types.Entry, error)
	GetEntry(ctx context.Context, owner, id string) (types.Entry, error)
	UpdateEntry(ctx context.Context, owner, id, content string, fields types.Fields) (types.Entry, error)
	DeleteEntry(ctx context.Context, owner, id string) error
	// GetProfile returns nil, nil when the owner has no profile yet.
	GetProfile(ctx context.Context, owner string) (*types.UserProfile, error)
	UpsertProfile(ctx context.Context, owner string, patch types.ProfilePatch) (types.UserProfile, error)
}

// ValidateEntry checks the inputs shared by create and update.
func ValidateEntry(owner string, t types.EntryType, content string) error {
	if owner == "" {
		return &types.ValidationError{Field: "owner", Message: "missing"}
	}
	if !t.Valid() {
		return &types.ValidationError{Field: "type", Message: fmt.Sprintf("unknown entry type %q", t)}
	}
	if content == "" {
		return &types.ValidationError{Field: "content", Message: "empty"}
	}
	return nil
}
