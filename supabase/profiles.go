package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clementus360/simpliday/store"
	"clementus360/simpliday/types"
)

// Get the owner's profile, nil when none has been saved yet
func (s *Store) GetProfile(ctx context.Context, owner string) (*types.UserProfile, error) {
	if owner == "" {
		return nil, &types.ValidationError{Field: "owner", Message: "missing"}
	}
	client, err := s.clientFor(ctx)
	if err != nil {
		return nil, store.Wrap("get profile", err)
	}

	// A select without Single() returns an empty array for a missing row
	// instead of the PGRST116 error.
	resp, _, err := client.From(profilesTable).
		Select("*", "", false).
		Eq("id", owner).
		Execute()
	if err != nil {
		return nil, store.Wrap("get profile", fmt.Errorf("failed to fetch profile: %w", err))
	}

	var profiles []types.UserProfile
	if err := json.Unmarshal(resp, &profiles); err != nil {
		return nil, store.Wrap("get profile", fmt.Errorf("failed to unmarshal profile: %w", err))
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}

// Merge the patch onto the stored profile and upsert it with a fresh TDEE
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
	now := time.Now()
	profile.UpdatedAt = &now

	client, err := s.clientFor(ctx)
	if err != nil {
		return types.UserProfile{}, store.Wrap("upsert profile", err)
	}

	resp, _, err := client.From(profilesTable).
		Upsert(profile, "id", "", "").
		Execute()
	if err != nil {
		return types.UserProfile{}, store.Wrap("upsert profile", fmt.Errorf("failed to upsert profile: %w", err))
	}

	var saved []types.UserProfile
	if err := json.Unmarshal(resp, &saved); err == nil && len(saved) > 0 {
		return saved[0], nil
	}
	return profile, nil
}
