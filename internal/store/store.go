// Package store persists creators, generated scripts and usage counters in
// Supabase. Every query is scoped to the owning user.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"oryos/style-gateway/internal/usage"
	"oryos/style-gateway/models"
)

const (
	tableCreators = "creators"
	tableScripts  = "generated_scripts"
	tableUsage    = "user_usage"
)

// ErrNotFound means the row does not exist or belongs to another user.
var ErrNotFound = errors.New("record not found")

// Store wraps the Supabase client with typed accessors. Database functions
// are called through dedicated postgrest clients because the supabase
// wrapper's Rpc surface hides call errors.
type Store struct {
	db         *supa.Client
	restURL    string
	serviceKey string
	log        *logrus.Logger
}

func New(supabaseURL, serviceKey string, log *logrus.Logger) (*Store, error) {
	client, err := supa.NewClient(supabaseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing supabase client: %w", err)
	}
	return &Store{
		db:         client,
		restURL:    supabaseURL + "/rest/v1",
		serviceKey: serviceKey,
		log:        log,
	}, nil
}

// rpcClient builds a fresh postgrest client for one RPC call. The client's
// ClientError field is how call failures surface, so sharing one client
// across goroutines would race on it.
func (s *Store) rpcClient() *postgrest.Client {
	return postgrest.NewClient(s.restURL, "", map[string]string{
		"apikey":        s.serviceKey,
		"Authorization": "Bearer " + s.serviceKey,
	})
}

// --- creators ---

func (s *Store) CreateCreator(_ context.Context, creator *models.Creator) (*models.Creator, error) {
	now := time.Now().UTC()
	creator.CreatedAt = now
	creator.UpdatedAt = now
	if creator.ID == uuid.Nil {
		creator.ID = uuid.New()
	}

	body, _, err := s.db.From(tableCreators).
		Insert(creator, false, "", "representation", "").
		Single().
		Execute()
	if err != nil {
		return nil, fmt.Errorf("inserting creator: %w", err)
	}

	var saved models.Creator
	if err := json.Unmarshal(body, &saved); err != nil {
		return nil, fmt.Errorf("decoding inserted creator: %w", err)
	}
	return &saved, nil
}

func (s *Store) GetCreator(_ context.Context, userID string, id uuid.UUID) (*models.Creator, error) {
	body, _, err := s.db.From(tableCreators).
		Select("*", "", false).
		Eq("id", id.String()).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching creator %s: %w", id, err)
	}

	var creators []models.Creator
	if err := json.Unmarshal(body, &creators); err != nil {
		return nil, fmt.Errorf("decoding creator %s: %w", id, err)
	}
	if len(creators) == 0 {
		return nil, ErrNotFound
	}
	return &creators[0], nil
}

func (s *Store) ListCreators(_ context.Context, userID string) ([]models.Creator, error) {
	body, _, err := s.db.From(tableCreators).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing creators: %w", err)
	}

	var creators []models.Creator
	if err := json.Unmarshal(body, &creators); err != nil {
		return nil, fmt.Errorf("decoding creators: %w", err)
	}
	return creators, nil
}

func (s *Store) CountCreators(ctx context.Context, userID string) (int, error) {
	creators, err := s.ListCreators(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(creators), nil
}

// UpdateCreator patches the given columns and returns the updated row.
func (s *Store) UpdateCreator(ctx context.Context, userID string, id uuid.UUID, fields map[string]interface{}) (*models.Creator, error) {
	if _, err := s.GetCreator(ctx, userID, id); err != nil {
		return nil, err
	}

	fields["updated_at"] = time.Now().UTC()

	body, _, err := s.db.From(tableCreators).
		Update(fields, "", "representation").
		Eq("id", id.String()).
		Eq("user_id", userID).
		Single().
		Execute()
	if err != nil {
		return nil, fmt.Errorf("updating creator %s: %w", id, err)
	}

	var updated models.Creator
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, fmt.Errorf("decoding updated creator %s: %w", id, err)
	}
	return &updated, nil
}

// DeleteCreator removes the creator row. Scripts generated from it are kept
// and left with a dangling creator_id.
func (s *Store) DeleteCreator(ctx context.Context, userID string, id uuid.UUID) error {
	if _, err := s.GetCreator(ctx, userID, id); err != nil {
		return err
	}

	_, _, err := s.db.From(tableCreators).
		Delete("minimal", "").
		Eq("id", id.String()).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("deleting creator %s: %w", id, err)
	}
	return nil
}

// --- generated scripts ---

func (s *Store) CreateScript(_ context.Context, script *models.GeneratedScript) (*models.GeneratedScript, error) {
	script.CreatedAt = time.Now().UTC()
	if script.ID == uuid.Nil {
		script.ID = uuid.New()
	}

	body, _, err := s.db.From(tableScripts).
		Insert(script, false, "", "representation", "").
		Single().
		Execute()
	if err != nil {
		return nil, fmt.Errorf("inserting script: %w", err)
	}

	var saved models.GeneratedScript
	if err := json.Unmarshal(body, &saved); err != nil {
		return nil, fmt.Errorf("decoding inserted script: %w", err)
	}
	return &saved, nil
}

func (s *Store) GetScript(_ context.Context, userID string, id uuid.UUID) (*models.GeneratedScript, error) {
	body, _, err := s.db.From(tableScripts).
		Select("*", "", false).
		Eq("id", id.String()).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching script %s: %w", id, err)
	}

	var scripts []models.GeneratedScript
	if err := json.Unmarshal(body, &scripts); err != nil {
		return nil, fmt.Errorf("decoding script %s: %w", id, err)
	}
	if len(scripts) == 0 {
		return nil, ErrNotFound
	}
	return &scripts[0], nil
}

// ListScripts returns the user's scripts, newest first. A non-nil creatorID
// narrows the list to scripts generated from that creator; a positive limit
// caps the result in the query itself.
func (s *Store) ListScripts(_ context.Context, userID string, creatorID *uuid.UUID, limit int) ([]models.GeneratedScript, error) {
	q := s.db.From(tableScripts).
		Select("*", "", false).
		Eq("user_id", userID)
	if creatorID != nil {
		q = q.Eq("creator_id", creatorID.String())
	}
	q = q.Order("created_at", &postgrest.OrderOpts{Ascending: false})
	if limit > 0 {
		q = q.Limit(limit, "")
	}

	body, _, err := q.Execute()
	if err != nil {
		return nil, fmt.Errorf("listing scripts: %w", err)
	}

	var scripts []models.GeneratedScript
	if err := json.Unmarshal(body, &scripts); err != nil {
		return nil, fmt.Errorf("decoding scripts: %w", err)
	}
	return scripts, nil
}

func (s *Store) UpdateScript(ctx context.Context, userID string, id uuid.UUID, fields map[string]interface{}) (*models.GeneratedScript, error) {
	if _, err := s.GetScript(ctx, userID, id); err != nil {
		return nil, err
	}

	body, _, err := s.db.From(tableScripts).
		Update(fields, "", "representation").
		Eq("id", id.String()).
		Eq("user_id", userID).
		Single().
		Execute()
	if err != nil {
		return nil, fmt.Errorf("updating script %s: %w", id, err)
	}

	var updated models.GeneratedScript
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, fmt.Errorf("decoding updated script %s: %w", id, err)
	}
	return &updated, nil
}

func (s *Store) DeleteScript(ctx context.Context, userID string, id uuid.UUID) error {
	if _, err := s.GetScript(ctx, userID, id); err != nil {
		return err
	}

	_, _, err := s.db.From(tableScripts).
		Delete("minimal", "").
		Eq("id", id.String()).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("deleting script %s: %w", id, err)
	}
	return nil
}

// --- usage counters ---

func (s *Store) GetUsage(_ context.Context, userID string) (*models.UserUsage, error) {
	body, _, err := s.db.From(tableUsage).
		Select("*", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching usage for %s: %w", userID, err)
	}

	var rows []models.UserUsage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decoding usage for %s: %w", userID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// IncrementUsage calls the increment_usage database function so concurrent
// requests never lose an update.
func (s *Store) IncrementUsage(_ context.Context, userID string, kind usage.Kind) error {
	column, err := usageColumn(kind)
	if err != nil {
		return err
	}

	rest := s.rpcClient()
	rest.Rpc("increment_usage", "", map[string]interface{}{
		"p_user_id": userID,
		"p_column":  column,
	})
	if rest.ClientError != nil {
		return fmt.Errorf("incrementing %s for %s: %w", column, userID, rest.ClientError)
	}
	return nil
}

func (s *Store) ResetUsage(_ context.Context, userID string, periodStart time.Time) error {
	_, _, err := s.db.From(tableUsage).
		Update(map[string]interface{}{
			"analyses_this_month":    0,
			"scripts_this_month":     0,
			"transcripts_this_month": 0,
			"period_start":           periodStart,
		}, "", "").
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("resetting usage for %s: %w", userID, err)
	}
	return nil
}

func usageColumn(kind usage.Kind) (string, error) {
	switch kind {
	case usage.KindAnalyses:
		return "analyses_this_month", nil
	case usage.KindScripts:
		return "scripts_this_month", nil
	case usage.KindTranscripts:
		return "transcripts_this_month", nil
	default:
		return "", fmt.Errorf("unknown usage kind %q", kind)
	}
}
