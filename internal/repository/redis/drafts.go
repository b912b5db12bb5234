package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	redisx "github.com/flytau/flytau/internal/redis"
)

// FlightDraft is the state of the three-step flight creation wizard. It
// lives in Redis under a TTL so an abandoned draft disappears on its own
// and survives instance restarts, unlike in-process session state.
type FlightDraft struct {
	ID          string `json:"id"`
	ManagerCode string `json:"manager_code"`
	Step        int    `json:"step"`

	// step 1: route and schedule
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Departure   time.Time `json:"departure"`
	DurationMin int       `json:"duration_min"`

	// step 2: resources
	AircraftID   int64   `json:"aircraft_id"`
	PilotIDs     []int64 `json:"pilot_ids"`
	AttendantIDs []int64 `json:"attendant_ids"`

	CreatedAt time.Time `json:"created_at"`
}

type DraftStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDraftStore(rdb *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{rdb: rdb, ttl: ttl}
}

func (s *DraftStore) Save(ctx context.Context, d FlightDraft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, redisx.KeyFlightDraft(d.ID), b, s.ttl).Err()
}

// Get loads a draft.
//
// Returns:
//   - bool: false when the draft does not exist or has expired.
func (s *DraftStore) Get(ctx context.Context, draftID string) (FlightDraft, bool, error) {
	var d FlightDraft

	v, err := s.rdb.Get(ctx, redisx.KeyFlightDraft(draftID)).Result()
	if err == redis.Nil {
		return d, false, nil
	}
	if err != nil {
		return d, false, err
	}

	if err := json.Unmarshal([]byte(v), &d); err != nil {
		return d, false, err
	}

	return d, true, nil
}

func (s *DraftStore) Delete(ctx context.Context, draftID string) error {
	return s.rdb.Del(ctx, redisx.KeyFlightDraft(draftID)).Err()
}
