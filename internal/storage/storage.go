package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/food-guardian/pkg/session"
)

// Storage keeps session snapshots between API requests.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	SaveSession(ctx context.Context, st *session.State) error
	// LoadSession returns nil, nil when no session exists for id.
	LoadSession(ctx context.Context, id uuid.UUID) (*session.State, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

func sessionKey(id uuid.UUID) string {
	return "session:" + id.String()
}
