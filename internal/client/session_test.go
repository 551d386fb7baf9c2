package client

import (
	"context"
	"path/filepath"
	"testing"

	"peer-match/internal/client/replica"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_RequiresUserAndBaseURL(t *testing.T) {
	_, err := Open(context.Background(), Config{BaseURL: "http://localhost:8080"}, nil)
	assert.Error(t, err)

	_, err = Open(context.Background(), Config{UserID: uuid.New()}, nil)
	assert.Error(t, err)
}

func TestOpen_ReplicaSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		BaseURL:     "http://127.0.0.1:1",
		UserID:      uuid.New(),
		ReplicaPath: filepath.Join(t.TempDir(), "replica.db"),
	}

	s, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	target := uuid.New()
	added, err := s.Deps.Replica.RecordOptimistic(ctx, replica.Entry{TargetID: target, DisplayName: "jane"})
	require.NoError(t, err)
	require.True(t, added)
	require.NoError(t, s.Close())

	s, err = Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer s.Close()
	assert.True(t, s.Deps.Replica.Contains(target))

	other := cfg
	other.ReplicaSession = "someone-else"
	s2, err := Open(ctx, other, nil)
	require.NoError(t, err)
	defer s2.Close()
	assert.False(t, s2.Deps.Replica.Contains(target))
}
