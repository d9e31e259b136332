package querysequence

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/teeslots/bayfinder/internal/domain/availability"
)

// ValkeyStore shares query tickets across instances through a Valkey counter
// per session.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

var _ availability.QuerySequencer = (*ValkeyStore)(nil)

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "bayfinder:query-seq"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

// Next increments the session counter and refreshes its expiry.
func (s *ValkeyStore) Next(ctx context.Context, session string) (uint64, error) {
	key := s.key(session)
	cmds := valkey.Commands{s.client.B().Incr().Key(key).Build()}
	if s.ttl > 0 {
		cmds = append(cmds, s.client.B().Expire().Key(key).Seconds(int64(s.ttl/time.Second)).Build())
	}
	results := s.client.DoMulti(ctx, cmds...)
	value, err := results[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("increment query sequence: %w", err)
	}
	for _, res := range results[1:] {
		if err := res.Error(); err != nil {
			return 0, fmt.Errorf("expire query sequence: %w", err)
		}
	}
	return uint64(value), nil
}

// Latest returns the most recent ticket issued for the session, or 0.
func (s *ValkeyStore) Latest(ctx context.Context, session string) (uint64, error) {
	value, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(session)).Build()).AsInt64()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read query sequence: %w", err)
	}
	return uint64(value), nil
}

func (s *ValkeyStore) key(session string) string {
	return fmt.Sprintf("%s:%s", s.prefix, session)
}
