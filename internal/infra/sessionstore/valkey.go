package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"

	"github.com/golbarg/plantcare/internal/domain/identify"
)

// ValkeyStore keeps identification sessions in a Valkey-compatible
// database so state survives process restarts. Sessions expire with the
// configured TTL; they are transient flow state, not durable records.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "plantcare"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *ValkeyStore) Save(ctx context.Context, session *identify.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.sessionKey(session.ID)).Value(string(payload))
	var cmd valkey.Completed
	if s.ttl > 0 {
		ttl := s.ttl
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Get(ctx context.Context, id uuid.UUID) (*identify.Session, bool, error) {
	cmd := s.client.B().Get().Key(s.sessionKey(id)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var session identify.Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, false, err
	}
	return &session, true, nil
}

func (s *ValkeyStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.sessionKey(id)).Build()).Error()
}

func (s *ValkeyStore) sessionKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, id)
}

var _ identify.SessionStore = (*ValkeyStore)(nil)
