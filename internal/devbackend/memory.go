package devbackend

import (
	"fmt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// Memory is a dev backend running on an in-process Redis.
type Memory struct {
	*Server
	Redis  *miniredis.Miniredis
	Client *redis.Client
}

// NewMemory starts miniredis and a server on top of it.
func NewMemory(cfg Config) (*Memory, error) {
	mr, err := miniredis.Run()
	if err != nil {
		return nil, fmt.Errorf("devbackend: start miniredis: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	srv, err := New(cfg, rdb)
	if err != nil {
		_ = rdb.Close()
		mr.Close()
		return nil, err
	}

	return &Memory{Server: srv, Redis: mr, Client: rdb}, nil
}

// Close stops the client and miniredis.
func (m *Memory) Close() {
	if m == nil {
		return
	}
	if m.Client != nil {
		_ = m.Client.Close()
	}
	if m.Redis != nil {
		m.Redis.Close()
	}
}
