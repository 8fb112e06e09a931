package redisstorage

import (
	"context"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/Jerry-Shen0527/rznode/internal/typed"
)

// Storage implements storage.NamedStorage over a Redis key space. Each named
// value is stored as a small JSON envelope carrying its registered type name
// alongside the cty-encoded value, so Get can decode it without the caller
// supplying a type.
type Storage struct {
	client *redis.Client
	types  *typed.Registry
	prefix string
}

type envelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// New returns a Storage backed by client, resolving stored type names
// against types. prefix namespaces this storage's keys within the Redis
// keyspace (e.g. "rznode:storage:").
func New(client *redis.Client, types *typed.Registry, prefix string) *Storage {
	return &Storage{client: client, types: types, prefix: prefix}
}

func (s *Storage) key(name string) string { return s.prefix + name }

// Get satisfies storage.NamedStorage. Any Redis or decode error is treated
// as a miss; the executor's refresh_storage/try_fill_storage_to_node logic
// already handles a missing name.
func (s *Storage) Get(name string) (typed.Any, bool) {
	raw, err := s.client.Get(context.Background(), s.key(name)).Bytes()
	if err != nil {
		return typed.Any{}, false
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return typed.Any{}, false
	}
	t, ok := s.types.ResolveByName(env.Type)
	if !ok {
		return typed.Any{}, false
	}
	v, err := typed.UnmarshalAny(env.Value, t)
	if err != nil {
		return typed.Any{}, false
	}
	return v, true
}

// Set satisfies storage.NamedStorage. A polymorphic-empty value has no type
// to record in the envelope and is silently dropped, as is a value that
// fails to marshal. (The in-memory implementation stores any value as is.)
func (s *Storage) Set(name string, v typed.Any) {
	if v.IsEmpty() {
		return
	}
	blob, err := typed.MarshalAny(v)
	if err != nil {
		return
	}
	raw, err := json.Marshal(envelope{Type: v.Type().Name(), Value: blob})
	if err != nil {
		return
	}
	s.client.Set(context.Background(), s.key(name), raw, 0)
}

func (s *Storage) Delete(name string) {
	s.client.Del(context.Background(), s.key(name))
}

// Names lists every key currently under this Storage's prefix. It issues a
// blocking SCAN; callers that need this to be cheap should keep the Redis
// keyspace under this prefix small, which holds for the executor's use case
// (one entry per live func_storage_in/simulation name).
func (s *Storage) Names() []string {
	ctx := context.Background()
	var out []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		out = append(out, iter.Val()[len(s.prefix):])
	}
	return out
}
