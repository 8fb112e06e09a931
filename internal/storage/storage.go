package storage

import "github.com/Jerry-Shen0527/rznode/internal/typed"

// NamedStorage is the name -> boxed-value map an Executor uses to back
// func_storage_in/func_storage_out and simulation_out/simulation_in.
// Implementations need not be safe for concurrent use; the executor that
// owns one drives it single-threaded, per the spec's concurrency model.
type NamedStorage interface {
	Get(name string) (typed.Any, bool)
	Set(name string, v typed.Any)
	Delete(name string)
	// Names returns every currently-stored key, for refresh_storage's
	// garbage-collection pass.
	Names() []string
}

// Memory is the default in-process NamedStorage.
type Memory struct {
	values map[string]typed.Any
}

// NewMemory returns an empty in-memory NamedStorage.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]typed.Any)}
}

func (m *Memory) Get(name string) (typed.Any, bool) {
	v, ok := m.values[name]
	return v, ok
}

func (m *Memory) Set(name string, v typed.Any) {
	m.values[name] = v
}

func (m *Memory) Delete(name string) {
	delete(m.values, name)
}

func (m *Memory) Names() []string {
	out := make([]string, 0, len(m.values))
	for k := range m.values {
		out = append(out, k)
	}
	return out
}
