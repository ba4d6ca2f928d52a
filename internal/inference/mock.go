package inference

import "fmt"

// MockBackend is a test implementation of Backend with canned per-model
// outputs.
type MockBackend struct {
	models map[string]*MockModel
}

// NewMockBackend creates an empty MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{models: make(map[string]*MockModel)}
}

// SetModel registers a mock model under the given name.
func (b *MockBackend) SetModel(name string, m *MockModel) {
	b.models[name] = m
}

// Model returns the registered mock, or ErrModelNotFound.
func (b *MockBackend) Model(name string) (Model, error) {
	m, ok := b.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	return m, nil
}

// Close is a no-op for the mock backend.
func (b *MockBackend) Close() error {
	return nil
}

// MockModel returns pre-configured outputs or an error, and records how
// many times it was invoked.
type MockModel struct {
	Outputs map[string]Tensor
	Err     error
	Calls   int
}

// Infer returns the configured outputs or error.
func (m *MockModel) Infer(input Tensor) (map[string]Tensor, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Outputs, nil
}
