package exec

import (
	"context"
	"sync"
)

// MockRunner implements Runner for testing.
type MockRunner struct {
	mu sync.Mutex

	// Calls records all command invocations
	Calls []MockCall

	// Responses maps a program name (or "sh" for Shell) to a canned response
	Responses map[string]MockResponse

	// Hooks maps a program name (or "sh") to a function run in place of the
	// command. A hook's error takes precedence over Responses.
	Hooks map[string]func(call MockCall) error
}

// MockCall records a single command invocation.
type MockCall struct {
	Name string
	Args []string
	Dir  string
	Line string
	Env  map[string]string
}

// MockResponse defines the response for a mocked command.
type MockResponse struct {
	Stdout []byte
	Err    error
}

// NewMockRunner creates a new mock runner.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Responses: make(map[string]MockResponse),
		Hooks:     make(map[string]func(MockCall) error),
	}
}

// AddResponse sets the response for a program.
func (m *MockRunner) AddResponse(name string, resp MockResponse) {
	m.Responses[name] = resp
}

// OnCommand installs a hook for a program.
func (m *MockRunner) OnCommand(name string, fn func(call MockCall) error) {
	m.Hooks[name] = fn
}

// CallsTo returns the recorded invocations of a program.
func (m *MockRunner) CallsTo(name string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MockCall
	for _, c := range m.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockRunner) invoke(call MockCall) MockResponse {
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	hook := m.Hooks[call.Name]
	resp := m.Responses[call.Name]
	m.mu.Unlock()

	if hook != nil {
		if err := hook(call); err != nil {
			return MockResponse{Err: err}
		}
	}
	return resp
}

func (m *MockRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	return m.invoke(MockCall{Name: name, Args: args, Dir: dir}).Err
}

func (m *MockRunner) Shell(ctx context.Context, dir, line string, env map[string]string) error {
	copied := make(map[string]string, len(env))
	for k, v := range env {
		copied[k] = v
	}
	return m.invoke(MockCall{Name: "sh", Args: []string{"-c", line}, Dir: dir, Line: line, Env: copied}).Err
}

func (m *MockRunner) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	resp := m.invoke(MockCall{Name: name, Args: args, Dir: dir})
	return resp.Stdout, resp.Err
}
