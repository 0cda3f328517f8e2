package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"facelink/hermes/pkg/avatar"
)

// sentCall records one transport round-trip.
type sentCall struct {
	messageType avatar.MessageType
	payload     any
}

// mockTransport scripts responses per message type and records calls.
type mockTransport struct {
	calls   []sentCall
	list    avatar.ParameterListResponse
	listErr error
	sendErr map[avatar.MessageType]error
}

func (m *mockTransport) Send(ctx context.Context, messageType avatar.MessageType, payload any, response any) error {
	m.calls = append(m.calls, sentCall{messageType: messageType, payload: payload})

	if err := m.sendErr[messageType]; err != nil {
		return err
	}

	switch messageType {
	case avatar.MessageTypeParameterList:
		if m.listErr != nil {
			return m.listErr
		}
		*response.(*avatar.ParameterListResponse) = m.list
	case avatar.MessageTypeParameterCreation:
		if out, ok := response.(*avatar.ParameterCreationResponse); ok {
			out.ParameterName = payload.(avatar.ParameterCreationRequest).ParameterName
		}
	}

	return nil
}

func (m *mockTransport) callsOfType(messageType avatar.MessageType) []sentCall {
	var matched []sentCall
	for _, call := range m.calls {
		if call.messageType == messageType {
			matched = append(matched, call)
		}
	}
	return matched
}

// countingHandler counts error-level log records and keeps their
// attribute text.
type countingHandler struct {
	mu       sync.Mutex
	errors   int
	messages []string
}

func (h *countingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *countingHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if record.Level >= slog.LevelError {
		h.errors++
		record.Attrs(func(attr slog.Attr) bool {
			h.messages = append(h.messages, attr.Value.String())
			return true
		})
	}
	return nil
}

func (h *countingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *countingHandler) WithGroup(string) slog.Handler      { return h }

func TestCurrentParameters_MergesCategories(t *testing.T) {
	transport := &mockTransport{
		list: avatar.ParameterListResponse{
			DefaultParameters: []avatar.Parameter{{Name: "FaceAngleX"}},
			CustomParameters:  []avatar.Parameter{{Name: "Smile"}, {Name: "Blink"}},
		},
	}
	r := New(transport, nil)

	current, err := r.CurrentParameters(context.Background())
	if err != nil {
		t.Fatalf("CurrentParameters() error = %v, want nil", err)
	}

	if len(current) != 3 {
		t.Fatalf("len(current) = %d, want 3", len(current))
	}

	names := []string{current[0].Name, current[1].Name, current[2].Name}
	want := []string{"FaceAngleX", "Smile", "Blink"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("current[%d].Name = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestCurrentParameters_Empty(t *testing.T) {
	r := New(&mockTransport{}, nil)

	current, err := r.CurrentParameters(context.Background())
	if err != nil {
		t.Fatalf("CurrentParameters() error = %v, want nil", err)
	}
	if len(current) != 0 {
		t.Errorf("len(current) = %d, want 0", len(current))
	}
}

func TestSynchronize_UpdatesExisting(t *testing.T) {
	transport := &mockTransport{
		list: avatar.ParameterListResponse{
			CustomParameters: []avatar.Parameter{{Name: "Smile", Min: 0, Max: 100}},
		},
	}
	r := New(transport, nil)

	stats, err := r.Synchronize(context.Background(), []avatar.Parameter{
		{Name: "Smile", Min: 0, Max: 100, DefaultValue: 0, Value: 50},
	})
	if err != nil {
		t.Fatalf("Synchronize() error = %v, want nil", err)
	}

	if stats.Updated != 1 || stats.Created != 0 {
		t.Errorf("stats = %+v, want 1 update, 0 creates", stats)
	}

	upserts := transport.callsOfType(avatar.MessageTypeParameterCreation)
	if len(upserts) != 1 {
		t.Fatalf("upsert calls = %d, want exactly 1", len(upserts))
	}

	deletions := transport.callsOfType(avatar.MessageTypeParameterDeletion)
	if len(deletions) != 0 {
		t.Errorf("deletion calls = %d, want 0", len(deletions))
	}

	request := upserts[0].payload.(avatar.ParameterCreationRequest)
	if request.ParameterName != "Smile" || request.Value != 50 {
		t.Errorf("upsert payload = %+v, want Smile with value 50", request)
	}
}

func TestSynchronize_CreatesAbsent(t *testing.T) {
	transport := &mockTransport{}
	r := New(transport, nil)

	stats, err := r.Synchronize(context.Background(), []avatar.Parameter{
		{Name: "Brand-New", Min: 0, Max: 1},
	})
	if err != nil {
		t.Fatalf("Synchronize() error = %v, want nil", err)
	}

	if stats.Created != 1 || stats.Updated != 0 {
		t.Errorf("stats = %+v, want 1 create, 0 updates", stats)
	}

	if upserts := transport.callsOfType(avatar.MessageTypeParameterCreation); len(upserts) != 1 {
		t.Errorf("upsert calls = %d, want exactly 1", len(upserts))
	}
}

func TestSynchronize_UntouchedRemoteSurvivors(t *testing.T) {
	transport := &mockTransport{
		list: avatar.ParameterListResponse{
			CustomParameters: []avatar.Parameter{{Name: "Obsolete"}},
		},
	}
	r := New(transport, nil)

	_, err := r.Synchronize(context.Background(), []avatar.Parameter{{Name: "Fresh"}})
	if err != nil {
		t.Fatalf("Synchronize() error = %v, want nil", err)
	}

	// "Obsolete" is absent from desired: no deletion, no upsert for it.
	if deletions := transport.callsOfType(avatar.MessageTypeParameterDeletion); len(deletions) != 0 {
		t.Errorf("deletion calls = %d, want 0 (reconciliation is additive)", len(deletions))
	}
}

func TestSynchronize_ListFailure(t *testing.T) {
	listErr := &avatar.TransportError{Op: "receive", Cause: errors.New("connection reset")}
	transport := &mockTransport{listErr: listErr}

	handler := &countingHandler{}
	r := New(transport, slog.New(handler))

	_, err := r.Synchronize(context.Background(), []avatar.Parameter{{Name: "Smile"}})
	if !errors.Is(err, listErr) {
		t.Fatalf("Synchronize() error = %v, want the list error", err)
	}

	if upserts := transport.callsOfType(avatar.MessageTypeParameterCreation); len(upserts) != 0 {
		t.Errorf("upsert calls = %d, want 0 after list failure", len(upserts))
	}

	if handler.errors != 1 {
		t.Errorf("error log events = %d, want exactly 1", handler.errors)
	}

	found := false
	for _, message := range handler.messages {
		if strings.Contains(message, "connection reset") {
			found = true
		}
	}
	if !found {
		t.Errorf("logged attributes %v do not carry the underlying message", handler.messages)
	}
}

func TestSynchronize_UpsertFailureStops(t *testing.T) {
	upsertErr := &avatar.APIError{ErrorID: 352, Message: "parameter already exists", RequestType: avatar.MessageTypeParameterCreation}
	transport := &mockTransport{
		sendErr: map[avatar.MessageType]error{avatar.MessageTypeParameterCreation: upsertErr},
	}

	handler := &countingHandler{}
	r := New(transport, slog.New(handler))

	stats, err := r.Synchronize(context.Background(), []avatar.Parameter{
		{Name: "First"},
		{Name: "Second"},
	})

	if !errors.Is(err, upsertErr) {
		t.Fatalf("Synchronize() error = %v, want the upsert error", err)
	}
	if stats.Created != 0 {
		t.Errorf("stats.Created = %d, want 0 (first upsert failed)", stats.Created)
	}
	if handler.errors != 1 {
		t.Errorf("error log events = %d, want exactly 1", handler.errors)
	}
}

func TestDelete(t *testing.T) {
	transport := &mockTransport{}
	r := New(transport, nil)

	if err := r.Delete(context.Background(), "Smile"); err != nil {
		t.Fatalf("Delete() error = %v, want nil", err)
	}

	deletions := transport.callsOfType(avatar.MessageTypeParameterDeletion)
	if len(deletions) != 1 {
		t.Fatalf("deletion calls = %d, want 1", len(deletions))
	}

	request := deletions[0].payload.(avatar.ParameterDeletionRequest)
	if request.ParameterName != "Smile" {
		t.Errorf("deletion payload = %+v, want Smile", request)
	}
}

func TestInjectValues(t *testing.T) {
	transport := &mockTransport{}
	r := New(transport, nil)

	err := r.InjectValues(context.Background(), []avatar.Parameter{
		{Name: "Smile", Value: 42},
		{Name: "Blink", Value: 1},
	})
	if err != nil {
		t.Fatalf("InjectValues() error = %v, want nil", err)
	}

	injections := transport.callsOfType(avatar.MessageTypeInjectParameterData)
	if len(injections) != 1 {
		t.Fatalf("injection calls = %d, want 1", len(injections))
	}

	request := injections[0].payload.(avatar.InjectParameterDataRequest)
	if len(request.ParameterValues) != 2 || request.ParameterValues[0].ID != "Smile" {
		t.Errorf("injection payload = %+v, want Smile and Blink values", request)
	}
}

func TestInjectValues_EmptyIsNoop(t *testing.T) {
	transport := &mockTransport{}
	r := New(transport, nil)

	if err := r.InjectValues(context.Background(), nil); err != nil {
		t.Fatalf("InjectValues(nil) error = %v, want nil", err)
	}
	if len(transport.calls) != 0 {
		t.Errorf("transport calls = %d, want 0", len(transport.calls))
	}
}
