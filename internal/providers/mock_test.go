package providers

import (
	"errors"
	"testing"

	"cloudlift/nodectl/internal/domain"
)

func TestMockCreateListDestroy(t *testing.T) {
	ctx := t.Context()
	conn := NewMockConnection(domain.Credentials{Key: "k"}, nil)

	node, err := conn.CreateNode(ctx, domain.CreateNodeOpts{
		Name:  "web1",
		Size:  mockSizes[0],
		Image: mockImages[0],
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if node.State != domain.StatePending {
		t.Errorf("new node state = %v, want %v", node.State, domain.StatePending)
	}
	if node.Password == "" {
		t.Error("new node should carry a generated password")
	}
	if node.UUID == "" {
		t.Error("new node should carry a UUID")
	}

	// The node stays pending for the first poll, then flips to
	// running, and the password is never listed back.
	nodes, err := conn.ListNodes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(nodes) != 1 || nodes[0].State != domain.StatePending {
		t.Fatalf("after one poll: %+v", nodes)
	}
	if nodes[0].Password != "" {
		t.Error("listed node leaked the creation password")
	}

	nodes, _ = conn.ListNodes(ctx)
	if nodes[0].State != domain.StateRunning {
		t.Errorf("after two polls state = %v, want %v", nodes[0].State, domain.StateRunning)
	}

	if err := conn.DestroyNode(ctx, node); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	nodes, _ = conn.ListNodes(ctx)
	if len(nodes) != 0 {
		t.Errorf("after destroy, %d nodes remain", len(nodes))
	}
}

func TestMockDestroyMissing(t *testing.T) {
	conn := NewMockConnection(domain.Credentials{Key: "k"}, nil)
	err := conn.DestroyNode(t.Context(), &domain.Node{UUID: "nope", Name: "ghost"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMockCreationOrderPreserved(t *testing.T) {
	ctx := t.Context()
	conn := NewMockConnection(domain.Credentials{Key: "k"}, nil)

	for _, name := range []string{"a1", "b2", "c3"} {
		if _, err := conn.CreateNode(ctx, domain.CreateNodeOpts{Name: name, Size: mockSizes[0], Image: mockImages[0]}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	nodes, err := conn.ListNodes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := []string{nodes[0].Name, nodes[1].Name, nodes[2].Name}
	want := []string{"a1", "b2", "c3"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("node[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMockFactoryRejectsEmptyKey(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	RegisterMock()

	_, err := Connect(t.Context(), "mock", domain.Credentials{}, nil)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for empty key, got %v", err)
	}

	if _, err := Connect(t.Context(), "mock", domain.Credentials{Key: "anything"}, nil); err != nil {
		t.Errorf("expected success with non-empty key, got %v", err)
	}
}
