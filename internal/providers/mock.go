package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cloudlift/nodectl/internal/domain"
)

// MockConnection implements domain.Connection entirely in memory. It
// backs the MOCK provider, which lets the CLI be exercised end to end
// without cloud credentials: created nodes start out pending and reach
// running after a couple of list polls, so waits behave realistically.
type MockConnection struct {
	logger *zap.Logger

	mu      sync.Mutex
	nodes   []*mockNode
	created int
}

type mockNode struct {
	node domain.Node

	// pollsLeft counts ListNodes calls until the node flips from
	// pending to running.
	pollsLeft int
}

// mockPollsToRunning is how many ListNodes observations a freshly
// created mock node stays pending for.
const mockPollsToRunning = 2

var mockSizes = []domain.Size{
	{ID: "1", Name: "m1.tiny", RAM: 512, Disk: 10, Bandwidth: 1, Price: 3.50},
	{ID: "2", Name: "m1.small", RAM: 1024, Disk: 25, Bandwidth: 2, Price: 6.00},
	{ID: "3", Name: "m1.medium", RAM: 2048, Disk: 50, Bandwidth: 4, Price: 12.00},
	{ID: "4", Name: "m1.large", RAM: 4096, Disk: 100, Bandwidth: 8, Price: 24.00},
}

var mockImages = []domain.Image{
	{ID: "ubuntu-24.04", Name: "Ubuntu 24.04"},
	{ID: "debian-12", Name: "Debian 12"},
	{ID: "fedora-40", Name: "Fedora 40"},
}

// NewMockConnection creates an empty in-memory connection.
func NewMockConnection(creds domain.Credentials, logger *zap.Logger) *MockConnection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MockConnection{logger: logger}
}

// RegisterMock registers the in-memory driver factory with the global
// registry. Any non-empty key passes the credential check.
func RegisterMock() {
	Register("MOCK", func(ctx context.Context, creds domain.Credentials, logger *zap.Logger) (domain.Connection, error) {
		if creds.Key == "" {
			return nil, fmt.Errorf("mock credential check failed: %w", domain.ErrUnauthorized)
		}
		return NewMockConnection(creds, logger), nil
	})
}

// ProviderName returns the canonical registry name.
func (m *MockConnection) ProviderName() string {
	return "MOCK"
}

// ListNodes returns all nodes in creation order. Each call advances
// pending nodes one step toward running.
func (m *MockConnection) ListNodes(ctx context.Context) ([]domain.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	nodes := make([]domain.Node, 0, len(m.nodes))
	for _, mn := range m.nodes {
		if mn.pollsLeft > 0 {
			mn.pollsLeft--
			if mn.pollsLeft == 0 {
				mn.node.State = domain.StateRunning
			}
		}
		nodes = append(nodes, mn.node)
	}
	return nodes, nil
}

// CreateNode provisions an in-memory node in pending state with
// documentation-range addresses.
func (m *MockConnection) CreateNode(ctx context.Context, opts domain.CreateNodeOpts) (*domain.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.created++
	node := domain.Node{
		UUID:      uuid.New().String(),
		Name:      opts.Name,
		State:     domain.StatePending,
		PublicIP:  fmt.Sprintf("192.0.2.%d", m.created),
		PrivateIP: fmt.Sprintf("10.0.0.%d", m.created),
		FlavorID:  opts.Size.Name,
		ImageID:   opts.Image.Name,
		Password:  "mock-" + uuid.New().String()[:8],
	}
	m.nodes = append(m.nodes, &mockNode{node: node, pollsLeft: mockPollsToRunning})

	m.logger.Info("created node",
		zap.String("provider", "MOCK"),
		zap.String("name", node.Name),
		zap.String("uuid", node.UUID))

	// The stored copy never keeps the password; like a real provider,
	// it is only handed out once at creation.
	returned := node
	m.nodes[len(m.nodes)-1].node.Password = ""
	return &returned, nil
}

// DestroyNode removes the node from the in-memory account.
func (m *MockConnection) DestroyNode(ctx context.Context, node *domain.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, mn := range m.nodes {
		if mn.node.UUID == node.UUID {
			m.nodes = append(m.nodes[:i], m.nodes[i+1:]...)
			m.logger.Info("destroyed node",
				zap.String("provider", "MOCK"),
				zap.String("name", node.Name),
				zap.String("uuid", node.UUID))
			return nil
		}
	}
	return fmt.Errorf("failed to destroy node %q: %w", node.Name, domain.ErrNotFound)
}

// ListSizes returns the fixed size catalog.
func (m *MockConnection) ListSizes(ctx context.Context) ([]domain.Size, error) {
	sizes := make([]domain.Size, len(mockSizes))
	copy(sizes, mockSizes)
	return sizes, nil
}

// ListImages returns the fixed image catalog.
func (m *MockConnection) ListImages(ctx context.Context) ([]domain.Image, error) {
	images := make([]domain.Image, len(mockImages))
	copy(images, mockImages)
	return images, nil
}
