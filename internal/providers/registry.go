package providers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"cloudlift/nodectl/internal/domain"
	"cloudlift/nodectl/internal/util"
)

// Factory opens a connection to one provider backend. Implementations
// must validate the credentials against the remote API before
// returning, so a nil error means the connection is authenticated.
type Factory func(ctx context.Context, creds domain.Credentials, logger *zap.Logger) (domain.Connection, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds a provider factory under the given name. Names are
// case-insensitive and stored uppercase. Register panics on empty
// names, nil factories, and duplicate registrations; it is meant to be
// called once per driver at startup.
func Register(name string, factory Factory) {
	normalizedName := util.NormalizeProviderName(name)
	if normalizedName == "" {
		panic("providers: empty provider name")
	}
	if factory == nil {
		panic("providers: nil factory")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[normalizedName]; exists {
		panic(fmt.Sprintf("providers: provider %q already registered", name))
	}

	registry[normalizedName] = factory
}

// Connect resolves name to a registered factory and opens an
// authenticated connection with it. The name is matched
// case-insensitively.
func Connect(ctx context.Context, name string, creds domain.Credentials, logger *zap.Logger) (domain.Connection, error) {
	normalizedName := util.NormalizeProviderName(name)
	mu.RLock()
	factory, ok := registry[normalizedName]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("providers: unknown provider %q: %w", name, domain.ErrUnknownProvider)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := factory(ctx, creds, logger)
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// Reset clears the provider registry. Intended for use in tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = map[string]Factory{}
}

// List returns the registered provider names in sorted order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
