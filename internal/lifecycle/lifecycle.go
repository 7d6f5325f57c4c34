// Package lifecycle turns user commands into provider API calls. It
// owns the find/wait/create/destroy semantics shared by every driver,
// including the polling loop that reconciles asynchronous provisioning
// state.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cloudlift/nodectl/internal/domain"
)

const (
	// DefaultPollPeriod is the interval between reconciliation polls
	// while waiting for a node to come up.
	DefaultPollPeriod = 2 * time.Second

	// DefaultWaitTimeout bounds a wait when the caller does not give
	// an explicit budget.
	DefaultWaitTimeout = 30 * time.Second
)

// SleepFunc blocks for the given duration or until the context is
// done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Orchestrator drives node lifecycle operations over a single driver
// connection. It keeps no state between calls: every lookup re-lists
// the remote side, so results always reflect the provider's view at
// call time.
type Orchestrator struct {
	conn       domain.Connection
	logger     *zap.Logger
	pollPeriod time.Duration
	sleep      SleepFunc
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPollPeriod overrides the interval between wait polls.
func WithPollPeriod(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.pollPeriod = d
	}
}

// WithSleepFunc replaces the real clock. Tests use this to simulate
// elapsed time without actual delays.
func WithSleepFunc(fn SleepFunc) Option {
	return func(o *Orchestrator) {
		o.sleep = fn
	}
}

// New builds an Orchestrator over conn.
func New(conn domain.Connection, logger *zap.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		conn:       conn,
		logger:     logger,
		pollPeriod: DefaultPollPeriod,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FindNode lists all nodes and returns the first whose name matches.
// Providers do not guarantee name uniqueness; on duplicates the first
// in list order wins. A miss reports domain.ErrNotFound.
func (o *Orchestrator) FindNode(ctx context.Context, name string) (*domain.Node, error) {
	nodes, err := o.conn.ListNodes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range nodes {
		if nodes[i].Name == name {
			node := nodes[i]
			return &node, nil
		}
	}
	return nil, fmt.Errorf("node %q not found: %w", name, domain.ErrNotFound)
}

// FindSize returns the first size with exactly the requested RAM in
// MB. There is no fuzzy matching: 300 MB does not find a 256 MB tier.
func (o *Orchestrator) FindSize(ctx context.Context, ram int) (*domain.Size, error) {
	sizes, err := o.conn.ListSizes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sizes {
		if sizes[i].RAM == ram {
			size := sizes[i]
			return &size, nil
		}
	}
	return nil, fmt.Errorf("size with %d MB RAM not found: %w", ram, domain.ErrNotFound)
}

// FindImage returns the first image whose name matches exactly, case
// included.
func (o *Orchestrator) FindImage(ctx context.Context, name string) (*domain.Image, error) {
	images, err := o.conn.ListImages(ctx)
	if err != nil {
		return nil, err
	}
	for i := range images {
		if images[i].Name == name {
			image := images[i]
			return &image, nil
		}
	}
	return nil, fmt.Errorf("image %q not found: %w", name, domain.ErrNotFound)
}

// WaitForRunningNode polls FindNode once per poll period until the
// named node is running, the node disappears, or the timeout budget is
// spent. A full period elapses before the first poll, so a node that
// turns running mid-period is not seen early. On timeout the
// last-observed node is returned whatever its state; callers must
// re-check it. A missing node returns immediately with
// domain.ErrNotFound rather than burning the rest of the budget.
//
// A timeout of zero (or less than one period) still performs a single
// poll, sleeping no longer than the budget allows.
func (o *Orchestrator) WaitForRunningNode(ctx context.Context, name string, timeout time.Duration) (*domain.Node, error) {
	var last *domain.Node
	var elapsed time.Duration

	for {
		step := o.pollPeriod
		if remaining := timeout - elapsed; remaining < step {
			step = remaining
		}
		if step > 0 {
			if err := o.sleep(ctx, step); err != nil {
				return nil, err
			}
			elapsed += step
		}

		node, err := o.FindNode(ctx, name)
		if err != nil {
			return nil, err
		}
		last = node
		if node.State == domain.StateRunning {
			o.logger.Debug("node running",
				zap.String("name", name),
				zap.Duration("elapsed", elapsed))
			return node, nil
		}
		if elapsed >= timeout {
			o.logger.Debug("wait budget spent",
				zap.String("name", name),
				zap.String("state", node.State.String()),
				zap.Duration("elapsed", elapsed))
			return last, nil
		}
	}
}

// CreateNode provisions a node after resolving the size by RAM and
// the image by name. Creation is idempotent by name: if a node with
// this name already exists it is returned unchanged and no create call
// is issued.
//
// A positive waitTimeout blocks on WaitForRunningNode afterwards and
// splices the freshly observed state into the returned node. A wait
// that fails for any reason other than context cancellation does not
// undo the creation; the node is returned with its state as the
// provider reported it at create time.
func (o *Orchestrator) CreateNode(ctx context.Context, name, imageName string, sizeRAM int, waitTimeout time.Duration) (*domain.Node, error) {
	existing, err := o.FindNode(ctx, name)
	if err == nil {
		o.logger.Info("node already exists, skipping create",
			zap.String("name", name),
			zap.String("uuid", existing.UUID))
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	size, err := o.FindSize(ctx, sizeRAM)
	if err != nil {
		return nil, err
	}
	image, err := o.FindImage(ctx, imageName)
	if err != nil {
		return nil, err
	}

	node, err := o.conn.CreateNode(ctx, domain.CreateNodeOpts{
		Name:  name,
		Size:  *size,
		Image: *image,
	})
	if err != nil {
		return nil, err
	}

	if waitTimeout > 0 {
		observed, waitErr := o.WaitForRunningNode(ctx, name, waitTimeout)
		switch {
		case waitErr != nil && ctx.Err() != nil:
			return nil, waitErr
		case waitErr != nil:
			o.logger.Warn("wait after create failed",
				zap.String("name", name),
				zap.Error(waitErr))
		case observed != nil:
			node.State = observed.State
		}
	}

	return node, nil
}

// DestroyNode waits for the named node to reach the running state and
// then destroys whatever the wait handed back, even if the budget ran
// out with the node still in another state. Nodes that never
// transition hold the call for the full timeout before the destroy is
// attempted. A node that cannot be found at all is an error.
func (o *Orchestrator) DestroyNode(ctx context.Context, name string, waitTimeout time.Duration) error {
	if waitTimeout <= 0 {
		waitTimeout = DefaultWaitTimeout
	}

	node, err := o.WaitForRunningNode(ctx, name, waitTimeout)
	if err != nil {
		return err
	}

	return o.conn.DestroyNode(ctx, node)
}

// ListNodes passes through to the connection.
func (o *Orchestrator) ListNodes(ctx context.Context) ([]domain.Node, error) {
	return o.conn.ListNodes(ctx)
}

// ListSizes passes through to the connection.
func (o *Orchestrator) ListSizes(ctx context.Context) ([]domain.Size, error) {
	return o.conn.ListSizes(ctx)
}

// ListImages passes through to the connection.
func (o *Orchestrator) ListImages(ctx context.Context) ([]domain.Image, error) {
	return o.conn.ListImages(ctx)
}
