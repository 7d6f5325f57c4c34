package providers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"go.uber.org/zap"

	"cloudlift/nodectl/internal/domain"
)

const (
	appName    = "nodectl"
	appVersion = "0.1.0"

	// requestTimeout bounds every single API request. The lifecycle
	// layer owns the overall deadline for multi-request flows.
	requestTimeout = 30 * time.Second
)

// HetznerConnection implements domain.Connection using the Hetzner
// Cloud API.
type HetznerConnection struct {
	client *hcloud.Client
	logger *zap.Logger
}

// NewHetznerConnection creates a HetznerConnection with the given hcloud
// client options. Default options (application name, token from creds)
// are applied first; callers can override them. No network call is made
// until an operation or CheckAuth runs.
func NewHetznerConnection(creds domain.Credentials, logger *zap.Logger, opts ...hcloud.ClientOption) *HetznerConnection {
	defaults := []hcloud.ClientOption{
		hcloud.WithApplication(appName, appVersion),
		hcloud.WithToken(creds.Key),
	}
	allOpts := append(defaults, opts...)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HetznerConnection{
		client: hcloud.NewClient(allOpts...),
		logger: logger,
	}
}

// RegisterHetzner registers the Hetzner driver factory with the global
// registry.
func RegisterHetzner() {
	Register("HETZNER", func(ctx context.Context, creds domain.Credentials, logger *zap.Logger) (domain.Connection, error) {
		conn := NewHetznerConnection(creds, logger)
		if err := conn.CheckAuth(ctx); err != nil {
			return nil, err
		}
		return conn, nil
	})
}

// ProviderName returns the canonical registry name.
func (h *HetznerConnection) ProviderName() string {
	return "HETZNER"
}

// CheckAuth issues the cheapest authenticated call the API offers so
// that bad credentials surface at connection time instead of on first
// use.
func (h *HetznerConnection) CheckAuth(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	_, _, err := h.client.Location.List(reqCtx, hcloud.LocationListOpts{
		ListOpts: hcloud.ListOpts{PerPage: 1},
	})
	if err != nil {
		return fmt.Errorf("hetzner credential check failed: %w", classifyHetznerErr(err))
	}
	return nil
}

// ListNodes retrieves all servers from the Hetzner Cloud API.
func (h *HetznerConnection) ListNodes(ctx context.Context) ([]domain.Node, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	servers, err := h.client.Server.All(reqCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", classifyHetznerErr(err))
	}

	nodes := make([]domain.Node, 0, len(servers))
	for _, s := range servers {
		nodes = append(nodes, hetznerToNode(s))
	}

	h.logger.Debug("listed nodes", zap.String("provider", "HETZNER"), zap.Int("count", len(nodes)))
	return nodes, nil
}

// CreateNode creates a new server on Hetzner Cloud. The returned node
// carries the generated root password when the API reports one.
func (h *HetznerConnection) CreateNode(ctx context.Context, opts domain.CreateNodeOpts) (*domain.Node, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	createOpts := hcloud.ServerCreateOpts{
		Name:       opts.Name,
		ServerType: &hcloud.ServerType{Name: opts.Size.Name},
		Image:      &hcloud.Image{Name: opts.Image.Name},
		UserData:   opts.UserData,
	}
	if opts.Location != "" {
		createOpts.Location = &hcloud.Location{Name: opts.Location}
	}

	result, _, err := h.client.Server.Create(reqCtx, createOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create node: %w", opFailed(classifyHetznerErr(err)))
	}

	node := hetznerToNode(result.Server)
	node.Password = result.RootPassword

	h.logger.Info("created node",
		zap.String("provider", "HETZNER"),
		zap.String("name", node.Name),
		zap.String("uuid", node.UUID))
	return &node, nil
}

// DestroyNode removes a server. The node's UUID must be a numeric
// string matching the Hetzner server ID.
func (h *HetznerConnection) DestroyNode(ctx context.Context, node *domain.Node) error {
	id, err := strconv.ParseInt(node.UUID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid node ID %q: %w", node.UUID, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	_, _, err = h.client.Server.DeleteWithResult(reqCtx, &hcloud.Server{ID: id})
	if err != nil {
		return fmt.Errorf("failed to destroy node: %w", opFailed(classifyHetznerErr(err)))
	}

	h.logger.Info("destroyed node",
		zap.String("provider", "HETZNER"),
		zap.String("name", node.Name),
		zap.String("uuid", node.UUID))
	return nil
}

// hetznerStates maps hcloud server statuses onto the shared node
// states. Statuses missing from the map report StateUnknown.
var hetznerStates = map[hcloud.ServerStatus]domain.NodeState{
	hcloud.ServerStatusRunning:      domain.StateRunning,
	hcloud.ServerStatusInitializing: domain.StatePending,
	hcloud.ServerStatusStarting:     domain.StatePending,
	hcloud.ServerStatusRebuilding:   domain.StateRebooting,
	hcloud.ServerStatusMigrating:    domain.StateRebooting,
	hcloud.ServerStatusOff:          domain.StateTerminated,
	hcloud.ServerStatusStopping:     domain.StateTerminated,
	hcloud.ServerStatusDeleting:     domain.StateTerminated,
}

func hetznerState(status hcloud.ServerStatus) domain.NodeState {
	if state, ok := hetznerStates[status]; ok {
		return state
	}
	return domain.StateUnknown
}

// hetznerToNode converts an hcloud.Server to a domain.Node.
func hetznerToNode(s *hcloud.Server) domain.Node {
	node := domain.Node{
		UUID:  strconv.FormatInt(s.ID, 10),
		Name:  s.Name,
		State: hetznerState(s.Status),
	}

	if !s.PublicNet.IPv4.IsUnspecified() {
		node.PublicIP = s.PublicNet.IPv4.IP.String()
	}

	if len(s.PrivateNet) > 0 && s.PrivateNet[0].IP != nil {
		node.PrivateIP = s.PrivateNet[0].IP.String()
	}

	if s.ServerType != nil {
		node.FlavorID = s.ServerType.Name
	}

	if s.Image != nil {
		node.ImageID = s.Image.Name
	}

	return node
}

// classifyHetznerErr maps hcloud API error codes onto the shared
// domain sentinels. Errors without a matching code pass through
// unchanged.
func classifyHetznerErr(err error) error {
	switch {
	case hcloud.IsError(err, hcloud.ErrorCodeUnauthorized):
		return domain.ErrUnauthorized
	case hcloud.IsError(err, hcloud.ErrorCodeRateLimitExceeded):
		return domain.ErrRateLimited
	case hcloud.IsError(err, hcloud.ErrorCodeNotFound):
		return domain.ErrNotFound
	}
	return err
}
