package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/digitalocean/godo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"cloudlift/nodectl/internal/domain"
)

// defaultDropletRegion is used when no location is requested. Droplet
// creation requires a region; nyc3 has every size and image available.
const defaultDropletRegion = "nyc3"

// DigitalOceanConnection implements domain.Connection using the
// DigitalOcean API.
type DigitalOceanConnection struct {
	client *godo.Client
	logger *zap.Logger
}

// NewDigitalOceanConnection creates a DigitalOceanConnection
// authenticating with the token from creds. Extra client options are
// applied after the defaults, so tests can redirect the base URL.
func NewDigitalOceanConnection(creds domain.Credentials, logger *zap.Logger, opts ...godo.ClientOpt) (*DigitalOceanConnection, error) {
	static := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Key})
	oauthClient := oauth2.NewClient(context.Background(), static)

	allOpts := append([]godo.ClientOpt{godo.SetUserAgent(appName + "/" + appVersion)}, opts...)
	client, err := godo.New(oauthClient, allOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build digitalocean client: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &DigitalOceanConnection{client: client, logger: logger}, nil
}

// RegisterDigitalOcean registers the DigitalOcean driver factory with
// the global registry.
func RegisterDigitalOcean() {
	Register("DIGITALOCEAN", func(ctx context.Context, creds domain.Credentials, logger *zap.Logger) (domain.Connection, error) {
		conn, err := NewDigitalOceanConnection(creds, logger)
		if err != nil {
			return nil, err
		}
		if err := conn.CheckAuth(ctx); err != nil {
			return nil, err
		}
		return conn, nil
	})
}

// ProviderName returns the canonical registry name.
func (d *DigitalOceanConnection) ProviderName() string {
	return "DIGITALOCEAN"
}

// CheckAuth lists regions as a cheap credential probe so bad tokens
// surface at connection time.
func (d *DigitalOceanConnection) CheckAuth(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	_, _, err := d.client.Regions.List(reqCtx, nil)
	if err != nil {
		return fmt.Errorf("digitalocean credential check failed: %w", classifyDOErr(err))
	}
	return nil
}

// ListNodes retrieves all droplets in the account, following
// pagination links until the last page.
func (d *DigitalOceanConnection) ListNodes(ctx context.Context) ([]domain.Node, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var nodes []domain.Node
	opt := &godo.ListOptions{PerPage: 200}
	for {
		droplets, resp, err := d.client.Droplets.List(reqCtx, opt)
		if err != nil {
			return nil, fmt.Errorf("failed to list nodes: %w", classifyDOErr(err))
		}
		for i := range droplets {
			nodes = append(nodes, dropletToNode(&droplets[i]))
		}

		next, err := nextPage(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to list nodes: %w", err)
		}
		if next == 0 {
			break
		}
		opt.Page = next
	}

	d.logger.Debug("listed nodes", zap.String("provider", "DIGITALOCEAN"), zap.Int("count", len(nodes)))
	return nodes, nil
}

// nextPage reads the page after resp from its pagination links, zero
// when resp is the last page.
func nextPage(resp *godo.Response) (int, error) {
	if resp == nil || resp.Links == nil || resp.Links.IsLastPage() {
		return 0, nil
	}
	current, err := resp.Links.CurrentPage()
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}

// CreateNode creates a new droplet. DigitalOcean never returns a root
// password in the API response, so the node's Password stays empty.
func (d *DigitalOceanConnection) CreateNode(ctx context.Context, opts domain.CreateNodeOpts) (*domain.Node, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	region := opts.Location
	if region == "" {
		region = defaultDropletRegion
	}

	// Droplet images are addressed by slug for distributions and by
	// numeric ID for snapshots and custom images.
	image := godo.DropletCreateImage{Slug: opts.Image.ID}
	if id, err := strconv.Atoi(opts.Image.ID); err == nil {
		image = godo.DropletCreateImage{ID: id}
	}

	createRequest := &godo.DropletCreateRequest{
		Name:     opts.Name,
		Region:   region,
		Size:     opts.Size.ID,
		Image:    image,
		UserData: opts.UserData,
	}

	droplet, _, err := d.client.Droplets.Create(reqCtx, createRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to create node: %w", opFailed(classifyDOErr(err)))
	}

	node := dropletToNode(droplet)
	d.logger.Info("created node",
		zap.String("provider", "DIGITALOCEAN"),
		zap.String("name", node.Name),
		zap.String("uuid", node.UUID))
	return &node, nil
}

// DestroyNode deletes a droplet. The node's UUID must be a numeric
// string matching the droplet ID.
func (d *DigitalOceanConnection) DestroyNode(ctx context.Context, node *domain.Node) error {
	id, err := strconv.Atoi(node.UUID)
	if err != nil {
		return fmt.Errorf("invalid node ID %q: %w", node.UUID, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	_, err = d.client.Droplets.Delete(reqCtx, id)
	if err != nil {
		return fmt.Errorf("failed to destroy node: %w", opFailed(classifyDOErr(err)))
	}

	d.logger.Info("destroyed node",
		zap.String("provider", "DIGITALOCEAN"),
		zap.String("name", node.Name),
		zap.String("uuid", node.UUID))
	return nil
}

// ListSizes retrieves the droplet size catalog. DigitalOcean reports
// memory in MB and transfer in TB, matching the uniform schema
// directly.
func (d *DigitalOceanConnection) ListSizes(ctx context.Context) ([]domain.Size, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var result []domain.Size
	opt := &godo.ListOptions{PerPage: 200}
	for {
		sizes, resp, err := d.client.Sizes.List(reqCtx, opt)
		if err != nil {
			return nil, fmt.Errorf("failed to list sizes: %w", classifyDOErr(err))
		}
		for _, s := range sizes {
			result = append(result, domain.Size{
				ID:        s.Slug,
				Name:      s.Slug,
				RAM:       s.Memory,
				Disk:      s.Disk,
				Bandwidth: s.Transfer,
				Price:     s.PriceMonthly,
			})
		}

		next, err := nextPage(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to list sizes: %w", err)
		}
		if next == 0 {
			break
		}
		opt.Page = next
	}

	return result, nil
}

// ListImages retrieves the image catalog.
func (d *DigitalOceanConnection) ListImages(ctx context.Context) ([]domain.Image, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var result []domain.Image
	opt := &godo.ListOptions{PerPage: 200}
	for {
		images, resp, err := d.client.Images.List(reqCtx, opt)
		if err != nil {
			return nil, fmt.Errorf("failed to list images: %w", classifyDOErr(err))
		}
		for i := range images {
			result = append(result, domain.Image{
				ID:   imageIdentifier(&images[i]),
				Name: images[i].Name,
			})
		}

		next, err := nextPage(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to list images: %w", err)
		}
		if next == 0 {
			break
		}
		opt.Page = next
	}

	return result, nil
}

// dropletStates maps droplet statuses onto the shared node states.
var dropletStates = map[string]domain.NodeState{
	"active":  domain.StateRunning,
	"new":     domain.StatePending,
	"off":     domain.StateTerminated,
	"archive": domain.StateTerminated,
}

func dropletState(status string) domain.NodeState {
	if state, ok := dropletStates[status]; ok {
		return state
	}
	return domain.StateUnknown
}

// dropletToNode converts a godo.Droplet to a domain.Node.
func dropletToNode(droplet *godo.Droplet) domain.Node {
	node := domain.Node{
		UUID:     strconv.Itoa(droplet.ID),
		Name:     droplet.Name,
		State:    dropletState(droplet.Status),
		FlavorID: droplet.SizeSlug,
	}

	if droplet.Networks != nil {
		for _, n := range droplet.Networks.V4 {
			switch n.Type {
			case "public":
				if node.PublicIP == "" {
					node.PublicIP = n.IPAddress
				}
			case "private":
				if node.PrivateIP == "" {
					node.PrivateIP = n.IPAddress
				}
			}
		}
	}

	if droplet.Image != nil {
		node.ImageID = imageIdentifier(droplet.Image)
	}

	return node
}

// imageIdentifier prefers the slug; snapshots and custom images have
// none, so fall back to the numeric ID.
func imageIdentifier(img *godo.Image) string {
	if img.Slug != "" {
		return img.Slug
	}
	return strconv.Itoa(img.ID)
}

// classifyDOErr maps godo API failures onto the shared domain
// sentinels by HTTP status. Errors without a response pass through
// unchanged.
func classifyDOErr(err error) error {
	var errResp *godo.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		switch errResp.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.ErrUnauthorized
		case http.StatusNotFound:
			return domain.ErrNotFound
		case http.StatusTooManyRequests:
			return domain.ErrRateLimited
		}
	}
	return err
}
