package domain

import "context"

// Credentials carries the authentication material for opening a
// provider connection. Key is the API token or secret key. User is
// only meaningful for providers with two-part credentials (an access
// key ID on EC2) and is ignored elsewhere.
type Credentials struct {
	User string
	Key  string
}

// CreateNodeOpts holds the parameters for creating a node. Name, Size
// and Image are required and must already be resolved against the
// provider's catalog. The rest may be left at their zero values;
// providers apply their own defaults.
type CreateNodeOpts struct {
	Name  string
	Size  Size
	Image Image

	Location string
	UserData string
}

// Connection is the uniform operation set every provider driver
// implements. Construction is handled by the providers registry and
// performs eager credential validation, so a non-nil Connection is
// known to hold working credentials.
//
// Implementations are not required to be safe for concurrent use.
type Connection interface {
	// ProviderName returns the canonical registry name of the backing
	// provider, e.g. "HETZNER".
	ProviderName() string

	// ListNodes returns every node in the account, in the provider's
	// listing order.
	ListNodes(ctx context.Context) ([]Node, error)

	// CreateNode provisions a new node and returns it in whatever
	// state the provider reports immediately after creation.
	CreateNode(ctx context.Context, opts CreateNodeOpts) (*Node, error)

	// DestroyNode destroys the given node.
	DestroyNode(ctx context.Context, node *Node) error

	// ListSizes returns the provider's size catalog, in the
	// provider's listing order.
	ListSizes(ctx context.Context) ([]Size, error)

	// ListImages returns the provider's image catalog, in the
	// provider's listing order.
	ListImages(ctx context.Context) ([]Image, error)
}
