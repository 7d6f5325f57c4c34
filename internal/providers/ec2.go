package providers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"cloudlift/nodectl/internal/domain"
)

// defaultEC2Region applies when neither the environment nor the
// shared AWS config names one.
const defaultEC2Region = "us-east-1"

// EC2Connection implements domain.Connection using the AWS EC2 API.
// Credentials are two-part here: User is the access key ID and Key the
// secret access key.
type EC2Connection struct {
	client *ec2.Client
	sts    *sts.Client
	logger *zap.Logger
}

// NewEC2Connection builds the EC2 and STS clients from static
// credentials. optFns are applied to both service clients, so tests
// can redirect the base endpoint.
func NewEC2Connection(ctx context.Context, creds domain.Credentials, logger *zap.Logger, optFns ...func(*ec2.Options)) (*EC2Connection, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(creds.User, creds.Key, "")),
		config.WithDefaultRegion(defaultEC2Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &EC2Connection{
		client: ec2.NewFromConfig(cfg, optFns...),
		sts:    sts.NewFromConfig(cfg),
		logger: logger,
	}, nil
}

// RegisterEC2 registers the EC2 driver factory with the global
// registry.
func RegisterEC2() {
	Register("EC2", func(ctx context.Context, creds domain.Credentials, logger *zap.Logger) (domain.Connection, error) {
		conn, err := NewEC2Connection(ctx, creds, logger)
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
func (e *EC2Connection) ProviderName() string {
	return "EC2"
}

// CheckAuth calls STS GetCallerIdentity, the canonical no-permission
// credential probe, so bad keys surface at connection time.
func (e *EC2Connection) CheckAuth(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	_, err := e.sts.GetCallerIdentity(reqCtx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return fmt.Errorf("ec2 credential check failed: %w", classifyEC2Err(err))
	}
	return nil
}

// ListNodes retrieves all instances in the region, including ones EC2
// still reports in the terminated state.
func (e *EC2Connection) ListNodes(ctx context.Context) ([]domain.Node, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var nodes []domain.Node
	paginator := ec2.NewDescribeInstancesPaginator(e.client, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(reqCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to list nodes: %w", classifyEC2Err(err))
		}
		for _, reservation := range page.Reservations {
			for i := range reservation.Instances {
				nodes = append(nodes, instanceToNode(&reservation.Instances[i]))
			}
		}
	}

	e.logger.Debug("listed nodes", zap.String("provider", "EC2"), zap.Int("count", len(nodes)))
	return nodes, nil
}

// CreateNode launches one instance tagged with the requested name.
func (e *EC2Connection) CreateNode(ctx context.Context, opts domain.CreateNodeOpts) (*domain.Node, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	out, err := e.client.RunInstances(reqCtx, buildRunInstancesInput(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to create node: %w", opFailed(classifyEC2Err(err)))
	}
	if len(out.Instances) == 0 {
		return nil, fmt.Errorf("failed to create node: no instance in RunInstances response: %w", domain.ErrOperationFailed)
	}

	node := instanceToNode(&out.Instances[0])
	// The response predates tag application; the name is known anyway.
	node.Name = opts.Name

	e.logger.Info("created node",
		zap.String("provider", "EC2"),
		zap.String("name", node.Name),
		zap.String("uuid", node.UUID))
	return &node, nil
}

// buildRunInstancesInput maps create options onto a RunInstances call
// for exactly one instance, with the node name applied as the Name tag
// at launch.
func buildRunInstancesInput(opts domain.CreateNodeOpts) *ec2.RunInstancesInput {
	input := &ec2.RunInstancesInput{
		ImageId:      aws.String(opts.Image.ID),
		InstanceType: types.InstanceType(opts.Size.ID),
		MinCount:     aws.Int32(1),
		MaxCount:     aws.Int32(1),
		TagSpecifications: []types.TagSpecification{{
			ResourceType: types.ResourceTypeInstance,
			Tags: []types.Tag{{
				Key:   aws.String("Name"),
				Value: aws.String(opts.Name),
			}},
		}},
	}

	if opts.UserData != "" {
		// RunInstances requires user data pre-encoded.
		input.UserData = aws.String(base64.StdEncoding.EncodeToString([]byte(opts.UserData)))
	}
	if opts.Location != "" {
		input.Placement = &types.Placement{AvailabilityZone: aws.String(opts.Location)}
	}

	return input
}

// DestroyNode terminates the instance.
func (e *EC2Connection) DestroyNode(ctx context.Context, node *domain.Node) error {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	_, err := e.client.TerminateInstances(reqCtx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{node.UUID},
	})
	if err != nil {
		return fmt.Errorf("failed to destroy node: %w", opFailed(classifyEC2Err(err)))
	}

	e.logger.Info("destroyed node",
		zap.String("provider", "EC2"),
		zap.String("name", node.Name),
		zap.String("uuid", node.UUID))
	return nil
}

// ListSizes retrieves the instance type catalog. EC2 does not expose
// prices or transfer allowances through this API, so those stay zero.
func (e *EC2Connection) ListSizes(ctx context.Context) ([]domain.Size, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var sizes []domain.Size
	paginator := ec2.NewDescribeInstanceTypesPaginator(e.client, &ec2.DescribeInstanceTypesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(reqCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sizes: %w", classifyEC2Err(err))
		}
		for i := range page.InstanceTypes {
			sizes = append(sizes, instanceTypeToSize(&page.InstanceTypes[i]))
		}
	}

	return sizes, nil
}

// ListImages retrieves the AMIs owned by the account. Listing the full
// public catalog would return tens of thousands of entries, so only
// self-owned images are exposed.
func (e *EC2Connection) ListImages(ctx context.Context) ([]domain.Image, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var images []domain.Image
	paginator := ec2.NewDescribeImagesPaginator(e.client, &ec2.DescribeImagesInput{
		Owners: []string{"self"},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(reqCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to list images: %w", classifyEC2Err(err))
		}
		for _, img := range page.Images {
			images = append(images, domain.Image{
				ID:   aws.ToString(img.ImageId),
				Name: aws.ToString(img.Name),
			})
		}
	}

	return images, nil
}

// ec2States maps instance state names onto the shared node states.
// The five-state model has no stopped notion, so stopped instances
// report terminated, matching how the other drivers fold their
// powered-off states.
var ec2States = map[types.InstanceStateName]domain.NodeState{
	types.InstanceStateNamePending:      domain.StatePending,
	types.InstanceStateNameRunning:      domain.StateRunning,
	types.InstanceStateNameShuttingDown: domain.StateTerminated,
	types.InstanceStateNameTerminated:   domain.StateTerminated,
	types.InstanceStateNameStopping:     domain.StateTerminated,
	types.InstanceStateNameStopped:      domain.StateTerminated,
}

func ec2State(state *types.InstanceState) domain.NodeState {
	if state == nil {
		return domain.StateUnknown
	}
	if mapped, ok := ec2States[state.Name]; ok {
		return mapped
	}
	return domain.StateUnknown
}

// instanceToNode converts an EC2 instance to a domain.Node. The name
// comes from the Name tag; instances without one report an empty name.
func instanceToNode(inst *types.Instance) domain.Node {
	node := domain.Node{
		UUID:      aws.ToString(inst.InstanceId),
		State:     ec2State(inst.State),
		PublicIP:  aws.ToString(inst.PublicIpAddress),
		PrivateIP: aws.ToString(inst.PrivateIpAddress),
		FlavorID:  string(inst.InstanceType),
		ImageID:   aws.ToString(inst.ImageId),
	}

	for _, tag := range inst.Tags {
		if aws.ToString(tag.Key) == "Name" {
			node.Name = aws.ToString(tag.Value)
			break
		}
	}

	return node
}

// instanceTypeToSize converts an EC2 instance type to a domain.Size.
func instanceTypeToSize(info *types.InstanceTypeInfo) domain.Size {
	size := domain.Size{
		ID:   string(info.InstanceType),
		Name: string(info.InstanceType),
	}

	if info.MemoryInfo != nil {
		size.RAM = int(aws.ToInt64(info.MemoryInfo.SizeInMiB))
	}
	if info.InstanceStorageInfo != nil {
		size.Disk = int(aws.ToInt64(info.InstanceStorageInfo.TotalSizeInGB))
	}

	return size
}

// classifyEC2Err maps EC2 API error codes onto the shared domain
// sentinels. Errors without a recognized code pass through unchanged.
func classifyEC2Err(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	code := apiErr.ErrorCode()
	switch {
	case code == "AuthFailure",
		code == "UnauthorizedOperation",
		code == "InvalidClientTokenId",
		code == "SignatureDoesNotMatch",
		code == "RequestExpired":
		return domain.ErrUnauthorized
	case code == "RequestLimitExceeded",
		code == "Throttling",
		code == "ThrottlingException":
		return domain.ErrRateLimited
	case strings.HasSuffix(code, ".NotFound"):
		return domain.ErrNotFound
	}
	return err
}
