package providers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"cloudlift/nodectl/internal/domain"
)

// ListSizes retrieves all server types from the Hetzner Cloud API, in
// API order.
func (h *HetznerConnection) ListSizes(ctx context.Context) ([]domain.Size, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	serverTypes, err := h.client.ServerType.All(reqCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sizes: %w", classifyHetznerErr(err))
	}

	sizes := make([]domain.Size, 0, len(serverTypes))
	for _, st := range serverTypes {
		sizes = append(sizes, hetznerToSize(st))
	}

	return sizes, nil
}

// ListImages retrieves all available images from the Hetzner Cloud
// API, in API order. Images still being created are excluded.
func (h *HetznerConnection) ListImages(ctx context.Context) ([]domain.Image, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	images, err := h.client.Image.AllWithOpts(reqCtx, hcloud.ImageListOpts{
		Status: []hcloud.ImageStatus{hcloud.ImageStatusAvailable},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", classifyHetznerErr(err))
	}

	result := make([]domain.Image, 0, len(images))
	for _, img := range images {
		result = append(result, hetznerToImage(img))
	}

	return result, nil
}

// hetznerToSize converts an hcloud.ServerType to a domain.Size. The
// API reports memory in GB and prices as strings; the first pricing
// entry stands in as the representative price.
func hetznerToSize(st *hcloud.ServerType) domain.Size {
	size := domain.Size{
		ID:   strconv.FormatInt(st.ID, 10),
		Name: st.Name,
		RAM:  int(st.Memory * 1024),
		Disk: st.Disk,
	}

	if len(st.Pricings) > 0 {
		pricing := st.Pricings[0]
		size.Price = parsePrice(pricing.Monthly.Gross)
		size.Bandwidth = float64(pricing.IncludedTraffic) / 1e12
	}

	return size
}

func parsePrice(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// hetznerToImage converts an hcloud.Image to a domain.Image. Snapshots
// have no name, only a description, so fall back to that.
func hetznerToImage(img *hcloud.Image) domain.Image {
	name := img.Name
	if name == "" {
		name = img.Description
	}
	return domain.Image{
		ID:   strconv.FormatInt(img.ID, 10),
		Name: name,
	}
}
