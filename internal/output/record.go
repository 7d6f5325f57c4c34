package output

import (
	"encoding/json"
	"fmt"

	"cloudlift/nodectl/internal/domain"
)

// Kind tags the active variant of an Item.
type Kind int

const (
	KindNode Kind = iota
	KindSize
	KindImage
)

// Record is the envelope every command hands to the renderer: an
// optional human-readable message plus an optional sequence of data
// items. Failure paths render a Record with only Message set.
type Record struct {
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Data    []Item `json:"data,omitempty" yaml:"data,omitempty"`
}

// MessageRecord wraps a bare message with no data.
func MessageRecord(msg string) Record {
	return Record{Message: msg}
}

// Item is one element of a Record's data sequence: exactly one of the
// three flattened projections, selected by Kind. Marshalling emits the
// active variant directly, so serialized output carries the flat
// record shapes with no tag wrapper.
type Item struct {
	Kind  Kind
	Node  *NodeRecord
	Size  *SizeRecord
	Image *ImageRecord
}

// MarshalJSON emits the active variant.
func (i Item) MarshalJSON() ([]byte, error) {
	switch i.Kind {
	case KindNode:
		return json.Marshal(i.Node)
	case KindSize:
		return json.Marshal(i.Size)
	case KindImage:
		return json.Marshal(i.Image)
	}
	return nil, fmt.Errorf("output: unknown item kind %d", i.Kind)
}

// MarshalYAML emits the active variant.
func (i Item) MarshalYAML() (interface{}, error) {
	switch i.Kind {
	case KindNode:
		return i.Node, nil
	case KindSize:
		return i.Size, nil
	case KindImage:
		return i.Image, nil
	}
	return nil, fmt.Errorf("output: unknown item kind %d", i.Kind)
}

// NodeRecord is the flattened node projection. The field names and the
// numeric state value are part of the CLI's output contract.
type NodeRecord struct {
	UUID      string `json:"uuid" yaml:"uuid"`
	Name      string `json:"name" yaml:"name"`
	State     int    `json:"state" yaml:"state"`
	StateName string `json:"state_name" yaml:"state_name"`
	PublicIP  string `json:"public_ip" yaml:"public_ip"`
	PrivateIP string `json:"private_ip" yaml:"private_ip"`
	FlavorID  string `json:"flavor_id" yaml:"flavor_id"`
	ImageID   string `json:"image_id" yaml:"image_id"`
	Password  string `json:"password,omitempty" yaml:"password,omitempty"`
}

// SizeRecord is the flattened size projection.
type SizeRecord struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	RAM       int     `json:"ram" yaml:"ram"`
	Disk      int     `json:"disk" yaml:"disk"`
	Bandwidth float64 `json:"bandwidth" yaml:"bandwidth"`
	Price     float64 `json:"price" yaml:"price"`
}

// ImageRecord is the flattened image projection.
type ImageRecord struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// NodeItem flattens a node into a tagged item.
func NodeItem(n domain.Node) Item {
	return Item{Kind: KindNode, Node: &NodeRecord{
		UUID:      n.UUID,
		Name:      n.Name,
		State:     int(n.State),
		StateName: n.State.String(),
		PublicIP:  n.PublicIP,
		PrivateIP: n.PrivateIP,
		FlavorID:  n.FlavorID,
		ImageID:   n.ImageID,
		Password:  n.Password,
	}}
}

// NodeItems flattens a node list, preserving order.
func NodeItems(nodes []domain.Node) []Item {
	items := make([]Item, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, NodeItem(n))
	}
	return items
}

// SizeItem flattens a size into a tagged item.
func SizeItem(s domain.Size) Item {
	return Item{Kind: KindSize, Size: &SizeRecord{
		ID:        s.ID,
		Name:      s.Name,
		RAM:       s.RAM,
		Disk:      s.Disk,
		Bandwidth: s.Bandwidth,
		Price:     s.Price,
	}}
}

// SizeItems flattens a size list, preserving order.
func SizeItems(sizes []domain.Size) []Item {
	items := make([]Item, 0, len(sizes))
	for _, s := range sizes {
		items = append(items, SizeItem(s))
	}
	return items
}

// ImageItem flattens an image into a tagged item.
func ImageItem(img domain.Image) Item {
	return Item{Kind: KindImage, Image: &ImageRecord{ID: img.ID, Name: img.Name}}
}

// ImageItems flattens an image list, preserving order.
func ImageItems(images []domain.Image) []Item {
	items := make([]Item, 0, len(images))
	for _, img := range images {
		items = append(items, ImageItem(img))
	}
	return items
}

// ToNode converts a record back into a domain node, for callers that
// feed stored or piped records into the lifecycle layer again.
func (r NodeRecord) ToNode() domain.Node {
	return domain.Node{
		UUID:      r.UUID,
		Name:      r.Name,
		State:     domain.NodeState(r.State),
		PublicIP:  r.PublicIP,
		PrivateIP: r.PrivateIP,
		FlavorID:  r.FlavorID,
		ImageID:   r.ImageID,
		Password:  r.Password,
	}
}
