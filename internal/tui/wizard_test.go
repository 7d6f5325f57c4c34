package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/google/go-cmp/cmp"

	"cloudlift/nodectl/internal/domain"
)

type sizeOptionPair struct {
	Key   string
	Value int
}

type imageOptionPair struct {
	Key   string
	Value string
}

func sizeOptionsToPairs(options []huh.Option[int]) []sizeOptionPair {
	pairs := make([]sizeOptionPair, 0, len(options))
	for _, option := range options {
		pairs = append(pairs, sizeOptionPair{Key: option.Key, Value: option.Value})
	}
	return pairs
}

func imageOptionsToPairs(options []huh.Option[string]) []imageOptionPair {
	pairs := make([]imageOptionPair, 0, len(options))
	for _, option := range options {
		pairs = append(pairs, imageOptionPair{Key: option.Key, Value: option.Value})
	}
	return pairs
}

func TestBuildSizeOptions_CollapsesDuplicateRAM(t *testing.T) {
	sizes := []domain.Size{
		{ID: "s1", Name: "m1.tiny", RAM: 512, Disk: 20, Price: 3.50},
		{ID: "s2", Name: "m1.tiny-alt", RAM: 512, Disk: 40, Price: 4.00},
		{ID: "s3", Name: "m1.small", RAM: 1024, Disk: 40, Price: 7.00},
	}

	options, _ := buildSizeOptions(sizes, 0)

	expected := []sizeOptionPair{
		{Key: "m1.tiny - 512 MB / 20 GB disk / $3.50/mo", Value: 512},
		{Key: "m1.small - 1024 MB / 40 GB disk / $7.00/mo", Value: 1024},
	}
	if diff := cmp.Diff(expected, sizeOptionsToPairs(options)); diff != "" {
		t.Errorf("unexpected size options (-want +got):\n%s", diff)
	}
}

func TestBuildSizeOptions_AddsCustom(t *testing.T) {
	sizes := []domain.Size{
		{ID: "s1", Name: "m1.tiny", RAM: 512},
	}

	options, labels := buildSizeOptions(sizes, 2048)

	pairs := sizeOptionsToPairs(options)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 size options, got %d", len(pairs))
	}
	if labels[2048] != "Custom: 2048 MB" {
		t.Errorf("expected custom size label, got %q", labels[2048])
	}
}

func TestSizeLabel_OmitsZeroFields(t *testing.T) {
	label := sizeLabel(domain.Size{ID: "t3.micro", Name: "t3.micro", RAM: 1024})
	if label != "t3.micro - 1024 MB" {
		t.Errorf("unexpected label without disk/price: %q", label)
	}
}

func TestBuildImageOptions_UsesNameAsValue(t *testing.T) {
	images := []domain.Image{
		{ID: "ubuntu-24-04-x64", Name: "Ubuntu 24.04 x64"},
		{ID: "170828191", Name: ""},
	}

	options, _ := buildImageOptions(images, "")

	expected := []imageOptionPair{
		{Key: "Ubuntu 24.04 x64 (ubuntu-24-04-x64)", Value: "Ubuntu 24.04 x64"},
		{Key: "170828191", Value: "170828191"},
	}
	if diff := cmp.Diff(expected, imageOptionsToPairs(options)); diff != "" {
		t.Errorf("unexpected image options (-want +got):\n%s", diff)
	}
}

func TestBuildImageOptions_AddsCustom(t *testing.T) {
	images := []domain.Image{
		{ID: "i1", Name: "Ubuntu"},
	}

	options, labels := buildImageOptions(images, "Debian")

	if len(options) != 2 {
		t.Fatalf("expected 2 image options, got %d", len(options))
	}
	if labels["Debian"] != "Custom: Debian" {
		t.Errorf("expected custom image label, got %q", labels["Debian"])
	}
}

func TestBuildSummary(t *testing.T) {
	req := CreateRequest{
		Name:      "web1",
		ImageName: "Ubuntu",
		SizeRAM:   512,
		Wait:      true,
	}

	summary := buildSummary(req,
		map[int]string{512: "m1.tiny - 512 MB"},
		map[string]string{"Ubuntu": "Ubuntu (i1)"},
	)

	expected := []string{
		"Name: web1",
		"Size: m1.tiny - 512 MB",
		"Image: Ubuntu (i1)",
		"Wait for running: true",
	}
	for _, want := range expected {
		if !strings.Contains(summary, want) {
			t.Errorf("expected summary to include %q, got:\n%s", want, summary)
		}
	}
}

func TestBuildSummary_NothingSelected(t *testing.T) {
	summary := buildSummary(CreateRequest{Name: "web1"}, nil, nil)

	if !strings.Contains(summary, "Size: Not selected") {
		t.Errorf("expected unselected size marker, got:\n%s", summary)
	}
	if !strings.Contains(summary, "Image: Not selected") {
		t.Errorf("expected unselected image marker, got:\n%s", summary)
	}
}

func TestSelectHeight(t *testing.T) {
	if got := selectHeight(3, 10); got != 3 {
		t.Errorf("expected selectHeight(3, 10) = 3, got %d", got)
	}
	if got := selectHeight(15, 10); got != 10 {
		t.Errorf("expected selectHeight(15, 10) = 10, got %d", got)
	}
}
