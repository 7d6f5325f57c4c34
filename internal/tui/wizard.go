// Package tui holds the interactive prompts used when required flags
// are missing and the session is attached to a terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"golang.org/x/sync/errgroup"

	"cloudlift/nodectl/internal/domain"
	"cloudlift/nodectl/internal/tui/styles"
	"cloudlift/nodectl/internal/util"
)

// ErrAborted is returned when the user cancels an interactive flow.
var ErrAborted = errors.New("aborted by user")

// Catalog is the subset of lifecycle operations the create wizard
// needs.
type Catalog interface {
	ListSizes(ctx context.Context) ([]domain.Size, error)
	ListImages(ctx context.Context) ([]domain.Image, error)
}

// CreateRequest is what the wizard collects for a node create.
type CreateRequest struct {
	Name      string
	ImageName string
	SizeRAM   int
	Wait      bool
}

type catalogData struct {
	sizes  []domain.Size
	images []domain.Image
}

// CreateNodeForm runs an interactive wizard that collects node create
// options. The provider catalog is fetched up front under a spinner.
// Prefilled fields keep their values and become form defaults.
func CreateNodeForm(catalog Catalog, prefill CreateRequest) (*CreateRequest, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	var data catalogData
	fetchErr := spinner.New().
		Title("Fetching node options...").
		Accessible(accessible).
		Output(os.Stderr).
		ActionWithErr(func(ctx context.Context) error {
			var err error
			data, err = fetchCatalog(ctx, catalog)
			return err
		}).
		Run()
	if fetchErr != nil {
		if errors.Is(fetchErr, huh.ErrUserAborted) || errors.Is(fetchErr, context.Canceled) {
			return nil, ErrAborted
		}
		return nil, fetchErr
	}

	if len(data.sizes) == 0 {
		return nil, fmt.Errorf("no sizes available")
	}
	if len(data.images) == 0 {
		return nil, fmt.Errorf("no images available")
	}

	req := prefill

	nameField := huh.NewInput().
		Title("Node name").
		Value(&req.Name).
		Validate(func(value string) error {
			trimmed := strings.TrimSpace(value)
			if trimmed == "" {
				return errors.New("name is required")
			}
			return util.ValidateNodeName(trimmed)
		})

	sizeOpts, sizeLabels := buildSizeOptions(data.sizes, req.SizeRAM)
	sizeField := huh.NewSelect[int]().
		Title("Size").
		Options(sizeOpts...).
		Value(&req.SizeRAM).
		Height(selectHeight(len(sizeOpts), 12))

	imageOpts, imageLabels := buildImageOptions(data.images, req.ImageName)
	imageField := huh.NewSelect[string]().
		Title("Image").
		Options(imageOpts...).
		Value(&req.ImageName).
		Height(selectHeight(len(imageOpts), 12)).
		Validate(huh.ValidateNotEmpty())

	waitField := huh.NewConfirm().
		Title("Wait for the node to reach running state?").
		Value(&req.Wait)

	confirm := false
	summaryNote := huh.NewNote().
		Title("Summary").
		DescriptionFunc(func() string {
			s := req
			s.Name = strings.TrimSpace(s.Name)
			return buildSummary(s, sizeLabels, imageLabels)
		}, &req)

	confirmField := huh.NewConfirm().
		Title("Create this node?").
		Value(&confirm)

	if err := runForm(accessible,
		huh.NewGroup(nameField),
		huh.NewGroup(sizeField),
		huh.NewGroup(imageField),
		huh.NewGroup(waitField),
		huh.NewGroup(summaryNote, confirmField),
	); err != nil {
		return nil, err
	}

	if !confirm {
		return nil, ErrAborted
	}

	req.Name = strings.TrimSpace(req.Name)
	return &req, nil
}

// ConfirmDestroy asks for explicit confirmation before destroying the
// named node.
func ConfirmDestroy(name string) (bool, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	confirm := false
	field := huh.NewConfirm().
		Title(fmt.Sprintf("Destroy node %q?", name)).
		Description(styles.DangerText.Render("The node and its data are permanently deleted.")).
		Value(&confirm)

	if err := runForm(accessible, huh.NewGroup(field)); err != nil {
		return false, err
	}
	return confirm, nil
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// fetchCatalog fetches sizes and images concurrently.
func fetchCatalog(ctx context.Context, catalog Catalog) (catalogData, error) {
	var data catalogData
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		data.sizes, err = catalog.ListSizes(ctx)
		if err != nil {
			return fmt.Errorf("failed to list sizes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		data.images, err = catalog.ListImages(ctx)
		if err != nil {
			return fmt.Errorf("failed to list images: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return catalogData{}, err
	}
	return data, nil
}

// --- Option builders ---

// buildSizeOptions keys the selection by RAM because that is how the
// create path looks sizes up. Tiers sharing a RAM value collapse to
// the first, matching the first-match lookup.
func buildSizeOptions(sizes []domain.Size, selected int) ([]huh.Option[int], map[int]string) {
	options := make([]huh.Option[int], 0, len(sizes))
	labels := make(map[int]string, len(sizes))

	for _, s := range sizes {
		if _, ok := labels[s.RAM]; ok {
			continue
		}
		label := sizeLabel(s)
		options = append(options, huh.NewOption(label, s.RAM))
		labels[s.RAM] = label
	}

	if selected > 0 {
		if _, ok := labels[selected]; !ok {
			label := fmt.Sprintf("Custom: %d MB", selected)
			options = append(options, huh.NewOption(label, selected))
			labels[selected] = label
		}
	}

	return options, labels
}

func buildImageOptions(images []domain.Image, selected string) ([]huh.Option[string], map[string]string) {
	options := make([]huh.Option[string], 0, len(images))
	labels := make(map[string]string, len(images))

	for _, img := range images {
		value := valueOrID(img.Name, img.ID)
		if value == "" {
			continue
		}
		label := imageLabel(img)
		options = append(options, huh.NewOption(label, value))
		labels[value] = label
	}

	if selected != "" {
		if _, ok := labels[selected]; !ok {
			label := "Custom: " + selected
			options = append(options, huh.NewOption(label, selected))
			labels[selected] = label
		}
	}

	return options, labels
}

// --- Summary ---

func buildSummary(req CreateRequest, sizeLabels map[int]string, imageLabels map[string]string) string {
	var b strings.Builder

	notSelected := styles.MutedText.Render("Not selected")

	fmt.Fprintf(&b, "%s %s\n", styles.Label.Render("Name:"), req.Name)
	fmt.Fprintf(&b, "%s %s\n", styles.Label.Render("Size:"), sizeLabelFor(sizeLabels, req.SizeRAM, notSelected))
	fmt.Fprintf(&b, "%s %s\n", styles.Label.Render("Image:"), labelFor(imageLabels, req.ImageName, notSelected))
	fmt.Fprintf(&b, "%s %t\n", styles.Label.Render("Wait for running:"), req.Wait)

	return strings.TrimSpace(b.String())
}

// --- Label helpers ---

func sizeLabel(s domain.Size) string {
	name := valueOrID(s.Name, s.ID)
	label := fmt.Sprintf("%s - %d MB", name, s.RAM)
	if s.Disk > 0 {
		label += fmt.Sprintf(" / %d GB disk", s.Disk)
	}
	if s.Price > 0 {
		label += fmt.Sprintf(" / $%.2f/mo", s.Price)
	}
	return label
}

func imageLabel(img domain.Image) string {
	name := valueOrID(img.Name, img.ID)
	if img.ID != "" && img.ID != name {
		return name + " (" + img.ID + ")"
	}
	return name
}

func valueOrID(name string, id string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return strings.TrimSpace(id)
}

func labelFor(labels map[string]string, value string, emptyLabel string) string {
	if value == "" {
		return emptyLabel
	}
	if label, ok := labels[value]; ok {
		return label
	}
	return value
}

func sizeLabelFor(labels map[int]string, ram int, emptyLabel string) string {
	if ram <= 0 {
		return emptyLabel
	}
	if label, ok := labels[ram]; ok {
		return label
	}
	return fmt.Sprintf("%d MB", ram)
}

func selectHeight(optionCount, max int) int {
	if optionCount < max {
		return optionCount
	}
	return max
}
