package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"cloudlift/nodectl/internal/util"
)

// Format selects how a Record is rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat maps a user-supplied format name onto a Format.
// Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch f := Format(util.NormalizeKey(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (expected table, json, or yaml)", s)
}

// Render writes rec to w in the requested format. The table format is
// for humans and withholds node passwords; json and yaml carry every
// field of the output contract.
func Render(w io.Writer, format Format, rec Record) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, rec)
	case FormatYAML:
		return renderYAML(w, rec)
	case FormatTable, "":
		return renderTable(w, rec)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func renderJSON(w io.Writer, rec Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

func renderYAML(w io.Writer, rec Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return err
	}
	return enc.Close()
}

func renderTable(w io.Writer, rec Record) error {
	if rec.Message != "" {
		if _, err := fmt.Fprintln(w, rec.Message); err != nil {
			return err
		}
	}
	if len(rec.Data) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	switch rec.Data[0].Kind {
	case KindNode:
		nodeTable(tw, rec.Data)
	case KindSize:
		sizeTable(tw, rec.Data)
	case KindImage:
		imageTable(tw, rec.Data)
	default:
		return fmt.Errorf("output: unknown item kind %d", rec.Data[0].Kind)
	}
	return tw.Flush()
}

func nodeTable(w io.Writer, items []Item) {
	fmt.Fprintln(w, "UUID\tNAME\tSTATE\tPUBLIC IP\tPRIVATE IP\tFLAVOR\tIMAGE")
	fmt.Fprintln(w, "----\t----\t-----\t---------\t----------\t------\t-----")
	for _, item := range items {
		n := item.Node
		if n == nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			n.UUID, n.Name, n.StateName, n.PublicIP, n.PrivateIP, n.FlavorID, n.ImageID)
	}
}

func sizeTable(w io.Writer, items []Item) {
	fmt.Fprintln(w, "ID\tNAME\tRAM\tDISK\tBANDWIDTH\tPRICE")
	fmt.Fprintln(w, "--\t----\t---\t----\t---------\t-----")
	for _, item := range items {
		s := item.Size
		if s == nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d MB\t%d GB\t%g TB\t%.2f\n",
			s.ID, s.Name, s.RAM, s.Disk, s.Bandwidth, s.Price)
	}
}

func imageTable(w io.Writer, items []Item) {
	fmt.Fprintln(w, "ID\tNAME")
	fmt.Fprintln(w, "--\t----")
	for _, item := range items {
		img := item.Image
		if img == nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", img.ID, img.Name)
	}
}
