package output

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cloudlift/nodectl/internal/domain"
)

func TestNodeRecordRoundTrip(t *testing.T) {
	node := domain.Node{
		UUID:      "3a9c8d0e",
		Name:      "web1",
		State:     domain.StatePending,
		PublicIP:  "203.0.113.10",
		PrivateIP: "10.0.0.10",
		FlavorID:  "cpx11",
		ImageID:   "ubuntu-24.04",
		Password:  "s3cret",
	}

	raw, err := json.Marshal(NodeItem(node))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var rec NodeRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if diff := cmp.Diff(node, rec.ToNode()); diff != "" {
		t.Errorf("round-tripped node mismatch (-want +got):\n%s", diff)
	}
}

func TestNodeItemFlattensState(t *testing.T) {
	item := NodeItem(domain.Node{UUID: "1", Name: "db1", State: domain.StateTerminated})

	raw, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got["state"] != float64(2) {
		t.Errorf("state = %v, want 2", got["state"])
	}
	if got["state_name"] != "terminated" {
		t.Errorf("state_name = %v, want %q", got["state_name"], "terminated")
	}
	if _, present := got["password"]; present {
		t.Errorf("password key present on node without a password: %s", raw)
	}
}

func TestItemMarshalEmitsActiveVariantOnly(t *testing.T) {
	raw, err := json.Marshal(SizeItem(domain.Size{
		ID: "cpx21", Name: "CPX 21", RAM: 4096, Disk: 80, Bandwidth: 20, Price: 8.98,
	}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := map[string]interface{}{
		"id":        "cpx21",
		"name":      "CPX 21",
		"ram":       float64(4096),
		"disk":      float64(80),
		"bandwidth": float64(20),
		"price":     float64(8.98),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("size record mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordEnvelopeOmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(MessageRecord("no nodes found"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"message":"no nodes found"}`
	if string(raw) != want {
		t.Errorf("envelope = %s, want %s", raw, want)
	}
}
