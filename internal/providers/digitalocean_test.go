package providers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/digitalocean/godo"
	"github.com/google/go-cmp/cmp"

	"cloudlift/nodectl/internal/domain"
)

// newDOAPI spins up an httptest.Server routed on "METHOD /path", same
// shape as the Hetzner test server but answering godo-style bodies.
func newDOAPI(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		if h, ok := handlers[key]; ok {
			h(w, r)
			return
		}
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "not_found", "message": "not found"})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newDOTestConn(t *testing.T, baseURL string) *DigitalOceanConnection {
	t.Helper()
	conn, err := NewDigitalOceanConnection(
		domain.Credentials{Key: "test-token"},
		nil,
		godo.SetBaseURL(baseURL),
	)
	if err != nil {
		t.Fatalf("failed to build connection: %v", err)
	}
	return conn
}

func dropletJSON(id int, name, status string) map[string]interface{} {
	return map[string]interface{}{
		"id":        id,
		"name":      name,
		"status":    status,
		"size_slug": "s-1vcpu-1gb",
		"image": map[string]interface{}{
			"id":   63663980,
			"slug": "ubuntu-24-04-x64",
			"name": "24.04 (LTS) x64",
		},
		"networks": map[string]interface{}{
			"v4": []interface{}{
				map[string]interface{}{"ip_address": "104.236.32.182", "type": "public"},
				map[string]interface{}{"ip_address": "10.132.0.2", "type": "private"},
			},
			"v6": []interface{}{},
		},
	}
}

func TestDigitalOceanListNodes(t *testing.T) {
	srv := newDOAPI(t, map[string]http.HandlerFunc{
		"GET /v2/droplets": func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("Authorization = %q, want %q", got, "Bearer test-token")
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"droplets": []interface{}{
					dropletJSON(3164444, "web1", "active"),
					dropletJSON(3164445, "db1", "new"),
				},
				"meta": map[string]interface{}{"total": 2},
			})
		},
	})

	conn := newDOTestConn(t, srv.URL)
	nodes, err := conn.ListNodes(t.Context())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []domain.Node{
		{
			UUID:      "3164444",
			Name:      "web1",
			State:     domain.StateRunning,
			PublicIP:  "104.236.32.182",
			PrivateIP: "10.132.0.2",
			FlavorID:  "s-1vcpu-1gb",
			ImageID:   "ubuntu-24-04-x64",
		},
		{
			UUID:      "3164445",
			Name:      "db1",
			State:     domain.StatePending,
			PublicIP:  "104.236.32.182",
			PrivateIP: "10.132.0.2",
			FlavorID:  "s-1vcpu-1gb",
			ImageID:   "ubuntu-24-04-x64",
		},
	}
	if diff := cmp.Diff(want, nodes); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
}

func TestDigitalOceanCreateNode(t *testing.T) {
	srv := newDOAPI(t, map[string]http.HandlerFunc{
		"POST /v2/droplets": func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			bodyStr := string(body)

			if !strings.Contains(bodyStr, `"name":"web1"`) {
				t.Errorf("expected name 'web1' in body, got: %s", bodyStr)
			}
			if !strings.Contains(bodyStr, `"size":"s-1vcpu-1gb"`) {
				t.Errorf("expected size slug in body, got: %s", bodyStr)
			}
			if !strings.Contains(bodyStr, `"region":"nyc3"`) {
				t.Errorf("expected default region in body, got: %s", bodyStr)
			}
			if !strings.Contains(bodyStr, `"image":"ubuntu-24-04-x64"`) {
				t.Errorf("expected image slug in body, got: %s", bodyStr)
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"droplet": dropletJSON(3164494, "web1", "new"),
			})
		},
	})

	conn := newDOTestConn(t, srv.URL)
	node, err := conn.CreateNode(t.Context(), domain.CreateNodeOpts{
		Name:  "web1",
		Size:  domain.Size{ID: "s-1vcpu-1gb", Name: "s-1vcpu-1gb"},
		Image: domain.Image{ID: "ubuntu-24-04-x64", Name: "24.04 (LTS) x64"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if node.UUID != "3164494" {
		t.Errorf("UUID = %q, want %q", node.UUID, "3164494")
	}
	if node.State != domain.StatePending {
		t.Errorf("State = %v, want %v", node.State, domain.StatePending)
	}
	if node.Password != "" {
		t.Errorf("Password = %q, want empty (DigitalOcean never returns one)", node.Password)
	}
}

func TestDigitalOceanDestroyNode(t *testing.T) {
	srv := newDOAPI(t, map[string]http.HandlerFunc{
		"DELETE /v2/droplets/3164444": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	})

	conn := newDOTestConn(t, srv.URL)
	if err := conn.DestroyNode(t.Context(), &domain.Node{UUID: "3164444", Name: "web1"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestDigitalOceanDestroyNode_NotFound(t *testing.T) {
	srv := newDOAPI(t, map[string]http.HandlerFunc{
		"DELETE /v2/droplets/999": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "not_found", "message": "droplet not found"})
		},
	})

	conn := newDOTestConn(t, srv.URL)
	err := conn.DestroyNode(t.Context(), &domain.Node{UUID: "999"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDigitalOceanListSizes(t *testing.T) {
	srv := newDOAPI(t, map[string]http.HandlerFunc{
		"GET /v2/sizes": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"sizes": []interface{}{
					map[string]interface{}{
						"slug":          "s-1vcpu-1gb",
						"memory":        1024,
						"vcpus":         1,
						"disk":          25,
						"transfer":      1.0,
						"price_monthly": 6.0,
						"price_hourly":  0.00893,
						"available":     true,
					},
					map[string]interface{}{
						"slug":          "s-2vcpu-2gb",
						"memory":        2048,
						"vcpus":         2,
						"disk":          60,
						"transfer":      3.0,
						"price_monthly": 18.0,
						"price_hourly":  0.02679,
						"available":     true,
					},
				},
				"meta": map[string]interface{}{"total": 2},
			})
		},
	})

	conn := newDOTestConn(t, srv.URL)
	sizes, err := conn.ListSizes(t.Context())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []domain.Size{
		{ID: "s-1vcpu-1gb", Name: "s-1vcpu-1gb", RAM: 1024, Disk: 25, Bandwidth: 1, Price: 6},
		{ID: "s-2vcpu-2gb", Name: "s-2vcpu-2gb", RAM: 2048, Disk: 60, Bandwidth: 3, Price: 18},
	}
	if diff := cmp.Diff(want, sizes); diff != "" {
		t.Errorf("sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestDigitalOceanListImages_SnapshotFallsBackToID(t *testing.T) {
	srv := newDOAPI(t, map[string]http.HandlerFunc{
		"GET /v2/images": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"images": []interface{}{
					map[string]interface{}{"id": 63663980, "slug": "ubuntu-24-04-x64", "name": "24.04 (LTS) x64"},
					map[string]interface{}{"id": 12345, "slug": "", "name": "my-snapshot"},
				},
				"meta": map[string]interface{}{"total": 2},
			})
		},
	})

	conn := newDOTestConn(t, srv.URL)
	images, err := conn.ListImages(t.Context())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []domain.Image{
		{ID: "ubuntu-24-04-x64", Name: "24.04 (LTS) x64"},
		{ID: "12345", Name: "my-snapshot"},
	}
	if diff := cmp.Diff(want, images); diff != "" {
		t.Errorf("images mismatch (-want +got):\n%s", diff)
	}
}

func TestDigitalOceanCheckAuth_Unauthorized(t *testing.T) {
	srv := newDOAPI(t, map[string]http.HandlerFunc{
		"GET /v2/regions": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "Unauthorized", "message": "Unable to authenticate you"})
		},
	})

	conn := newDOTestConn(t, srv.URL)
	err := conn.CheckAuth(t.Context())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}
