package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kdiomande/maillots/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestNamedRouteURL(t *testing.T) {
	r := router.New()
	r.Patch("/commandes/{id}/livrer", "commandes.deliver", ok)

	url, err := r.URL("commandes.deliver", map[string]string{"id": "abc123"})
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if url != "/commandes/abc123/livrer" {
		t.Errorf("got %q", url)
	}

	if _, err := r.URL("commandes.deliver", nil); err == nil {
		t.Error("expected error for missing params")
	}
	if _, err := r.URL("unknown", nil); err == nil {
		t.Error("expected error for unknown route")
	}
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	var order []string
	mw := func(tag string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	g := r.Group("/admin", mw("group"))
	g.Get("/orders", "admin.orders", ok, mw("route"))

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(order) != 2 || order[0] != "group" || order[1] != "route" {
		t.Errorf("middleware order = %v", order)
	}
}

func TestGroupEmptyPath(t *testing.T) {
	r := router.New()
	g := r.Group("/commandes")
	g.Get("", "commandes.list", ok)

	path, ok := r.Path("commandes.list")
	if !ok || path != "/commandes" {
		t.Errorf("path = %q, ok = %v", path, ok)
	}

	req := httptest.NewRequest(http.MethodGet, "/commandes", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	r.Get("/", "health", ok)
	r.Post("/commandes", "commandes.submit", ok)
	r.Get("/internal", "", ok) // unnamed routes are not listed

	if got := len(r.Routes()); got != 2 {
		t.Errorf("len(Routes()) = %d, want 2", got)
	}
}
