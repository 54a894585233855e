package http

import (
	nethttp "net/http"
	"testing"

	"contacts/internal/dto"
)

func TestContactCreateEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, nethttp.MethodPost, "/api/contacts/",
		dto.ContactRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "555-0100"}, true)
	if resp.StatusCode != nethttp.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	body := decodeBody[dto.ContactResponse](t, resp)
	if body.ID == "" || body.FirstName != "Ada" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestContactGetLifecycle(t *testing.T) {
	env := newTestEnv(t)

	created := decodeBody[dto.ContactResponse](t, env.do(t, nethttp.MethodPost, "/api/contacts/",
		dto.ContactRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, true))

	resp := env.do(t, nethttp.MethodGet, "/api/contacts/"+created.ID, nil, true)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}
	got := decodeBody[dto.ContactResponse](t, resp)
	if got.ID != created.ID || got.Email != "ada@example.com" {
		t.Fatalf("unexpected contact: %+v", got)
	}

	resp = env.do(t, nethttp.MethodDelete, "/api/contacts/"+created.ID, nil, true)
	resp.Body.Close()
	if resp.StatusCode != nethttp.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}

	resp = env.do(t, nethttp.MethodGet, "/api/contacts/"+created.ID, nil, true)
	if resp.StatusCode != nethttp.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", resp.StatusCode)
	}
	if d := decodeBody[detailBody](t, resp); d.Detail != "contact not found" {
		t.Fatalf("detail = %q", d.Detail)
	}
}

func TestContactInvalidID(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, nethttp.MethodGet, "/api/contacts/not-a-uuid", nil, true)
	if resp.StatusCode != nethttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if d := decodeBody[detailBody](t, resp); d.Detail != "invalid contact id" {
		t.Fatalf("detail = %q", d.Detail)
	}
}

func TestContactUpdateEndpoint(t *testing.T) {
	env := newTestEnv(t)

	created := decodeBody[dto.ContactResponse](t, env.do(t, nethttp.MethodPost, "/api/contacts/",
		dto.ContactRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, true))

	resp := env.do(t, nethttp.MethodPut, "/api/contacts/"+created.ID,
		dto.ContactRequest{FirstName: "Augusta", LastName: "King", Email: "augusta@example.com"}, true)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	got := decodeBody[dto.ContactResponse](t, resp)
	if got.FirstName != "Augusta" || got.Email != "augusta@example.com" {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestContactListEndpoint(t *testing.T) {
	env := newTestEnv(t)

	for _, name := range []string{"Ada", "Grace"} {
		resp := env.do(t, nethttp.MethodPost, "/api/contacts/",
			dto.ContactRequest{FirstName: name, LastName: "X", Email: name + "@example.com"}, true)
		resp.Body.Close()
	}

	resp := env.do(t, nethttp.MethodGet, "/api/contacts/", nil, true)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	got := decodeBody[[]dto.ContactResponse](t, resp)
	if len(got) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(got))
	}
}

// The fixed sub-routes must not be captured by the {id} parameter.
func TestContactFixedRoutesNotShadowedByID(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/contacts/search", "/api/contacts/birthdays"} {
		resp := env.do(t, nethttp.MethodGet, path, nil, true)
		if resp.StatusCode != nethttp.StatusOK {
			t.Fatalf("%s: status = %d, want 200", path, resp.StatusCode)
		}
		got := decodeBody[[]dto.ContactResponse](t, resp)
		if got == nil {
			t.Fatalf("%s: expected an empty array, got null", path)
		}
	}
}

func TestContactRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, nethttp.MethodGet, "/api/contacts/", nil, false)
	resp.Body.Close()
	if resp.StatusCode != nethttp.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}
