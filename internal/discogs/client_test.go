package discogs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/franz/record-collection/internal/util"
)

func TestNewClientValidation(t *testing.T) {
	cases := []ClientConfig{
		{},
		{Key: "key", Secret: "secret"},
		{Key: "key", Username: "franz"},
		{Secret: "secret", Username: "franz"},
	}
	for _, config := range cases {
		if _, err := NewClient(config); err == nil {
			t.Errorf("expected error for config %+v", config)
		} else if !errors.Is(err, util.ErrInvalidConfig) {
			t.Errorf("expected invalid config error, got %v", err)
		}
	}

	if _, err := NewClient(ClientConfig{Key: "key", Secret: "secret", Username: "franz"}); err != nil {
		t.Errorf("unexpected error for complete config: %v", err)
	}
}

func testClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{Key: "key", Secret: "secret", Username: "franz"})
	if err != nil {
		t.Fatal(err)
	}
	client.httpClient = server.Client()
	client.baseURL = server.URL
	return client
}

func TestUserCollectionPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Discogs key=key, secret=secret" {
			t.Errorf("authorization = %q", got)
		}
		if r.URL.Path != "/users/franz/collection/folders/0/releases" {
			t.Errorf("path = %s", r.URL.Path)
		}
		page := r.URL.Query().Get("page")
		fmt.Fprintf(w, `{
			"pagination": {"page": %s, "pages": 2, "per_page": 100, "items": 2},
			"releases": [{"basic_information": {"id": %s00, "title": "Album %s"}}]
		}`, page, page, page)
	}))
	defer server.Close()

	client := testClient(t, server)

	releases, err := client.UserCollection(context.Background())
	if err != nil {
		t.Fatalf("UserCollection failed: %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("releases = %+v", releases)
	}
	if releases[0].BasicInformation.ID != 100 || releases[1].BasicInformation.ID != 200 {
		t.Errorf("release ids = %d, %d", releases[0].BasicInformation.ID, releases[1].BasicInformation.ID)
	}
}

func TestGetRelease(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/releases/249504" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"id": 249504, "title": "Rain Dogs", "year": 1985}`)
	}))
	defer server.Close()

	client := testClient(t, server)

	release, err := client.GetRelease(context.Background(), 249504)
	if err != nil {
		t.Fatalf("GetRelease failed: %v", err)
	}
	if release.Title != "Rain Dogs" || release.Year != 1985 {
		t.Errorf("release = %+v", release)
	}
}

func TestGetReleaseBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(t, server)

	if _, err := client.GetRelease(context.Background(), 1); err == nil {
		t.Error("expected error on 404")
	}
}
