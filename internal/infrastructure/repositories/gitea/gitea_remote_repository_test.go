//go:build unit

package gitea_test

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/infrastructure/repositories/gitea"
	"github.com/rios0rios0/giteasync/test/domain/entitybuilders"
)

func testCreds() entities.Credentials {
	return entitybuilders.NewCredentialsBuilder().BuildCredentials()
}

func testRepo() entities.Repository {
	return entitybuilders.NewRepositoryBuilder().BuildRepository()
}

func TestCreateRepository(t *testing.T) {
	t.Parallel()

	t.Run("should create under the user and return the slug", func(t *testing.T) {
		t.Parallel()

		// given
		var gotPath string
		var payload map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &payload)
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		slug, err := client.CreateRepository(context.Background(), testCreds(), "", "sandbox", true, "main")

		// then
		require.NoError(t, err)
		assert.Equal(t, "tester/sandbox", slug)
		assert.Equal(t, "/api/v1/user/repos", gotPath)
		assert.Equal(t, "sandbox", payload["name"])
		assert.Equal(t, true, payload["private"])
		assert.Equal(t, false, payload["auto_init"])
	})

	t.Run("should create under the organization endpoint when an org is given", func(t *testing.T) {
		t.Parallel()

		// given
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		slug, err := client.CreateRepository(context.Background(), testCreds(), "acme", "sandbox", false, "main")

		// then
		require.NoError(t, err)
		assert.Equal(t, "acme/sandbox", slug)
		assert.Equal(t, "/api/v1/orgs/acme/repos", gotPath)
	})

	t.Run("should prefer the slug reported by the server", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"full_name":"Tester/sandbox"}`))
		}))
		defer server.Close()
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		slug, err := client.CreateRepository(context.Background(), testCreds(), "", "sandbox", false, "main")

		// then
		require.NoError(t, err)
		assert.Equal(t, "Tester/sandbox", slug)
	})

	t.Run("should treat an already existing repository as success", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"The repository with the same name already exists."}`))
		}))
		defer server.Close()
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		slug, err := client.CreateRepository(context.Background(), testCreds(), "", "sandbox", false, "main")

		// then
		require.NoError(t, err)
		assert.Equal(t, "tester/sandbox", slug)
	})

	t.Run("should surface an authentication failure after both auth modes", func(t *testing.T) {
		t.Parallel()

		// given
		var authHeaders []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeaders = append(authHeaders, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		_, err := client.CreateRepository(context.Background(), testCreds(), "", "sandbox", false, "main")

		// then
		require.Error(t, err)
		assert.True(t, entities.IsAuthenticationError(err))
		require.Len(t, authHeaders, 2, "a 401 on token auth must be retried with basic auth")
		assert.True(t, strings.HasPrefix(authHeaders[0], "token "))
		assert.True(t, strings.HasPrefix(authHeaders[1], "Basic "))
	})
}

func TestGetContents(t *testing.T) {
	t.Parallel()

	t.Run("should return a single entry for a file", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/repos/tester/sandbox/contents/docs/guide.md", r.URL.Path)
			assert.Equal(t, "main", r.URL.Query().Get("ref"))
			_, _ = w.Write([]byte(`{"path":"docs/guide.md","sha":"abc123","type":"file"}`))
		}))
		defer server.Close()
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		entry, listing, err := client.GetContents(context.Background(), testCreds(), testRepo(), "docs/guide.md", "main")

		// then
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Nil(t, listing)
		assert.Equal(t, "abc123", entry.SHA)
		assert.False(t, entry.IsDir)
	})

	t.Run("should return a listing for a directory", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"path":"docs/a.md","sha":"s1","type":"file"},{"path":"docs/sub","sha":"s2","type":"dir"}]`))
		}))
		defer server.Close()
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		entry, listing, err := client.GetContents(context.Background(), testCreds(), testRepo(), "docs", "main")

		// then
		require.NoError(t, err)
		assert.Nil(t, entry)
		require.Len(t, listing, 2)
		assert.False(t, listing[0].IsDir)
		assert.True(t, listing[1].IsDir)
	})

	t.Run("should classify a missing path as not found", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		_, _, err := client.GetContents(context.Background(), testCreds(), testRepo(), "missing.txt", "main")

		// then
		require.Error(t, err)
		assert.True(t, entities.IsNotFoundError(err))
	})
}

func TestPutContents(t *testing.T) {
	t.Parallel()

	t.Run("should PUT base64 content without a revision token to create a new file", func(t *testing.T) {
		t.Parallel()

		// given
		var method string
		var payload map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &payload)
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		err := client.PutContents(
			context.Background(), testCreds(), testRepo(),
			"a.txt", "main", []byte("alpha"), "Add a.txt", "",
		)

		// then
		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, method)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("alpha")), payload["content"])
		assert.Equal(t, "main", payload["branch"])
		assert.NotContains(t, payload, "sha")
	})

	t.Run("should PUT with the revision token to update", func(t *testing.T) {
		t.Parallel()

		// given
		var method string
		var payload map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &payload)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		err := client.PutContents(
			context.Background(), testCreds(), testRepo(),
			"a.txt", "main", []byte("alpha"), "Update a.txt", "abc123",
		)

		// then
		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, method)
		assert.Equal(t, "abc123", payload["sha"])
	})

	t.Run("should classify a stale token rejection as a conflict", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"sha does not match"}`))
		}))
		defer server.Close()
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		err := client.PutContents(
			context.Background(), testCreds(), testRepo(),
			"a.txt", "main", []byte("alpha"), "Update a.txt", "stale",
		)

		// then
		require.Error(t, err)
		assert.True(t, entities.IsConflictError(err))
		assert.Contains(t, err.Error(), "sha does not match")
	})
}

func TestDeleteContents(t *testing.T) {
	t.Parallel()

	t.Run("should DELETE with message, sha, and branch", func(t *testing.T) {
		t.Parallel()

		// given
		var method string
		var payload map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &payload)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		err := client.DeleteContents(
			context.Background(), testCreds(), testRepo(),
			"a.txt", "main", "Remove a.txt", "abc123",
		)

		// then
		require.NoError(t, err)
		assert.Equal(t, http.MethodDelete, method)
		assert.Equal(t, "abc123", payload["sha"])
		assert.Equal(t, "main", payload["branch"])
	})
}

func TestListBranches(t *testing.T) {
	t.Parallel()

	t.Run("should sort branches case-insensitively", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"name":"main"},{"name":"Develop"},{"name":"archive"}]`))
		}))
		defer server.Close()
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		branches, err := client.ListBranches(context.Background(), testCreds(), testRepo())

		// then
		require.NoError(t, err)
		names := make([]string, 0, len(branches))
		for _, branch := range branches {
			names = append(names, branch.Name)
		}
		assert.Equal(t, []string{"archive", "Develop", "main"}, names)
	})

	t.Run("should retry with basic auth when token auth is rejected", func(t *testing.T) {
		t.Parallel()

		// given
		var authHeaders []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			authHeaders = append(authHeaders, auth)
			if strings.HasPrefix(auth, "token ") {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`[{"name":"main"}]`))
		}))
		defer server.Close()
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		branches, err := client.ListBranches(context.Background(), testCreds(), testRepo())

		// then
		require.NoError(t, err)
		require.Len(t, branches, 1)
		require.Len(t, authHeaders, 2)
		assert.True(t, strings.HasPrefix(authHeaders[1], "Basic "))
	})
}

func TestSearchRepositories(t *testing.T) {
	t.Parallel()

	t.Run("should use the search endpoint when it answers", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/repos/search", r.URL.Path)
			assert.Equal(t, "alp", r.URL.Query().Get("q"))
			assert.Equal(t, "tester", r.URL.Query().Get("owner"))
			assert.Equal(t, "true", r.URL.Query().Get("exclusive"))
			_, _ = w.Write([]byte(`{"data":[{"full_name":"tester/alpha"},{"full_name":"tester/alpine"}]}`))
		}))
		defer server.Close()
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		repos, err := client.SearchRepositories(context.Background(), testCreds(), "alp")

		// then
		require.NoError(t, err)
		assert.Len(t, repos, 2)
	})

	t.Run("should fall back to listing user repositories when search fails", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/v1/repos/search" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			assert.Equal(t, "/api/v1/users/tester/repos", r.URL.Path)
			_, _ = w.Write([]byte(`[{"full_name":"tester/alpha"},{"full_name":"tester/bravo"}]`))
		}))
		defer server.Close()
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		repos, err := client.SearchRepositories(context.Background(), testCreds(), "alpha")

		// then
		require.NoError(t, err)
		require.Len(t, repos, 1)
		assert.Equal(t, "alpha", repos[0].Name)
	})
}

func TestNetworkFailure(t *testing.T) {
	t.Parallel()

	t.Run("should classify an unreachable server as a network error", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close() // closed on purpose
		client := gitea.NewRemoteRepository(server.URL, false)

		// when
		_, err := client.CreateRepository(context.Background(), testCreds(), "", "sandbox", false, "main")

		// then
		require.Error(t, err)
		assert.True(t, entities.IsNetworkError(err))
	})
}
