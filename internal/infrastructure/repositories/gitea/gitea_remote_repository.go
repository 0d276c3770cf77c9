package gitea

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
	logger "github.com/sirupsen/logrus"
)

const (
	requestTimeout = 60 * time.Second
	searchLimit    = 100
	listLimit      = 200
)

// authMode selects how credentials are attached to a request.
type authMode int

const (
	authToken authMode = iota
	authBasic
)

// GiteaRemoteRepository talks to a single Gitea server over its REST API.
// It holds no credentials: every call receives them explicitly and they
// only ever live in the request being sent.
type GiteaRemoteRepository struct {
	baseURL string
	client  *http.Client
}

// NewRemoteRepository builds a client for the given server. It satisfies
// repositories.RemoteRepositoryFactory.
func NewRemoteRepository(serverURL string, insecureSkipVerify bool) repositories.RemoteRepository {
	transport := http.DefaultTransport
	if insecureSkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // user opted in
		}
	}
	return &GiteaRemoteRepository{
		baseURL: strings.TrimSuffix(serverURL, "/"),
		client: &http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		},
	}
}

type createRepositoryRequest struct {
	Name          string `json:"name"`
	Private       bool   `json:"private"`
	AutoInit      bool   `json:"auto_init"`
	DefaultBranch string `json:"default_branch,omitempty"`
}

// CreateRepository creates the repository under the user or the given
// organization. "Already exists" conflicts count as success so the caller
// can sync into a pre-existing repository.
func (it *GiteaRemoteRepository) CreateRepository(
	ctx context.Context,
	creds entities.Credentials,
	ownerOrOrg, name string,
	private bool,
	defaultBranch string,
) (string, error) {
	owner := creds.Username
	endpoint := it.baseURL + "/api/v1/user/repos"
	if ownerOrOrg != "" && !strings.EqualFold(ownerOrOrg, creds.Username) {
		owner = ownerOrOrg
		endpoint = it.baseURL + "/api/v1/orgs/" + url.PathEscape(ownerOrOrg) + "/repos"
	}
	slug := owner + "/" + name

	payload := createRepositoryRequest{
		Name:          name,
		Private:       private,
		AutoInit:      false,
		DefaultBranch: defaultBranch,
	}

	status, body, err := it.doJSON(ctx, creds, http.MethodPost, endpoint, payload)
	if err != nil {
		return "", err
	}

	switch {
	case status == http.StatusCreated:
		// The server reports the canonical slug (owner casing, renamed
		// reserved names); prefer it over the one assembled locally.
		var created repositoryResponse
		if unmarshalErr := json.Unmarshal(body, &created); unmarshalErr == nil && created.FullName != "" {
			slug = created.FullName
		}
		logger.Debugf("created repository %s", slug)
		return slug, nil
	case status == http.StatusConflict,
		status == http.StatusUnprocessableEntity && strings.Contains(string(body), "already exists"):
		logger.Debugf("repository %s already exists", slug)
		return slug, nil
	default:
		return "", entities.ClassifyStatus("failed to create repository "+slug, status, string(body))
	}
}

// contentResponse is the subset of a Gitea contents object the engine needs.
type contentResponse struct {
	Path string `json:"path"`
	SHA  string `json:"sha"`
	Type string `json:"type"`
}

func (it *GiteaRemoteRepository) contentsURL(repo entities.Repository, path, branch string) string {
	endpoint := fmt.Sprintf(
		"%s/api/v1/repos/%s/%s/contents/%s",
		it.baseURL,
		url.PathEscape(repo.Owner),
		url.PathEscape(repo.Name),
		NormalizeAPIPath(path),
	)
	if branch != "" {
		endpoint += "?ref=" + url.QueryEscape(branch)
	}
	return endpoint
}

// GetContents fetches the entry at path. A single object is a file; an
// array is a directory listing.
func (it *GiteaRemoteRepository) GetContents(
	ctx context.Context,
	creds entities.Credentials,
	repo entities.Repository,
	path, branch string,
) (*entities.ContentEntry, []entities.ContentEntry, error) {
	status, body, err := it.doJSON(ctx, creds, http.MethodGet, it.contentsURL(repo, path, branch), nil)
	if err != nil {
		return nil, nil, err
	}
	if status != http.StatusOK {
		return nil, nil, entities.ClassifyStatus("failed to fetch contents of "+path, status, string(body))
	}

	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var listing []contentResponse
		if unmarshalErr := json.Unmarshal(body, &listing); unmarshalErr != nil {
			return nil, nil, fmt.Errorf("decoding directory listing: %w", unmarshalErr)
		}
		entries := make([]entities.ContentEntry, 0, len(listing))
		for _, item := range listing {
			entries = append(entries, entities.ContentEntry{
				Path:  item.Path,
				SHA:   item.SHA,
				IsDir: item.Type == "dir",
			})
		}
		return nil, entries, nil
	}

	var single contentResponse
	if unmarshalErr := json.Unmarshal(body, &single); unmarshalErr != nil {
		return nil, nil, fmt.Errorf("decoding content entry: %w", unmarshalErr)
	}
	return &entities.ContentEntry{
		Path:  single.Path,
		SHA:   single.SHA,
		IsDir: single.Type == "dir",
	}, nil, nil
}

type putContentsRequest struct {
	Content string `json:"content"`
	Branch  string `json:"branch,omitempty"`
	Message string `json:"message"`
	SHA     string `json:"sha,omitempty"`
}

// PutContents creates (empty sha) or updates (sha set) one file.
func (it *GiteaRemoteRepository) PutContents(
	ctx context.Context,
	creds entities.Credentials,
	repo entities.Repository,
	path, branch string,
	content []byte,
	message, sha string,
) error {
	payload := putContentsRequest{
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  branch,
		Message: message,
		SHA:     sha,
	}

	// Create and update are both PUT; the sha field alone decides which. A
	// PUT-create against an existing file is rejected with a sha error, which
	// the conflict cascade repairs.
	status, body, err := it.doJSON(ctx, creds, http.MethodPut, it.contentsURL(repo, path, branch), payload)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return entities.ClassifyStatus("failed to upload "+path, status, string(body))
	}
	return nil
}

type deleteContentsRequest struct {
	Message string `json:"message"`
	SHA     string `json:"sha"`
	Branch  string `json:"branch,omitempty"`
}

// DeleteContents removes one file; sha must match the stored revision.
func (it *GiteaRemoteRepository) DeleteContents(
	ctx context.Context,
	creds entities.Credentials,
	repo entities.Repository,
	path, branch string,
	message, sha string,
) error {
	payload := deleteContentsRequest{Message: message, SHA: sha, Branch: branch}

	status, body, err := it.doJSON(ctx, creds, http.MethodDelete, it.contentsURL(repo, path, branch), payload)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return entities.ClassifyStatus("failed to delete "+path, status, string(body))
	}
	return nil
}

type searchResponse struct {
	Data []struct {
		FullName string `json:"full_name"`
	} `json:"data"`
}

type repositoryResponse struct {
	FullName string `json:"full_name"`
}

// SearchRepositories finds the user's repositories matching query. It walks
// an authentication ladder: the search endpoint with token auth, then the
// user-repos endpoint with token auth, then the same with basic auth. Only
// when every rung fails does it surface the last failure.
func (it *GiteaRemoteRepository) SearchRepositories(
	ctx context.Context,
	creds entities.Credentials,
	query string,
) ([]entities.Repository, error) {
	// Scope the search to repositories owned by the authenticated user, so
	// public repositories of other users never leak into the listing.
	searchURL := fmt.Sprintf(
		"%s/api/v1/repos/search?q=%s&owner=%s&exclusive=true&limit=%d",
		it.baseURL, url.QueryEscape(query), url.QueryEscape(creds.Username), searchLimit,
	)

	status, body, err := it.get(ctx, creds, searchURL, authToken)
	if err == nil && status == http.StatusOK {
		var result searchResponse
		if unmarshalErr := json.Unmarshal(body, &result); unmarshalErr == nil {
			slugs := make([]string, 0, len(result.Data))
			for _, item := range result.Data {
				slugs = append(slugs, item.FullName)
			}
			return repositoriesFromSlugs(slugs, query), nil
		}
	}
	logger.Debugf("repository search endpoint unavailable (status %d), listing user repositories", status)

	repos, listErr := it.listUserRepositories(ctx, creds)
	if listErr != nil {
		return nil, listErr
	}
	return filterRepositories(repos, query), nil
}

// ListRepositoriesForUser lists all repositories owned by the user.
func (it *GiteaRemoteRepository) ListRepositoriesForUser(
	ctx context.Context,
	creds entities.Credentials,
) ([]entities.Repository, error) {
	return it.listUserRepositories(ctx, creds)
}

func (it *GiteaRemoteRepository) listUserRepositories(
	ctx context.Context,
	creds entities.Credentials,
) ([]entities.Repository, error) {
	endpoint := fmt.Sprintf(
		"%s/api/v1/users/%s/repos?limit=%d",
		it.baseURL, url.PathEscape(creds.Username), listLimit,
	)

	body, err := it.getWithFallback(ctx, creds, endpoint)
	if err != nil {
		return nil, err
	}

	var listing []repositoryResponse
	if unmarshalErr := json.Unmarshal(body, &listing); unmarshalErr != nil {
		return nil, fmt.Errorf("decoding repository list: %w", unmarshalErr)
	}

	slugs := make([]string, 0, len(listing))
	for _, item := range listing {
		slugs = append(slugs, item.FullName)
	}
	return repositoriesFromSlugs(slugs, ""), nil
}

type branchResponse struct {
	Name string `json:"name"`
}

// ListBranches lists the repository's branches sorted case-insensitively.
func (it *GiteaRemoteRepository) ListBranches(
	ctx context.Context,
	creds entities.Credentials,
	repo entities.Repository,
) ([]entities.Branch, error) {
	endpoint := fmt.Sprintf(
		"%s/api/v1/repos/%s/%s/branches?limit=%d",
		it.baseURL, url.PathEscape(repo.Owner), url.PathEscape(repo.Name), listLimit,
	)

	body, err := it.getWithFallback(ctx, creds, endpoint)
	if err != nil {
		return nil, err
	}

	var listing []branchResponse
	if unmarshalErr := json.Unmarshal(body, &listing); unmarshalErr != nil {
		return nil, fmt.Errorf("decoding branch list: %w", unmarshalErr)
	}

	branches := make([]entities.Branch, 0, len(listing))
	for _, item := range listing {
		branches = append(branches, entities.Branch{Name: item.Name})
	}
	sort.Slice(branches, func(i, j int) bool {
		return strings.ToLower(branches[i].Name) < strings.ToLower(branches[j].Name)
	})
	return branches, nil
}

// getWithFallback performs a GET with token auth and retries once with basic
// auth when the token form is rejected. Both failing yields one unified
// error describing the last response.
func (it *GiteaRemoteRepository) getWithFallback(
	ctx context.Context,
	creds entities.Credentials,
	endpoint string,
) ([]byte, error) {
	status, body, err := it.get(ctx, creds, endpoint, authToken)
	if err == nil && status == http.StatusOK {
		return body, nil
	}

	logger.Debugf("token authentication failed (status %d), retrying with basic auth", status)
	status, body, err = it.get(ctx, creds, endpoint, authBasic)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, entities.ClassifyStatus("request rejected with both token and basic authentication", status, string(body))
	}
	return body, nil
}

func (it *GiteaRemoteRepository) get(
	ctx context.Context,
	creds entities.Credentials,
	endpoint string,
	mode authMode,
) (int, []byte, error) {
	return it.do(ctx, creds, http.MethodGet, endpoint, nil, mode)
}

// doJSON sends one JSON request with token auth and retries once with basic
// auth on a 401, so the same secret works whether it is an access token or a
// password.
func (it *GiteaRemoteRepository) doJSON(
	ctx context.Context,
	creds entities.Credentials,
	method, endpoint string,
	payload any,
) (int, []byte, error) {
	var raw []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding request body: %w", err)
		}
		raw = encoded
	}

	status, body, err := it.do(ctx, creds, method, endpoint, raw, authToken)
	if err != nil {
		return 0, nil, err
	}
	if status != http.StatusUnauthorized {
		return status, body, nil
	}

	logger.Debug("token authentication rejected, retrying with basic auth")
	return it.do(ctx, creds, method, endpoint, raw, authBasic)
}

func (it *GiteaRemoteRepository) do(
	ctx context.Context,
	creds entities.Credentials,
	method, endpoint string,
	body []byte,
	mode authMode,
) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")

	switch mode {
	case authBasic:
		request.SetBasicAuth(creds.Username, creds.Secret)
	default:
		request.Header.Set("Authorization", "token "+creds.Secret)
	}

	response, err := it.client.Do(request)
	if err != nil {
		return 0, nil, entities.NewNetworkError("could not reach server", err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, nil, entities.NewNetworkError("reading response body", err)
	}
	return response.StatusCode, payload, nil
}

// repositoriesFromSlugs parses "owner/name" slugs, drops malformed or
// duplicate entries, filters by query, and sorts case-insensitively by name.
func repositoriesFromSlugs(slugs []string, query string) []entities.Repository {
	seen := make(map[string]bool, len(slugs))
	repos := make([]entities.Repository, 0, len(slugs))

	for _, slug := range slugs {
		owner, name, ok := strings.Cut(slug, "/")
		if !ok || owner == "" || name == "" || seen[slug] {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(query)) {
			continue
		}
		seen[slug] = true
		repos = append(repos, entities.Repository{Owner: owner, Name: name})
	}

	sort.Slice(repos, func(i, j int) bool {
		return strings.ToLower(repos[i].Name) < strings.ToLower(repos[j].Name)
	})
	return repos
}

func filterRepositories(repos []entities.Repository, query string) []entities.Repository {
	if query == "" {
		return repos
	}
	filtered := make([]entities.Repository, 0, len(repos))
	for _, repo := range repos {
		if strings.Contains(strings.ToLower(repo.Name), strings.ToLower(query)) {
			filtered = append(filtered, repo)
		}
	}
	return filtered
}
