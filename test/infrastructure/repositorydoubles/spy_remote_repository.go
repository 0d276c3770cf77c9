//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations — no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// CreateRepositoryCall records one CreateRepository invocation.
type CreateRepositoryCall struct {
	OwnerOrOrg    string
	Name          string
	Private       bool
	DefaultBranch string
}

// PutContentsCall records one PutContents invocation.
type PutContentsCall struct {
	Path    string
	Branch  string
	Content []byte
	Message string
	SHA     string
}

// DeleteContentsCall records one DeleteContents invocation.
type DeleteContentsCall struct {
	Path    string
	Branch  string
	Message string
	SHA     string
}

// SpyRemoteRepository implements repositories.RemoteRepository as a
// configurable spy. Configure the response fields for the methods your test
// exercises, then inspect the call-tracking fields to verify behavior.
type SpyRemoteRepository struct {
	// --- CreateRepository ---
	CreateSlug  string
	CreateErr   error
	CreateCalls []CreateRepositoryCall

	// --- GetContents ---
	// FileEntries maps path -> single file entry; DirListings maps
	// path -> directory listing. Paths in neither map yield GetErr, or a
	// NotFound error when GetErr is nil.
	FileEntries map[string]*entities.ContentEntry
	DirListings map[string][]entities.ContentEntry
	GetErr      error
	GetPaths    []string

	// --- PutContents ---
	// PutErrs holds per-path error queues consumed one per call; an empty
	// or exhausted queue means success.
	PutErrs  map[string][]error
	PutCalls []PutContentsCall

	// --- DeleteContents ---
	DeleteErr   error
	DeleteCalls []DeleteContentsCall

	// --- SearchRepositories / ListRepositoriesForUser ---
	Repositories []entities.Repository
	SearchErr    error
	Queries      []string
	ListErr      error
	ListCalls    int

	// --- ListBranches ---
	Branches        []entities.Branch
	ListBranchesErr error
	BranchRepos     []entities.Repository
}

var _ repositories.RemoteRepository = (*SpyRemoteRepository)(nil)

func (s *SpyRemoteRepository) CreateRepository(
	_ context.Context, _ entities.Credentials,
	ownerOrOrg, name string, private bool, defaultBranch string,
) (string, error) {
	s.CreateCalls = append(s.CreateCalls, CreateRepositoryCall{
		OwnerOrOrg:    ownerOrOrg,
		Name:          name,
		Private:       private,
		DefaultBranch: defaultBranch,
	})
	if s.CreateErr != nil {
		return "", s.CreateErr
	}
	return s.CreateSlug, nil
}

func (s *SpyRemoteRepository) GetContents(
	_ context.Context, _ entities.Credentials, _ entities.Repository,
	path, _ string,
) (*entities.ContentEntry, []entities.ContentEntry, error) {
	s.GetPaths = append(s.GetPaths, path)
	if s.FileEntries != nil {
		if entry, ok := s.FileEntries[path]; ok {
			return entry, nil, nil
		}
	}
	if s.DirListings != nil {
		if listing, ok := s.DirListings[path]; ok {
			return nil, listing, nil
		}
	}
	if s.GetErr != nil {
		return nil, nil, s.GetErr
	}
	return nil, nil, entities.ClassifyStatus("contents not found", 404, "")
}

func (s *SpyRemoteRepository) PutContents(
	_ context.Context, _ entities.Credentials, _ entities.Repository,
	path, branch string, content []byte, message, sha string,
) error {
	s.PutCalls = append(s.PutCalls, PutContentsCall{
		Path:    path,
		Branch:  branch,
		Content: content,
		Message: message,
		SHA:     sha,
	})
	if queue, ok := s.PutErrs[path]; ok && len(queue) > 0 {
		err := queue[0]
		s.PutErrs[path] = queue[1:]
		return err
	}
	return nil
}

func (s *SpyRemoteRepository) DeleteContents(
	_ context.Context, _ entities.Credentials, _ entities.Repository,
	path, branch string, message, sha string,
) error {
	s.DeleteCalls = append(s.DeleteCalls, DeleteContentsCall{
		Path:    path,
		Branch:  branch,
		Message: message,
		SHA:     sha,
	})
	return s.DeleteErr
}

func (s *SpyRemoteRepository) SearchRepositories(
	_ context.Context, _ entities.Credentials, query string,
) ([]entities.Repository, error) {
	s.Queries = append(s.Queries, query)
	return s.Repositories, s.SearchErr
}

func (s *SpyRemoteRepository) ListRepositoriesForUser(
	_ context.Context, _ entities.Credentials,
) ([]entities.Repository, error) {
	s.ListCalls++
	return s.Repositories, s.ListErr
}

func (s *SpyRemoteRepository) ListBranches(
	_ context.Context, _ entities.Credentials, repo entities.Repository,
) ([]entities.Branch, error) {
	s.BranchRepos = append(s.BranchRepos, repo)
	return s.Branches, s.ListBranchesErr
}

// Factory returns a repositories.RemoteRepositoryFactory that always yields
// this spy, recording the server URLs requested.
func (s *SpyRemoteRepository) Factory() repositories.RemoteRepositoryFactory {
	return func(_ string, _ bool) repositories.RemoteRepository {
		return s
	}
}
