//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// PushCall records one Push invocation.
type PushCall struct {
	Path    string
	PushURL string
	Branch  string
}

// RemoteCall records one AddRemote invocation.
type RemoteCall struct {
	Name string
	URL  string
}

// CloneCall records one CloneShallow invocation.
type CloneCall struct {
	RemoteURL string
	Branch    string
	Dir       string
}

// SpyLocalRepository implements repositories.LocalRepository as a
// configurable spy.
type SpyLocalRepository struct {
	// --- IsAvailable ---
	Unavailable bool

	// --- EnsureRepository ---
	EnsureBranch string
	EnsureErr    error
	EnsureCalls  int

	// --- CreateBranch ---
	CreateBranchErr error
	CreatedBranches []string

	// --- CommitAll / Commit ---
	CommitAllMessages []string
	CommitErr         error
	CommitMessages    []string

	// --- Checkout ---
	CheckoutErr error
	Checkouts   []string

	// --- transport tuning ---
	ConfigureTransportCalls int
	ShrinkPackCalls         int

	// --- Push ---
	// PushErrs is consumed one per call; an exhausted queue means success.
	PushErrs  []error
	PushCalls []PushCall

	// --- remotes ---
	AddRemoteErr   error
	AddRemoteCalls []RemoteCall
	RemovedRemotes []string

	// --- Fetch / MergePreferLocal ---
	FetchErr   error
	FetchCalls []RemoteCall
	MergeErr   error
	MergedRefs []string

	// --- CloneShallow ---
	CloneErr   error
	CloneCalls []CloneCall

	// --- identity ---
	Identities []entities.Identity

	// --- RemoveAllTracked / Status ---
	RemoveAllTrackedCalls int
	StatusOutput          string
	StatusErr             error
}

var _ repositories.LocalRepository = (*SpyLocalRepository)(nil)

func (s *SpyLocalRepository) IsAvailable(_ context.Context) bool {
	return !s.Unavailable
}

func (s *SpyLocalRepository) EnsureRepository(
	_ context.Context, _, branch string, _ entities.Identity,
) (string, error) {
	s.EnsureCalls++
	if s.EnsureErr != nil {
		return "", s.EnsureErr
	}
	if s.EnsureBranch != "" {
		return s.EnsureBranch, nil
	}
	return branch, nil
}

func (s *SpyLocalRepository) CreateBranch(_ context.Context, _, name string) (string, error) {
	s.CreatedBranches = append(s.CreatedBranches, name)
	if s.CreateBranchErr != nil {
		return "", s.CreateBranchErr
	}
	return name, nil
}

func (s *SpyLocalRepository) CommitAll(_ context.Context, _, message string) {
	s.CommitAllMessages = append(s.CommitAllMessages, message)
}

func (s *SpyLocalRepository) Checkout(_ context.Context, _, branch string) error {
	s.Checkouts = append(s.Checkouts, branch)
	return s.CheckoutErr
}

func (s *SpyLocalRepository) ConfigureTransport(_ context.Context, _ string) {
	s.ConfigureTransportCalls++
}

func (s *SpyLocalRepository) ShrinkPack(_ context.Context, _ string) {
	s.ShrinkPackCalls++
}

func (s *SpyLocalRepository) Push(_ context.Context, path, pushURL, branch string) error {
	s.PushCalls = append(s.PushCalls, PushCall{Path: path, PushURL: pushURL, Branch: branch})
	if len(s.PushErrs) == 0 {
		return nil
	}
	err := s.PushErrs[0]
	s.PushErrs = s.PushErrs[1:]
	return err
}

func (s *SpyLocalRepository) AddRemote(_ context.Context, _, name, remoteURL string) error {
	s.AddRemoteCalls = append(s.AddRemoteCalls, RemoteCall{Name: name, URL: remoteURL})
	return s.AddRemoteErr
}

func (s *SpyLocalRepository) RemoveRemote(_ context.Context, _, name string) {
	s.RemovedRemotes = append(s.RemovedRemotes, name)
}

func (s *SpyLocalRepository) Fetch(_ context.Context, _, remote, branch string) error {
	s.FetchCalls = append(s.FetchCalls, RemoteCall{Name: remote, URL: branch})
	return s.FetchErr
}

func (s *SpyLocalRepository) MergePreferLocal(_ context.Context, _, ref string) error {
	s.MergedRefs = append(s.MergedRefs, ref)
	return s.MergeErr
}

func (s *SpyLocalRepository) CloneShallow(_ context.Context, remoteURL, branch, dir string) error {
	s.CloneCalls = append(s.CloneCalls, CloneCall{RemoteURL: remoteURL, Branch: branch, Dir: dir})
	return s.CloneErr
}

func (s *SpyLocalRepository) SetLocalIdentity(_ context.Context, _ string, identity entities.Identity) {
	s.Identities = append(s.Identities, identity)
}

func (s *SpyLocalRepository) RemoveAllTracked(_ context.Context, _ string) {
	s.RemoveAllTrackedCalls++
}

func (s *SpyLocalRepository) Status(_ context.Context, _ string) (string, error) {
	return s.StatusOutput, s.StatusErr
}

func (s *SpyLocalRepository) Commit(_ context.Context, _, message string) error {
	s.CommitMessages = append(s.CommitMessages, message)
	return s.CommitErr
}
