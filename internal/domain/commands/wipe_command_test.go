//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/test/domain/entitybuilders"
	"github.com/rios0rios0/giteasync/test/infrastructure/repositorydoubles"
)

func wipeOptions() commands.WipeOptions {
	return commands.WipeOptions{
		ServerURL:   "https://git.example.com",
		Credentials: entitybuilders.NewCredentialsBuilder().BuildCredentials(),
		Repo:        entitybuilders.NewRepositoryBuilder().BuildRepository(),
		Branch:      "main",
	}
}

func TestWipeCommandStart(t *testing.T) {
	t.Parallel()

	t.Run("should commit the deletions and push them back", func(t *testing.T) {
		t.Parallel()

		// given
		local := &repositorydoubles.SpyLocalRepository{StatusOutput: " D a.txt\n D b.txt\n"}
		command := commands.NewWipeCommand(local)

		// when
		err := waitQuietly(command.Start(context.Background(), wipeOptions()))

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, local.RemoveAllTrackedCalls)
		assert.Equal(t, []string{"chore: empty branch main"}, local.CommitMessages)
		require.Len(t, local.PushCalls, 1)
		assert.Equal(t, "main", local.PushCalls[0].Branch)
		assert.Contains(t, local.PushCalls[0].PushURL, "tester:s3cret@")
	})

	t.Run("should clone without credentials embedded in the URL", func(t *testing.T) {
		t.Parallel()

		// given
		local := &repositorydoubles.SpyLocalRepository{StatusOutput: " D a.txt\n"}
		command := commands.NewWipeCommand(local)

		// when
		err := waitQuietly(command.Start(context.Background(), wipeOptions()))

		// then
		require.NoError(t, err)
		require.Len(t, local.CloneCalls, 1)
		assert.Equal(t, "https://git.example.com/tester/sandbox.git", local.CloneCalls[0].RemoteURL)
		assert.Equal(t, "main", local.CloneCalls[0].Branch)
	})

	t.Run("should configure a local identity before committing", func(t *testing.T) {
		t.Parallel()

		// given
		local := &repositorydoubles.SpyLocalRepository{StatusOutput: " D a.txt\n"}
		command := commands.NewWipeCommand(local)

		// when
		err := waitQuietly(command.Start(context.Background(), wipeOptions()))

		// then
		require.NoError(t, err)
		require.Len(t, local.Identities, 1)
		assert.Equal(t, "tester", local.Identities[0].Name)
	})

	t.Run("should do nothing when the branch is already empty", func(t *testing.T) {
		t.Parallel()

		// given
		local := &repositorydoubles.SpyLocalRepository{StatusOutput: "  \n"}
		command := commands.NewWipeCommand(local)

		// when
		err := waitQuietly(command.Start(context.Background(), wipeOptions()))

		// then
		require.NoError(t, err)
		assert.Empty(t, local.CommitMessages)
		assert.Empty(t, local.PushCalls)
	})

	t.Run("should surface a clone failure", func(t *testing.T) {
		t.Parallel()

		// given
		local := &repositorydoubles.SpyLocalRepository{
			CloneErr: gitFailure("fatal: Remote branch main not found"),
		}
		command := commands.NewWipeCommand(local)

		// when
		err := waitQuietly(command.Start(context.Background(), wipeOptions()))

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to clone repository")
	})
}
