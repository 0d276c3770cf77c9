package gitea

// RepositoriesFromSlugs exports repositoriesFromSlugs for testing.
var RepositoriesFromSlugs = repositoriesFromSlugs //nolint:gochecknoglobals // test export
