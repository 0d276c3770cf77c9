package commands

// IsFallbackEligible exports isFallbackEligible for testing.
var IsFallbackEligible = isFallbackEligible //nolint:gochecknoglobals // test export

// IsStaleTokenError exports isStaleTokenError for testing.
var IsStaleTokenError = isStaleTokenError //nolint:gochecknoglobals // test export

// CollectWorkingTreeFiles exports collectWorkingTreeFiles for testing.
var CollectWorkingTreeFiles = collectWorkingTreeFiles //nolint:gochecknoglobals // test export

// TempRemoteName exports tempRemoteName for testing.
const TempRemoteName = tempRemoteName
