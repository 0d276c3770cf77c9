package git

// RedactArgs exports redactArgs for testing.
var RedactArgs = redactArgs //nolint:gochecknoglobals // test export
