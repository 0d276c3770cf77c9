package gitea

import "strings"

const upperhex = "0123456789ABCDEF"

// NormalizeAPIPath normalizes a repository file path for contents-API usage:
// backslashes become forward slashes, "." segments and empty segments (so
// leading "./", "/", and doubled slashes) are collapsed, and each remaining
// segment is percent-encoded with slashes preserved. The function is
// idempotent: existing %XX escapes are kept intact, so normalizing an
// already-normalized path is a no-op.
func NormalizeAPIPath(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")

	segments := make([]string, 0, strings.Count(p, "/")+1)
	for _, segment := range strings.Split(p, "/") {
		if segment == "" || segment == "." {
			continue
		}
		segments = append(segments, escapeSegment(segment))
	}
	return strings.Join(segments, "/")
}

// escapeSegment percent-encodes one path segment, leaving unreserved
// characters and well-formed %XX escapes untouched.
func escapeSegment(segment string) string {
	var b strings.Builder

	for i := 0; i < len(segment); i++ {
		c := segment[i]

		if c == '%' && i+2 < len(segment) && isHex(segment[i+1]) && isHex(segment[i+2]) {
			b.WriteString(segment[i : i+3])
			i += 2
			continue
		}

		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}

		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xf])
	}

	return b.String()
}

func isUnreserved(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'f') ||
		(c >= 'A' && c <= 'F')
}
