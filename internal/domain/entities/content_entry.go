package entities

// ContentEntry is a file or directory entry returned by the contents API.
// SHA is the opaque revision token of the stored content: it must accompany
// every update or delete, and must be absent when creating a new file. It is
// only valid until the next successful write to the same path.
type ContentEntry struct {
	Path  string
	SHA   string
	IsDir bool
}
