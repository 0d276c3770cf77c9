package entities

// Repository identifies a repository on the Gitea server.
type Repository struct {
	Owner string
	Name  string
}

// Slug returns the stable "owner/name" identifier used by the API.
func (r Repository) Slug() string {
	return r.Owner + "/" + r.Name
}

// Branch is a named mutable pointer into a repository's history.
type Branch struct {
	Name string
}
