package image

import "fmt"

// Constants describing Docker's default registry conventions.
const (
	// DefaultRegistry is the registry Docker assumes when a reference names none.
	DefaultRegistry = "docker.io"
	// PathSeparator separates registry, namespace and repository segments.
	PathSeparator = "/"
	// TagSeparator separates the repository name from its tag.
	TagSeparator = ":"
	// DockerHubOfficialPrefix is the Docker Hub location of single-segment (official) images.
	DockerHubOfficialPrefix = "https://hub.docker.com/_/"
	// DockerHubRepositoryPrefix is the Docker Hub location of namespaced images.
	DockerHubRepositoryPrefix = "https://hub.docker.com/r/"
	// PlaceholderURI marks an artifact URI that has not been resolved yet.
	PlaceholderURI = "-"
)

// Reference holds the parts of an image reference that classification cares about.
type Reference struct {
	Original   string // The artifact name as found in the model
	Registry   string // Registry host when the first segment looks like one (e.g., quay.io, docker.io)
	Identifier string // Last path segment without tag, used for classification
	Tag        string // Tag of the last segment, empty when absent
	Canonical  string // Fully normalized form (docker.io/library/x:latest), empty if not valid distribution syntax
}

// String returns the identifier qualified by registry and tag where known.
func (r *Reference) String() string {
	s := r.Identifier
	if r.Registry != "" {
		s = fmt.Sprintf("%s/%s", r.Registry, s)
	}
	if r.Tag != "" {
		s = fmt.Sprintf("%s:%s", s, r.Tag)
	}
	return s
}
