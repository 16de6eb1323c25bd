package image

import (
	"strings"

	"github.com/distribution/reference"

	log "github.com/lucas-albers-lz4/imgtype/pkg/log"
)

// ParseReference extracts the classification identifier from an image reference
// of the form [registry/]repository/identifier[:tag].
//
// The identifier is the last non-empty path segment with everything from its first
// ':' removed, so "registry/postgres:6.7.8-bla" and "///mysql" yield "postgres" and
// "mysql". Registry and Tag are filled in when present. Canonical is computed with
// the distribution/reference library and left empty when the library rejects the
// reference; it is informational only and never drives classification.
//
// An empty name, or one that yields an empty identifier, fails with
// ErrMissingImageReference.
func ParseReference(name string) (*Reference, error) {
	log.Debug("Parsing image reference", "reference", name)

	segments := splitSegments(name)
	if len(segments) == 0 {
		return nil, ErrMissingImageReference
	}

	last := segments[len(segments)-1]
	identifier, tag, _ := strings.Cut(last, TagSeparator)
	if identifier == "" {
		log.Debug("Image reference has no identifier", "reference", name)
		return nil, ErrMissingImageReference
	}

	ref := &Reference{
		Original:   name,
		Identifier: identifier,
		Tag:        tag,
		Canonical:  canonicalize(name),
	}
	if len(segments) > 1 && (segments[0] == DefaultRegistry || looksLikeHost(segments[0])) {
		ref.Registry = segments[0]
	}

	log.Debug("Parsed image reference", "identifier", ref.Identifier, "registry", ref.Registry, "tag", ref.Tag)
	return ref, nil
}

// canonicalize returns the fully qualified, tagged form of name or "" if it is not
// a valid distribution reference.
func canonicalize(name string) string {
	named, err := reference.ParseNormalizedNamed(name)
	if err != nil {
		log.Debug("Reference is not in distribution syntax", "reference", name, "error", err)
		return ""
	}
	return reference.TagNameOnly(named).String()
}

// splitSegments splits name on '/' and drops trailing empty segments.
// Leading and inner empty segments are kept, so "///mysql" has four segments.
func splitSegments(name string) []string {
	segments := strings.Split(name, PathSeparator)
	for len(segments) > 0 && segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}
	return segments
}

// looksLikeHost reports whether a path segment resembles host[:port].
// Any '.' or ':' counts, so some valid repository names are taken for hosts.
func looksLikeHost(segment string) bool {
	return strings.ContainsAny(segment, ".:")
}
