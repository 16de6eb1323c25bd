package image

import (
	"fmt"
	"net/url"
	"strings"

	log "github.com/lucas-albers-lz4/imgtype/pkg/log"
)

// invalidURIChars are characters that may not appear unescaped anywhere in a URI.
const invalidURIChars = " \t\r\n\"<>\\^`{|}"

// NeedsFileURI reports whether an artifact's current URI should be (re)derived:
// it is empty or still holds PlaceholderURI.
func NeedsFileURI(current string) bool {
	return current == "" || current == PlaceholderURI
}

// DeriveFileURI computes the source location of an image following Docker's
// default-registry convention:
//
//   - single segment (official image): https://hub.docker.com/_/<name>
//   - first segment "docker.io": https://hub.docker.com/r/<rest>
//   - first segment containing '.' or ':' (a registry host): the reference itself
//   - anything else: https://hub.docker.com/r/<name>
//
// The tag (text after the last ':') is dropped for Docker Hub locations.
// A result that is not a valid URI fails with ErrInvalidImageURI.
func DeriveFileURI(name string) (string, error) {
	segments := splitSegments(name)
	if len(segments) == 0 {
		return "", ErrMissingImageReference
	}

	withoutTag := name
	if i := strings.LastIndex(name, TagSeparator); i >= 0 {
		withoutTag = name[:i]
	}

	var raw string
	switch {
	case len(segments) == 1:
		raw = DockerHubOfficialPrefix + withoutTag
	case segments[0] == DefaultRegistry:
		raw = DockerHubRepositoryPrefix + strings.TrimPrefix(withoutTag, DefaultRegistry+PathSeparator)
	case looksLikeHost(segments[0]):
		raw = name
	default:
		raw = DockerHubRepositoryPrefix + withoutTag
	}

	if err := validateURI(raw); err != nil {
		log.Debug("Derived file URI is invalid", "reference", name, "uri", raw, "error", err)
		return "", err
	}
	log.Debug("Derived file URI", "reference", name, "uri", raw)
	return raw, nil
}

func validateURI(raw string) error {
	if i := strings.IndexAny(raw, invalidURIChars); i >= 0 {
		return fmt.Errorf("%w: illegal character %q at index %d in %q", ErrInvalidImageURI, raw[i], i, raw)
	}
	if _, err := url.Parse(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImageURI, err)
	}
	return nil
}
