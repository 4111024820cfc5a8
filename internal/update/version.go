package update

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	appErrors "vercheck/internal/errors"
)

// ErrMalformedVersion is matched by every parse failure.
var ErrMalformedVersion = errors.New("malformed version")

// Channel identifies the release track a version belongs to.
type Channel int

const (
	// ChannelRelease is a regular release with no suffix.
	ChannelRelease Channel = iota
	// ChannelAlpha is an "-alpha.N" pre-release.
	ChannelAlpha
	// ChannelBeta is a "-beta.N" pre-release.
	ChannelBeta
)

// String returns the suffix token for pre-release channels and "release" otherwise.
func (c Channel) String() string {
	switch c {
	case ChannelAlpha:
		return "alpha"
	case ChannelBeta:
		return "beta"
	default:
		return "release"
	}
}

// Version represents a parsed version of the form MAJOR.MINOR.PATCH[-(alpha|beta).N].
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Channel    Channel
	PreRelease int // only meaningful when Channel is not ChannelRelease
	Raw        string
}

// IsPreRelease reports whether v belongs to the alpha or beta channel.
func (v Version) IsPreRelease() bool {
	return v.Channel != ChannelRelease
}

// String returns the raw tag when present, otherwise the canonical form.
func (v Version) String() string {
	if v.Raw != "" {
		return v.Raw
	}
	base := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.IsPreRelease() {
		return fmt.Sprintf("%s-%s.%d", base, v.Channel, v.PreRelease)
	}
	return base
}

// ParseVersion parses a version string.
// The input is taken verbatim: no whitespace trimming and no "v" prefix.
// Any string outside the grammar yields an error matching ErrMalformedVersion.
func ParseVersion(s string) (Version, error) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return Version{}, malformed(s, "expected MAJOR.MINOR.PATCH")
	}

	patchPart, suffix, hasSuffix := strings.Cut(parts[2], "-")

	major, err := parseComponent(parts[0])
	if err != nil {
		return Version{}, malformed(s, "major: "+err.Error())
	}
	minor, err := parseComponent(parts[1])
	if err != nil {
		return Version{}, malformed(s, "minor: "+err.Error())
	}
	patch, err := parseComponent(patchPart)
	if err != nil {
		return Version{}, malformed(s, "patch: "+err.Error())
	}

	v := Version{Major: major, Minor: minor, Patch: patch, Raw: s}
	if !hasSuffix {
		return v, nil
	}

	token, number, ok := strings.Cut(suffix, ".")
	if !ok {
		return Version{}, malformed(s, "pre-release suffix needs a number")
	}
	switch token {
	case "alpha":
		v.Channel = ChannelAlpha
	case "beta":
		v.Channel = ChannelBeta
	default:
		return Version{}, malformed(s, fmt.Sprintf("unknown channel %q", token))
	}
	if v.PreRelease, err = parseComponent(number); err != nil {
		return Version{}, malformed(s, "pre-release number: "+err.Error())
	}
	return v, nil
}

// MustParseVersion is like ParseVersion but panics on malformed input.
// Intended for constants and tests.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func parseComponent(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty component")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("non-digit in %q", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q out of range", s)
	}
	return n, nil
}

func malformed(raw, reason string) error {
	return appErrors.New(appErrors.CodeMalformedVersion,
		fmt.Sprintf("invalid version format %q (%s)", raw, reason), ErrMalformedVersion)
}
