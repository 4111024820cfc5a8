package update

import "fmt"

// Resolution is the outcome of Resolve: either no update or exactly one
// version to offer.
type Resolution struct {
	version   Version
	available bool
}

// NoUpdate is the Resolution returned when nothing newer applies.
var NoUpdate = Resolution{}

// UpdateTo returns a Resolution offering v.
func UpdateTo(v Version) Resolution {
	return Resolution{version: v, available: true}
}

// Available reports whether an update was found.
func (r Resolution) Available() bool {
	return r.available
}

// Version returns the resolved version and whether one exists.
func (r Resolution) Version() (Version, bool) {
	return r.version, r.available
}

// Tag returns the raw tag of the resolved version, or "" for NoUpdate.
func (r Resolution) Tag() string {
	if !r.available {
		return ""
	}
	return r.version.String()
}

// String implements fmt.Stringer.
func (r Resolution) String() string {
	if !r.available {
		return "no update"
	}
	return "update to " + r.version.String()
}

// Resolve decides which version in inv, if any, is the update for current.
// Malformed inventory entries are skipped. A malformed current version is
// returned as an error matching ErrMalformedVersion.
func Resolve(current string, includePreReleases bool, inv Inventory) (Resolution, error) {
	cur, err := ParseVersion(current)
	if err != nil {
		return NoUpdate, fmt.Errorf("current version: %w", err)
	}
	return ResolveVersion(cur, includePreReleases, Partition(inv)), nil
}

// ResolveVersion applies the resolution rules to an already parsed current
// version and partitioned inventory. The first matching rule wins:
//
//  1. pre-releases enabled and a newer beta exists: that beta
//  2. pre-releases enabled and a newer alpha exists: that alpha
//  3. the latest release is newer than current: that release
//  4. current is a pre-release of exactly the latest release's line: that release
//  5. otherwise no update
func ResolveVersion(current Version, includePreReleases bool, b Buckets) Resolution {
	if includePreReleases {
		if beta, ok := newerPreRelease(current, b.Betas, ChannelAlpha); ok {
			return UpdateTo(beta)
		}
		if alpha, ok := newerPreRelease(current, b.Alphas, ChannelBeta); ok {
			return UpdateTo(alpha)
		}
	}

	release, ok := latestOf(b.Releases)
	if newerThan(current, release, ok) {
		return UpdateTo(release)
	}
	if ok && current.IsPreRelease() && Compare(current, release, Equal) {
		return UpdateTo(release)
	}
	return NoUpdate
}

// newerPreRelease returns the latest entry of bucket when it counts as newer
// than current. other is the opposite pre-release channel: a current version
// on that channel with the same triple is never upgraded across channels,
// because alpha and beta numbers are not comparable.
func newerPreRelease(current Version, bucket []Version, other Channel) (Version, bool) {
	latest, ok := latestOf(bucket)
	if !ok {
		return Version{}, false
	}
	if current.Channel == other && Compare(current, latest, Equal) {
		return Version{}, false
	}
	if Compare(current, latest, Newer) {
		return latest, true
	}
	if current.IsPreRelease() &&
		Compare(current, latest, NewerOrEqual) &&
		IsPreReleaseNewer(current, latest) {
		return latest, true
	}
	return Version{}, false
}
