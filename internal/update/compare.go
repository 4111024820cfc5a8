package update

// Comparison selects the semantics used by Compare.
type Comparison int

const (
	// Equal holds when both triples are identical.
	Equal Comparison = iota
	// Newer holds when the candidate triple is greater, compared
	// major first, then minor, then patch.
	Newer
	// NewerOrEqual holds when every component of the candidate is greater
	// than or equal to the same component of current. This is a
	// componentwise test, not a lexicographic one: 3.1.0 is not
	// NewerOrEqual to 3.0.5 because its patch is lower. The resolver only
	// uses it as a "not older on any axis" filter before comparing
	// pre-release numbers.
	NewerOrEqual
)

// String returns the comparison name.
func (c Comparison) String() string {
	switch c {
	case Equal:
		return "equal"
	case Newer:
		return "newer"
	case NewerOrEqual:
		return "newer-or-equal"
	default:
		return "unknown"
	}
}

// Compare evaluates candidate against current on the MAJOR.MINOR.PATCH
// triple only. Channel and pre-release number are ignored.
func Compare(current, candidate Version, mode Comparison) bool {
	switch mode {
	case Equal:
		return sameTriple(current, candidate)
	case Newer:
		return compareTriple(current, candidate) < 0
	case NewerOrEqual:
		return candidate.Major >= current.Major &&
			candidate.Minor >= current.Minor &&
			candidate.Patch >= current.Patch
	default:
		return false
	}
}

// CompareTags is Compare over raw tags. An empty candidate means "no
// release exists" and never satisfies any mode. Malformed tags return an
// error matching ErrMalformedVersion.
func CompareTags(current, candidate string, mode Comparison) (bool, error) {
	cur, err := ParseVersion(current)
	if err != nil {
		return false, err
	}
	if candidate == "" {
		return false, nil
	}
	cand, err := ParseVersion(candidate)
	if err != nil {
		return false, err
	}
	return Compare(cur, cand, mode), nil
}

// IsPreReleaseNewer reports whether candidate's pre-release number is
// greater than current's. The triple and channel are not consulted.
// Versions on the release channel carry no number, so the answer is false.
func IsPreReleaseNewer(current, candidate Version) bool {
	if !current.IsPreRelease() || !candidate.IsPreRelease() {
		return false
	}
	return candidate.PreRelease > current.PreRelease
}

// newerThan is Newer with an optional candidate; a missing candidate is never newer.
func newerThan(current, candidate Version, ok bool) bool {
	return ok && Compare(current, candidate, Newer)
}

func sameTriple(a, b Version) bool {
	return a.Major == b.Major && a.Minor == b.Minor && a.Patch == b.Patch
}

// compareTriple returns -1, 0 or 1 as a's triple is lower, equal or higher than b's.
func compareTriple(a, b Version) int {
	if a.Major != b.Major {
		return compareInt(a.Major, b.Major)
	}
	if a.Minor != b.Minor {
		return compareInt(a.Minor, b.Minor)
	}
	return compareInt(a.Patch, b.Patch)
}

func compareInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
