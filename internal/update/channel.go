package update

// Inventory is an immutable, deduplicated set of raw version tags as
// published by a provider. First-seen order is kept so diagnostics are stable;
// no operation depends on it.
type Inventory struct {
	tags []string
}

// NewInventory builds an inventory from raw tags, dropping duplicates.
func NewInventory(tags ...string) Inventory {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return Inventory{tags: out}
}

// Tags returns a copy of the raw tags.
func (inv Inventory) Tags() []string {
	return append([]string(nil), inv.tags...)
}

// Len returns the number of distinct tags.
func (inv Inventory) Len() int {
	return len(inv.tags)
}

// Empty reports whether the inventory has no tags, which is how a
// repository without releases is represented.
func (inv Inventory) Empty() bool {
	return len(inv.tags) == 0
}

// Buckets holds an inventory split by channel.
type Buckets struct {
	Releases  []Version
	Alphas    []Version
	Betas     []Version
	Malformed []string
}

// In returns the bucket for ch.
func (b Buckets) In(ch Channel) []Version {
	switch ch {
	case ChannelAlpha:
		return b.Alphas
	case ChannelBeta:
		return b.Betas
	default:
		return b.Releases
	}
}

// Partition parses every tag and sorts it into its channel bucket.
// Tags that fail to parse are collected in Malformed and otherwise ignored.
func Partition(inv Inventory) Buckets {
	var b Buckets
	for _, tag := range inv.tags {
		v, err := ParseVersion(tag)
		if err != nil {
			b.Malformed = append(b.Malformed, tag)
			continue
		}
		switch v.Channel {
		case ChannelAlpha:
			b.Alphas = append(b.Alphas, v)
		case ChannelBeta:
			b.Betas = append(b.Betas, v)
		default:
			b.Releases = append(b.Releases, v)
		}
	}
	return b
}

// LatestInChannel returns the highest version of channel ch in inv.
// The boolean is false when the channel has no well-formed entries.
//
// Versions are ordered by triple first; among equal triples the higher
// pre-release number wins. The result does not depend on inventory order.
func LatestInChannel(inv Inventory, ch Channel) (Version, bool) {
	return latestOf(Partition(inv).In(ch))
}

// Latest returns the newest version in inv. Without pre-releases this is
// the latest regular release. With pre-releases a beta or alpha replaces it
// only when its triple is strictly newer, so a release wins over
// pre-releases of the same line.
func Latest(inv Inventory, includePreReleases bool) (Version, bool) {
	b := Partition(inv)
	best, ok := latestOf(b.Releases)
	if !includePreReleases {
		return best, ok
	}
	for _, ch := range []Channel{ChannelBeta, ChannelAlpha} {
		cand, found := latestOf(b.In(ch))
		if !found {
			continue
		}
		if !ok || Compare(best, cand, Newer) {
			best, ok = cand, true
		}
	}
	return best, ok
}

func latestOf(vs []Version) (Version, bool) {
	if len(vs) == 0 {
		return Version{}, false
	}
	best := vs[0]
	for _, v := range vs[1:] {
		if laterInChannel(best, v) {
			best = v
		}
	}
	return best, true
}

// laterInChannel reports whether cand sorts after cur within one channel.
func laterInChannel(cur, cand Version) bool {
	switch compareTriple(cur, cand) {
	case -1:
		return true
	case 0:
		return cand.PreRelease > cur.PreRelease
	default:
		return false
	}
}
