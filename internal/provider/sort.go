package provider

import (
	"fmt"
	"sort"

	semver "github.com/Masterminds/semver/v3"
)

// SortTags returns tags ordered newest first by semantic-version precedence.
// Tags that are not valid semantic versions are appended in their original order.
func SortTags(tags []string) []string {
	type parsed struct {
		raw string
		v   *semver.Version
	}

	valid := make([]parsed, 0, len(tags))
	var invalid []string
	for _, tag := range tags {
		v, err := semver.StrictNewVersion(tag)
		if err != nil {
			invalid = append(invalid, tag)
			continue
		}
		valid = append(valid, parsed{raw: tag, v: v})
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].v.GreaterThan(valid[j].v)
	})

	out := make([]string, 0, len(tags))
	for _, p := range valid {
		out = append(out, p.raw)
	}
	return append(out, invalid...)
}

// FilterTags keeps the tags satisfying constraint, e.g. ">= 2.0.0, < 3.0.0".
// Pre-release tags only match constraints that mention a pre-release.
// Tags that are not valid semantic versions never match.
func FilterTags(tags []string, constraint string) ([]string, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("parse constraint %q: %w", constraint, err)
	}

	var out []string
	for _, tag := range tags {
		v, err := semver.StrictNewVersion(tag)
		if err != nil {
			continue
		}
		if c.Check(v) {
			out = append(out, tag)
		}
	}
	return out, nil
}
