// Package update implements version comparison and update resolution.
//
// This package handles:
//   - Parsing MAJOR.MINOR.PATCH versions with optional alpha/beta channels
//   - Comparing versions under Equal, Newer and NewerOrEqual semantics
//   - Partitioning a tag inventory into release, alpha and beta channels
//   - Deciding which single version, if any, is the available update
//
// The package performs no I/O and knows nothing about where tags come
// from. Providers hand it an Inventory; callers get a Resolution back.
//
// Example usage:
//
//	inv := update.NewInventory(tags...)
//	res, err := update.Resolve(currentVersion, includePreReleases, inv)
//	if err != nil {
//	    // current version is malformed
//	}
//	if res.Available() {
//	    fmt.Println("update:", res.Tag())
//	}
package update
