package provider

import (
	"runtime"
	"strings"
)

// PlatformAsset finds the asset built for goos/goarch by matching common
// naming schemes such as "linux_amd64", "darwin-arm64" or "x86_64-macos".
func (r Release) PlatformAsset(goos, goarch string) (Asset, bool) {
	patterns := buildAssetPatterns(goos, goarch)
	for _, asset := range r.Assets {
		name := strings.ToLower(asset.Name)
		for _, pattern := range patterns {
			if strings.Contains(name, pattern) {
				return asset, true
			}
		}
	}
	return Asset{}, false
}

// CurrentPlatformAsset is PlatformAsset for the running binary's platform.
func (r Release) CurrentPlatformAsset() (Asset, bool) {
	return r.PlatformAsset(runtime.GOOS, runtime.GOARCH)
}

func buildAssetPatterns(goos, goarch string) []string {
	archPatterns := []string{goarch}
	switch goarch {
	case "amd64":
		archPatterns = append(archPatterns, "x86_64", "x64")
	case "arm64":
		archPatterns = append(archPatterns, "aarch64")
	}

	osPatterns := []string{goos}
	switch goos {
	case "darwin":
		osPatterns = append(osPatterns, "macos", "osx")
	case "windows":
		osPatterns = append(osPatterns, "win")
	}

	var patterns []string
	for _, o := range osPatterns {
		for _, a := range archPatterns {
			patterns = append(patterns, o+"_"+a, o+"-"+a, a+"_"+o, a+"-"+o)
		}
	}
	return patterns
}
