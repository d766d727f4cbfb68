package upload

import "strings"

// PublicURL turns a stored image path into something a client can load.
// Server-relative upload paths are prefixed with origin, anything else is used as-is,
// and an empty path yields placeholder.
func PublicURL(origin, path, placeholder string) string {
	if path == "" {
		return placeholder
	}
	if strings.HasPrefix(path, PathPrefix) {
		return strings.TrimRight(origin, "/") + path
	}
	return path
}

// FirstImageURL resolves the first image of a listing.
func FirstImageURL(origin string, images []string, placeholder string) string {
	if len(images) == 0 {
		return placeholder
	}
	return PublicURL(origin, images[0], placeholder)
}
