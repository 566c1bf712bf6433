package utils

import (
	"fmt"
	"net/url"
	"strings"
)

const storagePrefix = "https://storage.googleapis.com/"

// ExtractObjectPath extracts the storage object path from a public storage
// URL, dropping the bucket segment.
func ExtractObjectPath(rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, storagePrefix) {
		return "", fmt.Errorf("invalid URL")
	}

	path := strings.TrimPrefix(rawURL, storagePrefix)
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("invalid URL format")
	}

	objectPath, err := url.PathUnescape(parts[1])
	if err != nil {
		return "", fmt.Errorf("invalid URL encoding: %w", err)
	}
	return objectPath, nil
}
