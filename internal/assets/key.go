package assets

import (
	"net/url"
	"strings"

	"captioner/internal/services"
)

// VideoKey extracts the stable identifier of a video locator: the value of its
// "v" query parameter. It is pure and deterministic.
func VideoKey(locator string) (string, error) {
	trimmed := strings.TrimSpace(locator)
	if trimmed == "" {
		return "", services.Wrap(services.ErrInvalidLocator, services.StageFetch, "video key", "empty locator", nil)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", services.Wrap(services.ErrInvalidLocator, services.StageFetch, "video key", "parse locator", err)
	}
	if scheme := strings.ToLower(parsed.Scheme); (scheme != "http" && scheme != "https") || parsed.Host == "" {
		return "", services.Wrap(services.ErrInvalidLocator, services.StageFetch, "video key", "locator must be an http(s) URL: "+trimmed, nil)
	}
	key := strings.TrimSpace(parsed.Query().Get("v"))
	if key == "" {
		return "", services.Wrap(services.ErrInvalidLocator, services.StageFetch, "video key", "locator has no v parameter: "+trimmed, nil)
	}
	// The key names a directory under the cache root.
	if key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return "", services.Wrap(services.ErrInvalidLocator, services.StageFetch, "video key", "unsafe video key "+key, nil)
	}
	return key, nil
}
