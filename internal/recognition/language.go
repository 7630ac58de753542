package recognition

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// regionAliases maps ISO regions to the suffixes the backend expects.
var regionAliases = map[string]string{
	"GB": "uk",
}

// NormalizeLanguage converts a BCP 47 tag ("en-US", "tr", "pt_BR") into the
// backend's lowercase language code ("en_us", "tr", "pt_br"). The region is
// kept only when the input names one explicitly.
func NormalizeLanguage(tag string) (string, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(tag, "_", "-"))
	if trimmed == "" {
		return "", fmt.Errorf("language: empty tag")
	}
	parsed, err := language.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("language: parse %q: %w", tag, err)
	}
	base, _ := parsed.Base()
	code := strings.ToLower(base.String())
	if region, conf := parsed.Region(); conf == language.Exact {
		suffix, ok := regionAliases[region.String()]
		if !ok {
			suffix = strings.ToLower(region.String())
		}
		code += "_" + suffix
	}
	return code, nil
}
