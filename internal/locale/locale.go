package locale

import (
	"os"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// FallbackCurrency is used when no currency can be derived from the
// environment.
const FallbackCurrency = "USD"

// Currency resolves the device locale to an ISO 4217 currency code. It
// consults LC_MONETARY, LC_ALL and LANG in that order and falls back to
// FallbackCurrency when none of them yields a usable region.
func Currency() string {
	for _, key := range []string{"LC_MONETARY", "LC_ALL", "LANG"} {
		if v := os.Getenv(key); v != "" {
			if code, ok := FromLocale(v); ok {
				return code
			}
		}
	}
	return FallbackCurrency
}

// FromLocale derives a currency code from a POSIX or BCP 47 locale string
// such as "en_US.UTF-8" or "de-DE".
func FromLocale(loc string) (string, bool) {
	// Strip POSIX codeset and modifier suffixes ("en_US.UTF-8@euro").
	loc = strings.SplitN(loc, ".", 2)[0]
	loc = strings.SplitN(loc, "@", 2)[0]
	loc = strings.TrimSpace(loc)
	if loc == "" || strings.EqualFold(loc, "C") || strings.EqualFold(loc, "POSIX") {
		return "", false
	}

	tag, err := language.Parse(strings.ReplaceAll(loc, "_", "-"))
	if err != nil {
		return "", false
	}

	region, conf := tag.Region()
	if conf == language.No || !region.IsCountry() {
		return "", false
	}

	unit, ok := currency.FromRegion(region)
	if !ok {
		return "", false
	}
	return unit.String(), true
}
