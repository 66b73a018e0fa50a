package composer

import "strings"

// Provider identifies the host email product whose compose UI is being
// probed.
type Provider string

const (
	ProviderGmail   Provider = "gmail"
	ProviderOutlook Provider = "outlook"
	ProviderUnknown Provider = ""
)

// DetectProvider maps a page hostname to a supported provider. Unknown
// hosts yield ProviderUnknown, which callers treat as "stay inert".
func DetectProvider(hostname string) Provider {
	switch {
	case strings.Contains(hostname, "mail.google.com"):
		return ProviderGmail
	case strings.Contains(hostname, "outlook"):
		return ProviderOutlook
	default:
		return ProviderUnknown
	}
}
