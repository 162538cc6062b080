// Package agent classifies requesters as automated or human from the
// User-Agent header. Automated visitors skip room admission so crawlers do
// not consume capacity slots.
package agent

import "strings"

var botMarkers = []string{
	"bot",
	"crawler",
	"spider",
	"slurp",
	"curl",
	"wget",
	"python-requests",
	"go-http-client",
	"headlesschrome",
	"facebookexternalhit",
	"whatsapp",
	"telegrambot",
	"discordbot",
	"embedly",
	"preview",
}

// IsAutomated reports whether the user agent looks like a crawler or
// scripted client. An empty user agent is treated as automated.
func IsAutomated(userAgent string) bool {
	if userAgent == "" {
		return true
	}
	ua := strings.ToLower(userAgent)
	for _, marker := range botMarkers {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	return false
}
