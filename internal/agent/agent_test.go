package agent

import "testing"

func TestIsAutomated(t *testing.T) {
	cases := []struct {
		ua   string
		want bool
	}{
		{"", true},
		{"Googlebot/2.1 (+http://www.google.com/bot.html)", true},
		{"curl/8.4.0", true},
		{"python-requests/2.31", true},
		{"Mozilla/5.0 (compatible; bingbot/2.0)", true},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36", false},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", false},
	}

	for _, tc := range cases {
		if got := IsAutomated(tc.ua); got != tc.want {
			t.Errorf("IsAutomated(%q) = %v, want %v", tc.ua, got, tc.want)
		}
	}
}
