package httpjpg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBotName(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"", "Empty User-Agent"},
		{"   ", "Empty User-Agent"},
		{"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "Googlebot"},
		{"Mozilla/5.0 (compatible; bingbot/2.0)", "Bingbot"},
		{"curl/8.4.0", "curl"},
		{"python-requests/2.31", "python-requests"},
		{"Go-http-client/1.1", "Go HTTP client"},
		{"Mozilla/5.0 HeadlessChrome/120.0", "Headless Chrome"},
		{"SomeSpider/1.0", "Generic Spider"},
		{"acme-bot", "Other Bot"},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 Safari/605.1.15", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BotName(tt.ua), tt.ua)
		assert.Equal(t, tt.want != "", IsBot(tt.ua), tt.ua)
	}
}
