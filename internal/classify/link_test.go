package classify

import (
	"testing"

	"github.com/nao1215/mailscrub/internal/model"
)

// TestLink tests link classification rules and their precedence.
func TestLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		href string
		text string
		want model.LinkCategory
	}{
		{name: "empty href is unclassified", href: "", text: "Buy now", want: model.LinkUnclassified},
		{name: "click path in href", href: "https://x.com/click/1", text: "latest product", want: model.LinkClick},
		{name: "track in href", href: "https://x.com/track/offer", text: "special offers", want: model.LinkClick},
		{name: "buy in text", href: "https://x.com/p", text: "Buy now", want: model.LinkClick},
		{name: "shop in text", href: "https://x.com/p", text: "SHOP the sale", want: model.LinkClick},
		{name: "learn more in text", href: "https://x.com/p", text: "Learn More", want: model.LinkClick},
		{name: "click text vetoed by unsubscribe", href: "https://x.com/click/9", text: "Click to unsubscribe", want: model.LinkUnsubscribe},
		{name: "click href vetoed by opt text", href: "https://x.com/click/opt", text: "Opt out", want: model.LinkOptOut},
		{name: "opt in href", href: "https://x.com/optout", text: "Manage preferences", want: model.LinkOptOut},
		{name: "opt-out text", href: "https://x.com/prefs", text: "Opt-out from marketing", want: model.LinkOptOut},
		{name: "unsub in href", href: "https://x.com/unsubscribe", text: "Unsubscribe", want: model.LinkUnsubscribe},
		{name: "remove me text", href: "https://x.com/r", text: "Remove me from this list", want: model.LinkUnsubscribe},
		{name: "ordinary link", href: "https://x.com/about", text: "About us", want: model.LinkUnclassified},
		{name: "href matched case-sensitively", href: "https://x.com/CLICK", text: "Home", want: model.LinkUnclassified},
		{name: "opt substring in text vetoes click", href: "https://x.com/p", text: "buy optimal gear", want: model.LinkUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Link(tt.href, tt.text); got != tt.want {
				t.Errorf("Link(%q, %q) = %v, want %v", tt.href, tt.text, got, tt.want)
			}
		})
	}
}

// TestLinkPrecedence verifies that at most one category fires and that the
// first matching rule decides, for every combination of signals.
func TestLinkPrecedence(t *testing.T) {
	t.Parallel()

	hrefs := []string{"https://x.com/a", "https://x.com/click", "https://x.com/opt", "https://x.com/unsub", "https://x.com/click/opt/unsub"}
	texts := []string{"", "buy", "opt out", "unsub", "remove me", "buy unsubscribe", "click opt-out remove me"}

	for _, href := range hrefs {
		for _, text := range texts {
			got := Link(href, text)

			var want model.LinkCategory
			switch {
			case isClickLink(href, text):
				want = model.LinkClick
			case isOptOutLink(href, text):
				want = model.LinkOptOut
			case isUnsubscribeLink(href, text):
				want = model.LinkUnsubscribe
			default:
				want = model.LinkUnclassified
			}

			if got != want {
				t.Errorf("Link(%q, %q) = %v, want %v", href, text, got, want)
			}
		}
	}
}
