package classify

import (
	"strings"

	"github.com/nao1215/mailscrub/internal/model"
)

// linkRule pairs a predicate with the category it assigns.
type linkRule struct {
	category model.LinkCategory
	match    func(href, text string) bool
}

// linkRules is evaluated in order; the first matching rule wins.
var linkRules = []linkRule{
	{category: model.LinkClick, match: isClickLink},
	{category: model.LinkOptOut, match: isOptOutLink},
	{category: model.LinkUnsubscribe, match: isUnsubscribeLink},
}

// clickTextSignals are visible-text phrases that mark a call to action.
var clickTextSignals = []string{"click", "buy", "shop", "learn more"}

// Link classifies an anchor from its href and visible text.
// An empty href is treated as absent and is always Unclassified.
// The href is matched as written; the text is matched in lower case.
func Link(href, visibleText string) model.LinkCategory {
	if href == "" {
		return model.LinkUnclassified
	}

	text := strings.ToLower(visibleText)
	for _, rule := range linkRules {
		if rule.match(href, text) {
			return rule.category
		}
	}
	return model.LinkUnclassified
}

// isClickLink reports a click-tracking link. Text mentioning unsubscribe or
// opt vetoes the click signals so footer links fall through to later rules.
func isClickLink(href, text string) bool {
	if strings.Contains(text, "unsubscribe") || strings.Contains(text, "opt") {
		return false
	}
	if strings.Contains(href, "/click") || strings.Contains(href, "track") {
		return true
	}
	return containsAny(text, clickTextSignals)
}

func isOptOutLink(href, text string) bool {
	return strings.Contains(href, "opt") ||
		strings.Contains(text, "opt out") ||
		strings.Contains(text, "opt-out")
}

func isUnsubscribeLink(href, text string) bool {
	return strings.Contains(href, "unsub") ||
		strings.Contains(text, "unsub") ||
		strings.Contains(text, "remove me")
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
