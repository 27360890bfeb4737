package model

import "testing"

// TestRedirectTargets tests the target helper methods.
func TestRedirectTargets(t *testing.T) {
	t.Parallel()

	t.Run("empty targets have no link targets", func(t *testing.T) {
		t.Parallel()

		var targets RedirectTargets
		if targets.HasLinkTargets() {
			t.Error("expected HasLinkTargets to be false")
		}
		if len(targets.LinkTargets()) != 0 {
			t.Errorf("expected no link targets, got %v", targets.LinkTargets())
		}
	})

	t.Run("opens target alone is not a link target", func(t *testing.T) {
		t.Parallel()

		targets := RedirectTargets{Opens: "https://safe.example/o"}
		if targets.HasLinkTargets() {
			t.Error("expected HasLinkTargets to be false")
		}
	})

	t.Run("link targets keep click, opt-out, unsubscribe order", func(t *testing.T) {
		t.Parallel()

		targets := RedirectTargets{
			Unsubscribe: "u",
			Click:       "c",
		}
		got := targets.LinkTargets()
		if len(got) != 2 || got[0] != "c" || got[1] != "u" {
			t.Errorf("unexpected link targets: %v", got)
		}
	})

	t.Run("ForLink maps categories to targets", func(t *testing.T) {
		t.Parallel()

		targets := RedirectTargets{Click: "c", OptOut: "o", Unsubscribe: "u", Opens: "p"}
		cases := map[LinkCategory]string{
			LinkClick:        "c",
			LinkOptOut:       "o",
			LinkUnsubscribe:  "u",
			LinkUnclassified: "",
		}
		for category, want := range cases {
			if got := targets.ForLink(category); got != want {
				t.Errorf("ForLink(%v) = %q, want %q", category, got, want)
			}
		}
	})

	t.Run("Merge fills only empty fields", func(t *testing.T) {
		t.Parallel()

		got := RedirectTargets{Click: "flag"}.Merge(RedirectTargets{Click: "file", Opens: "file-opens"})
		if got.Click != "flag" {
			t.Errorf("expected explicit click to win, got %q", got.Click)
		}
		if got.Opens != "file-opens" {
			t.Errorf("expected opens from fallback, got %q", got.Opens)
		}
	})
}

// TestCleanupFlags tests flag helpers.
func TestCleanupFlags(t *testing.T) {
	t.Parallel()

	t.Run("zero flags enable nothing", func(t *testing.T) {
		t.Parallel()
		if n := len(CleanupFlags{}.Enabled()); n != 0 {
			t.Errorf("expected no enabled flags, got %d", n)
		}
	})

	t.Run("Merge is a logical OR", func(t *testing.T) {
		t.Parallel()

		got := CleanupFlags{HideImages: true}.Merge(CleanupFlags{ScrubComments: true})
		if !got.HideImages || !got.ScrubComments {
			t.Errorf("expected both flags set, got %+v", got)
		}
		if got.StripAttributes || got.StripVisibleText || got.StripInlineStyles {
			t.Errorf("unexpected flags set: %+v", got)
		}
	})
}

// TestAnalysisCounts tests the counter helpers.
func TestAnalysisCounts(t *testing.T) {
	t.Parallel()

	var c AnalysisCounts
	if !c.IsZero() {
		t.Error("expected zero counts")
	}

	c.AddLink(LinkClick)
	c.AddLink(LinkOptOut)
	c.AddLink(LinkUnsubscribe)
	c.AddLink(LinkUnclassified)
	c.AddImage(ImageContent)
	c.AddImage(ImageTrackingPixel)

	want := AnalysisCounts{ClickLinks: 1, OptOutLinks: 1, UnsubLinks: 1, ContentImages: 1, TrackingPixels: 1}
	if c != want {
		t.Errorf("got %+v, want %+v", c, want)
	}
	if c.Total() != 5 {
		t.Errorf("expected total 5, got %d", c.Total())
	}
}
