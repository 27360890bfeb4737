package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/mailscrub/internal/config"
	"github.com/nao1215/mailscrub/internal/model"
	"github.com/nao1215/mailscrub/internal/pipeline"
	"github.com/nao1215/mailscrub/internal/sample"
	"github.com/nao1215/mailscrub/internal/session"
)

const (
	clickTarget = "https://safe.example/c"
	opensTarget = "https://safe.example/p.gif"
)

// expectedApply is what the pipeline produces for the sample newsletter.
func expectedApply(t *testing.T, targets model.RedirectTargets, flags model.CleanupFlags) string {
	t.Helper()

	out, err := pipeline.Apply(sample.Newsletter, targets, flags)
	if err != nil {
		t.Fatalf("pipeline.Apply failed: %v", err)
	}
	return out
}

// TestNewApplyCmd tests the apply command creation.
func TestNewApplyCmd(t *testing.T) {
	t.Parallel()

	cmd := NewApplyCmd()

	for _, name := range []string{
		"click", "opt-out", "unsubscribe", "opens",
		"strip-attributes", "hide-images", "strip-text", "scrub-comments", "strip-styles",
		"config", "profile", "output", "output-dir", "batch",
		"session", "no-session", "db-dir",
	} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %s flag", name)
		}
	}

	batch := cmd.Flags().Lookup("batch")
	if batch != nil && batch.DefValue != "4" {
		t.Errorf("expected batch default 4, got %s", batch.DefValue)
	}
	sessionFlag := cmd.Flags().Lookup("session")
	if sessionFlag != nil && sessionFlag.DefValue != config.DefaultSessionName {
		t.Errorf("expected session default %q, got %s", config.DefaultSessionName, sessionFlag.DefValue)
	}
}

func TestBuildApplyConfig(t *testing.T) {
	t.Parallel()

	t.Run("reads every flag", func(t *testing.T) {
		t.Parallel()

		cmd := NewApplyCmd()
		err := cmd.ParseFlags([]string{
			"--click", clickTarget,
			"--opt-out", "https://safe.example/o",
			"--unsubscribe", "https://safe.example/u",
			"--opens", opensTarget,
			"--strip-attributes", "--hide-images", "--strip-text", "--scrub-comments", "--strip-styles",
			"-c", "conf.yaml", "-P", "work",
			"-b", "8", "--session", "s1", "--no-session", "--db-dir", "/tmp/db",
		})
		if err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildApplyConfig(cmd, []string{"a.html"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantTargets := model.RedirectTargets{
			Click:       clickTarget,
			OptOut:      "https://safe.example/o",
			Unsubscribe: "https://safe.example/u",
			Opens:       opensTarget,
		}
		if cfg.Targets != wantTargets {
			t.Errorf("targets = %+v, want %+v", cfg.Targets, wantTargets)
		}
		if len(cfg.Flags.Enabled()) != 5 {
			t.Errorf("expected all cleanup flags, got %v", cfg.Flags.Enabled())
		}
		if cfg.ConfigFilePath != "conf.yaml" || cfg.Profile != "work" {
			t.Errorf("unexpected config file settings: %q %q", cfg.ConfigFilePath, cfg.Profile)
		}
		if cfg.BatchSize != 8 {
			t.Errorf("batch = %d, want 8", cfg.BatchSize)
		}
		if cfg.SessionName != "s1" || cfg.UseSession || cfg.DBDir != "/tmp/db" {
			t.Errorf("unexpected session settings: %q %v %q", cfg.SessionName, cfg.UseSession, cfg.DBDir)
		}
	})

	t.Run("defaults to stdin", func(t *testing.T) {
		t.Parallel()

		cmd := NewApplyCmd()
		cfg, err := buildApplyConfig(cmd, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.Inputs) != 1 || cfg.Inputs[0] != stdinName {
			t.Errorf("inputs = %v, want [-]", cfg.Inputs)
		}
		if !cfg.UseSession {
			t.Error("expected session to be used by default")
		}
		if cfg.DBDir != config.XDGDataDir() {
			t.Errorf("db dir = %q, want XDG data dir", cfg.DBDir)
		}
	})
}

func TestApplyCmdSingle(t *testing.T) {
	t.Parallel()

	t.Run("writes the rewritten message to stdout", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := execute(t, sample.Newsletter, "apply",
			"-c", emptyConfig(t), "--db-dir", t.TempDir(),
			"--click", clickTarget, "--opens", opensTarget, "--scrub-comments")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := expectedApply(t,
			model.RedirectTargets{Click: clickTarget, Opens: opensTarget},
			model.CleanupFlags{ScrubComments: true})
		if stdout != want {
			t.Errorf("output differs from pipeline.Apply\ngot:\n%s\nwant:\n%s", stdout, want)
		}
		if !strings.Contains(stdout, clickTarget) {
			t.Error("expected click target in output")
		}
	})

	t.Run("writes the rewritten message to a file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeFile(t, dir, "in.html", sample.Newsletter)
		output := filepath.Join(dir, "out", "in.html")

		stdout, _, err := execute(t, "", "apply",
			"-c", emptyConfig(t), "--no-session",
			"--click", clickTarget, "-o", output, input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected nothing on stdout, got %q", stdout)
		}

		content, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if string(content) != expectedApply(t, model.RedirectTargets{Click: clickTarget}, model.CleanupFlags{}) {
			t.Error("output file differs from pipeline.Apply")
		}
		assertOwnerOnly(t, output)
	})

	t.Run("no-session leaves no database", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "db")
		_, _, err := execute(t, sample.Newsletter, "apply",
			"-c", emptyConfig(t), "--db-dir", dbDir, "--no-session", "--click", clickTarget)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(dbDir); !os.IsNotExist(err) {
			t.Errorf("expected no database directory, stat error: %v", err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		_, _, err := execute(t, "", "apply", "-c", emptyConfig(t), "--db-dir", t.TempDir())
		if !errors.Is(err, pipeline.ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
	})

	t.Run("invalid target", func(t *testing.T) {
		t.Parallel()

		_, _, err := execute(t, sample.Newsletter, "apply",
			"-c", emptyConfig(t), "--db-dir", t.TempDir(), "--click", `https://x.example/"><script>`)
		if !errors.Is(err, config.ErrInvalidTarget) {
			t.Errorf("expected ErrInvalidTarget, got %v", err)
		}
	})

	t.Run("invalid batch size", func(t *testing.T) {
		t.Parallel()

		_, _, err := execute(t, sample.Newsletter, "apply",
			"-c", emptyConfig(t), "--db-dir", t.TempDir(), "-b", "0")
		if !errors.Is(err, config.ErrInvalidBatchSize) {
			t.Errorf("expected ErrInvalidBatchSize, got %v", err)
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Parallel()

		_, _, err := execute(t, sample.Newsletter, "apply",
			"-c", filepath.Join(t.TempDir(), "missing.yaml"), "--db-dir", t.TempDir())
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

func TestApplyCmdProfile(t *testing.T) {
	t.Parallel()

	configPath := writeFile(t, t.TempDir(), ".mailscrub", `defaults:
  targets:
    click: https://safe.example/c
profiles:
  work:
    targets:
      opens: https://safe.example/p.gif
    cleanup:
      hideImages: true
`)

	t.Run("profile is merged over defaults", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := execute(t, sample.Newsletter, "apply",
			"-c", configPath, "-P", "work", "--no-session")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := expectedApply(t,
			model.RedirectTargets{Click: clickTarget, Opens: opensTarget},
			model.CleanupFlags{HideImages: true})
		if stdout != want {
			t.Errorf("output differs from pipeline.Apply\ngot:\n%s\nwant:\n%s", stdout, want)
		}
	})

	t.Run("flags win over the file", func(t *testing.T) {
		t.Parallel()

		override := "https://mine.example/c"
		stdout, _, err := execute(t, sample.Newsletter, "apply",
			"-c", configPath, "--click", override, "--no-session")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := expectedApply(t, model.RedirectTargets{Click: override}, model.CleanupFlags{})
		if stdout != want {
			t.Errorf("output differs from pipeline.Apply\ngot:\n%s\nwant:\n%s", stdout, want)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		t.Parallel()

		_, _, err := execute(t, sample.Newsletter, "apply",
			"-c", configPath, "-P", "missing", "--no-session")
		if !errors.Is(err, config.ErrUnknownProfile) {
			t.Errorf("expected ErrUnknownProfile, got %v", err)
		}
	})
}

func TestApplyCmdSession(t *testing.T) {
	t.Parallel()

	dbDir := t.TempDir()
	cfgPath := emptyConfig(t)

	first, _, err := execute(t, sample.Newsletter, "apply",
		"-c", cfgPath, "--db-dir", dbDir, "--session", "news", "--click", clickTarget)
	if err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	if _, _, err := execute(t, sample.Newsletter, "apply",
		"-c", cfgPath, "--db-dir", dbDir, "--session", "news", "--click", clickTarget, "--strip-text"); err != nil {
		t.Fatalf("second apply failed: %v", err)
	}

	store, err := session.Open(dbDir, session.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	record, err := store.Load(t.Context(), "news")
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	if record.UndoBuffer != first {
		t.Error("expected undo buffer to hold the first output")
	}
	if record.LastInput != sample.Newsletter {
		t.Error("expected last input to be the newsletter")
	}

	runs, err := store.ListRuns(t.Context(), "news", 0)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if !runs[0].Flags.StripVisibleText || runs[1].Flags.StripVisibleText {
		t.Errorf("expected newest run first, got %+v", runs)
	}
	if runs[0].InputDigest != session.Digest(sample.Newsletter) {
		t.Error("unexpected input digest")
	}
}

func TestApplyCmdBatch(t *testing.T) {
	t.Parallel()

	t.Run("writes every input to the output dir", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := writeFile(t, dir, "a/news.html", sample.Newsletter)
		b := writeFile(t, dir, "b/other.html", `<a href="https://t.example/click?u=1">Shop now</a>`)
		outDir := filepath.Join(dir, "out")

		stdout, _, err := execute(t, "", "apply",
			"-c", emptyConfig(t), "--db-dir", t.TempDir(),
			"--click", clickTarget, "--output-dir", outDir, "-b", "2", a, b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		news, err := os.ReadFile(filepath.Join(outDir, "news.html"))
		if err != nil {
			t.Fatalf("failed to read news output: %v", err)
		}
		if string(news) != expectedApply(t, model.RedirectTargets{Click: clickTarget}, model.CleanupFlags{}) {
			t.Error("news output differs from pipeline.Apply")
		}

		other, err := os.ReadFile(filepath.Join(outDir, "other.html"))
		if err != nil {
			t.Fatalf("failed to read other output: %v", err)
		}
		if string(other) != `<a href="`+clickTarget+`">Shop now</a>` {
			t.Errorf("unexpected other output: %s", other)
		}
		assertOwnerOnly(t, filepath.Join(outDir, "other.html"))

		for _, p := range []string{a, b} {
			if !strings.Contains(stdout, p+" -> ") {
				t.Errorf("expected progress line for %s, got:\n%s", p, stdout)
			}
		}
	})

	t.Run("empty input fails without stopping others", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		good := writeFile(t, dir, "good.html", sample.Newsletter)
		empty := writeFile(t, dir, "empty.html", "")
		outDir := filepath.Join(dir, "out")

		_, stderr, err := execute(t, "", "apply",
			"-c", emptyConfig(t), "--click", clickTarget, "--output-dir", outDir, good, empty)
		if err == nil || !strings.Contains(err.Error(), "1 of 2 inputs failed") {
			t.Fatalf("expected one failure, got %v", err)
		}
		if !strings.Contains(stderr, empty) {
			t.Errorf("expected failing input on stderr, got %q", stderr)
		}
		if _, err := os.Stat(filepath.Join(outDir, "good.html")); err != nil {
			t.Errorf("expected good output to be written: %v", err)
		}
		if _, err := os.Stat(filepath.Join(outDir, "empty.html")); !os.IsNotExist(err) {
			t.Error("expected no output for the empty input")
		}
	})

	t.Run("requires output dir", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := writeFile(t, dir, "a.html", sample.Newsletter)
		b := writeFile(t, dir, "b.html", sample.Newsletter)

		_, _, err := execute(t, "", "apply", "-c", emptyConfig(t), a, b)
		if !errors.Is(err, errOutputDirRequired) {
			t.Errorf("expected errOutputDirRequired, got %v", err)
		}
	})

	t.Run("rejects output file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := writeFile(t, dir, "a.html", sample.Newsletter)
		b := writeFile(t, dir, "b.html", sample.Newsletter)

		_, _, err := execute(t, "", "apply", "-c", emptyConfig(t),
			"-o", filepath.Join(dir, "out.html"), a, b)
		if !errors.Is(err, errOutputWithBatch) {
			t.Errorf("expected errOutputWithBatch, got %v", err)
		}
	})

	t.Run("rejects stdin", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := writeFile(t, dir, "a.html", sample.Newsletter)

		_, _, err := execute(t, sample.Newsletter, "apply", "-c", emptyConfig(t),
			"--output-dir", filepath.Join(dir, "out"), a, "-")
		if !errors.Is(err, errStdinInBatch) {
			t.Errorf("expected errStdinInBatch, got %v", err)
		}
	})

	t.Run("rejects colliding names", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := writeFile(t, dir, "x/mail.html", sample.Newsletter)
		b := writeFile(t, dir, "y/mail.html", sample.Newsletter)

		_, _, err := execute(t, "", "apply", "-c", emptyConfig(t),
			"--output-dir", filepath.Join(dir, "out"), a, b)
		if err == nil || !strings.Contains(err.Error(), "would both be written") {
			t.Errorf("expected collision error, got %v", err)
		}
	})
}
