package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// MarkdownFormatter renders a Summary as Markdown tables.
type MarkdownFormatter struct {
	translate func(string) string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator translates labels, e.g. with l10n.T.
func WithTranslator(fn func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = fn
	}
}

// NewMarkdownFormatter creates a new MarkdownFormatter. Labels stay in
// English unless a translator is given.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{translate: func(s string) string { return s }}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Playback Summary"))
	fmt.Fprintf(&b, "%s: %s\n", t("Generated"), s.GeneratedAt.Format("2006-01-02 15:04:05"))
	if s.EngineID != "" {
		fmt.Fprintf(&b, "%s: %s\n", t("Engine"), s.EngineID)
	}

	section(&b, t, t("Media"))
	row(&b, t("URL"), s.Media.URL)
	if s.Media.Title != "" {
		row(&b, t("Title"), s.Media.Title)
	}
	if s.Media.Width > 0 && s.Media.Height > 0 {
		row(&b, t("Video"), strings.TrimSpace(fmt.Sprintf("%dx%d %s", s.Media.Width, s.Media.Height, s.Media.Codec)))
	}
	row(&b, t("Hardware Decoding"), orDefault(s.Media.HwDec, t("Software")))
	if s.Media.Duration > 0 {
		row(&b, t("Duration"), formatDuration(s.Media.Duration))
	} else {
		row(&b, t("Duration"), t("Live"))
	}

	section(&b, t, t("Session"))
	row(&b, t("Channels"), fmt.Sprintf("%d", len(s.Session.Channels)))
	row(&b, t("Channel Switches"), fmt.Sprintf("%d", s.Session.Switches))
	row(&b, t("Played For"), formatDuration(s.Session.PlayedFor))
	row(&b, t("Final State"), s.Session.FinalState)
	if s.Session.ErrorMessage != "" {
		row(&b, t("Error"), s.Session.ErrorMessage)
	}
	row(&b, t("Snapshots"), fmt.Sprintf("%d", s.Session.Snapshots))

	section(&b, t, t("Settings"))
	row(&b, t("Preset"), orDefault(s.Settings.Preset, t("None")))
	row(&b, t("Hardware Decoding"), s.Settings.Hwdec)
	row(&b, t("Volume"), fmt.Sprintf("%d", s.Settings.Volume))
	row(&b, t("Cache"), fmt.Sprintf("%d s", s.Settings.CacheSecs))
	row(&b, t("Network Timeout"), fmt.Sprintf("%d s", s.Settings.NetworkTimeout))

	section(&b, t, t("Release"))
	if s.Release.Skipped {
		row(&b, t("Cleanup Steps"), t("Skipped"))
	} else {
		row(&b, t("Cleanup Steps"), orDefault(strings.Join(s.Release.Steps, ", "), t("None")))
	}
	if s.Release.Error != "" {
		row(&b, t("Error"), s.Release.Error)
	}

	if s.FallbackStatistics != "" {
		fmt.Fprintf(&b, "\n## %s\n\n```\n%s\n```\n", t("Hardware Acceleration"), strings.TrimRight(s.FallbackStatistics, "\n"))
	}

	b.WriteString("\n---\n")
	fmt.Fprintf(&b, "%s mpvplay %s\n", t("Generated by"), orDefault(s.Version, "dev"))
	return b.String()
}

func section(b *strings.Builder, t func(string) string, title string) {
	fmt.Fprintf(b, "\n## %s\n\n| %s | %s |\n|---|---|\n", title, t("Item"), t("Value"))
}

func row(b *strings.Builder, item, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", item, strings.ReplaceAll(value, "|", "\\|"))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}

var _ Formatter = (*MarkdownFormatter)(nil)
