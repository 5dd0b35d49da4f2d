package mpverr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func describe(code int) string {
	return "native " + CodeName(code)
}

func TestFromCode_Kinds(t *testing.T) {
	tests := []struct {
		name string
		code int
		site Site
		want Kind
	}{
		{"option not found", CodeOptionNotFound, Site{Kind: KindCommand}, KindConfiguration},
		{"option format", CodeOptionFormat, Site{}, KindConfiguration},
		{"property unavailable", CodePropertyUnavailable, Site{Kind: KindCommand}, KindProperty},
		{"command", CodeCommand, Site{Kind: KindProperty}, KindCommand},
		{"loading failed", CodeLoadingFailed, Site{Kind: KindCommand}, KindPlayback},
		{"unknown format", CodeUnknownFormat, Site{}, KindPlayback},
		{"nomem", CodeNoMem, Site{}, KindResource},
		{"uninitialized", CodeUninitialized, Site{}, KindInitialization},
		{"invalid parameter uses site", CodeInvalidParameter, Site{Kind: KindProperty}, KindProperty},
		{"generic uses site", CodeGeneric, Site{Kind: KindRenderContext}, KindRenderContext},
		{"generic without site", CodeGeneric, Site{}, KindCommand},
		{"unknown code uses site", -99, Site{Kind: KindInitialization}, KindInitialization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromCode(tt.code, describe, tt.site)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Kind != tt.want {
				t.Errorf("kind = %v, want %v", err.Kind, tt.want)
			}
			if err.Code != tt.code {
				t.Errorf("code = %d, want %d", err.Code, tt.code)
			}
		})
	}
}

func TestFromCode_SuccessIsNil(t *testing.T) {
	if err := FromCode(CodeSuccess, describe, Site{}); err != nil {
		t.Errorf("expected nil for success, got %v", err)
	}
	if err := FromCode(3, describe, Site{}); err != nil {
		t.Errorf("expected nil for positive code, got %v", err)
	}
}

func TestFromCode_AttachesContext(t *testing.T) {
	err := FromCode(CodeLoadingFailed, describe, Site{Kind: KindCommand, Name: "loadfile", URL: "http://host/live.ts"})
	if err.Name != "loadfile" {
		t.Errorf("name = %q", err.Name)
	}
	if err.URL != "http://host/live.ts" {
		t.Errorf("url = %q", err.URL)
	}
	if err.Reason != "native LOADING_FAILED" {
		t.Errorf("reason = %q, want native error string", err.Reason)
	}

	err = FromCode(CodeNoMem, nil, Site{})
	if err.Resource != "memory" {
		t.Errorf("resource = %q, want memory", err.Resource)
	}
	if err.Reason != "error code -2" {
		t.Errorf("reason = %q, want fallback text", err.Reason)
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Playback(CodeLoadingFailed, "x", ""))

	if !errors.Is(err, ErrPlayback) {
		t.Error("expected errors.Is to match the playback sentinel")
	}
	if errors.Is(err, ErrCommand) {
		t.Error("did not expect a command match")
	}
	if !errors.Is(err, &Error{Kind: KindPlayback, Code: CodeLoadingFailed}) {
		t.Error("expected a code-specific match")
	}
	if errors.Is(err, &Error{Kind: KindPlayback, Code: CodeUnknownFormat}) {
		t.Error("did not expect a match for a different code")
	}
	if KindOf(err) != KindPlayback {
		t.Errorf("KindOf = %v", KindOf(err))
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("plain errors have no kind")
	}
}

func TestClassification(t *testing.T) {
	if !Playback(CodeLoadingFailed, "", "http://host/live.ts").IsNetwork() {
		t.Error("loading failure on http stream should be network-class")
	}
	if Playback(CodeLoadingFailed, "", "/media/movie.mkv").IsNetwork() {
		t.Error("loading failure on a local file should not be network-class")
	}
	if !Playback(CodeUnsupported, "", "").IsFormat() {
		t.Error("unsupported should be format-class")
	}
	if !Playback(CodeUnknownFormat, "", "").IsFormat() {
		t.Error("unknown format should be format-class")
	}
	if Command("stop", "x").IsFormat() {
		t.Error("command errors are never format-class")
	}

	for _, code := range []int{CodeLoadingFailed, CodePropertyUnavailable, CodeAOInitFailed, CodeVOInitFailed} {
		if !IsRecoverable(code) {
			t.Errorf("%s should be recoverable", CodeName(code))
		}
	}
	if IsRecoverable(CodeUnknownFormat) {
		t.Error("unknown format should not be recoverable")
	}
}

func TestIsNetworkURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"http://host/live.ts", true},
		{"HTTPS://host/index.m3u8", true},
		{"rtsp://camera/stream", true},
		{"udp://@239.0.0.1:1234", true},
		{"file:///tmp/a.mp4", false},
		{"/tmp/a.mp4", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsNetworkURL(tt.in); got != tt.want {
			t.Errorf("IsNetworkURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	msg := Playback(CodeLoadingFailed, "loading failed", "http://host/a.ts").Error()
	if !strings.Contains(msg, "code: -13") || !strings.Contains(msg, "http://host/a.ts") {
		t.Errorf("unexpected message %q", msg)
	}

	msg = Configuration("hwdec", "cannot set after initialization").Error()
	if !strings.Contains(msg, `"hwdec"`) || !strings.Contains(msg, "cannot set after initialization") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"network", Playback(CodeLoadingFailed, "", "http://host/a.ts"), "Network error"},
		{"format", Playback(CodeUnknownFormat, "", "http://host/a.ts"), "Format error"},
		{"loading", Playback(CodeLoadingFailed, "", "/tmp/a.ts"), "Failed to load media"},
		{"other playback", Playback(CodeNothingToPlay, "nothing", ""), "Playback error: nothing"},
		{"library", LibraryNotFound("missing"), "Player library not found: missing"},
		{"plain", errors.New("boom"), "Error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); !strings.HasPrefix(got, tt.want) {
				t.Errorf("UserMessage = %q, want prefix %q", got, tt.want)
			}
		})
	}
}
