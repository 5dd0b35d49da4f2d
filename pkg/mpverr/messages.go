package mpverr

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		"Network error: Unable to load the stream. Please check your internet connection and try again.": "ネットワークエラー: ストリームを読み込めません。インターネット接続を確認して再試行してください。",
		"Format error: This video format or codec is not supported.":                                     "フォーマットエラー: この動画形式またはコーデックはサポートされていません。",
		"Failed to load media: The file or stream could not be opened.":                                  "メディアの読み込みに失敗しました: ファイルまたはストリームを開けませんでした。",
		"Playback error: %s":                 "再生エラー: %s",
		"Player library not found: %s":       "プレーヤーライブラリが見つかりません: %s",
		"Failed to initialize player: %s":    "プレーヤーの初期化に失敗しました: %s",
		"Using default configuration for %s": "%s にはデフォルト設定を使用します",
		"Property error: %s":                 "プロパティエラー: %s",
		"Command failed: %s":                 "コマンドが失敗しました: %s",
		"Resource error: %s":                 "リソースエラー: %s",
		"Render context error: %s":           "レンダーコンテキストエラー: %s",
		"Error: %s":                          "エラー: %s",
	})
}

// UserMessage returns a human-readable, localized message for err.
func UserMessage(err error) string {
	e, ok := As(err)
	if !ok {
		return l10n.F("Error: %s", err.Error())
	}
	switch e.Kind {
	case KindPlayback:
		switch {
		case e.IsNetwork():
			return l10n.T("Network error: Unable to load the stream. Please check your internet connection and try again.")
		case e.IsFormat():
			return l10n.T("Format error: This video format or codec is not supported.")
		case IsLoadingFailed(e.Code):
			return l10n.T("Failed to load media: The file or stream could not be opened.")
		default:
			return l10n.F("Playback error: %s", e.Reason)
		}
	case KindLibraryNotFound:
		return l10n.F("Player library not found: %s", e.Reason)
	case KindInitialization:
		return l10n.F("Failed to initialize player: %s", e.Reason)
	case KindConfiguration:
		return l10n.F("Using default configuration for %s", e.Name)
	case KindProperty:
		return l10n.F("Property error: %s", e.Reason)
	case KindCommand:
		return l10n.F("Command failed: %s", e.Reason)
	case KindResource:
		return l10n.F("Resource error: %s", e.Reason)
	case KindRenderContext:
		return l10n.F("Render context error: %s", e.Reason)
	}
	return l10n.F("Error: %s", e.Error())
}
