// Package main provides localization for the mpvplay CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		"Play IPTV streams through libmpv.": "libmpv で IPTV ストリームを再生します。",

		// probe
		"Strategies: %s":    "読み込み戦略: %s",
		"Loaded by: %s":     "読み込み元の戦略: %s",
		"Path: %s":          "パス: %s",
		"Client API: %d.%d": "クライアント API: %d.%d",

		// hwinfo
		"Detected: %s":            "検出結果: %s",
		"Available: %t":           "利用可能: %t",
		"Device: %s":              "デバイス: %s",
		"hwdec for %s preset: %s": "%s プリセットの hwdec: %s",
		"mpvplay (Go) version %s": "mpvplay (Go) バージョン %s",

		// play
		"Playing %s":                           "%s を再生中",
		"Playback finished (%s)":               "再生が終了しました (%s)",
		"Video: %dx%d %s":                      "映像: %dx%d %s",
		"Channel switch to %s failed: %s":      "%s へのチャンネル切り替えに失敗しました: %s",
		"Configuration reloaded, volume %d":    "設定を再読み込みしました。音量 %d",
		"Configuration reload failed: %s":      "設定の再読み込みに失敗しました: %s",
		"Failed to apply volume: %s":           "音量の適用に失敗しました: %s",
		"Failed to save media information: %s": "メディア情報の保存に失敗しました: %s",
		"Serving metrics on %s":                "%s でメトリクスを公開中",
		"Release finished with errors: %s":     "解放処理でエラーが発生しました: %s",
		"Interrupted, shutting down...":        "中断されました。シャットダウン中...",
		"Summary saved to %s":                  "サマリーを %s に保存しました",
		"Failed to write summary: %s":          "サマリーの書き込みに失敗しました: %s",

		// Summary content
		"Playback Summary":      "再生サマリー",
		"Generated":             "生成日時",
		"Engine":                "エンジン",
		"Item":                  "項目",
		"Value":                 "値",
		"Media":                 "メディア",
		"URL":                   "URL",
		"Title":                 "タイトル",
		"Video":                 "映像",
		"Hardware Decoding":     "ハードウェアデコード",
		"Software":              "ソフトウェア",
		"Duration":              "再生時間",
		"Live":                  "ライブ",
		"Session":               "セッション",
		"Channels":              "チャンネル数",
		"Channel Switches":      "チャンネル切り替え回数",
		"Played For":            "再生した時間",
		"Final State":           "最終状態",
		"Error":                 "エラー",
		"Snapshots":             "スナップショット数",
		"Settings":              "設定",
		"Preset":                "プリセット",
		"None":                  "なし",
		"Volume":                "音量",
		"Cache":                 "キャッシュ",
		"Network Timeout":       "ネットワークタイムアウト",
		"Release":               "解放",
		"Cleanup Steps":         "クリーンアップ手順",
		"Skipped":               "スキップ",
		"Hardware Acceleration": "ハードウェアアクセラレーション",
		"Generated by":          "生成:",
	})
}
