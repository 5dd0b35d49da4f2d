package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Engine lifecycle (info)
		"Initializing player (client API %d.%d)": "プレーヤーを初期化中 (クライアント API %d.%d)",
		"Player initialized":                     "プレーヤーを初期化しました",
		"Player already initialized":             "プレーヤーは既に初期化されています",
		"Loading media":                          "メディアを読み込み中",
		"Switching channel":                      "チャンネルを切り替え中",
		"Releasing player":                       "プレーヤーを解放中",
		"Player released":                        "プレーヤーを解放しました",
		"Release skipped, already %s":            "解放をスキップしました (既に %s)",
		"File loaded":                            "ファイルを読み込みました",
		"Playback ended (%s)":                    "再生が終了しました (%s)",
		"Native player shut down":                "ネイティブプレーヤーが終了しました",
		"Probed %s":                              "%s を解析しました",

		// Library loader
		"Trying %s strategy":              "%s 戦略を試行中",
		"Loaded native library from %s":   "ネイティブライブラリを %s から読み込みました",
		"Strategy %s failed: %s":          "%s 戦略が失敗しました: %s",
		"Extracted bundled library to %s": "同梱ライブラリを %s に展開しました",

		// Event loop / renderer (debug)
		"Event loop started":                        "イベントループを開始しました",
		"Event loop stopped":                        "イベントループを停止しました",
		"Event loop did not stop within %s":         "イベントループが %s 以内に停止しませんでした",
		"Event callback panicked: %v":               "イベントコールバックでパニックが発生しました: %v",
		"Render context created":                    "レンダーコンテキストを作成しました",
		"Frame buffer resized to %dx%d":             "フレームバッファを %dx%d に変更しました",
		"Render failed, reusing previous frame: %s": "レンダリングに失敗しました。前のフレームを再利用します: %s",

		// Recovery
		"Attempt %d/%d":                    "試行 %d/%d",
		"Attempt %d failed: %s":            "試行 %d が失敗しました: %s",
		"Waiting %s before retry":          "再試行まで %s 待機します",
		"Unclassified error: %s":           "未分類のエラー: %s",
		"Reloading %s in %s":               "%s を %s 後に再読み込みします",
		"Giving up on %s after %d reloads": "%s の再読み込みを %d 回試みましたが断念しました",

		// Warnings
		"Hardware decoding %s failed, falling back to software decoding": "ハードウェアデコード %s が失敗しました。ソフトウェアデコードに切り替えます",
		"Hardware decoding %s failed earlier, using software decoding":   "ハードウェアデコード %s は以前に失敗しています。ソフトウェアデコードを使用します",
		"Software decoding fallback failed: %s":                          "ソフトウェアデコードへの切り替えに失敗しました: %s",
		"Native log forwarding unavailable: %s":                          "ネイティブログの転送を利用できません: %s",
		"Release step %s failed: %s":                                     "解放手順 %s が失敗しました: %s",
		"Stopping %s failed: %s":                                         "%s の停止に失敗しました: %s",
		"Property %s unavailable: %s":                                    "プロパティ %s を取得できません: %s",

		// Errors
		"Failed to load native library: %s": "ネイティブライブラリの読み込みに失敗しました: %s",
		"Playback failed: %s":               "再生に失敗しました: %s",
	})
}
