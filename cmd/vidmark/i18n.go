package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Session": "セッション",
		"Media":   "メディア",
		"Output":  "出力",
		"Logging": "ログ",

		// Commands
		"Mark frame-accurate checkpoints on videos":                           "動画にフレーム単位のチェックポイントを付けます",
		"Mark checkpoints on every video of a directory or on a single video": "ディレクトリ内のすべての動画、または単一の動画にチェックポイントを付けます",
		"Print the active key bindings":                                       "現在のキー割り当てを表示",
		"Show version information":                                            "バージョン情報を表示",
		"vidmark version %s":                                                  "vidmark バージョン %s",
		"Key bindings (%s variant):":                                          "キー割り当て (%s バリアント):",
		"Type a command and press Enter:":                                     "コマンドを入力して Enter を押してください:",
		"exactly one PATH is required":                                        "PATH を1つだけ指定してください",
		"Error: %s":                                                           "エラー: %s",

		// Flags
		"YAML configuration file":                                              "YAML設定ファイル",
		"Checkpoint variant (keyed, pair, single)":                             "チェックポイントのバリアント（keyed, pair, single）",
		"Playback interval in milliseconds":                                    "再生間隔（ミリ秒）",
		"Video extensions recognized in a directory":                           "ディレクトリ内で対象とする動画の拡張子",
		"How pair and single takes are merged (append, replace)":               "pair と single のテイクの統合方法（append, replace）",
		"Path to the ffmpeg executable (falls back to FFMPEG_PATH, then PATH)": "ffmpeg 実行ファイルのパス（未指定時は FFMPEG_PATH、次に PATH）",
		"CRF used when converting to H.264 (0-51)":                             "H.264 へ変換する際の CRF（0-51）",
		"Directory for converted videos (default: system temp)":                "変換した動画の保存先（デフォルト: システムの一時ディレクトリ）",
		"TrueType font for the status bar":                                     "ステータスバーに使う TrueType フォント",
		"PNG file mirroring the displayed frame":                               "表示中のフレームを書き出す PNG ファイル",
		"Directory for checkpoint snapshots":                                   "チェックポイントのスナップショット保存先",
		"Write a Markdown summary of the batch to this file":                   "バッチのサマリーを Markdown でこのファイルに書き出す",
		"Log level (debug, info, warn, error)":                                 "ログレベル（debug, info, warn, error）",
		"Log format (console, json)":                                           "ログ形式（console, json）",
		"Suppress all log output and the summary table":                        "ログ出力とサマリー表をすべて抑制",

		// Summary
		"Annotation Summary": "アノテーションサマリー",
		"Batch":              "バッチ",
		"Item":               "項目",
		"Value":              "値",
		"Input":              "入力",
		"Variant":            "バリアント",
		"Videos":             "動画",
		"Video":              "動画",
		"Status":             "状態",
		"Frames":             "フレーム数",
		"Marks":              "マーク数",
		"Rejected":           "破棄数",
		"Snapshots":          "スナップショット",
		"Annotations":        "アノテーション数",
		"Sidecar":            "サイドカー",
		"Duration":           "所要時間",
		"Stopped":            "中断",
		"Yes":                "はい",
		"Errors":             "エラー",
		"Generated at":       "生成日時",
		"saved":              "保存済み",
		"unchanged":          "変更なし",
		"skipped":            "スキップ",
		"failed":             "失敗",
	})
}
