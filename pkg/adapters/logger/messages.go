package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Batch (orchestrator)
		"Annotating %s (%s variant)":                    "%s をアノテーション中 (%s バリアント)",
		"Found %d videos in %s":                         "%[2]s に %[1]d 本の動画が見つかりました",
		"Video %d of %d: %s":                            "動画 %d / %d: %s",
		"Batch finished: %d of %d videos processed":     "バッチ完了: %d / %d 本の動画を処理しました",
		"Skipping %s: %s":                               "%s をスキップします: %s",
		"Failed to read annotations of %s: %s":          "%s のアノテーションを読み込めませんでした: %s",
		"Failed to save annotations of %s: %s":          "%s のアノテーションを保存できませんでした: %s",
		"Removed temporary file %s":                     "一時ファイル %s を削除しました",
		"Failed to remove temporary file %s: %s":        "一時ファイル %s を削除できませんでした: %s",
		"Interrupted, stopping after the current video": "中断されました。現在の動画の後で停止します",
		"Summary saved to %s":                           "サマリーを %s に保存しました",
		"Using ffmpeg at %s":                            "ffmpeg を使用します: %s",

		// Prepare stage (ffmpeg component)
		"%s is already decodable (%s)":               "%s はそのまま読み込めます (%s)",
		"Converting %s to H.264":                     "%s を H.264 に変換中",
		"Probe of %s failed, transcoding anyway: %s": "%s の解析に失敗したため変換します: %s",
		"Using temporary file %s":                    "一時ファイル %s を使用します",
		"Decoding %s from %.3fs":                     "%s を %.3f 秒からデコード中",
		"ffmpeg: %s":                                 "ffmpeg: %s",

		// Frame source
		"Opened %s (%d frames)":            "%s を開きました (%d フレーム)",
		"Indexed %d frames (%dx%d, %.2fs)": "%d フレームを索引化しました (%dx%d, %.2f 秒)",

		// Annotate stage
		"Annotating %s (%d frames)":                                              "%s をアノテーション中 (%d フレーム)",
		"Checkpoint %d set to %s":                                                "チェックポイント %d を %s に設定しました",
		"Checkpoint %d at frame %d is before checkpoint %d, discarded":           "チェックポイント %d (フレーム %d) がチェックポイント %d より前のため破棄しました",
		"Checkpoint %d moved past later checkpoints, slots %d and above cleared": "チェックポイント %d が後続を追い越したため、スロット %d 以降をクリアしました",
		"Checkpoint set complete for %s":                                         "%s のチェックポイントがそろいました",
		"Cleared checkpoints":                                                    "チェックポイントをクリアしました",
		"Slot %d needs slot %d first":                                            "スロット %d の前にスロット %d を設定してください",
		"Nothing stored for slot %d":                                             "スロット %d に保存済みの値はありません",
		"Failed to save snapshot: %s":                                            "スナップショットを保存できませんでした: %s",
		"Failed to show frame: %s":                                               "フレームを表示できませんでした: %s",

		// Terminal surface
		"Unknown key %q":              "不明なキー %q",
		"Input closed":                "入力が閉じられました",
		"Failed to write preview: %s": "プレビューを書き込めませんでした: %s",

		// Store and persist stage
		"Annotations saved to %s":           "アノテーションを %s に保存しました",
		"No annotations for %s":             "%s にはアノテーションがありません",
		"Ignoring malformed sidecar %s: %s": "不正なサイドカー %s を無視します: %s",
		"Malformed sidecar kept as %s":      "不正なサイドカーを %s として退避しました",
		"Wrote %d bytes to %s":              "%[2]s に %[1]d バイト書き込みました",

		"Dropped stored checkpoints %s, out of order after merge": "マージ後に順序が崩れた保存済みチェックポイント %s を破棄しました",
	})
}
