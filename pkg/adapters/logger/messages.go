package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Decode session
		"Stream resolution is now %dx%d":              "ストリーム解像度が %dx%d になりました",
		"Decoder faulted with native status 0x%x":     "デコーダがネイティブステータス 0x%x で故障しました",
		"Coded unit rejected with native status 0x%x": "符号化ユニットがネイティブステータス 0x%x で拒否されました",
		"Decoder session destroyed":                   "デコーダセッションを破棄しました",

		// Encode session
		"Session geometry is now %dx%d":           "セッションの解像度が %dx%d になりました",
		"Encoder faulted with native status 0x%x": "エンコーダがネイティブステータス 0x%x で故障しました",
		"Encoder session destroyed":               "エンコーダセッションを破棄しました",

		// Transcode runs
		"Transcoded %d pictures into %d packets": "%d 枚のピクチャを %d 個のパケットに再エンコードしました",
	})
}
