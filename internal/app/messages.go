package app

import (
	apperrors "github.com/huanfeng/mclauncher/internal/errors"
	"github.com/huanfeng/mclauncher/internal/i18n"
)

// Message IDs resolved through the locale files
const (
	MsgLoadFailed       = "msg.load.failed"
	MsgLoadInvalid      = "msg.load.invalid"
	MsgDownloadComplete = "msg.download.complete"
	MsgDownloadStatus   = "msg.download.status"
	MsgDownloadFailed   = "msg.download.failed"
	MsgCheckFailed      = "msg.download.checkFailed"
	MsgInstallFailed    = "msg.install.failed"
	MsgDeleteFailed     = "msg.delete.failed"
)

// Translator resolves a message ID into user text
type Translator func(id string, data ...map[string]interface{}) string

// DefaultTranslator uses the process-wide locale
func DefaultTranslator() Translator {
	return i18n.T
}

func loadMessageID(err error) string {
	if apperrors.IsType(err, apperrors.ErrorTypeParsing) {
		return MsgLoadInvalid
	}
	return MsgLoadFailed
}

// downloadMessageID tells a rejected response apart from a broken transfer
func downloadMessageID(err error) string {
	if _, ok := apperrors.ContextValue(err, "status"); ok {
		return MsgDownloadStatus
	}
	return MsgDownloadFailed
}
