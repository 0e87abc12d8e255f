package integration

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// PayloadArchive stores raw platform payloads for later inspection
type PayloadArchive interface {
	// ArchiveOrder stores a raw order payload and returns its key
	ArchiveOrder(ctx context.Context, externalOrderID string, receivedAt time.Time, body []byte) (string, error)
	// ArchiveMenuExport stores a rendered menu document and returns its key
	ArchiveMenuExport(ctx context.Context, merchantID string, exportedAt time.Time, body []byte) (string, error)
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func safeKeyPart(s string) string {
	s = unsafeKeyChars.ReplaceAllString(strings.TrimSpace(s), "_")
	if s == "" {
		return "unknown"
	}
	return s
}

// OrderArchiveKey returns orders/<yyyy-mm-dd>/<orderID>.json under prefix
func OrderArchiveKey(prefix, externalOrderID string, receivedAt time.Time) string {
	return fmt.Sprintf("%sorders/%s/%s.json",
		prefix, receivedAt.UTC().Format("2006-01-02"), safeKeyPart(externalOrderID))
}

// MenuArchiveKey returns menus/<yyyy-mm-dd>/<merchantID>-<hhmmss>.json under prefix
func MenuArchiveKey(prefix, merchantID string, exportedAt time.Time) string {
	at := exportedAt.UTC()
	return fmt.Sprintf("%smenus/%s/%s-%s.json",
		prefix, at.Format("2006-01-02"), safeKeyPart(merchantID), at.Format("150405"))
}
