package storage

import (
	"context"
	"time"

	"github.com/erp/grabfood/internal/domain/integration"
)

// NoopArchive is used when archiving is disabled. It only computes the key.
type NoopArchive struct{}

// Ensure NoopArchive implements PayloadArchive
var _ integration.PayloadArchive = NoopArchive{}

// ArchiveOrder returns the key the payload would have been stored under
func (NoopArchive) ArchiveOrder(_ context.Context, externalOrderID string, receivedAt time.Time, _ []byte) (string, error) {
	return integration.OrderArchiveKey("", externalOrderID, receivedAt), nil
}

// ArchiveMenuExport returns the key the document would have been stored under
func (NoopArchive) ArchiveMenuExport(_ context.Context, merchantID string, exportedAt time.Time, _ []byte) (string, error) {
	return integration.MenuArchiveKey("", merchantID, exportedAt), nil
}
