// Package integration contains the delivery-platform bounded context.
// It turns the merchant catalog into the platform's menu document and defines
// the outbound port used to talk to the platform.
//
// Key concepts:
//   - MenuBuilder: pure transformation of a catalog tree into a MenuDocument
//   - NormalizeStatus, ToMinorUnits, SanitizeDescription, DeriveSelectionRange: value normalizers
//   - DeliveryPlatform: port interface for outbound platform calls
//   - MenuSyncLog, IntegrationStatusLog, MenuPushLog: records of platform callbacks
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
