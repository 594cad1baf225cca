package httpapi

import (
	"context"

	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/streamhub/pkg/storefront"
)

// ZapOperationLogger forwards storefront operation events to a zap logger.
type ZapOperationLogger struct {
	logger *zap.Logger
}

// NewZapOperationLogger wraps a zap logger as an operation sink.
func NewZapOperationLogger(logger *zap.Logger) *ZapOperationLogger {
	return &ZapOperationLogger{logger: logger}
}

// LogOperation writes one structured entry per state-changing operation.
func (operationLogger *ZapOperationLogger) LogOperation(_ context.Context, entry storefront.OperationLog) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("user_id", entry.UserID),
		zap.String("subject", entry.Subject),
		zap.String("amount", entry.Amount.String()),
		zap.String("status", entry.Status),
	}
	if entry.Error != nil {
		fields = append(fields, zap.Error(entry.Error))
		operationLogger.logger.Warn("storefront operation failed", fields...)
		return
	}
	operationLogger.logger.Info("storefront operation", fields...)
}
