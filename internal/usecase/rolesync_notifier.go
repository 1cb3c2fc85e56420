package usecase

import (
	"context"

	"github.com/riskibarqy/prissleague/internal/platform/logging"
)

// LogNotifier writes role sync messages to the log when no channel is configured.
type LogNotifier struct {
	logger *logging.Logger
}

func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, message string) error {
	n.logger.InfoContext(ctx, message)
	return nil
}
