package service

import "context"

func (w *OutboxWorker) ProcessEvents(ctx context.Context) int {
	return w.processEvents(ctx)
}
