// Package service holds the application's business rules on top of the repositories.
package service

import (
	"context"
	"log/slog"

	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/notifications"
	"postboard/internal/observability"
)

// ErrNotAuthor is returned when someone other than a post's author tries to change it.
var ErrNotAuthor = models.NewForbiddenError("Only the author can change this post")

// EventPublisher receives content events. *notifications.Notifier implements it.
type EventPublisher interface {
	Publish(ctx context.Context, ev notifications.Event) error
}

// recordCreated counts the write and publishes ev. Publishing is best effort.
func recordCreated(ctx context.Context, events EventPublisher, kind string, ev notifications.Event) {
	observability.ContentCreated.WithLabelValues(kind).Inc()
	if events == nil {
		return
	}
	if err := events.Publish(ctx, ev); err != nil {
		middleware.Logger.WarnContext(ctx, "event publish failed",
			slog.String("event", ev.Type),
			slog.String("error", err.Error()),
		)
	}
}
