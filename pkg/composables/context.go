package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/workforce/pkg/constants"
)

var (
	ErrNoLogger  = errors.New("logger not found")
	ErrNoGroupID = errors.New("organization group not found in context")
)

// WithLogger returns a new context carrying the given logger entry.
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the logger entry from the context, or a discard-free
// default entry when none was attached.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logger.(*logrus.Entry)
}

// WithGroupID returns a new context scoped to the given organization group.
func WithGroupID(ctx context.Context, groupID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.GroupIDKey, groupID)
}

// UseGroupID returns the organization group id from the context.
func UseGroupID(ctx context.Context) (uuid.UUID, error) {
	groupID, ok := ctx.Value(constants.GroupIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoGroupID
	}
	return groupID, nil
}
