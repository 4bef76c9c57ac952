package workflow

import (
	"context"

	"go.uber.org/zap"
)

// Notifier surfaces the outcome of a user action.
type Notifier interface {
	Success(title, msg string)
	Error(title string, err error)
}

// Confirmer asks a two-choice cancel/confirm question.
type Confirmer interface {
	Confirm(ctx context.Context, title, msg string) bool
}

// Navigator leaves the current screen.
type Navigator interface {
	Back(ctx context.Context)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, title, msg string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, title, msg string) bool {
	return f(ctx, title, msg)
}

var (
	AlwaysConfirm = ConfirmFunc(func(context.Context, string, string) bool { return true })
	NeverConfirm  = ConfirmFunc(func(context.Context, string, string) bool { return false })
)

// LogNotifier writes notifications to the global logger
type LogNotifier struct{}

func (LogNotifier) Success(title, msg string) {
	zap.L().Info(msg, zap.String("namespace", "workflow"), zap.String("title", title))
}

func (LogNotifier) Error(title string, err error) {
	zap.L().Error(title, zap.String("namespace", "workflow"), zap.Error(err))
}

type NopNavigator struct{}

func (NopNavigator) Back(context.Context) {}
