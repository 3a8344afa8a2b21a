package log

import (
	"go.uber.org/zap"
)

var base = zap.NewNop()

// Init builds the process-wide logger. prod selects the JSON production
// encoder; otherwise the human-readable development encoder is used.
func Init(prod bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if prod {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	base = l
	return l, nil
}

// L returns the process logger. Safe to call before Init (returns a nop).
func L() *zap.Logger { return base }

func Sync() { _ = base.Sync() }
