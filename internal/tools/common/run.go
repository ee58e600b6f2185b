package common

import (
	"context"
	"time"

	"github.com/sandeepkv93/catalog-service/internal/observability"
	"github.com/sandeepkv93/catalog-service/internal/tools/ui"
)

type Action func(context.Context) ([]string, error)

// RunOptions controls how a tool command executes. In CI mode the action
// runs directly under Timeout, otherwise it runs inside the terminal UI.
type RunOptions struct {
	Tool    string
	Command string
	CI      bool
	Timeout time.Duration
}

var uiRun = ui.Run

func Run(opts RunOptions, title string, fn Action) ([]string, error) {
	start := time.Now()
	var (
		details []string
		err     error
	)
	if opts.CI {
		ctx := context.Background()
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}
		details, err = fn(ctx)
	} else {
		details, err = uiRun(title, opts.Timeout, fn)
	}

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	observability.RecordToolCommandRun(context.Background(), opts.Tool, opts.Command, outcome)
	observability.RecordToolCommandDuration(context.Background(), opts.Tool, opts.Command, outcome, time.Since(start))
	return details, err
}
