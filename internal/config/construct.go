package config

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/reactor-core/internal/domain"
	"github.com/ahrav/reactor-core/internal/reactor"
	"github.com/ahrav/reactor-core/internal/scheduler"
)

// Build constructs a *scheduler.App from cfg, resolving each
// BankConfig's member factories through registry. Bank members within
// a single BankConfig are constructed concurrently, bounded to
// runtime.GOMAXPROCS(0) — though here the concurrency is strictly a
// construction-time convenience: by the time Build returns, every
// reactor, port, action, and reaction is already wired, and the
// scheduler's own run loop is single-threaded.
func Build(cfg AppConfig, registry *Registry) (*scheduler.App, error) {
	app := scheduler.NewApp()
	root := app.Root()

	for _, bank := range cfg.Banks {
		if err := buildBank(root, bank, registry); err != nil {
			return nil, fmt.Errorf("config: bank %q: %w", bank.ID, err)
		}
	}

	if cfg.Scheduling.TimeoutSeconds > 0 {
		app.WithTimeout(domain.TimeValue(cfg.Scheduling.TimeoutSeconds * float64(time.Second)))
	}
	app.WithKeepAlive(cfg.Scheduling.KeepAlive)
	app.WithFast(cfg.Scheduling.Fast)

	return app, nil
}

func buildBank(root *reactor.Reactor, bank BankConfig, registry *Registry) error {
	factory, ok := registry.Lookup(bank.Type)
	if !ok {
		return fmt.Errorf("unknown bank type %q (registered: %v)", bank.Type, registry.SupportedTypes())
	}

	nodes := make([]*reactor.Reactor, bank.Width)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < bank.Width; i++ {
		i := i
		g.Go(func() error {
			name := fmt.Sprintf("%s[%d]", bank.ID, i)
			node, err := factory(root, name, i, bank.Parameters)
			if err != nil {
				return fmt.Errorf("member %d: %w", i, err)
			}
			nodes[i] = node
			return nil
		})
	}
	return g.Wait()
}
