// Command reactordemo loads a declarative program description and runs
// it to completion, wiring the Prometheus/OpenTelemetry collaborators
// the scheduler accepts as optional observability hooks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ahrav/reactor-core/infrastructure/metrics"
	"github.com/ahrav/reactor-core/infrastructure/telemetry"
	"github.com/ahrav/reactor-core/internal/config"
	"github.com/ahrav/reactor-core/internal/reactor"
)

func main() {
	var configPath = flag.String("config", "", "path to a program YAML document (defaults to a built-in ticker demo)")
	flag.Parse()

	registry := config.NewRegistry()
	registry.Register("ticker", tickerFactory)

	doc, err := loadDoc(*configPath)
	if err != nil {
		log.Fatalf("reactordemo: %v", err)
	}

	loader := config.NewLoader(registry)
	app, err := loader.Load(context.Background(), doc)
	if err != nil {
		log.Fatalf("reactordemo: load config: %v", err)
	}

	app.WithMetrics(metrics.NewCollector())
	app.WithTelemetry(telemetry.NewTracer("reactordemo", nil))

	app.OnSuccess(func() { fmt.Println("reactordemo: run complete") })
	app.OnFail(func(err error) { log.Fatalf("reactordemo: run failed: %v", err) })

	if err := app.Start(); err != nil {
		log.Fatalf("reactordemo: %v", err)
	}
}

func loadDoc(path string) ([]byte, error) {
	if path == "" {
		return []byte(defaultDoc), nil
	}
	return os.ReadFile(path)
}

const defaultDoc = `
version: "1.0.0"
metadata:
  name: ticker-demo
  description: a bank of tickers that each print their own index once per logical second
scheduling:
  timeout_seconds: 5
  fast: true
banks:
  - id: tickers
    type: ticker
    width: 3
`

// tickerFactory builds a reactor that fires once a logical second on a
// timer and prints its member name (which carries its bank index) and
// the tag time, demonstrating a config-driven bank member. It ignores
// the bank's Parameters.
func tickerFactory(parent *reactor.Reactor, id string, index int, _ map[string]any) (*reactor.Reactor, error) {
	r, err := reactor.NewReactor(parent, id)
	if err != nil {
		return nil, err
	}
	timer := reactor.NewTimer(r, "tick", 0, 1_000_000_000)
	_, err = r.AddReaction(reactor.ReactionSpec{
		Name:     "print",
		Triggers: []reactor.Trigger{timer},
		Body: func(ctx *reactor.Context) error {
			fmt.Printf("%s: tick at %s\n", id, ctx.Tag.Time)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	_ = index
	return r, nil
}
