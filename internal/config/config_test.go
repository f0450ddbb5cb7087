package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/reactor-core/internal/reactor"
)

func passthroughFactory(parent *reactor.Reactor, id string, _ int, _ map[string]any) (*reactor.Reactor, error) {
	return reactor.NewReactor(parent, id)
}

func testRegistry() *Registry {
	r := NewRegistry()
	r.Register("passthrough", passthroughFactory)
	return r
}

const validYAML = `
version: "1.0.0"
metadata:
  name: demo
scheduling:
  timeout_seconds: 5
  fast: true
banks:
  - id: workers
    type: passthrough
    width: 3
`

func TestLoader_LoadBuildsAppFromYAML(t *testing.T) {
	loader := NewLoader(testRegistry())

	app, err := loader.Load(context.Background(), []byte(validYAML))
	require.NoError(t, err)
	require.NotNil(t, app)

	children := app.Root().Children()
	assert.Len(t, children, 3)

	names := make(map[string]bool, len(children))
	for _, c := range children {
		names[c.Name()] = true
	}
	assert.True(t, names["workers[0]"])
	assert.True(t, names["workers[1]"])
	assert.True(t, names["workers[2]"])
}

func TestLoader_LoadRejectsUnknownBankType(t *testing.T) {
	loader := NewLoader(testRegistry())

	const yamlDoc = `
version: "1.0.0"
metadata:
  name: demo
banks:
  - id: workers
    type: nonexistent
    width: 1
`
	_, err := loader.Load(context.Background(), []byte(yamlDoc))
	assert.Error(t, err)
}

func TestLoader_LoadRejectsMissingRequiredFields(t *testing.T) {
	loader := NewLoader(testRegistry())

	const yamlDoc = `
metadata:
  name: demo
banks:
  - id: workers
    type: passthrough
    width: 1
`
	_, err := loader.Load(context.Background(), []byte(yamlDoc))
	assert.Error(t, err)
}

func TestLoader_LoadCachesByContentHash(t *testing.T) {
	loader := NewLoader(testRegistry())

	first, err := loader.Load(context.Background(), []byte(validYAML))
	require.NoError(t, err)

	second, err := loader.Load(context.Background(), []byte(validYAML))
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestRegistry_RegisterPanicsOnDuplicate(t *testing.T) {
	r := testRegistry()
	assert.Panics(t, func() {
		r.Register("passthrough", passthroughFactory)
	})
}
