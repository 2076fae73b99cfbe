package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"tinytrans/internal/ports"
)

type providerStub struct{ err error }

func (p providerStub) Translate(ctx context.Context, seg ports.Segment, tp ports.TranslateParams) (ports.TranslateResult, error) {
	return ports.TranslateResult{}, nil
}
func (p providerStub) ListModels(ctx context.Context) ([]ports.ModelInfo, error) { return nil, p.err }
func (p providerStub) Test(ctx context.Context) error                            { return p.err }

func TestRegistry(t *testing.T) {
	down := errors.New("connection refused")
	r := New()
	r.Register("local", providerStub{})
	r.Register("remote", providerStub{err: down})
	r.Register("broken", nil)

	require.Equal(t, []string{"broken", "local", "remote"}, r.Names())
	_, ok := r.Get("local")
	require.True(t, ok)
	_, ok = r.Get("missing")
	require.False(t, ok)

	res := r.HealthCheck(context.Background())
	require.NoError(t, res["local"])
	require.ErrorIs(t, res["remote"], down)
	require.EqualError(t, res["broken"], "nil provider")
}
