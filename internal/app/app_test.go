package app

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/Oktaederim/RLT-Berechnung/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	server    config.ServerData
	serverErr error
}

func (p *fakeProvider) LoadConfig() (*config.ConfigData, error) {
	return &config.ConfigData{Server: p.server, Defaults: config.DefaultInputs()}, nil
}
func (p *fakeProvider) GetServer() (*config.ServerData, error)   { return &p.server, p.serverErr }
func (p *fakeProvider) GetLogging() (*config.LoggingData, error) { return &config.LoggingData{}, nil }
func (p *fakeProvider) GetDefaults() (*config.InputsData, error) {
	d := config.DefaultInputs()
	return &d, nil
}
func (p *fakeProvider) GetPresets() ([]config.PresetData, error) { return nil, nil }
func (p *fakeProvider) IsReadOnly() bool                         { return true }
func (p *fakeProvider) Close() error                             { return nil }

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestRunStopsOnCancel(t *testing.T) {
	provider := &fakeProvider{server: config.ServerData{ListenAddr: "127.0.0.1", Port: freePort(t)}}
	a := New(provider, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunServerConfigError(t *testing.T) {
	provider := &fakeProvider{serverErr: errors.New("boom")}
	err := New(provider, zap.NewNop().Sugar()).Run(context.Background())
	assert.ErrorContains(t, err, "boom")
}
