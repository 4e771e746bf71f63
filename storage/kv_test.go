package storage

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
)

// startJetStream runs an embedded NATS server with JetStream for the test.
func startJetStream(t *testing.T) jetstream.JetStream {
	t.Helper()

	ns, err := server.NewServer(&server.Options{
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
		NoLog:     true,
		NoSigs:    true,
	})
	require.NoError(t, err)

	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		t.Fatal("embedded NATS server failed to start")
	}
	t.Cleanup(ns.Shutdown)

	nc, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	js, err := jetstream.New(nc)
	require.NoError(t, err)
	return js
}

func TestKVStore(t *testing.T) {
	testStoreContract(t, func(t *testing.T) Store {
		s, err := NewKVStore(context.Background(), startJetStream(t))
		require.NoError(t, err)
		return s
	})
}

func TestKVStoreReopensBuckets(t *testing.T) {
	ctx := context.Background()
	js := startJetStream(t)

	first, err := NewKVStore(ctx, js)
	require.NoError(t, err)
	id, err := first.NextLexemeID(ctx)
	require.NoError(t, err)
	require.Equal(t, "L1", id.String())

	second, err := NewKVStore(ctx, js)
	require.NoError(t, err)
	id, err = second.NextLexemeID(ctx)
	require.NoError(t, err)
	require.Equal(t, "L2", id.String())
}
