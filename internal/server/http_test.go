package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPServer(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	s := NewHTTPServer(handler, ":8000")

	require.NotNil(t, s)
	assert.Equal(t, ":8000", s.Address())
}

func TestHTTPServer_StartAndStop(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Grab a free port, then release it for the server.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	s := NewHTTPServer(handler, addr)

	done := make(chan error, 1)
	go func() {
		done <- s.Start(NewPlainListener())
	}()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(fmt.Sprintf("http://%s/", addr))
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, <-done)
}

func TestHTTPServer_Start_ListenError(t *testing.T) {
	s := NewHTTPServer(http.NotFoundHandler(), "invalid-address")

	err := s.Start(NewPlainListener())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
