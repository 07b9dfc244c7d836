package httpapi

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServer_StartAndStop(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
	server := NewServer("127.0.0.1:0", handler, time.Second, zap.NewNop())
	require.NoError(t, server.Start())

	resp, err := http.Get("http://" + server.Addr() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	assert.NoError(t, server.Stop())
}

func TestServer_StopBeforeStart(t *testing.T) {
	server := NewServer("127.0.0.1:0", http.NotFoundHandler(), time.Second, zap.NewNop())
	assert.NoError(t, server.Stop())
}
