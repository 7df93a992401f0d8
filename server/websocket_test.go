package server

import (
	"context"
	"net"
	"testing"
	"time"

	fws "github.com/fasthttp/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uyouii/mollifier/config"
	"github.com/uyouii/mollifier/view"
)

// startServer serves s on a loopback port and returns its address.
func startServer(t *testing.T, s *Server) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = s.App().Listener(ln) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return ln.Addr().String()
}

func dialConvolution(t *testing.T, addr, id string) *fws.Conn {
	conn, resp, err := fws.DefaultDialer.Dial("ws://"+addr+"/ws/sessions/"+id+"/convolution", nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *fws.Conn) wsMessage {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestConvolutionStream(t *testing.T) {
	cfg, err := config.Load(nil)
	require.NoError(t, err)
	cfg.AnimationInterval = 5 * time.Millisecond
	cfg.AnimationStep = 0.01
	s := NewServer(cfg)
	addr := startServer(t, s)

	sess, err := s.Sessions().Create(context.Background())
	require.NoError(t, err)

	first := dialConvolution(t, addr, sess.ID)
	msg := readMessage(t, first)
	require.NotNil(t, msg.Scene)
	assert.Equal(t, view.ConvolutionView, msg.Scene.View)
	assert.Equal(t, -2.5, msg.Scene.Params["position"])

	second := dialConvolution(t, addr, sess.ID)
	msg = readMessage(t, second)
	require.NotNil(t, msg.Scene)

	// every action is answered with the new scene
	require.NoError(t, second.WriteJSON(view.Action{Type: view.ActionSetEpsilon, Value: 0.5}))
	msg = readMessage(t, second)
	require.NotNil(t, msg.Scene)
	assert.Equal(t, 0.5, msg.Scene.Params["eps"])

	require.NoError(t, second.WriteJSON(view.Action{Type: "zoom"}))
	msg = readMessage(t, second)
	assert.Nil(t, msg.Scene)
	assert.Contains(t, msg.Error, "zoom")

	// the first client leaving must not stop ticks to the second
	require.NoError(t, first.Close())
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, second.WriteJSON(view.Action{Type: view.ActionToggle}))
	msg = readMessage(t, second)
	require.NotNil(t, msg.Scene)
	assert.Equal(t, 1.0, msg.Scene.Params["playing"])
	start := msg.Scene.Params["position"]

	var last float64
	for i := 0; i < 4; i++ {
		msg = readMessage(t, second)
		require.NotNil(t, msg.Scene, msg.Error)
		assert.Equal(t, 0.5, msg.Scene.Params["eps"])
		last = msg.Scene.Params["position"]
	}
	assert.Greater(t, last, start)
}

func TestConvolutionStreamUnknownSession(t *testing.T) {
	s := newTestServer(t)
	addr := startServer(t, s)

	conn := dialConvolution(t, addr, "nope")
	msg := readMessage(t, conn)
	assert.Nil(t, msg.Scene)
	assert.NotEmpty(t, msg.Error)
}
