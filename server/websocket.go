package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/uyouii/mollifier/common"
	"github.com/uyouii/mollifier/model"
	"github.com/uyouii/mollifier/utils"
	"github.com/uyouii/mollifier/view"
)

const (
	writeWait = 10 * time.Second
	// frames queued for a slow client before ticks are dropped
	frameBuffer = 8
)

type wsMessage struct {
	Scene *model.Scene `json:"scene,omitempty"`
	Error string       `json:"error,omitempty"`
}

// handleConvolutionWS streams the sliding demo. The client sends actions;
// the server answers each with a scene and pushes one more per animation tick.
// Every open stream of the session receives the ticks. Only the write pump
// writes to the connection.
func (s *Server) handleConvolutionWS(conn *websocket.Conn) {
	ctx := context.Background()
	logger := utils.GetLogger(ctx).With(zap.String("session", conn.Params("id")))

	conv, err := s.convolutionOf(conn.Params("id"))
	if err != nil {
		_ = conn.WriteJSON(wsMessage{Error: err.Error()})
		_ = conn.Close()
		return
	}

	out := make(chan wsMessage, frameBuffer)
	stop := make(chan struct{})
	writerDone := make(chan struct{})
	go writePump(conn, out, stop, writerDone, logger)

	push := func(msg wsMessage) {
		select {
		case out <- msg:
		case <-writerDone:
		}
	}

	removeListener := conv.AddFrameListener(func(_ context.Context, scene *model.Scene) {
		select {
		case out <- wsMessage{Scene: scene}:
		default:
			// the next tick carries a fresher frame anyway
		}
	})

	if scene, err := conv.Scene(ctx); err == nil {
		push(wsMessage{Scene: scene})
	}

	logger.Info("convolution stream opened")
	for {
		var action view.Action
		if err := conn.ReadJSON(&action); err != nil {
			break
		}
		if err := conv.Apply(ctx, action); err != nil {
			push(wsMessage{Error: err.Error()})
			continue
		}
		scene, err := conv.Scene(ctx)
		if err != nil {
			push(wsMessage{Error: err.Error()})
			continue
		}
		push(wsMessage{Scene: scene})
	}

	// out stays open: a tick already in flight may still send to it
	removeListener()
	close(stop)
	<-writerDone
	logger.Info("convolution stream closed")
}

func writePump(conn *websocket.Conn, out <-chan wsMessage, stop <-chan struct{}, done chan<- struct{},
	logger *zap.Logger) {
	defer close(done)
	for {
		select {
		case msg := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				logger.Debug("websocket write failed", zap.Error(err))
				_ = conn.Close()
				return
			}
		case <-stop:
			return
		}
	}
}

func (s *Server) convolutionOf(id string) (*view.Convolution, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	v, err := sess.View(view.ConvolutionView)
	if err != nil {
		return nil, err
	}
	conv, ok := v.(*view.Convolution)
	if !ok {
		return nil, fmt.Errorf("%s is not animated: %w", v.Name(), common.ErrorUnknownView)
	}
	return conv, nil
}
