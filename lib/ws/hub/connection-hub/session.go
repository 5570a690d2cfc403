package connectionhub

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

const sendBufferSize = 16

type clientSession struct {
	conn *websocket.Conn

	// Outbound messages, buffered.
	sendCh   chan any
	ctx      context.Context
	cancel   func()
	stopOnce sync.Once
}

func newSession(conn *websocket.Conn) *clientSession {
	ctx, cancelFn := context.WithCancel(context.Background())
	sess := &clientSession{
		conn:   conn,
		sendCh: make(chan any, sendBufferSize),
		ctx:    ctx,
		cancel: cancelFn,
	}
	go sess.startSend()
	return sess
}

// push drops the message when the session is stopped or the buffer is full.
func (s *clientSession) push(msg any) {
	select {
	case <-s.ctx.Done():
	case s.sendCh <- msg:
	default:
		log.Warn("ws send buffer is full, message dropped")
	}
}

func (s *clientSession) stop() {
	s.stopOnce.Do(s.cancel)
}

func (s *clientSession) startSend() {
	for {
		select {
		case <-s.ctx.Done():
			s.close()
			return
		case msg := <-s.sendCh:
			if err := s.send(msg); err != nil {
				log.WithError(err).Error("failed to send ws message")
			}
		}
	}
}

func (s *clientSession) send(msg interface{}) error {
	if s.conn == nil || s.conn.Conn == nil {
		return nil
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		return err
	}
	log.Debugf("ws message sent: %v", msg)
	return nil
}

func (s *clientSession) close() {
	if s.conn == nil || s.conn.Conn == nil {
		return
	}
	err := s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	if err != nil {
		log.WithError(err).Debug("ws close failed")
	}
}
