// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package transport

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned by Send on a connection that has been closed.
var ErrClosed = errors.New("connection closed")

var _ Dialer = (*WebsocketDialer)(nil)

// WebsocketDialer dials websocket peers.
type WebsocketDialer struct {
	// DialTimeout bounds the websocket handshake.
	DialTimeout time.Duration

	// WriteTimeout bounds each outbound frame write.
	WriteTimeout time.Duration

	// MaxFrameSize caps inbound frames; oversized frames fail the read
	// loop and close the connection.
	MaxFrameSize int64
}

// Dial starts connecting to [url] in the background and returns the
// connection handle immediately. Frames sent before the handshake completes
// are queued and flushed on open.
func (d *WebsocketDialer) Dial(url string, cb Callbacks) (Conn, error) {
	c := &wsConn{
		cb:           cb,
		writeTimeout: d.WriteTimeout,
	}
	go func() {
		dialer := websocket.Dialer{HandshakeTimeout: d.DialTimeout}
		ws, resp, err := dialer.Dial(url, nil)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			c.fail(fmt.Errorf("dialing %s: %w", url, err))
			return
		}
		if d.MaxFrameSize > 0 {
			ws.SetReadLimit(d.MaxFrameSize)
		}
		if !c.attach(ws) {
			// closed while dialing
			ws.Close()
			return
		}
		if cb.Open != nil {
			cb.Open()
		}
		c.readPump(ws)
	}()
	return c, nil
}

// wsConn wraps a gorilla connection behind the Conn contract. The websocket
// handle is nil until the dial handshake completes; writes are serialized by
// the mutex since gorilla allows a single concurrent writer.
type wsConn struct {
	mu           sync.Mutex
	ws           *websocket.Conn
	cb           Callbacks
	writeTimeout time.Duration
	queued       []string
	closed       bool
}

func (c *wsConn) attach(ws *websocket.Conn) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.ws = ws
	queued := c.queued
	c.queued = nil
	c.mu.Unlock()

	for _, data := range queued {
		c.Send(data)
	}
	return true
}

func (c *wsConn) fail(err error) {
	c.mu.Lock()
	alreadyClosed := c.closed
	c.closed = true
	c.mu.Unlock()
	if alreadyClosed {
		return
	}
	if c.cb.Error != nil {
		c.cb.Error(err)
	}
	if c.cb.Close != nil {
		c.cb.Close()
	}
}

func (c *wsConn) readPump(ws *websocket.Conn) {
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			c.mu.Lock()
			alreadyClosed := c.closed
			c.closed = true
			c.mu.Unlock()
			if !alreadyClosed {
				if !websocket.IsCloseError(err,
					websocket.CloseNormalClosure,
					websocket.CloseGoingAway,
				) && c.cb.Error != nil {
					c.cb.Error(err)
				}
				if c.cb.Close != nil {
					c.cb.Close()
				}
			}
			return
		}
		if c.cb.Message != nil {
			c.cb.Message(string(data))
		}
	}
}

func (c *wsConn) Send(data string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.ws == nil {
		c.queued = append(c.queued, data)
		return nil
	}
	if c.writeTimeout > 0 {
		c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.ws.WriteMessage(websocket.TextMessage, []byte(data))
}

func (c *wsConn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	ws := c.ws
	c.mu.Unlock()

	if ws != nil {
		ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		ws.Close()
	}
	if c.cb.Close != nil {
		c.cb.Close()
	}
	return nil
}

// serveConn is an accepted inbound connection. The websocket handle exists
// from the start, so no queueing is needed.
type serveConn struct {
	mu           sync.Mutex
	ws           *websocket.Conn
	cb           Callbacks
	writeTimeout time.Duration
	closed       bool
}

func (c *serveConn) readPump() {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.mu.Lock()
			alreadyClosed := c.closed
			c.closed = true
			c.mu.Unlock()
			if !alreadyClosed {
				if !websocket.IsCloseError(err,
					websocket.CloseNormalClosure,
					websocket.CloseGoingAway,
				) && c.cb.Error != nil {
					c.cb.Error(err)
				}
				if c.cb.Close != nil {
					c.cb.Close()
				}
			}
			return
		}
		if c.cb.Message != nil {
			c.cb.Message(string(data))
		}
	}
}

func (c *serveConn) Send(data string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.writeTimeout > 0 {
		c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.ws.WriteMessage(websocket.TextMessage, []byte(data))
}

func (c *serveConn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.ws.Close()
	if c.cb.Close != nil {
		c.cb.Close()
	}
	return nil
}

// wsListener serves the websocket upgrade endpoint.
type wsListener struct {
	ln  net.Listener
	srv *http.Server
}

func (l *wsListener) Addr() string {
	return l.ln.Addr().String()
}

func (l *wsListener) Close() error {
	return l.srv.Close()
}

// Listen accepts inbound websocket connections on [addr], attaching the
// callbacks [accept] returns to each.
func Listen(addr string, accept AcceptFunc) (Listener, error) {
	return listen(addr, accept, 0, 0)
}

// ListenWith is Listen with explicit write-timeout and frame-size limits.
func ListenWith(addr string, accept AcceptFunc, writeTimeout time.Duration, maxFrameSize int64) (Listener, error) {
	return listen(addr, accept, writeTimeout, maxFrameSize)
}

func listen(addr string, accept AcceptFunc, writeTimeout time.Duration, maxFrameSize int64) (Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ws, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			if maxFrameSize > 0 {
				ws.SetReadLimit(maxFrameSize)
			}
			c := &serveConn{ws: ws, writeTimeout: writeTimeout}
			c.cb = accept(c)
			if c.cb.Open != nil {
				c.cb.Open()
			}
			c.readPump()
		}),
	}
	go srv.Serve(ln)
	return &wsListener{ln: ln, srv: srv}, nil
}
