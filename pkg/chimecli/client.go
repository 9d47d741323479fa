// Package chimecli is the client library for the chimed daemon socket.
package chimecli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/chimed/chimed/common"
)

type Client struct {
	mu   *sync.RWMutex
	d    *Dispatcher
	conn net.Conn
}

// NewClient connects to the daemon over the unix socket (or named pipe),
// falling back to TCP.
func NewClient() (*Client, error) {
	conn, err := dial()
	if err != nil {
		return nil, fmt.Errorf("error connecting to daemon: %s", err.Error())
	}
	return &Client{
		conn: conn,
		mu:   &sync.RWMutex{},
		d:    &Dispatcher{Handlers: make(map[common.UpdateType]Handler)},
	}, nil
}

// Dispatcher returns the client's update dispatcher for handler
// registration.
func (c *Client) Dispatcher() *Dispatcher {
	return c.d
}

// Close closes the daemon connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Listen blocks reading pushed updates (alert events) and dispatches them
// to registered handlers. It returns when the connection drops or a
// handler returns ErrDisconnect.
func (c *Client) Listen() (err error) {
	defer c.conn.Close()
	for {
		c.mu.RLock()
		var buf []byte
		buf, err = read(c.conn)
		if err != nil {
			c.mu.RUnlock()
			err = fmt.Errorf("error reading: %s", err.Error())
			return
		}
		err = c.d.process(buf)
		if err != nil {
			c.mu.RUnlock()
			if err == ErrDisconnect {
				err = nil
				break
			}
			err = fmt.Errorf("error processing: %s", err.Error())
			return
		}
		c.mu.RUnlock()
	}
	return
}

func (c *Client) invoke(method common.UpdateType, message any) (json.RawMessage, error) {
	// Block the updates listener while invoking a method to retrieve the
	// response here instead.
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, err := json.Marshal(&Request{
		Method:  method,
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	err = write(c.conn, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	buf, err = read(c.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	var res Response
	err = json.Unmarshal(buf, &res)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %s", method, err.Error())
	}
	if !res.Ok {
		return nil, errors.New(res.Error)
	}
	if res.Update == nil {
		return nil, nil
	}
	return res.Update.Message, nil
}
