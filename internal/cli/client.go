package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/coder/websocket"
)

type Client struct {
	conn *websocket.Conn
}

func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Send(ctx context.Context, text string) error {
	return c.conn.Write(ctx, websocket.MessageText, []byte(text))
}

// Recv returns the next text message, skipping anything else.
func (c *Client) Recv(ctx context.Context) (string, error) {
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			return "", err
		}
		if typ == websocket.MessageText {
			return string(data), nil
		}
	}
}

func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}

// Stream prints messages to w until ctx ends or the server closes. Neither
// case is an error.
func (c *Client) Stream(ctx context.Context, w io.Writer) error {
	for {
		msg, err := c.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		fmt.Fprintln(w, msg)
	}
}
