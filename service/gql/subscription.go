package gql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/itiky/notes-sync/model"
)

// Subprotocol is the graphql-transport-ws websocket subprotocol name.
const Subprotocol = "graphql-transport-ws"

const (
	connectionInitMessageType = "connection_init"
	connectionAckMessageType  = "connection_ack"
	pingMessageType           = "ping"
	pongMessageType           = "pong"
	subscribeMessageType      = "subscribe"
	nextMessageType           = "next"
	errorMessageType          = "error"
	completeMessageType       = "complete"
)

const (
	subscriptionId       = "1"
	handshakeTimeout     = 10 * time.Second
	closeWriteTimeout    = time.Second
	subscriptionChBuffer = 16
)

var ErrSubscriptionCompleted = errors.New("subscription completed by server")

type (
	// Message is a graphql-transport-ws protocol message.
	Message struct {
		Id      string          `json:"id,omitempty"`
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload,omitempty"`
	}

	// NoteSubscription is an active onCreateNote subscription.
	// Events channel is closed when the subscription ends, Err reports the reason.
	NoteSubscription struct {
		conn    *websocket.Conn
		writeMu sync.Mutex
		eventCh chan model.Note
		logger  *zap.Logger
		//
		closeOnce  sync.Once
		finishOnce sync.Once
		doneCh     chan struct{}
		err        error
	}
)

// SubscribeCreatedNotes opens the onCreateNote subscription.
func (c *Client) SubscribeCreatedNotes(ctx context.Context) (*NoteSubscription, error) {
	header := http.Header{}
	if c.apiKey != "" {
		header.Set(apiKeyHeader, c.apiKey)
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
		Subprotocols:     []string{Subprotocol},
	}
	conn, _, err := dialer.DialContext(ctx, c.realtimeEndpoint, header)
	if err != nil {
		return nil, fmt.Errorf("websocket dial (%s): %w", c.realtimeEndpoint, err)
	}

	s := &NoteSubscription{
		conn:    conn,
		eventCh: make(chan model.Note, subscriptionChBuffer),
		logger:  c.logger,
		doneCh:  make(chan struct{}),
	}

	if err := s.handshake(ctx, c.apiKey); err != nil {
		conn.Close()
		return nil, err
	}

	go s.readLoop()

	// Release the connection once the context is done
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.doneCh:
		}
	}()

	return s, nil
}

// Events returns created notes channel.
func (s *NoteSubscription) Events() <-chan model.Note {
	return s.eventCh
}

// Err returns the subscription termination reason (nil while active or on Close).
func (s *NoteSubscription) Err() error {
	select {
	case <-s.doneCh:
		return s.err
	default:
		return nil
	}
}

// Close unsubscribes and closes the connection; safe to call multiple times.
func (s *NoteSubscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.finish(nil)

		_ = s.write(Message{Id: subscriptionId, Type: completeMessageType})
		s.writeMu.Lock()
		_ = s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeWriteTimeout),
		)
		s.writeMu.Unlock()
		err = s.conn.Close()
	})

	return err
}

// handshake performs connection init and subscribe steps.
func (s *NoteSubscription) handshake(ctx context.Context, apiKey string) error {
	initPayload := map[string]string{}
	if apiKey != "" {
		initPayload[apiKeyHeader] = apiKey
	}
	rawInit, err := sonic.Marshal(initPayload)
	if err != nil {
		return fmt.Errorf("connection_init marshal: %w", err)
	}
	if err := s.write(Message{Type: connectionInitMessageType, Payload: rawInit}); err != nil {
		return fmt.Errorf("connection_init: %w", err)
	}

	deadline := time.Now().Add(handshakeTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = s.conn.SetReadDeadline(deadline)
	for {
		msg, err := s.read()
		if err != nil {
			return fmt.Errorf("waiting for connection_ack: %w", err)
		}
		if msg.Type == pingMessageType {
			if err := s.write(Message{Type: pongMessageType}); err != nil {
				return fmt.Errorf("pong: %w", err)
			}
			continue
		}
		if msg.Type != connectionAckMessageType {
			return fmt.Errorf("unexpected message while waiting for connection_ack: %s", msg.Type)
		}
		break
	}
	_ = s.conn.SetReadDeadline(time.Time{})

	rawSubscribe, err := sonic.Marshal(Request{
		Query:         OnCreateNoteSubscription,
		OperationName: "OnCreateNote",
	})
	if err != nil {
		return fmt.Errorf("subscribe marshal: %w", err)
	}
	if err := s.write(Message{Id: subscriptionId, Type: subscribeMessageType, Payload: rawSubscribe}); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	return nil
}

// readLoop handles incoming messages until the connection is closed.
func (s *NoteSubscription) readLoop() {
	defer close(s.eventCh)

	for {
		msg, err := s.read()
		if err != nil {
			s.finish(fmt.Errorf("read: %w", err))
			return
		}

		switch msg.Type {
		case pingMessageType:
			if err := s.write(Message{Type: pongMessageType}); err != nil {
				s.finish(fmt.Errorf("pong: %w", err))
				return
			}
		case pongMessageType:
		case nextMessageType:
			res := Response{}
			if err := sonic.Unmarshal(msg.Payload, &res); err != nil {
				s.logger.Warn("subscription event: unmarshal", zap.Error(err))
				continue
			}
			if len(res.Errors) > 0 {
				s.logger.Warn("subscription event: errors", zap.Error(&ResponseError{Operation: "OnCreateNote", Errors: res.Errors}))
				continue
			}

			event := model.OnCreateNoteEvent{}
			if err := sonic.Unmarshal(res.Data, &event); err != nil {
				s.logger.Warn("subscription event: data unmarshal", zap.Error(err))
				continue
			}

			select {
			case s.eventCh <- event.OnCreateNote:
			case <-s.doneCh:
				return
			}
		case errorMessageType:
			items := make([]ErrorItem, 0)
			if err := sonic.Unmarshal(msg.Payload, &items); err != nil {
				s.finish(fmt.Errorf("subscription error: %s", string(msg.Payload)))
				return
			}
			s.finish(&ResponseError{Operation: "OnCreateNote", Errors: items})
			return
		case completeMessageType:
			s.finish(ErrSubscriptionCompleted)
			return
		default:
			s.logger.Debug("subscription: unexpected message", zap.String("type", msg.Type))
		}
	}
}

// finish marks the subscription as done with the specified reason (the first call wins).
func (s *NoteSubscription) finish(err error) {
	s.finishOnce.Do(func() {
		s.err = err
		close(s.doneCh)
	})
}

func (s *NoteSubscription) read() (Message, error) {
	msg := Message{}

	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return msg, err
	}
	if err := sonic.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("message unmarshal: %w", err)
	}

	return msg, nil
}

func (s *NoteSubscription) write(msg Message) error {
	data, err := sonic.Marshal(msg)
	if err != nil {
		return fmt.Errorf("message marshal: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// websocketURL converts http(s) endpoint into ws(s) one.
func websocketURL(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme: %q", u.Scheme)
	}

	return u.String(), nil
}
