package websocket

import (
	"context"
	"time"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/events"
)

// Connection is the subset of a gorilla connection the client pumps use
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)
	RemoteAddr() string
}

// Publisher pushes events to connected clients
type Publisher interface {
	Publish(ctx context.Context, event events.Event)
}
