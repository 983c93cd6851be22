package server

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"
	"github.com/viant/mcp-protocol/schema"
)

// levelHolder keeps the client selected logging level; nothing is sent until the client sets one.
type levelHolder struct {
	mux   sync.RWMutex
	level schema.LoggingLevel
	isSet bool
}

func (l *levelHolder) set(level schema.LoggingLevel) {
	l.mux.Lock()
	defer l.mux.Unlock()
	l.level = level
	l.isSet = true
}

func (l *levelHolder) get() (schema.LoggingLevel, bool) {
	l.mux.RLock()
	defer l.mux.RUnlock()
	return l.level, l.isSet
}

// Logger sends notifications/message to the connected client
type Logger struct {
	name     string
	level    *levelHolder
	notifier transport.Notifier
}

// Logger creates a new logger with a name sharing the level
func (l *Logger) Logger(name string) *Logger {
	return &Logger{
		name:     name,
		level:    l.level,
		notifier: l.notifier,
	}
}

func (l *Logger) log(ctx context.Context, level schema.LoggingLevel, data any) error {
	threshold, ok := l.level.get()
	if !ok || threshold.Ordinal() > level.Ordinal() {
		return nil
	}
	notification := &jsonrpc.Notification{Method: schema.MethodNotificationMessage}
	params := schema.LoggingMessageNotificationParams{
		Level:  level,
		Logger: &l.name,
		Data:   data,
	}
	var err error
	if notification.Params, err = json.Marshal(params); err != nil {
		return err
	}
	return l.notifier.Notify(ctx, notification)
}

func (l *Logger) Debug(ctx context.Context, data interface{}) error {
	return l.log(ctx, schema.LoggingLevelDebug, data)
}

func (l *Logger) Info(ctx context.Context, data interface{}) error {
	return l.log(ctx, schema.LoggingLevelInfo, data)
}

func (l *Logger) Warning(ctx context.Context, data interface{}) error {
	return l.log(ctx, schema.LoggingLevelWarning, data)
}

func (l *Logger) Error(ctx context.Context, data interface{}) error {
	return l.log(ctx, schema.LoggingLevelError, data)
}

func NewLogger(name string, level *levelHolder, notifier transport.Notifier) *Logger {
	return &Logger{
		name:     name,
		level:    level,
		notifier: notifier,
	}
}
