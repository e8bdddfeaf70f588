package builtins

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"clock/internal/runtime"
)

// socketManager tracks open websocket connections by caller-chosen name,
// mirroring connManager's shape in db.go. Clock's evaluator runs a single
// goroutine, so every socket operation here is synchronous: ws_send and
// ws_receive block the interpreter the way a blocking read() would.
type socketManager struct {
	mu    sync.Mutex
	conns map[string]*websocket.Conn
}

var socketMgr = &socketManager{conns: make(map[string]*websocket.Conn)}

var wsDialer = websocket.Dialer{HandshakeTimeout: 10 * time.Second}

func wsConnect(args []runtime.Value) runtime.Value {
	id, url, ok := stringArgs2(args, "ws_connect")
	if !ok {
		return runtime.Bool(false)
	}
	socketMgr.mu.Lock()
	defer socketMgr.mu.Unlock()
	if _, exists := socketMgr.conns[id]; exists {
		reportBuiltinError("ws_connect", fmt.Errorf("connection %q already exists", id))
		return runtime.Bool(false)
	}
	conn, _, err := wsDialer.Dial(url, nil)
	if err != nil {
		reportBuiltinError("ws_connect", err)
		return runtime.Bool(false)
	}
	socketMgr.conns[id] = conn
	return runtime.Bool(true)
}

func wsSend(args []runtime.Value) runtime.Value {
	id, msg, ok := stringArgs2(args, "ws_send")
	if !ok {
		return runtime.Bool(false)
	}
	conn, err := socketMgr.get(id)
	if err != nil {
		reportBuiltinError("ws_send", err)
		return runtime.Bool(false)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		reportBuiltinError("ws_send", err)
		return runtime.Bool(false)
	}
	return runtime.Bool(true)
}

// ws_receive blocks until one text frame arrives, returning it as a
// String, or Null on a closed connection or transport error.
func wsReceive(args []runtime.Value) runtime.Value {
	if len(args) != 1 || args[0].Kind != runtime.StringKind {
		reportBuiltinError("ws_receive", fmt.Errorf("expects (id)"))
		return runtime.Null
	}
	conn, err := socketMgr.get(args[0].Str)
	if err != nil {
		reportBuiltinError("ws_receive", err)
		return runtime.Null
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		reportBuiltinError("ws_receive", err)
		return runtime.Null
	}
	return runtime.Str(string(data))
}

func wsClose(args []runtime.Value) runtime.Value {
	if len(args) != 1 || args[0].Kind != runtime.StringKind {
		reportBuiltinError("ws_close", fmt.Errorf("expects (id)"))
		return runtime.Bool(false)
	}
	socketMgr.mu.Lock()
	defer socketMgr.mu.Unlock()
	conn, ok := socketMgr.conns[args[0].Str]
	if !ok {
		reportBuiltinError("ws_close", fmt.Errorf("connection %q not found", args[0].Str))
		return runtime.Bool(false)
	}
	delete(socketMgr.conns, args[0].Str)
	if err := conn.Close(); err != nil {
		reportBuiltinError("ws_close", err)
		return runtime.Bool(false)
	}
	return runtime.Bool(true)
}

func (m *socketManager) get(id string) (*websocket.Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conn, ok := m.conns[id]
	if !ok {
		return nil, fmt.Errorf("connection %q not found", id)
	}
	return conn, nil
}

func stringArgs2(args []runtime.Value, name string) (a, b string, ok bool) {
	if len(args) != 2 || args[0].Kind != runtime.StringKind || args[1].Kind != runtime.StringKind {
		reportBuiltinError(name, fmt.Errorf("expects 2 string arguments"))
		return "", "", false
	}
	return args[0].Str, args[1].Str, true
}
