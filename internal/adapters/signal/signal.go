package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/meetsignal/internal/app/orch"
	"github.com/dkeye/meetsignal/internal/core"
	"github.com/dkeye/meetsignal/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

type Options struct {
	ReadLimit     int64
	PingPeriod    time.Duration
	WriteWait     time.Duration
	SendBuffer    int
	RatePerSecond float64
	RateBurst     int
}

func DefaultOptions() Options {
	return Options{
		ReadLimit:     64 * 1024,
		PingPeriod:    54 * time.Second,
		WriteWait:     10 * time.Second,
		SendBuffer:    64,
		RatePerSecond: 50,
		RateBurst:     100,
	}
}

// SignalWSController is the connection gateway. It owns every open
// connection, feeds inbound messages to the orchestrator and implements
// core.Transport for the way back.
type SignalWSController struct {
	Orch *orch.Orchestrator

	opts     Options
	validate *validator.Validate

	mu    sync.RWMutex
	conns map[domain.ConnID]*WsSignalConn
}

func NewSignalWSController(o *orch.Orchestrator, opts Options) *SignalWSController {
	ctl := &SignalWSController{
		Orch:     o,
		opts:     opts,
		validate: validator.New(),
		conns:    make(map[domain.ConnID]*WsSignalConn),
	}
	o.Transport = ctl
	return ctl
}

type WsSignalConn struct {
	id      domain.ConnID
	conn    *websocket.Conn
	send    chan core.Frame
	limiter *rate.Limiter

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

// Close stops accepting frames. The write pump flushes what is queued, sends
// a close frame and then closes the socket.
func (c *WsSignalConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// Count reports open connections.
func (ctl *SignalWSController) Count() int {
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()
	return len(ctl.conns)
}

func (ctl *SignalWSController) Send(to domain.ConnID, env core.Envelope) {
	ctl.mu.RLock()
	c, ok := ctl.conns[to]
	ctl.mu.RUnlock()
	if !ok {
		log.Debug().Str("module", "adapters.signal").Str("conn", string(to)).Str("type", env.Type).Msg("send to unknown conn")
		return
	}
	ctl.sendJSON(c, env)
}

func (ctl *SignalWSController) SendAll(env core.Envelope) {
	b, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Msg("sendAll marshal")
		return
	}
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()
	for _, c := range ctl.conns {
		ctl.trySend(c, env.Type, b)
	}
}

func (ctl *SignalWSController) Close(id domain.ConnID) {
	ctl.mu.RLock()
	c, ok := ctl.conns[id]
	ctl.mu.RUnlock()
	if ok {
		c.Close()
	}
}

// CloseAll is used on shutdown.
func (ctl *SignalWSController) CloseAll() {
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()
	for _, c := range ctl.conns {
		c.Close()
	}
}

func (ctl *SignalWSController) register(c *WsSignalConn) {
	ctl.mu.Lock()
	ctl.conns[c.id] = c
	n := len(ctl.conns)
	ctl.mu.Unlock()
	log.Info().Str("module", "adapters.signal").Str("conn", string(c.id)).Int("connections", n).Msg("client connected")
}

func (ctl *SignalWSController) unregister(id domain.ConnID) {
	ctl.mu.Lock()
	delete(ctl.conns, id)
	n := len(ctl.conns)
	ctl.mu.Unlock()
	log.Info().Str("module", "adapters.signal").Str("conn", string(id)).Int("connections", n).Msg("client disconnected")
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and starts the connection pumps. The
// connection gets a fresh identity; nothing is bound until join-meeting.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Msg("ws upgrade")
		return
	}

	conn := &WsSignalConn{
		id:      domain.ConnID(uuid.NewString()),
		conn:    ws,
		send:    make(chan core.Frame, ctl.opts.SendBuffer),
		limiter: newConnLimiter(ctl.opts.RatePerSecond, ctl.opts.RateBurst),
	}
	log.Debug().Str("module", "adapters.signal").Str("conn", string(conn.id)).Str("client", c.GetString("client_token")).Msg("new WS connection")
	ctl.register(conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, conn)
}
