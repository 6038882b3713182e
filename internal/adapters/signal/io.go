package signal

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/meetsignal/internal/app"
	"github.com/dkeye/meetsignal/internal/core"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "adapters.signal").Str("conn", string(c.id)).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "adapters.signal").Str("conn", string(c.id)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump owns the connection lifetime: when it returns the connection is
// unregistered and the orchestrator runs the leave path.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, c *WsSignalConn) {
	defer func() {
		cancel()
		c.Close()
		ctl.unregister(c.id)
		ctl.Orch.OnDisconnect(c.id)
	}()

	pongWait := ctl.opts.PingPeriod * 10 / 9
	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go func() {
		<-ctx.Done()
		_ = c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "adapters.signal").Str("conn", string(c.id)).Msg("readPump read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if !c.allow() {
			log.Warn().Str("module", "adapters.signal").Str("conn", string(c.id)).Msg("rate limited, message dropped")
			continue
		}
		ctl.handleSignal(c, data)
	}
}

func (ctl *SignalWSController) handleSignal(c *WsSignalConn, data []byte) {
	var env core.Inbound
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "adapters.signal").Str("conn", string(c.id)).Msg("bad json")
		return
	}

	switch env.Type {
	case core.TypeJoinMeeting:
		ctl.handleJoin(c, env.Payload)
	case core.TypeLeaveMeeting:
		ctl.handleLeave(c, env.Payload)
	case core.TypeOffer, core.TypeAnswer, core.TypeICECandidate:
		ctl.handleRelay(c, env.Type, env.Payload)
	case core.TypeChatMessage:
		ctl.handleChat(c, env.Payload)
	case core.TypeUpdateParticipantState:
		ctl.handleState(c, env.Payload)
	case core.TypeMuteParticipant:
		ctl.handleModeration(c, app.ActionMute, env.Payload)
	case core.TypeUnmuteParticipant:
		ctl.handleModeration(c, app.ActionUnmute, env.Payload)
	case core.TypeRemoveParticipant:
		ctl.handleModeration(c, app.ActionRemove, env.Payload)
	case core.TypeStartCall:
		ctl.handleStartCall(c, env.Payload)
	case core.TypeCheckCallStatus:
		ctl.handleCheckCall(c, env.Payload)
	case core.TypeEndCall:
		ctl.handleEndCall(c, env.Payload)
	case core.TypePing:
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "adapters.signal").Str("type", env.Type).Msg("unknown signal")
	}
}

// bind decodes and validates a payload. Failures are logged and the message
// is dropped without telling the client.
func bind[T any](ctl *SignalWSController, c *WsSignalConn, typ string, raw []byte) (T, bool) {
	var p T
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Warn().Err(err).Str("module", "adapters.signal").Str("conn", string(c.id)).Str("type", typ).Msg("bad payload")
		return p, false
	}
	if err := ctl.validate.Struct(p); err != nil {
		log.Warn().Err(err).Str("module", "adapters.signal").Str("conn", string(c.id)).Str("type", typ).Msg("invalid payload")
		return p, false
	}
	return p, true
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, env core.Envelope) {
	b, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Msg("sendJSON marshal")
		return
	}
	ctl.trySend(c, env.Type, b)
}

func (ctl *SignalWSController) trySend(c *WsSignalConn, typ string, b []byte) {
	if err := c.TrySend(b); err != nil {
		ev := log.Warn()
		if errors.Is(err, ErrConnClosed) {
			ev = log.Debug()
		}
		ev.Err(err).Str("module", "adapters.signal").Str("conn", string(c.id)).Str("type", typ).Msg("frame dropped")
	}
}

var (
	_ core.Transport        = (*SignalWSController)(nil)
	_ core.SignalConnection = (*WsSignalConn)(nil)
)
