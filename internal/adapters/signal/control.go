package signal

import "github.com/dkeye/meetsignal/internal/core"

func (ctl *SignalWSController) handlePing(c *WsSignalConn) {
	ctl.sendJSON(c, core.Envelope{Type: core.TypePong})
}
