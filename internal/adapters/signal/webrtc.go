package signal

import "github.com/dkeye/meetsignal/internal/app/orch"

// handleRelay forwards offer/answer/ice-candidate payloads verbatim; the
// server never inspects SDP or candidates.
func (ctl *SignalWSController) handleRelay(c *WsSignalConn, kind string, data []byte) {
	p, ok := bind[orch.RelayRequest](ctl, c, kind, data)
	if !ok {
		return
	}
	ctl.Orch.Relay(kind, c.id, p)
}
