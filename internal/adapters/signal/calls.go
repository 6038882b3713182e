package signal

import (
	"github.com/dkeye/meetsignal/internal/app/orch"
	"github.com/dkeye/meetsignal/internal/core"
)

func (ctl *SignalWSController) handleStartCall(c *WsSignalConn, data []byte) {
	p, ok := bind[orch.StartCallRequest](ctl, c, core.TypeStartCall, data)
	if !ok {
		return
	}
	ctl.Orch.StartCall(c.id, p)
}

func (ctl *SignalWSController) handleCheckCall(c *WsSignalConn, data []byte) {
	p, ok := bind[orch.CallRequest](ctl, c, core.TypeCheckCallStatus, data)
	if !ok {
		return
	}
	ctl.Orch.CheckCallStatus(c.id, p)
}

func (ctl *SignalWSController) handleEndCall(c *WsSignalConn, data []byte) {
	p, ok := bind[orch.CallRequest](ctl, c, core.TypeEndCall, data)
	if !ok {
		return
	}
	ctl.Orch.EndCall(c.id, p)
}
