package signal

import (
	"github.com/dkeye/meetsignal/internal/app"
	"github.com/dkeye/meetsignal/internal/app/orch"
)

func (ctl *SignalWSController) handleModeration(c *WsSignalConn, action app.ModerationAction, data []byte) {
	p, ok := bind[orch.ModerationRequest](ctl, c, action.String()+"-participant", data)
	if !ok {
		return
	}
	ctl.Orch.Moderate(c.id, action, p)
}
