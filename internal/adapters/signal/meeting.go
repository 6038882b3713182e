package signal

import (
	"github.com/dkeye/meetsignal/internal/app/orch"
	"github.com/dkeye/meetsignal/internal/core"
)

func (ctl *SignalWSController) handleJoin(c *WsSignalConn, data []byte) {
	p, ok := bind[orch.JoinRequest](ctl, c, core.TypeJoinMeeting, data)
	if !ok {
		return
	}
	ctl.Orch.Join(c.id, p)
}

// handleLeave leaves the meeting; the connection stays open.
func (ctl *SignalWSController) handleLeave(c *WsSignalConn, data []byte) {
	p, ok := bind[orch.LeaveRequest](ctl, c, core.TypeLeaveMeeting, data)
	if !ok {
		return
	}
	ctl.Orch.Leave(c.id, p)
}

func (ctl *SignalWSController) handleChat(c *WsSignalConn, data []byte) {
	p, ok := bind[orch.ChatRequest](ctl, c, core.TypeChatMessage, data)
	if !ok {
		return
	}
	ctl.Orch.Chat(c.id, p)
}

func (ctl *SignalWSController) handleState(c *WsSignalConn, data []byte) {
	p, ok := bind[orch.StateUpdateRequest](ctl, c, core.TypeUpdateParticipantState, data)
	if !ok {
		return
	}
	ctl.Orch.UpdateState(c.id, p)
}
