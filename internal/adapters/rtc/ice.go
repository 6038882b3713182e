package rtc

import (
	"github.com/pion/webrtc/v4"
)

const DefaultSTUN = "stun:stun.l.google.com:19302"

// ICEConfig is what browsers need to build their RTCPeerConnection. The
// server only relays signaling; it never terminates media itself.
type ICEConfig struct {
	ICEServers []webrtc.ICEServer `json:"iceServers"`
}

func DefaultICEConfig() ICEConfig {
	return ICEConfig{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: []string{DefaultSTUN},
			},
		},
	}
}

// NewICEConfig drops entries without URLs and falls back to the default STUN server.
// A credential without a username is dropped.
func NewICEConfig(configured []webrtc.ICEServer) ICEConfig {
	servers := make([]webrtc.ICEServer, 0, len(configured))
	for _, s := range configured {
		if len(s.URLs) == 0 {
			continue
		}
		srv := webrtc.ICEServer{URLs: s.URLs}
		if s.Username != "" {
			srv.Username = s.Username
			srv.Credential = s.Credential
		}
		servers = append(servers, srv)
	}
	if len(servers) == 0 {
		return DefaultICEConfig()
	}
	return ICEConfig{ICEServers: servers}
}

// Configuration returns the equivalent pion configuration.
func (c ICEConfig) Configuration() webrtc.Configuration {
	return webrtc.Configuration{ICEServers: c.ICEServers}
}
