package server

import (
	"github.com/zeusync/locomotion/internal/core/input"
	"github.com/zeusync/locomotion/internal/rig"
)

const (
	messageWelcome = "welcome"
	messageInput   = "input"
	messageEnable  = "set_enabled"
	messageState   = "state"
	messageError   = "error"
)

// clientMessage is sent by clients: input frames, or provider toggles.
type clientMessage struct {
	Type     string       `json:"type"`
	Frame    *input.Frame `json:"frame,omitempty"`
	Provider string       `json:"provider,omitempty"`
	Enabled  *bool        `json:"enabled,omitempty"`
}

type welcomeMessage struct {
	Type     string  `json:"type"`
	ClientID string  `json:"client_id"`
	TickRate int     `json:"tick_rate"`
	Dt       float64 `json:"dt"`
}

type stateMessage struct {
	Type     string       `json:"type"`
	Snapshot rig.Snapshot `json:"snapshot"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
