package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	PlayerName      string            `json:"player_name"`
	Capabilities    HelloCapabilities `json:"capabilities,omitempty"`
}

type HelloCapabilities struct {
	MaxQueue int `json:"max_queue,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	SessionID       string       `json:"session_id"`
	RunParams       RunParams    `json:"run_params"`
	TopScores       []ScoreEntry `json:"top_scores,omitempty"`
}

// RunParams carries the fixed parameters of a run. Grid size and tick
// duration are the initial values; the board grows and the tick shortens
// during play, which STATE frames reflect.
type RunParams struct {
	GridSize      int `json:"grid_size"`
	GridIncrement int `json:"grid_increment"`
	GridMax       int `json:"grid_max"`
	TickMs        int `json:"tick_ms"`
	FrameRateHz   int `json:"frame_rate_hz"`
	StartLen      int `json:"start_len"`
}

// STATE (server -> client): one frame of renderer input. Progress is the
// 0..1 interpolation fraction between the last tick and the next.
type StateMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	Tick            uint64     `json:"tick"`
	Phase           string     `json:"phase"`
	Score           int        `json:"score"`
	GridSize        int        `json:"grid_size"`
	Progress        float64    `json:"progress"`
	Snake           [][2]int   `json:"snake"`
	Food            [2]int     `json:"food"`
	Events          []EventMsg `json:"events,omitempty"`
}

// EventMsg is a transient effect notification (eat flash, collision
// flourish) attached to the frame whose tick produced it.
type EventMsg struct {
	Kind string `json:"kind"` // "EAT" or "COLLISION"
	Cell [2]int `json:"cell"`
	Tick uint64 `json:"tick"`
}

// INPUT (client -> server): either a direction request or a run command.
// Unrecognized directions and commands are ignored, never rejected.
type InputMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Direction       string `json:"direction,omitempty"` // "UP","RIGHT","DOWN","LEFT"
	Command         string `json:"command,omitempty"`   // "START","RESTART"
}

// SCORES (server -> client): sent once per completed run.
type ScoresMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	Final           ScoreEntry   `json:"final"`
	Top             []ScoreEntry `json:"top"`
}

type ScoreEntry struct {
	Player     string `json:"player"`
	Score      int    `json:"score"`
	DurationMs int64  `json:"duration_ms"`
	EndedAt    string `json:"ended_at,omitempty"` // RFC3339
}
