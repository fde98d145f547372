// Package session drives one player's simulation at render-frame rate and
// feeds state frames to the connected client. Each session owns its Game
// exclusively; the transport only passes messages in and bytes out.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"gridsnake.dev/internal/persistence/runlog"
	"gridsnake.dev/internal/persistence/scores"
	"gridsnake.dev/internal/protocol"
	"gridsnake.dev/internal/sim/game"
	"gridsnake.dev/internal/sim/tuning"
)

// Hub creates sessions and aggregates their metrics. The score store and the
// run/event logs may be nil; sessions then skip persistence.
type Hub struct {
	log    *log.Logger
	tune   tuning.Tuning
	store  *scores.Store
	runs   *runlog.RunLogger
	events *runlog.EventLogger

	nextSessionNum atomic.Uint64
	active         atomic.Int64
	runsCompleted  atomic.Uint64
	framesTotal    atomic.Uint64
}

func NewHub(tune tuning.Tuning, store *scores.Store, runs *runlog.RunLogger, events *runlog.EventLogger, logger *log.Logger) *Hub {
	return &Hub{
		log:    logger,
		tune:   tune,
		store:  store,
		runs:   runs,
		events: events,
	}
}

type Metrics struct {
	ActiveSessions int64  `json:"active_sessions"`
	RunsCompleted  uint64 `json:"runs_completed"`
	FramesTotal    uint64 `json:"frames_total"`
}

func (h *Hub) Metrics() Metrics {
	return Metrics{
		ActiveSessions: h.active.Load(),
		RunsCompleted:  h.runsCompleted.Load(),
		FramesTotal:    h.framesTotal.Load(),
	}
}

type Session struct {
	id     string
	player string
	hub    *Hub

	game  *game.Game
	inbox chan protocol.InputMsg
	out   chan []byte

	frameInterval time.Duration
	lastPhase     game.Phase
}

// NewSession builds a session around a fresh game. out is owned by the
// transport; the session only writes to it, dropping the oldest frame when
// the client lags.
func (h *Hub) NewSession(player string, out chan []byte) *Session {
	if player == "" {
		player = "player"
	}
	num := h.nextSessionNum.Add(1)

	seed := h.tune.Seed
	if seed != 0 {
		// Keep configured-seed runs reproducible per session, not identical
		// across sessions.
		seed += int64(num)
	}
	g := game.New(game.Config{
		GridSize:       h.tune.GridSize,
		GridIncrement:  h.tune.GridIncrement,
		GridMax:        h.tune.GridMax,
		GrowthPermille: h.tune.GrowthPermille,
		BaseTick:       time.Duration(h.tune.BaseTickMs) * time.Millisecond,
		StartLen:       h.tune.StartLen,
		Seed:           seed,
	})

	return &Session{
		id:            fmt.Sprintf("S%d", num),
		player:        player,
		hub:           h,
		game:          g,
		inbox:         make(chan protocol.InputMsg, 16),
		out:           out,
		frameInterval: time.Second / time.Duration(h.tune.FrameRateHz),
		lastPhase:     game.PhaseWelcome,
	}
}

func (s *Session) ID() string                      { return s.id }
func (s *Session) Inbox() chan<- protocol.InputMsg { return s.inbox }

// Welcome builds the handshake response for this session, including the
// current top-N so clients can show the board before the first run ends.
func (s *Session) Welcome() protocol.WelcomeMsg {
	var top []protocol.ScoreEntry
	if s.hub.store != nil {
		if entries, err := s.hub.store.Top(s.hub.tune.TopScores); err == nil {
			top = toScoreEntries(entries)
		}
	}
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       s.id,
		RunParams: protocol.RunParams{
			GridSize:      s.hub.tune.GridSize,
			GridIncrement: s.hub.tune.GridIncrement,
			GridMax:       s.hub.tune.GridMax,
			TickMs:        s.hub.tune.BaseTickMs,
			FrameRateHz:   s.hub.tune.FrameRateHz,
			StartLen:      s.hub.tune.StartLen,
		},
		TopScores: top,
	}
}

// Run ticks the session at frame rate until ctx is cancelled. Inputs are
// buffered as they arrive and applied in order at the next frame boundary,
// so a frame sees a consistent pre-frame input set.
func (s *Session) Run(ctx context.Context) {
	s.hub.active.Add(1)
	defer s.hub.active.Add(-1)

	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()

	var pending []protocol.InputMsg
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-s.inbox:
			pending = append(pending, in)
		case <-ticker.C:
			s.frame(time.Now(), pending)
			pending = pending[:0]
		}
	}
}

func (s *Session) frame(now time.Time, inputs []protocol.InputMsg) {
	for _, in := range inputs {
		s.applyInput(in, now)
	}

	f := s.game.Advance(now)
	s.hub.framesTotal.Add(1)

	for _, ev := range f.Events {
		_ = s.hub.events.WriteEvent(runlog.EventRecord{
			Session: s.id,
			Kind:    string(ev.Kind),
			Cell:    [2]int{ev.Cell.X, ev.Cell.Y},
			Tick:    ev.Tick,
			At:      ev.At.UTC().Format(time.RFC3339Nano),
		})
	}

	if s.lastPhase != game.PhaseGameOver && s.game.Phase() == game.PhaseGameOver {
		s.finishRun()
	}
	s.lastPhase = s.game.Phase()

	if b, err := json.Marshal(s.buildState(f)); err == nil {
		sendLatest(s.out, b)
	}
}

// applyInput routes one input message. Unrecognized directions and commands
// are ignored: malformed input is a no-op, never a fault.
func (s *Session) applyInput(in protocol.InputMsg, now time.Time) {
	if in.Direction != "" {
		if d, ok := game.ParseDir(in.Direction); ok {
			s.game.QueueDirection(d)
		}
		return
	}
	switch in.Command {
	case "START", "RESTART":
		s.game.StartRun(now)
	}
}

func (s *Session) finishRun() {
	entry := scores.Entry{
		Player:   s.player,
		Score:    s.game.Score(),
		Duration: s.game.RunDuration(),
		EndedAt:  s.game.EndedAt(),
	}
	if s.hub.store != nil {
		if err := s.hub.store.RecordRun(entry); err != nil && s.hub.log != nil {
			s.hub.log.Printf("session %s: record run: %v", s.id, err)
		}
	}
	_ = s.hub.runs.WriteRun(runlog.RunRecord{
		Session:    s.id,
		Player:     s.player,
		Score:      entry.Score,
		DurationMs: entry.Duration.Milliseconds(),
		Ticks:      s.game.Tick(),
		GridSize:   s.game.GridSize(),
		EndedAt:    entry.EndedAt.UTC().Format(time.RFC3339Nano),
	})
	s.hub.runsCompleted.Add(1)

	var top []protocol.ScoreEntry
	if s.hub.store != nil {
		if entries, err := s.hub.store.Top(s.hub.tune.TopScores); err == nil {
			top = toScoreEntries(entries)
		}
	}
	msg := protocol.ScoresMsg{
		Type:            protocol.TypeScores,
		ProtocolVersion: protocol.Version,
		Final: protocol.ScoreEntry{
			Player:     entry.Player,
			Score:      entry.Score,
			DurationMs: entry.Duration.Milliseconds(),
			EndedAt:    entry.EndedAt.UTC().Format(time.RFC3339),
		},
		Top: top,
	}
	if b, err := json.Marshal(msg); err == nil {
		sendLatest(s.out, b)
	}
}

func (s *Session) buildState(f game.Frame) protocol.StateMsg {
	snap := s.game.Snapshot()
	body := make([][2]int, len(snap.Snake))
	for i, c := range snap.Snake {
		body[i] = [2]int{c.X, c.Y}
	}
	var events []protocol.EventMsg
	for _, ev := range f.Events {
		events = append(events, protocol.EventMsg{
			Kind: string(ev.Kind),
			Cell: [2]int{ev.Cell.X, ev.Cell.Y},
			Tick: ev.Tick,
		})
	}
	return protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		Tick:            snap.Tick,
		Phase:           snap.Phase.String(),
		Score:           snap.Score,
		GridSize:        snap.GridSize,
		Progress:        f.Progress,
		Snake:           body,
		Food:            [2]int{snap.Food.X, snap.Food.Y},
		Events:          events,
	}
}

func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}

func toScoreEntries(entries []scores.Entry) []protocol.ScoreEntry {
	out := make([]protocol.ScoreEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, protocol.ScoreEntry{
			Player:     e.Player,
			Score:      e.Score,
			DurationMs: e.Duration.Milliseconds(),
			EndedAt:    e.EndedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
