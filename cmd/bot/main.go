package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"

	"gridsnake.dev/internal/protocol"
	"gridsnake.dev/internal/sim/game"
)

func main() {
	var (
		url  = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name = flag.String("name", "bot", "player name")
		runs = flag.Int("runs", 0, "stop after this many runs (0 = forever)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		PlayerName:      *name,
		Capabilities:    protocol.HelloCapabilities{MaxQueue: 8},
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	b := &bot{conn: conn, log: logger}
	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME session=%s grid=%d tick=%dms", w.SessionID, w.RunParams.GridSize, w.RunParams.TickMs)

		case protocol.TypeState:
			var st protocol.StateMsg
			if err := json.Unmarshal(msg, &st); err != nil {
				continue
			}
			b.handleState(&st)

		case protocol.TypeScores:
			var sc protocol.ScoresMsg
			if err := json.Unmarshal(msg, &sc); err != nil {
				continue
			}
			b.runsDone++
			logger.Printf("run over: score=%d duration=%dms (run %d)", sc.Final.Score, sc.Final.DurationMs, b.runsDone)
			if *runs > 0 && b.runsDone >= *runs {
				return
			}
		}
	}
}

type bot struct {
	conn     *websocket.Conn
	log      *log.Logger
	lastTick uint64
	lastDir  string
	runsDone int
}

func (b *bot) handleState(st *protocol.StateMsg) {
	if st.Phase != game.PhasePlaying.String() {
		b.lastDir = ""
		b.send(protocol.InputMsg{Type: protocol.TypeInput, ProtocolVersion: protocol.Version, Command: "START"})
		return
	}
	// One decision per logic tick, not per render frame.
	if st.Tick == b.lastTick && b.lastDir != "" {
		return
	}
	b.lastTick = st.Tick

	if d := b.chase(st); d != "" && d != b.lastDir {
		b.lastDir = d
		b.send(protocol.InputMsg{Type: protocol.TypeInput, ProtocolVersion: protocol.Version, Direction: d})
	}
}

// chase picks the axis step that closes the larger gap to the food,
// skipping moves that would reverse or hit a wall or the body.
func (b *bot) chase(st *protocol.StateMsg) string {
	if len(st.Snake) == 0 {
		return ""
	}
	head := st.Snake[0]
	dx := st.Food[0] - head[0]
	dy := st.Food[1] - head[1]

	var prefs []game.Dir
	if abs(dx) >= abs(dy) {
		prefs = append(prefs, horiz(dx), vert(dy))
	} else {
		prefs = append(prefs, vert(dy), horiz(dx))
	}
	prefs = append(prefs, game.DirUp, game.DirRight, game.DirDown, game.DirLeft)

	cur, haveCur := game.ParseDir(b.lastDir)
	occ := make(map[[2]int]struct{}, len(st.Snake))
	for _, c := range st.Snake {
		occ[c] = struct{}{}
	}
	for _, d := range prefs {
		if haveCur && d == cur.Opposite() {
			continue
		}
		ddx, ddy := d.Delta()
		next := [2]int{head[0] + ddx, head[1] + ddy}
		if next[0] < 0 || next[0] >= st.GridSize || next[1] < 0 || next[1] >= st.GridSize {
			continue
		}
		if _, hit := occ[next]; hit {
			continue
		}
		return d.String()
	}
	return ""
}

func (b *bot) send(in protocol.InputMsg) {
	if err := b.conn.WriteJSON(in); err != nil {
		b.log.Printf("send: %v", err)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func horiz(dx int) game.Dir {
	if dx < 0 {
		return game.DirLeft
	}
	return game.DirRight
}

func vert(dy int) game.Dir {
	if dy < 0 {
		return game.DirUp
	}
	return game.DirDown
}
