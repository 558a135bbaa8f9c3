package session

import (
	"context"
	"crypto/rand"
	"math/big"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"netchess/internal/board"
	"netchess/internal/game"
	"netchess/internal/obslog"
	"netchess/pkg/wire"
)

// liveGame is one active game's registry entry.
type liveGame struct {
	id      string
	white   Conn
	black   Conn
	state   *game.State
	history []board.Compact

	// drawOffer is the side with an outstanding draw offer, cleared on
	// every completed move.
	drawOffer *board.Color

	whiteToken string
	blackToken string
}

func (g *liveGame) colorOf(connID string) (board.Color, bool) {
	switch connID {
	case g.white.ID():
		return board.White, true
	case g.black.ID():
		return board.Black, true
	default:
		return board.White, false
	}
}

func (g *liveGame) conn(c board.Color) Conn {
	if c == board.White {
		return g.white
	}
	return g.black
}

func (g *liveGame) opponent(c board.Color) Conn { return g.conn(c.Other()) }

// Stats is a read-only counter snapshot for the health listener.
type Stats struct {
	Queued      int64 `json:"queued"`
	ActiveGames int64 `json:"active_games"`
	TotalGames  int64 `json:"total_games"`
}

// Server holds the matchmaking queue and the game registry. Every method
// must be called from the hub's event loop; the single-writer discipline
// is what makes the state mutation here safe without locks.
type Server struct {
	queue      []Conn
	connToGame map[string]string
	games      map[string]*liveGame
	resume     ResumeStore

	// Counters are atomics only so Stats can be read off-loop.
	queued      atomic.Int64
	activeGames atomic.Int64
	totalGames  atomic.Int64
}

// NewServer builds an empty registry around the given resume store.
func NewServer(resume ResumeStore) *Server {
	return &Server{
		connToGame: make(map[string]string),
		games:      make(map[string]*liveGame),
		resume:     resume,
	}
}

// Stats returns the current counters. Safe to call from any goroutine.
func (s *Server) Stats() Stats {
	return Stats{
		Queued:      s.queued.Load(),
		ActiveGames: s.activeGames.Load(),
		TotalGames:  s.totalGames.Load(),
	}
}

// HandleConnect queues a new connection and pairs while at least two
// connections are waiting.
func (s *Server) HandleConnect(ctx context.Context, c Conn) {
	s.queue = append(s.queue, c)
	s.queued.Store(int64(len(s.queue)))
	obslog.L().Info("queue_join",
		zap.String("conn_id", c.ID()),
		zap.Int("queued", len(s.queue)),
	)
	for len(s.queue) >= 2 {
		s.pairNext(ctx)
	}
}

// pairNext removes two queued connections at uniformly random positions,
// randomizes colors and starts a game.
func (s *Server) pairNext(ctx context.Context) {
	white := s.takeQueued(randIndex(len(s.queue)))
	black := s.takeQueued(randIndex(len(s.queue)))
	if randBool() {
		white, black = black, white
	}
	s.queued.Store(int64(len(s.queue)))

	g := &liveGame{
		id:         uuid.NewString(),
		white:      white,
		black:      black,
		state:      game.NewState(),
		whiteToken: uuid.NewString(),
		blackToken: uuid.NewString(),
	}
	if err := s.resume.Put(ctx, g.whiteToken, Binding{GameID: g.id, Color: board.White.String()}); err != nil {
		obslog.L().Warn("resume_put_error", zap.String("game_id", g.id), zap.Error(err))
	}
	if err := s.resume.Put(ctx, g.blackToken, Binding{GameID: g.id, Color: board.Black.String()}); err != nil {
		obslog.L().Warn("resume_put_error", zap.String("game_id", g.id), zap.Error(err))
	}
	s.connToGame[white.ID()] = g.id
	s.connToGame[black.ID()] = g.id
	s.games[g.id] = g
	s.activeGames.Store(int64(len(s.games)))
	s.totalGames.Add(1)

	s.send(white, &wire.Event{Type: wire.EvtMatchFound, Color: board.White.String(), ResumeToken: g.whiteToken})
	s.send(black, &wire.Event{Type: wire.EvtMatchFound, Color: board.Black.String(), ResumeToken: g.blackToken})
	obslog.L().Info("match_found",
		zap.String("game_id", g.id),
		zap.String("white_conn", white.ID()),
		zap.String("black_conn", black.ID()),
	)
}

// HandleCommand dispatches one decoded client command.
func (s *Server) HandleCommand(ctx context.Context, c Conn, cmd wire.Command) {
	switch cmd.Type {
	case wire.CmdMove:
		s.handleMove(ctx, c, cmd.Move)
	case wire.CmdPromote:
		s.handlePromote(ctx, c, cmd.Piece)
	case wire.CmdRequestDraw:
		s.handleDrawRequest(ctx, c)
	case wire.CmdResign:
		s.handleResign(ctx, c)
	case wire.CmdReconnect:
		s.handleReconnect(ctx, c, cmd.ResumeToken)
	default:
		obslog.L().Debug("unknown_command", zap.String("conn_id", c.ID()), zap.String("type", string(cmd.Type)))
	}
}

func (s *Server) gameFor(c Conn) *liveGame {
	id, ok := s.connToGame[c.ID()]
	if !ok {
		return nil
	}
	return s.games[id]
}

// handleMove applies a move or echoes the unchanged state back. The echo
// carries no error code: the client infers rejection from its proposed
// move not appearing in the snapshot.
func (s *Server) handleMove(ctx context.Context, c Conn, m *wire.Move) {
	g := s.gameFor(c)
	if g == nil {
		return // unknown game: silently dropped
	}
	color, _ := g.colorOf(c.ID())
	if m == nil || g.state.PendingPromotion || g.state.Turn != color {
		s.send(c, &wire.Event{Type: wire.EvtState, State: snapshotOf(g.state)})
		return
	}
	if _, err := g.state.ApplyMove(moveOf(m)); err != nil {
		s.send(c, &wire.Event{Type: wire.EvtState, State: snapshotOf(g.state)})
		return
	}
	g.drawOffer = nil
	s.send(g.opponent(color), &wire.Event{Type: wire.EvtMove, Move: m})
	g.history = append(g.history, g.state.Board.Pack())
	obslog.L().Info("move_applied",
		zap.String("game_id", g.id),
		zap.String("color", color.String()),
		zap.Bool("promotion_pending", g.state.PendingPromotion),
	)
	if g.state.PendingPromotion {
		// End detection waits until the promotion choice lands.
		return
	}
	s.finishIfOver(ctx, g)
}

func (s *Server) handlePromote(ctx context.Context, c Conn, piece string) {
	g := s.gameFor(c)
	if g == nil {
		return
	}
	color, _ := g.colorOf(c.ID())
	// Only the side that pushed the pawn may choose; its turn already
	// flipped when the pawn advanced.
	if !g.state.PendingPromotion || g.state.Turn.Other() != color {
		s.send(c, &wire.Event{Type: wire.EvtState, State: snapshotOf(g.state)})
		return
	}
	if err := g.state.Promote(kindOf(piece)); err != nil {
		if err == game.ErrCorruptState {
			s.failGame(ctx, g, err)
			return
		}
		s.send(c, &wire.Event{Type: wire.EvtState, State: snapshotOf(g.state)})
		return
	}
	g.history = append(g.history, g.state.Board.Pack())
	s.send(g.opponent(color), &wire.Event{Type: wire.EvtPromotion, Piece: piece})
	obslog.L().Info("promotion_applied",
		zap.String("game_id", g.id),
		zap.String("color", color.String()),
		zap.String("piece", piece),
	)
	s.finishIfOver(ctx, g)
}

func (s *Server) handleDrawRequest(ctx context.Context, c Conn) {
	g := s.gameFor(c)
	if g == nil {
		return
	}
	color, _ := g.colorOf(c.ID())
	switch {
	case g.drawOffer == nil:
		offer := color
		g.drawOffer = &offer
		s.send(g.opponent(color), &wire.Event{Type: wire.EvtDrawOffered})
		obslog.L().Info("draw_offered", zap.String("game_id", g.id), zap.String("color", color.String()))
	case *g.drawOffer != color:
		s.endGame(ctx, g, &game.End{Result: game.Drawn, Reason: game.Agreement})
	default:
		// Repeated offer from the same side: nothing new to relay.
	}
}

func (s *Server) handleResign(ctx context.Context, c Conn) {
	g := s.gameFor(c)
	if g == nil {
		return
	}
	color, _ := g.colorOf(c.ID())
	end := &game.End{Result: game.WhiteWins, Reason: game.Resignation}
	if color == board.White {
		end.Result = game.BlackWins
	}
	obslog.L().Info("resign", zap.String("game_id", g.id), zap.String("color", color.String()))
	s.endGame(ctx, g, end)
}

// handleReconnect resyncs a client. A connection still mapped to its game
// just gets a snapshot; a fresh connection presenting a valid resume token
// is rebound in place of the stale handle. Anything else is dropped.
func (s *Server) handleReconnect(ctx context.Context, c Conn, token string) {
	if g := s.gameFor(c); g != nil {
		s.send(c, &wire.Event{Type: wire.EvtState, State: snapshotOf(g.state)})
		return
	}
	if token != "" {
		b, err := s.resume.Get(ctx, token)
		if err != nil {
			obslog.L().Warn("resume_get_error", zap.Error(err))
		}
		if b != nil {
			if g := s.games[b.GameID]; g != nil {
				if color, ok := colorOf(b.Color); ok {
					s.rebind(g, color, c)
					s.send(c, &wire.Event{Type: wire.EvtState, State: snapshotOf(g.state)})
					obslog.L().Info("reconnect",
						zap.String("game_id", g.id),
						zap.String("color", color.String()),
						zap.String("conn_id", c.ID()),
					)
					return
				}
			}
		}
	}
	c.Disconnect()
}

// rebind swaps the connection handle for one seat. The stale handle is
// unmapped first so its eventual disconnect event does not end the game.
func (s *Server) rebind(g *liveGame, color board.Color, c Conn) {
	old := g.conn(color)
	if old != nil && old.ID() != c.ID() {
		delete(s.connToGame, old.ID())
		old.Disconnect()
	}
	// The new connection was queued on arrival; pull it back out.
	s.dropFromQueue(c)
	if color == board.White {
		g.white = c
	} else {
		g.black = c
	}
	s.connToGame[c.ID()] = g.id
}

// HandleDisconnect tears down the departed connection's game, crediting
// the opponent with a win by resignation, or removes a queued connection.
// Exactly one of the two paths runs.
func (s *Server) HandleDisconnect(ctx context.Context, c Conn) {
	id, ok := s.connToGame[c.ID()]
	if !ok {
		s.dropFromQueue(c)
		return
	}
	g := s.games[id]
	if g == nil {
		delete(s.connToGame, c.ID())
		return
	}
	color, _ := g.colorOf(c.ID())
	end := &game.End{Result: game.WhiteWins, Reason: game.Resignation}
	if color == board.White {
		end.Result = game.BlackWins
	}
	obslog.L().Info("disconnect",
		zap.String("game_id", g.id),
		zap.String("color", color.String()),
	)
	ev := &wire.Event{Type: wire.EvtGameEnd, Result: end.Result.String(), Reason: end.Reason.String()}
	s.send(g.opponent(color), ev)
	s.teardown(ctx, g)
}

// finishIfOver consults the end detector and tears the game down on a
// terminal result. A corrupt-state report is fatal for this game only.
func (s *Server) finishIfOver(ctx context.Context, g *liveGame) {
	end, err := g.state.CheckGameEnd(g.history)
	if err != nil {
		s.failGame(ctx, g, err)
		return
	}
	if end != nil {
		s.endGame(ctx, g, end)
	}
}

func (s *Server) failGame(ctx context.Context, g *liveGame, err error) {
	obslog.L().Error("game_invariant_violation",
		zap.String("game_id", g.id),
		zap.Error(err),
	)
	s.teardown(ctx, g)
}

// endGame notifies both sides and removes every trace of the game.
func (s *Server) endGame(ctx context.Context, g *liveGame, end *game.End) {
	ev := &wire.Event{Type: wire.EvtGameEnd, Result: end.Result.String(), Reason: end.Reason.String()}
	s.send(g.white, ev)
	s.send(g.black, ev)
	obslog.L().Info("game_end",
		zap.String("game_id", g.id),
		zap.String("result", end.Result.String()),
		zap.String("reason", end.Reason.String()),
		zap.Int("moves", len(g.history)),
	)
	s.teardown(ctx, g)
}

func (s *Server) teardown(ctx context.Context, g *liveGame) {
	delete(s.connToGame, g.white.ID())
	delete(s.connToGame, g.black.ID())
	delete(s.games, g.id)
	s.activeGames.Store(int64(len(s.games)))
	if err := s.resume.Del(ctx, g.whiteToken); err != nil {
		obslog.L().Warn("resume_del_error", zap.String("game_id", g.id), zap.Error(err))
	}
	if err := s.resume.Del(ctx, g.blackToken); err != nil {
		obslog.L().Warn("resume_del_error", zap.String("game_id", g.id), zap.Error(err))
	}
	g.white.Disconnect()
	g.black.Disconnect()
}

func (s *Server) send(c Conn, ev *wire.Event) {
	if err := c.Send(ev); err != nil {
		obslog.L().Warn("send_error", zap.String("conn_id", c.ID()), zap.Error(err))
	}
}

func (s *Server) takeQueued(i int) Conn {
	c := s.queue[i]
	s.queue = append(s.queue[:i], s.queue[i+1:]...)
	return c
}

func (s *Server) dropFromQueue(c Conn) {
	for i, q := range s.queue {
		if q.ID() == c.ID() {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			break
		}
	}
	s.queued.Store(int64(len(s.queue)))
}

// randIndex draws a uniform index below n, falling back to 0 if the
// system randomness source fails.
func randIndex(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func randBool() bool {
	v, err := rand.Int(rand.Reader, big.NewInt(2))
	if err != nil {
		return false
	}
	return v.Int64() == 1
}
