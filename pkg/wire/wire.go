// Package wire declares the message shapes exchanged between clients and
// the session server. It intentionally carries no behavior: framing,
// compression and transport concerns belong to the gateway, and game
// semantics belong to the session layer.
package wire

// CommandType identifies an inbound client command.
type CommandType string

const (
	CmdMove        CommandType = "move"
	CmdPromote     CommandType = "promote"
	CmdRequestDraw CommandType = "request_draw"
	CmdResign      CommandType = "resign"
	CmdReconnect   CommandType = "reconnect"
)

// Square addresses one board square. Rank and File are 0-7, rank 0 being
// White's back rank and file 0 being the a-file.
type Square struct {
	Rank uint8 `json:"rank"`
	File uint8 `json:"file"`
}

// Move is a from/to square pair.
type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// Command is the inbound envelope. Only the fields relevant to Type are set.
type Command struct {
	Type        CommandType `json:"type"`
	Move        *Move       `json:"move,omitempty"`
	Piece       string      `json:"piece,omitempty"`
	ResumeToken string      `json:"resume_token,omitempty"`
}

// EventType identifies an outbound server event.
type EventType string

const (
	EvtMatchFound  EventType = "match_found"
	EvtMove        EventType = "move"
	EvtPromotion   EventType = "promotion"
	EvtState       EventType = "state"
	EvtDrawOffered EventType = "draw_offered"
	EvtGameEnd     EventType = "game_end"
)

// Game results and end reasons carried by game_end events.
const (
	ResultWhiteWins = "white_wins"
	ResultBlackWins = "black_wins"
	ResultDraw      = "draw"

	ReasonCheckmate            = "checkmate"
	ReasonStalemate            = "stalemate"
	ReasonResignation          = "resignation"
	ReasonAgreement            = "agreement"
	ReasonInsufficientMaterial = "insufficient_material"
	ReasonFiftyMoveRule        = "fifty_move_rule"
	ReasonThreefoldRepetition  = "threefold_repetition"
)

// Event is the outbound envelope. Only the fields relevant to Type are set.
type Event struct {
	Type        EventType      `json:"type"`
	Color       string         `json:"color,omitempty"`
	ResumeToken string         `json:"resume_token,omitempty"`
	Move        *Move          `json:"move,omitempty"`
	Piece       string         `json:"piece,omitempty"`
	State       *StateSnapshot `json:"state,omitempty"`
	Result      string         `json:"result,omitempty"`
	Reason      string         `json:"reason,omitempty"`
}

// StateSnapshot is the full authoritative game state. It doubles as the
// implicit rejection echo: a client that receives its own unchanged state
// back infers that its last command was not accepted.
type StateSnapshot struct {
	// Board holds one code per square, rank-major from White's back rank.
	// Empty squares are "", occupied squares are a color letter followed
	// by a piece letter, e.g. "wK" or "bP".
	Board            [8][8]string  `json:"board"`
	Turn             string        `json:"turn"`
	EnPassantFile    *uint8        `json:"en_passant_file,omitempty"`
	HalfMoveClock    uint8         `json:"half_move_clock"`
	PendingPromotion bool          `json:"pending_promotion"`
	Castling         CastlingState `json:"castling"`
}

// CastlingState mirrors the six irreversible castling-rights flags.
type CastlingState struct {
	WhiteKingMoved  bool `json:"white_king_moved"`
	BlackKingMoved  bool `json:"black_king_moved"`
	WhiteARookMoved bool `json:"white_a_rook_moved"`
	BlackARookMoved bool `json:"black_a_rook_moved"`
	WhiteHRookMoved bool `json:"white_h_rook_moved"`
	BlackHRookMoved bool `json:"black_h_rook_moved"`
}
