package domain

var BotNames = map[string]string{
	"easy":   "Alice",
	"medium": "Bob",
	"hard":   "Charles",
}

func GetBotName(difficulty string) string {
	if name, ok := BotNames[difficulty]; ok {
		return name
	}
	return "BOT"
}

// Color is a signed unit so that the opponent of c is simply -c.
type Color int8

const (
	Empty  Color = 0
	ColorA Color = 1
	ColorB Color = -1
)

func (c Color) Opponent() Color {
	return -c
}

// ColorFromInt converts a wire value, rejecting anything outside -1..1 before
// it can wrap around int8.
func ColorFromInt(v int) (Color, error) {
	if v < int(ColorB) || v > int(ColorA) {
		return Empty, ErrInvalidColor
	}
	return Color(v), nil
}

func (c Color) Valid() bool {
	return c == ColorA || c == ColorB
}

func (c Color) String() string {
	switch c {
	case ColorA:
		return "A"
	case ColorB:
		return "B"
	default:
		return "."
	}
}

const (
	DefaultSize = 8
	MinSize     = 4
	MaxSize     = 16
	ToWin       = 4
)

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove  Error = "invalid move"
	ErrColumnFull   Error = "column is full"
	ErrGameFinished Error = "game is already finished"
	ErrNotYourTurn  Error = "not your turn"
	ErrInvalidBoard Error = "invalid board"
	ErrInvalidSize  Error = "invalid board size"
	ErrInvalidColor Error = "invalid color"
	ErrInvalidDepth Error = "search depth must be positive"
	ErrNoLegalMove  Error = "no legal move available"

	ErrInvalidDifficulty Error = "unknown difficulty"
)
