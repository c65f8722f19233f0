package domain

type Game struct {
	Board         *Grid
	CurrentPlayer Color
	Status        GameStatus
	Winner        Color
	MoveCount     int
	Moves         []int
}

func NewGame(size int) (*Game, error) {
	board, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	return &Game{
		Board:         board,
		CurrentPlayer: ColorA,
		Status:        StatusActive,
		Winner:        Empty,
	}, nil
}

func (g *Game) MakeMove(player Color, column int) (int, error) {
	if g.Status != StatusActive {
		return -1, ErrGameFinished
	}

	if player != g.CurrentPlayer {
		return -1, ErrNotYourTurn
	}

	if !g.Board.IsLegalMove(column) {
		return -1, ErrInvalidMove
	}

	row, err := g.Board.DropPiece(column, player)
	if err != nil {
		return -1, err
	}

	g.MoveCount++
	g.Moves = append(g.Moves, column)

	if g.Board.CompletesFourInRow(column, player) {
		g.Status = StatusWon
		g.Winner = player
		return row, nil
	}

	if !g.Board.HasLegalMove() {
		g.Status = StatusDraw
		return row, nil
	}

	g.CurrentPlayer = player.Opponent()
	return row, nil
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}

// Replay rebuilds a game from its move list.
func Replay(size int, moves []int) (*Game, error) {
	g, err := NewGame(size)
	if err != nil {
		return nil, err
	}
	for _, col := range moves {
		if _, err := g.MakeMove(g.CurrentPlayer, col); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Resign ends an active game as a win for player's opponent.
func (g *Game) Resign(player Color) error {
	if g.Status != StatusActive {
		return ErrGameFinished
	}
	if !player.Valid() {
		return ErrInvalidColor
	}
	g.Status = StatusWon
	g.Winner = player.Opponent()
	return nil
}
