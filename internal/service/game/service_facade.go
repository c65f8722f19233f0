package game

import (
	"context"
	"fmt"

	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/iamasit07/c4-minimax/internal/service/bot"
)

// GameArchive reads finished games back.
type GameArchive interface {
	GameRepository
	GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error)
	ListGames(ctx context.Context, guestID string, limit int) ([]domain.GameRecord, error)
}

type LiveReader interface {
	Load(ctx context.Context, gameID string) (*domain.LiveGame, error)
	List(ctx context.Context, limit int) ([]domain.LiveGame, error)
}

// DefaultAnalysisMaxDepth caps SuggestMove on boards up to domain.DefaultSize.
const DefaultAnalysisMaxDepth = 8

// Service is the entry point for game logic (facade)
type Service struct {
	Sessions *SessionManager
	Archive  GameArchive
	Live     LiveReader
	// AnalysisMaxDepth bounds the stateless analysis search, which any guest can request.
	AnalysisMaxDepth int
}

func NewService(sessions *SessionManager, archive GameArchive, live LiveReader) *Service {
	return &Service{
		Sessions:         sessions,
		Archive:          archive,
		Live:             live,
		AnalysisMaxDepth: DefaultAnalysisMaxDepth,
	}
}

// AnalysisDepthCap is the deepest analysis allowed on a size x size board.
// Every two columns beyond the default width cost one ply.
func (s *Service) AnalysisDepthCap(size int) int {
	limit := min(s.AnalysisMaxDepth, s.Sessions.opts.MaxDepth)
	if size > domain.DefaultSize {
		limit -= (size - domain.DefaultSize + 1) / 2
	}
	return max(limit, 1)
}

// SuggestRequest asks the bot for a move on an arbitrary position.
type SuggestRequest struct {
	Rows       [][]int
	Color      domain.Color
	Difficulty string
	Depth      int
}

// SuggestMove analyses a position without creating a session.
func (s *Service) SuggestMove(req SuggestRequest) (*bot.Decision, error) {
	if !req.Color.Valid() {
		return nil, domain.ErrInvalidColor
	}
	board, err := domain.ParseRows(req.Rows)
	if err != nil {
		return nil, err
	}
	if _, won := domain.HasFourAnywhere(board); won {
		return nil, domain.ErrGameFinished
	}
	if !board.HasLegalMove() {
		return nil, domain.ErrNoLegalMove
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = bot.DifficultyHard
	}
	limit := s.AnalysisDepthCap(board.Width())
	depth := req.Depth
	if depth == 0 {
		depth = min(s.Sessions.opts.Depth, limit)
	}
	if depth < 1 || depth > limit {
		return nil, fmt.Errorf("%w: %d (allowed 1..%d on a %dx%d board)",
			domain.ErrInvalidDepth, depth, limit, board.Width(), board.Height())
	}
	// Plies beyond the empty cells cannot change the result.
	depth = min(depth, board.Width()*board.Height()-board.Pieces())

	player, err := bot.NewPlayer(difficulty, depth)
	if err != nil {
		return nil, err
	}
	decision := player.Choose(board, req.Color)
	return &decision, nil
}

// GameView is a game as served to clients: live when still in play, archived otherwise.
type GameView struct {
	Live     *domain.LiveGame   `json:"live,omitempty"`
	Archived *domain.GameRecord `json:"archived,omitempty"`
}

// GetGame looks a game up in memory, then in the live store, then in the archive.
func (s *Service) GetGame(ctx context.Context, gameID string) (*GameView, error) {
	if session, ok := s.Sessions.GetSessionByGameID(gameID); ok {
		snapshot := session.Snapshot()
		return &GameView{Live: &snapshot}, nil
	}
	if s.Live != nil {
		live, err := s.Live.Load(ctx, gameID)
		if err != nil {
			return nil, err
		}
		if live != nil {
			return &GameView{Live: live}, nil
		}
	}
	if s.Archive != nil {
		rec, err := s.Archive.GetGameByID(ctx, gameID)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return &GameView{Archived: rec}, nil
		}
	}
	return nil, ErrSessionNotFound
}

// History lists archived games; empty without a database.
func (s *Service) History(ctx context.Context, guestID string, limit int) ([]domain.GameRecord, error) {
	if s.Archive == nil {
		return []domain.GameRecord{}, nil
	}
	games, err := s.Archive.ListGames(ctx, guestID, limit)
	if err != nil {
		return nil, err
	}
	if games == nil {
		games = []domain.GameRecord{}
	}
	return games, nil
}

// LiveGames lists games in progress, preferring the shared live store.
func (s *Service) LiveGames(ctx context.Context, limit int) ([]domain.LiveGame, error) {
	if s.Live != nil {
		games, err := s.Live.List(ctx, limit)
		if err != nil {
			return nil, err
		}
		if games != nil {
			return games, nil
		}
	}

	var active []domain.LiveGame
	for _, g := range s.Sessions.Snapshots() {
		if g.Status == domain.StatusActive {
			active = append(active, g)
		}
	}
	if limit > 0 && len(active) > limit {
		active = active[:limit]
	}
	if active == nil {
		active = []domain.LiveGame{}
	}
	return active, nil
}
