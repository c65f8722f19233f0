package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iamasit07/c4-minimax/internal/domain"
)

const DefaultHistoryLimit = 50

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

const selectColumns = `
	game_id, guest_id, bot_name, difficulty, depth, board_size, human_color,
	winner, status, reason, total_nodes, moves, board_state, created_at, finished_at`

// SaveGame archives a finished game. Saving the same game twice overwrites the result.
func (r *GameRepo) SaveGame(ctx context.Context, rec *domain.GameRecord) error {
	movesJSON, boardJSON, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO bot_games (game_id, guest_id, bot_name, difficulty, depth, board_size, human_color,
		winner, status, reason, total_moves, total_nodes, moves, board_state, created_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (game_id) DO UPDATE SET
		winner = EXCLUDED.winner,
		status = EXCLUDED.status,
		reason = EXCLUDED.reason,
		total_moves = EXCLUDED.total_moves,
		total_nodes = EXCLUDED.total_nodes,
		moves = EXCLUDED.moves,
		board_state = EXCLUDED.board_state,
		finished_at = EXCLUDED.finished_at;
	`

	_, err = r.DB.ExecContext(ctx, query,
		rec.GameID, rec.GuestID, rec.BotName, rec.Difficulty, rec.Depth, rec.Size, int(rec.HumanColor),
		int(rec.Winner), string(rec.Status), rec.Reason, len(rec.Moves), rec.TotalNodes,
		movesJSON, boardJSON, rec.CreatedAt, rec.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}
	return nil
}

// GetGameByID returns nil, nil when the game is not archived.
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	query := `SELECT` + selectColumns + ` FROM bot_games WHERE game_id = $1;`

	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}
	return rec, nil
}

// ListGames returns the most recent games, newest first. An empty guestID lists everyone's.
func (r *GameRepo) ListGames(ctx context.Context, guestID string, limit int) ([]domain.GameRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `SELECT` + selectColumns + `
	FROM bot_games
	WHERE $1::text = '' OR guest_id = $1
	ORDER BY finished_at DESC
	LIMIT $2;`

	rows, err := r.DB.QueryContext(ctx, query, guestID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	var games []domain.GameRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, *rec)
	}
	return games, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.GameRecord, error) {
	var rec domain.GameRecord
	var humanColor, winner int
	var status string
	var movesJSON, boardJSON []byte

	err := row.Scan(
		&rec.GameID,
		&rec.GuestID,
		&rec.BotName,
		&rec.Difficulty,
		&rec.Depth,
		&rec.Size,
		&humanColor,
		&winner,
		&status,
		&rec.Reason,
		&rec.TotalNodes,
		&movesJSON,
		&boardJSON,
		&rec.CreatedAt,
		&rec.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.HumanColor = domain.Color(humanColor)
	rec.Winner = domain.Color(winner)
	rec.Status = domain.GameStatus(status)
	if err := decodeRecord(&rec, movesJSON, boardJSON); err != nil {
		return nil, err
	}
	return &rec, nil
}

func encodeRecord(rec *domain.GameRecord) ([]byte, []byte, error) {
	moves := rec.Moves
	if moves == nil {
		moves = []int{}
	}
	movesJSON, err := json.Marshal(moves)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal moves: %w", err)
	}
	boardJSON, err := json.Marshal(rec.Board)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal board state: %w", err)
	}
	return movesJSON, boardJSON, nil
}

func decodeRecord(rec *domain.GameRecord, movesJSON, boardJSON []byte) error {
	if err := json.Unmarshal(movesJSON, &rec.Moves); err != nil {
		return fmt.Errorf("failed to unmarshal moves: %w", err)
	}
	if len(boardJSON) == 0 || string(boardJSON) == "null" {
		// Older rows without a board: rebuild it from the moves.
		g, err := domain.Replay(rec.Size, rec.Moves)
		if err != nil {
			return fmt.Errorf("failed to replay moves: %w", err)
		}
		rec.Board = g.Board.Rows()
		return nil
	}
	if err := json.Unmarshal(boardJSON, &rec.Board); err != nil {
		return fmt.Errorf("failed to unmarshal board state: %w", err)
	}
	return nil
}
