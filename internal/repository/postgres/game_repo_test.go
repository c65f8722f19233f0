package postgres

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	values []any
	err    error
}

func (f fakeRow) Scan(dest ...any) error {
	if f.err != nil {
		return f.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = f.values[i].(string)
		case *int:
			*p = f.values[i].(int)
		case *int64:
			*p = f.values[i].(int64)
		case *[]byte:
			*p = f.values[i].([]byte)
		case *time.Time:
			*p = f.values[i].(time.Time)
		default:
			return errors.New("unexpected destination")
		}
	}
	return nil
}

func TestSchemaIsEmbedded(t *testing.T) {
	require.True(t, strings.Contains(schemaSQL, "CREATE TABLE IF NOT EXISTS bot_games"))
}

func TestScanRecordDecodesJSONColumns(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	row := fakeRow{values: []any{
		"g1", "guest_1", "Charles", "hard", 6, 4, 1,
		-1, "won", "four_in_row", int64(1234), []byte(`[0,1,0]`), []byte(`[[0,0,0,0],[0,0,0,0],[1,0,0,0],[1,-1,0,0]]`), now, now,
	}}

	rec, err := scanRecord(row)
	require.NoError(t, err)
	require.Equal(t, "g1", rec.GameID)
	require.Equal(t, domain.ColorA, rec.HumanColor)
	require.Equal(t, domain.ColorB, rec.Winner)
	require.Equal(t, domain.StatusWon, rec.Status)
	require.Equal(t, []int{0, 1, 0}, rec.Moves)
	require.Equal(t, 1, rec.Board[3][0])
	require.Equal(t, int64(1234), rec.TotalNodes)
}

func TestScanRecordRebuildsMissingBoard(t *testing.T) {
	now := time.Now()
	row := fakeRow{values: []any{
		"g2", "guest_1", "Bob", "medium", 1, 4, 1,
		0, "active", "", int64(0), []byte(`[1,1]`), []byte(`null`), now, now,
	}}

	rec, err := scanRecord(row)
	require.NoError(t, err)
	require.Equal(t, [][]int{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, -1, 0, 0},
		{0, 1, 0, 0},
	}, rec.Board)
}

func TestScanRecordPropagatesErrors(t *testing.T) {
	_, err := scanRecord(fakeRow{err: errors.New("boom")})
	require.EqualError(t, err, "boom")
}

func TestEncodeRecordNilMoves(t *testing.T) {
	moves, board, err := encodeRecord(&domain.GameRecord{Board: [][]int{{0}}})
	require.NoError(t, err)
	require.Equal(t, "[]", string(moves))
	require.Equal(t, "[[0]]", string(board))
}
