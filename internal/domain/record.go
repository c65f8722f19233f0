package domain

import "time"

// GameRecord is a finished human-vs-bot game as archived in Postgres.
type GameRecord struct {
	GameID     string     `json:"gameId"`
	GuestID    string     `json:"guestId"`
	BotName    string     `json:"botName"`
	Difficulty string     `json:"difficulty"`
	Depth      int        `json:"depth"`
	Size       int        `json:"size"`
	HumanColor Color      `json:"humanColor"`
	Winner     Color      `json:"winner"`
	Status     GameStatus `json:"status"`
	Reason     string     `json:"reason"`
	Moves      []int      `json:"moves"`
	Board      [][]int    `json:"board"`
	TotalNodes int64      `json:"totalNodes"`
	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt time.Time  `json:"finishedAt"`
}

// LiveGame is the snapshot of an in-progress game kept in Redis.
type LiveGame struct {
	GameID      string     `json:"gameId"`
	GuestID     string     `json:"guestId"`
	BotName     string     `json:"botName"`
	Difficulty  string     `json:"difficulty"`
	Depth       int        `json:"depth"`
	Size        int        `json:"size"`
	HumanColor  Color      `json:"humanColor"`
	CurrentTurn Color      `json:"currentTurn"`
	Status      GameStatus `json:"status"`
	Winner      Color      `json:"winner"`
	Moves       []int      `json:"moves"`
	Board       [][]int    `json:"board"`
	TotalNodes  int64      `json:"totalNodes"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
