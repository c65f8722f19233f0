package domain

type ClientMessage struct {
	Type       string `json:"type"`
	Token      string `json:"token,omitempty"`
	GameID     string `json:"gameId,omitempty"`
	Column     int    `json:"column"`
	Difficulty string `json:"difficulty,omitempty"`
	Depth      int    `json:"depth,omitempty"`
	Size       int    `json:"size,omitempty"`
	// HumanColor is 1 or -1; zero lets the human move first.
	HumanColor int `json:"humanColor,omitempty"`
}

type ServerMessage struct {
	Type        string  `json:"type"`
	Message     string  `json:"message,omitempty"`
	GameID      string  `json:"gameId,omitempty"`
	Opponent    string  `json:"opponent,omitempty"`
	YourColor   int     `json:"yourColor,omitempty"`
	CurrentTurn int     `json:"currentTurn,omitempty"`
	Column      int     `json:"column"`
	Row         int     `json:"row"`
	Player      int     `json:"player,omitempty"`
	Board       [][]int `json:"board,omitempty"`
	NextTurn    int     `json:"nextTurn,omitempty"`
	Winner      string  `json:"winner,omitempty"`
	Reason      string  `json:"reason,omitempty"`
	Nodes       int64   `json:"nodes,omitempty"`
	Score       int     `json:"score,omitempty"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
