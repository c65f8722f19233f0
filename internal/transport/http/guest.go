package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/c4-minimax/pkg/auth"
	"github.com/iamasit07/c4-minimax/pkg/httputil"
	"github.com/iamasit07/c4-minimax/pkg/uid"
)

type GuestHandler struct {
	Tokens     *auth.TokenIssuer
	Production bool
}

func NewGuestHandler(tokens *auth.TokenIssuer, production bool) *GuestHandler {
	return &GuestHandler{Tokens: tokens, Production: production}
}

// IssueGuest hands out a new guest identity as a token and cookie.
func (h *GuestHandler) IssueGuest(c *gin.Context) {
	guestID := uid.GenerateGuestID()
	token, err := h.Tokens.GenerateGuestToken(guestID)
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.SetGuestCookie(c.Writer, token, h.Tokens.TTL(), h.Production)
	c.JSON(http.StatusCreated, gin.H{
		"guestId": guestID,
		"token":   token,
	})
}
