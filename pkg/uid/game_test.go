package uid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateGameID(t *testing.T) {
	a, b := GenerateGameID(), GenerateGameID()
	require.Len(t, a, 32)
	require.NotEqual(t, a, b)
}

func TestGenerateGuestID(t *testing.T) {
	id := GenerateGuestID()
	require.True(t, strings.HasPrefix(id, "guest_"))
	require.Len(t, id, len("guest_")+16)
}
