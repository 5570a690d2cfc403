package workflowapimodels

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommentCreateValidate(t *testing.T) {
	t.Run("length counts characters", func(t *testing.T) {
		require.NoError(t, CommentCreate{Comment: strings.Repeat("é", MaxCommentLength)}.Validate())
	})
	t.Run("too long", func(t *testing.T) {
		err := CommentCreate{Comment: strings.Repeat("é", MaxCommentLength+1)}.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "500")
	})
	t.Run("blank", func(t *testing.T) {
		require.Error(t, CommentCreate{Comment: "  "}.Validate())
	})
}

func TestTransitionRequestValidate(t *testing.T) {
	require.NoError(t, TransitionRequest{}.Validate())
	require.NoError(t, TransitionRequest{Comment: strings.Repeat("ü", MaxCommentLength)}.Validate())
	require.Error(t, TransitionRequest{Comment: strings.Repeat("x", MaxCommentLength+1)}.Validate())
}
