package filestorage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentObjectKey(t *testing.T) {
	key := DocumentObjectKey("app-1", "Scan.PDF")
	require.True(t, strings.HasPrefix(key, "applications/app-1/"))
	require.True(t, strings.HasSuffix(key, ".pdf"))
	require.NotEqual(t, key, DocumentObjectKey("app-1", "Scan.PDF"))
}
