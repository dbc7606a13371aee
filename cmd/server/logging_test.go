package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCappedLogKeepsNewestBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cabinet.log")
	l, err := openCappedLog(path, 60)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	_, err = l.Write([]byte(strings.Repeat("a", 40)))
	require.NoError(t, err)
	_, err = l.Write([]byte(strings.Repeat("b", 40)))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 50)
	require.Equal(t, strings.Repeat("a", 10)+strings.Repeat("b", 40), string(data))
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, "DEBUG", parseLogLevel("debug").String())
	require.Equal(t, "INFO", parseLogLevel("verbose").String())
}
