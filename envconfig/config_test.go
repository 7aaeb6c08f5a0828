package envconfig

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/nihei9/gramlab/logutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Setenv("GRAMLAB_DEBUG", "")
	LoadConfig()
	require.False(t, Debug)
	require.Equal(t, slog.LevelInfo, LogLevel())
	t.Setenv("GRAMLAB_DEBUG", "false")
	LoadConfig()
	require.False(t, Debug)
	t.Setenv("GRAMLAB_DEBUG", "1")
	LoadConfig()
	require.True(t, Debug)
	require.Equal(t, slog.LevelDebug, LogLevel())
	t.Setenv("GRAMLAB_DEBUG", "2")
	LoadConfig()
	require.True(t, Trace)
	require.Equal(t, logutil.LevelTrace, LogLevel())
	t.Setenv("GRAMLAB_DEBUG", "verbose")
	LoadConfig()
	require.True(t, Debug)
	require.False(t, Trace)
}

func TestDFADir(t *testing.T) {
	t.Setenv("GRAMLAB_DFA_DIR", "")
	LoadConfig()
	assert.Equal(t, filepath.Clean("output/dfa_data"), DFADir)

	t.Setenv("GRAMLAB_DFA_DIR", "\"/tmp/dfa/\"")
	LoadConfig()
	assert.Equal(t, filepath.Clean("/tmp/dfa"), DFADir)
}

func TestNoColorAndHistory(t *testing.T) {
	t.Setenv("GRAMLAB_NOCOLOR", "1")
	t.Setenv("GRAMLAB_HISTORY", "~/.gramlab_history")
	LoadConfig()
	assert.True(t, NoColor)
	home, err := os.UserHomeDir()
	if err == nil {
		assert.Equal(t, filepath.Join(home, ".gramlab_history"), HistoryFile)
	}

	t.Setenv("GRAMLAB_NOCOLOR", "")
	t.Setenv("GRAMLAB_HISTORY", "")
	LoadConfig()
	assert.False(t, NoColor)
	assert.Equal(t, "", HistoryFile)
}

func TestAsMap(t *testing.T) {
	m := AsMap()
	for _, name := range []string{"GRAMLAB_DEBUG", "GRAMLAB_NOCOLOR", "GRAMLAB_DFA_DIR", "GRAMLAB_HISTORY"} {
		v, ok := m[name]
		require.True(t, ok, name)
		assert.Equal(t, name, v.Name)
		assert.NotEmpty(t, v.Description)
	}
	assert.Len(t, Values(), len(m))
}
