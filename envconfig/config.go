package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nihei9/gramlab/logutil"
)

var (
	// Set via GRAMLAB_DEBUG in the environment
	Debug bool
	// Set via GRAMLAB_DEBUG=2 in the environment
	Trace bool
	// Set via GRAMLAB_NOCOLOR in the environment
	NoColor bool
	// Set via GRAMLAB_DFA_DIR in the environment
	DFADir string
	// Set via GRAMLAB_HISTORY in the environment
	HistoryFile string
)

const defaultDFADir = "output/dfa_data"

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"GRAMLAB_DEBUG":   {"GRAMLAB_DEBUG", Debug, "Show additional debug information (e.g. GRAMLAB_DEBUG=1, GRAMLAB_DEBUG=2 for traces)"},
		"GRAMLAB_NOCOLOR": {"GRAMLAB_NOCOLOR", NoColor, "Disable colored output"},
		"GRAMLAB_DFA_DIR": {"GRAMLAB_DFA_DIR", DFADir, fmt.Sprintf("Directory DFA documents are exported to (default %q)", defaultDFADir)},
		"GRAMLAB_HISTORY": {"GRAMLAB_HISTORY", HistoryFile, "History file of the REPL (default: no history)"},
	}
}

func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// LogLevel returns the log level the environment asks for.
func LogLevel() slog.Level {
	switch {
	case Trace:
		return logutil.LevelTrace
	case Debug:
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Clean quotes and spaces from the value
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}

func init() {
	LoadConfig()
}

func LoadConfig() {
	Debug = false
	Trace = false
	if debug := clean("GRAMLAB_DEBUG"); debug != "" {
		if d, err := strconv.ParseBool(debug); err == nil {
			Debug = d
		} else if n, err := strconv.Atoi(debug); err == nil && n >= 2 {
			Debug = true
			Trace = true
		} else {
			Debug = true
		}
	}

	NoColor = false
	if nocolor := clean("GRAMLAB_NOCOLOR"); nocolor != "" {
		d, err := strconv.ParseBool(nocolor)
		NoColor = err != nil || d
	}

	DFADir = clean("GRAMLAB_DFA_DIR")
	if DFADir == "" {
		DFADir = defaultDFADir
	}
	DFADir = filepath.Clean(DFADir)

	HistoryFile = clean("GRAMLAB_HISTORY")
	if strings.HasPrefix(HistoryFile, "~"+string(filepath.Separator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Error("failed to lookup the home directory", "error", err)
		} else {
			HistoryFile = filepath.Join(home, HistoryFile[2:])
		}
	}
}
