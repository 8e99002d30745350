package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv("XDG_STATE_HOME", tempDir)

			SetupLogger(tt.verbosity, true)

			if zerolog.GlobalLevel() != tt.wantLevel {
				t.Errorf("SetupLogger(%d) set level to %v, want %v",
					tt.verbosity, zerolog.GlobalLevel(), tt.wantLevel)
			}

			logPath := filepath.Join(tempDir, "dotsctl", "dotsctl.log")
			if _, err := os.Stat(logPath); os.IsNotExist(err) {
				t.Errorf("Log file was not created at %s", logPath)
			}
		})
	}
}

func TestSetupLoggerNoFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tempDir)

	SetupLogger(0, false)

	logPath := filepath.Join(tempDir, "dotsctl", "dotsctl.log")
	if _, err := os.Stat(logPath); err == nil {
		t.Errorf("Log file was created at %s despite file logging being disabled", logPath)
	}
}

func TestGetLogFilePath(t *testing.T) {
	tests := []struct {
		name         string
		xdgState     string
		wantContains string
	}{
		{
			name:         "with XDG_STATE_HOME",
			xdgState:     "/custom/state",
			wantContains: "/custom/state/dotsctl/dotsctl.log",
		},
		{
			name:         "without XDG_STATE_HOME",
			xdgState:     "",
			wantContains: ".local/state/dotsctl/dotsctl.log",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_STATE_HOME", tt.xdgState)

			got := getLogFilePath()
			if !filepath.IsAbs(got) {
				t.Errorf("getLogFilePath() returned relative path: %s", got)
			}
			if !contains(got, tt.wantContains) {
				t.Errorf("getLogFilePath() = %s, want to contain %s", got, tt.wantContains)
			}
		})
	}
}

func TestGetLogger(t *testing.T) {
	logger := GetLogger("test-component")
	logger.Info().Msg("test message")
}

func contains(s, substr string) bool {
	cleanedS := filepath.ToSlash(s)
	cleanedSubstr := filepath.ToSlash(substr)
	return strings.Contains(cleanedS, cleanedSubstr)
}
