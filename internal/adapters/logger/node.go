package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/grindlemire/graft"
	"go.trai.ch/blaze/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// Environment variables read when the logger is built.
const (
	// LevelEnv sets the minimum level: debug, info, warn or error.
	LevelEnv = "BLAZE_LOG_LEVEL"
	// FormatEnv selects the output format: pretty (default) or json.
	FormatEnv = "BLAZE_LOG_FORMAT"
)

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			return FromEnv(os.Getenv)
		},
	})
}

// FromEnv creates a logger configured by LevelEnv and FormatEnv.
func FromEnv(getenv func(string) string) (*Logger, error) {
	l := New().(*Logger)

	if v := getenv(LevelEnv); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid log level"), "value", v)
		}
		l.SetLevel(level)
	}

	switch format := strings.ToLower(getenv(FormatEnv)); format {
	case "", "pretty":
	case "json":
		l.SetJSON(true)
	default:
		return nil, zerr.With(zerr.New("unknown log format"), "value", format)
	}
	return l, nil
}
