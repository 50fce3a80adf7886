package session

import (
	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// EngineOptions translates the game section of the configuration into engine options.
// A zero seed gives every engine its own time based source.
func EngineOptions(cfg config.GameConfig) []t2048.Option {
	return []t2048.Option{
		t2048.WithSize(cfg.Size),
		t2048.WithWinTile(cfg.WinTile),
		t2048.WithSpawn4Probability(cfg.Spawn4Probability),
		t2048.WithSeed(cfg.Seed),
	}
}
