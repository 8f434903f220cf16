package config

import (
	"github.com/charmbracelet/log"

	"github.com/tomz197/blaster/internal/loop/server"
	"github.com/tomz197/blaster/internal/object"
)

// GameOptions returns the simulation options for one session.
func (c Config) GameOptions(logger *log.Logger) server.Options {
	return server.Options{
		Field:         object.Field{Width: c.Game.FieldWidth, Height: c.Game.FieldHeight},
		TickInterval:  c.Game.TickInterval,
		SpawnInterval: c.Game.SpawnInterval,
		Logger:        logger,
	}
}
