package parser

import "git.lost.host/meutraa/badlands/internal/game"

type Parser interface {
	Parse(file string) (*game.Song, error)
}
