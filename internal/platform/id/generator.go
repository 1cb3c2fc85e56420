package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

const (
	publicIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	publicIDLength   = 12
)

// NanoGenerator issues short lowercase ids that are safe in URLs and chat messages.
type NanoGenerator struct {
	alphabet string
	length   int
}

func NewNanoGenerator() *NanoGenerator {
	return &NanoGenerator{alphabet: publicIDAlphabet, length: publicIDLength}
}

func (g *NanoGenerator) NewID() (string, error) {
	out, err := gonanoid.Generate(g.alphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return out, nil
}

// SequenceGenerator returns predictable ids, for tests and seeding.
type SequenceGenerator struct {
	Prefix string
	next   int
}

func (g *SequenceGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("%s%d", g.Prefix, g.next), nil
}
