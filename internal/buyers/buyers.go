// Package buyers loads buyer directory seed data from YAML.
package buyers

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

//go:embed seed.yaml
var seed []byte

type file struct {
	Buyers []domain.BuyerProfile `yaml:"buyers"`
}

// Default returns the built-in demo directory.
func Default() []domain.BuyerProfile {
	buyers, err := Parse(seed)
	if err != nil {
		panic(fmt.Sprintf("buyers: invalid seed: %v", err))
	}
	return buyers
}

// LoadFile reads a directory file. Unknown fields are rejected.
func LoadFile(path string) ([]domain.BuyerProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read buyers file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]domain.BuyerProfile, error) {
	var f file
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse buyers: %w", err)
	}

	if err := validate(f.Buyers); err != nil {
		return nil, fmt.Errorf("invalid buyers: %w", err)
	}
	for i := range f.Buyers {
		normalize(&f.Buyers[i])
	}
	return f.Buyers, nil
}

func validate(buyers []domain.BuyerProfile) error {
	seen := make(map[string]int, len(buyers))
	for i, b := range buyers {
		id := strings.TrimSpace(b.ID)
		if id == "" {
			return fmt.Errorf("buyer %d: id is required", i)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("buyer %d: duplicate id %q (first at %d)", i, id, prev)
		}
		seen[id] = i
	}
	return nil
}

func normalize(b *domain.BuyerProfile) {
	b.ID = strings.TrimSpace(b.ID)
	if b.Interests == nil {
		b.Interests = []string{}
	}
	if b.Favorites == nil {
		b.Favorites = []string{}
	}
	if b.PreviousRequests == nil {
		b.PreviousRequests = []string{}
	}
}
