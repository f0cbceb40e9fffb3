package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/f3rmion/caucus/internal/caucus"
)

// PoolsFile is the name of the pool seed file inside the data directory.
const PoolsFile = "pools.yaml"

// Pools is the on-disk form of the three entity pools. Ids are optional;
// entries without an id get one when imported.
type Pools struct {
	Characters []caucus.Character `yaml:"characters"`
	Moods      []caucus.Mood      `yaml:"moods"`
	Places     []caucus.Place     `yaml:"places"`
}

// Len returns the total number of entries.
func (p Pools) Len() int {
	return len(p.Characters) + len(p.Moods) + len(p.Places)
}

// LoadPools reads pools from a YAML file.
func LoadPools(path string) (Pools, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pools{}, fmt.Errorf("reading pools file: %w", err)
	}
	return ParsePools(data)
}

// ParsePools decodes pools from YAML.
func ParsePools(data []byte) (Pools, error) {
	var pools Pools
	if err := yaml.Unmarshal(data, &pools); err != nil {
		return Pools{}, fmt.Errorf("parsing pools file: %w", err)
	}
	return pools, nil
}

// SavePools writes pools to a YAML file.
func SavePools(path string, pools Pools) error {
	out, err := yaml.Marshal(&pools)
	if err != nil {
		return fmt.Errorf("marshaling pools: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing pools file: %w", err)
	}
	return nil
}

// DefaultPools is written by `caucus init`.
const DefaultPools = `# caucus - improv pools
#
# Every generation draws from these lists:
#   characters  one distinct character per student
#   moods       may repeat when there are more students than moods
#   places      shared by the whole scene
#
# Edit freely, then run 'caucus pools import' to load changes.

characters:
  - name: Pirate captain
  - name: Astronaut
  - name: Retired magician
  - name: Lighthouse keeper
  - name: Food critic
  - name: Time traveller
  - name: Nervous bank robber
  - name: Medieval knight
  - name: Detective
  - name: Opera singer
  - name: Museum guard
  - name: Alien tourist

moods:
  - name: Joyful
  - name: Angry
  - name: Sad
  - name: Anxious
  - name: Bored
  - name: Suspicious
  - name: Enthusiastic
  - name: Jealous

places:
  - name: Train station
  - name: Desert island
  - name: Hospital waiting room
  - name: Space station
  - name: Bakery
  - name: Haunted castle
  - name: Supermarket checkout
  - name: Elevator
`
