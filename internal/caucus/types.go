// Package caucus provides the core types shared by the improv assignment engine.
package caucus

// Student is a member of a course roster.
type Student struct {
	ID   string `yaml:"id,omitempty" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Course groups the students an instructor draws from.
type Course struct {
	ID       string    `yaml:"id,omitempty" json:"id"`
	Name     string    `yaml:"name" json:"name"`
	Students []Student `yaml:"students" json:"students"`
}

// StudentsByID returns the course students whose id is in selected, in roster order.
func (c Course) StudentsByID(selected map[string]bool) []Student {
	out := make([]Student, 0, len(selected))
	for _, s := range c.Students {
		if selected[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// Character is a role a student plays. Unique within one impro.
type Character struct {
	ID   string `yaml:"id,omitempty" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Mood is the emotion a character is played with. May repeat within one impro.
type Mood struct {
	ID   string `yaml:"id,omitempty" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Place is a scene location.
type Place struct {
	ID   string `yaml:"id,omitempty" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Kind names one of the entity pools.
type Kind string

const (
	KindCharacter Kind = "character"
	KindMood      Kind = "mood"
	KindPlace     Kind = "place"
)

// Plural returns the pool name for the kind (e.g. "characters").
func (k Kind) Plural() string {
	return string(k) + "s"
}

// ImproAssignment pairs one student with the character and mood they play.
type ImproAssignment struct {
	Student   Student   `json:"student"`
	Character Character `json:"character"`
	Mood      Mood      `json:"mood"`
}

// Impro is a generated scene: one assignment per selected student plus the
// shared set of places. It lives only in memory and is owned by the caller.
type Impro struct {
	Assignments []ImproAssignment `json:"assignments"`
	Places      []Place           `json:"places"`
}

// CharacterIDs returns the character id of every assignment, in order.
func (i Impro) CharacterIDs() []string {
	ids := make([]string, len(i.Assignments))
	for k, a := range i.Assignments {
		ids[k] = a.Character.ID
	}
	return ids
}

// PlaceIDs returns the id of every selected place, in order.
func (i Impro) PlaceIDs() []string {
	ids := make([]string, len(i.Places))
	for k, p := range i.Places {
		ids[k] = p.ID
	}
	return ids
}
