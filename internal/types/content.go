package types

// Quest describes a quest document parsed from the workspace.
type Quest struct {
	ID     string   `yaml:"id"`
	Title  string   `yaml:"title"`
	Giver  string   `yaml:"giver,omitempty"`
	Stages []Stage  `yaml:"stages"`
	Reward string   `yaml:"reward,omitempty"`
	Tags   []string `yaml:"tags,omitempty"`
}

// Stage is a single step of a quest.
type Stage struct {
	Objective string `yaml:"objective"`
	Script    string `yaml:"script,omitempty"` // script file run on completion
}

// Projectile describes a projectile definition document.
type Projectile struct {
	ID      string  `yaml:"id"`
	Sprite  string  `yaml:"sprite"`
	Speed   float64 `yaml:"speed"`
	Damage  int     `yaml:"damage"`
	Pattern string  `yaml:"pattern,omitempty"` // straight, arc, homing
	Script  string  `yaml:"script,omitempty"`
}

// PropertyBag is a named set of key/value properties attached to an entity.
type PropertyBag struct {
	ID     string            `yaml:"id"`
	Target string            `yaml:"target,omitempty"`
	Values map[string]string `yaml:"values"`
}

// Note is a free-form design note.
type Note struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// EditEntry is one row of the catalog edit history.
type EditEntry struct {
	ID        int64
	Timestamp string
	Mode      Mode
	Path      string
	Summary   string
}
