package wire

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CommandOverlay lets an operator extend or correct the built-in command
// length map without a rebuild: new firmware revisions occasionally add
// command ids before a matching release of this service ships.
type CommandOverlay struct {
	Entries map[int32]OverlayEntry `yaml:"commands"`
}

// OverlayEntry mirrors bodySpec in YAML form.
type OverlayEntry struct {
	Size        uint32 `yaml:"size"`
	NeedsPrefix bool   `yaml:"needs_length_prefix"`
}

func LoadCommandOverlay(path string) (*CommandOverlay, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read command overlay: %w", err)
	}
	var o CommandOverlay
	if err := yaml.Unmarshal(b, &o); err != nil {
		return nil, fmt.Errorf("unmarshal command overlay: %w", err)
	}
	if o.Entries == nil {
		o.Entries = make(map[int32]OverlayEntry)
	}
	return &o, nil
}

// Apply installs the overlay's entries into the process-wide command length
// map. Overlay entries take precedence over the built-in table for any id
// they name; ids the overlay doesn't mention are left untouched. Call this
// during startup, before any commandserver.Server begins accepting
// connections — the map is not guarded for concurrent mutation.
func (o *CommandOverlay) Apply() {
	if o == nil {
		return
	}
	for id, e := range o.Entries {
		commandLengthMap[id] = bodySpec{size: e.Size, needsPrefix: e.NeedsPrefix}
	}
}
