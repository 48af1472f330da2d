package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec: the most portable option, and
// the one to pick when snapshot files must be readable by other tooling
// without caveats.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used for newly written snapshots when none is
// configured. Existing files are self-describing and are opened with the
// codec named in their header, so changing Default is always safe.
var Default Codec = GoJSON{}
