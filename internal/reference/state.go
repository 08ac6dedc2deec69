// Package reference holds the last copied target and turns it into link or
// embed text.
package reference

// Target is what a copy records: the document it came from, the anchor path
// inside it and the flavor it was copied with.
type Target struct {
	Document   string `json:"document"`
	AnchorPath string `json:"anchor"`
	Embed      bool   `json:"embed"`
	Heading    bool   `json:"heading"`
}

// State is a single-slot memory for the last copied Target. The zero value
// holds nothing. Record overwrites; reads never clear it.
//
// State is not safe for concurrent use.
type State struct {
	target Target
	set    bool
}

// NewState returns an empty State.
func NewState() *State {
	return &State{}
}

// Record replaces whatever was held before.
func (s *State) Record(t Target) {
	s.target = t
	s.set = true
}

// Current returns the held target and whether one has been recorded.
func (s *State) Current() (Target, bool) {
	return s.target, s.set
}
