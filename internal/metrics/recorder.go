package metrics

import "time"

// Flavor labels whether a reference was a link or an embed.
type Flavor string

const (
	FlavorLink  Flavor = "link"
	FlavorEmbed Flavor = "embed"
)

// FlavorOf maps an embed flag to its label.
func FlavorOf(embed bool) Flavor {
	if embed {
		return FlavorEmbed
	}
	return FlavorLink
}

// Recorder defines observability hooks for reference operations.
type Recorder interface {
	IncCopy(target string, flavor Flavor) // target: heading|block
	IncPaste(flavor Flavor)
	IncMintedID()
	IncNotApplicable(operation string)
	ObserveOperationDuration(operation string, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncCopy(string, Flavor)                          {}
func (NoopRecorder) IncPaste(Flavor)                                 {}
func (NoopRecorder) IncMintedID()                                    {}
func (NoopRecorder) IncNotApplicable(string)                         {}
func (NoopRecorder) ObserveOperationDuration(string, time.Duration) {}
