package pipewire

import (
	"fmt"
)

// A Source is an audio input node such as a microphone or the monitor of a
// sink.
type Source struct {
	audioNode
}

func (self *Source) String() string {
	return fmt.Sprintf("source %d %q", self.Index, self.Name)
}

// Whether this source records what a sink plays.
func (self *Source) IsMonitor() bool {
	return self.P(`node.virtual`).Bool() || self.P(`device.class`).String() == `monitor`
}

// Retrieve all sources matching the given filters, with their volume loaded.
func (self *Conn) GetSources(filters ...string) ([]*Source, error) {
	sources := make([]*Source, 0)

	nodes, err := self.getAudioNodes(MediaClassSource, filters)

	for _, node := range nodes {
		sources = append(sources, &Source{
			audioNode: node,
		})
	}

	return sources, err
}
