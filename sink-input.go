package pipewire

import (
	"fmt"
)

// A SinkInput is the node of an application stream playing into a sink.
type SinkInput struct {
	audioNode
}

func (self *SinkInput) String() string {
	return fmt.Sprintf("sink input %d %q", self.Index, self.ApplicationName())
}

// The name of the application playing the stream.
func (self *SinkInput) ApplicationName() string {
	if name := self.P(KeyApplicationName).String(); name != `` {
		return name
	}

	return self.Name
}

// The id of the node the stream is linked to, or IDAny.
func (self *SinkInput) Target() uint32 {
	if self.P(KeyTargetObject).IsEmpty() {
		return IDAny
	}

	return uint32(self.P(KeyTargetObject).Int())
}

// MoveToSink asks the session manager to relink the stream to another sink
// through the default metadata.
func (self *SinkInput) MoveToSink(sinkIndex uint32) error {
	metadata, err := self.Conn.GetMetadata(DefaultMetadataName)
	if err != nil {
		return err
	}

	defer metadata.Destroy()

	if err := metadata.SetProperty(self.Index, KeyTargetObject, MetadataTypeID, fmt.Sprintf("%d", sinkIndex)); err != nil {
		return err
	}

	return metadata.SetProperty(self.Index, KeyTargetNode, MetadataTypeID, fmt.Sprintf("%d", sinkIndex))
}

// Kill asks the server to destroy the stream's node.
func (self *SinkInput) Kill() error {
	return self.Conn.DestroyObject(self.Index)
}

// Retrieve all application streams playing audio.
func (self *Conn) GetSinkInputs(filters ...string) ([]*SinkInput, error) {
	inputs := make([]*SinkInput, 0)

	nodes, err := self.getAudioNodes(MediaClassSinkInput, filters)

	for _, node := range nodes {
		inputs = append(inputs, &SinkInput{
			audioNode: node,
		})
	}

	return inputs, err
}
