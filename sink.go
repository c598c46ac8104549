package pipewire

import (
	"fmt"
	"math"

	"github.com/auroralaboratories/pipewire/spa/pod"
	"github.com/ghetzel/go-stockutil/log"
)

const (
	MediaClassSink        = `Audio/Sink`
	MediaClassSource      = `Audio/Source`
	MediaClassSinkInput   = `Stream/Output/Audio`
	MediaClassSourceInput = `Stream/Input/Audio`
)

// An audioNode is a node whose Props carry a volume per channel and a mute
// flag. Volume factors are on the cubic scale mixers show, so 0.5 is about
// half as loud as 1.0.
type audioNode struct {
	*Node
	Index          uint32    `json:"index"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	State          NodeState `json:"state"`
	Channels       int       `json:"channels"`
	Muted          bool      `json:"muted"`
	VolumeFactor   float64   `json:"volume"`
	ChannelVolumes []float64 `json:"channel_volumes"`
	props          pod.Props
}

func newAudioNode(node *Node) audioNode {
	return audioNode{
		Node: node,
	}
}

// Synchronize the node's volume and mute state with the server.
func (self *audioNode) Refresh() error {
	props, err := self.Node.Props()
	if err != nil {
		return err
	}

	self.Initialize(self.Node.Info(), props)

	return nil
}

// Populate the view from a node info and its Props param.
func (self *audioNode) Initialize(info NodeInfo, props pod.Props) {
	self.props = props
	self.Index = info.ID
	self.Name = info.Name
	self.Description = info.Description
	self.State = info.State
	self.ChannelVolumes = nil

	for _, v := range props.ChannelVolumes {
		self.ChannelVolumes = append(self.ChannelVolumes, cubicToFactor(float64(v)))
	}

	self.Channels = len(self.ChannelVolumes)

	switch {
	case self.Channels > 0:
		var sum float64

		for _, v := range props.ChannelVolumes {
			sum += float64(v)
		}

		self.VolumeFactor = cubicToFactor(sum / float64(self.Channels))
	case props.Volume != nil:
		self.VolumeFactor = cubicToFactor(float64(*props.Volume))
	default:
		self.VolumeFactor = 1.0
	}

	self.Muted = props.Mute != nil && *props.Mute
}

// Set the volume of all channels of this node to a factor of the maximum
// volume (0.0 <= v <= 1.0).  Factors greater than 1.0 will be accepted, but
// clipping or distortion may occur beyond that value.
func (self *audioNode) SetVolume(factor float64) error {
	if factor < 0 {
		factor = 0
	}

	var props pod.Props

	if self.Channels > 0 {
		props.ChannelVolumes = make([]float32, self.Channels)

		for i := range props.ChannelVolumes {
			props.ChannelVolumes[i] = float32(factorToCubic(factor))
		}
	} else {
		volume := float32(factorToCubic(factor))
		props.Volume = &volume
	}

	if err := self.SetProps(props); err != nil {
		return fmt.Errorf("Cannot set volume on node %d: %w", self.Index, err)
	}

	log.Debugf("pipewire: node %d volume -> %.3f", self.Index, factor)

	return self.Refresh()
}

// Add the given factor to the current volume.
func (self *audioNode) IncreaseVolume(factor float64) error {
	if err := self.Refresh(); err == nil {
		return self.SetVolume(self.VolumeFactor + factor)
	} else {
		return err
	}
}

// Remove the given factor from the current volume, or set to a minimum of
// 0.0.
func (self *audioNode) DecreaseVolume(factor float64) error {
	if err := self.Refresh(); err == nil {
		newFactor := (self.VolumeFactor - factor)

		if newFactor < 0.0 {
			return self.SetVolume(0.0)
		} else {
			return self.SetVolume(newFactor)
		}
	} else {
		return err
	}
}

func (self *audioNode) SetMute(mute bool) error {
	if err := self.SetProps(pod.Props{
		Mute: &mute,
	}); err != nil {
		return fmt.Errorf("Cannot set mute on node %d: %w", self.Index, err)
	}

	return self.Refresh()
}

// Explicitly mute the node.
func (self *audioNode) Mute() error {
	return self.SetMute(true)
}

// Explicitly unmute the node.
func (self *audioNode) Unmute() error {
	return self.SetMute(false)
}

// Mute or unmute the node, depending on whether it is currently unmuted or
// muted (respectively).
func (self *audioNode) ToggleMute() error {
	if err := self.Refresh(); err == nil {
		return self.SetMute(!self.Muted)
	} else {
		return err
	}
}

func (self *audioNode) Map() map[string]interface{} {
	out := self.Node.Map()
	out[`muted`] = self.Muted
	out[`volume`] = self.VolumeFactor
	out[`channels`] = self.Channels

	return out
}

func cubicToFactor(v float64) float64 {
	if v <= 0 {
		return 0
	}

	return math.Cbrt(v)
}

func factorToCubic(factor float64) float64 {
	return factor * factor * factor
}

// A Sink is an audio output node such as a sound card playback device.
type Sink struct {
	audioNode
}

func (self *Sink) String() string {
	return fmt.Sprintf("sink %d %q", self.Index, self.Name)
}

// Retrieve all sinks matching the given filters, with their volume loaded.
func (self *Conn) GetSinks(filters ...string) ([]*Sink, error) {
	sinks := make([]*Sink, 0)

	nodes, err := self.getAudioNodes(MediaClassSink, filters)

	for _, node := range nodes {
		sinks = append(sinks, &Sink{
			audioNode: node,
		})
	}

	return sinks, err
}

// getAudioNodes binds the nodes of the given media class that match all of
// the filters.
func (self *Conn) getAudioNodes(mediaClass string, filters []string) ([]audioNode, error) {
	out := make([]audioNode, 0)

	nodes, err := self.GetNodes(`props.` + KeyMediaClass + FieldValueSeparator + mediaClass)
	if err != nil {
		return nil, err
	}

	for _, node := range nodes {
		if len(filters) > 0 && !F(filters).IsMatch(node) {
			node.Destroy()
			continue
		}

		view := newAudioNode(node)

		if err := view.Refresh(); err != nil {
			log.Debugf("pipewire: cannot read props of node %d: %v", node.BoundID(), err)
			view.Initialize(node.Info(), pod.Props{})
		}

		out = append(out, view)
	}

	return out, nil
}
