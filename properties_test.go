package pipewire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProperties(t *testing.T) {
	assert := require.New(t)

	props := PropertiesFromMap(map[string]interface{}{
		KeyNodeName:     `test`,
		KeyAudioRate:    48000,
		KeyObjectLinger: true,
		`skipped`:       nil,
	})

	assert.Equal(`test`, props.Get(KeyNodeName))
	assert.Equal(`48000`, props.Get(KeyAudioRate))
	assert.EqualValues(48000, props.Int(KeyAudioRate))
	assert.Equal(48000.0, props.Float(KeyAudioRate))
	assert.True(props.Bool(KeyObjectLinger))
	assert.NotContains(props, `skipped`)

	props.SetDefault(KeyNodeName, `other`)
	props.SetDefault(KeyMediaClass, `Audio/Sink`)

	assert.Equal(`test`, props.Get(KeyNodeName))
	assert.Equal(`Audio/Sink`, props.Get(KeyMediaClass))

	props.Delete(KeyMediaClass)
	assert.Equal(``, props.Get(KeyMediaClass))

	assert.Equal([]string{KeyAudioRate, KeyNodeName, KeyObjectLinger}, props.Keys())
	assert.Equal(`audio.rate="48000" node.name="test" object.linger="true"`, props.String())
}

func TestPropertiesMerge(t *testing.T) {
	assert := require.New(t)

	base := Properties{
		KeyMediaType: `Audio`,
		KeyMediaRole: `Music`,
	}

	merged := base.Merge(Properties{
		KeyMediaRole: `Game`,
	})

	assert.Equal(`Game`, merged.Get(KeyMediaRole))
	assert.Equal(`Audio`, merged.Get(KeyMediaType))
	assert.Equal(`Music`, base.Get(KeyMediaRole))

	var empty Properties

	copied := empty.Merge(nil)
	copied.Set(KeyNodeName, `x`)

	assert.Len(copied, 1)
}

func TestPropertiesFilterAndMap(t *testing.T) {
	assert := require.New(t)

	props := Properties{
		KeyNodeName:        `alsa_output`,
		KeyNodeDescription: `Speakers`,
		KeyMediaClass:      `Audio/Sink`,
	}

	assert.Equal(Properties{
		KeyNodeName:        `alsa_output`,
		KeyNodeDescription: `Speakers`,
	}, props.Filter(`node.`))

	assert.Equal(map[string]interface{}{
		`node`: map[string]interface{}{
			`name`:        `alsa_output`,
			`description`: `Speakers`,
		},
		`media`: map[string]interface{}{
			`class`: `Audio/Sink`,
		},
	}, props.Map())
}

func TestFilterMatchesProperties(t *testing.T) {
	assert := require.New(t)

	global := Global{
		ID:      42,
		Type:    TypeNode,
		Version: 3,
		Props: Properties{
			KeyMediaClass: `Audio/Sink`,
		},
	}

	assert.True(F(`props.media.class/Audio/Sink`).IsMatch(global))
	assert.True(F(`type/PipeWire:Interface:Node`).IsMatch(global))
	assert.True(F(`id/42`).IsMatch(global))
	assert.False(F(`props.media.class/Audio/Source`).IsMatch(global))
	assert.True(F(`id/gt:40`).IsMatch(global))
}
