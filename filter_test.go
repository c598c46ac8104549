package pipewire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFilterExpr(t *testing.T) {
	assert := require.New(t)

	assert.Equal(filterExpr{`id`, ``, `42`}, parseFilterExpr(`id/42`))
	assert.Equal(filterExpr{`volume`, `gte`, `0.5`}, parseFilterExpr(`volume/gte:0.5`))
	assert.Equal(filterExpr{`props.media.class`, ``, `Audio/Sink`}, parseFilterExpr(`props.media.class/Audio/Sink`))
	assert.Equal(filterExpr{`type`, ``, `PipeWire:Interface:Node`}, parseFilterExpr(`type/PipeWire:Interface:Node`))
	assert.Equal(filterExpr{`name`, `prefix`, `alsa_`}, parseFilterExpr(`name/prefix:alsa_`))
}

func TestFilterApply(t *testing.T) {
	assert := require.New(t)
	node := map[string]interface{}{
		`id`:     uint32(31),
		`volume`: 0.75,
		`props`: map[string]interface{}{
			`node`: map[string]interface{}{
				`name`: `alsa_output.pci-0000_00_1f.3.analog-stereo`,
			},
		},
		`muted`: false,
	}

	flt := Filter{`id/31`}

	assert.EqualValues(map[string]interface{}{
		`id`: uint32(31),
	}, flt.Apply(node))

	flt = append(flt, `muted/true`)

	assert.EqualValues(map[string]interface{}{
		`id`: uint32(31),
	}, flt.Apply(node))

	flt = Filter{`props.node.name/prefix:alsa_output`, `muted/false`}

	assert.EqualValues(map[string]interface{}{
		`props`: map[string]interface{}{
			`node`: map[string]interface{}{
				`name`: `alsa_output.pci-0000_00_1f.3.analog-stereo`,
			},
		},
		`muted`: false,
	}, flt.Apply(node))

	assert.NotEmpty(Filter{`volume/gt:0.5`}.Apply(node))
	assert.NotEmpty(Filter{`volume/lte:0.75`}.Apply(node))
	assert.Empty(Filter{`volume/lt:0.75`}.Apply(node))
	assert.Empty(Filter{`id/not:31`}.Apply(node))
	assert.NotEmpty(Filter{`props.node.name/contains:analog`}.Apply(node))

	// expressions without a field or value never match
	assert.Empty(Filter{`/31`, `id/`}.Apply(node))
}

func TestFilterString(t *testing.T) {
	assert := require.New(t)

	assert.Equal(`id/31;muted/true`, Filter{`id/31`, `muted/true`}.String())
	assert.Equal(Filter{`a/1`, `b/2`}, F([]string{`a/1`, `b/2`}))
	assert.True(Filter{}.IsMatch(map[string]interface{}{`x`: 1}))
}
