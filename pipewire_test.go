package pipewire

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/stretchr/testify/require"
)

type MyStruct struct {
	Name  string `key:"name,omitempty"`
	Count int    `key:"count"`
	Other string
}

// requireDaemon connects to the session's PipeWire daemon, or skips the test
// when there is none.
func requireDaemon(t *testing.T) *Conn {
	t.Helper()

	runtimeDir := os.Getenv(`PIPEWIRE_RUNTIME_DIR`)

	if runtimeDir == `` {
		runtimeDir = os.Getenv(`XDG_RUNTIME_DIR`)
	}

	remote := os.Getenv(`PIPEWIRE_REMOTE`)

	if remote == `` {
		remote = `pipewire-0`
	}

	if runtimeDir == `` {
		t.Skip("no runtime directory, skipping test that needs a PipeWire daemon")
	} else if _, err := os.Stat(filepath.Join(runtimeDir, remote)); err != nil {
		t.Skipf("no PipeWire socket at %s, skipping", filepath.Join(runtimeDir, remote))
	}

	conn, err := New(`test-` + filepath.Base(t.Name()))
	require.NoError(t, err)

	t.Cleanup(conn.Destroy)

	return conn
}

func TestUnmarshalMap(t *testing.T) {
	assert := require.New(t)
	v := CoreInfo{}
	my := MyStruct{}

	assert.NoError(UnmarshalMap(map[string]interface{}{
		`Name`:              `pipewire-0`,
		`Cookie`:            1217231283,
		`nonexistent-field`: false,
	}, &v))

	assert.Equal(`pipewire-0`, v.Name)
	assert.EqualValues(1217231283, v.Cookie)

	assert.Error(UnmarshalMap(map[string]interface{}{
		`Name`:     `pipewire-0`,
		`Cookie`:   `wrong-data-type`,
		`UserName`: []string{`what`, `u`, `say`, `?`},
	}, &v))

	assert.NoError(UnmarshalMap(map[string]interface{}{
		`name`:  `TestingName`,
		`count`: 54,
		`Other`: `Should be here`,
	}, &my))

	assert.Equal(`TestingName`, my.Name)
	assert.Equal(54, my.Count)
	assert.Equal(`Should be here`, my.Other)

	assert.Error(UnmarshalMap(map[string]interface{}{}, my))
}

func TestPopulateStructFromProperties(t *testing.T) {
	assert := require.New(t)

	props := Properties{
		KeyNodeName:        `alsa_output.pci`,
		KeyNodeDescription: `Built-in Audio`,
		KeyMediaClass:      `Audio/Sink`,
	}

	node := NodeInfo{
		Props: props,
	}

	assert.NoError(populateStruct(propsToMap(props), &node))
	assert.Equal(`alsa_output.pci`, node.Name)
	assert.Equal(`Built-in Audio`, node.Description)
	assert.Equal(`Audio/Sink`, node.MediaClass)

	port := PortInfo{}

	assert.NoError(populateStruct(map[string]interface{}{
		`node.id`:   `42`,
		`port.name`: `playback_FL`,
	}, &port))

	assert.EqualValues(42, port.NodeID)
	assert.Equal(`playback_FL`, port.Name)

	assert.Error(populateStruct(map[string]interface{}{
		`node.id`: `forty-two`,
	}, &port))
}

func TestLiftPropsKeepsWellFormedFields(t *testing.T) {
	assert := require.New(t)

	type counted struct {
		Count int    `key:"object.count"`
		Name  string `key:"object.name"`
		Rate  uint32 `key:"object.rate"`
	}

	props := Properties{
		`object.count`: `several`,
		`object.name`:  `capture_MONO`,
		`object.rate`:  `48000`,
	}

	var out counted

	err := populateStruct(propsToMap(props), &out)
	assert.Error(err)
	assert.Contains(err.Error(), `Count`)
	assert.Equal(`capture_MONO`, out.Name)
	assert.EqualValues(48000, out.Rate)

	out = counted{}
	liftProps(props, &out)

	assert.Zero(out.Count)
	assert.Equal(`capture_MONO`, out.Name)
	assert.EqualValues(48000, out.Rate)

	port := PortInfo{}
	liftProps(Properties{`node.id`: `none`, `port.name`: `playback_FR`}, &port)

	assert.Zero(port.NodeID)
	assert.Equal(`playback_FR`, port.Name)
}

func TestAsyncSeq(t *testing.T) {
	assert := require.New(t)

	assert.Equal(5, asyncSeq(5))
	assert.Equal(5, asyncSeq(0x40000005))
	assert.Equal(0, asyncSeq(0x40000000))
}

func TestOperationComplete(t *testing.T) {
	assert := require.New(t)

	operation := NewOperation(nil)
	operation.Timeout = time.Second

	payload := operation.AddPayload()
	payload.Properties[`id`] = spa.ParamProps

	operation.complete(nil)
	operation.complete(NotConnectedErr)

	assert.NoError(operation.WaitSuccess(func(op *Operation) error {
		assert.Len(op.Payloads, 1)
		assert.Equal(spa.ParamProps, op.Payloads[0].Properties[`id`])
		return nil
	}))
}

func TestOperationTimeout(t *testing.T) {
	assert := require.New(t)

	operation := NewOperation(nil)
	operation.Timeout = 10 * time.Millisecond

	assert.Error(operation.Wait())
}

func TestNew(t *testing.T) {
	assert := require.New(t)
	conn := requireDaemon(t)

	info, err := conn.GetCoreInfo()
	assert.NoError(err)
	assert.NotEmpty(info.Version)
	assert.NotEmpty(info.Name)
}

func TestUpdateClientProperties(t *testing.T) {
	assert := require.New(t)
	conn := requireDaemon(t)

	assert.NoError(conn.UpdateClientProperties(Properties{
		`pipewire.test.marker`: conn.ID,
	}))

	assert.NoError(conn.Roundtrip())

	clients, err := conn.GetClients(`props.pipewire.test.marker/` + conn.ID)
	assert.NoError(err)
	assert.Len(clients, 1)
}

func TestGetGlobals(t *testing.T) {
	assert := require.New(t)
	conn := requireDaemon(t)

	globals, err := conn.GetGlobals()
	assert.NoError(err)
	assert.NotEmpty(globals)

	cores, err := conn.GetGlobals(`type/` + string(TypeCore))
	assert.NoError(err)
	assert.Len(cores, 1)
	assert.EqualValues(IDCore, cores[0].ID)
}

func TestGetNodes(t *testing.T) {
	assert := require.New(t)
	conn := requireDaemon(t)

	nodes, err := conn.GetNodes()
	assert.NoError(err)

	for _, node := range nodes {
		assert.Equal(node.BoundID(), node.Info().ID)
		node.Destroy()
	}
}

func TestGetSinks(t *testing.T) {
	assert := require.New(t)
	conn := requireDaemon(t)

	sinks, err := conn.GetSinks()
	assert.NoError(err)

	for _, sink := range sinks {
		assert.GreaterOrEqual(sink.VolumeFactor, 0.0)
		t.Logf("%v: volume=%.2f muted=%v", sink, sink.VolumeFactor, sink.Muted)
	}
}

func TestRoundtripFromLoopThread(t *testing.T) {
	assert := require.New(t)
	conn := requireDaemon(t)

	nodes, err := conn.GetGlobals(`type/` + string(TypeNode))
	assert.NoError(err)

	if len(nodes) == 0 {
		t.Skip("no nodes to bind")
	}

	node, err := conn.registry.BindNode(nodes[0].ID)
	assert.NoError(err)
	defer node.Destroy()

	result := make(chan error, 1)

	node.OnNodeInfo(func(NodeInfo) {
		select {
		case result <- conn.Roundtrip():
		default:
		}
	})

	assert.NoError(node.SubscribeParams(spa.ParamProps))

	select {
	case err := <-result:
		assert.ErrorIs(err, LoopThreadErr)
	case <-time.After(time.Second):
		t.Skip("no info event arrived")
	}
}

func TestPlaybackStream(t *testing.T) {
	assert := require.New(t)
	conn := requireDaemon(t)

	source := NewSineSource(DefaultSampleSpec())
	stream, err := NewSineStream(conn, `test-sine`, source, nil)
	assert.NoError(err)

	if err := stream.Initialize(); err != nil {
		stream.Destroy()
		t.Skipf("no sink to play to: %v", err)
	}

	time.Sleep(200 * time.Millisecond)

	assert.NotEqual(IDAny, stream.NodeID())
	assert.NoError(stream.Close())
}
