package pipewire

// #include "pipewire.go.h"
// #cgo pkg-config: libpipewire-0.3
import "C"

import (
	"fmt"
	"sort"
	"strings"
	"unsafe"

	"github.com/ghetzel/go-stockutil/maputil"
	"github.com/ghetzel/go-stockutil/typeutil"
)

// Well-known property keys.
const (
	KeyApplicationName = `application.name`
	KeyRemoteName      = `remote.name`
	KeyMediaType       = `media.type`
	KeyMediaCategory   = `media.category`
	KeyMediaRole       = `media.role`
	KeyMediaClass      = `media.class`
	KeyMediaName       = `media.name`
	KeyNodeName        = `node.name`
	KeyNodeNick        = `node.nick`
	KeyNodeDescription = `node.description`
	KeyNodeLatency     = `node.latency`
	KeyNodeAutoconnect = `node.autoconnect`
	KeyTargetObject    = `target.object`
	KeyObjectID        = `object.id`
	KeyObjectSerial    = `object.serial`
	KeyObjectLinger    = `object.linger`
	KeyPortName        = `port.name`
	KeyPortDirection   = `port.direction`
	KeyFormatDSP       = `format.dsp`
	KeyLinkOutputNode  = `link.output.node`
	KeyLinkOutputPort  = `link.output.port`
	KeyLinkInputNode   = `link.input.node`
	KeyLinkInputPort   = `link.input.port`
	KeyDeviceName      = `device.name`
	KeyDeviceAPI       = `device.api`
	KeyClientName      = `client.name`
	KeyFactoryName     = `factory.name`
	KeyModuleName      = `module.name`
	KeyAudioChannel    = `audio.channel`
	KeyAudioChannels   = `audio.channels`
	KeyAudioRate       = `audio.rate`
	KeyAudioFormat     = `audio.format`
)

// Properties are the string key/value pairs attached to PipeWire objects.
type Properties map[string]string

// PropertiesFromMap stringifies every value of the given map.
func PropertiesFromMap(in map[string]interface{}) Properties {
	props := make(Properties)

	for k, v := range in {
		if v == nil {
			continue
		}

		props[k] = typeutil.V(v).String()
	}

	return props
}

func (self Properties) Get(key string) string {
	return self[key]
}

func (self Properties) Set(key string, value interface{}) Properties {
	self[key] = typeutil.V(value).String()
	return self
}

// Set the key only if it is not already present.
func (self Properties) SetDefault(key string, value interface{}) Properties {
	if _, ok := self[key]; !ok {
		self.Set(key, value)
	}

	return self
}

func (self Properties) Delete(key string) {
	delete(self, key)
}

func (self Properties) Bool(key string) bool {
	return typeutil.Bool(self[key])
}

func (self Properties) Int(key string) int64 {
	return typeutil.Int(self[key])
}

func (self Properties) Float(key string) float64 {
	return typeutil.Float(self[key])
}

// Return a copy of these properties with the other set layered on top.
func (self Properties) Merge(other Properties) Properties {
	out := make(Properties, len(self)+len(other))

	for k, v := range self {
		out[k] = v
	}

	for k, v := range other {
		out[k] = v
	}

	return out
}

func (self Properties) Keys() []string {
	keys := maputil.StringKeys(map[string]string(self))
	sort.Strings(keys)
	return keys
}

// Return the properties whose keys start with the given prefix.
func (self Properties) Filter(prefix string) Properties {
	out := make(Properties)

	for k, v := range self {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}

	return out
}

// Map returns the properties with dotted keys expanded into nested maps.
func (self Properties) Map() map[string]interface{} {
	flat := make(map[string]interface{}, len(self))

	for k, v := range self {
		flat[k] = v
	}

	if diffused, err := maputil.DiffuseMap(flat, `.`); err == nil {
		return diffused
	}

	return flat
}

func (self Properties) String() string {
	pairs := make([]string, 0, len(self))

	for _, k := range self.Keys() {
		pairs = append(pairs, fmt.Sprintf("%s=%q", k, self[k]))
	}

	return strings.Join(pairs, ` `)
}

// Build a native properties object. The caller owns the result.
func (self Properties) toNative() *C.struct_pw_properties {
	props := C.pwgo_properties_new()

	for k, v := range self {
		cKey := C.CString(k)
		cValue := C.CString(v)

		C.pw_properties_set(props, cKey, cValue)

		C.free(unsafe.Pointer(cKey))
		C.free(unsafe.Pointer(cValue))
	}

	return props
}

func propertiesFromDict(dict *C.struct_spa_dict) Properties {
	props := make(Properties)

	if dict == nil || dict.n_items == 0 || dict.items == nil {
		return props
	}

	for _, item := range unsafe.Slice(dict.items, int(dict.n_items)) {
		if item.key != nil {
			props[C.GoString(item.key)] = goStringOrEmpty(item.value)
		}
	}

	return props
}
