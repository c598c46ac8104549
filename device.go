package pipewire

import (
	"github.com/auroralaboratories/pipewire/spa"
	"github.com/auroralaboratories/pipewire/spa/pod"
	"github.com/ghetzel/go-stockutil/maputil"
	"github.com/ghetzel/go-stockutil/typeutil"
)

// A Device is a piece of hardware (or a virtual one) that exposes nodes,
// profiles and routes.
type Device struct {
	*Proxy
}

func (self *Device) Info() DeviceInfo {
	info, _ := self.Proxy.Info().(DeviceInfo)
	return info
}

func (self *Device) P(key string) typeutil.Variant {
	return maputil.M(self.Info().Props.Map()).Get(key)
}

func (self *Device) Map() map[string]interface{} {
	info := self.Info()

	return infoMap(map[string]interface{}{
		`id`:          info.ID,
		`name`:        info.Name,
		`description`: info.Description,
		`api`:         info.API,
	}, info.Props)
}

func (self *Device) OnDeviceInfo(handler func(DeviceInfo)) {
	self.OnInfo(func(info interface{}) {
		if deviceInfo, ok := info.(DeviceInfo); ok {
			handler(deviceInfo)
		}
	})
}

func (self *Device) EnumParams(paramType spa.ParamType, filter pod.Value) ([]pod.Value, error) {
	return self.enumParams(paramType, filter)
}

func (self *Device) SubscribeParams(paramTypes ...spa.ParamType) error {
	return self.subscribeParams(paramTypes...)
}

func (self *Device) SetParam(paramType spa.ParamType, flags uint32, value pod.Value) error {
	return self.setParam(paramType, flags, value)
}

// Retrieve the profiles the device can be switched to.
func (self *Device) Profiles() ([]pod.ParamProfile, error) {
	params, err := self.EnumParams(spa.ParamEnumProfile, nil)
	if err != nil {
		return nil, err
	}

	profiles := make([]pod.ParamProfile, 0, len(params))

	for _, param := range params {
		if profile, err := pod.ParamProfileFromPod(param); err == nil {
			profiles = append(profiles, profile)
		} else {
			return nil, err
		}
	}

	return profiles, nil
}

// Switch the device to the profile with the given index.
func (self *Device) SetProfile(index int32) error {
	return self.SetParam(spa.ParamProfile, 0, pod.ParamProfile{
		Index: index,
		Save:  true,
	}.ToPod(spa.ParamProfile))
}
