package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/auroralaboratories/pipewire"
	"github.com/auroralaboratories/pipewire/internal/rtpout"
	"github.com/auroralaboratories/pipewire/spa"
	"github.com/auroralaboratories/pipewire/spa/pod"
	"github.com/ghetzel/cli"
	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/maputil"
	"github.com/ghetzel/go-stockutil/sliceutil"
)

type volumeControl interface {
	SetVolume(float64) error
	IncreaseVolume(float64) error
	DecreaseVolume(float64) error
	SetMute(bool) error
	ToggleMute() error
	Map() map[string]interface{}
}

type mapper interface {
	Map() map[string]interface{}
}

func main() {
	var pw *pipewire.Conn

	app := cli.NewApp()
	app.Name = `pw`
	app.Usage = `A utility for inspecting and controlling a PipeWire media server.`
	app.Version = pipewire.Version

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   `log-level, L`,
			Usage:  `Level of log output verbosity`,
			Value:  `info`,
			EnvVar: `LOGLEVEL`,
		},
		cli.StringFlag{
			Name:  `format, f`,
			Usage: `The output format of data returned.`,
			Value: `json`,
		},
		cli.StringFlag{
			Name:   `remote, r`,
			Usage:  `The name of the remote to connect to.`,
			EnvVar: `PIPEWIRE_REMOTE`,
		},
		cli.DurationFlag{
			Name:  `timeout, t`,
			Usage: `How long to wait for a reply from the server.`,
			Value: pipewire.DEFAULT_OPERATION_TIMEOUT_MSEC * time.Millisecond,
		},
	}

	app.Before = func(c *cli.Context) error {
		log.SetLevelString(c.String(`log-level`))

		if conn, err := pipewire.NewWithOptions(pipewire.ConnOptions{
			Name:             `pw`,
			Remote:           c.String(`remote`),
			OperationTimeout: c.Duration(`timeout`),
		}); err == nil {
			pw = conn
		} else {
			log.Fatalf("Cannot connect to PipeWire: %v", err)
		}

		return nil
	}

	app.After = func(c *cli.Context) error {
		if pw != nil {
			pw.Destroy()
		}

		return nil
	}

	app.Commands = []cli.Command{
		{
			Name:  `info`,
			Usage: `Show PipeWire server and library information.`,
			Action: func(c *cli.Context) {
				if info, err := pw.GetCoreInfo(); err == nil {
					print(c, map[string]interface{}{
						`core`: info,
						`library`: map[string]interface{}{
							`version`:         pipewire.LibraryVersion(),
							`headers_version`: pipewire.HeadersVersion(),
							`user_name`:       pipewire.UserName(),
							`host_name`:       pipewire.HostName(),
							`program_name`:    pipewire.ProgramName(),
							`client_name`:     pipewire.ClientName(),
						},
					}, nil)
				} else {
					log.Fatalf("Cannot get PipeWire info: %v", err)
				}
			},
		}, {
			Name:      `globals`,
			Usage:     `List the objects announced by the registry.`,
			ArgsUsage: `[FILTER ...]`,
			Action: func(c *cli.Context) {
				if globals, err := pw.GetGlobals(c.Args()...); err == nil {
					print(c, globals, func() {
						tw := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)

						for _, global := range globals {
							fmt.Fprintf(tw, "%d\t%v\t%v\t%s\n", global.ID, global.Type.Short(), global.Permissions, global.Props.Get(pipewire.KeyNodeName))
						}

						tw.Flush()
					})
				} else {
					log.Fatalf("PipeWire: %v", err)
				}
			},
		}, {
			Name:      `nodes`,
			Usage:     `List nodes.`,
			ArgsUsage: `[FILTER ...]`,
			Action: func(c *cli.Context) {
				nodes, err := pw.GetNodes(c.Args()...)
				printObjects(c, nodes, err)
			},
		}, {
			Name:      `ports`,
			Usage:     `List ports.`,
			ArgsUsage: `[FILTER ...]`,
			Action: func(c *cli.Context) {
				ports, err := pw.GetPorts(c.Args()...)
				printObjects(c, ports, err)
			},
		}, {
			Name:      `links`,
			Usage:     `List links.`,
			ArgsUsage: `[FILTER ...]`,
			Action: func(c *cli.Context) {
				links, err := pw.GetLinks(c.Args()...)
				printObjects(c, links, err)
			},
		}, {
			Name:      `devices`,
			Usage:     `List devices.`,
			ArgsUsage: `[FILTER ...]`,
			Action: func(c *cli.Context) {
				devices, err := pw.GetDevices(c.Args()...)
				printObjects(c, devices, err)
			},
		}, {
			Name:      `clients`,
			Usage:     `List clients.`,
			ArgsUsage: `[FILTER ...]`,
			Action: func(c *cli.Context) {
				clients, err := pw.GetClients(c.Args()...)
				printObjects(c, clients, err)
			},
		}, {
			Name:      `factories`,
			Usage:     `List object factories.`,
			ArgsUsage: `[FILTER ...]`,
			Action: func(c *cli.Context) {
				factories, err := pw.GetFactories(c.Args()...)
				printObjects(c, factories, err)
			},
		}, {
			Name:      `params`,
			Usage:     `Enumerate the params of a node, port or device.`,
			ArgsUsage: `ID PARAM_TYPE`,
			Action: func(c *cli.Context) {
				id := argID(c, 0)

				paramType, err := spa.ParseParamType(c.Args().Get(1))
				if err != nil {
					log.Fatal(err)
				}

				params, err := enumParams(pw, id, paramType)
				if err != nil {
					log.Fatalf("PipeWire: %v", err)
				}

				decoded := make([]interface{}, 0, len(params))

				for _, param := range params {
					if value, err := pod.DecodeParam(param); err == nil {
						decoded = append(decoded, value)
					} else {
						decoded = append(decoded, param)
					}
				}

				print(c, decoded, func() {
					for _, param := range params {
						fmt.Println(pod.Dump(param))
					}
				})
			},
		}, {
			Name:      `sinks`,
			Usage:     `Inspect audio sinks.`,
			ArgsUsage: `[FILTER ...]`,
			Action: func(c *cli.Context) {
				sinks, err := pw.GetSinks(c.Args()...)
				printObjects(c, sinks, err)
			},
		}, {
			Name:      `sources`,
			Usage:     `Inspect audio sources.`,
			ArgsUsage: `[FILTER ...]`,
			Action: func(c *cli.Context) {
				sources, err := pw.GetSources(c.Args()...)
				printObjects(c, sources, err)
			},
		}, {
			Name:      `sink-inputs`,
			Usage:     `Inspect playback streams.`,
			ArgsUsage: `[FILTER ...]`,
			Action: func(c *cli.Context) {
				inputs, err := pw.GetSinkInputs(c.Args()...)
				printObjects(c, inputs, err)
			},
		}, {
			Name:      `volume`,
			Usage:     `Set the volume of a sink, source or stream. Prefix with + or - (after --) to adjust it.`,
			ArgsUsage: `ID FACTOR`,
			Action: func(c *cli.Context) {
				node := findAudioNode(pw, argID(c, 0))
				value := c.Args().Get(1)

				factor, err := strconv.ParseFloat(strings.TrimPrefix(value, `+`), 64)
				if err != nil {
					log.Fatalf("Invalid volume %q: %v", value, err)
				}

				switch {
				case strings.HasPrefix(value, `+`):
					err = node.IncreaseVolume(factor)
				case strings.HasPrefix(value, `-`):
					err = node.DecreaseVolume(-factor)
				default:
					err = node.SetVolume(factor)
				}

				if err != nil {
					log.Fatalf("PipeWire: %v", err)
				}

				print(c, node.Map(), nil)
			},
		}, {
			Name:      `mute`,
			Usage:     `Mute, unmute or toggle a sink, source or stream.`,
			ArgsUsage: `ID [on|off|toggle]`,
			Action: func(c *cli.Context) {
				var err error
				node := findAudioNode(pw, argID(c, 0))

				switch mode := c.Args().Get(1); mode {
				case ``, `on`:
					err = node.SetMute(true)
				case `off`:
					err = node.SetMute(false)
				case `toggle`:
					err = node.ToggleMute()
				default:
					log.Fatalf("Invalid mute mode %q", mode)
				}

				if err != nil {
					log.Fatalf("PipeWire: %v", err)
				}

				print(c, node.Map(), nil)
			},
		}, {
			Name:      `link`,
			Usage:     `Link an output port to an input port.`,
			ArgsUsage: `OUTPUT_NODE OUTPUT_PORT INPUT_NODE INPUT_PORT`,
			Action: func(c *cli.Context) {
				if link, err := pw.CreateLink(argID(c, 0), argID(c, 1), argID(c, 2), argID(c, 3), nil); err == nil {
					defer link.Destroy()
					print(c, link.Map(), nil)
				} else {
					log.Fatalf("PipeWire: %v", err)
				}
			},
		}, {
			Name:      `unlink`,
			Usage:     `Destroy a link (or any other global).`,
			ArgsUsage: `ID`,
			Action: func(c *cli.Context) {
				if err := pw.DestroyObject(argID(c, 0)); err != nil {
					log.Fatalf("PipeWire: %v", err)
				}
			},
		}, {
			Name:      `load-module`,
			Usage:     `Load a module into this client and keep it running until interrupted.`,
			ArgsUsage: `NAME [ARGUMENTS ...]`,
			Action: func(c *cli.Context) {
				module, err := pw.LoadModule(c.Args().First(), strings.Join(c.Args().Tail(), ` `), nil)
				if err != nil {
					log.Fatalf("PipeWire: %v", err)
				}

				defer module.Unload()

				print(c, module.Map(), nil)
				waitFor(0)
			},
		}, {
			Name:  `monitor`,
			Usage: `Print changes to nodes, ports, links, devices and clients.`,
			Action: func(c *cli.Context) {
				state, err := pipewire.NewState(pw, pipewire.StateOptions{})
				if err != nil {
					log.Fatalf("PipeWire: %v", err)
				}

				defer state.Close()

				signals := make(chan os.Signal, 1)
				signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

				for {
					select {
					case message, ok := <-state.Messages():
						if !ok {
							return
						}

						print(c, message, func() {
							fmt.Println(message.String())
						})
					case <-signals:
						return
					}
				}
			},
		}, {
			Name:  `play`,
			Usage: `Play a sine tone.`,
			Flags: []cli.Flag{
				cli.Float64Flag{
					Name:  `frequency, F`,
					Usage: `The frequency of the tone in Hz.`,
					Value: pipewire.DEFAULT_SINE_FREQUENCY,
				},
				cli.Float64Flag{
					Name:  `volume, v`,
					Usage: `The amplitude of the tone (0.0-1.0).`,
					Value: pipewire.DEFAULT_SINE_VOLUME,
				},
				cli.IntFlag{
					Name:  `rate, R`,
					Usage: `The sample rate.`,
					Value: pipewire.DEFAULT_SAMPLE_RATE,
				},
				cli.IntFlag{
					Name:  `channels, c`,
					Usage: `The number of channels.`,
					Value: pipewire.DEFAULT_NUM_CHANNELS,
				},
				cli.DurationFlag{
					Name:  `duration, d`,
					Usage: `How long to play for; zero plays until interrupted.`,
				},
			},
			Action: func(c *cli.Context) {
				source := pipewire.NewSineSource(sampleSpec(c))
				source.Frequency = c.Float64(`frequency`)
				source.Volume = c.Float64(`volume`)

				stream, err := pipewire.NewSineStream(pw, `pw-play`, source, nil)
				if err != nil {
					log.Fatalf("PipeWire: %v", err)
				}

				if err := stream.Initialize(); err != nil {
					log.Fatalf("PipeWire: %v", err)
				}

				waitFor(c.Duration(`duration`))

				if err := stream.Close(); err != nil {
					log.Warningf("PipeWire: %v", err)
				}

				log.Infof("played %d frames", source.Frames())
			},
		}, {
			Name:  `video-test`,
			Usage: `Offer a moving test pattern as a video source.`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  `width, W`,
					Usage: `The preferred frame width.`,
					Value: pipewire.DEFAULT_VIDEO_WIDTH,
				},
				cli.IntFlag{
					Name:  `height, H`,
					Usage: `The preferred frame height.`,
					Value: pipewire.DEFAULT_VIDEO_HEIGHT,
				},
				cli.IntFlag{
					Name:  `framerate, R`,
					Usage: `Frames per second.`,
					Value: pipewire.DEFAULT_VIDEO_FRAMERATE,
				},
				cli.DurationFlag{
					Name:  `duration, d`,
					Usage: `How long to run for; zero runs until interrupted.`,
				},
			},
			Action: func(c *cli.Context) {
				source, err := pipewire.NewVideoTestSource(pw, `pw-video-test`, nil)
				if err != nil {
					log.Fatalf("PipeWire: %v", err)
				}

				source.Width = uint32(c.Int(`width`))
				source.Height = uint32(c.Int(`height`))
				source.Framerate = uint32(c.Int(`framerate`))

				if err := source.Start(); err != nil {
					log.Fatalf("PipeWire: %v", err)
				}

				waitFor(c.Duration(`duration`))

				if err := source.Close(); err != nil {
					log.Warningf("PipeWire: %v", err)
				}

				log.Infof("rendered %d frames", source.Frames())
			},
		}, {
			Name:  `record`,
			Usage: `Capture audio to a file, standard output or an RTP receiver.`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  `rate, R`,
					Usage: `The sample rate.`,
					Value: pipewire.DEFAULT_SAMPLE_RATE,
				},
				cli.IntFlag{
					Name:  `channels, c`,
					Usage: `The number of channels.`,
					Value: pipewire.DEFAULT_NUM_CHANNELS,
				},
				cli.DurationFlag{
					Name:  `duration, d`,
					Usage: `How long to record for; zero records until interrupted.`,
				},
				cli.BoolFlag{
					Name:  `monitor, m`,
					Usage: `Capture the output of a sink instead of a source.`,
				},
				cli.StringFlag{
					Name:  `out, o`,
					Usage: `The file to write raw samples to; defaults to standard output.`,
				},
				cli.StringFlag{
					Name:  `rtp`,
					Usage: `Send the audio as RTP L16 to this host:port.`,
				},
				cli.IntFlag{
					Name:  `payload-type`,
					Usage: `The RTP payload type.`,
					Value: rtpout.DefaultPayloadType,
				},
				cli.IntFlag{
					Name:  `mtu`,
					Usage: `The largest RTP packet to send.`,
					Value: rtpout.DefaultMTU,
				},
			},
			Action: func(c *cli.Context) {
				spec := sampleSpec(c)

				var output io.WriteCloser = os.Stdout

				if addr := c.String(`rtp`); addr != `` {
					if sender, err := rtpout.NewSender(addr, rtpout.SenderOptions{
						PayloadType: uint8(c.Int(`payload-type`)),
						MTU:         uint16(c.Int(`mtu`)),
						ClockRate:   spec.Rate,
						Channels:    spec.Channels,
						Format:      spec.Format,
					}); err == nil {
						output = sender
					} else {
						log.Fatalf("RTP: %v", err)
					}
				} else if filename := c.String(`out`); filename != `` {
					if file, err := os.Create(filename); err == nil {
						output = file
					} else {
						log.Fatal(err)
					}
				}

				defer output.Close()

				stream, err := pipewire.NewRecordStream(pw, `pw-record`, spec, c.Bool(`monitor`), nil)
				if err != nil {
					log.Fatalf("PipeWire: %v", err)
				}

				if err := stream.Initialize(); err != nil {
					log.Fatalf("PipeWire: %v", err)
				}

				copied := make(chan error, 1)

				go func() {
					_, err := io.Copy(output, stream)
					copied <- err
				}()

				waitFor(c.Duration(`duration`))

				if err := stream.Close(); err != nil {
					log.Warningf("PipeWire: %v", err)
				}

				if err := <-copied; err != nil {
					log.Fatalf("write failed: %v", err)
				}

				if overruns := stream.Overruns(); overruns > 0 {
					log.Warningf("dropped audio %d times", overruns)
				}
			},
		}, {
			Name:  `filter`,
			Usage: `Run a DSP filter that copies its input port to its output port.`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  `latency-ns`,
					Usage: `The processing latency the filter reports, in nanoseconds.`,
				},
			},
			Action: func(c *cli.Context) {
				filter, err := pipewire.NewDSPFilter(pw, `pw-filter`, pipewire.Properties{
					pipewire.KeyMediaName: `passthrough`,
				})

				if err != nil {
					log.Fatalf("PipeWire: %v", err)
				}

				defer filter.Destroy()

				in, err := filter.AddPort(spa.DirectionInput, pipewire.PortFlagMapBuffers, pipewire.Properties{
					pipewire.KeyPortName: `input`,
				})

				if err != nil {
					log.Fatalf("PipeWire: %v", err)
				}

				out, err := filter.AddPort(spa.DirectionOutput, pipewire.PortFlagMapBuffers, pipewire.Properties{
					pipewire.KeyPortName: `output`,
				})

				if err != nil {
					log.Fatalf("PipeWire: %v", err)
				}

				filter.SetProcess(pipewire.PassthroughProcess(in, out))

				latency := pod.ParamProcessLatency{
					Ns: int64(c.Int(`latency-ns`)),
				}

				if err := filter.Connect(pipewire.FilterFlagRTProcess, latency.ToPod(spa.ParamProcessLatency)); err != nil {
					log.Fatalf("PipeWire: %v", err)
				}

				go func() {
					for change := range filter.StateChanges() {
						log.Infof("filter %v -> %v %s", change.Old, change.New, change.Error)
					}
				}()

				waitFor(0)
			},
		},
	}

	app.Run(os.Args)
}

func argID(c *cli.Context, i int) uint32 {
	arg := c.Args().Get(i)

	if id, err := strconv.ParseUint(arg, 10, 32); err == nil {
		return uint32(id)
	} else {
		log.Fatalf("Invalid id %q", arg)
		return 0
	}
}

func sampleSpec(c *cli.Context) pipewire.SampleSpec {
	spec := pipewire.SampleSpec{
		Format:   pipewire.DEFAULT_FORMAT,
		Rate:     uint32(c.Int(`rate`)),
		Channels: c.Int(`channels`),
	}

	if err := spec.Validate(); err != nil {
		log.Fatal(err)
	}

	return spec
}

// block until interrupted or the duration elapses
func waitFor(duration time.Duration) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	var timeout <-chan time.Time

	if duration > 0 {
		timeout = time.After(duration)
	}

	select {
	case <-signals:
	case <-timeout:
	}
}

func enumParams(pw *pipewire.Conn, id uint32, paramType spa.ParamType) ([]pod.Value, error) {
	registry, err := pw.Registry()
	if err != nil {
		return nil, err
	}

	global, ok := registry.Global(id)
	if !ok {
		return nil, pipewire.NoSuchObjectErr
	}

	switch global.Type {
	case pipewire.TypeNode:
		node, err := registry.BindNode(id)
		if err != nil {
			return nil, err
		}

		defer node.Destroy()
		return node.EnumParams(paramType, nil)
	case pipewire.TypePort:
		port, err := registry.BindPort(id)
		if err != nil {
			return nil, err
		}

		defer port.Destroy()
		return port.EnumParams(paramType, nil)
	case pipewire.TypeDevice:
		device, err := registry.BindDevice(id)
		if err != nil {
			return nil, err
		}

		defer device.Destroy()
		return device.EnumParams(paramType, nil)
	default:
		return nil, fmt.Errorf("%v %d has no params: %w", global.Type.Short(), id, pipewire.TypeMismatchErr)
	}
}

func findAudioNode(pw *pipewire.Conn, id uint32) volumeControl {
	filter := fmt.Sprintf("id/%d", id)

	if sinks, err := pw.GetSinks(filter); err == nil && len(sinks) > 0 {
		return sinks[0]
	}

	if sources, err := pw.GetSources(filter); err == nil && len(sources) > 0 {
		return sources[0]
	}

	if inputs, err := pw.GetSinkInputs(filter); err == nil && len(inputs) > 0 {
		return inputs[0]
	}

	log.Fatalf("No sink, source or stream with id %d", id)
	return nil
}

// printObjects prints the Map of every bound object, then releases them.
func printObjects(c *cli.Context, objects interface{}, err error) {
	if err != nil {
		log.Fatalf("PipeWire: %v", err)
	}

	out := make([]map[string]interface{}, 0)

	for _, item := range sliceutil.Sliceify(objects) {
		if object, ok := item.(mapper); ok {
			out = append(out, object.Map())
		}

		if object, ok := item.(interface{ Destroy() }); ok {
			defer object.Destroy()
		}
	}

	print(c, out, nil)
}

func print(c *cli.Context, data interface{}, txtfn func()) {
	if data != nil {
		switch c.GlobalString(`format`) {
		case `json`:
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent(``, `  `)
			enc.Encode(data)
		default:
			if txtfn != nil {
				txtfn()
			} else {
				tw := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)

				for _, line := range sliceutil.Sliceify(data) {
					if m, ok := line.(map[string]interface{}); ok {
						fmt.Fprintln(tw, maputil.Join(m, `=`, "\t"))
					} else {
						fmt.Fprintf(tw, "%v\n", line)
					}
				}

				tw.Flush()
			}
		}
	}
}
