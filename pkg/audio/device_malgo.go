package audio

import (
	"encoding/binary"
	"fmt"

	"github.com/gen2brain/malgo"
)

// MalgoDevice captures microphone input as 16kHz mono PCM16 and converts it to
// float32 chunks for the Recorder.
type MalgoDevice struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device
}

var _ InputDevice = &MalgoDevice{}

func NewMalgoDevice() (*MalgoDevice, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	return &MalgoDevice{ctx: ctx}, nil
}

func (d *MalgoDevice) Start(onSamples func([]float32)) error {
	if d.device != nil {
		return fmt.Errorf("capture device already started")
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(SampleRate)
	deviceConfig.PeriodSizeInMilliseconds = 20

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, pInputSamples []byte, _ uint32) {
			chunk := make([]float32, len(pInputSamples)/2)
			for i := range chunk {
				raw := int16(binary.LittleEndian.Uint16(pInputSamples[i*2:]))
				chunk[i] = float32(raw) / 32768.0
			}
			onSamples(chunk)
		},
	}

	device, err := malgo.InitDevice(d.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return fmt.Errorf("init capture device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("start capture device: %w", err)
	}

	d.device = device
	return nil
}

func (d *MalgoDevice) Stop() error {
	if d.device == nil {
		return nil
	}
	err := d.device.Stop()
	d.device.Uninit()
	d.device = nil
	return err
}

// Close releases the underlying audio context. The device must be stopped.
func (d *MalgoDevice) Close() error {
	if d.ctx == nil {
		return nil
	}
	err := d.ctx.Uninit()
	d.ctx = nil
	return err
}
