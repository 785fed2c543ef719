package audio

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrAlreadyRecording = errors.New("recording already in progress")
	ErrNotRecording     = errors.New("no recording in progress")
)

// DeviceError wraps a hardware failure so callers can distinguish device
// problems from short clips or state misuse.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("audio device %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// InputDevice is a push-style capture source. Start begins delivering sample
// chunks to the callback until Stop returns.
type InputDevice interface {
	Start(onSamples func([]float32)) error
	Stop() error
}

// Recorder accumulates one clip at a time from an InputDevice. At most one
// recording can be active; the device is always released when a recording
// ends, whatever the outcome.
type Recorder struct {
	device InputDevice

	mu        sync.Mutex
	recording bool
	samples   []float32
}

func NewRecorder(device InputDevice) *Recorder {
	return &Recorder{device: device}
}

func (r *Recorder) Start() error {
	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		return ErrAlreadyRecording
	}
	r.recording = true
	r.samples = r.samples[:0]
	r.mu.Unlock()

	if err := r.device.Start(r.append); err != nil {
		r.mu.Lock()
		r.recording = false
		r.mu.Unlock()
		return &DeviceError{Op: "start", Err: err}
	}
	return nil
}

func (r *Recorder) append(chunk []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}
	r.samples = append(r.samples, chunk...)
}

// Stop halts capture and returns the collected samples. The device is stopped
// even when it reports an error, and the recorder is ready for a new Start
// either way.
func (r *Recorder) Stop() ([]float32, error) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil, ErrNotRecording
	}
	r.recording = false
	r.mu.Unlock()

	stopErr := r.device.Stop()

	r.mu.Lock()
	out := make([]float32, len(r.samples))
	copy(out, r.samples)
	r.samples = r.samples[:0]
	r.mu.Unlock()

	if stopErr != nil {
		return out, &DeviceError{Op: "stop", Err: stopErr}
	}
	return out, nil
}

// StopWAV halts capture and returns the clip encoded as WAV.
func (r *Recorder) StopWAV() ([]byte, error) {
	samples, err := r.Stop()
	if err != nil {
		return nil, err
	}
	return EncodeWAV(samples)
}

// Recording reports whether a clip is currently being captured.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}
