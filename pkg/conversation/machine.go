package conversation

import (
	"context"
	"errors"
	"sync"
)

type State string

const (
	StateIdle       State = "IDLE"
	StateGreeting   State = "GREETING"
	StateListening  State = "LISTENING"
	StateProcessing State = "PROCESSING"
	StateSpeaking   State = "SPEAKING"
	StateClosed     State = "CLOSED"
)

var (
	ErrClosed       = errors.New("conversation closed")
	ErrBusy         = errors.New("conversation busy")
	ErrNotListening = errors.New("not listening")
)

// Recorder captures one clip at a time and returns it WAV-encoded.
type Recorder interface {
	Start() error
	Stop() ([]byte, error)
}

type Greeting struct {
	Text  string
	Audio []byte
}

type TurnResult struct {
	Transcript string
	Reply      string
	Audio      []byte
}

// TurnClient is the server side of the conversation.
type TurnClient interface {
	StartSession(ctx context.Context) (*Greeting, error)
	SendTurn(ctx context.Context, wav []byte) (*TurnResult, error)
}

// Player renders reply audio. Play blocks until playback finishes or the
// context is cancelled.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// Machine drives one spoken conversation. At most one of capturing, a request
// in flight, or playback is active at a time. Every failure path lands back in
// IDLE so the user can simply tap the mic again; only Close reaches CLOSED.
type Machine struct {
	recorder Recorder
	client   TurnClient
	player   Player

	mu     sync.Mutex
	state  State
	turn   uint64             // bumped on Close to invalidate in-flight work
	cancel context.CancelFunc // cancels the active request or playback
}

func NewMachine(recorder Recorder, client TurnClient, player Player) *Machine {
	return &Machine{
		recorder: recorder,
		client:   client,
		player:   player,
		state:    StateIdle,
	}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// begin moves the machine into next if it currently sits in from, and hands
// back a context plus the turn token valid for this piece of work.
func (m *Machine) begin(ctx context.Context, from, next State) (context.Context, uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateClosed {
		return nil, 0, ErrClosed
	}
	if m.state != from {
		return nil, 0, ErrBusy
	}

	workCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.state = next
	return workCtx, m.turn, nil
}

// settle returns the machine to IDLE if the token is still current. A stale
// token means Close won while the work was in flight; its outcome is dropped.
func (m *Machine) settle(token uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.turn != token || m.state == StateClosed {
		return false
	}
	m.cancel = nil
	m.state = StateIdle
	return true
}

// advance moves to next if the token is still current.
func (m *Machine) advance(token uint64, next State) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.turn != token || m.state == StateClosed {
		return false
	}
	m.state = next
	return true
}

// Open starts the session and plays the greeting. The machine greets exactly
// once, before the first turn.
func (m *Machine) Open(ctx context.Context) (*Greeting, error) {
	workCtx, token, err := m.begin(ctx, StateIdle, StateGreeting)
	if err != nil {
		return nil, err
	}

	greeting, err := m.client.StartSession(workCtx)
	if err != nil {
		m.settle(token)
		return nil, err
	}

	if len(greeting.Audio) > 0 && m.advance(token, StateSpeaking) {
		// Greeting playback failures are not fatal, the text already carries
		// the content.
		_ = m.player.Play(workCtx, greeting.Audio)
	}

	if !m.settle(token) {
		return nil, ErrClosed
	}
	return greeting, nil
}

// Listen starts capturing the user's utterance. Valid only from IDLE.
func (m *Machine) Listen() error {
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.state != StateIdle {
		m.mu.Unlock()
		return ErrBusy
	}
	m.state = StateListening
	m.mu.Unlock()

	if err := m.recorder.Start(); err != nil {
		m.mu.Lock()
		if m.state == StateListening {
			m.state = StateIdle
		}
		m.mu.Unlock()
		return err
	}
	return nil
}

// FinishTurn stops recording, sends the clip, and plays the reply. Valid only
// from LISTENING. Clips the recorder rejects (too short, device failure) never
// reach the server and the machine returns to IDLE.
func (m *Machine) FinishTurn(ctx context.Context) (*TurnResult, error) {
	workCtx, token, err := m.begin(ctx, StateListening, StateProcessing)
	if err != nil {
		return nil, err
	}

	wav, err := m.recorder.Stop()
	if err != nil {
		m.settle(token)
		return nil, err
	}

	result, err := m.client.SendTurn(workCtx, wav)
	if err != nil {
		m.settle(token)
		return nil, err
	}

	if len(result.Audio) > 0 && m.advance(token, StateSpeaking) {
		_ = m.player.Play(workCtx, result.Audio)
	}

	if !m.settle(token) {
		return nil, ErrClosed
	}
	return result, nil
}

// Close tears the conversation down from any state: the in-flight request or
// playback is cancelled, a live recording is stopped and discarded, and no
// late response may mutate the machine again.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return
	}
	wasListening := m.state == StateListening
	m.turn++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.state = StateClosed
	m.mu.Unlock()

	if wasListening {
		_, _ = m.recorder.Stop()
	}
}
