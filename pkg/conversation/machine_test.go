package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecorder struct {
	startErr error
	stopErr  error
	wav      []byte
	stops    int
}

func (r *stubRecorder) Start() error {
	return r.startErr
}

func (r *stubRecorder) Stop() ([]byte, error) {
	r.stops++
	if r.stopErr != nil {
		return nil, r.stopErr
	}
	return r.wav, nil
}

type stubClient struct {
	greeting    *Greeting
	greetingErr error
	result      *TurnResult
	turnErr     error
	sentWAV     []byte
	turnCalls   int
	onSendTurn  func()
}

func (c *stubClient) StartSession(ctx context.Context) (*Greeting, error) {
	if c.greetingErr != nil {
		return nil, c.greetingErr
	}
	return c.greeting, nil
}

func (c *stubClient) SendTurn(ctx context.Context, wav []byte) (*TurnResult, error) {
	c.turnCalls++
	c.sentWAV = wav
	if c.onSendTurn != nil {
		c.onSendTurn()
	}
	if c.turnErr != nil {
		return nil, c.turnErr
	}
	return c.result, nil
}

type stubPlayer struct {
	played [][]byte
}

func (p *stubPlayer) Play(ctx context.Context, audio []byte) error {
	p.played = append(p.played, audio)
	return nil
}

func newTestMachine(recorder *stubRecorder, client *stubClient, player *stubPlayer) *Machine {
	if recorder == nil {
		recorder = &stubRecorder{wav: []byte("RIFF-clip")}
	}
	if client == nil {
		client = &stubClient{
			greeting: &Greeting{Text: "Hi! I'm David!"},
			result:   &TurnResult{Transcript: "hello", Reply: "hi there"},
		}
	}
	if player == nil {
		player = &stubPlayer{}
	}
	return NewMachine(recorder, client, player)
}

func TestOpenPlaysGreetingThenIdle(t *testing.T) {
	player := &stubPlayer{}
	client := &stubClient{greeting: &Greeting{Text: "hello", Audio: []byte("wav")}}
	m := newTestMachine(nil, client, player)

	greeting, err := m.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", greeting.Text)
	assert.Len(t, player.played, 1)
	assert.Equal(t, StateIdle, m.State())
}

func TestOpenWithoutAudioSkipsSpeaking(t *testing.T) {
	player := &stubPlayer{}
	client := &stubClient{greeting: &Greeting{Text: "hello"}}
	m := newTestMachine(nil, client, player)

	_, err := m.Open(context.Background())
	require.NoError(t, err)
	assert.Empty(t, player.played)
	assert.Equal(t, StateIdle, m.State())
}

func TestOpenErrorReturnsToIdle(t *testing.T) {
	client := &stubClient{greetingErr: errors.New("server down")}
	m := newTestMachine(nil, client, nil)

	_, err := m.Open(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateIdle, m.State())
}

func TestListenTransitions(t *testing.T) {
	m := newTestMachine(nil, nil, nil)

	require.NoError(t, m.Listen())
	assert.Equal(t, StateListening, m.State())

	// Listening again while capturing is rejected.
	assert.ErrorIs(t, m.Listen(), ErrBusy)
}

func TestListenRecorderFailureReturnsToIdle(t *testing.T) {
	recorder := &stubRecorder{startErr: errors.New("mic busy")}
	m := newTestMachine(recorder, nil, nil)

	require.Error(t, m.Listen())
	assert.Equal(t, StateIdle, m.State())
}

func TestFinishTurnHappyPath(t *testing.T) {
	recorder := &stubRecorder{wav: []byte("RIFF-clip")}
	player := &stubPlayer{}
	client := &stubClient{result: &TurnResult{Reply: "hi", Audio: []byte("reply-wav")}}
	m := newTestMachine(recorder, client, player)

	require.NoError(t, m.Listen())
	result, err := m.FinishTurn(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "hi", result.Reply)
	assert.Equal(t, []byte("RIFF-clip"), client.sentWAV)
	assert.Len(t, player.played, 1)
	assert.Equal(t, StateIdle, m.State())
}

func TestFinishTurnWithoutAudioSkipsPlayback(t *testing.T) {
	player := &stubPlayer{}
	client := &stubClient{result: &TurnResult{Reply: "hi"}}
	m := newTestMachine(nil, client, player)

	require.NoError(t, m.Listen())
	_, err := m.FinishTurn(context.Background())
	require.NoError(t, err)

	assert.Empty(t, player.played)
	assert.Equal(t, StateIdle, m.State())
}

func TestFinishTurnShortClipNeverSent(t *testing.T) {
	recorder := &stubRecorder{stopErr: errors.New("audio clip too short")}
	client := &stubClient{}
	m := newTestMachine(recorder, client, nil)

	require.NoError(t, m.Listen())
	_, err := m.FinishTurn(context.Background())
	require.Error(t, err)

	assert.Zero(t, client.turnCalls)
	assert.Equal(t, StateIdle, m.State())
}

func TestFinishTurnRequestFailureReturnsToIdle(t *testing.T) {
	client := &stubClient{turnErr: errors.New("502")}
	m := newTestMachine(nil, client, nil)

	require.NoError(t, m.Listen())
	_, err := m.FinishTurn(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateIdle, m.State())
}

func TestFinishTurnWithoutListening(t *testing.T) {
	m := newTestMachine(nil, nil, nil)
	_, err := m.FinishTurn(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
}

func TestCloseWhileListeningReleasesRecorder(t *testing.T) {
	recorder := &stubRecorder{wav: []byte("clip")}
	m := newTestMachine(recorder, nil, nil)

	require.NoError(t, m.Listen())
	m.Close()

	assert.Equal(t, StateClosed, m.State())
	assert.Equal(t, 1, recorder.stops)

	assert.ErrorIs(t, m.Listen(), ErrClosed)
	_, err := m.FinishTurn(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCloseDuringRequestDiscardsResponse(t *testing.T) {
	player := &stubPlayer{}
	client := &stubClient{result: &TurnResult{Reply: "late", Audio: []byte("wav")}}
	m := newTestMachine(nil, client, player)

	// Close races the in-flight request: the machine closes while SendTurn is
	// still running, so its response must be dropped on the floor.
	client.onSendTurn = func() {
		m.Close()
	}

	require.NoError(t, m.Listen())
	_, err := m.FinishTurn(context.Background())
	assert.ErrorIs(t, err, ErrClosed)

	assert.Empty(t, player.played)
	assert.Equal(t, StateClosed, m.State())
}

func TestCloseIsIdempotent(t *testing.T) {
	m := newTestMachine(nil, nil, nil)
	m.Close()
	m.Close()
	assert.Equal(t, StateClosed, m.State())
}
