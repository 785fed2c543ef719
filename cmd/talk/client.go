package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"ai-voicetutor-be/internal/dto"
	"ai-voicetutor-be/pkg/conversation"

	"github.com/google/uuid"
)

// talkClient speaks the REST API and adapts it to the conversation machine.
type talkClient struct {
	baseURL    string
	token      string
	httpClient *http.Client

	startReq  dto.StartSessionRequest
	forceNew  bool
	sessionId uuid.UUID
}

var _ conversation.TurnClient = &talkClient{}

func newTalkClient(baseURL, token string, startReq dto.StartSessionRequest, forceNew bool) *talkClient {
	return &talkClient{
		baseURL:  baseURL,
		token:    token,
		startReq: startReq,
		forceNew: forceNew,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type apiEnvelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	Error   *struct {
		Code    int    `json:"code"`
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope[T any](resp *http.Response) (*T, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var envelope apiEnvelope[T]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode response (%d): %w", resp.StatusCode, err)
	}
	if !envelope.Success {
		if envelope.Error != nil {
			return nil, fmt.Errorf("server error (%s): %s", envelope.Error.Kind, envelope.Error.Message)
		}
		return nil, fmt.Errorf("server error: status %d", resp.StatusCode)
	}
	return &envelope.Data, nil
}

func (c *talkClient) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	return c.httpClient.Do(req)
}

func (c *talkClient) StartSession(ctx context.Context) (*conversation.Greeting, error) {
	payload, err := json.Marshal(c.startReq)
	if err != nil {
		return nil, err
	}

	startURL := c.baseURL + "/api/talk/v1/session/start"
	if c.forceNew {
		startURL += "?new=true"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, startURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}

	data, err := decodeEnvelope[dto.StartSessionResponse](resp)
	if err != nil {
		return nil, err
	}

	c.sessionId = data.Id
	return &conversation.Greeting{
		Text:  data.GreetingText,
		Audio: data.GreetingAudio,
	}, nil
}

func (c *talkClient) SendTurn(ctx context.Context, wav []byte) (*conversation.TurnResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", "turn.wav")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(wav); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.turnURL(), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return c.toTurnResult(resp)
}

// SendText runs a typed turn through the same endpoint. Outside the
// conversation machine because no capture or state change is involved.
func (c *talkClient) SendText(ctx context.Context, text string) (*conversation.TurnResult, error) {
	payload, err := json.Marshal(dto.TurnTextRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.turnURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return c.toTurnResult(resp)
}

func (c *talkClient) turnURL() string {
	return fmt.Sprintf("%s/api/talk/v1/session/%s/turn", c.baseURL, c.sessionId)
}

func (c *talkClient) toTurnResult(resp *http.Response) (*conversation.TurnResult, error) {
	data, err := decodeEnvelope[dto.TurnResponse](resp)
	if err != nil {
		return nil, err
	}

	result := &conversation.TurnResult{
		Audio: data.ReplyAudio,
	}
	if data.Heard != nil {
		result.Transcript = data.Heard.Content
	}
	if data.Reply != nil {
		result.Reply = data.Reply.Content
	} else if data.Notice != "" {
		result.Reply = data.Notice
	}
	return result, nil
}
