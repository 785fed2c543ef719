package sarvam

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"ai-voicetutor-be/pkg/speech"
)

const (
	// Transcription blocks the whole turn, so it gets the longer budget.
	transcribeTimeout = 15 * time.Second
	synthesizeTimeout = 10 * time.Second
)

// SarvamProvider implements speech.Transcriber and speech.Synthesizer against
// the Sarvam AI REST API.
type SarvamProvider struct {
	BaseURL  string
	APIKey   string
	STTModel string
	TTSModel string
	Client   *http.Client
}

var (
	_ speech.Transcriber = &SarvamProvider{}
	_ speech.Synthesizer = &SarvamProvider{}
)

func NewSarvamProvider(baseURL, apiKey, sttModel, ttsModel string) *SarvamProvider {
	if baseURL == "" {
		baseURL = "https://api.sarvam.ai"
	}
	if sttModel == "" {
		sttModel = "saarika:v2"
	}
	if ttsModel == "" {
		ttsModel = "bulbul:v1"
	}
	return &SarvamProvider{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		STTModel: sttModel,
		TTSModel: ttsModel,
		Client:   &http.Client{},
	}
}

// languageCode expands a bare language tag into the regional code the API
// expects. Every supported language maps to its Indian locale.
func languageCode(language string) string {
	switch language {
	case "en", "hi", "mr", "gu", "ta":
		return language + "-IN"
	default:
		return "en-IN"
	}
}

type transcribeResponse struct {
	Transcript string `json:"transcript"`
}

func (p *SarvamProvider) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, transcribeTimeout)
	defer cancel()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("build transcription form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("build transcription form: %w", err)
	}
	if err := writer.WriteField("model", p.STTModel); err != nil {
		return "", fmt.Errorf("build transcription form: %w", err)
	}
	if err := writer.WriteField("language_code", languageCode(language)); err != nil {
		return "", fmt.Errorf("build transcription form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build transcription form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/speech-to-text", &body)
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("api-subscription-key", p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcription returned status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}
	return parsed.Transcript, nil
}

type synthesizeRequest struct {
	Inputs             []string `json:"inputs"`
	TargetLanguageCode string   `json:"target_language_code"`
	Speaker            string   `json:"speaker"`
	Model              string   `json:"model"`
}

type synthesizeResponse struct {
	Audios []string `json:"audios"`
}

func (p *SarvamProvider) Synthesize(ctx context.Context, text, language, voiceId string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, synthesizeTimeout)
	defer cancel()

	payload := synthesizeRequest{
		Inputs:             []string{text},
		TargetLanguageCode: languageCode(language),
		Speaker:            voiceId,
		Model:              p.TTSModel,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("build synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/text-to-speech", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-subscription-key", p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("synthesis returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode synthesis response: %w", err)
	}
	if len(parsed.Audios) == 0 {
		return nil, fmt.Errorf("synthesis returned no audio")
	}

	audio, err := base64.StdEncoding.DecodeString(parsed.Audios[0])
	if err != nil {
		return nil, fmt.Errorf("decode synthesis audio: %w", err)
	}
	return audio, nil
}
