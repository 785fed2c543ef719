package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-voicetutor-be/internal/dto"
	"ai-voicetutor-be/internal/pkg/apperrors"
	"ai-voicetutor-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTalkService struct {
	startReq   *dto.StartSessionRequest
	startForce bool
	startResp  *dto.StartSessionResponse
	startErr   error

	audioSession uuid.UUID
	audioBytes   []byte
	textSession  uuid.UUID
	textBody     string
	turnResp     *dto.TurnResponse
	turnErr      error

	historyResp  []*dto.HistoryMessageResponse
	sessionsResp []*dto.SessionListItemResponse
}

func (s *stubTalkService) StartSession(_ context.Context, _ uuid.UUID, req *dto.StartSessionRequest, forceNew bool) (*dto.StartSessionResponse, error) {
	s.startReq = req
	s.startForce = forceNew
	return s.startResp, s.startErr
}

func (s *stubTalkService) ProcessAudioTurn(_ context.Context, _ uuid.UUID, sessionId uuid.UUID, audio []byte) (*dto.TurnResponse, error) {
	s.audioSession = sessionId
	s.audioBytes = audio
	return s.turnResp, s.turnErr
}

func (s *stubTalkService) ProcessTextTurn(_ context.Context, _ uuid.UUID, sessionId uuid.UUID, text string) (*dto.TurnResponse, error) {
	s.textSession = sessionId
	s.textBody = text
	return s.turnResp, s.turnErr
}

func (s *stubTalkService) GetHistory(_ context.Context, _, _ uuid.UUID) ([]*dto.HistoryMessageResponse, error) {
	return s.historyResp, nil
}

func (s *stubTalkService) GetAllSessions(_ context.Context, _ uuid.UUID) ([]*dto.SessionListItemResponse, error) {
	return s.sessionsResp, nil
}

// fakeAuth plays the auth middleware's part: it injects the caller without
// touching a real verifier.
func fakeAuth(userId uuid.UUID) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Locals("user_id", userId.String())
		return ctx.Next()
	}
}

func denyAuth() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Missing token"))
	}
}

func newTestApp(svc *stubTalkService, auth fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewTalkController(svc, auth).RegisterRoutes(api)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestStartSessionRoute(t *testing.T) {
	svc := &stubTalkService{
		startResp: &dto.StartSessionResponse{
			Id:           uuid.New(),
			Type:         "chat",
			Language:     "en",
			GreetingText: "Hello there!",
		},
	}
	app := newTestApp(svc, fakeAuth(uuid.New()))

	resp := doJSON(t, app, http.MethodPost, "/api/talk/v1/session/start?new=true", dto.StartSessionRequest{Language: "en"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.True(t, svc.startForce)
	require.NotNil(t, svc.startReq)
	assert.Equal(t, "en", svc.startReq.Language)
}

func TestStartSessionRejectsBadType(t *testing.T) {
	svc := &stubTalkService{}
	app := newTestApp(svc, fakeAuth(uuid.New()))

	resp := doJSON(t, app, http.MethodPost, "/api/talk/v1/session/start", map[string]string{"type": "banana"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, svc.startReq)
}

func TestStartSessionWithoutBody(t *testing.T) {
	svc := &stubTalkService{startResp: &dto.StartSessionResponse{Id: uuid.New()}}
	app := newTestApp(svc, fakeAuth(uuid.New()))

	resp := doJSON(t, app, http.MethodPost, "/api/talk/v1/session/start", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, svc.startForce)
}

func TestTextTurnRoute(t *testing.T) {
	sessionId := uuid.New()
	svc := &stubTalkService{turnResp: &dto.TurnResponse{SessionId: sessionId}}
	app := newTestApp(svc, fakeAuth(uuid.New()))

	resp := doJSON(t, app, http.MethodPost, "/api/talk/v1/session/"+sessionId.String()+"/turn", dto.TurnTextRequest{Text: "hello"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, sessionId, svc.textSession)
	assert.Equal(t, "hello", svc.textBody)
}

func TestAudioTurnRoute(t *testing.T) {
	sessionId := uuid.New()
	svc := &stubTalkService{turnResp: &dto.TurnResponse{SessionId: sessionId}}
	app := newTestApp(svc, fakeAuth(uuid.New()))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", "clip.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("RIFF-fake-wav"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/talk/v1/session/"+sessionId.String()+"/turn", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, sessionId, svc.audioSession)
	assert.Equal(t, []byte("RIFF-fake-wav"), svc.audioBytes)
}

func TestAudioTurnMissingFile(t *testing.T) {
	svc := &stubTalkService{}
	app := newTestApp(svc, fakeAuth(uuid.New()))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("note", "no file here"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/talk/v1/session/"+uuid.NewString()+"/turn", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTurnInvalidSessionId(t *testing.T) {
	svc := &stubTalkService{}
	app := newTestApp(svc, fakeAuth(uuid.New()))

	resp := doJSON(t, app, http.MethodPost, "/api/talk/v1/session/not-a-uuid/turn", dto.TurnTextRequest{Text: "hi"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTurnErrorKindsMapToStatus(t *testing.T) {
	cases := []struct {
		kind   apperrors.Kind
		status int
	}{
		{apperrors.KindNotFound, http.StatusNotFound},
		{apperrors.KindInput, http.StatusBadRequest},
		{apperrors.KindTranscription, http.StatusBadGateway},
		{apperrors.KindGeneration, http.StatusBadGateway},
	}

	for _, tc := range cases {
		svc := &stubTalkService{turnErr: apperrors.New(tc.kind, "boom")}
		app := newTestApp(svc, fakeAuth(uuid.New()))

		resp := doJSON(t, app, http.MethodPost, "/api/talk/v1/session/"+uuid.NewString()+"/turn", dto.TurnTextRequest{Text: "hi"})
		assert.Equal(t, tc.status, resp.StatusCode, "kind %s", tc.kind)

		body := decodeBody(t, resp)
		errBody, ok := body["error"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, string(tc.kind), errBody["kind"])
	}
}

func TestRoutesRequireAuth(t *testing.T) {
	svc := &stubTalkService{}
	app := newTestApp(svc, denyAuth())

	for _, target := range []string{
		"/api/talk/v1/sessions",
		"/api/talk/v1/session/" + uuid.NewString() + "/history",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, target)
	}
}

func TestHistoryAndSessionsRoutes(t *testing.T) {
	svc := &stubTalkService{
		historyResp: []*dto.HistoryMessageResponse{
			{Id: uuid.New(), Sender: "user", Content: "hi", Seq: 1},
		},
		sessionsResp: []*dto.SessionListItemResponse{
			{Id: uuid.New(), Type: "chat", Language: "en"},
		},
	}
	app := newTestApp(svc, fakeAuth(uuid.New()))

	resp := doJSON(t, app, http.MethodGet, "/api/talk/v1/session/"+uuid.NewString()+"/history", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 1)

	resp = doJSON(t, app, http.MethodGet, "/api/talk/v1/sessions", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "User sessions", body["message"])
}
