package service

import (
	"context"
	"strings"
	"time"

	"ai-voicetutor-be/internal/constant"
	"ai-voicetutor-be/internal/dto"
	"ai-voicetutor-be/internal/entity"
	"ai-voicetutor-be/internal/pkg/apperrors"
	"ai-voicetutor-be/internal/pkg/logger"
	"ai-voicetutor-be/internal/repository/memory"
	"ai-voicetutor-be/internal/repository/specification"
	"ai-voicetutor-be/internal/repository/unitofwork"
	"ai-voicetutor-be/pkg/events"
	"ai-voicetutor-be/pkg/llm"
	pktNats "ai-voicetutor-be/pkg/nats"
	"ai-voicetutor-be/pkg/speech"

	"github.com/google/uuid"
)

const (
	transcribeTimeout = 15 * time.Second
	generateTimeout   = 15 * time.Second
	synthesizeTimeout = 10 * time.Second

	// historyWindow is how many recent messages accompany the persona as
	// generation context.
	historyWindow = 8
)

type ITalkService interface {
	StartSession(ctx context.Context, userId uuid.UUID, req *dto.StartSessionRequest, forceNew bool) (*dto.StartSessionResponse, error)
	ProcessAudioTurn(ctx context.Context, userId, sessionId uuid.UUID, audio []byte) (*dto.TurnResponse, error)
	ProcessTextTurn(ctx context.Context, userId, sessionId uuid.UUID, text string) (*dto.TurnResponse, error)
	GetHistory(ctx context.Context, userId, sessionId uuid.UUID) ([]*dto.HistoryMessageResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionListItemResponse, error)
}

type talkService struct {
	uowFactory     unitofwork.RepositoryFactory
	transcriber    speech.Transcriber
	synthesizer    speech.Synthesizer
	llmProvider    llm.LLMProvider
	turnGuard      *memory.TurnGuard
	eventPublisher *pktNats.Publisher
	embedPublisher IPublisherService
	logger         logger.ILogger
}

func NewTalkService(
	uowFactory unitofwork.RepositoryFactory,
	transcriber speech.Transcriber,
	synthesizer speech.Synthesizer,
	llmProvider llm.LLMProvider,
	turnGuard *memory.TurnGuard,
	eventPublisher *pktNats.Publisher,
	embedPublisher IPublisherService,
	log logger.ILogger,
) ITalkService {
	return &talkService{
		uowFactory:     uowFactory,
		transcriber:    transcriber,
		synthesizer:    synthesizer,
		llmProvider:    llmProvider,
		turnGuard:      turnGuard,
		eventPublisher: eventPublisher,
		embedPublisher: embedPublisher,
		logger:         log,
	}
}

// StartSession resolves the caller's active session. Unless forceNew is set,
// the most recent same-type session created since local midnight is reused,
// with its persisted language, voice and persona untouched. The greeting is
// part of the response only and is never written to the transcript.
func (s *talkService) StartSession(ctx context.Context, userId uuid.UUID, req *dto.StartSessionRequest, forceNew bool) (*dto.StartSessionResponse, error) {
	sessionType := entity.SessionType(req.Type)
	if sessionType == "" {
		sessionType = entity.SessionTypeChat
	}
	language := req.Language
	if language == "" {
		language = constant.DefaultLanguage
	}

	var scenarioContext string
	var scenarioId *string
	if sessionType == entity.SessionTypeRoleplay {
		if req.ScenarioId == "" {
			return nil, apperrors.New(apperrors.KindInput, "roleplay sessions require a scenario_id")
		}
		scenario, ok := constant.ScenarioById(req.ScenarioId)
		if !ok {
			return nil, apperrors.New(apperrors.KindInput, "unknown scenario_id")
		}
		scenarioContext = scenario.Context
		scenarioId = &scenario.Id
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions := uow.SessionRepository()

	session := (*entity.Session)(nil)
	resumed := false

	if !forceNew {
		now := time.Now()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		found, err := sessions.FindOne(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.Filter("type", string(sessionType)),
			specification.CreatedSince{Cutoff: midnight},
			specification.OrderBy{Field: "created_at", Desc: true},
		)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up active session", err)
		}
		if found != nil {
			session = found
			resumed = true
		}
	}

	if session == nil {
		session = &entity.Session{
			UserId:     userId,
			Type:       sessionType,
			Language:   language,
			VoiceId:    constant.VoiceForLanguage(language),
			ScenarioId: scenarioId,
			Persona:    constant.RenderPersona(string(sessionType), language, scenarioContext),
		}
		if err := sessions.Create(ctx, session); err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create session", err)
		}

		s.publishEvent(ctx, events.NewSessionStarted(
			userId.String(), session.Id.String(), string(session.Type), session.Language,
		))
	}

	greeting := constant.GreetingForLanguage(session.Language)
	greetingAudio := s.synthesize(ctx, greeting, session.Language, session.VoiceId)

	return &dto.StartSessionResponse{
		Id:            session.Id,
		Type:          string(session.Type),
		Language:      session.Language,
		VoiceId:       session.VoiceId,
		ScenarioId:    session.ScenarioId,
		Resumed:       resumed,
		GreetingText:  greeting,
		GreetingAudio: greetingAudio,
		CreatedAt:     session.CreatedAt,
	}, nil
}

func (s *talkService) ProcessAudioTurn(ctx context.Context, userId, sessionId uuid.UUID, audio []byte) (*dto.TurnResponse, error) {
	if len(audio) == 0 {
		return nil, apperrors.New(apperrors.KindInput, "audio clip is empty")
	}
	return s.processTurn(ctx, userId, sessionId, audio, "")
}

func (s *talkService) ProcessTextTurn(ctx context.Context, userId, sessionId uuid.UUID, text string) (*dto.TurnResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.New(apperrors.KindInput, "text is empty")
	}
	return s.processTurn(ctx, userId, sessionId, nil, text)
}

func (s *talkService) processTurn(ctx context.Context, userId, sessionId uuid.UUID, audio []byte, text string) (*dto.TurnResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions := uow.SessionRepository()
	messages := uow.MessageRepository()

	session, err := sessions.FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load session", err)
	}
	if session == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "session not found")
	}

	if !s.turnGuard.Acquire(sessionId.String()) {
		return nil, apperrors.New(apperrors.KindInput, "a turn is already in progress for this session")
	}
	defer s.turnGuard.Release(sessionId.String())

	// 1. Resolve what the user said. A hard transcription failure aborts the
	// turn before anything is persisted.
	userText := text
	if len(audio) > 0 {
		transcribeCtx, cancel := context.WithTimeout(ctx, transcribeTimeout)
		transcript, err := s.transcriber.Transcribe(transcribeCtx, audio, session.Language)
		cancel()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindTranscription, "failed to transcribe audio", err)
		}
		userText = transcript
	}

	// 2. Nothing intelligible: benign reply, zero persistence.
	if strings.TrimSpace(userText) == "" {
		notice := constant.EmptyInputReply(session.Language)
		return &dto.TurnResponse{
			SessionId:  session.Id,
			Notice:     notice,
			ReplyAudio: s.synthesize(ctx, notice, session.Language, session.VoiceId),
		}, nil
	}

	// 3. Persist the user message before generation so a generation failure
	// still leaves what the user said in the transcript.
	userMessage := &entity.Message{
		SessionId: session.Id,
		Sender:    entity.MessageSenderUser,
		Content:   userText,
	}
	if err := messages.Create(ctx, userMessage); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to persist user message", err)
	}

	// 4. Generate the reply from the persisted persona plus the recent
	// transcript window.
	history, err := s.recentMessages(ctx, uow, session.Id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load conversation history", err)
	}

	generateCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	reply, err := s.llmProvider.Chat(generateCtx, buildChatContext(session.Persona, history))
	cancel()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindGeneration, "failed to generate reply", err)
	}
	reply = strings.TrimSpace(reply)

	aiMessage := &entity.Message{
		SessionId: session.Id,
		Sender:    entity.MessageSenderAi,
		Content:   reply,
	}
	if err := messages.Create(ctx, aiMessage); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to persist reply message", err)
	}

	// 5. Voice is best-effort: a synthesis failure downgrades the turn to
	// text, never to a substitute voice and never to an error.
	replyAudio := s.synthesize(ctx, reply, session.Language, session.VoiceId)

	s.publishEvent(ctx, events.NewTurnCompleted(userId.String(), session.Id.String(), aiMessage.Seq))
	s.publishEmbeds(userMessage.Id, aiMessage.Id)

	response := &dto.TurnResponse{
		SessionId:  session.Id,
		Reply:      toTurnMessage(aiMessage),
		ReplyAudio: replyAudio,
	}
	if len(audio) > 0 {
		response.Heard = toTurnMessage(userMessage)
	}
	return response, nil
}

// recentMessages returns the last historyWindow transcript rows in
// chronological order, including the turn's own user message.
func (s *talkService) recentMessages(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]*entity.Message, error) {
	recent, err := uow.MessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "seq", Desc: true},
		specification.Pagination{Limit: historyWindow},
	)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent, nil
}

func buildChatContext(persona string, history []*entity.Message) []llm.Message {
	context := make([]llm.Message, 0, len(history)+1)
	context = append(context, llm.Message{Role: "system", Content: persona})
	for _, msg := range history {
		role := "user"
		if msg.Sender == entity.MessageSenderAi {
			role = "assistant"
		}
		context = append(context, llm.Message{Role: role, Content: msg.Content})
	}
	return context
}

func (s *talkService) synthesize(ctx context.Context, text, language, voiceId string) []byte {
	synthCtx, cancel := context.WithTimeout(ctx, synthesizeTimeout)
	defer cancel()

	audio, err := s.synthesizer.Synthesize(synthCtx, text, language, voiceId)
	if err != nil {
		s.logger.Warn("talk", "Synthesis failed, continuing without audio", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return audio
}

func (s *talkService) publishEvent(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("talk", "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func (s *talkService) publishEmbeds(messageIds ...uuid.UUID) {
	if s.embedPublisher == nil {
		return
	}
	for _, id := range messageIds {
		if err := s.embedPublisher.PublishMessageEmbed(id); err != nil {
			s.logger.Warn("talk", "Failed to enqueue embedding backfill", map[string]interface{}{
				"message_id": id.String(),
				"error":      err.Error(),
			})
		}
	}
}

func toTurnMessage(msg *entity.Message) *dto.TurnMessage {
	return &dto.TurnMessage{
		Id:        msg.Id,
		Sender:    string(msg.Sender),
		Content:   msg.Content,
		Seq:       msg.Seq,
		CreatedAt: msg.CreatedAt,
	}
}

func (s *talkService) GetHistory(ctx context.Context, userId, sessionId uuid.UUID) ([]*dto.HistoryMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load session", err)
	}
	if session == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "session not found")
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "seq", Desc: false},
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load history", err)
	}

	history := make([]*dto.HistoryMessageResponse, len(messages))
	for i, msg := range messages {
		history[i] = &dto.HistoryMessageResponse{
			Id:        msg.Id,
			Sender:    string(msg.Sender),
			Content:   msg.Content,
			Seq:       msg.Seq,
			CreatedAt: msg.CreatedAt,
		}
	}
	return history, nil
}

func (s *talkService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionListItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list sessions", err)
	}

	out := make([]*dto.SessionListItemResponse, len(sessions))
	for i, session := range sessions {
		out[i] = &dto.SessionListItemResponse{
			Id:         session.Id,
			Type:       string(session.Type),
			Language:   session.Language,
			ScenarioId: session.ScenarioId,
			CreatedAt:  session.CreatedAt,
		}
	}
	return out, nil
}
