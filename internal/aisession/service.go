package aisession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kaiwacoach/kaiwa-backend/internal/ai"
	"github.com/kaiwacoach/kaiwa-backend/internal/logger"
	"github.com/kaiwacoach/kaiwa-backend/internal/msglog"
	"github.com/kaiwacoach/kaiwa-backend/internal/profile"
	"github.com/kaiwacoach/kaiwa-backend/internal/realtime"
	"github.com/kaiwacoach/kaiwa-backend/internal/score"
)

// ErrModelBackend is the single opaque failure surfaced when the language
// model call fails. The user's turn is already durable by then, so callers
// may retry and only the assistant half is resent.
var ErrModelBackend = errors.New("aisession: model backend failure")

var ErrInvalidMode = errors.New("aisession: invalid mode")

// ProfileSource is the read-only external collaborator for coaching
// profiles and practice scenarios.
type ProfileSource interface {
	GetCoachingProfile(ctx context.Context, userID uint64) (*profile.CoachingProfile, error)
	GetScenario(ctx context.Context, scenarioID uint64) (*profile.Scenario, error)
}

// ScoreSink receives extracted rubric scores when a practice session ends.
type ScoreSink interface {
	RecordSessionScores(ctx context.Context, userID uint64, sessionID, sceneTag string, scores []score.AxisScore) error
}

type Service struct {
	log           *logger.Logger
	repo          *Repo
	msgs          *msglog.Store
	registry      *ai.Registry
	providerName  string
	model         string
	profiles      ProfileSource
	scores        ScoreSink
	channel       realtime.Channel
	contextWindow int
}

func NewService(
	log *logger.Logger,
	repo *Repo,
	msgs *msglog.Store,
	registry *ai.Registry,
	providerName, model string,
	profiles ProfileSource,
	scores ScoreSink,
	channel realtime.Channel,
	contextWindow int,
) *Service {
	if contextWindow <= 0 || contextWindow > 100 {
		contextWindow = 20
	}
	return &Service{
		log:           log.With("component", "AiSessionService"),
		repo:          repo,
		msgs:          msgs,
		registry:      registry,
		providerName:  providerName,
		model:         model,
		profiles:      profiles,
		scores:        scores,
		channel:       channel,
		contextWindow: contextWindow,
	}
}

// CreateSession opens a session in the given mode. Practice mode requires
// an existing scenario; an unknown scenario id reads as not found.
func (s *Service) CreateSession(ctx context.Context, userID uint64, mode Mode, sceneTag string, scenarioID *uint64, roomID *string) (*Session, error) {
	if !mode.Valid() {
		return nil, ErrInvalidMode
	}

	title := "新しい会話"
	switch mode {
	case ModeFeedback:
		title = "会話フィードバック"
	case ModePractice:
		if scenarioID == nil {
			return nil, ErrNotFound
		}
		sc, err := s.profiles.GetScenario(ctx, *scenarioID)
		if err != nil {
			if errors.Is(err, profile.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		title = sc.Name
	}

	sess := &Session{
		ID:         msglog.NewID(),
		UserID:     userID,
		Mode:       mode,
		Title:      title,
		SceneTag:   sceneTag,
		ScenarioID: scenarioID,
		RoomID:     roomID,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) ListSessions(ctx context.Context, userID uint64) ([]Session, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) RenameSession(ctx context.Context, userID uint64, sessionID, title string) error {
	return s.repo.Rename(ctx, sessionID, userID, title)
}

// DeleteSession removes the session and cascades to its messages, then
// announces the deletion on the owner's session topic.
func (s *Service) DeleteSession(ctx context.Context, userID uint64, sessionID string) error {
	if err := s.repo.Delete(ctx, sessionID, userID); err != nil {
		return err
	}
	if err := s.msgs.DeletePartition(ctx, sessionID); err != nil {
		return err
	}
	s.publish(ctx, realtime.UserSessionsTopic(userID), realtime.Event{
		Type: realtime.EventSessionDeleted,
		Data: map[string]any{"session_id": sessionID},
	})
	return nil
}

func (s *Service) ListMessages(ctx context.Context, userID uint64, sessionID string) ([]msglog.Entry, error) {
	if _, err := s.repo.Get(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	return s.msgs.ListByPartition(ctx, sessionID)
}

// SendMessage runs one exchange: persist the user turn, build the
// mode-specific prompt, call the model, persist and broadcast the reply.
// On a practice close it also extracts and records the rubric.
func (s *Service) SendMessage(ctx context.Context, userID uint64, sessionID, content string) (*msglog.Entry, error) {
	sess, err := s.repo.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	// user turn is durable before anything else happens
	userEntry, err := s.msgs.Append(ctx, sessionID, userID, msglog.RoleUser, content)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.SessionMessagesTopic(sessionID), realtime.Event{
		Type: realtime.EventSessionMessage,
		Data: userEntry,
	})

	messages, err := s.buildPrompt(ctx, sess, content)
	if err != nil {
		return nil, err
	}

	provider, err := s.registry.Get(ctx, s.providerName, s.model)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelBackend, err)
	}
	reply, err := provider.Chat(ctx, messages)
	if err != nil {
		s.log.Warn("model call failed", "session_id", sessionID, "error", err)
		return nil, ErrModelBackend
	}

	assistantEntry, err := s.msgs.Append(ctx, sessionID, userID, msglog.RoleAssistant, reply)
	if err != nil {
		return nil, err
	}
	_ = s.repo.Touch(ctx, sessionID)

	s.publish(ctx, realtime.SessionMessagesTopic(sessionID), realtime.Event{
		Type: realtime.EventSessionMessage,
		Data: assistantEntry,
	})

	if sess.Mode == ModePractice && content == EndSentinel {
		s.recordScores(ctx, sess, reply)
	}
	return assistantEntry, nil
}

// buildPrompt assembles system + history + current turn for the session's
// mode.
func (s *Service) buildPrompt(ctx context.Context, sess *Session, content string) ([]ai.Message, error) {
	system := normalPersona

	switch sess.Mode {
	case ModeFeedback:
		p, err := s.profiles.GetCoachingProfile(ctx, sess.UserID)
		if err != nil {
			return nil, err
		}
		system = feedbackPersona(p, sess.SceneTag)
	case ModePractice:
		if sess.ScenarioID == nil {
			return nil, ErrNotFound
		}
		sc, err := s.profiles.GetScenario(ctx, *sess.ScenarioID)
		if err != nil {
			if errors.Is(err, profile.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		system = practicePersona(sc)
		if content == EndSentinel {
			system += closingInstruction
		}
	}

	messages := []ai.Message{{Role: ai.RoleSystem, Content: system}}

	history, err := s.msgs.ListByPartition(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	// history already contains the just-appended user turn; keep the most
	// recent window
	if len(history) > s.contextWindow {
		history = history[len(history)-s.contextWindow:]
	}
	for _, h := range history {
		role := ai.RoleUser
		if h.Role == msglog.RoleAssistant {
			role = ai.RoleAssistant
		}
		c := h.Content
		if sess.Mode == ModePractice && c == StartSentinel {
			c = openingInstruction
		}
		messages = append(messages, ai.Message{Role: role, Content: c})
	}
	return messages, nil
}

// recordScores parses the rubric out of the closing reply. Parse failure
// stays silent toward the caller: logged, no scores produced.
func (s *Service) recordScores(ctx context.Context, sess *Session, reply string) {
	extraction := score.Extract(reply)
	if extraction.Failed {
		s.log.Warn("rubric parse failed", "session_id", sess.ID, "error", extraction.Err)
		return
	}
	if err := s.scores.RecordSessionScores(ctx, sess.UserID, sess.ID, sess.SceneTag, extraction.Scores); err != nil {
		s.log.Error("score persistence failed", "session_id", sess.ID, "error", err)
	}
}

// RephraseResult is both the synchronous response and the payload on the
// per-user rephrase topic.
type RephraseResult struct {
	Original  string `json:"original"`
	Rephrased string `json:"rephrased"`
	Style     string `json:"style"`
}

// Rephrase is a one-shot exchange outside any session.
func (s *Service) Rephrase(ctx context.Context, userID uint64, text, style string) (*RephraseResult, error) {
	if style == "" {
		style = "丁寧で柔らかい表現"
	}
	provider, err := s.registry.Get(ctx, s.providerName, s.model)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelBackend, err)
	}
	reply, err := provider.Chat(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: rephrasePersona},
		{Role: ai.RoleUser, Content: fmt.Sprintf("スタイル: %s\n\n%s", style, text)},
	})
	if err != nil {
		s.log.Warn("rephrase call failed", "user_id", userID, "error", err)
		return nil, ErrModelBackend
	}

	result := &RephraseResult{Original: text, Rephrased: reply, Style: style}
	s.publish(ctx, realtime.UserRephraseTopic(userID), realtime.Event{
		Type: realtime.EventRephraseResult,
		Data: result,
	})
	return result, nil
}

func (s *Service) publish(ctx context.Context, topic string, ev realtime.Event) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.channel.Publish(pctx, topic, ev); err != nil {
		s.log.Warn("realtime publish failed", "topic", topic, "error", err)
	}
}
