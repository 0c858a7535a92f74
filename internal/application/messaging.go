package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/peerconnect/backend/internal/domain"
)

// MessagingService holds the direct-messaging use-cases.
type MessagingService struct {
	repo domain.MessageRepository
	hub  Broadcaster
}

// NewMessagingService wires the messaging use-cases.
func NewMessagingService(repo domain.MessageRepository, hub Broadcaster) *MessagingService {
	return &MessagingService{repo: repo, hub: hub}
}

// Start returns the conversation id for the pair, creating it if absent.
// Either initiating order yields the same conversation.
func (s *MessagingService) Start(ctx context.Context, senderID, recipientID int64) (int64, error) {
	if recipientID == 0 {
		return 0, fmt.Errorf("%w: recipient id is required", domain.ErrValidation)
	}
	if recipientID == senderID {
		return 0, fmt.Errorf("%w: cannot start a conversation with yourself", domain.ErrValidation)
	}

	id, err := s.repo.StartConversation(ctx, senderID, recipientID)
	if err != nil {
		return 0, fmt.Errorf("start conversation: %w", err)
	}
	return id, nil
}

// MyConversations lists the student's conversations, newest first.
func (s *MessagingService) MyConversations(ctx context.Context, studentID int64) ([]domain.Conversation, error) {
	return s.repo.ListConversations(ctx, studentID)
}

// Send persists a message and then delivers it to the conversation group.
// Delivery is fire-and-forget; a disconnected participant recovers the
// message from history on reconnect.
func (s *MessagingService) Send(ctx context.Context, conversationID, senderID int64, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", domain.ErrValidation)
	}

	ok, err := s.repo.IsParticipant(ctx, conversationID, senderID)
	if err != nil {
		return nil, fmt.Errorf("check participant: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}

	msg, err := s.repo.CreateMessage(ctx, conversationID, senderID, content)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	go s.hub.SendToConversation(conversationID, msg)
	return msg, nil
}

// History lists a conversation's messages in creation order ascending.
func (s *MessagingService) History(ctx context.Context, conversationID, studentID int64) ([]domain.Message, error) {
	ok, err := s.repo.IsParticipant(ctx, conversationID, studentID)
	if err != nil {
		return nil, fmt.Errorf("check participant: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.repo.ListMessages(ctx, conversationID)
}
