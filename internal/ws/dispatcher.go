package ws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"lessons-api/internal/domain"
	"lessons-api/internal/email"
	"lessons-api/internal/repository"
)

// Dispatcher convierte un evento de envío en un registro durable y cero o
// más entregas en vivo a las sesiones del destinatario.
type Dispatcher struct {
	logger   *zap.Logger
	messages repository.MessageRepository
	users    repository.UserRepository
	registry *Registry
	notifier email.Sender
}

func NewDispatcher(
	logger *zap.Logger,
	messages repository.MessageRepository,
	users repository.UserRepository,
	registry *Registry,
	notifier email.Sender,
) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		messages: messages,
		users:    users,
		registry: registry,
		notifier: notifier,
	}
}

// Dispatch persiste el mensaje y lo reparte a cada sesión viva del receptor.
// La persistencia manda: si falla, no se intenta ninguna entrega y el error
// sube al caller. Una entrega individual fallida desregistra esa sesión y no
// afecta al resto ni al registro durable. Cero entregas no es un error; el
// mensaje queda en el inbox (y dispara la notificación por correo si está
// configurada).
func (d *Dispatcher) Dispatch(ctx context.Context, senderID, receiverID, content string) (domain.Message, int, error) {
	msg := domain.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		IsRead:     false,
		CreatedAt:  time.Now().UTC(),
	}
	if err := d.messages.Create(ctx, msg); err != nil {
		return domain.Message{}, 0, err
	}

	payload := []byte(fmt.Sprintf("[From %s] %s", senderID, content))
	delivered := 0
	for _, session := range d.registry.Lookup(receiverID) {
		if err := session.Push(payload); err != nil {
			d.registry.Unregister(receiverID, session)
			session.Close()
			d.logger.Warn("push failed, session dropped",
				zap.String("receiver_id", receiverID),
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
			continue
		}
		delivered++
	}

	if delivered == 0 {
		d.notifyOffline(msg)
	}
	return msg, delivered, nil
}

// MarkRead marca un mensaje como leído. Idempotente; un id inexistente
// devuelve ok=false sin error.
func (d *Dispatcher) MarkRead(ctx context.Context, id string) (domain.Message, bool, error) {
	msg, err := d.messages.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Message{}, false, nil
		}
		return domain.Message{}, false, err
	}
	return msg, true, nil
}

// Inbox lista los mensajes recibidos por el usuario, más recientes primero.
func (d *Dispatcher) Inbox(ctx context.Context, userID string) ([]domain.Message, error) {
	return d.messages.ListForUser(ctx, userID)
}

func (d *Dispatcher) notifyOffline(msg domain.Message) {
	if d.notifier == nil || d.users == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		receiver, err := d.users.GetByID(ctx, msg.ReceiverID)
		if err != nil {
			return
		}
		fromName := msg.SenderID
		if sender, err := d.users.GetByID(ctx, msg.SenderID); err == nil && sender.Name != "" {
			fromName = sender.Name
		}
		if err := d.notifier.SendMessageNotification(ctx, receiver.Email, fromName, msg.Content); err != nil {
			d.logger.Warn("offline notification failed",
				zap.String("receiver_id", msg.ReceiverID),
				zap.Error(err),
			)
		}
	}()
}
