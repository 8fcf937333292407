package notify

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"project-planner/internal/repository"
	"project-planner/internal/service"
)

// TelegramNotifier pushes status digests to accounts with a linked Telegram
// chat. It is a pure consumer of the model; nothing in the model depends on
// it.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	users  *repository.UserRepository
	digest *service.DigestService
	window time.Duration
	log    *zap.Logger
}

func NewTelegramNotifier(token string, users *repository.UserRepository, digest *service.DigestService, window time.Duration, log *zap.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram api: %w", err)
	}
	return &TelegramNotifier{
		api:    api,
		users:  users,
		digest: digest,
		window: window,
		log:    log,
	}, nil
}

// SendDigests builds and delivers a digest for every notifiable account.
// Accounts with nothing pending are skipped. Delivery failures are logged
// and do not stop the run.
func (n *TelegramNotifier) SendDigests(ctx context.Context, now time.Time) error {
	users, err := n.users.ListNotifiable(ctx)
	if err != nil {
		return err
	}

	for _, user := range users {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		text, err := n.digest.Summary(ctx, user.ID, now, n.window)
		if err != nil {
			n.log.Error("build digest", zap.Uint("user_id", user.ID), zap.Error(err))
			continue
		}
		if text == "" {
			continue
		}

		msg := tgbotapi.NewMessage(*user.TelegramChatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := n.api.Send(msg); err != nil {
			n.log.Error("send digest", zap.Uint("user_id", user.ID), zap.Error(err))
			continue
		}
		n.log.Info("digest sent", zap.Uint("user_id", user.ID))
	}
	return nil
}
