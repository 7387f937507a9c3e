package notify

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dexwatch/internal/domain"
)

// sender is the slice of the Telegram Bot API the sink uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

var _ sender = (*tgbotapi.BotAPI)(nil)

// TelegramSink posts notifications to a chat and relays trade signals as
// ToxiSol commands followed by a confirmation message.
type TelegramSink struct {
	api       sender
	chatID    int64
	botHandle string
	logger    *log.Logger
}

var (
	_ Notifier = (*TelegramSink)(nil)
	_ Trader   = (*TelegramSink)(nil)
)

// TelegramOption configures a TelegramSink.
type TelegramOption func(*TelegramSink)

// WithTradeBot overrides the handle trade commands are addressed to.
func WithTradeBot(handle string) TelegramOption {
	return func(s *TelegramSink) {
		s.botHandle = handle
	}
}

// WithLogger sets the sink's logger.
func WithLogger(logger *log.Logger) TelegramOption {
	return func(s *TelegramSink) {
		s.logger = logger
	}
}

// NewTelegramSink authenticates against the Bot API and returns a sink
// posting to chatID.
func NewTelegramSink(token string, chatID int64, opts ...TelegramOption) (*TelegramSink, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	s := &TelegramSink{
		api:       api,
		chatID:    chatID,
		botHandle: DefaultTradeBotHandle,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Notify sends one message to the configured chat. The Bot API client
// carries its own timeout; ctx is accepted for interface parity.
func (s *TelegramSink) Notify(_ context.Context, message string) error {
	if _, err := s.api.Send(tgbotapi.NewMessage(s.chatID, message)); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// Execute relays the signal as a trade command addressed to the bot
// handle, then posts the confirmation. The two are separate messages,
// command first.
func (s *TelegramSink) Execute(ctx context.Context, sig *domain.TradeSignal) error {
	if err := s.Notify(ctx, TradeCommand(s.botHandle, sig)); err != nil {
		return fmt.Errorf("trade command for %s: %w", sig.PairAddress, err)
	}
	s.logger.Printf("Executed %s trade for %s via %s: %s",
		sig.Action, sig.PairAddress, s.botHandle, formatAmount(sig.Amount))

	if err := s.Notify(ctx, TradeConfirmation(sig)); err != nil {
		return fmt.Errorf("trade confirmation for %s: %w", sig.PairAddress, err)
	}
	return nil
}
