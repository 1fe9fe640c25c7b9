package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-gatekeeper/internal/domain/ports/adapter"
	"telegram-gatekeeper/internal/domain/ports/repository"
)

// Messenger implements adapter.MessengerAdapter on top of the Bot API,
// keeping one lazily constructed client per bot identity.
type Messenger struct {
	bots repository.BotRepository
	log  *zerolog.Logger

	mu      sync.RWMutex
	clients map[string]*tgbotapi.BotAPI
}

var _ adapter.MessengerAdapter = (*Messenger)(nil)

func NewMessenger(bots repository.BotRepository, logger *zerolog.Logger) *Messenger {
	compLog := logger.With().Str("component", "Messenger").Logger()
	return &Messenger{
		bots:    bots,
		log:     &compLog,
		clients: make(map[string]*tgbotapi.BotAPI),
	}
}

func (m *Messenger) client(ctx context.Context, botID string) (*tgbotapi.BotAPI, error) {
	m.mu.RLock()
	cli, ok := m.clients[botID]
	m.mu.RUnlock()
	if ok {
		return cli, nil
	}

	bot, err := m.bots.Find(ctx, botID)
	if err != nil {
		return nil, fmt.Errorf("resolve bot %s: %w", botID, err)
	}
	cli, err = tgbotapi.NewBotAPI(bot.Token)
	if err != nil {
		return nil, fmt.Errorf("bot api client for %s: %w", botID, err)
	}

	m.mu.Lock()
	if existing, ok := m.clients[botID]; ok {
		cli = existing
	} else {
		m.clients[botID] = cli
	}
	m.mu.Unlock()
	return cli, nil
}

func (m *Messenger) SendText(ctx context.Context, botID string, chatID int64, text string, buttons [][]adapter.InlineButton) error {
	cli, err := m.client(ctx, botID)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup, ok := keyboard(buttons); ok {
		msg.ReplyMarkup = markup
	}
	_, err = cli.Send(msg)
	return err
}

func (m *Messenger) SendMedia(ctx context.Context, botID string, chatID int64, mediaURL, caption string, buttons [][]adapter.InlineButton) error {
	cli, err := m.client(ctx, botID)
	if err != nil {
		return err
	}

	markup, hasMarkup := keyboard(buttons)
	file := tgbotapi.FileURL(mediaURL)

	if isVideoURL(mediaURL) {
		msg := tgbotapi.NewVideo(chatID, file)
		msg.Caption = caption
		msg.ParseMode = tgbotapi.ModeHTML
		if hasMarkup {
			msg.ReplyMarkup = markup
		}
		_, err = cli.Send(msg)
		return err
	}

	msg := tgbotapi.NewPhoto(chatID, file)
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeHTML
	if hasMarkup {
		msg.ReplyMarkup = markup
	}
	_, err = cli.Send(msg)
	return err
}

func (m *Messenger) SendMediaGroup(ctx context.Context, botID string, chatID int64, mediaURLs []string, caption string) error {
	cli, err := m.client(ctx, botID)
	if err != nil {
		return err
	}

	files := make([]interface{}, 0, len(mediaURLs))
	for i, u := range mediaURLs {
		if isVideoURL(u) {
			item := tgbotapi.NewInputMediaVideo(tgbotapi.FileURL(u))
			if i == 0 {
				item.Caption = caption
				item.ParseMode = tgbotapi.ModeHTML
			}
			files = append(files, item)
			continue
		}
		item := tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(u))
		if i == 0 {
			item.Caption = caption
			item.ParseMode = tgbotapi.ModeHTML
		}
		files = append(files, item)
	}

	_, err = cli.SendMediaGroup(tgbotapi.NewMediaGroup(chatID, files))
	return err
}

func (m *Messenger) CreateInviteLink(ctx context.Context, botID string, target string, expireAt time.Time, memberLimit int) (string, error) {
	cli, err := m.client(ctx, botID)
	if err != nil {
		return "", err
	}

	cfg := tgbotapi.CreateChatInviteLinkConfig{
		ChatConfig:  chatConfig(target),
		ExpireDate:  int(expireAt.Unix()),
		MemberLimit: memberLimit,
	}
	resp, err := cli.Request(cfg)
	if err != nil {
		return "", fmt.Errorf("create invite link: %w", err)
	}

	var link tgbotapi.ChatInviteLink
	if err := json.Unmarshal(resp.Result, &link); err != nil {
		return "", fmt.Errorf("decode invite link: %w", err)
	}
	return link.InviteLink, nil
}

// chatConfig accepts either a numeric chat id or an @handle as the target.
func chatConfig(target string) tgbotapi.ChatConfig {
	if id, err := strconv.ParseInt(target, 10, 64); err == nil {
		return tgbotapi.ChatConfig{ChatID: id}
	}
	return tgbotapi.ChatConfig{SuperGroupUsername: target}
}

func keyboard(buttons [][]adapter.InlineButton) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(buttons) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, row := range buttons {
		out := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.WebAppURL != "" {
				out = append(out, tgbotapi.InlineKeyboardButton{
					Text:   b.Label,
					WebApp: &tgbotapi.WebAppInfo{URL: b.WebAppURL},
				})
				continue
			}
			out = append(out, tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.URL))
		}
		rows = append(rows, out)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

func isVideoURL(u string) bool {
	u = strings.ToLower(u)
	for _, ext := range []string{".mp4", ".avi", ".mov", ".webm"} {
		if strings.HasSuffix(u, ext) {
			return true
		}
	}
	return false
}
