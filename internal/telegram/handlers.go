package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/forsyth47/yt-dlp-telegram/internal/logging"
	"github.com/forsyth47/yt-dlp-telegram/internal/model"
	"github.com/forsyth47/yt-dlp-telegram/internal/orchestrator"
	"github.com/forsyth47/yt-dlp-telegram/internal/prefs"
	"github.com/forsyth47/yt-dlp-telegram/internal/quality"
	"github.com/forsyth47/yt-dlp-telegram/internal/shortlink"
)

const welcomeText = `Send me a video link and I will download it for you.

Commands:
/download <url> - download a video
/audio <url> - extract audio only
/sendVideo <url> [title] - download with a custom title
/settings - choose your default quality
/id - show chat and user ids
/help - this message`

// Bot routes Telegram updates into orchestrator runs
type Bot struct {
	b     *bot.Bot
	orch  *orchestrator.Orchestrator
	prefs *prefs.Store
	links *shortlink.Store // nil when deep links are disabled
	log   *logging.Logger
}

// New builds the bot and registers every handler. Start must be called to
// begin polling.
func New(token string, orch *orchestrator.Orchestrator, store *prefs.Store, links *shortlink.Store, log *logging.Logger) (*Bot, error) {
	tb := &Bot{orch: orch, prefs: store, links: links, log: log}

	opts := []bot.Option{
		bot.WithDefaultHandler(tb.handleMessage),
		bot.WithMessageTextHandler("/start", bot.MatchTypePrefix, tb.handleStart),
		bot.WithMessageTextHandler("/help", bot.MatchTypePrefix, tb.handleHelp),
		bot.WithMessageTextHandler("/download", bot.MatchTypePrefix, tb.handleDownload),
		bot.WithMessageTextHandler("/audio", bot.MatchTypePrefix, tb.handleAudio),
		bot.WithMessageTextHandler("/sendVideo", bot.MatchTypePrefix, tb.handleSendVideo),
		bot.WithMessageTextHandler("/settings", bot.MatchTypePrefix, tb.handleSettings),
		bot.WithMessageTextHandler("/id", bot.MatchTypePrefix, tb.handleID),
		bot.WithCallbackQueryDataHandler(cbCancel+cbSep, bot.MatchTypePrefix, tb.handleCancelCallback),
		bot.WithCallbackQueryDataHandler(cbQuality+cbSep, bot.MatchTypePrefix, tb.handleQualityCallback),
		bot.WithCallbackQueryDataHandler(cbSelection+cbSep, bot.MatchTypePrefix, tb.handleSelectionCallback),
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	tb.b = b
	return tb, nil
}

// Start polls for updates until ctx is cancelled
func (t *Bot) Start(ctx context.Context) {
	t.b.Start(ctx)
}

// Notifier returns a logging mirror posting records into chatID
func (t *Bot) Notifier(chatID int64) logging.Notifier {
	return func(level, text string) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = t.b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("[%s] %s", level, text),
		})
	}
}

// run starts one orchestration in its own goroutine; a download blocks for
// minutes and must never hold up update handling
func (t *Bot) run(ctx context.Context, msg *models.Message, req orchestrator.Request) {
	conv := NewConversation(t.b, msg.Chat.ID, msg.ID)
	go func() {
		_ = t.orch.Run(ctx, conv, req)
	}()
}

func userID(msg *models.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return msg.Chat.ID
}

// commandArgs strips the command word and returns the rest
func commandArgs(text string) string {
	_, rest, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(rest)
}

func (t *Bot) reply(ctx context.Context, chatID int64, text string) {
	_, _ = t.b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
}

// handleMessage treats any plain private-chat message as a download URL
func (t *Bot) handleMessage(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" || msg.Chat.Type != models.ChatTypePrivate {
		return
	}
	if strings.HasPrefix(msg.Text, "/") {
		t.reply(ctx, msg.Chat.ID, "Unknown command. Try /help.")
		return
	}
	t.run(ctx, msg, orchestrator.Request{URL: msg.Text, UserID: userID(msg)})
}

// handleStart greets, or resolves a one-time deep link when a token follows
// the command
func (t *Bot) handleStart(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	token := commandArgs(msg.Text)
	if token == "" {
		t.reply(ctx, msg.Chat.ID, welcomeText)
		return
	}
	if t.links == nil {
		t.reply(ctx, msg.Chat.ID, shortlink.ErrNotFound.Error())
		return
	}

	entry, err := t.links.Consume(ctx, token)
	if err != nil {
		t.reply(ctx, msg.Chat.ID, shortlink.ErrNotFound.Error())
		if !errors.Is(err, shortlink.ErrNotFound) {
			t.log.Errorf("resolve deep link", err)
		}
		return
	}
	t.run(ctx, msg, orchestrator.Request{
		URL:         entry.URL,
		UserID:      userID(msg),
		CustomTitle: entry.Title,
	})
}

func (t *Bot) handleHelp(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	t.reply(ctx, update.Message.Chat.ID, welcomeText)
}

func (t *Bot) handleDownload(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	url := commandArgs(msg.Text)
	if url == "" {
		t.reply(ctx, msg.Chat.ID, "Usage: /download <url>")
		return
	}
	t.run(ctx, msg, orchestrator.Request{URL: url, UserID: userID(msg)})
}

func (t *Bot) handleAudio(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	url := commandArgs(msg.Text)
	if url == "" {
		t.reply(ctx, msg.Chat.ID, "Usage: /audio <url>")
		return
	}
	t.run(ctx, msg, orchestrator.Request{URL: url, UserID: userID(msg), Audio: true})
}

// handleSendVideo downloads with an optional custom caption title after
// the URL
func (t *Bot) handleSendVideo(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	args := commandArgs(msg.Text)
	if args == "" {
		t.reply(ctx, msg.Chat.ID, "Usage: /sendVideo <url> [custom title]")
		return
	}
	url, title, _ := strings.Cut(args, " ")
	t.run(ctx, msg, orchestrator.Request{
		URL:         url,
		UserID:      userID(msg),
		CustomTitle: strings.TrimSpace(title),
	})
}

func (t *Bot) handleSettings(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	current := t.prefs.GetQuality(userID(msg))
	_, _ = t.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        fmt.Sprintf("Current default quality: %s\nChoose a new one:", current),
		ReplyMarkup: settingsKeyboard(),
	})
}

func (t *Bot) handleID(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	t.reply(ctx, msg.Chat.ID, fmt.Sprintf("Chat ID: %d\nUser ID: %d", msg.Chat.ID, userID(msg)))
}

// handleCancelCallback records a cancel action for a running job. A stale
// button press gets an alert instead of silence.
func (t *Bot) handleCancelCallback(ctx context.Context, _ *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	parts := strings.Split(cq.Data, cbSep)
	if len(parts) != 3 {
		t.answer(ctx, cq.ID, "", false)
		return
	}

	action, ok := model.ParseCancelAction(parts[1])
	if !ok {
		t.answer(ctx, cq.ID, "", false)
		return
	}

	if !t.orch.RequestCancel(parts[2], action) {
		t.answer(ctx, cq.ID, "Download not active or already finished.", true)
		return
	}
	t.answer(ctx, cq.ID, "Cancelling...", false)
}

// handleQualityCallback stores the picked default quality
func (t *Bot) handleQualityCallback(ctx context.Context, _ *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	parts := strings.Split(cq.Data, cbSep)
	if len(parts) != 2 {
		t.answer(ctx, cq.ID, "", false)
		return
	}
	choice := parts[1]

	if err := t.prefs.SetQuality(cq.From.ID, choice); err != nil {
		t.log.Errorf("store quality preference", err, "user", cq.From.ID)
		t.answer(ctx, cq.ID, "Could not save your preference.", true)
		return
	}
	t.answer(ctx, cq.ID, "", false)

	if m := cq.Message.Message; m != nil {
		_, _ = t.b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    m.Chat.ID,
			MessageID: m.ID,
			Text:      fmt.Sprintf("Default quality set to %s.", choice),
		})
	}
}

// handleSelectionCallback resumes a job suspended on the quality prompt
func (t *Bot) handleSelectionCallback(ctx context.Context, _ *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	m := cq.Message.Message
	if m == nil {
		t.answer(ctx, cq.ID, "", false)
		return
	}

	var sel quality.Selector
	parts := strings.Split(cq.Data, cbSep)
	switch {
	case len(parts) == 2 && parts[1] == "audio":
		sel = quality.Audio()
	case len(parts) == 3 && parts[1] == "video":
		h, err := strconv.Atoi(parts[2])
		if err != nil {
			t.answer(ctx, cq.ID, "", false)
			return
		}
		sel = quality.Exact(h)
	default:
		t.answer(ctx, cq.ID, "", false)
		return
	}

	t.answer(ctx, cq.ID, "", false)

	promptKey := orchestrator.MessageRef{ChatID: m.Chat.ID, ID: m.ID}.Key()
	_, _ = t.b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: m.Chat.ID, MessageID: m.ID})

	conv := NewConversation(t.b, m.Chat.ID, 0)
	go func() {
		err := t.orch.ResumeSelection(ctx, conv, promptKey, cq.From.ID, sel)
		if errors.Is(err, orchestrator.ErrSelectionExpired) {
			t.reply(ctx, m.Chat.ID, "That choice expired. Send the link again.")
		}
	}()
}

func (t *Bot) answer(ctx context.Context, id, text string, alert bool) {
	_, _ = t.b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: id,
		Text:            text,
		ShowAlert:       alert,
	})
}

// settingsKeyboard offers the stored-preference choices
func settingsKeyboard() models.ReplyMarkup {
	row := func(choices ...string) []models.InlineKeyboardButton {
		var out []models.InlineKeyboardButton
		for _, c := range choices {
			out = append(out, models.InlineKeyboardButton{
				Text:         c,
				CallbackData: callbackData(cbQuality, c),
			})
		}
		return out
	}
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			row(quality.PrefAsk, quality.PrefBest, quality.PrefAudio),
			row("1080", "720", "480"),
			row("360", "240", "144"),
		},
	}
}
