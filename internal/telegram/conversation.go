package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/forsyth47/yt-dlp-telegram/internal/model"
	"github.com/forsyth47/yt-dlp-telegram/internal/orchestrator"
)

// Callback data prefixes. Telegram caps callback data at 64 bytes, which
// fits a prefix plus a UUID with room to spare.
const (
	cbCancel    = "cancel"
	cbQuality   = "set"
	cbSelection = "yt"
	cbSep       = "|"
)

// Conversation binds one chat and the message that triggered the job. It
// satisfies the surface the orchestrator sends through.
type Conversation struct {
	bot     *bot.Bot
	chatID  int64
	replyTo int
}

// NewConversation builds the reply surface for a triggering message
func NewConversation(b *bot.Bot, chatID int64, replyTo int) *Conversation {
	return &Conversation{bot: b, chatID: chatID, replyTo: replyTo}
}

func (c *Conversation) ref(m *models.Message) orchestrator.MessageRef {
	if m == nil {
		return orchestrator.MessageRef{}
	}
	return orchestrator.MessageRef{ChatID: m.Chat.ID, ID: m.ID}
}

func (c *Conversation) replyParams() *models.ReplyParameters {
	if c.replyTo == 0 {
		return nil
	}
	return &models.ReplyParameters{MessageID: c.replyTo}
}

// Reply sends a plain message into the chat
func (c *Conversation) Reply(ctx context.Context, text string) (orchestrator.MessageRef, error) {
	m, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          c.chatID,
		Text:            text,
		ReplyParameters: c.replyParams(),
	})
	if err != nil {
		return orchestrator.MessageRef{}, fmt.Errorf("send message: %w", err)
	}
	return c.ref(m), nil
}

// ReplyAnimation sends the placeholder animation by URL
func (c *Conversation) ReplyAnimation(ctx context.Context, mediaURL string) (orchestrator.MessageRef, error) {
	m, err := c.bot.SendAnimation(ctx, &bot.SendAnimationParams{
		ChatID:          c.chatID,
		Animation:       &models.InputFileString{Data: mediaURL},
		ReplyParameters: c.replyParams(),
	})
	if err != nil {
		return orchestrator.MessageRef{}, fmt.Errorf("send animation: %w", err)
	}
	return c.ref(m), nil
}

// ReplyStatus sends the progress message carrying the cancel keyboard
func (c *Conversation) ReplyStatus(ctx context.Context, text, jobID string) (orchestrator.MessageRef, error) {
	m, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          c.chatID,
		Text:            text,
		ParseMode:       models.ParseModeMarkdownV1,
		ReplyMarkup:     cancelKeyboard(jobID),
		ReplyParameters: c.replyParams(),
	})
	if err != nil {
		return orchestrator.MessageRef{}, fmt.Errorf("send status message: %w", err)
	}
	return c.ref(m), nil
}

// EditStatus rewrites the progress message, keeping the cancel keyboard
func (c *Conversation) EditStatus(ctx context.Context, ref orchestrator.MessageRef, text, jobID string) error {
	_, err := c.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      ref.ChatID,
		MessageID:   ref.ID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: cancelKeyboard(jobID),
	})
	if err != nil {
		return fmt.Errorf("edit status message: %w", err)
	}
	return nil
}

// Edit rewrites a message dropping any keyboard
func (c *Conversation) Edit(ctx context.Context, ref orchestrator.MessageRef, text string) error {
	_, err := c.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    ref.ChatID,
		MessageID: ref.ID,
		Text:      text,
	})
	if err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// Delete removes a message
func (c *Conversation) Delete(ctx context.Context, ref orchestrator.MessageRef) error {
	_, err := c.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    ref.ChatID,
		MessageID: ref.ID,
	})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// PromptSelection sends the quality keyboard: the available heights three
// per row, plus an audio-only row
func (c *Conversation) PromptSelection(ctx context.Context, heights []int) (orchestrator.MessageRef, error) {
	m, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          c.chatID,
		Text:            "Choose a quality for this video:",
		ReplyMarkup:     selectionKeyboard(heights),
		ReplyParameters: c.replyParams(),
	})
	if err != nil {
		return orchestrator.MessageRef{}, fmt.Errorf("send quality prompt: %w", err)
	}
	return c.ref(m), nil
}

// SendVideo uploads the artifact as a streamable video
func (c *Conversation) SendVideo(ctx context.Context, path, caption string, info *model.MediaInfo, onUpload orchestrator.UploadProgress) error {
	f, size, err := openArtifact(path)
	if err != nil {
		return err
	}
	defer f.Close()

	params := &bot.SendVideoParams{
		ChatID:            c.chatID,
		Video:             &models.InputFileUpload{Filename: filepath.Base(path), Data: newProgressReader(f, size, onUpload)},
		Caption:           caption,
		ParseMode:         models.ParseModeMarkdownV1,
		SupportsStreaming: true,
		ReplyParameters:   c.replyParams(),
	}
	if info != nil {
		params.Duration = info.DurationSec
		params.Width = info.Width
		params.Height = info.Height
	}
	if _, err := c.bot.SendVideo(ctx, params); err != nil {
		return fmt.Errorf("send video: %w", err)
	}
	return nil
}

// SendAudio uploads the artifact as an audio track
func (c *Conversation) SendAudio(ctx context.Context, path, caption string, info *model.MediaInfo, onUpload orchestrator.UploadProgress) error {
	f, size, err := openArtifact(path)
	if err != nil {
		return err
	}
	defer f.Close()

	params := &bot.SendAudioParams{
		ChatID:          c.chatID,
		Audio:           &models.InputFileUpload{Filename: filepath.Base(path), Data: newProgressReader(f, size, onUpload)},
		Caption:         caption,
		ParseMode:       models.ParseModeMarkdownV1,
		ReplyParameters: c.replyParams(),
	}
	if info != nil {
		params.Title = info.DisplayTitle()
		params.Performer = info.Performer()
		params.Duration = info.DurationSec
	}
	if _, err := c.bot.SendAudio(ctx, params); err != nil {
		return fmt.Errorf("send audio: %w", err)
	}
	return nil
}

func openArtifact(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open artifact: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat artifact: %w", err)
	}
	return f, fi.Size(), nil
}

// cancelKeyboard offers the two cancel actions for a running job
func cancelKeyboard(jobID string) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "❌ Cancel", CallbackData: callbackData(cbCancel, string(model.ActionDiscard), jobID)},
			},
			{
				{Text: "📤 Cancel & Send Partial", CallbackData: callbackData(cbCancel, string(model.ActionPreserve), jobID)},
			},
		},
	}
}

// selectionKeyboard lays out height choices three per row with an
// audio-only row at the bottom
func selectionKeyboard(heights []int) models.ReplyMarkup {
	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for _, h := range heights {
		row = append(row, models.InlineKeyboardButton{
			Text:         fmt.Sprintf("%dp", h),
			CallbackData: callbackData(cbSelection, "video", fmt.Sprintf("%d", h)),
		})
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "🎵 Audio Only", CallbackData: callbackData(cbSelection, "audio")},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func callbackData(parts ...string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += cbSep + p
	}
	return out
}
