package telegram

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"site-builder/internal/builder"
	"site-builder/internal/history"
	"site-builder/internal/llm"
	"site-builder/internal/logging"
	"site-builder/internal/profile"
	"site-builder/internal/publish"
	"site-builder/internal/site"
	"site-builder/internal/storage"
)

// Builder is the part of builder.Service the bot drives.
type Builder interface {
	EnsureInitialized(userID string) error
	AdvanceConversation(ctx context.Context, userID, text string) (string, history.Log, error)
	IngestImage(ctx context.Context, userID string, upload builder.ImageUpload, caption string) (profile.ImageRecord, error)
	GenerateSite(ctx context.Context, userID string) (site.Artifact, error)
	HasSite(userID string) (bool, error)
	Publish(ctx context.Context, userID string) (string, error)
	Reset(userID string) error
}

type Bot struct {
	api *tgbotapi.BotAPI
	s   sender
	dl  downloader
	svc Builder

	wg sync.WaitGroup
}

func New(botToken string, svc Builder) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api: api,
		s:   botAPISender{api: api},
		dl:  newHTTPDownloader(botToken),
		svc: svc,
	}, nil
}

// Start long-polls for updates until ctx is done, handling each update in
// its own goroutine. It returns after in-flight updates have finished.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	log.Info().Str("bot", b.api.Self.UserName).Msg("telegram bot polling")

	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Info().Msg("telegram bot stopped polling")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}
	userID := strconv.FormatInt(msg.From.ID, 10)
	lg := logging.ForUser(userID, "telegram")
	defer func() {
		if r := recover(); r != nil {
			lg.Error().Interface("panic", r).Msg("update handler panicked")
			b.sendMessage(msg.Chat.ID, msgMessageFailed)
		}
	}()

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, msg, userID, lg)
	case len(msg.Photo) > 0:
		b.handlePhoto(ctx, msg, userID, lg)
	case strings.TrimSpace(msg.Text) != "":
		b.handleText(ctx, msg, userID, lg)
	default:
		b.sendMessage(msg.Chat.ID, msgUnsupported)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, userID string, lg zerolog.Logger) {
	lg.Debug().Str("command", msg.Command()).Msg("command received")
	switch msg.Command() {
	case "start":
		if err := b.svc.EnsureInitialized(userID); err != nil {
			lg.Error().Err(err).Msg("init failed")
			b.sendMessage(msg.Chat.ID, msgInitFailed)
			return
		}
		b.sendMessage(msg.Chat.ID, msgWelcome)
	case "generate":
		b.handleGenerate(ctx, msg.Chat.ID, userID, lg)
	case "preview":
		b.handlePreview(ctx, msg.Chat.ID, userID, lg)
	case "reset":
		b.sendMessage(msg.Chat.ID, msgResetting)
		if err := b.svc.Reset(userID); err != nil {
			lg.Error().Err(err).Msg("reset failed")
			b.sendMessage(msg.Chat.ID, msgResetFailed)
			return
		}
		b.sendMessage(msg.Chat.ID, msgResetDone)
	default:
		b.sendMessage(msg.Chat.ID, msgHelp)
	}
}

func (b *Bot) handleGenerate(ctx context.Context, chatID int64, userID string, lg zerolog.Logger) {
	b.sendMessage(chatID, msgGenerating)
	if _, err := b.svc.GenerateSite(ctx, userID); err != nil {
		lg.Error().Err(err).Msg("generate failed")
		b.sendMessage(chatID, msgGenerateFailed)
		return
	}
	b.sendMessage(chatID, msgGenerated)
}

func (b *Bot) handlePreview(ctx context.Context, chatID int64, userID string, lg zerolog.Logger) {
	b.sendMessage(chatID, msgPreparing)
	has, err := b.svc.HasSite(userID)
	if err != nil {
		lg.Error().Err(err).Msg("site lookup failed")
		b.sendMessage(chatID, msgPreviewFailed)
		return
	}
	if !has {
		b.sendMessage(chatID, msgNoSite)
		return
	}

	b.sendMessage(chatID, msgDeploying)
	url, err := b.svc.Publish(ctx, userID)
	if err != nil {
		lg.Error().Err(err).Msg("publish failed")
		b.sendMessage(chatID, publishFailureText(err))
		return
	}
	b.sendMessage(chatID, fmt.Sprintf(msgLive, url))
}

func publishFailureText(err error) string {
	var (
		authErr   *publish.AuthError
		targetErr *publish.TargetMissingError
	)
	switch {
	case errors.Is(err, builder.ErrPublishDisabled):
		return msgPublishDisabled
	case errors.Is(err, storage.ErrSiteNotFound):
		return msgNoSite
	case errors.As(err, &authErr):
		return msgPublishAuth
	case errors.As(err, &targetErr):
		return msgPublishTarget
	default:
		return fmt.Sprintf(msgPublishFailed, err.Error())
	}
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, userID string, lg zerolog.Logger) {
	largest := msg.Photo[len(msg.Photo)-1]
	file, err := b.s.GetFile(tgbotapi.FileConfig{FileID: largest.FileID})
	if err != nil {
		lg.Error().Err(err).Msg("get file failed")
		b.sendMessage(msg.Chat.ID, msgImageFailed)
		return
	}
	data, err := b.dl.Download(ctx, file)
	if err != nil {
		lg.Error().Err(err).Msg("download failed")
		b.sendMessage(msg.Chat.ID, msgImageFailed)
		return
	}

	upload := builder.ImageUpload{Name: path.Base(file.FilePath), Data: data}
	rec, err := b.svc.IngestImage(ctx, userID, upload, msg.Caption)
	if err != nil {
		lg.Error().Err(err).Msg("image ingest failed")
		b.sendMessage(msg.Chat.ID, msgImageFailed)
		return
	}
	b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgImageAnalyzed, rec.AIAnalysis))
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message, userID string, lg zerolog.Logger) {
	reply, _, err := b.svc.AdvanceConversation(ctx, userID, msg.Text)
	if err != nil {
		lg.Error().Err(err).Msg("conversation failed")
		var mre *llm.ModelResponseError
		if errors.As(err, &mre) {
			b.sendMessage(msg.Chat.ID, msgBadModelReply)
			return
		}
		b.sendMessage(msg.Chat.ID, msgMessageFailed)
		return
	}
	b.sendMessage(msg.Chat.ID, reply)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.s.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}
