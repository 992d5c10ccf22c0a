package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxPhotoBytes caps a downloaded photo. Telegram's own bot download limit
// is 20MB.
const maxPhotoBytes = 20 << 20

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
}

type botAPISender struct{ api *tgbotapi.BotAPI }

func (s botAPISender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	return s.api.Send(c)
}

func (s botAPISender) GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error) {
	return s.api.GetFile(config)
}

// downloader fetches the content of a file resolved with GetFile.
type downloader interface {
	Download(ctx context.Context, file tgbotapi.File) ([]byte, error)
}

type httpDownloader struct {
	token  string
	client *http.Client
}

func newHTTPDownloader(token string) httpDownloader {
	return httpDownloader{token: token, client: &http.Client{Timeout: time.Minute}}
}

func (d httpDownloader) Download(ctx context.Context, file tgbotapi.File) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(d.token), nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) > maxPhotoBytes {
		return nil, fmt.Errorf("file larger than %d bytes", maxPhotoBytes)
	}
	return data, nil
}
