package builder

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"site-builder/internal/history"
	"site-builder/internal/llm"
	"site-builder/internal/logging"
	"site-builder/internal/site"
	"site-builder/internal/storage"
)

type siteReply struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

func (r *siteReply) Validate() error {
	if r.HTML == "" {
		return errors.New("html is missing")
	}
	return nil
}

// GenerateSite asks the model for a complete site built from the profile and
// history and replaces the user's site with it. A malformed reply leaves the
// previous site in place.
func (s *Service) GenerateSite(ctx context.Context, userID string) (site.Artifact, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	lg := logging.ForUser(userID, "generate")
	current, turns, err := s.loadState(userID)
	if err != nil {
		return site.Artifact{}, err
	}
	prompt, err := sitePrompt(current, turns)
	if err != nil {
		return site.Artifact{}, err
	}

	resp, err := s.callModel(ctx, s.chat, "generate", []llm.Message{{Role: llm.RoleSystem, Content: prompt}})
	if err != nil {
		lg.Error().Err(err).Msg("model call failed")
		return site.Artifact{}, &llm.ModelResponseError{Err: err}
	}
	reply, err := llm.ParseStructuredReply[siteReply](resp.Content)
	if err != nil {
		modelCalls.WithLabelValues("generate", outcomeInvalid).Inc()
		lg.Error().Err(err).Int("raw_len", len(resp.Content)).Msg("unusable model reply")
		return site.Artifact{}, err
	}
	modelCalls.WithLabelValues("generate", outcomeOK).Inc()

	artifact := site.Artifact{HTML: reply.HTML, CSS: reply.CSS, JS: reply.JS}
	if err := s.commit(userID, turns, turns.Append(generatedTurn()), func() error {
		return s.store.SaveSite(userID, artifact)
	}); err != nil {
		return site.Artifact{}, err
	}

	s.record(storage.Event{UserID: userID, Kind: storage.KindGenerate, UserMessage: generatedTurnUser, AssistantResponse: generatedTurnBot})
	lg.Info().Int("html_bytes", len(artifact.HTML)).Msg("site generated")
	return artifact, nil
}

// Publish pushes the user's generated site to hosting and returns its public
// URL. It fails with storage.ErrSiteNotFound when nothing was generated yet.
func (s *Service) Publish(ctx context.Context, userID string) (string, error) {
	if s.publisher == nil {
		return "", ErrPublishDisabled
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	lg := logging.ForUser(userID, "publish")
	artifact, err := s.store.LoadSite(userID)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.PublishTimeout)
	defer cancel()
	url, err := s.publisher.Publish(ctx, userID, artifact)
	if err != nil {
		publishes.WithLabelValues(outcomeError).Inc()
		lg.Error().Err(err).Msg("publish failed")
		return "", err
	}
	publishes.WithLabelValues(outcomeOK).Inc()

	s.record(storage.Event{UserID: userID, Kind: storage.KindPublish, AssistantResponse: url})
	lg.Info().Str("url", url).Msg("site published")
	return url, nil
}

// HasSite reports whether the user has a complete generated site.
func (s *Service) HasSite(userID string) (bool, error) {
	_, err := s.store.LoadSite(userID)
	if errors.Is(err, storage.ErrSiteNotFound) {
		return false, nil
	}
	return err == nil, err
}

// SiteCode returns the three site files of the user, or of the legacy shared
// site directory when userID is empty. Missing files are replaced with a
// placeholder.
func (s *Service) SiteCode(userID string) (map[string]string, error) {
	if userID == "" {
		return storage.ReadSiteCode(s.opts.LegacySiteDir)
	}
	dir, err := s.store.SiteDir(userID)
	if err != nil {
		return nil, err
	}
	return storage.ReadSiteCode(dir)
}

// SiteFilePath returns the path of one generated site file for serving.
func (s *Service) SiteFilePath(userID, name string) (string, error) {
	if !slices.Contains(site.FileNames, name) {
		return "", fmt.Errorf("%w: %s", ErrUnknownSiteFile, name)
	}
	dir, err := s.store.SiteDir(userID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// ImageFilePath returns the path of a stored image for serving.
func (s *Service) ImageFilePath(userID, name string) (string, error) {
	return s.store.ImagePath(userID, name)
}

func generatedTurn() history.Turn {
	return history.Turn{User: generatedTurnUser, Bot: generatedTurnBot}
}
