package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"site-builder/internal/history"
	"site-builder/internal/llm"
	"site-builder/internal/logging"
	"site-builder/internal/profile"
	"site-builder/internal/sanitize"
	"site-builder/internal/storage"
)

// ImageUpload is one image handed to the service. Name is the client's file
// name and may be empty for images that arrive without one.
type ImageUpload struct {
	Name string
	Data []byte
}

type detectedUpload struct {
	ImageUpload
	mime *mimetype.MIME
}

// IngestImages stores a batch of uploads, has each one described by the
// vision model and records them in the profile. The whole batch is summarized
// in a single history turn.
func (s *Service) IngestImages(ctx context.Context, userID string, uploads []ImageUpload, caption string) ([]profile.ImageRecord, error) {
	if len(uploads) == 0 {
		return nil, ErrNoImages
	}
	if len(uploads) > s.opts.MaxUploadImages {
		return nil, fmt.Errorf("%w: %d uploaded, at most %d allowed", ErrTooManyImages, len(uploads), s.opts.MaxUploadImages)
	}
	recs, err := s.ingest(ctx, userID, uploads, caption, func(recs []profile.ImageRecord) history.Turn {
		analyses := make([]string, 0, len(recs))
		for _, r := range recs {
			analyses = append(analyses, fmt.Sprintf("AI Analysis for %s: %s", r.OriginalName, r.AIAnalysis))
		}
		return history.Turn{
			User: fmt.Sprintf("Uploaded %d image(s) with text: \"%s\"", len(recs), caption),
			Bot:  strings.Join(analyses, "\n\n"),
		}
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// IngestImage stores and describes a single image, as received from a chat
// message with an optional caption.
func (s *Service) IngestImage(ctx context.Context, userID string, upload ImageUpload, caption string) (profile.ImageRecord, error) {
	recs, err := s.ingest(ctx, userID, []ImageUpload{upload}, caption, func(recs []profile.ImageRecord) history.Turn {
		user := "Uploaded image"
		if caption != "" {
			user = fmt.Sprintf("Uploaded image with caption: \"%s\"", caption)
		}
		return history.Turn{User: user, Bot: "AI Analysis: " + recs[0].AIAnalysis}
	})
	if err != nil {
		return profile.ImageRecord{}, err
	}
	return recs[0], nil
}

func (s *Service) ingest(ctx context.Context, userID string, uploads []ImageUpload, caption string, summarize func([]profile.ImageRecord) history.Turn) ([]profile.ImageRecord, error) {
	detected := make([]detectedUpload, 0, len(uploads))
	for _, u := range uploads {
		mt := mimetype.Detect(u.Data)
		if !strings.HasPrefix(mt.String(), "image/") {
			return nil, fmt.Errorf("%w: %s is %s", ErrNotAnImage, displayName(u.Name), mt.String())
		}
		detected = append(detected, detectedUpload{ImageUpload: u, mime: mt})
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	lg := logging.ForUser(userID, "image")
	current, turns, err := s.loadState(userID)
	if err != nil {
		return nil, err
	}

	var written []string
	cleanup := func() {
		for _, name := range written {
			if err := s.store.RemoveImage(userID, name); err != nil {
				lg.Warn().Err(err).Str("file", name).Msg("failed to remove image")
			}
		}
	}

	recs := make([]profile.ImageRecord, 0, len(detected))
	for _, u := range detected {
		filename := s.imageFileName(u)
		if _, err := s.store.SaveImage(userID, filename, u.Data); err != nil {
			cleanup()
			return nil, err
		}
		written = append(written, filename)

		analysis, err := s.describe(ctx, u)
		if err != nil {
			cleanup()
			lg.Error().Err(err).Str("file", filename).Msg("image analysis failed")
			return nil, &AnalysisError{File: displayName(u.Name), Err: err}
		}

		original := u.Name
		if original == "" {
			original = filename
		}
		recs = append(recs, profile.ImageRecord{
			Filename:     filename,
			OriginalName: original,
			URL:          ImageURL(userID, filename),
			UploadedAt:   s.now(),
			Description:  caption,
			AIAnalysis:   analysis,
		})
	}

	for _, r := range recs {
		current.AddImage(r)
	}
	turn := summarize(recs)
	if err := s.commit(userID, turns, turns.Append(turn), func() error {
		return s.store.SaveProfile(userID, current)
	}); err != nil {
		cleanup()
		return nil, err
	}

	s.record(storage.Event{UserID: userID, Kind: storage.KindImage, UserMessage: turn.User, AssistantResponse: turn.Bot})
	lg.Info().Int("images", len(recs)).Msg("images ingested")
	return recs, nil
}

func (s *Service) describe(ctx context.Context, u detectedUpload) (string, error) {
	resp, err := s.callModel(ctx, s.vision, "vision", []llm.Message{
		{Role: llm.RoleSystem, Content: visionSystemPrompt},
		{Role: llm.RoleUser, Content: visionQuestion, Images: []llm.ImagePart{{MIMEType: u.mime.String(), Data: u.Data}}},
	})
	if err != nil {
		return "", err
	}
	modelCalls.WithLabelValues("vision", outcomeOK).Inc()
	return strings.TrimSpace(resp.Content), nil
}

// imageFileName builds a collision-resistant name: millisecond timestamp,
// a short random tag and either the sanitized original name or the detected
// extension.
func (s *Service) imageFileName(u detectedUpload) string {
	prefix := fmt.Sprintf("%d-%s", s.now().UnixMilli(), uuid.NewString()[:8])
	if safe := sanitize.FileName(u.Name); safe != "" {
		return prefix + "-" + safe
	}
	return prefix + u.mime.Extension()
}

// ImageURL is the public path an image is served under.
func ImageURL(userID, filename string) string {
	return "/images/" + userID + "/" + filename
}

func displayName(name string) string {
	if name == "" {
		return "image"
	}
	return name
}
