package whatsapp

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sunshineplan/imgconv"
	"golang.org/x/time/rate"
	"google.golang.org/protobuf/proto"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"

	"github.com/wasex/go-whatsapp-sender-console/pkg/env"
	"github.com/wasex/go-whatsapp-sender-console/pkg/log"
	"github.com/wasex/go-whatsapp-sender-console/pkg/mediastore"
)

// MessageClient is the slice of *whatsmeow.Client the send pipeline
// needs. Tests substitute a fake.
type MessageClient interface {
	SendMessage(ctx context.Context, to types.JID, message *waE2E.Message, extra ...whatsmeow.SendRequestExtra) (whatsmeow.SendResponse, error)
	Upload(ctx context.Context, plaintext []byte, appInfo whatsmeow.MediaType) (whatsmeow.UploadResponse, error)
	GenerateMessageID() types.MessageID
}

// Sender delivers one message at a time with bounded retry. Only
// timeout-class failures are retried; anything else aborts immediately.
type Sender struct {
	client     MessageClient
	retryLimit int
	retryDelay time.Duration
	limiter    *rate.Limiter
}

func NewSender(client MessageClient) *Sender {
	retryLimit := env.GetEnvIntOrDefault("SEND_RETRY_LIMIT", 3)
	if retryLimit < 1 {
		retryLimit = 1
	}
	retryDelay := env.GetEnvDurationOrDefault("SEND_RETRY_DELAY", 5*time.Second)
	minInterval := env.GetEnvDurationOrDefault("SEND_MIN_INTERVAL", time.Second)

	return &Sender{
		client:     client,
		retryLimit: retryLimit,
		retryDelay: retryDelay,
		limiter:    rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// Send normalizes the destination, builds the payload (degrading to
// text when the media file is gone) and attempts delivery up to the
// retry limit. Returns the message ID of the delivered message.
//
// Usage accounting is deliberately left to the caller: a contact is
// only marked used after Send returns nil.
func (s *Sender) Send(ctx context.Context, destination, text string, media *mediastore.File) (string, error) {
	remoteJID, err := types.ParseJID(NormalizeJID(destination))
	if err != nil {
		return "", err
	}

	message, err := s.buildPayload(ctx, remoteJID.User, text, media)
	if err != nil {
		return "", err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 1; attempt <= s.retryLimit; attempt++ {
		msgExtra := whatsmeow.SendRequestExtra{ID: s.client.GenerateMessageID()}
		_, err := s.client.SendMessage(ctx, remoteJID, message, msgExtra)
		if err == nil {
			log.SendOp(remoteJID.String(), "Send").
				WithField("attempt", attempt).
				WithField("message_id", msgExtra.ID).
				Info("Message delivered")
			return string(msgExtra.ID), nil
		}

		lastErr = err
		log.SendOp(remoteJID.String(), "Send").
			WithField("attempt", attempt).
			WithError(err).
			Error("Delivery attempt failed")

		if !isTimeoutError(err) || attempt == s.retryLimit {
			break
		}
		if err := sleepContext(ctx, s.retryDelay); err != nil {
			return "", err
		}
	}

	return "", lastErr
}

func (s *Sender) buildPayload(ctx context.Context, destination, text string, media *mediastore.File) (*waE2E.Message, error) {
	textOnly := &waE2E.Message{Conversation: proto.String(text)}

	if media == nil || media.Type == mediastore.TypeNone {
		return textOnly, nil
	}

	if _, err := os.Stat(media.Path); err != nil {
		log.SendOp(destination, "Send").WithField("media", media.Name).Warn("Media file missing, sending text only")
		return textOnly, nil
	}
	data, err := os.ReadFile(media.Path)
	if err != nil {
		log.SendOp(destination, "Send").WithField("media", media.Name).WithError(err).Warn("Media file unreadable, sending text only")
		return textOnly, nil
	}

	switch media.Type {
	case mediastore.TypeImage:
		uploaded, err := s.client.Upload(ctx, data, whatsmeow.MediaImage)
		if err != nil {
			return nil, errors.New("failed to upload image to WhatsApp servers")
		}
		return &waE2E.Message{
			ImageMessage: &waE2E.ImageMessage{
				URL:           proto.String(uploaded.URL),
				DirectPath:    proto.String(uploaded.DirectPath),
				Mimetype:      proto.String(imageMimeType(media.Name)),
				Caption:       proto.String(text),
				FileLength:    proto.Uint64(uploaded.FileLength),
				FileSHA256:    uploaded.FileSHA256,
				FileEncSHA256: uploaded.FileEncSHA256,
				MediaKey:      uploaded.MediaKey,
				JPEGThumbnail: imageThumbnail(data),
			},
		}, nil

	case mediastore.TypeVideo:
		uploaded, err := s.client.Upload(ctx, data, whatsmeow.MediaVideo)
		if err != nil {
			return nil, errors.New("failed to upload video to WhatsApp servers")
		}
		return &waE2E.Message{
			VideoMessage: &waE2E.VideoMessage{
				URL:           proto.String(uploaded.URL),
				DirectPath:    proto.String(uploaded.DirectPath),
				Mimetype:      proto.String("video/mp4"),
				Caption:       proto.String(text),
				FileLength:    proto.Uint64(uploaded.FileLength),
				FileSHA256:    uploaded.FileSHA256,
				FileEncSHA256: uploaded.FileEncSHA256,
				MediaKey:      uploaded.MediaKey,
				GifPlayback:   proto.Bool(false),
			},
		}, nil
	}

	return textOnly, nil
}

// imageThumbnail renders a 72px JPEG preview. A broken image is not
// fatal, the message just goes out without a thumbnail.
func imageThumbnail(data []byte) []byte {
	decoded, err := imgconv.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	encoded := new(bytes.Buffer)
	err = imgconv.Write(encoded,
		imgconv.Resize(decoded, &imgconv.ResizeOption{Width: 72}),
		&imgconv.FormatOption{Format: imgconv.JPEG})
	if err != nil {
		return nil
	}
	return encoded.Bytes()
}

func imageMimeType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// isTimeoutError classifies transient delivery failures worth retrying.
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "timed out") || strings.Contains(message, "timeout")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
