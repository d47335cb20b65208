package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/coursehub-api/internal/observability"
	"github.com/noah-isme/coursehub-api/internal/upload"
)

// storedFile describes a file persisted by a FileStorage.
type storedFile struct {
	Location string
	MimeType string
	Size     int64
}

// storeFile resolves the content type, re-applies the intake policy to the
// resolved type and writes the file to storage.
func storeFile(ctx context.Context, storage FileStorage, policy upload.Policy, file *multipart.FileHeader, kind string) (storedFile, error) {
	handle, err := file.Open()
	if err != nil {
		return storedFile{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer handle.Close()

	mimeType, err := upload.ResolveMIME(file.Header.Get("Content-Type"), handle)
	if err != nil {
		return storedFile{}, err
	}
	if _, err := handle.Seek(0, io.SeekStart); err != nil {
		return storedFile{}, fmt.Errorf("failed to rewind upload: %w", err)
	}

	if err := policy.Accept(mimeType, file.Size); err != nil {
		reason := "type"
		if errors.Is(err, upload.ErrTooLarge) {
			reason = "size"
		}
		observability.UploadRejected().WithLabelValues(kind, reason).Inc()
		return storedFile{}, err
	}

	location, err := storage.Upload(ctx, kind+upload.Extension(mimeType), handle)
	if err != nil {
		observability.UploadRejected().WithLabelValues(kind, "storage").Inc()
		return storedFile{}, fmt.Errorf("failed to store file: %w", err)
	}

	return storedFile{Location: location, MimeType: mimeType, Size: file.Size}, nil
}

// discardFile removes a stored file whose metadata could not be recorded.
func discardFile(storage FileStorage, logger zerolog.Logger, location string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := storage.Remove(ctx, location); err != nil {
		logger.Error().Err(err).Str("location", location).Msg("failed to remove orphaned file")
	}
}
