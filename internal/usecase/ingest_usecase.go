package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/depot-sh/depot/internal/digest"
	"github.com/depot-sh/depot/internal/domain/entities"
	"github.com/depot-sh/depot/internal/domain/repository"
	"github.com/depot-sh/depot/internal/filetype"
	"github.com/depot-sh/depot/internal/naming"
	"github.com/depot-sh/depot/internal/thumbnail"
	"github.com/depot-sh/depot/pkg/logging"
)

// IngestUseCase turns a batch of uploads into durable, uniquely named,
// content-verified catalog entries. One instance serves the whole
// repository; batches are serialized through a mutex so name-collision
// bookkeeping stays single-writer.
type IngestUseCase struct {
	storage    repository.Storage
	allowedExt map[string]struct{}
	thumbMaxW  int
	thumbMaxH  int
	logger     *logging.Logger

	mu sync.Mutex
}

// NewIngestUseCase builds the pipeline. allowedExts are extensions
// without the leading dot; an empty list permits everything.
func NewIngestUseCase(storage repository.Storage, allowedExts []string, thumbMaxW, thumbMaxH int, logger *logging.Logger) *IngestUseCase {
	allowed := make(map[string]struct{}, len(allowedExts))
	for _, ext := range allowedExts {
		allowed[ext] = struct{}{}
	}
	if thumbMaxW <= 0 {
		thumbMaxW = thumbnail.DefaultMaxWidth
	}
	if thumbMaxH <= 0 {
		thumbMaxH = thumbnail.DefaultMaxHeight
	}
	return &IngestUseCase{
		storage:    storage,
		allowedExt: allowed,
		thumbMaxW:  thumbMaxW,
		thumbMaxH:  thumbMaxH,
		logger:     logger,
	}
}

// Ingest processes the batch in order and returns one outcome per file.
// Per-file failures never abort siblings; the only batch-level failure
// is the declared-size ceiling, checked before anything is written.
func (u *IngestUseCase) Ingest(ctx context.Context, batch []entities.UploadFile, limits entities.Limits) ([]entities.Outcome, error) {
	if limits.MaxContentLength > 0 {
		var declared int64
		for _, f := range batch {
			declared += f.DeclaredSize
		}
		if declared > limits.MaxContentLength {
			return nil, entities.ErrBatchTooLarge
		}
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	existing, err := u.listNames()
	if err != nil {
		return nil, fmt.Errorf("read directory listing: %w", err)
	}

	outcomes := make([]entities.Outcome, 0, len(batch))
	for _, f := range batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcome := u.ingestOne(f, limits, existing)
		if outcome.Success {
			// Keep the in-batch listing current so two identically
			// named files in one batch resolve to distinct names.
			existing[outcome.StoredName] = struct{}{}
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (u *IngestUseCase) ingestOne(f entities.UploadFile, limits entities.Limits, existing map[string]struct{}) entities.Outcome {
	outcome := entities.Outcome{OriginalName: f.OriginalName}

	fail := func(err error) entities.Outcome {
		outcome.Err = err
		u.logger.Warn("upload rejected", "file", f.OriginalName, "reason", entities.ErrorKind(err))
		return outcome
	}

	if f.OriginalName == "" {
		return fail(entities.ErrEmptyName)
	}
	if !u.extAllowed(f.OriginalName) {
		return fail(entities.ErrTypeNotAllowed)
	}

	sanitized, err := naming.Sanitize(f.OriginalName)
	if err != nil {
		return fail(err)
	}

	// Measure the actual stream, never the declared size. Reading one
	// byte past the cap distinguishes at-limit from over-limit without
	// draining an oversized stream.
	content, err := readBounded(f.Reader, limits.MaxFileSize)
	if err != nil {
		return fail(err)
	}

	storedName, err := naming.Resolve(sanitized, existing)
	if err != nil {
		return fail(err)
	}

	if _, err := u.storage.Save(storedName, bytes.NewReader(content)); err != nil {
		return fail(fmt.Errorf("save %s: %w", storedName, err))
	}

	sum, err := u.digestStored(storedName)
	if err != nil {
		return fail(fmt.Errorf("verify %s: %w", storedName, err))
	}

	if filetype.IsImage(storedName) {
		u.makeThumbnail(storedName)
	}

	outcome.Success = true
	outcome.StoredName = storedName
	outcome.Digest = sum
	u.logger.Info("file stored", "file", f.OriginalName, "stored_as", storedName, "size", len(content))
	return outcome
}

// digestStored hashes the bytes that actually landed on disk, not the
// in-flight stream.
func (u *IngestUseCase) digestStored(name string) (string, error) {
	rc, err := u.storage.Open(name)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return digest.Sum(rc)
}

// makeThumbnail is best effort. Failure is logged and swallowed; it
// must never flip a successful save into a failure.
func (u *IngestUseCase) makeThumbnail(name string) {
	rc, err := u.storage.Open(name)
	if err != nil {
		u.logger.Warn("thumbnail skipped", "file", name, "error", err)
		return
	}
	defer rc.Close()

	data, err := thumbnail.Generate(rc, u.thumbMaxW, u.thumbMaxH)
	if err != nil {
		u.logger.Warn("thumbnail failed", "file", name, "error", err)
		return
	}
	if err := u.storage.SaveThumb(name, data); err != nil {
		u.logger.Warn("thumbnail save failed", "file", name, "error", err)
	}
}

func (u *IngestUseCase) extAllowed(name string) bool {
	if len(u.allowedExt) == 0 {
		return true
	}
	_, ok := u.allowedExt[filetype.Ext(name)]
	return ok
}

func (u *IngestUseCase) listNames() (map[string]struct{}, error) {
	entries, err := u.storage.List()
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		names[e.Name] = struct{}{}
	}
	return names, nil
}

// readBounded reads r fully up to max bytes and reports ErrFileTooLarge
// when the stream keeps going past the cap. max <= 0 means unbounded.
func readBounded(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if n > max {
		return nil, entities.ErrFileTooLarge
	}
	return buf.Bytes(), nil
}
