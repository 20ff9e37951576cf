package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/forsyth47/yt-dlp-telegram/internal/fetch"
	"github.com/forsyth47/yt-dlp-telegram/internal/logging"
	"github.com/forsyth47/yt-dlp-telegram/internal/model"
	"github.com/forsyth47/yt-dlp-telegram/internal/platform"
	"github.com/forsyth47/yt-dlp-telegram/internal/progress"
	"github.com/forsyth47/yt-dlp-telegram/internal/quality"
	"github.com/forsyth47/yt-dlp-telegram/internal/registry"
)

// User-facing messages
const (
	msgInvalidURL        = "Invalid URL"
	msgInitializing      = "Initializing download... Please wait while I cook."
	msgCancelled         = "❌ Download cancelled."
	msgProcessingPartial = "📤 Processing partial download..."
	msgInvalidOrFailed   = "Invalid URL or download error."
	msgGenericError      = "Something went wrong during the download. Please try again later."
	msgArtifactMissing   = "Could not find downloaded file."
	msgUploading         = "Sending file to Telegram..."
	msgDeliveryFailed    = "Couldn't send file."
)

// ErrInvalidURL marks request text that never reaches the fetcher
var ErrInvalidURL = errors.New("invalid url")

// ErrSelectionExpired means a quality prompt was answered after its cache
// entry was consumed or expired
var ErrSelectionExpired = errors.New("selection expired")

// MessageRef identifies one sent chat message
type MessageRef struct {
	ChatID int64
	ID     int
}

// Key returns the throttle/cache key for the message
func (r MessageRef) Key() string {
	return fmt.Sprintf("%d-%d", r.ChatID, r.ID)
}

// IsZero reports whether the ref points at no message
func (r MessageRef) IsZero() bool {
	return r.ID == 0
}

// UploadProgress receives upload byte counters, the same shape as download
// progress
type UploadProgress func(current, total int64)

// Conversation is the slice of the messaging transport one job talks to.
// Implementations bind the chat and the triggering message.
type Conversation interface {
	Reply(ctx context.Context, text string) (MessageRef, error)
	ReplyAnimation(ctx context.Context, mediaURL string) (MessageRef, error)

	// ReplyStatus and EditStatus attach the cancel keyboard for jobID.
	ReplyStatus(ctx context.Context, text, jobID string) (MessageRef, error)
	EditStatus(ctx context.Context, ref MessageRef, text, jobID string) error

	Edit(ctx context.Context, ref MessageRef, text string) error
	Delete(ctx context.Context, ref MessageRef) error

	// PromptSelection presents the interactive quality choice: the given
	// video heights plus an audio-only option.
	PromptSelection(ctx context.Context, heights []int) (MessageRef, error)

	SendVideo(ctx context.Context, path, caption string, info *model.MediaInfo, onUpload UploadProgress) error
	SendAudio(ctx context.Context, path, caption string, info *model.MediaInfo, onUpload UploadProgress) error
}

// PreferenceStore supplies stored per-user quality preferences
type PreferenceStore interface {
	GetQuality(userID int64) string
}

// Config carries the orchestrator's fixed parameters
type Config struct {
	OutputDir      string
	MaxFilesize    string
	UpdateInterval time.Duration
	PlaceholderGIF string
	SelectionTTL   time.Duration
}

// Orchestrator owns the job lifecycle. It is shared by every handler
// goroutine; per-job state lives in the registry and in locals of Run.
type Orchestrator struct {
	registry   *registry.Registry
	fetcher    fetch.Fetcher
	prefs      PreferenceStore
	log        *logging.Logger
	throttle   *progress.Throttle
	selections *SelectionCache
	cfg        Config

	newID func() string
}

// New wires an orchestrator
func New(reg *registry.Registry, fetcher fetch.Fetcher, prefs PreferenceStore, log *logging.Logger, cfg Config) *Orchestrator {
	return &Orchestrator{
		registry:   reg,
		fetcher:    fetcher,
		prefs:      prefs,
		log:        log,
		throttle:   progress.NewThrottle(cfg.UpdateInterval),
		selections: NewSelectionCache(cfg.SelectionTTL),
		cfg:        cfg,
		newID:      uuid.NewString,
	}
}

// Request describes one orchestration run
type Request struct {
	URL    string
	UserID int64

	// Audio forces audio-only extraction (the /audio command)
	Audio bool

	// Selector, when set, skips preference resolution entirely. Used by the
	// ask-resume flow and deep links.
	Selector *quality.Selector

	// CustomTitle overrides the extracted title in the caption
	CustomTitle string
}

// RequestCancel records a cancel action for a running job. False means the
// job is not active (unknown, finished, or already cancelled); the caller
// must acknowledge that instead of dropping the request.
func (o *Orchestrator) RequestCancel(jobID string, action model.CancelAction) bool {
	return o.registry.RequestCancel(jobID, action)
}

// ResumeSelection continues a job that was suspended on the ask interaction.
// promptKey identifies the answered prompt message; its cache entry is
// consumed exactly once.
func (o *Orchestrator) ResumeSelection(ctx context.Context, conv Conversation, promptKey string, userID int64, sel quality.Selector) error {
	url, ok := o.selections.Consume(promptKey)
	if !ok {
		return ErrSelectionExpired
	}
	return o.Run(ctx, conv, Request{URL: url, UserID: userID, Audio: sel.AudioOnly, Selector: &sel})
}

// Run carries one request through the whole state machine. It blocks for
// the duration of the fetch, so callers invoke it from their own handler
// goroutine; errors are for the caller's bookkeeping, the user has already
// been messaged by the time Run returns.
func (o *Orchestrator) Run(ctx context.Context, conv Conversation, req Request) error {
	u, ok := parseURL(req.URL)
	if !ok {
		_, _ = conv.Reply(ctx, msgInvalidURL)
		return fmt.Errorf("%w: %q", ErrInvalidURL, req.URL)
	}

	audio := req.Audio || isMusicPlatform(u)
	sel := quality.Generic()
	prefNote := ""

	switch {
	case req.Selector != nil:
		sel = *req.Selector
		audio = audio || sel.AudioOnly
	case audio:
		sel = quality.Audio()
	case isYouTube(u):
		if !validYouTube(req.URL) {
			_, _ = conv.Reply(ctx, msgInvalidURL)
			return fmt.Errorf("%w: %q", ErrInvalidURL, req.URL)
		}
		pref := o.prefs.GetQuality(req.UserID)
		resolved, ask := quality.Resolve(pref)
		if ask {
			return o.promptSelection(ctx, conv, req.URL)
		}
		sel = resolved
		audio = sel.AudioOnly
		prefNote = pref
	}

	return o.fetchAndDeliver(ctx, conv, req, sel, audio, prefNote)
}

// promptSelection suspends the job pending the user's quality choice. The
// orchestration run ends here; the answer starts a new one through
// ResumeSelection.
func (o *Orchestrator) promptSelection(ctx context.Context, conv Conversation, url string) error {
	heights, err := o.fetcher.Probe(ctx, url)
	if err != nil {
		_, _ = conv.Reply(ctx, msgInvalidOrFailed)
		o.log.Errorf("fetch available formats", err, "url", url)
		return err
	}

	ref, err := conv.PromptSelection(ctx, heights)
	if err != nil {
		return fmt.Errorf("send quality prompt: %w", err)
	}
	o.selections.Put(ref.Key(), url)
	return nil
}

// fetchAndDeliver is the fetching half of the state machine: registration,
// reporter supervision, the blocking fetch, outcome interpretation, and the
// unconditional cleanup.
func (o *Orchestrator) fetchAndDeliver(ctx context.Context, conv Conversation, req Request, sel quality.Selector, audio bool, prefNote string) error {
	jobID := o.newID()
	o.registry.Register(jobID)
	state := progress.NewState()

	var statusRef MessageRef
	finalPath := ""

	// Cleanup is unconditional: no registry entry, artifact, partial file
	// or throttle bookkeeping survives the job, whatever branch ran.
	defer func() {
		o.registry.Unregister(jobID)
		platform.RemoveJobFiles(o.cfg.OutputDir, jobID)
		if finalPath != "" {
			_ = os.Remove(finalPath)
		}
		if !statusRef.IsZero() {
			o.throttle.ForgetContaining(statusRef.Key())
		}
	}()

	o.log.Info("download starting", "url", req.URL, "job", jobID)

	gifRef, _ := conv.ReplyAnimation(ctx, o.cfg.PlaceholderGIF)

	tip := msgInitializing
	if prefNote != "" {
		tip = fmt.Sprintf("Video will be downloaded at %s quality. Visit /settings to update.\n\n%s", prefNote, tip)
	}
	statusRef, err := conv.ReplyStatus(ctx, tip, jobID)
	if err != nil {
		if !gifRef.IsZero() {
			_ = conv.Delete(ctx, gifRef)
		}
		return fmt.Errorf("send status message: %w", err)
	}

	reporterCtx, stopReporter := context.WithCancel(ctx)
	defer stopReporter()
	reporter := progress.NewReporter(state, o.cfg.UpdateInterval,
		func(ctx context.Context, text string) error {
			return conv.EditStatus(ctx, statusRef, text, jobID)
		},
		func(ctx context.Context) {
			if !gifRef.IsZero() {
				_ = conv.Delete(ctx, gifRef)
			}
		})
	go reporter.Run(reporterCtx)

	onProgress := func(snap fetch.Snapshot) error {
		if snap.Info != nil {
			o.registry.RecordInfo(jobID, snap.Info)
		}
		title, ext := "", ""
		if snap.Info != nil {
			title, ext = snap.Info.Title, snap.Info.Ext
		}
		state.Update(snap.Downloaded, snap.Total, snap.Speed, snap.ETASec, title, ext)

		if action := o.registry.PeekAction(jobID); action.IsCancel() {
			if action == model.ActionPreserve {
				// Salvage before the engine's own cleanup removes its
				// temporary file.
				if err := platform.PreservePartial(snap.Filename, o.cfg.OutputDir, jobID); err != nil {
					o.log.Errorf("preserve partial file", err, "job", jobID)
				}
			}
			return &fetch.Cancelled{Action: action}
		}
		return nil
	}

	result, fetchErr := o.fetcher.Fetch(ctx, fetch.Request{
		URL:         req.URL,
		Format:      sel.Format,
		AudioOnly:   audio,
		OutputDir:   o.cfg.OutputDir,
		JobID:       jobID,
		MaxFilesize: o.cfg.MaxFilesize,
	}, onProgress)

	// The reporter never outlives the fetch.
	stopReporter()
	state.Finish()

	var info *model.MediaInfo
	if fetchErr != nil {
		var cancelled *fetch.Cancelled
		switch {
		case errors.As(fetchErr, &cancelled):
			if cancelled.Action == model.ActionDiscard {
				_ = conv.Edit(ctx, statusRef, msgCancelled)
				o.log.Warn("download cancelled by user", "job", jobID)
				return nil
			}
			_ = conv.Edit(ctx, statusRef, msgProcessingPartial)
			o.log.Info("partial download requested", "job", jobID)
			finalPath = platform.PartialPath(o.cfg.OutputDir, jobID)
			info = o.registry.LastInfo(jobID)
			if info == nil {
				info = &model.MediaInfo{Title: "Partial Download", Ext: model.DefaultVideoExt, OriginalURL: req.URL}
			}
		case errors.Is(fetchErr, fetch.ErrUnavailable):
			_ = conv.Edit(ctx, statusRef, msgInvalidOrFailed)
			o.log.Errorf("download error", fetchErr, "job", jobID, "url", req.URL)
			return fetchErr
		default:
			_ = conv.Edit(ctx, statusRef, msgGenericError)
			o.log.Errorf("unexpected download failure", fetchErr, "job", jobID, "url", req.URL)
			return fetchErr
		}
	} else {
		info = result.Info
		finalPath = result.Filepath
	}

	if req.CustomTitle != "" && info != nil {
		info.Title = req.CustomTitle
	}
	return o.deliver(ctx, conv, jobID, statusRef, &finalPath, info, audio, req.URL)
}

// deliver hands the artifact to the channel with a metadata caption and a
// throttled upload progress display
func (o *Orchestrator) deliver(ctx context.Context, conv Conversation, jobID string, statusRef MessageRef, path *string, info *model.MediaInfo, audio bool, url string) error {
	fi, err := os.Stat(*path)
	if err != nil {
		_ = conv.Edit(ctx, statusRef, msgArtifactMissing)
		o.log.Errorf("artifact not found", err, "job", jobID)
		return fmt.Errorf("artifact not found for job %s: %w", jobID, err)
	}

	_ = conv.Edit(ctx, statusRef, msgUploading)

	if info == nil {
		info = &model.MediaInfo{OriginalURL: url}
	}
	if info.OriginalURL == "" {
		info.OriginalURL = url
	}

	if audio {
		// The artifact keeps its job-id name on disk; audio files are
		// renamed so the chat shows the track title.
		if renamed, renameErr := renameToTitle(*path, info.DisplayTitle()); renameErr == nil {
			*path = renamed
		}
	}

	onUpload := func(current, total int64) {
		if total <= 0 {
			return
		}
		if !o.throttle.Allow(statusRef.Key() + "-upload") {
			return
		}
		perc := current * 100 / total
		_ = conv.Edit(ctx, statusRef, fmt.Sprintf("Uploading to Telegram...\n\n%d%%", perc))
	}

	var sendErr error
	if audio {
		sendErr = conv.SendAudio(ctx, *path, info.AudioCaption(fi.Size()), info, onUpload)
	} else {
		sendErr = conv.SendVideo(ctx, *path, info.VideoCaption(fi.Size()), info, onUpload)
	}
	if sendErr != nil {
		_ = conv.Edit(ctx, statusRef, msgDeliveryFailed)
		o.log.Errorf("upload failed", sendErr, "job", jobID)
		return fmt.Errorf("deliver artifact: %w", sendErr)
	}

	_ = conv.Delete(ctx, statusRef)
	o.log.Success("upload completed", "job", jobID, "title", info.DisplayTitle())
	return nil
}

// renameToTitle moves an audio artifact to a sanitized title-based filename
func renameToTitle(path, title string) (string, error) {
	safe := model.SanitizeTitle(title)
	newPath := filepath.Join(filepath.Dir(path), safe+filepath.Ext(path))
	if newPath == path {
		return path, nil
	}
	if err := os.Rename(path, newPath); err != nil {
		return "", err
	}
	return newPath, nil
}
