package fetch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/forsyth47/yt-dlp-telegram/internal/model"
	"github.com/forsyth47/yt-dlp-telegram/internal/platform"
)

// How often yt-dlp flushes progress updates to the hook
const progressFrequency = 500 * time.Millisecond

// YTDLP drives downloads through the yt-dlp binary
type YTDLP struct{}

// NewYTDLP creates the yt-dlp backed fetcher. MustInstall is left to the
// caller so tests never touch the network.
func NewYTDLP() *YTDLP {
	return &YTDLP{}
}

// Fetch runs one blocking download. The progress hook is bridged to
// onProgress; when the callback reports an abort the run context is
// cancelled and the callback's error is what unwinds out of here.
func (y *YTDLP) Fetch(ctx context.Context, req Request, onProgress ProgressFunc) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := platform.CreateDirectoryIfNotExists(req.OutputDir); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	dl := ytdlp.New().
		Format(req.Format).
		Output(filepath.Join(req.OutputDir, req.JobID+".%(ext)s")).
		NoPlaylist().
		Retries("3")

	if req.MaxFilesize != "" {
		dl = dl.MaxFileSize(req.MaxFilesize)
	}
	if req.AudioOnly {
		dl = dl.ExtractAudio().
			AudioFormat("mp3").
			EmbedThumbnail().
			EmbedMetadata()
	} else {
		dl = dl.MergeOutputFormat("mp4")
	}

	var abortMu sync.Mutex
	var abortErr error

	dl.ProgressFunc(progressFrequency, func(update ytdlp.ProgressUpdate) {
		if err := onProgress(snapshotFrom(&update)); err != nil {
			abortMu.Lock()
			if abortErr == nil {
				abortErr = err
			}
			abortMu.Unlock()
			cancel()
		}
	})

	res, runErr := dl.Run(ctx, req.URL)

	abortMu.Lock()
	aborted := abortErr
	abortMu.Unlock()
	if aborted != nil {
		return nil, aborted
	}
	if runErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, runErr)
	}

	info := extractedMediaInfo(res, req.URL)
	path, err := platform.FindJobArtifact(req.OutputDir, req.JobID)
	if err != nil {
		return nil, fmt.Errorf("locate artifact: %w", err)
	}
	return &Result{Filepath: path, Info: info}, nil
}

// Probe extracts metadata without downloading and returns the distinct
// available video heights, descending
func (y *YTDLP) Probe(ctx context.Context, url string) ([]int, error) {
	res, err := ytdlp.New().SkipDownload().NoPlaylist().Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	infos, err := res.GetExtractedInfo()
	if err != nil || len(infos) == 0 {
		return nil, fmt.Errorf("%w: no format information", ErrUnavailable)
	}

	seen := make(map[int]struct{})
	var heights []int
	for _, f := range infos[0].Formats {
		if f.VCodec == nil || *f.VCodec == "none" || f.Height == nil {
			continue
		}
		h := int(*f.Height)
		if h <= 0 {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		heights = append(heights, h)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(heights)))
	return heights, nil
}

// snapshotFrom converts a yt-dlp progress update into the callback payload
func snapshotFrom(update *ytdlp.ProgressUpdate) Snapshot {
	snap := Snapshot{
		Downloaded: int64(update.DownloadedBytes),
		Total:      int64(update.TotalBytes),
		ETASec:     -1,
		Filename:   update.Filename,
	}

	if !update.Started.IsZero() {
		if elapsed := time.Since(update.Started); elapsed > 0 {
			snap.Speed = float64(update.DownloadedBytes) / elapsed.Seconds()
		}
	}
	if eta := update.ETA(); eta > 0 {
		snap.ETASec = int(eta.Seconds())
	}
	if update.Info != nil {
		snap.Info = mediaInfoFrom(update.Info, "")
	}
	return snap
}

// extractedMediaInfo builds the final metadata snapshot from a run result
func extractedMediaInfo(res *ytdlp.Result, url string) *model.MediaInfo {
	if res == nil {
		return &model.MediaInfo{OriginalURL: url}
	}
	infos, err := res.GetExtractedInfo()
	if err != nil || len(infos) == 0 {
		return &model.MediaInfo{OriginalURL: url}
	}
	return mediaInfoFrom(infos[0], url)
}

func mediaInfoFrom(info *ytdlp.ExtractedInfo, fallbackURL string) *model.MediaInfo {
	mi := &model.MediaInfo{OriginalURL: fallbackURL}
	if info == nil {
		return mi
	}

	mi.Title = strDeref(info.Title)
	mi.Ext = info.Extension
	mi.Resolution = strDeref(info.Resolution)
	mi.Width = intDeref(info.Width)
	mi.Height = intDeref(info.Height)
	mi.VCodec = strDeref(info.VCodec)
	mi.ACodec = strDeref(info.ACodec)
	mi.Uploader = strDeref(info.Uploader)
	if info.FPS != nil {
		mi.FPS = *info.FPS
	}
	if info.Duration != nil {
		mi.DurationSec = int(*info.Duration)
	}
	if u := strDeref(info.WebpageURL); u != "" {
		mi.OriginalURL = u
	}
	return mi
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intDeref(f *float64) int {
	if f == nil {
		return 0
	}
	return int(*f)
}
