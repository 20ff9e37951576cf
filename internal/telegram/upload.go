package telegram

import (
	"io"

	"github.com/forsyth47/yt-dlp-telegram/internal/orchestrator"
)

// progressReader counts bytes as the HTTP client drains the upload body,
// feeding the same callback shape the download side uses
type progressReader struct {
	r        io.Reader
	total    int64
	current  int64
	onUpload orchestrator.UploadProgress
}

func newProgressReader(r io.Reader, total int64, onUpload orchestrator.UploadProgress) io.Reader {
	if onUpload == nil {
		return r
	}
	return &progressReader{r: r, total: total, onUpload: onUpload}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.current += int64(n)
		p.onUpload(p.current, p.total)
	}
	return n, err
}
