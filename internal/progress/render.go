package progress

import (
	"fmt"

	"github.com/forsyth47/yt-dlp-telegram/internal/model"
)

const notAvailable = "N/A"

// Percent renders downloaded*100/total with one decimal, or "N/A" when the
// total is unknown. It never divides by zero.
func Percent(downloaded, total int64) string {
	if total <= 0 {
		return notAvailable
	}
	return fmt.Sprintf("%.1f%%", float64(downloaded)*100/float64(total))
}

// Render formats a progress view into the user-facing status message
func Render(v View) string {
	totalStr := notAvailable
	if v.Total > 0 {
		totalStr = model.FormatBytes(v.Total)
	}

	speedStr := notAvailable
	if v.Speed > 0 {
		speedStr = model.FormatBytes(int64(v.Speed)) + "/s"
	}

	etaStr := notAvailable
	if v.ETASec > 0 {
		etaStr = model.FormatDuration(v.ETASec)
	}

	return fmt.Sprintf(
		"Downloading: `%s.%s`\n\n"+
			"💾 Size: %s / %s\n"+
			"📊 Progress: %s\n"+
			"🚀 Speed: %s\n"+
			"⏳ ETA: %s",
		v.Title, v.Ext,
		model.FormatBytes(v.Downloaded), totalStr,
		Percent(v.Downloaded, v.Total),
		speedStr,
		etaStr,
	)
}
