package progress

import (
	"strings"
	"testing"

	"github.com/forsyth47/yt-dlp-telegram/internal/model"
)

func TestNewState_Defaults(t *testing.T) {
	v := NewState().Snapshot()

	if v.Status != model.JobStatusStarting {
		t.Errorf("Status = %s, expected starting", v.Status)
	}
	if v.Title != "Video" || v.Ext != "mp4" {
		t.Errorf("Defaults = %s.%s, expected Video.mp4", v.Title, v.Ext)
	}
	if v.ETASec != -1 {
		t.Errorf("ETASec = %d, expected -1", v.ETASec)
	}
}

func TestState_DownloadedIsMonotonic(t *testing.T) {
	s := NewState()

	s.Update(100, 200, 0, -1, "", "")
	s.Update(50, 200, 0, -1, "", "") // stale callback must not move us backwards
	s.Update(150, 200, 0, -1, "", "")

	if v := s.Snapshot(); v.Downloaded != 150 {
		t.Errorf("Downloaded = %d, expected 150", v.Downloaded)
	}
}

func TestState_TotalIsSticky(t *testing.T) {
	s := NewState()

	s.Update(10, 0, 0, -1, "", "")
	if v := s.Snapshot(); v.Total != 0 {
		t.Errorf("Total = %d, expected unknown", v.Total)
	}

	s.Update(20, 500, 0, -1, "", "")
	s.Update(30, 999, 0, -1, "", "")

	if v := s.Snapshot(); v.Total != 500 {
		t.Errorf("Total = %d, expected first known value 500", v.Total)
	}
}

func TestState_TitleAndExtReplaceDefaults(t *testing.T) {
	s := NewState()

	s.Update(1, 0, 0, -1, "Real Title", "webm")
	s.Update(2, 0, 0, -1, "", "")

	v := s.Snapshot()
	if v.Title != "Real Title" || v.Ext != "webm" {
		t.Errorf("Snapshot = %s.%s, expected Real Title.webm", v.Title, v.Ext)
	}
	if v.Status != model.JobStatusDownloading {
		t.Errorf("Status = %s, expected downloading", v.Status)
	}
}

func TestState_Finish(t *testing.T) {
	s := NewState()
	s.Update(1, 2, 0, -1, "", "")
	s.Finish()

	if v := s.Snapshot(); v.Status != model.JobStatusFinished {
		t.Errorf("Status = %s, expected finished", v.Status)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		downloaded int64
		total      int64
		expected   string
	}{
		{50, 200, "25.0%"},
		{200, 200, "100.0%"},
		{0, 200, "0.0%"},
		{50, 0, "N/A"},
		{50, -1, "N/A"},
	}

	for _, test := range tests {
		result := Percent(test.downloaded, test.total)
		if result != test.expected {
			t.Errorf("Percent(%d, %d) = %s, expected %s", test.downloaded, test.total, result, test.expected)
		}
	}
}

func TestRender(t *testing.T) {
	v := View{
		Status:     model.JobStatusDownloading,
		Downloaded: 50,
		Total:      200,
		Speed:      1024,
		ETASec:     30,
		Title:      "Clip",
		Ext:        "mp4",
	}

	text := Render(v)
	for _, want := range []string{"Clip.mp4", "25.0%", "50.00 B / 200.00 B", "1.00 KB/s", "00:30"} {
		if !strings.Contains(text, want) {
			t.Errorf("Render() missing %q in:\n%s", want, text)
		}
	}
}

func TestRender_UnknownFields(t *testing.T) {
	text := Render(View{Title: "Clip", Ext: "mp4", Downloaded: 10})

	// Unknown total, speed and eta all render as N/A instead of failing
	if got := strings.Count(text, "N/A"); got != 4 {
		t.Errorf("Render() produced %d N/A fields, expected 4:\n%s", got, text)
	}
}
