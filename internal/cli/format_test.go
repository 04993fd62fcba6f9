package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/posediver/media-picker/internal/filehandler"
	"github.com/posediver/media-picker/internal/media"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
		{2048 * 1024 * 1024 * 1024, "2048.0 GB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.n); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	plain := media.Reference{Size: 2048}
	if got := Describe(plain); got != "2.0 KB" {
		t.Errorf("Describe() without metadata = %q, want size", got)
	}

	probed := media.Reference{Size: 2048, Metadata: &filehandler.VideoMetadata{Width: 1920, Height: 1080, Duration: 65 * time.Second}}
	if got := Describe(probed); got == "2.0 KB" || got == "" {
		t.Errorf("Describe() with metadata = %q, want summary", got)
	}
}

func TestPrintReferences(t *testing.T) {
	refs := []media.Reference{
		{Location: "/m/a.mov", Kind: media.KindVideo, Source: media.SourceLibrary, Size: 10},
		{Location: "/c/clip.mov", Kind: media.KindVideo, Source: media.SourceCamera, Size: 2048},
	}
	var buf bytes.Buffer
	if err := PrintReferences(&buf, refs); err != nil {
		t.Fatal(err)
	}
	want := "/m/a.mov\tvideo\tlibrary\t10 B\n/c/clip.mov\tvideo\tcamera\t2.0 KB\n"
	if buf.String() != want {
		t.Errorf("PrintReferences() = %q, want %q", buf.String(), want)
	}
}
