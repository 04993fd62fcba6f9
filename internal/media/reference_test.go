package media

import (
	"testing"

	"github.com/posediver/media-picker/internal/filehandler"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"video", KindVideo, false},
		{"VIDEO", KindVideo, false},
		{" photo ", KindPhoto, false},
		{"image", KindPhoto, false},
		{"audio", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKindMatches(t *testing.T) {
	tests := []struct {
		kind Kind
		path string
		want bool
	}{
		{KindVideo, "/clips/dive.mov", true},
		{KindVideo, "/clips/DIVE.MP4", true},
		{KindVideo, "/clips/board.jpg", false},
		{KindPhoto, "/clips/board.jpg", true},
		{KindPhoto, "/clips/board.HEIC", true},
		{KindPhoto, "/clips/dive.mov", false},
		{Kind("audio"), "/clips/dive.mov", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+tt.path, func(t *testing.T) {
			if got := tt.kind.Matches(tt.path); got != tt.want {
				t.Errorf("%s.Matches(%q) = %v, want %v", tt.kind, tt.path, got, tt.want)
			}
		})
	}
}

func TestNewReferenceAssignsUniqueIDs(t *testing.T) {
	loc := filehandler.Location{Path: "/clips/dive.mov", MIMEType: "video/quicktime", Size: 42}

	a := NewReference(KindVideo, SourceCamera, loc)
	b := NewReference(KindVideo, SourceCamera, loc)

	if a.ID == "" || b.ID == "" {
		t.Fatal("expected non-empty IDs")
	}
	if a.ID == b.ID {
		t.Errorf("expected distinct IDs, both were %q", a.ID)
	}
	if a.Location != loc.Path || a.MIMEType != loc.MIMEType || a.Size != loc.Size {
		t.Errorf("reference did not copy location fields: %+v", a)
	}
	if a.Name() != "dive.mov" {
		t.Errorf("Name() = %q, want %q", a.Name(), "dive.mov")
	}
}
