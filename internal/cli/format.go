package cli

import (
	"fmt"
	"io"

	"github.com/posediver/media-picker/internal/media"
)

// FormatSize formats a byte count with a binary unit (B, KB, MB, GB).
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMG"[exp])
}

// Describe returns the one-line detail shown next to a reference: its
// metadata summary when probed, otherwise the file size.
func Describe(ref media.Reference) string {
	if ref.Metadata != nil {
		if s := ref.Metadata.Summary(); s != "" {
			return s
		}
	}
	return FormatSize(ref.Size)
}

// PrintReferences writes one tab-separated line per reference: location,
// kind, source and detail. One-shot commands print this to stdout so the
// output can be piped.
func PrintReferences(w io.Writer, refs []media.Reference) error {
	for _, ref := range refs {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ref.Location, ref.Kind, ref.Source, Describe(ref)); err != nil {
			return err
		}
	}
	return nil
}
