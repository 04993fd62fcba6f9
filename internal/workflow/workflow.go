// Package workflow holds the state of a media-selection session. It presents
// the camera or library picker on request, turns what the user picked into
// media references, and publishes every change to registered observers.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/posediver/media-picker/internal/filehandler"
	"github.com/posediver/media-picker/internal/media"
	"github.com/posediver/media-picker/internal/picker"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// CaptureRequest asks for a live recording.
type CaptureRequest struct {
	Kind          media.Kind
	AllowsEditing bool
}

// SelectionRequest asks for up to Limit items from the library.
type SelectionRequest struct {
	Kind  media.Kind
	Limit int
}

// Snapshot is an immutable copy of the workflow state.
type Snapshot struct {
	Results         []media.Reference
	Presented       bool
	PresentedSource media.Source
}

// Notification is delivered to observers after every change. Err is set
// when the change was a failed request.
type Notification struct {
	Snapshot Snapshot
	Err      error
}

// Observer receives notifications synchronously, in the order changes were
// made. It may read from the workflow but must not call its mutators.
type Observer func(Notification)

// ProbeFunc attaches metadata to picked files. The result is index-aligned
// with paths and may hold nil entries.
type ProbeFunc func(ctx context.Context, paths []string) []filehandler.MediaMetadata

// Option configures a Workflow.
type Option func(*Workflow)

// WithFs sets the filesystem used to validate picked locations.
func WithFs(fsys afero.Fs) Option {
	return func(w *Workflow) { w.fs = fsys }
}

// WithProbe replaces metadata probing. nil disables it.
func WithProbe(probe ProbeFunc) Option {
	return func(w *Workflow) { w.probe = probe }
}

// Workflow mediates between a presentation layer and the pickers.
type Workflow struct {
	camera  picker.Camera
	library picker.Library
	fs      afero.Fs
	probe   ProbeFunc

	// notifyMu keeps mutation and delivery in the same order.
	notifyMu sync.Mutex

	mu              sync.Mutex
	results         []media.Reference
	seen            map[string]struct{}
	presented       bool
	presentedSource media.Source
	observers       []subscription
	nextObserver    int
}

type subscription struct {
	id int
	fn Observer
}

// New returns an empty workflow backed by camera and library.
func New(camera picker.Camera, library picker.Library, opts ...Option) *Workflow {
	w := &Workflow{
		camera:  camera,
		library: library,
		fs:      afero.NewOsFs(),
		probe:   filehandler.ProbeAll,
		seen:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Subscribe registers obs and returns a func that removes it.
func (w *Workflow) Subscribe(obs Observer) (unsubscribe func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextObserver++
	id := w.nextObserver
	w.observers = append(w.observers, subscription{id: id, fn: obs})

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			for i, s := range w.observers {
				if s.id == id {
					w.observers = append(w.observers[:i:i], w.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// CurrentResults returns a copy of the accumulated references in display
// order.
func (w *Workflow) CurrentResults() []media.Reference {
	w.mu.Lock()
	defer w.mu.Unlock()
	return cloneResults(w.results)
}

// Snapshot returns the current state.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// RequestCapture presents the camera. The returned token resolves when
// recording finishes. Availability and permission are checked first; a
// failure is returned and published once as an error notification.
func (w *Workflow) RequestCapture(ctx context.Context, req CaptureRequest) (*Pending, error) {
	kind := req.Kind
	if kind == "" {
		kind = media.KindVideo
	}
	if kind != media.KindVideo {
		return nil, fmt.Errorf("%w: camera captures video, not %s", ErrUnsupportedKind, kind)
	}

	p, err := w.present(ctx, media.SourceCamera, w.camera.Check)
	if err != nil {
		return nil, err
	}

	go func() {
		path, err := w.camera.Capture(ctx, picker.CaptureRequest{AllowsEditing: req.AllowsEditing})
		var paths []string
		if path != "" {
			paths = []string{path}
		}
		w.complete(ctx, p, kind, 1, paths, err)
	}()
	return p, nil
}

// RequestSelection presents the library browser limited to req.Limit items
// of req.Kind. Items beyond the limit are discarded.
func (w *Workflow) RequestSelection(ctx context.Context, req SelectionRequest) (*Pending, error) {
	switch req.Kind {
	case media.KindVideo, media.KindPhoto:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, req.Kind)
	}
	if req.Limit < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, req.Limit)
	}

	p, err := w.present(ctx, media.SourceLibrary, w.library.Check)
	if err != nil {
		return nil, err
	}

	go func() {
		paths, err := w.library.Select(ctx, picker.SelectionRequest{Kind: req.Kind, Limit: req.Limit})
		w.complete(ctx, p, req.Kind, req.Limit, paths, err)
	}()
	return p, nil
}

// ClearAll removes every reference. Observers are only notified when there
// was something to remove.
func (w *Workflow) ClearAll() {
	w.update(func() bool {
		if len(w.results) == 0 {
			return false
		}
		w.results = nil
		w.seen = make(map[string]struct{})
		return true
	}, nil)
	log.Debug().Msg("Workflow cleared")
}

// present claims the single picker slot, runs the availability check and
// publishes the presented state.
func (w *Workflow) present(ctx context.Context, source media.Source, check func(context.Context) error) (*Pending, error) {
	w.mu.Lock()
	if w.presented {
		w.mu.Unlock()
		log.Debug().Str("source", string(source)).Msg("Picker request rejected, another picker is presented")
		return nil, ErrBusy
	}
	w.presented = true
	w.presentedSource = source
	w.mu.Unlock()

	if err := check(ctx); err != nil {
		log.Warn().Err(err).Str("source", string(source)).Msg("Picker unavailable")
		w.update(w.dismissLocked, err)
		return nil, err
	}

	p := newPending(source)
	log.Info().Str("source", string(source)).Str("request", p.ID()).Msg("Presenting picker")
	w.update(func() bool { return true }, nil)
	return p, nil
}

// complete turns a picker response into state. Every path ends with the
// picker dismissed and the token resolved.
func (w *Workflow) complete(ctx context.Context, p *Pending, kind media.Kind, limit int, paths []string, pickErr error) {
	result := media.SelectionResult{Source: p.source}

	if pickErr != nil {
		if errors.Is(pickErr, picker.ErrCanceled) {
			log.Info().Str("source", string(p.source)).Msg("Picker canceled")
			result.Canceled = true
			w.update(w.dismissLocked, nil)
			p.resolve(result, nil)
			return
		}
		log.Error().Err(pickErr).Str("source", string(p.source)).Msg("Picker failed")
		w.update(w.dismissLocked, pickErr)
		p.resolve(result, pickErr)
		return
	}

	if len(paths) == 0 {
		result.Canceled = true
		w.update(w.dismissLocked, nil)
		p.resolve(result, nil)
		return
	}

	refs, err := w.buildReferences(kind, p.source, limit, paths)
	if err != nil {
		w.update(w.dismissLocked, err)
		p.resolve(result, err)
		return
	}
	w.attachMetadata(ctx, refs)

	var appended []media.Reference
	w.update(func() bool {
		for _, ref := range refs {
			key := filehandler.NormalizePath(ref.Location)
			if _, dup := w.seen[key]; dup {
				continue
			}
			w.seen[key] = struct{}{}
			w.results = append(w.results, ref)
			appended = append(appended, ref)
		}
		w.dismissLocked()
		return true
	}, nil)

	result.References = appended
	log.Info().
		Str("source", string(p.source)).
		Str("request", p.ID()).
		Int("picked", len(paths)).
		Int("appended", result.Count()).
		Msg("Picker completed")

	p.resolve(result, nil)
}

// buildReferences validates paths in picker order, dropping files that do
// not resolve, do not match kind or repeat. At most limit references are
// returned. ErrInvalidMedia is returned when no path resolved at all.
func (w *Workflow) buildReferences(kind media.Kind, source media.Source, limit int, paths []string) ([]media.Reference, error) {
	var (
		refs     []media.Reference
		firstErr error
		resolved int
	)
	batch := make(map[string]struct{}, len(paths))

	for _, path := range paths {
		loc, err := filehandler.ResolveLocation(w.fs, path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Dropping unusable pick")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		resolved++

		if !kind.Matches(loc.Path) {
			log.Warn().Str("path", loc.Path).Str("kind", string(kind)).Msg("Dropping pick of the wrong kind")
			continue
		}

		key := filehandler.NormalizePath(loc.Path)
		if _, dup := batch[key]; dup {
			continue
		}
		if w.isSeen(key) {
			log.Debug().Str("path", loc.Path).Msg("Dropping pick already in results")
			continue
		}
		batch[key] = struct{}{}

		if len(refs) == limit {
			log.Warn().Int("limit", limit).Int("picked", len(paths)).Msg("Picker returned more than the limit, discarding extra")
			break
		}
		refs = append(refs, media.NewReference(kind, source, loc))
	}

	if resolved == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMedia, firstErr)
	}
	return refs, nil
}

func (w *Workflow) attachMetadata(ctx context.Context, refs []media.Reference) {
	if w.probe == nil || len(refs) == 0 {
		return
	}
	paths := make([]string, len(refs))
	for i, r := range refs {
		paths[i] = r.Location
	}
	metas := w.probe(ctx, paths)
	for i := range refs {
		if i < len(metas) {
			refs[i].Metadata = metas[i]
		}
	}
}

func (w *Workflow) isSeen(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.seen[key]
	return ok
}

// dismissLocked clears the presented flag. Callers hold mu.
func (w *Workflow) dismissLocked() bool {
	w.presented = false
	w.presentedSource = ""
	return true
}

// update applies mutate under mu and, if it reports a change or err is set,
// delivers one notification to every observer. Delivery happens outside mu
// so observers can read the workflow.
func (w *Workflow) update(mutate func() bool, err error) {
	w.notifyMu.Lock()
	defer w.notifyMu.Unlock()

	w.mu.Lock()
	changed := mutate()
	snap := w.snapshotLocked()
	observers := make([]Observer, len(w.observers))
	for i, s := range w.observers {
		observers[i] = s.fn
	}
	w.mu.Unlock()

	if !changed && err == nil {
		return
	}
	n := Notification{Snapshot: snap, Err: err}
	for _, obs := range observers {
		obs(n)
	}
}

func (w *Workflow) snapshotLocked() Snapshot {
	return Snapshot{
		Results:         cloneResults(w.results),
		Presented:       w.presented,
		PresentedSource: w.presentedSource,
	}
}

func cloneResults(refs []media.Reference) []media.Reference {
	if len(refs) == 0 {
		return []media.Reference{}
	}
	out := make([]media.Reference, len(refs))
	copy(out, refs)
	return out
}
