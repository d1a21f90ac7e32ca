package mirror

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/graceworks/concord/core"
	"github.com/graceworks/concord/objectstore"
	"github.com/graceworks/concord/translation"
)

// ObjectStore is the subset of the store client the sync manager uses.
type ObjectStore interface {
	TranslationKey(code string) string
	ManifestKey() string
	Probe(ctx context.Context, key string) (*objectstore.ObjectInfo, error)
	Fetch(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}

// Action describes what the sync decided for one translation.
type Action string

const (
	// ActionUpToDate means both manifests already record the local content.
	ActionUpToDate Action = "up_to_date"
	// ActionPatchedManifest means the local cache was current but the remote
	// manifest disagreed; its entry was fixed without re-uploading.
	ActionPatchedManifest Action = "manifest_patched"
	// ActionAdoptedRemote means the remote manifest already records the local
	// content; its entry was adopted into the local cache.
	ActionAdoptedRemote Action = "adopted_remote"
	// ActionAdoptedObject means the stored object itself already matches the
	// local content; its identity was adopted into both manifests.
	ActionAdoptedObject Action = "adopted_object"
	// ActionUploaded means the document was transferred to the store.
	ActionUploaded Action = "uploaded"
	// ActionFailed means this translation could not be synced.
	ActionFailed Action = "failed"
	// ActionSkipped means the run was aborted before this translation ran.
	ActionSkipped Action = "skipped"
)

// Result is the outcome of syncing one translation.
type Result struct {
	Translation string
	Action      Action
	Err         error
}

// Summary aggregates a sync run.
type Summary struct {
	Uploaded int
	UpToDate int
	Adopted  int
	Patched  int
	Failed   int
	Skipped  int
	Aborted  bool
	Results  []Result
}

// Config holds configuration for a sync run.
type Config struct {
	// ManifestPath is the local manifest cache file.
	ManifestPath string

	// Workers bounds how many translations sync concurrently.
	Workers int

	// Force re-uploads every document, bypassing all hash and metadata
	// short-circuits.
	Force bool

	// Translations restricts the run to the given codes. Empty means every
	// document found in the source directory.
	Translations []string

	// ReportInterval is how often to report progress (number of documents).
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults. ManifestPath has no
// default; callers must set it.
func DefaultConfig() *Config {
	workers := runtime.NumCPU()
	if workers > 4 {
		workers = 4
	}
	if workers < 1 {
		workers = 1
	}
	return &Config{
		Workers:        workers,
		ReportInterval: 1,
	}
}

// Manager mirrors local translation documents to the remote object store.
type Manager struct {
	store    ObjectStore
	source   *translation.LocalSource
	config   *Config
	logger   *slog.Logger
	progress io.Writer
}

// Option configures a Manager.
type Option func(*Manager) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithProgressWriter sets where progress output is written (typically
// os.Stderr). Default is io.Discard.
func WithProgressWriter(w io.Writer) Option {
	return func(m *Manager) error {
		if w == nil {
			w = io.Discard
		}
		m.progress = w
		return nil
	}
}

// NewManager creates a sync manager.
func NewManager(store ObjectStore, source *translation.LocalSource, config *Config, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if source == nil {
		return nil, ErrSourceRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.ReportInterval < 1 {
		config.ReportInterval = 1
	}

	m := &Manager{
		store:    store,
		source:   source,
		config:   config,
		logger:   slog.Default(),
		progress: io.Discard,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// outcome is what one worker concluded for one translation. Workers never
// touch the manifests; entries are applied serially after all workers finish.
type outcome struct {
	code         string
	action       Action
	entry        *Entry
	updateLocal  bool
	updateRemote bool
	err          error
}

// Run syncs every locally available translation and persists the manifests
// once afterwards if they changed. Per-document failures are logged and
// skipped; an exhausted storage quota aborts the remaining queue and is
// returned as the run error, after completed entries have been persisted.
func (m *Manager) Run(ctx context.Context) (*Summary, error) {
	local, err := LoadLocal(m.config.ManifestPath)
	if err != nil {
		return nil, err
	}

	remote, err := m.fetchRemoteManifest(ctx)
	if err != nil {
		return nil, err
	}

	codes, err := m.codes()
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		fmt.Fprintf(m.progress, "No translation documents found in %s\n", m.source.Dir())
		return &Summary{}, nil
	}

	fmt.Fprintf(m.progress, "Syncing %d translations (workers: %d, force: %v)\n",
		len(codes), m.config.Workers, m.config.Force)

	pool, err := ants.NewPool(m.config.Workers)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	tracker := NewProgressTracker(m.progress, len(codes), m.config.ReportInterval)
	tracker.Start()

	// Quota exhaustion cancels the remaining queue: every following upload
	// would fail the same way.
	runCtx, abort := context.WithCancel(ctx)
	defer abort()

	outcomes := make([]outcome, len(codes))
	var wg sync.WaitGroup
	for i, code := range codes {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			outcomes[i] = m.syncOne(runCtx, code, local, remote)
			tracker.Increment(1)
			if objectstore.IsQuotaExceeded(outcomes[i].err) {
				abort()
			}
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			outcomes[i] = outcome{code: code, action: ActionFailed, err: fmt.Errorf("submitting %s: %w", code, err)}
		}
	}
	wg.Wait()
	tracker.Finish()

	summary, changed, quotaErr := m.apply(outcomes, local, remote)

	// Persist once, after all work. Completed entries survive even an
	// aborted run so the next one can pick up where this one stopped.
	persistErr := m.persist(ctx, local, remote, changed)

	elapsed := tracker.Elapsed()
	fmt.Fprintf(m.progress, "Sync complete: %d uploaded, %d up to date, %d adopted, %d patched, %d failed, %d skipped in %v\n",
		summary.Uploaded, summary.UpToDate, summary.Adopted, summary.Patched,
		summary.Failed, summary.Skipped, elapsed.Round(time.Millisecond))

	if quotaErr != nil {
		return summary, quotaErr
	}
	return summary, persistErr
}

// codes returns the translations this run covers: the configured subset when
// one is given, otherwise every document in the source directory.
func (m *Manager) codes() ([]string, error) {
	if len(m.config.Translations) == 0 {
		return m.source.List()
	}
	codes := make([]string, 0, len(m.config.Translations))
	for _, code := range m.config.Translations {
		code = core.NormalizeTranslationCode(code)
		if err := core.ValidateTranslationCode(code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// fetchRemoteManifest reads the shared manifest from the store. An absent
// manifest is a first sync and starts empty; transport failures fail the run
// because syncing without the source of truth risks duplicate uploads.
func (m *Manager) fetchRemoteManifest(ctx context.Context) (Manifest, error) {
	data, err := m.store.Fetch(ctx, m.store.ManifestKey())
	switch {
	case err == nil:
		return DecodeManifest(data, m.store.ManifestKey())
	case objectstore.IsNotFound(err):
		return Manifest{}, nil
	default:
		return nil, fmt.Errorf("fetching remote manifest: %w", err)
	}
}

// syncOne evaluates the state machine for one translation. The manifests are
// read-only here; any update is described in the returned outcome.
func (m *Manager) syncOne(ctx context.Context, code string, local, remote Manifest) outcome {
	if err := ctx.Err(); err != nil {
		return outcome{code: code, action: ActionSkipped, err: err}
	}

	path := m.source.Path(code)
	data, err := os.ReadFile(path)
	if err != nil {
		return outcome{code: code, action: ActionFailed, err: fmt.Errorf("reading %s: %w", path, err)}
	}

	sum := sha256.Sum256(data)
	entry := Entry{
		Hash:      hex.EncodeToString(sum[:]),
		Size:      int64(len(data)),
		UpdatedAt: time.Now().UTC(),
	}

	if !m.config.Force {
		if cached, ok := local[code]; ok && cached.Hash == entry.Hash {
			// Known-good locally. The remote manifest is the source of
			// truth; fix its entry when it disagrees, without re-uploading.
			if rem, ok := remote[code]; ok && rem.Hash == entry.Hash {
				return outcome{code: code, action: ActionUpToDate}
			}
			return outcome{code: code, action: ActionPatchedManifest, entry: &entry, updateRemote: true}
		}

		if rem, ok := remote[code]; ok && rem.Hash == entry.Hash {
			// Another host already synced this content; adopt its entry.
			adopted := rem
			return outcome{code: code, action: ActionAdoptedRemote, entry: &adopted, updateLocal: true}
		}

		// Neither manifest knows this content. The object itself may still
		// match, e.g. after a lost manifest; a probe is far cheaper than a
		// re-upload.
		info, err := m.store.Probe(ctx, m.store.TranslationKey(code))
		switch {
		case err == nil:
			if info.Hash == entry.Hash && info.Size == entry.Size {
				return outcome{code: code, action: ActionAdoptedObject, entry: &entry, updateLocal: true, updateRemote: true}
			}
		case objectstore.IsNotFound(err):
			// Nothing stored yet; upload below.
		default:
			return outcome{code: code, action: ActionFailed, err: fmt.Errorf("probing %s: %w", code, err)}
		}
	}

	if err := m.store.Upload(ctx, m.store.TranslationKey(code), data); err != nil {
		return outcome{code: code, action: ActionFailed, err: fmt.Errorf("uploading %s: %w", code, err)}
	}
	return outcome{code: code, action: ActionUploaded, entry: &entry, updateLocal: true, updateRemote: true}
}

// manifestChanges records which manifests a run actually modified, so
// persist only writes what this run touched.
type manifestChanges struct {
	local  bool
	remote bool
}

// apply folds worker outcomes into the manifests and the summary. This is
// the single writer; it runs strictly after all workers have finished.
func (m *Manager) apply(outcomes []outcome, local, remote Manifest) (*Summary, manifestChanges, error) {
	summary := &Summary{Results: make([]Result, 0, len(outcomes))}
	var changed manifestChanges
	var quotaErr error

	for _, res := range outcomes {
		switch {
		case objectstore.IsQuotaExceeded(res.err):
			summary.Aborted = true
			summary.Failed++
			if quotaErr == nil {
				quotaErr = res.err
			}
			m.logger.Error("sync aborted: storage quota exceeded", "translation", res.code, "err", res.err)
		case res.action == ActionSkipped, errors.Is(res.err, context.Canceled):
			res.action = ActionSkipped
			summary.Skipped++
		case res.err != nil:
			summary.Failed++
			m.logger.Error("sync failed for translation", "translation", res.code, "err", res.err)
		case res.action == ActionUploaded:
			summary.Uploaded++
		case res.action == ActionUpToDate:
			summary.UpToDate++
		case res.action == ActionPatchedManifest:
			summary.Patched++
		case res.action == ActionAdoptedRemote, res.action == ActionAdoptedObject:
			summary.Adopted++
		}

		if res.err == nil && res.entry != nil {
			if res.updateLocal {
				local[res.code] = *res.entry
				changed.local = true
			}
			if res.updateRemote {
				remote[res.code] = *res.entry
				changed.remote = true
			}
		}

		summary.Results = append(summary.Results, Result{
			Translation: res.code,
			Action:      res.action,
			Err:         res.err,
		})
	}

	return summary, changed, quotaErr
}

// persist writes whichever manifests this run changed, remote first since it
// is the shared source of truth. A local cache that gets ahead of a failed
// remote write self-heals on the next run via a metadata patch.
func (m *Manager) persist(ctx context.Context, local, remote Manifest, changed manifestChanges) error {
	var errs []error

	if changed.remote {
		data, err := remote.Encode()
		if err != nil {
			errs = append(errs, err)
		} else if err := m.store.Upload(ctx, m.store.ManifestKey(), data); err != nil {
			errs = append(errs, fmt.Errorf("writing remote manifest: %w", err))
		}
	}

	if changed.local {
		if err := local.SaveLocal(m.config.ManifestPath); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
