package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/sleroq/keep-to-obsidian/internal/domain/keep"
	"github.com/sleroq/keep-to-obsidian/internal/domain/settings"
	"github.com/sleroq/keep-to-obsidian/internal/infra/takeout"
)

var ErrImportRunning = errors.New("an import is already running")

type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Importer runs one batch at a time. Import runs on one goroutine while
// Stop, State and LatestProgress may be called from any other.
type Importer struct {
	mat      Materializer
	settings settings.Settings
	logger   *zap.Logger

	stop atomic.Bool

	mu      sync.Mutex
	state   State
	total   int
	success int
	skip    int
	fail    int
	log     []LogEntry
	cursor  int
}

func New(storage Storage, s settings.Settings, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		mat:      NewMaterializer(storage),
		settings: s.Clone(),
		logger:   logger,
	}
}

// Import processes files strictly in order. Per-file failures are recorded
// as results and never returned. The returned error is ErrImportRunning on
// re-entry or the context error when ctx ended the batch early.
func (i *Importer) Import(ctx context.Context, files []takeout.File) error {
	i.mu.Lock()
	if i.state == StateRunning {
		i.mu.Unlock()
		return ErrImportRunning
	}
	i.state = StateRunning
	i.total = len(files)
	i.success, i.skip, i.fail = 0, 0, 0
	i.log = nil
	i.cursor = 0
	i.stop.Store(false)
	i.mu.Unlock()

	i.logger.Info("import started", zap.Int("files", len(files)))

	folders := newFolderCache(i.mat, i.settings)
	for _, f := range files {
		if i.stop.Load() {
			i.finish(StateCancelled)
			return nil
		}
		if err := ctx.Err(); err != nil {
			i.finish(StateCancelled)
			return err
		}
		i.record(i.importFile(ctx, f, folders))
	}

	i.finish(StateCompleted)
	return nil
}

// Stop asks the running batch to end before its next file.
func (i *Importer) Stop() {
	i.stop.Store(true)
}

func (i *Importer) TotalImports() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.total
}

func (i *Importer) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// LatestProgress returns the counters and the log entries added since the
// previous call.
func (i *Importer) LatestProgress() Progress {
	i.mu.Lock()
	defer i.mu.Unlock()

	var entries []LogEntry
	if i.cursor < len(i.log) {
		entries = make([]LogEntry, len(i.log)-i.cursor)
		copy(entries, i.log[i.cursor:])
		i.cursor = len(i.log)
	}
	return Progress{
		Total:      i.total,
		Success:    i.success,
		Skip:       i.skip,
		Fail:       i.fail,
		NewEntries: entries,
	}
}

func (i *Importer) finish(state State) {
	i.mu.Lock()
	i.state = state
	success, skip, fail := i.success, i.skip, i.fail
	i.mu.Unlock()

	i.logger.Info("import finished",
		zap.Stringer("state", state),
		zap.Int("success", success),
		zap.Int("skipped", skip),
		zap.Int("failed", fail),
	)
}

func (i *Importer) record(res Result) {
	i.mu.Lock()
	switch res.Outcome {
	case OutcomeImported, OutcomeFormatWarning:
		i.success++
	case OutcomeUserIgnored:
		i.skip++
	default:
		i.fail++
	}
	i.log = append(i.log, res.logEntry())
	i.mu.Unlock()

	fields := []zap.Field{
		zap.String("file", res.SourceName),
		zap.Stringer("outcome", res.Outcome),
	}
	if res.DestPath != "" {
		fields = append(fields, zap.String("dest", res.DestPath))
	}
	if res.Reason != IgnoreNone {
		fields = append(fields, zap.Stringer("reason", res.Reason))
	}
	switch res.Outcome {
	case OutcomeCreationError, OutcomeContentError:
		i.logger.Error(res.Details, append(fields, zap.Error(res.Err))...)
	case OutcomeFormatWarning:
		i.logger.Warn("imported unsupported file", fields...)
	default:
		i.logger.Debug("file processed", fields...)
	}
}

func (i *Importer) importFile(ctx context.Context, f takeout.File, folders *folderCache) Result {
	kind := Classify(f.Name, f.MediaType)
	switch kind {
	case KindNote:
		return i.importNote(ctx, f, folders)
	case KindMarkdown, KindSupportedBinary:
		return i.importBinary(ctx, f, folders.assets)
	case KindHTML:
		if i.settings.ImportUnsupported && i.settings.ImportHTML {
			return i.importUnsupported(ctx, f, folders)
		}
		return skippedUnsupported(f)
	case KindUnsupported:
		if i.settings.ImportUnsupported {
			return i.importUnsupported(ctx, f, folders)
		}
		return skippedUnsupported(f)
	default:
		return Result{
			SourceName: f.Name,
			Outcome:    OutcomeContentError,
			Details:    fmt.Sprintf("unknown file kind %s", kind),
		}
	}
}

func (i *Importer) importNote(ctx context.Context, f takeout.File, folders *folderCache) Result {
	res := Result{SourceName: f.Name}

	data, err := f.ReadBytes()
	if err != nil {
		res.Outcome = OutcomeContentError
		res.Details = "Something went wrong reading the file."
		res.Err = err
		return res
	}

	note, err := keep.ParseNote(data)
	if err != nil {
		res.Outcome = OutcomeContentError
		res.Err = err
		if errors.Is(err, keep.ErrMalformedJSON) {
			res.Details = "JSON file appears to be malformed and can't be imported."
		} else {
			res.Details = "JSON file doesn't match the expected Google Keep format."
		}
		return res
	}

	conv := Convert(note, f.Name, i.settings)
	if conv.Ignored != IgnoreNone {
		res.Outcome = OutcomeUserIgnored
		res.Reason = conv.Ignored
		res.Details = fmt.Sprintf("%s note skipped. You can change this behaviour in the settings.", capitalize(conv.Ignored.String()))
		return res
	}

	folder, err := folders.notes.get(ctx)
	if err != nil {
		return folderFailure(res, folders.notes.path, err)
	}

	base := joinVaultPath(folder.Path, conv.Title)
	h, err := i.mat.CreateUniqueMarkdownFile(ctx, base)
	if err != nil {
		res.Outcome = OutcomeCreationError
		res.Details = fmt.Sprintf("Error creating equivalent file in the vault as %s.md", base)
		res.Err = err
		return res
	}
	res.DestPath = h.Path

	storage := i.mat.storage
	for _, section := range conv.Sections {
		if err := storage.AppendToFile(ctx, h, section.Text); err != nil {
			return contentFailure(res, section.Step, err)
		}
	}
	if conv.Times != nil {
		if err := storage.SetFileTimestamps(ctx, h, conv.Times.Created, conv.Times.Modified); err != nil {
			return contentFailure(res, stepTimestamps, err)
		}
	}

	res.Outcome = OutcomeImported
	return res
}

func (i *Importer) importBinary(ctx context.Context, f takeout.File, folder *lazyFolder) Result {
	res := Result{SourceName: f.Name}

	dir, err := folder.get(ctx)
	if err != nil {
		return folderFailure(res, folder.path, err)
	}

	data, err := f.ReadBytes()
	if err != nil {
		res.Outcome = OutcomeCreationError
		res.Details = "Something went wrong reading the file."
		res.Err = err
		return res
	}

	name := SanitizeName(f.Name, i.settings.CharMaps())
	if name == "" {
		name = untitledNote + FileExtension(f.Name)
	}
	dest := joinVaultPath(dir.Path, name)
	h, err := i.mat.CreateBinaryFile(ctx, dest, data)
	if err != nil {
		res.Outcome = OutcomeCreationError
		res.Details = "Error creating file in the vault."
		res.DestPath = dest
		res.Err = err
		return res
	}

	res.Outcome = OutcomeImported
	res.DestPath = h.Path
	res.Details = humanize.Bytes(uint64(len(data)))
	return res
}

func (i *Importer) importUnsupported(ctx context.Context, f takeout.File, folders *folderCache) Result {
	res := i.importBinary(ctx, f, folders.unsupported)
	if res.Outcome != OutcomeImported {
		return res
	}
	res.Outcome = OutcomeFormatWarning
	res.Details = fmt.Sprintf("This file type isn't supported by Obsidian. The file has been imported into '%s'. "+
		"Open that folder outside of Obsidian to convert or delete those files. Any links to those files in notes will also need to be updated.",
		folders.unsupported.path)
	return res
}

func skippedUnsupported(f takeout.File) Result {
	return Result{
		SourceName: f.Name,
		Outcome:    OutcomeUserIgnored,
		Reason:     IgnoreUnsupported,
		Details:    "This file type isn't supported by Obsidian and has been skipped. You can change this behaviour in the settings.",
	}
}

func folderFailure(res Result, path string, err error) Result {
	res.Outcome = OutcomeCreationError
	res.Details = fmt.Sprintf("There was an error creating folder '%s'.", path)
	res.Err = err
	return res
}

func contentFailure(res Result, step string, err error) Result {
	res.Outcome = OutcomeContentError
	res.Details = fmt.Sprintf("Error %s to the new file.", step)
	res.Err = err
	return res
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// lazyFolder creates its folder on first use. A failed attempt is not
// remembered, so the next file tries again.
type lazyFolder struct {
	mat    Materializer
	path   string
	folder *Folder
}

func (l *lazyFolder) get(ctx context.Context) (Folder, error) {
	if l.folder != nil {
		return *l.folder, nil
	}
	f, err := l.mat.GetOrCreateFolder(ctx, l.path)
	if err != nil {
		return Folder{}, err
	}
	l.folder = &f
	return f, nil
}

type folderCache struct {
	notes       *lazyFolder
	assets      *lazyFolder
	unsupported *lazyFolder
}

func newFolderCache(mat Materializer, s settings.Settings) *folderCache {
	maps := s.CharMaps()
	return &folderCache{
		notes:       &lazyFolder{mat: mat, path: SanitizePath(s.FolderNames.Notes, maps)},
		assets:      &lazyFolder{mat: mat, path: SanitizePath(s.FolderNames.Assets, maps)},
		unsupported: &lazyFolder{mat: mat, path: SanitizePath(s.FolderNames.UnsupportedAssets, maps)},
	}
}
