package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/domain"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/logging"
)

const (
	// TimestampLayout names each run directory.
	TimestampLayout = "2006-01-02_15-04-05"
	dateLayout      = "2006-01-02"

	DefaultHistoryDir   = "reports_history"
	DefaultArtifactName = "failure_analysis_report.json"

	lockFileName   = ".lock"
	maxDirAttempts = 1000
)

// Store keeps one JSON artifact per run under <Dir>/<timestamp>/<FileName>.
// Existing run directories are never written to again.
type Store struct {
	Dir      string
	FileName string
	log      *slog.Logger
}

func NewStore(dir, fileName string) *Store {
	if dir == "" {
		dir = DefaultHistoryDir
	}
	if fileName == "" {
		fileName = DefaultArtifactName
	}
	return &Store{Dir: dir, FileName: fileName, log: logging.New("report_store")}
}

// ArtifactName swaps the extension of the configured report file for .json.
func ArtifactName(outputReportFile string) string {
	base := filepath.Base(strings.TrimSpace(outputReportFile))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return DefaultArtifactName
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}

// Save writes r into a fresh timestamped directory and returns the artifact path.
// Failures come back as *domain.PersistenceError.
func (s *Store) Save(r *domain.Report, now time.Time) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", &domain.PersistenceError{Path: s.Dir, Err: err}
	}

	lock := flock.New(filepath.Join(s.Dir, lockFileName))
	if err := lock.Lock(); err != nil {
		return "", &domain.PersistenceError{Path: s.Dir, Err: fmt.Errorf("lock history dir: %w", err)}
	}
	defer func() { _ = lock.Unlock() }()

	runDir, err := s.reserveDir(now)
	if err != nil {
		return "", &domain.PersistenceError{Path: s.Dir, Err: err}
	}

	data, err := Encode(r)
	if err != nil {
		_ = os.RemoveAll(runDir)
		return "", &domain.PersistenceError{Path: runDir, Err: err}
	}

	path := filepath.Join(runDir, s.FileName)
	if err := writeAtomic(path, data); err != nil {
		// a run dir without its artifact would still be listed
		_ = os.RemoveAll(runDir)
		return "", &domain.PersistenceError{Path: path, Err: err}
	}

	s.logger().Info("report written", "path", path, "size", humanize.Bytes(uint64(len(data))), "groups", len(r.Groups))
	return path, nil
}

// Encode renders r as indented JSON without HTML escaping.
func Encode(r *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Store) reserveDir(now time.Time) (string, error) {
	base := now.Format(TimestampLayout)
	for i := 1; i <= maxDirAttempts; i++ {
		name := base
		if i > 1 {
			name = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.Dir, name)
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("no free run directory for %s", base)
}

func (s *Store) logger() *slog.Logger {
	if s.log == nil {
		s.log = logging.New("report_store")
	}
	return s.log
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// List returns report ids, newest first. A missing history dir yields none.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	ids := []string{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, ok := reportDate(e.Name(), time.UTC); !ok {
			continue
		}
		ids = append(ids, e.Name())
	}
	sort.Slice(ids, func(i, j int) bool { return newer(ids[i], ids[j]) })
	return ids, nil
}

// newer orders ids by timestamp, then by the same-second suffix (_2, _3, ...).
func newer(a, b string) bool {
	ta, tb := a[:len(TimestampLayout)], b[:len(TimestampLayout)]
	if ta != tb {
		return ta > tb
	}
	return suffixNum(a) > suffixNum(b)
}

func suffixNum(id string) int {
	rest := strings.TrimPrefix(id[len(TimestampLayout):], "_")
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 1
	}
	return n
}

// Since returns ids whose date is on or after now minus days.
func (s *Store) Since(days int, now time.Time) ([]string, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	start := now.AddDate(0, 0, -days)

	out := []string{}
	for _, id := range all {
		d, ok := reportDate(id, now.Location())
		if ok && !d.Before(start) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *Store) LoadRaw(id string) ([]byte, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filepath.Join(s.Dir, id, s.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read report %q: %w", id, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, fmt.Errorf("read report %q: file is empty", id)
	}
	return b, nil
}

func (s *Store) Load(id string) (*domain.Report, error) {
	b, err := s.LoadRaw(id)
	if err != nil {
		return nil, err
	}
	var r domain.Report
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decode report %q: %w", id, err)
	}
	return &r, nil
}

// ValidateID rejects ids that could escape the history directory.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" ||
		strings.Contains(id, "..") ||
		strings.ContainsAny(id, `/\`) {
		return domain.ErrInvalidReportID
	}
	return nil
}

func reportDate(id string, loc *time.Location) (time.Time, bool) {
	if len(id) < len(TimestampLayout) {
		return time.Time{}, false
	}
	if _, err := time.Parse(TimestampLayout, id[:len(TimestampLayout)]); err != nil {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(dateLayout, id[:len(dateLayout)], loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
