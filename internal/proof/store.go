package proof

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Store persists proof-of-payment files and returns a publicly reachable URL.
type Store interface {
	Save(ctx context.Context, orderID, originalName string, r io.Reader) (string, error)
}

// DiskStore writes files under a local directory served as /uploads.
// baseURL prefixes returned URLs, e.g. "https://files.stash.example".
type DiskStore struct {
	dir     string
	baseURL string
	logger  *log.Logger
	now     func() time.Time
}

func NewDiskStore(dir, baseURL string, logger *log.Logger) *DiskStore {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &DiskStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
		now:     time.Now,
	}
}

// Save stores the file under a name derived from the order id, the current
// timestamp and a sanitized version of the original filename, and returns
// its public URL. Re-uploading for the same order overwrites nothing: each
// upload gets a fresh timestamped name.
func (s *DiskStore) Save(_ context.Context, orderID, originalName string, r io.Reader) (string, error) {
	name := ProofFileName(orderID, originalName, s.now())

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create proof dir: %w", err)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create proof file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write proof file: %w", err)
	}

	url := s.baseURL + "/uploads/" + name
	s.logger.Printf("proof store: saved order=%s file=%s", orderID, name)
	return url, nil
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// ProofFileName derives the stored filename: <orderID>-<unix-ms>-<base><ext>
// where base is the original name lower-cased with non-alphanumerics
// collapsed to dashes and the extension is kept as-is.
func ProofFileName(orderID, originalName string, now time.Time) string {
	if originalName == "" {
		originalName = "proof"
	}
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(originalName, ext)
	base = strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(base), "-"), "-")
	if base == "" {
		base = "proof"
	}
	return fmt.Sprintf("%s-%d-%s%s", orderID, now.UnixMilli(), base, ext)
}
