package sops

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sysid/rsenv/internal/configs"
	rserrors "github.com/sysid/rsenv/internal/errors"
	"github.com/sysid/rsenv/internal/fsx"
	logger "github.com/sysid/rsenv/internal/logging"
)

const encSuffix = ".enc"

// defaultWorkers bounds the per-file parallelism of batch operations.
const defaultWorkers = 8

// Bucket categorizes a candidate file's encryption state.
type Bucket int

const (
	// Current: the .enc sibling is newer than the plaintext, or the
	// plaintext is absent.
	Current Bucket = iota
	// Stale: the plaintext is newer than its .enc sibling.
	Stale
	// PendingEncrypt: plaintext without an .enc sibling.
	PendingEncrypt
	// Orphaned: an .enc file whose plaintext is absent and whose name
	// matches no configured encryption pattern.
	Orphaned
)

func (b Bucket) String() string {
	switch b {
	case Current:
		return "current"
	case Stale:
		return "stale"
	case PendingEncrypt:
		return "pending_encrypt"
	default:
		return "orphaned"
	}
}

// FileStatus is one candidate with its bucket.
type FileStatus struct {
	Path   string
	Bucket Bucket
}

// Wrapper drives the external SOPS process over directories of files
// selected by the config's extension and filename rules.
type Wrapper struct {
	FS      fsx.FileSystem
	Cmd     Runner
	Config  *configs.Config
	Log     logger.Logger
	Workers int
}

func NewWrapper(fs fsx.FileSystem, cmd Runner, cfg *configs.Config, log logger.Logger) *Wrapper {
	return &Wrapper{FS: fs, Cmd: cmd, Config: cfg, Log: log, Workers: defaultWorkers}
}

// matchesEnc reports whether a file name matches the encryption rules.
func (w *Wrapper) matchesEnc(name string) bool {
	for _, exact := range w.Config.Sops.FileNamesEnc {
		if name == exact {
			return true
		}
	}
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	for _, e := range w.Config.Sops.FileExtensionsEnc {
		if ext == e {
			return true
		}
	}
	return false
}

// matchesDec reports whether a file name matches the decryption rules.
func (w *Wrapper) matchesDec(name string) bool {
	for _, exact := range w.Config.Sops.FileNamesDec {
		if name == exact {
			return true
		}
	}
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	for _, e := range w.Config.Sops.FileExtensionsDec {
		if ext == e {
			return true
		}
	}
	return false
}

// collect walks dir and partitions files into plaintext candidates and
// encrypted files.
func (w *Wrapper) collect(dir string) (plain, encrypted []string, err error) {
	err = w.FS.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if w.matchesDec(name) {
			encrypted = append(encrypted, path)
			return nil
		}
		if w.matchesEnc(name) {
			plain = append(plain, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(plain)
	sort.Strings(encrypted)
	return plain, encrypted, nil
}

// keyArgs returns the sops key selection flags from config.
func (w *Wrapper) keyArgs() ([]string, error) {
	if w.Config.Sops.AgeKey != "" {
		return []string{"--age", w.Config.Sops.AgeKey}, nil
	}
	if w.Config.Sops.GpgKey != "" {
		return []string{"--pgp", w.Config.Sops.GpgKey}, nil
	}
	return nil, rserrors.ErrNoEncryptionKey
}

// isDotenv reports whether the file takes SOPS dotenv input handling.
func isDotenv(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".env" || ext == ".envrc"
}

// EncryptFile produces path.enc via sops. The plaintext remains.
func (w *Wrapper) EncryptFile(path string) (string, error) {
	keyArgs, err := w.keyArgs()
	if err != nil {
		return "", err
	}
	output := path + encSuffix

	args := append([]string{"-e"}, keyArgs...)
	if isDotenv(path) {
		args = append(args, "--input-type", "dotenv", "--output-type", "dotenv")
	}
	args = append(args, "--output", output, path)

	if err := w.Cmd.Run(args...); err != nil {
		return "", fmt.Errorf("encrypt %s: %w", path, err)
	}
	return output, nil
}

// DecryptFile reverses EncryptFile for an .enc file.
func (w *Wrapper) DecryptFile(path string) (string, error) {
	if !strings.HasSuffix(path, encSuffix) {
		return "", fmt.Errorf("%s: expected %s file", path, encSuffix)
	}
	output := strings.TrimSuffix(path, encSuffix)

	args := []string{"-d"}
	if isDotenv(output) {
		args = append(args, "--input-type", "dotenv", "--output-type", "dotenv")
	}
	args = append(args, "--output", output, path)

	if err := w.Cmd.Run(args...); err != nil {
		return "", fmt.Errorf("decrypt %s: %w", path, err)
	}
	return output, nil
}

// Encrypt encrypts every candidate in dir that has no .enc sibling yet.
// Files are processed in parallel by a bounded pool; per-file failures
// are reported and the batch continues.
func (w *Wrapper) Encrypt(ctx context.Context, dir string) (encrypted []string, failures []error, err error) {
	plain, _, err := w.collect(dir)
	if err != nil {
		return nil, nil, err
	}

	var todo []string
	for _, path := range plain {
		if fsx.LExists(w.FS, path+encSuffix) {
			continue
		}
		todo = append(todo, path)
	}

	encrypted, failures = w.runBatch(ctx, todo, func(path string) (string, error) {
		return w.EncryptFile(path)
	})
	return encrypted, failures, nil
}

// Decrypt decrypts every .enc file in dir, in parallel.
func (w *Wrapper) Decrypt(ctx context.Context, dir string) (decrypted []string, failures []error, err error) {
	_, encFiles, err := w.collect(dir)
	if err != nil {
		return nil, nil, err
	}
	decrypted, failures = w.runBatch(ctx, encFiles, func(path string) (string, error) {
		return w.DecryptFile(path)
	})
	return decrypted, failures, nil
}

// runBatch applies op to each path with bounded parallelism, collecting
// outputs and per-file failures.
func (w *Wrapper) runBatch(ctx context.Context, paths []string, op func(string) (string, error)) ([]string, []error) {
	workers := w.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	var mu sync.Mutex
	var outputs []string
	var failures []error

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			out, err := op(path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return nil
			}
			outputs = append(outputs, out)
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(outputs)
	return outputs, failures
}

// Clean removes plaintext siblings of existing .enc files.
func (w *Wrapper) Clean(dir string) ([]string, error) {
	plain, _, err := w.collect(dir)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, path := range plain {
		if !fsx.LExists(w.FS, path+encSuffix) {
			continue
		}
		if err := w.FS.Remove(path); err != nil {
			return removed, fmt.Errorf("remove plaintext %s: %w", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// Status buckets every candidate in dir.
func (w *Wrapper) Status(dir string) ([]FileStatus, error) {
	plain, encFiles, err := w.collect(dir)
	if err != nil {
		return nil, err
	}

	var statuses []FileStatus
	seen := map[string]bool{}

	for _, path := range plain {
		seen[path] = true
		encPath := path + encSuffix
		encInfo, err := w.FS.Stat(encPath)
		if err != nil {
			statuses = append(statuses, FileStatus{Path: path, Bucket: PendingEncrypt})
			continue
		}
		plainInfo, err := w.FS.Stat(path)
		if err == nil && plainInfo.ModTime().After(encInfo.ModTime()) {
			statuses = append(statuses, FileStatus{Path: path, Bucket: Stale})
			continue
		}
		statuses = append(statuses, FileStatus{Path: path, Bucket: Current})
	}

	for _, encPath := range encFiles {
		plainPath := strings.TrimSuffix(encPath, encSuffix)
		if seen[plainPath] || fsx.LExists(w.FS, plainPath) {
			continue
		}
		// Plaintext absent: current when the name matches the encryption
		// rules (encrypted then cleaned), orphaned otherwise.
		if w.matchesEnc(filepath.Base(plainPath)) {
			statuses = append(statuses, FileStatus{Path: encPath, Bucket: Current})
		} else {
			statuses = append(statuses, FileStatus{Path: encPath, Bucket: Orphaned})
		}
	}

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Path < statuses[j].Path })
	return statuses, nil
}
