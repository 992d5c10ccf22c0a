package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"site-builder/internal/history"
	"site-builder/internal/profile"
	"site-builder/internal/sanitize"
	"site-builder/internal/site"
)

// Layout of a user's directory under the store root.
const (
	ProfileFile = "user-profile.json"
	HistoryFile = "chat-history.json"
	ImagesDir   = "images"
	WebsiteDir  = "website"
)

// Document selects one of the two per-user JSON documents.
type Document int

const (
	ProfileDoc Document = iota
	HistoryDoc
)

// ImageFile is a stored image as seen on disk.
type ImageFile struct {
	Name    string
	ModTime time.Time
}

// FileStore keeps every user's profile, history, images and generated site
// under root/<userID>. It does no locking of its own: callers serialize
// read-modify-write sequences per user.
type FileStore struct {
	root string
}

type userPaths struct {
	dir     string
	profile string
	history string
	images  string
	website string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, storageErr("init", root, err)
	}
	return &FileStore{root: root}, nil
}

// Root returns the directory holding all user directories.
func (s *FileStore) Root() string { return s.root }

func (s *FileStore) paths(userID string) (userPaths, error) {
	id, err := sanitize.UserID(userID)
	if err != nil {
		return userPaths{}, err
	}
	if id != userID {
		return userPaths{}, fmt.Errorf("%w: %q is not in canonical form", sanitize.ErrInvalidUserID, userID)
	}
	dir := filepath.Join(s.root, id)
	return userPaths{
		dir:     dir,
		profile: filepath.Join(dir, ProfileFile),
		history: filepath.Join(dir, HistoryFile),
		images:  filepath.Join(dir, ImagesDir),
		website: filepath.Join(dir, WebsiteDir),
	}, nil
}

// EnsureInitialized creates any missing part of the user's directory with
// canonical defaults. Existing documents are left alone.
func (s *FileStore) EnsureInitialized(userID string) error {
	p, err := s.paths(userID)
	if err != nil {
		return err
	}
	_, err = s.ensure(p)
	return err
}

func (s *FileStore) ensure(p userPaths) (userPaths, error) {
	for _, dir := range []string{p.dir, p.images, p.website} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return p, storageErr("mkdir", dir, err)
		}
	}
	if err := createIfMissing(p.profile, profile.Default()); err != nil {
		return p, err
	}
	if err := createIfMissing(p.history, history.Log{}); err != nil {
		return p, err
	}
	return p, nil
}

func createIfMissing(path string, v any) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return storageErr("stat", path, err)
	}
	return storageErr("create", path, writeJSONAtomic(path, v))
}

func (s *FileStore) prepared(userID string) (userPaths, error) {
	p, err := s.paths(userID)
	if err != nil {
		return p, err
	}
	return s.ensure(p)
}

// LoadProfile reads the user's profile, initializing the user first.
func (s *FileStore) LoadProfile(userID string) (profile.Profile, error) {
	p, err := s.prepared(userID)
	if err != nil {
		return profile.Profile{}, err
	}
	data, err := os.ReadFile(p.profile)
	if err != nil {
		return profile.Profile{}, storageErr("read", p.profile, err)
	}
	var prof profile.Profile
	if err := json.Unmarshal(data, &prof); err != nil {
		return profile.Profile{}, &CorruptDataError{Path: p.profile, Err: err}
	}
	return prof, nil
}

// LoadHistory reads the user's history, initializing the user first.
func (s *FileStore) LoadHistory(userID string) (history.Log, error) {
	p, err := s.prepared(userID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.history)
	if err != nil {
		return nil, storageErr("read", p.history, err)
	}
	var log history.Log
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, &CorruptDataError{Path: p.history, Err: err}
	}
	if log == nil {
		log = history.Log{}
	}
	return log, nil
}

// SaveProfile replaces the stored profile.
func (s *FileStore) SaveProfile(userID string, prof profile.Profile) error {
	p, err := s.prepared(userID)
	if err != nil {
		return err
	}
	return storageErr("write", p.profile, writeJSONAtomic(p.profile, prof))
}

// SaveHistory replaces the stored history.
func (s *FileStore) SaveHistory(userID string, log history.Log) error {
	p, err := s.prepared(userID)
	if err != nil {
		return err
	}
	if log == nil {
		log = history.Log{}
	}
	return storageErr("write", p.history, writeJSONAtomic(p.history, log))
}

// Quarantine moves a corrupt document aside so the next load starts from
// defaults. The old content is kept next to it with a .corrupt-<unix> suffix.
func (s *FileStore) Quarantine(userID string, doc Document) (string, error) {
	p, err := s.paths(userID)
	if err != nil {
		return "", err
	}
	src := p.profile
	if doc == HistoryDoc {
		src = p.history
	}
	dst := fmt.Sprintf("%s.corrupt-%d", src, time.Now().UnixNano())
	if err := os.Rename(src, dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", storageErr("quarantine", src, err)
	}
	if _, err := s.ensure(p); err != nil {
		return "", err
	}
	return dst, nil
}

// Reset restores the default profile and an empty history and deletes every
// image and site file of the user.
func (s *FileStore) Reset(userID string) error {
	p, err := s.prepared(userID)
	if err != nil {
		return err
	}
	if err := writeJSONAtomic(p.profile, profile.Default()); err != nil {
		return storageErr("write", p.profile, err)
	}
	if err := writeJSONAtomic(p.history, history.Log{}); err != nil {
		return storageErr("write", p.history, err)
	}
	if err := emptyDir(p.images); err != nil {
		return err
	}
	return emptyDir(p.website)
}

func emptyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return storageErr("readdir", dir, err)
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if err := os.RemoveAll(path); err != nil {
			return storageErr("remove", path, err)
		}
	}
	return nil
}

func validFileName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name && sanitize.FileName(name) == name
}

// ImagePath returns the on-disk path of a stored image.
func (s *FileStore) ImagePath(userID, filename string) (string, error) {
	p, err := s.paths(userID)
	if err != nil {
		return "", err
	}
	if !validFileName(filename) {
		return "", fmt.Errorf("invalid image file name %q", filename)
	}
	return filepath.Join(p.images, filename), nil
}

// SaveImage writes a new image file. It never overwrites an existing file.
func (s *FileStore) SaveImage(userID, filename string, data []byte) (string, error) {
	if _, err := s.prepared(userID); err != nil {
		return "", err
	}
	path, err := s.ImagePath(userID, filename)
	if err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", storageErr("create", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", storageErr("write", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", storageErr("close", path, err)
	}
	return path, nil
}

// RemoveImage deletes a stored image. A missing file is not an error.
func (s *FileStore) RemoveImage(userID, filename string) error {
	path, err := s.ImagePath(userID, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return storageErr("remove", path, err)
	}
	return nil
}

// ListImages returns the files in the user's images directory.
func (s *FileStore) ListImages(userID string) ([]ImageFile, error) {
	p, err := s.paths(userID)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p.images)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("readdir", p.images, err)
	}
	out := make([]ImageFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, ImageFile{Name: e.Name(), ModTime: info.ModTime()})
	}
	return out, nil
}

// ListUsers returns the ids of every user directory, sorted.
func (s *FileStore) ListUsers() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, storageErr("readdir", s.root, err)
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if id, err := sanitize.UserID(e.Name()); err == nil && id == e.Name() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// SiteDir returns the directory holding the user's generated site.
func (s *FileStore) SiteDir(userID string) (string, error) {
	p, err := s.paths(userID)
	if err != nil {
		return "", err
	}
	return p.website, nil
}

// SaveSite replaces the user's site with a. All three files are written to a
// staging directory first and swapped in with renames, so a failure leaves
// the previous site in place.
func (s *FileStore) SaveSite(userID string, a site.Artifact) error {
	p, err := s.prepared(userID)
	if err != nil {
		return err
	}
	staging, err := os.MkdirTemp(p.dir, ".website.tmp-")
	if err != nil {
		return storageErr("mkdir", p.dir, err)
	}
	defer os.RemoveAll(staging)

	for name, content := range a.Files() {
		path := filepath.Join(staging, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return storageErr("write", path, err)
		}
	}
	if err := os.Chmod(staging, 0o755); err != nil {
		return storageErr("chmod", staging, err)
	}

	old := fmt.Sprintf("%s.old-%d", filepath.Join(p.dir, "."+WebsiteDir), time.Now().UnixNano())
	if err := os.Rename(p.website, old); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return storageErr("rename", p.website, err)
	}
	if err := os.Rename(staging, p.website); err != nil {
		_ = os.Rename(old, p.website)
		return storageErr("rename", staging, err)
	}
	_ = os.RemoveAll(old)
	return nil
}

// LoadSite reads the user's generated site. It returns ErrSiteNotFound unless
// all three files exist.
func (s *FileStore) LoadSite(userID string) (site.Artifact, error) {
	p, err := s.paths(userID)
	if err != nil {
		return site.Artifact{}, err
	}
	files := make(map[string]string, len(site.FileNames))
	for _, name := range site.FileNames {
		path := filepath.Join(p.website, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return site.Artifact{}, ErrSiteNotFound
		}
		if err != nil {
			return site.Artifact{}, storageErr("read", path, err)
		}
		files[name] = string(data)
	}
	return site.FromFiles(files), nil
}

// ReadSiteCode returns the three site files found in dir, substituting a
// placeholder for each missing one.
func ReadSiteCode(dir string) (map[string]string, error) {
	code := make(map[string]string, len(site.FileNames))
	for _, name := range site.FileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			code[name] = site.NotFoundMsg
		case err != nil:
			return nil, storageErr("read", path, err)
		default:
			code[name] = string(data)
		}
	}
	return code, nil
}
