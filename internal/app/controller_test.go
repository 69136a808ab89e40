package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	apperrors "github.com/huanfeng/mclauncher/internal/errors"
	"github.com/huanfeng/mclauncher/pkg/manifest"
	"github.com/huanfeng/mclauncher/pkg/models"
	"github.com/huanfeng/mclauncher/pkg/storage"
)

// fakeFetcher answers each call from a queue of results. A result with a
// non-nil gate blocks until the gate is closed.
type fakeFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	entered chan int
	calls   int
}

type fetchResult struct {
	list []models.VersionDescriptor
	err  error
	gate chan struct{}
}

func (f *fakeFetcher) Fetch(ctx context.Context, _ string) ([]models.VersionDescriptor, error) {
	f.mu.Lock()
	n := f.calls
	f.calls++
	r := f.results[n]
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- n
	}
	if r.gate != nil {
		<-r.gate
	}
	return r.list, r.err
}

type fakeStorage struct {
	mu          sync.Mutex
	dir         string
	files       map[string]bool
	downloadErr error
	downloads   []string
	deleteErr   error
	started     chan struct{}
	release     chan struct{}
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{dir: "/sdcard/mclauncher", files: map[string]bool{}}
}

func (s *fakeStorage) Dir() string            { return s.dir }
func (s *fakeStorage) EnsureDirectory() error { return nil }

func (s *fakeStorage) Exists(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[path], nil
}

func (s *fakeStorage) Download(_ context.Context, url, dest string, onProgress storage.ProgressFunc) error {
	s.mu.Lock()
	s.downloads = append(s.downloads, url)
	s.mu.Unlock()

	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	if s.downloadErr != nil {
		return s.downloadErr
	}
	for _, f := range []float64{0.25, 0.5, 1} {
		onProgress(f)
	}
	s.mu.Lock()
	s.files[dest] = true
	s.mu.Unlock()
	return nil
}

func (s *fakeStorage) ListFiles(string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for p := range s.files {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeStorage) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.files, path)
	return nil
}

type fakeInstaller struct {
	mu     sync.Mutex
	opened []string
	err    error
}

func (i *fakeInstaller) Open(_ context.Context, path string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.opened = append(i.opened, path)
	return i.err
}

type fakePermission struct {
	granted bool
}

func (p *fakePermission) Check(context.Context) (bool, error) { return p.granted, nil }

func (p *fakePermission) Request(context.Context) (bool, error) {
	p.granted = true
	return true, nil
}

type recordingLogger struct {
	mu     sync.Mutex
	errors int
}

func (l *recordingLogger) Error(string, ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors++
}

func (l *recordingLogger) Warn(string, ...interface{})  {}
func (l *recordingLogger) Debug(string, ...interface{}) {}

func passthrough(id string, _ ...map[string]interface{}) string { return id }

func descriptor(name, kind, ver string) models.VersionDescriptor {
	return models.NewVersionDescriptor(models.ManifestEntry{
		Name:    name,
		Link:    "https://example.com/files/" + name,
		Kind:    kind,
		Version: ver,
	})
}

type fixture struct {
	ctrl      *Controller
	fetcher   *fakeFetcher
	storage   *fakeStorage
	installer *fakeInstaller
	perm      *fakePermission
	errLog    *recordingLogger
	handler   *apperrors.ErrorHandler
}

func newFixture(results ...fetchResult) *fixture {
	f := &fixture{
		fetcher:   &fakeFetcher{results: results},
		storage:   newFakeStorage(),
		installer: &fakeInstaller{},
		perm:      &fakePermission{},
		errLog:    &recordingLogger{},
	}
	f.handler = apperrors.NewErrorHandler(f.errLog)
	f.ctrl = NewController(Deps{
		ManifestURL:  "https://example.com/versions.json",
		Fetcher:      f.fetcher,
		Storage:      f.storage,
		Installer:    f.installer,
		Permission:   f.perm,
		ErrorHandler: f.handler,
		Translate:    passthrough,
	})
	return f
}

func TestStartLoadsSortedVersions(t *testing.T) {
	f := newFixture(fetchResult{list: []models.VersionDescriptor{
		descriptor("old", "Legacy", "1.16.5"),
		descriptor("new", "Stable", "1.20.1"),
	}})
	f.perm.granted = true
	f.storage.files["/sdcard/mclauncher/x.apk"] = true

	if err := f.ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	s := f.ctrl.Snapshot()
	if s.LoadStatus != LoadReady || s.IsLoading {
		t.Errorf("LoadStatus = %v, IsLoading = %v", s.LoadStatus, s.IsLoading)
	}
	if len(s.Versions) != 2 || s.Versions[0].Name != "new" {
		t.Errorf("Versions = %v, want newest first", s.Versions)
	}
	if !s.PermissionGranted {
		t.Error("PermissionGranted should reflect the startup check")
	}
	if !s.DeleteAvailable {
		t.Error("DeleteAvailable should reflect files already on disk")
	}
}

func TestReloadFailureKeepsList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	f := newFixture(fetchResult{list: []models.VersionDescriptor{descriptor("a", "Stable", "1.0")}})
	if err := f.ctrl.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	// second fetch goes through the real client against a 404
	_, httpErr := manifest.NewClientWithHTTP(server.Client()).Fetch(context.Background(), server.URL)
	f.fetcher.results = append(f.fetcher.results, fetchResult{err: httpErr})

	err := f.ctrl.Reload(context.Background())
	if !apperrors.IsType(err, apperrors.ErrorTypeNetwork) {
		t.Fatalf("Reload() error = %v, want network error", err)
	}

	s := f.ctrl.Snapshot()
	if s.LoadStatus != LoadFailed || s.IsLoading {
		t.Errorf("LoadStatus = %v, IsLoading = %v", s.LoadStatus, s.IsLoading)
	}
	if s.LoadError != MsgLoadFailed {
		t.Errorf("LoadError = %q, want %q", s.LoadError, MsgLoadFailed)
	}
	if len(s.Versions) != 1 || s.Versions[0].Name != "a" {
		t.Errorf("Versions = %v, previous list should be kept", s.Versions)
	}
	if f.errLog.errors != 1 {
		t.Errorf("error handler logged %d errors, want 1", f.errLog.errors)
	}
}

func TestReloadParseErrorMessage(t *testing.T) {
	_, parseErr := manifest.Parse([]byte("not json"))
	f := newFixture(fetchResult{err: parseErr})

	_ = f.ctrl.Reload(context.Background())
	if got := f.ctrl.Snapshot().LoadError; got != MsgLoadInvalid {
		t.Errorf("LoadError = %q, want %q", got, MsgLoadInvalid)
	}
}

func TestStaleReloadDiscarded(t *testing.T) {
	gate := make(chan struct{})
	f := newFixture(
		fetchResult{list: []models.VersionDescriptor{descriptor("first", "Stable", "1.0")}, gate: gate},
		fetchResult{list: []models.VersionDescriptor{descriptor("second", "Stable", "2.0")}},
	)
	f.fetcher.entered = make(chan int, 2)

	done := make(chan error, 1)
	go func() { done <- f.ctrl.Reload(context.Background()) }()
	<-f.fetcher.entered

	if err := f.ctrl.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	<-f.fetcher.entered

	// the older request resolves last
	close(gate)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	s := f.ctrl.Snapshot()
	if len(s.Versions) != 1 || s.Versions[0].Name != "second" {
		t.Errorf("Versions = %v, want the most recent request's result", s.Versions)
	}
	if s.RequestID != 2 || s.IsLoading {
		t.Errorf("RequestID = %d, IsLoading = %v", s.RequestID, s.IsLoading)
	}
}

func TestSelectExistingSkipsDownload(t *testing.T) {
	f := newFixture()
	d := descriptor("mc", "Stable", "1.20")
	path := storage.DerivePath(f.storage.Dir(), d.Link, d.Name)
	f.storage.files[path] = true

	if err := f.ctrl.Select(context.Background(), d); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(f.storage.downloads) != 0 {
		t.Errorf("download invoked %d times, want 0", len(f.storage.downloads))
	}
	if len(f.installer.opened) != 1 || f.installer.opened[0] != path {
		t.Errorf("installer opened %v, want [%s]", f.installer.opened, path)
	}
	s := f.ctrl.Snapshot()
	if s.DownloadedFilePath != path || s.DownloadPhase != NotDownloading {
		t.Errorf("state = %+v", s)
	}
}

func TestSelectDownloadsThenInstalls(t *testing.T) {
	f := newFixture()
	d := descriptor("mc", "Stable", "1.20")

	var mu sync.Mutex
	var progress []float64
	f.ctrl.Subscribe(func(s State) {
		mu.Lock()
		progress = append(progress, s.Progress)
		mu.Unlock()
	})

	if err := f.ctrl.Select(context.Background(), d); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	path := filepath.Join(f.storage.Dir(), "mc.apk")
	s := f.ctrl.Snapshot()
	if s.Downloading || s.DownloadPhase != DownloadComplete || s.Progress != 1 {
		t.Errorf("download state = %+v", s)
	}
	if s.LastSuccessMessage != MsgDownloadComplete || s.LastError != "" {
		t.Errorf("messages = %q / %q", s.LastSuccessMessage, s.LastError)
	}
	if !s.DeleteAvailable || s.DownloadedFilePath != path {
		t.Errorf("DeleteAvailable = %v, DownloadedFilePath = %q", s.DeleteAvailable, s.DownloadedFilePath)
	}
	if len(f.installer.opened) != 1 || f.installer.opened[0] != path {
		t.Errorf("installer opened %v", f.installer.opened)
	}
	for i := 1; i < len(progress); i++ {
		if progress[i] < progress[i-1] {
			t.Errorf("progress went backwards: %v", progress)
			break
		}
	}
}

func TestSelectDownloadRejected(t *testing.T) {
	f := newFixture()
	f.storage.downloadErr = apperrors.NewNetworkError(apperrors.CodeDownloadFailed, "download returned HTTP 500").
		WithContext("status", "500")

	err := f.ctrl.Select(context.Background(), descriptor("mc", "Stable", "1.20"))
	if err == nil {
		t.Fatal("Select() should fail")
	}

	s := f.ctrl.Snapshot()
	if s.Downloading || s.DownloadPhase != DownloadFailed {
		t.Errorf("Downloading = %v, phase = %v", s.Downloading, s.DownloadPhase)
	}
	if s.LastError != MsgDownloadStatus || s.LastSuccessMessage != "" {
		t.Errorf("messages = %q / %q", s.LastError, s.LastSuccessMessage)
	}
	if len(f.installer.opened) != 0 {
		t.Error("installer must not run after a failed download")
	}
}

func TestSelectTransportFailureMessage(t *testing.T) {
	f := newFixture()
	f.storage.downloadErr = apperrors.NewNetworkError(apperrors.CodeDownloadFailed, "download interrupted")

	_ = f.ctrl.Select(context.Background(), descriptor("mc", "Stable", "1.20"))
	if got := f.ctrl.Snapshot().LastError; got != MsgDownloadFailed {
		t.Errorf("LastError = %q, want %q", got, MsgDownloadFailed)
	}
}

func TestSelectInstallFailure(t *testing.T) {
	f := newFixture()
	f.installer.err = apperrors.NewInstallError(apperrors.CodeOpenFailed, "could not start installation")

	err := f.ctrl.Select(context.Background(), descriptor("mc", "Stable", "1.20"))
	if !apperrors.IsType(err, apperrors.ErrorTypeInstall) {
		t.Fatalf("Select() error = %v, want install error", err)
	}
	s := f.ctrl.Snapshot()
	if s.LastError != MsgInstallFailed || s.LastSuccessMessage != "" {
		t.Errorf("messages = %q / %q", s.LastError, s.LastSuccessMessage)
	}
	if s.DownloadPhase != DownloadComplete {
		t.Errorf("phase = %v, the download itself succeeded", s.DownloadPhase)
	}
}

func TestSecondSelectRejectedWhileDownloading(t *testing.T) {
	f := newFixture()
	f.storage.started = make(chan struct{})
	f.storage.release = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- f.ctrl.Select(context.Background(), descriptor("a", "Stable", "1.0")) }()
	<-f.storage.started

	before := f.ctrl.Snapshot()
	err := f.ctrl.Select(context.Background(), descriptor("b", "Stable", "2.0"))
	if !errors.Is(err, ErrDownloadInProgress) {
		t.Fatalf("second Select() error = %v, want ErrDownloadInProgress", err)
	}
	if _, err := f.ctrl.DeleteAll(context.Background()); !errors.Is(err, ErrDownloadInProgress) {
		t.Errorf("DeleteAll() during download error = %v", err)
	}
	after := f.ctrl.Snapshot()
	if before.DownloadPhase != after.DownloadPhase || before.LastError != after.LastError || !after.Downloading {
		t.Errorf("rejected selection changed state: %+v -> %+v", before, after)
	}

	close(f.storage.release)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("first Select() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("first Select() did not finish")
	}
	if len(f.storage.downloads) != 1 {
		t.Errorf("downloads = %v, want only the first", f.storage.downloads)
	}
}

func TestDeleteAllWithNoFiles(t *testing.T) {
	f := newFixture(fetchResult{list: []models.VersionDescriptor{descriptor("a", "Stable", "1.0")}})
	_ = f.ctrl.Reload(context.Background())
	f.ctrl.dispatch(DownloadErrored{Message: "old"})
	before := f.ctrl.Snapshot()

	n, err := f.ctrl.DeleteAll(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("DeleteAll() = %d, %v", n, err)
	}

	after := f.ctrl.Snapshot()
	if after.LastError != "" || after.LastSuccessMessage != "" {
		t.Errorf("messages not cleared: %q / %q", after.LastError, after.LastSuccessMessage)
	}
	before.LastError = ""
	if before.DownloadPhase != after.DownloadPhase || before.DeleteAvailable != after.DeleteAvailable ||
		len(before.Versions) != len(after.Versions) || before.LoadStatus != after.LoadStatus {
		t.Errorf("state changed beyond messages: %+v -> %+v", before, after)
	}
}

func TestDeleteAllRemovesFiles(t *testing.T) {
	mem := afero.NewMemMapFs()
	gw := storage.NewFSGateway(mem, "/sdcard", storage.DirName)
	if err := gw.EnsureDirectory(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.apk", "b.apk"} {
		if err := afero.WriteFile(mem, filepath.Join(gw.Dir(), name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	ctrl := NewController(Deps{
		Fetcher:   &fakeFetcher{results: []fetchResult{{list: []models.VersionDescriptor{descriptor("a", "Stable", "1.0")}}}},
		Storage:   gw,
		Installer: &fakeInstaller{},
		Translate: passthrough,
	})
	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !ctrl.Snapshot().DeleteAvailable {
		t.Fatal("files on disk should enable delete")
	}

	n, err := ctrl.DeleteAll(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("DeleteAll() = %d, %v; want 2, nil", n, err)
	}
	files, _ := gw.ListFiles(gw.Dir())
	if len(files) != 0 {
		t.Errorf("files left: %v", files)
	}
	s := ctrl.Snapshot()
	if s.DeleteAvailable || len(s.Versions) != 1 {
		t.Errorf("after delete: DeleteAvailable = %v, versions = %d", s.DeleteAvailable, len(s.Versions))
	}
}

func TestDeleteAllFailure(t *testing.T) {
	f := newFixture()
	f.storage.files["/sdcard/mclauncher/a.apk"] = true
	f.storage.deleteErr = apperrors.NewFileSystemError(apperrors.CodeDeleteFailed, "busy")

	if _, err := f.ctrl.DeleteAll(context.Background()); err == nil {
		t.Fatal("DeleteAll() should report the failure")
	}
	if got := f.ctrl.Snapshot().LastError; got != MsgDeleteFailed {
		t.Errorf("LastError = %q, want %q", got, MsgDeleteFailed)
	}
}

func TestRequestPermission(t *testing.T) {
	f := newFixture()
	granted, err := f.ctrl.RequestPermission(context.Background())
	if err != nil || !granted {
		t.Fatalf("RequestPermission() = %v, %v", granted, err)
	}
	if !f.ctrl.Snapshot().PermissionGranted {
		t.Error("PermissionGranted not updated")
	}
}
