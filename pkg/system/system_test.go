package system

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"
)

func TestCheckDiskSpaceMissingDir(t *testing.T) {
	dir := t.TempDir()

	usage, err := CheckDiskSpace(filepath.Join(dir, "mclauncher", "nested"))
	if err != nil {
		t.Fatalf("CheckDiskSpace failed: %v", err)
	}
	if usage.Path != dir {
		t.Errorf("expected usage for %s, got %s", dir, usage.Path)
	}
	if usage.Total == 0 {
		t.Error("expected a non-zero filesystem size")
	}
	if usage.Available > usage.Total {
		t.Errorf("available %d exceeds total %d", usage.Available, usage.Total)
	}
}

func TestDiskUsageHelpers(t *testing.T) {
	d := DiskUsage{Total: 200, Used: 50, Available: 150}
	if got := d.UsedPercent(); got != 25 {
		t.Errorf("expected 25%%, got %v", got)
	}
	if !d.Low() {
		t.Error("150 bytes available should be low")
	}
	if (DiskUsage{}).UsedPercent() != 0 {
		t.Error("empty usage should report 0%")
	}
	if (DiskUsage{Available: 2 * MinFreeSpace}).Low() {
		t.Error("twice the minimum should not be low")
	}
}

func TestNetworkCheckerStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	nc := NewNetworkChecker(5*time.Second, nil)

	ok := nc.Check(context.Background(), server.URL+"/versions.json")
	if !ok.Reachable || ok.StatusCode != http.StatusOK {
		t.Errorf("expected reachable 200, got %+v", ok)
	}

	missing := nc.Check(context.Background(), server.URL+"/missing")
	if missing.Reachable {
		t.Error("404 should not count as reachable")
	}
	if missing.ErrorType != ErrorStatus || missing.StatusCode != http.StatusNotFound {
		t.Errorf("unexpected result for 404: %+v", missing)
	}
}

func TestNetworkCheckerRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	result := NewNetworkChecker(5*time.Second, nil).Check(context.Background(), url)
	if result.Reachable {
		t.Fatal("closed server should not be reachable")
	}
	if result.ErrorType != ErrorConnectionRefused {
		t.Errorf("expected %s, got %s (%s)", ErrorConnectionRefused, result.ErrorType, result.Error)
	}
}

func TestNetworkCheckerTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	result := NewNetworkChecker(50*time.Millisecond, nil).Check(context.Background(), server.URL)
	if result.ErrorType != ErrorTimeout {
		t.Errorf("expected %s, got %s (%s)", ErrorTimeout, result.ErrorType, result.Error)
	}
}
