package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dujiao-next/cupcake/internal/config"
	"github.com/dujiao-next/cupcake/internal/models"
	"github.com/dujiao-next/cupcake/internal/provider"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type fakeService struct {
	name     string
	startErr error
	block    bool
	stopped  atomic.Int32
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return nil
	}
	return s.startErr
}

func (s *fakeService) Stop(context.Context) error {
	s.stopped.Add(1)
	return nil
}

func newAppTestContainer(t *testing.T, cfg *config.Config) *provider.Container {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return provider.NewContainerWithDB(cfg, db, nil)
}

func TestRunnerStopsAllServicesOnError(t *testing.T) {
	failing := &fakeService{name: "failing", startErr: errors.New("boom")}
	blocking := &fakeService{name: "blocking", block: true}

	err := NewRunner(failing, blocking).Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "failing: boom" {
		t.Fatalf("run error want failing: boom got %v", err)
	}
	if failing.stopped.Load() != 1 || blocking.stopped.Load() != 1 {
		t.Fatalf("every service should be stopped once, got %d/%d", failing.stopped.Load(), blocking.stopped.Load())
	}
}

func TestRunnerCancelledContextReturnsNil(t *testing.T) {
	svc := &fakeService{name: "blocking", block: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewRunner(svc).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancelled run should return nil, got %v", err)
	}
	if svc.stopped.Load() != 1 {
		t.Fatalf("service should be stopped once, got %d", svc.stopped.Load())
	}
}

func TestRunnerWithoutServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("runner without services should fail")
	}
	if err := RunWithOptions(nil, Options{}); err == nil {
		t.Fatalf("nil runner should fail")
	}
}

func TestBuildRunnerModes(t *testing.T) {
	cfg := config.Default()
	cfg.Upload.Dir = t.TempDir()
	container := newAppTestContainer(t, cfg)

	cases := []struct {
		name      string
		mode      string
		wantNames []string
		wantErr   bool
	}{
		{name: "all without queue", mode: ModeAll, wantNames: []string{"http"}},
		{name: "api", mode: ModeAPI, wantNames: []string{"http"}},
		{name: "worker without queue", mode: ModeWorker, wantErr: true},
		{name: "unknown", mode: "batch", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runner, err := buildRunner(cfg, container, tc.mode)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("mode %s should fail", tc.mode)
				}
				return
			}
			if err != nil {
				t.Fatalf("build runner failed: %v", err)
			}
			if len(runner.services) != len(tc.wantNames) {
				t.Fatalf("services want %d got %d", len(tc.wantNames), len(runner.services))
			}
			for i, name := range tc.wantNames {
				if got := runner.services[i].Name(); got != name {
					t.Fatalf("service %d want %s got %s", i, name, got)
				}
			}
		})
	}
}

func TestRunnerRejectsNilService(t *testing.T) {
	if err := NewRunner(nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("nil service should fail")
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "", want: ModeAll},
		{raw: " API ", want: ModeAPI},
		{raw: "worker", want: ModeWorker},
		{raw: "batch", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseMode(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("mode %q should be rejected", tc.raw)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("mode want %s got %s (%v)", tc.want, got, err)
			}
		})
	}
}

func TestHTTPServiceServeAndStop(t *testing.T) {
	cfg := config.Default().Server
	svc := NewHTTPService(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	served := make(chan error, 1)
	go func() { served <- svc.Serve(listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status want 204 got %d", resp.StatusCode)
	}

	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if err := <-served; err != nil {
		t.Fatalf("serve should return nil after stop, got %v", err)
	}
}

func TestNormalizeOptions(t *testing.T) {
	opts := normalizeOptions(Options{})
	if opts.Mode != ModeAll {
		t.Fatalf("mode want %s got %s", ModeAll, opts.Mode)
	}
	if opts.ShutdownTimeout != 10*time.Second {
		t.Fatalf("shutdown timeout want 10s got %s", opts.ShutdownTimeout)
	}
	if opts.Logger == nil {
		t.Fatalf("logger should default to global logger")
	}
}
