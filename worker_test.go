package officepool

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/alnah/go-officepool/internal/fileutil"
)

// newTestWorker builds a worker over a fake office home.
func newTestWorker(t *testing.T, e Endpoint, pm ProcessManager, tweak func(*ManagerSettings)) *Worker {
	t.Helper()

	s := ManagerSettings{
		OfficeHome:     fakeOfficeHome(t),
		WorkDir:        t.TempDir(),
		RetryTimeout:   5 * time.Second,
		RetryInterval:  5 * time.Millisecond,
		ProcessManager: pm,
		Logger:         zerolog.Nop(),
	}
	if tweak != nil {
		tweak(&s)
	}
	return newWorker(s, e)
}

func TestInstanceProfileDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		endpoint Endpoint
		want     string
	}{
		{SocketEndpoint(2002), ".officepool_socket_host-127.0.0.1_port-2002"},
		{PipeEndpoint("office_1"), ".officepool_pipe_name-office_1"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint.String(), func(t *testing.T) {
			t.Parallel()

			got := instanceProfileDir("work", tt.endpoint)
			if want := filepath.Join("work", tt.want); got != want {
				t.Errorf("instanceProfileDir() = %q, want %q", got, want)
			}
		})
	}
}

func TestWorker_CommandLine(t *testing.T) {
	t.Parallel()

	w := newTestWorker(t, SocketEndpoint(2002), &fakeProcessManager{}, func(s *ManagerSettings) {
		s.RunAsArgs = []string{"sudo", "-n"}
	})

	want := []string{
		"sudo", "-n",
		OfficeExecutable(w.officeHome),
		"-accept=socket,host=127.0.0.1,port=2002;urp;",
		"-env:UserInstallation=" + fileutil.FileURL(w.InstanceProfileDir()),
		"--headless", "--invisible", "--nocrashreport", "--nodefault",
		"--nofirststartwizard", "--nolockcheck", "--nologo", "--norestore",
	}
	if diff := cmp.Diff(want, w.CommandLine()); diff != "" {
		t.Errorf("CommandLine mismatch (-want +got):\n%s", diff)
	}
}

func TestWorker_Query(t *testing.T) {
	t.Parallel()

	w := newTestWorker(t, PipeEndpoint("office"), &fakeProcessManager{}, nil)
	q := w.query()

	if !q.Matches("/opt/lo/program/soffice.bin -accept=pipe,name=office;urp; --headless") {
		t.Error("query should match its own worker")
	}
	if q.Matches("/opt/lo/program/soffice.bin -accept=socket,host=127.0.0.1,port=2002;urp;") {
		t.Error("query should not match another endpoint")
	}
}

func TestWorker_QuerySkipsRunAsWrapper(t *testing.T) {
	t.Parallel()

	w := newTestWorker(t, SocketEndpoint(2002), &fakeProcessManager{}, func(s *ManagerSettings) {
		s.RunAsArgs = []string{"sudo", "-n", "-u", "office"}
	})
	q := w.query()

	if q.Matches("sudo -n -u office /opt/lo/program/soffice.bin -accept=socket,host=127.0.0.1,port=2002;urp;") {
		t.Error("query should not match the run-as wrapper")
	}
	if !q.Matches("/opt/lo/program/soffice.bin -accept=socket,host=127.0.0.1,port=2002;urp;") {
		t.Error("query should match the office process itself")
	}
}

func TestWorker_StartRefusesBoundEndpoint(t *testing.T) {
	t.Parallel()

	pm := &fakeProcessManager{find: func(ProcessQuery) (int, error) { return 4242, nil }}
	w := newTestWorker(t, SocketEndpoint(2002), pm, nil)

	err := w.Start(context.Background())
	if !errors.Is(err, ErrWorkerRunning) {
		t.Fatalf("Start error = %v, want ErrWorkerRunning", err)
	}
	if !strings.Contains(err.Error(), "4242") {
		t.Errorf("error %q should name the existing pid", err)
	}
	if w.Running() {
		t.Error("worker should not be running")
	}
}

func TestWorker_StartInspectionFailure(t *testing.T) {
	t.Parallel()

	pm := &fakeProcessManager{find: func(ProcessQuery) (int, error) { return 0, errors.New("ps: not found") }}
	w := newTestWorker(t, SocketEndpoint(2002), pm, nil)

	if err := w.Start(context.Background()); !errors.Is(err, ErrWorkerStart) {
		t.Errorf("Start error = %v, want ErrWorkerStart", err)
	}
}

func TestWorker_StopWhenStopped(t *testing.T) {
	t.Parallel()

	pm := &fakeProcessManager{}
	w := newTestWorker(t, SocketEndpoint(2002), pm, nil)

	if err := w.Stop(context.Background()); err != nil {
		t.Errorf("Stop on a stopped worker: %v", err)
	}
	if len(pm.kills()) != 0 {
		t.Errorf("kills = %v, want none", pm.kills())
	}
}
