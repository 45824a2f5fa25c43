// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/modctl/modctl/internal/testutil"
	"github.com/modctl/modctl/pkg/steamcmd"
)

const steamcmdImage = "steamcmd/steamcmd:latest"

// checkTestcontainersAvailable safely checks if testcontainers can be used.
func checkTestcontainersAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		return false
	}
	defer provider.Close()
	return true
}

// TestSteamcmdContainer_Integration runs rendered invocations against the
// real steamcmd in a container. It needs Docker and network access to Steam.
func TestSteamcmdContainer_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if !checkTestcontainersAvailable() {
		t.Skip("skipping container integration tests: docker provider not available")
	}

	t.Run("AnonymousLoginAndQuit", func(t *testing.T) {
		args := steamcmd.NewInvocation().
			ForceInstallDir("/tmp/modctl-it").
			Login("anonymous").
			Quit()

		code, cls := runInContainer(t, args)
		if code != 0 {
			t.Fatalf("steamcmd exited with %d", code)
		}
		if f := cls.Failures(); len(f) != 0 {
			t.Errorf("unexpected failures: %+v", f)
		}
	})
}

func runInContainer(t *testing.T, args steamcmd.Args) (int, *Classifier) {
	t.Helper()

	sem := testutil.ContainerSemaphore()
	sem <- struct{}{}
	defer func() { <-sem }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:      steamcmdImage,
			Cmd:        []string(args),
			WaitingFor: wait.ForExit().WithExitTimeout(8 * time.Minute),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, c)
	if err != nil {
		t.Fatalf("start steamcmd container: %v", err)
	}

	state, err := c.State(ctx)
	if err != nil {
		t.Fatalf("container state: %v", err)
	}

	logs, err := c.Logs(ctx)
	if err != nil {
		t.Fatalf("container logs: %v", err)
	}
	defer testutil.DeferClose(t, logs)()

	cls := NewClassifier()
	if _, err := io.Copy(cls, logs); err != nil {
		t.Fatalf("read logs: %v", err)
	}
	cls.Flush()

	return state.ExitCode, cls
}
