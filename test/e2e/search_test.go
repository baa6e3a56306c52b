package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
	"github.com/creack/pty"
)

// buildPokesearch builds the pokesearch binary for testing.
// Returns the path to the binary and a cleanup function.
func buildPokesearch(t *testing.T) (string, func()) {
	t.Helper()
	dir := t.TempDir()
	binPath := filepath.Join(dir, "pokesearch")

	rootDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	// test/e2e -> module root
	rootDir = filepath.Join(rootDir, "..", "..")

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/pokesearch")
	cmd.Dir = rootDir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}

	return binPath, func() { os.RemoveAll(dir) }
}

// session is one pokesearch process on a PTY.
type session struct {
	t       *testing.T
	cmd     *exec.Cmd
	ptmx    *os.File
	console *expect.Console
	out     *bytes.Buffer
}

func startSession(t *testing.T, binPath, homeDir, endpoint string) *session {
	t.Helper()
	cmd := exec.Command(binPath)
	// Fresh HOME so ~/.pokesearch is private to the test.
	cmd.Env = append(os.Environ(),
		"HOME="+homeDir,
		"POKESEARCH_ENDPOINT="+endpoint,
		"POKESEARCH_DEBOUNCE_MS=50",
	)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		t.Fatalf("failed to start pty: %v", err)
	}
	if err := pty.Setsize(ptmx, &pty.Winsize{Cols: 120, Rows: 40}); err != nil {
		t.Fatalf("failed to set pty size: %v", err)
	}

	out := &bytes.Buffer{}
	console, err := expect.NewConsole(
		expect.WithStdin(ptmx),
		expect.WithStdout(out),
		expect.WithDefaultTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("failed to create console: %v", err)
	}

	s := &session{t: t, cmd: cmd, ptmx: ptmx, console: console, out: out}
	t.Cleanup(func() {
		_ = console.Close()
		_ = ptmx.Close()
		_ = cmd.Process.Kill()
	})
	return s
}

func (s *session) expect(want string) {
	s.t.Helper()
	if _, err := s.console.ExpectString(want); err != nil {
		s.t.Fatalf("%q not found: %v\nOutput buffer:\n%s", want, err, s.out.String())
	}
}

// send writes keystrokes to the program's terminal.
func (s *session) send(keys string) {
	s.t.Helper()
	if _, err := s.ptmx.Write([]byte(keys)); err != nil {
		s.t.Fatalf("failed to send %q: %v", keys, err)
	}
}

// quit presses ctrl+c and waits for a clean exit.
func (s *session) quit() {
	s.t.Helper()
	s.send("\x03")
	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			s.t.Errorf("process exited with error: %v", err)
		}
	case <-time.After(3 * time.Second):
		s.t.Error("process did not exit after ctrl+c")
	}
}

func TestE2E_SearchAndDetail(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e: builds and drives the binary")
	}
	binPath, cleanup := buildPokesearch(t)
	defer cleanup()

	server := newFixtureServer(t)
	homeDir := t.TempDir()

	// First launch: welcome screen, then search.
	s := startSession(t, binPath, homeDir, server.URL)

	t.Log("Waiting for welcome screen...")
	s.expect("Welcome to Pokésearch")
	time.Sleep(200 * time.Millisecond) // let the UI settle
	s.send("\r")

	t.Log("Waiting for home screen...")
	s.expect("Pokémon Search")

	t.Log("Typing 'pika'")
	s.send("pika")
	s.expect("Capture rate: 190")
	s.expect("Page 1 of 1")

	names := server.Names()
	if len(names) == 0 || names[len(names)-1] != "%pika%" {
		t.Errorf("request names = %q, want last to be %%pika%%", names)
	}

	t.Log("Opening detail...")
	s.send("\r")
	s.expect("Abilities")
	s.expect("lightning-rod")

	s.send("\x1b") // esc
	time.Sleep(100 * time.Millisecond)
	s.quit()

	first, err := readFirstLaunch(homeDir)
	if err != nil {
		t.Fatalf("read first launch flag: %v", err)
	}
	if first {
		t.Error("first launch flag should be cleared after the welcome screen")
	}

	// Second launch goes straight to search.
	t.Log("Relaunching...")
	s2 := startSession(t, binPath, homeDir, server.URL)
	s2.expect("Pokémon Search")
	if bytes.Contains(s2.out.Bytes(), []byte("Welcome to Pokésearch")) {
		t.Error("welcome screen shown on second launch")
	}
	s2.quit()
}
