package settings

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/oomph-ac/motion/collider"
	"github.com/oomph-ac/motion/movement"
	"github.com/oomph-ac/motion/oerror"
	"github.com/sirupsen/logrus"
)

func TestDefaultSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings must validate: %v", err)
	}
	if !reflect.DeepEqual(s.ReconcilerOptions(), movement.DefaultReconcilerOptions()) {
		t.Fatalf("default reconciler settings differ from the default options")
	}
	opts, err := s.SelectorOptions()
	if err != nil {
		t.Fatalf("selector options: %v", err)
	}
	if len(opts.Fallback) != 1 || opts.Fallback[0] != movement.MethodClampedEntity {
		t.Fatalf("unexpected fallback %v", opts.Fallback)
	}
	if s.LogLevel() != logrus.InfoLevel {
		t.Fatalf("unexpected log level %v", s.LogLevel())
	}
}

func TestRoundTrip(t *testing.T) {
	for _, name := range []string{"settings.toml", "settings.yaml", "settings.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			s := DefaultSettings()
			s.Reconciler.CatchUpTickBudget = 6
			s.Reconciler.CatchUpSpeed = 1.5
			s.Selector.Fallback = []string{"eMCM_SmoothedEntity", "ClampedEntity"}
			s.Selector.ColliderModes = map[string]string{"Animation": "eColliderMode_NonPushable"}
			s.Logging.Level = "debug"
			if err := Write(s, path); err != nil {
				t.Fatalf("write: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if loaded.Reconciler.CatchUpTickBudget != 6 || loaded.Reconciler.CatchUpSpeed != 1.5 {
				t.Fatalf("reconciler settings were not preserved: %+v", loaded.Reconciler)
			}
			opts, err := loaded.SelectorOptions()
			if err != nil {
				t.Fatalf("selector options: %v", err)
			}
			if len(opts.Fallback) != 2 || opts.Fallback[0] != movement.MethodSmoothedEntity {
				t.Fatalf("unexpected fallback %v", opts.Fallback)
			}
			if opts.ColliderModes[movement.MethodAnimation] != collider.ModeNonPushable {
				t.Fatalf("unexpected collider modes %v", opts.ColliderModes)
			}
			if loaded.LogLevel() != logrus.DebugLevel {
				t.Fatalf("unexpected log level %v", loaded.LogLevel())
			}
		})
	}
}

func TestMissingKeysKeepDefaults(t *testing.T) {
	s, err := Decode([]byte("reconciler:\n  catch_up_tick_budget: 3\n"), "partial.yaml")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Reconciler.CatchUpTickBudget != 3 {
		t.Fatalf("expected budget 3, got %d", s.Reconciler.CatchUpTickBudget)
	}
	if s.Reconciler.SmoothingFactor != DefaultSettings().Reconciler.SmoothingFactor {
		t.Fatalf("missing key did not keep its default")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]struct {
		mutate func(*Settings)
		kind   *oerror.Error
	}{
		"fallback without clamped": {func(s *Settings) { s.Selector.Fallback = []string{"Entity"} }, oerror.ErrInvalidMethod},
		"unknown fallback":         {func(s *Settings) { s.Selector.Fallback = []string{"Teleport"} }, oerror.ErrInvalidMethod},
		"sentinel collider mode":   {func(s *Settings) { s.Simulation.DefaultColliderMode = "FF" }, oerror.ErrInvalidMode},
		"unknown collider mode":    {func(s *Settings) { s.Selector.ColliderModes = map[string]string{"Entity": "Ghost"} }, oerror.ErrInvalidMode},
		"zero budget":              {func(s *Settings) { s.Reconciler.CatchUpTickBudget = 0 }, nil},
		"negative workers":         {func(s *Settings) { s.Simulation.Workers = -1 }, nil},
		"bad level":                {func(s *Settings) { s.Logging.Level = "loud" }, nil},
	}
	for name, tt := range tests {
		s := DefaultSettings()
		tt.mutate(&s)
		err := s.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
		if tt.kind != nil && !errors.Is(err, tt.kind) {
			t.Fatalf("%s: expected %v, got %v", name, tt.kind, err)
		}
	}
}

func TestSaveDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := SaveDefault(path); err != nil {
		t.Fatalf("save default: %v", err)
	}
	if err := SaveDefault(path); err == nil {
		t.Fatalf("expected an error when the file already exists")
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("load default: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if err := Write(DefaultSettings(), filepath.Join(t.TempDir(), "settings.json")); err == nil {
		t.Fatalf("expected an error for an unsupported format")
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := Write(DefaultSettings(), path); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := Watch(path)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	s := DefaultSettings()
	s.Reconciler.CatchUpTickBudget = 42
	if err := Write(s, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-w.Updates:
			if got.Reconciler.CatchUpTickBudget == 42 {
				return
			}
		case err := <-w.Errors:
			// A partially written file may fail to load; the completed write follows.
			t.Logf("reload error: %v", err)
		case <-deadline:
			t.Fatalf("settings were not reloaded")
		}
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := Write(DefaultSettings(), path); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := Watch(path)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case s := <-w.Updates:
		t.Fatalf("unexpected reload %+v", s.Reconciler)
	case <-time.After(300 * time.Millisecond):
	}
}
