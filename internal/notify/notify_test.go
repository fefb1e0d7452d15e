package notify

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/maskannotate/internal/mask"
	"github.com/example/maskannotate/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func capture(out *[]sent) Sender {
	return func(title, body string, opts platform.Options) error {
		*out = append(*out, sent{title, body, opts})
		return nil
	}
}

func TestDisabledEventsAreSilent(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(capture(&got)))
	n.Save("x.png")
	n.Error(errors.New("boom"))
	n.Copy("", nil)
	if len(got) != 0 {
		t.Fatalf("sent %d notifications while disabled", len(got))
	}
	var nilNotifier *Notifier
	nilNotifier.Save("x.png")
}

func TestErrorNotificationNamesMaskFile(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(capture(&got)))
	n.Enable(EventError, true)
	n.Error(&mask.IOError{Op: "write", Path: "/data/eye.mask.exudates.png", Err: os.ErrPermission})
	if len(got) != 1 {
		t.Fatalf("sent %d notifications", len(got))
	}
	if !strings.Contains(got[0].body, "eye.mask.exudates.png") {
		t.Fatalf("body = %q", got[0].body)
	}
	if got[0].opts.Urgency != platform.UrgencyCritical {
		t.Fatalf("urgency = %v", got[0].opts.Urgency)
	}
}

func TestSaveUsesAbsolutePathAndIcon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eye.mask.vein.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	var got []sent
	n := New(DefaultPreferences(), WithSender(capture(&got)))
	n.Enable(EventSave, true)
	n.Save(path)
	if len(got) != 1 || got[0].body != "Saved "+path || got[0].opts.IconPath != path {
		t.Fatalf("got %+v", got)
	}
}

func TestCopyPreviewIsRemoved(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(capture(&got)))
	n.Enable(EventCopy, true)
	n.Copy("", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if len(got) != 1 || got[0].body != "Copied view to clipboard" {
		t.Fatalf("got %+v", got)
	}
	if got[0].opts.IconPath == "" {
		t.Fatal("expected preview icon")
	}
	if _, err := os.Stat(got[0].opts.IconPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("preview not cleaned up")
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("MASKANNOTATE_NOTIFY_TITLE", "Lab")
	t.Setenv("MASKANNOTATE_NOTIFY_ERROR_TEXT", "Failed: %s")
	prefs := LoadPreferences()
	if prefs.Title != "Lab" || prefs.Events[EventError].Template != "Failed: %s" {
		t.Fatalf("prefs = %+v", prefs)
	}
	if prefs.Events[EventSave].Template != "Saved %s" {
		t.Fatal("unset event lost its default")
	}
}
