package log

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
}

func TestFileLoggerWritesCBOR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	event := Event{
		Timestamp: time.Now(),
		Device:    "xpp_lom_yag",
		Category:  CategoryMove,
		Move:      &MoveEvent{From: "OUT", To: "YAG"},
	}
	logger.Log(event)
	logger.Close()

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()
	decoded, err := r.Next()
	if err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if decoded.Device != event.Device {
		t.Errorf("Device: got %q, want %q", decoded.Device, event.Device)
	}
	if decoded.Move == nil || decoded.Move.To != "YAG" {
		t.Errorf("Move: got %+v", decoded.Move)
	}
	if !decoded.Timestamp.Equal(event.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, event.Timestamp)
	}
}

func TestFileLoggerIgnoresLogAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	logger.Log(Event{Device: "late"})

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("expected empty file, got %d bytes", info.Size())
	}
}

func TestReaderFiltersEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	base := time.Now()
	logger.Log(Event{Timestamp: base, Device: "yag", Category: CategoryMove, Move: &MoveEvent{From: "OUT", To: "YAG"}})
	logger.Log(Event{Timestamp: base.Add(time.Second), Device: "yag", Category: CategorySignal, Signal: &SignalEvent{Path: "state", Old: "1", New: "2"}})
	logger.Log(Event{Timestamp: base.Add(2 * time.Second), Device: "diode", Category: CategoryMove, Move: &MoveEvent{From: "OUT", To: "IN"}})
	logger.Close()

	t.Run("All", func(t *testing.T) {
		r, err := NewReader(path)
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}
		defer r.Close()

		count := 0
		for {
			_, err := r.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Fatalf("Next failed: %v", err)
			}
			count++
		}
		if count != 3 {
			t.Errorf("expected 3 events, got %d", count)
		}
	})

	t.Run("ByCategory", func(t *testing.T) {
		cat := CategoryMove
		r, err := NewFilteredReader(path, Filter{Category: &cat})
		if err != nil {
			t.Fatalf("NewFilteredReader failed: %v", err)
		}
		defer r.Close()

		var devices []string
		for {
			ev, err := r.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("Next failed: %v", err)
			}
			devices = append(devices, ev.Device)
		}
		if len(devices) != 2 || devices[0] != "yag" || devices[1] != "diode" {
			t.Errorf("unexpected devices %v", devices)
		}
	})

	t.Run("ByDeviceAndTime", func(t *testing.T) {
		start := base.Add(500 * time.Millisecond)
		r, err := NewFilteredReader(path, Filter{Device: "yag", TimeStart: &start})
		if err != nil {
			t.Fatalf("NewFilteredReader failed: %v", err)
		}
		defer r.Close()

		ev, err := r.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if ev.Signal == nil || ev.Signal.New != "2" {
			t.Errorf("unexpected event %+v", ev)
		}
		if _, err := r.Next(); err != io.EOF {
			t.Errorf("expected EOF, got %v", err)
		}
	})
}
