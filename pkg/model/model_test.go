package model

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jortiz-slac/pcdsdevices/pkg/log"
	"github.com/jortiz-slac/pcdsdevices/pkg/log/mocks"
	"github.com/stretchr/testify/mock"
)

func TestSignalBasics(t *testing.T) {
	sig := NewSignal(&SignalMetadata{
		Name:     "user_setpoint",
		PV:       "TST:MMS:01",
		Type:     DataTypeFloat,
		Access:   AccessReadWrite,
		Default:  0.0,
		MinValue: -10.0,
		MaxValue: 10.0,
		Units:    "mm",
	})

	t.Run("Name", func(t *testing.T) {
		if sig.Name() != "user_setpoint" {
			t.Errorf("expected name user_setpoint, got %s", sig.Name())
		}
	})

	t.Run("DefaultValue", func(t *testing.T) {
		if sig.Get() != 0.0 {
			t.Errorf("expected default 0, got %v", sig.Get())
		}
	})

	t.Run("Put", func(t *testing.T) {
		if err := sig.Put(3.5); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if v, ok := sig.Float(); !ok || v != 3.5 {
			t.Errorf("expected 3.5, got %v (ok=%v)", v, ok)
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		err := sig.Put(11.0)
		if !errors.Is(err, ErrSignalOutOfRange) {
			t.Errorf("expected ErrSignalOutOfRange, got %v", err)
		}
	})

	t.Run("WrongType", func(t *testing.T) {
		err := sig.Put("far")
		if !errors.Is(err, ErrSignalValueType) {
			t.Errorf("expected ErrSignalValueType, got %v", err)
		}
	})
}

func TestSignalReadOnly(t *testing.T) {
	sig := NewSignal(&SignalMetadata{
		Name:    "user_readback",
		Type:    DataTypeFloat,
		Access:  AccessReadOnly,
		Default: 0.0,
	})

	if err := sig.Put(1.0); !errors.Is(err, ErrSignalNotWritable) {
		t.Errorf("expected ErrSignalNotWritable, got %v", err)
	}
	if err := sig.SimPut(1.0); err != nil {
		t.Fatalf("SimPut failed: %v", err)
	}
	if sig.Get() != 1.0 {
		t.Errorf("expected 1.0 after SimPut, got %v", sig.Get())
	}
}

func TestSignalSubscribers(t *testing.T) {
	sig := NewSignal(&SignalMetadata{Name: "x", Type: DataTypeInt, Access: AccessReadWrite, Default: 0})

	var calls int
	var lastOld, lastNew any
	sub := SubscriberFunc(func(_ *Signal, old, value any) {
		calls++
		lastOld, lastNew = old, value
	})
	sig.Subscribe(sub)

	_ = sig.Put(1)
	_ = sig.Put(1) // unchanged, no notification
	_ = sig.Put(2)

	if calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", calls)
	}
	if lastOld != 1 || lastNew != 2 {
		t.Errorf("expected 1 -> 2, got %v -> %v", lastOld, lastNew)
	}
}

func TestSignalReadHook(t *testing.T) {
	sig := NewSignal(&SignalMetadata{Name: "energy", Type: DataTypeFloat, Access: AccessReadOnly, Default: 0.0})
	_ = sig.SimPut(9.0)

	override := true
	sig.SetReadHook(func() (any, bool) {
		if override {
			return 42.0, true
		}
		return nil, false
	})

	if sig.Get() != 42.0 {
		t.Errorf("expected hook value 42, got %v", sig.Get())
	}
	override = false
	if sig.Get() != 9.0 {
		t.Errorf("expected stored value 9, got %v", sig.Get())
	}
}

func TestEnumSignal(t *testing.T) {
	e := NewEnumSignal(&SignalMetadata{Name: "state", Access: AccessReadWrite}, []string{"Unknown", "OUT", "C", "Si"})

	t.Run("InitialUnknown", func(t *testing.T) {
		if e.Index() != 0 || e.String() != "Unknown" {
			t.Errorf("expected Unknown, got %d %q", e.Index(), e.String())
		}
	})

	t.Run("PutIndex", func(t *testing.T) {
		if err := e.SimPut(1); err != nil {
			t.Fatalf("SimPut failed: %v", err)
		}
		if e.String() != "OUT" {
			t.Errorf("expected OUT, got %q", e.String())
		}
	})

	t.Run("PutName", func(t *testing.T) {
		if err := e.Put("Si"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if e.Index() != 3 {
			t.Errorf("expected index 3, got %d", e.Index())
		}
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		if err := e.Put("out"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if e.String() != "OUT" {
			t.Errorf("expected OUT, got %q", e.String())
		}
	})

	t.Run("InvalidName", func(t *testing.T) {
		if err := e.Put("Ge"); !errors.Is(err, ErrEnumValue) {
			t.Errorf("expected ErrEnumValue, got %v", err)
		}
	})

	t.Run("IndexOutOfRange", func(t *testing.T) {
		if err := e.SimPut(7); !errors.Is(err, ErrSignalOutOfRange) {
			t.Errorf("expected ErrSignalOutOfRange, got %v", err)
		}
	})

	t.Run("SimSetEnumStrs", func(t *testing.T) {
		e.SimSetEnumStrs([]string{"Unknown", "IN", "OUT"})
		_ = e.SimPut(1)
		if e.String() != "IN" {
			t.Errorf("expected IN, got %q", e.String())
		}
		if len(e.EnumStrs()) != 3 {
			t.Errorf("expected 3 enum strings, got %v", e.EnumStrs())
		}
	})
}

func TestDeviceComponents(t *testing.T) {
	root := NewDevice("TST:LOM", "tst_lom")
	child := NewDevice("TST:LOM:H1N", "tst_lom_h1n")
	state := NewEnumSignal(&SignalMetadata{Name: "state", Access: AccessReadWrite}, []string{"Unknown", "C"})
	child.MustAdd("state", state)
	root.MustAdd("h1n_state", child)
	root.MustAdd("offset", NewSignal(&SignalMetadata{Name: "offset", Type: DataTypeFloat, Default: 1.0}))

	t.Run("Duplicate", func(t *testing.T) {
		if err := root.Add("offset", child); !errors.Is(err, ErrDuplicateComponent) {
			t.Errorf("expected ErrDuplicateComponent, got %v", err)
		}
	})

	t.Run("Lookup", func(t *testing.T) {
		c, err := root.Lookup("h1n_state.state")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if c != state {
			t.Errorf("expected state signal, got %T", c)
		}
	})

	t.Run("LookupMissing", func(t *testing.T) {
		if _, err := root.Lookup("h1n_state.nope"); !errors.Is(err, ErrComponentNotFound) {
			t.Errorf("expected ErrComponentNotFound, got %v", err)
		}
		if _, err := root.Lookup("offset.deeper"); !errors.Is(err, ErrComponentNotFound) {
			t.Errorf("expected ErrComponentNotFound through a signal, got %v", err)
		}
	})

	t.Run("Walk", func(t *testing.T) {
		var paths []string
		root.Walk(func(path string, _ *Signal) { paths = append(paths, path) })
		if len(paths) != 2 || paths[0] != "h1n_state.state" || paths[1] != "offset" {
			t.Errorf("unexpected walk order %v", paths)
		}
	})
}

func TestDeviceRecordsSignalChanges(t *testing.T) {
	root := NewDevice("TST", "tst")
	state := NewEnumSignal(&SignalMetadata{Name: "state", PV: "TST:STATE", Access: AccessReadWrite}, []string{"Unknown", "OUT", "IN"})
	root.MustAdd("state", state)

	events := mocks.NewMockLogger(t)
	events.EXPECT().Log(mock.MatchedBy(func(ev log.Event) bool {
		return ev.Category == log.CategorySignal &&
			ev.Signal.Path == "state" && ev.Signal.PV == "TST:STATE" &&
			ev.Signal.Old == "0" && ev.Signal.New == "2"
	})).Once()

	root.SetEventLogger(events)
	root.RecordSignalChanges()

	if err := state.Put("IN"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
}

func TestStatus(t *testing.T) {
	t.Run("CallbackAfterFinish", func(t *testing.T) {
		st := NewStatus("motor")
		var got any
		st.AddCallback(func(s *Status) { got = s.Obj() })
		if got != nil {
			t.Fatal("callback ran before completion")
		}
		st.MarkFinished(nil)
		if got != "motor" {
			t.Errorf("expected callback with motor, got %v", got)
		}
		if !st.Success() {
			t.Error("expected success")
		}
	})

	t.Run("CallbackOnFinished", func(t *testing.T) {
		st := FinishedStatus(nil)
		called := false
		st.AddCallback(func(*Status) { called = true })
		if !called {
			t.Error("callback on finished status did not run")
		}
	})

	t.Run("MarkFinishedOnce", func(t *testing.T) {
		st := NewStatus(nil)
		st.MarkFinished(errors.New("first"))
		st.MarkFinished(nil)
		if st.Err() == nil || st.Err().Error() != "first" {
			t.Errorf("expected first error to stick, got %v", st.Err())
		}
	})

	t.Run("WaitTimeout", func(t *testing.T) {
		st := NewStatus(nil)
		err := st.WaitTimeout(context.Background(), 10*time.Millisecond)
		if !errors.Is(err, ErrStatusTimeout) {
			t.Errorf("expected ErrStatusTimeout, got %v", err)
		}
	})

	t.Run("WaitAsync", func(t *testing.T) {
		st := NewStatus(nil)
		go func() {
			time.Sleep(5 * time.Millisecond)
			st.MarkFinished(nil)
		}()
		if err := st.Wait(context.Background()); err != nil {
			t.Errorf("Wait failed: %v", err)
		}
	})
}

func TestAndStatus(t *testing.T) {
	a := NewStatus("a")
	b := NewStatus("b")
	all := AndStatus("both", a, b)

	a.MarkFinished(nil)
	if all.Finished() {
		t.Fatal("combined status finished early")
	}
	b.MarkFinished(errors.New("stalled"))
	if !all.Finished() {
		t.Fatal("combined status did not finish")
	}
	if all.Err() == nil {
		t.Error("expected combined error")
	}

	if !AndStatus(nil).Success() {
		t.Error("empty AndStatus should succeed")
	}
}

func TestComplete(t *testing.T) {
	st := NewStatus("yag")
	var moved any
	go st.MarkFinished(nil)

	if _, err := Complete(context.Background(), st, MoveOptions{
		Wait:    true,
		Timeout: time.Second,
		MovedCB: func(obj any) { moved = obj },
	}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if moved != "yag" {
		t.Errorf("expected moved callback with yag, got %v", moved)
	}
}
