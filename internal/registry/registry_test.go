package registry

import (
	"testing"

	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/types"
)

// mockParser implements FormatParser for testing.
type mockParser struct {
	name string
}

func (m *mockParser) Parse(sr *binary.SafeReader) (*types.File, error) {
	return &types.File{Path: m.name}, nil
}

func TestRegisterAndGet(t *testing.T) {
	// Use a format that's unlikely to conflict with real registrations
	format := types.Format(999)
	parser := &mockParser{name: "test"}

	Register(format, parser)

	got := Get(format)
	if got == nil {
		t.Fatal("Get() returned nil for registered format")
	}
	mp, ok := got.(*mockParser)
	if !ok {
		t.Fatal("Get() returned wrong parser type")
	}
	if mp.name != "test" {
		t.Errorf("Parser name = %q, want %q", mp.name, "test")
	}
}

func TestGet_Unregistered(t *testing.T) {
	if got := Get(types.Format(998)); got != nil {
		t.Errorf("Get() = %v for unregistered format, want nil", got)
	}
}

func TestRegister_Overwrites(t *testing.T) {
	format := types.Format(997)
	Register(format, &mockParser{name: "first"})
	Register(format, &mockParser{name: "second"})

	mp, ok := Get(format).(*mockParser)
	if !ok {
		t.Fatal("Get() returned wrong parser type")
	}
	if mp.name != "second" {
		t.Errorf("Parser name = %q, want %q (should be overwritten)", mp.name, "second")
	}
}

func TestParserFunc(t *testing.T) {
	called := false
	p := ParserFunc(func(sr *binary.SafeReader) (*types.File, error) {
		called = true
		return types.NewFile(sr.Path(), types.FormatMPEG, sr.Size()), nil
	})

	f, err := p.Parse(binary.NewSafeReader(nil, 12, "clip.mpg"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !called || f.Format != types.FormatMPEG || f.Size != 12 {
		t.Errorf("ParserFunc did not forward: called=%v file=%+v", called, f)
	}
}

type stubInspector struct{}

func (stubInspector) Inspect(*binary.SafeReader) (Container, error) { return nil, nil }

func TestRegisterInspector(t *testing.T) {
	prev := Inspector()
	defer RegisterInspector(prev)

	RegisterInspector(stubInspector{})
	if _, ok := Inspector().(stubInspector); !ok {
		t.Errorf("Inspector() = %T, want stubInspector", Inspector())
	}
}
