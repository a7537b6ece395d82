package battery

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/markup"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/text"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/widget"
)

// batFS builds a sysfs-like battery directory. Values get the trailing
// newline the kernel writes.
func batFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, v := range files {
		m[name] = &fstest.MapFile{Data: []byte(v + "\n")}
	}
	return m
}

func discharging() fstest.MapFS {
	return batFS(map[string]string{
		"current_now": "500000",
		"charge_now":  "2000000",
		"capacity":    "73",
		"status":      "Discharging",
	})
}

func newTestBattery(t *testing.T, fsys fs.FS, render widget.Renderer[Info]) *Battery {
	t.Helper()
	b, err := New(Config{
		FS:     fsys,
		Attr:   text.Attributes{Font: "monospace", Foreground: "#ffffff"},
		Render: render,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestReadDischarging(t *testing.T) {
	b := newTestBattery(t, discharging(), nil)
	info, err := b.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if info.Status != StatusDischarging {
		t.Errorf("Status = %v, want Discharging", info.Status)
	}
	if info.Capacity != 73 {
		t.Errorf("Capacity = %d, want 73", info.Capacity)
	}
	if diff := info.TimeTillEmpty - 4*time.Hour; diff < -time.Millisecond || diff > time.Millisecond {
		t.Errorf("TimeTillEmpty = %v, want ~4h", info.TimeTillEmpty)
	}
}

func TestParseStatus(t *testing.T) {
	tests := map[string]Status{
		"Charging":       StatusCharging,
		"Discharging":    StatusDischarging,
		"Full":           StatusFull,
		"Not Charging":   StatusNotCharging,
		"Not Charging\n": StatusNotCharging,
		"  Full  ":       StatusFull,
		"Unknown":        StatusUnknown,
		"not charging":   StatusUnknown,
		"Not charging":   StatusUnknown,
		"charging":       StatusUnknown,
		"":               StatusUnknown,
		"Full!":          StatusUnknown,
	}
	for in, want := range tests {
		if got := ParseStatus(in); got != want {
			t.Errorf("ParseStatus(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusUnknown:     "Unknown",
		StatusCharging:    "Charging",
		StatusDischarging: "Discharging",
		StatusNotCharging: "NotCharging",
		StatusFull:        "Full",
		Status(42):        "Unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}

func TestTimeTillEmpty(t *testing.T) {
	tests := []struct {
		charge, current uint64
	}{
		{2000000, 500000},
		{1, 3},
		{4500000, 1234567},
		{0, 1000},
		{5000000, 5000000},
	}
	for _, tt := range tests {
		got := TimeTillEmpty(tt.charge, tt.current)
		want := 3600 * float64(tt.charge) / float64(tt.current)
		if math.Abs(got.Seconds()-want) > 1e-6 {
			t.Errorf("TimeTillEmpty(%d, %d) = %vs, want %vs", tt.charge, tt.current, got.Seconds(), want)
		}
	}
}

func TestTimeTillEmptyZeroCurrent(t *testing.T) {
	for _, charge := range []uint64{0, 1, 2000000} {
		got := TimeTillEmpty(charge, 0)
		if got != UnknownDuration {
			t.Errorf("TimeTillEmpty(%d, 0) = %v, want UnknownDuration", charge, got)
		}
	}
	if TimeTillEmpty(math.MaxUint64, 1) != UnknownDuration {
		t.Error("overflowing estimate should be UnknownDuration")
	}
}

func TestZeroCurrentRendersUnknown(t *testing.T) {
	fsys := discharging()
	fsys["current_now"] = &fstest.MapFile{Data: []byte("0\n")}
	fsys["status"] = &fstest.MapFile{Data: []byte("Full\n")}
	b := newTestBattery(t, fsys, nil)

	frags, err := b.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if got, want := frags[0].Text, "Full : 73%, : unknown"; got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}

func TestTickDefaultFormat(t *testing.T) {
	b := newTestBattery(t, discharging(), nil)
	frags, err := b.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(frags))
	}
	f := frags[0]
	if f.Text != "Discharging : 73%, : 4h0m0s" {
		t.Errorf("Text = %q", f.Text)
	}
	if f.Markup {
		t.Error("default format must not be flagged as markup")
	}
	if markup.Reserved(f.Text) {
		t.Errorf("default output contains markup-reserved characters: %q", f.Text)
	}
	if f.Stretch {
		t.Error("battery fragment should not stretch")
	}
	if f.Attr.Font != "monospace" || f.Attr.Foreground != "#ffffff" {
		t.Errorf("Attr not passed through: %+v", f.Attr)
	}
}

func TestTickCustomRenderer(t *testing.T) {
	var seen Info
	render := widget.RenderFunc[Info](func(i Info) string {
		seen = i
		return "plain anyway"
	})
	b := newTestBattery(t, discharging(), render)

	frags, err := b.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !frags[0].Markup {
		t.Error("custom renderer must set markup")
	}
	if frags[0].Text != "plain anyway" {
		t.Errorf("Text = %q", frags[0].Text)
	}
	if seen.Capacity != 73 || seen.Status != StatusDischarging {
		t.Errorf("renderer saw %+v", seen)
	}
}

func TestNotChargingScenario(t *testing.T) {
	fsys := discharging()
	fsys["status"] = &fstest.MapFile{Data: []byte("Not Charging\n")}
	b := newTestBattery(t, fsys, nil)

	info, err := b.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if info.Status != StatusNotCharging {
		t.Errorf("Status = %v, want NotCharging", info.Status)
	}
}

func TestUnknownStatusIsNotAnError(t *testing.T) {
	fsys := discharging()
	fsys["status"] = &fstest.MapFile{Data: []byte("Exploding\n")}
	b := newTestBattery(t, fsys, nil)

	info, err := b.Read(context.Background())
	if err != nil {
		t.Fatalf("unknown status should not fail the tick: %v", err)
	}
	if info.Status != StatusUnknown {
		t.Errorf("Status = %v, want Unknown", info.Status)
	}
}

func TestReadErrorsAreTickLocal(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(fstest.MapFS)
		wantErr error
	}{
		{"missing capacity", func(m fstest.MapFS) { delete(m, "capacity") }, ErrRead},
		{"missing status", func(m fstest.MapFS) { delete(m, "status") }, ErrRead},
		{"missing charge", func(m fstest.MapFS) { delete(m, "charge_now") }, ErrRead},
		{"garbage current", func(m fstest.MapFS) {
			m["current_now"] = &fstest.MapFile{Data: []byte("lots\n")}
		}, ErrParse},
		{"negative capacity", func(m fstest.MapFS) {
			m["capacity"] = &fstest.MapFile{Data: []byte("-5\n")}
		}, ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := discharging()
			tt.mutate(fsys)
			b := newTestBattery(t, fsys, nil)

			frags, err := b.Tick(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, widget.ErrNoData) {
				t.Errorf("err = %v should match widget.ErrNoData", err)
			}
			if frags != nil {
				t.Errorf("fragments on failed tick: %+v", frags)
			}
		})
	}
}

func TestMissingChargeKeepsNotExist(t *testing.T) {
	fsys := discharging()
	delete(fsys, "charge_now")
	b := newTestBattery(t, fsys, nil)

	_, err := b.Read(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want to wrap fs.ErrNotExist", err)
	}
	if !strings.Contains(err.Error(), "charge_now") {
		t.Errorf("error should name the first missing file: %v", err)
	}
}

func TestEnergyBasedBattery(t *testing.T) {
	fsys := batFS(map[string]string{
		"power_now":  "10000000",
		"energy_now": "25000000",
		"capacity":   "40",
		"status":     "Discharging",
	})
	b := newTestBattery(t, fsys, nil)

	info, err := b.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if want := 2*time.Hour + 30*time.Minute; info.TimeTillEmpty != want {
		t.Errorf("TimeTillEmpty = %v, want %v", info.TimeTillEmpty, want)
	}
}

func TestEnergyPairIsNotMixedWithCurrent(t *testing.T) {
	// Some drivers expose current_now next to the energy_* files.
	fsys := batFS(map[string]string{
		"current_now": "1000000",
		"energy_now":  "12000000",
		"power_now":   "12000000",
		"capacity":    "50",
		"status":      "Discharging",
	})
	b := newTestBattery(t, fsys, nil)

	info, err := b.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if info.TimeTillEmpty != time.Hour {
		t.Errorf("TimeTillEmpty = %v, want 1h0m0s (energy_now / power_now)", info.TimeTillEmpty)
	}
}

func TestChargeWithoutCurrentDoesNotUsePower(t *testing.T) {
	fsys := discharging()
	delete(fsys, "current_now")
	fsys["power_now"] = &fstest.MapFile{Data: []byte("10000000\n")}
	b := newTestBattery(t, fsys, nil)

	_, err := b.Read(context.Background())
	if !errors.Is(err, ErrRead) || !strings.Contains(err.Error(), "current_now") {
		t.Errorf("err = %v, want ErrRead naming current_now", err)
	}
}

func TestReadHonorsContext(t *testing.T) {
	b := newTestBattery(t, discharging(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.Read(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFreshReadEachTick(t *testing.T) {
	fsys := discharging()
	b := newTestBattery(t, fsys, nil)

	first, _ := b.Read(context.Background())
	fsys["capacity"] = &fstest.MapFile{Data: []byte("72\n")}
	second, _ := b.Read(context.Background())

	if first.Capacity != 73 || second.Capacity != 72 {
		t.Errorf("capacities = %d, %d; want 73, 72", first.Capacity, second.Capacity)
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(Config{Path: filepath.Join(t.TempDir(), "BAT9")})
	if !errors.Is(err, ErrNoBattery) {
		t.Errorf("err = %v, want ErrNoBattery", err)
	}
	if _, err := New(Config{}); !errors.Is(err, ErrNoBattery) {
		t.Errorf("empty path err = %v, want ErrNoBattery", err)
	}

	file := filepath.Join(t.TempDir(), "file")
	os.WriteFile(file, nil, 0o644)
	if _, err := New(Config{Path: file}); !errors.Is(err, ErrNoBattery) {
		t.Errorf("file path err = %v, want ErrNoBattery", err)
	}
}

func TestNewFromRealDirectory(t *testing.T) {
	dir := t.TempDir()
	for name, v := range map[string]string{
		"current_now": "1000000",
		"charge_now":  "500000",
		"capacity":    "12",
		"status":      "Charging",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(v+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	b, err := New(Config{Name: "bat0", Path: dir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if b.Name() != "bat0" {
		t.Errorf("Name = %q", b.Name())
	}
	info, err := b.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if info.Status != StatusCharging || info.TimeTillEmpty != 30*time.Minute {
		t.Errorf("info = %+v", info)
	}

	// The file vanishing later is a tick error, not a crash.
	os.Remove(filepath.Join(dir, "status"))
	if _, err := b.Tick(context.Background()); !errors.Is(err, ErrRead) {
		t.Errorf("err = %v, want ErrRead", err)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	mk := func(name, typ string) {
		dir := filepath.Join(root, name)
		os.MkdirAll(dir, 0o755)
		if typ != "" {
			os.WriteFile(filepath.Join(dir, "type"), []byte(typ+"\n"), 0o644)
		}
	}
	mk("AC", "Mains")
	mk("BAT1", "Battery")
	mk("BAT0", "")
	mk("hidpp_battery_0", "Battery")
	mk("ucsi-source-psy", "USB")

	got, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{
		filepath.Join(root, "BAT0"),
		filepath.Join(root, "BAT1"),
		filepath.Join(root, "hidpp_battery_0"),
	}
	if len(got) != len(want) {
		t.Fatalf("Discover = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Discover[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := Discover(filepath.Join(root, "nope")); err == nil {
		t.Error("Discover on missing root should fail")
	}
}

func TestBatteryInPeriodicWidget(t *testing.T) {
	b := newTestBattery(t, discharging(), nil)
	w, err := widget.New(b, 30*time.Second)
	if err != nil {
		t.Fatalf("widget.New: %v", err)
	}
	batch := w.Tick(context.Background())
	if batch.Err != nil || len(batch.Fragments) != 1 {
		t.Errorf("batch = %+v", batch)
	}
	if w.Name() != "battery" {
		t.Errorf("Name = %q", w.Name())
	}
}
