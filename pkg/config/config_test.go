package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entity.conf")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAllKeys(t *testing.T) {
	cfg, err := Load(writeConfig(t, `entityInfo.name = deviceA
entityInfo.purpose = temperature-report
entityInfo.number_key = 1
authInfo.pubkey.path = keys/auth_pub.pem
entityInfo.privkey.path = keys/device_a.pem
auth.ip.address = 10.0.0.1
auth.port.number = 9000
entity.server.ip.address = 10.0.0.2
entity.server.port.number = 9100
network.protocol = TCP
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Name:              "deviceA",
		Purpose:           "temperature-report",
		NumKey:            "1",
		AuthPubkeyPath:    "keys/auth_pub.pem",
		EntityPrivkeyPath: "keys/device_a.pem",
		AuthIPAddress:     "10.0.0.1",
		AuthPort:          "9000",
		ServerIPAddress:   "10.0.0.2",
		ServerPort:        "9100",
		NetworkProtocol:   "TCP",
	}
	if *cfg != want {
		t.Fatalf("record mismatch:\n got %+v\nwant %+v", *cfg, want)
	}
}

func TestLoadPartialFileLeavesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `entityInfo.name = deviceA
auth.ip.address = 10.0.0.1
auth.port.number = 9000
network.protocol = TCP
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "deviceA" || cfg.AuthIPAddress != "10.0.0.1" ||
		cfg.AuthPort != "9000" || cfg.NetworkProtocol != "TCP" {
		t.Fatalf("populated fields mismatch: %+v", *cfg)
	}
	if cfg.Purpose != "" || cfg.NumKey != "" || cfg.AuthPubkeyPath != "" ||
		cfg.EntityPrivkeyPath != "" || cfg.ServerIPAddress != "" || cfg.ServerPort != "" {
		t.Fatalf("absent keys must leave empty fields: %+v", *cfg)
	}
}

func TestUnknownKeysIgnored(t *testing.T) {
	var report LoadReport
	cfg, err := Load(writeConfig(t, `some.other.key = abc
EntityInfo.name = wrongcase
entityInfo.nickname = nope
`), WithReport(&report))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg != (Config{}) {
		t.Fatalf("expected empty record, got %+v", *cfg)
	}
	if report.KeysSeen != 0 {
		t.Fatalf("KeysSeen = %d, want 0", report.KeysSeen)
	}
}

func TestLastOccurrenceWins(t *testing.T) {
	cfg, err := Load(writeConfig(t, `entityInfo.name = first
entityInfo.name = second
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "second" {
		t.Fatalf("Name = %q, want second", cfg.Name)
	}
}

func TestValueIsFirstToken(t *testing.T) {
	cfg, err := Load(writeConfig(t, "entityInfo.purpose = send temperature data\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Purpose != "send" {
		t.Fatalf("Purpose = %q, want first token only", cfg.Purpose)
	}
}

func TestOneKeyPerLine(t *testing.T) {
	// Everything after the first value token is ignored, including what
	// looks like a second pair.
	cfg, err := Load(writeConfig(t, "entityInfo.name = a entityInfo.purpose = b\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "a" {
		t.Fatalf("Name = %q, want a", cfg.Name)
	}
	if cfg.Purpose != "" {
		t.Fatalf("Purpose = %q, want empty", cfg.Purpose)
	}
}

func TestMissingValue(t *testing.T) {
	_, err := Load(writeConfig(t, `entityInfo.name = deviceA
auth.port.number =
`))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Key != KeyAuthPortNumber {
		t.Fatalf("ParseError.Key = %q", perr.Key)
	}
	if perr.Line != 2 {
		t.Fatalf("ParseError.Line = %d, want 2", perr.Line)
	}
}

func TestTruncationReported(t *testing.T) {
	long := strings.Repeat("x", capShort+10)
	var report LoadReport
	cfg, err := Load(writeConfig(t, "entityInfo.name = "+long+"\n"), WithReport(&report))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Name) != capShort {
		t.Fatalf("Name length = %d, want %d", len(cfg.Name), capShort)
	}
	if cfg.Name != long[:capShort] {
		t.Fatalf("Name = %q, want prefix of the original value", cfg.Name)
	}
	if len(report.Truncated) != 1 || report.Truncated[0] != KeyEntityName {
		t.Fatalf("Truncated = %v", report.Truncated)
	}
}

func TestTruncationIsByteOriented(t *testing.T) {
	// Capacities bound bytes, not runes: a 3-byte rune straddling the
	// boundary is cut mid-sequence.
	long := strings.Repeat("€", capShort)
	var report LoadReport
	cfg, err := Load(writeConfig(t, "entityInfo.name = "+long+"\n"), WithReport(&report))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Name) != capShort {
		t.Fatalf("Name byte length = %d, want %d", len(cfg.Name), capShort)
	}
	if cfg.Name != long[:capShort] {
		t.Fatalf("Name = %q, want the raw byte prefix", cfg.Name)
	}
	if len(report.Truncated) != 1 {
		t.Fatalf("Truncated = %v", report.Truncated)
	}
}

func TestNoisyLinesSkipped(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
this line has no delimiter

entityInfo.name = deviceA
   `))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "deviceA" {
		t.Fatalf("Name = %q", cfg.Name)
	}
}

func TestNoTrailingNewline(t *testing.T) {
	cfg, err := Load(writeConfig(t, "auth.port.number = 9000"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AuthPort != "9000" {
		t.Fatalf("AuthPort = %q", cfg.AuthPort)
	}
}

func TestFileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.conf"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestFailClosed(t *testing.T) {
	cfg, err := Load(writeConfig(t, "entityInfo.name =\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	if cfg != nil {
		t.Fatalf("record must be nil on error, got %+v", *cfg)
	}
}

func TestKeysSeenCountsRepeats(t *testing.T) {
	var report LoadReport
	_, err := Load(writeConfig(t, `entityInfo.name = a
entityInfo.name = b
network.protocol = UDP
`), WithReport(&report))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if report.KeysSeen != 3 {
		t.Fatalf("KeysSeen = %d, want 3", report.KeysSeen)
	}
}

func TestMustLoadPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustLoad(filepath.Join(t.TempDir(), "absent.conf"))
}

func TestKeyField(t *testing.T) {
	cases := map[string]Field{
		KeyEntityName:        FieldName,
		KeyEntityPurpose:     FieldPurpose,
		KeyEntityNumKey:      FieldNumKey,
		KeyAuthPubkeyPath:    FieldAuthPubkeyPath,
		KeyEntityPrivkeyPath: FieldEntityPrivkeyPath,
		KeyAuthIPAddress:     FieldAuthIPAddress,
		KeyAuthPortNumber:    FieldAuthPort,
		KeyServerIPAddress:   FieldServerIPAddress,
		KeyServerPortNumber:  FieldServerPort,
		KeyNetworkProtocol:   FieldNetworkProtocol,
		"entityInfo.Name":    FieldUnknown,
		"":                   FieldUnknown,
	}
	for key, want := range cases {
		if got := KeyField(key); got != want {
			t.Errorf("KeyField(%q) = %v, want %v", key, got, want)
		}
	}
}
