package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/config"
	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/domain"
	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/store"
)

const testSnapshot = `{
  "positions": [
    {"slug": "DOT___native_staking___polkadot", "chain": "polkadot", "type": "NATIVE_STAKING",
     "address": "addrA", "balanceToken": "polkadot-NATIVE-DOT", "totalStake": "10000000000",
     "activeStake": "10000000000", "unstakeBalance": "0", "status": "EARNING_REWARD"},
    {"slug": "DOT___native_staking___polkadot", "chain": "polkadot", "type": "NATIVE_STAKING",
     "address": "addrB", "balanceToken": "polkadot-NATIVE-DOT", "totalStake": "20000000000",
     "activeStake": "20000000000", "unstakeBalance": "0", "status": "EARNING_REWARD"}
  ],
  "pools": {"DOT___native_staking___polkadot": {"chain": "polkadot", "type": "NATIVE_STAKING"}},
  "chains": {"polkadot": {"name": "Polkadot"}},
  "assets": {"polkadot-NATIVE-DOT": {"symbol": "DOT", "decimals": 10, "priceId": "polkadot"}},
  "prices": {"polkadot": "5"},
  "account": {"isAllAccount": true, "addresses": ["addrA", "addrB"], "relevantChains": ["polkadot"]}
}`

func writeTestSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(testSnapshot), 0o600); err != nil {
		t.Fatalf("writing snapshot: %v", err)
	}
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"earning"}, args...))
	return out.String(), err
}

func TestDetailCommand(t *testing.T) {
	path := writeTestSnapshot(t)

	out, err := runApp(t, "--snapshot", path, "detail", "--slug", "DOT___native_staking___polkadot")
	if err != nil {
		t.Fatalf("detail error = %v", err)
	}

	var rs domain.CompoundResult
	if err := json.Unmarshal([]byte(out), &rs); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if rs.Compound == nil || rs.Compound.Address != domain.AllAccountKey {
		t.Fatalf("Compound = %+v, want all-accounts compound", rs.Compound)
	}
	if rs.Compound.TotalStake.String() != "30000000000" {
		t.Errorf("TotalStake = %s, want 30000000000", rs.Compound.TotalStake)
	}
	if len(rs.List) != 2 {
		t.Errorf("len(List) = %d, want 2", len(rs.List))
	}
}

func TestSummaryCommand(t *testing.T) {
	path := writeTestSnapshot(t)

	out, err := runApp(t, "--snapshot", path, "summary", "--slug", "DOT___native_staking___polkadot", "--address", "addrB")
	if err != nil {
		t.Fatalf("summary error = %v", err)
	}
	want := "Staked 2 DOT (active 2 DOT) on polkadot, earning reward\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestExportCommand(t *testing.T) {
	path := writeTestSnapshot(t)
	outPath := filepath.Join(t.TempDir(), "report.xlsx")

	if _, err := runApp(t, "--snapshot", path, "export", "--out", outPath); err != nil {
		t.Fatalf("export error = %v", err)
	}
	if info, err := os.Stat(outPath); err != nil || info.Size() == 0 {
		t.Errorf("report not written: %v", err)
	}
}

func TestCommandErrors(t *testing.T) {
	t.Setenv("SNAPSHOT_PATH", "")
	path := writeTestSnapshot(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no snapshot", []string{"positions"}, "snapshot path is required"},
		{"missing slug", []string{"--snapshot", path, "detail"}, "slug"},
		{"missing file", []string{"--snapshot", filepath.Join(t.TempDir(), "nope.json"), "positions"}, "reading snapshot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewLoader(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		want    string
		wantErr bool
	}{
		{"file", config.Config{SnapshotPath: "snapshot.json"}, "*store.FileLoader", false},
		{"redis", config.Config{SnapshotPath: "snapshot.json", SnapshotRedisURL: "redis://localhost:6379/0"}, "*store.RedisLoader", false},
		{"bad redis url", config.Config{SnapshotRedisURL: "http://localhost"}, "", true},
		{"none", config.Config{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, closeFn, err := newLoader(tt.cfg, store.NewMemoryStore())
			if (err != nil) != tt.wantErr {
				t.Fatalf("newLoader() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer closeFn()
			if got := fmt.Sprintf("%T", loader); got != tt.want {
				t.Errorf("loader = %s, want %s", got, tt.want)
			}
		})
	}
}
