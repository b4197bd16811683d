package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg, err := Default().Validate()
	if err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.ProbeConcurrency != 100 || cfg.ResolveConcurrency != 50 {
		t.Errorf("pool sizes = %d/%d, want 100/50", cfg.ProbeConcurrency, cfg.ResolveConcurrency)
	}
	if cfg.ProbeTimeout != time.Second || cfg.ResolveTimeout != 2*time.Second {
		t.Errorf("timeouts = %s/%s, want 1s/2s", cfg.ProbeTimeout, cfg.ResolveTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "subnet override", modify: func(c *Config) { c.Subnet = "10.0.0.0/24" }},
		{name: "bad subnet", modify: func(c *Config) { c.Subnet = "10.0.0.0" }, wantErr: true},
		{name: "bad default subnet", modify: func(c *Config) { c.DefaultSubnet = "nope" }, wantErr: true},
		{name: "unknown probe", modify: func(c *Config) { c.ProbeMethod = "tcp" }, wantErr: true},
		{name: "unknown arp source", modify: func(c *Config) { c.TableSource = "snmp" }, wantErr: true},
		{name: "ping probe", modify: func(c *Config) { c.ProbeMethod = ProbePing }},
		{name: "netlink source", modify: func(c *Config) { c.TableSource = SourceNetlink }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			_, err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNormalizes(t *testing.T) {
	cfg := Default()
	cfg.DefaultSubnet = ""
	cfg.ProbeConcurrency = 0
	cfg.ResolveConcurrency = -3
	cfg.ProbeTimeout = 0
	cfg.ResolveTimeout = -time.Second
	cfg.ScanTimeout = -time.Minute
	cfg.ExcludedIPs = []string{"127.0.0.1", "127.0.0.1", "10.0.0.1"}

	got, err := cfg.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got.DefaultSubnet != DefaultSubnet {
		t.Errorf("DefaultSubnet = %q, want %q", got.DefaultSubnet, DefaultSubnet)
	}
	if got.ProbeConcurrency != 1 || got.ResolveConcurrency != 1 {
		t.Errorf("pool sizes = %d/%d, want 1/1", got.ProbeConcurrency, got.ResolveConcurrency)
	}
	if got.ProbeTimeout != time.Second || got.ResolveTimeout != 2*time.Second {
		t.Errorf("timeouts = %s/%s, want 1s/2s", got.ProbeTimeout, got.ResolveTimeout)
	}
	if got.ScanTimeout != 0 {
		t.Errorf("ScanTimeout = %s, want 0", got.ScanTimeout)
	}
	if len(got.ExcludedIPs) != 2 {
		t.Errorf("ExcludedIPs = %v, want duplicates removed", got.ExcludedIPs)
	}
	if len(cfg.ExcludedIPs) != 3 {
		t.Errorf("Validate() modified the receiver's exclusion list: %v", cfg.ExcludedIPs)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netvis.yaml")
	data := []byte("subnet: 10.10.0.0/24\nprobe: ping\nprobe-concurrency: 25\nexclude-prefixes:\n  - \"224.\"\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path, Default())
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Subnet != "10.10.0.0/24" || cfg.ProbeMethod != ProbePing || cfg.ProbeConcurrency != 25 {
		t.Errorf("LoadFile() = %+v, want file values applied", cfg)
	}
	if len(cfg.ExcludedPrefixes) != 1 {
		t.Errorf("ExcludedPrefixes = %v, want [224.]", cfg.ExcludedPrefixes)
	}
	// keys absent from the file keep their base value
	if cfg.ResolveConcurrency != 50 || cfg.TableSource != SourceAuto {
		t.Errorf("LoadFile() dropped base values: %+v", cfg)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), Default()); err == nil {
		t.Error("LoadFile() on a missing file returned no error")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("probe: [icmp\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	base := Default()
	cfg, err := LoadFile(path, base)
	if err == nil {
		t.Fatal("LoadFile() on malformed yaml returned no error")
	}
	if cfg.ProbeMethod != base.ProbeMethod {
		t.Errorf("LoadFile() returned %q on error, want base config", cfg.ProbeMethod)
	}
}
