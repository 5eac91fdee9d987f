package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/protei/vmsc/pkg/routing"
)

const sampleConfig = `
[subscriber]
imsi = 250990123456789
msisdn = 79991234567
msc_gt = 79990000000

[a-interface]
mcc = 250
mnc = 99
lac = 12345
cell_id = 1
opc = 14001
dpc = 14002
ni = 3
si = 3
ssn = 254
local_ip = 127.0.0.1
local_port = 2905
remote_ip = 127.0.0.1
remote_port = 4729

[isup-interface]
opc_ni0 = 1
dpc_ni0 = 2
opc_ni2 = 3
dpc_ni2 = 4
ni = 2

[gt]
msc_gt = 79990000000
tt = 0
np = 1
nai = 4

[gt-route]
route = 7999 : A : 0 : primary BSSAP route
route = 1 : ISUP : 500 : PSTN egress : SPID-1

[network]
local_netmask = 255.255.255.0
remote_netmask = 255.255.255.0
gateway = 127.0.0.1
default_sls = 1
default_mp = 0
`

func TestLoadParsesSubscriberAndAInterface(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vmsc.conf")
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Subscriber.IMSI != "250990123456789" {
		t.Fatalf("unexpected IMSI: %q", cfg.Subscriber.IMSI)
	}
	a := cfg.Engine.Interfaces["A"]
	if a.MCC != "250" || a.MNC != "99" || a.LAC != 12345 {
		t.Fatalf("unexpected a-interface: %+v", a)
	}

	if len(cfg.Engine.Routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(cfg.Engine.Routes))
	}
	if cfg.Engine.Routes[1].SPID != "SPID-1" {
		t.Fatalf("expected second route SPID to round-trip, got %q", cfg.Engine.Routes[1].SPID)
	}
}

func TestLoadLegacyM3UASection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vmsc.conf")
	legacy := "[identity]\nimsi = 1\nmsisdn = 2\n\n[m3ua]\nopc_ni3 = 500\ndpc_ni3 = 600\n"
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pair, ok := cfg.Engine.Interfaces["A"].ActiveNIPair()
	if !ok || pair.OPC != 500 || pair.DPC != 600 {
		t.Fatalf("legacy m3ua section did not map to a-interface pair: %+v ok=%v", pair, ok)
	}
}

func TestLoadISUPDefaultsSITo5(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vmsc.conf")
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Engine.Interfaces["ISUP"].ConfiguredSI; got != 5 {
		t.Fatalf("expected ISUP si to default to 5, got %d", got)
	}
}

func TestLoadPlainPointCodesOnMultiNIInterface(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vmsc.conf")
	fixture := "[e-interface]\nni = 2\nopc = 700\ndpc = 800\n"
	if err := os.WriteFile(path, []byte(fixture), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pair, ok := cfg.Engine.Interfaces["E"].ActiveNIPair()
	if !ok || pair.OPC != 700 || pair.DPC != 800 {
		t.Fatalf("expected plain opc/dpc to land on the active NI pair, got %+v ok=%v", pair, ok)
	}
}

func TestValidateRejectsMissingSubscriber(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate to reject a config with no subscriber identity")
	}
}

func TestValidateRejectsUndeclaredRouteInterface(t *testing.T) {
	cfg := Default()
	cfg.Subscriber.IMSI = "1"
	cfg.Subscriber.MSISDN = "2"
	cfg.Engine.Interfaces["A"].MCC = "250"
	cfg.Engine.Interfaces["A"].MNC = "99"
	cfg.Engine.Routes = append(cfg.Engine.Routes, routing.GTRoute{Prefix: "1", Iface: "Ghost"})
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate to reject a route naming an undeclared interface")
	}
}

func TestRoundTripWriteThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vmsc.conf")
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	original, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	rewritten := filepath.Join(dir, "rewritten.conf")
	if err := WriteFile(original, rewritten); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	roundTripped, err := Load(rewritten)
	if err != nil {
		t.Fatalf("Load(rewritten): %v", err)
	}

	if roundTripped.Subscriber != original.Subscriber {
		t.Fatalf("subscriber did not round-trip: got %+v want %+v", roundTripped.Subscriber, original.Subscriber)
	}
	oa, ra := original.Engine.Interfaces["A"], roundTripped.Engine.Interfaces["A"]
	if oa.MCC != ra.MCC || oa.MNC != ra.MNC || oa.LAC != ra.LAC || oa.CellID != ra.CellID {
		t.Fatalf("a-interface identity fields did not round-trip: got %+v want %+v", ra, oa)
	}
	op, _ := oa.ActiveNIPair()
	rp, _ := ra.ActiveNIPair()
	if op != rp {
		t.Fatalf("a-interface point-code pair did not round-trip: got %+v want %+v", rp, op)
	}
	if len(roundTripped.Engine.Routes) != len(original.Engine.Routes) {
		t.Fatalf("route count did not round-trip: got %d want %d", len(roundTripped.Engine.Routes), len(original.Engine.Routes))
	}
	if roundTripped.Engine.Routes[1].SPID != original.Engine.Routes[1].SPID {
		t.Fatalf("route SPID did not round-trip: got %q want %q", roundTripped.Engine.Routes[1].SPID, original.Engine.Routes[1].SPID)
	}
}
