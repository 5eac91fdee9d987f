// Package config loads and writes the vMSC configuration file: an
// INI-like sectioned document binding the subscriber defaults, the
// seven interface descriptors, the Global Title table, and the legacy
// sections kept for backward compatibility.
//
// Tokenizing (sections, key=value pairs, #/; comments, whitespace
// tolerance) is delegated to gopkg.in/ini.v1; Load case-folds section
// names itself.
// The canonical writer format (box-drawn banners, fixed section order)
// is hand-assembled with strings.Builder, since no INI serializer
// produces it; files are replaced atomically via tempfile-then-rename.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/ini.v1"

	"github.com/protei/vmsc/pkg/routing"
	"github.com/protei/vmsc/pkg/vmscerr"
)

// Defaults applied to fields omitted from the configuration file.
// DefaultPort and DefaultM3UAPort are not applied by Load: an omitted
// port stays 0, and an omitted remote_ip leaves the endpoint to the
// transport's default peer.
const (
	DefaultSSNBSSAP = 254
	DefaultSSNGs    = 254
	DefaultSIISUP   = routing.SIISUP
	DefaultSISCCP   = routing.SISCCP
	DefaultNI       = routing.NIInternational
	DefaultTT       = 0
	DefaultNP       = 1
	DefaultNAI      = 4
	DefaultPort     = 2905
	DefaultM3UAPort = 4729
)

// Subscriber holds the [subscriber] section defaults.
type Subscriber struct {
	IMSI   string
	MSISDN string
	MSCGT  string
}

// Global holds the [gt] and legacy [network] sections.
type Global struct {
	MSCGT         string
	TT            byte
	NP            byte
	NAI           byte
	DefaultSLS    byte
	DefaultMP     byte
	LocalNetmask  string
	RemoteNetmask string
	Gateway       string
	NTPPrimary    string
	NTPSecondary  string
}

// Config is the fully parsed vMSC configuration.
type Config struct {
	mu         sync.RWMutex
	Subscriber Subscriber
	Global     Global
	Engine     *routing.Engine
}

// Default returns a Config populated with documented defaults and one
// empty descriptor per interface, ready to be overridden by Load.
func Default() *Config {
	c := &Config{Engine: routing.NewEngine()}
	c.Global.NP = DefaultNP
	c.Global.NAI = DefaultNAI

	c.Engine.Interfaces["A"] = &routing.Interface{
		Tag: "A", Variant: routing.SingleNI{}, ActiveNI: DefaultNI, ConfiguredSI: DefaultSISCCP,
		SSN: routing.SSNPair{Calling: DefaultSSNBSSAP, Called: DefaultSSNBSSAP},
	}
	c.Engine.Interfaces["C"] = &routing.Interface{
		Tag: "C", Variant: routing.SingleNI{}, ActiveNI: DefaultNI, ConfiguredSI: DefaultSISCCP,
		SSN: routing.SSNPair{Calling: DefaultSSNBSSAP, Called: DefaultSSNBSSAP},
	}
	c.Engine.Interfaces["F"] = &routing.Interface{
		Tag: "F", Variant: routing.SingleNI{}, ActiveNI: DefaultNI, ConfiguredSI: DefaultSISCCP,
		SSN: routing.SSNPair{Calling: DefaultSSNBSSAP, Called: DefaultSSNBSSAP},
	}
	c.Engine.Interfaces["E"] = &routing.Interface{
		Tag: "E", Variant: routing.MultiNI{Pairs: map[byte]routing.PCPair{}}, ActiveNI: DefaultNI, ConfiguredSI: DefaultSISCCP,
		SSN: routing.SSNPair{Calling: DefaultSSNBSSAP, Called: DefaultSSNBSSAP},
	}
	c.Engine.Interfaces["Nc"] = &routing.Interface{
		Tag: "Nc", Variant: routing.MultiNI{Pairs: map[byte]routing.PCPair{}}, ActiveNI: DefaultNI, ConfiguredSI: DefaultSISCCP,
		SSN: routing.SSNPair{Calling: DefaultSSNBSSAP, Called: DefaultSSNBSSAP},
	}
	c.Engine.Interfaces["ISUP"] = &routing.Interface{
		Tag: "ISUP", Variant: routing.MultiNI{Pairs: map[byte]routing.PCPair{}}, ActiveNI: DefaultNI, ConfiguredSI: DefaultSIISUP,
	}
	c.Engine.Interfaces["Gs"] = &routing.Interface{
		Tag: "Gs", Variant: routing.MultiNI{Pairs: map[byte]routing.PCPair{}}, ActiveNI: DefaultNI, ConfiguredSI: DefaultSISCCP,
		SSN: routing.SSNPair{Calling: DefaultSSNGs, Called: DefaultSSNGs},
	}
	return c
}

// Validate reports the first structural problem found: a missing
// subscriber identity, a GT route naming an undeclared interface, or an
// A-interface with no MCC/MNC configured.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Subscriber.IMSI == "" {
		return vmscerr.New(vmscerr.KindInvalidConfig, "subscriber.imsi is required")
	}
	if c.Subscriber.MSISDN == "" {
		return vmscerr.New(vmscerr.KindInvalidConfig, "subscriber.msisdn is required")
	}
	if a := c.Engine.Interfaces["A"]; a != nil && (a.MCC == "" || a.MNC == "") {
		return vmscerr.New(vmscerr.KindInvalidConfig, "a-interface.mcc and a-interface.mnc are required")
	}
	for _, r := range c.Engine.Routes {
		if _, ok := c.Engine.Interfaces[r.Iface]; !ok {
			return vmscerr.New(vmscerr.KindInvalidConfig, "gt-route %q references undeclared interface %q", r.Prefix, r.Iface)
		}
	}
	return nil
}

// Load reads and parses the INI-like config file at path. A structurally
// unreadable file returns InvalidConfig; unrecognized keys are ignored.
func Load(path string) (*Config, error) {
	f, err := ini.LoadSources(ini.LoadOptions{AllowShadows: true}, path)
	if err != nil {
		return nil, vmscerr.Wrap(vmscerr.KindInvalidConfig, err, "reading config file %s", path)
	}

	cfg := Default()

	for _, sec := range f.Sections() {
		name := strings.ToLower(strings.TrimSpace(sec.Name()))
		switch name {
		case "subscriber":
			parseSubscriber(sec, cfg)
		case "a-interface":
			parseAInterface(sec, cfg)
		case "c-interface":
			parseSingleNIInterface(sec, cfg, "C")
		case "f-interface":
			parseSingleNIInterface(sec, cfg, "F")
		case "e-interface":
			parseMultiNIInterface(sec, cfg, "E", []byte{0, 2, 3})
		case "nc-interface":
			parseMultiNIInterface(sec, cfg, "Nc", []byte{0, 2, 3})
		case "isup-interface":
			parseMultiNIInterface(sec, cfg, "ISUP", []byte{0, 2})
		case "gs-interface":
			parseMultiNIInterface(sec, cfg, "Gs", []byte{2, 3})
		case "gt":
			parseGT(sec, cfg)
		case "gt-route":
			parseGTRoutes(sec, cfg)
		case "network":
			parseNetwork(sec, cfg)
		case "m3ua":
			parseLegacyM3UA(sec, cfg)
		case "identity":
			parseLegacyIdentity(sec, cfg)
		case "bssmap":
			parseLegacyBSSMAP(sec, cfg)
		case "transport":
			parseLegacyTransport(sec, cfg)
		default:
			// unknown section: forward-compatible, ignored
		}
	}

	return cfg, nil
}

func parseSubscriber(sec *ini.Section, cfg *Config) {
	cfg.Subscriber.IMSI = sec.Key("imsi").String()
	cfg.Subscriber.MSISDN = sec.Key("msisdn").String()
	cfg.Subscriber.MSCGT = sec.Key("msc_gt").String()
}

func parseAInterface(sec *ini.Section, cfg *Config) {
	iface := cfg.Engine.Interfaces["A"]
	iface.MCC = sec.Key("mcc").String()
	iface.MNC = sec.Key("mnc").String()
	iface.LAC = keyUint16(sec, "lac", iface.LAC)
	iface.CellID = keyUint16(sec, "cell_id", iface.CellID)
	iface.Variant = routing.SingleNI{Pair: routing.PCPair{
		OPC: keyUint32(sec, "opc", 0),
		DPC: keyUint32(sec, "dpc", 0),
	}}
	iface.ActiveNI = keyByte(sec, "ni", iface.ActiveNI)
	iface.ConfiguredSI = keyByte(sec, "si", DefaultSISCCP)
	iface.DefaultSLS = keyByte(sec, "sls", 0)
	iface.DefaultMP = keyByte(sec, "mp", 0)
	ssn := keyByte(sec, "ssn", DefaultSSNBSSAP)
	iface.SSN = routing.SSNPair{Calling: ssn, Called: ssn}
	iface.Endpoint = parseEndpoint(sec, "local_ip", "local_port", "remote_ip", "remote_port")
	iface.LocalSPID = sec.Key("local_spid").String()
	iface.RemoteSPID = sec.Key("remote_spid").String()
}

func parseSingleNIInterface(sec *ini.Section, cfg *Config, tag string) {
	iface := cfg.Engine.Interfaces[tag]
	iface.Variant = routing.SingleNI{Pair: routing.PCPair{
		OPC: keyUint32(sec, "opc", 0),
		DPC: keyUint32(sec, "dpc", 0),
	}}
	applyCommonInterfaceKeys(sec, iface)
}

func parseMultiNIInterface(sec *ini.Section, cfg *Config, tag string, nis []byte) {
	iface := cfg.Engine.Interfaces[tag]
	pairs := map[byte]routing.PCPair{}
	for _, ni := range nis {
		pairs[ni] = routing.PCPair{
			OPC: keyUint32(sec, fmt.Sprintf("opc_ni%d", ni), 0),
			DPC: keyUint32(sec, fmt.Sprintf("dpc_ni%d", ni), 0),
		}
	}
	iface.Variant = routing.MultiNI{Pairs: pairs}
	applyCommonInterfaceKeys(sec, iface)

	// Plain opc/dpc keys apply to the active NI's pair, so a file
	// written against the single-NI key set still configures a
	// multi-NI interface.
	if sec.HasKey("opc") || sec.HasKey("dpc") {
		pair := pairs[iface.ActiveNI]
		pair.OPC = keyUint32(sec, "opc", pair.OPC)
		pair.DPC = keyUint32(sec, "dpc", pair.DPC)
		pairs[iface.ActiveNI] = pair
	}
}

func applyCommonInterfaceKeys(sec *ini.Section, iface *routing.Interface) {
	iface.ActiveNI = keyByte(sec, "ni", iface.ActiveNI)
	iface.ConfiguredSI = keyByte(sec, "si", iface.ConfiguredSI)
	iface.GTIndicator = sec.Key("gt_ind").MustBool(iface.GTIndicator)
	iface.CalledGT = sec.Key("gt_called").String()
	iface.SSN = routing.SSNPair{
		Calling: keyByte(sec, "ssn_local", iface.SSN.Calling),
		Called:  keyByte(sec, "ssn_remote", iface.SSN.Called),
	}
	iface.Endpoint = parseEndpoint(sec, "local_ip", "local_port", "remote_ip", "remote_port")
	iface.LocalSPID = sec.Key("local_spid").String()
	iface.RemoteSPID = sec.Key("remote_spid").String()
}

func parseEndpoint(sec *ini.Section, localIPKey, localPortKey, remoteIPKey, remotePortKey string) routing.EndpointPair {
	return routing.EndpointPair{
		Local: routing.Endpoint{
			Host: sec.Key(localIPKey).String(),
			Port: keyUint16(sec, localPortKey, 0),
		},
		Remote: routing.Endpoint{
			Host: sec.Key(remoteIPKey).String(),
			Port: keyUint16(sec, remotePortKey, 0),
		},
	}
}

func parseGT(sec *ini.Section, cfg *Config) {
	cfg.Global.MSCGT = sec.Key("msc_gt").String()
	cfg.Global.TT = keyByte(sec, "tt", cfg.Global.TT)
	cfg.Global.NP = keyByte(sec, "np", cfg.Global.NP)
	cfg.Global.NAI = keyByte(sec, "nai", cfg.Global.NAI)
}

func parseGTRoutes(sec *ini.Section, cfg *Config) {
	values := sec.Key("route").ValueWithShadows()
	for _, v := range values {
		route, ok := parseGTRouteLine(v)
		if ok {
			cfg.Engine.Routes = append(cfg.Engine.Routes, route)
		}
	}
}

func parseGTRouteLine(line string) (routing.GTRoute, bool) {
	parts := strings.Split(line, ":")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 4 {
		return routing.GTRoute{}, false
	}
	dpc, _ := strconv.ParseUint(parts[2], 10, 32)
	route := routing.GTRoute{
		Prefix:      parts[0],
		Iface:       parts[1],
		DPCOverride: uint32(dpc),
		Description: parts[3],
	}
	if len(parts) >= 5 {
		route.SPID = parts[4]
	}
	return route, true
}

func parseNetwork(sec *ini.Section, cfg *Config) {
	cfg.Global.LocalNetmask = sec.Key("local_netmask").String()
	cfg.Global.RemoteNetmask = sec.Key("remote_netmask").String()
	cfg.Global.Gateway = sec.Key("gateway").String()
	cfg.Global.NTPPrimary = sec.Key("ntp_primary").String()
	cfg.Global.NTPSecondary = sec.Key("ntp_secondary").String()
	cfg.Global.DefaultSLS = keyByte(sec, "default_sls", cfg.Global.DefaultSLS)
	cfg.Global.DefaultMP = keyByte(sec, "default_mp", cfg.Global.DefaultMP)
}

// parseLegacyM3UA maps the legacy [m3ua] section's opc_ni3/dpc_ni3 keys
// onto the single A-interface OPC/DPC.
func parseLegacyM3UA(sec *ini.Section, cfg *Config) {
	if !sec.HasKey("opc_ni3") && !sec.HasKey("dpc_ni3") {
		return
	}
	a := cfg.Engine.Interfaces["A"]
	single, _ := a.Variant.(routing.SingleNI)
	single.Pair.OPC = keyUint32(sec, "opc_ni3", single.Pair.OPC)
	single.Pair.DPC = keyUint32(sec, "dpc_ni3", single.Pair.DPC)
	a.Variant = single
}

func parseLegacyIdentity(sec *ini.Section, cfg *Config) {
	if v := sec.Key("imsi").String(); v != "" {
		cfg.Subscriber.IMSI = v
	}
	if v := sec.Key("msisdn").String(); v != "" {
		cfg.Subscriber.MSISDN = v
	}
	if v := sec.Key("msc_gt").String(); v != "" {
		cfg.Subscriber.MSCGT = v
		cfg.Global.MSCGT = v
	}
}

func parseLegacyBSSMAP(sec *ini.Section, cfg *Config) {
	a := cfg.Engine.Interfaces["A"]
	if sec.HasKey("ssn") {
		ssn := keyByte(sec, "ssn", a.SSN.Calling)
		a.SSN = routing.SSNPair{Calling: ssn, Called: ssn}
	}
	a.ConfiguredSI = keyByte(sec, "si", a.ConfiguredSI)
	a.DefaultSLS = keyByte(sec, "sls", a.DefaultSLS)
	a.DefaultMP = keyByte(sec, "mp", a.DefaultMP)
}

func parseLegacyTransport(sec *ini.Section, cfg *Config) {
	a := cfg.Engine.Interfaces["A"]
	a.Endpoint = parseEndpoint(sec, "local_ip", "local_port", "remote_ip", "remote_port")
}

func keyByte(sec *ini.Section, key string, def byte) byte {
	return byte(sec.Key(key).MustInt(int(def)))
}

func keyUint16(sec *ini.Section, key string, def uint16) uint16 {
	return uint16(sec.Key(key).MustInt(int(def)))
}

func keyUint32(sec *ini.Section, key string, def uint32) uint32 {
	return uint32(sec.Key(key).MustInt64(int64(def)))
}
