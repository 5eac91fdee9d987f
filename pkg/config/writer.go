package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/protei/vmsc/pkg/routing"
	"github.com/protei/vmsc/pkg/vmscerr"
)

const bannerWidth = 62

// banner renders a box-drawn section separator as a block of INI
// comment lines, so it round-trips through any parser untouched.
func banner(title string) string {
	var b strings.Builder
	inner := bannerWidth - 2
	b.WriteString("# ┌" + strings.Repeat("─", inner) + "┐\n")
	b.WriteString(fmt.Sprintf("# │ %-*s│\n", inner-1, title))
	b.WriteString("# └" + strings.Repeat("─", inner) + "┘\n")
	return b.String()
}

// Write renders cfg to its canonical textual form: subscriber, then A,
// C, F, E, Nc, ISUP, Gs, gt, gt-route, network, in that fixed order,
// with NI variants always enumerated and an SPID block only when at
// least one SPID string is non-empty.
func Write(cfg *Config) string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	var b strings.Builder

	b.WriteString(banner("vMSC CONFIGURATION"))
	b.WriteString("\n")

	b.WriteString(banner("SUBSCRIBER"))
	b.WriteString("[subscriber]\n")
	b.WriteString(kv("imsi", cfg.Subscriber.IMSI))
	b.WriteString(kv("msisdn", cfg.Subscriber.MSISDN))
	b.WriteString(kv("msc_gt", cfg.Subscriber.MSCGT))
	b.WriteString("\n")

	writeSingleNI(&b, cfg, "A", "a-interface", true)
	writeSingleNI(&b, cfg, "C", "c-interface", false)
	writeSingleNI(&b, cfg, "F", "f-interface", false)
	writeMultiNI(&b, cfg, "E", "e-interface", []byte{0, 2, 3})
	writeMultiNI(&b, cfg, "Nc", "nc-interface", []byte{0, 2, 3})
	writeMultiNI(&b, cfg, "ISUP", "isup-interface", []byte{0, 2})
	writeMultiNI(&b, cfg, "Gs", "gs-interface", []byte{2, 3})

	b.WriteString(banner("GLOBAL TITLE"))
	b.WriteString("[gt]\n")
	b.WriteString(kv("msc_gt", cfg.Global.MSCGT))
	b.WriteString(kvInt("tt", int(cfg.Global.TT)))
	b.WriteString(kvInt("np", int(cfg.Global.NP)))
	b.WriteString(kvInt("nai", int(cfg.Global.NAI)))
	b.WriteString("\n")

	b.WriteString(banner("GT ROUTES"))
	b.WriteString("[gt-route]\n")
	for _, r := range cfg.Engine.Routes {
		line := fmt.Sprintf("%s : %s : %d : %s", r.Prefix, r.Iface, r.DPCOverride, r.Description)
		if r.SPID != "" {
			line += " : " + r.SPID
		}
		b.WriteString("route = " + line + "\n")
	}
	b.WriteString("\n")

	b.WriteString(banner("NETWORK"))
	b.WriteString("[network]\n")
	b.WriteString(kv("local_netmask", cfg.Global.LocalNetmask))
	b.WriteString(kv("remote_netmask", cfg.Global.RemoteNetmask))
	b.WriteString(kv("gateway", cfg.Global.Gateway))
	b.WriteString(kv("ntp_primary", cfg.Global.NTPPrimary))
	b.WriteString(kv("ntp_secondary", cfg.Global.NTPSecondary))
	b.WriteString(kvInt("default_sls", int(cfg.Global.DefaultSLS)))
	b.WriteString(kvInt("default_mp", int(cfg.Global.DefaultMP)))

	return b.String()
}

// WriteFile renders cfg and atomically replaces path with the result,
// via a temp-file-then-rename write.
func WriteFile(cfg *Config, path string) error {
	data := Write(cfg)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(data), 0644); err != nil {
		return vmscerr.Wrap(vmscerr.KindInvalidConfig, err, "writing temp config file %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return vmscerr.Wrap(vmscerr.KindInvalidConfig, err, "replacing config file %s", path)
	}
	return nil
}

func writeSingleNI(b *strings.Builder, cfg *Config, tag, section string, aInterface bool) {
	iface := cfg.Engine.Interfaces[tag]
	single, _ := iface.Variant.(routing.SingleNI)

	b.WriteString(banner(strings.ToUpper(tag) + "-INTERFACE"))
	b.WriteString("[" + section + "]\n")
	if aInterface {
		b.WriteString(kv("mcc", iface.MCC))
		b.WriteString(kv("mnc", iface.MNC))
		b.WriteString(kvInt("lac", int(iface.LAC)))
		b.WriteString(kvInt("cell_id", int(iface.CellID)))
	}
	b.WriteString(kvInt("opc", int(single.Pair.OPC)))
	b.WriteString(kvInt("dpc", int(single.Pair.DPC)))
	b.WriteString(kvInt("ni", int(iface.ActiveNI)))
	b.WriteString(kvInt("si", int(iface.ConfiguredSI)))
	b.WriteString(kvInt("sls", int(iface.DefaultSLS)))
	b.WriteString(kvInt("mp", int(iface.DefaultMP)))
	if aInterface {
		b.WriteString(kvInt("ssn", int(iface.SSN.Calling)))
	} else {
		b.WriteString(kvInt("ssn_local", int(iface.SSN.Calling)))
		b.WriteString(kvInt("ssn_remote", int(iface.SSN.Called)))
		b.WriteString(kvBool("gt_ind", iface.GTIndicator))
		b.WriteString(kv("gt_called", iface.CalledGT))
	}
	writeEndpoint(b, iface.Endpoint)
	writeSPIDBlock(b, iface)
	b.WriteString("\n")
}

func writeMultiNI(b *strings.Builder, cfg *Config, tag, section string, nis []byte) {
	iface := cfg.Engine.Interfaces[tag]
	multi, _ := iface.Variant.(routing.MultiNI)

	b.WriteString(banner(strings.ToUpper(tag) + "-INTERFACE"))
	b.WriteString("[" + section + "]\n")
	for _, ni := range nis {
		pair := multi.Pairs[ni]
		b.WriteString(kvInt(fmt.Sprintf("opc_ni%d", ni), int(pair.OPC)))
		b.WriteString(kvInt(fmt.Sprintf("dpc_ni%d", ni), int(pair.DPC)))
	}
	b.WriteString(kvInt("ni", int(iface.ActiveNI)))
	b.WriteString(kvInt("si", int(iface.ConfiguredSI)))
	b.WriteString(kvBool("gt_ind", iface.GTIndicator))
	b.WriteString(kv("gt_called", iface.CalledGT))
	b.WriteString(kvInt("ssn_local", int(iface.SSN.Calling)))
	b.WriteString(kvInt("ssn_remote", int(iface.SSN.Called)))
	writeEndpoint(b, iface.Endpoint)
	writeSPIDBlock(b, iface)
	b.WriteString("\n")
}

func writeEndpoint(b *strings.Builder, ep routing.EndpointPair) {
	b.WriteString(kv("local_ip", ep.Local.Host))
	b.WriteString(kvInt("local_port", int(ep.Local.Port)))
	b.WriteString(kv("remote_ip", ep.Remote.Host))
	b.WriteString(kvInt("remote_port", int(ep.Remote.Port)))
}

func writeSPIDBlock(b *strings.Builder, iface *routing.Interface) {
	if iface.LocalSPID == "" && iface.RemoteSPID == "" {
		return
	}
	b.WriteString(kv("local_spid", iface.LocalSPID))
	b.WriteString(kv("remote_spid", iface.RemoteSPID))
}

func kv(key, value string) string {
	return fmt.Sprintf("%s = %s\n", key, value)
}

func kvInt(key string, value int) string {
	return fmt.Sprintf("%s = %d\n", key, value)
}

func kvBool(key string, value bool) string {
	return fmt.Sprintf("%s = %t\n", key, value)
}
