// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package config loads the construction-time tunables for a SecurityAirlock
// instance from HCL (or JSON), the way the rest of the fleet's daemons do.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"grimm.is/airlock/internal/airlock"
	"grimm.is/airlock/internal/errors"
)

// File is the on-disk shape of an airlock configuration file.
type File struct {
	HeartbeatTimeout   uint32 `hcl:"heartbeat_timeout,optional" json:"heartbeat_timeout,omitempty" yaml:"heartbeat_timeout,omitempty"`
	VolumeLimitBytes   uint32 `hcl:"volume_limit_bytes,optional" json:"volume_limit_bytes,omitempty" yaml:"volume_limit_bytes,omitempty"`
	ArpLeakInterval    uint16 `hcl:"arp_leak_interval,optional" json:"arp_leak_interval,omitempty" yaml:"arp_leak_interval,omitempty"`
	ArpBurstLimit      uint16 `hcl:"arp_burst_limit,optional" json:"arp_burst_limit,omitempty" yaml:"arp_burst_limit,omitempty"`
	PlaintextThreshold uint8  `hcl:"plaintext_threshold,optional" json:"plaintext_threshold,omitempty" yaml:"plaintext_threshold,omitempty"`

	// EgressMode selects strict ("ingress", the default) or permissive
	// ("egress") lock semantics on a per-frame violation (spec.md §4.7).
	EgressMode string `hcl:"egress_mode,optional" json:"egress_mode,omitempty" yaml:"egress_mode,omitempty"`

	// Ingress is carried through to Inputs.Ingress on every cycle but is
	// informational only; see DESIGN.md's Open Question 1.
	Ingress bool `hcl:"ingress,optional" json:"ingress,omitempty" yaml:"ingress,omitempty"`

	RxInterface string `hcl:"rx_interface,optional" json:"rx_interface,omitempty" yaml:"rx_interface,omitempty"`
	TxInterface string `hcl:"tx_interface,optional" json:"tx_interface,omitempty" yaml:"tx_interface,omitempty"`
	MetricsAddr string `hcl:"metrics_addr,optional" json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty"`
}

// DefaultFile returns a File populated entirely from DefaultConfig, for
// callers that run without an on-disk config.
func DefaultFile() *File {
	f := &File{}
	applyDefaults(f)
	return f
}

// LoadFile reads an airlock config from disk, dispatching on extension
// (.hcl/.json) and falling back to an HCL-then-JSON probe otherwise.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindConfig, "read config file")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(data)
	case ".yaml", ".yml":
		return LoadYAML(data)
	case ".hcl":
		return LoadHCL(data, path)
	default:
		if f, hclErr := LoadHCL(data, path); hclErr == nil {
			return f, nil
		}
		if f, jsonErr := LoadJSON(data); jsonErr == nil {
			return f, nil
		}
		return nil, errors.Errorf(errors.KindConfig, "could not parse %s as HCL or JSON", path)
	}
}

// LoadHCL decodes config from HCL source bytes.
func LoadHCL(data []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf(errors.KindConfig, "parse HCL: %s", diags.Error())
	}

	var f File
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &f); diags.HasErrors() {
		return nil, errors.Errorf(errors.KindConfig, "decode HCL: %s", diags.Error())
	}
	applyDefaults(&f)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadJSON decodes config from JSON source bytes.
func LoadJSON(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, errors.KindConfig, "parse JSON")
	}
	applyDefaults(&f)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadYAML decodes config from YAML source bytes, for operators who keep the
// rest of their fleet's manifests in YAML rather than HCL.
func LoadYAML(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, errors.KindConfig, "parse YAML")
	}
	applyDefaults(&f)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// WriteHCL renders f as HCL source, attribute-by-attribute, the same way the
// fleet's config files are hand-edited. Zero-valued optional fields (those
// still at their just-applied default) are omitted rather than round-tripped,
// so a written file only pins down what the operator actually overrode.
func WriteHCL(f *File) []byte {
	hclFile := hclwrite.NewEmptyFile()
	body := hclFile.Body()

	d := airlock.DefaultConfig()
	if f.HeartbeatTimeout != d.HeartbeatTimeout {
		body.SetAttributeValue("heartbeat_timeout", cty.NumberIntVal(int64(f.HeartbeatTimeout)))
	}
	if f.VolumeLimitBytes != d.VolumeLimit {
		body.SetAttributeValue("volume_limit_bytes", cty.NumberIntVal(int64(f.VolumeLimitBytes)))
	}
	if f.ArpLeakInterval != d.ArpLeakInterval {
		body.SetAttributeValue("arp_leak_interval", cty.NumberIntVal(int64(f.ArpLeakInterval)))
	}
	if f.ArpBurstLimit != d.ArpBurstLimit {
		body.SetAttributeValue("arp_burst_limit", cty.NumberIntVal(int64(f.ArpBurstLimit)))
	}
	if f.PlaintextThreshold != d.PlaintextThreshold {
		body.SetAttributeValue("plaintext_threshold", cty.NumberIntVal(int64(f.PlaintextThreshold)))
	}
	if f.EgressMode != "" && f.EgressMode != "ingress" {
		body.SetAttributeValue("egress_mode", cty.StringVal(f.EgressMode))
	}
	if f.Ingress {
		body.SetAttributeValue("ingress", cty.BoolVal(f.Ingress))
	}
	if f.RxInterface != "" {
		body.SetAttributeValue("rx_interface", cty.StringVal(f.RxInterface))
	}
	if f.TxInterface != "" {
		body.SetAttributeValue("tx_interface", cty.StringVal(f.TxInterface))
	}
	if f.MetricsAddr != "" {
		body.SetAttributeValue("metrics_addr", cty.StringVal(f.MetricsAddr))
	}
	return hclFile.Bytes()
}

// applyDefaults fills any zero-valued tunable with DefaultConfig's value;
// HCL's `optional` tag leaves unset scalar fields at their zero value, which
// for these counters is never a value an operator actually wants.
func applyDefaults(f *File) {
	d := airlock.DefaultConfig()
	if f.HeartbeatTimeout == 0 {
		f.HeartbeatTimeout = d.HeartbeatTimeout
	}
	if f.VolumeLimitBytes == 0 {
		f.VolumeLimitBytes = d.VolumeLimit
	}
	if f.ArpLeakInterval == 0 {
		f.ArpLeakInterval = d.ArpLeakInterval
	}
	if f.ArpBurstLimit == 0 {
		f.ArpBurstLimit = d.ArpBurstLimit
	}
	if f.PlaintextThreshold == 0 {
		f.PlaintextThreshold = d.PlaintextThreshold
	}
	if f.EgressMode == "" {
		f.EgressMode = "ingress"
	}
}

// Validate rejects a config whose values could never be satisfied by the
// u17/u8/u16/u27 saturating counters the core machine uses.
func (f *File) Validate() error {
	switch f.EgressMode {
	case "ingress", "egress":
	default:
		return errors.Errorf(errors.KindConfig, "egress_mode must be %q or %q, got %q", "ingress", "egress", f.EgressMode)
	}
	if f.ArpLeakInterval == 0 {
		return errors.New(errors.KindConfig, "arp_leak_interval must be nonzero")
	}
	if f.VolumeLimitBytes > 1<<27-1 {
		return errors.Errorf(errors.KindConfig, "volume_limit_bytes %d exceeds the u27 counter ceiling", f.VolumeLimitBytes)
	}
	return nil
}

// AirlockConfig projects the loaded file onto the core package's Config.
func (f *File) AirlockConfig() airlock.Config {
	return airlock.Config{
		HeartbeatTimeout:   f.HeartbeatTimeout,
		VolumeLimit:        f.VolumeLimitBytes,
		ArpLeakInterval:    f.ArpLeakInterval,
		ArpBurstLimit:      f.ArpBurstLimit,
		PlaintextThreshold: f.PlaintextThreshold,
	}
}

// EgressModeBool reports the boolean EgressMode flag Inputs expects.
func (f *File) EgressModeBool() bool {
	return f.EgressMode == "egress"
}

func (f *File) String() string {
	return fmt.Sprintf("heartbeat_timeout=%d volume_limit_bytes=%d arp_leak_interval=%d arp_burst_limit=%d plaintext_threshold=%d egress_mode=%s",
		f.HeartbeatTimeout, f.VolumeLimitBytes, f.ArpLeakInterval, f.ArpBurstLimit, f.PlaintextThreshold, f.EgressMode)
}
