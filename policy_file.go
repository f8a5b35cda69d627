// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package regstack

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// policyFile is the TOML shape accepted by LoadPolicy.
//
//	[chunk]
//	base = 16
//	pmc = 16
//	num = 16
//	int = 16
//	str = 16
type policyFile struct {
	Chunk struct {
		Base *int `toml:"base"`
		PMC  *int `toml:"pmc"`
		Num  *int `toml:"num"`
		Int  *int `toml:"int"`
		Str  *int `toml:"str"`
	} `toml:"chunk"`
}

// LoadPolicy parses a TOML chunk policy from r.
//
// Missing keys keep their defaults: base falls back to FramesPerChunk and
// each kind falls back to the base. Out-of-range values and unknown keys
// are reported as *PolicyError.
func LoadPolicy(r io.Reader) (Policy, error) {
	var f policyFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return Policy{}, fmt.Errorf("regstack: parse policy: %w", err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return Policy{}, &PolicyError{Key: keys[0].String(), Err: ErrPolicyKey}
	}

	b := NewPolicy()
	if v := f.Chunk.Base; v != nil {
		if !validFrames(*v) {
			return Policy{}, &PolicyError{Key: "chunk.base", Value: *v, Err: ErrPolicyRange}
		}
		b.Base(*v)
	}
	for _, e := range []struct {
		kind Kind
		v    *int
	}{
		{KindPMC, f.Chunk.PMC},
		{KindNum, f.Chunk.Num},
		{KindInt, f.Chunk.Int},
		{KindStr, f.Chunk.Str},
	} {
		if e.v == nil {
			continue
		}
		if !validFrames(*e.v) {
			return Policy{}, &PolicyError{Key: "chunk." + e.kind.String(), Value: *e.v, Err: ErrPolicyRange}
		}
		b.kind(e.kind, *e.v)
	}
	return b.Build(), nil
}

// LoadPolicyFile reads a TOML chunk policy from path.
func LoadPolicyFile(path string) (Policy, error) {
	f, err := os.Open(path)
	if err != nil {
		return Policy{}, fmt.Errorf("regstack: cannot read %s: %w", path, err)
	}
	defer f.Close()

	p, err := LoadPolicy(f)
	if err != nil {
		return Policy{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
