// Copyright 2026 Interfase
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cbor implements a minimal decoder for definite-length CBOR
// (RFC 8949), sufficient for mdoc DeviceResponse and COSE_Sign1 structures.
//
// Decoded values map to Go types as follows:
//
//	unsigned integer  -> uint64
//	negative integer  -> int64
//	byte string       -> []byte
//	text string       -> string
//	array             -> []any
//	map               -> map[string]any (keys stringified for direct lookup)
//	tag               -> the tagged value, tag number discarded
//	false/true        -> bool
//	null, undefined   -> nil
//	float16/32/64     -> float64
//
// Indefinite-length items are not supported and produce an error; the
// credential formats this decoder targets never emit them.
package cbor

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Decode decodes the first CBOR data item in data. Trailing bytes after the
// item are ignored.
func Decode(data []byte) (any, error) {
	v, _, err := DecodeFirst(data)
	return v, err
}

// DecodeFirst decodes the first CBOR data item in data and returns the value
// together with the number of bytes consumed.
func DecodeFirst(data []byte) (any, int, error) {
	d := &decoder{buf: data}
	v, err := d.item()
	if err != nil {
		return nil, 0, err
	}
	return v, d.off, nil
}

type decoder struct {
	buf []byte
	off int
}

const indefinite = 31 // additional info value marking indefinite length

func (d *decoder) byte() (byte, error) {
	if d.off >= len(d.buf) {
		return 0, fmt.Errorf("truncated CBOR at offset %d", d.off)
	}
	b := d.buf[d.off]
	d.off++
	return b, nil
}

func (d *decoder) read(n uint64) ([]byte, error) {
	if n > uint64(len(d.buf)-d.off) {
		return nil, fmt.Errorf("truncated CBOR: need %d bytes at offset %d", n, d.off)
	}
	b := d.buf[d.off : d.off+int(n)]
	d.off += int(n)
	return b, nil
}

// arg reads the length/value argument encoded by the additional info bits.
func (d *decoder) arg(ai byte) (uint64, error) {
	switch {
	case ai < 24:
		return uint64(ai), nil
	case ai == 24:
		b, err := d.read(1)
		if err != nil {
			return 0, err
		}
		return uint64(b[0]), nil
	case ai == 25:
		b, err := d.read(2)
		if err != nil {
			return 0, err
		}
		return uint64(binary.BigEndian.Uint16(b)), nil
	case ai == 26:
		b, err := d.read(4)
		if err != nil {
			return 0, err
		}
		return uint64(binary.BigEndian.Uint32(b)), nil
	case ai == 27:
		b, err := d.read(8)
		if err != nil {
			return 0, err
		}
		return binary.BigEndian.Uint64(b), nil
	case ai == indefinite:
		return 0, fmt.Errorf("indefinite-length items are not supported")
	default:
		return 0, fmt.Errorf("reserved additional info %d", ai)
	}
}

func (d *decoder) item() (any, error) {
	ib, err := d.byte()
	if err != nil {
		return nil, err
	}
	major := ib >> 5
	ai := ib & 0x1f

	switch major {
	case 0: // unsigned integer
		return d.arg(ai)

	case 1: // negative integer: -1 - n
		n, err := d.arg(ai)
		if err != nil {
			return nil, err
		}
		if n > math.MaxInt64 {
			return nil, fmt.Errorf("negative integer -%d overflows int64", n+1)
		}
		return -1 - int64(n), nil

	case 2: // byte string
		n, err := d.arg(ai)
		if err != nil {
			return nil, err
		}
		b, err := d.read(n)
		if err != nil {
			return nil, err
		}
		out := make([]byte, n)
		copy(out, b)
		return out, nil

	case 3: // text string
		n, err := d.arg(ai)
		if err != nil {
			return nil, err
		}
		b, err := d.read(n)
		if err != nil {
			return nil, err
		}
		// Invalid UTF-8 is carried through byte-for-byte rather than
		// rejected; printability is the extractor's concern.
		return string(b), nil

	case 4: // array
		n, err := d.arg(ai)
		if err != nil {
			return nil, err
		}
		if n > uint64(len(d.buf)-d.off) {
			return nil, fmt.Errorf("array length %d exceeds remaining input", n)
		}
		arr := make([]any, 0, n)
		for i := uint64(0); i < n; i++ {
			v, err := d.item()
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil

	case 5: // map
		n, err := d.arg(ai)
		if err != nil {
			return nil, err
		}
		if n > uint64(len(d.buf)-d.off) {
			return nil, fmt.Errorf("map length %d exceeds remaining input", n)
		}
		m := make(map[string]any, n)
		for i := uint64(0); i < n; i++ {
			k, err := d.item()
			if err != nil {
				return nil, err
			}
			v, err := d.item()
			if err != nil {
				return nil, err
			}
			m[mapKey(k)] = v
		}
		return m, nil

	case 6: // tag: number is read and discarded, tagged value returned
		if _, err := d.arg(ai); err != nil {
			return nil, err
		}
		return d.item()

	case 7: // simple values and floats
		return d.simple(ai)

	default:
		return nil, fmt.Errorf("unknown major type %d", major)
	}
}

func (d *decoder) simple(ai byte) (any, error) {
	switch ai {
	case 20:
		return false, nil
	case 21:
		return true, nil
	case 22, 23: // null, undefined
		return nil, nil
	case 25: // half-precision float
		b, err := d.read(2)
		if err != nil {
			return nil, err
		}
		return float16ToFloat64(binary.BigEndian.Uint16(b)), nil
	case 26:
		b, err := d.read(4)
		if err != nil {
			return nil, err
		}
		return float64(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	case 27:
		b, err := d.read(8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
	default:
		return nil, fmt.Errorf("unsupported simple value %d", ai)
	}
}

// float16ToFloat64 reconstructs an IEEE-754 half-precision float.
func float16ToFloat64(u uint16) float64 {
	sign := float64(1)
	if u&0x8000 != 0 {
		sign = -1
	}
	exp := int(u&0x7c00) >> 10
	frac := float64(u & 0x03ff)

	switch exp {
	case 0: // subnormal
		return sign * math.Pow(2, -14) * (frac / 1024)
	case 31:
		if frac != 0 {
			return math.NaN()
		}
		return sign * math.Inf(1)
	default:
		return sign * math.Pow(2, float64(exp-15)) * (1 + frac/1024)
	}
}

// mapKey stringifies a decoded map key. mdoc map keys are text strings or
// small integers; stringifying both allows direct map[string]any lookups.
func mapKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", k)
}
