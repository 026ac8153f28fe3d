package hwio

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type bankRegInfo struct {
	regPtr any
	offset uint32
}

type regTag struct {
	offset    uint32
	hasOffset bool
	bank      int
	reset     uint32
	rwmask    uint32
	size      int
	vsize     int
	readonly  bool
	writeonly bool
	rcb, wcb  string
	pcb       string
}

func parseTag(field, tag string) (regTag, error) {
	rt := regTag{rwmask: 0xFFFFFFFF}
	for _, opt := range strings.Split(tag, ",") {
		key, val, hasVal := strings.Cut(strings.TrimSpace(opt), "=")
		num := func() (uint64, error) {
			if !hasVal {
				return 0, fmt.Errorf("%s: option %q requires a value", field, key)
			}
			n, err := strconv.ParseUint(val, 0, 32)
			if err != nil {
				return 0, fmt.Errorf("%s: option %q: %v", field, key, err)
			}
			return n, nil
		}
		cbname := func(prefix string) string {
			if hasVal {
				return val
			}
			return prefix + strings.ToUpper(field)
		}

		var (
			n   uint64
			err error
		)
		switch key {
		case "":
		case "offset":
			n, err = num()
			rt.offset, rt.hasOffset = uint32(n), true
		case "bank":
			n, err = num()
			rt.bank = int(n)
		case "reset":
			n, err = num()
			rt.reset = uint32(n)
		case "rwmask":
			n, err = num()
			rt.rwmask = uint32(n)
		case "size":
			n, err = num()
			rt.size = int(n)
		case "vsize":
			n, err = num()
			rt.vsize = int(n)
		case "readonly":
			rt.readonly = true
		case "writeonly":
			rt.writeonly = true
		case "rcb":
			rt.rcb = cbname("Read")
		case "wcb":
			rt.wcb = cbname("Write")
		case "pcb":
			rt.pcb = cbname("Peek")
		default:
			err = fmt.Errorf("%s: unknown hwio option %q", field, key)
		}
		if err != nil {
			return rt, err
		}
	}
	if rt.readonly && rt.writeonly {
		return rt, fmt.Errorf("%s: register cannot be both readonly and writeonly", field)
	}
	return rt, nil
}

func (rt regTag) flags() RWFlags {
	var f RWFlags
	if rt.readonly {
		f |= ReadOnlyFlag
	}
	if rt.writeonly {
		f |= WriteOnlyFlag
	}
	return f
}

func method[F any](v reflect.Value, name string) (F, error) {
	var zero F
	m := v.MethodByName(name)
	if !m.IsValid() {
		return zero, fmt.Errorf("missing callback method %s on %s", name, v.Type())
	}
	f, ok := m.Interface().(F)
	if !ok {
		return zero, fmt.Errorf("callback method %s has type %s, want %T", name, m.Type(), zero)
	}
	return f, nil
}

// InitRegs initializes all Reg32, Mem and Device fields of the structure
// pointed by data, following their hwio struct tags: names, reset values,
// access flags and callbacks. Callbacks are methods of data; by default their
// name is Read, Write or Peek followed by the upper-cased field name, or the
// name given after the '=' sign (e.g. pcb=PeekStatus).
func InitRegs(data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("InitRegs: want pointer to struct, got %T", data)
	}
	sv := v.Elem()
	st := sv.Type()

	for i := range st.NumField() {
		sf := st.Field(i)
		tag, ok := sf.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		rt, err := parseTag(sf.Name, tag)
		if err != nil {
			return err
		}

		switch ptr := sv.Field(i).Addr().Interface().(type) {
		case *Reg32:
			*ptr = Reg32{
				Name:   sf.Name,
				Value:  rt.reset,
				RoMask: ^rt.rwmask,
				Flags:  rt.flags(),
			}
			if rt.rcb != "" {
				if ptr.ReadCb, err = method[func(uint32) uint32](v, rt.rcb); err != nil {
					return err
				}
			}
			if rt.wcb != "" {
				if ptr.WriteCb, err = method[func(uint32, uint32)](v, rt.wcb); err != nil {
					return err
				}
			}
			if rt.pcb != "" {
				if ptr.PeekCb, err = method[func(uint32) uint32](v, rt.pcb); err != nil {
					return err
				}
			}

		case *Mem:
			if rt.size == 0 || rt.size%4 != 0 {
				return fmt.Errorf("%s: mem size must be a non-zero multiple of 4", sf.Name)
			}
			vsize := rt.vsize
			if vsize == 0 {
				vsize = rt.size
			}
			var flags MemFlags
			if rt.readonly {
				flags |= MemFlagReadOnly
			}
			*ptr = Mem{
				Name:  sf.Name,
				Data:  make([]uint32, rt.size/4),
				VSize: vsize,
				Flags: flags,
			}
			if rt.wcb != "" {
				if ptr.WriteCb, err = method[func(uint32, uint32)](v, rt.wcb); err != nil {
					return err
				}
			}

		case *Device:
			if rt.size == 0 {
				return fmt.Errorf("%s: device size is required", sf.Name)
			}
			*ptr = Device{
				Name:  sf.Name,
				Size:  rt.size,
				Flags: rt.flags(),
			}
			if rt.rcb != "" {
				if ptr.ReadCb, err = method[func(uint32) uint32](v, rt.rcb); err != nil {
					return err
				}
			}
			if rt.wcb != "" {
				if ptr.WriteCb, err = method[func(uint32, uint32)](v, rt.wcb); err != nil {
					return err
				}
			}
			if rt.pcb != "" {
				if ptr.PeekCb, err = method[func(uint32) uint32](v, rt.pcb); err != nil {
					return err
				}
			}

		default:
			return fmt.Errorf("%s: hwio tag on unsupported type %s", sf.Name, sf.Type)
		}
	}
	return nil
}

// MustInitRegs is like InitRegs but panics on error.
func MustInitRegs(data any) {
	if err := InitRegs(data); err != nil {
		panic(err)
	}
}

func bankGetRegs(data any, bankNum int) ([]bankRegInfo, error) {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("want pointer to struct, got %T", data)
	}
	sv := v.Elem()
	st := sv.Type()

	var regs []bankRegInfo
	for i := range st.NumField() {
		sf := st.Field(i)
		tag, ok := sf.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		rt, err := parseTag(sf.Name, tag)
		if err != nil {
			return nil, err
		}
		if !rt.hasOffset || rt.bank != bankNum {
			continue
		}
		regs = append(regs, bankRegInfo{
			regPtr: sv.Field(i).Addr().Interface(),
			offset: rt.offset,
		})
	}
	return regs, nil
}
