package handle

import (
	"github.com/chazu/tether/rt"
)

// ---------------------------------------------------------------------------
// Attribute protocol
// ---------------------------------------------------------------------------

// HasAttr reports whether the wrapped value has the named attribute.
// It never fails; a null handle answers false.
func (h Handle) HasAttr(name string) bool {
	return !h.IsNull() && h.br.HasAttr(h.ref, name)
}

// HasAttrValue is HasAttr with the name given as a dynamic text value.
// Non-text names answer false.
func (h Handle) HasAttrValue(name Handle) bool {
	s, err := name.String()
	if err != nil {
		return false
	}
	return h.HasAttr(s)
}

// Attr fetches the named attribute as a fresh owning handle.
func (h Handle) Attr(name string) (Handle, error) {
	if h.IsNull() {
		return Handle{}, errNull("attribute access")
	}
	v, err := h.br.GetAttr(h.ref, name)
	if err != nil {
		return Handle{}, err
	}
	// The fetch primitive hands back an owned reference; no extra retain.
	return Steal(h.br, v), nil
}

// AttrValue is Attr with the name given as a dynamic text value.
func (h Handle) AttrValue(name Handle) (Handle, error) {
	s, err := name.String()
	if err != nil {
		return Handle{}, err
	}
	return h.Attr(s)
}

// SetAttr stores an attribute. val is anything the conversion layer
// accepts; handles pass through without copying their referent.
func (h Handle) SetAttr(name string, val interface{}) error {
	if h.IsNull() {
		return errNull("attribute assignment")
	}
	v, err := From(h.br, val)
	if err != nil {
		return err
	}
	defer v.Close()
	return h.br.SetAttr(h.ref, name, v.ref)
}

// Del removes the named attribute. Absent attributes fail.
func (h Handle) Del(name string) error {
	if h.IsNull() {
		return errNull("attribute deletion")
	}
	return h.br.DelAttr(h.ref, name)
}

// ---------------------------------------------------------------------------
// Item protocol
// ---------------------------------------------------------------------------

// SetItem stores container[key] = val. Keys are restricted to handles;
// convert transient native keys through From first. val converts like
// SetAttr's value.
func (h Handle) SetItem(key Handle, val interface{}) error {
	if h.IsNull() {
		return errNull("item assignment")
	}
	if key.IsNull() {
		return rt.Fail(rt.ErrContract, "item assignment with null key")
	}
	v, err := From(h.br, val)
	if err != nil {
		return err
	}
	defer v.Close()
	return h.br.SetItem(h.ref, key.ref, v.ref)
}

// GetItem fetches container[key] as a fresh owning handle. Unlike Index
// this is a pure read: a missing key fails.
func (h Handle) GetItem(key interface{}) (Handle, error) {
	if h.IsNull() {
		return Handle{}, errNull("item access")
	}
	k, err := From(h.br, key)
	if err != nil {
		return Handle{}, err
	}
	defer k.Close()
	v, err := h.br.GetItem(h.ref, k.ref)
	if err != nil {
		return Handle{}, err
	}
	return Steal(h.br, v), nil
}

// ---------------------------------------------------------------------------
// Call protocol
// ---------------------------------------------------------------------------

// convertArgs converts a call's arguments, returning the temporaries that
// must be closed once the call returns.
func convertArgs(br Bridge, args []interface{}, kwargs map[string]interface{}) ([]Handle, []rt.Value, map[string]rt.Value, error) {
	temps := make([]Handle, 0, len(args)+len(kwargs))
	closeTemps := func() {
		for i := range temps {
			temps[i].Close()
		}
	}

	vals := make([]rt.Value, 0, len(args))
	for _, a := range args {
		ah, err := From(br, a)
		if err != nil {
			closeTemps()
			return nil, nil, nil, err
		}
		temps = append(temps, ah)
		vals = append(vals, ah.Ref())
	}

	var kw map[string]rt.Value
	if len(kwargs) > 0 {
		kw = make(map[string]rt.Value, len(kwargs))
		for name, a := range kwargs {
			ah, err := From(br, a)
			if err != nil {
				closeTemps()
				return nil, nil, nil, err
			}
			temps = append(temps, ah)
			kw[name] = ah.Ref()
		}
	}
	return temps, vals, kw, nil
}

// Call invokes the wrapped value as a callable with positional
// arguments. Each argument is anything the conversion layer accepts.
func (h Handle) Call(args ...interface{}) (Handle, error) {
	return h.CallKw(args, nil)
}

// CallKw invokes the wrapped value with positional and keyword
// arguments.
func (h Handle) CallKw(args []interface{}, kwargs map[string]interface{}) (Handle, error) {
	if h.IsNull() {
		return Handle{}, errNull("call")
	}
	temps, vals, kw, err := convertArgs(h.br, args, kwargs)
	if err != nil {
		return Handle{}, err
	}
	defer func() {
		for i := range temps {
			temps[i].Close()
		}
	}()

	result, err := h.br.Call(h.ref, vals, kw)
	if err != nil {
		return Handle{}, err
	}
	return Steal(h.br, result), nil
}

// MCall resolves the named attribute and invokes it with positional
// arguments.
func (h Handle) MCall(name string, args ...interface{}) (Handle, error) {
	return h.MCallKw(name, args, nil)
}

// MCallKw resolves the named attribute and invokes it with positional
// and keyword arguments. Resolution failure and call failure both
// propagate; the resolved method is released either way.
func (h Handle) MCallKw(name string, args []interface{}, kwargs map[string]interface{}) (Handle, error) {
	method, err := h.Attr(name)
	if err != nil {
		return Handle{}, err
	}
	defer method.Close()
	return method.CallKw(args, kwargs)
}
