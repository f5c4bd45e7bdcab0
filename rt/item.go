package rt

// ---------------------------------------------------------------------------
// Item protocol
// ---------------------------------------------------------------------------

// normIndex resolves a possibly-negative sequence index against length n.
func normIndex(i int64, n int) (int, bool) {
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, false
	}
	return int(i), true
}

// GetItem fetches container[key] and returns it as a fresh counted
// reference. Lists and tuples index by integer (negative counts from the
// end) and fail with an index error when out of range; dicts look up by
// hashable key and fail with a key error when absent; text indexes to a
// one-character text value.
func (r *Runtime) GetItem(container, key Value) (Value, error) {
	obj := r.get(container)
	if obj == nil {
		return Invalid, Fail(ErrType, "value is not subscriptable")
	}
	switch obj.kind {
	case KindList, KindTuple:
		i, err := r.AsInt(key)
		if err != nil {
			return Invalid, Failf(ErrType, "%s indices must be integers", obj.kind)
		}
		idx, ok := normIndex(i, len(obj.elems))
		if !ok {
			return Invalid, Failf(ErrIndex, "%s index out of range", obj.kind)
		}
		v := obj.elems[idx]
		r.IncRef(v)
		return v, nil
	case KindString:
		i, err := r.AsInt(key)
		if err != nil {
			return Invalid, Fail(ErrType, "string indices must be integers")
		}
		runes := []rune(obj.str)
		idx, ok := normIndex(i, len(runes))
		if !ok {
			return Invalid, Fail(ErrIndex, "string index out of range")
		}
		return r.NewString(string(runes[idx])), nil
	case KindDict:
		h, err := r.Hash(key)
		if err != nil {
			return Invalid, err
		}
		for _, ent := range obj.dict.buckets[h] {
			eq, err := r.Compare(ent.key, key, OpEq)
			if err != nil {
				return Invalid, err
			}
			if eq {
				r.IncRef(ent.val)
				return ent.val, nil
			}
		}
		ks, _ := r.reprString(key, true)
		return Invalid, Failf(ErrKey, "key not found: %s", ks)
	}
	return Invalid, Failf(ErrType, "value of type '%s' is not subscriptable", obj.kind)
}

// SetItem stores container[key] = val, acquiring references to whatever
// it keeps. Tuples and text are immutable.
func (r *Runtime) SetItem(container, key, val Value) error {
	obj := r.get(container)
	if obj == nil {
		return Fail(ErrType, "value does not support item assignment")
	}
	switch obj.kind {
	case KindList:
		i, err := r.AsInt(key)
		if err != nil {
			return Fail(ErrType, "list indices must be integers")
		}
		idx, ok := normIndex(i, len(obj.elems))
		if !ok {
			return Fail(ErrIndex, "list assignment index out of range")
		}
		r.IncRef(val)
		r.DecRef(obj.elems[idx])
		obj.elems[idx] = val
		return nil
	case KindDict:
		h, err := r.Hash(key)
		if err != nil {
			return err
		}
		bucket := obj.dict.buckets[h]
		for i, ent := range bucket {
			eq, err := r.Compare(ent.key, key, OpEq)
			if err != nil {
				return err
			}
			if eq {
				r.IncRef(val)
				r.DecRef(ent.val)
				bucket[i].val = val
				return nil
			}
		}
		r.IncRef(key)
		r.IncRef(val)
		obj.dict.buckets[h] = append(bucket, dictEntry{key: key, val: val})
		obj.dict.size++
		return nil
	}
	return Failf(ErrType, "value of type '%s' does not support item assignment", obj.kind)
}

// DelItem removes container[key], releasing the stored references.
func (r *Runtime) DelItem(container, key Value) error {
	obj := r.get(container)
	if obj == nil || obj.kind != KindDict {
		return Fail(ErrType, "value does not support item deletion")
	}
	h, err := r.Hash(key)
	if err != nil {
		return err
	}
	bucket := obj.dict.buckets[h]
	for i, ent := range bucket {
		eq, err := r.Compare(ent.key, key, OpEq)
		if err != nil {
			return err
		}
		if eq {
			obj.dict.buckets[h] = append(bucket[:i], bucket[i+1:]...)
			if len(obj.dict.buckets[h]) == 0 {
				delete(obj.dict.buckets, h)
			}
			obj.dict.size--
			r.DecRef(ent.key)
			r.DecRef(ent.val)
			return nil
		}
	}
	ks, _ := r.reprString(key, true)
	return Failf(ErrKey, "key not found: %s", ks)
}
