package instruction

import (
	"jamplate/internal/runtime"
	"jamplate/internal/value"
)

// Get pops (struct, key) and pushes the bound value, or NULL if key is
// absent.
type Get struct{ base }

func (i *Get) Exec(ctx *Context, m *runtime.Memory) error {
	keyVal, err := m.Pop()
	if err != nil {
		return err
	}
	structVal, err := m.Pop()
	if err != nil {
		return err
	}
	obj, ok := structVal.(*value.Object)
	if !ok {
		return ErrTypeMismatch
	}
	key, err := keyVal.Eval(m)
	if err != nil {
		return err
	}
	v, ok := obj.Get(m, key)
	if !ok {
		v = value.Null
	}
	m.Push(v)
	return nil
}

// Put pops (struct, key, value) and pushes an Object with key rebound,
// replacing any existing binding in place.
type Put struct{ base }

func (i *Put) Exec(ctx *Context, m *runtime.Memory) error {
	val, err := m.Pop()
	if err != nil {
		return err
	}
	keyVal, err := m.Pop()
	if err != nil {
		return err
	}
	structVal, err := m.Pop()
	if err != nil {
		return err
	}
	obj, ok := structVal.(*value.Object)
	if !ok {
		return ErrTypeMismatch
	}
	key, err := keyVal.Eval(m)
	if err != nil {
		return err
	}
	updated, err := obj.Put(m, key, val)
	if err != nil {
		return err
	}
	m.Push(updated)
	return nil
}

// Touch pops (struct, path, value) and pushes struct with value bound at
// the end of path, an Array of keys descended one Object per element,
// creating intermediate Objects where none exist yet.
type Touch struct{ base }

func (i *Touch) Exec(ctx *Context, m *runtime.Memory) error {
	val, err := m.Pop()
	if err != nil {
		return err
	}
	pathVal, err := m.Pop()
	if err != nil {
		return err
	}
	structVal, err := m.Pop()
	if err != nil {
		return err
	}
	obj, ok := structVal.(*value.Object)
	if !ok {
		return ErrTypeMismatch
	}
	path, ok := pathVal.(*value.Array)
	if !ok {
		return ErrTypeMismatch
	}
	updated, err := touch(m, obj, path.Elements, val)
	if err != nil {
		return err
	}
	m.Push(updated)
	return nil
}

func touch(m *runtime.Memory, obj *value.Object, path []value.Value, val value.Value) (*value.Object, error) {
	if len(path) == 0 {
		return obj, nil
	}
	key, err := path[0].Eval(m)
	if err != nil {
		return nil, err
	}
	if len(path) == 1 {
		return obj.Put(m, key, val)
	}
	child, ok := obj.Get(m, key)
	childObj, isObj := child.(*value.Object)
	if !ok || !isObj {
		childObj = value.NewObject()
	}
	nested, err := touch(m, childObj, path[1:], val)
	if err != nil {
		return nil, err
	}
	return obj.Put(m, key, nested)
}

// Split pops an Array and pushes each of its elements, in order.
type Split struct{ base }

func (i *Split) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	arr, ok := v.(*value.Array)
	if !ok {
		return ErrTypeMismatch
	}
	for _, el := range arr.Elements {
		m.Push(el)
	}
	return nil
}

// Reverse pops an Array and pushes a new Array with elements reversed.
type Reverse struct{ base }

func (i *Reverse) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	arr, ok := v.(*value.Array)
	if !ok {
		return ErrTypeMismatch
	}
	reversed := make([]value.Value, len(arr.Elements))
	for k, el := range arr.Elements {
		reversed[len(arr.Elements)-1-k] = el
	}
	m.Push(value.NewArray(reversed...))
	return nil
}
