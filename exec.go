// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"fmt"
	"reflect"

	"code.hybscloud.com/kont"
)

var errorType = reflect.TypeFor[error]()

// invoke calls fn with args and returns the operation it produced.
// A trailing non-nil error result, or a panic, is returned as err.
// Common signatures skip reflection.
func invoke(fn any, args []any) (op Operation, err error) {
	defer func() {
		if r := recover(); r != nil {
			op, err = nil, recovered(r)
		}
	}()
	if len(args) == 0 {
		switch f := fn.(type) {
		case func() kont.Eff[Result]:
			return f(), nil
		case func() kont.Expr[Result]:
			return f(), nil
		case func() Coroutine:
			return f(), nil
		case func() *Future:
			return f(), nil
		case func() Operation:
			return f(), nil
		case func() (any, error):
			return f()
		case func() error:
			return nil, f()
		case func():
			f()
			return nil, nil
		}
	}
	return invokeReflect(fn, args)
}

func invokeReflect(fn any, args []any) (Operation, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("%w: %T is not a function", ErrInvalidPayload, fn)
	}
	typ := v.Type()
	n := typ.NumIn()
	if typ.IsVariadic() {
		if len(args) < n-1 {
			return nil, fmt.Errorf("%w: %s called with %d arguments", ErrInvalidPayload, typ, len(args))
		}
	} else if len(args) != n {
		return nil, fmt.Errorf("%w: %s called with %d arguments", ErrInvalidPayload, typ, len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var pt reflect.Type
		if typ.IsVariadic() && i >= n-1 {
			pt = typ.In(n - 1).Elem()
		} else {
			pt = typ.In(i)
		}
		if a == nil {
			in[i] = reflect.Zero(pt)
			continue
		}
		av := reflect.ValueOf(a)
		if !av.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("%w: argument %d of %s: cannot use %T", ErrInvalidPayload, i, typ, a)
		}
		in[i] = av
	}
	out := v.Call(in)
	if k := len(out); k > 0 && typ.Out(k-1) == errorType {
		if e := out[k-1].Interface(); e != nil {
			return nil, e.(error)
		}
		out = out[:k-1]
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		vs := make([]any, len(out))
		for i, o := range out {
			vs[i] = o.Interface()
		}
		return vs, nil
	}
}
