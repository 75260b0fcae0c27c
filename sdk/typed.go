package sdk

import (
	"context"
)

// Decode unmarshals a response payload into a new T.
//
//	resp, err := client.Call(ctx, "/auth/user", "", nil)
//	if err != nil {
//	    return err
//	}
//	me, err := sdk.Decode[map[string]any](resp)
func Decode[T any](resp *Response) (T, error) {
	var zero T
	if resp == nil {
		return zero, NewError(ErrorTypeUnknown, "nil response", ErrInvalidResponse)
	}
	var out T
	if err := resp.Decode(&out); err != nil {
		return zero, err
	}
	return out, nil
}

// CallTyped performs a call and decodes its payload into T.
func CallTyped[T any](ctx context.Context, c Caller, path, method string, params Params) (T, error) {
	resp, err := c.Call(ctx, path, method, params)
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](resp)
}
