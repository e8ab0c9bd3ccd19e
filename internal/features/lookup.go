package features

import "fmt"

// missingKeyError reports the first key of a path that could not be
// resolved, either because it is absent or because the value on the way is
// not a JSON object.
type missingKeyError struct {
	key string
}

func (e *missingKeyError) Error() string {
	return fmt.Sprintf("missing key %q", e.key)
}

func lookup(v any, keys ...string) (any, error) {
	for _, k := range keys {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, &missingKeyError{key: k}
		}
		v, ok = obj[k]
		if !ok {
			return nil, &missingKeyError{key: k}
		}
	}
	return v, nil
}

func has(v any, key string) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, ok = obj[key]
	return ok
}

func lookupString(v any, keys ...string) (string, error) {
	raw, err := lookup(v, keys...)
	if err != nil {
		return "", err
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("key %q is %T, not a string", keys[len(keys)-1], raw)
	}
	return s, nil
}

func lookupList(v any, keys ...string) ([]any, error) {
	raw, err := lookup(v, keys...)
	if err != nil {
		return nil, err
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("key %q is %T, not a list", keys[len(keys)-1], raw)
	}
	return list, nil
}
