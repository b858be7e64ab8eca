package config

import (
	"fmt"

	"github.com/sagarc03/tomato"
)

// Get looks up path in the configuration.
//
// A single key containing "." is split into segments: Get("table.foo") is
// Get("table", "foo"). Keys of several arguments are never split. A string
// of digits indexes a sequence and is a plain key in a table; a Go integer
// must index a sequence.
//
// Errors wrap tomato.ErrMissingKey, tomato.ErrTypeMismatch or
// tomato.ErrInvalidArgument. The returned value is a copy.
func (s *Store) Get(path ...any) (tomato.Value, error) {
	segments, err := tomato.ParsePath(path...)
	if err != nil {
		return tomato.Value{}, err
	}

	v, err := tomato.Walk(tomato.TableValue(s.doc), segments, nil)
	if err != nil {
		return tomato.Value{}, err
	}
	return v.Clone(), nil
}

// GetOr is Get returning fallback when a key or index along path does not
// exist. Type mismatches and invalid paths are still errors.
func (s *Store) GetOr(fallback tomato.Value, path ...any) (tomato.Value, error) {
	segments, err := tomato.ParsePath(path...)
	if err != nil {
		return tomato.Value{}, err
	}

	v, err := tomato.Walk(tomato.TableValue(s.doc), segments, &fallback)
	if err != nil {
		return tomato.Value{}, err
	}
	return v.Clone(), nil
}

// GetString returns the string at path.
func (s *Store) GetString(path ...any) (string, error) {
	v, err := s.Get(path...)
	if err != nil {
		return "", err
	}
	return scalarAs[string](v, "string", path)
}

// GetStringOr returns the string at path, or fallback when it is absent.
func (s *Store) GetStringOr(fallback string, path ...any) (string, error) {
	v, err := s.GetOr(tomato.Scalar(fallback), path...)
	if err != nil {
		return "", err
	}
	return scalarAs[string](v, "string", path)
}

// GetInt returns the integer at path.
func (s *Store) GetInt(path ...any) (int64, error) {
	v, err := s.Get(path...)
	if err != nil {
		return 0, err
	}
	return scalarAs[int64](v, "integer", path)
}

// GetBool returns the boolean at path.
func (s *Store) GetBool(path ...any) (bool, error) {
	v, err := s.Get(path...)
	if err != nil {
		return false, err
	}
	return scalarAs[bool](v, "boolean", path)
}

// GetFloat returns the number at path. Integers are converted.
func (s *Store) GetFloat(path ...any) (float64, error) {
	v, err := s.Get(path...)
	if err != nil {
		return 0, err
	}
	if x, ok := v.AsScalar(); ok {
		if i, ok := x.(int64); ok {
			return float64(i), nil
		}
	}
	return scalarAs[float64](v, "float", path)
}

func scalarAs[T any](v tomato.Value, want string, path []any) (T, error) {
	var zero T
	x, ok := v.AsScalar()
	if !ok {
		return zero, fmt.Errorf("%w: %v is a %s, not a %s", tomato.ErrTypeMismatch, path, v.Kind(), want)
	}
	t, ok := x.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %v is a %T, not a %s", tomato.ErrTypeMismatch, path, x, want)
	}
	return t, nil
}
