package models

import "fmt"

// Kind discriminates the document kinds on the wire and in storage.
type Kind int

const (
	KindClaim Kind = iota
	KindItem
	KindUser
)

var kindNames = map[Kind]string{
	KindClaim: "claim",
	KindItem:  "item",
	KindUser:  "user",
}

// ParseKind returns the Kind named by s, or an error wrapping ErrMalformed
// for an unknown name.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrMalformed, s)
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("%w: invalid kind %d", ErrMalformed, int(k))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
