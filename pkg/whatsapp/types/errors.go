package types

import "fmt"

// DecodeError reports a webhook payload that does not match the documented
// shape. Path is a dotted JSON path into the envelope, e.g.
// "entry[0].changes[0].value.messages[1].text".
type DecodeError struct {
	Path    string
	Message string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// prefixPath returns err with path prepended when err is a DecodeError,
// otherwise wraps it so the location is still visible.
func prefixPath(path string, err error) error {
	if err == nil {
		return nil
	}
	if de, ok := err.(*DecodeError); ok {
		joined := path
		if de.Path != "" {
			joined = path + "." + de.Path
		}
		return &DecodeError{Path: joined, Message: de.Message}
	}
	return fmt.Errorf("%s: %w", path, err)
}
