package utils

import (
	"bytes"

	"github.com/pkg/errors"
	"golang.org/x/text/transform"

	"github.com/mogaika/levelport/config"
)

// BytesToString decodes a zero terminated fixed-width name field.
func BytesToString(bs []byte) string {
	n := bytes.IndexByte(bs, 0)
	if n < 0 {
		n = len(bs)
	}

	s, _, err := transform.Bytes(config.GetEncoding().NewDecoder(), bs[0:n])
	if err != nil {
		panic(err)
	}

	return string(s)
}

// StringToBytesBuffer encodes s into a zero padded field of bufSize bytes.
// The last byte is always left as terminator.
func StringToBytesBuffer(s string, bufSize int) ([]byte, error) {
	bs, _, err := transform.Bytes(config.GetEncoding().NewEncoder(), []byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, "Can't encode name %q", s)
	}
	if len(bs) >= bufSize {
		return nil, errors.Errorf("name %q is longer than %d bytes", s, bufSize-1)
	}
	r := make([]byte, bufSize)
	copy(r, bs)
	return r, nil
}
