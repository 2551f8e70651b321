package shell

import (
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
	"go.trai.ch/zerr"
)

// DefaultEncoding is the text encoding used when a request names none.
const DefaultEncoding = "utf-8"

// codec converts script text and process output between UTF-8 and the
// requested encoding. A nil encoding passes bytes through.
type codec struct {
	enc encoding.Encoding
}

func lookupCodec(name string) (codec, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return codec{}, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return codec{}, zerr.With(zerr.Wrap(err, "unknown encoding"), "encoding", name)
	}

	if canonical, _ := htmlindex.Name(enc); canonical == DefaultEncoding {
		return codec{}, nil
	}
	return codec{enc: enc}, nil
}

func (c codec) encode(s string) ([]byte, error) {
	if c.enc == nil {
		return []byte(s), nil
	}
	out, err := c.enc.NewEncoder().String(s)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func (c codec) decoder(r io.Reader) io.Reader {
	if c.enc == nil {
		return r
	}
	return transform.NewReader(r, c.enc.NewDecoder())
}
