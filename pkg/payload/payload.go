// Package payload turns provisioning scripts into the gzip+base64 text that
// cloud-init and the Windows custom data fields carry.
//
// Encoding is a pure function of the input bytes: the gzip header carries a
// zero modification time, no file name and a fixed OS byte, so generated
// templates stay byte-for-byte stable across runs and machines.
package payload

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/jaspreet-dot-casa/armparts/pkg/project"
)

// osUnknown is the RFC 1952 OS value for "unknown".
const osUnknown = 255

// Payload is an encoded script.
type Payload struct {
	SourcePath string
	Compressed []byte
	Text       string
}

// Encode reads the file at path and returns its base64 gzip payload text.
func Encode(path string) (string, error) {
	p, err := EncodeFile(path)
	if err != nil {
		return "", err
	}
	return p.Text, nil
}

// EncodeFile is Encode returning the full Payload.
func EncodeFile(path string) (*Payload, error) {
	content, err := project.ReadInput(path)
	if err != nil {
		return nil, err
	}

	p, err := EncodeBytes(content)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	p.SourcePath = path
	return p, nil
}

// EncodeBytes compresses content with a pinned gzip header and base64 encodes
// the result.
func EncodeBytes(content []byte) (*Payload, error) {
	var buf bytes.Buffer

	w, err := gzip.NewWriterLevel(&buf, gzip.DefaultCompression)
	if err != nil {
		return nil, err
	}
	w.Header = gzip.Header{
		ModTime: time.Unix(0, 0),
		OS:      osUnknown,
	}

	if _, err := w.Write(content); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish compression: %w", err)
	}

	return &Payload{
		Compressed: buf.Bytes(),
		Text:       base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// Decode reverses EncodeBytes: base64 decode, then gunzip.
func Decode(text string) ([]byte, error) {
	compressed, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return Decompress(compressed)
}

// Decompress gunzips an already base64-decoded payload.
func Decompress(compressed []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("invalid gzip payload: %w", err)
	}
	defer r.Close()

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress payload: %w", err)
	}
	return content, nil
}
