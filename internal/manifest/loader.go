package manifest

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/marmos91/ifconnect/internal/wire"
)

// manifestHeaderLen is the [i32 command_id=-1][i32 payload_length]
// [i32 text_length] prefix that precedes the manifest response's UTF-8
// text (§4.3). The middle field duplicates information already carried
// by the text length and is not otherwise consulted.
const manifestHeaderLen = 12

// Load opens a dedicated, short-lived TCP connection to addr, issues the
// manifest request, and assembles the response into a Manifest. The
// connection is always closed before Load returns, whether or not it
// succeeded — the manifest connection has no part in the long-lived
// command/poll sessions that open afterward (§4.3, §4.4).
func Load(ctx context.Context, addr string, timeout time.Duration) (*Manifest, error) {
	dialCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		dialCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", ErrLoadFailed, addr, err)
	}
	defer func() { _ = conn.Close() }()

	if timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			return nil, fmt.Errorf("%w: set deadline: %w", ErrLoadFailed, err)
		}
	}

	if _, err := conn.Write(wire.EncodeManifestRequest()); err != nil {
		return nil, fmt.Errorf("%w: write request: %w", ErrLoadFailed, err)
	}

	text, err := readManifestText(conn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	entries := wire.ParseManifestText(text)
	m, err := New(entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return m, nil
}

// readManifestText accumulates bytes from r until the full
// [i32 -1][i32 payload_length][i32 text_length][text_length bytes]
// response has arrived,
// then returns the decoded UTF-8 text.
func readManifestText(r io.Reader) (string, error) {
	buf := make([]byte, 0, manifestHeaderLen)
	if err := readAtLeast(r, &buf, manifestHeaderLen); err != nil {
		return "", fmt.Errorf("read manifest header: %w", err)
	}

	// Bytes 8..12 of the response are the text length, little-endian (§4.3).
	textLen := int32(buf[8]) | int32(buf[9])<<8 | int32(buf[10])<<16 | int32(buf[11])<<24
	if textLen < 0 {
		return "", fmt.Errorf("negative manifest text length %d", textLen)
	}

	total := manifestHeaderLen + int(textLen)
	if err := readAtLeast(r, &buf, total); err != nil {
		return "", fmt.Errorf("read manifest text: %w", err)
	}

	return string(buf[manifestHeaderLen:total]), nil
}

// readAtLeast grows *buf by reading from r until it holds at least n
// bytes, preserving whatever was already buffered.
func readAtLeast(r io.Reader, buf *[]byte, n int) error {
	for len(*buf) < n {
		chunk := make([]byte, n-len(*buf))
		read, err := r.Read(chunk)
		if read > 0 {
			*buf = append(*buf, chunk[:read]...)
		}
		if err != nil {
			if err == io.EOF && len(*buf) >= n {
				return nil
			}
			return err
		}
	}
	return nil
}
