package listener

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

type stubConn struct {
	in  *strings.Reader
	out bytes.Buffer
}

func (c *stubConn) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c *stubConn) Write(p []byte) (int, error) { return c.out.Write(p) }

func TestLineEndingReads(t *testing.T) {
	tests := map[string]struct {
		in  string
		exp string
	}{
		"telnet crlf":   {in: "buy bread\r\n", exp: "buy bread\n"},
		"ssh bare cr":   {in: "buy bread\r", exp: "buy bread\n"},
		"already clean": {in: "buy bread\n", exp: "buy bread\n"},
		"mixed endings": {in: "one\r\ntwo\rthree\n", exp: "one\ntwo\nthree\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rw := &lineEndingRW{rw: &stubConn{in: strings.NewReader(tt.in)}}

			buf := make([]byte, 64)
			n, _ := rw.Read(buf)
			testutil.AssertEqual(t, "normalized", string(buf[:n]), tt.exp)
		})
	}
}

func TestLineEndingWrites(t *testing.T) {
	conn := &stubConn{in: strings.NewReader("")}
	rw := &lineEndingRW{rw: conn}

	msg := "Welcome, Alice.\nTrading here: Hilda.\n"
	n, err := rw.Write([]byte(msg))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "reported length", n, len(msg))
	testutil.AssertEqual(t, "written", conn.out.String(), "Welcome, Alice.\r\nTrading here: Hilda.\r\n")
}
