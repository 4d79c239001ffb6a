package fetcher

import (
	"bytes"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// DecodeText converts a response body to a UTF-8 string.
// The charset comes from the Content-Type parameter, a BOM, or sniffing;
// bodies that are already valid UTF-8 are returned unchanged.
func DecodeText(body []byte, contentType string) (string, error) {
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	if enc == nil || enc == encoding.Nop || name == "utf-8" {
		return string(bytes.TrimPrefix(body, utf8BOM)), nil
	}

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(body), enc.NewDecoder()))
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}
