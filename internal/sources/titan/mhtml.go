package titan

import (
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"os"
	"strings"

	"github.com/klrn-data/schedcheck/pkg/errors"
)

// htmlPart returns the HTML document embedded in an MHTML archive. Browsers
// save the page as a MIME message whose first text/html part is the document;
// a plain .html file handed to us by mistake is passed through unchanged.
func htmlPart(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.WrapIO("open", path, err)
	}
	defer f.Close()

	msg, err := mail.ReadMessage(f)
	if err != nil {
		// Not a MIME archive. Treat the whole file as HTML.
		raw, rerr := os.ReadFile(path)
		if rerr != nil {
			return "", errors.WrapIO("read", path, rerr)
		}
		return string(raw), nil
	}

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		return "", errors.WrapParse("mhtml", path, err)
	}

	if !strings.HasPrefix(mediaType, "multipart/") {
		return decodeBody(path, msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
	}

	mr := multipart.NewReader(msg.Body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.WrapParse("mhtml", path, err)
		}
		partType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if partType != "text/html" {
			continue
		}
		return decodeBody(path, part, part.Header.Get("Content-Transfer-Encoding"))
	}

	return "", errors.NewExtractionError("titan", path, "archive has no text/html part", errors.ErrNoData)
}

func decodeBody(path string, r io.Reader, encoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", errors.WrapParse("mhtml", path, err)
	}
	return string(body), nil
}
