package mimetypes

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type MIME string

const (
	Unknown     MIME = "unknown"
	OctetStream MIME = "application/octet-stream"
	TextPlain   MIME = "text/plain"
	TextHTML    MIME = "text/html"
	TextCSV     MIME = "text/csv"

	ApplicationPDF  MIME = "application/pdf"
	ApplicationJSON MIME = "application/json"
	ApplicationZIP  MIME = "application/zip"

	ImagePNG  MIME = "image/png"
	ImageJPEG MIME = "image/jpeg"
	ImageGIF  MIME = "image/gif"

	AudioMPEG MIME = "audio/mpeg"
	AudioWAV  MIME = "audio/wav"
	VideoMP4  MIME = "video/mp4"
)

// Parse strips parameters and lowercases a media type as found in attachment metadata.
func Parse(raw string) MIME {
	mt, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return Unknown
	}
	return MIME(strings.ToLower(mt))
}

// Detect sniffs the media type of content.
func Detect(content []byte) MIME {
	return Parse(mimetype.Detect(content).String())
}

// Matches tells whether content looks like the declared media type.
// Detection knows aliases (audio/x-wav for audio/wav...) and parent types,
// so text/csv content detected as text/plain still matches.
func Matches(content []byte, declared string) bool {
	expected := Parse(declared)
	if expected == Unknown {
		return false
	}
	for m := mimetype.Detect(content); m != nil; m = m.Parent() {
		if m.Is(string(expected)) {
			return true
		}
	}
	return expected == OctetStream
}
