package server

import (
	"errors"
	"strconv"
	"strings"
)

// Payload is the delimited request body accepted by pbn_convert_payload:
//
//	<base64 image>|<numColors>|<includeOutline>
//
// Only the image is required.
type Payload struct {
	ImageBase64    string
	NumColors      int
	IncludeOutline bool
}

// ParsePayload splits a delimited request body.
//
// numColors is used only when the field consists of ASCII digits; anything
// else falls back to DefaultNumColors. includeOutline defaults to true and
// becomes false when the field is present and not "true" (case-insensitive).
func ParsePayload(body string) (*Payload, error) {
	if body == "" {
		return nil, errors.New("no data provided")
	}

	parts := strings.Split(body, "|")
	p := &Payload{
		ImageBase64:    strings.TrimSpace(parts[0]),
		NumColors:      DefaultNumColors,
		IncludeOutline: true,
	}

	if len(parts) > 1 && isDigits(parts[1]) {
		n, err := strconv.Atoi(parts[1])
		if err == nil {
			p.NumColors = n
		}
	}
	if len(parts) > 2 {
		p.IncludeOutline = strings.ToLower(parts[2]) == "true"
	}

	if p.ImageBase64 == "" {
		return nil, errors.New("no image provided")
	}
	return p, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
