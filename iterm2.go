package termengine

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// handleITerm2OSC processes an OSC 1337 body (everything after "1337;").
// SetUserVar updates the user-variable store; File=...:<base64> decodes an
// inline image, stores it in the image cache, and places it at the cursor
// the same way a Kitty transmit-and-display is. Other OSC 1337
// subcommands are ignored.
func (t *Terminal) handleITerm2OSC(body string) {
	if strings.HasPrefix(body, "SetUserVar=") {
		t.handleSetUserVar(body[len("SetUserVar="):])
		return
	}
	if !strings.HasPrefix(body, "File=") {
		return
	}
	body = body[len("File="):]

	sep := strings.IndexByte(body, ':')
	if sep < 0 {
		return
	}
	args, encoded := body[:sep], body[sep+1:]

	inline := false
	cols, rows := 0, 0
	for _, arg := range strings.Split(args, ";") {
		eq := strings.IndexByte(arg, '=')
		if eq <= 0 {
			continue
		}
		key, value := arg[:eq], arg[eq+1:]
		switch key {
		case "inline":
			inline = value == "1"
		case "width":
			cols = parseITerm2Cells(value)
		case "height":
			rows = parseITerm2Cells(value)
		}
	}
	if !inline {
		// Download-only transfers are a file-transfer feature, not a
		// terminal-state one.
		return
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return
	}

	rgba, width, height, err := decodePNG(data)
	if err != nil || width == 0 || height == 0 {
		return
	}
	if width > ImageMaxAxisPixels || height > ImageMaxAxisPixels || len(rgba) > ImageMaxBytesPerImage {
		return
	}

	id := t.images.Store(width, height, rgba)

	// Reuse the Kitty display path for placement and cursor movement.
	t.kittyDisplay(&KittyCommand{
		Action:  KittyActionDisplay,
		ImageID: id,
		Cols:    uint32(cols),
		Rows:    uint32(rows),
		Quiet:   2,
	})
}

// parseITerm2Cells parses an OSC 1337 width/height argument. Cell counts
// are plain integers; "auto", pixel ("Npx") and percentage ("N%") forms
// fall back to auto-sizing from the image dimensions.
func parseITerm2Cells(value string) int {
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return n
	}
	return 0
}
