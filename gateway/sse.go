package gateway

import "strings"

// rawFrame is one decoded SSE record. Event and ID carry the most recent
// `event:`/`id:` metadata lines seen before the data line; empty when
// absent. In this protocol variant they are metadata only and do not
// change parsing behavior.
type rawFrame struct {
	Event string
	ID    string
	Data  string
}

// frameDecoder incrementally parses SSE text into frames.
//
// A line split across network chunks stays buffered until its newline
// arrives, so feeding a byte stream in arbitrary chunk sizes yields the
// same ordered frame sequence as feeding it whole. A trailing partial
// line at end of stream is never emitted.
type frameDecoder struct {
	buf   string
	event string
	id    string
}

// feed appends a chunk to the buffer and returns all frames completed
// by it, leaving any trailing partial line buffered for the next call.
func (d *frameDecoder) feed(chunk string) []rawFrame {
	d.buf += chunk

	var frames []rawFrame
	for {
		idx := strings.IndexByte(d.buf, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimSuffix(d.buf[:idx], "\r")
		d.buf = d.buf[idx+1:]

		if frame, ok := d.parseLine(line); ok {
			frames = append(frames, frame)
		}
	}
	return frames
}

// parseLine handles one complete line. Only `data:` lines yield frames;
// everything else is metadata or a no-op.
func (d *frameDecoder) parseLine(line string) (rawFrame, bool) {
	// Leading whitespace before the field prefix is tolerated
	trimmed := strings.TrimLeft(line, " \t")

	switch {
	case trimmed == "":
		// Blank line terminates the logical SSE event
		d.event, d.id = "", ""
		return rawFrame{}, false

	case strings.HasPrefix(trimmed, ":"):
		// Comment / keep-alive line
		return rawFrame{}, false

	case strings.HasPrefix(trimmed, "data:"):
		data := strings.TrimPrefix(trimmed, "data:")
		// At most the single separating space is stripped; trailing
		// spaces in the payload are significant and preserved verbatim
		data = strings.TrimPrefix(data, " ")
		return rawFrame{Event: d.event, ID: d.id, Data: data}, true

	case strings.HasPrefix(trimmed, "event:"):
		d.event = strings.TrimSpace(strings.TrimPrefix(trimmed, "event:"))
		return rawFrame{}, false

	case strings.HasPrefix(trimmed, "id:"):
		d.id = strings.TrimSpace(strings.TrimPrefix(trimmed, "id:"))
		return rawFrame{}, false

	default:
		// Unknown field - ignore, never misinterpret as data
		return rawFrame{}, false
	}
}
