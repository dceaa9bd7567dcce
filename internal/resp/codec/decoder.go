// Package codec implements the RESP2 streaming decoder and encoder
// (grounded on original_source/redis/src/resp/{decoder,encoder,parser}.rs).
package codec

import "github.com/vh012/wiredaemon/internal/resp/types"

// Decoder incrementally parses RESP values out of a byte stream that may
// arrive in arbitrarily small pieces. Feed appends bytes; Decode attempts
// one parse from whatever has accumulated so far, returning ok=false (no
// error) when more input is needed.
type Decoder struct {
	buf  []byte
	rule rule
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends chunk to the decoder's internal buffer. It does not parse;
// call Decode afterward.
func (d *Decoder) Feed(chunk []byte) {
	d.buf = append(d.buf, chunk...)
}

// Decode attempts to parse one complete value from the buffered bytes. It
// returns (value, true, nil) on success, (zero, false, nil) if more bytes
// are needed, or (zero, false, err) on a malformed frame. After an error the
// partial rule state is dropped but the malformed bytes stay buffered, so a
// further Decode call reports the same error; a fresh Decoder is needed to
// go on reading the stream.
func (d *Decoder) Decode() (types.Value, bool, error) {
	if len(d.buf) < 2 {
		return types.Value{}, false, nil
	}

	if d.rule == nil {
		r, err := ruleFor(d.buf[0])
		if err != nil {
			d.rule = nil
			return types.Value{}, false, err
		}
		d.rule = r
	}

	val, consumed, done, err := d.rule.next(d.buf)
	if err != nil {
		d.rule = nil
		return types.Value{}, false, err
	}
	if !done {
		return types.Value{}, false, nil
	}

	d.buf = d.buf[consumed:]
	d.rule = nil
	return val, true, nil
}

// Buffered reports how many unconsumed bytes remain, for diagnostics.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}
