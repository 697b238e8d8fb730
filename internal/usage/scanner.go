package usage

// Strip replaces comments and string literals with spaces so that the
// identifier counter only sees live code. The output has the same length
// as the input and keeps every newline, so line-based tooling stays
// accurate.
func Strip(content []byte, f Family) []byte {
	cfg := configFor(f)
	if cfg.lineComment == "" && len(cfg.quotes) == 0 {
		return content
	}

	const (
		stateCode = iota
		stateLineComment
		stateBlockComment
		stateString
		stateTripleString
		stateBacktick
		stateRustRaw
	)

	out := make([]byte, len(content))
	copy(out, content)

	state := stateCode
	var quote byte
	rawHashes := 0

	blank := func(from, to int) {
		for i := from; i < to; i++ {
			if out[i] != '\n' && out[i] != '\r' {
				out[i] = ' '
			}
		}
	}

	i := 0
	for i < len(content) {
		c := content[i]

		switch state {
		case stateCode:
			if cfg.rustRaw {
				if n, ok := rustRawStart(content, i); ok {
					blank(i, i+n)
					rawHashes = n - 2
					state = stateRustRaw
					i += n
					continue
				}
			}
			if cfg.lineComment != "" && hasAt(content, i, cfg.lineComment) {
				blank(i, i+len(cfg.lineComment))
				state = stateLineComment
				i += len(cfg.lineComment)
				continue
			}
			if cfg.blockStart != "" && hasAt(content, i, cfg.blockStart) {
				blank(i, i+len(cfg.blockStart))
				state = stateBlockComment
				i += len(cfg.blockStart)
				continue
			}
			if cfg.backtick && c == '`' {
				out[i] = ' '
				state = stateBacktick
				i++
				continue
			}
			if isQuote(cfg.quotes, c) {
				if cfg.tripleQuotes && hasAt(content, i+1, string([]byte{c, c})) {
					blank(i, i+3)
					quote = c
					state = stateTripleString
					i += 3
					continue
				}
				out[i] = ' '
				quote = c
				state = stateString
				i++
				continue
			}
			i++

		case stateLineComment:
			if c == '\n' {
				state = stateCode
			} else {
				out[i] = ' '
			}
			i++

		case stateBlockComment:
			if hasAt(content, i, cfg.blockEnd) {
				blank(i, i+len(cfg.blockEnd))
				state = stateCode
				i += len(cfg.blockEnd)
				continue
			}
			blank(i, i+1)
			i++

		case stateString:
			switch c {
			case '\\':
				blank(i, min(i+2, len(content)))
				i += 2
				continue
			case quote:
				out[i] = ' '
				state = stateCode
			case '\n':
				// Unterminated literal, give up on it at end of line.
				state = stateCode
			default:
				out[i] = ' '
			}
			i++

		case stateTripleString:
			if c == quote && hasAt(content, i+1, string([]byte{quote, quote})) {
				blank(i, i+3)
				state = stateCode
				i += 3
				continue
			}
			blank(i, i+1)
			i++

		case stateBacktick:
			switch c {
			case '\\':
				blank(i, min(i+2, len(content)))
				i += 2
				continue
			case '`':
				out[i] = ' '
				state = stateCode
			default:
				blank(i, i+1)
			}
			i++

		case stateRustRaw:
			if ok := rustRawEnd(content, i, rawHashes); ok {
				blank(i, i+1+rawHashes)
				state = stateCode
				i += 1 + rawHashes
				continue
			}
			blank(i, i+1)
			i++
		}
	}

	return out
}

// rustRawStart reports a raw string opener r"..." or r#"..."# at i and
// how many bytes it spans. The r must start an identifier boundary so
// that names ending in r do not trigger it.
func rustRawStart(content []byte, i int) (int, bool) {
	if content[i] != 'r' {
		return 0, false
	}
	if i > 0 && isIdentByte(content[i-1]) {
		return 0, false
	}
	j := i + 1
	for j < len(content) && content[j] == '#' {
		j++
	}
	if j < len(content) && content[j] == '"' {
		return j - i + 1, true
	}
	return 0, false
}

func rustRawEnd(content []byte, i, hashes int) bool {
	if content[i] != '"' {
		return false
	}
	if i+1+hashes > len(content) {
		return false
	}
	for k := 0; k < hashes; k++ {
		if content[i+1+k] != '#' {
			return false
		}
	}
	return true
}

func hasAt(content []byte, i int, s string) bool {
	if i+len(s) > len(content) {
		return false
	}
	return string(content[i:i+len(s)]) == s
}

func isQuote(quotes []byte, c byte) bool {
	for _, q := range quotes {
		if q == c {
			return true
		}
	}
	return false
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
