package extract

// maskSource blanks out every region of TypeScript source where export-like
// syntax must never be detected: line and block comments, single- and
// double-quoted strings, template literals (including nested interpolation),
// and regex literals. The interior of each region is replaced with spaces;
// delimiters and newlines are kept so byte offsets and line structure
// survive. Pattern matching over the masked text can then treat every
// remaining token as real code.
//
// # Limitations
//
// Regex-literal detection is the classic division/regex ambiguity and is
// resolved heuristically from the preceding token. Tokens like
// `return /re/` are handled via a keyword lookback, but pathological
// expression positions may still be misread. For exact results use the
// tree-sitter backend.
func maskSource(src string) string {
	out := []byte(src)
	n := len(src)

	const (
		stCode = iota
		stLineComment
		stBlockComment
		stString
		stTemplate
		stRegex
	)

	state := stCode
	var quote byte

	// prev is the last significant code byte; lastWord the last complete
	// identifier, both feed the regex-literal heuristic.
	var prev byte
	var lastWord []byte
	inWord := false

	// Each entry tracks open braces inside a ${ } so the matching close
	// brace returns to template text rather than code.
	var interp []int

	blank := func(i int) {
		if out[i] != '\n' {
			out[i] = ' '
		}
	}
	// blankEscape masks a backslash escape pair starting at i.
	blankEscape := func(i int) {
		blank(i)
		if i+1 < n {
			blank(i + 1)
		}
	}

	i := 0
	for i < n {
		c := src[i]
		switch state {
		case stCode:
			switch {
			case c == '/' && i+1 < n && src[i+1] == '/':
				state = stLineComment
				blank(i)
				blank(i + 1)
				i += 2
			case c == '/' && i+1 < n && src[i+1] == '*':
				state = stBlockComment
				blank(i)
				blank(i + 1)
				i += 2
			case c == '\'' || c == '"':
				state = stString
				quote = c
				i++
			case c == '`':
				state = stTemplate
				i++
			case c == '/' && regexCanFollow(prev, string(lastWord)):
				state = stRegex
				i++
			case c == '{':
				if len(interp) > 0 {
					interp[len(interp)-1]++
				}
				prev = c
				lastWord = lastWord[:0]
				i++
			case c == '}':
				if len(interp) > 0 {
					if interp[len(interp)-1] == 0 {
						// closes a ${ }: back to template text
						interp = interp[:len(interp)-1]
						state = stTemplate
						i++
						continue
					}
					interp[len(interp)-1]--
				}
				prev = c
				lastWord = lastWord[:0]
				i++
			default:
				if isIdentByte(c) {
					if !inWord {
						lastWord = lastWord[:0]
					}
					inWord = true
					lastWord = append(lastWord, c)
					prev = c
				} else {
					inWord = false
					if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
						prev = c
						lastWord = lastWord[:0]
					}
				}
				i++
			}

		case stLineComment:
			if c == '\n' {
				state = stCode
			} else {
				out[i] = ' '
			}
			i++

		case stBlockComment:
			if c == '*' && i+1 < n && src[i+1] == '/' {
				blank(i)
				blank(i + 1)
				state = stCode
				i += 2
			} else {
				blank(i)
				i++
			}

		case stString:
			switch {
			case c == '\\' && i+1 < n:
				blankEscape(i)
				i += 2
			case c == quote:
				state = stCode
				prev = quote
				lastWord = nil
				i++
			case c == '\n':
				// unterminated string, bail back to code
				state = stCode
				i++
			default:
				blank(i)
				i++
			}

		case stTemplate:
			switch {
			case c == '\\' && i+1 < n:
				blankEscape(i)
				i += 2
			case c == '`':
				state = stCode
				prev = '`'
				lastWord = nil
				i++
			case c == '$' && i+1 < n && src[i+1] == '{':
				blank(i)
				blank(i + 1)
				interp = append(interp, 0)
				state = stCode
				prev = 0
				lastWord = nil
				i += 2
			default:
				blank(i)
				i++
			}

		case stRegex:
			switch {
			case c == '\\' && i+1 < n:
				blankEscape(i)
				i += 2
			case c == '[':
				// character class: an unescaped / inside is literal
				blank(i)
				i++
				for i < n && src[i] != ']' && src[i] != '\n' {
					if src[i] == '\\' && i+1 < n {
						blankEscape(i)
						i += 2
						continue
					}
					blank(i)
					i++
				}
				if i < n && src[i] == ']' {
					blank(i)
					i++
				}
			case c == '/':
				i++
				// mask trailing flags
				for i < n && isIdentByte(src[i]) {
					out[i] = ' '
					i++
				}
				state = stCode
				prev = '/'
				lastWord = nil
			case c == '\n':
				// regex literals cannot span lines; misdetected division
				state = stCode
				i++
			default:
				blank(i)
				i++
			}
		}
	}

	return string(out)
}

// regexCanFollow reports whether a / at the current position can start a
// regex literal, based on the last significant byte and last identifier.
func regexCanFollow(prev byte, lastWord string) bool {
	if prev == 0 {
		return true
	}
	switch lastWord {
	case "return", "typeof", "case", "in", "of", "new", "delete", "void", "do", "else", "yield", "await", "instanceof":
		return true
	}
	// after an identifier, literal end, or closing bracket, / is division
	if isIdentByte(prev) || prev == ')' || prev == ']' || prev == '\'' || prev == '"' || prev == '`' {
		return false
	}
	return true
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
