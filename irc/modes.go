package irc

// ModeChange is one mode letter toggled on or off, with its associated
// parameter if the mode consumed one (empty string, HasArg=false if not).
type ModeChange struct {
	Letter byte
	Arg    string
	HasArg bool
}

// ParamModes names which mode letters consume a parameter in each
// direction: On lists letters that take a parameter when being set
// ("+"), Off lists letters that take one when being cleared ("-").
type ParamModes struct {
	On  string
	Off string
}

// BadModes is returned by ParseModes for any malformed mode string or
// parameter-count mismatch (spec.md §7's BadModes taxonomy entry).
type BadModes struct {
	Modes  string
	Reason string
}

func (e *BadModes) Error() string {
	return "irc: bad modes " + quoteForError(e.Modes) + ": " + e.Reason
}

func quoteForError(s string) string {
	return "\"" + s + "\""
}

// ParseModes decodes a mode string such as "+o-v" against params,
// returning the modes added (current direction '+') and removed
// (direction '-') in the order they occurred, each paired with the
// parameter it consumed (if pm says the letter takes one in that
// direction). params must be exactly consumed; any left over, or any
// structural problem with modes itself, is a *BadModes error.
func ParseModes(modes string, params []string, pm ParamModes) (added, removed []ModeChange, err error) {
	if len(modes) == 0 {
		return nil, nil, &BadModes{Modes: modes, Reason: "empty mode string"}
	}
	if modes[0] != '+' && modes[0] != '-' {
		return nil, nil, &BadModes{Modes: modes, Reason: "must begin with + or -"}
	}

	var dir byte
	pi := 0
	sawLetterSinceSign := true

	for i := 0; i < len(modes); i++ {
		c := modes[i]
		switch c {
		case '+', '-':
			if !sawLetterSinceSign {
				return nil, nil, &BadModes{Modes: modes, Reason: "empty run between sign changes"}
			}
			if i == len(modes)-1 {
				return nil, nil, &BadModes{Modes: modes, Reason: "trailing sign with no letters"}
			}
			dir = c
			sawLetterSinceSign = false
		default:
			var takesParam bool
			if dir == '+' {
				takesParam = indexByte(pm.On, c) >= 0
			} else {
				takesParam = indexByte(pm.Off, c) >= 0
			}

			change := ModeChange{Letter: c}
			if takesParam {
				if pi >= len(params) {
					return nil, nil, &BadModes{Modes: modes, Reason: "too few params"}
				}
				change.Arg = params[pi]
				change.HasArg = true
				pi++
			}

			if dir == '+' {
				added = append(added, change)
			} else {
				removed = append(removed, change)
			}
			sawLetterSinceSign = true
		}
	}

	if pi != len(params) {
		return nil, nil, &BadModes{Modes: modes, Reason: "too many params"}
	}

	return added, removed, nil
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
