package irc

import "strings"

// WildMask is a nick!user@host pattern using IRC's glob wildcards ('*'
// matches any run of characters, '?' matches exactly one). It is used to
// test a User against a ban/except entry surfaced by ERR_BANNEDFROMCHAN
// or an RPL_BANLIST/RPL_EXCEPTLIST reply, grounded on the glob matching
// the teacher's access-list layer (irc.WildMask, referenced by
// data/user_access.go) performs against stored masks.
type WildMask string

// Match reports whether u's rendered netmask matches the wildmask.
// Matching is case-insensitive, per IRC casemapping convention.
func (w WildMask) Match(u User) bool {
	return wildMatch(strings.ToLower(string(w)), strings.ToLower(u.String()))
}

// MatchString is Match against a raw "nick!user@host" string.
func (w WildMask) MatchString(mask string) bool {
	return wildMatch(strings.ToLower(string(w)), strings.ToLower(mask))
}

// wildMatch is a small recursive glob matcher supporting '*' and '?'.
func wildMatch(pattern, s string) bool {
	if len(pattern) == 0 {
		return len(s) == 0
	}
	switch pattern[0] {
	case '*':
		// collapse consecutive '*'
		p := pattern
		for len(p) > 0 && p[0] == '*' {
			p = p[1:]
		}
		if len(p) == 0 {
			return true
		}
		for i := 0; i <= len(s); i++ {
			if wildMatch(p, s[i:]) {
				return true
			}
		}
		return false
	case '?':
		if len(s) == 0 {
			return false
		}
		return wildMatch(pattern[1:], s[1:])
	default:
		if len(s) == 0 || s[0] != pattern[0] {
			return false
		}
		return wildMatch(pattern[1:], s[1:])
	}
}
