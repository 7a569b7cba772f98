package irc

import (
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// PrefixEntry is one ISUPPORT PREFIX mapping: mode letter -> (symbol,
// priority). Smaller Priority means more privileged (index 0 in the
// PREFIX token is the highest channel status).
type PrefixEntry struct {
	Symbol   byte
	Priority int
}

// ChanModes is the four-way split of ISUPPORT CHANMODES: list
// (address-list) modes, modes that always take a parameter, modes that
// take a parameter only when being set, and modes that never take one.
type ChanModes struct {
	AddressModes string
	Param        string
	SetParam     string
	NoParam      string
}

// ChanLimit is one ISUPPORT CHANLIMIT entry: a channel-type prefix and
// the maximum number of channels of that type a client may join.
type ChanLimit struct {
	Prefix byte
	Limit  int
}

// IDChan is one ISUPPORT IDCHAN entry (safe/anonymous channel length per
// prefix, e.g. "!:5").
type IDChan struct {
	Prefix byte
	Length int
}

// Store is the server's ISUPPORT (numeric 005) feature advertisement.
// Construction gives it the RFC-mandated defaults (spec.md §3); Parse
// mutates it line by line as RPL_ISUPPORT messages arrive. A key that
// was never set (and has no default) is "unsupported", which Has
// reports as false — distinct from a key whose value is merely falsy.
type Store struct {
	mu sync.RWMutex

	prefix       map[byte]PrefixEntry // mode letter -> entry
	prefixOrder  []byte               // mode letters, in PREFIX token order
	prefixRaw    string               // the raw "(ov)@+" token, for display/merge
	chanModes    ChanModes
	chanModesSet bool
	chanTypes    string
	chanTypesSet bool
	chanLimit    []ChanLimit
	chanLimitSet bool
	maxChannels  int
	maxChanSet   bool
	ints         map[string]int
	idchan       []IDChan
	maxList      map[byte]int
	targMax      map[string]int
	strs         map[string]string
	bools        map[string]bool
	raw          map[string][]string // unknown features, raw token args
	unsupported  map[string]bool     // explicitly removed via "-KEY"
}

// NewStore creates a Store pre-populated with the RFC/ISUPPORT-draft
// defaults: CHANNELLEN=200, CHANTYPES=#&, MODES=3, NICKLEN=9,
// PREFIX=(ov)@+%-ish (o:@,0  v:+,1  h:%,2), CHANMODES=b,,lk,.
func NewStore() *Store {
	s := &Store{
		ints:    map[string]int{},
		maxList: map[byte]int{},
		targMax: map[string]int{},
		strs:    map[string]string{},
		bools:   map[string]bool{},
		raw:     map[string][]string{},
	}
	s.ints["CHANNELLEN"] = 200
	s.chanTypes, s.chanTypesSet = "#&", true
	s.ints["MODES"] = 3
	s.ints["NICKLEN"] = 9
	s.setPrefix("(ov)@+", map[byte]int{'o': 0, 'v': 1}, []byte{'o', 'v'})
	s.prefix['h'] = PrefixEntry{Symbol: '%', Priority: 2}
	s.prefixOrder = append(s.prefixOrder, 'h')
	s.chanModes = ChanModes{AddressModes: "b", Param: "", SetParam: "lk", NoParam: ""}
	s.chanModesSet = true
	return s
}

func (s *Store) setPrefix(raw string, entries map[byte]int, order []byte) {
	s.prefixRaw = raw
	s.prefix = map[byte]PrefixEntry{}
	s.prefixOrder = nil
	// reconstruct symbols from raw "(modes)symbols"
	close := strings.IndexByte(raw, ')')
	if close < 0 || raw[0] != '(' {
		return
	}
	letters := raw[1:close]
	symbols := raw[close+1:]
	for i := 0; i < len(letters) && i < len(symbols); i++ {
		s.prefix[letters[i]] = PrefixEntry{Symbol: symbols[i], Priority: i}
		s.prefixOrder = append(s.prefixOrder, letters[i])
	}
}

// --- mutation ---

// Parse applies one ISUPPORT token (e.g. "PREFIX=(ov)@+" or "-NICKLEN")
// to the store.
func (s *Store) Parse(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(token) == 0 {
		return
	}
	if token[0] == '-' {
		key := strings.ToUpper(token[1:])
		s.remove(key)
		return
	}

	key, value, _ := strings.Cut(token, "=")
	key = strings.ToUpper(key)
	value, err := unescapeISupport(value)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "token": token}).
			WithError(err).Warn("irc: bad ISUPPORT escape, dropping token")
		return
	}

	delete(s.unsupported, key)
	switch key {
	case "PREFIX":
		s.reducePrefix(value)
	case "CHANMODES":
		s.reduceChanModes(value)
	case "CHANLIMIT":
		s.reduceChanLimit(value)
	case "MAXCHANNELS":
		s.reduceMaxChannels(value)
	case "NICKLEN", "CHANNELLEN", "KICKLEN", "TOPICLEN", "MODES":
		s.reduceInt(key, value)
	case "CHANTYPES":
		s.chanTypes, s.chanTypesSet = value, true
	case "EXCEPTS":
		s.reduceStrDefault(key, value, "e")
	case "INVEX":
		s.reduceStrDefault(key, value, "I")
	case "NETWORK", "STATUSMSG":
		s.reduceFirstToken(key, value)
	case "IDCHAN":
		s.reduceIDChan(value)
	case "MAXLIST":
		s.reduceMaxList(value)
	case "TARGMAX":
		s.reduceTargMax(value)
	case "SAFELIST":
		s.bools[key] = true
	default:
		s.raw[key] = splitCommaArgs(value)
	}
}

func (s *Store) remove(key string) {
	if s.unsupported == nil {
		s.unsupported = map[string]bool{}
	}
	s.unsupported[key] = true
	delete(s.ints, key)
	delete(s.strs, key)
	delete(s.bools, key)
	delete(s.raw, key)
	switch key {
	case "PREFIX":
		s.prefix, s.prefixOrder, s.prefixRaw = nil, nil, ""
	case "CHANMODES":
		s.chanModesSet = false
	case "CHANTYPES":
		s.chanTypesSet = false
	case "CHANLIMIT":
		s.chanLimit, s.chanLimitSet = nil, false
	case "MAXCHANNELS":
		s.maxChanSet = false
	case "IDCHAN":
		s.idchan = nil
	case "MAXLIST":
		s.maxList = map[byte]int{}
	case "TARGMAX":
		s.targMax = map[string]int{}
	}
}

func (s *Store) reducePrefix(value string) {
	if len(value) == 0 || value[0] != '(' {
		logrus.WithField("value", value).Warn("irc: malformed PREFIX, keeping previous value")
		return
	}
	closeI := strings.IndexByte(value, ')')
	if closeI < 0 {
		logrus.WithField("value", value).Warn("irc: malformed PREFIX, keeping previous value")
		return
	}
	letters, symbols := value[1:closeI], value[closeI+1:]
	if len(letters) != len(symbols) {
		logrus.WithField("value", value).Warn("irc: malformed PREFIX, keeping previous value")
		return
	}
	entries := map[byte]int{}
	order := make([]byte, len(letters))
	for i := 0; i < len(letters); i++ {
		entries[letters[i]] = i
		order[i] = letters[i]
	}
	s.setPrefix(value, entries, order)
}

func (s *Store) reduceChanModes(value string) {
	groups := strings.Split(value, ",")
	if len(groups) > 4 {
		logrus.WithField("value", value).Warn("irc: CHANMODES has more than 4 groups, ignoring")
		return
	}
	for len(groups) < 4 {
		groups = append(groups, "")
	}
	s.chanModes = ChanModes{AddressModes: groups[0], Param: groups[1], SetParam: groups[2], NoParam: groups[3]}
	s.chanModesSet = true
}

func (s *Store) reduceChanLimit(value string) {
	var limits []ChanLimit
	for _, tok := range strings.Split(value, ",") {
		prefixes, nStr, ok := strings.Cut(tok, ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(nStr)
		if err != nil {
			continue
		}
		for i := 0; i < len(prefixes); i++ {
			limits = append(limits, ChanLimit{Prefix: prefixes[i], Limit: n})
		}
	}
	s.chanLimit, s.chanLimitSet = limits, true
	if !s.maxChanSet {
		if len(limits) > 0 {
			s.maxChannels, s.maxChanSet = limits[0].Limit, true
		}
	}
}

// maxChannelsSeedPrefixes is the fixed channel-type set MAXCHANNELS seeds
// CHANLIMIT with, independent of whatever CHANTYPES currently holds
// (original_source/girclib/irc.py:466-476's isupport_MAXCHANNELS: `for
// chantype in "#+&"`, not the negotiated chantypes).
const maxChannelsSeedPrefixes = "#+&"

func (s *Store) reduceMaxChannels(value string) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return
	}
	s.maxChannels, s.maxChanSet = n, true
	if !s.chanLimitSet {
		var limits []ChanLimit
		for i := 0; i < len(maxChannelsSeedPrefixes); i++ {
			limits = append(limits, ChanLimit{Prefix: maxChannelsSeedPrefixes[i], Limit: n})
		}
		s.chanLimit, s.chanLimitSet = limits, true
	}
}

func (s *Store) reduceInt(key, value string) {
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "value": value}).
			Warn("irc: non-integer ISUPPORT value, keeping previous value")
		return
	}
	s.ints[key] = n
}

func (s *Store) reduceStrDefault(key, value, def string) {
	if value == "" {
		value = def
	}
	s.strs[key] = value
}

func (s *Store) reduceFirstToken(key, value string) {
	first, _, _ := strings.Cut(value, ",")
	s.strs[key] = first
}

func (s *Store) reduceIDChan(value string) {
	var out []IDChan
	for _, tok := range strings.Split(value, ",") {
		prefix, lenStr, ok := strings.Cut(tok, ":")
		if !ok || len(prefix) == 0 {
			continue
		}
		n, err := strconv.Atoi(lenStr)
		if err != nil {
			continue
		}
		out = append(out, IDChan{Prefix: prefix[0], Length: n})
	}
	s.idchan = out
}

func (s *Store) reduceMaxList(value string) {
	out := map[byte]int{}
	for _, tok := range strings.Split(value, ",") {
		prefixes, nStr, ok := strings.Cut(tok, ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(nStr)
		if err != nil {
			continue
		}
		for i := 0; i < len(prefixes); i++ {
			out[prefixes[i]] = n
		}
	}
	s.maxList = out
}

func (s *Store) reduceTargMax(value string) {
	out := map[string]int{}
	for _, tok := range strings.Split(value, ",") {
		cmd, nStr, ok := strings.Cut(tok, ":")
		if !ok {
			continue
		}
		if nStr == "" {
			out[strings.ToUpper(cmd)] = -1 // no limit specified
			continue
		}
		n, err := strconv.Atoi(nStr)
		if err != nil {
			continue
		}
		out[strings.ToUpper(cmd)] = n
	}
	s.targMax = out
}

func splitCommaArgs(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

// unescapeISupport un-escapes \xHH sequences in an ISUPPORT value.
func unescapeISupport(value string) (string, error) {
	if !strings.Contains(value, "\\x") {
		return value, nil
	}
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		if value[i] == '\\' && i+3 < len(value) && value[i+1] == 'x' {
			n, err := strconv.ParseUint(value[i+2:i+4], 16, 8)
			if err != nil {
				return "", err
			}
			b.WriteByte(byte(n))
			i += 3
			continue
		}
		b.WriteByte(value[i])
	}
	return b.String(), nil
}

// --- queries ---

// Has reports whether feature is currently supported (set, and not
// removed via "-KEY"). Unknown features default to unsupported.
func (s *Store) Has(feature string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	feature = strings.ToUpper(feature)
	if s.unsupported[feature] {
		return false
	}
	switch feature {
	case "PREFIX":
		return s.prefix != nil
	case "CHANMODES":
		return s.chanModesSet
	case "CHANTYPES":
		return s.chanTypesSet
	case "CHANLIMIT":
		return s.chanLimitSet
	case "MAXCHANNELS":
		return s.maxChanSet
	}
	if _, ok := s.ints[feature]; ok {
		return true
	}
	if _, ok := s.strs[feature]; ok {
		return true
	}
	if _, ok := s.bools[feature]; ok {
		return true
	}
	if _, ok := s.raw[feature]; ok {
		return true
	}
	return false
}

// Get returns the raw argument tuple for an unknown feature, or def if
// it was never seen (or has been removed).
func (s *Store) Get(feature string, def []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	feature = strings.ToUpper(feature)
	if v, ok := s.raw[feature]; ok {
		return v
	}
	return def
}

// Int returns an integer-valued feature (NICKLEN, CHANNELLEN, KICKLEN,
// TOPICLEN, MODES, MAXCHANNELS), or def if unsupported.
func (s *Store) Int(feature string, def int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	feature = strings.ToUpper(feature)
	if s.unsupported[feature] {
		return def
	}
	if feature == "MAXCHANNELS" {
		if s.maxChanSet {
			return s.maxChannels
		}
		return def
	}
	if v, ok := s.ints[feature]; ok {
		return v
	}
	return def
}

// Str returns a string-valued feature (NETWORK, STATUSMSG, EXCEPTS,
// INVEX), or def if unsupported.
func (s *Store) Str(feature string, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	feature = strings.ToUpper(feature)
	if s.unsupported[feature] {
		return def
	}
	if v, ok := s.strs[feature]; ok {
		return v
	}
	return def
}

// Bool returns a boolean-valued feature (SAFELIST), false if unsupported.
func (s *Store) Bool(feature string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bools[strings.ToUpper(feature)]
}

// ChanTypes returns the negotiated channel-type prefixes, defaulting to
// DefaultChannelTypes if CHANTYPES has never been set.
func (s *Store) ChanTypes() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.chanTypesSet {
		return DefaultChannelTypes
	}
	return s.chanTypes
}

// IsChannel reports whether name begins with a negotiated channel-type
// prefix.
func (s *Store) IsChannel(name string) bool {
	return IsChannel(name, s.ChanTypes())
}

// PrefixSymbols returns the symbols half of the PREFIX token ("@+" for
// "(ov)@+"), in PREFIX order, suitable as ParseNetmaskWithSigils's sigil
// alphabet. It returns "@+%" when no PREFIX is set.
func (s *Store) PrefixSymbols() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.prefixOrder) == 0 {
		return "@+%"
	}
	symbols := make([]byte, len(s.prefixOrder))
	for i, letter := range s.prefixOrder {
		symbols[i] = s.prefix[letter].Symbol
	}
	return string(symbols)
}

// PrefixEntry looks up the PREFIX entry for a channel mode letter
// ('o', 'v', 'h', ...).
func (s *Store) PrefixEntry(letter byte) (PrefixEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.prefix[letter]
	return e, ok
}

// ChanModes returns the negotiated CHANMODES four-tuple.
func (s *Store) ChanModes() ChanModes {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chanModes
}

// ChanLimit returns the negotiated CHANLIMIT entries.
func (s *Store) ChanLimit() []ChanLimit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ChanLimit, len(s.chanLimit))
	copy(out, s.chanLimit)
	return out
}

// SetParamModes computes the (on-set, on-clear) parameter-mode alphabet
// a MODE line targeting a channel should be parsed with, per spec.md
// §4.F.3: the union of PREFIX letters, CHANMODES.AddressModes, .Param,
// and (on the "set" side only) .SetParam.
func (s *Store) SetParamModes() ParamModes {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var on, off strings.Builder
	for _, letter := range s.prefixOrder {
		on.WriteByte(letter)
		off.WriteByte(letter)
	}
	on.WriteString(s.chanModes.AddressModes)
	off.WriteString(s.chanModes.AddressModes)
	on.WriteString(s.chanModes.Param)
	off.WriteString(s.chanModes.Param)
	on.WriteString(s.chanModes.SetParam)
	return ParamModes{On: on.String(), Off: off.String()}
}

// Clone deep-copies the store so it can be handed to event receivers
// (or retained across a reconnect) without aliasing the session's live
// copy.
func (s *Store) Clone() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := &Store{
		prefixRaw:    s.prefixRaw,
		chanModes:    s.chanModes,
		chanModesSet: s.chanModesSet,
		chanTypes:    s.chanTypes,
		chanTypesSet: s.chanTypesSet,
		maxChannels:  s.maxChannels,
		maxChanSet:   s.maxChanSet,
		chanLimitSet: s.chanLimitSet,
		ints:         map[string]int{},
		maxList:      map[byte]int{},
		targMax:      map[string]int{},
		strs:         map[string]string{},
		bools:        map[string]bool{},
		raw:          map[string][]string{},
		unsupported:  map[string]bool{},
	}
	if s.prefix != nil {
		c.prefix = make(map[byte]PrefixEntry, len(s.prefix))
		for k, v := range s.prefix {
			c.prefix[k] = v
		}
		c.prefixOrder = append([]byte(nil), s.prefixOrder...)
	}
	c.chanLimit = append([]ChanLimit(nil), s.chanLimit...)
	c.idchan = append([]IDChan(nil), s.idchan...)
	for k, v := range s.ints {
		c.ints[k] = v
	}
	for k, v := range s.maxList {
		c.maxList[k] = v
	}
	for k, v := range s.targMax {
		c.targMax[k] = v
	}
	for k, v := range s.strs {
		c.strs[k] = v
	}
	for k, v := range s.bools {
		c.bools[k] = v
	}
	for k, v := range s.raw {
		c.raw[k] = append([]string(nil), v...)
	}
	for k, v := range s.unsupported {
		c.unsupported[k] = v
	}
	return c
}
