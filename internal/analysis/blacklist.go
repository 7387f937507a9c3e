package analysis

import "sort"

// Blacklist holds the two deny sets: coins (base/quote symbols mixed with
// pair addresses, matching how fake-volume hits are recorded) and devs
// (creator wallets). Entries only ever accumulate. Not safe for concurrent
// use; the watcher goroutine owns it.
type Blacklist struct {
	coins map[string]struct{}
	devs  map[string]struct{}
}

// NewBlacklist builds a blacklist seeded with the given entries.
func NewBlacklist(coins, devs []string) *Blacklist {
	b := &Blacklist{
		coins: make(map[string]struct{}, len(coins)),
		devs:  make(map[string]struct{}, len(devs)),
	}
	for _, c := range coins {
		b.coins[c] = struct{}{}
	}
	for _, d := range devs {
		b.devs[d] = struct{}{}
	}
	return b
}

// AddCoin adds a symbol or pair address to the coin set. Returns true when
// the entry was not already present.
func (b *Blacklist) AddCoin(entry string) bool {
	if _, ok := b.coins[entry]; ok {
		return false
	}
	b.coins[entry] = struct{}{}
	return true
}

// AddDev adds a creator wallet to the dev set. Returns true when the entry
// was not already present.
func (b *Blacklist) AddDev(wallet string) bool {
	if _, ok := b.devs[wallet]; ok {
		return false
	}
	b.devs[wallet] = struct{}{}
	return true
}

// HasCoin reports whether a symbol or pair address is deny-listed.
func (b *Blacklist) HasCoin(entry string) bool {
	_, ok := b.coins[entry]
	return ok
}

// HasDev reports whether a creator wallet is deny-listed.
func (b *Blacklist) HasDev(wallet string) bool {
	_, ok := b.devs[wallet]
	return ok
}

// Coins returns the coin entries sorted, for stable persistence.
func (b *Blacklist) Coins() []string {
	return sortedKeys(b.coins)
}

// Devs returns the dev entries sorted, for stable persistence.
func (b *Blacklist) Devs() []string {
	return sortedKeys(b.devs)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
