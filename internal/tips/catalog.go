// Package tips hands out short notes on Albanian culture shown between
// practice questions.
package tips

import (
	"context"
	"math/rand/v2"
	"sync"
)

// Source hands out one tip per call. Implementations never fail; they
// fall back to something static instead.
type Source interface {
	Tip(ctx context.Context) string
}

var builtin = []string{
	"The qeleshe is a traditional Albanian hat worn in the north, often made of white felt.",
	"Besa is the Albanian code of honor meaning 'to keep one's word' - it's central to Albanian culture.",
	"The double-headed eagle on Albania's flag represents the north and south of the country.",
	"Raki is a traditional Albanian spirit, often served to guests as a sign of hospitality.",
	"The fustanella is a traditional kilt-like garment worn by men in southern Albania.",
	"Albanian is one of the oldest languages in Europe, forming its own branch of Indo-European.",
	"The xhubleta is a traditional bell-shaped dress worn by women in northern Albania.",
	"Coffee culture is huge in Albania - people spend hours socializing in cafes.",
	"Albanians nod their head down for 'yes' and shake it side to side for 'no' - opposite to most cultures.",
	"The traditional Albanian vest (jelek) is often embroidered with intricate patterns and colors.",
	"Skanderbeg is Albania's national hero who defended the country against Ottoman invasion.",
	"The plis is a white traditional hat from northern Albania, symbol of Albanian identity.",
	"Albanian traditional music includes epic ballads called 'këngë kreshnikësh'.",
	"The dimije are traditional loose trousers worn under dresses in Albanian folk costume.",
	"Byrek is a beloved traditional pastry filled with cheese, spinach, or meat.",
	"The opinga are traditional leather shoes with pointed, curled toes.",
	"Albanian wedding traditions include the 'ora' - a circle dance performed by all guests.",
	"The tambourine (dajre) and clarinet (kllarineta) are central to Albanian folk music.",
	"Traditional Albanian houses often have a 'oda' - a special room for receiving guests.",
	"The Albanian alphabet has 36 letters and was standardized in 1908.",
	"Red and black are the traditional colors of Albania, representing bravery and strength.",
	"The çifteli is a traditional two-stringed Albanian musical instrument.",
	"Albanian hospitality is legendary - guests are treated as sacred.",
	"The traditional Albanian cap (kapela) varies by region but always shows local identity.",
}

// Builtin returns a copy of the static tip list.
func Builtin() []string {
	return append([]string(nil), builtin...)
}

// Catalog deals tips from a fixed list in shuffled rounds. Every tip is
// shown once per round and a new order is drawn when a round ends.
type Catalog struct {
	mu    sync.Mutex
	tips  []string
	order []int
	next  int
	rng   *rand.Rand
}

// NewCatalog returns a Catalog over the builtin tips. A nil rng uses a
// randomly seeded source.
func NewCatalog(rng *rand.Rand) *Catalog {
	return NewCatalogOf(builtin, rng)
}

// NewCatalogOf returns a Catalog over tips.
func NewCatalogOf(tips []string, rng *rand.Rand) *Catalog {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Catalog{tips: append([]string(nil), tips...), rng: rng}
}

// Tip returns the next tip of the current round, or "" for an empty catalog.
func (c *Catalog) Tip(context.Context) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.tips) == 0 {
		return ""
	}
	if c.next >= len(c.order) {
		c.order = c.rng.Perm(len(c.tips))
		c.next = 0
	}
	t := c.tips[c.order[c.next]]
	c.next++
	return t
}

// Len reports how many tips the catalog holds.
func (c *Catalog) Len() int {
	return len(c.tips)
}
