package match

// Callback is invoked by a Processor for every Match whose producer id has
// a registered callback.
type Callback func(m *Match) error

// Processor dispatches on a Match's producer id, following §6: a dense
// array of callbacks indexed by id, plus a fallback used for unregistered
// ids (by default, descend into children).
type Processor struct {
	callbacks []Callback
	fallback  Callback
}

// NewProcessor creates a Processor sized for ids in [0, maxID].
func NewProcessor(maxID int) *Processor {
	if maxID < 0 {
		maxID = 0
	}
	return &Processor{
		callbacks: make([]Callback, maxID+1),
	}
}

// On registers cb to run whenever Process visits a match produced by id.
func (p *Processor) On(id int, cb Callback) {
	if id < 0 {
		return
	}
	if id >= len(p.callbacks) {
		grown := make([]Callback, id+1)
		copy(grown, p.callbacks)
		p.callbacks = grown
	}
	p.callbacks[id] = cb
}

// Fallback sets the callback run for ids with no registered callback.
// The default fallback descends into Children without otherwise acting.
func (p *Processor) Fallback(cb Callback) {
	p.fallback = cb
}

// Process dispatches on m's producer id and, for composite kinds with no
// registered callback, descends into Children. Siblings (Next) are always
// walked regardless of whether a callback fired for the current node,
// mirroring how a parser listener processes a whole match tree.
func (p *Processor) Process(m *Match) error {
	for n := m; n != nil; n = n.Next {
		if n.IsFailure() {
			continue
		}
		if err := p.dispatch(n); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) dispatch(n *Match) error {
	cb := p.callbackFor(n.ProducerID)
	if cb != nil {
		return cb(n)
	}
	if p.fallback != nil {
		return p.fallback(n)
	}
	if n.Children != nil {
		return p.Process(n.Children)
	}
	return nil
}

func (p *Processor) callbackFor(id int) Callback {
	if id < 0 || id >= len(p.callbacks) {
		return nil
	}
	return p.callbacks[id]
}

// TokenGroup returns the i-th captured group of a Token match, or "" if out
// of range or m did not come from a Token.
func TokenGroup(m *Match, i int) string {
	td, ok := m.Data.(*TokenData)
	if !ok || td == nil || i < 0 || i >= len(td.Groups) {
		return ""
	}
	return td.Groups[i]
}

// TokenGroupCount returns the number of captured groups of a Token match.
func TokenGroupCount(m *Match) int {
	td, ok := m.Data.(*TokenData)
	if !ok {
		return 0
	}
	return td.Count()
}
