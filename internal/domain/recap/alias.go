package recap

// AliasSet is the insertion-ordered set of display names the player used
// across the queried year. It may be empty when the player never appears in
// a selection (BYE-only or forfeited events).
type AliasSet struct {
	members map[string]struct{}
	order   []string
}

func NewAliasSet() *AliasSet {
	return &AliasSet{members: make(map[string]struct{})}
}

func (s *AliasSet) Add(name string) {
	if name == "" {
		return
	}
	if _, ok := s.members[name]; ok {
		return
	}
	s.members[name] = struct{}{}
	s.order = append(s.order, name)
}

func (s *AliasSet) Contains(name string) bool {
	_, ok := s.members[name]
	return ok
}

func (s *AliasSet) Len() int {
	return len(s.order)
}

// Names returns the aliases in first-seen order.
func (s *AliasSet) Names() []string {
	return append([]string(nil), s.order...)
}

// Members exposes the underlying membership map for score-side lookups.
func (s *AliasSet) Members() map[string]struct{} {
	return s.members
}

// CollectAliases scans every selection of every game and records the display
// name wherever the selection belongs to the event's entrant.
func CollectAliases(events []Event) *AliasSet {
	aliases := NewAliasSet()
	for _, event := range events {
		for _, set := range event.Sets {
			for _, game := range set.Games {
				for _, sel := range game.Selections {
					if sel.EntrantID == event.EntrantID {
						aliases.Add(sel.EntrantName)
					}
				}
			}
		}
	}
	return aliases
}
