package model

// ResourceSet is the discovered-resource set: an insertion-ordered set of
// image and document URLs. It only grows; there is no removal.
// The downloader processes the URLs in insertion order.
type ResourceSet struct {
	index map[string]struct{}
	urls  []string
}

// NewResourceSet returns an empty ResourceSet.
func NewResourceSet() *ResourceSet {
	return &ResourceSet{
		index: make(map[string]struct{}),
		urls:  make([]string, 0),
	}
}

// Add inserts rawURL and reports whether it was not already present.
func (s *ResourceSet) Add(rawURL string) bool {
	if _, ok := s.index[rawURL]; ok {
		return false
	}
	s.index[rawURL] = struct{}{}
	s.urls = append(s.urls, rawURL)
	return true
}

// Contains reports whether rawURL is in the set.
func (s *ResourceSet) Contains(rawURL string) bool {
	_, ok := s.index[rawURL]
	return ok
}

// Len returns the number of URLs in the set.
func (s *ResourceSet) Len() int {
	return len(s.urls)
}

// URLs returns a copy of the URLs in insertion order.
func (s *ResourceSet) URLs() []string {
	out := make([]string, len(s.urls))
	copy(out, s.urls)
	return out
}
