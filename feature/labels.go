package feature

import "slices"

// Labels is an ordered list of features. The position of a feature is the position of its
// coefficient in a model.
type Labels struct {
	features []Feature
	pos      map[string]int
}

// NewLabels indexes features by their string form. A repeated feature keeps its first
// position.
func NewLabels(features []Feature) *Labels {
	l := &Labels{
		features: features,
		pos:      make(map[string]int, len(features)),
	}
	for i, f := range features {
		name := f.String()
		if _, exists := l.pos[name]; !exists {
			l.pos[name] = i
		}
	}
	return l
}

func (l *Labels) Len() int {
	if l == nil {
		return 0
	}
	return len(l.features)
}

// Labels returns a copy of the features in order
func (l *Labels) Labels() []Feature {
	if l == nil {
		return nil
	}
	return slices.Clone(l.features)
}

// Names returns the string form of every feature in order
func (l *Labels) Names() []string {
	if l == nil {
		return nil
	}
	names := make([]string, 0, len(l.features))
	for _, f := range l.features {
		names = append(names, f.String())
	}
	return names
}

// Index returns the position of a feature
func (l *Labels) Index(f Feature) (int, bool) {
	return l.IndexOf(f.String())
}

// IndexOf returns the position of a feature given its string form
func (l *Labels) IndexOf(name string) (int, bool) {
	if l == nil {
		return -1, false
	}
	i, exists := l.pos[name]
	if !exists {
		return -1, false
	}
	return i, true
}
