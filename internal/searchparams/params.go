// Package searchparams keeps catalog filter selections in sync with the
// query string of the current location.
package searchparams

import (
	"net/url"

	"github.com/polestar/storefront/internal/domain"
)

// Navigator changes the current location. Replace swaps the current history
// entry without a reload; Push performs a full navigation.
type Navigator interface {
	Replace(location string)
	Push(location string)
}

// ToggleValue is stored for toggled keys.
const ToggleValue = "true"

type Option func(*Params)

// WithReplace selects history replacement instead of navigation.
func WithReplace(replace bool) Option {
	return func(p *Params) { p.replace = replace }
}

// Params is the filter state of one location.
type Params struct {
	path    string
	values  url.Values
	nav     Navigator
	replace bool
}

// New reads the initial state from location, a path with an optional query.
func New(location string, nav Navigator, opts ...Option) (*Params, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, err
	}
	p := &Params{path: u.Path, values: u.Query(), nav: nav}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Get returns the value of key and whether it is present.
func (p *Params) Get(key string) (string, bool) {
	vs, ok := p.values[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Set stores value under key; a nil value removes the key.
func (p *Params) Set(key string, value *string) {
	p.Update(map[string]*string{key: value})
}

// Update applies several changes with a single navigation.
func (p *Params) Update(changes map[string]*string) {
	for k, v := range changes {
		if v == nil {
			p.values.Del(k)
		} else {
			p.values.Set(k, *v)
		}
	}
	p.navigate()
}

// Toggle removes key when present and sets it to ToggleValue otherwise.
func (p *Params) Toggle(key string) {
	if _, ok := p.Get(key); ok {
		p.Set(key, nil)
		return
	}
	v := ToggleValue
	p.Set(key, &v)
}

// Clear removes every key.
func (p *Params) Clear() {
	p.values = url.Values{}
	p.navigate()
}

// Location is the path followed by the encoded query, if any.
func (p *Params) Location() string {
	if q := p.values.Encode(); q != "" {
		return p.path + "?" + q
	}
	return p.path
}

// Values returns a copy of the current query values.
func (p *Params) Values() url.Values {
	out := make(url.Values, len(p.values))
	for k, v := range p.values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Query parses the current values with the same rules as the product API.
func (p *Params) Query() (domain.ProductQuery, error) {
	return domain.ParseProductQuery(p.values)
}

func (p *Params) navigate() {
	if p.nav == nil {
		return
	}
	if p.replace {
		p.nav.Replace(p.Location())
	} else {
		p.nav.Push(p.Location())
	}
}
