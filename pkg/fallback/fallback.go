package fallback

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrymomot/i18ndata/pkg/locale"
)

// maxSteps bounds a single chain even if supplement parents form a cycle.
const maxSteps = 64

// Fallbacker computes locale fallback chains from likely-subtag and parent data.
// It is immutable and safe for concurrent use.
type Fallbacker struct {
	data *supplement
}

// Option configures a Fallbacker.
type Option func(*Fallbacker) error

// WithSupplement replaces the bundled supplement with YAML read from r.
func WithSupplement(r io.Reader) Option {
	return func(f *Fallbacker) error {
		s, err := parseSupplement(r)
		if err != nil {
			return err
		}
		f.data = s
		return nil
	}
}

// New creates a Fallbacker. Without options it uses the bundled supplement.
func New(opts ...Option) (*Fallbacker, error) {
	f := &Fallbacker{}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	if f.data == nil {
		s, err := parseSupplement(bytes.NewReader(defaultSupplement))
		if err != nil {
			return nil, err
		}
		f.data = s
	}
	return f, nil
}

var defaultFallbacker = sync.OnceValue(func() *Fallbacker {
	f, err := New()
	if err != nil {
		panic(err)
	}
	return f
})

// Default returns a shared Fallbacker over the bundled supplement.
func Default() *Fallbacker {
	return defaultFallbacker()
}

// For binds f to a configuration.
func (f *Fallbacker) For(cfg Config) WithConfig {
	return WithConfig{f: f, cfg: cfg}
}

// WithConfig is a Fallbacker bound to one Config.
type WithConfig struct {
	f   *Fallbacker
	cfg Config
}

// Config returns the bound configuration.
func (w WithConfig) Config() Config { return w.cfg }

// Iterate starts a fallback walk at the normalized form of id.
func (w WithConfig) Iterate(id locale.ID) *Iterator {
	return &Iterator{
		data:    w.f.data,
		cfg:     w.cfg,
		current: w.Normalize(id),
	}
}

// Chain returns every candidate from the normalized id down to und.
func (w WithConfig) Chain(id locale.ID) []locale.ID {
	var out []locale.ID
	for it := w.Iterate(id); ; it.Step() {
		out = append(out, it.Get())
		if it.Done() {
			return out
		}
	}
}

// Normalize removes a script implied by the other subtags and, for region
// priority, fills in the likely region.
func (w WithConfig) Normalize(id locale.ID) locale.ID {
	id = id.Clone()
	d := w.f.data
	if id.Language == "" {
		id.Language = locale.UndLanguage
	}

	if w.cfg.Priority == PriorityRegion && id.Region == "" {
		if id.Script != "" {
			id.Region = d.ls2r[pair{id.Language, id.Script}]
		}
		if id.Region == "" {
			id.Region = d.l2r[id.Language]
		}
	}

	if id.Script != "" {
		implied := d.languageScript(id.Language)
		if id.Region != "" {
			if s, ok := d.lr2s[pair{id.Language, id.Region}]; ok {
				implied = s
			}
		}
		if id.Script == implied {
			id.Script = ""
		}
	}

	return id
}

// Iterator walks one fallback chain. It is request-local and not safe for
// concurrent use.
type Iterator struct {
	data *supplement
	cfg  Config

	current  locale.ID
	variants []string
	keyword  *locale.Keyword
	steps    int
}

// Get returns the current candidate.
func (it *Iterator) Get() locale.ID { return it.current }

// Done reports whether the walk reached und.
func (it *Iterator) Done() bool { return it.current.IsUnd() }

// Step removes one degree of specificity. Stepping at und is a no-op.
func (it *Iterator) Step() *Iterator {
	if it.Done() {
		return it
	}
	it.steps++
	if it.steps > maxSteps {
		it.current = locale.Und
		return it
	}

	if it.dropExtensions() || it.dropKeyword() || it.dropVariants() {
		return it
	}
	switch it.cfg.Priority {
	case PriorityRegion:
		it.stepRegion()
	default:
		it.stepLanguage()
	}
	return it
}

// dropExtensions removes private-use subtags, other extensions and every
// keyword except the retained one.
func (it *Iterator) dropExtensions() bool {
	c := &it.current
	retained := 0
	if it.cfg.ExtensionKey != "" {
		if _, ok := c.Keyword(it.cfg.ExtensionKey); ok {
			retained = 1
		}
	}
	if len(c.Extensions) == 0 && c.PrivateUse == "" && len(c.Keywords) == retained {
		return false
	}

	var kept []locale.Keyword
	if retained == 1 {
		v, _ := c.Keyword(it.cfg.ExtensionKey)
		kept = []locale.Keyword{{Key: it.cfg.ExtensionKey, Value: v}}
	}
	c.Keywords = kept
	c.Extensions = nil
	c.PrivateUse = ""
	return true
}

func (it *Iterator) dropKeyword() bool {
	if len(it.current.Keywords) == 0 {
		return false
	}
	kw := it.current.Keywords[0]
	it.keyword = &kw
	it.current.Keywords = nil
	return true
}

func (it *Iterator) dropVariants() bool {
	if len(it.current.Variants) == 0 {
		return false
	}
	it.variants = it.current.Variants
	it.current.Variants = nil
	return true
}

func (it *Iterator) restore() {
	if it.variants != nil {
		it.current.Variants = it.variants
		it.variants = nil
	}
	if it.keyword != nil {
		it.current.Keywords = []locale.Keyword{*it.keyword}
		it.keyword = nil
	}
}

func (it *Iterator) stepLanguage() {
	c := &it.current

	if p, ok := it.data.parent(*c); ok {
		*c = p
		it.restore()
		return
	}

	if c.Script == "" && c.Region != "" {
		if s, ok := it.data.lr2s[pair{c.Language, c.Region}]; ok {
			c.Script = s
			it.restore()
			return
		}
	}

	if c.Region != "" {
		c.Region = ""
		it.restore()
		return
	}

	*c = locale.Und
	it.variants = nil
	it.keyword = nil
}

func (it *Iterator) stepRegion() {
	c := &it.current

	if c.Language != locale.UndLanguage || c.Script != "" {
		c.Language = locale.UndLanguage
		c.Script = ""
		it.restore()
		return
	}

	*c = locale.Und
	it.variants = nil
	it.keyword = nil
}
