package fallback

import (
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/i18ndata/pkg/locale"
	"github.com/dmitrymomot/i18ndata/pkg/zerotable"
)

//go:embed data/supplement.yaml
var defaultSupplement []byte

// supplementFile mirrors the YAML layout of the supplement data.
type supplementFile struct {
	DefaultScript        string            `yaml:"default_script"`
	LanguageScript       map[string]string `yaml:"language_script"`
	LanguageRegionScript map[string]string `yaml:"language_region_script"`
	LanguageRegion       map[string]string `yaml:"language_region"`
	LanguageScriptRegion map[string]string `yaml:"language_script_region"`
	Parents              map[string]string `yaml:"parents"`
}

type pair struct{ a, b string }

// supplement is the parsed, immutable form of supplementFile.
type supplement struct {
	defaultScript string
	l2s           map[string]string
	lr2s          map[pair]string
	l2r           map[string]string
	ls2r          map[pair]string
	parents       *zerotable.Table
	parentIDs     []locale.ID
}

func parseSupplement(r io.Reader) (*supplement, error) {
	var f supplementFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSupplement, err)
	}

	s := &supplement{
		defaultScript: f.DefaultScript,
		l2s:           make(map[string]string, len(f.LanguageScript)),
		lr2s:          make(map[pair]string, len(f.LanguageRegionScript)),
		l2r:           make(map[string]string, len(f.LanguageRegion)),
		ls2r:          make(map[pair]string, len(f.LanguageScriptRegion)),
	}
	if s.defaultScript == "" {
		s.defaultScript = "Latn"
	}

	for lang, script := range f.LanguageScript {
		s.l2s[lang] = script
	}
	for key, script := range f.LanguageRegionScript {
		id, err := parseKey(key)
		if err != nil || id.Region == "" {
			return nil, fmt.Errorf("%w: language_region_script key %q", ErrInvalidSupplement, key)
		}
		s.lr2s[pair{id.Language, id.Region}] = script
	}
	for lang, region := range f.LanguageRegion {
		s.l2r[lang] = region
	}
	for key, region := range f.LanguageScriptRegion {
		id, err := parseKey(key)
		if err != nil || id.Script == "" {
			return nil, fmt.Errorf("%w: language_script_region key %q", ErrInvalidSupplement, key)
		}
		s.ls2r[pair{id.Language, id.Script}] = region
	}

	pairs := make([]zerotable.Pair, 0, len(f.Parents))
	for child, parent := range f.Parents {
		c, err := parseKey(child)
		if err != nil {
			return nil, fmt.Errorf("%w: parent key %q: %w", ErrInvalidSupplement, child, err)
		}
		p, err := parseKey(parent)
		if err != nil {
			return nil, fmt.Errorf("%w: parent value %q: %w", ErrInvalidSupplement, parent, err)
		}
		pairs = append(pairs, zerotable.StringPair(c.String(), []byte(p.String())))
	}
	zerotable.SortPairs(pairs)
	parents, err := zerotable.Build(pairs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSupplement, err)
	}
	s.parents = parents
	s.parentIDs = make([]locale.ID, len(pairs))
	for i, p := range pairs {
		s.parentIDs[i] = locale.MustParse(string(p.Value))
	}

	return s, nil
}

func parseKey(s string) (locale.ID, error) {
	id, err := locale.Parse(s)
	if err != nil {
		return locale.ID{}, err
	}
	if id.HasExtensions() || len(id.Variants) > 0 {
		return locale.ID{}, fmt.Errorf("%q carries variants or extensions", s)
	}
	return id, nil
}

// parent returns the explicit parent of id, if any.
// id must not carry variants or extensions.
func (s *supplement) parent(id locale.ID) (locale.ID, bool) {
	i, ok := s.parents.Search(func(key []byte) int { return -id.StrictCompare(key) })
	if !ok {
		return locale.ID{}, false
	}
	return s.parentIDs[i].Clone(), true
}

func (s *supplement) languageScript(lang string) string {
	if script, ok := s.l2s[lang]; ok {
		return script
	}
	return s.defaultScript
}
