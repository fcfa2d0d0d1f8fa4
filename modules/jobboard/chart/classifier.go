// Package chart derives a positioned organization chart from a flat list of
// role assignments: keyword classification, hierarchy reconstruction, tiered
// layout and collision resolution.
package chart

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"
)

type RoleType string

const (
	RoleCommand         RoleType = "command"
	RoleDeputy          RoleType = "deputy"
	RoleFlight          RoleType = "flight"
	RoleSquadronCommand RoleType = "squadron_command"
	RoleNCO             RoleType = "nco"
	RoleMember          RoleType = "member"
	RoleSpecialist      RoleType = "specialist"
)

// Classification is a best-effort bucketing of a role name. Roles matching no
// keyword land in the default bucket; that is accepted behavior, not an error.
type Classification struct {
	Level     int
	IsCommand bool
	Squadron  string
	RoleType  RoleType
}

// Classifier turns a role name into a Classification. It is pluggable so an
// alternate scheme (different language, explicit tagging) can replace the
// keyword heuristics without touching layout code.
type Classifier interface {
	Classify(roleName string) Classification
}

//go:embed vocabulary.yaml
var vocabularyYAML []byte

type squadronVocabulary struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

type vocabulary struct {
	Command   []string             `yaml:"command"`
	Deputy    []string             `yaml:"deputy"`
	Flight    []string             `yaml:"flight"`
	NCO       []string             `yaml:"nco"`
	Squadrons []squadronVocabulary `yaml:"squadrons"`
}

// KeywordClassifier classifies by case-insensitive substring matching against
// a fixed vocabulary.
type KeywordClassifier struct {
	vocab vocabulary
}

func NewKeywordClassifier() (*KeywordClassifier, error) {
	var v vocabulary
	if err := yaml.Unmarshal(vocabularyYAML, &v); err != nil {
		return nil, err
	}
	return &KeywordClassifier{vocab: v}, nil
}

// MustKeywordClassifier panics on a malformed embedded vocabulary, which is a
// build defect rather than a runtime condition.
func MustKeywordClassifier() *KeywordClassifier {
	c, err := NewKeywordClassifier()
	if err != nil {
		panic(err)
	}
	return c
}

// matchesAny matches long keywords as substrings and short abbreviations
// ("cc", "ops", "comm") as whole words, so that "comm" does not hit inside
// "commander".
func matchesAny(name string, words map[string]bool, keywords []string) bool {
	for _, kw := range keywords {
		if len(kw) <= 4 {
			if words[kw] {
				return true
			}
			continue
		}
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func wordSet(name string) map[string]bool {
	out := map[string]bool{}
	for _, w := range strings.FieldsFunc(name, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		out[w] = true
	}
	return out
}

// Classify is total over any input string, including the empty string.
func (c *KeywordClassifier) Classify(roleName string) Classification {
	name := strings.ToLower(roleName)
	words := wordSet(name)

	squadron := ""
	for _, sq := range c.vocab.Squadrons {
		if matchesAny(name, words, sq.Keywords) {
			squadron = sq.Name
			break
		}
	}

	switch {
	case matchesAny(name, words, c.vocab.Command):
		if squadron != "" {
			return Classification{Level: 2, IsCommand: true, Squadron: squadron, RoleType: RoleSquadronCommand}
		}
		return Classification{Level: 0, IsCommand: true, RoleType: RoleCommand}
	case matchesAny(name, words, c.vocab.Deputy):
		return Classification{Level: 0, Squadron: squadron, RoleType: RoleDeputy}
	case matchesAny(name, words, c.vocab.Flight):
		return Classification{Level: 1, Squadron: squadron, RoleType: RoleFlight}
	case matchesAny(name, words, c.vocab.NCO):
		if squadron != "" {
			return Classification{Level: 3, Squadron: squadron, RoleType: RoleNCO}
		}
		return Classification{Level: 1, RoleType: RoleNCO}
	case squadron != "":
		return Classification{Level: 3, Squadron: squadron, RoleType: RoleMember}
	default:
		return Classification{Level: 4, RoleType: RoleSpecialist}
	}
}
