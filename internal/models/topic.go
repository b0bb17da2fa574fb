package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Supported languages. Any other code is accepted and looked up by suffix.
const (
	LanguageEnglish = "en"
	LanguageHindi   = "hi"
)

// Field names of a topic record. Localized variants append "_<lang>".
const (
	fieldTopic             = "topic"
	fieldSimpleExplanation = "simple_explanation"
	fieldNormalExplanation = "normal_explanation"
	fieldFAQ               = "faq"
	fieldExamples          = "examples"
)

// LanguageKey returns the field suffix key for a language. English and the
// empty language map to the unsuffixed field.
func LanguageKey(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == LanguageEnglish {
		return ""
	}
	return lang
}

// LocalizedText holds one text field per language key; "" is the unsuffixed default.
type LocalizedText map[string]string

// For returns the text for language, falling back to the unsuffixed value.
func (t LocalizedText) For(language string) string {
	if key := LanguageKey(language); key != "" {
		if v := t[key]; v != "" {
			return v
		}
	}
	return t[""]
}

// FAQKind tags which shape a FAQ list was written in.
type FAQKind int

const (
	FAQKindPlain FAQKind = iota // list of strings
	FAQKindPairs                // list of {question, answer} objects
)

// FAQPair is a structured FAQ entry. In a pairs list, an element that is not
// a question object keeps its text in Note and renders as a plain item.
type FAQPair struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
	Note     string `json:"-"`
}

// FAQ is a tagged variant; only the slice matching Kind is populated.
type FAQ struct {
	Kind  FAQKind
	Items []string
	Pairs []FAQPair
}

// Len returns the number of entries regardless of kind.
func (f FAQ) Len() int {
	if f.Kind == FAQKindPairs {
		return len(f.Pairs)
	}
	return len(f.Items)
}

// LocalizedFAQ holds one FAQ list per language key.
type LocalizedFAQ map[string]FAQ

// For returns the FAQ for language, falling back to the unsuffixed list when
// the localized one is absent or empty.
func (f LocalizedFAQ) For(language string) FAQ {
	if key := LanguageKey(language); key != "" {
		if v, ok := f[key]; ok && v.Len() > 0 {
			return v
		}
	}
	return f[""]
}

// TopicRecord is one financial concept in a catalog.
type TopicRecord struct {
	Topic             string
	SimpleExplanation LocalizedText
	NormalExplanation LocalizedText
	FAQ               LocalizedFAQ
	// Examples are retained as raw JSON; they are not rendered into prompts.
	Examples map[string]json.RawMessage

	hasTopic bool
}

// HasTopicField reports whether the source object carried a "topic" key.
func (r *TopicRecord) HasTopicField() bool {
	return r.hasTopic
}

// SetTopic assigns the canonical title.
func (r *TopicRecord) SetTopic(topic string) {
	r.Topic = topic
	r.hasTopic = true
}

// Explanation selects the simple text for beginners and the normal text otherwise.
func (r *TopicRecord) Explanation(mode Mode, language string) string {
	if mode == ModeBeginner {
		return r.SimpleExplanation.For(language)
	}
	return r.NormalExplanation.For(language)
}

// FAQFor returns the FAQ list for language.
func (r *TopicRecord) FAQFor(language string) FAQ {
	return r.FAQ.For(language)
}

// UnmarshalJSON decodes a record, splitting language suffixed fields and
// resolving the FAQ shape once.
func (r *TopicRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = TopicRecord{
		SimpleExplanation: LocalizedText{},
		NormalExplanation: LocalizedText{},
		FAQ:               LocalizedFAQ{},
		Examples:          map[string]json.RawMessage{},
	}

	for name, raw := range fields {
		if name == fieldTopic {
			r.hasTopic = true
			r.Topic = decodeString(raw)
			continue
		}
		if lang, ok := splitField(name, fieldSimpleExplanation); ok {
			r.SimpleExplanation[lang] = decodeString(raw)
			continue
		}
		if lang, ok := splitField(name, fieldNormalExplanation); ok {
			r.NormalExplanation[lang] = decodeString(raw)
			continue
		}
		if lang, ok := splitField(name, fieldFAQ); ok {
			r.FAQ[lang] = decodeFAQ(raw)
			continue
		}
		if lang, ok := splitField(name, fieldExamples); ok {
			r.Examples[lang] = raw
		}
	}
	return nil
}

// splitField matches base or base_<lang> and returns the language key.
func splitField(name, base string) (string, bool) {
	if name == base {
		return "", true
	}
	if lang, ok := strings.CutPrefix(name, base+"_"); ok && lang != "" {
		return strings.ToLower(lang), true
	}
	return "", false
}

// decodeString returns the JSON string value, or "" for any other type.
func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// decodeFAQ resolves the FAQ variant from its first element.
func decodeFAQ(raw json.RawMessage) FAQ {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil || len(entries) == 0 {
		return FAQ{Kind: FAQKindPlain}
	}

	if isPairEntry(entries[0]) {
		faq := FAQ{Kind: FAQKindPairs, Pairs: make([]FAQPair, 0, len(entries))}
		for _, e := range entries {
			if !isPairEntry(e) {
				faq.Pairs = append(faq.Pairs, FAQPair{Note: plainText(e)})
				continue
			}
			var obj map[string]json.RawMessage
			_ = json.Unmarshal(e, &obj)
			faq.Pairs = append(faq.Pairs, FAQPair{
				Question: firstString(obj, "q", "question"),
				Answer:   firstString(obj, "a", "answer"),
			})
		}
		return faq
	}

	faq := FAQ{Kind: FAQKindPlain, Items: make([]string, 0, len(entries))}
	for _, e := range entries {
		faq.Items = append(faq.Items, plainText(e))
	}
	return faq
}

// plainText returns a JSON string's value, or any other value as compact JSON.
func plainText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// isPairEntry reports whether a FAQ element is an object carrying a question key.
func isPairEntry(raw json.RawMessage) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	_, short := obj["q"]
	_, long := obj["question"]
	return short || long
}

func firstString(obj map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		if raw, ok := obj[k]; ok {
			return decodeString(raw)
		}
	}
	return ""
}

// Catalog is the ordered list of topics for one language.
type Catalog []TopicRecord

// Titles returns the non-empty topic titles in catalog order.
func (c Catalog) Titles() []string {
	titles := make([]string, 0, len(c))
	for _, r := range c {
		if r.Topic != "" {
			titles = append(titles, r.Topic)
		}
	}
	return titles
}

// CatalogSet holds one catalog per language with a default for unknown languages.
type CatalogSet struct {
	defaultLanguage string
	catalogs        map[string]Catalog
}

// NewCatalogSet creates an empty set. An empty defaultLanguage means English.
func NewCatalogSet(defaultLanguage string) *CatalogSet {
	if defaultLanguage == "" {
		defaultLanguage = LanguageEnglish
	}
	return &CatalogSet{
		defaultLanguage: strings.ToLower(defaultLanguage),
		catalogs:        make(map[string]Catalog),
	}
}

// Set stores the catalog for a language. Call only during startup.
func (s *CatalogSet) Set(language string, c Catalog) {
	s.catalogs[strings.ToLower(strings.TrimSpace(language))] = c
}

// DefaultLanguage returns the fallback language.
func (s *CatalogSet) DefaultLanguage() string {
	return s.defaultLanguage
}

// For returns the catalog for language, or the default language's catalog.
func (s *CatalogSet) For(language string) Catalog {
	if c, ok := s.catalogs[strings.ToLower(strings.TrimSpace(language))]; ok {
		return c
	}
	return s.catalogs[s.defaultLanguage]
}

// Languages returns the number of loaded catalogs.
func (s *CatalogSet) Languages() int {
	return len(s.catalogs)
}
