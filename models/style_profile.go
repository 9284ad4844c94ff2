package models

import (
	"fmt"
	"strings"
)

// StyleProfile is the structured result of analyzing a creator's transcripts
// across the four analysis layers (hook texture, retention structure,
// language register, narrative function) plus the signature and structure
// summaries. A profile is immutable once created; re-running the analysis
// produces a new profile rather than patching an existing one.
type StyleProfile struct {
	CreatorName    string `json:"creator_name"`
	VideosAnalyzed int    `json:"videos_analyzed"`
	AnalysisDate   string `json:"analysis_date"`

	Hook             HookAnalysis       `json:"hook_analysis"`
	Retention        RetentionAnalysis  `json:"retention_analysis"`
	Language         LanguageAnalysis   `json:"language_analysis"`
	Narrative        NarrativeFunctions `json:"narrative_functions"`
	Signature        Signature          `json:"signature"`
	LanguagePatterns LanguagePatterns   `json:"language_patterns"`
	TypicalStructure TypicalStructure   `json:"typical_structure"`
}

// HookAnalysis describes how the creator opens before the viewer commits
// (layer 1, textual CTR).
type HookAnalysis struct {
	FirstHookType  string         `json:"first_hook_type"`
	HookExamples   []string       `json:"hook_examples"`
	TimeToConflict string         `json:"time_to_conflict"`
	InformationGap InformationGap `json:"information_gap"`
}

type InformationGap struct {
	Used     bool     `json:"used"`
	Examples []string `json:"examples"`
}

// RetentionAnalysis captures the structural mechanics that keep a viewer
// watching (layer 2).
type RetentionAnalysis struct {
	LoopType             string               `json:"loop_type"`
	LoopExamples         []string             `json:"loop_examples"`
	RewardFrequency      string               `json:"reward_frequency"`
	RewardTypes          []string             `json:"reward_types"`
	CognitiveAlternation CognitiveAlternation `json:"cognitive_alternation"`
	ComplexityEscalation string               `json:"complexity_escalation"`
}

type CognitiveAlternation struct {
	Patterns []string `json:"patterns"`
	Examples []string `json:"examples"`
}

// LanguageAnalysis captures the register the creator speaks in (layer 3).
type LanguageAnalysis struct {
	ControlledFriction ControlledFriction `json:"controlled_friction"`
	AttentionDirection AttentionDirection `json:"attention_direction"`
	VerbalEconomy      string             `json:"verbal_economy"`
	InformationDensity string             `json:"information_density"`
}

type ControlledFriction struct {
	Level    string   `json:"level"`
	Examples []string `json:"examples"`
}

type AttentionDirection struct {
	Used           bool     `json:"used"`
	TypicalPhrases []string `json:"typical_phrases"`
}

// NarrativeFunctions describes how the creator executes each function a
// script has to fulfill (layer 4).
type NarrativeFunctions struct {
	OpenTension      string `json:"open_tension"`
	InstallStakes    string `json:"install_stakes"`
	SustainCuriosity string `json:"sustain_curiosity"`
	MicroPayoff      string `json:"micro_payoff"`
	RaiseStakes      string `json:"raise_stakes"`
	ResolveTransform string `json:"resolve_transform"`
}

// Signature is the short summary that defines the style in a few strokes.
type Signature struct {
	Keywords        []string `json:"keywords"`
	DominantTone    string   `json:"dominant_tone"`
	PreferredFormat string   `json:"preferred_format"`
	UniqueElements  []string `json:"unique_elements"`
}

type LanguagePatterns struct {
	FrequentWords      []WordFrequency `json:"frequent_words"`
	TypicalExpressions []string        `json:"typical_expressions"`
	FavoriteConnectors []string        `json:"favorite_connectors"`
	Catchphrases       []string        `json:"catchphrases"`
}

type WordFrequency struct {
	Word      string `json:"word"`
	Frequency int    `json:"frequency"`
}

type TypicalStructure struct {
	Opening                string  `json:"opening"`
	Development            string  `json:"development"`
	Closing                string  `json:"closing"`
	AverageDurationMinutes float64 `json:"average_duration_minutes"`
}

// Validate checks that every field the prompt template depends on came back
// populated. A profile with holes is rejected outright: the template it feeds
// is reused for every script generated afterwards, so a silently defaulted
// field would corrupt all of them.
func (p *StyleProfile) Validate() error {
	var missing []string

	requireString := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	requireList := func(name string, v []string) {
		if len(v) == 0 {
			missing = append(missing, name)
		}
	}

	requireString("hook_analysis.first_hook_type", p.Hook.FirstHookType)
	requireList("hook_analysis.hook_examples", p.Hook.HookExamples)
	requireString("hook_analysis.time_to_conflict", p.Hook.TimeToConflict)

	requireString("retention_analysis.loop_type", p.Retention.LoopType)
	requireList("retention_analysis.loop_examples", p.Retention.LoopExamples)
	requireString("retention_analysis.reward_frequency", p.Retention.RewardFrequency)
	requireList("retention_analysis.reward_types", p.Retention.RewardTypes)
	requireList("retention_analysis.cognitive_alternation.patterns", p.Retention.CognitiveAlternation.Patterns)
	requireString("retention_analysis.complexity_escalation", p.Retention.ComplexityEscalation)

	requireString("language_analysis.controlled_friction.level", p.Language.ControlledFriction.Level)
	requireString("language_analysis.verbal_economy", p.Language.VerbalEconomy)
	requireString("language_analysis.information_density", p.Language.InformationDensity)

	requireString("narrative_functions.open_tension", p.Narrative.OpenTension)
	requireString("narrative_functions.install_stakes", p.Narrative.InstallStakes)
	requireString("narrative_functions.sustain_curiosity", p.Narrative.SustainCuriosity)
	requireString("narrative_functions.micro_payoff", p.Narrative.MicroPayoff)
	requireString("narrative_functions.raise_stakes", p.Narrative.RaiseStakes)
	requireString("narrative_functions.resolve_transform", p.Narrative.ResolveTransform)

	requireList("signature.keywords", p.Signature.Keywords)
	requireString("signature.dominant_tone", p.Signature.DominantTone)
	requireString("signature.preferred_format", p.Signature.PreferredFormat)
	requireList("signature.unique_elements", p.Signature.UniqueElements)

	if len(p.LanguagePatterns.FrequentWords) == 0 {
		missing = append(missing, "language_patterns.frequent_words")
	}
	requireList("language_patterns.typical_expressions", p.LanguagePatterns.TypicalExpressions)
	requireList("language_patterns.favorite_connectors", p.LanguagePatterns.FavoriteConnectors)
	requireList("language_patterns.catchphrases", p.LanguagePatterns.Catchphrases)

	requireString("typical_structure.opening", p.TypicalStructure.Opening)
	requireString("typical_structure.development", p.TypicalStructure.Development)
	requireString("typical_structure.closing", p.TypicalStructure.Closing)
	if p.TypicalStructure.AverageDurationMinutes <= 0 {
		missing = append(missing, "typical_structure.average_duration_minutes")
	}

	if len(missing) > 0 {
		return fmt.Errorf("style profile is missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
