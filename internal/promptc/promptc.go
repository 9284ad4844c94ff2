// Package promptc renders a style profile into the reusable prompt template
// that steers script generation. Pure string assembly: no I/O, no randomness,
// the same profile always compiles to byte-identical output.
package promptc

import (
	"fmt"
	"strings"

	"oryos/style-gateway/models"
)

// rewardInterval maps the analyzed micro-reward frequency onto the concrete
// cadence the generation prompt asks for.
func rewardInterval(frequency string) string {
	switch frequency {
	case "very_high":
		return "15-30 seconds"
	case "high":
		return "30-60 seconds"
	default:
		return "60-90 seconds"
	}
}

// Compile renders the prompt template for a profile. The template fully
// encodes the profile: script generation later receives only this string,
// never the profile itself.
func Compile(p *models.StyleProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a scriptwriter who writes EXACTLY in the style of %s.\n\n", p.CreatorName)

	fmt.Fprintf(&b, "## STYLE SIGNATURE:\n%s\n\n", strings.Join(p.Signature.Keywords, " + "))

	b.WriteString("## CTR RULES (Hook):\n")
	fmt.Fprintf(&b, "- Hook type: %s\n", p.Hook.FirstHookType)
	fmt.Fprintf(&b, "- Time to conflict: %s\n", p.Hook.TimeToConflict)
	if p.Hook.InformationGap.Used {
		b.WriteString("- USES information asymmetry\n")
	} else {
		b.WriteString("- Does NOT use information asymmetry\n")
	}
	b.WriteString("\n")

	b.WriteString("## RETENTION RULES:\n")
	fmt.Fprintf(&b, "- Loop type: %s\n", p.Retention.LoopType)
	fmt.Fprintf(&b, "- Micro-reward every: %s\n", rewardInterval(p.Retention.RewardFrequency))
	fmt.Fprintf(&b, "- Reward types: %s\n", strings.Join(p.Retention.RewardTypes, ", "))
	fmt.Fprintf(&b, "- Alternation patterns: %s\n\n", strings.Join(p.Retention.CognitiveAlternation.Patterns, ", "))

	b.WriteString("## LANGUAGE RULES:\n")
	fmt.Fprintf(&b, "- Friction: %s\n", p.Language.ControlledFriction.Level)
	fmt.Fprintf(&b, "- Verbal economy: %s\n", p.Language.VerbalEconomy)
	fmt.Fprintf(&b, "- Density: %s\n", p.Language.InformationDensity)
	if p.Language.AttentionDirection.Used {
		fmt.Fprintf(&b, "- Use phrases like: %s\n", strings.Join(p.Language.AttentionDirection.TypicalPhrases, ", "))
	} else {
		b.WriteString("- Does not use explicit attention-direction phrases\n")
	}
	b.WriteString("\n")

	b.WriteString("## MANDATORY LANGUAGE PATTERNS:\n")
	fmt.Fprintf(&b, "- Typical expressions: %s\n", strings.Join(p.LanguagePatterns.TypicalExpressions, ", "))
	fmt.Fprintf(&b, "- Connectors: %s\n", strings.Join(p.LanguagePatterns.FavoriteConnectors, ", "))
	fmt.Fprintf(&b, "- Catchphrases: %s\n\n", strings.Join(p.LanguagePatterns.Catchphrases, ", "))

	b.WriteString("## SCRIPT STRUCTURE:\n")
	fmt.Fprintf(&b, "- Opening: %s\n", p.TypicalStructure.Opening)
	fmt.Fprintf(&b, "- Development: %s\n", p.TypicalStructure.Development)
	fmt.Fprintf(&b, "- Closing: %s\n\n", p.TypicalStructure.Closing)

	b.WriteString("## FUNCTIONS THE SCRIPT MUST FULFILL:\n")
	fmt.Fprintf(&b, "1. OPEN TENSION: %s\n", p.Narrative.OpenTension)
	fmt.Fprintf(&b, "2. INSTALL STAKES: %s\n", p.Narrative.InstallStakes)
	fmt.Fprintf(&b, "3. SUSTAIN CURIOSITY: %s\n", p.Narrative.SustainCuriosity)
	fmt.Fprintf(&b, "4. DELIVER MICRO-PAYOFFS: %s\n", p.Narrative.MicroPayoff)
	fmt.Fprintf(&b, "5. RAISE STAKES: %s\n", p.Narrative.RaiseStakes)
	fmt.Fprintf(&b, "6. RESOLVE/TRANSFORM: %s\n\n", p.Narrative.ResolveTransform)

	fmt.Fprintf(&b, "## TONE:\n%s\n\n", p.Signature.DominantTone)

	fmt.Fprintf(&b, "The script must read as if %s wrote it themselves.", p.CreatorName)

	return b.String()
}
