package report

import (
	"fmt"
	"strings"

	"idt-crispr-bot/internal/model"
)

// MaxEntries caps the guide blocks rendered per result.
const MaxEntries = 10

const (
	customToolURL    = "https://www.idtdna.com/site/order/designtool/index/CRISPR_CUSTOM"
	checkerToolURL   = "https://www.idtdna.com/site/order/designtool/index/CRISPR_SEQUENCE"
	predesignToolURL = "https://www.idtdna.com/site/order/designtool/index/CRISPR_PREDESIGN"
)

// CustomResults renders a custom design payload.
func CustomResults(payload any, species model.Species) model.Message {
	blocks := []model.Block{
		header("🧬 IDT Custom gRNA Design Results"),
		contextLine(fmt.Sprintf("Species: *%s* | Scoring: IDT ML model (>1400 features)", species.DisplayName())),
		divider(),
	}
	guides := guideList(payload)
	if len(guides) == 0 {
		blocks = append(blocks, section("⚠️ No guide RNAs found for this target region. Try a different sequence (23-1000 bp)."))
		return model.Message{Text: "No guide RNAs found", Blocks: blocks}
	}
	for i, g := range capped(guides) {
		blocks = append(blocks, section(fmt.Sprintf("*Guide #%d*\n`%s`\n%s  |  %s  |  Pos: %s  |  Strand: %s",
			i+1, blankAs(g.Sequence, "N/A"),
			scoreLabel("On-target", g.OnTargetScore), scoreLabel("Off-target", g.OffTargetScore),
			blankAs(g.Position, "—"), blankAs(g.Strand, "—"))))
	}
	blocks = append(blocks, divider(), contextLine(
		"💡 Scores 1-100 (higher = better). On-target ≥60 = high efficiency (>40% editing). "+
			"IDT recommends testing ≥3 guides. "+link(customToolURL, "Open in IDT web tool")))
	return model.Message{Text: fmt.Sprintf("%d guide RNA designs", len(guides)), Blocks: blocks}
}

// CheckerResults renders a sequence checker payload for sequence.
func CheckerResults(payload any, sequence string, species model.Species) model.Message {
	blocks := []model.Block{
		header("🔍 IDT gRNA Sequence Check"),
		contextLine(fmt.Sprintf("Sequence: `%s` | Species: *%s*", sequence, species.DisplayName())),
		divider(),
	}
	results := checkerList(payload)
	if len(results) == 0 {
		blocks = append(blocks, section("⚠️ No results returned. Ensure sequence is exactly 20 bases (upstream of PAM site NGG)."))
		return model.Message{Text: "No checker results", Blocks: blocks}
	}
	for _, r := range capped(results) {
		verdict := "⚠️ *Proceed with caution* — consider testing alternatives"
		if Recommended(r.OnTargetScore, r.OffTargetScore) {
			verdict = "✅ *Recommended* — high predicted editing efficiency"
		}
		blocks = append(blocks, section(fmt.Sprintf("%s *On-target score:* %s/100\n%s *Off-target score:* %s/100\n\n%s",
			ScoreTier(r.OnTargetScore).Emoji(), r.OnTargetScore.Display(),
			ScoreTier(r.OffTargetScore).Emoji(), r.OffTargetScore.Display(),
			verdict)))
	}
	blocks = append(blocks, divider(), contextLine(
		"💡 Input must be 20bp protospacer directly 5′ of PAM (NGG). "+link(checkerToolURL, "Open in IDT checker")))
	return model.Message{Text: "gRNA check for " + sequence, Blocks: blocks}
}

// PredesignResults renders a predesigned guide lookup for gene.
func PredesignResults(payload any, gene string, species model.Species) model.Message {
	gene = strings.ToUpper(gene)
	blocks := []model.Block{
		header("📋 IDT Predesigned gRNAs — " + gene),
		contextLine(fmt.Sprintf("Gene: *%s* | Species: *%s*", gene, species.DisplayName())),
		divider(),
	}
	guides := guideList(payload)
	if len(guides) == 0 {
		blocks = append(blocks, section(fmt.Sprintf(
			"⚠️ No predesigned gRNAs found for *%s* in *%s*.\nTry checking the gene symbol or use `/crispr design` with a custom FASTA sequence.",
			gene, species.DisplayName())))
		return model.Message{Text: "No predesigned gRNAs for " + gene, Blocks: blocks}
	}
	for i, g := range capped(guides) {
		blocks = append(blocks, section(fmt.Sprintf("*#%d* `%s`\n%s  |  %s  |  Design ID: `%s`",
			i+1, blankAs(g.Sequence, "N/A"),
			scoreLabel("On", g.OnTargetScore), scoreLabel("Off", g.OffTargetScore),
			blankAs(g.DesignID, "—"))))
	}
	blocks = append(blocks, divider(), contextLine(
		"💡 IDT recommends testing ≥3 guides for best results. Order directly: "+link(predesignToolURL, "IDT Predesigned gRNA")))
	return model.Message{Text: fmt.Sprintf("%d predesigned gRNAs for %s", len(guides), gene), Blocks: blocks}
}

// Help lists the subcommands and supported species.
func Help() model.Message {
	body := "*Three commands available:*\n\n" +
		"*1. Design custom gRNAs from a target sequence:*\n" +
		"```/crispr design ATGCGATCG...NNNNN human```\n" +
		"Accepts FASTA sequence (23-1000 bp). Returns ranked gRNA list with on/off-target scores.\n\n" +
		"*2. Check a known 20bp guide sequence:*\n" +
		"```/crispr check ATGCGATCGATCGATCGATC human```\n" +
		"Input exactly 20 bases (protospacer, 5′ of PAM). Returns on/off-target scores.\n\n" +
		"*3. Look up predesigned gRNAs by gene:*\n" +
		"```/crispr predesign TNNT2 human```\n" +
		"Searches IDT's curated library for a gene symbol.\n\n" +
		"*Supported species:* " + model.SpeciesList()
	return model.Message{
		Text:   "IDT CRISPR gRNA Bot help",
		Blocks: []model.Block{header("🧬 IDT CRISPR gRNA Bot — Help"), section(body)},
	}
}

// Error renders a single error notice.
func Error(msg string) model.Message {
	return model.Message{
		Text:   "Error: " + msg,
		Blocks: []model.Block{section("❌ *Error:* " + msg)},
	}
}

func DesignProgress(length int, species model.Species) model.Message {
	return model.Message{Text: fmt.Sprintf("🔄 Designing gRNAs for your %dbp sequence (%s)... this may take a moment.", length, species)}
}

func CheckProgress(sequence string, species model.Species) model.Message {
	return model.Message{Text: fmt.Sprintf("🔄 Checking `%s` against %s genome...", sequence, species)}
}

func PredesignProgress(gene string, species model.Species) model.Message {
	return model.Message{Text: fmt.Sprintf("🔄 Looking up predesigned gRNAs for *%s* (%s)...", gene, species)}
}

func capped(guides []model.Guide) []model.Guide {
	if len(guides) > MaxEntries {
		return guides[:MaxEntries]
	}
	return guides
}

func scoreLabel(label string, s model.Score) string {
	return fmt.Sprintf("%s %s: *%s*", ScoreTier(s).Emoji(), label, s.Display())
}

func link(url, label string) string {
	return "<" + url + "|" + label + ">"
}

func header(text string) model.Block      { return model.Block{Kind: model.BlockHeader, Text: text} }
func contextLine(text string) model.Block { return model.Block{Kind: model.BlockContext, Text: text} }
func section(text string) model.Block     { return model.Block{Kind: model.BlockSection, Text: text} }
func divider() model.Block                { return model.Block{Kind: model.BlockDivider} }

func blankAs(v, d string) string {
	if strings.TrimSpace(v) == "" {
		return d
	}
	return v
}
