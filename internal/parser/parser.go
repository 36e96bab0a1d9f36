package parser

import (
	"fmt"
	"strings"
	"unicode"

	"idt-crispr-bot/internal/model"
)

const (
	MinDesignLength   = 23
	MaxDesignLength   = 1000
	ProtospacerLength = 20
)

// Reason classifies a validation failure.
type Reason string

const (
	ReasonMissing Reason = "missing"
	ReasonLength  Reason = "length"
	ReasonFormat  Reason = "format"
)

// ValidationError reports malformed user input. Its message is safe to show
// to the requester as-is.
type ValidationError struct {
	Subcommand string
	Reason     Reason
	Detail     string
}

func (e *ValidationError) Error() string { return e.Detail }

// Parse turns the text following the slash command into a Command. The first
// whitespace-delimited token selects the subcommand, case-insensitively.
func Parse(text string) (model.Command, error) {
	text = strings.TrimSpace(text)
	parts := splitN(text, 2)
	if len(parts) == 0 {
		return model.Help{}, nil
	}
	rest := ""
	if len(parts) == 2 {
		rest = parts[1]
	}
	switch sub := strings.ToLower(parts[0]); sub {
	case "help":
		return model.Help{}, nil
	case "design":
		return parseDesign(rest)
	case "check":
		return parseCheck(rest)
	case "predesign":
		return parsePredesign(rest)
	default:
		return model.Unknown{Raw: parts[0]}, nil
	}
}

func parseDesign(rest string) (model.Command, error) {
	if rest == "" {
		return nil, missing("design", "Missing sequence. Usage: `/crispr design <FASTA_sequence> [species]`")
	}
	seq, species := splitTrailingSpecies(rest)
	n := PureLength(seq)
	if n < MinDesignLength || n > MaxDesignLength {
		return nil, &ValidationError{
			Subcommand: "design",
			Reason:     ReasonLength,
			Detail:     fmt.Sprintf("Sequence length must be %d-%d bp (got %d bp).", MinDesignLength, MaxDesignLength, n),
		}
	}
	return model.Design{Sequence: seq, Length: n, Species: species}, nil
}

func parseCheck(rest string) (model.Command, error) {
	if rest == "" {
		return nil, missing("check", "Missing sequence. Usage: `/crispr check <20bp_sequence> [species]`")
	}
	seq, species := splitTrailingSpecies(rest)
	seq = strings.ToUpper(strings.TrimSpace(seq))
	if !isProtospacer(seq) {
		return nil, &ValidationError{
			Subcommand: "check",
			Reason:     ReasonFormat,
			Detail:     fmt.Sprintf("Sequence must be exactly %d bases (A/C/G/T only). Got %d chars.", ProtospacerLength, len([]rune(seq))),
		}
	}
	return model.Check{Sequence: seq, Species: species}, nil
}

func parsePredesign(rest string) (model.Command, error) {
	parts := splitN(rest, 2)
	if len(parts) == 0 {
		return nil, missing("predesign", "Missing gene symbol. Usage: `/crispr predesign <gene_symbol> [species]`")
	}
	cmd := model.Predesign{GeneSymbol: strings.ToUpper(parts[0]), Species: model.DefaultSpecies}
	if len(parts) == 2 {
		if sp, ok := model.ParseSpecies(parts[1]); ok {
			cmd.Species = sp
		}
	}
	return cmd, nil
}

// splitTrailingSpecies consumes the last token of s as the species when it
// names a supported one. Otherwise all of s is returned with the default.
func splitTrailingSpecies(s string) (string, model.Species) {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	idx := strings.LastIndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return s, model.DefaultSpecies
	}
	if sp, ok := model.ParseSpecies(s[idx+1:]); ok {
		return strings.TrimRightFunc(s[:idx], unicode.IsSpace), sp
	}
	return s, model.DefaultSpecies
}

// PureLength counts sequence characters, skipping FASTA header lines and
// whitespace.
func PureLength(seq string) int {
	n := 0
	for _, line := range strings.Split(seq, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, ">") {
			continue
		}
		for _, r := range line {
			if !unicode.IsSpace(r) {
				n++
			}
		}
	}
	return n
}

func isProtospacer(seq string) bool {
	if len(seq) != ProtospacerLength {
		return false
	}
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'A', 'C', 'G', 'T':
		default:
			return false
		}
	}
	return true
}

// splitN splits s at whitespace into at most n parts. The last part keeps its
// inner whitespace, including newlines.
func splitN(s string, n int) []string {
	var out []string
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	for s != "" {
		if len(out) == n-1 {
			out = append(out, strings.TrimRightFunc(s, unicode.IsSpace))
			break
		}
		idx := strings.IndexFunc(s, unicode.IsSpace)
		if idx < 0 {
			out = append(out, s)
			break
		}
		out = append(out, s[:idx])
		s = strings.TrimLeftFunc(s[idx:], unicode.IsSpace)
	}
	return out
}

func missing(sub, detail string) *ValidationError {
	return &ValidationError{Subcommand: sub, Reason: ReasonMissing, Detail: detail}
}
